// internal/partition/seeder.go
package partition

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github-trends/internal/database"
	"github-trends/internal/model"
)

// SeedResult counts what a seeding pass did.
type SeedResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Seeder inserts the partitions of a Plan that are not yet queued.
//
// Re-running with the same plan is a no-op: existing signatures are read
// first, and the insert itself is ON CONFLICT DO NOTHING against the
// signature constraint, so two seeders racing on a novel partition still
// produce one row.
type Seeder struct {
	store            database.Store
	logger           *slog.Logger
	refreshEveryDays int
	now              func() time.Time
}

// NewSeeder creates a Seeder. refreshEveryDays is stamped on every new task.
func NewSeeder(store database.Store, logger *slog.Logger, refreshEveryDays int) *Seeder {
	return &Seeder{
		store:            store,
		logger:           logger,
		refreshEveryDays: refreshEveryDays,
		now:              time.Now,
	}
}

// Seed creates missing tasks for plan.
func (s *Seeder) Seed(ctx context.Context, plan Plan) (SeedResult, error) {
	var res SeedResult

	candidates := plan.Partitions(s.now())

	rows, err := s.store.ListSearchTaskSignatures(ctx)
	if err != nil {
		return res, fmt.Errorf("list task signatures: %w", err)
	}
	existing := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		existing[rowSignature(r)] = struct{}{}
	}

	for _, p := range candidates {
		key := signature(p)
		if _, ok := existing[key]; ok {
			res.Skipped++
			continue
		}

		n, err := s.store.CreateSearchTask(ctx, createParams(p, s.refreshEveryDays))
		if err != nil {
			return res, fmt.Errorf("create task %s: %w", key, err)
		}
		if n == 0 {
			// Another seeder inserted it between our read and write.
			res.Skipped++
		} else {
			res.Created++
		}
		existing[key] = struct{}{}
	}

	s.logger.Info("Seeding finished", "candidates", len(candidates), "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func createParams(p model.Partition, refreshEveryDays int) database.CreateSearchTaskParams {
	params := database.CreateSearchTaskParams{
		WindowFrom:       p.Window.From,
		WindowTo:         p.Window.To,
		MinStars:         int32(p.Band.Min),
		RefreshEveryDays: int32(refreshEveryDays),
	}
	if p.Band.Max != nil {
		params.MaxStars = pgtype.Int4{Int32: int32(*p.Band.Max), Valid: true}
	}
	if p.PushedAfter != nil {
		params.PushedAfter = pgtype.Date{Time: *p.PushedAfter, Valid: true}
	}
	return params
}

func signature(p model.Partition) string {
	maxStars := ""
	if p.Band.Max != nil {
		maxStars = strconv.Itoa(*p.Band.Max)
	}
	pushed := ""
	if p.PushedAfter != nil {
		pushed = p.PushedAfter.Format(time.DateOnly)
	}
	return signatureKey(p.Window.From, p.Window.To, p.Band.Min, maxStars, pushed)
}

func rowSignature(r database.ListSearchTaskSignaturesRow) string {
	maxStars := ""
	if r.MaxStars.Valid {
		maxStars = strconv.Itoa(int(r.MaxStars.Int32))
	}
	pushed := ""
	if r.PushedAfter.Valid {
		pushed = r.PushedAfter.Time.Format(time.DateOnly)
	}
	return signatureKey(r.WindowFrom, r.WindowTo, int(r.MinStars), maxStars, pushed)
}

func signatureKey(from, to time.Time, minStars int, maxStars, pushed string) string {
	return fmt.Sprintf("%s..%s|%d..%s|%s", from.Format(time.DateOnly), to.Format(time.DateOnly), minStars, maxStars, pushed)
}
