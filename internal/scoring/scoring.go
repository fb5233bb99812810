// internal/scoring/scoring.go
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github-trends/internal/database"
	"github-trends/internal/runlog"
)

// Path names how pairs were read.
const (
	PathBatch    = "batch"
	PathFallback = "fallback"
)

// Summary is returned by every scoring invocation.
type Summary struct {
	RunID  string `json:"run_id"`
	Path   string `json:"path"`
	Scored int    `json:"scored"`
	New    int    `json:"new"`
	Errors int    `json:"errors"`
}

// Driver recomputes the trend row of every repository that has a snapshot.
type Driver struct {
	store        database.Store
	recorder     *runlog.Recorder
	logger       *slog.Logger
	lookbackDays int
	now          func() time.Time
}

func NewDriver(store database.Store, recorder *runlog.Recorder, logger *slog.Logger, lookbackDays int) *Driver {
	return &Driver{
		store:        store,
		recorder:     recorder,
		logger:       logger,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Run performs one scoring pass. Pairs are read in one statement when
// possible and per repository otherwise; both produce the same trends.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New()
	logger := d.logger.With("run_id", runID.String(), "endpoint", runlog.EndpointScore)
	started := d.now()
	sum := Summary{RunID: runID.String()}

	err := d.run(ctx, logger, &sum)

	entry := runlog.Entry{
		RunID:      runID,
		Endpoint:   runlog.EndpointScore,
		StartedAt:  started,
		FinishedAt: d.now(),
		OK:         err == nil,
		Upserted:   sum.Scored,
		Errors:     sum.Errors,
		Message:    sum.Path,
	}
	if err != nil {
		entry.Message = err.Error()
		logger.Error("Scoring run failed", "error", err)
	} else {
		logger.Info("Scoring run finished", "path", sum.Path, "scored", sum.Scored, "new", sum.New, "errors", sum.Errors)
	}
	if d.recorder != nil {
		d.recorder.Record(ctx, entry)
	}
	return sum, err
}

func (d *Driver) run(ctx context.Context, logger *slog.Logger, sum *Summary) error {
	pairs, err := d.batchPairs(ctx)
	sum.Path = PathBatch
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Batch pairing unavailable, scoring per repository", "error", err)
		sum.Path = PathFallback
		pairs, err = d.fallbackPairs(ctx, logger, sum)
		if err != nil {
			return err
		}
	}

	computedAt := d.now()
	for _, p := range pairs {
		g := Compute(p)
		if err := d.store.UpsertTrend(ctx, trendParams(p, g, computedAt)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to write trend", "repo_id", p.RepoID, "error", err)
			sum.Errors++
			continue
		}
		sum.Scored++
		if g.IsNew {
			sum.New++
		}
	}
	return nil
}

func (d *Driver) batchPairs(ctx context.Context) ([]Pair, error) {
	rows, err := d.store.ListSnapshotPairs(ctx, int32(d.lookbackDays))
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(rows))
	for _, r := range rows {
		p := Pair{RepoID: r.RepoID, StarsNow: int(r.StarsNow)}
		if r.StarsPrev.Valid {
			prev := int(r.StarsPrev.Int32)
			p.StarsPrev = &prev
		}
		if r.PrevCapturedAt.Valid {
			at := r.PrevCapturedAt.Time
			p.PrevCapturedAt = &at
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// fallbackPairs reads the same pairs as ListSnapshotPairs one repository at a
// time: the latest snapshot, and the latest one at least lookbackDays older.
func (d *Driver) fallbackPairs(ctx context.Context, logger *slog.Logger, sum *Summary) ([]Pair, error) {
	ids, err := d.store.ListRepositoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	pairs := make([]Pair, 0, len(ids))
	for _, id := range ids {
		cur, err := d.store.GetLatestSnapshot(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("Failed to read latest snapshot", "repo_id", id, "error", err)
			sum.Errors++
			continue
		}

		p := Pair{RepoID: id, StarsNow: int(cur.Stars)}
		prev, err := d.store.GetLatestSnapshotOnOrBefore(ctx, database.GetLatestSnapshotOnOrBeforeParams{
			RepoID: id,
			Cutoff: cur.CapturedOn.AddDate(0, 0, -d.lookbackDays),
		})
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("Failed to read lookback snapshot", "repo_id", id, "error", err)
			sum.Errors++
			continue
		default:
			stars := int(prev.Stars)
			at := prev.CapturedAt
			p.StarsPrev = &stars
			p.PrevCapturedAt = &at
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func trendParams(p Pair, g Growth, computedAt time.Time) database.UpsertTrendParams {
	params := database.UpsertTrendParams{
		RepoID:     p.RepoID,
		StarsNow:   int32(p.StarsNow),
		Score:      g.Score,
		IsNew:      g.IsNew,
		ComputedAt: computedAt,
	}
	if p.StarsPrev != nil {
		params.StarsPrev = pgtype.Int4{Int32: int32(*p.StarsPrev), Valid: true}
	}
	if p.PrevCapturedAt != nil {
		params.PrevCapturedAt = pgtype.Timestamptz{Time: *p.PrevCapturedAt, Valid: true}
	}
	if g.AbsGrowth != nil {
		params.AbsGrowth14d = pgtype.Int4{Int32: int32(*g.AbsGrowth), Valid: true}
	}
	if g.PctGrowth != nil {
		params.PctGrowth14d = pgtype.Float8{Float64: *g.PctGrowth, Valid: true}
	}
	return params
}
