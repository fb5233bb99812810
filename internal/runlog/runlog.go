// internal/runlog/runlog.go
package runlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github-trends/internal/database"
)

// Endpoint names recorded on run log rows.
const (
	EndpointDiscover = "discover"
	EndpointScore    = "score"
	EndpointSeed     = "seed"
)

// writeTimeout bounds the run log insert, which may run after the invocation's
// own context has expired.
const writeTimeout = 5 * time.Second

// Entry is one pipeline invocation.
type Entry struct {
	RunID      uuid.UUID
	Endpoint   string
	StartedAt  time.Time
	FinishedAt time.Time
	OK         bool
	Tasks      int
	Pages      int
	Upserted   int
	Skipped    int
	Errors     int
	Message    string
}

// Recorder appends run log rows. Recording is best-effort: a failed insert is
// logged and otherwise ignored.
type Recorder struct {
	store  database.Querier
	logger *slog.Logger
}

func NewRecorder(store database.Querier, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record writes e.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	params := database.CreateRunLogParams{
		RunID:      e.RunID,
		Endpoint:   e.Endpoint,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
		Ok:         e.OK,
		Tasks:      int32(e.Tasks),
		Pages:      int32(e.Pages),
		Upserted:   int32(e.Upserted),
		Skipped:    int32(e.Skipped),
		Errors:     int32(e.Errors),
		Message:    pgtype.Text{String: e.Message, Valid: e.Message != ""},
	}
	if err := r.store.CreateRunLog(ctx, params); err != nil {
		r.logger.Error("Failed to write run log", "run_id", e.RunID, "endpoint", e.Endpoint, "error", err)
	}
}
