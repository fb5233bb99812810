// internal/partition/job.go
package partition

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github-trends/internal/runlog"
)

// SeedJob runs the seeder for a fixed plan as a logged invocation.
type SeedJob struct {
	seeder   *Seeder
	plan     Plan
	recorder *runlog.Recorder
	logger   *slog.Logger
}

func NewSeedJob(seeder *Seeder, plan Plan, recorder *runlog.Recorder, logger *slog.Logger) *SeedJob {
	return &SeedJob{seeder: seeder, plan: plan, recorder: recorder, logger: logger}
}

// Run seeds the plan and records a run log row.
func (j *SeedJob) Run(ctx context.Context) (SeedResult, error) {
	runID := uuid.New()
	started := time.Now()

	res, err := j.seeder.Seed(ctx, j.plan)

	entry := runlog.Entry{
		RunID:      runID,
		Endpoint:   runlog.EndpointSeed,
		StartedAt:  started,
		FinishedAt: time.Now(),
		OK:         err == nil,
		Upserted:   res.Created,
		Skipped:    res.Skipped,
	}
	if err != nil {
		entry.Errors = 1
		entry.Message = err.Error()
		j.logger.Error("Seed run failed", "run_id", runID.String(), "error", err)
	}
	if j.recorder != nil {
		j.recorder.Record(ctx, entry)
	}
	return res, err
}
