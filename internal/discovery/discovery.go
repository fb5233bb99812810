// internal/discovery/discovery.go
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github-trends/internal/database"
	custom_errors "github-trends/internal/errors"
	"github-trends/internal/github"
	"github-trends/internal/model"
	"github-trends/internal/partition"
	"github-trends/internal/runlog"
)

// searchResultCap is the most results the search API will page through for one query.
const searchResultCap = 1000

// Searcher issues one page of a repository search.
type Searcher interface {
	SearchRepositories(ctx context.Context, q github.SearchQuery) (*github.SearchResult, error)
}

// Seeder creates missing search tasks for a plan.
type Seeder interface {
	Seed(ctx context.Context, plan partition.Plan) (partition.SeedResult, error)
}

// Options bound the work done by one invocation.
type Options struct {
	MaxTasks        int
	MaxPagesPerTask int
	PageSize        int
	Concurrency     int
	MaxFailures     int
	// SeedOnRun seeds Plan before claiming, so an empty queue fills itself.
	SeedOnRun bool
	Plan      partition.Plan
}

// Summary is returned by every invocation.
type Summary struct {
	RunID      string                `json:"run_id"`
	Seeded     *partition.SeedResult `json:"seeded,omitempty"`
	Tasks      int                   `json:"tasks"`
	Pages      int                   `json:"pages"`
	Upserted   int                   `json:"upserted"`
	Skipped    int                   `json:"skipped"`
	Errors     int                   `json:"errors"`
	Done       int                   `json:"done"`
	NeedsSplit int                   `json:"needs_split"`
	Continued  int                   `json:"continued"`
	Failed     int                   `json:"failed"`
	Disabled   int                   `json:"disabled"`
}

// Driver runs discovery invocations: seed, claim, crawl, record.
type Driver struct {
	store    database.Store
	searcher Searcher
	seeder   Seeder
	recorder *runlog.Recorder
	logger   *slog.Logger
	opts     Options
	now      func() time.Time
}

// NewDriver creates a Driver. seeder may be nil when opts.SeedOnRun is false.
func NewDriver(store database.Store, searcher Searcher, seeder Seeder, recorder *runlog.Recorder, logger *slog.Logger, opts Options) *Driver {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxPagesPerTask < 1 {
		opts.MaxPagesPerTask = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 100
	}
	return &Driver{
		store:    store,
		searcher: searcher,
		seeder:   seeder,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// lastPage is the highest page the search API serves at the configured page size.
func (d *Driver) lastPage() int {
	return searchResultCap / d.opts.PageSize
}

// Run performs one invocation. Task-level failures are absorbed into the
// summary; an error is returned only when the invocation itself failed.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New()
	logger := d.logger.With("run_id", runID.String(), "endpoint", runlog.EndpointDiscover)
	started := d.now()
	sum := Summary{RunID: runID.String()}

	err := d.run(ctx, logger, &sum)

	entry := runlog.Entry{
		RunID:      runID,
		Endpoint:   runlog.EndpointDiscover,
		StartedAt:  started,
		FinishedAt: d.now(),
		OK:         err == nil,
		Tasks:      sum.Tasks,
		Pages:      sum.Pages,
		Upserted:   sum.Upserted,
		Skipped:    sum.Skipped,
		Errors:     sum.Errors,
	}
	if err != nil {
		entry.Message = err.Error()
		logger.Error("Discovery run failed", "error", err)
	} else {
		logger.Info("Discovery run finished",
			"tasks", sum.Tasks, "pages", sum.Pages, "upserted", sum.Upserted,
			"errors", sum.Errors, "done", sum.Done, "needs_split", sum.NeedsSplit)
	}
	if d.recorder != nil {
		d.recorder.Record(ctx, entry)
	}
	return sum, err
}

func (d *Driver) run(ctx context.Context, logger *slog.Logger, sum *Summary) error {
	if d.opts.SeedOnRun && d.seeder != nil {
		seeded, err := d.seeder.Seed(ctx, d.opts.Plan)
		if err != nil {
			return fmt.Errorf("ensure seed: %w", err)
		}
		sum.Seeded = &seeded
	}

	tasks, err := d.store.ClaimSearchTasks(ctx, int32(d.opts.MaxTasks))
	if err != nil {
		return fmt.Errorf("claim tasks: %w", err)
	}
	sum.Tasks = len(tasks)
	if len(tasks) == 0 {
		logger.Info("No tasks eligible")
		return nil
	}
	logger.Info("Claimed tasks", "count", len(tasks), "concurrency", d.opts.Concurrency)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := d.crawlTask(gctx, logger, task)
			mu.Lock()
			sum.add(res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Summary) add(r taskResult) {
	s.Pages += r.pages
	s.Upserted += r.upserted
	s.Skipped += r.skipped
	s.Errors += r.errors
	switch r.outcome {
	case outcomeDone:
		s.Done++
	case outcomeNeedsSplit:
		s.NeedsSplit++
	case outcomeContinued:
		s.Continued++
	case outcomeFailed:
		s.Failed++
	case outcomeDisabled:
		s.Disabled++
	}
}

// outcome is how a task left one crawl.
type outcome int

const (
	outcomeAbandoned outcome = iota
	outcomeDone
	outcomeNeedsSplit
	outcomeContinued
	outcomeFailed
	outcomeDisabled
)

type taskResult struct {
	outcome  outcome
	pages    int
	upserted int
	skipped  int
	errors   int
}

// crawlTask fetches up to MaxPagesPerTask pages of one claimed task, starting
// at its stored cursor, and moves the task to its next status.
func (d *Driver) crawlTask(ctx context.Context, runLogger *slog.Logger, task database.SearchTask) taskResult {
	logger := runLogger.With("task_id", task.ID)
	q := queryFor(task, d.opts.PageSize)
	logger.Info("Crawling task", "page", q.Page, "query", q.String())

	var res taskResult
	for n := 0; n < d.opts.MaxPagesPerTask; n++ {
		page, err := d.searcher.SearchRepositories(ctx, q)
		if err != nil {
			return d.fail(ctx, logger, task, res, fmt.Errorf("search page %d: %w", q.Page, err))
		}
		res.pages++

		upserted, skipped, errs := d.storePage(ctx, logger, page)
		res.upserted += upserted
		res.skipped += skipped
		res.errors += errs

		switch {
		case len(page.Items) < q.PerPage, !page.Incomplete && q.Page*q.PerPage >= page.Total:
			if err := d.store.CompleteSearchTask(ctx, task.ID); err != nil {
				return d.fail(ctx, logger, task, res, fmt.Errorf("complete task: %w", err))
			}
			logger.Info("Task exhausted", "pages", res.pages, "total", page.Total)
			res.outcome = outcomeDone
			return res

		case q.Page >= d.lastPage():
			if err := d.store.MarkSearchTaskNeedsSplit(ctx, database.MarkSearchTaskNeedsSplitParams{
				ID: task.ID, Page: int32(q.Page),
			}); err != nil {
				return d.fail(ctx, logger, task, res, fmt.Errorf("mark needs_split: %w", err))
			}
			logger.Warn("Task exceeds the search result cap", "total", page.Total, "page", q.Page)
			res.outcome = outcomeNeedsSplit
			return res
		}

		q.Page++
		if n < d.opts.MaxPagesPerTask-1 {
			err = d.store.SetSearchTaskPage(ctx, database.SetSearchTaskPageParams{ID: task.ID, Page: int32(q.Page)})
		} else {
			err = d.store.RequeueSearchTask(ctx, database.RequeueSearchTaskParams{ID: task.ID, Page: int32(q.Page)})
		}
		if err != nil {
			return d.fail(ctx, logger, task, res, fmt.Errorf("advance cursor: %w", err))
		}
	}

	logger.Info("Page budget used, task requeued", "next_page", q.Page)
	res.outcome = outcomeContinued
	return res
}

// storePage writes every item of page. A failing item is logged and counted;
// the rest of the page is still written.
func (d *Driver) storePage(ctx context.Context, logger *slog.Logger, page *github.SearchResult) (upserted, skipped, errs int) {
	seenAt := d.now()
	for i := range page.Items {
		item := &page.Items[i]
		if err := item.Validate(); err != nil {
			logger.Warn("Skipping invalid search item", "full_name", item.FullName, "error", err)
			skipped++
			continue
		}
		if err := d.store.ExecTx(ctx, func(q database.Querier) error {
			return upsertItem(ctx, q, item, seenAt)
		}); err != nil {
			if ctx.Err() != nil {
				return upserted, skipped, errs + 1
			}
			logger.Error("Failed to store repository", "repo_id", item.GithubRepoID, "full_name", item.FullName, "error", err)
			errs++
			continue
		}
		upserted++
	}
	return upserted, skipped, errs
}

// fail records a task-level failure. The task returns to ready, or becomes
// disabled once it has failed MaxFailures times in a row. A cancelled context
// is treated like a crash and leaves the task as it is.
func (d *Driver) fail(ctx context.Context, logger *slog.Logger, task database.SearchTask, res taskResult, cause error) taskResult {
	res.errors++
	if ctx.Err() != nil {
		logger.Warn("Task interrupted", "error", cause)
		res.outcome = outcomeAbandoned
		return res
	}

	status, err := d.store.FailSearchTask(ctx, database.FailSearchTaskParams{
		ID:          task.ID,
		LastError:   textOf(truncate(cause.Error(), maxErrorLen)),
		MaxFailures: int32(d.opts.MaxFailures),
	})
	if err != nil {
		logger.Error("Failed to record task failure", "error", errors.Join(cause, err))
		res.outcome = outcomeAbandoned
		return res
	}

	if custom_errors.IsRetryExhausted(cause) {
		logger = logger.With("retries_exhausted", true)
	}
	if model.TaskStatus(status) == model.TaskDisabled {
		logger.Error("Task disabled after repeated failures", "failures", task.ConsecutiveFailures+1, "error", cause)
		res.outcome = outcomeDisabled
		return res
	}
	logger.Warn("Task failed, returned to queue", "failures", task.ConsecutiveFailures+1, "error", cause)
	res.outcome = outcomeFailed
	return res
}
