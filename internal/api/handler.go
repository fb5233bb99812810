// internal/api/handler.go
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github-trends/internal/database"
	"github-trends/internal/discovery"
	custom_errors "github-trends/internal/errors"
	"github-trends/internal/partition"
	"github-trends/internal/scoring"
)

// Discoverer runs one discovery invocation.
type Discoverer interface {
	Run(ctx context.Context) (discovery.Summary, error)
}

// Scorer runs one scoring pass.
type Scorer interface {
	Run(ctx context.Context) (scoring.Summary, error)
}

// Seeder runs one seeding pass.
type Seeder interface {
	Run(ctx context.Context) (partition.SeedResult, error)
}

// Jobs are the pipeline invocations exposed as trigger endpoints.
type Jobs struct {
	Discover Discoverer
	Score    Scorer
	Seed     Seeder
}

// Handler is the container for API dependencies.
type Handler struct {
	db     database.Querier
	jobs   Jobs
	secret string
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Querier, jobs Jobs, secret string, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:     db,
		jobs:   jobs,
		secret: secret,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		// Trigger endpoints run as long as the invocation needs.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSecret)
			r.Get("/jobs/discover", h.runDiscover)
			r.Post("/jobs/discover", h.runDiscover)
			r.Get("/jobs/score", h.runScore)
			r.Post("/jobs/score", h.runScore)
			r.Get("/jobs/seed", h.runSeed)
			r.Post("/jobs/seed", h.runSeed)
			r.Post("/tasks/{id}/reset", h.resetTask)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/trends", h.getTrends)
			r.Get("/repos/{id}/snapshots", h.getSnapshots)
			r.Get("/tasks/stats", h.getTaskStats)
			r.Get("/runs", h.getRuns)
		})
	})

	return r
}

// requireSecret rejects requests whose ?secret= does not match the trigger
// secret before any handler runs.
func (h *Handler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("secret")
		if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.logger.Warn("Rejected trigger request", "path", r.URL.Path, "remote", r.RemoteAddr)
			respondWithError(w, http.StatusUnauthorized, custom_errors.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runDiscover handles GET|POST /v1/jobs/discover?secret=
func (h *Handler) runDiscover(w http.ResponseWriter, r *http.Request) {
	sum, err := h.jobs.Discover.Run(r.Context())
	if err != nil {
		respondWithJobError(w, err, sum)
		return
	}
	respondWithJSON(w, http.StatusOK, sum)
}

// runScore handles GET|POST /v1/jobs/score?secret=
func (h *Handler) runScore(w http.ResponseWriter, r *http.Request) {
	sum, err := h.jobs.Score.Run(r.Context())
	if err != nil {
		respondWithJobError(w, err, sum)
		return
	}
	respondWithJSON(w, http.StatusOK, sum)
}

// runSeed handles GET|POST /v1/jobs/seed?secret=
func (h *Handler) runSeed(w http.ResponseWriter, r *http.Request) {
	res, err := h.jobs.Seed.Run(r.Context())
	if err != nil {
		respondWithJobError(w, err, res)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// getTrends returns trend rows ranked by score.
// GET /v1/trends?max_stars=N&min_growth=N&limit=N
func (h *Handler) getTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	maxStars, err := optionalInt(q.Get("max_stars"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'max_stars' parameter. Must be an integer.")
		return
	}
	minGrowth, err := optionalInt(q.Get("min_growth"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'min_growth' parameter. Must be an integer.")
		return
	}
	limit, ok := parseLimit(q.Get("limit"), 50, 500)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 500.")
		return
	}

	trends, err := h.db.ListTrends(r.Context(), database.ListTrendsParams{
		MaxStars:  maxStars,
		MinGrowth: minGrowth,
		RowLimit:  int32(limit),
	})
	if err != nil {
		h.logger.Error("Failed to list trends", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if trends == nil {
		trends = []database.ListTrendsRow{}
	}

	respondWithJSON(w, http.StatusOK, trends)
}

// getSnapshots returns a repository's snapshot time series, newest first.
// GET /v1/repos/{id}/snapshots?limit=N
func (h *Handler) getSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid repository id.")
		return
	}
	limit, ok := parseLimit(r.URL.Query().Get("limit"), 90, 1000)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 1000.")
		return
	}

	if _, err := h.db.GetRepository(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "repo_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	snapshots, err := h.db.ListSnapshotsByRepository(r.Context(), database.ListSnapshotsByRepositoryParams{
		RepoID: id,
		Limit:  int32(limit),
	})
	if err != nil {
		h.logger.Error("Failed to list snapshots", "repo_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if snapshots == nil {
		snapshots = []database.Snapshot{}
	}

	respondWithJSON(w, http.StatusOK, snapshots)
}

// getTaskStats returns the number of tasks in each status.
// GET /v1/tasks/stats
func (h *Handler) getTaskStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.CountSearchTasksByStatus(r.Context())
	if err != nil {
		h.logger.Error("Failed to count tasks", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Total
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// resetTask puts a task back to ready at page 1 with its failures cleared.
// POST /v1/tasks/{id}/reset?secret=
func (h *Handler) resetTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	n, err := h.db.ResetSearchTask(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to reset task", "task_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if n == 0 {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}

	h.logger.Info("Task reset", "task_id", id)
	respondWithJSON(w, http.StatusOK, map[string]any{"id": id, "status": "ready"})
}

// getRuns returns the most recent run logs.
// GET /v1/runs?limit=N
func (h *Handler) getRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r.URL.Query().Get("limit"), 20, 200)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 200.")
		return
	}

	runs, err := h.db.ListRunLogs(r.Context(), int32(limit))
	if err != nil {
		h.logger.Error("Failed to list run logs", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if runs == nil {
		runs = []database.RunLog{}
	}

	respondWithJSON(w, http.StatusOK, runs)
}

func optionalInt(s string) (pgtype.Int4, error) {
	if s == "" {
		return pgtype.Int4{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return pgtype.Int4{}, err
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}, nil
}

func parseLimit(s string, def, maxLimit int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > maxLimit {
		return 0, false
	}
	return n, true
}
