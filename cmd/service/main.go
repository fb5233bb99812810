// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github-trends/internal/config"
	"github-trends/internal/database"
	"github-trends/internal/discovery"
	"github-trends/internal/github"
	"github-trends/internal/partition"
	"github-trends/internal/runlog"
	"github-trends/internal/scoring"
)

var rootCmd = &cobra.Command{
	Use:   "service",
	Short: "GitHub trend discovery pipeline",
	Long: `Discovers public repositories through the GitHub search API, records daily
star snapshots, and ranks repositories by their 14-day growth.

Every subcommand reads its configuration from the environment or a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, discoverCmd, scoreCmd, seedCmd, migrateCmd, trendsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// app holds the components shared by every subcommand. It is built once per
// process and owns the connection pool.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	store    *database.PgStore
	discover *discovery.Driver
	score    *scoring.Driver
	seed     *partition.SeedJob
}

func newApp(ctx context.Context) (*app, error) {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 3. Initialize database connection
	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")

	// 4. Initialize application components
	ghClient, err := github.NewClient(cfg.GithubToken, logger, github.Options{
		RequestDelay:         cfg.RequestDelay,
		BackoffBase:          cfg.BackoffBase,
		TransportBackoffBase: cfg.TransportBackoffBase,
		MaxAttempts:          cfg.SearchMaxAttempts,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	store := database.NewStore(pool)
	recorder := runlog.NewRecorder(store, logger)
	plan := partition.Plan{
		Start:       cfg.SeedStart,
		PushedAfter: cfg.SeedPushedAfterTime,
		MinStars:    cfg.SeedMinStars,
	}
	seeder := partition.NewSeeder(store, logger, cfg.RefreshEveryDays)

	return &app{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		store:  store,
		discover: discovery.NewDriver(store, ghClient, seeder, recorder, logger, discovery.Options{
			MaxTasks:        cfg.MaxTasksPerRun,
			MaxPagesPerTask: cfg.MaxPagesPerTask,
			PageSize:        cfg.PageSize,
			Concurrency:     cfg.TaskConcurrency,
			MaxFailures:     cfg.MaxTaskFailures,
			SeedOnRun:       cfg.SeedOnDiscover,
			Plan:            plan,
		}),
		score: scoring.NewDriver(store, recorder, logger, cfg.TrendLookbackDays),
		seed:  partition.NewSeedJob(seeder, plan, recorder, logger),
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

func runMigrations(path, dbURL string) error {
	m, err := migrate.New(path, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
