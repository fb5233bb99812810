// cmd/service/commands.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github-trends/internal/api"
	"github-trends/internal/database"
)

var (
	trendsMaxStars  int
	trendsMinGrowth int
	trendsLimit     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long:  `Apply pending migrations, then serve the trigger endpoints and the read API until interrupted.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery invocation",
	Long:  `Seed missing partitions (unless SEED_ON_DISCOVER=false), claim search tasks and crawl them.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, func(ctx context.Context, a *app) (any, error) {
			res, err := a.discover.Run(ctx)
			return res, err
		})
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute every trend row",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, func(ctx context.Context, a *app) (any, error) {
			res, err := a.score.Run(ctx)
			return res, err
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert missing search tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, func(ctx context.Context, a *app) (any, error) {
			res, err := a.seed.Run(ctx)
			return res, err
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := runMigrations(a.cfg.MigrationsPath, a.cfg.DBURL); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		a.logger.Info("Database migrations applied successfully")
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print the ranked trend table",
	Args:  cobra.NoArgs,
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().IntVar(&trendsMaxStars, "max-stars", 0, "only repositories with at most this many stars (0 = no limit)")
	trendsCmd.Flags().IntVar(&trendsMinGrowth, "min-growth", 0, "only repositories that gained at least this many stars (0 = no limit)")
	trendsCmd.Flags().IntVar(&trendsLimit, "limit", 25, "number of rows")
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// runJob runs one invocation and prints its summary as JSON.
func runJob(cmd *cobra.Command, job func(context.Context, *app) (any, error)) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res, jobErr := job(ctx, a)
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	return jobErr
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := runMigrations(a.cfg.MigrationsPath, a.cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	a.logger.Info("Database migrations applied successfully")

	router := api.NewRouter(a.store, api.Jobs{
		Discover: a.discover,
		Score:    a.score,
		Seed:     a.seed,
	}, a.cfg.CronSecret, a.logger)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutdown signal received. Exiting.")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func runTrends(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	params := database.ListTrendsParams{RowLimit: int32(trendsLimit)}
	if trendsMaxStars > 0 {
		params.MaxStars = pgtype.Int4{Int32: int32(trendsMaxStars), Valid: true}
	}
	if trendsMinGrowth > 0 {
		params.MinGrowth = pgtype.Int4{Int32: int32(trendsMinGrowth), Valid: true}
	}
	rows, err := a.store.ListTrends(ctx, params)
	if err != nil {
		return fmt.Errorf("list trends: %w", err)
	}

	renderTrends(cmd.OutOrStdout(), rows)
	return nil
}

func renderTrends(w io.Writer, rows []database.ListTrendsRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Repository", "Language", "Stars", "+14d", "%14d", "Score", "New"})
	for i, r := range rows {
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.FullName,
			orDash(r.Language.String, r.Language.Valid),
			strconv.Itoa(int(r.StarsNow)),
			orDash(strconv.Itoa(int(r.AbsGrowth14d.Int32)), r.AbsGrowth14d.Valid),
			orDash(fmt.Sprintf("%.1f%%", r.PctGrowth14d.Float64*100), r.PctGrowth14d.Valid),
			fmt.Sprintf("%.2f", r.Score),
			yesNo(r.IsNew),
		})
	}
	table.Render()
}

func orDash(s string, ok bool) string {
	if !ok {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
