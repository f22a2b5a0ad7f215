// Package main provides the importer entry point.
// importer loads competitors, competitions and competition results from the
// data directory into the standings store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/standings/internal/config"
	"github.com/JonMunkholm/standings/internal/core"
	_ "github.com/JonMunkholm/standings/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/standings/internal/logging"
	"github.com/JonMunkholm/standings/internal/metrics"
	"github.com/JonMunkholm/standings/internal/schema"
	"github.com/JonMunkholm/standings/internal/store"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the importer command. It takes no flags and no
// arguments; everything is configured through the environment.
func newRootCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "importer",
		Short: "Import competitors, competitions and results into the standings store",
		Long: `importer reads the data directory and appends its contents to the store:

  <data>/players/players.csv                competitors
  <data>/events/**/<name>.csv               one competition per file
  <data>/events/**/<name>_results.csv       results of that competition

Rows whose competitor or competition cannot be found are skipped and listed.
Configuration comes from importer.yaml (or IMPORT_CONFIG), .env and the
environment: DB_DRIVER, DB_HOST, DB_NAME, DB_USER, DB_PASSWORD, SQLITE_PATH,
IMPORT_DATA_DIR, METRICS_TEXTFILE, LOG_LEVEL, LOG_FORMAT.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), out)
		},
	}
}

func run(ctx context.Context, out io.Writer) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
	log := logging.FromContext(ctx)

	log.Info("configuration loaded",
		"store", cfg.Database.Target(),
		"data_dir", cfg.Import.DataDir,
		"tables", registeredTables(),
	)

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fail(ctx, out, "failed to connect to store", err)
	}
	defer db.Close()

	// The PostgreSQL schema is managed elsewhere; a local SQLite store is
	// created on first use.
	if db.Dialect == store.SQLite {
		err = schema.Apply(ctx, db)
	} else {
		err = schema.Check(ctx, db)
	}
	if err != nil {
		return fail(ctx, out, "store schema not usable", err)
	}

	plan, err := core.Discover(cfg.Import.DataDir)
	if err != nil {
		return fail(ctx, out, "failed to read data directory", err)
	}
	log.Info("import plan ready", "competitions", len(plan.Competitions))

	reg := prometheus.NewRegistry()
	importer := core.NewImporter(db,
		core.WithOutput(out),
		core.WithMetrics(metrics.NewImportMetrics(reg)),
	)

	result, runErr := importer.Run(ctx, plan)

	if path := cfg.Import.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path, reg); err != nil {
			log.Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}

	if runErr != nil {
		return fail(ctx, out, "import failed", runErr)
	}

	log.Info("import complete",
		"steps", len(result.Steps),
		"competitors", result.Inserted(core.TableCompetitors),
		"competitions", result.Inserted(core.TableCompetitions),
		"results", result.Inserted(core.TableResults),
		"unresolved", result.Unresolved().Rows(),
	)
	return nil
}

// registeredTables returns the keys of the registered tables, sorted.
func registeredTables() []string {
	keys := make([]string, 0, core.TableCount())
	for _, def := range core.All() {
		keys = append(keys, def.Info.Key)
	}
	return keys
}

// fail logs err with its support code and prints the user-facing message.
func fail(ctx context.Context, out io.Writer, msg string, err error) error {
	um := core.MapError(err)
	logging.FromContext(ctx).Error(msg, "code", um.Code, "error", err)
	fmt.Fprintln(out, core.FormatUserError(err))
	return err
}
