// Command init-db creates the WhatsFlow database schema and optionally
// seeds the default pricing plans.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"whatsflow/internal/config"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "database file (defaults to paths.database_file from config)")
	seed := flag.Bool("seed-pricing", false, "insert the default pricing plans when none exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}

	path := *dbPath
	if path == "" {
		paths, err := cfg.GetPaths()
		if err != nil {
			logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
			os.Exit(1)
		}
		path = paths.DatabaseFile
	}

	if err := run(context.Background(), path, *seed, os.Stdout, logger); err != nil {
		logger.Error("Database initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, seed bool, out io.Writer, logger *slog.Logger) error {
	db, err := store.Open(ctx, path, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database ready at %s\n", path)

	if !seed {
		return nil
	}

	n, err := db.SeedDefaultPlans(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "Pricing data already exists. Skipping initialization.")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d pricing plans.\n", n)
	return nil
}
