// Command upcast backfills the selection mode on legacy combo line-item
// records that predate the field. Rows carrying a choice group become
// choice slots, the rest become fixed. This is a one-time offline batch,
// not runtime logic.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/infrastructure/config"
	"github.com/quickserve/backend/internal/infrastructure/logger"
	"github.com/quickserve/backend/internal/infrastructure/persistence"
)

func main() {
	var (
		dryRun   bool
		logLevel string
	)
	flag.BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	result, err := Upcast(db.DB, dryRun)
	if err != nil {
		log.Fatal("Upcast failed", zap.Error(err))
	}

	log.Info("Upcast finished",
		zap.Bool("dry_run", dryRun),
		zap.Int64("pending", result.Pending),
		zap.Int64("upcast_to_choice", result.Choice),
		zap.Int64("upcast_to_fixed", result.Fixed),
	)
}
