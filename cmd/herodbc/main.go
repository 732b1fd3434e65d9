package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herotc/hero-dbc-parser/internal/config"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/parse"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"generated_dir", cfg.Paths.GeneratedDir,
		"parsed_dir", cfg.Paths.ParsedDir,
		"workers", cfg.Parse.Workers,
		"chunk_size", cfg.Parse.ChunkSize,
	)

	units, err := selectUnits(cfg.Parse.Units)
	if err != nil {
		slog.Error("invalid unit selection", "error", err)
		os.Exit(1)
	}

	slog.Info("units registered",
		"count", parse.Count(),
		"groups", len(parse.Groups()),
		"selected", len(units),
	)
	for _, group := range parse.Groups() {
		slog.Debug("unit group", "group", group, "units", len(parse.ByGroup(group)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := parse.Env{
		GeneratedDir: cfg.Paths.GeneratedDir,
		ParsedDir:    cfg.Paths.ParsedDir,
		AddonDir:     cfg.Paths.AddonDir,
		AddonDevDir:  cfg.Paths.AddonDevDir,
		Workers:      cfg.Parse.Workers,
		ChunkSize:    cfg.Parse.ChunkSize,
		LuaBatchSize: cfg.Parse.LuaBatchSize,
	}

	runID := logging.NewRunID()
	var failed []string
	start := time.Now()
	for _, unit := range units {
		if ctx.Err() != nil {
			slog.Warn("run interrupted", "run_id", runID)
			os.Exit(1)
		}

		log := slog.With("run_id", runID, "unit", unit.Name, "group", unit.Group)
		unitCtx := logging.NewContext(ctx, log)

		unitStart := time.Now()
		if err := unit.Run(unitCtx, env); err != nil {
			log.Error("unit failed", "error", err, "elapsed", time.Since(unitStart))
			failed = append(failed, unit.Name)
			continue
		}
		log.Info("unit finished", "elapsed", time.Since(unitStart))
	}

	if len(failed) > 0 {
		slog.Error("run finished with failures",
			"run_id", runID,
			"failed", failed,
			"units", len(units),
			"elapsed", time.Since(start),
		)
		os.Exit(1)
	}
	slog.Info("run finished", "run_id", runID, "units", len(units), "elapsed", time.Since(start))
}

// selectUnits resolves the configured unit names, or every registered
// unit when the list is empty.
func selectUnits(names []string) ([]parse.Unit, error) {
	if len(names) == 0 {
		return parse.All(), nil
	}
	units := make([]parse.Unit, 0, len(names))
	for _, name := range names {
		unit, ok := parse.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", name)
		}
		units = append(units, unit)
	}
	return units, nil
}
