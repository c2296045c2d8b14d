// Package internal provides the main application initialization and the
// extraction pipeline run.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starford/ansuz/internal/export"
	"github.com/starford/ansuz/internal/extract"
	"github.com/starford/ansuz/internal/loader"
	"github.com/starford/ansuz/internal/storage"
)

// Run executes one extraction with the given options: read the collection,
// consolidate it into a snapshot, then hand the snapshot to the configured
// consumers (CSV export, graph store load).
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Structured JSON logger.
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.Level(),
		}))
		slog.SetDefault(logger)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		slog.String("collection_path", cfg.Graph.Path),
		slog.String("export_dir", cfg.Export.Dir),
		slog.String("store_path", cfg.Store.Path),
		slog.String("log_level", cfg.App.LogLevel))

	store, err := storage.NewFS(cfg.Graph.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	runner := extract.NewRunner(store, extract.Options{
		Separator:  cfg.Graph.Separator,
		PublicKey:  cfg.Graph.PublicKey,
		Directives: cfg.Graph.Directives,
		Workers:    cfg.Graph.Workers,
	}, logger)

	started := time.Now()
	snap, report, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Extraction failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Extraction finished",
		slog.Int("notes_processed", report.NotesProcessed),
		slog.Int("notes_failed", report.NotesFailed),
		slog.Int("pages", snap.Stats.Pages),
		slog.Int("placeholders", snap.Stats.Placeholders),
		slog.Int("blocks", snap.Stats.Blocks),
		slog.Int("resources", snap.Stats.Resources),
		slog.Int("relationships", snap.Stats.Relationships),
		slog.Int("dangling_block_refs", snap.Stats.DanglingRefs),
		slog.String("checksum", snap.Checksum()),
		slog.Duration("elapsed", time.Since(started)))

	if dir := cfg.Export.Dir; dir != "" {
		if err := export.WriteDir(dir, snap); err != nil {
			return fmt.Errorf("export tables: %w", err)
		}
		logger.Info("Tables exported", slog.String("dir", dir))
	}

	if path := cfg.Store.Path; path != "" {
		db, err := loader.Open(path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		if err := db.Load(snap); err != nil {
			return fmt.Errorf("load store: %w", err)
		}
		logger.Info("Graph loaded", slog.String("path", path))
	}

	return nil
}
