package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marvale/deskpilot/internal/app"
	"github.com/marvale/deskpilot/internal/config"
)

// runIngest loads documentation files into the knowledge base.
// The directory defaults to docs_dir from config and can be overridden
// with a positional argument: deskpilot ingest ./docs
func runIngest() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	dir := cfg.DocsDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}
	if dir == "" {
		return fmt.Errorf("no docs directory: pass one or set docs_dir in config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	result, err := a.Ingestor.IngestDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingesting %q: %w", dir, err)
	}

	fmt.Printf("Ingested %d files (%d chunks, %d stale pruned) in %s; %d skipped\n",
		result.FilesIngested, result.Chunks, result.ChunksPruned,
		result.Duration.Round(time.Millisecond), result.FilesSkipped)

	if total, err := a.Knowledge.Count(ctx); err == nil {
		fmt.Printf("Knowledge base now holds %d chunks\n", total)
	}
	return nil
}
