package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/j-veylop/pihole-sense/internal/config"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/pihole"
	"github.com/j-veylop/pihole-sense/internal/services"
	"github.com/j-veylop/pihole-sense/internal/ui/components"
	"github.com/j-veylop/pihole-sense/internal/version"
)

// Retry budget of a one-shot report.
const (
	summaryAttempts   = 3
	summaryRetryDelay = time.Second
)

// runSummary fetches once and prints a report to stdout.
func runSummary(args []string) error {
	var opts options
	cfg, err := loadConfig("summary", args, &opts)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Println(version.Info())
		return nil
	}

	logCloser, err := setupLogging(cfg, config.BackendMemory)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	mgr, err := services.NewManager(cfg,
		pihole.WithRetry(summaryAttempts, summaryAttempts, summaryRetryDelay))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := mgr.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}

	fmt.Print(components.RenderSummary(components.Summary{
		Snapshot: snap,
		Interval: cfg.Display.Interval,
		Width:    opts.width,
		Now:      time.Now(),
	}))
	return nil
}
