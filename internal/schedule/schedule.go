// Package schedule drives automatic import runs and config hot-reload.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/starford/pebblesync/internal/apperr"
	"github.com/starford/pebblesync/internal/importer"
)

// Runner fires importer runs on a fixed interval until ctx is cancelled.
// An interval of zero disables the ticker; runOnStart triggers one run
// immediately. A tick that lands while a manual run is in flight is
// dropped, not queued.
func Runner(ctx context.Context, imp *importer.Importer, interval time.Duration, runOnStart bool, logger *slog.Logger) {
	if runOnStart {
		runOnce(ctx, imp, logger)
	}
	if interval <= 0 {
		logger.Info("schedule: auto-run disabled")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("schedule: auto-run enabled", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case <-ticker.C:
			runOnce(ctx, imp, logger)
		}
	}
}

func runOnce(ctx context.Context, imp *importer.Importer, logger *slog.Logger) {
	if _, err := imp.Run(ctx, false); err != nil {
		if errors.Is(err, apperr.ErrRunInProgress) {
			logger.Info("schedule: run already in flight, tick dropped")
			return
		}
		logger.Warn("schedule: auto-run failed", slog.String("error", err.Error()))
	}
}
