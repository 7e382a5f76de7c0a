package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/energinet-go/cache"
)

func NewMaintenanceTask(logger *slog.Logger, respCache *cache.Cache) func() {
	return func() {
		logger.Debug("running maintenance task...")

		if respCache == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		rows, err := respCache.Purge(ctx)
		if err != nil {
			logger.Error("cache maintenance error", slog.Any("error", err))
			return
		}

		logger.Info("maintenance task done", slog.Int64("purgedEntries", rows))
	}
}
