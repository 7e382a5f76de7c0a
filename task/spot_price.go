package task

import (
	"context"
	"log/slog"
	"time"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/hours"
	"github.com/angas/energinet-go/mqtt"
)

func NewSpotPriceTask(logger *slog.Logger, client *energinet.Client, publisher *mqtt.Publisher, priceArea string) func() {
	return func() { runSpotPriceTask(logger, client, publisher, priceArea) }
}

func runSpotPriceTask(logger *slog.Logger, client *energinet.Client, publisher *mqtt.Publisher, priceArea string) {
	logger.Debug("running spot price task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Covers the rest of today plus the day-ahead auction results.
	start := hours.TruncateHour(time.Now())
	end := start.AddDate(0, 0, 2)

	prices, err := client.SpotPrices(ctx, start, end, priceArea)
	if err != nil {
		logger.Error("error fetching spot prices", slog.Any("error", err))
		return
	}

	if publisher != nil {
		if err := publisher.Publish("spot_prices", prices); err != nil {
			logger.Error("error publishing spot prices", slog.Any("error", err))
			return
		}
	}

	logger.Info("spot price task done", slog.Int("noOfHoursFetched", len(prices)))
}
