package task

import (
	"context"
	"log/slog"
	"time"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/hours"
	"github.com/angas/energinet-go/mqtt"
)

func NewCo2Task(logger *slog.Logger, client *energinet.Client, publisher *mqtt.Publisher, priceArea string) func() {
	return func() { runCo2Task(logger, client, publisher, priceArea) }
}

func runCo2Task(logger *slog.Logger, client *energinet.Client, publisher *mqtt.Publisher, priceArea string) {
	logger.Debug("running co2 emission task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := hours.TruncateHour(time.Now())
	end := start.Add(24 * time.Hour)

	prognosis, err := client.CO2Emissions(ctx, start, end, priceArea, true)
	if err != nil {
		logger.Error("error fetching co2 prognosis", slog.Any("error", err))
		return
	}

	if publisher != nil {
		if err := publisher.Publish("co2_prognosis", prognosis); err != nil {
			logger.Error("error publishing co2 prognosis", slog.Any("error", err))
			return
		}
	}

	logger.Info("co2 emission task done", slog.Int("noOfReadings", len(prognosis)))
}
