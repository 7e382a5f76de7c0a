package main

import (
	"flag"
	"log/slog"
	"os"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/config"
	"github.com/angas/energinet-go/logging"
	"github.com/angas/energinet-go/task"
)

// One-shot runner for the spot price task, handy when debugging.
func main() {
	logger := slog.New(logging.NewConsoleHandler(os.Stdout, slog.LevelDebug))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	client := energinet.NewWithBaseURL(cnfg.Api.GetBaseUrl())
	client.SetTimeout(cnfg.Api.GetTimeout())
	task.NewSpotPriceTask(logger, client, nil, cnfg.Api.PriceArea)()
}
