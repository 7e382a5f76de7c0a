package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/cache"
	"github.com/angas/energinet-go/config"
	"github.com/angas/energinet-go/logging"
	"github.com/angas/energinet-go/mqtt"
	"github.com/angas/energinet-go/task"
	"github.com/fsnotify/fsnotify"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(logging.NewConsoleHandler(os.Stdout, cnfg.Logging.GetConsoleLevel()))
	slog.SetDefault(logger)
	logger.Debug("energinetd is starting...", slog.String("version", Version))

	client := energinet.NewWithBaseURL(cnfg.Api.GetBaseUrl())
	client.SetTimeout(cnfg.Api.GetTimeout())
	client.SetLogger(logger.With("module", "energinet"))

	var respCache *cache.Cache
	if cnfg.Cache.Path != "" {
		respCache, err = cache.New(ctx, cnfg.Cache.Path, cnfg.Cache.GetExpireAfter())
		if err != nil {
			panic(fmt.Sprintf("failed to open response cache: %v", err))
		}
		defer respCache.Close()
		respCache.SetLogger(logger.With("module", "cache"))
		client.SetCache(respCache)
	}

	var publisher *mqtt.Publisher
	if cnfg.Mqtt.Enabled() {
		publisher = mqtt.NewPublisher(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopicPrefix())
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
	}

	tasks := task.NewTasks(client, publisher, respCache, cnfg)
	tasks.Run()
	defer tasks.Stop()

	// Prime subscribers right away, cron fills in from here.
	tasks.SpotPriceTask()
	tasks.Co2Task()

	if *configPath != "" {
		if err := watchConfig(ctx, logger, *configPath, cancel); err != nil {
			logger.Warn("config watcher disabled", slog.Any("error", err))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("main context done")
	case sig := <-sigCh:
		logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	}
}

// watchConfig shuts the daemon down when the config file changes, leaving
// the restart to the process supervisor.
func watchConfig(ctx context.Context, logger *slog.Logger, path string, cancel context.CancelFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-watcher.Events:
				if event.Op&fsnotify.Write == fsnotify.Write {
					logger.Info("config file changed, shutting down for restart", slog.String("file", event.Name))
					cancel()
				}
			case err := <-watcher.Errors:
				logger.Debug("error watching config file", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func exitWithError(logger *slog.Logger, err error) {
	logger.Error("application shutting down with error", slog.Any("error", err))
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
