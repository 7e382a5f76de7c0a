package task

import (
	"context"
	"log/slog"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/cache"
	"github.com/angas/energinet-go/config"
	"github.com/angas/energinet-go/mqtt"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	SpotPriceTask   func()
	Co2Task         func()
	MaintenanceTask func()
}

func NewTasks(
	client *energinet.Client,
	publisher *mqtt.Publisher,
	respCache *cache.Cache,
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		SpotPriceTask:   NewSpotPriceTask(logger.With(slog.String("task", "spot_price")), client, publisher, cnfg.Api.PriceArea),
		Co2Task:         NewCo2Task(logger.With(slog.String("task", "co2_emission")), client, publisher, cnfg.Api.PriceArea),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), respCache),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.Tasks.GetSpotPriceRunAt(), t.SpotPriceTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc(t.cnfg.Tasks.GetCo2RunAt(), t.Co2Task)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc(t.cnfg.Tasks.GetMaintenanceRunAt(), t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
