package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	energinet "github.com/angas/energinet-go"
	"github.com/angas/energinet-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	// Overrides the public endpoint, mainly useful for testing
	BaseUrl *string `mapstructure:"base_url"`
	// HTTP timeout in seconds, default: 10
	TimeoutSeconds *int `mapstructure:"timeout_seconds"`
	// "DK1" or "DK2", empty means all price areas
	PriceArea string `mapstructure:"price_area"`
}

func (a AppConfigApi) GetBaseUrl() string {
	if a.BaseUrl == nil {
		return energinet.DefaultBaseURL
	}
	return *a.BaseUrl
}

func (a AppConfigApi) GetTimeout() time.Duration {
	if a.TimeoutSeconds == nil {
		return 10 * time.Second
	}
	return time.Duration(*a.TimeoutSeconds) * time.Second
}

type AppConfigCache struct {
	// Path to the SQLite cache file. Empty disables response caching.
	Path string
	// Cache expiry in seconds, default: 3600. Zero or negative means never.
	ExpireAfterSeconds *int `mapstructure:"expire_after_seconds"`
}

func (c AppConfigCache) GetExpireAfter() time.Duration {
	if c.ExpireAfterSeconds == nil {
		return time.Hour
	}
	return time.Duration(*c.ExpireAfterSeconds) * time.Second
}

type AppConfigMqtt struct {
	// Broker host, empty disables publishing
	Host     string
	Port     int16
	Username string
	Password string
	// Prefix for published topics, default: "energinet"
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "energinet"
	}
	return *m.TopicPrefix
}

type AppConfigTasks struct {
	// Day-ahead prices are published around 13:00 Danish time
	SpotPriceRunAt *string `mapstructure:"spot_price_run_at"`
	Co2RunAt       *string `mapstructure:"co2_run_at"`
	// Purge of expired cache entries, default: nightly
	MaintenanceRunAt *string `mapstructure:"maintenance_run_at"`
}

func (t AppConfigTasks) GetSpotPriceRunAt() string {
	if t.SpotPriceRunAt == nil {
		return "15 13-17 * * *"
	}
	return *t.SpotPriceRunAt
}

func (t AppConfigTasks) GetCo2RunAt() string {
	if t.Co2RunAt == nil {
		return "@hourly"
	}
	return *t.Co2RunAt
}

func (t AppConfigTasks) GetMaintenanceRunAt() string {
	if t.MaintenanceRunAt == nil {
		return "30 2 * * *"
	}
	return *t.MaintenanceRunAt
}

type AppConfigLogging struct {
	// Min console log level: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api     AppConfigApi
	Cache   AppConfigCache
	Mqtt    AppConfigMqtt
	Tasks   AppConfigTasks
	Logging AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
