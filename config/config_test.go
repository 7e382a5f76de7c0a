package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYaml = `
api:
  base_url: "http://localhost:8080/dataset"
  price_area: "DK1"
cache:
  path: "./test-cache.db"
  expire_after_seconds: 120
mqtt:
  host: "broker.local"
  port: 1883
  username: "user"
  password: "secret"
tasks:
  spot_price_run_at: "0 14 * * *"
logging:
  console_level: "DEBUG"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cnfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	t.Run("Api", func(t *testing.T) {
		if cnfg.Api.GetBaseUrl() != "http://localhost:8080/dataset" {
			t.Errorf("unexpected base url: %s", cnfg.Api.GetBaseUrl())
		}
		if cnfg.Api.PriceArea != "DK1" {
			t.Errorf("expected price area DK1, got %s", cnfg.Api.PriceArea)
		}
		if cnfg.Api.GetTimeout() != 10*time.Second {
			t.Errorf("expected default timeout 10s, got %v", cnfg.Api.GetTimeout())
		}
	})

	t.Run("Cache", func(t *testing.T) {
		if cnfg.Cache.Path != "./test-cache.db" {
			t.Errorf("unexpected cache path: %s", cnfg.Cache.Path)
		}
		if cnfg.Cache.GetExpireAfter() != 2*time.Minute {
			t.Errorf("expected expiry 2m, got %v", cnfg.Cache.GetExpireAfter())
		}
	})

	t.Run("Mqtt", func(t *testing.T) {
		if !cnfg.Mqtt.Enabled() {
			t.Error("expected mqtt to be enabled")
		}
		if cnfg.Mqtt.Port != 1883 {
			t.Errorf("expected port 1883, got %d", cnfg.Mqtt.Port)
		}
		if cnfg.Mqtt.GetTopicPrefix() != "energinet" {
			t.Errorf("expected default topic prefix, got %s", cnfg.Mqtt.GetTopicPrefix())
		}
	})

	t.Run("Tasks", func(t *testing.T) {
		if cnfg.Tasks.GetSpotPriceRunAt() != "0 14 * * *" {
			t.Errorf("unexpected spot price schedule: %s", cnfg.Tasks.GetSpotPriceRunAt())
		}
		if cnfg.Tasks.GetCo2RunAt() != "@hourly" {
			t.Errorf("expected default co2 schedule, got %s", cnfg.Tasks.GetCo2RunAt())
		}
		if cnfg.Tasks.GetMaintenanceRunAt() != "30 2 * * *" {
			t.Errorf("expected default maintenance schedule, got %s", cnfg.Tasks.GetMaintenanceRunAt())
		}
	})

	t.Run("Logging", func(t *testing.T) {
		if cnfg.Logging.GetConsoleLevel() != slog.LevelDebug {
			t.Errorf("expected debug level, got %v", cnfg.Logging.GetConsoleLevel())
		}
	})
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApiDefaults(t *testing.T) {
	var api AppConfigApi
	if api.GetBaseUrl() != "https://api.energidataservice.dk/dataset" {
		t.Errorf("unexpected default base url: %s", api.GetBaseUrl())
	}
}
