package config

import (
	"strings"
	"testing"
	"time"
)

// setToken satisfies the only required variable so Load can succeed.
func setToken(t *testing.T) {
	t.Helper()
	t.Setenv("TG_TOKEN", "123:abc")
}

func TestLoad_Defaults(t *testing.T) {
	setToken(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DBDriver != "sqlite" || cfg.DBPath != "intake.db" {
		t.Fatalf("db defaults: %+v", cfg)
	}
	if cfg.OpsPort != "8080" || cfg.PollTimeout != 30 {
		t.Fatalf("server defaults: %+v", cfg)
	}
	if !cfg.RegionEnabled || !cfg.AdditionalEnabled {
		t.Fatalf("capability defaults: %+v", cfg)
	}
	if len(cfg.Regions) != 5 || cfg.Regions[1] != "Уфа" {
		t.Fatalf("region defaults: %v", cfg.Regions)
	}
	if cfg.RateRPS != 1.0 || cfg.RateBurst != 5 {
		t.Fatalf("rate defaults: %+v", cfg)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("timeout default: %v", cfg.ReadTimeout)
	}
	if cfg.LogLevel != "info" || cfg.GinMode != "release" {
		t.Fatalf("log defaults: %+v", cfg)
	}
}

func TestLoad_TokenFallback(t *testing.T) {
	t.Setenv("TG_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "456:def")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BotToken != "456:def" {
		t.Fatalf("token: %q", cfg.BotToken)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TG_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TG_TOKEN") {
		t.Fatalf("got %v, want token error", err)
	}
}

func TestLoad_MySQLRequiresDSN(t *testing.T) {
	setToken(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("got %v, want DSN error", err)
	}

	t.Setenv("DB_DSN", "user:pass@tcp(db:3306)/s3app?parseTime=true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "mysql" {
		t.Fatalf("driver: %q", cfg.DBDriver)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	setToken(t)
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Fatalf("got %v, want driver error", err)
	}
}

func TestLoad_RegionsCSVAndValidation(t *testing.T) {
	setToken(t)
	t.Setenv("REGIONS", " Уфа , Казань ,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Regions) != 2 || cfg.Regions[1] != "Казань" {
		t.Fatalf("regions: %v", cfg.Regions)
	}

	// An enabled region step with no options is a configuration error, but
	// disabling the step makes the empty list legal.
	t.Setenv("REGIONS", " , ")
	if _, err := Load(); err == nil {
		t.Fatal("empty region list accepted with region step enabled")
	}
	t.Setenv("REGION_ENABLED", "false")
	if _, err := Load(); err != nil {
		t.Fatalf("load with region step disabled: %v", err)
	}
}

func TestLoad_RateBounds(t *testing.T) {
	setToken(t)
	t.Setenv("RATE_BURST", "0")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RATE_BURST") {
		t.Fatalf("got %v, want burst error", err)
	}
}

func TestLoad_NormalizesWarning(t *testing.T) {
	setToken(t)
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("level: %q", cfg.LogLevel)
	}
}

func TestLoad_BadBoolAndIntFallBackToDefaults(t *testing.T) {
	setToken(t)
	t.Setenv("REGION_ENABLED", "maybe")
	t.Setenv("POLL_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.RegionEnabled || cfg.PollTimeout != 30 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("TG_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad()
}
