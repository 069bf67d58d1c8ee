package config

import (
	"testing"
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr %s", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl %s", cfg.CacheTTL)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level %v", cfg.LogLevel)
	}
	if cfg.CurrentSeason <= 0 {
		t.Fatalf("current season must default to a real year, got %d", cfg.CurrentSeason)
	}
}

func TestLoadRejectsInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoadFootDataRequiresToken(t *testing.T) {
	t.Setenv("FOOTDATA_ENABLED", "true")
	t.Setenv("FOOTDATA_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when footdata enabled without token")
	}
}

func TestLoadUptraceRequiresDSN(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when uptrace enabled without dsn")
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug") != logging.LevelDebug {
		t.Fatalf("debug not parsed")
	}
	if parseLogLevel("WARNING") != logging.LevelWarn {
		t.Fatalf("warning not parsed")
	}
	if parseLogLevel("nonsense") != logging.LevelInfo {
		t.Fatalf("unknown level must fall back to info")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected split: %v", got)
	}
}
