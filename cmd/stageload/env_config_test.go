package main

// Notes:
// - loadEnvConfig: we test every recognized variable and that invalid
//   concurrency values are ignored rather than reported.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that set variables replace file values and
//   unset ones leave them alone.
// - Tests use t.Setenv() which prevents t.Parallel().
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-stageload/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("Tier 1 - Essential", func(t *testing.T) {
		t.Setenv("STAGELOAD_CONFIG", "/path/to/config.yaml")
		t.Setenv("STAGELOAD_BASE_URL", "http://localhost:8000")
		t.Setenv("STAGELOAD_ASSET_PATH", "/srv/assets")
		t.Setenv("STAGELOAD_LEVEL", "Caves")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
		}
		if cfg.BaseURL != "http://localhost:8000" {
			t.Errorf("BaseURL = %q, want http://localhost:8000", cfg.BaseURL)
		}
		if cfg.AssetPath != "/srv/assets" {
			t.Errorf("AssetPath = %q, want /srv/assets", cfg.AssetPath)
		}
		if cfg.Level != "Caves" {
			t.Errorf("Level = %q, want Caves", cfg.Level)
		}
	})

	t.Run("Tier 2 - Loader", func(t *testing.T) {
		t.Setenv("STAGELOAD_MODE", "staged")
		t.Setenv("STAGELOAD_CONCURRENCY", "8")
		t.Setenv("STAGELOAD_FETCH_TIMEOUT", "5s")
		t.Setenv("STAGELOAD_STEP_TIMEOUT", "1m")

		cfg := loadEnvConfig()

		if cfg.Mode != "staged" {
			t.Errorf("Mode = %q, want staged", cfg.Mode)
		}
		if cfg.Concurrency != 8 {
			t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
		}
		if cfg.FetchTimeout != "5s" {
			t.Errorf("FetchTimeout = %q, want 5s", cfg.FetchTimeout)
		}
		if cfg.StepTimeout != "1m" {
			t.Errorf("StepTimeout = %q, want 1m", cfg.StepTimeout)
		}
	})

	t.Run("Tier 3 - Output and server", func(t *testing.T) {
		t.Setenv("STAGELOAD_LOG_LEVEL", "debug")
		t.Setenv("STAGELOAD_LOG_FORMAT", "json")
		t.Setenv("STAGELOAD_SERVE_ADDR", "0.0.0.0:9000")

		cfg := loadEnvConfig()

		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
		}
		if cfg.ServeAddr != "0.0.0.0:9000" {
			t.Errorf("ServeAddr = %q, want 0.0.0.0:9000", cfg.ServeAddr)
		}
	})

	t.Run("invalid concurrency is ignored", func(t *testing.T) {
		for _, v := range []string{"abc", "-2", "0"} {
			t.Setenv("STAGELOAD_CONCURRENCY", v)
			if got := loadEnvConfig().Concurrency; got != 0 {
				t.Errorf("STAGELOAD_CONCURRENCY=%q: Concurrency = %d, want 0", v, got)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("unknown variable warns", func(t *testing.T) {
		t.Setenv("STAGELOAD_LEVLE", "Caves")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "STAGELOAD_LEVLE") {
			t.Errorf("expected warning for STAGELOAD_LEVLE, got %q", buf.String())
		}
	})

	t.Run("known variable is silent", func(t *testing.T) {
		t.Setenv("STAGELOAD_LEVEL", "Caves")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "STAGELOAD_LEVEL ") {
			t.Errorf("unexpected warning for known variable: %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values replace file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Server.BaseURL = "http://from-file:8000"
		cfg.Level.Name = "FromFile"

		applyEnvConfig(&envConfig{
			BaseURL:      "http://from-env:8000",
			Level:        "FromEnv",
			Mode:         "staged",
			Concurrency:  3,
			FetchTimeout: "2s",
			StepTimeout:  "20s",
			LogLevel:     "warn",
			LogFormat:    "logfmt",
			ServeAddr:    ":9000",
			AssetPath:    "/env/assets",
		}, cfg)

		if cfg.Server.BaseURL != "http://from-env:8000" {
			t.Errorf("Server.BaseURL = %q, want env value", cfg.Server.BaseURL)
		}
		if cfg.Level.Name != "FromEnv" {
			t.Errorf("Level.Name = %q, want FromEnv", cfg.Level.Name)
		}
		if cfg.Loader.Mode != "staged" || cfg.Loader.Concurrency != 3 {
			t.Errorf("Loader = %+v, want staged with concurrency 3", cfg.Loader)
		}
		if cfg.Loader.FetchTimeout != "2s" || cfg.Loader.StepTimeout != "20s" {
			t.Errorf("Loader timeouts = %q/%q, want 2s/20s", cfg.Loader.FetchTimeout, cfg.Loader.StepTimeout)
		}
		if cfg.Log.Level != "warn" || cfg.Log.Format != "logfmt" {
			t.Errorf("Log = %+v, want warn/logfmt", cfg.Log)
		}
		if cfg.Serve.Addr != ":9000" {
			t.Errorf("Serve.Addr = %q, want :9000", cfg.Serve.Addr)
		}
		if cfg.Assets.BasePath != "/env/assets" {
			t.Errorf("Assets.BasePath = %q, want /env/assets", cfg.Assets.BasePath)
		}
	})

	t.Run("unset values keep file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Server.BaseURL = "http://from-file:8000"
		cfg.Loader.Concurrency = 5

		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Server.BaseURL != "http://from-file:8000" {
			t.Errorf("Server.BaseURL = %q, want file value", cfg.Server.BaseURL)
		}
		if cfg.Loader.Concurrency != 5 {
			t.Errorf("Loader.Concurrency = %d, want 5", cfg.Loader.Concurrency)
		}
		if cfg.Level.Name != config.DefaultLevelName {
			t.Errorf("Level.Name = %q, want %q", cfg.Level.Name, config.DefaultLevelName)
		}
	})
}
