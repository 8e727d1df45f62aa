package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-stageload/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "STAGELOAD_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring config files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // STAGELOAD_CONFIG: config file name or path
	BaseURL    string // STAGELOAD_BASE_URL: asset server origin
	AssetPath  string // STAGELOAD_ASSET_PATH: local asset directory
	Level      string // STAGELOAD_LEVEL: level name

	// Tier 2 - Loader
	Mode         string // STAGELOAD_MODE: pipeline or staged
	Concurrency  int    // STAGELOAD_CONCURRENCY: parallel fetches
	FetchTimeout string // STAGELOAD_FETCH_TIMEOUT: per-asset timeout
	StepTimeout  string // STAGELOAD_STEP_TIMEOUT: per-step timeout

	// Tier 3 - Output and server
	LogLevel  string // STAGELOAD_LOG_LEVEL: debug, info, warn, error
	LogFormat string // STAGELOAD_LOG_FORMAT: text, json, logfmt
	ServeAddr string // STAGELOAD_SERVE_ADDR: dev server listen address
}

// knownEnvVars lists valid STAGELOAD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"STAGELOAD_CONFIG":     true,
	"STAGELOAD_BASE_URL":   true,
	"STAGELOAD_ASSET_PATH": true,
	"STAGELOAD_LEVEL":      true,
	// Tier 2 - Loader
	"STAGELOAD_MODE":          true,
	"STAGELOAD_CONCURRENCY":   true,
	"STAGELOAD_FETCH_TIMEOUT": true,
	"STAGELOAD_STEP_TIMEOUT":  true,
	// Tier 3 - Output and server
	"STAGELOAD_LOG_LEVEL":  true,
	"STAGELOAD_LOG_FORMAT": true,
	"STAGELOAD_SERVE_ADDR": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized STAGELOAD_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("STAGELOAD_CONFIG"),
		BaseURL:    os.Getenv("STAGELOAD_BASE_URL"),
		AssetPath:  os.Getenv("STAGELOAD_ASSET_PATH"),
		Level:      os.Getenv("STAGELOAD_LEVEL"),
		// Tier 2
		Mode:         os.Getenv("STAGELOAD_MODE"),
		FetchTimeout: os.Getenv("STAGELOAD_FETCH_TIMEOUT"),
		StepTimeout:  os.Getenv("STAGELOAD_STEP_TIMEOUT"),
		// Tier 3
		LogLevel:  os.Getenv("STAGELOAD_LOG_LEVEL"),
		LogFormat: os.Getenv("STAGELOAD_LOG_FORMAT"),
		ServeAddr: os.Getenv("STAGELOAD_SERVE_ADDR"),
	}

	// Parse int for concurrency; invalid values are ignored
	if n := os.Getenv("STAGELOAD_CONCURRENCY"); n != "" {
		if c, err := strconv.Atoi(n); err == nil && c > 0 {
			cfg.Concurrency = c
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized STAGELOAD_* variables.
// Helps catch typos like STAGELOAD_LEVLE instead of STAGELOAD_LEVEL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables replace config file values; CLI flags are merged afterwards,
// giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.BaseURL != "" {
		cfg.Server.BaseURL = env.BaseURL
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Level != "" {
		cfg.Level.Name = env.Level
	}

	// Tier 2
	if env.Mode != "" {
		cfg.Loader.Mode = env.Mode
	}
	if env.Concurrency > 0 {
		cfg.Loader.Concurrency = env.Concurrency
	}
	if env.FetchTimeout != "" {
		cfg.Loader.FetchTimeout = env.FetchTimeout
	}
	if env.StepTimeout != "" {
		cfg.Loader.StepTimeout = env.StepTimeout
	}

	// Tier 3
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.ServeAddr != "" {
		cfg.Serve.Addr = env.ServeAddr
	}
}
