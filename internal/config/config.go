package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-stageload/internal/codec"
	"github.com/alnah/go-stageload/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxLevelNameLength = 100
	MaxUserAgentLength = 200
	MaxAddrLength      = 255
	MaxConcurrency     = 256
	MaxViewportSize    = 16384 // Largest canvas dimension browsers accept
)

// Loader modes.
const (
	ModePipeline = "pipeline" // step pipeline with per-handle completion
	ModeStaged   = "staged"   // callback stages gated by a completion counter
)

// Defaults applied by DefaultConfig and ApplyDefaults.
const (
	DefaultLevelName    = "TestLevel"
	DefaultLevelDir     = "/Levels"
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultServeAddr    = "127.0.0.1:8000"
	DefaultMaxAssetSize = 32 << 20 // 32MB
)

// Config holds all configuration for a loading session.
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Loader   LoaderConfig   `yaml:"loader" toml:"loader"`
	Level    LevelConfig    `yaml:"level" toml:"level"`
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Serve    ServeConfig    `yaml:"serve" toml:"serve"`
}

// ServerConfig defines the remote asset origin.
type ServerConfig struct {
	BaseURL   string `yaml:"baseURL" toml:"baseURL"`     // Empty = no HTTP fetching
	UserAgent string `yaml:"userAgent" toml:"userAgent"` // Empty = Go default
}

// AssetsConfig defines local asset sources.
type AssetsConfig struct {
	BasePath        string `yaml:"basePath" toml:"basePath"`               // Local asset directory, tried before HTTP
	DisableEmbedded bool   `yaml:"disableEmbedded" toml:"disableEmbedded"` // Skip built-in fallback assets
	MaxSize         int64  `yaml:"maxSize" toml:"maxSize"`                 // Bytes per asset (0 = 32MB)
}

// LoaderConfig defines how assets are fetched.
type LoaderConfig struct {
	Mode         string `yaml:"mode" toml:"mode"`                 // "pipeline" or "staged" (default: pipeline)
	Concurrency  int    `yaml:"concurrency" toml:"concurrency"`   // 0 = auto
	FetchTimeout string `yaml:"fetchTimeout" toml:"fetchTimeout"` // e.g. "30s"
	StepTimeout  string `yaml:"stepTimeout" toml:"stepTimeout"`   // e.g. "2m"
}

// LevelConfig selects the level document.
type LevelConfig struct {
	Name string `yaml:"name" toml:"name"` // Level name without extension
	Dir  string `yaml:"dir" toml:"dir"`   // URL directory holding levels
}

// ViewportConfig sizes the display surface.
type ViewportConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// LogConfig defines log output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text, json, logfmt
	Caller bool   `yaml:"caller" toml:"caller"`
}

// ServeConfig defines the development asset server.
type ServeConfig struct {
	Addr  string `yaml:"addr" toml:"addr"`
	Root  string `yaml:"root" toml:"root"`   // Directory to serve (default: assets.basePath)
	Watch bool   `yaml:"watch" toml:"watch"` // Log file changes under root (default: true)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	// Server
	if err := validateFieldLength("server.baseURL", c.Server.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.BaseURL != "" && !fileutil.IsURL(c.Server.BaseURL) {
		return fmt.Errorf("%w: server.baseURL must start with http:// or https://, got %q", ErrInvalidValue, c.Server.BaseURL)
	}
	if err := validateFieldLength("server.userAgent", c.Server.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}

	// Assets
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if c.Assets.MaxSize < 0 {
		return fmt.Errorf("%w: assets.maxSize must not be negative, got %d", ErrInvalidValue, c.Assets.MaxSize)
	}

	// Loader
	switch strings.ToLower(c.Loader.Mode) {
	case "", ModePipeline, ModeStaged:
		// valid
	default:
		return fmt.Errorf("%w: loader.mode %q (must be %s or %s)", ErrInvalidValue, c.Loader.Mode, ModePipeline, ModeStaged)
	}
	if c.Loader.Concurrency < 0 || c.Loader.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: loader.concurrency must be between 0 and %d, got %d", ErrInvalidValue, MaxConcurrency, c.Loader.Concurrency)
	}
	if _, err := parseDuration("loader.fetchTimeout", c.Loader.FetchTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("loader.stepTimeout", c.Loader.StepTimeout); err != nil {
		return err
	}

	// Level
	if err := validateFieldLength("level.name", c.Level.Name, MaxLevelNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Level.Name, "/\\.") {
		return fmt.Errorf("%w: level.name %q must not contain path separators or dots", ErrInvalidValue, c.Level.Name)
	}
	if err := validateFieldLength("level.dir", c.Level.Dir, MaxPathLength); err != nil {
		return err
	}

	// Viewport
	if c.Viewport.Width < 0 || c.Viewport.Width > MaxViewportSize {
		return fmt.Errorf("%w: viewport.width must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSize, c.Viewport.Width)
	}
	if c.Viewport.Height < 0 || c.Viewport.Height > MaxViewportSize {
		return fmt.Errorf("%w: viewport.height must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSize, c.Viewport.Height)
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
		// valid
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidValue, c.Log.Format)
	}

	// Serve
	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("serve.root", c.Serve.Root, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// parseDuration parses an optional positive duration. Empty returns zero.
func parseDuration(fieldName, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return d, nil
}

// FetchTimeoutDuration returns the parsed fetch timeout, zero when unset.
func (c LoaderConfig) FetchTimeoutDuration() time.Duration {
	d, _ := parseDuration("loader.fetchTimeout", c.FetchTimeout)
	return d
}

// StepTimeoutDuration returns the parsed step timeout, zero when unset.
func (c LoaderConfig) StepTimeoutDuration() time.Duration {
	d, _ := parseDuration("loader.stepTimeout", c.StepTimeout)
	return d
}

// ResolvedMode returns the loader mode with the default applied.
func (c LoaderConfig) ResolvedMode() string {
	if c.Mode == "" {
		return ModePipeline
	}
	return strings.ToLower(c.Mode)
}

// DefaultConfig returns a configuration for a local session: embedded
// assets only, default level, default viewport.
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{BaseURL: ""},
		Assets:   AssetsConfig{BasePath: "", MaxSize: DefaultMaxAssetSize},
		Loader:   LoaderConfig{Mode: ModePipeline},
		Level:    LevelConfig{Name: DefaultLevelName, Dir: DefaultLevelDir},
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Log:      LogConfig{Level: "info", Format: "text"},
		Serve:    ServeConfig{Addr: DefaultServeAddr, Watch: true},
	}
}

// ApplyDefaults fills zero values left by a partial config file.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Assets.MaxSize == 0 {
		c.Assets.MaxSize = d.Assets.MaxSize
	}
	if c.Loader.Mode == "" {
		c.Loader.Mode = d.Loader.Mode
	}
	if c.Level.Name == "" {
		c.Level.Name = d.Level.Name
	}
	if c.Level.Dir == "" {
		c.Level.Dir = d.Level.Dir
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = d.Viewport.Width
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = d.Viewport.Height
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = d.Serve.Addr
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path and
// its extension selects YAML or TOML. Otherwise, it's treated as a config
// name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := codec.FormatFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Decode over the defaults so omitted keys keep their default values.
	cfg := DefaultConfig()
	if err := codec.UnmarshalStrict(format, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/stageload/
func resolveConfigPath(name string) (string, error) {
	triedPaths := make([]string, 0, len(codec.Extensions)*2) // 2 locations

	// Try current directory first
	for _, ext := range codec.Extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range codec.Extensions {
			userPath := filepath.Join(userConfigDir, "stageload", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
