package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-stageload/internal/config"
	"github.com/alnah/go-stageload/internal/logging"
)

// resolveConfig loads the config file named by the flag or STAGELOAD_CONFIG,
// then layers environment variables on top. Command flags are merged by
// the caller, which must call Validate afterwards.
func resolveConfig(common commonFlags, stderr io.Writer) (*config.Config, error) {
	warnUnknownEnvVars(stderr)
	env := loadEnvConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)

	if common.logFormat != "" {
		cfg.Log.Format = common.logFormat
	}
	return cfg, nil
}

// newLogger builds the command logger. --verbose and --quiet override the
// configured level.
func newLogger(w io.Writer, lc config.LogConfig, common commonFlags) (*log.Logger, error) {
	opts := logging.Options{
		Level:  lc.Level,
		Format: lc.Format,
		Prefix: logging.DefaultPrefix,
		Caller: lc.Caller,
	}
	switch {
	case common.verbose:
		opts.Level = "debug"
	case common.quiet:
		opts.Level = "error"
	}
	return logging.New(w, opts)
}
