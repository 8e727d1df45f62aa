package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-stageload/internal/config"
	"github.com/alnah/go-stageload/internal/devserver"
	"github.com/alnah/go-stageload/internal/hints"
)

// serveCommand serves the asset directory until interrupted.
func serveCommand(args []string, deps *Dependencies) error {
	flags, positional, err := parseServeFlags(args, deps.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(positional, " "))
	}

	cfg, err := resolveConfig(flags.common, deps.Stderr)
	if err != nil {
		return withHint(err, nil)
	}
	mergeServeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ApplyDefaults()

	logger, err := newLogger(deps.Stderr, cfg.Log, flags.common)
	if err != nil {
		return err
	}

	srv, err := devserver.New(devserver.Options{
		Addr:   cfg.Serve.Addr,
		Root:   serveRoot(cfg),
		Watch:  cfg.Serve.Watch,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ln, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForAddrInUse(cfg.Serve.Addr))
	}

	if !flags.common.quiet {
		fmt.Fprintf(deps.Stdout, "Serving on http://%s (Ctrl+C to stop)\n", ln.Addr())
	}

	ctx, stop := notifyContext(deps.context())
	defer stop()

	return srv.Run(ctx, ln)
}

// mergeServeFlags merges CLI flags into config. CLI values override config values.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Serve.Addr = flags.addr
	}
	if flags.root != "" {
		cfg.Serve.Root = flags.root
	}
	if flags.noWatch {
		cfg.Serve.Watch = false
	}
}

// serveRoot picks the served directory: serve.root, else assets.basePath.
// Empty means the built-in assets.
func serveRoot(cfg *config.Config) string {
	if cfg.Serve.Root != "" {
		return cfg.Serve.Root
	}
	return cfg.Assets.BasePath
}
