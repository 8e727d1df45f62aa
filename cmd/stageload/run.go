package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-stageload/internal/assets"
	"github.com/alnah/go-stageload/internal/config"
	"github.com/alnah/go-stageload/internal/game"
	"github.com/alnah/go-stageload/internal/hints"
)

// runCommand boots one session and reports what was loaded.
func runCommand(args []string, deps *Dependencies) error {
	flags, positional, err := parseRunFlags(args, deps.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(positional[1:], " "))
	}

	cfg, err := resolveConfig(flags.common, deps.Stderr)
	if err != nil {
		return withHint(err, nil)
	}

	// The query plays the role of the page URL: it selects the level
	// unless --level names one explicitly.
	if len(positional) == 1 {
		name, err := game.ParseLevelQuery(positional[0])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnexpectedArgs, err)
		}
		cfg.Level.Name = name
	}
	mergeRunFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ApplyDefaults()

	logger, err := newLogger(deps.Stderr, cfg.Log, flags.common)
	if err != nil {
		return err
	}

	fetcher, err := assets.New(assets.Options{
		BasePath:        cfg.Assets.BasePath,
		BaseURL:         cfg.Server.BaseURL,
		UserAgent:       cfg.Server.UserAgent,
		MaxSize:         cfg.Assets.MaxSize,
		DisableEmbedded: cfg.Assets.DisableEmbedded,
	})
	if err != nil {
		return err
	}
	logger.Debug("asset sources", "chain", fetcher.String())

	sess, err := game.New(cfg, fetcher, game.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	ctx, stop := notifyContext(deps.context())
	defer stop()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	if err := sess.Wait(ctx); err != nil {
		return withHint(err, cfg)
	}

	if !flags.common.quiet {
		printSummary(deps.Stdout, sess.Summary(), flags.common.verbose)
	}
	return nil
}

// mergeRunFlags merges CLI flags into config. CLI values override config values.
func mergeRunFlags(flags *runFlags, cfg *config.Config) {
	// Level flags
	if flags.level != "" {
		cfg.Level.Name = flags.level
	}
	if flags.width > 0 {
		cfg.Viewport.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Viewport.Height = flags.height
	}

	// Asset flags
	if flags.assets.baseURL != "" {
		cfg.Server.BaseURL = flags.assets.baseURL
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.assets.userAgent != "" {
		cfg.Server.UserAgent = flags.assets.userAgent
	}
	if flags.assets.noEmbedded {
		cfg.Assets.DisableEmbedded = true
	}

	// Loader flags
	if flags.loader.mode != "" {
		cfg.Loader.Mode = flags.loader.mode
	}
	if flags.loader.concurrency > 0 {
		cfg.Loader.Concurrency = flags.loader.concurrency
	}
	if flags.loader.fetchTimeout != "" {
		cfg.Loader.FetchTimeout = flags.loader.fetchTimeout
	}
	if flags.loader.stepTimeout != "" {
		cfg.Loader.StepTimeout = flags.loader.stepTimeout
	}
}

// printSummary writes the session outcome. Verbose output lists every
// loaded resource.
func printSummary(w io.Writer, s game.Summary, verbose bool) {
	fmt.Fprintf(w, "Loaded %s (%d resources, %s mode, %v)\n",
		s.Level, len(s.Resources), s.Mode, s.Elapsed.Round(time.Millisecond))
	if !verbose {
		return
	}
	fmt.Fprintf(w, "session %s\n", s.ID)
	for _, url := range s.Resources {
		fmt.Fprintf(w, "  %s\n", url)
	}
}

// withHint appends an actionable hint to err when one applies.
// cfg may be nil when the failure happened before config was resolved.
func withHint(err error, cfg *config.Config) error {
	hint := hintFor(err, cfg)
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

func hintFor(err error, cfg *config.Config) string {
	var se *assets.StatusError
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.As(err, &se):
		return hints.ForHTTPStatus(se.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, assets.ErrUnsupportedImage):
		return hints.ForUnsupportedImage()
	case isConnectionError(err) && cfg != nil:
		return hints.ForConnection(cfg.Server.BaseURL)
	}
	return ""
}

// triedPaths extracts the locations listed in a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
