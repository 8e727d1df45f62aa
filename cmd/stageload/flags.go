package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// assetFlags holds asset source flags.
type assetFlags struct {
	baseURL    string
	assetPath  string
	userAgent  string
	noEmbedded bool
}

// loaderFlags holds loader tuning flags.
type loaderFlags struct {
	mode         string
	concurrency  int
	fetchTimeout string
	stepTimeout  string
}

// runFlags holds all flags for the run command.
type runFlags struct {
	common commonFlags
	assets assetFlags
	loader loaderFlags
	level  string
	width  int
	height int
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	root    string
	noWatch bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json, logfmt")
}

// addAssetFlags adds asset source flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVarP(&f.baseURL, "base-url", "u", "", "asset server origin (e.g., http://localhost:8000)")
	fs.StringVarP(&f.assetPath, "asset-path", "a", "", "local asset directory, tried before the server")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header for asset requests")
	fs.BoolVar(&f.noEmbedded, "no-embedded", false, "disable built-in fallback assets")
}

// addLoaderFlags adds loader tuning flags to a FlagSet.
func addLoaderFlags(fs *flag.FlagSet, f *loaderFlags) {
	fs.StringVarP(&f.mode, "mode", "m", "", "loader mode: pipeline, staged")
	fs.IntVarP(&f.concurrency, "concurrency", "j", 0, "parallel fetches (0 = auto)")
	fs.StringVar(&f.fetchTimeout, "fetch-timeout", "", "per-asset timeout (e.g., 10s)")
	fs.StringVar(&f.stepTimeout, "step-timeout", "", "per-step timeout (e.g., 1m)")
}

// parseRunFlags parses run command flags and returns positional args.
func parseRunFlags(args []string, usage io.Writer) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	f := &runFlags{}

	fs.StringVarP(&f.level, "level", "l", "", "level name (overrides the query)")
	fs.IntVar(&f.width, "width", 0, "surface width in pixels")
	fs.IntVar(&f.height, "height", 0, "surface height in pixels")

	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)
	addLoaderFlags(fs, &f.loader)

	fs.SetOutput(usage)
	fs.Usage = func() { printRunUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default 127.0.0.1:8000)")
	fs.StringVarP(&f.root, "root", "r", "", "directory to serve (default: built-in assets)")
	fs.BoolVar(&f.noWatch, "no-watch", false, "do not log file changes under root")

	addCommonFlags(fs, &f.common)

	fs.SetOutput(usage)
	fs.Usage = func() { printServeUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}

	return f, fs.Args(), nil
}

// wrapParseError marks flag errors as usage errors. Help requests pass
// through unchanged so callers can exit cleanly.
func wrapParseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
}
