package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
	ErrInvalidFlags   = errors.New("invalid flags")
)

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultDeps()))
}

// runMain dispatches the command in args (args[0] is the program name)
// and returns the process exit code.
func runMain(args []string, deps *Dependencies) int {
	if len(args) < 2 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case "run":
		err = runCommand(rest, deps)
	case "serve":
		err = serveCommand(rest, deps)
	case "version", "--version":
		fmt.Fprintf(deps.Stdout, "stageload %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, deps)
		return ExitSuccess
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(deps.Stderr, err)
		printUsage(deps.Stderr)
		return exitCodeFor(err)
	}

	if err != nil {
		fmt.Fprintln(deps.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}

// hasVerboseFlag reports whether -v or --verbose appears in args.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
