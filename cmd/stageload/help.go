package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: stageload <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Boot a game session and load its assets")
	fmt.Fprintln(w, "  serve      Serve an asset directory over HTTP")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'stageload help <command>' for details on a specific command.")
}

// printRunUsage prints usage for the run command.
func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: stageload run [query] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Boot a game session: load the ship sprite and the level, then report.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  query    Page query selecting the level (e.g., \"?level=Caves\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Level:")
	fmt.Fprintln(w, "  -l, --level <name>        Level name (overrides the query)")
	fmt.Fprintln(w, "      --width <n>           Surface width in pixels")
	fmt.Fprintln(w, "      --height <n>          Surface height in pixels")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "  -u, --base-url <url>      Asset server origin")
	fmt.Fprintln(w, "  -a, --asset-path <dir>    Local asset directory, tried first")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent header for asset requests")
	fmt.Fprintln(w, "      --no-embedded         Disable built-in fallback assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Loader:")
	fmt.Fprintln(w, "  -m, --mode <s>            Loader mode: pipeline, staged")
	fmt.Fprintln(w, "  -j, --concurrency <n>     Parallel fetches (0 = auto)")
	fmt.Fprintln(w, "      --fetch-timeout <d>   Per-asset timeout (e.g., 10s)")
	fmt.Fprintln(w, "      --step-timeout <d>    Per-step timeout (e.g., 1m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: stageload serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve an asset directory over HTTP for 'stageload run --base-url'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8000)")
	fmt.Fprintln(w, "  -r, --root <dir>          Directory to serve (default: built-in assets)")
	fmt.Fprintln(w, "      --no-watch            Do not log file changes under root")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCommonUsage prints the flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json, logfmt")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "run":
		printRunUsage(deps.Stdout)
	case "serve":
		printServeUsage(deps.Stdout)
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: stageload version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: stageload help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
