// Package cli implements the analytics command: serve, summary, export and
// refresh.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/eshaffer321/order-analytics/internal/infrastructure/config"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Order analytics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  analytics [-config path] [-verbose] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve     Load orders and serve the dashboard API")
	fmt.Fprintln(w, "  summary   Print the dashboard statistics")
	fmt.Fprintln(w, "  export    Write the .xlsx export (-out dir)")
	fmt.Fprintln(w, "  refresh   Load orders once and report the data source")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Filter options (summary, export):")
	fmt.Fprintln(w, "  -period month|last-month|year|all  -from YYYY-MM-DD  -to YYYY-MM-DD")
	fmt.Fprintln(w, "  -country name  -search text")
}

// loadConfig reads an explicit config file, or falls back to config.yaml
// and then the environment.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	global, rest, err := ParseGlobalFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if len(rest) == 0 {
		printUsage(stderr)
		return ExitUsage
	}
	command, cmdArgs := rest[0], rest[1:]

	switch command {
	case "serve", "summary", "export", "refresh":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return ExitUsage
	}

	cfg, err := loadConfig(global.ConfigPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitError
	}
	if global.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	// command output goes to stdout, logs to stderr
	app, err := NewApp(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitError
	}
	defer func() { _ = app.Close() }()

	ctx := context.Background()
	switch command {
	case "serve":
		flags, err := ParseServeFlags(cmdArgs, stderr)
		if err != nil {
			return ExitUsage
		}
		err = RunServe(app, flags)
		return exitCode(stderr, err)
	case "summary":
		flags, err := ParseSummaryFlags(cmdArgs, stderr)
		if err != nil {
			return ExitUsage
		}
		return exitCode(stderr, RunSummary(ctx, app, flags, stdout))
	case "export":
		flags, err := ParseExportFlags(cmdArgs, stderr)
		if err != nil {
			return ExitUsage
		}
		return exitCode(stderr, RunExport(ctx, app, flags, stdout))
	default:
		return exitCode(stderr, RunRefresh(ctx, app, stdout))
	}
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}
