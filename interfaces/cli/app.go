// Package cli provides the shapley command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root      *cobra.Command
	stdout    io.Writer
	stderr    io.Writer
	logLevel  string
	logFormat string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "shapley",
		Short: "Exact Shapley values for cooperative games",
		Long: `shapley computes the exact Shapley value of every agent in a cooperative
game by visiting all n! orderings and averaging marginal contributions.

Games are described in YAML or JSON files: a list of agents with their
contributions and a worth function (max, sum, bandwidth, majority, remote, wasm).

Runtime grows with n!; games are capped at --max-agents (default 10, at most 20).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initLogging()
		},
	}

	app.root.PersistentFlags().StringVar(&app.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	app.root.PersistentFlags().StringVar(&app.logFormat, "log-format", "console", "Log format (console, json)")

	// Add subcommands
	app.root.AddCommand(
		app.newVersionCmd(),
		app.newInitCmd(),
		app.newValidateCmd(),
		app.newComputeCmd(),
		app.newMarginalCmd(),
		app.newInspectCmd(),
		app.newWatchCmd(),
		app.newWorthTypesCmd(),
		app.newServeCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	// Set up signal handling
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// initLogging routes logs to stderr so results on stdout stay parseable.
func (a *App) initLogging() error {
	if !slices.Contains(logging.ValidLevels, a.logLevel) {
		return fmt.Errorf("invalid --log-level %q (want one of %v)", a.logLevel, logging.ValidLevels)
	}
	if !slices.Contains(logging.ValidFormats, a.logFormat) {
		return fmt.Errorf("invalid --log-format %q (want one of %v)", a.logFormat, logging.ValidFormats)
	}
	logging.Init(logging.Config{
		Level:  a.logLevel,
		Format: a.logFormat,
		Output: a.stderr,
	})
	return nil
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "shapley version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
