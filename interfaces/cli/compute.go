package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// computeOptions holds options for the compute command.
type computeOptions struct {
	gameOptions
	timeout time.Duration
}

// newComputeCmd creates the compute command.
func (a *App) newComputeCmd() *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute Shapley values for a game",
		Long: `Compute the exact Shapley value of every agent in a game file.

Every ordering of the agents is visited, so a game with n agents costs n!
marginal contribution walks. The output lists each agent's value, their sum,
the grand coalition worth and whether the two agree.

Examples:
  # Compute values as a table
  shapley compute -c game.yaml

  # Machine-readable output
  shapley compute -c game.yaml -o json

  # Print spans to stderr and a metrics summary
  shapley compute -c game.yaml --trace stdout --metrics

  # Export spans to a collector
  shapley compute -c game.yaml --trace otlp --otlp-endpoint localhost:4317 --otlp-insecure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompute(cmd.Context(), opts)
		},
	}

	opts.addGameFlags(cmd)
	opts.addTelemetryFlags(cmd)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the computation after this duration (0 for no limit)")

	return cmd
}

func (a *App) runCompute(ctx context.Context, opts *computeOptions) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	return a.computeOnce(ctx, &opts.gameOptions)
}

// computeOnce loads the game, computes values and prints them.
func (a *App) computeOnce(ctx context.Context, opts *gameOptions) (err error) {
	s, err := a.openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close(ctx, a))
	}()

	result, err := s.engine.Compute(ctx, s.built.Game)
	if err != nil {
		return err
	}
	return writeResult(a.stdout, opts.output, result.View())
}

// writeResult prints a computation result in the requested format.
func writeResult(w io.Writer, format string, view api.ResultView) error {
	if ok, err := writeStructured(w, format, view); ok {
		return err
	}

	fmt.Fprintf(w, "Game: %s\n", view.Game)
	fmt.Fprintf(w, "Run: %s\n\n", view.RunID)
	if err := writeValueTable(w, view.Values); err != nil {
		return err
	}

	var sum float64
	for _, v := range view.Values {
		sum += v.Value
	}
	verdict := "ok"
	if !view.Efficient {
		verdict = "VIOLATED"
	}

	fmt.Fprintf(w, "\nSum: %s\n", formatFloat(sum))
	fmt.Fprintf(w, "Grand coalition worth: %s\n", formatFloat(view.GrandWorth))
	fmt.Fprintf(w, "Efficiency: %s\n", verdict)
	fmt.Fprintf(w, "Permutations: %d (%d worth evaluations, %dms)\n", view.Permutations, view.Evaluations, view.DurationMS)
	return nil
}
