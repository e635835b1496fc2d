package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// newInspectCmd creates the inspect command.
func (a *App) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect games and the computation lifecycle",
		Long: `Inspect a game's axioms or export the computation lifecycle.

Examples:
  # Check efficiency, null players and symmetry for a game
  shapley inspect game -c game.yaml

  # Export the lifecycle as a Graphviz diagram
  shapley inspect lifecycle --format dot | dot -Tpng > lifecycle.png

  # Export the lifecycle as Mermaid
  shapley inspect lifecycle --format mermaid`,
	}

	cmd.AddCommand(
		a.newInspectGameCmd(),
		a.newInspectLifecycleCmd(),
	)

	return cmd
}

// newInspectGameCmd creates the inspect game command.
func (a *App) newInspectGameCmd() *cobra.Command {
	opts := &gameOptions{}

	cmd := &cobra.Command{
		Use:   "game",
		Short: "Check Shapley axioms for a game",
		Long: `Compute values, then evaluate worth on every coalition to report the
null players and symmetric pairs of the game. The command fails when the
values violate efficiency, the null player property or symmetry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspectGame(cmd.Context(), opts)
		},
	}

	opts.addGameFlags(cmd)

	return cmd
}

func (a *App) runInspectGame(ctx context.Context, opts *gameOptions) (err error) {
	s, err := a.openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close(ctx, a))
	}()

	game := s.built.Game
	result, err := s.engine.Compute(ctx, game)
	if err != nil {
		return err
	}

	report, err := api.NewInspectionService(s.engine).Inspect(ctx, game, result.Values)
	if err != nil {
		return err
	}

	if ok, err := writeStructured(a.stdout, opts.output, report); ok {
		if err != nil {
			return err
		}
		return reportError(report)
	}

	fmt.Fprintf(a.stdout, "Game: %s\n\n", report.Game)
	if err := writeValueTable(a.stdout, api.ValueViews(result.Values, game.Agents)); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\nSum: %s\n", formatFloat(report.Sum))
	fmt.Fprintf(a.stdout, "Grand coalition worth: %s\n", formatFloat(report.GrandWorth))
	fmt.Fprintf(a.stdout, "Efficient: %t\n", report.Efficient)
	if len(report.NullPlayers) > 0 {
		fmt.Fprintf(a.stdout, "Null players: %v\n", report.NullPlayers)
	}
	for _, pair := range report.Symmetric {
		fmt.Fprintf(a.stdout, "Symmetric: %s ~ %s\n", pair[0], pair[1])
	}
	for _, v := range report.Violations {
		fmt.Fprintf(a.stdout, "Violation: %s\n", v)
	}
	fmt.Fprintf(a.stdout, "Coalitions evaluated: %d\n", report.Evaluations)

	return reportError(report)
}

func reportError(report *api.Report) error {
	if report.OK() {
		return nil
	}
	return fmt.Errorf("game %q violates Shapley axioms", report.Game)
}

// newInspectLifecycleCmd creates the inspect lifecycle command.
func (a *App) newInspectLifecycleCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lifecycle",
		Short: "Export the computation state diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := api.New()
			if err != nil {
				return err
			}
			diagram, err := api.NewInspectionService(engine).ExportLifecycle(api.DiagramFormat(format))
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, diagram)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(api.FormatDOT), "Diagram format (dot, mermaid)")

	return cmd
}
