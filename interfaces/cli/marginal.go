package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// marginalOptions holds options for the marginal command.
type marginalOptions struct {
	gameOptions
	order []string
}

// marginalView is the structured output of the marginal command.
type marginalView struct {
	Game   string          `json:"game" yaml:"game"`
	Order  []string        `json:"order" yaml:"order"`
	Values []api.ValueView `json:"values" yaml:"values"`
}

// newMarginalCmd creates the marginal command.
func (a *App) newMarginalCmd() *cobra.Command {
	opts := &marginalOptions{}

	cmd := &cobra.Command{
		Use:   "marginal",
		Short: "Show marginal contributions for one ordering",
		Long: `Show each agent's marginal contribution when agents join in a given order.

The first agent receives the worth of its singleton coalition; every later
agent receives the increase in worth it causes. Without --order the agents
join in file order.

Examples:
  # File order
  shapley marginal -c game.yaml

  # Largest fare first
  shapley marginal -c game.yaml --order p3,p2,p1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMarginal(cmd.Context(), opts)
		},
	}

	opts.addGameFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.order, "order", nil, "Comma-separated agent IDs in joining order")

	return cmd
}

func (a *App) runMarginal(ctx context.Context, opts *marginalOptions) (err error) {
	s, err := a.openSession(ctx, &opts.gameOptions)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close(ctx, a))
	}()

	game := s.built.Game
	order := game.Agents
	if len(opts.order) > 0 {
		order = make([]*api.Agent, len(opts.order))
		for i, id := range opts.order {
			agent, ok := api.FindAgent(game, id)
			if !ok {
				return fmt.Errorf("unknown agent %q in --order", id)
			}
			order[i] = agent
		}
	}

	values, err := s.engine.Marginal(ctx, game, order)
	if err != nil {
		return err
	}

	view := marginalView{
		Game:   game.Name,
		Order:  make([]string, len(order)),
		Values: api.ValueViews(values, order),
	}
	for i, agent := range order {
		view.Order[i] = agent.ID()
	}

	if ok, err := writeStructured(a.stdout, opts.output, view); ok {
		return err
	}

	fmt.Fprintf(a.stdout, "Game: %s\n\n", view.Game)
	if err := writeValueTable(a.stdout, view.Values); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\nSum: %s\n", formatFloat(values.Sum()))
	return nil
}
