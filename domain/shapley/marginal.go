package shapley

import (
	"context"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
)

// MarginalContributions returns each agent's marginal contribution under one
// ordering.
//
// The first agent contributes worth({agent}). Every later agent at position i
// contributes the worth of the running coalition after it joins, minus the
// worth of the first i agents, rebuilt with Prefix from the running coalition.
// Errors from worth are returned unchanged.
func MarginalContributions(ctx context.Context, permutation []*coalition.Agent, worth coalition.WorthFunction) (Allocation, error) {
	out := make(Allocation, len(permutation))
	running := &coalition.Group{}

	for i, a := range permutation {
		if err := running.Add(a); err != nil {
			return nil, err
		}

		with, err := worth.Worth(ctx, running)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			out[a] = with
			continue
		}

		before, err := running.Prefix(i)
		if err != nil {
			return nil, err
		}
		without, err := worth.Worth(ctx, before)
		if err != nil {
			return nil, err
		}
		out[a] = with - without
	}

	return out, nil
}
