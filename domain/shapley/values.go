// Package shapley computes exact Shapley values by enumerating every
// ordering of a game's agents.
package shapley

import (
	"context"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
)

// ShapleyValues computes the Shapley value of every agent.
//
// All n! orderings are visited in lexicographic order of agent positions,
// starting from the input order. Each agent's marginal contributions are
// summed across orderings and divided by the number of orderings.
//
// An empty agent list yields an empty allocation. Duplicate agents are
// rejected with coalition.ErrDuplicateMember. The first error returned by
// worth aborts the computation and is returned unchanged.
//
// Runtime grows with n!; callers should bound n before calling.
func ShapleyValues(ctx context.Context, agents []*coalition.Agent, worth coalition.WorthFunction) (Allocation, error) {
	if _, err := coalition.NewGroup(agents...); err != nil {
		return nil, err
	}

	values := make(Allocation, len(agents))
	if len(agents) == 0 {
		return values, nil
	}
	for _, a := range agents {
		values[a] = 0
	}

	positions := Identity(len(agents))
	ordering := make([]*coalition.Agent, len(agents))
	var count uint64

	for {
		for i, p := range positions {
			ordering[i] = agents[p]
		}

		marginals, err := MarginalContributions(ctx, ordering, worth)
		if err != nil {
			return nil, err
		}
		for a, m := range marginals {
			values[a] += m
		}
		count++

		if !NextPermutation(positions) {
			break
		}
	}

	for a := range values {
		values[a] /= float64(count)
	}
	return values, nil
}
