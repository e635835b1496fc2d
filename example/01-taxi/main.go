// Package main splits a shared taxi fare with Shapley values.
//
// Three passengers share a ride. Each fare is what that passenger would
// pay alone; the group pays the largest fare among its members.
package main

import (
	"context"
	"fmt"
	"log"

	shapley "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

func main() {
	ctx := context.Background()

	alice := shapley.NewAgentWithID("alice", "Alice", 6)
	bob := shapley.NewAgentWithID("bob", "Bob", 12)
	carol := shapley.NewAgentWithID("carol", "Carol", 42)
	agents := []*shapley.Agent{alice, bob, carol}

	values, err := shapley.ShapleyValues(ctx, agents, shapley.MaxWorth())
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range values.Entries(agents) {
		fmt.Printf("%-6s pays %6.2f (alone: %.2f)\n", e.Agent.Name(), e.Value, e.Agent.Contribution())
	}
	fmt.Printf("total  %6.2f\n", values.Sum())

	// One ordering: Carol gets in first and covers the whole fare.
	marginals, err := shapley.MarginalContributions(ctx, []*shapley.Agent{carol, alice, bob}, shapley.MaxWorth())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nCarol first: carol=%.0f alice=%.0f bob=%.0f\n", marginals[carol], marginals[alice], marginals[bob])
}
