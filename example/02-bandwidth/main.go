// Package main divides scarce bandwidth between competing claims.
//
// A link has capacity 200 and three tenants demand 100, 200 and 300. A
// coalition is guaranteed whatever the others leave after taking their
// full demand.
package main

import (
	"context"
	"fmt"
	"log"

	shapley "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

func main() {
	ctx := context.Background()

	agents := []*shapley.Agent{
		shapley.NewAgentWithID("a", "tenant-a", 100),
		shapley.NewAgentWithID("b", "tenant-b", 200),
		shapley.NewAgentWithID("c", "tenant-c", 300),
	}

	engine, err := shapley.New(shapley.WithMaxAgents(8))
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Compute(ctx, &shapley.Game{
		Name:      "bandwidth",
		Agents:    agents,
		Worth:     shapley.BandwidthWorth(agents, 200),
		WorthType: "bandwidth",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range result.Entries() {
		fmt.Printf("%s demands %3.0f, receives %6.2f\n", e.Agent.Name(), e.Agent.Contribution(), e.Value)
	}
	fmt.Printf("capacity %.0f, allocated %.2f, efficient: %t\n", result.GrandWorth, result.Values.Sum(), result.Efficient)
	fmt.Printf("%d permutations, %d worth evaluations\n", result.Run.Permutations, result.Run.Evaluations)
}
