// Package main values players of a glove game with a custom worth function.
//
// Left-glove owners have contribution -1 and right-glove owners +1. A
// coalition is worth the number of complete pairs it can form.
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
		shapley.NewAgentWithID("left-1", "", -1),
		shapley.NewAgentWithID("left-2", "", -1),
		shapley.NewAgentWithID("right-1", "", 1),
	}

	gloves := shapley.WorthFunc(func(g *shapley.Group) float64 {
		var left, right float64
		for _, a := range g.Members() {
			if a.Contribution() < 0 {
				left++
			} else {
				right++
			}
		}
		return min(left, right)
	})

	values, err := shapley.ShapleyValues(ctx, agents, gloves)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range values.Entries(agents) {
		fmt.Printf("%-8s %.4f\n", e.Agent.ID(), e.Value)
	}

	full, err := shapley.NewGroup(agents...)
	if err != nil {
		log.Fatal(err)
	}
	grand, err := gloves.Worth(ctx, full)
	if err != nil {
		log.Fatal(err)
	}
	if err := shapley.CheckEfficiency(values, grand, 1e-9); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pairs formed: %.0f\n", grand)
}
