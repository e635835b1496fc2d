// Package worth provides worth functions for cooperative games: built-in
// games evaluated in process, and adapters that delegate evaluation to an
// HTTP service or a WebAssembly module.
package worth

import (
	"math"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
)

// Max values a group at the largest contribution among its members,
// 0 for the empty group. With fares as contributions this is the taxi
// sharing game.
func Max() coalition.WorthFunc {
	return func(g *coalition.Group) float64 {
		var m float64
		for _, a := range g.Members() {
			m = math.Max(m, a.Contribution())
		}
		return m
	}
}

// Sum values a group at the total of its members' contributions.
func Sum() coalition.WorthFunc {
	return func(g *coalition.Group) float64 {
		var s float64
		for _, a := range g.Members() {
			s += a.Contribution()
		}
		return s
	}
}

// Bandwidth values a group at what remains of capacity after every agent
// outside the group has taken its demand, floored at 0.
//
// Contributions are demands; all is the full set of agents in the game.
func Bandwidth(all []*coalition.Agent, capacity float64) coalition.WorthFunc {
	return func(g *coalition.Group) float64 {
		residual := capacity
		for _, a := range all {
			if !g.Contains(a) {
				residual -= a.Contribution()
			}
		}
		return math.Max(0, residual)
	}
}

// Majority is a weighted voting game: a group is worth 1 when the weights
// of its members reach quota, 0 otherwise.
func Majority(quota float64) coalition.WorthFunc {
	return func(g *coalition.Group) float64 {
		var w float64
		for _, a := range g.Members() {
			w += a.Contribution()
		}
		if w >= quota {
			return 1
		}
		return 0
	}
}
