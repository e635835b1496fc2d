// Package api provides the public API for shapley-go.
//
// shapley-go computes exact Shapley values for cooperative games by visiting
// every ordering of the agents and averaging each agent's marginal
// contribution.
//
// # Quick Start
//
//	a := api.NewAgent("a", 6)
//	b := api.NewAgent("b", 12)
//	c := api.NewAgent("c", 42)
//
//	values, err := api.ShapleyValues(ctx, []*api.Agent{a, b, c}, api.MaxWorth())
//	// values[a] == 2, values[b] == 5, values[c] == 35
//
// # Engine
//
// The Engine wraps the same algorithm with an agent ceiling, lifecycle
// tracking, structured logging, tracing and metrics:
//
//	engine, _ := api.New(api.WithMaxAgents(12))
//	result, err := engine.Compute(ctx, &api.Game{Name: "taxi", Agents: agents, Worth: api.MaxWorth()})
//	for _, e := range result.Entries() {
//	    fmt.Println(e.Agent.ID(), e.Value)
//	}
//
// # Worth functions
//
// Any type implementing WorthFunction can be used. WorthFunc adapts plain
// functions. Built-in games are MaxWorth, SumWorth, BandwidthWorth and
// MajorityWorth; NewRemoteWorth and NewWASMWorth delegate evaluation to an
// HTTP service or a WebAssembly module.
package api

import (
	"context"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/shapley"
)

// Re-export core types.
type (
	// Agent is a participant in a cooperative game.
	Agent = coalition.Agent
	// Group is an ordered set of distinct agents.
	Group = coalition.Group
	// Game bundles agents with a worth function.
	Game = coalition.Game
	// WorthFunction assigns a worth to every group.
	WorthFunction = coalition.WorthFunction
	// WorthFunc adapts a plain function to WorthFunction.
	WorthFunc = coalition.WorthFunc
	// Allocation maps agents to values.
	Allocation = shapley.Allocation
	// Entry is one agent's value in reporting order.
	Entry = shapley.Entry
)

// Core errors.
var (
	// ErrDuplicateMember indicates an agent appears twice.
	ErrDuplicateMember = coalition.ErrDuplicateMember
	// ErrNilAgent indicates a nil agent.
	ErrNilAgent = coalition.ErrNilAgent
	// ErrInvalidIndex indicates a prefix length out of range.
	ErrInvalidIndex = coalition.ErrInvalidIndex
	// ErrEfficiencyViolated indicates values do not sum to the grand coalition's worth.
	ErrEfficiencyViolated = shapley.ErrEfficiencyViolated
)

// MaxCountable is the largest agent count whose orderings can be counted.
const MaxCountable = shapley.MaxCountable

// NewAgent creates an agent with a generated ID.
func NewAgent(name string, contribution float64) *Agent {
	return coalition.NewAgent(name, contribution)
}

// NewAgentWithID creates an agent with a caller-supplied ID.
func NewAgentWithID(id, name string, contribution float64) *Agent {
	return coalition.NewAgentWithID(id, name, contribution)
}

// NewGroup creates a group from distinct agents.
func NewGroup(agents ...*Agent) (*Group, error) {
	return coalition.NewGroup(agents...)
}

// ShapleyValues computes the Shapley value of every agent.
// Runtime grows with n!; bound the number of agents before calling.
func ShapleyValues(ctx context.Context, agents []*Agent, worth WorthFunction) (Allocation, error) {
	return shapley.ShapleyValues(ctx, agents, worth)
}

// MarginalContributions returns each agent's marginal contribution under one ordering.
func MarginalContributions(ctx context.Context, ordering []*Agent, worth WorthFunction) (Allocation, error) {
	return shapley.MarginalContributions(ctx, ordering, worth)
}

// CheckEfficiency verifies that values sum to grandWorth within tol.
func CheckEfficiency(values Allocation, grandWorth, tol float64) error {
	return shapley.CheckEfficiency(values, grandWorth, tol)
}

// PermutationCount returns n!, or 0 when n is negative or above MaxCountable.
func PermutationCount(n int) uint64 {
	return shapley.Count(n)
}
