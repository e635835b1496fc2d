package coalition

import "context"

// WorthFunction assigns a real-valued worth to every group of agents,
// including the empty group.
//
// Implementations must be deterministic for a given membership. Any error
// returned aborts the computation that requested the value and is passed
// back to the caller unchanged.
type WorthFunction interface {
	Worth(ctx context.Context, g *Group) (float64, error)
}

// WorthFunc adapts a plain function to the WorthFunction interface.
type WorthFunc func(g *Group) float64

// Worth implements WorthFunction.
func (f WorthFunc) Worth(_ context.Context, g *Group) (float64, error) {
	return f(g), nil
}

// Game bundles the agents of a cooperative game with its worth function.
type Game struct {
	Name   string
	Agents []*Agent
	Worth  WorthFunction

	// WorthType names the kind of worth function for reporting. Optional.
	WorthType string
}
