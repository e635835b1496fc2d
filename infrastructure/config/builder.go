package config

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
	"github.com/felixgeelhaar/shapley-go/infrastructure/worth"
)

// Builder turns a game definition into a runnable game.
type Builder struct {
	config   *domainconfig.GameConfig
	registry *worth.Registry
}

// NewBuilder creates a builder using the built-in worth types.
func NewBuilder(config *domainconfig.GameConfig) *Builder {
	return &Builder{config: config, registry: worth.NewRegistry()}
}

// WithRegistry replaces the worth registry.
func (b *Builder) WithRegistry(r *worth.Registry) *Builder {
	b.registry = r
	return b
}

// BuildResult contains the game and engine settings from a definition.
type BuildResult struct {
	// Game holds the agents in file order and the worth function.
	Game *coalition.Game
	// MaxAgents is the configured ceiling (0 for the engine default).
	MaxAgents int
	// Tolerance is the configured efficiency tolerance (0 for the engine default).
	Tolerance float64
}

// Close releases resources held by the worth function.
func (r *BuildResult) Close(ctx context.Context) error {
	if r == nil || r.Game == nil {
		return nil
	}
	if c, ok := r.Game.Worth.(worth.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}

// Build creates the agents and worth function.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	agents := make([]*coalition.Agent, len(b.config.Agents))
	for i, a := range b.config.Agents {
		agents[i] = coalition.NewAgentWithID(a.ID, a.Name, a.Contribution)
	}

	w, err := b.registry.Build(ctx, worth.Spec{
		Game:   b.config.Name,
		Config: b.config.Worth,
		Agents: agents,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: worth %s: %w", domainconfig.ErrBuildFailed, b.config.Worth.Type, err)
	}

	return &BuildResult{
		Game: &coalition.Game{
			Name:      b.config.Name,
			Agents:    agents,
			Worth:     w,
			WorthType: b.config.Worth.Type,
		},
		MaxAgents: b.config.Engine.MaxAgents,
		Tolerance: b.config.Engine.Tolerance,
	}, nil
}

// AgentByID finds an agent in a built game.
func AgentByID(g *coalition.Game, id string) (*coalition.Agent, bool) {
	for _, a := range g.Agents {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// DefaultConfig returns the taxi game written by the init command.
func DefaultConfig() *domainconfig.GameConfig {
	return &domainconfig.GameConfig{
		Name:        "taxi",
		Version:     "1",
		Description: "Three passengers share a taxi; each pays by their fare alone.",
		Worth:       domainconfig.WorthConfig{Type: domainconfig.WorthMax},
		Agents: []domainconfig.AgentConfig{
			{ID: "p1", Contribution: 6},
			{ID: "p2", Contribution: 12},
			{ID: "p3", Contribution: 42},
		},
	}
}
