package config

import (
	"context"
	"errors"
	"testing"

	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
)

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	result, err := NewBuilder(DefaultConfig()).Build(ctx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer func() { _ = result.Close(ctx) }()

	if result.Game.Name != "taxi" {
		t.Errorf("Game.Name = %q", result.Game.Name)
	}
	if len(result.Game.Agents) != 3 {
		t.Fatalf("len(Agents) = %d, want 3", len(result.Game.Agents))
	}

	a, ok := AgentByID(result.Game, "p3")
	if !ok || a.Contribution() != 42 {
		t.Errorf("AgentByID(p3) = %v, %v", a, ok)
	}
	if _, ok := AgentByID(result.Game, "p9"); ok {
		t.Error("AgentByID(p9) should not be found")
	}
}

func TestBuilder_UnknownWorth(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Worth.Type = "banzhaf"

	_, err := NewBuilder(cfg).Build(context.Background())
	if !errors.Is(err, domainconfig.ErrBuildFailed) {
		t.Errorf("Build() error = %v, want ErrBuildFailed", err)
	}
	if !errors.Is(err, domainconfig.ErrUnknownWorthType) {
		t.Errorf("Build() error = %v, want ErrUnknownWorthType", err)
	}
}

func TestBuilder_Settings(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Engine = domainconfig.EngineConfig{MaxAgents: 5, Tolerance: 1e-6}

	result, err := NewBuilder(cfg).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.MaxAgents != 5 || result.Tolerance != 1e-6 {
		t.Errorf("settings = %d/%v", result.MaxAgents, result.Tolerance)
	}
}
