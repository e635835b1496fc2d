package api_test

import (
	"context"
	"errors"
	"math"
	"testing"

	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

func TestShapleyValues_Taxi(t *testing.T) {
	t.Parallel()

	a := api.NewAgent("a", 6)
	b := api.NewAgent("b", 12)
	c := api.NewAgent("c", 42)

	values, err := api.ShapleyValues(context.Background(), []*api.Agent{a, b, c}, api.MaxWorth())
	if err != nil {
		t.Fatalf("ShapleyValues() error = %v", err)
	}

	want := map[*api.Agent]float64{a: 2, b: 5, c: 35}
	for agent, w := range want {
		if math.Abs(values[agent]-w) > 1e-9 {
			t.Errorf("value(%s) = %v, want %v", agent.Name(), values[agent], w)
		}
	}
	if err := api.CheckEfficiency(values, 42, 1e-9); err != nil {
		t.Errorf("CheckEfficiency() error = %v", err)
	}
}

func TestShapleyValues_Duplicate(t *testing.T) {
	t.Parallel()

	a := api.NewAgent("a", 1)
	_, err := api.ShapleyValues(context.Background(), []*api.Agent{a, a}, api.SumWorth())
	if !errors.Is(err, api.ErrDuplicateMember) {
		t.Errorf("ShapleyValues() error = %v, want ErrDuplicateMember", err)
	}
}

func TestEngine_FromGameFile(t *testing.T) {
	t.Parallel()

	const content = `
name: bandwidth
version: "1"
worth:
  type: bandwidth
  params:
    capacity: 200
agents:
  - id: x
    contribution: 100
  - id: y
    contribution: 200
  - id: z
    contribution: 300
`
	cfg, err := api.NewConfigLoaderWithOptions(api.ConfigWithValidation(true)).LoadString(content, api.ConfigFormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	built, err := api.NewConfigBuilder(cfg).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer built.Close(context.Background())

	engine, err := api.New(api.WithMaxAgents(5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := engine.Compute(context.Background(), built.Game)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	x, _ := api.FindAgent(built.Game, "x")
	y, _ := api.FindAgent(built.Game, "y")
	z, _ := api.FindAgent(built.Game, "z")

	want := map[*api.Agent]float64{x: 100.0 / 3, y: 250.0 / 3, z: 250.0 / 3}
	for agent, w := range want {
		if math.Abs(result.Values[agent]-w) > 1e-9 {
			t.Errorf("value(%s) = %v, want %v", agent.ID(), result.Values[agent], w)
		}
	}
	if result.Run.CurrentState != api.StateDone {
		t.Errorf("state = %s, want done", result.Run.CurrentState)
	}
}

func TestEngine_Ceiling(t *testing.T) {
	t.Parallel()

	if _, err := api.New(api.WithMaxAgents(api.MaxCountable + 1)); !errors.Is(err, api.ErrInvalidMaxAgents) {
		t.Errorf("New() error = %v, want ErrInvalidMaxAgents", err)
	}
}

func TestPermutationCount(t *testing.T) {
	t.Parallel()

	if got := api.PermutationCount(4); got != 24 {
		t.Errorf("PermutationCount(4) = %d, want 24", got)
	}
}

func TestWorthRegistry(t *testing.T) {
	t.Parallel()

	types := api.NewWorthRegistry().Types()
	if len(types) != 6 {
		t.Errorf("Types() = %d entries, want 6", len(types))
	}
}
