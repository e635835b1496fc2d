package worth

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/config"
)

func TestRegistry_Types(t *testing.T) {
	t.Parallel()

	types := NewRegistry().Types()
	if len(types) != len(config.WorthTypes) {
		t.Fatalf("len(Types()) = %d, want %d", len(types), len(config.WorthTypes))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].Name >= types[i].Name {
			t.Errorf("Types() not sorted: %s before %s", types[i-1].Name, types[i].Name)
		}
	}
}

func TestRegistry_Build(t *testing.T) {
	t.Parallel()

	agents := newAgents(100, 200, 300)
	grand, _ := coalition.NewGroup(agents...)
	r := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.WorthConfig
		want float64
	}{
		{"max", config.WorthConfig{Type: config.WorthMax}, 300},
		{"sum", config.WorthConfig{Type: config.WorthSum}, 600},
		{"bandwidth", config.WorthConfig{Type: config.WorthBandwidth, Params: map[string]float64{"capacity": 200}}, 200},
		{"majority", config.WorthConfig{Type: config.WorthMajority, Params: map[string]float64{"quota": 301}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, err := r.Build(ctx, Spec{Game: "g", Config: tt.cfg, Agents: agents})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			got, err := w.Worth(ctx, grand)
			if err != nil {
				t.Fatalf("Worth() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Worth(grand) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_BuildErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	ctx := context.Background()

	if _, err := r.Build(ctx, Spec{Config: config.WorthConfig{Type: "banzhaf"}}); !errors.Is(err, config.ErrUnknownWorthType) {
		t.Errorf("Build(unknown) error = %v, want ErrUnknownWorthType", err)
	}
	if _, err := r.Build(ctx, Spec{Config: config.WorthConfig{Type: config.WorthBandwidth}}); err == nil {
		t.Error("Build(bandwidth without capacity) should fail")
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("const", "always 7", func(context.Context, Spec) (coalition.WorthFunction, error) {
		return coalition.WorthFunc(func(*coalition.Group) float64 { return 7 }), nil
	})

	w, err := r.Build(context.Background(), Spec{Config: config.WorthConfig{Type: "const"}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if v, _ := w.Worth(context.Background(), &coalition.Group{}); v != 7 {
		t.Errorf("Worth() = %v, want 7", v)
	}
}
