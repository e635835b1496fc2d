package worth

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/config"
)

// Spec is everything a factory needs to build a worth function.
type Spec struct {
	Game   string
	Config config.WorthConfig
	Agents []*coalition.Agent
}

// Factory builds a worth function.
type Factory func(ctx context.Context, spec Spec) (coalition.WorthFunction, error)

// Closer is implemented by worth functions that hold resources.
type Closer interface {
	Close(ctx context.Context) error
}

// Info describes a registered worth type.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entry struct {
	description string
	factory     Factory
}

// Registry maps worth type names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns a registry with every built-in type registered.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}

	r.Register(config.WorthMax, "largest member contribution (taxi game)", func(context.Context, Spec) (coalition.WorthFunction, error) {
		return Max(), nil
	})
	r.Register(config.WorthSum, "sum of member contributions (additive game)", func(context.Context, Spec) (coalition.WorthFunction, error) {
		return Sum(), nil
	})
	r.Register(config.WorthBandwidth, "capacity left after non-members take their demand; params: capacity", func(_ context.Context, s Spec) (coalition.WorthFunction, error) {
		capacity, ok := s.Config.Param("capacity")
		if !ok {
			return nil, fmt.Errorf("bandwidth: capacity is required")
		}
		return Bandwidth(s.Agents, capacity), nil
	})
	r.Register(config.WorthMajority, "1 when member weights reach quota, else 0; params: quota", func(_ context.Context, s Spec) (coalition.WorthFunction, error) {
		quota, ok := s.Config.Param("quota")
		if !ok {
			return nil, fmt.Errorf("majority: quota is required")
		}
		return Majority(quota), nil
	})
	r.Register(config.WorthRemote, "POST member IDs to url, read {\"worth\": x}", func(_ context.Context, s Spec) (coalition.WorthFunction, error) {
		rc := DefaultRemoteConfig(s.Config.URL)
		rc.Game = s.Game
		rc.Headers = s.Config.Headers
		if d := s.Config.Timeout.Duration(); d > 0 {
			rc.Timeout = d
		}
		if s.Config.Retry.MaxAttempts > 0 {
			rc.MaxAttempts = s.Config.Retry.MaxAttempts
		}
		if d := s.Config.Retry.InitialDelay.Duration(); d > 0 {
			rc.RetryDelay = d
		}
		if s.Config.Retry.Multiplier >= 1 {
			rc.Multiplier = s.Config.Retry.Multiplier
		}
		if cb := s.Config.CircuitBreaker; cb.Enabled {
			rc.BreakerThreshold = cb.Threshold
			if d := cb.Timeout.Duration(); d > 0 {
				rc.BreakerTimeout = d
			}
		}
		rc.RateLimit = s.Config.RateLimit
		rc.Burst = s.Config.Burst
		return NewRemote(rc), nil
	})
	r.Register(config.WorthWASM, "call export (i64 mask) -> f64 of a WebAssembly module at path", func(ctx context.Context, s Spec) (coalition.WorthFunction, error) {
		return NewWASM(ctx, WASMConfig{Path: s.Config.Path, Export: s.Config.Export}, s.Agents)
	})

	return r
}

// Register adds or replaces a worth type.
func (r *Registry) Register(name, description string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{description: description, factory: factory}
}

// Build creates the worth function named by spec.Config.Type.
func (r *Registry) Build(ctx context.Context, spec Spec) (coalition.WorthFunction, error) {
	r.mu.RLock()
	e, ok := r.entries[spec.Config.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownWorthType, spec.Config.Type)
	}
	return e.factory(ctx, spec)
}

// Types lists registered worth types sorted by name.
func (r *Registry) Types() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		out = append(out, Info{Name: name, Description: e.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
