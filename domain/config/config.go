// Package config provides domain models for game definitions.
package config

import "time"

// GameConfig is a cooperative game as described in a game file.
type GameConfig struct {
	// Name is a human-readable name for the game.
	Name string `json:"name" yaml:"name"`
	// Version is the game file schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the game.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Engine contains computation settings.
	Engine EngineConfig `json:"engine,omitempty" yaml:"engine,omitempty"`
	// Worth selects and parameterizes the worth function.
	Worth WorthConfig `json:"worth" yaml:"worth"`
	// Agents lists the players in input order.
	Agents []AgentConfig `json:"agents" yaml:"agents"`
	// Logging configures log output.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Observability configures tracing and metrics.
	Observability ObservabilityConfig `json:"observability,omitempty" yaml:"observability,omitempty"`
}

// EngineConfig contains computation settings.
type EngineConfig struct {
	// MaxAgents rejects games with more agents (0 uses the engine default).
	MaxAgents int `json:"max_agents,omitempty" yaml:"max_agents,omitempty"`
	// Tolerance is the allowed efficiency error (0 uses the engine default).
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

// Worth function types.
const (
	WorthMax       = "max"
	WorthSum       = "sum"
	WorthBandwidth = "bandwidth"
	WorthMajority  = "majority"
	WorthRemote    = "remote"
	WorthWASM      = "wasm"
)

// WorthConfig selects the worth function.
type WorthConfig struct {
	// Type is the worth function type (max, sum, bandwidth, majority, remote, wasm).
	Type string `json:"type" yaml:"type"`
	// Params holds type-specific numeric parameters (capacity, quota).
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	// URL is the endpoint for remote worth functions.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Headers are extra HTTP headers for remote worth functions.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Path is the module file for wasm worth functions.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Export is the wasm function name (default "worth").
	Export string `json:"export,omitempty" yaml:"export,omitempty"`
	// Timeout bounds a single remote evaluation.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Retry configures retries for remote evaluations.
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
	// CircuitBreaker configures the circuit breaker for remote evaluations.
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker,omitempty" yaml:"circuit_breaker,omitempty"`
	// RateLimit caps remote evaluations per second (0 means unlimited).
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	// Burst is the number of evaluations allowed at once under RateLimit.
	Burst int `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// Param returns a numeric parameter and whether it was set.
func (w WorthConfig) Param(name string) (float64, bool) {
	v, ok := w.Params[name]
	return v, ok
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum attempts including the first (0 disables retry).
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// Enabled enables the circuit breaker.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Threshold is consecutive failures before opening.
	Threshold int `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Timeout is how long the circuit stays open.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// AgentConfig describes one player.
type AgentConfig struct {
	// ID identifies the agent in output and in remote requests.
	ID string `json:"id" yaml:"id"`
	// Name is an optional display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Contribution is the agent's intrinsic value.
	Contribution float64 `json:"contribution" yaml:"contribution"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ObservabilityConfig configures tracing and metrics.
type ObservabilityConfig struct {
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Trace exporters.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS for OTLP.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// SampleRate is between 0 and 1 (0 means always sample).
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// MetricsConfig configures metric collection.
type MetricsConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
