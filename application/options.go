package application

import (
	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
	infratelemetry "github.com/felixgeelhaar/shapley-go/infrastructure/telemetry"
)

// Option configures the engine.
type Option func(*EngineConfig)

// WithMaxAgents sets the largest game the engine will enumerate.
// Zero keeps the default.
func WithMaxAgents(n int) Option {
	return func(c *EngineConfig) {
		c.MaxAgents = n
	}
}

// WithTolerance sets the absolute tolerance of the efficiency check.
// Zero keeps the default.
func WithTolerance(tol float64) Option {
	return func(c *EngineConfig) {
		c.Tolerance = tol
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m infratelemetry.Metrics) Option {
	return func(c *EngineConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer used for computation spans.
func WithTracer(t telemetry.Tracer) Option {
	return func(c *EngineConfig) {
		c.Tracer = t
	}
}

// NewEngineWithOptions creates an engine with functional options.
func NewEngineWithOptions(opts ...Option) (*Engine, error) {
	config := EngineConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewEngine(config)
}
