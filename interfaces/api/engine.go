// Package api provides the public API for shapley-go.
// This file provides engine-related exports.
package api

import (
	"github.com/felixgeelhaar/shapley-go/application"
	"github.com/felixgeelhaar/shapley-go/domain/run"
	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
)

// Re-export engine types.
type (
	// Engine computes Shapley values with lifecycle tracking.
	Engine = application.Engine
	// EngineConfig contains configuration for the engine.
	EngineConfig = application.EngineConfig
	// Option configures the engine.
	Option = application.Option
	// Result is the outcome of one computation.
	Result = application.Result
	// InspectionService checks values against the Shapley axioms.
	InspectionService = application.InspectionService
	// Report lists axiom checks for one game.
	Report = application.Report
	// ResultView is the serialized form of a Result.
	ResultView = application.ResultView
	// ValueView is one agent's value in serialized output.
	ValueView = application.ValueView
	// DiagramFormat selects the lifecycle diagram syntax.
	DiagramFormat = application.DiagramFormat
	// Run records one computation.
	Run = run.Run
	// RunState is a lifecycle stage.
	RunState = run.State
	// Tracer creates spans around computations.
	Tracer = telemetry.Tracer
)

// Lifecycle states.
const (
	StatePending     = run.StatePending
	StateValidating  = run.StateValidating
	StateEnumerating = run.StateEnumerating
	StateAveraging   = run.StateAveraging
	StateDone        = run.StateDone
	StateFailed      = run.StateFailed
)

// Diagram formats.
const (
	FormatDOT     = application.FormatDOT
	FormatMermaid = application.FormatMermaid
)

// Engine defaults.
const (
	DefaultMaxAgents = application.DefaultMaxAgents
	DefaultTolerance = application.DefaultTolerance
)

// Engine errors.
var (
	ErrNilGame          = application.ErrNilGame
	ErrNilWorth         = application.ErrNilWorth
	ErrInvalidMaxAgents = application.ErrInvalidMaxAgents
	ErrInvalidTolerance = application.ErrInvalidTolerance
	ErrInvalidOrder     = application.ErrInvalidOrder
	ErrTooManyAgents    = run.ErrTooManyAgents
)

// New creates an engine with functional options.
func New(opts ...Option) (*Engine, error) {
	return application.NewEngineWithOptions(opts...)
}

// WithMaxAgents sets the largest game the engine will enumerate.
func WithMaxAgents(n int) Option {
	return application.WithMaxAgents(n)
}

// WithTolerance sets the efficiency check tolerance.
func WithTolerance(tol float64) Option {
	return application.WithTolerance(tol)
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m Metrics) Option {
	return application.WithMetrics(m)
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return application.WithTracer(t)
}

// ValueViews lists values in the given agent order for output.
func ValueViews(values Allocation, order []*Agent) []ValueView {
	return application.ValueViews(values, order)
}

// NewInspectionService creates an inspection service using the engine's
// ceiling and tolerance.
func NewInspectionService(e *Engine) *InspectionService {
	return application.NewInspectionService(e)
}
