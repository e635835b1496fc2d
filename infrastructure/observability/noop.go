package observability

import (
	"context"

	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
)

// NoopTracer discards computation spans.
type NoopTracer struct{}

// NewNoopTracer creates a new no-op tracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// StartComputation implements telemetry.Tracer.
func (t *NoopTracer) StartComputation(ctx context.Context, _ telemetry.Computation) (context.Context, telemetry.Span) {
	return ctx, noopSpan{}
}

var _ telemetry.Tracer = (*NoopTracer)(nil)

type noopSpan struct{}

func (noopSpan) Complete(telemetry.Outcome) {}
func (noopSpan) Fail(error, uint64)         {}
func (noopSpan) End()                       {}
