package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
)

// OTelTracer records computations as OpenTelemetry spans.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer wraps tracer.
func NewOTelTracer(tracer trace.Tracer) *OTelTracer {
	return &OTelTracer{tracer: tracer}
}

// StartComputation implements telemetry.Tracer.
func (t *OTelTracer) StartComputation(ctx context.Context, c telemetry.Computation) (context.Context, telemetry.Span) {
	attrs := []attribute.KeyValue{
		attribute.String(telemetry.AttrRunID, c.RunID),
		attribute.String(telemetry.AttrGame, c.Game),
		attribute.Int(telemetry.AttrAgents, c.Agents),
	}
	if c.WorthType != "" {
		attrs = append(attrs, attribute.String(telemetry.AttrWorthType, c.WorthType))
	}

	ctx, span := t.tracer.Start(ctx, telemetry.SpanCompute,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &computationSpan{span: span}
}

var _ telemetry.Tracer = (*OTelTracer)(nil)

type computationSpan struct {
	span trace.Span
}

func (s *computationSpan) Complete(o telemetry.Outcome) {
	s.span.SetAttributes(
		counter(telemetry.AttrPermutation, o.Permutations),
		counter(telemetry.AttrEvaluations, o.Evaluations),
		attribute.Float64(telemetry.AttrGrandWorth, o.GrandWorth),
		attribute.Bool(telemetry.AttrEfficient, o.Efficient),
	)
	s.span.SetStatus(codes.Ok, "")
}

func (s *computationSpan) Fail(err error, evaluations uint64) {
	s.span.SetAttributes(counter(telemetry.AttrEvaluations, evaluations))
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *computationSpan) End() {
	s.span.End()
}

// counter stores n as int64; n! for 20 agents still fits.
func counter(key string, n uint64) attribute.KeyValue {
	return attribute.Int64(key, int64(n)) // #nosec G115 -- bounded by 20!
}
