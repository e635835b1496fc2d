// Package telemetry defines the tracing port used by the computation engine.
package telemetry

import "context"

// SpanCompute names the span that covers one computation.
const SpanCompute = "shapley.compute"

// Attribute keys recorded on computation spans.
const (
	AttrGame        = "shapley.game"
	AttrRunID       = "shapley.run_id"
	AttrAgents      = "shapley.agents"
	AttrWorthType   = "shapley.worth_type"
	AttrPermutation = "shapley.permutations"
	AttrEvaluations = "shapley.worth_evaluations"
	AttrGrandWorth  = "shapley.grand_worth"
	AttrEfficient   = "shapley.efficient"
)

// Tracer opens one span per computation.
type Tracer interface {
	// StartComputation opens a span for c and returns a context carrying it.
	StartComputation(ctx context.Context, c Computation) (context.Context, Span)
}

// Computation identifies the run a span covers.
type Computation struct {
	RunID     string
	Game      string
	Agents    int
	WorthType string
}

// Outcome summarizes a finished computation.
type Outcome struct {
	Permutations uint64
	Evaluations  uint64
	GrandWorth   float64
	Efficient    bool
}

// Span covers one computation. Exactly one of Complete or Fail is called
// before End.
type Span interface {
	// Complete records the outcome of a successful run.
	Complete(o Outcome)

	// Fail records the error that ended the run after evaluations worth calls.
	Fail(err error, evaluations uint64)

	// End closes the span.
	End()
}
