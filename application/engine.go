// Package application runs Shapley computations with lifecycle tracking,
// logging, tracing and metrics around the domain algorithm.
package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/run"
	"github.com/felixgeelhaar/shapley-go/domain/shapley"
	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/observability"
	"github.com/felixgeelhaar/shapley-go/infrastructure/statemachine"
	infratelemetry "github.com/felixgeelhaar/shapley-go/infrastructure/telemetry"
)

// Engine defaults.
const (
	DefaultMaxAgents = 10
	DefaultTolerance = 1e-9
)

// Engine computes Shapley values for games.
type Engine struct {
	maxAgents int
	tolerance float64
	metrics   infratelemetry.Metrics
	tracer    telemetry.Tracer
}

// EngineConfig contains configuration for the engine.
type EngineConfig struct {
	// MaxAgents is the largest game accepted (default DefaultMaxAgents,
	// at most shapley.MaxCountable).
	MaxAgents int

	// Tolerance is the efficiency check tolerance (default DefaultTolerance).
	Tolerance float64

	Metrics infratelemetry.Metrics
	Tracer  telemetry.Tracer
}

// NewEngine creates a new engine with the given configuration.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.MaxAgents < 0 || config.MaxAgents > shapley.MaxCountable {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMaxAgents, config.MaxAgents, shapley.MaxCountable)
	}
	if config.Tolerance < 0 || math.IsNaN(config.Tolerance) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTolerance, config.Tolerance)
	}

	e := &Engine{
		maxAgents: config.MaxAgents,
		tolerance: config.Tolerance,
		metrics:   config.Metrics,
		tracer:    config.Tracer,
	}

	// Set defaults
	if e.maxAgents == 0 {
		e.maxAgents = DefaultMaxAgents
	}
	if e.tolerance == 0 {
		e.tolerance = DefaultTolerance
	}
	if e.metrics == nil {
		e.metrics = infratelemetry.NoopMetricsProvider{}
	}
	if e.tracer == nil {
		e.tracer = observability.NewNoopTracer()
	}

	return e, nil
}

// MaxAgents returns the configured agent ceiling.
func (e *Engine) MaxAgents() int {
	return e.maxAgents
}

// Result is the outcome of one computation.
type Result struct {
	// Run is the lifecycle record, populated on success and failure.
	Run *run.Run

	// Agents is the game's agent list in input order.
	Agents []*coalition.Agent

	// Values maps every agent to its Shapley value.
	Values shapley.Allocation

	// GrandWorth is the worth of the coalition of all agents.
	GrandWorth float64

	// EmptyWorth is the worth of the empty coalition.
	EmptyWorth float64

	// Efficient reports whether the values sum to GrandWorth within tolerance.
	Efficient bool
}

// Entries returns the values in agent input order.
func (r *Result) Entries() []shapley.Entry {
	return r.Values.Entries(r.Agents)
}

// Compute runs the full enumeration for game.
//
// The returned Result carries the run record even when err is non-nil.
// Errors from the worth function are wrapped with the game name and can be
// matched with errors.Is.
func (e *Engine) Compute(ctx context.Context, game *coalition.Game) (*Result, error) {
	if game == nil {
		return nil, ErrNilGame
	}

	runID := uuid.NewString()
	r := run.New(runID, game.Name, len(game.Agents))
	r.Permutations = shapley.Count(len(game.Agents))
	result := &Result{Run: r, Agents: game.Agents}

	machine, err := statemachine.NewComputationMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(r))

	ctx, span := e.tracer.StartComputation(ctx, telemetry.Computation{
		RunID:     runID,
		Game:      game.Name,
		Agents:    len(game.Agents),
		WorthType: game.WorthType,
	})
	defer span.End()

	e.metrics.IncrementActive(ctx)
	defer e.metrics.DecrementActive(ctx)

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Game(game.Name)).
		Add(logging.Agents(len(game.Agents))).
		Add(logging.Permutations(r.Permutations)).
		Msg("computation started")

	interp.Start()
	defer interp.Stop()

	counter := &countingWorth{}
	err = e.execute(ctx, interp, game, counter, result)
	r.Evaluations = counter.Count()

	if err != nil {
		err = fmt.Errorf("compute %q: %w", game.Name, err)
		if !interp.IsTerminal() {
			_ = interp.Fail(err)
		}

		span.Fail(err, r.Evaluations)
		e.metrics.RecordError(ctx, game.Name, classify(err))
		e.metrics.RecordComputation(ctx, game.Name, len(game.Agents), false, r.Duration())

		logging.Error().
			Add(logging.RunID(runID)).
			Add(logging.Game(game.Name)).
			Add(logging.State(r.CurrentState)).
			Add(logging.Evaluations(r.Evaluations)).
			Add(logging.ErrorField(err)).
			Msg("computation failed")

		return result, err
	}

	e.metrics.RecordPermutations(ctx, game.Name, r.Permutations)
	e.metrics.RecordWorthEvaluations(ctx, game.Name, game.WorthType, r.Evaluations)
	e.metrics.RecordComputation(ctx, game.Name, len(game.Agents), true, r.Duration())

	span.Complete(telemetry.Outcome{
		Permutations: r.Permutations,
		Evaluations:  r.Evaluations,
		GrandWorth:   result.GrandWorth,
		Efficient:    result.Efficient,
	})

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Game(game.Name)).
		Add(logging.Evaluations(r.Evaluations)).
		Add(logging.Value("grand_worth", result.GrandWorth)).
		Add(logging.Bool("efficient", result.Efficient)).
		Add(logging.Duration(r.Duration())).
		Msg("computation completed")

	return result, nil
}

func (e *Engine) execute(ctx context.Context, interp *statemachine.Interpreter, game *coalition.Game, counter *countingWorth, result *Result) error {
	if err := interp.Transition(run.StateValidating); err != nil {
		return err
	}
	if game.Worth == nil {
		return ErrNilWorth
	}
	if n := len(game.Agents); n > e.maxAgents {
		return fmt.Errorf("%w: %d agents, limit %d", run.ErrTooManyAgents, n, e.maxAgents)
	}
	grand, err := coalition.NewGroup(game.Agents...)
	if err != nil {
		return err
	}
	counter.inner = game.Worth

	if err := interp.Transition(run.StateEnumerating); err != nil {
		return err
	}
	values, err := shapley.ShapleyValues(ctx, game.Agents, counter)
	if err != nil {
		return err
	}

	if err := interp.Transition(run.StateAveraging); err != nil {
		return err
	}
	result.Values = values
	if result.GrandWorth, err = counter.Worth(ctx, grand); err != nil {
		return err
	}
	if result.EmptyWorth, err = counter.Worth(ctx, &coalition.Group{}); err != nil {
		return err
	}

	result.Efficient = true
	if len(game.Agents) > 0 {
		if err := shapley.CheckEfficiency(values, result.GrandWorth, e.tolerance); err != nil {
			result.Efficient = false
			logging.Warn().
				Add(logging.RunID(result.Run.ID)).
				Add(logging.Game(game.Name)).
				Add(logging.ErrorField(err)).
				Msg("efficiency check failed; worth function may be non-deterministic")
		}
	}

	return interp.Transition(run.StateDone)
}

// Marginal returns each agent's marginal contribution under one ordering of
// the game's agents.
func (e *Engine) Marginal(ctx context.Context, game *coalition.Game, order []*coalition.Agent) (shapley.Allocation, error) {
	if game == nil {
		return nil, ErrNilGame
	}
	if game.Worth == nil {
		return nil, ErrNilWorth
	}

	all, err := coalition.NewGroup(game.Agents...)
	if err != nil {
		return nil, err
	}
	if len(order) != all.Size() {
		return nil, fmt.Errorf("%w: %d agents, game has %d", ErrInvalidOrder, len(order), all.Size())
	}
	if _, err := coalition.NewGroup(order...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	for _, a := range order {
		if !all.Contains(a) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOrder, a)
		}
	}

	marginals, err := shapley.MarginalContributions(ctx, order, game.Worth)
	if err != nil {
		return nil, fmt.Errorf("marginal %q: %w", game.Name, err)
	}
	return marginals, nil
}

// countingWorth counts evaluations and stops early on cancellation.
type countingWorth struct {
	inner coalition.WorthFunction
	n     atomic.Uint64
}

func (c *countingWorth) Worth(ctx context.Context, g *coalition.Group) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.n.Add(1)
	return c.inner.Worth(ctx, g)
}

func (c *countingWorth) Count() uint64 {
	return c.n.Load()
}

// classify maps an error to a low-cardinality metric label.
func classify(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, run.ErrTooManyAgents):
		return "too_many_agents"
	case errors.Is(err, coalition.ErrDuplicateMember), errors.Is(err, coalition.ErrNilAgent):
		return "invalid_agents"
	case errors.Is(err, ErrNilWorth):
		return "invalid_game"
	case errors.Is(err, run.ErrInvalidTransition), errors.Is(err, run.ErrRunTerminated):
		return "lifecycle"
	default:
		return "worth"
	}
}
