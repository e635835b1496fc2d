package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/shapley-go/domain/run"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	ToState run.State
	Err     error
}

// Interpreter wraps the statekit interpreter for one run.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter bound to the given context.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start enters the initial state and marks the run as running.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Run.CurrentState = run.State(i.interp.State().Value)
	i.ctx.Run.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current state.
func (i *Interpreter) State() run.State {
	return run.State(i.interp.State().Value)
}

// Transition moves the run to the target state.
func (i *Interpreter) Transition(to run.State) error {
	if i.ctx.Run.IsTerminal() {
		return run.ErrRunTerminated
	}
	if !run.CanTransition(i.ctx.Run.CurrentState, to) {
		return fmt.Errorf("%w: %s -> %s", run.ErrInvalidTransition, i.ctx.Run.CurrentState, to)
	}

	i.interp.Send(statekit.Event{
		Type:    EventForTransition(to),
		Payload: TransitionPayload{ToState: to},
	})

	if got := i.State(); got != to {
		return fmt.Errorf("%w: machine in %s, want %s", run.ErrInvalidTransition, got, to)
	}
	return nil
}

// Fail moves the run to the failed state and records the cause.
func (i *Interpreter) Fail(cause error) error {
	if i.ctx.Run.IsTerminal() {
		return run.ErrRunTerminated
	}
	i.interp.Send(statekit.Event{
		Type:    EventFail,
		Payload: TransitionPayload{ToState: run.StateFailed, Err: cause},
	})
	return nil
}

// IsTerminal returns true if the interpreter reached a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Matches checks if the current state matches the given run state.
func (i *Interpreter) Matches(state run.State) bool {
	return i.interp.Matches(statekit.StateID(state))
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}
