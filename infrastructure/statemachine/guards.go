package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/shapley-go/domain/run"
)

// guardCanTransition checks the run's transition table.
// statekit passes the context by value, so the guard receives *Context.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Run == nil {
		return false
	}
	return run.CanTransition(ctx.Run.CurrentState, targetState(event))
}

func targetState(event statekit.Event) run.State {
	if payload, ok := event.Payload.(TransitionPayload); ok && payload.ToState != "" {
		return payload.ToState
	}
	return stateFromEventType(event.Type)
}
