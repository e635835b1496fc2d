package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
)

// logStateEntry logs when entering a state.
// Actions receive a pointer to the context, so **Context here.
func logStateEntry(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Run == nil {
		return
	}
	r := (*ctx).Run

	logging.Debug().
		Add(logging.RunID(r.ID)).
		Add(logging.State(targetState(event))).
		Msg("entered state")
}

// recordTransition applies the transition to the run record.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Run == nil {
		return
	}
	r := (*ctx).Run
	from := r.CurrentState
	to := targetState(event)

	if payload, ok := event.Payload.(TransitionPayload); ok && payload.Err != nil {
		r.Fail(payload.Err)
	} else if err := r.TransitionTo(to); err != nil {
		logging.Warn().
			Add(logging.RunID(r.ID)).
			Add(logging.FromState(from)).
			Add(logging.ToState(to)).
			Add(logging.ErrorField(err)).
			Msg("transition rejected by run")
		return
	}

	logging.Trace().
		Add(logging.RunID(r.ID)).
		Add(logging.FromState(from)).
		Add(logging.ToState(to)).
		Msg("state transition")
}
