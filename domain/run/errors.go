package run

import "errors"

// Domain errors for computation runs.
var (
	// ErrInvalidState indicates the state is not a recognized run state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition indicates an attempted state transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRunTerminated indicates an operation was attempted on a finished run.
	ErrRunTerminated = errors.New("run already terminated")

	// ErrTooManyAgents indicates the game exceeds the configured agent ceiling.
	ErrTooManyAgents = errors.New("too many agents")
)
