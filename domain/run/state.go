// Package run models a single Shapley computation and its lifecycle.
package run

// State is a stage in the lifecycle of a computation.
type State string

// Lifecycle states.
const (
	StatePending     State = "pending"     // Created, not started
	StateValidating  State = "validating"  // Checking agents and ceiling
	StateEnumerating State = "enumerating" // Visiting orderings
	StateAveraging   State = "averaging"   // Dividing accumulated sums
	StateDone        State = "done"        // Terminal success
	StateFailed      State = "failed"      // Terminal failure
)

// IsTerminal returns true for done and failed.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// IsValid returns true if the state is a recognized run state.
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateValidating, StateEnumerating, StateAveraging, StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// AllStates returns every run state in lifecycle order.
func AllStates() []State {
	return []State{
		StatePending,
		StateValidating,
		StateEnumerating,
		StateAveraging,
		StateDone,
		StateFailed,
	}
}

var transitions = map[State][]State{
	StatePending:     {StateValidating, StateFailed},
	StateValidating:  {StateEnumerating, StateFailed},
	StateEnumerating: {StateAveraging, StateFailed},
	StateAveraging:   {StateDone, StateFailed},
}

// CanTransition reports whether a run may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Successors returns the states reachable from s in one step.
func Successors(s State) []State {
	next := transitions[s]
	out := make([]State, len(next))
	copy(out, next)
	return out
}
