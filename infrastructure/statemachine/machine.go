// Package statemachine drives the computation lifecycle with statekit.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/shapley-go/domain/run"
)

// MachineID identifies the computation statechart.
const MachineID = "computation"

// Context carries the run through the state machine.
type Context struct {
	Run *run.Run
}

// NewContext creates a new machine context.
func NewContext(r *run.Run) *Context {
	return &Context{Run: r}
}

// State IDs as StateID type for statekit.
const (
	statePending     statekit.StateID = statekit.StateID(run.StatePending)
	stateValidating  statekit.StateID = statekit.StateID(run.StateValidating)
	stateEnumerating statekit.StateID = statekit.StateID(run.StateEnumerating)
	stateAveraging   statekit.StateID = statekit.StateID(run.StateAveraging)
	stateDone        statekit.StateID = statekit.StateID(run.StateDone)
	stateFailed      statekit.StateID = statekit.StateID(run.StateFailed)
)

// Event types.
const (
	EventValidate  statekit.EventType = "VALIDATE"
	EventEnumerate statekit.EventType = "ENUMERATE"
	EventAverage   statekit.EventType = "AVERAGE"
	EventDone      statekit.EventType = "DONE"
	EventFail      statekit.EventType = "FAIL"
)

// NewComputationMachine creates the computation statechart.
func NewComputationMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context](MachineID).
		WithInitial(statePending).
		WithContext(&Context{}).
		WithAction("logEntry", logStateEntry).
		WithAction("recordTransition", recordTransition).
		WithGuard("canTransition", guardCanTransition).
		State(statePending).
			On(EventValidate).Target(stateValidating).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateValidating).
			OnEntry("logEntry").
			On(EventEnumerate).Target(stateEnumerating).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateEnumerating).
			OnEntry("logEntry").
			On(EventAverage).Target(stateAveraging).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateAveraging).
			OnEntry("logEntry").
			On(EventDone).Target(stateDone).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateDone).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateFailed).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventForTransition returns the event type that moves a run into the given state.
func EventForTransition(to run.State) statekit.EventType {
	switch to {
	case run.StateValidating:
		return EventValidate
	case run.StateEnumerating:
		return EventEnumerate
	case run.StateAveraging:
		return EventAverage
	case run.StateDone:
		return EventDone
	case run.StateFailed:
		return EventFail
	default:
		return statekit.EventType(to)
	}
}

func stateFromEventType(eventType statekit.EventType) run.State {
	switch eventType {
	case EventValidate:
		return run.StateValidating
	case EventEnumerate:
		return run.StateEnumerating
	case EventAverage:
		return run.StateAveraging
	case EventDone:
		return run.StateDone
	case EventFail:
		return run.StateFailed
	default:
		return run.State(eventType)
	}
}
