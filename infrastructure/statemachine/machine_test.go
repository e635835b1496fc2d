package statemachine

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/shapley-go/domain/run"
)

func newInterpreter(t *testing.T) (*Interpreter, *run.Run) {
	t.Helper()

	machine, err := NewComputationMachine()
	if err != nil {
		t.Fatalf("NewComputationMachine() error = %v", err)
	}
	r := run.New("run-1", "taxi", 3)
	interp := NewInterpreter(machine, NewContext(r))
	interp.Start()
	t.Cleanup(interp.Stop)
	return interp, r
}

func TestNewComputationMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewComputationMachine()
	if err != nil {
		t.Fatalf("NewComputationMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewComputationMachine() returned nil machine")
	}
}

func TestInterpreter_HappyPath(t *testing.T) {
	t.Parallel()

	interp, r := newInterpreter(t)

	if interp.State() != run.StatePending {
		t.Fatalf("State() = %s, want pending", interp.State())
	}
	if r.Status != run.StatusRunning {
		t.Errorf("Status = %s, want running", r.Status)
	}

	for _, s := range []run.State{run.StateValidating, run.StateEnumerating, run.StateAveraging, run.StateDone} {
		if err := interp.Transition(s); err != nil {
			t.Fatalf("Transition(%s) error = %v", s, err)
		}
		if r.CurrentState != s {
			t.Errorf("Run.CurrentState = %s, want %s", r.CurrentState, s)
		}
	}

	if !interp.IsTerminal() {
		t.Error("IsTerminal() = false after done")
	}
	if r.Status != run.StatusCompleted {
		t.Errorf("Status = %s, want completed", r.Status)
	}
}

func TestInterpreter_RejectsSkippedStage(t *testing.T) {
	t.Parallel()

	interp, r := newInterpreter(t)

	err := interp.Transition(run.StateAveraging)
	if !errors.Is(err, run.ErrInvalidTransition) {
		t.Fatalf("Transition() error = %v, want ErrInvalidTransition", err)
	}
	if !interp.Matches(run.StatePending) || r.CurrentState != run.StatePending {
		t.Errorf("state moved to %s", interp.State())
	}
}

func TestInterpreter_Fail(t *testing.T) {
	t.Parallel()

	interp, r := newInterpreter(t)
	if err := interp.Transition(run.StateValidating); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	cause := errors.New("worth service down")
	if err := interp.Fail(cause); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	if interp.State() != run.StateFailed {
		t.Errorf("State() = %s, want failed", interp.State())
	}
	if r.Status != run.StatusFailed || r.Error != cause.Error() {
		t.Errorf("run = %s/%q, want failed with cause", r.Status, r.Error)
	}
	if err := interp.Transition(run.StateEnumerating); !errors.Is(err, run.ErrRunTerminated) {
		t.Errorf("Transition() after fail error = %v, want ErrRunTerminated", err)
	}
}

func TestEventForTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    run.State
		expected string
	}{
		{run.StateValidating, "VALIDATE"},
		{run.StateEnumerating, "ENUMERATE"},
		{run.StateAveraging, "AVERAGE"},
		{run.StateDone, "DONE"},
		{run.StateFailed, "FAIL"},
		{run.State("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()

			event := EventForTransition(tt.state)
			if string(event) != tt.expected {
				t.Errorf("EventForTransition(%s) = %s, want %s", tt.state, event, tt.expected)
			}
			if stateFromEventType(event) != tt.state {
				t.Errorf("stateFromEventType(%s) = %s, want %s", event, stateFromEventType(event), tt.state)
			}
		})
	}
}
