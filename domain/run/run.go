package run

import (
	"fmt"
	"time"
)

// Status summarizes where a run is.
type Status string

const (
	StatusPending   Status = "pending"   // Not yet started
	StatusRunning   Status = "running"   // Currently computing
	StatusCompleted Status = "completed" // Values produced
	StatusFailed    Status = "failed"    // Terminated with error
)

// Run records one Shapley computation.
type Run struct {
	ID           string    `json:"id"`
	Game         string    `json:"game"`
	Agents       int       `json:"agents"`
	CurrentState State     `json:"current_state"`
	Status       Status    `json:"status"`
	Permutations uint64    `json:"permutations"`
	Evaluations  uint64    `json:"worth_evaluations"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// New creates a pending run.
func New(id, game string, agents int) *Run {
	return &Run{
		ID:           id,
		Game:         game,
		Agents:       agents,
		CurrentState: StatePending,
		Status:       StatusPending,
		StartTime:    time.Now(),
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.Status = StatusRunning
	r.StartTime = time.Now()
}

// TransitionTo moves the run to the given state.
func (r *Run) TransitionTo(state State) error {
	if !state.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidState, state)
	}
	if r.CurrentState.IsTerminal() {
		return ErrRunTerminated
	}
	if !CanTransition(r.CurrentState, state) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.CurrentState, state)
	}

	r.CurrentState = state
	if state.IsTerminal() {
		r.EndTime = time.Now()
		if state == StateDone {
			r.Status = StatusCompleted
		} else {
			r.Status = StatusFailed
		}
	}
	return nil
}

// Complete marks the run as successfully finished.
func (r *Run) Complete() {
	r.Status = StatusCompleted
	r.CurrentState = StateDone
	r.EndTime = time.Now()
}

// Fail marks the run as failed with an error.
func (r *Run) Fail(err error) {
	r.Status = StatusFailed
	r.CurrentState = StateFailed
	r.EndTime = time.Now()
	if err != nil {
		r.Error = err.Error()
	}
}

// IsTerminal returns true if the run has finished.
func (r *Run) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Duration returns how long the run took, or has taken so far.
func (r *Run) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
