// Package coalition defines the participants of a cooperative game and the
// groups they form.
package coalition

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Agent is a participant in a cooperative game.
//
// Identity is the pointer: two agents with the same contribution are still
// distinct members. The ID and Name are informational and never used for
// membership checks.
type Agent struct {
	id           string
	name         string
	contribution float64
}

// NewAgent creates an agent with a generated ID.
func NewAgent(name string, contribution float64) *Agent {
	return NewAgentWithID(uuid.NewString(), name, contribution)
}

// NewAgentWithID creates an agent with a caller-supplied ID.
func NewAgentWithID(id, name string, contribution float64) *Agent {
	return &Agent{
		id:           id,
		name:         name,
		contribution: contribution,
	}
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the display name, falling back to the ID.
func (a *Agent) Name() string {
	if a.name == "" {
		return a.id
	}
	return a.name
}

// Contribution returns the agent's intrinsic contribution.
func (a *Agent) Contribution() float64 { return a.contribution }

// String implements fmt.Stringer.
func (a *Agent) String() string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", a.Name(), strconv.FormatFloat(a.contribution, 'g', -1, 64))
}
