package shapley

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
)

// Allocation maps each agent, by identity, to a real value.
//
// It is used both for the marginal contributions of a single ordering and
// for the final Shapley values.
type Allocation map[*coalition.Agent]float64

// Entry is one agent's value in reporting order.
type Entry struct {
	Agent *coalition.Agent
	Value float64
}

// Get returns the value for an agent and whether it is present.
func (a Allocation) Get(agent *coalition.Agent) (float64, bool) {
	v, ok := a[agent]
	return v, ok
}

// Sum returns the total of all values.
func (a Allocation) Sum() float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

// Entries returns the values in the order of the given agents.
// Agents absent from the allocation are skipped.
func (a Allocation) Entries(order []*coalition.Agent) []Entry {
	out := make([]Entry, 0, len(order))
	for _, agent := range order {
		if v, ok := a[agent]; ok {
			out = append(out, Entry{Agent: agent, Value: v})
		}
	}
	return out
}

// CheckEfficiency verifies that the values sum to the worth of the grand
// coalition within tol (see Close).
func CheckEfficiency(values Allocation, grandWorth, tol float64) error {
	sum := values.Sum()
	if !Close(sum, grandWorth, tol) {
		return fmt.Errorf("%w: sum %g, grand coalition %g", ErrEfficiencyViolated, sum, grandWorth)
	}
	return nil
}

// Close reports whether a and b agree within tol. Below magnitude 1 tol is
// absolute; above it, tol is relative to the larger of |a| and |b|.
func Close(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}
