package application

import (
	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/shapley"
)

// ValueView is one agent's value in serialized output.
type ValueView struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
	Value        float64 `json:"value" yaml:"value"`
}

// ResultView is the serialized form of a Result.
type ResultView struct {
	RunID        string      `json:"run_id" yaml:"run_id"`
	Game         string      `json:"game" yaml:"game"`
	State        string      `json:"state" yaml:"state"`
	Agents       int         `json:"agents" yaml:"agents"`
	Permutations uint64      `json:"permutations" yaml:"permutations"`
	Evaluations  uint64      `json:"worth_evaluations" yaml:"worth_evaluations"`
	GrandWorth   float64     `json:"grand_worth" yaml:"grand_worth"`
	EmptyWorth   float64     `json:"empty_worth" yaml:"empty_worth"`
	Efficient    bool        `json:"efficient" yaml:"efficient"`
	DurationMS   int64       `json:"duration_ms" yaml:"duration_ms"`
	Values       []ValueView `json:"values" yaml:"values"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// View converts a result for output. Values follow the agent input order.
func (r *Result) View() ResultView {
	v := ResultView{
		GrandWorth: r.GrandWorth,
		EmptyWorth: r.EmptyWorth,
		Efficient:  r.Efficient,
		Values:     ValueViews(r.Values, r.Agents),
	}
	if r.Run != nil {
		v.RunID = r.Run.ID
		v.Game = r.Run.Game
		v.State = r.Run.CurrentState.String()
		v.Agents = r.Run.Agents
		v.Permutations = r.Run.Permutations
		v.Evaluations = r.Run.Evaluations
		v.DurationMS = r.Run.Duration().Milliseconds()
		v.Error = r.Run.Error
	}
	return v
}

// ValueViews lists values in the given agent order.
func ValueViews(values shapley.Allocation, order []*coalition.Agent) []ValueView {
	entries := values.Entries(order)
	out := make([]ValueView, len(entries))
	for i, e := range entries {
		out[i] = ValueView{
			ID:           e.Agent.ID(),
			Name:         e.Agent.Name(),
			Contribution: e.Agent.Contribution(),
			Value:        e.Value,
		}
	}
	return out
}
