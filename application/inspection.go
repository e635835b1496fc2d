package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/domain/run"
	"github.com/felixgeelhaar/shapley-go/domain/shapley"
	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
)

// ErrUnsupportedFormat indicates an unknown diagram format.
var ErrUnsupportedFormat = errors.New("unsupported diagram format")

// DiagramFormat selects the lifecycle diagram syntax.
type DiagramFormat string

const (
	FormatDOT     DiagramFormat = "dot"
	FormatMermaid DiagramFormat = "mermaid"
)

// InspectionService checks computed values against the Shapley axioms and
// exports the computation lifecycle.
type InspectionService struct {
	maxAgents int
	tolerance float64
}

// NewInspectionService creates an inspection service with the engine's
// ceiling and tolerance.
func NewInspectionService(e *Engine) *InspectionService {
	return &InspectionService{
		maxAgents: e.maxAgents,
		tolerance: e.tolerance,
	}
}

// Report lists the axiom checks for one game.
type Report struct {
	Game        string      `json:"game" yaml:"game"`
	Sum         float64     `json:"sum" yaml:"sum"`
	GrandWorth  float64     `json:"grand_worth" yaml:"grand_worth"`
	Efficient   bool        `json:"efficient" yaml:"efficient"`
	NullPlayers []string    `json:"null_players,omitempty" yaml:"null_players,omitempty"`
	Symmetric   [][2]string `json:"symmetric_pairs,omitempty" yaml:"symmetric_pairs,omitempty"`
	Violations  []string    `json:"violations,omitempty" yaml:"violations,omitempty"`
	Evaluations uint64      `json:"worth_evaluations" yaml:"worth_evaluations"`
}

// OK reports whether no axiom was violated.
func (r *Report) OK() bool {
	return r.Efficient && len(r.Violations) == 0
}

// Inspect evaluates worth on every coalition and checks that values satisfy
// efficiency, the null player property and symmetry.
func (s *InspectionService) Inspect(ctx context.Context, game *coalition.Game, values shapley.Allocation) (*Report, error) {
	if game == nil {
		return nil, ErrNilGame
	}
	if game.Worth == nil {
		return nil, ErrNilWorth
	}
	n := len(game.Agents)
	if n > s.maxAgents {
		return nil, fmt.Errorf("%w: %d agents, limit %d", run.ErrTooManyAgents, n, s.maxAgents)
	}
	if _, err := coalition.NewGroup(game.Agents...); err != nil {
		return nil, err
	}

	table, err := s.worthTable(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("inspect %q: %w", game.Name, err)
	}

	full := len(table) - 1
	report := &Report{
		Game:        game.Name,
		Sum:         values.Sum(),
		GrandWorth:  table[full],
		Evaluations: uint64(len(table)),
	}
	report.Efficient = shapley.Close(report.Sum, report.GrandWorth, s.tolerance)

	for i, a := range game.Agents {
		if !s.isNull(table, n, i) {
			continue
		}
		report.NullPlayers = append(report.NullPlayers, a.ID())
		// Judged against the grand worth scale; a null value is summed from n! marginals.
		if v := values[a]; math.Abs(v) > s.tolerance*math.Max(1, math.Abs(report.GrandWorth)) {
			report.Violations = append(report.Violations,
				fmt.Sprintf("null player %s has value %g", a.ID(), v))
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !s.areSymmetric(table, n, i, j) {
				continue
			}
			a, b := game.Agents[i], game.Agents[j]
			report.Symmetric = append(report.Symmetric, [2]string{a.ID(), b.ID()})
			if !shapley.Close(values[a], values[b], s.tolerance) {
				report.Violations = append(report.Violations,
					fmt.Sprintf("symmetric agents %s and %s have values %g and %g", a.ID(), b.ID(), values[a], values[b]))
			}
		}
	}

	logging.Debug().
		Add(logging.Game(game.Name)).
		Add(logging.Evaluations(report.Evaluations)).
		Add(logging.Bool("ok", report.OK())).
		Msg("inspection finished")

	return report, nil
}

// worthTable evaluates every coalition; bit i of the index marks agent i.
func (s *InspectionService) worthTable(ctx context.Context, game *coalition.Game) ([]float64, error) {
	n := len(game.Agents)
	table := make([]float64, 1<<n)
	for mask := range table {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g := &coalition.Group{}
		for i, a := range game.Agents {
			if mask&(1<<i) != 0 {
				if err := g.Add(a); err != nil {
					return nil, err
				}
			}
		}
		w, err := game.Worth.Worth(ctx, g)
		if err != nil {
			return nil, err
		}
		table[mask] = w
	}
	return table, nil
}

func (s *InspectionService) isNull(table []float64, n, i int) bool {
	bit := 1 << i
	for mask := 0; mask < 1<<n; mask++ {
		if mask&bit != 0 {
			continue
		}
		if !shapley.Close(table[mask|bit], table[mask], s.tolerance) {
			return false
		}
	}
	return true
}

func (s *InspectionService) areSymmetric(table []float64, n, i, j int) bool {
	bi, bj := 1<<i, 1<<j
	for mask := 0; mask < 1<<n; mask++ {
		if mask&(bi|bj) != 0 {
			continue
		}
		if !shapley.Close(table[mask|bi], table[mask|bj], s.tolerance) {
			return false
		}
	}
	return true
}

// ExportLifecycle renders the computation lifecycle as a diagram.
func (s *InspectionService) ExportLifecycle(format DiagramFormat) (string, error) {
	var b strings.Builder
	switch format {
	case FormatDOT:
		b.WriteString("digraph computation {\n")
		b.WriteString("  rankdir=LR;\n")
		for _, st := range run.AllStates() {
			shape := "box"
			if st.IsTerminal() {
				shape = "doublecircle"
			}
			fmt.Fprintf(&b, "  %q [shape=%s];\n", st, shape)
		}
		for _, from := range run.AllStates() {
			for _, to := range run.Successors(from) {
				fmt.Fprintf(&b, "  %q -> %q;\n", from, to)
			}
		}
		b.WriteString("}\n")
	case FormatMermaid:
		b.WriteString("stateDiagram-v2\n")
		fmt.Fprintf(&b, "  [*] --> %s\n", run.StatePending)
		for _, from := range run.AllStates() {
			for _, to := range run.Successors(from) {
				fmt.Fprintf(&b, "  %s --> %s\n", from, to)
			}
			if from.IsTerminal() {
				fmt.Fprintf(&b, "  %s --> [*]\n", from)
			}
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return b.String(), nil
}
