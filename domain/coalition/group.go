package coalition

import "fmt"

// Group is an insertion-ordered, duplicate-free set of agent references.
//
// A Group never owns its agents; removing a member or discarding the group
// leaves the agents untouched. The zero value is an empty group ready for use.
type Group struct {
	members []*Agent
	index   map[*Agent]struct{}
}

// NewGroup creates a group containing the given agents in order.
func NewGroup(agents ...*Agent) (*Group, error) {
	g := &Group{}
	for i, a := range agents {
		if err := g.Add(a); err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
	}
	return g, nil
}

// Add appends an agent to the group.
// Returns ErrDuplicateMember if the agent is already present; the group is
// left unchanged in that case.
func (g *Group) Add(a *Agent) error {
	if a == nil {
		return ErrNilAgent
	}
	if g.Contains(a) {
		return fmt.Errorf("%w: %s", ErrDuplicateMember, a)
	}
	if g.index == nil {
		g.index = make(map[*Agent]struct{})
	}
	g.members = append(g.members, a)
	g.index[a] = struct{}{}
	return nil
}

// Remove deletes an agent from the group. Removing a non-member is a no-op.
func (g *Group) Remove(a *Agent) {
	if !g.Contains(a) {
		return
	}
	delete(g.index, a)
	for i, m := range g.members {
		if m == a {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

// Contains reports whether the agent is a member.
func (g *Group) Contains(a *Agent) bool {
	if a == nil || g.index == nil {
		return false
	}
	_, ok := g.index[a]
	return ok
}

// Size returns the number of members.
func (g *Group) Size() int {
	return len(g.members)
}

// Members returns the members in insertion order.
// The returned slice is a copy.
func (g *Group) Members() []*Agent {
	out := make([]*Agent, len(g.members))
	copy(out, g.members)
	return out
}

// Prefix returns a new group holding the first k members.
// Returns ErrInvalidIndex unless 0 <= k <= Size().
func (g *Group) Prefix(k int) (*Group, error) {
	if k < 0 || k > len(g.members) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidIndex, k, len(g.members))
	}
	p := &Group{
		members: make([]*Agent, k),
		index:   make(map[*Agent]struct{}, k),
	}
	copy(p.members, g.members[:k])
	for _, a := range p.members {
		p.index[a] = struct{}{}
	}
	return p, nil
}

// Clone returns an independent copy of the group.
func (g *Group) Clone() *Group {
	// Prefix(Size()) cannot fail.
	c, _ := g.Prefix(len(g.members))
	return c
}

// IDs returns the member IDs in insertion order.
func (g *Group) IDs() []string {
	ids := make([]string, len(g.members))
	for i, a := range g.members {
		ids[i] = a.ID()
	}
	return ids
}
