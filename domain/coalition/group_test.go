package coalition

import (
	"context"
	"errors"
	"testing"
)

func agents(values ...float64) []*Agent {
	out := make([]*Agent, len(values))
	for i, v := range values {
		out[i] = NewAgent("", v)
	}
	return out
}

func TestGroup_Add(t *testing.T) {
	t.Parallel()

	a := agents(1, 2)
	g := &Group{}

	if err := g.Add(a[0]); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := g.Add(a[1]); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if g.Size() != 2 {
		t.Errorf("Size() = %d, want 2", g.Size())
	}

	err := g.Add(a[0])
	if !errors.Is(err, ErrDuplicateMember) {
		t.Errorf("Add(duplicate) error = %v, want ErrDuplicateMember", err)
	}
	if g.Size() != 2 {
		t.Errorf("Size() after duplicate = %d, want 2", g.Size())
	}

	if err := g.Add(nil); !errors.Is(err, ErrNilAgent) {
		t.Errorf("Add(nil) error = %v, want ErrNilAgent", err)
	}
}

func TestGroup_IdentityNotValue(t *testing.T) {
	t.Parallel()

	a := NewAgentWithID("x", "x", 5)
	b := NewAgentWithID("x", "x", 5)

	g, err := NewGroup(a, b)
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	if g.Size() != 2 {
		t.Errorf("Size() = %d, want 2", g.Size())
	}
}

func TestGroup_Remove(t *testing.T) {
	t.Parallel()

	a := agents(1, 2, 3)
	g, err := NewGroup(a...)
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	g.Remove(a[1])
	g.Remove(a[1])
	g.Remove(NewAgent("stranger", 9))

	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	if g.Contains(a[1]) {
		t.Error("Contains(removed) = true")
	}
	m := g.Members()
	if m[0] != a[0] || m[1] != a[2] {
		t.Errorf("Members() = %v, want order preserved", m)
	}

	// Removed agents can rejoin.
	if err := g.Add(a[1]); err != nil {
		t.Errorf("Add(removed) error = %v", err)
	}
}

func TestGroup_MembersIsCopy(t *testing.T) {
	t.Parallel()

	a := agents(1, 2)
	g, _ := NewGroup(a...)

	m := g.Members()
	m[0] = nil

	if g.Members()[0] != a[0] {
		t.Error("mutating Members() result changed the group")
	}
}

func TestGroup_Prefix(t *testing.T) {
	t.Parallel()

	a := agents(1, 2, 3)
	g, _ := NewGroup(a...)

	tests := []struct {
		name    string
		k       int
		want    int
		wantErr bool
	}{
		{name: "empty", k: 0, want: 0},
		{name: "one", k: 1, want: 1},
		{name: "all", k: 3, want: 3},
		{name: "negative", k: -1, wantErr: true},
		{name: "past end", k: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := g.Prefix(tt.k)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIndex) {
					t.Fatalf("Prefix(%d) error = %v, want ErrInvalidIndex", tt.k, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Prefix(%d) error = %v", tt.k, err)
			}
			if p.Size() != tt.want {
				t.Fatalf("Prefix(%d).Size() = %d, want %d", tt.k, p.Size(), tt.want)
			}
			for i, m := range p.Members() {
				if m != a[i] {
					t.Errorf("Prefix(%d)[%d] = %v, want %v", tt.k, i, m, a[i])
				}
			}
		})
	}
}

func TestGroup_PrefixIsIndependent(t *testing.T) {
	t.Parallel()

	a := agents(1, 2, 3)
	g, _ := NewGroup(a...)

	p, err := g.Prefix(2)
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	p.Remove(a[0])
	if err := p.Add(a[2]); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if g.Size() != 3 || !g.Contains(a[0]) {
		t.Error("mutating prefix changed the source group")
	}

	g.Remove(a[1])
	if !p.Contains(a[1]) {
		t.Error("mutating source group changed the prefix")
	}
}

func TestGroup_ZeroValue(t *testing.T) {
	t.Parallel()

	var g Group
	if g.Size() != 0 || g.Contains(NewAgent("a", 1)) {
		t.Error("zero Group should be empty")
	}
	g.Remove(NewAgent("a", 1))
	if len(g.Members()) != 0 {
		t.Error("Members() of zero Group should be empty")
	}
}

func TestWorthFunc(t *testing.T) {
	t.Parallel()

	a := agents(4, 6)
	g, _ := NewGroup(a...)

	var w WorthFunction = WorthFunc(func(g *Group) float64 {
		return float64(g.Size())
	})

	v, err := w.Worth(context.Background(), g)
	if err != nil {
		t.Fatalf("Worth() error = %v", err)
	}
	if v != 2 {
		t.Errorf("Worth() = %v, want 2", v)
	}
}

func TestAgent_Accessors(t *testing.T) {
	t.Parallel()

	a := NewAgentWithID("a1", "", 2.5)
	if a.ID() != "a1" {
		t.Errorf("ID() = %q", a.ID())
	}
	if a.Name() != "a1" {
		t.Errorf("Name() = %q, want fallback to ID", a.Name())
	}
	if a.String() != "a1(2.5)" {
		t.Errorf("String() = %q", a.String())
	}

	b := NewAgent("taxi", 6)
	if b.ID() == "" {
		t.Error("NewAgent() should generate an ID")
	}
}
