package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/shapley-go/domain/run"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Game adds the game name.
func Game(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("game", name)
	}
}

// State adds a state field.
func State(s run.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", string(s))
	}
}

// FromState adds a from_state field for transitions.
func FromState(s run.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_state", string(s))
	}
}

// ToState adds a to_state field for transitions.
func ToState(s run.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_state", string(s))
	}
}

// Agents adds the number of agents in a game.
func Agents(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("agents", n)
	}
}

// Agent adds an agent ID.
func Agent(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("agent", id)
	}
}

// Permutations adds the number of orderings visited.
func Permutations(n uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("permutations", int64(n))
	}
}

// Evaluations adds the number of worth function calls.
func Evaluations(n uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("worth_evaluations", int64(n))
	}
}

// Value adds a real-valued field. Values are written in shortest
// round-trip form.
func Value(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, strconv.FormatFloat(v, 'g', -1, 64))
	}
}

// WorthType adds the worth function type.
func WorthType(t string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("worth_type", t)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Attempt adds a retry attempt number.
func Attempt(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("attempt", n)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Bool adds a boolean field with custom key.
func Bool(key string, value bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool(key, value)
	}
}
