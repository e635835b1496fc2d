package application

import "errors"

// Application errors.
var (
	// ErrNilGame indicates Compute was called without a game.
	ErrNilGame = errors.New("game is required")

	// ErrNilWorth indicates the game has no worth function.
	ErrNilWorth = errors.New("worth function is required")

	// ErrInvalidMaxAgents indicates an agent ceiling above the enumerable limit.
	ErrInvalidMaxAgents = errors.New("invalid max agents")

	// ErrInvalidTolerance indicates a negative efficiency tolerance.
	ErrInvalidTolerance = errors.New("invalid tolerance")

	// ErrInvalidOrder indicates an ordering that is not a permutation of the game's agents.
	ErrInvalidOrder = errors.New("order is not a permutation of the game's agents")
)
