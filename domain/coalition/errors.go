package coalition

import "errors"

// Domain errors for coalition operations.
var (
	// ErrDuplicateMember indicates an agent was added to a group that already contains it.
	ErrDuplicateMember = errors.New("agent is already a member of the group")

	// ErrInvalidIndex indicates a prefix length outside [0, size].
	ErrInvalidIndex = errors.New("prefix index out of range")

	// ErrNilAgent indicates a nil agent reference was supplied.
	ErrNilAgent = errors.New("nil agent")
)
