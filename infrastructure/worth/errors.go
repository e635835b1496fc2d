package worth

import "errors"

var (
	// ErrRemoteUnavailable indicates the worth service could not be reached
	// or returned a server error.
	ErrRemoteUnavailable = errors.New("worth service unavailable")

	// ErrRemoteRejected indicates the worth service rejected the request.
	ErrRemoteRejected = errors.New("worth service rejected request")

	// ErrInvalidResponse indicates the worth service returned an unreadable body.
	ErrInvalidResponse = errors.New("invalid worth response")

	// ErrExportNotFound indicates the module has no worth export.
	ErrExportNotFound = errors.New("wasm export not found")

	// ErrUnknownAgent indicates a group member is not part of the game.
	ErrUnknownAgent = errors.New("agent not in game")
)
