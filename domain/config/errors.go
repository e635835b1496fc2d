package config

import "errors"

// Domain errors for game definition operations.
var (
	// ErrConfigNotFound indicates the game file was not found.
	ErrConfigNotFound = errors.New("game file not found")

	// ErrInvalidFormat indicates the game file could not be parsed.
	ErrInvalidFormat = errors.New("invalid game file format")

	// ErrUnsupportedFormat indicates the file extension is not supported.
	ErrUnsupportedFormat = errors.New("unsupported game file format")

	// ErrValidationFailed indicates game validation failed.
	ErrValidationFailed = errors.New("game validation failed")

	// ErrMissingEnvVar indicates a required environment variable is not set.
	ErrMissingEnvVar = errors.New("required environment variable not set")

	// ErrBuildFailed indicates building a game from its definition failed.
	ErrBuildFailed = errors.New("failed to build game from definition")

	// ErrUnknownWorthType indicates no worth function is registered for a type.
	ErrUnknownWorthType = errors.New("unknown worth type")
)
