// Package api provides the public API for shapley-go.
// This file provides configuration-related exports.
package api

import (
	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
	infraconfig "github.com/felixgeelhaar/shapley-go/infrastructure/config"
)

// Re-export domain configuration types.
type (
	// GameConfig is a game definition file.
	GameConfig = domainconfig.GameConfig
	// GameEngineConfig contains computation settings of a game file.
	GameEngineConfig = domainconfig.EngineConfig
	// WorthConfig selects the worth function.
	WorthConfig = domainconfig.WorthConfig
	// AgentConfig describes one player.
	AgentConfig = domainconfig.AgentConfig
	// ConfigDuration is a time.Duration that supports JSON/YAML string representation.
	ConfigDuration = domainconfig.Duration

	// ValidationError represents a configuration validation error.
	ValidationError = domainconfig.ValidationError
	// ValidationErrors is a collection of validation errors.
	ValidationErrors = domainconfig.ValidationErrors
)

// Re-export infrastructure configuration types.
type (
	// ConfigLoader loads game files.
	ConfigLoader = infraconfig.Loader
	// ConfigBuilder builds a game from a definition.
	ConfigBuilder = infraconfig.Builder
	// ConfigBuildResult contains the built game and engine settings.
	ConfigBuildResult = infraconfig.BuildResult
	// ConfigLoaderOption configures the loader.
	ConfigLoaderOption = infraconfig.LoaderOption
	// ConfigFormat is a game file format.
	ConfigFormat = infraconfig.Format
	// JSONSchema represents a JSON Schema document.
	JSONSchema = infraconfig.JSONSchema
)

// Configuration format constants.
const (
	ConfigFormatYAML = infraconfig.FormatYAML
	ConfigFormatJSON = infraconfig.FormatJSON
)

// Configuration errors.
var (
	ErrConfigNotFound    = domainconfig.ErrConfigNotFound
	ErrInvalidFormat     = domainconfig.ErrInvalidFormat
	ErrUnsupportedFormat = domainconfig.ErrUnsupportedFormat
	ErrValidationFailed  = domainconfig.ErrValidationFailed
	ErrMissingEnvVar     = domainconfig.ErrMissingEnvVar
	ErrBuildFailed       = domainconfig.ErrBuildFailed
	ErrUnknownWorthType  = domainconfig.ErrUnknownWorthType
)

// NewConfigLoader creates a loader with default settings.
func NewConfigLoader() *ConfigLoader {
	return infraconfig.NewLoader()
}

// NewConfigLoaderWithOptions creates a loader with the specified options.
func NewConfigLoaderWithOptions(opts ...ConfigLoaderOption) *ConfigLoader {
	return infraconfig.NewLoaderWithOptions(opts...)
}

// ConfigWithEnvExpansion enables or disables environment variable expansion.
func ConfigWithEnvExpansion(enabled bool) ConfigLoaderOption {
	return infraconfig.WithEnvExpansion(enabled)
}

// ConfigWithStrictEnv enables strict environment variable checking.
func ConfigWithStrictEnv(enabled bool) ConfigLoaderOption {
	return infraconfig.WithStrictEnv(enabled)
}

// ConfigWithStrictFields rejects unknown fields.
func ConfigWithStrictFields(enabled bool) ConfigLoaderOption {
	return infraconfig.WithStrictFields(enabled)
}

// ConfigWithValidation enables or disables validation.
func ConfigWithValidation(enabled bool) ConfigLoaderOption {
	return infraconfig.WithValidation(enabled)
}

// ConfigFormatFromPath picks the format from a file extension.
func ConfigFormatFromPath(path string) (ConfigFormat, error) {
	return infraconfig.FormatFromPath(path)
}

// MarshalConfig encodes a game definition.
func MarshalConfig(cfg *GameConfig, format ConfigFormat) ([]byte, error) {
	return infraconfig.Marshal(cfg, format)
}

// NewConfigBuilder creates a builder for a game definition.
func NewConfigBuilder(config *GameConfig) *ConfigBuilder {
	return infraconfig.NewBuilder(config)
}

// NewConfigValidator creates a game definition validator.
func NewConfigValidator() *domainconfig.Validator {
	return domainconfig.NewValidator()
}

// DefaultGameConfig returns the taxi game definition.
func DefaultGameConfig() *GameConfig {
	return infraconfig.DefaultConfig()
}

// FindAgent returns the agent with the given ID in a built game.
func FindAgent(g *Game, id string) (*Agent, bool) {
	return infraconfig.AgentByID(g, id)
}

// GenerateConfigSchema generates a JSON Schema for game files.
func GenerateConfigSchema() *JSONSchema {
	return infraconfig.GenerateSchema()
}

// ConfigSchemaJSON returns the game file JSON Schema as a string.
func ConfigSchemaJSON() (string, error) {
	return infraconfig.SchemaJSON()
}

// ExpandEnv expands ${VAR}, ${VAR:-default} and ${VAR:?error} in input.
func ExpandEnv(input string) string {
	return infraconfig.ExpandEnv(input)
}

// ExpandEnvStrict expands environment variables and returns an error for missing vars.
func ExpandEnvStrict(input string) (string, error) {
	return infraconfig.ExpandEnvStrict(input)
}
