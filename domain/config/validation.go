package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/shapley-go/domain/shapley"
)

// ValidationError represents a game validation error.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// WorthTypes lists the worth function types a game file may name.
var WorthTypes = []string{WorthMax, WorthSum, WorthBandwidth, WorthMajority, WorthRemote, WorthWASM}

// Validator validates game definitions.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the game and returns any errors.
func (v *Validator) Validate(config *GameConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateEngine(config)
	v.validateAgents(config)
	v.validateWorth(config)
	v.validateLogging(config)
	v.validateObservability(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *GameConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateEngine(config *GameConfig) {
	if config.Engine.MaxAgents < 0 || config.Engine.MaxAgents > shapley.MaxCountable {
		v.addError("engine.max_agents", fmt.Sprintf("max_agents must be between 0 and %d", shapley.MaxCountable))
	}
	if config.Engine.Tolerance < 0 {
		v.addError("engine.tolerance", "tolerance must not be negative")
	}
}

func (v *Validator) validateAgents(config *GameConfig) {
	seen := make(map[string]int, len(config.Agents))
	for i, a := range config.Agents {
		path := fmt.Sprintf("agents[%d]", i)
		if a.ID == "" {
			v.addError(path+".id", "id is required")
			continue
		}
		if prev, ok := seen[a.ID]; ok {
			v.addError(path+".id", fmt.Sprintf("duplicate id %q (also agents[%d])", a.ID, prev))
			continue
		}
		seen[a.ID] = i
	}

	limit := config.Engine.MaxAgents
	if limit > 0 && len(config.Agents) > limit {
		v.addError("agents", fmt.Sprintf("%d agents exceed max_agents %d", len(config.Agents), limit))
	}
}

func (v *Validator) validateWorth(config *GameConfig) {
	w := config.Worth
	if w.Type == "" {
		v.addError("worth.type", "worth type is required")
		return
	}
	if !slices.Contains(WorthTypes, w.Type) {
		v.addError("worth.type", fmt.Sprintf("unknown worth type %q (valid: %s)", w.Type, strings.Join(WorthTypes, ", ")))
		return
	}

	switch w.Type {
	case WorthBandwidth:
		if _, ok := w.Param("capacity"); !ok {
			v.addError("worth.params.capacity", "capacity is required for bandwidth")
		}
	case WorthMajority:
		if q, ok := w.Param("quota"); !ok {
			v.addError("worth.params.quota", "quota is required for majority")
		} else if q <= 0 {
			v.addError("worth.params.quota", "quota must be positive")
		}
	case WorthRemote:
		if w.URL == "" {
			v.addError("worth.url", "url is required for remote")
		} else if !strings.HasPrefix(w.URL, "http://") && !strings.HasPrefix(w.URL, "https://") {
			v.addError("worth.url", "url must be http or https")
		}
		if w.Retry.MaxAttempts < 0 {
			v.addError("worth.retry.max_attempts", "max_attempts must not be negative")
		}
		if w.Retry.Multiplier != 0 && w.Retry.Multiplier < 1 {
			v.addError("worth.retry.multiplier", "multiplier must be >= 1")
		}
		if w.CircuitBreaker.Enabled && w.CircuitBreaker.Threshold <= 0 {
			v.addError("worth.circuit_breaker.threshold", "threshold must be positive when enabled")
		}
		if w.RateLimit < 0 {
			v.addError("worth.rate_limit", "rate_limit must not be negative")
		}
		if w.Burst < 0 {
			v.addError("worth.burst", "burst must not be negative")
		}
	case WorthWASM:
		if w.Path == "" {
			v.addError("worth.path", "path is required for wasm")
		}
	}
}

var (
	validLevels    = []string{"trace", "debug", "info", "warn", "error"}
	validFormats   = []string{"console", "json"}
	validExporters = []string{ExporterStdout, ExporterOTLP}
)

func (v *Validator) validateLogging(config *GameConfig) {
	if l := config.Logging.Level; l != "" && !slices.Contains(validLevels, l) {
		v.addError("logging.level", fmt.Sprintf("invalid level %q", l))
	}
	if f := config.Logging.Format; f != "" && !slices.Contains(validFormats, f) {
		v.addError("logging.format", fmt.Sprintf("invalid format %q", f))
	}
}

func (v *Validator) validateObservability(config *GameConfig) {
	t := config.Observability.Tracing
	if !t.Enabled {
		return
	}
	if t.Exporter != "" && !slices.Contains(validExporters, t.Exporter) {
		v.addError("observability.tracing.exporter", fmt.Sprintf("invalid exporter %q", t.Exporter))
	}
	if t.Exporter == ExporterOTLP && t.Endpoint == "" {
		v.addError("observability.tracing.endpoint", "endpoint is required for otlp")
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		v.addError("observability.tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}
