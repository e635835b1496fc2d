package config

import (
	"encoding/json"

	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
	"github.com/felixgeelhaar/shapley-go/domain/shapley"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	AdditionalProperties *JSONSchema            `json:"additionalProperties,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Default              any                    `json:"default,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	Maximum              *float64               `json:"maximum,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	Format               string                 `json:"format,omitempty"`
}

// GenerateSchema generates a JSON Schema for game files.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/shapley-go/game.schema.json",
		Title:       "Cooperative Game",
		Description: "A cooperative game whose Shapley values shapley-go computes",
		Type:        "object",
		Required:    []string{"name", "version", "worth"},
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "A human-readable name for the game",
			},
			"version": {
				Type:        "string",
				Description: "The game file schema version",
				Default:     "1",
			},
			"description": {
				Type:        "string",
				Description: "Describes the game",
			},
			"engine":        engineSchema(),
			"worth":         worthSchema(),
			"agents":        agentsSchema(),
			"logging":       loggingSchema(),
			"observability": observabilitySchema(),
		},
	}
}

func engineSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Computation settings",
		Properties: map[string]*JSONSchema{
			"max_agents": {
				Type:        "integer",
				Description: "Reject games with more agents than this",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(shapley.MaxCountable),
			},
			"tolerance": {
				Type:        "number",
				Description: "Allowed difference between the value sum and the grand coalition's worth",
				Minimum:     floatPtr(0),
			},
		},
	}
}

func worthSchema() *JSONSchema {
	duration := &JSONSchema{Type: "string", Pattern: `^[0-9]+(ns|us|ms|s|m|h)$`}
	return &JSONSchema{
		Type:        "object",
		Description: "Worth function selection",
		Required:    []string{"type"},
		Properties: map[string]*JSONSchema{
			"type": {
				Type:        "string",
				Description: "Worth function type",
				Enum:        domainconfig.WorthTypes,
			},
			"params": {
				Type:                 "object",
				Description:          "Numeric parameters such as capacity or quota",
				AdditionalProperties: &JSONSchema{Type: "number"},
			},
			"url": {
				Type:        "string",
				Format:      "uri",
				Description: "Endpoint for remote worth functions",
			},
			"headers": {
				Type:                 "object",
				Description:          "HTTP headers for remote worth functions",
				AdditionalProperties: &JSONSchema{Type: "string"},
			},
			"path": {
				Type:        "string",
				Description: "WebAssembly module for wasm worth functions",
			},
			"export": {
				Type:        "string",
				Description: "Exported function of type (i64) -> f64",
				Default:     "worth",
			},
			"timeout": duration,
			"retry": {
				Type: "object",
				Properties: map[string]*JSONSchema{
					"max_attempts":  {Type: "integer", Minimum: floatPtr(0)},
					"initial_delay": duration,
					"multiplier":    {Type: "number", Minimum: floatPtr(1)},
				},
			},
			"circuit_breaker": {
				Type: "object",
				Properties: map[string]*JSONSchema{
					"enabled":   {Type: "boolean"},
					"threshold": {Type: "integer", Minimum: floatPtr(1)},
					"timeout":   duration,
				},
			},
			"rate_limit": {
				Type:        "number",
				Description: "Remote evaluations per second (0 means unlimited)",
				Minimum:     floatPtr(0),
			},
			"burst": {
				Type:        "integer",
				Description: "Evaluations allowed at once under rate_limit",
				Minimum:     floatPtr(0),
			},
		},
	}
}

func agentsSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "array",
		Description: "Players in input order",
		Items: &JSONSchema{
			Type:     "object",
			Required: []string{"id"},
			Properties: map[string]*JSONSchema{
				"id":           {Type: "string", Description: "Unique agent identifier"},
				"name":         {Type: "string", Description: "Display name"},
				"contribution": {Type: "number", Description: "Intrinsic contribution", Default: 0},
			},
		},
	}
}

func loggingSchema() *JSONSchema {
	return &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"level":  {Type: "string", Enum: []string{"trace", "debug", "info", "warn", "error"}, Default: "info"},
			"format": {Type: "string", Enum: []string{"console", "json"}, Default: "console"},
		},
	}
}

func observabilitySchema() *JSONSchema {
	return &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"tracing": {
				Type: "object",
				Properties: map[string]*JSONSchema{
					"enabled":     {Type: "boolean"},
					"exporter":    {Type: "string", Enum: []string{domainconfig.ExporterStdout, domainconfig.ExporterOTLP}},
					"endpoint":    {Type: "string"},
					"insecure":    {Type: "boolean"},
					"sample_rate": {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(1)},
				},
			},
			"metrics": {
				Type: "object",
				Properties: map[string]*JSONSchema{
					"enabled": {Type: "boolean"},
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as a JSON string.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
