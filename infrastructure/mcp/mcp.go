// Package mcp exposes Shapley computations as Model Context Protocol tools.
// It wraps github.com/felixgeelhaar/mcp-go.
package mcp

import (
	mcpgo "github.com/felixgeelhaar/mcp-go"
)

// Re-export core types from mcp-go for convenience.
type (
	// ServerInfo contains MCP server metadata.
	ServerInfo = mcpgo.ServerInfo

	// ServeOption configures server behavior.
	ServeOption = mcpgo.ServeOption

	// HTTPOption configures HTTP transport.
	HTTPOption = mcpgo.HTTPOption
)

// Tool names.
const (
	ToolCompute    = "compute_shapley"
	ToolMarginal   = "marginal_contributions"
	ToolInspect    = "inspect_axioms"
	ToolValidate   = "validate_game"
	ToolWorthTypes = "list_worth_types"
)
