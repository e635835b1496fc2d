// Package api provides the public API for shapley-go.
// This file provides worth function exports.
package api

import (
	"context"

	"github.com/felixgeelhaar/shapley-go/infrastructure/worth"
)

// Re-export worth adapter types.
type (
	// RemoteWorthConfig configures a worth function served over HTTP.
	RemoteWorthConfig = worth.RemoteConfig
	// RemoteWorth evaluates worth over HTTP.
	RemoteWorth = worth.Remote
	// RemoteRequest is the body posted for each evaluation.
	RemoteRequest = worth.RemoteRequest
	// RemoteResponse is the expected response body.
	RemoteResponse = worth.RemoteResponse
	// WASMWorthConfig configures a WebAssembly worth function.
	WASMWorthConfig = worth.WASMConfig
	// WASMWorth evaluates worth in a WebAssembly module.
	WASMWorth = worth.WASM
	// WorthRegistry maps worth type names to factories.
	WorthRegistry = worth.Registry
	// WorthSpec is the input to a worth factory.
	WorthSpec = worth.Spec
	// WorthFactory builds a worth function.
	WorthFactory = worth.Factory
	// WorthInfo describes a registered worth type.
	WorthInfo = worth.Info
)

// Worth adapter errors.
var (
	ErrRemoteUnavailable = worth.ErrRemoteUnavailable
	ErrRemoteRejected    = worth.ErrRemoteRejected
	ErrInvalidResponse   = worth.ErrInvalidResponse
	ErrExportNotFound    = worth.ErrExportNotFound
	ErrUnknownAgent      = worth.ErrUnknownAgent
)

// MaxWorth is the taxi game: a group is worth its largest contribution.
func MaxWorth() WorthFunc {
	return worth.Max()
}

// SumWorth is the additive game.
func SumWorth() WorthFunc {
	return worth.Sum()
}

// BandwidthWorth values a group at the capacity left after outsiders take their demand.
func BandwidthWorth(all []*Agent, capacity float64) WorthFunc {
	return worth.Bandwidth(all, capacity)
}

// MajorityWorth is a weighted voting game with the given quota.
func MajorityWorth(quota float64) WorthFunc {
	return worth.Majority(quota)
}

// DefaultRemoteWorthConfig returns retry and timeout defaults for url.
func DefaultRemoteWorthConfig(url string) RemoteWorthConfig {
	return worth.DefaultRemoteConfig(url)
}

// NewRemoteWorth creates an HTTP worth function.
func NewRemoteWorth(config RemoteWorthConfig) *RemoteWorth {
	return worth.NewRemote(config)
}

// NewWASMWorth compiles a WebAssembly worth function for agents.
// Close releases the runtime.
func NewWASMWorth(ctx context.Context, config WASMWorthConfig, agents []*Agent) (*WASMWorth, error) {
	return worth.NewWASM(ctx, config, agents)
}

// NewWorthRegistry returns a registry with the built-in worth types.
func NewWorthRegistry() *WorthRegistry {
	return worth.NewRegistry()
}
