// Package api provides the public API for shapley-go.
// This file provides metrics and telemetry-related exports.
package api

import (
	"github.com/felixgeelhaar/shapley-go/infrastructure/observability"
	"github.com/felixgeelhaar/shapley-go/infrastructure/telemetry"
)

// Re-export telemetry types.
type (
	// MetricsProvider records computation metrics on OpenTelemetry instruments.
	MetricsProvider = telemetry.MetricsProvider
	// MetricsConfig configures the metrics provider.
	MetricsConfig = telemetry.MetricsConfig
	// Metrics is the interface for recording metrics.
	Metrics = telemetry.Metrics
	// NoopMetricsProvider is a no-op implementation for testing.
	NoopMetricsProvider = telemetry.NoopMetricsProvider

	// ObservabilityProvider owns the tracer and meter providers.
	ObservabilityProvider = observability.Provider
	// ObservabilityOption configures the observability provider.
	ObservabilityOption = observability.Option
	// MetricSummary is a flattened view of one instrument.
	MetricSummary = observability.MetricSummary
)

// NewMetricsProvider creates a metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	return telemetry.NewMetricsProvider(config)
}

// DefaultMetricsConfig returns a configuration using the global meter provider.
func DefaultMetricsConfig() MetricsConfig {
	return telemetry.DefaultMetricsConfig()
}

// NewObservability creates an observability provider.
func NewObservability(opts ...ObservabilityOption) (*ObservabilityProvider, error) {
	return observability.New(opts...)
}
