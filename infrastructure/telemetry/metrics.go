// Package telemetry records OpenTelemetry metrics for Shapley computations.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the default instrumentation scope.
const MeterName = "github.com/felixgeelhaar/shapley-go"

// Metric names.
const (
	MetricComputations     = "shapley.computations"
	MetricPermutations     = "shapley.permutations"
	MetricWorthEvaluations = "shapley.worth.evaluations"
	MetricErrors           = "shapley.errors"
	MetricDuration         = "shapley.computation.duration"
	MetricActive           = "shapley.computations.active"
)

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordComputation(ctx context.Context, game string, agents int, success bool, duration time.Duration)
	RecordPermutations(ctx context.Context, game string, n uint64)
	RecordWorthEvaluations(ctx context.Context, game, worthType string, n uint64)
	RecordError(ctx context.Context, game, errorType string)
	IncrementActive(ctx context.Context)
	DecrementActive(ctx context.Context)
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the instrumentation scope (default MeterName).
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Provider supplies the meter; nil uses the global provider.
	Provider metric.MeterProvider
}

// DefaultMetricsConfig returns a configuration using the global provider.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    MeterName,
		MeterVersion: "1.0.0",
	}
}

// MetricsProvider records computation metrics on OpenTelemetry instruments.
type MetricsProvider struct {
	meter metric.Meter

	computations metric.Int64Counter
	permutations metric.Int64Counter
	evaluations  metric.Int64Counter
	errors       metric.Int64Counter
	duration     metric.Float64Histogram
	active       metric.Int64UpDownCounter

	initErr error
}

// NewMetricsProvider creates a metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config.MeterName = MeterName
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	mp := &MetricsProvider{
		meter: provider.Meter(config.MeterName, metric.WithInstrumentationVersion(config.MeterVersion)),
	}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.computations, err = mp.meter.Int64Counter(
		MetricComputations,
		metric.WithDescription("Number of Shapley computations"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return err
	}

	mp.permutations, err = mp.meter.Int64Counter(
		MetricPermutations,
		metric.WithDescription("Number of agent orderings visited"),
		metric.WithUnit("{permutation}"),
	)
	if err != nil {
		return err
	}

	mp.evaluations, err = mp.meter.Int64Counter(
		MetricWorthEvaluations,
		metric.WithDescription("Number of worth function evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		MetricErrors,
		metric.WithDescription("Number of failed computations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.duration, err = mp.meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Duration of Shapley computations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.active, err = mp.meter.Int64UpDownCounter(
		MetricActive,
		metric.WithDescription("Number of computations in progress"),
		metric.WithUnit("{computation}"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordComputation records a finished computation.
func (mp *MetricsProvider) RecordComputation(ctx context.Context, game string, agents int, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("game", game),
		attribute.Int("agents", agents),
		attribute.Bool("success", success),
	)
	mp.computations.Add(ctx, 1, attrs)
	mp.duration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordPermutations records orderings visited.
func (mp *MetricsProvider) RecordPermutations(ctx context.Context, game string, n uint64) {
	mp.permutations.Add(ctx, int64(n), metric.WithAttributes(attribute.String("game", game))) // #nosec G115 -- n <= 20!
}

// RecordWorthEvaluations records worth function calls.
func (mp *MetricsProvider) RecordWorthEvaluations(ctx context.Context, game, worthType string, n uint64) {
	mp.evaluations.Add(ctx, int64(n), metric.WithAttributes( // #nosec G115 -- bounded by run length
		attribute.String("game", game),
		attribute.String("worth.type", worthType),
	))
}

// RecordError records a failed computation.
func (mp *MetricsProvider) RecordError(ctx context.Context, game, errorType string) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("game", game),
		attribute.String("error.type", errorType),
	))
}

// IncrementActive marks a computation as started.
func (mp *MetricsProvider) IncrementActive(ctx context.Context) {
	mp.active.Add(ctx, 1)
}

// DecrementActive marks a computation as finished.
func (mp *MetricsProvider) DecrementActive(ctx context.Context) {
	mp.active.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordComputation is a no-op.
func (NoopMetricsProvider) RecordComputation(context.Context, string, int, bool, time.Duration) {}

// RecordPermutations is a no-op.
func (NoopMetricsProvider) RecordPermutations(context.Context, string, uint64) {}

// RecordWorthEvaluations is a no-op.
func (NoopMetricsProvider) RecordWorthEvaluations(context.Context, string, string, uint64) {}

// RecordError is a no-op.
func (NoopMetricsProvider) RecordError(context.Context, string, string) {}

// IncrementActive is a no-op.
func (NoopMetricsProvider) IncrementActive(context.Context) {}

// DecrementActive is a no-op.
func (NoopMetricsProvider) DecrementActive(context.Context) {}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetricsProvider{}
)
