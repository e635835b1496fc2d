package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/shapley-go/domain/telemetry"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()

	ctx := context.Background()
	newCtx, span := tracer.StartComputation(ctx, telemetry.Computation{Game: "taxi", Agents: 3})

	if newCtx != ctx {
		t.Error("expected the context to be returned unchanged")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}

	// These should not panic
	span.Complete(telemetry.Outcome{Permutations: 6, Evaluations: 32})
	span.Fail(errors.New("test error"), 3)
	span.End()
}

func TestNoopProvider(t *testing.T) {
	provider := NewNoopProvider()

	if provider.Tracer() == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.MeterProvider() == nil {
		t.Error("expected non-nil meter provider")
	}
	if provider.MetricsEnabled() {
		t.Error("expected metrics disabled")
	}
	if _, err := provider.CollectMetrics(context.Background()); !errors.Is(err, ErrMetricsDisabled) {
		t.Errorf("CollectMetrics() error = %v, want ErrMetricsDisabled", err)
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "shapley" {
		t.Errorf("expected default service name, got: %s", cfg.ServiceName)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got: %s", cfg.Environment)
	}
	if cfg.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got: %v", cfg.Tracing.SampleRate)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled by default")
	}
	if cfg.Global {
		t.Error("expected global registration off by default")
	}
}

func TestConfigOptions(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name   string
		opts   []Option
		verify func(*testing.T, Config)
	}{
		{
			name: "WithServiceName",
			opts: []Option{WithServiceName("svc")},
			verify: func(t *testing.T, c Config) {
				if c.ServiceName != "svc" {
					t.Errorf("ServiceName = %s, want svc", c.ServiceName)
				}
			},
		},
		{
			name: "WithServiceVersion and WithEnvironment",
			opts: []Option{WithServiceVersion("1.2.3"), WithEnvironment("ci")},
			verify: func(t *testing.T, c Config) {
				if c.ServiceVersion != "1.2.3" || c.Environment != "ci" {
					t.Errorf("got %s/%s, want 1.2.3/ci", c.ServiceVersion, c.Environment)
				}
			},
		},
		{
			name: "WithOTLP",
			opts: []Option{WithOTLP("localhost:4317"), WithTracingInsecure()},
			verify: func(t *testing.T, c Config) {
				if !c.Tracing.Enabled || c.Tracing.Exporter != ExporterOTLP {
					t.Errorf("tracing = %+v, want otlp enabled", c.Tracing)
				}
				if c.Tracing.Endpoint != "localhost:4317" || !c.Tracing.Insecure {
					t.Errorf("endpoint = %s insecure = %v", c.Tracing.Endpoint, c.Tracing.Insecure)
				}
			},
		},
		{
			name: "WithStdoutTracing",
			opts: []Option{WithStdoutTracing(&buf)},
			verify: func(t *testing.T, c Config) {
				if c.Tracing.Exporter != ExporterStdout {
					t.Errorf("Exporter = %s, want stdout", c.Tracing.Exporter)
				}
				if c.Tracing.Writer != &buf {
					t.Error("expected writer to be set")
				}
			},
		},
		{
			name: "WithStdoutTracing nil writer keeps default",
			opts: []Option{WithStdoutTracing(nil)},
			verify: func(t *testing.T, c Config) {
				if c.Tracing.Writer == nil {
					t.Error("expected default writer")
				}
			},
		},
		{
			name: "WithSampleRate",
			opts: []Option{WithSampleRate(0.25)},
			verify: func(t *testing.T, c Config) {
				if c.Tracing.SampleRate != 0.25 {
					t.Errorf("SampleRate = %v, want 0.25", c.Tracing.SampleRate)
				}
			},
		},
		{
			name: "WithMetrics and WithGlobal",
			opts: []Option{WithMetrics(), WithGlobal()},
			verify: func(t *testing.T, c Config) {
				if !c.Metrics.Enabled || !c.Global {
					t.Errorf("metrics = %v global = %v", c.Metrics.Enabled, c.Global)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			for _, opt := range tt.opts {
				opt(&cfg)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestProviderWithNoopExporter(t *testing.T) {
	p, err := New(WithTracing(ExporterNoop, ""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := p.Tracer().(*NoopTracer); !ok {
		t.Errorf("Tracer() = %T, want *NoopTracer", p.Tracer())
	}
}

func TestProviderTracingUnknownExporter(t *testing.T) {
	_, err := New(WithTracing(ExporterType("zipkin"), ""))
	if !errors.Is(err, telemetry.ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

func TestProviderWithStdoutTracing(t *testing.T) {
	var buf bytes.Buffer

	p, err := New(WithServiceName("shapley-test"), WithStdoutTracing(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer().StartComputation(context.Background(), telemetry.Computation{
		RunID:     "run-1",
		Game:      "taxi",
		Agents:    3,
		WorthType: "max",
	})
	span.Complete(telemetry.Outcome{Permutations: 6, Evaluations: 32, GrandWorth: 42, Efficient: true})
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "shapley.compute") {
		t.Errorf("exporter output missing span name: %s", out)
	}
	for _, want := range []string{"taxi", telemetry.AttrWorthType, telemetry.AttrEvaluations, telemetry.AttrEfficient} {
		if !strings.Contains(out, want) {
			t.Errorf("exporter output missing %q: %s", want, out)
		}
	}
}

func TestProviderRecordsFailedComputation(t *testing.T) {
	var buf bytes.Buffer

	p, err := New(WithStdoutTracing(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer().StartComputation(context.Background(), telemetry.Computation{Game: "broken", Agents: 2})
	span.Fail(errors.New("worth backend unreachable"), 3)
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "worth backend unreachable") {
		t.Errorf("exporter output missing error: %s", out)
	}
	if strings.Contains(out, telemetry.AttrGrandWorth) {
		t.Errorf("failed span should not carry grand worth: %s", out)
	}
}

func TestProviderNeverSampleWritesNothing(t *testing.T) {
	var buf bytes.Buffer

	p, err := New(WithStdoutTracing(&buf), WithSampleRate(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer().StartComputation(context.Background(), telemetry.Computation{Game: "dropped"})
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("expected no exported spans, got: %s", buf.String())
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{-1, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}

	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestProviderOTLPDoesNotDialEagerly(t *testing.T) {
	p, err := New(WithOTLP("127.0.0.1:1"), WithTracingInsecure())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := p.Tracer().(*OTelTracer); !ok {
		t.Errorf("Tracer() = %T, want *OTelTracer", p.Tracer())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx)
}

func TestProviderCollectMetrics(t *testing.T) {
	p, err := New(WithMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if !p.MetricsEnabled() {
		t.Fatal("expected metrics enabled")
	}

	meter := p.MeterProvider().Meter("test")
	counter, err := meter.Int64Counter("shapley.permutations")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	hist, err := meter.Float64Histogram("shapley.computation.duration")
	if err != nil {
		t.Fatalf("Float64Histogram() error = %v", err)
	}

	ctx := context.Background()
	counter.Add(ctx, 6)
	counter.Add(ctx, 24)
	hist.Record(ctx, 1.5)
	hist.Record(ctx, 2.5)

	summaries, err := p.CollectMetrics(ctx)
	if err != nil {
		t.Fatalf("CollectMetrics() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}

	// sorted by name
	if summaries[0].Name != "shapley.computation.duration" {
		t.Errorf("summaries[0].Name = %s", summaries[0].Name)
	}
	if summaries[0].Count != 2 || summaries[0].Value != 4.0 {
		t.Errorf("histogram = %+v, want count 2 value 4", summaries[0])
	}
	if summaries[1].Value != 30 {
		t.Errorf("counter value = %v, want 30", summaries[1].Value)
	}
}

func TestProviderPrometheusHandler(t *testing.T) {
	p, err := New(WithPrometheus())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if !p.MetricsEnabled() {
		t.Fatal("WithPrometheus should enable metrics")
	}
	handler := p.MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() = nil")
	}

	counter, err := p.MeterProvider().Meter("test").Int64Counter("shapley.computations")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "shapley_computations") {
		t.Errorf("metrics body missing shapley_computations:\n%s", body)
	}

	// The manual reader keeps working alongside the exporter.
	summaries, err := p.CollectMetrics(context.Background())
	if err != nil || len(summaries) != 1 {
		t.Errorf("CollectMetrics() = %v, %v", summaries, err)
	}
}

func TestProviderMetricsHandlerNilWithoutPrometheus(t *testing.T) {
	p, err := New(WithMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if p.MetricsHandler() != nil {
		t.Error("MetricsHandler() should be nil without WithPrometheus")
	}
}

func TestSummarizeSkipsUnsupported(t *testing.T) {
	rm := metricdata.ResourceMetrics{
		ScopeMetrics: []metricdata.ScopeMetrics{{
			Metrics: []metricdata.Metrics{
				{Name: "b", Data: metricdata.Sum[float64]{DataPoints: []metricdata.DataPoint[float64]{{Value: 1.5}}}},
				{Name: "a", Data: metricdata.Gauge[int64]{DataPoints: []metricdata.DataPoint[int64]{{Value: 3}}}},
			},
		}},
	}

	got := Summarize(rm)
	if len(got) != 1 || got[0].Name != "b" || got[0].Value != 1.5 {
		t.Errorf("Summarize() = %+v", got)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	p, err := New(WithMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("first Shutdown() error = %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
