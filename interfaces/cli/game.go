package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/observability"
	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// gameOptions are shared by commands that load and run a game file.
type gameOptions struct {
	configPath   string
	strict       bool
	output       string
	maxAgents    int
	tolerance    float64
	trace        string
	otlpEndpoint string
	otlpInsecure bool
	metrics      bool
}

func (o *gameOptions) addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Path to game file (required)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail on missing environment variables and unknown fields")
	cmd.Flags().StringVarP(&o.output, "output", "o", outputText, "Output format (text, json, yaml)")
	cmd.Flags().IntVar(&o.maxAgents, "max-agents", 0, "Largest game to enumerate (overrides game file, at most 20)")
	cmd.Flags().Float64Var(&o.tolerance, "tolerance", 0, "Efficiency check tolerance (overrides game file)")
	_ = cmd.MarkFlagRequired("config")
}

func (o *gameOptions) addTelemetryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.trace, "trace", "", "Export spans (stdout, otlp); stdout spans are written to stderr")
	cmd.Flags().StringVar(&o.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for --trace otlp")
	cmd.Flags().BoolVar(&o.otlpInsecure, "otlp-insecure", false, "Disable TLS for the OTLP exporter")
	cmd.Flags().BoolVar(&o.metrics, "metrics", false, "Print a metrics summary to stderr after the run")
}

// loadGameConfig reads and validates a game file.
func (a *App) loadGameConfig(o *gameOptions) (*api.GameConfig, error) {
	loader := api.NewConfigLoaderWithOptions(
		api.ConfigWithValidation(true),
		api.ConfigWithStrictEnv(o.strict),
		api.ConfigWithStrictFields(o.strict),
	)
	cfg, err := loader.LoadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	a.applyGameLogging(cfg)
	return cfg, nil
}

// applyGameLogging honors the game file's logging section unless the
// flags were set explicitly.
func (a *App) applyGameLogging(cfg *api.GameConfig) {
	flags := a.root.PersistentFlags()
	level, format := a.logLevel, a.logFormat
	if cfg.Logging.Level != "" && !flags.Changed("log-level") {
		level = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" && !flags.Changed("log-format") {
		format = cfg.Logging.Format
	}
	if level == a.logLevel && format == a.logFormat {
		return
	}
	logging.Init(logging.Config{Level: level, Format: format, Output: a.stderr})
}

// session holds everything needed to run one game.
type session struct {
	config *api.GameConfig
	built  *api.ConfigBuildResult
	engine *api.Engine
	obs    *api.ObservabilityProvider
}

// openSession loads the game, builds the worth function and wires telemetry.
func (a *App) openSession(ctx context.Context, o *gameOptions) (*session, error) {
	if err := checkOutputFormat(o.output); err != nil {
		return nil, err
	}

	cfg, err := a.loadGameConfig(o)
	if err != nil {
		return nil, err
	}

	obs, err := a.newObservability(cfg, o)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	built, err := api.NewConfigBuilder(cfg).Build(ctx)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	maxAgents := built.MaxAgents
	if o.maxAgents > 0 {
		maxAgents = o.maxAgents
	}
	tolerance := built.Tolerance
	if o.tolerance > 0 {
		tolerance = o.tolerance
	}

	engineOpts := []api.Option{
		api.WithMaxAgents(maxAgents),
		api.WithTolerance(tolerance),
		api.WithTracer(obs.Tracer()),
	}
	if obs.MetricsEnabled() {
		mcfg := api.DefaultMetricsConfig()
		mcfg.MeterVersion = Version
		mcfg.Provider = obs.MeterProvider()
		engineOpts = append(engineOpts, api.WithMetrics(api.NewMetricsProvider(mcfg)))
	}

	engine, err := api.New(engineOpts...)
	if err != nil {
		_ = built.Close(ctx)
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	return &session{config: cfg, built: built, engine: engine, obs: obs}, nil
}

func (a *App) newObservability(cfg *api.GameConfig, o *gameOptions) (*api.ObservabilityProvider, error) {
	opts := []api.ObservabilityOption{
		observability.WithServiceVersion(Version),
	}

	tracing := cfg.Observability.Tracing
	exporter, endpoint, insecure := "", tracing.Endpoint, tracing.Insecure
	if tracing.Enabled {
		exporter = tracing.Exporter
	}
	if o.trace != "" {
		exporter = o.trace
	}
	if o.otlpEndpoint != "" {
		endpoint = o.otlpEndpoint
	}
	if o.otlpInsecure {
		insecure = true
	}

	switch observability.ExporterType(exporter) {
	case "":
	case observability.ExporterStdout:
		opts = append(opts, observability.WithStdoutTracing(a.stderr))
	case observability.ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("--trace otlp needs --otlp-endpoint or observability.tracing.endpoint")
		}
		opts = append(opts, observability.WithOTLP(endpoint))
		if insecure {
			opts = append(opts, observability.WithTracingInsecure())
		}
	default:
		return nil, fmt.Errorf("unknown trace exporter %q (want stdout or otlp)", exporter)
	}
	if exporter != "" && tracing.SampleRate > 0 {
		opts = append(opts, observability.WithSampleRate(tracing.SampleRate))
	}

	if o.metrics || cfg.Observability.Metrics.Enabled {
		opts = append(opts, observability.WithMetrics())
	}

	return api.NewObservability(opts...)
}

// close releases the worth function, prints metrics when requested and
// flushes spans.
func (s *session) close(ctx context.Context, a *App) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	if err := s.built.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.obs.MetricsEnabled() {
		summaries, err := s.obs.CollectMetrics(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			a.writeMetricsSummary(summaries)
		}
	}
	if err := s.obs.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) writeMetricsSummary(summaries []api.MetricSummary) {
	fmt.Fprintln(a.stderr, "Metrics:")
	for _, m := range summaries {
		if m.Count > 0 {
			fmt.Fprintf(a.stderr, "  %s: count=%d sum=%s%s\n", m.Name, m.Count, formatFloat(m.Value), m.Unit)
			continue
		}
		fmt.Fprintf(a.stderr, "  %s: %s\n", m.Name, formatFloat(m.Value))
	}
}
