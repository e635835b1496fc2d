package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/mcp"
	"github.com/felixgeelhaar/shapley-go/infrastructure/observability"
	api "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

// serveOptions holds options for the serve command.
type serveOptions struct {
	httpAddr    string
	metricsAddr string
	maxAgents   int
	tolerance   float64
	allowWorth  []string
}

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve computations to other programs",
	}

	cmd.AddCommand(a.newServeMCPCmd())

	return cmd
}

// newServeMCPCmd creates the serve mcp command.
func (a *App) newServeMCPCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run a Model Context Protocol server",
		Long: `Run an MCP server exposing these tools:

  compute_shapley         Shapley value of every agent in a game
  marginal_contributions  Marginal contributions for one ordering
  inspect_axioms          Efficiency, symmetry and null player checks
  validate_game           Validate a game definition
  list_worth_types        Available worth functions

Games are passed inline in the same shape as a game file. Only in-process
worth types (max, sum, bandwidth, majority) are accepted by default. Remote
and wasm worth functions run against this machine's network and filesystem;
enable them with --allow-worth.

Examples:
  # Serve over stdio (for MCP clients that spawn the process)
  shapley serve mcp

  # Serve over HTTP
  shapley serve mcp --http :8080 --max-agents 8

  # Expose Prometheus metrics for computations
  shapley serve mcp --http :8080 --metrics-addr :9090

  # Let clients call remote worth endpoints
  shapley serve mcp --allow-worth remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServeMCP(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "Listen address for HTTP transport (default: stdio)")
	cmd.Flags().IntVar(&opts.maxAgents, "max-agents", api.DefaultMaxAgents, "Largest game a client may submit (at most 20)")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "Default efficiency check tolerance")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address at /metrics")
	cmd.Flags().StringSliceVar(&opts.allowWorth, "allow-worth", nil, "Extra worth types clients may use (remote, wasm)")

	return cmd
}

func (a *App) runServeMCP(ctx context.Context, opts *serveOptions) error {
	allowed, err := allowedWorthTypes(opts.allowWorth)
	if err != nil {
		return err
	}

	var engineOpts []api.Option
	if opts.tolerance > 0 {
		engineOpts = append(engineOpts, api.WithTolerance(opts.tolerance))
	}

	// Validate the ceiling up front instead of on the first request.
	if _, err := api.New(append(engineOpts, api.WithMaxAgents(opts.maxAgents))...); err != nil {
		return err
	}

	var obs *api.ObservabilityProvider
	if opts.metricsAddr != "" {
		obs, err = api.NewObservability(
			observability.WithServiceVersion(Version),
			observability.WithPrometheus(),
		)
		if err != nil {
			return err
		}
		defer func() { _ = obs.Shutdown(context.WithoutCancel(ctx)) }()

		mcfg := api.DefaultMetricsConfig()
		mcfg.MeterVersion = Version
		mcfg.Provider = obs.MeterProvider()
		engineOpts = append(engineOpts, api.WithMetrics(api.NewMetricsProvider(mcfg)))
	}

	server := mcp.NewShapleyServer(mcp.ServerConfig{
		Version:           Version,
		MaxAgents:         opts.maxAgents,
		EngineOptions:     engineOpts,
		AllowedWorthTypes: allowed,
	})

	g, ctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g.Go(func() error {
		// Stop the metrics server when the MCP session ends.
		defer stop()
		if opts.httpAddr != "" {
			return server.ServeHTTP(ctx, opts.httpAddr)
		}
		return server.ServeStdio(ctx)
	})
	if obs != nil {
		g.Go(func() error {
			return serveMetrics(ctx, opts.metricsAddr, obs.MetricsHandler())
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// allowedWorthTypes adds extra to the in-process worth types.
func allowedWorthTypes(extra []string) ([]string, error) {
	allowed := slices.Clone(mcp.DefaultAllowedWorthTypes)
	for _, t := range extra {
		if !slices.Contains(domainconfig.WorthTypes, t) {
			return nil, fmt.Errorf("unknown worth type %q for --allow-worth", t)
		}
		if !slices.Contains(allowed, t) {
			allowed = append(allowed, t)
		}
	}
	return allowed, nil
}

// serveMetrics serves handler at /metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Info().
		Add(logging.Component("metrics")).
		Add(logging.Str("addr", addr)).
		Msg("metrics server started")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
