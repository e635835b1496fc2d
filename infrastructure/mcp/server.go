package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	mcpgo "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/shapley-go/application"
	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	domainconfig "github.com/felixgeelhaar/shapley-go/domain/config"
	infraconfig "github.com/felixgeelhaar/shapley-go/infrastructure/config"
	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/worth"
)

var (
	// ErrInvalidInput indicates a tool call with malformed arguments.
	ErrInvalidInput = errors.New("invalid tool input")

	// ErrWorthTypeNotAllowed indicates a game naming a worth type the server
	// does not accept from clients.
	ErrWorthTypeNotAllowed = errors.New("worth type not allowed")
)

// DefaultAllowedWorthTypes are the worth types evaluated entirely in process.
// Remote and wasm reach the network and filesystem of the server host and
// must be enabled explicitly.
var DefaultAllowedWorthTypes = []string{
	domainconfig.WorthMax,
	domainconfig.WorthSum,
	domainconfig.WorthBandwidth,
	domainconfig.WorthMajority,
}

// ShapleyServer serves Shapley computations over MCP.
type ShapleyServer struct {
	srv        *mcpgo.Server
	registry   *worth.Registry
	engineOpts []application.Option
	maxAgents  int
	allowed    []string
	info       mcpgo.ServerInfo
}

// ServerConfig configures a ShapleyServer.
type ServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Instructions provides usage instructions for clients.
	Instructions string

	// MaxAgents caps every game regardless of its own max_agents
	// (default application.DefaultMaxAgents).
	MaxAgents int

	// EngineOptions are applied to the engine of every request.
	EngineOptions []application.Option

	// Registry resolves worth types (default: built-in types).
	Registry *worth.Registry

	// AllowedWorthTypes lists the worth types clients may use
	// (default DefaultAllowedWorthTypes).
	AllowedWorthTypes []string
}

// GameInput is the argument of the computation tools.
type GameInput struct {
	// Game is a game definition in the same shape as a game file.
	Game json.RawMessage `json:"game"`

	// Order lists agent IDs for marginal_contributions.
	Order []string `json:"order,omitempty"`
}

// NewShapleyServer creates a server with every tool registered.
func NewShapleyServer(cfg ServerConfig) *ShapleyServer {
	if cfg.Name == "" {
		cfg.Name = "shapley"
	}
	if cfg.MaxAgents <= 0 {
		cfg.MaxAgents = application.DefaultMaxAgents
	}
	if cfg.Registry == nil {
		cfg.Registry = worth.NewRegistry()
	}
	if cfg.Instructions == "" {
		cfg.Instructions = defaultInstructions
	}
	if len(cfg.AllowedWorthTypes) == 0 {
		cfg.AllowedWorthTypes = DefaultAllowedWorthTypes
	}

	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: "Exact Shapley values for cooperative games",
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	s := &ShapleyServer{
		srv:        mcpgo.NewServer(info, mcpgo.WithInstructions(cfg.Instructions)),
		registry:   cfg.Registry,
		engineOpts: cfg.EngineOptions,
		maxAgents:  cfg.MaxAgents,
		allowed:    slices.Clone(cfg.AllowedWorthTypes),
		info:       info,
	}
	s.registerTools()
	return s
}

const defaultInstructions = `Pass a game definition as {"game": {...}} with name, version, worth {type, params} and agents [{id, contribution}].
Runtime grows with n! in the number of agents.`

func (s *ShapleyServer) registerTools() {
	s.srv.Tool(ToolCompute).
		Description("Compute the Shapley value of every agent in a game.").
		Handler(s.Compute)
	s.srv.Tool(ToolMarginal).
		Description("Marginal contribution of every agent for one ordering, given as agent IDs in \"order\".").
		Handler(s.Marginal)
	s.srv.Tool(ToolInspect).
		Description("Compute Shapley values and check efficiency, symmetry and the null player property.").
		Handler(s.Inspect)
	s.srv.Tool(ToolValidate).
		Description("Validate a game definition without computing.").
		Handler(s.Validate)
	s.srv.Tool(ToolWorthTypes).
		Description("List the available worth function types.").
		Handler(s.WorthTypes)
}

// Server returns the underlying mcp-go server.
func (s *ShapleyServer) Server() *mcpgo.Server {
	return s.srv
}

// Info returns the server metadata.
func (s *ShapleyServer) Info() ServerInfo {
	return s.info
}

// ServeStdio runs the server over stdin/stdout.
func (s *ShapleyServer) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("transport", "stdio")).
		Msg("mcp server started")
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

// ServeHTTP runs the server over HTTP with SSE.
func (s *ShapleyServer) ServeHTTP(ctx context.Context, addr string, opts ...mcpgo.HTTPOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("transport", "http")).
		Add(logging.Str("addr", addr)).
		Msg("mcp server started")
	return mcpgo.ServeHTTP(ctx, s.srv, addr, opts...)
}

// Compute handles compute_shapley.
func (s *ShapleyServer) Compute(ctx context.Context, input json.RawMessage) (string, error) {
	_, game, engine, closeFn, err := s.prepare(ctx, input)
	if err != nil {
		return "", err
	}
	defer closeFn()

	result, err := engine.Compute(ctx, game)
	if err != nil {
		return "", err
	}
	return encode(result.View())
}

// Marginal handles marginal_contributions.
func (s *ShapleyServer) Marginal(ctx context.Context, input json.RawMessage) (string, error) {
	in, game, engine, closeFn, err := s.prepare(ctx, input)
	if err != nil {
		return "", err
	}
	defer closeFn()

	// Without an order the agents join in definition order.
	order := game.Agents
	if len(in.Order) > 0 {
		order = make([]*coalition.Agent, 0, len(in.Order))
		for _, id := range in.Order {
			a, ok := infraconfig.AgentByID(game, id)
			if !ok {
				return "", fmt.Errorf("%w: unknown agent %q in order", ErrInvalidInput, id)
			}
			order = append(order, a)
		}
	}

	marginals, err := engine.Marginal(ctx, game, order)
	if err != nil {
		return "", err
	}

	ids := make([]string, len(order))
	for i, a := range order {
		ids[i] = a.ID()
	}
	return encode(struct {
		Game   string                  `json:"game"`
		Order  []string                `json:"order"`
		Values []application.ValueView `json:"values"`
	}{game.Name, ids, application.ValueViews(marginals, order)})
}

// Inspect handles inspect_axioms.
func (s *ShapleyServer) Inspect(ctx context.Context, input json.RawMessage) (string, error) {
	_, game, engine, closeFn, err := s.prepare(ctx, input)
	if err != nil {
		return "", err
	}
	defer closeFn()

	result, err := engine.Compute(ctx, game)
	if err != nil {
		return "", err
	}
	report, err := application.NewInspectionService(engine).Inspect(ctx, game, result.Values)
	if err != nil {
		return "", err
	}
	return encode(struct {
		Result application.ResultView `json:"result"`
		Report *application.Report    `json:"report"`
	}{result.View(), report})
}

// Validate handles validate_game.
func (s *ShapleyServer) Validate(_ context.Context, input json.RawMessage) (string, error) {
	in, err := decodeInput(input)
	if err != nil {
		return "", err
	}

	cfg, err := gameLoader(false).LoadBytes(in.Game, infraconfig.FormatJSON)
	if err != nil {
		return "", err
	}

	type verdict struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	}
	errs := domainconfig.NewValidator().Validate(cfg)
	v := verdict{Valid: !errs.HasErrors()}
	for _, e := range errs {
		v.Errors = append(v.Errors, e.Error())
	}
	if err := s.checkWorthType(cfg.Worth.Type); err != nil {
		v.Valid = false
		v.Errors = append(v.Errors, err.Error())
	}
	return encode(v)
}

// WorthTypes handles list_worth_types. Only types clients may use are listed.
func (s *ShapleyServer) WorthTypes(_ context.Context, _ json.RawMessage) (string, error) {
	var out []worth.Info
	for _, info := range s.registry.Types() {
		if slices.Contains(s.allowed, info.Name) {
			out = append(out, info)
		}
	}
	return encode(out)
}

func (s *ShapleyServer) checkWorthType(t string) error {
	if t == "" || slices.Contains(s.allowed, t) {
		return nil
	}
	return fmt.Errorf("%w: %w: %q (allowed: %s)", ErrInvalidInput, ErrWorthTypeNotAllowed, t, strings.Join(s.allowed, ", "))
}

func (s *ShapleyServer) prepare(ctx context.Context, input json.RawMessage) (*GameInput, *coalition.Game, *application.Engine, func(), error) {
	in, err := decodeInput(input)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cfg, err := gameLoader(true).LoadBytes(in.Game, infraconfig.FormatJSON)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := s.checkWorthType(cfg.Worth.Type); err != nil {
		return nil, nil, nil, nil, err
	}

	built, err := infraconfig.NewBuilder(cfg).WithRegistry(s.registry).Build(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	closeFn := func() {
		if err := built.Close(context.WithoutCancel(ctx)); err != nil {
			logging.Warn().
				Add(logging.Component("mcp")).
				Add(logging.ErrorField(err)).
				Msg("failed to release worth function")
		}
	}

	maxAgents := s.maxAgents
	if built.MaxAgents > 0 && built.MaxAgents < maxAgents {
		maxAgents = built.MaxAgents
	}
	opts := append([]application.Option{}, s.engineOpts...)
	opts = append(opts, application.WithMaxAgents(maxAgents))
	if built.Tolerance > 0 {
		opts = append(opts, application.WithTolerance(built.Tolerance))
	}

	engine, err := application.NewEngineWithOptions(opts...)
	if err != nil {
		closeFn()
		return nil, nil, nil, nil, err
	}

	return in, built.Game, engine, closeFn, nil
}

func decodeInput(input json.RawMessage) (*GameInput, error) {
	var in GameInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(strings.TrimSpace(string(in.Game))) == 0 || string(in.Game) == "null" {
		return nil, fmt.Errorf("%w: game is required", ErrInvalidInput)
	}
	return &in, nil
}

// gameLoader never expands environment variables: definitions come from
// the client, not the operator.
func gameLoader(validate bool) *infraconfig.Loader {
	return infraconfig.NewLoaderWithOptions(
		infraconfig.WithEnvExpansion(false),
		infraconfig.WithStrictFields(true),
		infraconfig.WithValidation(validate),
	)
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
