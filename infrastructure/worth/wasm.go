package worth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
)

// DefaultExport is the function looked up when no export name is given.
const DefaultExport = "worth"

// maxMaskAgents is the number of agents a 64-bit membership mask can carry.
const maxMaskAgents = 64

// WASMConfig configures a worth function compiled to WebAssembly.
type WASMConfig struct {
	// Path is the .wasm file. Ignored when Module is set.
	Path string
	// Module holds the module bytes directly.
	Module []byte
	// Export names a function of type (i64) -> f64.
	Export string
	// MaxMemoryPages caps linear memory in 64KiB pages (0 for the wazero default).
	MaxMemoryPages uint32
}

// WASM evaluates worth by calling an exported function with a membership
// mask: bit i is set when the agent at position i of the game is in the group.
type WASM struct {
	mu        sync.Mutex
	runtime   wazero.Runtime
	module    api.Module
	fn        api.Function
	positions map[*coalition.Agent]uint
}

// NewWASM compiles and instantiates the module for the given agents.
func NewWASM(ctx context.Context, config WASMConfig, agents []*coalition.Agent) (*WASM, error) {
	if len(agents) > maxMaskAgents {
		return nil, fmt.Errorf("wasm worth supports at most %d agents, got %d", maxMaskAgents, len(agents))
	}

	wasmBytes := config.Module
	if wasmBytes == nil {
		b, err := os.ReadFile(config.Path)
		if err != nil {
			return nil, fmt.Errorf("read wasm module: %w", err)
		}
		wasmBytes = b
	}

	export := config.Export
	if export == "" {
		export = DefaultExport
	}

	runtimeConfig := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if config.MaxMemoryPages > 0 {
		runtimeConfig = runtimeConfig.WithMemoryLimitPages(config.MaxMemoryPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)

	// Modules built by standard toolchains import WASI even when unused.
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("compile wasm module: %w", err)
	}

	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate wasm module: %w", err)
	}

	fn := mod.ExportedFunction(export)
	if fn == nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("%w: %s", ErrExportNotFound, export)
	}
	def := fn.Definition()
	if len(def.ParamTypes()) != 1 || def.ParamTypes()[0] != api.ValueTypeI64 ||
		len(def.ResultTypes()) != 1 || def.ResultTypes()[0] != api.ValueTypeF64 {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("%w: %s must have type (i64) -> f64", ErrExportNotFound, export)
	}

	positions := make(map[*coalition.Agent]uint, len(agents))
	for i, a := range agents {
		positions[a] = uint(i)
	}

	return &WASM{
		runtime:   runtime,
		module:    mod,
		fn:        fn,
		positions: positions,
	}, nil
}

// Worth implements coalition.WorthFunction.
func (w *WASM) Worth(ctx context.Context, g *coalition.Group) (float64, error) {
	var mask uint64
	for _, a := range g.Members() {
		pos, ok := w.positions[a]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownAgent, a)
		}
		mask |= 1 << pos
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	results, err := w.fn.Call(ctx, mask)
	if err != nil {
		return 0, fmt.Errorf("call wasm worth: %w", err)
	}
	return api.DecodeF64(results[0]), nil
}

// Close releases the module and runtime.
func (w *WASM) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.module.Close(ctx), w.runtime.Close(ctx))
}
