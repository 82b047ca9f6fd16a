package wasmmod

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
)

// Ext is the module file extension this backend loads.
const Ext = ".wasm"

// Config holds configuration for engine creation.
type Config struct {
	// MemoryLimitPages sets the maximum memory per module in pages
	// (64KB each). 0 means the wazero default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// Logger receives load and callback events. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// Engine owns one wazero runtime and loads engine modules into it.
// Safe for concurrent use.
type Engine struct {
	runtime wazero.Runtime
	log     *zap.Logger

	hostInitMu   sync.Mutex
	hostInitDone atomic.Bool

	mu         sync.RWMutex
	byInstance map[api.Module]*Module
}

// NewEngine creates an engine with default configuration.
func NewEngine(ctx context.Context) (*Engine, error) {
	return NewEngineWithConfig(ctx, nil)
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	log := zap.NewNop()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.Logger != nil {
			log = cfg.Logger
		}
	}

	return &Engine{
		runtime:    wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		log:        log,
		byInstance: make(map[api.Module]*Module),
	}, nil
}

// Ext returns the module file extension.
func (e *Engine) Ext() string { return Ext }

// Load reads, compiles and instantiates the module file at path.
func (e *Engine) Load(ctx context.Context, path string) (voltshim.Module, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}

	if err := e.ensureHost(ctx); err != nil {
		return nil, err
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}

	// Anonymous instances allow the same file to be loaded many times.
	// Library-style modules initialize through _initialize when they
	// export it.
	instance, err := e.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName("").WithStartFunctions("_initialize"))
	if err != nil {
		compiled.Close(ctx)
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	m, err := newModule(e, path, compiled, instance)
	if err != nil {
		instance.Close(ctx)
		compiled.Close(ctx)
		return nil, err
	}

	e.mu.Lock()
	e.byInstance[instance] = m
	e.mu.Unlock()

	e.log.Debug("module loaded", zap.String("module", path))
	return m, nil
}

// moduleFor resolves the Module a host function was called from.
func (e *Engine) moduleFor(guest api.Module) *Module {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.byInstance[guest]
}

// untrack removes a closed module from host dispatch.
func (e *Engine) untrack(guest api.Module) {
	e.mu.Lock()
	delete(e.byInstance, guest)
	e.mu.Unlock()
}

// ensureHost instantiates WASI and the volt-host module once per
// runtime. Safe for concurrent calls.
func (e *Engine) ensureHost(ctx context.Context) error {
	if e.hostInitDone.Load() {
		return nil
	}

	e.hostInitMu.Lock()
	defer e.hostInitMu.Unlock()

	if e.hostInitDone.Load() {
		return nil
	}

	if e.runtime.Module(wasi_snapshot_preview1.ModuleName) == nil {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, e.runtime); err != nil {
			return fmt.Errorf("instantiate WASI: %w", err)
		}
	}
	if e.runtime.Module(HostModule) == nil {
		if err := e.instantiateHost(ctx); err != nil {
			return fmt.Errorf("instantiate %s: %w", HostModule, err)
		}
	}

	e.hostInitDone.Store(true)
	return nil
}

// Close shuts the runtime down, invalidating every loaded module.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.byInstance = make(map[api.Module]*Module)
	e.mu.Unlock()
	return e.runtime.Close(ctx)
}

var _ voltshim.Loader = (*Engine)(nil)
