package wasmmod

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

// Guest allocator exports.
const (
	guestAlloc = "volt-alloc"
	guestFree  = "volt-free"
)

// Token is an opaque interface token minted by a module factory for a
// name the host has no delegate type for.
type Token uint32

// Module is one instantiated engine module.
type Module struct {
	engine   *Engine
	path     string
	compiled wazero.CompiledModule
	instance api.Module
	mem      api.Memory
	allocFn  api.Function
	freeFn   api.Function
	log      *zap.Logger

	cacheMu   sync.RWMutex
	funcCache map[string]api.Function

	mu           sync.Mutex
	closed       bool
	factory      physics.Factory
	nextID       uint32
	values       map[uint32]any
	convexInfos  map[uint32]physics.ConvexInfo
	meshHandlers map[uint32]physics.VirtualMeshHandler
}

func newModule(e *Engine, path string, compiled wazero.CompiledModule, instance api.Module) (*Module, error) {
	mem := instance.Memory()
	if mem == nil {
		return nil, fmt.Errorf("module exports no memory")
	}

	return &Module{
		engine:       e,
		path:         path,
		compiled:     compiled,
		instance:     instance,
		mem:          mem,
		allocFn:      instance.ExportedFunction(guestAlloc),
		freeFn:       instance.ExportedFunction(guestFree),
		log:          e.log,
		funcCache:    make(map[string]api.Function),
		nextID:       1,
		values:       make(map[uint32]any),
		convexInfos:  make(map[uint32]physics.ConvexInfo),
		meshHandlers: make(map[uint32]physics.VirtualMeshHandler),
	}, nil
}

// Path returns the module file this instance was loaded from.
func (m *Module) Path() string { return m.path }

// CreateInterface calls the factory export named name and wraps the
// returned token in the matching delegate type.
func (m *Module) CreateInterface(ctx context.Context, name string) (any, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, errors.Closed(name)
	}

	fn := m.instance.ExportedFunction(name)
	if fn == nil {
		return nil, errors.ExportNotFound(name, m.path)
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return nil, errors.FactoryFailed(name, m.path, err)
	}
	if len(results) == 0 || uint32(results[0]) == 0 {
		return nil, errors.FactoryFailed(name, m.path, nil)
	}
	return m.wrapToken(name, uint32(results[0])), nil
}

// wrapToken pairs a guest token with the delegate type for its
// interface name. Unknown names stay opaque.
func (m *Module) wrapToken(name string, token uint32) any {
	switch name {
	case physics.PhysicsVersion:
		return &envDelegate{m: m, token: token}
	case physics.SurfacePropsVersion:
		return &surfaceDelegate{m: m, token: token}
	case physics.CollisionVersion:
		return &collisionDelegate{m: m, token: token}
	}
	return Token(token)
}

// Close releases the instance. Idempotent; delegate calls after Close
// fail fast.
func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.factory = nil
	m.values = nil
	m.convexInfos = nil
	m.meshHandlers = nil
	m.mu.Unlock()

	m.engine.untrack(m.instance)

	m.cacheMu.Lock()
	m.funcCache = nil
	m.cacheMu.Unlock()

	var firstErr error
	if err := m.instance.Close(ctx); err != nil {
		firstErr = err
	}
	if err := m.compiled.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	m.log.Debug("module closed", zap.String("module", m.path))
	return firstErr
}

// call invokes a method export. Closed modules fail fast; traps are
// wrapped as forward errors.
func (m *Module) call(ctx context.Context, iface, export string, params ...uint64) ([]uint64, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, errors.Closed(iface)
	}

	fn, err := m.exportedFunc(iface, export)
	if err != nil {
		return nil, err
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Trap(iface, export, err)
	}
	return results, nil
}

// callOne is call for exports returning exactly one value.
func (m *Module) callOne(ctx context.Context, iface, export string, params ...uint64) (uint64, error) {
	results, err := m.call(ctx, iface, export, params...)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errors.New(errors.PhaseForward, errors.KindTypeMismatch).
			Interface(iface).
			Module(m.path).
			Op(export).
			Detail("export returned no value").
			Build()
	}
	return results[0], nil
}

// nullHandle reports a creation export that returned handle zero.
func (m *Module) nullHandle(iface, export string) error {
	return errors.New(errors.PhaseForward, errors.KindTrap).
		Interface(iface).
		Module(m.path).
		Op(export).
		Detail("module returned a null handle").
		Build()
}

func (m *Module) exportedFunc(iface, export string) (api.Function, error) {
	m.cacheMu.RLock()
	fn, ok := m.funcCache[export]
	m.cacheMu.RUnlock()
	if ok {
		return fn, nil
	}

	fn = m.instance.ExportedFunction(export)
	if fn == nil {
		return nil, errors.New(errors.PhaseForward, errors.KindNotFound).
			Interface(iface).
			Module(m.path).
			Op(export).
			Detail("method export not found").
			Build()
	}

	m.cacheMu.Lock()
	if m.funcCache != nil {
		m.funcCache[export] = fn
	}
	m.cacheMu.Unlock()
	return fn, nil
}

// setFactory installs the factory Connect passed in; nil disconnects.
func (m *Module) setFactory(factory physics.Factory) {
	m.mu.Lock()
	if !m.closed {
		m.factory = factory
	}
	m.mu.Unlock()
}

func (m *Module) currentFactory() physics.Factory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.factory
}

// storeValue parks a factory-produced value and returns its handle.
func (m *Module) storeValue(v any) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}
	id := m.nextID
	m.nextID++
	m.values[id] = v
	return id
}

func (m *Module) registerConvexInfo(info physics.ConvexInfo) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}
	id := m.nextID
	m.nextID++
	m.convexInfos[id] = info
	return id
}

func (m *Module) releaseConvexInfo(id uint32) {
	m.mu.Lock()
	if m.convexInfos != nil {
		delete(m.convexInfos, id)
	}
	m.mu.Unlock()
}

func (m *Module) convexInfo(id uint32) physics.ConvexInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.convexInfos[id]
}

// registerMeshHandler keeps a handler for the lifetime of its virtual
// mesh. The guest may query it again on later rebuilds, so it is only
// dropped on Close or when creation fails.
func (m *Module) registerMeshHandler(h physics.VirtualMeshHandler) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}
	id := m.nextID
	m.nextID++
	m.meshHandlers[id] = h
	return id
}

func (m *Module) releaseMeshHandler(id uint32) {
	m.mu.Lock()
	if m.meshHandlers != nil {
		delete(m.meshHandlers, id)
	}
	m.mu.Unlock()
}

func (m *Module) meshHandler(id uint32) physics.VirtualMeshHandler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meshHandlers[id]
}

var _ voltshim.Module = (*Module)(nil)
