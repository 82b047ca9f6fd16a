package testmod

import (
	"context"
	"sync"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/errors"
)

// Ext is the filename extension reported by the test loader.
const Ext = ".testmod"

// Loader is a voltshim.Loader over in-memory modules.
//
// Configure the exported fields before handing the loader to the code
// under test; the accessors are safe against concurrent Loads.
type Loader struct {
	// Delegates maps versioned interface names to the values
	// CreateInterface returns.
	Delegates map[string]any

	// FailLoad, when set, makes every Load fail with this error.
	FailLoad error

	// FailName, when non-empty, makes CreateInterface report a missing
	// factory export for that name.
	FailName string

	mu      sync.Mutex
	loads   []string
	modules []*Module
}

// NewLoader returns a Loader with an empty delegate table.
func NewLoader() *Loader {
	return &Loader{Delegates: make(map[string]any)}
}

// Load opens an in-memory module for path.
func (l *Loader) Load(ctx context.Context, path string) (voltshim.Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailLoad != nil {
		return nil, l.FailLoad
	}

	m := &Module{loader: l, path: path}
	l.loads = append(l.loads, path)
	l.modules = append(l.modules, m)
	return m, nil
}

// Ext returns the module file extension.
func (l *Loader) Ext() string { return Ext }

// LoadCount returns how many Loads succeeded.
func (l *Loader) LoadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.loads)
}

// Loads returns the loaded paths in order.
func (l *Loader) Loads() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loads...)
}

// Modules returns every module handed out, open or closed.
func (l *Loader) Modules() []*Module {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Module(nil), l.modules...)
}

// OpenCount returns how many handed-out modules are not yet closed.
func (l *Loader) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	open := 0
	for _, m := range l.modules {
		if !m.Closed() {
			open++
		}
	}
	return open
}

// Module is one in-memory module produced by a Loader.
type Module struct {
	loader *Loader
	path   string

	mu     sync.Mutex
	closed bool
	closes int
}

// CreateInterface returns the delegate wired into the loader for name.
func (m *Module) CreateInterface(ctx context.Context, name string) (any, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, errors.Closed(name)
	}

	if m.loader.FailName == name {
		return nil, errors.ExportNotFound(name, m.path)
	}
	delegate, ok := m.loader.Delegates[name]
	if !ok {
		return nil, errors.ExportNotFound(name, m.path)
	}
	return delegate, nil
}

// Close marks the module closed. Repeated closes are counted so tests
// can assert exactly-once unloading.
func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.closes++
	return nil
}

// Path returns the path the module was loaded from.
func (m *Module) Path() string { return m.path }

// Closed reports whether Close was called.
func (m *Module) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CloseCount returns how many times Close was called.
func (m *Module) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

var _ voltshim.Loader = (*Loader)(nil)
var _ voltshim.Module = (*Module)(nil)
