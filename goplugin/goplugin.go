//go:build linux || darwin

package goplugin

import (
	"context"
	"fmt"
	"plugin"
	"sync"

	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/errors"
)

// Loader opens engine modules built with -buildmode=plugin.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader with a no-op logger.
func NewLoader() *Loader { return NewLoaderWithLogger(nil) }

// NewLoaderWithLogger creates a loader logging through log.
func NewLoaderWithLogger(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Ext returns the module file extension.
func (l *Loader) Ext() string { return Ext }

// Load opens the plugin at path and resolves its factory symbol.
func (l *Loader) Load(ctx context.Context, path string) (voltshim.Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}

	sym, err := p.Lookup(FactorySymbol)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", FactorySymbol, err)
	}

	var factory func(string) (any, error)
	switch f := sym.(type) {
	case func(string) (any, error):
		factory = f
	case *func(string) (any, error):
		factory = *f
	default:
		return nil, fmt.Errorf("symbol %s is %T, want func(string) (any, error)", FactorySymbol, sym)
	}

	l.log.Debug("module loaded", zap.String("module", path))
	return &Module{path: path, factory: factory, log: l.log}, nil
}

// Module is one opened plugin. The OS never unmaps a loaded shared
// object, so Close only marks the handle closed.
type Module struct {
	path string
	log  *zap.Logger

	mu      sync.Mutex
	closed  bool
	factory func(string) (any, error)
}

// Path returns the plugin file this module was loaded from.
func (m *Module) Path() string { return m.path }

// CreateInterface asks the plugin factory for a versioned interface.
func (m *Module) CreateInterface(ctx context.Context, name string) (any, error) {
	m.mu.Lock()
	factory := m.factory
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, errors.Closed(name)
	}

	value, err := factory(name)
	if err != nil {
		return nil, errors.FactoryFailed(name, m.path, err)
	}
	if value == nil {
		return nil, errors.ExportNotFound(name, m.path)
	}
	return value, nil
}

// Close marks the module closed. The plugin code stays mapped.
func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.factory = nil
	m.log.Debug("module closed", zap.String("module", m.path))
	return nil
}

var (
	_ voltshim.Loader = (*Loader)(nil)
	_ voltshim.Module = (*Module)(nil)
)
