// Package registry implements the versioned-interface convention used
// across module boundaries: implementations are registered under their
// versioned names and recovered with CreateInterface. A host installs the
// shim's facades here and its subsystems look them up by name, exactly as
// they would against a directly linked engine.
package registry

import (
	"sort"
	"sync"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

// FactoryFunc produces the implementation registered under one name.
// It is invoked on every CreateInterface call; factories that should
// hand out a single instance close over it.
type FactoryFunc func() (any, error)

// Registry maps versioned interface names to factories. The zero value
// is not usable; construct with New.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FactoryFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]FactoryFunc),
	}
}

// Register binds name to factory. Registering a name twice is an error;
// versioned names are contracts, and silently replacing one hides a
// double install.
func (r *Registry) Register(name string, factory FactoryFunc) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "interface name cannot be empty")
	}
	if factory == nil {
		return errors.InvalidInput(errors.PhaseRegister, "factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Duplicate(name)
	}
	r.factories[name] = factory
	return nil
}

// RegisterInstance binds name to an already constructed implementation.
func (r *Registry) RegisterInstance(name string, instance any) error {
	return r.Register(name, func() (any, error) {
		return instance, nil
	})
}

// CreateInterface resolves name to an implementation. The signature
// satisfies physics.Factory so a Registry can stand on either side of a
// module boundary.
func (r *Registry) CreateInterface(name string) (any, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NotFound(errors.PhaseLookup, "interface", name)
	}
	return factory()
}

// Factory returns CreateInterface as a physics.Factory value.
func (r *Registry) Factory() physics.Factory {
	return r.CreateInterface
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
