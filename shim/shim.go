package shim

import (
	"context"

	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/cpulevel"
	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/registry"
	"github.com/voltworks/volt-shim/resolver"
)

// DefaultBase is the module file base name.
const DefaultBase = "volt"

// Config configures a facade set.
type Config struct {
	// Dir is the directory holding the engine module files.
	Dir string

	// Base is the module file base name. Defaults to DefaultBase.
	Base string

	// Loader opens module files and decides the backend.
	Loader voltshim.Loader

	// Level selects the module flavor, typically cpulevel.Detect().
	// The zero value is the baseline level.
	Level cpulevel.Level

	// Logger receives resolution and call-entry events. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// modulePath returns the module file every facade of this config
// resolves from.
func (c Config) modulePath() string {
	base := c.Base
	if base == "" {
		base = DefaultBase
	}
	return resolver.ModulePath(c.Dir, base, c.Level, c.Loader.Ext())
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Set bundles the three engine facades built from one Config.
type Set struct {
	Physics      *Physics
	SurfaceProps *SurfaceProps
	Collision    *Collision
}

// Install builds a facade set from cfg and registers each facade under
// its versioned interface name. Registration failures leave the
// registry untouched beyond the names already added.
func Install(reg *registry.Registry, cfg Config) (*Set, error) {
	s := &Set{
		Physics:      NewPhysics(cfg),
		SurfaceProps: NewSurfaceProps(cfg),
		Collision:    NewCollision(cfg),
	}

	if err := reg.RegisterInstance(physics.PhysicsVersion, s.Physics); err != nil {
		return nil, err
	}
	if err := reg.RegisterInstance(physics.SurfacePropsVersion, s.SurfaceProps); err != nil {
		return nil, err
	}
	if err := reg.RegisterInstance(physics.CollisionVersion, s.Collision); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases every facade and returns the first error.
func (s *Set) Close(ctx context.Context) error {
	var firstErr error
	for _, c := range []interface{ Close(context.Context) error }{
		s.Physics, s.SurfaceProps, s.Collision,
	} {
		if err := c.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
