package shim

import (
	"context"

	"go.uber.org/zap"

	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/resolver"
)

// SurfaceProps forwards the surface property interface to the module's
// VoltSurfaceProps001 delegate. Every call logs an entry event at
// debug level before forwarding.
type SurfaceProps struct {
	binding *resolver.Binding[physics.SurfaceProps]
	log     *zap.Logger
}

// NewSurfaceProps creates a cold SurfaceProps facade.
func NewSurfaceProps(cfg Config) *SurfaceProps {
	log := cfg.logger()
	return &SurfaceProps{
		binding: resolver.NewBinding[physics.SurfaceProps](resolver.Config{
			Loader: cfg.Loader,
			Path:   cfg.modulePath(),
			Name:   physics.SurfacePropsVersion,
			Logger: log,
		}),
		log: log,
	}
}

// Binding exposes the underlying binding for inspection.
func (s *SurfaceProps) Binding() *resolver.Binding[physics.SurfaceProps] { return s.binding }

// Close releases the facade and its module.
func (s *SurfaceProps) Close(ctx context.Context) error {
	return s.binding.Close(ctx)
}

func (s *SurfaceProps) trace(op string) {
	if ce := s.log.Check(zap.DebugLevel, "entering"); ce != nil {
		ce.Write(
			zap.String("interface", physics.SurfacePropsVersion),
			zap.String("op", op),
		)
	}
}

func (s *SurfaceProps) ParseSurfaceData(ctx context.Context, filename, text string) (int, error) {
	s.trace("ParseSurfaceData")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ParseSurfaceData(ctx, filename, text)
}

func (s *SurfaceProps) SurfacePropCount(ctx context.Context) (int, error) {
	s.trace("SurfacePropCount")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.SurfacePropCount(ctx)
}

func (s *SurfaceProps) GetSurfaceIndex(ctx context.Context, name string) (int, error) {
	s.trace("GetSurfaceIndex")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.GetSurfaceIndex(ctx, name)
}

func (s *SurfaceProps) GetPhysicsProperties(ctx context.Context, surfaceIndex int) (density, thickness, friction, elasticity float32, err error) {
	s.trace("GetPhysicsProperties")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return d.GetPhysicsProperties(ctx, surfaceIndex)
}

func (s *SurfaceProps) GetSurfaceData(ctx context.Context, surfaceIndex int) (physics.SurfaceData, error) {
	s.trace("GetSurfaceData")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return physics.SurfaceData{}, err
	}
	return d.GetSurfaceData(ctx, surfaceIndex)
}

func (s *SurfaceProps) GetString(ctx context.Context, index physics.StringTableIndex) (string, error) {
	s.trace("GetString")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return "", err
	}
	return d.GetString(ctx, index)
}

func (s *SurfaceProps) GetPropName(ctx context.Context, surfaceIndex int) (string, error) {
	s.trace("GetPropName")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return "", err
	}
	return d.GetPropName(ctx, surfaceIndex)
}

func (s *SurfaceProps) GetPhysicsParameters(ctx context.Context, surfaceIndex int) (physics.SurfacePhysicsParams, error) {
	s.trace("GetPhysicsParameters")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return physics.SurfacePhysicsParams{}, err
	}
	return d.GetPhysicsParameters(ctx, surfaceIndex)
}

func (s *SurfaceProps) SetWorldMaterialIndexTable(ctx context.Context, table []int32) error {
	s.trace("SetWorldMaterialIndexTable")
	d, err := s.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.SetWorldMaterialIndexTable(ctx, table)
}

var _ physics.SurfaceProps = (*SurfaceProps)(nil)
