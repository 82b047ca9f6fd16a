package shim

import (
	"context"

	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/resolver"
)

// Physics forwards the engine management interface to the module's
// VoltPhysics031 delegate.
type Physics struct {
	binding *resolver.Binding[physics.Physics]
}

// NewPhysics creates a cold Physics facade. The module loads on the
// first forwarded call.
func NewPhysics(cfg Config) *Physics {
	return &Physics{
		binding: resolver.NewBinding[physics.Physics](resolver.Config{
			Loader: cfg.Loader,
			Path:   cfg.modulePath(),
			Name:   physics.PhysicsVersion,
			Logger: cfg.logger(),
		}),
	}
}

// Binding exposes the underlying binding for inspection.
func (p *Physics) Binding() *resolver.Binding[physics.Physics] { return p.binding }

// Close releases the facade and its module.
func (p *Physics) Close(ctx context.Context) error {
	return p.binding.Close(ctx)
}

func (p *Physics) Connect(ctx context.Context, factory physics.Factory) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.Connect(ctx, factory)
}

func (p *Physics) Disconnect(ctx context.Context) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.Disconnect(ctx)
}

func (p *Physics) Init(ctx context.Context) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.Init(ctx)
}

func (p *Physics) Shutdown(ctx context.Context) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.Shutdown(ctx)
}

func (p *Physics) QueryInterface(ctx context.Context, name string) (any, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.QueryInterface(ctx, name)
}

func (p *Physics) CreateEnvironment(ctx context.Context) (physics.Environment, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.CreateEnvironment(ctx)
}

func (p *Physics) DestroyEnvironment(ctx context.Context, env physics.Environment) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.DestroyEnvironment(ctx, env)
}

func (p *Physics) ActiveEnvironmentByIndex(ctx context.Context, index int) (physics.Environment, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.ActiveEnvironmentByIndex(ctx, index)
}

func (p *Physics) CreateObjectPairHash(ctx context.Context) (physics.ObjectPairHash, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.CreateObjectPairHash(ctx)
}

func (p *Physics) DestroyObjectPairHash(ctx context.Context, hash physics.ObjectPairHash) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.DestroyObjectPairHash(ctx, hash)
}

func (p *Physics) FindOrCreateCollisionSet(ctx context.Context, id uint32, maxElements int) (physics.CollisionSet, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.FindOrCreateCollisionSet(ctx, id, maxElements)
}

func (p *Physics) FindCollisionSet(ctx context.Context, id uint32) (physics.CollisionSet, error) {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.FindCollisionSet(ctx, id)
}

func (p *Physics) DestroyAllCollisionSets(ctx context.Context) error {
	d, err := p.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.DestroyAllCollisionSets(ctx)
}

var _ physics.Physics = (*Physics)(nil)
