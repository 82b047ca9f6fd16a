package wasmmod

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

// envDelegate drives a guest VoltPhysics031 table. Environments, pair
// hashes and collision sets it hands out are u64 handles minted by the
// guest; the delegate types below carry them back in.
type envDelegate struct {
	m     *Module
	token uint32
}

func (d *envDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return d.m.call(ctx, physics.PhysicsVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *envDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return d.m.callOne(ctx, physics.PhysicsVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *envDelegate) Connect(ctx context.Context, factory physics.Factory) error {
	if factory == nil {
		return errors.InvalidInput(errors.PhaseForward, "nil factory")
	}
	prev := d.m.currentFactory()
	d.m.setFactory(factory)
	if _, err := d.call(ctx, "physics-connect"); err != nil {
		d.m.setFactory(prev)
		return err
	}
	return nil
}

func (d *envDelegate) Disconnect(ctx context.Context) error {
	if _, err := d.call(ctx, "physics-disconnect"); err != nil {
		return err
	}
	d.m.setFactory(nil)
	return nil
}

func (d *envDelegate) Init(ctx context.Context) error {
	code, err := d.callOne(ctx, "physics-init")
	if err != nil {
		return err
	}
	if uint32(code) != 0 {
		return errors.Trap(physics.PhysicsVersion, "physics-init",
			fmt.Errorf("init returned code %d", uint32(code)))
	}
	return nil
}

func (d *envDelegate) Shutdown(ctx context.Context) error {
	_, err := d.call(ctx, "physics-shutdown")
	return err
}

func (d *envDelegate) QueryInterface(ctx context.Context, name string) (any, error) {
	namePtr, err := d.m.allocString(ctx, name)
	if err != nil {
		return nil, err
	}
	defer d.m.free(ctx, namePtr, uint32(len(name)))

	token, err := d.callOne(ctx, "physics-query-interface", uint64(namePtr), uint64(len(name)))
	if err != nil {
		return nil, err
	}
	if uint32(token) == 0 {
		return nil, nil
	}
	return d.m.wrapToken(name, uint32(token)), nil
}

func (d *envDelegate) CreateEnvironment(ctx context.Context) (physics.Environment, error) {
	h, err := d.callOne(ctx, "physics-create-environment")
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, d.m.nullHandle(physics.PhysicsVersion, "physics-create-environment")
	}
	return &environmentDelegate{m: d.m, handle: h}, nil
}

func (d *envDelegate) DestroyEnvironment(ctx context.Context, env physics.Environment) error {
	e, ok := env.(*environmentDelegate)
	if !ok || e.m != d.m {
		return errors.InvalidInput(errors.PhaseForward, "environment not created by this module")
	}
	_, err := d.call(ctx, "physics-destroy-environment", e.handle)
	return err
}

func (d *envDelegate) ActiveEnvironmentByIndex(ctx context.Context, index int) (physics.Environment, error) {
	h, err := d.callOne(ctx, "physics-active-environment-by-index", api.EncodeI32(int32(index)))
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, nil
	}
	return &environmentDelegate{m: d.m, handle: h}, nil
}

func (d *envDelegate) CreateObjectPairHash(ctx context.Context) (physics.ObjectPairHash, error) {
	h, err := d.callOne(ctx, "physics-create-object-pair-hash")
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, d.m.nullHandle(physics.PhysicsVersion, "physics-create-object-pair-hash")
	}
	return &pairHashDelegate{m: d.m, handle: h}, nil
}

func (d *envDelegate) DestroyObjectPairHash(ctx context.Context, hash physics.ObjectPairHash) error {
	p, ok := hash.(*pairHashDelegate)
	if !ok || p.m != d.m {
		return errors.InvalidInput(errors.PhaseForward, "pair hash not created by this module")
	}
	_, err := d.call(ctx, "physics-destroy-object-pair-hash", p.handle)
	return err
}

func (d *envDelegate) FindOrCreateCollisionSet(ctx context.Context, id uint32, maxElements int) (physics.CollisionSet, error) {
	h, err := d.callOne(ctx, "physics-find-or-create-collision-set",
		uint64(id), api.EncodeI32(int32(maxElements)))
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, d.m.nullHandle(physics.PhysicsVersion, "physics-find-or-create-collision-set")
	}
	return &collisionSetDelegate{m: d.m, handle: h}, nil
}

func (d *envDelegate) FindCollisionSet(ctx context.Context, id uint32) (physics.CollisionSet, error) {
	h, err := d.callOne(ctx, "physics-find-collision-set", uint64(id))
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, nil
	}
	return &collisionSetDelegate{m: d.m, handle: h}, nil
}

func (d *envDelegate) DestroyAllCollisionSets(ctx context.Context) error {
	_, err := d.call(ctx, "physics-destroy-all-collision-sets")
	return err
}

// environmentDelegate is one guest simulation world.
type environmentDelegate struct {
	m      *Module
	handle uint64
}

func (e *environmentDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return e.m.call(ctx, physics.PhysicsVersion, export, append([]uint64{e.handle}, params...)...)
}

func (e *environmentDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return e.m.callOne(ctx, physics.PhysicsVersion, export, append([]uint64{e.handle}, params...)...)
}

func (e *environmentDelegate) SetGravity(ctx context.Context, accel physics.Vector) error {
	_, err := e.call(ctx, "environment-set-gravity",
		api.EncodeF32(accel.X), api.EncodeF32(accel.Y), api.EncodeF32(accel.Z))
	return err
}

func (e *environmentDelegate) GetGravity(ctx context.Context) (physics.Vector, error) {
	ptr, err := e.m.allocRaw(ctx, vectorSize)
	if err != nil {
		return physics.Vector{}, err
	}
	defer e.m.free(ctx, ptr, vectorSize)

	if _, err := e.call(ctx, "environment-get-gravity", uint64(ptr)); err != nil {
		return physics.Vector{}, err
	}
	b, err := e.m.memRead(ptr, vectorSize)
	if err != nil {
		return physics.Vector{}, err
	}
	return getVector(b), nil
}

func (e *environmentDelegate) SetAirDensity(ctx context.Context, density float32) error {
	_, err := e.call(ctx, "environment-set-air-density", api.EncodeF32(density))
	return err
}

func (e *environmentDelegate) GetAirDensity(ctx context.Context) (float32, error) {
	res, err := e.callOne(ctx, "environment-get-air-density")
	if err != nil {
		return 0, err
	}
	return api.DecodeF32(res), nil
}

func (e *environmentDelegate) Simulate(ctx context.Context, deltaTime float32) error {
	_, err := e.call(ctx, "environment-simulate", api.EncodeF32(deltaTime))
	return err
}

func (e *environmentDelegate) IsInSimulation(ctx context.Context) (bool, error) {
	res, err := e.callOne(ctx, "environment-is-in-simulation")
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

func (e *environmentDelegate) GetSimulationTime(ctx context.Context) (float32, error) {
	res, err := e.callOne(ctx, "environment-get-simulation-time")
	if err != nil {
		return 0, err
	}
	return api.DecodeF32(res), nil
}

func (e *environmentDelegate) SetSimulationTimestep(ctx context.Context, timestep float32) error {
	_, err := e.call(ctx, "environment-set-simulation-timestep", api.EncodeF32(timestep))
	return err
}

func (e *environmentDelegate) GetSimulationTimestep(ctx context.Context) (float32, error) {
	res, err := e.callOne(ctx, "environment-get-simulation-timestep")
	if err != nil {
		return 0, err
	}
	return api.DecodeF32(res), nil
}

func (e *environmentDelegate) ResetSimulationClock(ctx context.Context) error {
	_, err := e.call(ctx, "environment-reset-simulation-clock")
	return err
}

func (e *environmentDelegate) GetActiveObjectCount(ctx context.Context) (int, error) {
	res, err := e.callOne(ctx, "environment-get-active-object-count")
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (e *environmentDelegate) SetQuickDelete(ctx context.Context, quick bool) error {
	_, err := e.call(ctx, "environment-set-quick-delete", u32bool(quick))
	return err
}

// pairHashDelegate is a guest object-pair set.
type pairHashDelegate struct {
	m      *Module
	handle uint64
}

func (p *pairHashDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return p.m.call(ctx, physics.PhysicsVersion, export, append([]uint64{p.handle}, params...)...)
}

func (p *pairHashDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return p.m.callOne(ctx, physics.PhysicsVersion, export, append([]uint64{p.handle}, params...)...)
}

func (p *pairHashDelegate) AddObjectPair(ctx context.Context, a, b physics.ObjectRef) error {
	_, err := p.call(ctx, "pair-hash-add-object-pair", uint64(a), uint64(b))
	return err
}

func (p *pairHashDelegate) RemoveObjectPair(ctx context.Context, a, b physics.ObjectRef) error {
	_, err := p.call(ctx, "pair-hash-remove-object-pair", uint64(a), uint64(b))
	return err
}

func (p *pairHashDelegate) IsObjectPairInHash(ctx context.Context, a, b physics.ObjectRef) (bool, error) {
	res, err := p.callOne(ctx, "pair-hash-is-object-pair-in-hash", uint64(a), uint64(b))
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

func (p *pairHashDelegate) RemoveAllPairsForObject(ctx context.Context, obj physics.ObjectRef) error {
	_, err := p.call(ctx, "pair-hash-remove-all-pairs-for-object", uint64(obj))
	return err
}

func (p *pairHashDelegate) IsObjectInHash(ctx context.Context, obj physics.ObjectRef) (bool, error) {
	res, err := p.callOne(ctx, "pair-hash-is-object-in-hash", uint64(obj))
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

func (p *pairHashDelegate) GetPairCountForObject(ctx context.Context, obj physics.ObjectRef) (int, error) {
	res, err := p.callOne(ctx, "pair-hash-get-pair-count-for-object", uint64(obj))
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

// collisionSetDelegate is a guest collision-enable matrix.
type collisionSetDelegate struct {
	m      *Module
	handle uint64
}

func (c *collisionSetDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return c.m.call(ctx, physics.PhysicsVersion, export, append([]uint64{c.handle}, params...)...)
}

func (c *collisionSetDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return c.m.callOne(ctx, physics.PhysicsVersion, export, append([]uint64{c.handle}, params...)...)
}

func (c *collisionSetDelegate) EnableCollisions(ctx context.Context, i, j int) error {
	_, err := c.call(ctx, "collision-set-enable-collisions",
		api.EncodeI32(int32(i)), api.EncodeI32(int32(j)))
	return err
}

func (c *collisionSetDelegate) DisableCollisions(ctx context.Context, i, j int) error {
	_, err := c.call(ctx, "collision-set-disable-collisions",
		api.EncodeI32(int32(i)), api.EncodeI32(int32(j)))
	return err
}

func (c *collisionSetDelegate) ShouldCollide(ctx context.Context, i, j int) (bool, error) {
	res, err := c.callOne(ctx, "collision-set-should-collide",
		api.EncodeI32(int32(i)), api.EncodeI32(int32(j)))
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

var (
	_ physics.Physics        = (*envDelegate)(nil)
	_ physics.Environment    = (*environmentDelegate)(nil)
	_ physics.ObjectPairHash = (*pairHashDelegate)(nil)
	_ physics.CollisionSet   = (*collisionSetDelegate)(nil)
)
