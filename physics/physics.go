package physics

import "context"

// Physics manages engine lifecycle and simulation environments. It is the
// interface behind PhysicsVersion.
type Physics interface {
	// Connect hands the engine a factory for the host interfaces it
	// depends on. Call it before Init.
	Connect(ctx context.Context, factory Factory) error
	// Disconnect releases the connection made by Connect.
	Disconnect(ctx context.Context) error
	// Init prepares the engine for simulation.
	Init(ctx context.Context) error
	// Shutdown tears the engine down. Environments must be destroyed
	// first.
	Shutdown(ctx context.Context) error
	// QueryInterface resolves another versioned interface of the same
	// module.
	QueryInterface(ctx context.Context, name string) (any, error)

	// CreateEnvironment makes a new simulation world.
	CreateEnvironment(ctx context.Context) (Environment, error)
	// DestroyEnvironment destroys env and everything simulated in it.
	DestroyEnvironment(ctx context.Context, env Environment) error
	// ActiveEnvironmentByIndex returns the index-th live environment,
	// or nil when index is out of range.
	ActiveEnvironmentByIndex(ctx context.Context, index int) (Environment, error)

	// CreateObjectPairHash makes an empty object-pair set.
	CreateObjectPairHash(ctx context.Context) (ObjectPairHash, error)
	// DestroyObjectPairHash destroys hash.
	DestroyObjectPairHash(ctx context.Context, hash ObjectPairHash) error

	// FindOrCreateCollisionSet returns the collision set registered
	// under id, creating it sized for maxElements on first use.
	FindOrCreateCollisionSet(ctx context.Context, id uint32, maxElements int) (CollisionSet, error)
	// FindCollisionSet returns the collision set registered under id,
	// or nil when none exists.
	FindCollisionSet(ctx context.Context, id uint32) (CollisionSet, error)
	// DestroyAllCollisionSets destroys every collision set.
	DestroyAllCollisionSets(ctx context.Context) error
}

// Environment is one simulation world owned by an engine module.
type Environment interface {
	SetGravity(ctx context.Context, accel Vector) error
	GetGravity(ctx context.Context) (Vector, error)

	SetAirDensity(ctx context.Context, density float32) error
	GetAirDensity(ctx context.Context) (float32, error)

	// Simulate advances the world by deltaTime seconds.
	Simulate(ctx context.Context, deltaTime float32) error
	// IsInSimulation reports whether Simulate is currently running.
	IsInSimulation(ctx context.Context) (bool, error)
	// GetSimulationTime returns the total simulated seconds.
	GetSimulationTime(ctx context.Context) (float32, error)
	SetSimulationTimestep(ctx context.Context, timestep float32) error
	GetSimulationTimestep(ctx context.Context) (float32, error)
	// ResetSimulationClock rewinds the simulation clock to zero.
	ResetSimulationClock(ctx context.Context) error

	// GetActiveObjectCount returns the number of awake objects.
	GetActiveObjectCount(ctx context.Context) (int, error)

	// SetQuickDelete trades teardown accuracy for speed. Enable it only
	// when the whole environment is about to be destroyed.
	SetQuickDelete(ctx context.Context, quick bool) error
}

// ObjectPairHash is a set of unordered object pairs, used to suppress
// collisions between specific objects.
type ObjectPairHash interface {
	AddObjectPair(ctx context.Context, a, b ObjectRef) error
	RemoveObjectPair(ctx context.Context, a, b ObjectRef) error
	IsObjectPairInHash(ctx context.Context, a, b ObjectRef) (bool, error)
	RemoveAllPairsForObject(ctx context.Context, obj ObjectRef) error
	IsObjectInHash(ctx context.Context, obj ObjectRef) (bool, error)
	GetPairCountForObject(ctx context.Context, obj ObjectRef) (int, error)
}

// CollisionSet is a small matrix of per-index collision enables, indexed
// 0..maxElements-1 as sized at creation.
type CollisionSet interface {
	EnableCollisions(ctx context.Context, i, j int) error
	DisableCollisions(ctx context.Context, i, j int) error
	ShouldCollide(ctx context.Context, i, j int) (bool, error)
}
