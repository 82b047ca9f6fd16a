package physics

// Versioned interface names exported by Volt engine modules. The trailing
// digits change only when the method surface changes incompatibly.
const (
	PhysicsVersion      = "VoltPhysics031"
	SurfacePropsVersion = "VoltSurfaceProps001"
	CollisionVersion    = "VoltCollision007"
)

// Factory produces interface delegates by versioned name. It is the
// exchange currency between modules: the shim resolves engine interfaces
// through a module's factory, and Physics.Connect hands the engine a
// factory for the interfaces it needs from the host.
type Factory func(name string) (any, error)
