// Package physics declares the interface surfaces of the Volt physics
// engine. The shim forwards these interfaces; concrete implementations
// live inside loaded engine modules.
//
// # Conventions
//
// Every operation takes a context.Context and returns an error alongside
// its results. Delegates live across a module boundary, so any call can
// fail or block; the context covers cancellation of the underlying module
// call where the backend supports it.
//
// Units, coordinate systems and angle conventions are defined by the
// engine and pass through the shim unreinterpreted. Angles are in
// degrees.
//
// # Ownership
//
// Convex, Collide and Polysoup are opaque handles to objects owned by the
// module that produced them. They are only meaningful to that module and
// must be released through the matching destroy operation before the
// module is unloaded. Objects returned as interfaces (Environment,
// CollisionQuery, KeyParser and friends) follow the same rule.
//
// # Versioned Names
//
// Engine modules export one factory per interface, keyed by the versioned
// interface name. The shim looks delegates up with CreateInterface using
// the constants PhysicsVersion, SurfacePropsVersion and CollisionVersion.
package physics
