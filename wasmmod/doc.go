// Package wasmmod loads engine modules compiled to WebAssembly and
// projects their exports onto the physics interfaces.
//
// An Engine wraps one wazero runtime. Modules loaded through the same
// Engine share its compilation cache and its host module. Each loaded
// module is an isolated instance with its own linear memory.
//
// # Factory Exports
//
// A module publishes one factory export per interface it implements,
// named exactly like the versioned interface name (VoltPhysics031,
// VoltSurfaceProps001, VoltCollision007). A factory takes no
// parameters and returns a u32 interface token, 0 meaning the module
// refuses the name. The token is the first parameter of every method
// export of that interface.
//
// # Method Exports
//
// Method exports are kebab-case and prefixed by the object kind:
// physics-, environment-, pair-hash-, collision-set-, surface-props-,
// collision-, collision-query-, key-parser-. Objects created by the
// module (environments, pair hashes, collision sets, collides, query
// models, key parsers) are u64 handles minted by the guest; the host
// never interprets them.
//
// Scalar parameters are passed flat: f32 via api.EncodeF32, i32 via
// api.EncodeI32, u64 raw and bool as u32 0/1. Vector and QAngle
// parameters are flattened to three f32. Larger structures, strings
// and slices travel through guest memory:
//
//   - The guest exports volt-alloc(size) -> ptr and
//     volt-free(ptr, size). The host allocates parameter buffers and
//     result slots with volt-alloc and frees them after the call, so
//     the guest must copy anything it wants to keep.
//   - Fixed-size results (Vector, Trace, surface data) use a
//     host-allocated out pointer the guest fills.
//   - Variable-size guest results (strings, debug meshes, handle
//     arrays, polyhedra) are guest-allocated and returned as a packed
//     u64, pointer in the high 32 bits and byte length in the low 32.
//     The host copies the bytes and frees the buffer. The surface
//     name inside a trace result is the exception: it points at
//     guest-owned static data and is copied without freeing.
//
// All layouts are little-endian; the layout constants in this package
// are the contract.
//
// # Host Imports
//
// The host side is the volt-host module, instantiated once per
// Engine:
//
//   - create-interface(namePtr, nameLen) -> u32 asks the factory the
//     host registered through Connect for a named interface and
//     returns an opaque value handle, 0 on failure.
//   - convex-contents(infoID, gameData) -> u32 queries the ConvexInfo
//     registered for a filtered trace.
//   - virtual-mesh(handlerID, userData, vertsPtr, maxVerts,
//     indicesPtr, maxIndices, outPtr) -> u32 fills guest-allocated
//     buffers from a VirtualMeshHandler and returns 0 on success. The
//     guest allocates the buffers up front so the callback never
//     re-enters the guest allocator.
//
// Guest traps surface as forward errors with kind trap. A missing
// method export is a forward error with kind not_found; the module
// stays usable for its other methods.
package wasmmod
