package physics

import "context"

// Collision builds, serializes and queries collision geometry. It is the
// interface behind CollisionVersion.
//
// Collision is stateless apart from the objects its handles refer to, but
// implementations may keep per-thread scratch space; callers that trace
// from several goroutines should give each its own context from
// ThreadContextCreate.
type Collision interface {
	// ConvexFromVerts builds a convex hull around verts.
	ConvexFromVerts(ctx context.Context, verts []Vector) (Convex, error)
	// ConvexFromPlanes builds a convex solid bounded by planes.
	// Vertices closer than mergeDistance are merged.
	ConvexFromPlanes(ctx context.Context, planes []Plane, mergeDistance float32) (Convex, error)
	// ConvexVolume returns the volume of convex.
	ConvexVolume(ctx context.Context, convex Convex) (float32, error)
	// ConvexSurfaceArea returns the surface area of convex.
	ConvexSurfaceArea(ctx context.Context, convex Convex) (float32, error)
	// SetConvexGameData tags convex with an opaque value that comes
	// back through ConvexInfo during filtered traces.
	SetConvexGameData(ctx context.Context, convex Convex, gameData uint32) error
	// ConvexFree releases a convex that was never baked into a collide.
	ConvexFree(ctx context.Context, convex Convex) error
	// BBoxToConvex builds an axis-aligned box solid.
	BBoxToConvex(ctx context.Context, mins, maxs Vector) (Convex, error)
	// ConvexFromConvexPolyhedron builds a convex from indexed geometry.
	ConvexFromConvexPolyhedron(ctx context.Context, poly Polyhedron) (Convex, error)
	// ConvexesFromConvexPolygon extrudes a planar polygon into convexes.
	ConvexesFromConvexPolygon(ctx context.Context, polyNormal Vector, points []Vector) ([]Convex, error)

	// PolysoupCreate starts an empty triangle soup.
	PolysoupCreate(ctx context.Context) (Polysoup, error)
	// PolysoupDestroy releases a soup without converting it.
	PolysoupDestroy(ctx context.Context, soup Polysoup) error
	// PolysoupAddTriangle adds one triangle with a 7-bit material index.
	PolysoupAddTriangle(ctx context.Context, soup Polysoup, a, b, c Vector, materialIndex int) error
	// ConvertPolysoupToCollide bakes a soup into a collision model.
	ConvertPolysoupToCollide(ctx context.Context, soup Polysoup, useMOPP bool) (Collide, error)

	// ConvertConvexToCollide bakes convexes into a collision model,
	// consuming the convex handles.
	ConvertConvexToCollide(ctx context.Context, convexes []Convex) (Collide, error)
	// ConvertConvexToCollideParams is ConvertConvexToCollide with
	// explicit build parameters.
	ConvertConvexToCollideParams(ctx context.Context, convexes []Convex, params ConvertConvexParams) (Collide, error)
	// DestroyCollide releases a collision model.
	DestroyCollide(ctx context.Context, collide Collide) error

	// CollideSize returns the serialized size of collide in bytes.
	CollideSize(ctx context.Context, collide Collide) (int, error)
	// CollideWrite serializes collide, byte-swapped when swap is set.
	CollideWrite(ctx context.Context, collide Collide, swap bool) ([]byte, error)
	// UnserializeCollide rebuilds a collision model from data. The
	// index tags the model for CollideIndex.
	UnserializeCollide(ctx context.Context, data []byte, index int) (Collide, error)

	// CollideVolume returns the volume of collide.
	CollideVolume(ctx context.Context, collide Collide) (float32, error)
	// CollideSurfaceArea returns the surface area of collide.
	CollideSurfaceArea(ctx context.Context, collide Collide) (float32, error)
	// CollideGetExtent returns the farthest point of a placed collide
	// along direction.
	CollideGetExtent(ctx context.Context, collide Collide, collideOrigin Vector, collideAngles QAngle, direction Vector) (Vector, error)
	// CollideGetAABB returns the world-space bounds of a placed collide.
	CollideGetAABB(ctx context.Context, collide Collide, collideOrigin Vector, collideAngles QAngle) (mins, maxs Vector, err error)
	CollideGetMassCenter(ctx context.Context, collide Collide) (Vector, error)
	CollideSetMassCenter(ctx context.Context, collide Collide, massCenter Vector) error
	// CollideGetOrthographicAreas returns the fractional projected
	// areas along each axis, used for drag.
	CollideGetOrthographicAreas(ctx context.Context, collide Collide) (Vector, error)
	CollideSetOrthographicAreas(ctx context.Context, collide Collide, areas Vector) error
	// CollideIndex returns the index assigned at unserialize time.
	CollideIndex(ctx context.Context, collide Collide) (int, error)
	// CollideGetRadius returns the bounding radius of collide, or a
	// negative value when the model has none cached.
	CollideGetRadius(ctx context.Context, collide Collide) (float32, error)
	// BBoxToCollide builds a collision model directly from a box.
	BBoxToCollide(ctx context.Context, mins, maxs Vector) (Collide, error)
	// GetConvexesUsedInCollideable returns the convexes inside collide.
	// The handles stay owned by the collide.
	GetConvexesUsedInCollideable(ctx context.Context, collide Collide) ([]Convex, error)

	// TraceBox sweeps an axis-aligned box from start to end against a
	// placed collide.
	TraceBox(ctx context.Context, start, end, mins, maxs Vector, collide Collide, collideOrigin Vector, collideAngles QAngle) (Trace, error)
	// TraceBoxRay sweeps a prepared ray against a placed collide.
	TraceBoxRay(ctx context.Context, ray Ray, collide Collide, collideOrigin Vector, collideAngles QAngle) (Trace, error)
	// TraceBoxRayFiltered is TraceBoxRay restricted to convexes whose
	// ConvexInfo contents intersect contentsMask.
	TraceBoxRayFiltered(ctx context.Context, ray Ray, contentsMask uint32, info ConvexInfo, collide Collide, collideOrigin Vector, collideAngles QAngle) (Trace, error)
	// TraceCollide sweeps one collision model against another.
	TraceCollide(ctx context.Context, start, end Vector, sweepCollide Collide, sweepAngles QAngle, collide Collide, collideOrigin Vector, collideAngles QAngle) (Trace, error)
	// TraceBoxAA sweeps ray against an unplaced collide on the fast
	// axis-aligned path. The bool reports whether anything was hit.
	TraceBoxAA(ctx context.Context, ray Ray, collide Collide) (Trace, bool, error)
	// IsBoxIntersectingCone tests a world-space box against a
	// truncated cone.
	IsBoxIntersectingCone(ctx context.Context, boxAbsMins, boxAbsMaxs Vector, cone TruncatedCone) (bool, error)

	// VCollideLoad parses a serialized solid collection. solidCount
	// says how many solids buf holds.
	VCollideLoad(ctx context.Context, solidCount int, buf []byte, swap bool) (VCollide, error)
	// VCollideUnload destroys the solids of vc and clears it.
	VCollideUnload(ctx context.Context, vc *VCollide) error
	// VCollideCheck runs consistency checks on vc, reporting under name.
	VCollideCheck(ctx context.Context, vc *VCollide, name string) error
	// DuplicateAndScale returns a copy of in with geometry scaled
	// uniformly by scale.
	DuplicateAndScale(ctx context.Context, in VCollide, scale float32) (VCollide, error)

	// VPhysicsKeyParserCreate opens a parser over key-value text.
	VPhysicsKeyParserCreate(ctx context.Context, keyValues []byte) (KeyParser, error)
	// VPhysicsKeyParserCreateFromCollide opens a parser over the
	// key-value block of a loaded collection.
	VPhysicsKeyParserCreateFromCollide(ctx context.Context, vc *VCollide) (KeyParser, error)
	// VPhysicsKeyParserDestroy releases parser.
	VPhysicsKeyParserDestroy(ctx context.Context, parser KeyParser) error

	// CreateDebugMesh returns collide triangulated for rendering, three
	// vertices per triangle.
	CreateDebugMesh(ctx context.Context, collide Collide) ([]Vector, error)
	// OutputDebugInfo dumps collide statistics to the engine log.
	OutputDebugInfo(ctx context.Context, collide Collide) error
	// ReadStat reads an engine-defined performance counter.
	ReadStat(ctx context.Context, statID int) (int, error)
	// GetBBoxCacheSize returns the bytes held by the box-collide cache.
	GetBBoxCacheSize(ctx context.Context) (int, error)

	// CreateQueryModel opens per-triangle access to collide.
	CreateQueryModel(ctx context.Context, collide Collide) (CollisionQuery, error)
	// DestroyQueryModel releases query.
	DestroyQueryModel(ctx context.Context, query CollisionQuery) error

	// ThreadContextCreate returns an independent Collision for use on
	// another goroutine.
	ThreadContextCreate(ctx context.Context) (Collision, error)
	// ThreadContextDestroy releases a thread context.
	ThreadContextDestroy(ctx context.Context, threadContext Collision) error

	// CreateVirtualMesh builds a collision model whose triangles are
	// pulled from params.Handler on demand.
	CreateVirtualMesh(ctx context.Context, params VirtualMeshParams) (Collide, error)
	// SupportsVirtualMesh reports whether this build implements
	// virtual meshes.
	SupportsVirtualMesh(ctx context.Context) (bool, error)

	// PolyhedronFromConvex exports convex as indexed geometry.
	PolyhedronFromConvex(ctx context.Context, convex Convex) (Polyhedron, error)
}

// CollisionQuery gives per-triangle access to a collision model while a
// query model is open on it.
type CollisionQuery interface {
	ConvexCount(ctx context.Context) (int, error)
	TriangleCount(ctx context.Context, convexIndex int) (int, error)
	GetGameData(ctx context.Context, convexIndex int) (uint32, error)
	GetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int) ([3]Vector, error)
	SetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int, verts [3]Vector) error
	GetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex int) (int, error)
	SetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex, materialIndex int) error
}

// KeyParser walks the key-value blocks of a solid collection. Blocks are
// visited in file order; call SkipBlock to advance past the current one.
type KeyParser interface {
	GetCurrentBlockName(ctx context.Context) (string, error)
	Finished(ctx context.Context) (bool, error)
	SkipBlock(ctx context.Context) error
}
