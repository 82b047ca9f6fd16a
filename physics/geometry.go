package physics

import "context"

// PolyhedronLineRef selects one end of a polyhedron line: LineIndex picks
// the line, PointIndex (0 or 1) picks the end.
type PolyhedronLineRef struct {
	LineIndex  uint16
	PointIndex uint16
}

// PolyhedronFace is one polygon of a polyhedron. Its line references are
// Indices[FirstIndex : FirstIndex+IndexCount] in winding order.
type PolyhedronFace struct {
	Normal     Vector
	FirstIndex uint16
	IndexCount uint16
}

// Polyhedron is host-side convex geometry in indexed form. Unlike the
// opaque handles, a Polyhedron is plain data the host may build or
// inspect freely.
type Polyhedron struct {
	Vertices []Vector
	Lines    [][2]uint16
	Indices  []PolyhedronLineRef
	Faces    []PolyhedronFace
}

// ConvertConvexParams tune ConvertConvexToCollideParams.
type ConvertConvexParams struct {
	BuildOuterConvexHull      bool
	BuildDragAxisAreas        bool
	BuildOptimizedTraceTables bool
	DragAreaEpsilon           float32
	// ForcedOuterHull, when nonzero, is used as the outer hull instead
	// of building one. Ownership stays with the caller.
	ForcedOuterHull Convex
}

// DefaultConvertConvexParams mirrors the engine's defaults.
func DefaultConvertConvexParams() ConvertConvexParams {
	return ConvertConvexParams{
		BuildOuterConvexHull: true,
		DragAreaEpsilon:      0.25,
	}
}

// VCollide is a loaded collection of collision solids plus the key-value
// text block describing them. KeyValues is an opaque engine format; parse
// it with Collision.VPhysicsKeyParserCreate.
type VCollide struct {
	Solids    []Collide
	KeyValues []byte
}

// VirtualMeshList is one page of triangle data supplied by a
// VirtualMeshHandler. Indices address Verts in groups of three.
type VirtualMeshList struct {
	Verts             []Vector
	Indices           []uint16
	SurfacePropsIndex int
}

// VirtualMeshHandler supplies mesh geometry on demand. The engine calls
// it while building or querying a virtual mesh, passing back the UserData
// from VirtualMeshParams.
type VirtualMeshHandler interface {
	GetVirtualMesh(ctx context.Context, userData uint64) (VirtualMeshList, error)
}

// VirtualMeshParams configure Collision.CreateVirtualMesh.
type VirtualMeshParams struct {
	Handler        VirtualMeshHandler
	UserData       uint64
	BuildOuterHull bool
}

// ConvexInfo lets the host refine trace filtering: the engine asks it for
// the contents mask of each convex it considers, passing the game data
// set via SetConvexGameData.
type ConvexInfo interface {
	Contents(ctx context.Context, convexGameData uint32) (uint32, error)
}
