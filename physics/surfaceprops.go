package physics

import "context"

// SurfaceProps answers surface-property queries. It is the interface
// behind SurfacePropsVersion.
//
// Surface indexes are positions in the engine's material table, filled by
// ParseSurfaceData. Index 0 is the default material.
type SurfaceProps interface {
	// ParseSurfaceData feeds a script of surface definitions to the
	// engine and returns the number of surfaces now in the table.
	// The filename is used for diagnostics only.
	ParseSurfaceData(ctx context.Context, filename, text string) (int, error)
	// SurfacePropCount returns the number of surfaces in the table.
	SurfacePropCount(ctx context.Context) (int, error)

	// GetSurfaceIndex returns the table index of the named surface, or
	// a negative index when the name is unknown.
	GetSurfaceIndex(ctx context.Context, name string) (int, error)
	// GetPhysicsProperties returns the simulation basics of a surface.
	GetPhysicsProperties(ctx context.Context, surfaceIndex int) (density, thickness, friction, elasticity float32, err error)
	// GetSurfaceData returns the full property sheet of a surface.
	GetSurfaceData(ctx context.Context, surfaceIndex int) (SurfaceData, error)
	// GetString resolves a sound string-table index to text.
	GetString(ctx context.Context, index StringTableIndex) (string, error)
	// GetPropName returns the name of the surface at surfaceIndex.
	GetPropName(ctx context.Context, surfaceIndex int) (string, error)
	// GetPhysicsParameters returns the physics block of a surface.
	GetPhysicsParameters(ctx context.Context, surfaceIndex int) (SurfacePhysicsParams, error)

	// SetWorldMaterialIndexTable installs the map-material remap table.
	SetWorldMaterialIndexTable(ctx context.Context, table []int32) error
}
