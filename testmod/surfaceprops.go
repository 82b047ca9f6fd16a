package testmod

import (
	"context"

	"github.com/voltworks/volt-shim/physics"
)

// StubSurfaceProps is a recording physics.SurfaceProps.
type StubSurfaceProps struct {
	recorder

	Err error

	ParseResult int
	Count       int
	Index       int
	Density     float32
	Thickness   float32
	Friction    float32
	Elasticity  float32
	Data        physics.SurfaceData
	Str         string
	PropName    string
	Params      physics.SurfacePhysicsParams

	LastFilename    string
	LastText        string
	LastName        string
	LastIndexArg    int
	LastStringIndex physics.StringTableIndex
	LastTable       []int32
}

func (s *StubSurfaceProps) ParseSurfaceData(ctx context.Context, filename, text string) (int, error) {
	s.record("ParseSurfaceData")
	s.LastFilename = filename
	s.LastText = text
	return s.ParseResult, s.Err
}

func (s *StubSurfaceProps) SurfacePropCount(ctx context.Context) (int, error) {
	s.record("SurfacePropCount")
	return s.Count, s.Err
}

func (s *StubSurfaceProps) GetSurfaceIndex(ctx context.Context, name string) (int, error) {
	s.record("GetSurfaceIndex")
	s.LastName = name
	return s.Index, s.Err
}

func (s *StubSurfaceProps) GetPhysicsProperties(ctx context.Context, surfaceIndex int) (density, thickness, friction, elasticity float32, err error) {
	s.record("GetPhysicsProperties")
	s.LastIndexArg = surfaceIndex
	return s.Density, s.Thickness, s.Friction, s.Elasticity, s.Err
}

func (s *StubSurfaceProps) GetSurfaceData(ctx context.Context, surfaceIndex int) (physics.SurfaceData, error) {
	s.record("GetSurfaceData")
	s.LastIndexArg = surfaceIndex
	return s.Data, s.Err
}

func (s *StubSurfaceProps) GetString(ctx context.Context, index physics.StringTableIndex) (string, error) {
	s.record("GetString")
	s.LastStringIndex = index
	return s.Str, s.Err
}

func (s *StubSurfaceProps) GetPropName(ctx context.Context, surfaceIndex int) (string, error) {
	s.record("GetPropName")
	s.LastIndexArg = surfaceIndex
	return s.PropName, s.Err
}

func (s *StubSurfaceProps) GetPhysicsParameters(ctx context.Context, surfaceIndex int) (physics.SurfacePhysicsParams, error) {
	s.record("GetPhysicsParameters")
	s.LastIndexArg = surfaceIndex
	return s.Params, s.Err
}

func (s *StubSurfaceProps) SetWorldMaterialIndexTable(ctx context.Context, table []int32) error {
	s.record("SetWorldMaterialIndexTable")
	s.LastTable = table
	return s.Err
}

var _ physics.SurfaceProps = (*StubSurfaceProps)(nil)
