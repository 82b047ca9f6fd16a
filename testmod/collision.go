package testmod

import (
	"context"

	"github.com/voltworks/volt-shim/physics"
)

// StubCollision is a recording physics.Collision. Producers hand out the
// canned handles below; queries return the canned values.
type StubCollision struct {
	recorder

	Err error

	NextConvex   physics.Convex
	NextCollide  physics.Collide
	NextPolysoup physics.Polysoup
	Convexes     []physics.Convex
	Volume       float32
	Area         float32
	Radius       float32
	Size         int
	Serialized   []byte
	Extent       physics.Vector
	AABBMins     physics.Vector
	AABBMaxs     physics.Vector
	MassCenter   physics.Vector
	OrthoAreas   physics.Vector
	Index        int
	TraceResult  physics.Trace
	HitAA        bool
	Intersects   bool
	VC           physics.VCollide
	Parser       physics.KeyParser
	DebugMesh    []physics.Vector
	Stat         int
	CacheSize    int
	Query        physics.CollisionQuery
	ThreadCtx    physics.Collision
	SupportsVM   bool
	Poly         physics.Polyhedron

	LastVerts         []physics.Vector
	LastPlanes        []physics.Plane
	LastMergeDistance float32
	LastConvex        physics.Convex
	LastGameData      uint32
	LastCollide       physics.Collide
	LastConvexes      []physics.Convex
	LastParams        physics.ConvertConvexParams
	LastSoup          physics.Polysoup
	LastMaterialIndex int
	LastUseMOPP       bool
	LastData          []byte
	LastUnserIndex    int
	LastSwap          bool
	LastOrigin        physics.Vector
	LastAngles        physics.QAngle
	LastDirection     physics.Vector
	LastRay           physics.Ray
	LastContentsMask  uint32
	LastInfo          physics.ConvexInfo
	LastCone          physics.TruncatedCone
	LastSolidCount    int
	LastVC            *physics.VCollide
	LastVCName        string
	LastScale         float32
	LastKeyValues     []byte
	LastParser        physics.KeyParser
	LastStatID        int
	LastQuery         physics.CollisionQuery
	LastThreadCtx     physics.Collision
	LastVMParams      physics.VirtualMeshParams
}

func (s *StubCollision) ConvexFromVerts(ctx context.Context, verts []physics.Vector) (physics.Convex, error) {
	s.record("ConvexFromVerts")
	s.LastVerts = verts
	return s.NextConvex, s.Err
}

func (s *StubCollision) ConvexFromPlanes(ctx context.Context, planes []physics.Plane, mergeDistance float32) (physics.Convex, error) {
	s.record("ConvexFromPlanes")
	s.LastPlanes = planes
	s.LastMergeDistance = mergeDistance
	return s.NextConvex, s.Err
}

func (s *StubCollision) ConvexVolume(ctx context.Context, convex physics.Convex) (float32, error) {
	s.record("ConvexVolume")
	s.LastConvex = convex
	return s.Volume, s.Err
}

func (s *StubCollision) ConvexSurfaceArea(ctx context.Context, convex physics.Convex) (float32, error) {
	s.record("ConvexSurfaceArea")
	s.LastConvex = convex
	return s.Area, s.Err
}

func (s *StubCollision) SetConvexGameData(ctx context.Context, convex physics.Convex, gameData uint32) error {
	s.record("SetConvexGameData")
	s.LastConvex = convex
	s.LastGameData = gameData
	return s.Err
}

func (s *StubCollision) ConvexFree(ctx context.Context, convex physics.Convex) error {
	s.record("ConvexFree")
	s.LastConvex = convex
	return s.Err
}

func (s *StubCollision) BBoxToConvex(ctx context.Context, mins, maxs physics.Vector) (physics.Convex, error) {
	s.record("BBoxToConvex")
	s.AABBMins = mins
	s.AABBMaxs = maxs
	return s.NextConvex, s.Err
}

func (s *StubCollision) ConvexFromConvexPolyhedron(ctx context.Context, poly physics.Polyhedron) (physics.Convex, error) {
	s.record("ConvexFromConvexPolyhedron")
	s.Poly = poly
	return s.NextConvex, s.Err
}

func (s *StubCollision) ConvexesFromConvexPolygon(ctx context.Context, polyNormal physics.Vector, points []physics.Vector) ([]physics.Convex, error) {
	s.record("ConvexesFromConvexPolygon")
	s.LastDirection = polyNormal
	s.LastVerts = points
	return s.Convexes, s.Err
}

func (s *StubCollision) PolysoupCreate(ctx context.Context) (physics.Polysoup, error) {
	s.record("PolysoupCreate")
	return s.NextPolysoup, s.Err
}

func (s *StubCollision) PolysoupDestroy(ctx context.Context, soup physics.Polysoup) error {
	s.record("PolysoupDestroy")
	s.LastSoup = soup
	return s.Err
}

func (s *StubCollision) PolysoupAddTriangle(ctx context.Context, soup physics.Polysoup, a, b, c physics.Vector, materialIndex int) error {
	s.record("PolysoupAddTriangle")
	s.LastSoup = soup
	s.LastMaterialIndex = materialIndex
	return s.Err
}

func (s *StubCollision) ConvertPolysoupToCollide(ctx context.Context, soup physics.Polysoup, useMOPP bool) (physics.Collide, error) {
	s.record("ConvertPolysoupToCollide")
	s.LastSoup = soup
	s.LastUseMOPP = useMOPP
	return s.NextCollide, s.Err
}

func (s *StubCollision) ConvertConvexToCollide(ctx context.Context, convexes []physics.Convex) (physics.Collide, error) {
	s.record("ConvertConvexToCollide")
	s.LastConvexes = convexes
	return s.NextCollide, s.Err
}

func (s *StubCollision) ConvertConvexToCollideParams(ctx context.Context, convexes []physics.Convex, params physics.ConvertConvexParams) (physics.Collide, error) {
	s.record("ConvertConvexToCollideParams")
	s.LastConvexes = convexes
	s.LastParams = params
	return s.NextCollide, s.Err
}

func (s *StubCollision) DestroyCollide(ctx context.Context, collide physics.Collide) error {
	s.record("DestroyCollide")
	s.LastCollide = collide
	return s.Err
}

func (s *StubCollision) CollideSize(ctx context.Context, collide physics.Collide) (int, error) {
	s.record("CollideSize")
	s.LastCollide = collide
	return s.Size, s.Err
}

func (s *StubCollision) CollideWrite(ctx context.Context, collide physics.Collide, swap bool) ([]byte, error) {
	s.record("CollideWrite")
	s.LastCollide = collide
	s.LastSwap = swap
	return s.Serialized, s.Err
}

func (s *StubCollision) UnserializeCollide(ctx context.Context, data []byte, index int) (physics.Collide, error) {
	s.record("UnserializeCollide")
	s.LastData = data
	s.LastUnserIndex = index
	return s.NextCollide, s.Err
}

func (s *StubCollision) CollideVolume(ctx context.Context, collide physics.Collide) (float32, error) {
	s.record("CollideVolume")
	s.LastCollide = collide
	return s.Volume, s.Err
}

func (s *StubCollision) CollideSurfaceArea(ctx context.Context, collide physics.Collide) (float32, error) {
	s.record("CollideSurfaceArea")
	s.LastCollide = collide
	return s.Area, s.Err
}

func (s *StubCollision) CollideGetExtent(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle, direction physics.Vector) (physics.Vector, error) {
	s.record("CollideGetExtent")
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	s.LastDirection = direction
	return s.Extent, s.Err
}

func (s *StubCollision) CollideGetAABB(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Vector, physics.Vector, error) {
	s.record("CollideGetAABB")
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	return s.AABBMins, s.AABBMaxs, s.Err
}

func (s *StubCollision) CollideGetMassCenter(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	s.record("CollideGetMassCenter")
	s.LastCollide = collide
	return s.MassCenter, s.Err
}

func (s *StubCollision) CollideSetMassCenter(ctx context.Context, collide physics.Collide, massCenter physics.Vector) error {
	s.record("CollideSetMassCenter")
	s.LastCollide = collide
	s.MassCenter = massCenter
	return s.Err
}

func (s *StubCollision) CollideGetOrthographicAreas(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	s.record("CollideGetOrthographicAreas")
	s.LastCollide = collide
	return s.OrthoAreas, s.Err
}

func (s *StubCollision) CollideSetOrthographicAreas(ctx context.Context, collide physics.Collide, areas physics.Vector) error {
	s.record("CollideSetOrthographicAreas")
	s.LastCollide = collide
	s.OrthoAreas = areas
	return s.Err
}

func (s *StubCollision) CollideIndex(ctx context.Context, collide physics.Collide) (int, error) {
	s.record("CollideIndex")
	s.LastCollide = collide
	return s.Index, s.Err
}

func (s *StubCollision) CollideGetRadius(ctx context.Context, collide physics.Collide) (float32, error) {
	s.record("CollideGetRadius")
	s.LastCollide = collide
	return s.Radius, s.Err
}

func (s *StubCollision) BBoxToCollide(ctx context.Context, mins, maxs physics.Vector) (physics.Collide, error) {
	s.record("BBoxToCollide")
	s.AABBMins = mins
	s.AABBMaxs = maxs
	return s.NextCollide, s.Err
}

func (s *StubCollision) GetConvexesUsedInCollideable(ctx context.Context, collide physics.Collide) ([]physics.Convex, error) {
	s.record("GetConvexesUsedInCollideable")
	s.LastCollide = collide
	return s.Convexes, s.Err
}

func (s *StubCollision) TraceBox(ctx context.Context, start, end, mins, maxs physics.Vector, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	s.record("TraceBox")
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	return s.TraceResult, s.Err
}

func (s *StubCollision) TraceBoxRay(ctx context.Context, ray physics.Ray, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	s.record("TraceBoxRay")
	s.LastRay = ray
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	return s.TraceResult, s.Err
}

func (s *StubCollision) TraceBoxRayFiltered(ctx context.Context, ray physics.Ray, contentsMask uint32, info physics.ConvexInfo, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	s.record("TraceBoxRayFiltered")
	s.LastRay = ray
	s.LastContentsMask = contentsMask
	s.LastInfo = info
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	return s.TraceResult, s.Err
}

func (s *StubCollision) TraceCollide(ctx context.Context, start, end physics.Vector, sweepCollide physics.Collide, sweepAngles physics.QAngle, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	s.record("TraceCollide")
	s.LastCollide = collide
	s.LastOrigin = collideOrigin
	s.LastAngles = collideAngles
	return s.TraceResult, s.Err
}

func (s *StubCollision) TraceBoxAA(ctx context.Context, ray physics.Ray, collide physics.Collide) (physics.Trace, bool, error) {
	s.record("TraceBoxAA")
	s.LastRay = ray
	s.LastCollide = collide
	return s.TraceResult, s.HitAA, s.Err
}

func (s *StubCollision) IsBoxIntersectingCone(ctx context.Context, boxAbsMins, boxAbsMaxs physics.Vector, cone physics.TruncatedCone) (bool, error) {
	s.record("IsBoxIntersectingCone")
	s.LastCone = cone
	return s.Intersects, s.Err
}

func (s *StubCollision) VCollideLoad(ctx context.Context, solidCount int, buf []byte, swap bool) (physics.VCollide, error) {
	s.record("VCollideLoad")
	s.LastSolidCount = solidCount
	s.LastData = buf
	s.LastSwap = swap
	return s.VC, s.Err
}

func (s *StubCollision) VCollideUnload(ctx context.Context, vc *physics.VCollide) error {
	s.record("VCollideUnload")
	s.LastVC = vc
	if s.Err == nil && vc != nil {
		vc.Solids = nil
		vc.KeyValues = nil
	}
	return s.Err
}

func (s *StubCollision) VCollideCheck(ctx context.Context, vc *physics.VCollide, name string) error {
	s.record("VCollideCheck")
	s.LastVC = vc
	s.LastVCName = name
	return s.Err
}

func (s *StubCollision) DuplicateAndScale(ctx context.Context, in physics.VCollide, scale float32) (physics.VCollide, error) {
	s.record("DuplicateAndScale")
	s.LastScale = scale
	return s.VC, s.Err
}

func (s *StubCollision) VPhysicsKeyParserCreate(ctx context.Context, keyValues []byte) (physics.KeyParser, error) {
	s.record("VPhysicsKeyParserCreate")
	s.LastKeyValues = keyValues
	return s.Parser, s.Err
}

func (s *StubCollision) VPhysicsKeyParserCreateFromCollide(ctx context.Context, vc *physics.VCollide) (physics.KeyParser, error) {
	s.record("VPhysicsKeyParserCreateFromCollide")
	s.LastVC = vc
	return s.Parser, s.Err
}

func (s *StubCollision) VPhysicsKeyParserDestroy(ctx context.Context, parser physics.KeyParser) error {
	s.record("VPhysicsKeyParserDestroy")
	s.LastParser = parser
	return s.Err
}

func (s *StubCollision) CreateDebugMesh(ctx context.Context, collide physics.Collide) ([]physics.Vector, error) {
	s.record("CreateDebugMesh")
	s.LastCollide = collide
	return s.DebugMesh, s.Err
}

func (s *StubCollision) OutputDebugInfo(ctx context.Context, collide physics.Collide) error {
	s.record("OutputDebugInfo")
	s.LastCollide = collide
	return s.Err
}

func (s *StubCollision) ReadStat(ctx context.Context, statID int) (int, error) {
	s.record("ReadStat")
	s.LastStatID = statID
	return s.Stat, s.Err
}

func (s *StubCollision) GetBBoxCacheSize(ctx context.Context) (int, error) {
	s.record("GetBBoxCacheSize")
	return s.CacheSize, s.Err
}

func (s *StubCollision) CreateQueryModel(ctx context.Context, collide physics.Collide) (physics.CollisionQuery, error) {
	s.record("CreateQueryModel")
	s.LastCollide = collide
	return s.Query, s.Err
}

func (s *StubCollision) DestroyQueryModel(ctx context.Context, query physics.CollisionQuery) error {
	s.record("DestroyQueryModel")
	s.LastQuery = query
	return s.Err
}

func (s *StubCollision) ThreadContextCreate(ctx context.Context) (physics.Collision, error) {
	s.record("ThreadContextCreate")
	return s.ThreadCtx, s.Err
}

func (s *StubCollision) ThreadContextDestroy(ctx context.Context, threadContext physics.Collision) error {
	s.record("ThreadContextDestroy")
	s.LastThreadCtx = threadContext
	return s.Err
}

func (s *StubCollision) CreateVirtualMesh(ctx context.Context, params physics.VirtualMeshParams) (physics.Collide, error) {
	s.record("CreateVirtualMesh")
	s.LastVMParams = params
	return s.NextCollide, s.Err
}

func (s *StubCollision) SupportsVirtualMesh(ctx context.Context) (bool, error) {
	s.record("SupportsVirtualMesh")
	return s.SupportsVM, s.Err
}

func (s *StubCollision) PolyhedronFromConvex(ctx context.Context, convex physics.Convex) (physics.Polyhedron, error) {
	s.record("PolyhedronFromConvex")
	s.LastConvex = convex
	return s.Poly, s.Err
}

var _ physics.Collision = (*StubCollision)(nil)

// StubCollisionQuery is a recording physics.CollisionQuery.
type StubCollisionQuery struct {
	recorder

	Err error

	Convexes  int
	Triangles int
	GameData  uint32
	Verts     [3]physics.Vector
	Material  int
}

func (s *StubCollisionQuery) ConvexCount(ctx context.Context) (int, error) {
	s.record("ConvexCount")
	return s.Convexes, s.Err
}

func (s *StubCollisionQuery) TriangleCount(ctx context.Context, convexIndex int) (int, error) {
	s.record("TriangleCount")
	return s.Triangles, s.Err
}

func (s *StubCollisionQuery) GetGameData(ctx context.Context, convexIndex int) (uint32, error) {
	s.record("GetGameData")
	return s.GameData, s.Err
}

func (s *StubCollisionQuery) GetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int) ([3]physics.Vector, error) {
	s.record("GetTriangleVerts")
	return s.Verts, s.Err
}

func (s *StubCollisionQuery) SetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int, verts [3]physics.Vector) error {
	s.record("SetTriangleVerts")
	s.Verts = verts
	return s.Err
}

func (s *StubCollisionQuery) GetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex int) (int, error) {
	s.record("GetTriangleMaterialIndex")
	return s.Material, s.Err
}

func (s *StubCollisionQuery) SetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex, materialIndex int) error {
	s.record("SetTriangleMaterialIndex")
	s.Material = materialIndex
	return s.Err
}

var _ physics.CollisionQuery = (*StubCollisionQuery)(nil)

// StubKeyParser walks a canned list of block names.
type StubKeyParser struct {
	recorder

	Err    error
	Blocks []string
	pos    int
}

func (s *StubKeyParser) GetCurrentBlockName(ctx context.Context) (string, error) {
	s.record("GetCurrentBlockName")
	if s.Err != nil {
		return "", s.Err
	}
	if s.pos >= len(s.Blocks) {
		return "", nil
	}
	return s.Blocks[s.pos], nil
}

func (s *StubKeyParser) Finished(ctx context.Context) (bool, error) {
	s.record("Finished")
	return s.pos >= len(s.Blocks), s.Err
}

func (s *StubKeyParser) SkipBlock(ctx context.Context) error {
	s.record("SkipBlock")
	if s.Err != nil {
		return s.Err
	}
	if s.pos < len(s.Blocks) {
		s.pos++
	}
	return nil
}

var _ physics.KeyParser = (*StubKeyParser)(nil)
