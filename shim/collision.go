package shim

import (
	"context"

	"go.uber.org/zap"

	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/resolver"
)

// Collision forwards the collision and geometry interface to the
// module's VoltCollision007 delegate. Every call logs an entry event
// at debug level before forwarding.
type Collision struct {
	binding *resolver.Binding[physics.Collision]
	log     *zap.Logger
}

// NewCollision creates a cold Collision facade.
func NewCollision(cfg Config) *Collision {
	log := cfg.logger()
	return &Collision{
		binding: resolver.NewBinding[physics.Collision](resolver.Config{
			Loader: cfg.Loader,
			Path:   cfg.modulePath(),
			Name:   physics.CollisionVersion,
			Logger: log,
		}),
		log: log,
	}
}

// Binding exposes the underlying binding for inspection.
func (c *Collision) Binding() *resolver.Binding[physics.Collision] { return c.binding }

// Close releases the facade and its module.
func (c *Collision) Close(ctx context.Context) error {
	return c.binding.Close(ctx)
}

func (c *Collision) trace(op string) {
	if ce := c.log.Check(zap.DebugLevel, "entering"); ce != nil {
		ce.Write(
			zap.String("interface", physics.CollisionVersion),
			zap.String("op", op),
		)
	}
}

func (c *Collision) ConvexFromVerts(ctx context.Context, verts []physics.Vector) (physics.Convex, error) {
	c.trace("ConvexFromVerts")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvexFromVerts(ctx, verts)
}

func (c *Collision) ConvexFromPlanes(ctx context.Context, planes []physics.Plane, mergeDistance float32) (physics.Convex, error) {
	c.trace("ConvexFromPlanes")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvexFromPlanes(ctx, planes, mergeDistance)
}

func (c *Collision) ConvexVolume(ctx context.Context, convex physics.Convex) (float32, error) {
	c.trace("ConvexVolume")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvexVolume(ctx, convex)
}

func (c *Collision) ConvexSurfaceArea(ctx context.Context, convex physics.Convex) (float32, error) {
	c.trace("ConvexSurfaceArea")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvexSurfaceArea(ctx, convex)
}

func (c *Collision) SetConvexGameData(ctx context.Context, convex physics.Convex, gameData uint32) error {
	c.trace("SetConvexGameData")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.SetConvexGameData(ctx, convex, gameData)
}

func (c *Collision) ConvexFree(ctx context.Context, convex physics.Convex) error {
	c.trace("ConvexFree")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.ConvexFree(ctx, convex)
}

func (c *Collision) BBoxToConvex(ctx context.Context, mins, maxs physics.Vector) (physics.Convex, error) {
	c.trace("BBoxToConvex")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.BBoxToConvex(ctx, mins, maxs)
}

func (c *Collision) ConvexFromConvexPolyhedron(ctx context.Context, poly physics.Polyhedron) (physics.Convex, error) {
	c.trace("ConvexFromConvexPolyhedron")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvexFromConvexPolyhedron(ctx, poly)
}

func (c *Collision) ConvexesFromConvexPolygon(ctx context.Context, polyNormal physics.Vector, points []physics.Vector) ([]physics.Convex, error) {
	c.trace("ConvexesFromConvexPolygon")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.ConvexesFromConvexPolygon(ctx, polyNormal, points)
}

func (c *Collision) PolysoupCreate(ctx context.Context) (physics.Polysoup, error) {
	c.trace("PolysoupCreate")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.PolysoupCreate(ctx)
}

func (c *Collision) PolysoupDestroy(ctx context.Context, soup physics.Polysoup) error {
	c.trace("PolysoupDestroy")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.PolysoupDestroy(ctx, soup)
}

func (c *Collision) PolysoupAddTriangle(ctx context.Context, soup physics.Polysoup, a, b, tri physics.Vector, materialIndex int) error {
	c.trace("PolysoupAddTriangle")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.PolysoupAddTriangle(ctx, soup, a, b, tri, materialIndex)
}

func (c *Collision) ConvertPolysoupToCollide(ctx context.Context, soup physics.Polysoup, useMOPP bool) (physics.Collide, error) {
	c.trace("ConvertPolysoupToCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvertPolysoupToCollide(ctx, soup, useMOPP)
}

func (c *Collision) ConvertConvexToCollide(ctx context.Context, convexes []physics.Convex) (physics.Collide, error) {
	c.trace("ConvertConvexToCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvertConvexToCollide(ctx, convexes)
}

func (c *Collision) ConvertConvexToCollideParams(ctx context.Context, convexes []physics.Convex, params physics.ConvertConvexParams) (physics.Collide, error) {
	c.trace("ConvertConvexToCollideParams")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ConvertConvexToCollideParams(ctx, convexes, params)
}

func (c *Collision) DestroyCollide(ctx context.Context, collide physics.Collide) error {
	c.trace("DestroyCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.DestroyCollide(ctx, collide)
}

func (c *Collision) CollideSize(ctx context.Context, collide physics.Collide) (int, error) {
	c.trace("CollideSize")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CollideSize(ctx, collide)
}

func (c *Collision) CollideWrite(ctx context.Context, collide physics.Collide, swap bool) ([]byte, error) {
	c.trace("CollideWrite")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.CollideWrite(ctx, collide, swap)
}

func (c *Collision) UnserializeCollide(ctx context.Context, data []byte, index int) (physics.Collide, error) {
	c.trace("UnserializeCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.UnserializeCollide(ctx, data, index)
}

func (c *Collision) CollideVolume(ctx context.Context, collide physics.Collide) (float32, error) {
	c.trace("CollideVolume")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CollideVolume(ctx, collide)
}

func (c *Collision) CollideSurfaceArea(ctx context.Context, collide physics.Collide) (float32, error) {
	c.trace("CollideSurfaceArea")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CollideSurfaceArea(ctx, collide)
}

func (c *Collision) CollideGetExtent(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle, direction physics.Vector) (physics.Vector, error) {
	c.trace("CollideGetExtent")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Vector{}, err
	}
	return d.CollideGetExtent(ctx, collide, collideOrigin, collideAngles, direction)
}

func (c *Collision) CollideGetAABB(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Vector, physics.Vector, error) {
	c.trace("CollideGetAABB")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Vector{}, physics.Vector{}, err
	}
	return d.CollideGetAABB(ctx, collide, collideOrigin, collideAngles)
}

func (c *Collision) CollideGetMassCenter(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	c.trace("CollideGetMassCenter")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Vector{}, err
	}
	return d.CollideGetMassCenter(ctx, collide)
}

func (c *Collision) CollideSetMassCenter(ctx context.Context, collide physics.Collide, massCenter physics.Vector) error {
	c.trace("CollideSetMassCenter")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.CollideSetMassCenter(ctx, collide, massCenter)
}

func (c *Collision) CollideGetOrthographicAreas(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	c.trace("CollideGetOrthographicAreas")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Vector{}, err
	}
	return d.CollideGetOrthographicAreas(ctx, collide)
}

func (c *Collision) CollideSetOrthographicAreas(ctx context.Context, collide physics.Collide, areas physics.Vector) error {
	c.trace("CollideSetOrthographicAreas")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.CollideSetOrthographicAreas(ctx, collide, areas)
}

func (c *Collision) CollideIndex(ctx context.Context, collide physics.Collide) (int, error) {
	c.trace("CollideIndex")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CollideIndex(ctx, collide)
}

func (c *Collision) CollideGetRadius(ctx context.Context, collide physics.Collide) (float32, error) {
	c.trace("CollideGetRadius")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CollideGetRadius(ctx, collide)
}

func (c *Collision) BBoxToCollide(ctx context.Context, mins, maxs physics.Vector) (physics.Collide, error) {
	c.trace("BBoxToCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.BBoxToCollide(ctx, mins, maxs)
}

func (c *Collision) GetConvexesUsedInCollideable(ctx context.Context, collide physics.Collide) ([]physics.Convex, error) {
	c.trace("GetConvexesUsedInCollideable")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.GetConvexesUsedInCollideable(ctx, collide)
}

func (c *Collision) TraceBox(ctx context.Context, start, end, mins, maxs physics.Vector, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	c.trace("TraceBox")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Trace{}, err
	}
	return d.TraceBox(ctx, start, end, mins, maxs, collide, collideOrigin, collideAngles)
}

func (c *Collision) TraceBoxRay(ctx context.Context, ray physics.Ray, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	c.trace("TraceBoxRay")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Trace{}, err
	}
	return d.TraceBoxRay(ctx, ray, collide, collideOrigin, collideAngles)
}

func (c *Collision) TraceBoxRayFiltered(ctx context.Context, ray physics.Ray, contentsMask uint32, info physics.ConvexInfo, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	c.trace("TraceBoxRayFiltered")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Trace{}, err
	}
	return d.TraceBoxRayFiltered(ctx, ray, contentsMask, info, collide, collideOrigin, collideAngles)
}

func (c *Collision) TraceCollide(ctx context.Context, start, end physics.Vector, sweepCollide physics.Collide, sweepAngles physics.QAngle, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	c.trace("TraceCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Trace{}, err
	}
	return d.TraceCollide(ctx, start, end, sweepCollide, sweepAngles, collide, collideOrigin, collideAngles)
}

func (c *Collision) TraceBoxAA(ctx context.Context, ray physics.Ray, collide physics.Collide) (physics.Trace, bool, error) {
	c.trace("TraceBoxAA")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Trace{}, false, err
	}
	return d.TraceBoxAA(ctx, ray, collide)
}

func (c *Collision) IsBoxIntersectingCone(ctx context.Context, boxAbsMins, boxAbsMaxs physics.Vector, cone physics.TruncatedCone) (bool, error) {
	c.trace("IsBoxIntersectingCone")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return false, err
	}
	return d.IsBoxIntersectingCone(ctx, boxAbsMins, boxAbsMaxs, cone)
}

func (c *Collision) VCollideLoad(ctx context.Context, solidCount int, buf []byte, swap bool) (physics.VCollide, error) {
	c.trace("VCollideLoad")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.VCollide{}, err
	}
	return d.VCollideLoad(ctx, solidCount, buf, swap)
}

func (c *Collision) VCollideUnload(ctx context.Context, vc *physics.VCollide) error {
	c.trace("VCollideUnload")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.VCollideUnload(ctx, vc)
}

func (c *Collision) VCollideCheck(ctx context.Context, vc *physics.VCollide, name string) error {
	c.trace("VCollideCheck")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.VCollideCheck(ctx, vc, name)
}

func (c *Collision) DuplicateAndScale(ctx context.Context, in physics.VCollide, scale float32) (physics.VCollide, error) {
	c.trace("DuplicateAndScale")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.VCollide{}, err
	}
	return d.DuplicateAndScale(ctx, in, scale)
}

func (c *Collision) VPhysicsKeyParserCreate(ctx context.Context, keyValues []byte) (physics.KeyParser, error) {
	c.trace("VPhysicsKeyParserCreate")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.VPhysicsKeyParserCreate(ctx, keyValues)
}

func (c *Collision) VPhysicsKeyParserCreateFromCollide(ctx context.Context, vc *physics.VCollide) (physics.KeyParser, error) {
	c.trace("VPhysicsKeyParserCreateFromCollide")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.VPhysicsKeyParserCreateFromCollide(ctx, vc)
}

func (c *Collision) VPhysicsKeyParserDestroy(ctx context.Context, parser physics.KeyParser) error {
	c.trace("VPhysicsKeyParserDestroy")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.VPhysicsKeyParserDestroy(ctx, parser)
}

func (c *Collision) CreateDebugMesh(ctx context.Context, collide physics.Collide) ([]physics.Vector, error) {
	c.trace("CreateDebugMesh")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.CreateDebugMesh(ctx, collide)
}

func (c *Collision) OutputDebugInfo(ctx context.Context, collide physics.Collide) error {
	c.trace("OutputDebugInfo")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.OutputDebugInfo(ctx, collide)
}

func (c *Collision) ReadStat(ctx context.Context, statID int) (int, error) {
	c.trace("ReadStat")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.ReadStat(ctx, statID)
}

func (c *Collision) GetBBoxCacheSize(ctx context.Context) (int, error) {
	c.trace("GetBBoxCacheSize")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.GetBBoxCacheSize(ctx)
}

func (c *Collision) CreateQueryModel(ctx context.Context, collide physics.Collide) (physics.CollisionQuery, error) {
	c.trace("CreateQueryModel")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.CreateQueryModel(ctx, collide)
}

func (c *Collision) DestroyQueryModel(ctx context.Context, query physics.CollisionQuery) error {
	c.trace("DestroyQueryModel")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.DestroyQueryModel(ctx, query)
}

func (c *Collision) ThreadContextCreate(ctx context.Context) (physics.Collision, error) {
	c.trace("ThreadContextCreate")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.ThreadContextCreate(ctx)
}

func (c *Collision) ThreadContextDestroy(ctx context.Context, threadContext physics.Collision) error {
	c.trace("ThreadContextDestroy")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return err
	}
	return d.ThreadContextDestroy(ctx, threadContext)
}

func (c *Collision) CreateVirtualMesh(ctx context.Context, params physics.VirtualMeshParams) (physics.Collide, error) {
	c.trace("CreateVirtualMesh")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.CreateVirtualMesh(ctx, params)
}

func (c *Collision) SupportsVirtualMesh(ctx context.Context) (bool, error) {
	c.trace("SupportsVirtualMesh")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return false, err
	}
	return d.SupportsVirtualMesh(ctx)
}

func (c *Collision) PolyhedronFromConvex(ctx context.Context, convex physics.Convex) (physics.Polyhedron, error) {
	c.trace("PolyhedronFromConvex")
	d, err := c.binding.Delegate(ctx)
	if err != nil {
		return physics.Polyhedron{}, err
	}
	return d.PolyhedronFromConvex(ctx, convex)
}

var _ physics.Collision = (*Collision)(nil)
