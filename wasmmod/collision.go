package wasmmod

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

func vecArgs(v physics.Vector) []uint64 {
	return []uint64{api.EncodeF32(v.X), api.EncodeF32(v.Y), api.EncodeF32(v.Z)}
}

func angArgs(a physics.QAngle) []uint64 {
	return []uint64{api.EncodeF32(a.Pitch), api.EncodeF32(a.Yaw), api.EncodeF32(a.Roll)}
}

// collisionDelegate drives a guest VoltCollision007 table. Thread
// contexts from ThreadContextCreate are further collisionDelegates with
// their own guest token.
type collisionDelegate struct {
	m     *Module
	token uint32
}

func (d *collisionDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return d.m.call(ctx, physics.CollisionVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *collisionDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return d.m.callOne(ctx, physics.CollisionVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *collisionDelegate) callF32(ctx context.Context, export string, params ...uint64) (float32, error) {
	res, err := d.callOne(ctx, export, params...)
	if err != nil {
		return 0, err
	}
	return api.DecodeF32(res), nil
}

func (d *collisionDelegate) callInt(ctx context.Context, export string, params ...uint64) (int, error) {
	res, err := d.callOne(ctx, export, params...)
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (d *collisionDelegate) callBool(ctx context.Context, export string, params ...uint64) (bool, error) {
	res, err := d.callOne(ctx, export, params...)
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

// callHandle is callOne for creation exports; a zero handle is an
// error.
func (d *collisionDelegate) callHandle(ctx context.Context, export string, params ...uint64) (uint64, error) {
	h, err := d.callOne(ctx, export, params...)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, d.m.nullHandle(physics.CollisionVersion, export)
	}
	return h, nil
}

// callVectorOut runs an export that fills a 12-byte vector slot.
func (d *collisionDelegate) callVectorOut(ctx context.Context, export string, params []uint64) (physics.Vector, error) {
	ptr, err := d.m.allocRaw(ctx, vectorSize)
	if err != nil {
		return physics.Vector{}, err
	}
	defer d.m.free(ctx, ptr, vectorSize)

	if _, err := d.call(ctx, export, append(params, uint64(ptr))...); err != nil {
		return physics.Vector{}, err
	}
	b, err := d.m.memRead(ptr, vectorSize)
	if err != nil {
		return physics.Vector{}, err
	}
	return getVector(b), nil
}

// callTrace runs a trace export that fills an 80-byte trace slot.
func (d *collisionDelegate) callTrace(ctx context.Context, export string, params []uint64) (physics.Trace, error) {
	outPtr, err := d.m.allocRaw(ctx, traceSize)
	if err != nil {
		return physics.Trace{}, err
	}
	defer d.m.free(ctx, outPtr, traceSize)

	if _, err := d.call(ctx, export, append(params, uint64(outPtr))...); err != nil {
		return physics.Trace{}, err
	}
	return d.m.readTraceOut(outPtr)
}

// allocSolids copies solid handles into guest memory.
func (d *collisionDelegate) allocSolids(ctx context.Context, solids []physics.Collide) (ptr, size uint32, err error) {
	handles := make([]uint64, len(solids))
	for i, s := range solids {
		handles[i] = uint64(s)
	}
	data := encodeU64s(handles)
	p, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, 0, err
	}
	return p, uint32(len(data)), nil
}

// readVCollideOut reads a guest-filled solid collection descriptor and
// copies the solid handles and key-value block out, freeing the guest
// buffers.
func (d *collisionDelegate) readVCollideOut(ctx context.Context, outPtr uint32) (physics.VCollide, error) {
	b, err := d.m.memRead(outPtr, vcollideOutSize)
	if err != nil {
		return physics.VCollide{}, err
	}
	solidsPtr := binary.LittleEndian.Uint32(b[0:])
	solidCount := binary.LittleEndian.Uint32(b[4:])
	kvPtr := binary.LittleEndian.Uint32(b[8:])
	kvLen := binary.LittleEndian.Uint32(b[12:])

	var vc physics.VCollide
	if solidCount > 0 {
		raw, err := d.m.memRead(solidsPtr, solidCount*8)
		if err != nil {
			return physics.VCollide{}, err
		}
		d.m.free(ctx, solidsPtr, solidCount*8)
		handles, err := decodeU64s(raw)
		if err != nil {
			return physics.VCollide{}, err
		}
		vc.Solids = make([]physics.Collide, len(handles))
		for i, h := range handles {
			vc.Solids[i] = physics.Collide(h)
		}
	}
	if kvLen > 0 {
		kv, err := d.m.memRead(kvPtr, kvLen)
		if err != nil {
			return physics.VCollide{}, err
		}
		d.m.free(ctx, kvPtr, kvLen)
		vc.KeyValues = kv
	}
	return vc, nil
}

func (d *collisionDelegate) ConvexFromVerts(ctx context.Context, verts []physics.Vector) (physics.Convex, error) {
	data := encodeVectors(verts)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	h, err := d.callHandle(ctx, "collision-convex-from-verts",
		uint64(ptr), uint64(len(verts)))
	if err != nil {
		return 0, err
	}
	return physics.Convex(h), nil
}

func (d *collisionDelegate) ConvexFromPlanes(ctx context.Context, planes []physics.Plane, mergeDistance float32) (physics.Convex, error) {
	data := encodePlanes(planes)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	h, err := d.callHandle(ctx, "collision-convex-from-planes",
		uint64(ptr), uint64(len(planes)), api.EncodeF32(mergeDistance))
	if err != nil {
		return 0, err
	}
	return physics.Convex(h), nil
}

func (d *collisionDelegate) ConvexVolume(ctx context.Context, convex physics.Convex) (float32, error) {
	return d.callF32(ctx, "collision-convex-volume", uint64(convex))
}

func (d *collisionDelegate) ConvexSurfaceArea(ctx context.Context, convex physics.Convex) (float32, error) {
	return d.callF32(ctx, "collision-convex-surface-area", uint64(convex))
}

func (d *collisionDelegate) SetConvexGameData(ctx context.Context, convex physics.Convex, gameData uint32) error {
	_, err := d.call(ctx, "collision-set-convex-game-data", uint64(convex), uint64(gameData))
	return err
}

func (d *collisionDelegate) ConvexFree(ctx context.Context, convex physics.Convex) error {
	_, err := d.call(ctx, "collision-convex-free", uint64(convex))
	return err
}

func (d *collisionDelegate) BBoxToConvex(ctx context.Context, mins, maxs physics.Vector) (physics.Convex, error) {
	params := append(vecArgs(mins), vecArgs(maxs)...)
	h, err := d.callHandle(ctx, "collision-bbox-to-convex", params...)
	if err != nil {
		return 0, err
	}
	return physics.Convex(h), nil
}

func (d *collisionDelegate) ConvexFromConvexPolyhedron(ctx context.Context, poly physics.Polyhedron) (physics.Convex, error) {
	data := encodePolyhedron(poly)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	h, err := d.callHandle(ctx, "collision-convex-from-polyhedron",
		uint64(ptr), uint64(len(data)))
	if err != nil {
		return 0, err
	}
	return physics.Convex(h), nil
}

func (d *collisionDelegate) ConvexesFromConvexPolygon(ctx context.Context, polyNormal physics.Vector, points []physics.Vector) ([]physics.Convex, error) {
	data := encodeVectors(points)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return nil, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	params := append(vecArgs(polyNormal), uint64(ptr), uint64(len(points)))
	packed, err := d.callOne(ctx, "collision-convexes-from-polygon", params...)
	if err != nil {
		return nil, err
	}
	raw, err := d.m.readPacked(ctx, packed)
	if err != nil || raw == nil {
		return nil, err
	}
	handles, err := decodeU64s(raw)
	if err != nil {
		return nil, err
	}
	convexes := make([]physics.Convex, len(handles))
	for i, h := range handles {
		convexes[i] = physics.Convex(h)
	}
	return convexes, nil
}

func (d *collisionDelegate) PolysoupCreate(ctx context.Context) (physics.Polysoup, error) {
	h, err := d.callHandle(ctx, "collision-polysoup-create")
	if err != nil {
		return 0, err
	}
	return physics.Polysoup(h), nil
}

func (d *collisionDelegate) PolysoupDestroy(ctx context.Context, soup physics.Polysoup) error {
	_, err := d.call(ctx, "collision-polysoup-destroy", uint64(soup))
	return err
}

func (d *collisionDelegate) PolysoupAddTriangle(ctx context.Context, soup physics.Polysoup, a, b, c physics.Vector, materialIndex int) error {
	params := []uint64{uint64(soup)}
	params = append(params, vecArgs(a)...)
	params = append(params, vecArgs(b)...)
	params = append(params, vecArgs(c)...)
	params = append(params, api.EncodeI32(int32(materialIndex)))
	_, err := d.call(ctx, "collision-polysoup-add-triangle", params...)
	return err
}

func (d *collisionDelegate) ConvertPolysoupToCollide(ctx context.Context, soup physics.Polysoup, useMOPP bool) (physics.Collide, error) {
	h, err := d.callHandle(ctx, "collision-convert-polysoup-to-collide",
		uint64(soup), u32bool(useMOPP))
	if err != nil {
		return 0, err
	}
	return physics.Collide(h), nil
}

func (d *collisionDelegate) ConvertConvexToCollide(ctx context.Context, convexes []physics.Convex) (physics.Collide, error) {
	return d.convertConvexes(ctx, "collision-convert-convex-to-collide", convexes, nil)
}

func (d *collisionDelegate) ConvertConvexToCollideParams(ctx context.Context, convexes []physics.Convex, params physics.ConvertConvexParams) (physics.Collide, error) {
	blob := encodeConvertParams(params)
	return d.convertConvexes(ctx, "collision-convert-convex-to-collide-params", convexes, blob)
}

func (d *collisionDelegate) convertConvexes(ctx context.Context, export string, convexes []physics.Convex, paramsBlob []byte) (physics.Collide, error) {
	if len(convexes) == 0 {
		return 0, errors.InvalidInput(errors.PhaseForward, "no convexes")
	}
	handles := make([]uint64, len(convexes))
	for i, c := range convexes {
		handles[i] = uint64(c)
	}
	data := encodeU64s(handles)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	callParams := []uint64{uint64(ptr), uint64(len(convexes))}
	if paramsBlob != nil {
		paramsPtr, err := d.m.allocBytes(ctx, paramsBlob)
		if err != nil {
			return 0, err
		}
		defer d.m.free(ctx, paramsPtr, uint32(len(paramsBlob)))
		callParams = append(callParams, uint64(paramsPtr))
	}

	h, err := d.callHandle(ctx, export, callParams...)
	if err != nil {
		return 0, err
	}
	return physics.Collide(h), nil
}

func (d *collisionDelegate) DestroyCollide(ctx context.Context, collide physics.Collide) error {
	_, err := d.call(ctx, "collision-destroy-collide", uint64(collide))
	return err
}

func (d *collisionDelegate) CollideSize(ctx context.Context, collide physics.Collide) (int, error) {
	return d.callInt(ctx, "collision-collide-size", uint64(collide))
}

func (d *collisionDelegate) CollideWrite(ctx context.Context, collide physics.Collide, swap bool) ([]byte, error) {
	size, err := d.CollideSize(ctx, collide)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, nil
	}

	ptr, err := d.m.allocRaw(ctx, uint32(size))
	if err != nil {
		return nil, err
	}
	defer d.m.free(ctx, ptr, uint32(size))

	res, err := d.callOne(ctx, "collision-collide-write",
		uint64(collide), uint64(ptr), uint64(size), u32bool(swap))
	if err != nil {
		return nil, err
	}
	written := api.DecodeI32(res)
	if written < 0 || int(written) > size {
		return nil, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("collide-write wrote %d of %d bytes", written, size))
	}
	return d.m.memRead(ptr, uint32(written))
}

func (d *collisionDelegate) UnserializeCollide(ctx context.Context, data []byte, index int) (physics.Collide, error) {
	if len(data) == 0 {
		return 0, errors.InvalidInput(errors.PhaseForward, "empty collide data")
	}
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	h, err := d.callHandle(ctx, "collision-unserialize-collide",
		uint64(ptr), uint64(len(data)), api.EncodeI32(int32(index)))
	if err != nil {
		return 0, err
	}
	return physics.Collide(h), nil
}

func (d *collisionDelegate) CollideVolume(ctx context.Context, collide physics.Collide) (float32, error) {
	return d.callF32(ctx, "collision-collide-volume", uint64(collide))
}

func (d *collisionDelegate) CollideSurfaceArea(ctx context.Context, collide physics.Collide) (float32, error) {
	return d.callF32(ctx, "collision-collide-surface-area", uint64(collide))
}

func (d *collisionDelegate) CollideGetExtent(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle, direction physics.Vector) (physics.Vector, error) {
	params := []uint64{uint64(collide)}
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	params = append(params, vecArgs(direction)...)
	return d.callVectorOut(ctx, "collision-collide-get-extent", params)
}

func (d *collisionDelegate) CollideGetAABB(ctx context.Context, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (mins, maxs physics.Vector, err error) {
	ptr, err := d.m.allocRaw(ctx, aabbOutSize)
	if err != nil {
		return physics.Vector{}, physics.Vector{}, err
	}
	defer d.m.free(ctx, ptr, aabbOutSize)

	params := []uint64{uint64(collide)}
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	params = append(params, uint64(ptr))
	if _, err := d.call(ctx, "collision-collide-get-aabb", params...); err != nil {
		return physics.Vector{}, physics.Vector{}, err
	}

	b, err := d.m.memRead(ptr, aabbOutSize)
	if err != nil {
		return physics.Vector{}, physics.Vector{}, err
	}
	return getVector(b[0:]), getVector(b[12:]), nil
}

func (d *collisionDelegate) CollideGetMassCenter(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	return d.callVectorOut(ctx, "collision-collide-get-mass-center", []uint64{uint64(collide)})
}

func (d *collisionDelegate) CollideSetMassCenter(ctx context.Context, collide physics.Collide, massCenter physics.Vector) error {
	params := append([]uint64{uint64(collide)}, vecArgs(massCenter)...)
	_, err := d.call(ctx, "collision-collide-set-mass-center", params...)
	return err
}

func (d *collisionDelegate) CollideGetOrthographicAreas(ctx context.Context, collide physics.Collide) (physics.Vector, error) {
	return d.callVectorOut(ctx, "collision-collide-get-orthographic-areas", []uint64{uint64(collide)})
}

func (d *collisionDelegate) CollideSetOrthographicAreas(ctx context.Context, collide physics.Collide, areas physics.Vector) error {
	params := append([]uint64{uint64(collide)}, vecArgs(areas)...)
	_, err := d.call(ctx, "collision-collide-set-orthographic-areas", params...)
	return err
}

func (d *collisionDelegate) CollideIndex(ctx context.Context, collide physics.Collide) (int, error) {
	return d.callInt(ctx, "collision-collide-index", uint64(collide))
}

func (d *collisionDelegate) CollideGetRadius(ctx context.Context, collide physics.Collide) (float32, error) {
	return d.callF32(ctx, "collision-collide-get-radius", uint64(collide))
}

func (d *collisionDelegate) BBoxToCollide(ctx context.Context, mins, maxs physics.Vector) (physics.Collide, error) {
	params := append(vecArgs(mins), vecArgs(maxs)...)
	h, err := d.callHandle(ctx, "collision-bbox-to-collide", params...)
	if err != nil {
		return 0, err
	}
	return physics.Collide(h), nil
}

func (d *collisionDelegate) GetConvexesUsedInCollideable(ctx context.Context, collide physics.Collide) ([]physics.Convex, error) {
	packed, err := d.callOne(ctx, "collision-get-convexes-used", uint64(collide))
	if err != nil {
		return nil, err
	}
	raw, err := d.m.readPacked(ctx, packed)
	if err != nil || raw == nil {
		return nil, err
	}
	handles, err := decodeU64s(raw)
	if err != nil {
		return nil, err
	}
	convexes := make([]physics.Convex, len(handles))
	for i, h := range handles {
		convexes[i] = physics.Convex(h)
	}
	return convexes, nil
}

func (d *collisionDelegate) TraceBox(ctx context.Context, start, end, mins, maxs physics.Vector, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	params := make([]uint64, 0, 20)
	params = append(params, vecArgs(start)...)
	params = append(params, vecArgs(end)...)
	params = append(params, vecArgs(mins)...)
	params = append(params, vecArgs(maxs)...)
	params = append(params, uint64(collide))
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	return d.callTrace(ctx, "collision-trace-box", params)
}

func (d *collisionDelegate) TraceBoxRay(ctx context.Context, ray physics.Ray, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	rayPtr, err := d.m.allocBytes(ctx, encodeRay(ray))
	if err != nil {
		return physics.Trace{}, err
	}
	defer d.m.free(ctx, rayPtr, raySize)

	params := []uint64{uint64(rayPtr), uint64(collide)}
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	return d.callTrace(ctx, "collision-trace-box-ray", params)
}

func (d *collisionDelegate) TraceBoxRayFiltered(ctx context.Context, ray physics.Ray, contentsMask uint32, info physics.ConvexInfo, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	if info == nil {
		return physics.Trace{}, errors.InvalidInput(errors.PhaseForward, "nil convex info")
	}
	infoID := d.m.registerConvexInfo(info)
	defer d.m.releaseConvexInfo(infoID)

	rayPtr, err := d.m.allocBytes(ctx, encodeRay(ray))
	if err != nil {
		return physics.Trace{}, err
	}
	defer d.m.free(ctx, rayPtr, raySize)

	params := []uint64{uint64(rayPtr), uint64(contentsMask), uint64(infoID), uint64(collide)}
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	return d.callTrace(ctx, "collision-trace-box-ray-filtered", params)
}

func (d *collisionDelegate) TraceCollide(ctx context.Context, start, end physics.Vector, sweepCollide physics.Collide, sweepAngles physics.QAngle, collide physics.Collide, collideOrigin physics.Vector, collideAngles physics.QAngle) (physics.Trace, error) {
	params := make([]uint64, 0, 17)
	params = append(params, vecArgs(start)...)
	params = append(params, vecArgs(end)...)
	params = append(params, uint64(sweepCollide))
	params = append(params, angArgs(sweepAngles)...)
	params = append(params, uint64(collide))
	params = append(params, vecArgs(collideOrigin)...)
	params = append(params, angArgs(collideAngles)...)
	return d.callTrace(ctx, "collision-trace-collide", params)
}

func (d *collisionDelegate) TraceBoxAA(ctx context.Context, ray physics.Ray, collide physics.Collide) (physics.Trace, bool, error) {
	rayPtr, err := d.m.allocBytes(ctx, encodeRay(ray))
	if err != nil {
		return physics.Trace{}, false, err
	}
	defer d.m.free(ctx, rayPtr, raySize)

	outPtr, err := d.m.allocRaw(ctx, traceSize)
	if err != nil {
		return physics.Trace{}, false, err
	}
	defer d.m.free(ctx, outPtr, traceSize)

	res, err := d.callOne(ctx, "collision-trace-box-aa",
		uint64(rayPtr), uint64(collide), uint64(outPtr))
	if err != nil {
		return physics.Trace{}, false, err
	}
	tr, err := d.m.readTraceOut(outPtr)
	if err != nil {
		return physics.Trace{}, false, err
	}
	return tr, uint32(res) != 0, nil
}

func (d *collisionDelegate) IsBoxIntersectingCone(ctx context.Context, boxAbsMins, boxAbsMaxs physics.Vector, cone physics.TruncatedCone) (bool, error) {
	conePtr, err := d.m.allocBytes(ctx, encodeCone(cone))
	if err != nil {
		return false, err
	}
	defer d.m.free(ctx, conePtr, coneSize)

	params := append(vecArgs(boxAbsMins), vecArgs(boxAbsMaxs)...)
	params = append(params, uint64(conePtr))
	return d.callBool(ctx, "collision-is-box-intersecting-cone", params...)
}

func (d *collisionDelegate) VCollideLoad(ctx context.Context, solidCount int, buf []byte, swap bool) (physics.VCollide, error) {
	if len(buf) == 0 {
		return physics.VCollide{}, errors.InvalidInput(errors.PhaseForward, "empty vcollide buffer")
	}
	bufPtr, err := d.m.allocBytes(ctx, buf)
	if err != nil {
		return physics.VCollide{}, err
	}
	defer d.m.free(ctx, bufPtr, uint32(len(buf)))

	outPtr, err := d.m.allocRaw(ctx, vcollideOutSize)
	if err != nil {
		return physics.VCollide{}, err
	}
	defer d.m.free(ctx, outPtr, vcollideOutSize)

	if _, err := d.call(ctx, "collision-vcollide-load",
		api.EncodeI32(int32(solidCount)), uint64(bufPtr), uint64(len(buf)),
		u32bool(swap), uint64(outPtr)); err != nil {
		return physics.VCollide{}, err
	}
	return d.readVCollideOut(ctx, outPtr)
}

func (d *collisionDelegate) VCollideUnload(ctx context.Context, vc *physics.VCollide) error {
	if vc == nil {
		return errors.InvalidInput(errors.PhaseForward, "nil vcollide")
	}
	ptr, size, err := d.allocSolids(ctx, vc.Solids)
	if err != nil {
		return err
	}
	defer d.m.free(ctx, ptr, size)

	if _, err := d.call(ctx, "collision-vcollide-unload",
		uint64(ptr), uint64(len(vc.Solids))); err != nil {
		return err
	}
	vc.Solids = nil
	vc.KeyValues = nil
	return nil
}

func (d *collisionDelegate) VCollideCheck(ctx context.Context, vc *physics.VCollide, name string) error {
	if vc == nil {
		return errors.InvalidInput(errors.PhaseForward, "nil vcollide")
	}
	ptr, size, err := d.allocSolids(ctx, vc.Solids)
	if err != nil {
		return err
	}
	defer d.m.free(ctx, ptr, size)

	namePtr, err := d.m.allocString(ctx, name)
	if err != nil {
		return err
	}
	defer d.m.free(ctx, namePtr, uint32(len(name)))

	_, err = d.call(ctx, "collision-vcollide-check",
		uint64(ptr), uint64(len(vc.Solids)), uint64(namePtr), uint64(len(name)))
	return err
}

func (d *collisionDelegate) DuplicateAndScale(ctx context.Context, in physics.VCollide, scale float32) (physics.VCollide, error) {
	solidsPtr, solidsSize, err := d.allocSolids(ctx, in.Solids)
	if err != nil {
		return physics.VCollide{}, err
	}
	defer d.m.free(ctx, solidsPtr, solidsSize)

	kvPtr, err := d.m.allocBytes(ctx, in.KeyValues)
	if err != nil {
		return physics.VCollide{}, err
	}
	defer d.m.free(ctx, kvPtr, uint32(len(in.KeyValues)))

	outPtr, err := d.m.allocRaw(ctx, vcollideOutSize)
	if err != nil {
		return physics.VCollide{}, err
	}
	defer d.m.free(ctx, outPtr, vcollideOutSize)

	if _, err := d.call(ctx, "collision-duplicate-and-scale",
		uint64(solidsPtr), uint64(len(in.Solids)),
		uint64(kvPtr), uint64(len(in.KeyValues)),
		api.EncodeF32(scale), uint64(outPtr)); err != nil {
		return physics.VCollide{}, err
	}
	return d.readVCollideOut(ctx, outPtr)
}

func (d *collisionDelegate) VPhysicsKeyParserCreate(ctx context.Context, keyValues []byte) (physics.KeyParser, error) {
	return d.keyParserCreate(ctx, "collision-key-parser-create", keyValues)
}

func (d *collisionDelegate) VPhysicsKeyParserCreateFromCollide(ctx context.Context, vc *physics.VCollide) (physics.KeyParser, error) {
	if vc == nil {
		return nil, errors.InvalidInput(errors.PhaseForward, "nil vcollide")
	}
	return d.keyParserCreate(ctx, "collision-key-parser-create-from-collide", vc.KeyValues)
}

// keyParserCreate sends the key-value text in; the guest copies what it
// needs before returning.
func (d *collisionDelegate) keyParserCreate(ctx context.Context, export string, keyValues []byte) (physics.KeyParser, error) {
	ptr, err := d.m.allocBytes(ctx, keyValues)
	if err != nil {
		return nil, err
	}
	defer d.m.free(ctx, ptr, uint32(len(keyValues)))

	h, err := d.callHandle(ctx, export, uint64(ptr), uint64(len(keyValues)))
	if err != nil {
		return nil, err
	}
	return &keyParserDelegate{m: d.m, handle: h}, nil
}

func (d *collisionDelegate) VPhysicsKeyParserDestroy(ctx context.Context, parser physics.KeyParser) error {
	p, ok := parser.(*keyParserDelegate)
	if !ok || p.m != d.m {
		return errors.InvalidInput(errors.PhaseForward, "key parser not created by this module")
	}
	_, err := d.call(ctx, "collision-key-parser-destroy", p.handle)
	return err
}

func (d *collisionDelegate) CreateDebugMesh(ctx context.Context, collide physics.Collide) ([]physics.Vector, error) {
	packed, err := d.callOne(ctx, "collision-create-debug-mesh", uint64(collide))
	if err != nil {
		return nil, err
	}
	raw, err := d.m.readPacked(ctx, packed)
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeVectors(raw)
}

func (d *collisionDelegate) OutputDebugInfo(ctx context.Context, collide physics.Collide) error {
	_, err := d.call(ctx, "collision-output-debug-info", uint64(collide))
	return err
}

func (d *collisionDelegate) ReadStat(ctx context.Context, statID int) (int, error) {
	return d.callInt(ctx, "collision-read-stat", api.EncodeI32(int32(statID)))
}

func (d *collisionDelegate) GetBBoxCacheSize(ctx context.Context) (int, error) {
	return d.callInt(ctx, "collision-get-bbox-cache-size")
}

func (d *collisionDelegate) CreateQueryModel(ctx context.Context, collide physics.Collide) (physics.CollisionQuery, error) {
	h, err := d.callHandle(ctx, "collision-create-query-model", uint64(collide))
	if err != nil {
		return nil, err
	}
	return &queryDelegate{m: d.m, handle: h}, nil
}

func (d *collisionDelegate) DestroyQueryModel(ctx context.Context, query physics.CollisionQuery) error {
	q, ok := query.(*queryDelegate)
	if !ok || q.m != d.m {
		return errors.InvalidInput(errors.PhaseForward, "query model not created by this module")
	}
	_, err := d.call(ctx, "collision-destroy-query-model", q.handle)
	return err
}

func (d *collisionDelegate) ThreadContextCreate(ctx context.Context) (physics.Collision, error) {
	h, err := d.callHandle(ctx, "collision-thread-context-create")
	if err != nil {
		return nil, err
	}
	return &collisionDelegate{m: d.m, token: uint32(h)}, nil
}

func (d *collisionDelegate) ThreadContextDestroy(ctx context.Context, threadContext physics.Collision) error {
	tc, ok := threadContext.(*collisionDelegate)
	if !ok || tc.m != d.m {
		return errors.InvalidInput(errors.PhaseForward, "thread context not created by this module")
	}
	_, err := d.call(ctx, "collision-thread-context-destroy", uint64(tc.token))
	return err
}

func (d *collisionDelegate) CreateVirtualMesh(ctx context.Context, params physics.VirtualMeshParams) (physics.Collide, error) {
	if params.Handler == nil {
		return 0, errors.InvalidInput(errors.PhaseForward, "nil mesh handler")
	}
	handlerID := d.m.registerMeshHandler(params.Handler)

	blob := encodeVirtualMeshParams(handlerID, params)
	ptr, err := d.m.allocBytes(ctx, blob)
	if err != nil {
		d.m.releaseMeshHandler(handlerID)
		return 0, err
	}
	defer d.m.free(ctx, ptr, uint32(len(blob)))

	h, err := d.callHandle(ctx, "collision-create-virtual-mesh", uint64(ptr))
	if err != nil {
		d.m.releaseMeshHandler(handlerID)
		return 0, err
	}
	return physics.Collide(h), nil
}

func (d *collisionDelegate) SupportsVirtualMesh(ctx context.Context) (bool, error) {
	return d.callBool(ctx, "collision-supports-virtual-mesh")
}

func (d *collisionDelegate) PolyhedronFromConvex(ctx context.Context, convex physics.Convex) (physics.Polyhedron, error) {
	packed, err := d.callOne(ctx, "collision-polyhedron-from-convex", uint64(convex))
	if err != nil {
		return physics.Polyhedron{}, err
	}
	if packed == 0 {
		return physics.Polyhedron{}, d.m.nullHandle(physics.CollisionVersion, "collision-polyhedron-from-convex")
	}
	raw, err := d.m.readPacked(ctx, packed)
	if err != nil {
		return physics.Polyhedron{}, err
	}
	return decodePolyhedron(raw)
}

// queryDelegate is an open guest query model.
type queryDelegate struct {
	m      *Module
	handle uint64
}

func (q *queryDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return q.m.call(ctx, physics.CollisionVersion, export, append([]uint64{q.handle}, params...)...)
}

func (q *queryDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return q.m.callOne(ctx, physics.CollisionVersion, export, append([]uint64{q.handle}, params...)...)
}

func (q *queryDelegate) ConvexCount(ctx context.Context) (int, error) {
	res, err := q.callOne(ctx, "collision-query-convex-count")
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (q *queryDelegate) TriangleCount(ctx context.Context, convexIndex int) (int, error) {
	res, err := q.callOne(ctx, "collision-query-triangle-count", api.EncodeI32(int32(convexIndex)))
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (q *queryDelegate) GetGameData(ctx context.Context, convexIndex int) (uint32, error) {
	res, err := q.callOne(ctx, "collision-query-get-game-data", api.EncodeI32(int32(convexIndex)))
	if err != nil {
		return 0, err
	}
	return uint32(res), nil
}

func (q *queryDelegate) GetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int) ([3]physics.Vector, error) {
	ptr, err := q.m.allocRaw(ctx, triangleVertsSize)
	if err != nil {
		return [3]physics.Vector{}, err
	}
	defer q.m.free(ctx, ptr, triangleVertsSize)

	if _, err := q.call(ctx, "collision-query-get-triangle-verts",
		api.EncodeI32(int32(convexIndex)), api.EncodeI32(int32(triangleIndex)),
		uint64(ptr)); err != nil {
		return [3]physics.Vector{}, err
	}
	b, err := q.m.memRead(ptr, triangleVertsSize)
	if err != nil {
		return [3]physics.Vector{}, err
	}
	return [3]physics.Vector{getVector(b[0:]), getVector(b[12:]), getVector(b[24:])}, nil
}

func (q *queryDelegate) SetTriangleVerts(ctx context.Context, convexIndex, triangleIndex int, verts [3]physics.Vector) error {
	ptr, err := q.m.allocBytes(ctx, encodeVectors(verts[:]))
	if err != nil {
		return err
	}
	defer q.m.free(ctx, ptr, triangleVertsSize)

	_, err = q.call(ctx, "collision-query-set-triangle-verts",
		api.EncodeI32(int32(convexIndex)), api.EncodeI32(int32(triangleIndex)),
		uint64(ptr))
	return err
}

func (q *queryDelegate) GetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex int) (int, error) {
	res, err := q.callOne(ctx, "collision-query-get-triangle-material",
		api.EncodeI32(int32(convexIndex)), api.EncodeI32(int32(triangleIndex)))
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (q *queryDelegate) SetTriangleMaterialIndex(ctx context.Context, convexIndex, triangleIndex, materialIndex int) error {
	_, err := q.call(ctx, "collision-query-set-triangle-material",
		api.EncodeI32(int32(convexIndex)), api.EncodeI32(int32(triangleIndex)),
		api.EncodeI32(int32(materialIndex)))
	return err
}

// keyParserDelegate walks a guest key-value parser.
type keyParserDelegate struct {
	m      *Module
	handle uint64
}

func (p *keyParserDelegate) GetCurrentBlockName(ctx context.Context) (string, error) {
	packed, err := p.m.callOne(ctx, physics.CollisionVersion, "key-parser-get-current-block-name", p.handle)
	if err != nil {
		return "", err
	}
	return p.m.readPackedString(ctx, packed)
}

func (p *keyParserDelegate) Finished(ctx context.Context) (bool, error) {
	res, err := p.m.callOne(ctx, physics.CollisionVersion, "key-parser-finished", p.handle)
	if err != nil {
		return false, err
	}
	return uint32(res) != 0, nil
}

func (p *keyParserDelegate) SkipBlock(ctx context.Context) error {
	_, err := p.m.call(ctx, physics.CollisionVersion, "key-parser-skip-block", p.handle)
	return err
}

var (
	_ physics.Collision      = (*collisionDelegate)(nil)
	_ physics.CollisionQuery = (*queryDelegate)(nil)
	_ physics.KeyParser      = (*keyParserDelegate)(nil)
)
