package wasmmod

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

// Wire sizes in bytes. Little-endian throughout.
const (
	vectorSize            = 12
	planeSize             = 16
	raySize               = 56
	coneSize              = 32
	traceSize             = 80
	surfaceDataSize       = 76
	physParamsSize        = 20
	physPropsOutSize      = 16
	convertParamsSize     = 24
	virtualMeshParamsSize = 16
	virtualMeshOutSize    = 12
	vcollideOutSize       = 16
	triangleVertsSize     = 36
	aabbOutSize           = 24
	polyHeaderSize        = 16
	polyLineSize          = 4
	polyIndexSize         = 4
	polyFaceSize          = 16
)

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putVector(b []byte, v physics.Vector) {
	putF32(b[0:], v.X)
	putF32(b[4:], v.Y)
	putF32(b[8:], v.Z)
}

func getVector(b []byte) physics.Vector {
	return physics.Vector{X: getF32(b[0:]), Y: getF32(b[4:]), Z: getF32(b[8:])}
}

func u32bool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func packPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

func unpackPtrLen(v uint64) (ptr, length uint32) {
	return uint32(v >> 32), uint32(v)
}

func encodeVectors(vs []physics.Vector) []byte {
	b := make([]byte, len(vs)*vectorSize)
	for i, v := range vs {
		putVector(b[i*vectorSize:], v)
	}
	return b
}

func decodeVectors(b []byte) ([]physics.Vector, error) {
	if len(b)%vectorSize != 0 {
		return nil, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("vector buffer length %d not a multiple of %d", len(b), vectorSize))
	}
	vs := make([]physics.Vector, len(b)/vectorSize)
	for i := range vs {
		vs[i] = getVector(b[i*vectorSize:])
	}
	return vs, nil
}

func encodePlanes(ps []physics.Plane) []byte {
	b := make([]byte, len(ps)*planeSize)
	for i, p := range ps {
		putVector(b[i*planeSize:], p.Normal)
		putF32(b[i*planeSize+12:], p.Dist)
	}
	return b
}

func encodeU16s(vs []uint16) []byte {
	b := make([]byte, len(vs)*2)
	for i, v := range vs {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func encodeI32s(vs []int32) []byte {
	b := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
	}
	return b
}

func encodeU64s(vs []uint64) []byte {
	b := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(b[i*8:], v)
	}
	return b
}

func decodeU64s(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("handle buffer length %d not a multiple of 8", len(b)))
	}
	vs := make([]uint64, len(b)/8)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return vs, nil
}

func encodeRay(r physics.Ray) []byte {
	b := make([]byte, raySize)
	putVector(b[0:], r.Start)
	putVector(b[12:], r.Delta)
	putVector(b[24:], r.StartOffset)
	putVector(b[36:], r.Extents)
	binary.LittleEndian.PutUint32(b[48:], uint32(u32bool(r.IsRay)))
	binary.LittleEndian.PutUint32(b[52:], uint32(u32bool(r.IsSwept)))
	return b
}

func encodeCone(c physics.TruncatedCone) []byte {
	b := make([]byte, coneSize)
	putVector(b[0:], c.Origin)
	putVector(b[12:], c.Normal)
	putF32(b[24:], c.Height)
	putF32(b[28:], c.Theta)
	return b
}

func encodeConvertParams(p physics.ConvertConvexParams) []byte {
	b := make([]byte, convertParamsSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(u32bool(p.BuildOuterConvexHull)))
	binary.LittleEndian.PutUint32(b[4:], uint32(u32bool(p.BuildDragAxisAreas)))
	binary.LittleEndian.PutUint32(b[8:], uint32(u32bool(p.BuildOptimizedTraceTables)))
	putF32(b[12:], p.DragAreaEpsilon)
	binary.LittleEndian.PutUint64(b[16:], uint64(p.ForcedOuterHull))
	return b
}

func encodeVirtualMeshParams(handlerID uint32, p physics.VirtualMeshParams) []byte {
	b := make([]byte, virtualMeshParamsSize)
	binary.LittleEndian.PutUint32(b[0:], handlerID)
	binary.LittleEndian.PutUint32(b[4:], uint32(u32bool(p.BuildOuterHull)))
	binary.LittleEndian.PutUint64(b[8:], p.UserData)
	return b
}

// traceWire is a decoded trace with the surface name still unresolved.
type traceWire struct {
	trace   physics.Trace
	namePtr uint32
	nameLen uint32
}

func decodeTraceWire(b []byte) (traceWire, error) {
	if len(b) < traceSize {
		return traceWire{}, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("trace buffer too short: %d bytes", len(b)))
	}

	var w traceWire
	w.trace.StartPos = getVector(b[0:])
	w.trace.EndPos = getVector(b[12:])
	w.trace.Plane.Normal = getVector(b[24:])
	w.trace.Plane.Dist = getF32(b[36:])
	w.trace.Fraction = getF32(b[40:])
	w.trace.Contents = binary.LittleEndian.Uint32(b[44:])
	w.trace.DispFlags = uint16(binary.LittleEndian.Uint32(b[48:]))
	w.trace.AllSolid = binary.LittleEndian.Uint32(b[52:]) != 0
	w.trace.StartSolid = binary.LittleEndian.Uint32(b[56:]) != 0
	w.trace.FractionLeftSolid = getF32(b[60:])
	w.namePtr = binary.LittleEndian.Uint32(b[64:])
	w.nameLen = binary.LittleEndian.Uint32(b[68:])
	w.trace.Surface.Props = int16(int32(binary.LittleEndian.Uint32(b[72:])))
	w.trace.Surface.Flags = uint16(binary.LittleEndian.Uint32(b[76:]))
	return w, nil
}

func decodeSurfaceData(b []byte) (physics.SurfaceData, error) {
	if len(b) < surfaceDataSize {
		return physics.SurfaceData{}, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("surface data buffer too short: %d bytes", len(b)))
	}

	var d physics.SurfaceData
	d.Physics = decodePhysicsParamsRaw(b[0:])
	d.Audio = physics.SurfaceAudioParams{
		Reflectivity:          getF32(b[20:]),
		HardnessFactor:        getF32(b[24:]),
		RoughnessFactor:       getF32(b[28:]),
		RoughThreshold:        getF32(b[32:]),
		HardThreshold:         getF32(b[36:]),
		HardVelocityThreshold: getF32(b[40:]),
	}
	d.Sounds = physics.SurfaceSoundNames{
		StepLeft:     physics.StringTableIndex(binary.LittleEndian.Uint16(b[44:])),
		StepRight:    physics.StringTableIndex(binary.LittleEndian.Uint16(b[46:])),
		ImpactSoft:   physics.StringTableIndex(binary.LittleEndian.Uint16(b[48:])),
		ImpactHard:   physics.StringTableIndex(binary.LittleEndian.Uint16(b[50:])),
		ScrapeSmooth: physics.StringTableIndex(binary.LittleEndian.Uint16(b[52:])),
		ScrapeRough:  physics.StringTableIndex(binary.LittleEndian.Uint16(b[54:])),
		BulletImpact: physics.StringTableIndex(binary.LittleEndian.Uint16(b[56:])),
		Rolling:      physics.StringTableIndex(binary.LittleEndian.Uint16(b[58:])),
		Break:        physics.StringTableIndex(binary.LittleEndian.Uint16(b[60:])),
		Strain:       physics.StringTableIndex(binary.LittleEndian.Uint16(b[62:])),
	}
	d.Game = physics.SurfaceGameProps{
		MaxSpeedFactor: getF32(b[64:]),
		JumpFactor:     getF32(b[68:]),
		Material:       binary.LittleEndian.Uint16(b[72:]),
		Climbable:      b[74] != 0,
	}
	return d, nil
}

func decodePhysicsParams(b []byte) (physics.SurfacePhysicsParams, error) {
	if len(b) < physParamsSize {
		return physics.SurfacePhysicsParams{}, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("physics params buffer too short: %d bytes", len(b)))
	}
	return decodePhysicsParamsRaw(b), nil
}

func decodePhysicsParamsRaw(b []byte) physics.SurfacePhysicsParams {
	return physics.SurfacePhysicsParams{
		Friction:   getF32(b[0:]),
		Elasticity: getF32(b[4:]),
		Density:    getF32(b[8:]),
		Thickness:  getF32(b[12:]),
		Dampening:  getF32(b[16:]),
	}
}

// encodePolyhedron lays a polyhedron out as a counted header followed
// by the vertex, line, index and face arrays.
func encodePolyhedron(p physics.Polyhedron) []byte {
	size := polyHeaderSize +
		len(p.Vertices)*vectorSize +
		len(p.Lines)*polyLineSize +
		len(p.Indices)*polyIndexSize +
		len(p.Faces)*polyFaceSize
	b := make([]byte, size)

	binary.LittleEndian.PutUint32(b[0:], uint32(len(p.Vertices)))
	binary.LittleEndian.PutUint32(b[4:], uint32(len(p.Lines)))
	binary.LittleEndian.PutUint32(b[8:], uint32(len(p.Indices)))
	binary.LittleEndian.PutUint32(b[12:], uint32(len(p.Faces)))

	off := polyHeaderSize
	for _, v := range p.Vertices {
		putVector(b[off:], v)
		off += vectorSize
	}
	for _, l := range p.Lines {
		binary.LittleEndian.PutUint16(b[off:], l[0])
		binary.LittleEndian.PutUint16(b[off+2:], l[1])
		off += polyLineSize
	}
	for _, idx := range p.Indices {
		binary.LittleEndian.PutUint16(b[off:], idx.LineIndex)
		binary.LittleEndian.PutUint16(b[off+2:], idx.PointIndex)
		off += polyIndexSize
	}
	for _, f := range p.Faces {
		putVector(b[off:], f.Normal)
		binary.LittleEndian.PutUint16(b[off+12:], f.FirstIndex)
		binary.LittleEndian.PutUint16(b[off+14:], f.IndexCount)
		off += polyFaceSize
	}
	return b
}

func decodePolyhedron(b []byte) (physics.Polyhedron, error) {
	var p physics.Polyhedron
	if len(b) < polyHeaderSize {
		return p, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("polyhedron buffer too short: %d bytes", len(b)))
	}

	vertCount := binary.LittleEndian.Uint32(b[0:])
	lineCount := binary.LittleEndian.Uint32(b[4:])
	indexCount := binary.LittleEndian.Uint32(b[8:])
	faceCount := binary.LittleEndian.Uint32(b[12:])

	need := polyHeaderSize +
		int(vertCount)*vectorSize +
		int(lineCount)*polyLineSize +
		int(indexCount)*polyIndexSize +
		int(faceCount)*polyFaceSize
	if len(b) < need {
		return p, errors.InvalidInput(errors.PhaseForward,
			fmt.Sprintf("polyhedron buffer length %d, counts need %d", len(b), need))
	}

	off := polyHeaderSize
	p.Vertices = make([]physics.Vector, vertCount)
	for i := range p.Vertices {
		p.Vertices[i] = getVector(b[off:])
		off += vectorSize
	}
	p.Lines = make([][2]uint16, lineCount)
	for i := range p.Lines {
		p.Lines[i][0] = binary.LittleEndian.Uint16(b[off:])
		p.Lines[i][1] = binary.LittleEndian.Uint16(b[off+2:])
		off += polyLineSize
	}
	p.Indices = make([]physics.PolyhedronLineRef, indexCount)
	for i := range p.Indices {
		p.Indices[i].LineIndex = binary.LittleEndian.Uint16(b[off:])
		p.Indices[i].PointIndex = binary.LittleEndian.Uint16(b[off+2:])
		off += polyIndexSize
	}
	p.Faces = make([]physics.PolyhedronFace, faceCount)
	for i := range p.Faces {
		p.Faces[i].Normal = getVector(b[off:])
		p.Faces[i].FirstIndex = binary.LittleEndian.Uint16(b[off+12:])
		p.Faces[i].IndexCount = binary.LittleEndian.Uint16(b[off+14:])
		off += polyFaceSize
	}
	return p, nil
}

// memRead copies length bytes out of module memory.
func (m *Module) memRead(offset, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseForward, "module memory read", offset, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Module) memWrite(offset uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseForward, "module memory write", offset, uint32(len(data)))
	}
	return nil
}

// allocRaw allocates size bytes in guest memory through volt-alloc.
func (m *Module) allocRaw(ctx context.Context, size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}
	if m.allocFn == nil {
		return 0, errors.AllocationFailed(errors.PhaseForward, size,
			fmt.Errorf("module exports no %s", guestAlloc))
	}
	results, err := m.allocFn.Call(ctx, uint64(size))
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseForward, size, err)
	}
	if len(results) == 0 || uint32(results[0]) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseForward, size, nil)
	}
	return uint32(results[0]), nil
}

// allocBytes copies data into freshly allocated guest memory.
func (m *Module) allocBytes(ctx context.Context, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	ptr, err := m.allocRaw(ctx, uint32(len(data)))
	if err != nil {
		return 0, err
	}
	if err := m.memWrite(ptr, data); err != nil {
		m.free(ctx, ptr, uint32(len(data)))
		return 0, err
	}
	return ptr, nil
}

func (m *Module) allocString(ctx context.Context, s string) (uint32, error) {
	return m.allocBytes(ctx, []byte(s))
}

// free releases a guest buffer; failures are only logged.
func (m *Module) free(ctx context.Context, ptr, size uint32) {
	if ptr == 0 || size == 0 || m.freeFn == nil {
		return
	}
	if _, err := m.freeFn.Call(ctx, uint64(ptr), uint64(size)); err != nil {
		m.log.Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// readPacked copies a guest-allocated packed ptr/len buffer and frees
// it.
func (m *Module) readPacked(ctx context.Context, packed uint64) ([]byte, error) {
	ptr, length := unpackPtrLen(packed)
	if length == 0 {
		return nil, nil
	}
	data, err := m.memRead(ptr, length)
	if err != nil {
		return nil, err
	}
	m.free(ctx, ptr, length)
	return data, nil
}

func (m *Module) readPackedString(ctx context.Context, packed uint64) (string, error) {
	b, err := m.readPacked(ctx, packed)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readTraceOut reads a guest-filled trace slot and resolves the
// surface name. The name points at guest-owned static data and is not
// freed.
func (m *Module) readTraceOut(ptr uint32) (physics.Trace, error) {
	b, err := m.memRead(ptr, traceSize)
	if err != nil {
		return physics.Trace{}, err
	}
	w, err := decodeTraceWire(b)
	if err != nil {
		return physics.Trace{}, err
	}
	tr := w.trace
	if w.nameLen > 0 {
		nameBytes, err := m.memRead(w.namePtr, w.nameLen)
		if err != nil {
			return physics.Trace{}, err
		}
		tr.Surface.Name = string(nameBytes)
	}
	return tr, nil
}
