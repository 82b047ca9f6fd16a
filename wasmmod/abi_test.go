package wasmmod

import (
	"encoding/binary"
	stderrors "errors"
	"math"
	"reflect"
	"testing"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func u32At(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func TestPackPtrLen(t *testing.T) {
	ptr, length := unpackPtrLen(packPtrLen(0xDEAD0000, 0x1234))
	if ptr != 0xDEAD0000 || length != 0x1234 {
		t.Fatalf("round-trip = (%#x, %#x), want (0xDEAD0000, 0x1234)", ptr, length)
	}
	if got := packPtrLen(1, 0); got != 1<<32 {
		t.Fatalf("packPtrLen(1, 0) = %#x, want %#x", got, uint64(1)<<32)
	}
	ptr, length = unpackPtrLen(^uint64(0))
	if ptr != 0xFFFFFFFF || length != 0xFFFFFFFF {
		t.Fatalf("unpack all-ones = (%#x, %#x)", ptr, length)
	}
}

func TestEncodeRay_Line(t *testing.T) {
	ray := physics.RayFromLine(physics.Vector{X: 1, Y: 2, Z: 3}, physics.Vector{X: 4, Y: 6, Z: 3})
	b := encodeRay(ray)

	if len(b) != raySize {
		t.Fatalf("len = %d, want %d", len(b), raySize)
	}
	if f32At(b, 0) != 1 || f32At(b, 4) != 2 || f32At(b, 8) != 3 {
		t.Fatalf("start = (%v, %v, %v)", f32At(b, 0), f32At(b, 4), f32At(b, 8))
	}
	if f32At(b, 12) != 3 || f32At(b, 16) != 4 || f32At(b, 20) != 0 {
		t.Fatalf("delta = (%v, %v, %v)", f32At(b, 12), f32At(b, 16), f32At(b, 20))
	}
	if u32At(b, 48) != 1 {
		t.Fatal("IsRay flag not set for a line ray")
	}
	if u32At(b, 52) != 1 {
		t.Fatal("IsSwept flag not set for a moving ray")
	}
}

func TestEncodeRay_Box(t *testing.T) {
	start := physics.Vector{X: 10, Y: 0, Z: 0}
	mins := physics.Vector{X: -2, Y: -1, Z: 0}
	maxs := physics.Vector{X: 0, Y: 1, Z: 2}
	ray := physics.RayFromBox(start, start, mins, maxs)
	b := encodeRay(ray)

	// Box center offset is (-1, 0, 1); start is recentered on it.
	if f32At(b, 0) != 9 || f32At(b, 4) != 0 || f32At(b, 8) != 1 {
		t.Fatalf("recentered start = (%v, %v, %v)", f32At(b, 0), f32At(b, 4), f32At(b, 8))
	}
	if f32At(b, 24) != 1 || f32At(b, 28) != 0 || f32At(b, 32) != -1 {
		t.Fatalf("start offset = (%v, %v, %v)", f32At(b, 24), f32At(b, 28), f32At(b, 32))
	}
	if f32At(b, 36) != 1 || f32At(b, 40) != 1 || f32At(b, 44) != 1 {
		t.Fatalf("extents = (%v, %v, %v)", f32At(b, 36), f32At(b, 40), f32At(b, 44))
	}
	if u32At(b, 48) != 0 {
		t.Fatal("IsRay flag set for a box sweep")
	}
	if u32At(b, 52) != 0 {
		t.Fatal("IsSwept flag set for a stationary sweep")
	}
}

func TestEncodeCone(t *testing.T) {
	cone := physics.TruncatedCone{
		Origin: physics.Vector{X: 1, Y: 2, Z: 3},
		Normal: physics.Vector{X: 0, Y: 0, Z: -1},
		Height: 64,
		Theta:  30,
	}
	b := encodeCone(cone)

	if len(b) != coneSize {
		t.Fatalf("len = %d, want %d", len(b), coneSize)
	}
	if f32At(b, 0) != 1 || f32At(b, 4) != 2 || f32At(b, 8) != 3 {
		t.Fatal("origin misplaced")
	}
	if f32At(b, 20) != -1 {
		t.Fatalf("normal.z = %v, want -1", f32At(b, 20))
	}
	if f32At(b, 24) != 64 || f32At(b, 28) != 30 {
		t.Fatalf("height/theta = %v/%v", f32At(b, 24), f32At(b, 28))
	}
}

func TestEncodeConvertParams(t *testing.T) {
	params := physics.DefaultConvertConvexParams()
	params.ForcedOuterHull = physics.Convex(0x1122334455667788)
	b := encodeConvertParams(params)

	if len(b) != convertParamsSize {
		t.Fatalf("len = %d, want %d", len(b), convertParamsSize)
	}
	if u32At(b, 0) != 1 || u32At(b, 4) != 0 || u32At(b, 8) != 0 {
		t.Fatalf("flags = (%d, %d, %d)", u32At(b, 0), u32At(b, 4), u32At(b, 8))
	}
	if f32At(b, 12) != 0.25 {
		t.Fatalf("drag epsilon = %v, want 0.25", f32At(b, 12))
	}
	if got := binary.LittleEndian.Uint64(b[16:]); got != 0x1122334455667788 {
		t.Fatalf("forced outer hull = %#x", got)
	}
}

func TestEncodeVirtualMeshParams(t *testing.T) {
	b := encodeVirtualMeshParams(7, physics.VirtualMeshParams{
		BuildOuterHull: true,
		UserData:       0x0102030405060708,
	})

	if len(b) != virtualMeshParamsSize {
		t.Fatalf("len = %d, want %d", len(b), virtualMeshParamsSize)
	}
	if u32At(b, 0) != 7 {
		t.Fatalf("handler id = %d, want 7", u32At(b, 0))
	}
	if u32At(b, 4) != 1 {
		t.Fatal("build-outer-hull flag not set")
	}
	if got := binary.LittleEndian.Uint64(b[8:]); got != 0x0102030405060708 {
		t.Fatalf("user data = %#x", got)
	}
}

func TestEncodePlanes(t *testing.T) {
	b := encodePlanes([]physics.Plane{
		{Normal: physics.Vector{X: 0, Y: 0, Z: 1}, Dist: 10},
		{Normal: physics.Vector{X: -1, Y: 0, Z: 0}, Dist: -4},
	})

	if len(b) != 2*planeSize {
		t.Fatalf("len = %d, want %d", len(b), 2*planeSize)
	}
	if f32At(b, 8) != 1 || f32At(b, 12) != 10 {
		t.Fatalf("plane 0 = normal.z %v, dist %v", f32At(b, 8), f32At(b, 12))
	}
	if f32At(b, 16) != -1 || f32At(b, 28) != -4 {
		t.Fatalf("plane 1 = normal.x %v, dist %v", f32At(b, 16), f32At(b, 28))
	}
}

func TestDecodeTraceWire(t *testing.T) {
	b := make([]byte, traceSize)
	putVector(b[0:], physics.Vector{X: 1, Y: 2, Z: 3})
	putVector(b[12:], physics.Vector{X: 4, Y: 5, Z: 6})
	putVector(b[24:], physics.Vector{X: 0, Y: 0, Z: 1})
	putF32(b[36:], 128)
	putF32(b[40:], 0.5)
	binary.LittleEndian.PutUint32(b[44:], 0x20001)
	binary.LittleEndian.PutUint32(b[48:], 0x11)
	binary.LittleEndian.PutUint32(b[52:], 1)
	binary.LittleEndian.PutUint32(b[56:], 0)
	putF32(b[60:], 0.125)
	binary.LittleEndian.PutUint32(b[64:], 0x1000)
	binary.LittleEndian.PutUint32(b[68:], 5)
	binary.LittleEndian.PutUint32(b[72:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(b[76:], 0x4001)

	w, err := decodeTraceWire(b)
	if err != nil {
		t.Fatalf("decodeTraceWire() error = %v", err)
	}

	tr := w.trace
	if tr.StartPos != (physics.Vector{X: 1, Y: 2, Z: 3}) || tr.EndPos != (physics.Vector{X: 4, Y: 5, Z: 6}) {
		t.Fatalf("positions = %+v -> %+v", tr.StartPos, tr.EndPos)
	}
	if tr.Plane.Normal.Z != 1 || tr.Plane.Dist != 128 {
		t.Fatalf("plane = %+v", tr.Plane)
	}
	if tr.Fraction != 0.5 || tr.FractionLeftSolid != 0.125 {
		t.Fatalf("fractions = %v / %v", tr.Fraction, tr.FractionLeftSolid)
	}
	if tr.Contents != 0x20001 || tr.DispFlags != 0x11 {
		t.Fatalf("contents/dispflags = %#x / %#x", tr.Contents, tr.DispFlags)
	}
	if !tr.AllSolid || tr.StartSolid {
		t.Fatalf("solid flags = all %v, start %v", tr.AllSolid, tr.StartSolid)
	}
	if w.namePtr != 0x1000 || w.nameLen != 5 {
		t.Fatalf("name ref = (%#x, %d)", w.namePtr, w.nameLen)
	}
	if tr.Surface.Props != -1 || tr.Surface.Flags != 0x4001 {
		t.Fatalf("surface = props %d, flags %#x", tr.Surface.Props, tr.Surface.Flags)
	}
}

func TestDecodeTraceWire_Short(t *testing.T) {
	_, err := decodeTraceWire(make([]byte, traceSize-1))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("error = %v, want forward/invalid_input", err)
	}
}

func TestDecodeSurfaceData(t *testing.T) {
	b := make([]byte, surfaceDataSize)
	putF32(b[0:], 0.8)
	putF32(b[4:], 0.25)
	putF32(b[8:], 2400)
	putF32(b[12:], 0.5)
	putF32(b[16:], 0.01)
	for i := 0; i < 6; i++ {
		putF32(b[20+i*4:], float32(i)+0.5)
	}
	for i := 0; i < 10; i++ {
		binary.LittleEndian.PutUint16(b[44+i*2:], uint16(i+1))
	}
	putF32(b[64:], 0.9)
	putF32(b[68:], 1.1)
	binary.LittleEndian.PutUint16(b[72:], 77)
	b[74] = 1

	got, err := decodeSurfaceData(b)
	if err != nil {
		t.Fatalf("decodeSurfaceData() error = %v", err)
	}

	want := physics.SurfaceData{
		Physics: physics.SurfacePhysicsParams{
			Friction:   0.8,
			Elasticity: 0.25,
			Density:    2400,
			Thickness:  0.5,
			Dampening:  0.01,
		},
		Audio: physics.SurfaceAudioParams{
			Reflectivity:          0.5,
			HardnessFactor:        1.5,
			RoughnessFactor:       2.5,
			RoughThreshold:        3.5,
			HardThreshold:         4.5,
			HardVelocityThreshold: 5.5,
		},
		Sounds: physics.SurfaceSoundNames{
			StepLeft: 1, StepRight: 2, ImpactSoft: 3, ImpactHard: 4,
			ScrapeSmooth: 5, ScrapeRough: 6, BulletImpact: 7, Rolling: 8,
			Break: 9, Strain: 10,
		},
		Game: physics.SurfaceGameProps{
			MaxSpeedFactor: 0.9,
			JumpFactor:     1.1,
			Material:       77,
			Climbable:      true,
		},
	}
	if got != want {
		t.Fatalf("decoded = %+v, want %+v", got, want)
	}
}

func TestDecodePhysicsParams(t *testing.T) {
	b := make([]byte, physParamsSize)
	putF32(b[0:], 0.4)
	putF32(b[4:], 0.6)
	putF32(b[8:], 800)
	putF32(b[12:], 0.25)
	putF32(b[16:], 0)

	got, err := decodePhysicsParams(b)
	if err != nil {
		t.Fatalf("decodePhysicsParams() error = %v", err)
	}
	want := physics.SurfacePhysicsParams{Friction: 0.4, Elasticity: 0.6, Density: 800, Thickness: 0.25}
	if got != want {
		t.Fatalf("decoded = %+v, want %+v", got, want)
	}

	if _, err := decodePhysicsParams(make([]byte, 8)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("short buffer error = %v, want forward/invalid_input", err)
	}
}

func TestPolyhedronRoundTrip(t *testing.T) {
	poly := physics.Polyhedron{
		Vertices: []physics.Vector{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
		},
		Lines: [][2]uint16{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}},
		Indices: []physics.PolyhedronLineRef{
			{LineIndex: 0, PointIndex: 0}, {LineIndex: 3, PointIndex: 0}, {LineIndex: 1, PointIndex: 1},
			{LineIndex: 0, PointIndex: 1}, {LineIndex: 4, PointIndex: 0}, {LineIndex: 2, PointIndex: 1},
		},
		Faces: []physics.PolyhedronFace{
			{Normal: physics.Vector{X: 0, Y: 0, Z: -1}, FirstIndex: 0, IndexCount: 3},
			{Normal: physics.Vector{X: 0, Y: -1, Z: 0}, FirstIndex: 3, IndexCount: 3},
		},
	}

	b := encodePolyhedron(poly)
	wantLen := polyHeaderSize + 4*vectorSize + 6*polyLineSize + 6*polyIndexSize + 2*polyFaceSize
	if len(b) != wantLen {
		t.Fatalf("encoded len = %d, want %d", len(b), wantLen)
	}

	got, err := decodePolyhedron(b)
	if err != nil {
		t.Fatalf("decodePolyhedron() error = %v", err)
	}
	if !reflect.DeepEqual(got, poly) {
		t.Fatalf("round-trip = %+v, want %+v", got, poly)
	}
}

func TestDecodePolyhedron_Truncated(t *testing.T) {
	poly := physics.Polyhedron{
		Vertices: []physics.Vector{{X: 1, Y: 1, Z: 1}},
		Lines:    [][2]uint16{{0, 0}},
	}
	b := encodePolyhedron(poly)

	if _, err := decodePolyhedron(b[:len(b)-2]); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("truncated body error = %v, want forward/invalid_input", err)
	}
	if _, err := decodePolyhedron(make([]byte, polyHeaderSize-1)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("truncated header error = %v, want forward/invalid_input", err)
	}
}

func TestVectorsRoundTrip(t *testing.T) {
	vs := []physics.Vector{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5.5, Z: -6.25}}
	got, err := decodeVectors(encodeVectors(vs))
	if err != nil {
		t.Fatalf("decodeVectors() error = %v", err)
	}
	if !reflect.DeepEqual(got, vs) {
		t.Fatalf("round-trip = %+v, want %+v", got, vs)
	}

	if _, err := decodeVectors(make([]byte, 13)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("misaligned error = %v, want forward/invalid_input", err)
	}
}

func TestScalarSliceEncoding(t *testing.T) {
	if got := encodeU16s([]uint16{0x0102, 0x0304}); !reflect.DeepEqual(got, []byte{0x02, 0x01, 0x04, 0x03}) {
		t.Fatalf("encodeU16s = %x", got)
	}
	if got := encodeI32s([]int32{-1}); !reflect.DeepEqual(got, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("encodeI32s = %x", got)
	}

	handles := []uint64{1, 0xAABBCCDD00112233}
	got, err := decodeU64s(encodeU64s(handles))
	if err != nil {
		t.Fatalf("decodeU64s() error = %v", err)
	}
	if !reflect.DeepEqual(got, handles) {
		t.Fatalf("u64 round-trip = %x, want %x", got, handles)
	}

	if _, err := decodeU64s(make([]byte, 9)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindInvalidInput}) {
		t.Fatalf("misaligned error = %v, want forward/invalid_input", err)
	}
}
