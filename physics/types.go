package physics

// Vector is a position or direction in engine units.
type Vector struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float32) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// LengthSqr returns the squared length of v.
func (v Vector) LengthSqr() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// QAngle is an Euler orientation in degrees.
type QAngle struct {
	Pitch, Yaw, Roll float32
}

// Plane is the surface hit by a trace.
type Plane struct {
	Normal Vector
	Dist   float32
}

// Ray is a swept point or box used by the trace operations. Construct
// rays with RayFromLine or RayFromBox rather than filling fields by hand;
// the trace code relies on Start being recentered for box sweeps.
type Ray struct {
	Start       Vector
	Delta       Vector
	StartOffset Vector
	Extents     Vector
	IsRay       bool
	IsSwept     bool
}

// RayFromLine builds a point sweep from start to end.
func RayFromLine(start, end Vector) Ray {
	delta := end.Sub(start)
	return Ray{
		Start:   start,
		Delta:   delta,
		IsRay:   true,
		IsSwept: delta.LengthSqr() != 0,
	}
}

// RayFromBox builds a box sweep from start to end. The box is given in
// local mins/maxs; the ray start is recentered on the box center and
// StartOffset holds the correction back to the caller's origin.
func RayFromBox(start, end, mins, maxs Vector) Ray {
	delta := end.Sub(start)
	offset := mins.Add(maxs).Scale(0.5)
	extents := maxs.Sub(mins).Scale(0.5)
	return Ray{
		Start:       start.Add(offset),
		Delta:       delta,
		StartOffset: offset.Scale(-1),
		Extents:     extents,
		IsRay:       extents.LengthSqr() < 1e-6,
		IsSwept:     delta.LengthSqr() != 0,
	}
}

// TruncatedCone is the cone volume tested by IsBoxIntersectingCone.
type TruncatedCone struct {
	Origin Vector
	Normal Vector
	Height float32
	Theta  float32
}

// Surface identifies the material hit by a trace.
type Surface struct {
	Name  string
	Props int16
	Flags uint16
}

// Trace reports the result of a sweep against a collision model.
type Trace struct {
	StartPos          Vector
	EndPos            Vector
	Plane             Plane
	Fraction          float32
	Contents          uint32
	DispFlags         uint16
	AllSolid          bool
	StartSolid        bool
	FractionLeftSolid float32
	Surface           Surface
}

// Opaque module-owned handles. A handle is only meaningful to the module
// that produced it.
type (
	// Convex is a single convex solid.
	Convex uint64
	// Collide is an optimized collision model built from convexes.
	Collide uint64
	// Polysoup is a triangle soup being assembled into a collision model.
	Polysoup uint64
	// ObjectRef is a host token identifying a physics object in pair
	// hashes. The shim never dereferences it.
	ObjectRef uint64
)
