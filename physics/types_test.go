package physics

import "testing"

func TestRayFromLine(t *testing.T) {
	start := Vector{1, 2, 3}
	end := Vector{4, 6, 3}

	ray := RayFromLine(start, end)

	if ray.Start != start {
		t.Errorf("Start = %v, want %v", ray.Start, start)
	}
	if want := (Vector{3, 4, 0}); ray.Delta != want {
		t.Errorf("Delta = %v, want %v", ray.Delta, want)
	}
	if !ray.IsRay {
		t.Error("IsRay = false for a point sweep")
	}
	if !ray.IsSwept {
		t.Error("IsSwept = false for distinct endpoints")
	}
	if ray.Extents != (Vector{}) {
		t.Errorf("Extents = %v, want zero", ray.Extents)
	}
}

func TestRayFromLine_Stationary(t *testing.T) {
	p := Vector{5, 5, 5}
	ray := RayFromLine(p, p)

	if ray.IsSwept {
		t.Error("IsSwept = true for identical endpoints")
	}
	if !ray.IsRay {
		t.Error("IsRay = false for a point")
	}
}

func TestRayFromBox(t *testing.T) {
	start := Vector{0, 0, 0}
	end := Vector{10, 0, 0}
	mins := Vector{-1, -2, -3}
	maxs := Vector{3, 2, 1}

	ray := RayFromBox(start, end, mins, maxs)

	// Start is recentered on the box center and StartOffset undoes it.
	if want := (Vector{1, 0, -1}); ray.Start != want {
		t.Errorf("Start = %v, want %v", ray.Start, want)
	}
	if want := (Vector{-1, 0, 1}); ray.StartOffset != want {
		t.Errorf("StartOffset = %v, want %v", ray.StartOffset, want)
	}
	if want := (Vector{2, 2, 2}); ray.Extents != want {
		t.Errorf("Extents = %v, want %v", ray.Extents, want)
	}
	if want := (Vector{10, 0, 0}); ray.Delta != want {
		t.Errorf("Delta = %v, want %v", ray.Delta, want)
	}
	if ray.IsRay {
		t.Error("IsRay = true for a box with real extents")
	}
	if !ray.IsSwept {
		t.Error("IsSwept = false for distinct endpoints")
	}
}

func TestRayFromBox_DegenerateBoxIsRay(t *testing.T) {
	ray := RayFromBox(Vector{}, Vector{1, 0, 0}, Vector{}, Vector{})
	if !ray.IsRay {
		t.Error("IsRay = false for a zero-extent box")
	}
}

func TestVectorOps(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	if got, want := a.Add(b), (Vector{5, 7, 9}); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := b.Sub(a), (Vector{3, 3, 3}); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Scale(2), (Vector{2, 4, 6}); got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if got, want := a.LengthSqr(), float32(14); got != want {
		t.Errorf("LengthSqr = %v, want %v", got, want)
	}
}

func TestDefaultConvertConvexParams(t *testing.T) {
	p := DefaultConvertConvexParams()
	if !p.BuildOuterConvexHull {
		t.Error("BuildOuterConvexHull = false by default")
	}
	if p.DragAreaEpsilon != 0.25 {
		t.Errorf("DragAreaEpsilon = %v, want 0.25", p.DragAreaEpsilon)
	}
	if p.ForcedOuterHull != 0 {
		t.Errorf("ForcedOuterHull = %v, want 0", p.ForcedOuterHull)
	}
}

func TestVersionNames(t *testing.T) {
	// The version strings are wire contract; a silent change would
	// break lookup against shipped engine builds.
	if PhysicsVersion != "VoltPhysics031" {
		t.Errorf("PhysicsVersion = %q", PhysicsVersion)
	}
	if SurfacePropsVersion != "VoltSurfaceProps001" {
		t.Errorf("SurfacePropsVersion = %q", SurfacePropsVersion)
	}
	if CollisionVersion != "VoltCollision007" {
		t.Errorf("CollisionVersion = %q", CollisionVersion)
	}
}
