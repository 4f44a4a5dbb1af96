package render

import (
	"math"
	"testing"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Error("zero normal should leave the plane unchanged")
	}
}

func originFrustum() Frustum {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 1.0, 100.0)
	return NewFrustumFromMatrix(proj.Mul(math3d.Identity()))
}

func TestFrustumPlanesNormalized(t *testing.T) {
	for i, plane := range originFrustum().Planes {
		if math.Abs(plane.Normal.Len()-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, plane.Normal.Len())
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := originFrustum()

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -2), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := originFrustum()

	tests := []struct {
		name     string
		box      geom.AABB
		expected bool
	}{
		{"fully inside", geom.NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"crosses near plane", geom.NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", geom.NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"beyond far plane", geom.NewAABB(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)), false},
		{"far to the right", geom.NewAABB(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"contains frustum", geom.NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
		{"empty", geom.EmptyAABB(), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumContainsAABB(t *testing.T) {
	f := originFrustum()

	inside := geom.NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))
	if !f.ContainsAABB(inside) {
		t.Error("small box in view should be fully contained")
	}
	straddling := geom.NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2))
	if f.ContainsAABB(straddling) {
		t.Error("box crossing the near plane is not fully contained")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := originFrustum()

	tests := []struct {
		name     string
		center   math3d.Vec3
		radius   float64
		expected bool
	}{
		{"inside", math3d.V3(0, 0, -10), 1.0, true},
		{"straddles near plane", math3d.V3(0, 0, -0.5), 1.0, true},
		{"behind", math3d.V3(0, 0, 5), 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 1.0, 1.0, 100.0)
	view := math3d.LookAt(math3d.Zero3(), math3d.V3(10, 0, 0), math3d.Up())
	f := NewFrustumFromMatrix(proj.Mul(view))

	if !f.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point ahead of the camera should be visible")
	}
	if f.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind the camera should not be visible")
	}
}

func TestCameraFrustumMatchesLookAt(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 5, 10))
	cam.LookAt(math3d.Zero3())

	f := cam.Frustum()
	if !f.ContainsPoint(math3d.Zero3()) {
		t.Error("look-at target should be inside the frustum")
	}
	if f.ContainsPoint(math3d.V3(0, 10, 20)) {
		t.Error("point behind the camera should be outside")
	}
}

func TestTransformAABB(t *testing.T) {
	box := geom.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translate", func(t *testing.T) {
		got := TransformAABB(box, math3d.Translate(math3d.V3(5, 0, -2)))
		if !got.Min.ApproxEqual(math3d.V3(4, -1, -3), 1e-9) || !got.Max.ApproxEqual(math3d.V3(6, 1, -1), 1e-9) {
			t.Errorf("translated box = %v", got)
		}
	})

	t.Run("rotate grows box", func(t *testing.T) {
		got := TransformAABB(box, math3d.RotateY(math.Pi/4))
		want := math.Sqrt2
		if math.Abs(got.Max.X-want) > 1e-9 || math.Abs(got.Max.Z-want) > 1e-9 {
			t.Errorf("rotated box max = %v, want x,z = %v", got.Max, want)
		}
		if math.Abs(got.Max.Y-1) > 1e-9 {
			t.Errorf("rotation about Y changed height: %v", got.Max.Y)
		}
	})

	t.Run("empty stays empty", func(t *testing.T) {
		if !TransformAABB(geom.EmptyAABB(), math3d.Identity()).Empty() {
			t.Error("empty box should stay empty")
		}
	})
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := originFrustum()
	box := geom.NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))

	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkTransformAABB(b *testing.B) {
	box := geom.NewAABB(math3d.V3(-8, -2, -8), math3d.V3(8, 3, 8))
	m := math3d.RotateY(0.3).Mul(math3d.Translate(math3d.V3(10, 0, -4)))

	for b.Loop() {
		_ = TransformAABB(box, m)
	}
}
