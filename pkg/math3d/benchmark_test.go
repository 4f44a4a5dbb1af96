package math3d

import (
	"testing"
)

func BenchmarkActorTransform(b *testing.B) {
	pos := V3(12, -0.7, -4)
	for b.Loop() {
		_ = Translate(pos).Mul(RotateY(0.8))
	}
}

func BenchmarkMulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMulVec4(b *testing.B) {
	m := Perspective(1.05, 16.0/9, 0.1, 200).Mul(Translate(V3(0, -5, -10)))
	v := V4FromV3(V3(1, 2, 3), 1)

	for b.Loop() {
		_ = m.MulVec4(v).PerspectiveDivide()
	}
}

// Centroid distance is the k-d tree's inner loop.
func BenchmarkVec3DistanceSq(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.DistanceSq(v2)
	}
}

func BenchmarkWrapAngle(b *testing.B) {
	a := 0.0
	for b.Loop() {
		a = WrapAngle(a + 0.05)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 3, -5), V3(0, 0, 0), Up())
	proj := Perspective(1.05, 16.0/9, 0.1, 200)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
