package geom

import (
	"testing"

	"github.com/taigrr/archipelago/pkg/math3d"
)

func TestAABBExtend(t *testing.T) {
	b := EmptyAABB()
	if !b.Empty() {
		t.Fatal("EmptyAABB should be empty")
	}
	b = b.Extend(math3d.V3(1, 2, 3)).Extend(math3d.V3(-1, 0, 5))
	if b.Empty() {
		t.Fatal("extended box should not be empty")
	}
	if b.Min != math3d.V3(-1, 0, 3) || b.Max != math3d.V3(1, 2, 5) {
		t.Errorf("got %v..%v", b.Min, b.Max)
	}
	if c := b.Center(); c != math3d.V3(0, 1, 4) {
		t.Errorf("Center = %v", c)
	}
}

func TestAABBIntersectsSphere(t *testing.T) {
	b := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	tests := []struct {
		name   string
		center math3d.Vec3
		radius float64
		want   bool
	}{
		{"inside", math3d.V3(0, 0, 0), 0.1, true},
		{"touching face", math3d.V3(2, 0, 0), 1, true},
		{"near face", math3d.V3(2.5, 0, 0), 1, false},
		{"corner miss", math3d.V3(2, 2, 2), 1.5, false},
		{"corner hit", math3d.V3(2, 2, 2), 1.8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IntersectsSphere(tt.center, tt.radius); got != tt.want {
				t.Errorf("IntersectsSphere = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBIntersectsSegment(t *testing.T) {
	b := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	tests := []struct {
		name string
		a, c math3d.Vec3
		want bool
	}{
		{"through", math3d.V3(-5, 0, 0), math3d.V3(5, 0, 0), true},
		{"inside", math3d.V3(0, 0, 0), math3d.V3(0.5, 0.5, 0.5), true},
		{"short", math3d.V3(-5, 0, 0), math3d.V3(-2, 0, 0), false},
		{"parallel outside", math3d.V3(-5, 2, 0), math3d.V3(5, 2, 0), false},
		{"diagonal miss", math3d.V3(-5, 3, 0), math3d.V3(5, 4, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IntersectsSegment(tt.a, tt.c); got != tt.want {
				t.Errorf("IntersectsSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBExpandContains(t *testing.T) {
	b := NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)).Expand(0.5)
	if !b.ContainsPoint(math3d.V3(-0.5, 1.5, 0)) {
		t.Error("expanded box should contain boundary point")
	}
	if b.ContainsPoint(math3d.V3(-0.6, 0, 0)) {
		t.Error("point outside expanded box reported inside")
	}
}
