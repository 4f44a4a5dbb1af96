package models

import (
	"testing"

	"github.com/taigrr/archipelago/pkg/math3d"
)

func quadMesh() *Mesh {
	m := NewMesh("quad")
	white := [3]float64{1, 1, 1}
	a := m.AddVertex(math3d.V3(0, 0, 0), white)
	b := m.AddVertex(math3d.V3(1, 0, 0), white)
	c := m.AddVertex(math3d.V3(1, 0, 1), white)
	d := m.AddVertex(math3d.V3(0, 0, 1), white)
	// Clockwise seen from +Y.
	m.AddQuad(a, b, c, d)
	return m
}

func TestAddQuad(t *testing.T) {
	m := quadMesh()
	if m.TriangleCount() != 2 || m.VertexCount() != 4 {
		t.Fatalf("got %d faces, %d vertices", m.TriangleCount(), m.VertexCount())
	}
	if m.GetFace(0) != [3]int{0, 1, 2} || m.GetFace(1) != [3]int{0, 2, 3} {
		t.Errorf("faces = %v %v", m.GetFace(0), m.GetFace(1))
	}
}

func TestCalculateNormalsFacesFront(t *testing.T) {
	m := quadMesh()
	m.CalculateNormals()
	for i := range m.VertexCount() {
		_, n, _ := m.GetVertex(i)
		if !n.ApproxEqual(math3d.Up(), 1e-9) {
			t.Errorf("vertex %d normal = %v, want +Y", i, n)
		}
	}

	m.CalculateSmoothNormals()
	_, n, _ := m.GetVertex(0)
	if !n.ApproxEqual(math3d.Up(), 1e-9) {
		t.Errorf("smooth normal = %v, want +Y", n)
	}
}

func TestCalculateBounds(t *testing.T) {
	m := quadMesh()
	m.CalculateBounds()
	min, max := m.GetBounds()
	if min != math3d.V3(0, 0, 0) || max != math3d.V3(1, 0, 1) {
		t.Errorf("bounds = %v..%v", min, max)
	}
	if c := m.Center(); c != math3d.V3(0.5, 0, 0.5) {
		t.Errorf("Center = %v", c)
	}
}

func TestMergeReindexes(t *testing.T) {
	a := quadMesh()
	b := quadMesh()
	b.Transform(math3d.Translate(math3d.V3(5, 0, 0)))

	a.Merge(b)
	if a.VertexCount() != 8 || a.TriangleCount() != 4 {
		t.Fatalf("merged: %d vertices, %d faces", a.VertexCount(), a.TriangleCount())
	}
	if got := a.GetFace(2); got != [3]int{4, 5, 6} {
		t.Errorf("merged face = %v, want [4 5 6]", got)
	}
	if a.BoundsMax.X != 6 {
		t.Errorf("merged bounds max X = %f, want 6", a.BoundsMax.X)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := quadMesh()
	clone := m.Clone()
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	clone.Faces[0].V[0] = 3
	if m.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("clone shares vertices")
	}
	if m.Faces[0].V[0] == 3 {
		t.Error("clone shares faces")
	}
}
