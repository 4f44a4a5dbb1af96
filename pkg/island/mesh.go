package island

import (
	"github.com/taigrr/archipelago/pkg/models"
)

// Mesh converts the island's quads into a drawable mesh. An uninitialized
// island yields an empty mesh.
func (is *Island) Mesh() *models.Mesh {
	m := models.NewMesh("island-" + is.ID.String()[:8])
	for q := 0; q+3 < len(is.Vertices); q += 4 {
		var idx [4]int
		for k := range 4 {
			v := is.Vertices[q+k]
			idx[k] = m.AddVertex(v.Position, v.Color)
		}
		m.AddQuad(idx[0], idx[1], idx[2], idx[3])
	}
	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}
