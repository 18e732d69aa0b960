package metadata

import (
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief A parsed polygon mesh as handed over by a mesh loader.
 * Entry i of Normals, TexCoords and Colours belongs to Positions[i]; each of them is
 * either empty or as long as Positions. Indices is a single shared stream of triangles.
 */
type MeshData struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	/** @brief Optional per-vertex colours. Only used when the pipeline is configured to. */
	Colours []math.Vec4
	Indices []uint32
}

// VertexCount returns the number of positions in the mesh.
func (m *MeshData) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *MeshData) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

/**
 * @brief An ordered collection of sub-meshes loaded from a single asset.
 */
type Model struct {
	Name   string
	Meshes []*MeshData
}
