package systems

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// GeometrySystem converts parsed meshes into GPU buffer pairs.
type GeometrySystem struct {
	config   *metadata.PipelineConfig
	renderer renderer.RendererBackend
}

/**
 * @brief Creates the geometry system.
 *
 * @param config The pipeline configuration. Scale must be > 0.
 * @param r The backend buffers are created on.
 */
func NewGeometrySystem(config *metadata.PipelineConfig, r renderer.RendererBackend) (*GeometrySystem, error) {
	if config == nil {
		return nil, fmt.Errorf("func NewGeometrySystem - config must not be nil")
	}
	if config.Scale <= 0 {
		return nil, fmt.Errorf("func NewGeometrySystem - config.Scale must be > 0, got %f", config.Scale)
	}
	return &GeometrySystem{
		config:   config,
		renderer: r,
	}, nil
}

func (gs *GeometrySystem) Shutdown() error {
	return nil
}

// Scale returns the factor applied to positions and normals.
func (gs *GeometrySystem) Scale() float32 {
	return gs.config.Scale
}

/**
 * @brief Checks the structure of a mesh before anything touches the GPU.
 * Every index must address an existing position and the indices must form
 * whole triangles.
 */
func (gs *GeometrySystem) Validate(mesh *metadata.MeshData) error {
	if mesh == nil {
		return fmt.Errorf("%w: nil mesh", core.ErrMalformedMesh)
	}
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("%w: mesh '%s' has %d indices, not a multiple of 3", core.ErrMalformedMesh, mesh.Name, len(mesh.Indices))
	}
	count := uint32(len(mesh.Positions))
	for i, idx := range mesh.Indices {
		if idx >= count {
			return fmt.Errorf("%w: mesh '%s' index #%d is %d but there are %d positions", core.ErrIndexOutOfRange, mesh.Name, i, idx, count)
		}
	}
	return nil
}

/**
 * @brief Produces the interleaved vertices for a mesh without touching the GPU.
 * Missing normals and texture coordinates are replaced by the configured defaults,
 * every vertex gets the supplied colour (unless mesh colours are enabled and the
 * mesh has one for it), and positions and normals are multiplied by the configured scale.
 */
func (gs *GeometrySystem) BuildVertices(mesh *metadata.MeshData, colour math.Vec4) ([]metadata.Vertex, error) {
	if err := gs.Validate(mesh); err != nil {
		return nil, err
	}
	scale := gs.config.Scale
	vertices := make([]metadata.Vertex, len(mesh.Positions))
	for i, p := range mesh.Positions {
		n := gs.config.DefaultNormal
		if i < len(mesh.Normals) {
			n = mesh.Normals[i]
		}
		tc := gs.config.DefaultTexCoord
		if i < len(mesh.TexCoords) {
			tc = mesh.TexCoords[i]
		}
		c := colour
		if gs.config.UseMeshColours && i < len(mesh.Colours) {
			c = mesh.Colours[i]
		}
		vertices[i] = metadata.Vertex{
			Position: p.MulScalar(scale),
			Normal:   n.MulScalar(scale),
			Colour:   c,
			Texcoord: tc,
		}
	}
	return vertices, nil
}

/**
 * @brief Builds a vertex buffer and an index buffer for the mesh.
 * The buffers are never updated afterwards; a changed mesh needs a new pair.
 * On failure nothing stays allocated.
 *
 * @param mesh The parsed mesh.
 * @param colour The colour of vertices the mesh does not colour itself.
 * @return The buffer pair, owned by the caller until passed to Destroy.
 */
func (gs *GeometrySystem) Build(mesh *metadata.MeshData, colour math.Vec4) (*metadata.BufferPair, error) {
	vertices, err := gs.BuildVertices(mesh, colour)
	if err != nil {
		return nil, err
	}

	pair := &metadata.BufferPair{
		Name:        mesh.Name,
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(mesh.Indices)),
	}
	if err := gs.upload(pair, vertices, mesh.Indices); err != nil {
		gs.Destroy(pair)
		return nil, err
	}

	gs.renderer.BufferBind(metadata.BufferTargetVertex, 0)
	gs.renderer.BufferBind(metadata.BufferTargetIndex, 0)

	positions := make([]math.Vec3, len(vertices))
	for i := range vertices {
		positions[i] = vertices[i].Position
	}
	pair.Extents, pair.Center = math.ExtentsOf(positions)

	core.LogDebug("Built mesh '%s': %d vertices, %d indices.", mesh.Name, pair.VertexCount, pair.IndexCount)
	return pair, nil
}

// upload creates both buffers of pair and fills them. Buffers created before
// a failure are left in pair for the caller to release.
func (gs *GeometrySystem) upload(pair *metadata.BufferPair, vertices []metadata.Vertex, indices []uint32) error {
	var err error
	if pair.VertexBuffer, err = gs.renderer.BufferCreate(); err != nil {
		return fmt.Errorf("%w: vertex buffer for mesh '%s': %v", core.ErrBufferAllocation, pair.Name, err)
	}
	gs.renderer.BufferBind(metadata.BufferTargetVertex, pair.VertexBuffer)
	if err = gs.renderer.BufferUpload(metadata.BufferTargetVertex, metadata.VertexBytes(vertices)); err != nil {
		return fmt.Errorf("upload vertices of mesh '%s': %w", pair.Name, err)
	}

	if pair.IndexBuffer, err = gs.renderer.BufferCreate(); err != nil {
		return fmt.Errorf("%w: index buffer for mesh '%s': %v", core.ErrBufferAllocation, pair.Name, err)
	}
	gs.renderer.BufferBind(metadata.BufferTargetIndex, pair.IndexBuffer)
	if err = gs.renderer.BufferUpload(metadata.BufferTargetIndex, metadata.IndexBytes(indices)); err != nil {
		return fmt.Errorf("upload indices of mesh '%s': %w", pair.Name, err)
	}
	return nil
}

/**
 * @brief Releases both buffers of the pair. Calling it again on the same pair does nothing.
 */
func (gs *GeometrySystem) Destroy(pair *metadata.BufferPair) {
	if pair == nil || pair.Destroyed() {
		return
	}
	if pair.VertexBuffer != 0 {
		gs.renderer.BufferDestroy(pair.VertexBuffer)
	}
	if pair.IndexBuffer != 0 {
		gs.renderer.BufferDestroy(pair.IndexBuffer)
	}
	pair.MarkDestroyed()
}
