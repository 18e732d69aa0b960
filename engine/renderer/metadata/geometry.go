package metadata

import (
	"github.com/spaghettifunk/meshview/engine/math"
)

/** @brief An identifier of a GPU-side object. Zero is never a valid object. */
type BufferID uint32

/** @brief The binding point a buffer is attached to. */
type BufferTarget int

const (
	/** @brief Vertex data (GL_ARRAY_BUFFER). */
	BufferTargetVertex BufferTarget = iota
	/** @brief Index data (GL_ELEMENT_ARRAY_BUFFER). */
	BufferTargetIndex
)

func (t BufferTarget) String() string {
	switch t {
	case BufferTargetVertex:
		return "vertex"
	case BufferTargetIndex:
		return "index"
	default:
		return "unknown"
	}
}

/**
 * @brief A vertex buffer plus an index buffer describing one drawable sub-mesh.
 * Created once by the geometry system and destroyed exactly once by its owner.
 */
type BufferPair struct {
	/** @brief The name of the sub-mesh the buffers were built from. */
	Name string
	/** @brief The vertex buffer holding interleaved Vertex records. */
	VertexBuffer BufferID
	/** @brief The index buffer holding the triangle indices. */
	IndexBuffer BufferID
	/** @brief The number of vertices uploaded. */
	VertexCount uint32
	/** @brief The number of indices uploaded. */
	IndexCount uint32
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D

	destroyed bool
}

// Destroyed reports whether the pair's buffers were already released.
func (p *BufferPair) Destroyed() bool {
	return p.destroyed
}

// MarkDestroyed flags the pair as released. Only the geometry system calls this.
func (p *BufferPair) MarkDestroyed() {
	p.destroyed = true
	p.VertexBuffer = 0
	p.IndexBuffer = 0
}
