package metadata

import (
	"unsafe"

	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief Represents a single interleaved vertex as uploaded to the GPU.
 * Field order is fixed; the attribute pointer offsets below depend on it.
 */
type Vertex struct {
	/** @brief The position of the vertex */
	Position math.Vec3
	/** @brief The normal of the vertex. */
	Normal math.Vec3
	/** @brief The colour of the vertex, RGBA in 0..1. */
	Colour math.Vec4
	/** @brief The texture coordinate of the vertex. */
	Texcoord math.Vec2
}

const (
	/** @brief The size of a single float component in bytes. */
	FloatSize = 4
	/** @brief The size of a whole Vertex in bytes, a.k.a. the attribute stride. */
	VertexStride = 12 * FloatSize
	/** @brief The size of each index in bytes. */
	IndexSize = 4

	PositionOffset = 0
	NormalOffset   = 3 * FloatSize
	ColourOffset   = 6 * FloatSize
	TexcoordOffset = 10 * FloatSize
)

// VertexBytes returns the raw bytes of vertices exactly as they are uploaded.
// The returned slice aliases the vertex memory.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexStride)
}

// VerticesFromBytes decodes an uploaded vertex buffer back into vertices.
// Trailing bytes that do not form a whole vertex are ignored.
func VerticesFromBytes(data []byte) []Vertex {
	n := len(data) / VertexStride
	if n == 0 {
		return nil
	}
	out := make([]Vertex, n)
	copy(VertexBytes(out), data[:n*VertexStride])
	return out
}

// IndexBytes returns the raw bytes of indices exactly as they are uploaded.
// The returned slice aliases the index memory.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*IndexSize)
}

// IndicesFromBytes decodes an uploaded index buffer back into indices.
func IndicesFromBytes(data []byte) []uint32 {
	n := len(data) / IndexSize
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	copy(IndexBytes(out), data[:n*IndexSize])
	return out
}
