package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// RendererBackend is the GPU command surface the systems drive. Every call is
// made from the thread that owns the rendering context.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error

	// Buffers
	BufferCreate() (metadata.BufferID, error)
	BufferDestroy(id metadata.BufferID)
	BufferBind(target metadata.BufferTarget, id metadata.BufferID)
	BufferUpload(target metadata.BufferTarget, data []byte) error

	// Vertex attributes and drawing
	VertexAttributePointer(location uint32, components int32, stride int32, offset int)
	VertexAttributeEnable(location uint32)
	VertexAttributeDisable(location uint32)
	DrawIndexedTriangles(indexCount uint32) error

	// Programs
	ProgramCreate(source metadata.ShaderSource) (metadata.ProgramID, error)
	ProgramDestroy(program metadata.ProgramID)
	ProgramUse(program metadata.ProgramID)
	AttributeLocation(program metadata.ProgramID, name string) int32
	UniformLocation(program metadata.ProgramID, name string) int32
	LanguageVersion() string

	// Uniforms, on the program in use
	UniformMatrix4(location int32, m mgl32.Mat4)
	UniformFloat(location int32, v float32)
	UniformVec4(location int32, v math.Vec4)
}

type RendererType uint8

const (
	OpenGL RendererType = iota
	Recording
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}
