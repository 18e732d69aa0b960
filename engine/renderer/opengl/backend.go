package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

var glTargets = map[metadata.BufferTarget]uint32{
	metadata.BufferTargetVertex: gl.ARRAY_BUFFER,
	metadata.BufferTargetIndex:  gl.ELEMENT_ARRAY_BUFFER,
}

// Backend drives an OpenGL 4.1 core context. The context must be current on
// the calling thread before Initialize.
type Backend struct {
	ClearColour math.Vec4

	vao    uint32
	width  int32
	height int32
}

func New() *Backend {
	return &Backend{
		ClearColour: math.NewVec4(0.1, 0.1, 0.12, 1),
	}
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	core.LogInfo("OpenGL %s for %s", gl.GoStr(gl.GetString(gl.VERSION)), appName)

	// Core profile requires a vertex array object to be bound for any draw.
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return b.Resized(appWidth, appHeight)
}

func (b *Backend) Shutdown() error {
	if b.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.width = int32(width)
	b.height = int32(height)
	gl.Viewport(0, 0, b.width, b.height)
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	c := b.ClearColour
	gl.ClearColor(c.X, c.Y, c.Z, c.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	return checkError("end frame")
}

func (b *Backend) BufferCreate() (metadata.BufferID, error) {
	var handle uint32
	gl.GenBuffers(1, &handle)
	if handle == 0 {
		if err := checkError("gen buffers"); err != nil {
			return 0, err
		}
		return 0, core.ErrBufferAllocation
	}
	return metadata.BufferID(handle), nil
}

func (b *Backend) BufferDestroy(id metadata.BufferID) {
	handle := uint32(id)
	gl.DeleteBuffers(1, &handle)
}

func (b *Backend) BufferBind(target metadata.BufferTarget, id metadata.BufferID) {
	gl.BindBuffer(glTargets[target], uint32(id))
}

// BufferUpload transfers data to the buffer bound to target.
func (b *Backend) BufferUpload(target metadata.BufferTarget, data []byte) error {
	if len(data) == 0 {
		gl.BufferData(glTargets[target], 0, nil, gl.STATIC_DRAW)
	} else {
		gl.BufferData(glTargets[target], len(data), gl.Ptr(data), gl.STATIC_DRAW)
	}
	return checkError("buffer upload")
}

func (b *Backend) VertexAttributePointer(location uint32, components int32, stride int32, offset int) {
	gl.VertexAttribPointer(location, components, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (b *Backend) VertexAttributeEnable(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (b *Backend) VertexAttributeDisable(location uint32) {
	gl.DisableVertexAttribArray(location)
}

func (b *Backend) DrawIndexedTriangles(indexCount uint32) error {
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, gl.PtrOffset(0))
	return checkError("draw elements")
}

// ProgramCreate compiles both stages and links them. On failure the info log
// of the failing step is returned.
func (b *Backend) ProgramCreate(source metadata.ShaderSource) (metadata.ProgramID, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, source.Vertex)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex shader %s: %v", core.ErrShaderLink, source.Name, err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl.FRAGMENT_SHADER, source.Fragment)
	if err != nil {
		return 0, fmt.Errorf("%w: fragment shader %s: %v", core.ErrShaderLink, source.Name, err)
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		lg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(lg))
		gl.DeleteProgram(handle)
		return 0, fmt.Errorf("%w: %s: %s", core.ErrShaderLink, source.Name, strings.TrimRight(lg, "\x00"))
	}
	return metadata.ProgramID(handle), nil
}

func compileShader(shaderType uint32, src string) (uint32, error) {
	handle := gl.CreateShader(shaderType)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("failed to compile: %s", strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

func (b *Backend) ProgramDestroy(program metadata.ProgramID) {
	gl.DeleteProgram(uint32(program))
}

func (b *Backend) ProgramUse(program metadata.ProgramID) {
	gl.UseProgram(uint32(program))
}

func (b *Backend) AttributeLocation(program metadata.ProgramID, name string) int32 {
	return gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *Backend) UniformLocation(program metadata.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *Backend) LanguageVersion() string {
	return gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
}

func (b *Backend) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *Backend) UniformFloat(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *Backend) UniformVec4(location int32, v math.Vec4) {
	gl.Uniform4f(location, v.X, v.Y, v.Z, v.W)
}

// GL_CONTEXT_LOST is not part of the 4.1 core enums.
const glContextLost uint32 = 0x0507

// A lost context may keep reporting errors, so draining is bounded.
const maxQueuedErrors = 16

var glErrors = map[uint32]string{
	gl.INVALID_ENUM:                  "invalid enum",
	gl.INVALID_VALUE:                 "invalid value",
	gl.INVALID_OPERATION:             "invalid operation",
	gl.INVALID_FRAMEBUFFER_OPERATION: "invalid framebuffer operation",
	gl.OUT_OF_MEMORY:                 "out of memory",
}

// checkError drains the GL error queue and reports the first error found.
func checkError(op string) error {
	var first uint32
	for i := 0; i < maxQueuedErrors; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = code
		}
	}
	switch first {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("%s: %w", op, core.ErrBufferAllocation)
	case glContextLost:
		return fmt.Errorf("%s: %w", op, core.ErrContextLost)
	}
	if name, ok := glErrors[first]; ok {
		return fmt.Errorf("%s: gl error 0x%x (%s)", op, first, name)
	}
	return fmt.Errorf("%s: %w: gl error 0x%x", op, core.ErrUnknown, first)
}
