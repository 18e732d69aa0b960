package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// RendererSystem draws the current drawable with the current shader once per frame.
type RendererSystem struct {
	backend        renderer.RendererBackend
	shaderSystem   *ShaderSystem
	meshLoader     *MeshLoaderSystem
	geometrySystem *GeometrySystem

	// The model the drawable was built from, kept to rebuild it on shader reload.
	model    *metadata.Model
	colour   math.Vec4
	drawable *Drawable

	// application
	AppName   string
	AppWidth  uint32
	AppHeight uint32
}

func NewRendererSystem(backend renderer.RendererBackend, gs *GeometrySystem, ss *ShaderSystem, mls *MeshLoaderSystem) (*RendererSystem, error) {
	if backend == nil || gs == nil || ss == nil || mls == nil {
		return nil, fmt.Errorf("func NewRendererSystem - backend and systems must not be nil")
	}
	return &RendererSystem{
		backend:        backend,
		geometrySystem: gs,
		shaderSystem:   ss,
		meshLoader:     mls,
	}, nil
}

func (r *RendererSystem) Initialize(appName string, appWidth, appHeight uint32) error {
	r.AppName = appName
	r.AppWidth = appWidth
	r.AppHeight = appHeight
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		return err
	}
	core.LogDebug("Renderer initialized for %s (%dx%d).", appName, appWidth, appHeight)
	return nil
}

/**
 * @brief Releases the drawable and the program, then shuts the backend down.
 */
func (r *RendererSystem) Shutdown() error {
	r.drawable.Destroy()
	r.drawable = nil
	r.model = nil
	if err := r.shaderSystem.Shutdown(); err != nil {
		return err
	}
	return r.backend.Shutdown()
}

func (r *RendererSystem) OnResized(width, height uint32) error {
	r.AppWidth = width
	r.AppHeight = height
	return r.backend.Resized(width, height)
}

// Drawable returns the drawable in use, or nil.
func (r *RendererSystem) Drawable() *Drawable {
	return r.drawable
}

func (r *RendererSystem) ShaderSystem() *ShaderSystem {
	return r.shaderSystem
}

/**
 * @brief Uploads model and makes it the one drawn. The previous drawable is
 * released only after the new one is fully built; on error it stays in use.
 */
func (r *RendererSystem) LoadModel(model *metadata.Model, colour math.Vec4) error {
	d, err := r.meshLoader.Load(model, colour)
	if err != nil {
		return err
	}
	old := r.drawable
	r.drawable = d
	r.model = model
	r.colour = colour
	old.Destroy()
	core.LogDebug("Model '%s' uploaded at scale %.2f into %d buffer pairs.", model.Name, r.geometrySystem.Scale(), len(d.BufferPairs()))
	return nil
}

/**
 * @brief Compiles source and, when it links, rebuilds the drawable for it.
 * Any failure leaves the previous program and drawable in use.
 */
func (r *RendererSystem) ReloadShader(source metadata.ShaderSource) error {
	shader, err := r.shaderSystem.Compile(source)
	if err != nil {
		return err
	}

	var d *Drawable
	if r.model != nil {
		if d, err = r.meshLoader.Load(r.model, r.colour); err != nil {
			r.shaderSystem.Discard(shader, err)
			return err
		}
	}

	r.shaderSystem.Commit(shader)
	if d != nil {
		old := r.drawable
		r.drawable = d
		old.Destroy()
	}
	core.LogInfo("Shader '%s' loaded. %s", source.Name, r.shaderSystem.StatusText())
	return nil
}

/**
 * @brief Draws the drawable with the program in use.
 * Buffers are unbound afterwards on every path.
 */
func (r *RendererSystem) DrawFrame(frame *metadata.FramePacket) error {
	shader := r.shaderSystem.Current()
	if shader == nil {
		return core.ErrNoShader
	}
	if frame == nil {
		frame = metadata.NewFramePacket()
	}

	r.backend.ProgramUse(shader.Program)
	defer func() {
		r.backend.BufferBind(metadata.BufferTargetVertex, 0)
		r.backend.BufferBind(metadata.BufferTargetIndex, 0)
	}()

	if u := shader.Uniforms.Get(metadata.UniformProjection); u.Present() {
		r.backend.UniformMatrix4(u.Location, frame.Projection)
	}
	if u := shader.Uniforms.Get(metadata.UniformView); u.Present() {
		r.backend.UniformMatrix4(u.Location, frame.View)
	}
	if u := shader.Uniforms.Get(metadata.UniformTime); u.Present() {
		r.backend.UniformFloat(u.Location, frame.Time)
	}
	if u := shader.Uniforms.Get(metadata.UniformTint); u.Present() {
		r.backend.UniformVec4(u.Location, frame.Tint)
	}

	return r.drawable.Draw(frame, shader.Attributes)
}

/**
 * @brief Runs a whole frame on the backend: begin, draw, end. The frame is
 * always ended, and every error met on the way is returned.
 */
func (r *RendererSystem) RenderFrame(frame *metadata.FramePacket) error {
	var delta float64
	if frame != nil {
		delta = frame.DeltaTime
	}
	if err := r.backend.BeginFrame(delta); err != nil {
		return err
	}
	drawErr := r.DrawFrame(frame)
	endErr := r.backend.EndFrame(delta)
	return errors.Join(drawErr, endErr)
}
