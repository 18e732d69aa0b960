package systems

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ShaderSystem owns the linked program and the handles resolved from it.
type ShaderSystem struct {
	config   *metadata.PipelineConfig
	renderer renderer.RendererBackend

	// The program in use. Nil until a load succeeds.
	current    *metadata.Shader
	state      metadata.ShaderState
	lastError  string
	generation uint32
}

func NewShaderSystem(config *metadata.PipelineConfig, r renderer.RendererBackend) (*ShaderSystem, error) {
	if config == nil {
		return nil, fmt.Errorf("func NewShaderSystem - config must not be nil")
	}
	if config.AttributeNames[metadata.AttributePosition] == "" {
		return nil, fmt.Errorf("func NewShaderSystem - the position attribute name must not be empty")
	}
	return &ShaderSystem{
		config:   config,
		renderer: r,
		state:    metadata.ShaderStateUnloaded,
	}, nil
}

/**
 * @brief Shuts down the shader system, destroying the program in use.
 */
func (ss *ShaderSystem) Shutdown() error {
	if ss.current != nil {
		ss.renderer.ProgramDestroy(ss.current.Program)
		ss.current = nil
	}
	ss.state = metadata.ShaderStateUnloaded
	return nil
}

/**
 * @brief Looks up a vertex input by name.
 *
 * @param program The linked program.
 * @param kind The attribute kind the handle is for.
 * @param name The name declared in the shader source.
 * @return The handle, or nil when the program does not declare the input.
 */
func (ss *ShaderSystem) ResolveAttribute(program metadata.ProgramID, kind metadata.AttributeKind, name string) *metadata.AttributeHandle {
	if name == "" || program == 0 {
		return nil
	}
	loc := ss.renderer.AttributeLocation(program, name)
	if loc < 0 {
		return nil
	}
	return &metadata.AttributeHandle{
		Kind:     kind,
		Name:     name,
		Location: uint32(loc),
	}
}

/**
 * @brief Looks up a uniform by name.
 *
 * @return The handle, or nil when the program does not declare the uniform
 * (or the linker optimised it away).
 */
func (ss *ShaderSystem) ResolveUniform(program metadata.ProgramID, kind metadata.UniformKind, name string) *metadata.UniformHandle {
	if name == "" || program == 0 {
		return nil
	}
	loc := ss.renderer.UniformLocation(program, name)
	if loc < 0 {
		return nil
	}
	return &metadata.UniformHandle{
		Kind:     kind,
		Name:     name,
		Location: loc,
	}
}

// ResolveAttributes resolves every attribute kind against names.
func (ss *ShaderSystem) ResolveAttributes(program metadata.ProgramID, names [metadata.AttributeCount]string) metadata.AttributeSet {
	var set metadata.AttributeSet
	for k := metadata.AttributeKind(0); k < metadata.AttributeCount; k++ {
		set[k] = ss.ResolveAttribute(program, k, names[k])
	}
	return set
}

// ResolveUniforms resolves every uniform kind against names.
func (ss *ShaderSystem) ResolveUniforms(program metadata.ProgramID, names [metadata.UniformCount]string) metadata.UniformSet {
	var set metadata.UniformSet
	for k := metadata.UniformKind(0); k < metadata.UniformCount; k++ {
		set[k] = ss.ResolveUniform(program, k, names[k])
	}
	return set
}

/**
 * @brief Compiles and links source and resolves its inputs, without touching
 * the program in use. The result must be passed to Commit or Discard.
 * On a link failure the state becomes Failed and the previous program stays.
 */
func (ss *ShaderSystem) Compile(source metadata.ShaderSource) (*metadata.Shader, error) {
	ss.state = metadata.ShaderStateCompiling
	core.LogDebug("Compiling shader '%s'.", source.Name)

	program, err := ss.renderer.ProgramCreate(source)
	if err != nil {
		ss.fail(err)
		return nil, err
	}

	shader := &metadata.Shader{
		Name:       source.Name,
		Program:    program,
		Attributes: ss.ResolveAttributes(program, ss.config.AttributeNames),
		Uniforms:   ss.ResolveUniforms(program, ss.config.UniformNames),
	}
	for k := metadata.AttributeKind(0); k < metadata.AttributeCount; k++ {
		if !shader.Attributes[k].Present() {
			core.LogDebug("Shader '%s' has no '%s' attribute, it will not be fed.", source.Name, ss.config.AttributeNames[k])
		}
	}
	return shader, nil
}

/**
 * @brief Makes a compiled shader the one in use. The previous program is destroyed.
 */
func (ss *ShaderSystem) Commit(shader *metadata.Shader) {
	if ss.current != nil {
		ss.renderer.ProgramDestroy(ss.current.Program)
	}
	ss.generation++
	shader.Generation = ss.generation
	ss.current = shader
	ss.state = metadata.ShaderStateLinked
	ss.lastError = ""
	core.LogDebug("Shader '%s' linked (generation %d).", shader.Name, shader.Generation)
}

/**
 * @brief Throws away a compiled shader that could not be put in use and
 * records why. The previous program stays in use.
 */
func (ss *ShaderSystem) Discard(shader *metadata.Shader, cause error) {
	if shader != nil && shader.Program != 0 {
		ss.renderer.ProgramDestroy(shader.Program)
		shader.Program = 0
	}
	ss.fail(cause)
}

func (ss *ShaderSystem) fail(cause error) {
	ss.state = metadata.ShaderStateFailed
	if cause != nil {
		ss.lastError = cause.Error()
	} else {
		ss.lastError = core.ErrUnknown.Error()
	}
}

/**
 * @brief Compiles source and puts it in use when it links.
 */
func (ss *ShaderSystem) Load(source metadata.ShaderSource) error {
	shader, err := ss.Compile(source)
	if err != nil {
		return err
	}
	ss.Commit(shader)
	return nil
}

// Current returns the shader in use, or nil.
func (ss *ShaderSystem) Current() *metadata.Shader {
	return ss.current
}

func (ss *ShaderSystem) State() metadata.ShaderState {
	return ss.state
}

// LastError returns the message of the last failed load, or "" after a success.
func (ss *ShaderSystem) LastError() string {
	return ss.lastError
}

// StatusText is the line shown to the user about the shader pipeline.
func (ss *ShaderSystem) StatusText() string {
	switch ss.state {
	case metadata.ShaderStateLinked:
		return fmt.Sprintf("GLSL: v%s", ss.renderer.LanguageVersion())
	case metadata.ShaderStateFailed:
		return ss.lastError
	case metadata.ShaderStateCompiling:
		return "compiling shaders"
	default:
		return "no shader loaded"
	}
}
