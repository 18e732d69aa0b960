package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/rendertest"
)

func TestResolveReturnsNilOnlyWhenUndeclared(t *testing.T) {
	backend, sm := newTestManager(t)
	program, err := backend.ProgramCreate(fullShader())
	require.NoError(t, err)
	ss := sm.Shader()

	for _, name := range []string{"position", "normal", "colour", "textureCoord"} {
		h := ss.ResolveAttribute(program, metadata.AttributePosition, name)
		if assert.True(t, h.Present(), name) {
			assert.Equal(t, name, h.Name)
		}
	}
	for _, name := range []string{"tangent", "Position", "fragColour"} {
		assert.Nil(t, ss.ResolveAttribute(program, metadata.AttributePosition, name), name)
	}
	assert.Nil(t, ss.ResolveAttribute(program, metadata.AttributePosition, ""))
	assert.Nil(t, ss.ResolveAttribute(0, metadata.AttributePosition, "position"))

	for _, name := range []string{"projectionMatrix", "viewMatrix", "time", "tint"} {
		assert.True(t, ss.ResolveUniform(program, metadata.UniformTime, name).Present(), name)
	}
	assert.Nil(t, ss.ResolveUniform(program, metadata.UniformTime, "lightPosition"))
	assert.Nil(t, ss.ResolveUniform(program, metadata.UniformTime, ""))
}

func TestResolvePositionOnlyShader(t *testing.T) {
	backend, sm := newTestManager(t)
	program, err := backend.ProgramCreate(positionOnlyShader())
	require.NoError(t, err)

	config := metadata.DefaultPipelineConfig()
	attrs := sm.Shader().ResolveAttributes(program, config.AttributeNames)
	assert.True(t, attrs[metadata.AttributePosition].Present())
	assert.False(t, attrs[metadata.AttributeNormal].Present())
	assert.False(t, attrs[metadata.AttributeColour].Present())
	assert.False(t, attrs[metadata.AttributeTexCoord].Present())
	assert.Len(t, attrs.Present(), 1)

	uniforms := sm.Shader().ResolveUniforms(program, config.UniformNames)
	assert.True(t, uniforms.Get(metadata.UniformProjection).Present())
	assert.False(t, uniforms.Get(metadata.UniformView).Present())
	assert.False(t, uniforms.Get(metadata.UniformTime).Present())
	assert.False(t, uniforms.Get(metadata.UniformTint).Present())
}

func TestResolveUsesConfiguredNames(t *testing.T) {
	backend := rendertest.New()
	config := metadata.DefaultPipelineConfig()
	config.AttributeNames[metadata.AttributeColour] = ""
	ss, err := NewShaderSystem(&config, backend)
	require.NoError(t, err)

	require.NoError(t, ss.Load(fullShader()))
	attrs := ss.Current().Attributes
	assert.True(t, attrs[metadata.AttributePosition].Present())
	assert.False(t, attrs[metadata.AttributeColour].Present())
}

func TestNewShaderSystemNeedsPositionName(t *testing.T) {
	config := metadata.DefaultPipelineConfig()
	config.AttributeNames[metadata.AttributePosition] = ""
	_, err := NewShaderSystem(&config, rendertest.New())
	assert.Error(t, err)
}

func TestShaderStateMachine(t *testing.T) {
	backend, sm := newTestManager(t)
	ss := sm.Shader()

	assert.Equal(t, metadata.ShaderStateUnloaded, ss.State())
	assert.Nil(t, ss.Current())

	// A failure with nothing linked leaves nothing to draw with.
	err := ss.Load(brokenShader())
	assert.ErrorIs(t, err, core.ErrShaderLink)
	assert.Equal(t, metadata.ShaderStateFailed, ss.State())
	assert.Nil(t, ss.Current())
	assert.Contains(t, ss.LastError(), "undeclared identifier")

	require.NoError(t, ss.Load(fullShader()))
	assert.Equal(t, metadata.ShaderStateLinked, ss.State())
	assert.Equal(t, "GLSL: v4.10", ss.StatusText())
	assert.Empty(t, ss.LastError())
	linked := ss.Current()
	require.NotNil(t, linked)
	assert.Equal(t, uint32(1), linked.Generation)

	err = ss.Load(brokenShader())
	assert.ErrorIs(t, err, core.ErrShaderLink)
	assert.Equal(t, metadata.ShaderStateFailed, ss.State())
	assert.Same(t, linked, ss.Current())
	assert.Equal(t, ss.LastError(), ss.StatusText())
	assert.NotNil(t, backend.Program(linked.Program))

	require.NoError(t, ss.Load(positionOnlyShader()))
	assert.Equal(t, uint32(2), ss.Current().Generation)
	assert.Nil(t, backend.Program(linked.Program))
	assert.Equal(t, 1, backend.LivePrograms())
}

func TestDiscardReleasesCandidate(t *testing.T) {
	backend, sm := newTestManager(t)
	ss := sm.Shader()
	require.NoError(t, ss.Load(fullShader()))
	linked := ss.Current()

	candidate, err := ss.Compile(positionOnlyShader())
	require.NoError(t, err)
	assert.Equal(t, metadata.ShaderStateCompiling, ss.State())

	ss.Discard(candidate, core.ErrBufferAllocation)
	assert.Equal(t, metadata.ShaderStateFailed, ss.State())
	assert.Equal(t, core.ErrBufferAllocation.Error(), ss.LastError())
	assert.Same(t, linked, ss.Current())
	assert.Equal(t, 1, backend.LivePrograms())
}

func TestShaderShutdown(t *testing.T) {
	backend, sm := newTestManager(t)
	require.NoError(t, sm.Shader().Load(fullShader()))
	require.NoError(t, sm.Shader().Shutdown())

	assert.Zero(t, backend.LivePrograms())
	assert.Nil(t, sm.Shader().Current())
	assert.Equal(t, metadata.ShaderStateUnloaded, sm.Shader().State())
}
