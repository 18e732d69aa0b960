package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	p := cfg.PipelineConfig()
	assert.Equal(t, metadata.DefaultPipelineConfig(), *p)
	assert.Equal(t, core.InfoLevel, cfg.LogLevel())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[application]
name = "viewer"
log_level = "debug"

[pipeline]
scale = 0.5
colour = [1.0, 0.0, 0.0, 1.0]
use_mesh_colours = true
tint_uniform = ""

[assets]
model = "models/cube.obj"
`))
	require.NoError(t, err)

	assert.Equal(t, "viewer", cfg.Application.Name)
	assert.Equal(t, uint32(1280), cfg.Application.StartWidth)
	assert.Equal(t, core.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "models/cube.obj", cfg.Assets.Model)
	assert.Equal(t, "shaders/basic", cfg.Assets.Shader)

	p := cfg.PipelineConfig()
	assert.Equal(t, float32(0.5), p.Scale)
	assert.Equal(t, math.NewVec4(1, 0, 0, 1), p.Colour)
	assert.True(t, p.UseMeshColours)
	assert.False(t, Default().PipelineConfig().UseMeshColours)
	assert.Equal(t, metadata.DefaultNormal, p.DefaultNormal)
	assert.Equal(t, "position", p.AttributeNames[metadata.AttributePosition])
	assert.Equal(t, "", p.UniformNames[metadata.UniformTint])
	assert.Equal(t, "projectionMatrix", p.UniformNames[metadata.UniformProjection])
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"zero scale", "[pipeline]\nscale = 0.0\n"},
		{"negative scale", "[pipeline]\nscale = -1.0\n"},
		{"colour out of range", "[pipeline]\ncolour = [1.5, 0.0, 0.0, 1.0]\n"},
		{"short colour", "[pipeline]\ncolour = [1.0, 0.0, 0.0]\n"},
		{"short normal", "[pipeline]\ndefault_normal = [0.5, 0.5]\n"},
		{"no position attribute", "[pipeline]\nposition_attribute = \"\"\n"},
		{"unknown key", "[pipeline]\nlighting = true\n"},
		{"bad log level", "[application]\nlog_level = \"loud\"\n"},
		{"zero width", "[application]\nstart_width = 0\n"},
		{"not toml", "[pipeline\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\nshader = \"shaders/flat\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shaders/flat", cfg.Assets.Shader)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Scale = 1
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
