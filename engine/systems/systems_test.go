package systems

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/rendertest"
)

const fullVertexShader = `#version 410 core
in vec4 position;
in vec4 normal;
in vec4 colour;
in vec2 textureCoord;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform float time;

out vec4 fragColour;

void main()
{
    fragColour = colour;
    gl_Position = projectionMatrix * viewMatrix * position;
}
`

const fullFragmentShader = `#version 410 core
in vec4 fragColour;
uniform vec4 tint;
out vec4 outColour;

void main()
{
    outColour = fragColour * tint;
}
`

const positionOnlyVertexShader = `#version 410 core
in vec4 position;
uniform mat4 projectionMatrix;

void main()
{
    gl_Position = projectionMatrix * position;
}
`

const plainFragmentShader = `#version 410 core
out vec4 outColour;

void main()
{
    outColour = vec4(1.0);
}
`

func fullShader() metadata.ShaderSource {
	return metadata.ShaderSource{Name: "full", Vertex: fullVertexShader, Fragment: fullFragmentShader}
}

func positionOnlyShader() metadata.ShaderSource {
	return metadata.ShaderSource{Name: "position-only", Vertex: positionOnlyVertexShader, Fragment: plainFragmentShader}
}

func brokenShader() metadata.ShaderSource {
	return metadata.ShaderSource{
		Name:     "broken",
		Vertex:   fullVertexShader,
		Fragment: "#version 410 core\n#error 'outColour' : undeclared identifier\n",
	}
}

func triangle(name string) *metadata.MeshData {
	return &metadata.MeshData{
		Name: name,
		Positions: []math.Vec3{
			math.NewVec3(0, 0, 0),
			math.NewVec3(1, 0, 0),
			math.NewVec3(0, 1, 0),
		},
		Indices: []uint32{0, 1, 2},
	}
}

func quad(name string) *metadata.MeshData {
	return &metadata.MeshData{
		Name: name,
		Positions: []math.Vec3{
			math.NewVec3(-1, -1, 0),
			math.NewVec3(1, -1, 0),
			math.NewVec3(1, 1, 0),
			math.NewVec3(-1, 1, 0),
		},
		Normals: []math.Vec3{
			math.NewVec3(0, 0, 1),
			math.NewVec3(0, 0, 1),
			math.NewVec3(0, 0, 1),
			math.NewVec3(0, 0, 1),
		},
		TexCoords: []math.Vec2{
			math.NewVec2(0, 0),
			math.NewVec2(1, 0),
			math.NewVec2(1, 1),
			math.NewVec2(0, 1),
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

var red = math.NewVec4(1, 0, 0, 1)

func newTestManager(t *testing.T) (*rendertest.Backend, *SystemManager) {
	t.Helper()
	backend := rendertest.New()
	config := metadata.DefaultPipelineConfig()
	sm, err := NewSystemManager(&config, backend)
	require.NoError(t, err)
	return backend, sm
}

func decodeVertices(t *testing.T, backend *rendertest.Backend, pair *metadata.BufferPair) []metadata.Vertex {
	t.Helper()
	data := backend.BufferData(pair.VertexBuffer)
	require.Len(t, data, int(pair.VertexCount)*metadata.VertexStride)
	return metadata.VerticesFromBytes(data)
}
