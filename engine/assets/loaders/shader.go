package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

const (
	VertexShaderExtension   = ".vert"
	FragmentShaderExtension = ".frag"
)

// ShaderLoader reads the two stages of a shader: <path>.vert and <path>.frag.
type ShaderLoader struct{}

/**
 * @brief Loads a shader source pair.
 *
 * @param path The path without extension. A path ending in either stage's
 * extension is accepted too.
 */
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	base := ShaderBasePath(path)

	vertex, err := os.ReadFile(base + VertexShaderExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fragment, err := os.ReadFile(base + FragmentShaderExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment shader: %w", err)
	}

	source := metadata.ShaderSource{
		Name:     filepath.Base(base),
		Vertex:   string(vertex),
		Fragment: string(fragment),
	}
	return &metadata.Resource{
		Name:     source.Name,
		FullPath: base,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(vertex) + len(fragment)),
		Data:     source,
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}

// ShaderBasePath strips a stage extension from path, if present.
func ShaderBasePath(path string) string {
	switch filepath.Ext(path) {
	case VertexShaderExtension, FragmentShaderExtension:
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}
