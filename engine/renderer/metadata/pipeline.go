package metadata

import (
	"github.com/spaghettifunk/meshview/engine/math"
)

/** @brief The factor positions and normals are multiplied by before upload. */
const DefaultScale float32 = 0.2

var (
	/** @brief Substituted for a missing normal. Stands for "no data", not a lighting normal. */
	DefaultNormal = math.NewVec3(0.5, 0.5, 0.5)
	/** @brief Substituted for a missing texture coordinate. */
	DefaultTexCoord = math.NewVec2(0.5, 0.5)
	/** @brief The colour baked into meshes that carry none. */
	DefaultColour = math.NewVec4(0, 0.5, 0, 1)
	/** @brief The neutral per-draw tint. */
	DefaultTint = math.NewVec4(1, 1, 1, 1)
)

/**
 * @brief Configuration of the mesh-to-GPU conversion and the shader inputs
 * the pipeline looks for.
 */
type PipelineConfig struct {
	/** @brief Multiplies every position and normal before upload. */
	Scale float32
	/** @brief The colour baked into every vertex unless UseMeshColours is set. */
	Colour math.Vec4
	/** @brief Take per-vertex colours from the mesh where it has them, instead of Colour. */
	UseMeshColours bool
	/** @brief The normal substituted when a mesh has none for a vertex. */
	DefaultNormal math.Vec3
	/** @brief The texture coordinate substituted when a mesh has none for a vertex. */
	DefaultTexCoord math.Vec2
	/** @brief The shader attribute name looked up for each attribute kind. */
	AttributeNames [AttributeCount]string
	/** @brief The shader uniform name looked up for each uniform kind. */
	UniformNames [UniformCount]string
}

// DefaultPipelineConfig returns the stock configuration.
func DefaultPipelineConfig() PipelineConfig {
	cfg := PipelineConfig{
		Scale:           DefaultScale,
		Colour:          DefaultColour,
		DefaultNormal:   DefaultNormal,
		DefaultTexCoord: DefaultTexCoord,
	}
	for k := AttributeKind(0); k < AttributeCount; k++ {
		cfg.AttributeNames[k] = k.String()
	}
	for k := UniformKind(0); k < UniformCount; k++ {
		cfg.UniformNames[k] = k.String()
	}
	return cfg
}
