package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the engine does not load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Shader source (a .vert/.frag pair). */
	ResourceTypeShader
	/** @brief Model resource type (a collection of parsed meshes). */
	ResourceTypeModel
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeModel:
		return "model"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the source data in bytes. */
	DataSize uint64
	/** @brief The resource data: a ShaderSource or a *Model. */
	Data interface{}
}
