package metadata

/** @brief An identifier of a linked shader program. Zero means no program. */
type ProgramID uint32

/**
 * @brief Represents the current state of the shader pipeline.
 */
type ShaderState int

const (
	/** @brief No shader was ever loaded. Nothing can be drawn.*/
	ShaderStateUnloaded ShaderState = iota
	/** @brief A shader is being compiled and linked.*/
	ShaderStateCompiling
	/** @brief The last load linked and its program is in use.*/
	ShaderStateLinked
	/** @brief The last load failed. Any previously linked program stays in use.*/
	ShaderStateFailed
)

func (s ShaderState) String() string {
	switch s {
	case ShaderStateUnloaded:
		return "unloaded"
	case ShaderStateCompiling:
		return "compiling"
	case ShaderStateLinked:
		return "linked"
	case ShaderStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

/**
 * @brief The source text of a shader program, one entry per stage.
 */
type ShaderSource struct {
	Name     string
	Vertex   string
	Fragment string
}

/** @brief The vertex inputs the pipeline knows how to feed. */
type AttributeKind int

const (
	AttributePosition AttributeKind = iota
	AttributeNormal
	AttributeColour
	AttributeTexCoord
	AttributeCount
)

/** @brief Where an attribute lives inside a Vertex. */
type AttributeLayout struct {
	/** @brief Number of float components. */
	Components int32
	/** @brief Byte offset from the start of the Vertex. */
	Offset int
}

var attributeLayouts = [AttributeCount]AttributeLayout{
	AttributePosition: {Components: 3, Offset: PositionOffset},
	AttributeNormal:   {Components: 3, Offset: NormalOffset},
	AttributeColour:   {Components: 4, Offset: ColourOffset},
	AttributeTexCoord: {Components: 2, Offset: TexcoordOffset},
}

// Layout returns the fixed pointer layout of the attribute kind.
func (k AttributeKind) Layout() AttributeLayout {
	return attributeLayouts[k]
}

func (k AttributeKind) String() string {
	switch k {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeColour:
		return "colour"
	case AttributeTexCoord:
		return "textureCoord"
	default:
		return "unknown"
	}
}

/**
 * @brief A vertex attribute declared by the linked program. A nil handle means
 * the program does not declare the attribute.
 */
type AttributeHandle struct {
	Kind     AttributeKind
	Name     string
	Location uint32
}

// Present reports whether the attribute exists. Safe on a nil handle.
func (h *AttributeHandle) Present() bool {
	return h != nil
}

/** @brief The resolved attributes of a program, indexed by kind. */
type AttributeSet [AttributeCount]*AttributeHandle

// Present returns the handles that exist, in kind order.
func (s AttributeSet) Present() []*AttributeHandle {
	out := make([]*AttributeHandle, 0, AttributeCount)
	for _, h := range s {
		if h.Present() {
			out = append(out, h)
		}
	}
	return out
}

/** @brief The per-frame uniforms the pipeline knows how to push. */
type UniformKind int

const (
	UniformProjection UniformKind = iota
	UniformView
	UniformTime
	/** @brief Per-draw colour, applied on top of the baked vertex colour. */
	UniformTint
	UniformCount
)

func (k UniformKind) String() string {
	switch k {
	case UniformProjection:
		return "projectionMatrix"
	case UniformView:
		return "viewMatrix"
	case UniformTime:
		return "time"
	case UniformTint:
		return "tint"
	default:
		return "unknown"
	}
}

/**
 * @brief A uniform declared by the linked program. A nil handle means the
 * program does not declare the uniform.
 */
type UniformHandle struct {
	Kind     UniformKind
	Name     string
	Location int32
}

// Present reports whether the uniform exists. Safe on a nil handle.
func (h *UniformHandle) Present() bool {
	return h != nil
}

/** @brief The resolved uniforms of a program, indexed by kind. */
type UniformSet [UniformCount]*UniformHandle

// Get returns the handle for kind, or nil.
func (s UniformSet) Get(kind UniformKind) *UniformHandle {
	return s[kind]
}

/**
 * @brief A linked shader program together with the inputs resolved from it.
 */
type Shader struct {
	/** @brief The name of the source the program was built from. */
	Name string
	/** @brief The linked program. */
	Program ProgramID
	/** @brief The attributes resolved once after linking. */
	Attributes AttributeSet
	/** @brief The uniforms resolved once after linking. */
	Uniforms UniformSet
	/** @brief Incremented every time a new program replaces the previous one. */
	Generation uint32
}
