package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief Everything the renderer needs to draw a single frame. Built fresh by
 * the host every frame.
 */
type FramePacket struct {
	/** @brief The frame counter, starting at 0. */
	FrameNumber uint64
	/** @brief Seconds since the previous frame. */
	DeltaTime float64
	/** @brief Seconds since the application started. Fed to the time uniform. */
	Time float32
	/** @brief The projection matrix. */
	Projection mgl32.Mat4
	/** @brief The view matrix. */
	View mgl32.Mat4
	/** @brief The per-draw colour fed to the tint uniform. */
	Tint math.Vec4
}

// NewFramePacket returns a packet with identity matrices and a neutral tint.
func NewFramePacket() *FramePacket {
	return &FramePacket{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Tint:       DefaultTint,
	}
}
