package components

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief A camera looking at the model from a fixed distance while it swings
 * around the vertical axis. Produces the projection and view matrices the
 * renderer feeds to the shader.
 */
type Camera struct {
	/**
	 * @brief The translation applied before the rotation.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll), in radians.
	 * NOTE: Do not set this directly, use SetEulerRotation() instead
	 * so the view matrix is recalculated when needed.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/** @brief The cached view matrix. Read it through GetView(). */
	ViewMatrix mgl32.Mat4

	/** @brief Half the frustum width at the near plane. */
	FrustumHalfWidth float32
	Near             float32
	Far              float32
	/** @brief How far the camera swings left and right, in radians. */
	SwingAmplitude float32
	/** @brief How fast the swing advances per frame. */
	SwingRate float32
}

const (
	DefaultPitch          float32 = 0.1
	DefaultDistance       float32 = 10
	DefaultNear           float32 = 4
	DefaultFar            float32 = 30
	DefaultSwingAmplitude float32 = 5
	DefaultSwingRate      float32 = 0.01
)

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3(DefaultPitch, 0, 0)
	c.Position = math.NewVec3(0, 0, -DefaultDistance)
	c.FrustumHalfWidth = 1.0 / (0.5 + 0.1)
	c.Near = DefaultNear
	c.Far = DefaultFar
	c.SwingAmplitude = DefaultSwingAmplitude
	c.SwingRate = DefaultSwingRate
	c.IsDirty = true
	c.ViewMatrix = mgl32.Ident4()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() math.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

/**
 * @brief Returns rotation × translation, rebuilding it only when the camera moved.
 */
func (c *Camera) GetView() mgl32.Mat4 {
	if c.IsDirty {
		rotation := mgl32.HomogRotate3DX(c.EulerRotation.X).
			Mul4(mgl32.HomogRotate3DY(c.EulerRotation.Y)).
			Mul4(mgl32.HomogRotate3DZ(c.EulerRotation.Z))
		translation := mgl32.Translate3D(c.Position.X, c.Position.Y, c.Position.Z)

		c.ViewMatrix = rotation.Mul4(translation)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

/**
 * @brief Returns a perspective frustum for a viewport of the given size.
 * The vertical extent follows the viewport's height/width ratio.
 */
func (c *Camera) GetProjection(width, height uint32) mgl32.Mat4 {
	w := c.FrustumHalfWidth
	h := w
	if width > 0 {
		h = w * float32(height) / float32(width)
	}
	return mgl32.Frustum(-w, w, -h, h, c.Near, c.Far)
}

/**
 * @brief Positions the swing for the given frame: yaw = amplitude · sin(frame · rate).
 */
func (c *Camera) Swing(frame uint64) {
	c.EulerRotation.Y = c.SwingAmplitude * math32.Sin(float32(frame)*c.SwingRate)
	c.IsDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation.Y += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -limit, limit)

	c.IsDirty = true
}

// MoveForward moves the camera towards the model.
func (c *Camera) MoveForward(amount float32) {
	c.Position.Z += amount
	c.IsDirty = true
}

func (c *Camera) MoveBackward(amount float32) {
	c.Position.Z -= amount
	c.IsDirty = true
}
