package components

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/meshview/engine/math"
)

func TestDefaultView(t *testing.T) {
	c := NewCamera()
	assert.True(t, c.IsDirty)

	view := c.GetView()
	assert.False(t, c.IsDirty)

	want := mgl32.HomogRotate3DX(DefaultPitch).Mul4(mgl32.Translate3D(0, 0, -DefaultDistance))
	assert.True(t, want.ApproxEqualThreshold(view, 1e-6))

	// The origin ends up in front of the camera, DefaultDistance away along -Z.
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, DefaultDistance, origin.Vec3().Len(), 1e-4)
	assert.Less(t, origin.Z(), float32(0))
}

func TestProjectionFollowsAspect(t *testing.T) {
	c := NewCamera()
	w := c.FrustumHalfWidth

	square := c.GetProjection(500, 500)
	assert.True(t, mgl32.Frustum(-w, w, -w, w, DefaultNear, DefaultFar).ApproxEqualThreshold(square, 1e-5))

	// w*400/800 and w/2 may differ in the last bit.
	wide := c.GetProjection(800, 400)
	assert.True(t, mgl32.Frustum(-w, w, -w/2, w/2, DefaultNear, DefaultFar).ApproxEqualThreshold(wide, 1e-5))
	assert.InDelta(t, 2*wide[0], wide[5], 1e-5)

	// A zero width viewport does not divide by zero.
	assert.Equal(t, square, c.GetProjection(0, 300))
}

func TestSwing(t *testing.T) {
	c := NewCamera()
	c.GetView()

	c.Swing(0)
	assert.True(t, c.IsDirty)
	assert.Zero(t, c.GetEulerRotation().Y)

	c.Swing(100)
	assert.InDelta(t, DefaultSwingAmplitude*math32.Sin(1), c.GetEulerRotation().Y, 1e-5)
	// Pitch is untouched by the swing.
	assert.Equal(t, DefaultPitch, c.GetEulerRotation().X)
}

func TestMovementMarksDirty(t *testing.T) {
	c := NewCamera()
	c.GetView()

	c.MoveForward(2)
	assert.True(t, c.IsDirty)
	assert.Equal(t, -DefaultDistance+2, c.GetPosition().Z)
	c.GetView()

	c.MoveBackward(3)
	assert.Equal(t, -DefaultDistance-1, c.GetPosition().Z)

	c.Pitch(10)
	assert.InDelta(t, 1.55334306, c.GetEulerRotation().X, 1e-6)
	c.Pitch(-20)
	assert.InDelta(t, -1.55334306, c.GetEulerRotation().X, 1e-6)

	c.Yaw(0.25)
	assert.Equal(t, float32(0.25), c.GetEulerRotation().Y)

	c.SetPosition(math.NewVec3(1, 2, 3))
	c.SetEulerRotation(math.NewVec3Zero())
	assert.True(t, mgl32.Translate3D(1, 2, 3).ApproxEqual(c.GetView()))

	c.Reset()
	assert.Equal(t, math.NewVec3(0, 0, -DefaultDistance), c.GetPosition())
}
