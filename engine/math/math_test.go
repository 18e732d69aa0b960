package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestClampColour(t *testing.T) {
	c := ClampColour(NewVec4(-1, 0.25, 2, 1))
	assert.Equal(t, NewVec4(0, 0.25, 1, 1), c)
}

func TestExtentsOf(t *testing.T) {
	ext, center := ExtentsOf([]Vec3{
		NewVec3(-1, 0, 2),
		NewVec3(3, -4, 0),
		NewVec3(1, 2, 1),
	})
	assert.Equal(t, NewVec3(-1, -4, 0), ext.Min)
	assert.Equal(t, NewVec3(3, 2, 2), ext.Max)
	assert.True(t, center.Compare(NewVec3(1, -1, 1), K_FLOAT_EPSILON))
}

func TestExtentsOfEmpty(t *testing.T) {
	ext, center := ExtentsOf(nil)
	assert.Equal(t, Extents3D{}, ext)
	assert.Equal(t, NewVec3Zero(), center)
}
