package metadata

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/math"
)

func TestVertexLayout(t *testing.T) {
	var v Vertex
	assert.Equal(t, uintptr(VertexStride), unsafe.Sizeof(v))
	assert.Equal(t, uintptr(PositionOffset), unsafe.Offsetof(v.Position))
	assert.Equal(t, uintptr(NormalOffset), unsafe.Offsetof(v.Normal))
	assert.Equal(t, uintptr(ColourOffset), unsafe.Offsetof(v.Colour))
	assert.Equal(t, uintptr(TexcoordOffset), unsafe.Offsetof(v.Texcoord))
	assert.Equal(t, 48, VertexStride)
}

func TestAttributeLayouts(t *testing.T) {
	tests := []struct {
		kind       AttributeKind
		components int32
		offset     int
	}{
		{AttributePosition, 3, 0},
		{AttributeNormal, 3, 12},
		{AttributeColour, 4, 24},
		{AttributeTexCoord, 2, 40},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			l := tt.kind.Layout()
			assert.Equal(t, tt.components, l.Components)
			assert.Equal(t, tt.offset, l.Offset)
		})
	}
}

func TestVertexBytesDecode(t *testing.T) {
	vs := []Vertex{
		{
			Position: math.NewVec3(1, 2, 3),
			Normal:   math.NewVec3(0, 1, 0),
			Colour:   math.NewVec4(1, 0, 0, 1),
			Texcoord: math.NewVec2(0.25, 0.75),
		},
		{Position: math.NewVec3(-1, -2, -3)},
	}
	b := VertexBytes(vs)
	require.Len(t, b, 2*VertexStride)
	assert.Equal(t, vs, VerticesFromBytes(b))

	assert.Nil(t, VertexBytes(nil))
	assert.Nil(t, VerticesFromBytes(b[:VertexStride-1]))
}

func TestIndexBytesDecode(t *testing.T) {
	idx := []uint32{0, 1, 2, 2, 3, 0}
	b := IndexBytes(idx)
	require.Len(t, b, len(idx)*IndexSize)
	assert.Equal(t, idx, IndicesFromBytes(b))
	assert.Nil(t, IndexBytes(nil))
}

func TestHandlesNilSafe(t *testing.T) {
	var a *AttributeHandle
	var u *UniformHandle
	assert.False(t, a.Present())
	assert.False(t, u.Present())

	var set AttributeSet
	set[AttributeNormal] = &AttributeHandle{Kind: AttributeNormal, Name: "normal", Location: 4}
	present := set.Present()
	require.Len(t, present, 1)
	assert.Equal(t, AttributeNormal, present[0].Kind)
}

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	assert.Equal(t, DefaultScale, cfg.Scale)
	assert.Equal(t, [AttributeCount]string{"position", "normal", "colour", "textureCoord"}, cfg.AttributeNames)
	assert.Equal(t, [UniformCount]string{"projectionMatrix", "viewMatrix", "time", "tint"}, cfg.UniformNames)
	assert.Equal(t, math.NewVec3(0.5, 0.5, 0.5), cfg.DefaultNormal)
	assert.Equal(t, math.NewVec2(0.5, 0.5), cfg.DefaultTexCoord)
}
