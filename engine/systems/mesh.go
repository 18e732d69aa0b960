package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief A model uploaded to the GPU: one buffer pair per sub-mesh, in load order.
 */
type Drawable struct {
	ID         uuid.UUID
	Name       string
	Generation uint32

	pairs    []*metadata.BufferPair
	renderer renderer.RendererBackend
	geometry *GeometrySystem
}

// BufferPairs returns the pairs in draw order.
func (d *Drawable) BufferPairs() []*metadata.BufferPair {
	if d == nil {
		return nil
	}
	return d.pairs
}

/**
 * @brief Issues one indexed draw per sub-mesh with the given attributes fed.
 * Sub-meshes without indices are skipped. A nil drawable draws nothing.
 */
func (d *Drawable) Draw(frame *metadata.FramePacket, attributes metadata.AttributeSet) error {
	if d == nil {
		return nil
	}
	present := attributes.Present()
	for _, pair := range d.pairs {
		if pair.IndexCount == 0 {
			continue
		}
		if err := d.drawPair(pair, present); err != nil {
			var frameNumber uint64
			if frame != nil {
				frameNumber = frame.FrameNumber
			}
			return fmt.Errorf("draw '%s' sub-mesh '%s' in frame %d: %w", d.Name, pair.Name, frameNumber, err)
		}
	}
	return nil
}

func (d *Drawable) drawPair(pair *metadata.BufferPair, attributes []*metadata.AttributeHandle) error {
	d.renderer.BufferBind(metadata.BufferTargetVertex, pair.VertexBuffer)
	d.renderer.BufferBind(metadata.BufferTargetIndex, pair.IndexBuffer)

	for _, a := range attributes {
		layout := a.Kind.Layout()
		d.renderer.VertexAttributePointer(a.Location, layout.Components, metadata.VertexStride, layout.Offset)
		d.renderer.VertexAttributeEnable(a.Location)
	}
	defer func() {
		for _, a := range attributes {
			d.renderer.VertexAttributeDisable(a.Location)
		}
	}()

	return d.renderer.DrawIndexedTriangles(pair.IndexCount)
}

/**
 * @brief Releases every buffer pair. Safe to call more than once.
 */
func (d *Drawable) Destroy() {
	if d == nil {
		return
	}
	for _, pair := range d.pairs {
		d.geometry.Destroy(pair)
	}
	d.pairs = nil
}

// MeshLoaderSystem turns parsed models into drawables.
type MeshLoaderSystem struct {
	geometrySystem *GeometrySystem
	renderer       renderer.RendererBackend
	generation     uint32
}

func NewMeshLoaderSystem(gs *GeometrySystem, r renderer.RendererBackend) (*MeshLoaderSystem, error) {
	if gs == nil {
		return nil, fmt.Errorf("func NewMeshLoaderSystem - geometry system must not be nil")
	}
	return &MeshLoaderSystem{
		geometrySystem: gs,
		renderer:       r,
	}, nil
}

func (mls *MeshLoaderSystem) Shutdown() error {
	return nil
}

/**
 * @brief Uploads every sub-mesh of the model. When any sub-mesh fails the
 * pairs already built are released and the error is returned.
 *
 * @param model The parsed model.
 * @param colour The colour of vertices the model does not colour itself.
 */
func (mls *MeshLoaderSystem) Load(model *metadata.Model, colour math.Vec4) (*Drawable, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", core.ErrMalformedMesh)
	}

	d := &Drawable{
		ID:       uuid.New(),
		Name:     model.Name,
		pairs:    make([]*metadata.BufferPair, 0, len(model.Meshes)),
		renderer: mls.renderer,
		geometry: mls.geometrySystem,
	}
	for i, mesh := range model.Meshes {
		pair, err := mls.geometrySystem.Build(mesh, colour)
		if err != nil {
			d.Destroy()
			return nil, fmt.Errorf("model '%s' sub-mesh #%d: %w", model.Name, i, err)
		}
		d.pairs = append(d.pairs, pair)
	}
	mls.generation++
	d.Generation = mls.generation

	core.LogDebug("Successfully loaded model '%s' (%d sub-meshes).", model.Name, len(d.pairs))
	return d, nil
}
