package systems

import (
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type SystemManager struct {
	geometrySystem   *GeometrySystem
	meshLoaderSystem *MeshLoaderSystem
	shaderSystem     *ShaderSystem
	rendererSystem   *RendererSystem
}

func NewSystemManager(config *metadata.PipelineConfig, backend renderer.RendererBackend) (*SystemManager, error) {
	gs, err := NewGeometrySystem(config, backend)
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(config, backend)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(gs, backend)
	if err != nil {
		return nil, err
	}
	rs, err := NewRendererSystem(backend, gs, ssys, mls)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		geometrySystem:   gs,
		meshLoaderSystem: mls,
		shaderSystem:     ssys,
		rendererSystem:   rs,
	}, nil
}

func (sm *SystemManager) Geometry() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) MeshLoader() *MeshLoaderSystem {
	return sm.meshLoaderSystem
}

func (sm *SystemManager) Shader() *ShaderSystem {
	return sm.shaderSystem
}

func (sm *SystemManager) Renderer() *RendererSystem {
	return sm.rendererSystem
}

// Shutdown stops the systems in reverse creation order.
func (sm *SystemManager) Shutdown() error {
	if err := sm.rendererSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.meshLoaderSystem.Shutdown(); err != nil {
		return err
	}
	return sm.geometrySystem.Shutdown()
}
