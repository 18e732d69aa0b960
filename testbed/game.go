package testbed

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/config"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// tints cycled through with the T key. The first one leaves the model colours untouched.
var tints = []math.Vec4{
	metadata.DefaultTint,
	math.NewVec4(1, 0.6, 0.6, 1),
	math.NewVec4(0.6, 1, 0.6, 1),
	math.NewVec4(0.6, 0.6, 1, 1),
}

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	// frame drives the camera swing. It stops advancing while paused.
	frame  uint64
	paused bool
	tint   int
}

func NewTestGame(cfg *config.Config) (*TestGame, error) {
	if cfg == nil {
		return nil, fmt.Errorf("func NewTestGame - configuration is nil")
	}
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State: &gameState{
				width:  cfg.Application.StartWidth,
				height: cfg.Application.StartHeight,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnOnKey = tg.OnKey
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	state.WorldCamera = components.NewCamera()
	state.frame = 0
	state.paused = false
	state.tint = 0

	if g.SystemManager != nil {
		core.LogInfo("Shader status: %s", g.SystemManager.Shader().StatusText())
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	if !state.paused {
		state.frame++
	}
	state.WorldCamera.Swing(state.frame)
	return nil
}

func (g *TestGame) Render(packet *metadata.FramePacket, deltaTime float64) error {
	state := g.State.(*gameState)
	packet.Projection = state.WorldCamera.GetProjection(state.width, state.height)
	packet.View = state.WorldCamera.GetView()
	packet.Tint = tints[state.tint]
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) OnKey(key core.KeyCode) {
	state := g.State.(*gameState)
	switch key {
	case core.KEY_SPACE:
		state.paused = !state.paused
		core.LogDebug("Camera swing paused: %t", state.paused)
	case core.KEY_T:
		state.tint = (state.tint + 1) % len(tints)
		t := tints[state.tint]
		core.LogDebug("Tint: [%.1f %.1f %.1f %.1f]", t.X, t.Y, t.Z, t.W)
	}
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	return nil
}
