package engine

import (
	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/config"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

type Game struct {
	Config *config.Config
	// Set by the engine before FnInitialize is called.
	SystemManager *systems.SystemManager
	AssetManager  *assets.AssetManager
	State         interface{}
	FnInitialize  Initialize
	FnUpdate      Update
	FnRender      Render
	FnOnResize    OnResize
	// Optional. Receives every key press the engine does not consume itself.
	FnOnKey    OnKey
	FnShutdown Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render fills the frame packet (camera matrices, tint) before the engine draws it.
type Render func(packet *metadata.FramePacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type OnKey func(key core.KeyCode)
type Shutdown func() error
