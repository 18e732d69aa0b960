package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/platform"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/opengl"
	"github.com/spaghettifunk/meshview/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	events        *core.EventSystem
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	frameNumber   uint64
}

func New(g *Game) (*Engine, error) {
	if g.Config == nil {
		return nil, fmt.Errorf("func New - game has no configuration")
	}
	events := core.NewEventSystem()
	p := platform.New(events)

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(g.Config.PipelineConfig(), opengl.New())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		platform:      p,
		events:        events,
		assetManager:  am,
		systemManager: sm,
		isSuspended:   false,
		width:         g.Config.Application.StartWidth,
		height:        g.Config.Application.StartHeight,
		lastTime:      0,
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	app := e.gameInstance.Config.Application

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight, app.VSync); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.systemManager.Renderer().Initialize(app.Name, e.width, e.height); err != nil {
		return err
	}

	// initialize subsystems
	assetsCfg := e.gameInstance.Config.Assets
	if err := e.assetManager.Initialize(assetsCfg.Dir, assetsCfg.HotReload); err != nil {
		return err
	}

	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.AssetManager = e.assetManager

	// The shader goes first so the model is uploaded once, not again by the reload.
	// A shader that does not link is reported and can be fixed while running.
	if err := e.ReloadShader(); err != nil {
		core.LogError("Shader '%s' is not usable yet: %s", assetsCfg.Shader, err)
	}
	if err := e.LoadModel(); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// LoadModel (re)loads the configured model and makes it the one drawn.
func (e *Engine) LoadModel() error {
	cfg := e.gameInstance.Config
	res, err := e.assetManager.LoadAsset(cfg.Assets.Model, metadata.ResourceTypeModel, nil)
	if err != nil {
		return err
	}
	defer e.assetManager.UnloadAsset(res)

	model, ok := res.Data.(*metadata.Model)
	if !ok {
		return fmt.Errorf("asset %s is not a model", res.FullPath)
	}
	if err := e.systemManager.Renderer().LoadModel(model, cfg.PipelineConfig().Colour); err != nil {
		return err
	}
	core.LogInfo("Model '%s' loaded with %d sub-meshes.", model.Name, len(model.Meshes))
	return nil
}

// ReloadShader compiles the configured shader. On failure the previous one stays in use.
func (e *Engine) ReloadShader() error {
	res, err := e.assetManager.LoadAsset(e.gameInstance.Config.Assets.Shader, metadata.ResourceTypeShader, nil)
	if err != nil {
		return err
	}
	defer e.assetManager.UnloadAsset(res)

	source, ok := res.Data.(metadata.ShaderSource)
	if !ok {
		return fmt.Errorf("asset %s is not a shader", res.FullPath)
	}
	return e.systemManager.Renderer().ReloadShader(source)
}

// StatusText describes the state of the shader pipeline.
func (e *Engine) StatusText() string {
	return e.systemManager.Shader().StatusText()
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		e.dispatchAssetChanges()

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		packet := metadata.NewFramePacket()
		packet.FrameNumber = e.frameNumber
		packet.DeltaTime = delta
		packet.Time = float32(currentTime)

		// Call the game's render routine.
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("Game render failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		if err := e.systemManager.Renderer().RenderFrame(packet); err != nil {
			if errors.Is(err, core.ErrContextLost) {
				core.LogError("Rendering context lost, shutting down.")
				e.isRunning.Store(false)
				return err
			}
			// Without a linked shader there is nothing to draw until a reload succeeds.
			if !errors.Is(err, core.ErrNoShader) {
				core.LogError("Frame %d failed: %s", e.frameNumber, err)
			}
		}
		e.platform.SwapBuffers()

		// Figure out how long the frame took.
		var frameElapsedTime float64 = platform.GetAbsoluteTime() - frameStartTime
		if e.metrics.Update(frameElapsedTime) {
			fps, frameTime := e.metrics.Frame()
			core.LogDebug("FPS: %.0f, frame time: %.3fms", fps, frameTime)
		}

		e.frameNumber++
		e.lastTime = currentTime
	}

	return nil
}

// Stop asks the main loop to return after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	e.events.Shutdown()
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// dispatchAssetChanges turns file changes reported by the watcher into events
// on the render thread.
func (e *Engine) dispatchAssetChanges() {
	for {
		select {
		case path, ok := <-e.assetManager.Changes():
			if !ok {
				return
			}
			e.events.Fire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_CHANGED,
				Path: path,
			})
		default:
			return
		}
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	switch context.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	case core.KEY_R:
		if err := e.ReloadShader(); err != nil {
			core.LogError("Shader reload failed: %s", e.StatusText())
		}
		return true
	}
	if e.gameInstance.FnOnKey != nil {
		e.gameInstance.FnOnKey(context.KeyCode)
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	width := context.Width
	height := context.Height

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if err := e.systemManager.Renderer().OnResized(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}

func (e *Engine) onAssetChanged(context core.EventContext) bool {
	cfg := e.gameInstance.Config.Assets
	switch {
	case loaders.ShaderBasePath(context.Path) == e.assetManager.Path(cfg.Shader):
		core.LogInfo("Shader source %s changed, reloading.", context.Path)
		if err := e.ReloadShader(); err != nil {
			core.LogError("Shader reload failed: %s", e.StatusText())
		}
		return true
	case context.Path == e.assetManager.Path(cfg.Model):
		core.LogInfo("Model %s changed, reloading.", context.Path)
		if err := e.LoadModel(); err != nil {
			core.LogError("Model reload failed, keeping the previous one: %s", err)
		}
		return true
	}
	return false
}
