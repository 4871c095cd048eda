package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/input"
	"github.com/Carmen-Shannon/oxy-forward/engine/profiler"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/Carmen-Shannon/oxy-forward/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Config is the startup configuration of an Engine.
type Config struct {
	Title           string
	Width, Height   uint32
	PresentMode     wgpu.PresentMode
	PowerPreference wgpu.PowerPreference
	ClearColor      wgpu.Color
	// Debug enables Debug-level logging.
	Debug bool
	// FrameLimit caps the frame rate when non-zero.
	FrameLimit float64
}

// DefaultConfig returns the configuration NewEngine starts from.
//
// Returns:
//   - Config: "Oxy Forward", 800x600, Fifo, high performance, clear color (0.1, 0.2, 0.3, 1.0)
func DefaultConfig() Config {
	return Config{
		Title:           "Oxy Forward",
		Width:           800,
		Height:          600,
		PresentMode:     wgpu.PresentModeFifo,
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
		ClearColor:      wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0},
	}
}

// engine implements the Engine interface.
// Everything runs on the main thread: GLFW requires it and the renderer is not shared.
type engine struct {
	config Config
	logger common.Logger

	window   window.Window
	context  *gpu.Context
	renderer renderer.Renderer
	scene    scene.Scene
	keys     *input.Input
	mouse    *input.Mouse

	profiler         *profiler.Profiler
	profilingEnabled bool

	onUpdate   func(deltaTime float32)
	lastFrame  time.Time
	frameLimit time.Duration

	quitOnce sync.Once
	err      error
}

// Engine is the main entry point. It owns the window, the GPU context, the renderer and the
// scene, and runs the frame loop.
type Engine interface {
	// Window returns the platform window.
	Window() window.Window

	// Context returns the GPU context, for creating meshes and textures.
	Context() *gpu.Context

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Scene returns the scene rendered every frame.
	Scene() scene.Scene

	// Input returns the keyboard state, updated from window events.
	Input() *input.Input

	// Mouse returns the mouse motion accumulated since the last frame.
	Mouse() *input.Mouse

	// Logger returns the engine logger.
	Logger() common.Logger

	// SetUpdateCallback registers the function called once per frame before rendering.
	// Use this for game logic and camera control.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// EnableProfiler enables the once-per-second stats log line.
	EnableProfiler()

	// DisableProfiler disables the stats log line.
	DisableProfiler()

	// Run runs the frame loop on the calling goroutine, which must be the main thread, until the
	// window closes or Quit is called. GPU resources are released before it returns.
	//
	// Returns:
	//   - error: the fatal frame error that stopped the loop, if any
	Run() error

	// Quit stops the loop after the current frame. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the window, the GPU context with a surface for it, the renderer and an empty
// scene. Options are applied to DefaultConfig first.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: error if the GPU context or renderer cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{config: DefaultConfig()}
	for _, opt := range options {
		opt(e)
	}
	if e.logger == nil {
		e.logger = common.NewDefaultLogger("oxy", e.config.Debug)
	}

	e.window = window.NewWindow(
		window.WithTitle(e.config.Title),
		window.WithSize(e.config.Width, e.config.Height),
	)

	ctx, err := gpu.NewContext(
		gpu.WithSurfaceDescriptor(e.window.SurfaceDescriptor()),
		gpu.WithPowerPreference(e.config.PowerPreference),
		gpu.WithPresentMode(e.config.PresentMode),
		gpu.WithLogger(e.logger),
	)
	if err != nil {
		e.logger.Errorf("failed to create GPU context: %v", err)
		_ = e.window.Close()
		return nil, fmt.Errorf("failed to create GPU context: %w", err)
	}
	e.context = ctx

	width, height := e.window.Size()
	target, err := renderer.NewSurfaceTarget(ctx, width, height)
	if err != nil {
		e.release()
		return nil, err
	}
	c := e.config.ClearColor
	r, err := renderer.NewRenderer(ctx, target,
		renderer.WithLogger(e.logger),
		renderer.WithClearColor(c.R, c.G, c.B, c.A),
	)
	if err != nil {
		e.release()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	e.attach(e.window, r, scene.NewScene(scene.WithLogger(e.logger)))
	return e, nil
}

// attach wires window events into the renderer and input state.
func (e *engine) attach(win window.Window, r renderer.Renderer, s scene.Scene) {
	e.window, e.renderer, e.scene = win, r, s
	e.keys = input.NewInput()
	e.mouse = input.NewMouse()
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	if e.config.FrameLimit > 0 {
		e.frameLimit = time.Duration(float64(time.Second) / e.config.FrameLimit)
	}

	win.SetResizeCallback(func(width, height uint32) {
		r.Resize(width, height)
	})
	win.SetKeyDownCallback(func(key int) {
		if key == common.KeyEsc {
			if win.CursorLocked() {
				win.SetCursorLocked(false)
			} else {
				e.Quit()
			}
			return
		}
		e.keys.Press(key)
	})
	win.SetKeyUpCallback(e.keys.Release)
	win.SetMouseDeltaCallback(e.mouse.AddDelta)
	win.SetUpdateCallback(e.frame)
}

func (e *engine) Window() window.Window       { return e.window }
func (e *engine) Context() *gpu.Context       { return e.context }
func (e *engine) Renderer() renderer.Renderer { return e.renderer }
func (e *engine) Scene() scene.Scene          { return e.scene }
func (e *engine) Input() *input.Input         { return e.keys }
func (e *engine) Mouse() *input.Mouse         { return e.mouse }
func (e *engine) Logger() common.Logger       { return e.logger }
func (e *engine) EnableProfiler()             { e.profilingEnabled = true }
func (e *engine) DisableProfiler()            { e.profilingEnabled = false }

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.onUpdate = callback
}

func (e *engine) Run() error {
	e.lastFrame = time.Now()
	e.logger.Infof("engine running")
	e.window.ProcessMessages()
	e.release()
	return e.err
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

// frame runs one iteration after window events were polled: user update, input bookkeeping,
// render. A panic is logged and stops the loop instead of unwinding through GLFW.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("frame recovered from panic: %v", r)
			e.err = fmt.Errorf("panic during frame: %v", r)
			e.Quit()
		}
	}()

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.onUpdate != nil {
		e.onUpdate(dt)
	}
	e.keys.Update()
	e.mouse.Update()

	if err := e.renderer.RenderFrame(e.scene); err != nil {
		e.logger.Errorf("fatal frame error, stopping: %v", err)
		e.err = err
		e.Quit()
		return
	}

	if e.profilingEnabled && e.profiler != nil {
		state := e.renderer.State()
		e.profiler.Tick(state.DrawCalls, state.Triangles)
	}

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) release() {
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
	if e.context != nil {
		e.context.Release()
		e.context = nil
	}
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			e.logger.Warnf("failed to close window: %v", err)
		}
	}
}
