package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window the renderer presents into and the input events driving the
// camera. GLFW is the only backend.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration, after events are
	// polled.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height uint32))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code, see common.KeyW and friends
	SetKeyDownCallback(callback func(key int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(key int))

	// SetMouseDeltaCallback sets the callback for cursor motion. Motion is only reported while
	// the cursor is locked, as the difference from the previous cursor position.
	//
	// Parameters:
	//   - callback: function receiving the motion in pixels, positive right and down
	SetMouseDeltaCallback(callback func(dx, dy float32))

	// SetCursorLocked hides and captures the cursor for mouse-look, or releases it.
	// Raw mouse motion is enabled while locked where the platform supports it.
	//
	// Parameters:
	//   - locked: true to capture the cursor
	SetCursorLocked(locked bool)

	// CursorLocked reports whether the cursor is captured.
	CursorLocked() bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for this window, created by the
	// wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true until the window is closed.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the message loop on the calling goroutine, which must be the main
	// thread. Blocks until the window is closed, calling the update callback once per iteration.
	ProcessMessages()

	// Size returns the framebuffer size in pixels, which differs from the window size on
	// high-DPI displays.
	Size() (uint32, uint32)

	// Title returns the window title.
	Title() string
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title  string
	width  uint32
	height uint32

	// minWidth and minHeight bound interactive resizing.
	minWidth  uint32
	minHeight uint32

	resizable bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	cursorLocked bool
	// cursorKnown is false until the first cursor event after locking, which only sets lastX/lastY.
	cursorKnown  bool
	lastX, lastY float64

	onUpdate     func()
	onResize     func(width, height uint32)
	onScroll     func(delta float32)
	onKeyDown    func(key int)
	onKeyUp      func(key int)
	onMouseDelta func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates the platform window. Defaults: title "Oxy Forward", 800x600, resizable,
// minimum 320x240. Must be called from the main thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window, already shown
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "Oxy Forward",
		width:     800,
		height:    600,
		minWidth:  320,
		minHeight: 240,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func())                     { w.onUpdate = callback }
func (w *engineWindow) SetResizeCallback(callback func(width, height uint32)) { w.onResize = callback }
func (w *engineWindow) SetScrollCallback(callback func(delta float32))        { w.onScroll = callback }
func (w *engineWindow) SetKeyDownCallback(callback func(key int))             { w.onKeyDown = callback }
func (w *engineWindow) SetKeyUpCallback(callback func(key int))               { w.onKeyUp = callback }
func (w *engineWindow) SetMouseDeltaCallback(callback func(dx, dy float32))   { w.onMouseDelta = callback }
func (w *engineWindow) Title() string                                         { return w.title }

func (w *engineWindow) SetCursorLocked(locked bool) {
	w.mu.Lock()
	w.cursorLocked = locked
	w.cursorKnown = false
	w.mu.Unlock()
	platformSetCursorLocked(w, locked)
}

func (w *engineWindow) CursorLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorLocked
}

func (w *engineWindow) Size() (uint32, uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

// handleResize records the framebuffer size and forwards it. Minimized windows report zero,
// which is forwarded unchanged; the renderer ignores it.
func (w *engineWindow) handleResize(width, height int) {
	if width < 0 || height < 0 {
		return
	}
	w.mu.Lock()
	w.width, w.height = uint32(width), uint32(height)
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(uint32(width), uint32(height))
	}
}

func (w *engineWindow) handleKey(key int, pressed bool) {
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(key)
		}
		return
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key)
	}
}

func (w *engineWindow) handleScroll(yoff float64) {
	if w.onScroll != nil {
		w.onScroll(float32(yoff))
	}
}

// handleCursor turns absolute cursor positions into motion deltas while the cursor is locked.
func (w *engineWindow) handleCursor(x, y float64) {
	w.mu.Lock()
	if !w.cursorLocked {
		w.mu.Unlock()
		return
	}
	if !w.cursorKnown {
		w.lastX, w.lastY, w.cursorKnown = x, y, true
		w.mu.Unlock()
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	w.mu.Unlock()

	if w.onMouseDelta != nil && (dx != 0 || dy != 0) {
		w.onMouseDelta(float32(dx), float32(dy))
	}
}
