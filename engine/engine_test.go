package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/assets"
	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	update     func()
	resize     func(width, height uint32)
	keyDown    func(key int)
	keyUp      func(key int)
	mouseDelta func(dx, dy float32)
	locked     bool
	closeReqs  int
}

func (w *fakeWindow) SetUpdateCallback(cb func())                     { w.update = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height uint32)) { w.resize = cb }
func (w *fakeWindow) SetScrollCallback(func(delta float32))           {}
func (w *fakeWindow) SetKeyDownCallback(cb func(key int))           { w.keyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(key int))             { w.keyUp = cb }
func (w *fakeWindow) SetMouseDeltaCallback(cb func(dx, dy float32)) { w.mouseDelta = cb }
func (w *fakeWindow) SetCursorLocked(locked bool)                   { w.locked = locked }
func (w *fakeWindow) CursorLocked() bool                            { return w.locked }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor    { return nil }
func (w *fakeWindow) IsRunning() bool                               { return w.closeReqs == 0 }
func (w *fakeWindow) RequestClose()                                 { w.closeReqs++ }
func (w *fakeWindow) Close() error                                  { return nil }
func (w *fakeWindow) ProcessMessages()                                {}
func (w *fakeWindow) Size() (uint32, uint32) { return 800, 600 }
func (w *fakeWindow) Title() string          { return "test" }

type fakeRenderer struct {
	renderer.Renderer
	frames  int
	resized [][2]uint32
	err     error
}

func (r *fakeRenderer) RenderFrame(renderer.World) error {
	r.frames++
	return r.err
}

func (r *fakeRenderer) Resize(width, height uint32) bool {
	r.resized = append(r.resized, [2]uint32{width, height})
	return width > 0 && height > 0
}

func (r *fakeRenderer) State() renderer.RenderingState { return renderer.RenderingState{DrawCalls: 2} }
func (r *fakeRenderer) Camera() camera.Camera          { return nil }
func (r *fakeRenderer) Assets() *assets.AssetManager   { return nil }
func (r *fakeRenderer) DepthTexture() *texture.Texture { return nil }
func (r *fakeRenderer) ShadowMap() *light.ShadowMap    { return nil }
func (r *fakeRenderer) Release()                        {}

func newTestEngine() (*engine, *fakeWindow, *fakeRenderer) {
	e := &engine{config: DefaultConfig(), logger: common.NewNopLogger()}
	win, r := &fakeWindow{}, &fakeRenderer{}
	e.attach(win, r, scene.NewScene())
	return e, win, r
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "Oxy Forward", c.Title)
	assert.Equal(t, uint32(800), c.Width)
	assert.Equal(t, uint32(600), c.Height)
	assert.Equal(t, wgpu.PresentModeFifo, c.PresentMode)
	assert.Equal(t, wgpu.PowerPreferenceHighPerformance, c.PowerPreference)

	e := &engine{config: DefaultConfig()}
	WithConfig(Config{Title: "Lit", Width: 1280})(e)
	assert.Equal(t, "Lit", e.config.Title)
	assert.Equal(t, uint32(1280), e.config.Width)
	assert.Equal(t, uint32(600), e.config.Height)
	assert.Equal(t, c.ClearColor, e.config.ClearColor)
}

func TestFrameRunsUpdateBeforeRender(t *testing.T) {
	e, win, r := newTestEngine()
	var sawJustPressed bool
	e.SetUpdateCallback(func(float32) {
		sawJustPressed = e.Input().JustPressed(common.KeyW)
		assert.Zero(t, r.frames, "update runs before the frame is rendered")
	})

	win.keyDown(common.KeyW)
	win.update()

	assert.True(t, sawJustPressed)
	assert.Equal(t, 1, r.frames)
	assert.False(t, e.Input().JustPressed(common.KeyW), "just-pressed cleared after the frame")
	assert.True(t, e.Input().Pressed(common.KeyW))

	win.keyUp(common.KeyW)
	assert.False(t, e.Input().Pressed(common.KeyW))
}

func TestResizeForwardsToRenderer(t *testing.T) {
	_, win, r := newTestEngine()
	win.resize(1920, 1080)
	win.resize(0, 0)
	assert.Equal(t, [][2]uint32{{1920, 1080}, {0, 0}}, r.resized)
}

func TestEscapeUnlocksThenQuits(t *testing.T) {
	_, win, _ := newTestEngine()
	win.locked = true
	win.keyDown(common.KeyEsc)
	assert.False(t, win.locked)
	assert.Zero(t, win.closeReqs)

	win.keyDown(common.KeyEsc)
	win.keyDown(common.KeyEsc)
	assert.Equal(t, 1, win.closeReqs)
}

func TestFatalRenderErrorStopsLoop(t *testing.T) {
	e, win, r := newTestEngine()
	r.err = errors.New("out of memory")
	win.update()
	assert.Equal(t, 1, win.closeReqs)
	require.Error(t, e.Run())
}

func TestPanicInUpdateIsRecovered(t *testing.T) {
	e, win, r := newTestEngine()
	e.SetUpdateCallback(func(float32) { panic("boom") })
	assert.NotPanics(t, func() { win.update() })
	assert.Zero(t, r.frames)
	assert.Equal(t, 1, win.closeReqs)
	assert.ErrorContains(t, e.err, "boom")
}

func TestMouseDeltaReachesUpdate(t *testing.T) {
	e, win, _ := newTestEngine()
	var dx, dy float32
	e.SetUpdateCallback(func(float32) { dx, dy = e.Mouse().Delta() })

	win.mouseDelta(5, 5)
	win.update()
	assert.Zero(t, dx, "motion before the first frame is dropped")

	win.mouseDelta(3, -1)
	win.update()
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(-1), dy)
}
