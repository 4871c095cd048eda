package gpu

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurfaceBackend struct {
	formats    []wgpu.TextureFormat
	alphaModes []wgpu.CompositeAlphaMode
	configured []wgpu.SurfaceConfiguration
	acquireErr error
	presents   int
}

func (f *fakeSurfaceBackend) Capabilities() ([]wgpu.TextureFormat, []wgpu.CompositeAlphaMode) {
	return f.formats, f.alphaModes
}

func (f *fakeSurfaceBackend) Configure(config *wgpu.SurfaceConfiguration) {
	f.configured = append(f.configured, *config)
}

func (f *fakeSurfaceBackend) CurrentTexture() (*wgpu.Texture, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return &wgpu.Texture{}, nil
}

func (f *fakeSurfaceBackend) Present() { f.presents++ }
func (f *fakeSurfaceBackend) Release() {}

func newFakeSurface() (*Surface, *fakeSurfaceBackend) {
	backend := &fakeSurfaceBackend{
		formats:    []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
		alphaModes: []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
	}
	return NewSurface(backend), backend
}

func TestSurfaceConfigurePrefersSrgb(t *testing.T) {
	s, backend := newFakeSurface()
	assert.False(t, s.IsConfigured())

	s.Configure(800, 600)

	require.Len(t, backend.configured, 1)
	cfg := backend.configured[0]
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, cfg.Format)
	assert.Equal(t, wgpu.PresentModeFifo, cfg.PresentMode)
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, cfg.AlphaMode)
	assert.Equal(t, wgpu.TextureUsageRenderAttachment, cfg.Usage)
	assert.True(t, s.IsConfigured())
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, s.Format())
}

func TestSurfaceConfigureFallsBackToFirstFormat(t *testing.T) {
	backend := &fakeSurfaceBackend{formats: []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm}}
	s := NewSurface(backend, WithSurfacePresentMode(wgpu.PresentModeImmediate))
	s.Configure(0, 0)

	cfg, ok := s.Configuration()
	require.True(t, ok)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, cfg.Format)
	assert.Equal(t, wgpu.PresentModeImmediate, cfg.PresentMode)
	assert.Equal(t, uint32(1), cfg.Width, "dimensions are clamped to 1")
	assert.Equal(t, uint32(1), cfg.Height)
}

func TestSurfaceResizeZeroIsNoop(t *testing.T) {
	s, backend := newFakeSurface()
	s.Configure(800, 600)
	before, _ := s.Configuration()

	assert.False(t, s.Resize(0, 1080))
	assert.False(t, s.Resize(1920, 0))

	after, _ := s.Configuration()
	assert.Equal(t, before, after)
	assert.Len(t, backend.configured, 1)

	assert.True(t, s.Resize(1920, 1080))
	w, h := s.Size()
	assert.Equal(t, uint32(1920), w)
	assert.Equal(t, uint32(1080), h)
}

func TestSurfaceReconfigureKeepsSize(t *testing.T) {
	s, backend := newFakeSurface()
	s.Reconfigure()
	assert.Empty(t, backend.configured, "reconfigure before configure does nothing")

	s.Configure(640, 480)
	s.Reconfigure()
	require.Len(t, backend.configured, 2)
	assert.Equal(t, backend.configured[0], backend.configured[1])
}

func TestSurfaceCurrentTextureClassifiesErrors(t *testing.T) {
	s, backend := newFakeSurface()

	_, err := s.CurrentTexture()
	assert.ErrorIs(t, err, ErrSurfaceNotConfigured)

	s.Configure(800, 600)
	backend.acquireErr = errors.New("GetCurrentTexture(): SurfaceGetCurrentTextureStatus_Lost")
	_, err = s.CurrentTexture()
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.Equal(t, FrameActionReconfigure, FrameActionFor(ClassifySurfaceError(err)))

	backend.acquireErr = nil
	tex, err := s.CurrentTexture()
	require.NoError(t, err)
	assert.NotNil(t, tex)
}

func TestClassifySurfaceError(t *testing.T) {
	cases := []struct {
		err    error
		kind   SurfaceErrorKind
		action FrameAction
	}{
		{nil, SurfaceErrorNone, FrameActionContinue},
		{ErrSurfaceLost, SurfaceErrorLost, FrameActionReconfigure},
		{errors.New("status: Outdated"), SurfaceErrorOutdated, FrameActionReconfigure},
		{errors.New("Timeout"), SurfaceErrorTimeout, FrameActionSkip},
		{errors.New("OUT_OF_MEMORY"), SurfaceErrorOutOfMemory, FrameActionFatal},
		{errors.New("something else"), SurfaceErrorOther, FrameActionSkip},
	}
	for _, c := range cases {
		kind := ClassifySurfaceError(c.err)
		assert.Equal(t, c.kind, kind, "error %v", c.err)
		assert.Equal(t, c.action, FrameActionFor(kind), "error %v", c.err)
	}
}
