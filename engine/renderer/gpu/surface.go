package gpu

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceBackend is the platform side of a Surface. The wgpu implementation wraps *wgpu.Surface;
// tests substitute a fake.
type SurfaceBackend interface {
	// Capabilities returns the supported formats and alpha modes, in preference order.
	Capabilities() ([]wgpu.TextureFormat, []wgpu.CompositeAlphaMode)

	// Configure applies a configuration to the swapchain.
	Configure(config *wgpu.SurfaceConfiguration)

	// CurrentTexture acquires the next presentable texture.
	CurrentTexture() (*wgpu.Texture, error)

	// Present queues the acquired texture for display.
	Present()

	// Release frees the platform surface.
	Release()
}

// Surface is the presentation target of one window. It owns the swapchain configuration
// (format, present mode, size) and reconfigures it on resize.
type Surface struct {
	mu      sync.Mutex
	backend SurfaceBackend
	logger  common.Logger

	presentMode wgpu.PresentMode
	config      *wgpu.SurfaceConfiguration
}

// SurfaceBuilderOption is a functional option applied to a Surface during NewSurface.
type SurfaceBuilderOption func(*Surface)

// WithSurfacePresentMode sets the present mode. Defaults to Fifo.
func WithSurfacePresentMode(mode wgpu.PresentMode) SurfaceBuilderOption {
	return func(s *Surface) {
		s.presentMode = mode
	}
}

// WithSurfaceLogger sets the surface logger.
func WithSurfaceLogger(logger common.Logger) SurfaceBuilderOption {
	return func(s *Surface) {
		s.logger = logger
	}
}

// NewSurface wraps a surface backend. The surface is unconfigured until Configure is called.
//
// Parameters:
//   - backend: the platform surface
//   - options: functional options
//
// Returns:
//   - *Surface: the surface
func NewSurface(backend SurfaceBackend, options ...SurfaceBuilderOption) *Surface {
	s := &Surface{
		backend:     backend,
		presentMode: wgpu.PresentModeFifo,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = common.LoggerOrNop(s.logger)
	return s
}

// Configure configures the swapchain at the given size. An sRGB format is preferred when the
// surface offers one. Dimensions are clamped to at least 1.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
func (s *Surface) Configure(width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	formats, alphaModes := s.backend.Capabilities()
	cfg := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      preferredFormat(formats),
		Width:       max(width, 1),
		Height:      max(height, 1),
		PresentMode: s.presentMode,
	}
	if len(alphaModes) > 0 {
		cfg.AlphaMode = alphaModes[0]
	}
	s.backend.Configure(cfg)
	s.config = cfg
	s.logger.Debugf("surface configured %dx%d format=%v", cfg.Width, cfg.Height, cfg.Format)
}

// Resize reconfigures the swapchain at a new size. Zero in either dimension is a no-op so a
// minimized window never produces a degenerate configuration.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
//
// Returns:
//   - bool: true if the surface was reconfigured
func (s *Surface) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	s.Configure(width, height)
	return true
}

// Reconfigure reapplies the current configuration, used after the surface is lost or outdated.
func (s *Surface) Reconfigure() {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()
	if cfg == nil {
		return
	}
	s.Configure(cfg.Width, cfg.Height)
}

// IsConfigured reports whether Configure has been called.
func (s *Surface) IsConfigured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config != nil
}

// Format returns the configured texture format, or undefined before configuration.
func (s *Surface) Format() wgpu.TextureFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return wgpu.TextureFormatUndefined
	}
	return s.config.Format
}

// Size returns the configured size in pixels.
func (s *Surface) Size() (uint32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return 0, 0
	}
	return s.config.Width, s.config.Height
}

// Configuration returns a copy of the current configuration and whether one exists.
func (s *Surface) Configuration() (wgpu.SurfaceConfiguration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return wgpu.SurfaceConfiguration{}, false
	}
	return *s.config, true
}

// CurrentTexture acquires the next presentable texture. Errors are wrapped so that
// ClassifySurfaceError can recover their kind.
//
// Returns:
//   - *wgpu.Texture: the surface texture for this frame
//   - error: the acquisition error, nil on success
func (s *Surface) CurrentTexture() (*wgpu.Texture, error) {
	if !s.IsConfigured() {
		return nil, ErrSurfaceNotConfigured
	}
	tex, err := s.backend.CurrentTexture()
	if err != nil {
		return nil, classifyAcquireError(err)
	}
	return tex, nil
}

// Present displays the texture returned by the last CurrentTexture call.
func (s *Surface) Present() {
	s.backend.Present()
}

func (s *Surface) release() {
	s.backend.Release()
}

func classifyAcquireError(err error) error {
	switch ClassifySurfaceError(err) {
	case SurfaceErrorLost:
		return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	case SurfaceErrorOutdated:
		return fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
	case SurfaceErrorTimeout:
		return fmt.Errorf("%w: %w", ErrSurfaceTimeout, err)
	case SurfaceErrorOutOfMemory:
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	default:
		return err
	}
}

func preferredFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return wgpu.TextureFormatBGRA8UnormSrgb
}

type wgpuSurfaceBackend struct {
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device
}

func (b *wgpuSurfaceBackend) Capabilities() ([]wgpu.TextureFormat, []wgpu.CompositeAlphaMode) {
	caps := b.surface.GetCapabilities(b.adapter)
	return caps.Formats, caps.AlphaModes
}

func (b *wgpuSurfaceBackend) Configure(config *wgpu.SurfaceConfiguration) {
	b.surface.Configure(b.adapter, b.device, config)
}

func (b *wgpuSurfaceBackend) CurrentTexture() (*wgpu.Texture, error) {
	return b.surface.GetCurrentTexture()
}

func (b *wgpuSurfaceBackend) Present() {
	b.surface.Present()
}

func (b *wgpuSurfaceBackend) Release() {
	b.surface.Release()
}
