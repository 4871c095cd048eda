package renderer

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/render_pass"
	"github.com/cogentcore/webgpu/wgpu"
)

// FrameTarget is the presentation side of the renderer: the surface frames are acquired from.
// NewSurfaceTarget adapts a gpu.Context; tests substitute a fake.
type FrameTarget interface {
	// Format returns the color format of acquired frames.
	Format() wgpu.TextureFormat

	// Size returns the current size in pixels.
	Size() (uint32, uint32)

	// Resize reconfigures the target. Zero in either dimension is a no-op returning false.
	Resize(width, height uint32) bool

	// Reconfigure reapplies the current configuration after the surface was lost or outdated.
	Reconfigure()

	// Acquire returns the next frame. Errors classify with gpu.ClassifySurfaceError.
	//
	// Returns:
	//   - Frame: the frame, to be released by the caller
	//   - error: the acquisition error
	Acquire() (Frame, error)
}

// Frame is one acquired surface texture and the single command encoder recorded against it.
type Frame interface {
	// View returns the color view passes render into.
	View() *wgpu.TextureView

	// Encoder creates the frame's command encoder. Only one encoder is created per frame.
	Encoder(label string) (render_pass.Encoder, error)

	// Submit finishes the encoder and submits it in one queue submission.
	Submit() error

	// Present displays the frame.
	Present()

	// Release frees the encoder, view and texture. Safe after a failed or skipped frame.
	Release()
}
