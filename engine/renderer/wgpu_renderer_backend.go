package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/render_pass"
	"github.com/cogentcore/webgpu/wgpu"
)

var errNoEncoder = errors.New("frame has no command encoder")

// surfaceTarget is the FrameTarget of a window surface.
type surfaceTarget struct {
	context *gpu.Context
	surface *gpu.Surface
}

var _ FrameTarget = &surfaceTarget{}

// NewSurfaceTarget wraps the context's surface, configuring it at the given size if it is not
// configured yet.
//
// Parameters:
//   - context: a context created with a surface descriptor
//   - width, height: the initial size in pixels
//
// Returns:
//   - FrameTarget: the target
//   - error: error if the context has no surface
func NewSurfaceTarget(context *gpu.Context, width, height uint32) (FrameTarget, error) {
	surface := context.Surface()
	if surface == nil {
		return nil, errors.New("context was created without a surface")
	}
	if !surface.IsConfigured() {
		surface.Configure(width, height)
	}
	return &surfaceTarget{context: context, surface: surface}, nil
}

func (t *surfaceTarget) Format() wgpu.TextureFormat       { return t.surface.Format() }
func (t *surfaceTarget) Size() (uint32, uint32)           { return t.surface.Size() }
func (t *surfaceTarget) Resize(width, height uint32) bool { return t.surface.Resize(width, height) }
func (t *surfaceTarget) Reconfigure()                     { t.surface.Reconfigure() }

func (t *surfaceTarget) Acquire() (Frame, error) {
	tex, err := t.surface.CurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	return &surfaceFrame{context: t.context, surface: t.surface, texture: tex, view: view}, nil
}

// surfaceFrame holds the swapchain texture of one frame until it is presented.
type surfaceFrame struct {
	context *gpu.Context
	surface *gpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
}

func (f *surfaceFrame) View() *wgpu.TextureView { return f.view }

func (f *surfaceFrame) Encoder(label string) (render_pass.Encoder, error) {
	if f.encoder != nil {
		return render_pass.FromCommandEncoder(f.encoder), nil
	}
	encoder, err := f.context.CreateCommandEncoder(label)
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	f.encoder = encoder
	return render_pass.FromCommandEncoder(encoder), nil
}

func (f *surfaceFrame) Submit() error {
	if f.encoder == nil {
		return errNoEncoder
	}
	commandBuffer, err := f.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	f.context.Submit(commandBuffer)
	return nil
}

func (f *surfaceFrame) Present() {
	f.surface.Present()
}

func (f *surfaceFrame) Release() {
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}
