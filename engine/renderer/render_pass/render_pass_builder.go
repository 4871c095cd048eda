package render_pass

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoAttachments is returned when a pass declares neither a color nor a depth target.
var ErrNoAttachments = errors.New("render pass has no attachments")

// RenderPassBuilder describes one render pass. Attachments whose clear value is set are cleared on
// load; the others load their previous contents. Both are always stored.
type RenderPassBuilder struct {
	label  string
	logger common.Logger

	colorView  *wgpu.TextureView
	clearColor *wgpu.Color

	depthView    *wgpu.TextureView
	clearDepth   *float32
	clearStencil *uint32
}

// RenderPassBuilderOption is a functional option used to configure a RenderPassBuilder.
type RenderPassBuilderOption func(*RenderPassBuilder)

// NewRenderPassBuilder creates a pass description.
//
// Parameters:
//   - opts: a variadic list of RenderPassBuilderOption functions
//
// Returns:
//   - *RenderPassBuilder: the builder
func NewRenderPassBuilder(opts ...RenderPassBuilderOption) *RenderPassBuilder {
	b := &RenderPassBuilder{label: "Render Pass"}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = common.LoggerOrNop(b.logger)
	return b
}

// WithLabel sets the pass label shown by GPU debuggers.
func WithLabel(label string) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.label = label
	}
}

// WithLogger sets the logger that reports commands recorded after End.
func WithLogger(logger common.Logger) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.logger = logger
	}
}

// WithColorTarget sets the single color attachment.
//
// Parameters:
//   - view: the view to render into, usually the acquired surface texture
//
// Returns:
//   - RenderPassBuilderOption: a function that sets the color target
func WithColorTarget(view *wgpu.TextureView) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.colorView = view
	}
}

// WithClearColor clears the color attachment to the given RGBA value on load.
func WithClearColor(r, g, bl, a float64) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.clearColor = &wgpu.Color{R: r, G: g, B: bl, A: a}
	}
}

// WithDepthTarget sets the depth attachment.
//
// Parameters:
//   - view: the depth texture view
//
// Returns:
//   - RenderPassBuilderOption: a function that sets the depth target
func WithDepthTarget(view *wgpu.TextureView) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.depthView = view
	}
}

// WithClearDepth clears the depth attachment to value on load, usually 1.0.
func WithClearDepth(value float32) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.clearDepth = &value
	}
}

// WithClearStencil clears the stencil aspect on load. Only valid for depth formats with stencil.
func WithClearStencil(value uint32) RenderPassBuilderOption {
	return func(b *RenderPassBuilder) {
		b.clearStencil = &value
	}
}

// Label returns the pass label.
func (b *RenderPassBuilder) Label() string { return b.label }

// DepthOnly reports whether the pass has no color attachment.
func (b *RenderPassBuilder) DepthOnly() bool { return b.colorView == nil && b.depthView != nil }

// Descriptor returns the wgpu pass descriptor without touching the GPU.
//
// Returns:
//   - *wgpu.RenderPassDescriptor: the descriptor
//   - error: ErrNoAttachments if nothing is attached
func (b *RenderPassBuilder) Descriptor() (*wgpu.RenderPassDescriptor, error) {
	if b.colorView == nil && b.depthView == nil {
		return nil, ErrNoAttachments
	}

	desc := &wgpu.RenderPassDescriptor{Label: b.label}
	if b.colorView != nil {
		att := wgpu.RenderPassColorAttachment{
			View:    b.colorView,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}
		if b.clearColor != nil {
			att.LoadOp = wgpu.LoadOpClear
			att.ClearValue = *b.clearColor
		}
		desc.ColorAttachments = []wgpu.RenderPassColorAttachment{att}
	}

	if b.depthView != nil {
		att := &wgpu.RenderPassDepthStencilAttachment{
			View:         b.depthView,
			DepthLoadOp:  wgpu.LoadOpLoad,
			DepthStoreOp: wgpu.StoreOpStore,
		}
		if b.clearDepth != nil {
			att.DepthLoadOp = wgpu.LoadOpClear
			att.DepthClearValue = *b.clearDepth
		}
		if b.clearStencil != nil {
			att.StencilLoadOp = wgpu.LoadOpClear
			att.StencilStoreOp = wgpu.StoreOpStore
			att.StencilClearValue = *b.clearStencil
		}
		desc.DepthStencilAttachment = att
	}
	return desc, nil
}

// Begin opens the pass on the given encoder.
//
// Parameters:
//   - encoder: where the pass is recorded, see FromCommandEncoder
//
// Returns:
//   - RenderPass: the open pass; the caller must call End
//   - error: ErrNoAttachments
func (b *RenderPassBuilder) Begin(encoder Encoder) (RenderPass, error) {
	desc, err := b.Descriptor()
	if err != nil {
		return nil, err
	}
	return &renderPass{
		label:    b.label,
		logger:   b.logger,
		commands: encoder.BeginRenderPass(desc),
	}, nil
}

// Record opens the pass, hands it to fn and ends it once fn returns, even if fn panics.
//
// Parameters:
//   - encoder: where the pass is recorded
//   - fn: records the pass contents
//
// Returns:
//   - error: ErrNoAttachments
func (b *RenderPassBuilder) Record(encoder Encoder, fn func(pass RenderPass)) error {
	pass, err := b.Begin(encoder)
	if err != nil {
		return err
	}
	defer pass.End()
	fn(pass)
	return nil
}
