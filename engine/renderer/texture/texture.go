package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the single-channel floating point format used by every depth texture,
// including the shadow map.
const DepthFormat = wgpu.TextureFormatDepth32Float

// ColorFormat is the format of textures created from decoded RGBA pixels.
const ColorFormat = wgpu.TextureFormatRGBA8UnormSrgb

// Device is the subset of the GPU context needed to create and fill textures.
// *gpu.Context satisfies it.
type Device interface {
	CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error)
	CreateTextureView(texture *wgpu.Texture, desc *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)
	WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D)
	ReleaseTexture(texture *wgpu.Texture, view *wgpu.TextureView)
}

// Texture owns a GPU image and its default view. Resize replaces the backing image and view
// while the *Texture itself, its format and usage stay the same, so holders never need rebinding
// of the wrapper (only of the new view).
type Texture struct {
	device Device
	label  string

	handle *wgpu.Texture
	view   *wgpu.TextureView

	format        wgpu.TextureFormat
	usage         wgpu.TextureUsage
	viewDimension wgpu.TextureViewDimension
	width         uint32
	height        uint32
	layers        uint32

	// source is kept for textures created from pixels so they can be resampled later.
	source *common.TextureStagingData
}

// FromRGBA creates a sampled sRGB texture and uploads the pixels.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - staging: decoded RGBA8 pixels
//
// Returns:
//   - *Texture: the texture (Source returns staging)
//   - error: error if the staging data is invalid or allocation fails
func FromRGBA(device Device, label string, staging common.TextureStagingData) (*Texture, error) {
	if err := staging.Validate(); err != nil {
		return nil, fmt.Errorf("texture %q: %w", label, err)
	}
	t := &Texture{
		device:        device,
		label:         label,
		format:        ColorFormat,
		usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		viewDimension: wgpu.TextureViewDimension2D,
		width:         staging.Width,
		height:        staging.Height,
		layers:        1,
		source:        &staging,
	}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	t.WriteLayer(0, staging.Pixels)
	return t, nil
}

// NewRenderTarget creates a color texture that can be rendered into and sampled.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - width, height: size in pixels
//   - format: color format
//
// Returns:
//   - *Texture: the texture
//   - error: error if allocation fails
func NewRenderTarget(device Device, label string, width, height uint32, format wgpu.TextureFormat) (*Texture, error) {
	t := &Texture{
		device:        device,
		label:         label,
		format:        format,
		usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		viewDimension: wgpu.TextureViewDimension2D,
		width:         max(width, 1),
		height:        max(height, 1),
		layers:        1,
	}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewDepthTexture creates a Depth32Float texture usable as a depth attachment and as a
// sampled depth texture (shadow lookups).
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - width, height: size in pixels
//
// Returns:
//   - *Texture: the texture
//   - error: error if allocation fails
func NewDepthTexture(device Device, label string, width, height uint32) (*Texture, error) {
	t := &Texture{
		device:        device,
		label:         label,
		format:        DepthFormat,
		usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		viewDimension: wgpu.TextureViewDimension2D,
		width:         max(width, 1),
		height:        max(height, 1),
		layers:        1,
	}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTextureArray creates a 2D array texture with one layer per slot, viewed as texture_2d_array.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - width, height: per-layer size in pixels
//   - layers: number of layers (>= 1)
//
// Returns:
//   - *Texture: the texture
//   - error: error if allocation fails
func NewTextureArray(device Device, label string, width, height, layers uint32) (*Texture, error) {
	t := &Texture{
		device:        device,
		label:         label,
		format:        ColorFormat,
		usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		viewDimension: wgpu.TextureViewDimension2DArray,
		width:         max(width, 1),
		height:        max(height, 1),
		layers:        max(layers, 1),
	}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Texture) allocate() error {
	handle, err := t.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: t.label,
		Size: wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: t.layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        t.format,
		Usage:         t.usage,
	})
	if err != nil {
		return fmt.Errorf("failed to create texture %q: %w", t.label, err)
	}

	var viewDesc *wgpu.TextureViewDescriptor
	if t.viewDimension == wgpu.TextureViewDimension2DArray {
		viewDesc = &wgpu.TextureViewDescriptor{
			Label:           t.label + " view",
			Format:          t.format,
			Dimension:       wgpu.TextureViewDimension2DArray,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: t.layers,
			Aspect:          wgpu.TextureAspectAll,
		}
	}
	view, err := t.device.CreateTextureView(handle, viewDesc)
	if err != nil {
		t.device.ReleaseTexture(handle, nil)
		return fmt.Errorf("failed to create view for texture %q: %w", t.label, err)
	}
	t.handle = handle
	t.view = view
	return nil
}

// WriteLayer uploads tightly packed pixels covering a whole layer.
//
// Parameters:
//   - layer: destination array layer (0 for plain textures)
//   - pixels: width*height*4 bytes
func (t *Texture) WriteLayer(layer uint32, pixels []byte) {
	t.device.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.handle,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
	)
}

// Resize recreates the backing image and view at the new size and then frees the old ones.
// The wrapper, its format and usage are preserved. Zero in either dimension is a no-op.
// On failure the previous image, view and size stay in place.
//
// Parameters:
//   - width, height: new size in pixels
//
// Returns:
//   - bool: true if the texture was recreated
//   - error: error if reallocation fails
func (t *Texture) Resize(width, height uint32) (bool, error) {
	if width == 0 || height == 0 {
		return false, nil
	}
	oldHandle, oldView := t.handle, t.view
	oldWidth, oldHeight := t.width, t.height
	t.width, t.height = width, height
	if err := t.allocate(); err != nil {
		t.width, t.height = oldWidth, oldHeight
		return false, err
	}
	t.device.ReleaseTexture(oldHandle, oldView)
	t.source = nil
	return true, nil
}

// Release frees the image and view.
func (t *Texture) Release() {
	if t.handle == nil && t.view == nil {
		return
	}
	t.device.ReleaseTexture(t.handle, t.view)
	t.handle, t.view = nil, nil
}

func (t *Texture) Handle() *wgpu.Texture                    { return t.handle }
func (t *Texture) View() *wgpu.TextureView                  { return t.view }
func (t *Texture) Label() string                            { return t.label }
func (t *Texture) Format() wgpu.TextureFormat               { return t.format }
func (t *Texture) Usage() wgpu.TextureUsage                 { return t.usage }
func (t *Texture) ViewDimension() wgpu.TextureViewDimension { return t.viewDimension }
func (t *Texture) Layers() uint32                           { return t.layers }

// Size returns the width and height in pixels.
func (t *Texture) Size() (uint32, uint32) { return t.width, t.height }

// Source returns the pixels a texture was created from, or nil for render targets.
func (t *Texture) Source() *common.TextureStagingData { return t.source }
