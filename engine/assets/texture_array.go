package assets

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
)

// Default texture-array layer size. Every slot is resampled to it.
const (
	DefaultLayerWidth  = 256
	DefaultLayerHeight = 256
)

// TextureArrayBinder turns the slot table into the bind group the basic pipeline samples:
// binding 0 a texture_2d_array, binding 1 a filtering sampler, both fragment-visible.
// The layout never changes, so pipelines built against Layout stay valid across rebuilds.
type TextureArrayBinder interface {
	// Layout returns the persistent bind group layout.
	Layout() *wgpu.BindGroupLayout

	// Bind builds a new array holding one layer per texture, in slot order.
	//
	// Parameters:
	//   - textures: the slot textures, index 0 first
	//
	// Returns:
	//   - bind_group.BindGroup: the new group; the previous one is released
	//   - error: error if allocation fails, in which case the previous group stays current
	Bind(textures []*texture.Texture) (bind_group.BindGroup, error)

	// Release frees the current array and group and the sampler.
	Release()
}

// Device is everything the asset manager allocates on.
type Device interface {
	bind_group.Device
	texture.Device
	texture.SamplerDevice
	buffer.Device
}

// textureArray is the default TextureArrayBinder.
type textureArray struct {
	device        Device
	logger        common.Logger
	width, height uint32

	layout  *wgpu.BindGroupLayout
	sampler *texture.Sampler
	array   *texture.Texture
	group   bind_group.BindGroup
}

var _ TextureArrayBinder = &textureArray{}

func newTextureArray(device Device, logger common.Logger, width, height uint32) (*textureArray, error) {
	sampler, err := texture.NewRepeatLinearSampler(device, "asset_manager_sampler")
	if err != nil {
		return nil, fmt.Errorf("failed to create texture array sampler: %w", err)
	}
	layout, err := bind_group.NewLayout(device,
		bind_group.WithLabel("global_texture_array_layout"),
		bind_group.WithTextureArray(0, wgpu.ShaderStageFragment, nil),
		bind_group.WithSampler(1, wgpu.ShaderStageFragment, nil),
	)
	if err != nil {
		sampler.Release()
		return nil, fmt.Errorf("failed to create texture array layout: %w", err)
	}
	return &textureArray{
		device:  device,
		logger:  logger,
		width:   width,
		height:  height,
		layout:  layout,
		sampler: sampler,
	}, nil
}

func (a *textureArray) Layout() *wgpu.BindGroupLayout { return a.layout }

func (a *textureArray) Bind(textures []*texture.Texture) (bind_group.BindGroup, error) {
	array, err := texture.NewTextureArray(a.device, "global_texture_array", a.width, a.height, uint32(len(textures)))
	if err != nil {
		return nil, err
	}
	for i, tex := range textures {
		array.WriteLayer(uint32(i), resampleLayer(tex, a.width, a.height))
	}

	group, err := bind_group.NewBindGroup(a.device,
		bind_group.WithLabel("global_texture_array"),
		bind_group.WithLayout(a.layout),
		bind_group.WithTextureArray(0, wgpu.ShaderStageFragment, array.View()),
		bind_group.WithSampler(1, wgpu.ShaderStageFragment, a.sampler.Handle()),
	)
	if err != nil {
		array.Release()
		return nil, err
	}

	if a.group != nil {
		a.group.Release()
	}
	if a.array != nil {
		a.array.Release()
	}
	a.array, a.group = array, group
	a.logger.Debugf("texture array rebuilt with %d layers of %dx%d", len(textures), a.width, a.height)
	return group, nil
}

func (a *textureArray) Release() {
	if a.group != nil {
		a.group.Release()
		a.group = nil
	}
	if a.array != nil {
		a.array.Release()
		a.array = nil
	}
	a.sampler.Release()
}

// resampleLayer returns width*height RGBA pixels for tex. Textures without CPU-side pixels,
// such as render targets, fill the layer with white.
func resampleLayer(tex *texture.Texture, width, height uint32) []byte {
	var src *common.TextureStagingData
	if tex != nil {
		src = tex.Source()
	}
	if src == nil || src.Validate() != nil {
		pixels := make([]byte, int(width*height*4))
		for i := range pixels {
			pixels[i] = 0xff
		}
		return pixels
	}
	if src.Width == width && src.Height == height {
		return src.Pixels
	}

	in := &image.RGBA{
		Pix:    src.Pixels,
		Stride: int(src.Width) * 4,
		Rect:   image.Rect(0, 0, int(src.Width), int(src.Height)),
	}
	out := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.BiLinear.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)
	return out.Pix
}
