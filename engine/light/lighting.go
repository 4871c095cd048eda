package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PlacedPointLight is a point light together with the world position of its entity.
type PlacedPointLight struct {
	Position mgl32.Vec3
	Light    PointLight
}

// BuildLightingData packs the frame's lights into the uniform layout. At most MaxPointLights point
// lights are kept, in the order given. Only the first directional light is used; with none the
// directional slot stays zero and contributes nothing.
//
// Parameters:
//   - points: the point lights in iteration order
//   - directionals: the directional lights in iteration order
//
// Returns:
//   - LightingData: the packed data
func BuildLightingData(points []PlacedPointLight, directionals []DirectionalLight) LightingData {
	var data LightingData
	for _, p := range points {
		if !data.AddPointLight(p.Light.ToGPU(p.Position)) {
			break
		}
	}
	if len(directionals) > 0 {
		data.DirectionalLight = directionals[0].ToGPU()
	}
	return data
}

// Device is the subset of the GPU context the light resources need. *gpu.Context satisfies it.
type Device interface {
	buffer.Device
	bind_group.Device
}

// LightingBuffer is the lighting uniform and the bind group exposing it to the fragment stage.
type LightingBuffer struct {
	uniform   *buffer.UniformBuffer
	bindGroup bind_group.BindGroup
}

// NewLightingBuffer allocates an empty lighting uniform (zero lights) and its bind group.
//
// Parameters:
//   - device: the device to allocate on
//
// Returns:
//   - *LightingBuffer: the buffer
//   - error: allocation error
func NewLightingBuffer(device Device) (*LightingBuffer, error) {
	uniform, err := buffer.NewEmptyUniformBuffer(device, "lighting_buffer", LightingDataSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lighting buffer: %w", err)
	}
	bg, err := bind_group.NewBindGroup(device,
		bind_group.WithLabel("lighting_bind_group"),
		bind_group.WithUniform(0, wgpu.ShaderStageFragment, uniform.Handle()),
	)
	if err != nil {
		uniform.Release()
		return nil, err
	}
	return &LightingBuffer{uniform: uniform, bindGroup: bg}, nil
}

// Update uploads the whole struct.
func (b *LightingBuffer) Update(data *LightingData) {
	b.uniform.Write(data.Marshal())
}

func (b *LightingBuffer) BindGroup() bind_group.BindGroup { return b.bindGroup }
func (b *LightingBuffer) Buffer() *buffer.UniformBuffer   { return b.uniform }

// Release frees the bind group and the buffer.
func (b *LightingBuffer) Release() {
	b.bindGroup.Release()
	b.uniform.Release()
}
