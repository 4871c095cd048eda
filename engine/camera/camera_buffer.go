package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device is what a CameraBuffer needs to allocate its uniform and bind group.
type Device interface {
	buffer.Device
	bind_group.Device
}

// CameraBuffer holds the camera uniform and the bind group that exposes it at binding 0.
type CameraBuffer struct {
	uniform   *buffer.UniformBuffer
	bindGroup bind_group.BindGroup
}

// NewCameraBuffer allocates the 144-byte camera uniform visible to the vertex and fragment stages.
//
// Parameters:
//   - device: the device to allocate on
//
// Returns:
//   - *CameraBuffer: the buffer and bind group
//   - error: error if either allocation fails
func NewCameraBuffer(device Device) (*CameraBuffer, error) {
	var initial GPUCameraUniform
	uniform, err := buffer.NewEmptyUniformBuffer(device, "camera_buffer", uint64(initial.Size()))
	if err != nil {
		return nil, fmt.Errorf("failed to create camera buffer: %w", err)
	}
	bg, err := bind_group.NewBindGroup(device,
		bind_group.WithLabel("camera_bind_group"),
		bind_group.WithUniform(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uniform.Handle()),
	)
	if err != nil {
		uniform.Release()
		return nil, fmt.Errorf("failed to create camera bind group: %w", err)
	}
	return &CameraBuffer{uniform: uniform, bindGroup: bg}, nil
}

// Update recomputes the camera if dirty and uploads its view-projection and eye position.
//
// Parameters:
//   - cam: the camera to upload
func (b *CameraBuffer) Update(cam Camera) {
	cam.Update()
	u := UniformFor(cam)
	b.uniform.Write(u.Marshal())
}

// UniformFor packs a camera's current matrices into the uniform layout.
// A singular view-projection uploads identity as its inverse.
func UniformFor(cam Camera) GPUCameraUniform {
	vp := cam.ViewProjection()
	inv, ok := common.Invert4(vp)
	if !ok {
		inv = common.Identity()
	}
	return GPUCameraUniform{ViewProj: vp, InvViewProj: inv, CameraPosition: cam.Position()}
}

func (b *CameraBuffer) BindGroup() bind_group.BindGroup { return b.bindGroup }
func (b *CameraBuffer) Buffer() *buffer.UniformBuffer   { return b.uniform }

// Release frees the bind group and the buffer.
func (b *CameraBuffer) Release() {
	b.bindGroup.Release()
	b.uniform.Release()
}
