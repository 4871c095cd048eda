package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapSize is the width and height in texels of the shadow depth texture.
const ShadowMapSize = 1024

// Orthographic shadow frustum of the directional light. The light sits ShadowFar/2 units back from
// the origin along its direction and sees a ShadowOrthoSize square.
const (
	ShadowNear      float32 = 0.1
	ShadowFar       float32 = 100.0
	ShadowOrthoSize float32 = 50.0
)

// ShadowDevice is the subset of the GPU context the shadow map needs. *gpu.Context satisfies it.
type ShadowDevice interface {
	Device
	texture.Device
	texture.SamplerDevice
}

// ComputeLightSpace returns the view-projection matrix of a directional light shining along
// direction, looking at the origin. A zero direction is treated as straight down.
//
// Parameters:
//   - direction: the light direction (need not be normalized)
//
// Returns:
//   - [16]float32: the light-space matrix, depth mapped to [0, 1]
func ComputeLightSpace(direction mgl32.Vec3) [16]float32 {
	if direction.Len() == 0 {
		direction = mgl32.Vec3{0, -1, 0}
	}
	dir := direction.Normalize()
	eye := dir.Mul(-ShadowFar * 0.5)
	view := common.LookAt(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	h := ShadowOrthoSize / 2
	proj := common.OrthographicZO(-h, h, -h, h, ShadowNear, ShadowFar)
	return common.Mul4(proj, view)
}

// ShadowMap owns the directional light's depth texture, the comparison sampler used to read it,
// and the light-space matrix. Its bind group exposes all three to the fragment stage of the main
// pass: binding 0 depth texture, 1 comparison sampler, 2 light-space uniform.
type ShadowMap struct {
	depth      *texture.Texture
	sampler    *texture.Sampler
	lightSpace *buffer.UniformBuffer
	bindGroup  bind_group.BindGroup
}

// NewShadowMap allocates a ShadowMapSize square Depth32Float shadow map with an identity light-space
// matrix.
//
// Parameters:
//   - device: the device to allocate on
//
// Returns:
//   - *ShadowMap: the shadow map
//   - error: allocation error
func NewShadowMap(device ShadowDevice) (*ShadowMap, error) {
	s := &ShadowMap{}
	var err error
	fail := func(err error) (*ShadowMap, error) {
		s.Release()
		return nil, fmt.Errorf("failed to create shadow map: %w", err)
	}

	if s.depth, err = texture.NewDepthTexture(device, "Shadow Map Texture", ShadowMapSize, ShadowMapSize); err != nil {
		return fail(err)
	}
	if s.sampler, err = texture.NewDepthComparisonSampler(device, "Shadow Map Sampler"); err != nil {
		return fail(err)
	}
	initial := LightSpaceUniform{LightSpace: common.Identity()}
	if s.lightSpace, err = buffer.NewUniformBuffer(device, "Light Space Buffer", initial.Marshal()); err != nil {
		return fail(err)
	}
	frag := wgpu.ShaderStageFragment
	s.bindGroup, err = bind_group.NewBindGroup(device,
		bind_group.WithLabel("shadow_map_bind_group"),
		bind_group.WithDepthTexture(0, frag, s.depth.View()),
		bind_group.WithComparisonSampler(1, frag, s.sampler.Handle()),
		bind_group.WithUniform(2, frag, s.lightSpace.Handle()),
	)
	if err != nil {
		return fail(err)
	}
	return s, nil
}

// UpdateLightSpace uploads the light-space matrix read by the main pass.
func (s *ShadowMap) UpdateLightSpace(m [16]float32) {
	u := LightSpaceUniform{LightSpace: m}
	s.lightSpace.Write(u.Marshal())
}

// View returns the depth view the shadow pass renders into.
func (s *ShadowMap) View() *wgpu.TextureView { return s.depth.View() }

func (s *ShadowMap) Texture() *texture.Texture               { return s.depth }
func (s *ShadowMap) Sampler() *texture.Sampler               { return s.sampler }
func (s *ShadowMap) BindGroup() bind_group.BindGroup         { return s.bindGroup }
func (s *ShadowMap) LightSpaceBuffer() *buffer.UniformBuffer { return s.lightSpace }

// Release frees everything that was allocated. Safe on a partially built map.
func (s *ShadowMap) Release() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
	}
	if s.lightSpace != nil {
		s.lightSpace.Release()
	}
	if s.sampler != nil {
		s.sampler.Release()
	}
	if s.depth != nil {
		s.depth.Release()
	}
}

// LightCamera is the shadow pass's camera: the light-space matrix in a vertex-visible uniform.
type LightCamera struct {
	uniform   *buffer.UniformBuffer
	bindGroup bind_group.BindGroup
}

// NewLightCamera allocates the light camera uniform and its bind group (binding 0, vertex stage).
func NewLightCamera(device Device) (*LightCamera, error) {
	initial := LightSpaceUniform{LightSpace: common.Identity()}
	uniform, err := buffer.NewUniformBuffer(device, "light_camera_buffer", initial.Marshal())
	if err != nil {
		return nil, fmt.Errorf("failed to create light camera: %w", err)
	}
	bg, err := bind_group.NewBindGroup(device,
		bind_group.WithLabel("light_camera_bind_group"),
		bind_group.WithUniform(0, wgpu.ShaderStageVertex, uniform.Handle()),
	)
	if err != nil {
		uniform.Release()
		return nil, fmt.Errorf("failed to create light camera: %w", err)
	}
	return &LightCamera{uniform: uniform, bindGroup: bg}, nil
}

// Update uploads the light view-projection matrix.
func (c *LightCamera) Update(viewProj [16]float32) {
	u := LightSpaceUniform{LightSpace: viewProj}
	c.uniform.Write(u.Marshal())
}

func (c *LightCamera) BindGroup() bind_group.BindGroup { return c.bindGroup }

// Release frees the bind group and the buffer.
func (c *LightCamera) Release() {
	c.bindGroup.Release()
	c.uniform.Release()
}
