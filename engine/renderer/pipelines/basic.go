package pipelines

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices of the basic pipeline.
const (
	BasicGroupTextures uint32 = iota
	BasicGroupCamera
	BasicGroupLighting
	BasicGroupShadow
)

// BasicLayouts are the bind group layouts the basic pipeline is built against, in group order.
type BasicLayouts struct {
	Textures *wgpu.BindGroupLayout
	Camera   *wgpu.BindGroupLayout
	Lighting *wgpu.BindGroupLayout
	Shadow   *wgpu.BindGroupLayout
}

// BasicBindGroups are the frame's bind groups matching BasicLayouts.
type BasicBindGroups struct {
	Textures *wgpu.BindGroup
	Camera   *wgpu.BindGroup
	Lighting *wgpu.BindGroup
	Shadow   *wgpu.BindGroup
}

// BasicPipeline is the lit, textured main-pass pipeline.
type BasicPipeline struct {
	shader   shader.Shader
	pipeline pipeline.Pipeline
}

// NewBasicPipeline builds the main-pass pipeline: the embedded basic shader, one vertex buffer of
// common.VertexData, a color target of the surface format, Depth32Float with Less, back-face
// culling and a 96-byte push constant block visible to both stages.
//
// Parameters:
//   - device: the device to build on
//   - colorFormat: the surface format
//   - layouts: the four bind group layouts
//
// Returns:
//   - *BasicPipeline: the pipeline
//   - error: error if the shader or pipeline cannot be created
func NewBasicPipeline(device pipeline.Device, colorFormat wgpu.TextureFormat, layouts BasicLayouts) (*BasicPipeline, error) {
	s := shader.FromWGSL("basic.wgsl", BasicShaderSource)
	p, err := pipeline.NewPipeline(device,
		pipeline.WithLabel("Basic Pipeline"),
		pipeline.WithShader(s),
		pipeline.WithVertexLayouts(common.VertexLayout()),
		pipeline.WithColorFormat(colorFormat),
		pipeline.WithDepthStencil(texture.DepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLess),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithBindGroupLayouts(layouts.Textures, layouts.Camera, layouts.Lighting, layouts.Shadow),
		pipeline.WithPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, BasicPushConstantSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create basic pipeline: %w", err)
	}
	return &BasicPipeline{shader: s, pipeline: p}, nil
}

func (b *BasicPipeline) Pipeline() pipeline.Pipeline { return b.pipeline }

// Record binds the pipeline and its four groups, then draws every item with one push constant
// write per draw. Items without a mesh are skipped.
//
// Parameters:
//   - pass: the open main pass
//   - groups: the frame's bind groups
//   - viewProj: the camera view-projection matrix
//   - items: the meshes to draw
//
// Returns:
//   - int: the number of draws recorded
func (b *BasicPipeline) Record(pass Pass, groups BasicBindGroups, viewProj [16]float32, items []DrawItem) int {
	pass.SetPipeline(b.pipeline.Handle())
	pass.SetBindGroup(BasicGroupTextures, groups.Textures)
	pass.SetBindGroup(BasicGroupCamera, groups.Camera)
	pass.SetBindGroup(BasicGroupLighting, groups.Lighting)
	pass.SetBindGroup(BasicGroupShadow, groups.Shadow)

	stages := b.pipeline.PushConstantStages()
	draws := 0
	for _, item := range items {
		if item.Mesh == nil {
			continue
		}
		pc := BasicPushConstants{
			MVP:          common.Mul4(viewProj, item.Model),
			BaseColor:    item.BaseColor,
			TextureIndex: item.TextureIndex,
		}
		pass.SetPushConstants(stages, 0, pc.Marshal())
		item.Mesh.Draw(pass)
		draws++
	}
	return draws
}

// Release frees the pipeline and its shader module.
func (b *BasicPipeline) Release() {
	b.pipeline.Release()
	b.shader.Release()
}
