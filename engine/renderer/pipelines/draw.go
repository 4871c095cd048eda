package pipelines

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pass is the part of an open render pass the pipelines record into. render_pass.RenderPass
// satisfies it.
type Pass interface {
	mesh.Drawer
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(index uint32, group *wgpu.BindGroup)
	SetPushConstants(stages wgpu.ShaderStage, offset uint32, data []byte)
}

// DrawItem is one mesh to draw this frame with its model matrix and material.
type DrawItem struct {
	Mesh         *mesh.GpuMesh
	Model        [16]float32
	BaseColor    [4]float32
	TextureIndex uint32
	CastsShadows bool
}
