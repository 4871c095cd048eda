package pipelines

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Constant and slope-scaled depth bias of the shadow pipeline.
const (
	ShadowDepthBias      int32   = 2
	ShadowDepthBiasSlope float32 = 2.0
)

// ShadowPipeline renders shadow casters into the shadow map from the directional light.
type ShadowPipeline struct {
	shader   shader.Shader
	pipeline pipeline.Pipeline
}

// NewShadowPipeline builds the depth-only pipeline: vertex stage only, Depth32Float with LessEqual,
// depth bias 2 / slope 2.0, the light camera at group 0 and a 64-byte model-matrix push constant.
//
// Parameters:
//   - device: the device to build on
//   - lightCameraLayout: layout of the light camera bind group
//
// Returns:
//   - *ShadowPipeline: the pipeline
//   - error: error if the shader or pipeline cannot be created
func NewShadowPipeline(device pipeline.Device, lightCameraLayout *wgpu.BindGroupLayout) (*ShadowPipeline, error) {
	s := shader.FromWGSL("shadow.wgsl", ShadowShaderSource)
	p, err := pipeline.NewPipeline(device,
		pipeline.WithLabel("Shadow Pipeline"),
		pipeline.WithVertexShader(s, "vs_main"),
		pipeline.WithVertexLayouts(common.VertexLayout()),
		pipeline.WithDepthStencil(texture.DepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthBias(ShadowDepthBias, ShadowDepthBiasSlope),
		pipeline.WithBindGroupLayouts(lightCameraLayout),
		pipeline.WithPushConstants(wgpu.ShaderStageVertex, ShadowPushConstantSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow pipeline: %w", err)
	}
	return &ShadowPipeline{shader: s, pipeline: p}, nil
}

func (s *ShadowPipeline) Pipeline() pipeline.Pipeline { return s.pipeline }

// Record draws every shadow-casting item into the open depth-only pass.
//
// Parameters:
//   - pass: the open shadow pass
//   - lightCamera: the light camera bind group
//   - items: the frame's draw items; those with CastsShadows unset are skipped
//
// Returns:
//   - int: the number of draws recorded
func (s *ShadowPipeline) Record(pass Pass, lightCamera *wgpu.BindGroup, items []DrawItem) int {
	pass.SetPipeline(s.pipeline.Handle())
	pass.SetBindGroup(0, lightCamera)

	draws := 0
	for _, item := range items {
		if item.Mesh == nil || !item.CastsShadows {
			continue
		}
		pc := ShadowPushConstants{Model: item.Model}
		pass.SetPushConstants(wgpu.ShaderStageVertex, 0, pc.Marshal())
		item.Mesh.Draw(pass)
		draws++
	}
	return draws
}

// Release frees the pipeline and its shader module.
func (s *ShadowPipeline) Release() {
	s.pipeline.Release()
	s.shader.Release()
}
