package pipeline

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithLabel sets the debug label of the pipeline and its layout.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - PipelineBuilderOption: a function that sets the label
func WithLabel(label string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.label = label
	}
}

// WithVertexShader sets the vertex shader and its entry point.
//
// Parameters:
//   - s: the vertex shader
//   - entryPoint: the entry point name, "vs_main" when empty
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader, entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
		if entryPoint != "" {
			p.vertexEntryPoint = entryPoint
		}
	}
}

// WithFragmentShader sets the fragment shader and its entry point. Leaving the fragment shader unset
// builds a depth-only pipeline.
//
// Parameters:
//   - s: the fragment shader
//   - entryPoint: the entry point name, "fs_main" when empty
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader, entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
		if entryPoint != "" {
			p.fragmentEntryPoint = entryPoint
		}
	}
}

// WithShader uses one module for both stages with the default "vs_main" and "fs_main" entry points.
//
// Parameters:
//   - s: the combined shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets both shader stages
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
		p.fragmentShader = s
	}
}

// WithVertexEntryPoint overrides the vertex entry point name.
func WithVertexEntryPoint(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntryPoint = name
	}
}

// WithFragmentEntryPoint overrides the fragment entry point name.
func WithFragmentEntryPoint(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentEntryPoint = name
	}
}

// WithVertexLayouts sets the vertex buffer layouts, one per vertex buffer slot.
//
// Parameters:
//   - layouts: the vertex buffer layouts
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithColorTargets replaces the color targets entirely.
func WithColorTargets(targets ...wgpu.ColorTargetState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorTargets = targets
	}
}

// WithColorFormat sets a single color target of the given format, using the configured blend
// state and write mask.
//
// Parameters:
//   - format: the color attachment format, usually the surface format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color format
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithDepthStencil enables a depth attachment of the given format.
//
// Parameters:
//   - format: the depth format (e.g., wgpu.TextureFormatDepth32Float)
//
// Returns:
//   - PipelineBuilderOption: a function that enables depth for this pipeline
func WithDepthStencil(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthFormat = format
	}
}

// WithDepthCompare sets the depth compare function.
func WithDepthCompare(compare wgpu.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = compare
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled. A disabled test compares with Always.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled.
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendState sets the blend state of the color target. nil disables blending.
//
// Parameters:
//   - blendState: the blend state, e.g. AlphaBlending()
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithCullMode sets the cull mode (wgpu.CullModeNone, wgpu.CullModeFront or wgpu.CullModeBack).
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBindGroupLayouts sets the bind group layouts in group index order.
//
// Parameters:
//   - layouts: layout for group 0, group 1, and so on
//
// Returns:
//   - PipelineBuilderOption: a function that sets the bind group layouts
func WithBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayouts = layouts
	}
}

// WithPushConstants declares one push constant range starting at offset 0.
//
// Parameters:
//   - stages: shader stages that read the block
//   - size: block size in bytes, a multiple of 4 no larger than 128
//
// Returns:
//   - PipelineBuilderOption: a function that sets the push constant range
func WithPushConstants(stages wgpu.ShaderStage, size uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.pushConstantStages = stages
		p.pushConstantSize = size
	}
}

// AlphaBlending returns standard source-over blending.
func AlphaBlending() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// ReplaceBlending returns blending that overwrites the destination.
func ReplaceBlending() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
