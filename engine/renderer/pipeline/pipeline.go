package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrMissingVertexShader          = errors.New("pipeline has no vertex shader")
	ErrInvalidPipelineConfiguration = errors.New("invalid pipeline configuration")
)

const (
	defaultVertexEntryPoint   = "vs_main"
	defaultFragmentEntryPoint = "fs_main"
)

// Device is the subset of the GPU context needed to build render pipelines. *gpu.Context satisfies it.
type Device interface {
	shader.Device
	CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

// pipeline is the implementation of the Pipeline interface.
// It carries the builder configuration and, once built, the GPU objects.
type pipeline struct {
	label string

	vertexShader, fragmentShader         shader.Shader
	vertexEntryPoint, fragmentEntryPoint string
	vertexLayouts                        []wgpu.VertexBufferLayout

	colorFormat  wgpu.TextureFormat
	colorTargets []wgpu.ColorTargetState
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState

	depthFormat         wgpu.TextureFormat
	depthCompare        wgpu.CompareFunction
	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32

	cullMode  wgpu.CullMode
	topology  wgpu.PrimitiveTopology
	frontFace wgpu.FrontFace

	bindGroupLayouts   []*wgpu.BindGroupLayout
	pushConstantStages wgpu.ShaderStage
	pushConstantSize   uint32

	layout         *wgpu.PipelineLayout
	renderPipeline *wgpu.RenderPipeline
}

// Pipeline is a compiled render pipeline plus the layout facts callers need when recording draws.
type Pipeline interface {
	// Label returns the debug label.
	Label() string

	// Handle returns the GPU render pipeline for SetPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline
	Handle() *wgpu.RenderPipeline

	// Layout returns the pipeline layout.
	Layout() *wgpu.PipelineLayout

	// BindGroupLayouts returns the bind group layouts in group index order.
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// PushConstantSize returns the declared push constant block size in bytes, 0 if none.
	PushConstantSize() uint32

	// PushConstantStages returns the stages that read the push constant block.
	PushConstantStages() wgpu.ShaderStage

	// DepthFormat returns the depth attachment format, wgpu.TextureFormatUndefined if depth is off.
	DepthFormat() wgpu.TextureFormat

	// DepthOnly reports whether the pipeline has no fragment stage.
	DepthOnly() bool

	// Release frees the pipeline and its layout.
	Release()
}

var _ Pipeline = &pipeline{}

func newPipelineConfig(opts []PipelineBuilderOption) *pipeline {
	p := &pipeline{
		label:              "pipeline",
		vertexEntryPoint:   defaultVertexEntryPoint,
		fragmentEntryPoint: defaultFragmentEntryPoint,
		depthCompare:       wgpu.CompareFunctionLess,
		depthTestEnabled:   true,
		depthWriteEnabled:  true,
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		blendState:         ReplaceBlending(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPipeline validates the configuration, compiles the shaders and creates the pipeline layout and
// render pipeline. Nothing is created on the device when validation fails.
//
// Parameters:
//   - device: the device to build on
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the built pipeline
//   - error: ErrMissingVertexShader, ErrInvalidPipelineConfiguration, shader.ErrShaderCompilation or a creation error
func NewPipeline(device Device, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := newPipelineConfig(opts)
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", p.label, err)
	}

	vs, err := p.vertexShader.Module(device)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: vertex stage: %w", p.label, err)
	}
	var fs *wgpu.ShaderModule
	if p.fragmentShader != nil {
		fs, err = p.fragmentShader.Module(device)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: fragment stage: %w", p.label, err)
		}
	}

	layoutDesc := &wgpu.PipelineLayoutDescriptor{
		Label:            p.label + " Layout",
		BindGroupLayouts: p.bindGroupLayouts,
	}
	if p.pushConstantSize > 0 {
		layoutDesc.PushConstantRanges = []wgpu.PushConstantRange{{
			Stages: p.pushConstantStages,
			Start:  0,
			End:    p.pushConstantSize,
		}}
	}
	layout, err := device.CreatePipelineLayout(layoutDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout %q: %w", p.label, err)
	}
	p.layout = layout

	created, err := device.CreateRenderPipeline(p.descriptor(vs, fs))
	if err != nil {
		layout.Release()
		p.layout = nil
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", p.label, err)
	}
	p.renderPipeline = created
	return p, nil
}

func (p *pipeline) validate() error {
	if p.vertexShader == nil {
		return ErrMissingVertexShader
	}
	if p.fragmentShader != nil && len(p.colorTargets) == 0 && p.colorFormat == wgpu.TextureFormatUndefined {
		return fmt.Errorf("%w: fragment stage without a color format", ErrInvalidPipelineConfiguration)
	}
	if p.pushConstantSize > gpu.MaxPushConstantSize {
		return fmt.Errorf("%w: push constants of %d bytes exceed %d", ErrInvalidPipelineConfiguration, p.pushConstantSize, gpu.MaxPushConstantSize)
	}
	if p.pushConstantSize%4 != 0 {
		return fmt.Errorf("%w: push constant size %d is not a multiple of 4", ErrInvalidPipelineConfiguration, p.pushConstantSize)
	}
	if p.pushConstantSize > 0 && p.pushConstantStages == wgpu.ShaderStageNone {
		return fmt.Errorf("%w: push constants without shader stages", ErrInvalidPipelineConfiguration)
	}
	return nil
}

func (p *pipeline) descriptor(vs, fs *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.vertexEntryPoint,
			Buffers:    p.vertexLayouts,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if fs != nil {
		targets := p.colorTargets
		if len(targets) == 0 {
			targets = []wgpu.ColorTargetState{{
				Format:    p.colorFormat,
				Blend:     p.blendState,
				WriteMask: p.writeMask,
			}}
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.fragmentEntryPoint,
			Targets:    targets,
		}
	}

	if p.depthFormat != wgpu.TextureFormatUndefined {
		compare := p.depthCompare
		if !p.depthTestEnabled {
			compare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        compare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}
	return desc
}

func (p *pipeline) Label() string                             { return p.label }
func (p *pipeline) Handle() *wgpu.RenderPipeline              { return p.renderPipeline }
func (p *pipeline) Layout() *wgpu.PipelineLayout              { return p.layout }
func (p *pipeline) BindGroupLayouts() []*wgpu.BindGroupLayout { return p.bindGroupLayouts }
func (p *pipeline) PushConstantSize() uint32                  { return p.pushConstantSize }
func (p *pipeline) PushConstantStages() wgpu.ShaderStage      { return p.pushConstantStages }
func (p *pipeline) DepthFormat() wgpu.TextureFormat           { return p.depthFormat }
func (p *pipeline) DepthOnly() bool                           { return p.fragmentShader == nil }

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
}
