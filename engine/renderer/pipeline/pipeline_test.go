package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	modules   int
	layouts   []wgpu.PipelineLayoutDescriptor
	pipelines []wgpu.RenderPipelineDescriptor
}

func (d *fakeDevice) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	d.modules++
	return &wgpu.ShaderModule{}, nil
}

func (d *fakeDevice) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	d.layouts = append(d.layouts, *desc)
	return &wgpu.PipelineLayout{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	d.pipelines = append(d.pipelines, *desc)
	return &wgpu.RenderPipeline{}, nil
}

const wgsl = "@vertex fn vs_main() {} @fragment fn fs_main() {}"

func TestLitPipelineDescriptor(t *testing.T) {
	dev := &fakeDevice{}
	groups := []*wgpu.BindGroupLayout{{}, {}, {}, {}}
	p, err := NewPipeline(dev,
		WithLabel("Basic Pipeline"),
		WithShader(shader.FromWGSL("basic", wgsl)),
		WithVertexLayouts(common.VertexLayout()),
		WithColorFormat(wgpu.TextureFormatBGRA8UnormSrgb),
		WithDepthStencil(wgpu.TextureFormatDepth32Float),
		WithCullMode(wgpu.CullModeBack),
		WithBindGroupLayouts(groups...),
		WithPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 96),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, dev.modules, "one module backs both stages")
	require.Len(t, dev.layouts, 1)
	assert.Len(t, dev.layouts[0].BindGroupLayouts, 4)
	require.Len(t, dev.layouts[0].PushConstantRanges, 1)
	assert.Equal(t, uint32(96), dev.layouts[0].PushConstantRanges[0].End)

	desc := dev.pipelines[0]
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, desc.Fragment.Targets[0].Format)
	assert.Equal(t, wgpu.BlendFactorZero, desc.Fragment.Targets[0].Blend.Color.DstFactor, "replace blending by default")
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)

	assert.Equal(t, uint32(96), p.PushConstantSize())
	assert.False(t, p.DepthOnly())
}

func TestDepthOnlyPipeline(t *testing.T) {
	dev := &fakeDevice{}
	p, err := NewPipeline(dev,
		WithLabel("Shadow Pipeline"),
		WithVertexShader(shader.FromWGSL("shadow", wgsl), ""),
		WithDepthStencil(wgpu.TextureFormatDepth32Float),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
		WithDepthBias(2, 2.0),
		WithPushConstants(wgpu.ShaderStageVertex, 64),
	)
	require.NoError(t, err)

	desc := dev.pipelines[0]
	assert.Nil(t, desc.Fragment)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, desc.DepthStencil.DepthCompare)
	assert.Equal(t, int32(2), desc.DepthStencil.DepthBias)
	assert.Equal(t, float32(2.0), desc.DepthStencil.DepthBiasSlopeScale)
	assert.True(t, p.DepthOnly())
}

func TestDepthTestDisabledComparesAlways(t *testing.T) {
	dev := &fakeDevice{}
	_, err := NewPipeline(dev,
		WithShader(shader.FromWGSL("overlay", wgsl)),
		WithColorFormat(wgpu.TextureFormatRGBA8Unorm),
		WithDepthStencil(wgpu.TextureFormatDepth32Float),
		WithDepthTestEnabled(false),
		WithBlendState(AlphaBlending()),
	)
	require.NoError(t, err)
	assert.Equal(t, wgpu.CompareFunctionAlways, dev.pipelines[0].DepthStencil.DepthCompare)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, dev.pipelines[0].Fragment.Targets[0].Blend.Color.DstFactor)
}

func TestValidation(t *testing.T) {
	s := shader.FromWGSL("s", wgsl)
	cases := []struct {
		name string
		opts []PipelineBuilderOption
		want error
	}{
		{"no vertex shader", nil, ErrMissingVertexShader},
		{"fragment without format", []PipelineBuilderOption{WithShader(s)}, ErrInvalidPipelineConfiguration},
		{"push constants too large", []PipelineBuilderOption{
			WithVertexShader(s, ""), WithPushConstants(wgpu.ShaderStageVertex, 132),
		}, ErrInvalidPipelineConfiguration},
		{"push constants unaligned", []PipelineBuilderOption{
			WithVertexShader(s, ""), WithPushConstants(wgpu.ShaderStageVertex, 6),
		}, ErrInvalidPipelineConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev := &fakeDevice{}
			_, err := NewPipeline(dev, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, dev.modules)
			assert.Empty(t, dev.pipelines)
		})
	}
}
