package bind_group

import "github.com/cogentcore/webgpu/wgpu"

// EntryKind identifies what a binding slot holds.
type EntryKind int

const (
	EntryUniform EntryKind = iota
	EntryStorage
	EntryStorageReadWrite
	EntryTexture
	EntryDepthTexture
	EntryTextureArray
	EntrySampler
	EntryComparisonSampler
)

func (k EntryKind) String() string {
	switch k {
	case EntryUniform:
		return "uniform"
	case EntryStorage:
		return "storage"
	case EntryStorageReadWrite:
		return "storage_read_write"
	case EntryTexture:
		return "texture_2d"
	case EntryDepthTexture:
		return "texture_depth_2d"
	case EntryTextureArray:
		return "texture_2d_array"
	case EntrySampler:
		return "sampler"
	case EntryComparisonSampler:
		return "sampler_comparison"
	default:
		return "unknown"
	}
}

// entry is one declared binding slot and, when building a group, the resource bound to it.
type entry struct {
	binding    uint32
	visibility wgpu.ShaderStage
	kind       EntryKind

	buffer  *wgpu.Buffer
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// builder accumulates bind group options. It is never exposed; NewLayout and NewBindGroup consume it.
type builder struct {
	label   string
	layout  *wgpu.BindGroupLayout
	entries []entry
}

// BindGroupBuilderOption is a functional option declaring a binding slot or group property.
type BindGroupBuilderOption func(*builder)

// WithLabel sets the label used for the layout ("<label>_layout") and the group.
func WithLabel(label string) BindGroupBuilderOption {
	return func(b *builder) {
		b.label = label
	}
}

// WithLayout builds the group against an existing layout instead of creating one. Used when a
// group is rebuilt every time its resources change while pipelines keep referencing the layout.
//
// Parameters:
//   - layout: the layout to reuse
//
// Returns:
//   - BindGroupBuilderOption: a function that applies the layout option
func WithLayout(layout *wgpu.BindGroupLayout) BindGroupBuilderOption {
	return func(b *builder) {
		b.layout = layout
	}
}

// WithUniform declares a uniform buffer slot. buffer may be nil when only the layout is built.
//
// Parameters:
//   - binding: the binding index
//   - visibility: shader stages that read it
//   - buffer: the bound buffer
//
// Returns:
//   - BindGroupBuilderOption: a function that applies the uniform option
func WithUniform(binding uint32, visibility wgpu.ShaderStage, buffer *wgpu.Buffer) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryUniform, buffer: buffer})
}

// WithStorage declares a read-only storage buffer slot.
func WithStorage(binding uint32, visibility wgpu.ShaderStage, buffer *wgpu.Buffer) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryStorage, buffer: buffer})
}

// WithStorageReadWrite declares a read-write storage buffer slot.
func WithStorageReadWrite(binding uint32, visibility wgpu.ShaderStage, buffer *wgpu.Buffer) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryStorageReadWrite, buffer: buffer})
}

// WithTexture declares a filterable float texture_2d slot.
func WithTexture(binding uint32, visibility wgpu.ShaderStage, view *wgpu.TextureView) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryTexture, view: view})
}

// WithDepthTexture declares a texture_depth_2d slot, sampled with a comparison sampler.
func WithDepthTexture(binding uint32, visibility wgpu.ShaderStage, view *wgpu.TextureView) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryDepthTexture, view: view})
}

// WithTextureArray declares a texture_2d_array slot.
func WithTextureArray(binding uint32, visibility wgpu.ShaderStage, view *wgpu.TextureView) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryTextureArray, view: view})
}

// WithSampler declares a filtering sampler slot.
func WithSampler(binding uint32, visibility wgpu.ShaderStage, sampler *wgpu.Sampler) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntrySampler, sampler: sampler})
}

// WithComparisonSampler declares a sampler_comparison slot.
func WithComparisonSampler(binding uint32, visibility wgpu.ShaderStage, sampler *wgpu.Sampler) BindGroupBuilderOption {
	return withEntry(entry{binding: binding, visibility: visibility, kind: EntryComparisonSampler, sampler: sampler})
}

func withEntry(e entry) BindGroupBuilderOption {
	return func(b *builder) {
		b.entries = append(b.entries, e)
	}
}

func newBuilder(options []BindGroupBuilderOption) *builder {
	b := &builder{label: "bind_group"}
	for _, opt := range options {
		opt(b)
	}
	return b
}
