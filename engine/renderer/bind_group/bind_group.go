package bind_group

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrEmptyBindGroup   = errors.New("bind group declares no bindings")
	ErrDuplicateBinding = errors.New("binding index declared twice")
	ErrMissingResource  = errors.New("binding has no resource")
)

// Device is the subset of the GPU context needed to build bind groups. *gpu.Context satisfies it.
type Device interface {
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	ReleaseBindGroup(group *wgpu.BindGroup)
}

// bindGroupImpl is the implementation of the BindGroup interface.
type bindGroupImpl struct {
	device Device
	label  string
	group  *wgpu.BindGroup
	layout *wgpu.BindGroupLayout
	kinds  map[uint32]EntryKind
}

// BindGroup is a built bind group together with the layout it was created against.
type BindGroup interface {
	// Label returns the debug label.
	Label() string

	// Group returns the GPU bind group to pass to SetBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	Group() *wgpu.BindGroup

	// Layout returns the layout the group conforms to. Pipelines that bind this group must be
	// created with the same layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	Layout() *wgpu.BindGroupLayout

	// Kind returns the declared kind of a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - EntryKind: the kind
	//   - bool: false if the index is not declared
	Kind(binding uint32) (EntryKind, bool)

	// Release frees the bind group. The layout is left alone since pipelines may still use it.
	Release()
}

var _ BindGroup = &bindGroupImpl{}

// LayoutDescriptor validates the declared slots and returns the layout descriptor. Entries are
// sorted by binding index.
//
// Parameters:
//   - options: slot declarations
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the descriptor
//   - error: ErrEmptyBindGroup or ErrDuplicateBinding
func LayoutDescriptor(options ...BindGroupBuilderOption) (wgpu.BindGroupLayoutDescriptor, error) {
	b := newBuilder(options)
	if err := b.validateLayout(); err != nil {
		return wgpu.BindGroupLayoutDescriptor{}, err
	}
	return b.layoutDescriptor(), nil
}

// NewLayout creates a layout without any bound resources.
//
// Parameters:
//   - device: the device
//   - options: slot declarations; resources are ignored
//
// Returns:
//   - *wgpu.BindGroupLayout: the layout
//   - error: validation or creation error
func NewLayout(device Device, options ...BindGroupBuilderOption) (*wgpu.BindGroupLayout, error) {
	b := newBuilder(options)
	if err := b.validateLayout(); err != nil {
		return nil, fmt.Errorf("bind group %q: %w", b.label, err)
	}
	desc := b.layoutDescriptor()
	layout, err := device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	return layout, nil
}

// NewBindGroup creates a bind group and, unless WithLayout is given, its layout.
// Every declared slot must carry its resource.
//
// Parameters:
//   - device: the device
//   - options: slot declarations with resources
//
// Returns:
//   - BindGroup: the bind group
//   - error: ErrEmptyBindGroup, ErrDuplicateBinding, ErrMissingResource or a creation error
func NewBindGroup(device Device, options ...BindGroupBuilderOption) (BindGroup, error) {
	b := newBuilder(options)
	if err := b.validateLayout(); err != nil {
		return nil, fmt.Errorf("bind group %q: %w", b.label, err)
	}
	if err := b.validateResources(); err != nil {
		return nil, fmt.Errorf("bind group %q: %w", b.label, err)
	}

	layout := b.layout
	if layout == nil {
		desc := b.layoutDescriptor()
		var err error
		layout, err = device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
		}
	}

	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   b.label,
		Layout:  layout,
		Entries: b.groupEntries(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", b.label, err)
	}

	kinds := make(map[uint32]EntryKind, len(b.entries))
	for _, e := range b.entries {
		kinds[e.binding] = e.kind
	}
	return &bindGroupImpl{device: device, label: b.label, group: group, layout: layout, kinds: kinds}, nil
}

func (g *bindGroupImpl) Label() string                 { return g.label }
func (g *bindGroupImpl) Group() *wgpu.BindGroup        { return g.group }
func (g *bindGroupImpl) Layout() *wgpu.BindGroupLayout { return g.layout }

func (g *bindGroupImpl) Kind(binding uint32) (EntryKind, bool) {
	k, ok := g.kinds[binding]
	return k, ok
}

func (g *bindGroupImpl) Release() {
	if g.group != nil {
		g.device.ReleaseBindGroup(g.group)
		g.group = nil
	}
}

func (b *builder) validateLayout() error {
	if len(b.entries) == 0 {
		return ErrEmptyBindGroup
	}
	seen := make(map[uint32]bool, len(b.entries))
	for _, e := range b.entries {
		if seen[e.binding] {
			return fmt.Errorf("%w: %d", ErrDuplicateBinding, e.binding)
		}
		seen[e.binding] = true
	}
	sort.SliceStable(b.entries, func(i, j int) bool { return b.entries[i].binding < b.entries[j].binding })
	return nil
}

func (b *builder) validateResources() error {
	for _, e := range b.entries {
		var missing bool
		switch e.kind {
		case EntryUniform, EntryStorage, EntryStorageReadWrite:
			missing = e.buffer == nil
		case EntryTexture, EntryDepthTexture, EntryTextureArray:
			missing = e.view == nil
		case EntrySampler, EntryComparisonSampler:
			missing = e.sampler == nil
		}
		if missing {
			return fmt.Errorf("%w: %s at binding %d", ErrMissingResource, e.kind, e.binding)
		}
	}
	return nil
}

func (b *builder) layoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(b.entries))
	for _, e := range b.entries {
		le := wgpu.BindGroupLayoutEntry{
			Binding:    e.binding,
			Visibility: e.visibility,
		}
		switch e.kind {
		case EntryUniform:
			le.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}
		case EntryStorage:
			le.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}
		case EntryStorageReadWrite:
			le.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}
		case EntryTexture:
			le.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case EntryDepthTexture:
			le.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeDepth,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case EntryTextureArray:
			le.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2DArray,
			}
		case EntrySampler:
			le.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
		case EntryComparisonSampler:
			le.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison}
		}
		entries = append(entries, le)
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   b.label + "_layout",
		Entries: entries,
	}
}

func (b *builder) groupEntries() []wgpu.BindGroupEntry {
	entries := make([]wgpu.BindGroupEntry, 0, len(b.entries))
	for _, e := range b.entries {
		ge := wgpu.BindGroupEntry{Binding: e.binding}
		switch e.kind {
		case EntryUniform, EntryStorage, EntryStorageReadWrite:
			ge.Buffer = e.buffer
			ge.Offset = 0
			ge.Size = wgpu.WholeSize
		case EntryTexture, EntryDepthTexture, EntryTextureArray:
			ge.TextureView = e.view
		case EntrySampler, EntryComparisonSampler:
			ge.Sampler = e.sampler
		}
		entries = append(entries, ge)
	}
	return entries
}
