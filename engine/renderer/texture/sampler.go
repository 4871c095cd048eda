package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// SamplerDevice is the subset of the GPU context needed to create samplers.
type SamplerDevice interface {
	CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error)
	ReleaseSampler(sampler *wgpu.Sampler)
}

// Sampler pairs a GPU sampler with the configuration it was created from.
type Sampler struct {
	device SamplerDevice
	handle *wgpu.Sampler
	label  string
	config common.SamplerStagingData
}

func (s *Sampler) Handle() *wgpu.Sampler             { return s.handle }
func (s *Sampler) Label() string                     { return s.label }
func (s *Sampler) Config() common.SamplerStagingData { return s.config }
func (s *Sampler) IsComparison() bool                { return s.config.Compare != wgpu.CompareFunctionUndefined }

// Release frees the sampler. A second call is a no-op.
func (s *Sampler) Release() {
	if s.handle == nil {
		return
	}
	s.device.ReleaseSampler(s.handle)
	s.handle = nil
}

// SamplerDescriptor resolves staging data into a descriptor. Address and filter modes are copied
// as given, since their zero values are valid modes. A zero LodMaxClamp becomes 100 and a zero
// MaxAnisotropy becomes 1.
//
// Parameters:
//   - label: debug label
//   - staging: requested configuration
//
// Returns:
//   - wgpu.SamplerDescriptor: the resolved descriptor
func SamplerDescriptor(label string, staging common.SamplerStagingData) wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  staging.AddressModeU,
		AddressModeV:  staging.AddressModeV,
		AddressModeW:  staging.AddressModeW,
		MagFilter:     staging.MagFilter,
		MinFilter:     staging.MinFilter,
		MipmapFilter:  staging.MipmapFilter,
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 100),
		Compare:       staging.Compare,
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	}
}

// NewSampler creates a sampler from staging data.
func NewSampler(device SamplerDevice, label string, staging common.SamplerStagingData) (*Sampler, error) {
	desc := SamplerDescriptor(label, staging)
	handle, err := device.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", label, err)
	}
	return &Sampler{device: device, handle: handle, label: label, config: staging}, nil
}

// NewLinearSampler creates a clamp-to-edge, linearly filtered sampler.
func NewLinearSampler(device SamplerDevice, label string) (*Sampler, error) {
	return NewSampler(device, label, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	})
}

// NewNearestSampler creates a clamp-to-edge, point filtered sampler.
func NewNearestSampler(device SamplerDevice, label string) (*Sampler, error) {
	return NewSampler(device, label, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	})
}

// NewRepeatLinearSampler creates a repeating, linearly filtered sampler. Used for the global
// texture array so tiled UVs wrap.
func NewRepeatLinearSampler(device SamplerDevice, label string) (*Sampler, error) {
	return NewSampler(device, label, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	})
}

// NewDepthComparisonSampler creates a LessEqual comparison sampler for shadow map lookups.
func NewDepthComparisonSampler(device SamplerDevice, label string) (*Sampler, error) {
	return NewSampler(device, label, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		Compare:      wgpu.CompareFunctionLessEqual,
	})
}
