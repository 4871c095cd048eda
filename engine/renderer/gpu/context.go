package gpu

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaxPushConstantSize is the push constant budget requested from the device.
// 128 bytes is the minimum every native backend guarantees.
const MaxPushConstantSize = 128

// MaxTextureArrayLayers is the layer count requested for the global texture array.
// The WebGPU default of 256 is below the asset manager's slot capacity.
const MaxTextureArrayLayers = 512

// Context owns the WebGPU instance, adapter, logical device and queue, plus the optional
// presentation surface. Every GPU resource in the engine is created through it, and all of
// them must be released before Release is called on the context.
//
// The wrapper methods exist so resource packages can depend on small interfaces that
// *Context satisfies, keeping them testable without an adapter.
type Context struct {
	mu *sync.Mutex

	label                string
	powerPreference      wgpu.PowerPreference
	forceFallbackAdapter bool
	features             []wgpu.FeatureName
	limits               wgpu.Limits
	presentMode          wgpu.PresentMode
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	logger               common.Logger

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *Surface

	// rawSurface is released directly when bootstrap fails before surface is wrapped.
	rawSurface *wgpu.Surface
}

// DefaultLimits returns the WebGPU default limits raised for this engine: eight bind groups,
// a 128 byte push constant block and 512 texture array layers. A device that cannot meet
// them fails at NewContext rather than during a frame.
func DefaultLimits() wgpu.Limits {
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 8
	limits.MaxPushConstantSize = MaxPushConstantSize
	limits.MaxTextureArrayLayers = MaxTextureArrayLayers
	return limits
}

// DefaultFeatures returns the device features the engine's pipelines rely on.
func DefaultFeatures() []wgpu.FeatureName {
	return []wgpu.FeatureName{wgpu.FeatureName(wgpu.NativeFeaturePushConstants)}
}

// NewContext acquires an adapter and device matching the requested features, limits and power
// preference. Acquisition blocks once at startup. Failure is returned, never downgraded.
//
// Parameters:
//   - options: functional options to configure the context
//
// Returns:
//   - *Context: the ready context
//   - error: ErrNoSuitableAdapter, ErrAdapterRequest or ErrDeviceRequest (wrapped)
func NewContext(options ...ContextBuilderOption) (*Context, error) {
	c := &Context{
		mu:              &sync.Mutex{},
		label:           "Oxy Device",
		powerPreference: wgpu.PowerPreferenceHighPerformance,
		features:        DefaultFeatures(),
		limits:          DefaultLimits(),
		presentMode:     wgpu.PresentModeFifo,
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = common.LoggerOrNop(c.logger)

	c.instance = wgpu.CreateInstance(nil)

	var rawSurface *wgpu.Surface
	if c.surfaceDescriptor != nil {
		rawSurface = c.instance.CreateSurface(c.surfaceDescriptor)
		c.rawSurface = rawSurface
	}

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      c.powerPreference,
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    rawSurface,
	})
	if err != nil {
		c.logger.Errorf("adapter request failed: %v", err)
		c.Release()
		return nil, fmt.Errorf("%w: %w", ErrAdapterRequest, err)
	}
	if adapter == nil {
		c.Release()
		return nil, ErrNoSuitableAdapter
	}
	c.adapter = adapter

	limits := c.limits
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            c.label,
		RequiredFeatures: c.features,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		c.logger.Errorf("device request failed (features=%v): %v", c.features, err)
		c.Release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceRequest, err)
	}
	c.device = device
	c.queue = device.GetQueue()

	if rawSurface != nil {
		c.surface = NewSurface(
			&wgpuSurfaceBackend{surface: rawSurface, adapter: adapter, device: device},
			WithSurfacePresentMode(c.presentMode),
			WithSurfaceLogger(c.logger),
		)
	}

	c.logger.Infof("created device %q (power preference %v, %d required features)", c.label, c.powerPreference, len(c.features))
	return c, nil
}

func (c *Context) Instance() *wgpu.Instance { return c.instance }
func (c *Context) Adapter() *wgpu.Adapter   { return c.adapter }
func (c *Context) Device() *wgpu.Device     { return c.device }
func (c *Context) Queue() *wgpu.Queue       { return c.queue }

// Surface returns the presentation surface, or nil for a headless context.
func (c *Context) Surface() *Surface { return c.surface }

// Logger returns the context logger.
func (c *Context) Logger() common.Logger { return c.logger }

// SupportsFeature reports whether the device was created with the given feature.
// Device creation fails if a required feature is missing, so the required set is authoritative.
//
// Parameters:
//   - feature: the feature to check
//
// Returns:
//   - bool: true if the feature is enabled on the device
func (c *Context) SupportsFeature(feature wgpu.FeatureName) bool {
	return slices.Contains(c.features, feature)
}

// Limits returns the limits the device was created with.
func (c *Context) Limits() wgpu.Limits { return c.limits }

func (c *Context) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return c.device.CreateBuffer(desc)
}

func (c *Context) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	c.queue.WriteBuffer(buffer, offset, data)
}

func (c *Context) ReleaseBuffer(buffer *wgpu.Buffer) {
	if buffer != nil {
		buffer.Release()
	}
}

func (c *Context) CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error) {
	return c.device.CreateTexture(desc)
}

func (c *Context) CreateTextureView(texture *wgpu.Texture, desc *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return texture.CreateView(desc)
}

func (c *Context) WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) {
	c.queue.WriteTexture(dst, data, layout, size)
}

// ReleaseTexture releases a view and its texture. Either may be nil.
func (c *Context) ReleaseTexture(texture *wgpu.Texture, view *wgpu.TextureView) {
	if view != nil {
		view.Release()
	}
	if texture != nil {
		texture.Release()
	}
}

func (c *Context) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return c.device.CreateSampler(desc)
}

func (c *Context) ReleaseSampler(sampler *wgpu.Sampler) {
	if sampler != nil {
		sampler.Release()
	}
}

func (c *Context) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return c.device.CreateBindGroupLayout(desc)
}

func (c *Context) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return c.device.CreateBindGroup(desc)
}

func (c *Context) ReleaseBindGroup(group *wgpu.BindGroup) {
	if group != nil {
		group.Release()
	}
}

func (c *Context) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	return c.device.CreateShaderModule(desc)
}

func (c *Context) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return c.device.CreatePipelineLayout(desc)
}

func (c *Context) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return c.device.CreateRenderPipeline(desc)
}

// CreateCommandEncoder creates a labeled command encoder.
func (c *Context) CreateCommandEncoder(label string) (*wgpu.CommandEncoder, error) {
	return c.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
}

// Submit submits finished command buffers to the queue in order and releases them.
func (c *Context) Submit(commandBuffers ...*wgpu.CommandBuffer) {
	c.queue.Submit(commandBuffers...)
	for _, cb := range commandBuffers {
		cb.Release()
	}
}

// Release tears the context down in reverse creation order. Safe on a partially built context.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface != nil {
		c.surface.release()
		c.surface = nil
	} else if c.rawSurface != nil {
		c.rawSurface.Release()
	}
	c.rawSurface = nil
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
