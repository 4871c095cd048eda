package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/assets"
	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipelines"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/render_pass"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Labels of the frame's GPU work, visible in GPU debuggers.
const (
	RenderEncoderLabel  = "Render Encoder"
	ShadowPassLabel     = "Shadow Pass"
	MainRenderPassLabel = "Main Render Pass"
	DepthTextureLabel   = "Depth Texture"
)

// Device is everything the renderer allocates through. *gpu.Context satisfies it.
type Device interface {
	assets.Device
	pipeline.Device
}

// RenderingState holds the counters of the last rendered frame.
type RenderingState struct {
	// FrameCount is the number of frames submitted.
	FrameCount uint64
	// SkippedFrames is the number of frames abandoned because the surface could not be acquired.
	SkippedFrames uint64
	// DrawCalls is the number of draws recorded in the last frame, both passes.
	DrawCalls int
	// Triangles is the number of triangles drawn in the last frame, both passes.
	Triangles int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	device Device
	target FrameTarget
	logger common.Logger

	clearColor wgpu.Color

	camera       camera.Camera
	cameraBuffer *camera.CameraBuffer
	assets       *assets.AssetManager
	assetOptions []assets.AssetManagerBuilderOption
	ownsAssets   bool

	lighting    *light.LightingBuffer
	shadowMap   *light.ShadowMap
	lightCamera *light.LightCamera
	depth       *texture.Texture

	basic  *pipelines.BasicPipeline
	shadow *pipelines.ShadowPipeline

	state RenderingState
}

// Renderer records and presents the two-pass forward frame: a depth-only shadow pass from the
// directional light followed by the lit main pass into the surface.
type Renderer interface {
	// RenderFrame renders one frame of world. Texture bindings are refreshed and all uniforms
	// uploaded before the surface is acquired; a failed acquisition records nothing.
	//
	// Parameters:
	//   - world: the entities to draw
	//
	// Returns:
	//   - error: non-nil only for fatal errors (out of memory, submission failure); transient
	//     surface errors skip the frame and return nil
	RenderFrame(world World) error

	// Resize resizes the surface and depth texture and updates the camera aspect ratio in one step
	// relative to RenderFrame. Zero in either dimension is a no-op.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	//
	// Returns:
	//   - bool: true if anything was resized
	Resize(width, height uint32) bool

	// Camera returns the main camera.
	Camera() camera.Camera

	// Assets returns the asset manager whose texture array the basic pipeline samples.
	Assets() *assets.AssetManager

	// State returns the counters of the last frame.
	State() RenderingState

	// ClearColor returns the main pass clear color.
	ClearColor() wgpu.Color

	// SetClearColor sets the main pass clear color.
	SetClearColor(c wgpu.Color)

	// DepthTexture returns the main pass depth texture, sized to the surface.
	DepthTexture() *texture.Texture

	// ShadowMap returns the directional light's shadow map.
	ShadowMap() *light.ShadowMap

	// Release frees every GPU resource the renderer created.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the renderer's GPU resources: the asset manager (unless one is supplied), the
// camera and lighting uniforms, the shadow map, a depth texture at the target size and both
// pipelines.
//
// Parameters:
//   - device: the device to allocate on
//   - target: the surface frames are acquired from
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error if any resource cannot be created; everything created so far is released
func NewRenderer(device Device, target FrameTarget, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:         &sync.Mutex{},
		device:     device,
		target:     target,
		clearColor: wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}
	r.logger = common.LoggerOrNop(r.logger)

	if err := r.init(); err != nil {
		r.Release()
		r.logger.Errorf("renderer initialization failed: %v", err)
		return nil, err
	}
	return r, nil
}

func (r *renderer) init() error {
	width, height := r.target.Size()
	if r.camera == nil {
		r.camera = camera.NewPerspectiveCamera(aspect(width, height))
	}

	var err error
	if r.assets == nil {
		opts := append([]assets.AssetManagerBuilderOption{assets.WithLogger(r.logger)}, r.assetOptions...)
		if r.assets, err = assets.NewAssetManager(r.device, opts...); err != nil {
			return err
		}
		r.ownsAssets = true
	}
	if r.cameraBuffer, err = camera.NewCameraBuffer(r.device); err != nil {
		return err
	}
	if r.lighting, err = light.NewLightingBuffer(r.device); err != nil {
		return err
	}
	if r.shadowMap, err = light.NewShadowMap(r.device); err != nil {
		return err
	}
	if r.lightCamera, err = light.NewLightCamera(r.device); err != nil {
		return err
	}
	if r.depth, err = texture.NewDepthTexture(r.device, DepthTextureLabel, width, height); err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}

	layouts := pipelines.BasicLayouts{
		Textures: r.assets.TextureBindGroupLayout(),
		Camera:   r.cameraBuffer.BindGroup().Layout(),
		Lighting: r.lighting.BindGroup().Layout(),
		Shadow:   r.shadowMap.BindGroup().Layout(),
	}
	if r.basic, err = pipelines.NewBasicPipeline(r.device, r.target.Format(), layouts); err != nil {
		return err
	}
	if r.shadow, err = pipelines.NewShadowPipeline(r.device, r.lightCamera.BindGroup().Layout()); err != nil {
		return err
	}
	r.logger.Infof("renderer ready at %dx%d, format %v", width, height, r.target.Format())
	return nil
}

func aspect(width, height uint32) float32 {
	if width == 0 || height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func groupOf(bg bind_group.BindGroup) *wgpu.BindGroup {
	if bg == nil {
		return nil
	}
	return bg.Group()
}

func (r *renderer) RenderFrame(world World) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.assets.UpdateTextureBindings(); err != nil {
		r.logger.Warnf("texture bindings not updated, keeping previous: %v", err)
	}

	data := collectFrame(world)
	r.cameraBuffer.Update(r.camera)
	r.lighting.Update(&data.lighting)
	r.lightCamera.Update(data.lightSpace)
	r.shadowMap.UpdateLightSpace(data.lightSpace)

	frame, err := r.target.Acquire()
	if err != nil {
		return r.handleAcquireError(err)
	}
	defer frame.Release()

	encoder, err := frame.Encoder(RenderEncoderLabel)
	if err != nil {
		return err
	}

	var state RenderingState
	count := func(p render_pass.RenderPass) {
		state.DrawCalls += p.DrawCalls()
		state.Triangles += p.Triangles()
	}

	err = render_pass.NewRenderPassBuilder(
		render_pass.WithLabel(ShadowPassLabel),
		render_pass.WithLogger(r.logger),
		render_pass.WithDepthTarget(r.shadowMap.View()),
		render_pass.WithClearDepth(1.0),
	).Record(encoder, func(p render_pass.RenderPass) {
		r.shadow.Record(p, groupOf(r.lightCamera.BindGroup()), data.items)
		count(p)
	})
	if err != nil {
		return fmt.Errorf("failed to record shadow pass: %w", err)
	}

	groups := pipelines.BasicBindGroups{
		Textures: groupOf(r.assets.TextureBindGroup()),
		Camera:   groupOf(r.cameraBuffer.BindGroup()),
		Lighting: groupOf(r.lighting.BindGroup()),
		Shadow:   groupOf(r.shadowMap.BindGroup()),
	}
	c := r.clearColor
	err = render_pass.NewRenderPassBuilder(
		render_pass.WithLabel(MainRenderPassLabel),
		render_pass.WithLogger(r.logger),
		render_pass.WithColorTarget(frame.View()),
		render_pass.WithClearColor(c.R, c.G, c.B, c.A),
		render_pass.WithDepthTarget(r.depth.View()),
		render_pass.WithClearDepth(1.0),
	).Record(encoder, func(p render_pass.RenderPass) {
		r.basic.Record(p, groups, r.camera.ViewProjection(), data.items)
		count(p)
	})
	if err != nil {
		return fmt.Errorf("failed to record main pass: %w", err)
	}

	if err := frame.Submit(); err != nil {
		r.logger.Errorf("frame submission failed: %v", err)
		return err
	}
	frame.Present()

	state.FrameCount = r.state.FrameCount + 1
	state.SkippedFrames = r.state.SkippedFrames
	r.state = state
	return nil
}

// handleAcquireError applies the surface error policy: lost or outdated surfaces are reconfigured,
// out of memory is fatal, anything else skips the frame.
func (r *renderer) handleAcquireError(err error) error {
	kind := gpu.ClassifySurfaceError(err)
	switch gpu.FrameActionFor(kind) {
	case gpu.FrameActionReconfigure:
		r.logger.Warnf("surface %v, reconfiguring: %v", kind, err)
		r.target.Reconfigure()
	case gpu.FrameActionFatal:
		r.logger.Errorf("surface acquisition failed fatally: %v", err)
		return fmt.Errorf("failed to acquire surface: %w", err)
	default:
		r.logger.Warnf("surface %v, skipping frame: %v", kind, err)
	}
	r.state.SkippedFrames++
	return nil
}

func (r *renderer) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.target.Resize(width, height)
	if _, err := r.depth.Resize(width, height); err != nil {
		r.logger.Errorf("failed to resize depth texture to %dx%d: %v", width, height, err)
	}
	r.camera.SetAspect(aspect(width, height))
	r.logger.Debugf("resized to %dx%d", width, height)
	return true
}

func (r *renderer) Camera() camera.Camera          { return r.camera }
func (r *renderer) Assets() *assets.AssetManager   { return r.assets }
func (r *renderer) DepthTexture() *texture.Texture { return r.depth }
func (r *renderer) ShadowMap() *light.ShadowMap    { return r.shadowMap }

func (r *renderer) State() RenderingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) ClearColor() wgpu.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetClearColor(c wgpu.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = c
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shadow != nil {
		r.shadow.Release()
		r.shadow = nil
	}
	if r.basic != nil {
		r.basic.Release()
		r.basic = nil
	}
	if r.depth != nil {
		r.depth.Release()
		r.depth = nil
	}
	if r.lightCamera != nil {
		r.lightCamera.Release()
		r.lightCamera = nil
	}
	if r.shadowMap != nil {
		r.shadowMap.Release()
		r.shadowMap = nil
	}
	if r.lighting != nil {
		r.lighting.Release()
		r.lighting = nil
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
		r.cameraBuffer = nil
	}
	if r.assets != nil && r.ownsAssets {
		r.assets.Release()
		r.assets = nil
	}
}
