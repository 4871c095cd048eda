package renderer

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/assets"
	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the renderer logger. Frame errors are logged at Warn, fatal ones at Error.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger common.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger
	}
}

// WithClearColor sets the main pass clear color. Defaults to (0.1, 0.2, 0.3, 1.0).
//
// Parameters:
//   - red, green, blue, alpha: the color components
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

// WithCamera replaces the default perspective camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera option to a renderer
func WithCamera(cam camera.Camera) RendererBuilderOption {
	return func(r *renderer) {
		r.camera = cam
	}
}

// WithAssetManager uses an existing asset manager. The renderer does not release it.
func WithAssetManager(am *assets.AssetManager) RendererBuilderOption {
	return func(r *renderer) {
		r.assets = am
	}
}

// WithAssetOptions passes options to the asset manager the renderer creates.
func WithAssetOptions(options ...assets.AssetManagerBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.assetOptions = append(r.assetOptions, options...)
	}
}
