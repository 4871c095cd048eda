package assets

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
)

// AssetManagerBuilderOption is a functional option for configuring an AssetManager.
type AssetManagerBuilderOption func(*AssetManager)

// WithLogger sets the logger used for registration and rebuild messages.
//
// Parameters:
//   - logger: the logger; nil keeps the no-op logger
//
// Returns:
//   - AssetManagerBuilderOption: option function to apply
func WithLogger(logger common.Logger) AssetManagerBuilderOption {
	return func(am *AssetManager) {
		am.logger = common.LoggerOrNop(logger)
	}
}

// WithLayerSize sets the texture-array layer size every slot is resampled to.
//
// Parameters:
//   - width, height: layer size in pixels; zero keeps the default
//
// Returns:
//   - AssetManagerBuilderOption: option function to apply
func WithLayerSize(width, height uint32) AssetManagerBuilderOption {
	return func(am *AssetManager) {
		am.layerWidth = common.Coalesce(width, am.layerWidth)
		am.layerHeight = common.Coalesce(height, am.layerHeight)
	}
}

// WithWorkers sets the number of decode workers used by LoadBatch.
func WithWorkers(n int) AssetManagerBuilderOption {
	return func(am *AssetManager) {
		am.workers = max(n, 1)
	}
}

// WithLoader replaces the glTF loader.
func WithLoader(l loader.Loader) AssetManagerBuilderOption {
	return func(am *AssetManager) {
		am.gltf = l
	}
}

// WithTextureArrayBinder replaces the texture-array builder.
func WithTextureArrayBinder(b TextureArrayBinder) AssetManagerBuilderOption {
	return func(am *AssetManager) {
		am.binder = b
	}
}
