package loader

import "github.com/Carmen-Shannon/oxy-forward/common"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the no-op logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger common.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = common.LoggerOrNop(logger)
	}
}

// WithAsset pre-populates the cache.
//
// Parameters:
//   - key: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *GltfAsset) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = asset
	}
}
