package gpu

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ContextBuilderOption is a functional option applied to a Context during NewContext.
type ContextBuilderOption func(*Context)

// WithSurfaceDescriptor sets the platform surface descriptor. When set, the context creates a
// presentation surface and requires the adapter to be compatible with it.
//
// Parameters:
//   - desc: the surface descriptor, usually from window.Window.SurfaceDescriptor
//
// Returns:
//   - ContextBuilderOption: a function that applies the surface descriptor option
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) ContextBuilderOption {
	return func(c *Context) {
		c.surfaceDescriptor = desc
	}
}

// WithPowerPreference sets which class of adapter is requested. Defaults to high performance.
//
// Parameters:
//   - pref: the power preference
//
// Returns:
//   - ContextBuilderOption: a function that applies the power preference option
func WithPowerPreference(pref wgpu.PowerPreference) ContextBuilderOption {
	return func(c *Context) {
		c.powerPreference = pref
	}
}

// WithForceFallbackAdapter forces a software adapter (e.g. lavapipe or SwiftShader).
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - ContextBuilderOption: a function that applies the fallback option
func WithForceFallbackAdapter(force bool) ContextBuilderOption {
	return func(c *Context) {
		c.forceFallbackAdapter = force
	}
}

// WithRequiredFeatures replaces the set of device features the context requires.
// Device creation fails if the adapter lacks any of them.
//
// Parameters:
//   - features: the required features
//
// Returns:
//   - ContextBuilderOption: a function that applies the features option
func WithRequiredFeatures(features ...wgpu.FeatureName) ContextBuilderOption {
	return func(c *Context) {
		c.features = features
	}
}

// WithLimits replaces the limits requested from the device.
//
// Parameters:
//   - limits: the required limits
//
// Returns:
//   - ContextBuilderOption: a function that applies the limits option
func WithLimits(limits wgpu.Limits) ContextBuilderOption {
	return func(c *Context) {
		c.limits = limits
	}
}

// WithPresentMode sets the present mode used when configuring the surface.
//
// Parameters:
//   - mode: the present mode (Fifo is always supported)
//
// Returns:
//   - ContextBuilderOption: a function that applies the present mode option
func WithPresentMode(mode wgpu.PresentMode) ContextBuilderOption {
	return func(c *Context) {
		c.presentMode = mode
	}
}

// WithLabel sets the device label.
func WithLabel(label string) ContextBuilderOption {
	return func(c *Context) {
		c.label = label
	}
}

// WithLogger sets the logger used by the context and its surface.
func WithLogger(logger common.Logger) ContextBuilderOption {
	return func(c *Context) {
		c.logger = logger
	}
}
