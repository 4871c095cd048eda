package engine

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig replaces the whole configuration. Zero fields keep their defaults.
//
// Parameters:
//   - config: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(config Config) EngineBuilderOption {
	return func(e *engine) {
		d := e.config
		e.config = Config{
			Title:           common.Coalesce(config.Title, d.Title),
			Width:           common.Coalesce(config.Width, d.Width),
			Height:          common.Coalesce(config.Height, d.Height),
			PresentMode:     common.Coalesce(config.PresentMode, d.PresentMode),
			PowerPreference: common.Coalesce(config.PowerPreference, d.PowerPreference),
			ClearColor:      common.Coalesce(config.ClearColor, d.ClearColor),
			Debug:           config.Debug,
			FrameLimit:      config.FrameLimit,
		}
	}
}

// WithTitle sets the window title.
func WithTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.config.Title = common.Coalesce(title, e.config.Title)
	}
}

// WithSize sets the initial window size. Zero keeps the default for that dimension.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSize(width, height uint32) EngineBuilderOption {
	return func(e *engine) {
		e.config.Width = common.Coalesce(width, e.config.Width)
		e.config.Height = common.Coalesce(height, e.config.Height)
	}
}

// WithPresentMode sets the surface present mode.
func WithPresentMode(mode wgpu.PresentMode) EngineBuilderOption {
	return func(e *engine) {
		e.config.PresentMode = mode
	}
}

// WithClearColor sets the main pass clear color.
func WithClearColor(red, green, blue, alpha float64) EngineBuilderOption {
	return func(e *engine) {
		e.config.ClearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

// WithLogger sets the logger shared by every engine component.
func WithLogger(logger common.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithDebug enables Debug-level logging on the default logger.
func WithDebug(debug bool) EngineBuilderOption {
	return func(e *engine) {
		e.config.Debug = debug
	}
}

// WithProfiling enables or disables the once-per-second stats log line.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithFrameLimit caps the frame rate. Values <= 0 leave it uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.config.FrameLimit = max(fps, 0)
	}
}
