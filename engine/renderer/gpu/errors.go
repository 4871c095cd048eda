package gpu

import (
	"errors"
	"strings"
)

// Bootstrap errors. All of them are fatal: the context never retries with a weaker configuration.
var (
	ErrNoSuitableAdapter = errors.New("no suitable GPU adapter found")
	ErrAdapterRequest    = errors.New("GPU adapter request failed")
	ErrDeviceRequest     = errors.New("GPU device request failed")
)

// Surface acquisition errors.
var (
	ErrSurfaceLost          = errors.New("surface lost")
	ErrSurfaceOutdated      = errors.New("surface outdated")
	ErrSurfaceTimeout       = errors.New("surface texture acquisition timed out")
	ErrOutOfMemory          = errors.New("out of memory")
	ErrSurfaceNotConfigured = errors.New("surface not configured")
)

// SurfaceErrorKind classifies a failed surface texture acquisition.
type SurfaceErrorKind int

const (
	// SurfaceErrorNone means there was no error.
	SurfaceErrorNone SurfaceErrorKind = iota
	SurfaceErrorLost
	SurfaceErrorOutdated
	SurfaceErrorTimeout
	SurfaceErrorOutOfMemory
	SurfaceErrorOther
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceErrorNone:
		return "none"
	case SurfaceErrorLost:
		return "lost"
	case SurfaceErrorOutdated:
		return "outdated"
	case SurfaceErrorTimeout:
		return "timeout"
	case SurfaceErrorOutOfMemory:
		return "out of memory"
	default:
		return "other"
	}
}

// FrameAction is what the frame loop does after a surface acquisition result.
type FrameAction int

const (
	// FrameActionContinue records and presents the frame normally.
	FrameActionContinue FrameAction = iota
	// FrameActionReconfigure reconfigures the surface at its current size and skips the frame.
	FrameActionReconfigure
	// FrameActionSkip logs the error and skips the frame.
	FrameActionSkip
	// FrameActionFatal stops rendering; the error is surfaced to the caller.
	FrameActionFatal
)

// ClassifySurfaceError maps an acquisition error onto a SurfaceErrorKind.
// Wrapped sentinel errors are matched first. wgpu reports the acquisition status only as
// error text, so the message is inspected as a fallback.
//
// Parameters:
//   - err: the error returned from the surface, may be nil
//
// Returns:
//   - SurfaceErrorKind: the classification
func ClassifySurfaceError(err error) SurfaceErrorKind {
	switch {
	case err == nil:
		return SurfaceErrorNone
	case errors.Is(err, ErrSurfaceLost):
		return SurfaceErrorLost
	case errors.Is(err, ErrSurfaceOutdated):
		return SurfaceErrorOutdated
	case errors.Is(err, ErrSurfaceTimeout):
		return SurfaceErrorTimeout
	case errors.Is(err, ErrOutOfMemory):
		return SurfaceErrorOutOfMemory
	}

	msg := strings.ToLower(strings.ReplaceAll(err.Error(), "_", ""))
	switch {
	case strings.Contains(msg, "outofmemory"), strings.Contains(msg, "out of memory"):
		return SurfaceErrorOutOfMemory
	case strings.Contains(msg, "lost"):
		return SurfaceErrorLost
	case strings.Contains(msg, "outdated"):
		return SurfaceErrorOutdated
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return SurfaceErrorTimeout
	}
	return SurfaceErrorOther
}

// FrameActionFor returns the frame-loop policy for a surface error kind.
// Lost and outdated surfaces are reconfigured, out of memory is fatal, anything else skips the frame.
func FrameActionFor(kind SurfaceErrorKind) FrameAction {
	switch kind {
	case SurfaceErrorNone:
		return FrameActionContinue
	case SurfaceErrorLost, SurfaceErrorOutdated:
		return FrameActionReconfigure
	case SurfaceErrorOutOfMemory:
		return FrameActionFatal
	default:
		return FrameActionSkip
	}
}
