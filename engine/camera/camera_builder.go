package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's eye position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = mgl32.Vec3{x, y, z}
	}
}

// WithYaw sets the starting heading in degrees.
//
// Parameters:
//   - yaw: heading in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the starting elevation in degrees. Values past MaxPitch are clamped.
//
// Parameters:
//   - pitch: elevation in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithLookAt aims the camera at target by deriving yaw and pitch from the eye position.
// Apply it after WithPosition.
//
// Parameters:
//   - x, y, z: target point
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithLookAt(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		dir := mgl32.Vec3{x, y, z}.Sub(c.position)
		if dir.Len() == 0 {
			return
		}
		dir = dir.Normalize()
		c.pitch = mgl32.RadToDeg(float32(math.Asin(float64(dir.Y()))))
		c.yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.Z()), float64(dir.X()))))
	}
}
