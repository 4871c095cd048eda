package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*flyController)

// WithSpeed sets the translation speed.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.speed = speed
	}
}

// WithMouseSensitivity sets the mouse-look rate.
//
// Parameters:
//   - sensitivity: degrees of rotation per pixel of mouse motion
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.sensitivity = sensitivity
	}
}
