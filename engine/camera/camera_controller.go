package camera

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController drives a Camera from per-frame input.
type CameraController interface {
	// Update applies one frame of input to cam.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - keys: keyboard state for the frame
	//   - mouse: accumulated mouse motion for the frame, may be nil
	//   - dt: frame time in seconds
	Update(cam Camera, keys *input.Input, mouse *input.Mouse, dt float32)

	// Speed returns the translation speed in units per second.
	Speed() float32

	// Sensitivity returns the mouse-look rate in degrees per pixel.
	Sensitivity() float32

	// SetSpeed sets the translation speed.
	SetSpeed(speed float32)
}

// flyController moves along the camera's forward and right axes and the world up axis.
// W/S move forward and back, A/D strafe, Space rises, Left Shift sinks. Mouse X adds yaw and
// mouse Y subtracts pitch.
type flyController struct {
	speed       float32
	sensitivity float32
}

var _ CameraController = &flyController{}

// NewFlyController creates a free-flight controller. Defaults: speed 5, sensitivity 0.1.
//
// Parameters:
//   - options: variadic list of CameraControllerOption functions
//
// Returns:
//   - CameraController: the controller
func NewFlyController(options ...CameraControllerOption) CameraController {
	fc := &flyController{speed: 5, sensitivity: 0.1}
	for _, opt := range options {
		opt(fc)
	}
	return fc
}

func (fc *flyController) Speed() float32         { return fc.speed }
func (fc *flyController) Sensitivity() float32   { return fc.sensitivity }
func (fc *flyController) SetSpeed(speed float32) { fc.speed = speed }

func (fc *flyController) Update(cam Camera, keys *input.Input, mouse *input.Mouse, dt float32) {
	if mouse != nil {
		dx, dy := mouse.Delta()
		if dx != 0 || dy != 0 {
			cam.Rotate(dx*fc.sensitivity, -dy*fc.sensitivity)
		}
	}
	if keys == nil {
		return
	}

	forward, right, up := cam.Forward(), cam.Right(), cam.Up()
	var move mgl32.Vec3
	if keys.Pressed(common.KeyW) {
		move = move.Add(forward)
	}
	if keys.Pressed(common.KeyS) {
		move = move.Sub(forward)
	}
	if keys.Pressed(common.KeyD) {
		move = move.Add(right)
	}
	if keys.Pressed(common.KeyA) {
		move = move.Sub(right)
	}
	if keys.Pressed(common.KeySpace) {
		move = move.Add(up)
	}
	if keys.Pressed(common.KeyLeftShift) {
		move = move.Sub(up)
	}
	if move.Len() == 0 {
		return
	}
	cam.Translate(move.Normalize().Mul(fc.speed * dt))
}
