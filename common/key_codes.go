package common

// Key codes delivered by the window layer. Values match GLFW key codes, which use
// ASCII for printable keys.
const (
	KeyW     = 87
	KeyA     = 65
	KeyS     = 83
	KeyD     = 68
	KeyQ     = 81
	KeyE     = 69
	KeyR     = 82
	KeyF     = 70
	KeyP     = 80
	KeySpace = 32
	KeyEsc   = 256
	KeyTab   = 258

	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyRightShift   = 344
	KeyRightControl = 345
)
