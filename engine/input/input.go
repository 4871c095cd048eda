package input

import "sync"

// Input tracks keyboard state between frames. Keys are GLFW key codes (see common.KeyW and friends).
// JustPressed is true only during the frame in which a key went down; Update ends the frame.
type Input struct {
	mu          *sync.Mutex
	pressed     map[int]bool
	justPressed map[int]bool
}

// NewInput creates an Input with no keys held.
func NewInput() *Input {
	return &Input{
		mu:          &sync.Mutex{},
		pressed:     make(map[int]bool),
		justPressed: make(map[int]bool),
	}
}

// Press records a key-down event. Key repeat while held does not count as a new press.
//
// Parameters:
//   - key: the key code
func (in *Input) Press(key int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.pressed[key] {
		in.justPressed[key] = true
	}
	in.pressed[key] = true
}

// Release records a key-up event.
func (in *Input) Release(key int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.pressed, key)
}

// Pressed reports whether key is currently held.
func (in *Input) Pressed(key int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pressed[key]
}

// JustPressed reports whether key went down since the last Update.
func (in *Input) JustPressed(key int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.justPressed[key]
}

// Update ends the frame, clearing the just-pressed set.
func (in *Input) Update() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.justPressed)
}
