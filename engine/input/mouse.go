package input

import "sync"

// Mouse accumulates raw cursor motion for one frame. Motion reported before the first Update is
// dropped, since the first cursor event after locking the cursor carries a large jump.
type Mouse struct {
	mu          *sync.Mutex
	dx, dy      float32
	initialized bool
}

// NewMouse creates an uninitialized Mouse.
func NewMouse() *Mouse {
	return &Mouse{mu: &sync.Mutex{}}
}

// AddDelta adds cursor motion in pixels. Ignored until the first Update.
//
// Parameters:
//   - dx: horizontal motion, positive to the right
//   - dy: vertical motion, positive downward
func (m *Mouse) AddDelta(dx, dy float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	m.dx += dx
	m.dy += dy
}

// Delta returns the motion accumulated this frame.
//
// Returns:
//   - dx, dy: accumulated motion in pixels
func (m *Mouse) Delta() (dx, dy float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dx, m.dy
}

// Update ends the frame: the accumulated motion is reset and further motion is accepted.
func (m *Mouse) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dx, m.dy = 0, 0
	m.initialized = true
}
