package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch bounds the pitch in degrees so the forward vector never aligns with up.
const MaxPitch float32 = 89

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	up       mgl32.Vec3
	yaw      float32
	pitch    float32

	projection Projection

	dirty                bool
	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera is a yaw/pitch camera. Setters mark it dirty and Update recomputes the cached matrices.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: eye position
	Position() mgl32.Vec3

	// Yaw returns the heading in degrees. -90 looks down -Z.
	Yaw() float32

	// Pitch returns the elevation in degrees, within [-MaxPitch, MaxPitch].
	Pitch() float32

	// Up returns the world up vector.
	Up() mgl32.Vec3

	// Projection returns the active projection.
	Projection() Projection

	// Forward returns the unit view direction derived from yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: (cos yaw cos pitch, sin pitch, sin yaw cos pitch)
	Forward() mgl32.Vec3

	// Right returns normalize(Forward x Up).
	Right() mgl32.Vec3

	// SetPosition moves the eye.
	//
	// Parameters:
	//   - position: the new eye position
	SetPosition(position mgl32.Vec3)

	// Translate moves the eye by delta.
	//
	// Parameters:
	//   - delta: world-space offset
	Translate(delta mgl32.Vec3)

	// Rotate turns the camera. Pitch is clamped to [-MaxPitch, MaxPitch] after the change.
	//
	// Parameters:
	//   - dYaw: degrees added to yaw
	//   - dPitch: degrees added to pitch
	Rotate(dYaw, dPitch float32)

	// SetUp replaces the world up vector.
	SetUp(up mgl32.Vec3)

	// SetAspect updates the aspect ratio of a perspective projection. Other projections are unchanged.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetProjection replaces the projection.
	SetProjection(p Projection)

	// Update recomputes view, projection and view-projection when the camera is dirty.
	//
	// Returns:
	//   - bool: true when the matrices were recomputed
	Update() bool

	// IsDirty reports whether a change is pending since the last Update.
	IsDirty() bool

	// View returns the cached view matrix.
	View() [16]float32

	// ProjectionMatrix returns the cached projection matrix.
	ProjectionMatrix() [16]float32

	// ViewProjection returns the cached projection * view matrix.
	ViewProjection() [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with the given projection. The camera starts at (0, 0, 5) looking down -Z.
//
// Parameters:
//   - projection: the initial projection
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera with matrices already computed
func NewCamera(projection Projection, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		position:   mgl32.Vec3{0, 0, 5},
		up:         mgl32.Vec3{0, 1, 0},
		yaw:        -90,
		projection: projection,
		dirty:      true,
	}
	for _, opt := range options {
		opt(c)
	}
	c.pitch = clampPitch(c.pitch)
	c.Update()
	return c
}

// NewPerspectiveCamera creates a camera with a 45 degree vertical field of view, near 0.1 and far 100.
//
// Parameters:
//   - aspect: width / height
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera
func NewPerspectiveCamera(aspect float32, options ...CameraBuilderOption) Camera {
	return NewCamera(Perspective{FovY: 45, Aspect: aspect, Near: 0.1, Far: 100}, options...)
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward()
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right()
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.dirty = true
}

func (c *cameraImpl) Translate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(delta)
	c.dirty = true
}

func (c *cameraImpl) Rotate(dYaw, dPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += dYaw
	c.pitch = clampPitch(c.pitch + dPitch)
	c.dirty = true
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.dirty = true
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.projection.WithAspect(aspect); ok {
		c.projection = p
		c.dirty = true
	}
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.dirty = true
}

func (c *cameraImpl) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

func (c *cameraImpl) View() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjection() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return false
	}
	c.updateMatrices()
	c.dirty = false
	return true
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.position, c.position.Add(c.forward()), c.up)
	if c.projection != nil {
		c.projectionMatrix = c.projection.Matrix()
	} else {
		c.projectionMatrix = common.Identity()
	}
	c.viewProjectionMatrix = common.Mul4(c.projectionMatrix, c.viewMatrix)
}

func (c *cameraImpl) forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

func (c *cameraImpl) right() mgl32.Vec3 {
	r := c.forward().Cross(c.up)
	if r.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return r.Normalize()
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -MaxPitch, MaxPitch)
}
