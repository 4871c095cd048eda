package camera

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection maps view space to clip space with depth in [0, 1].
type Projection interface {
	// Matrix returns the projection matrix.
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	Matrix() [16]float32

	// WithAspect returns the projection adjusted to a new width/height ratio. Projections with
	// fixed extents return themselves and false.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - Projection: the adjusted projection
	//   - bool: whether the aspect ratio applies to this projection
	WithAspect(aspect float32) (Projection, bool)
}

// Perspective is a symmetric perspective projection. FovY is the vertical field of view in degrees.
type Perspective struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// Orthographic is a parallel projection of the given view-space box.
type Orthographic struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// Frustum is an off-center perspective projection with the given near-plane rectangle.
type Frustum struct {
	Left, Right, Bottom, Top, Near, Far float32
}

var (
	_ Projection = Perspective{}
	_ Projection = Orthographic{}
	_ Projection = Frustum{}
)

func (p Perspective) Matrix() [16]float32 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return common.PerspectiveZO(mgl32.DegToRad(p.FovY), aspect, p.Near, p.Far)
}

func (p Perspective) WithAspect(aspect float32) (Projection, bool) {
	p.Aspect = aspect
	return p, true
}

func (o Orthographic) Matrix() [16]float32 {
	return common.OrthographicZO(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
}

func (o Orthographic) WithAspect(float32) (Projection, bool) { return o, false }

// NewOrthographicSize returns an orthographic projection of width x height centered on the view axis.
func NewOrthographicSize(width, height, near, far float32) Orthographic {
	return Orthographic{Left: -width / 2, Right: width / 2, Bottom: -height / 2, Top: height / 2, Near: near, Far: far}
}

func (f Frustum) Matrix() [16]float32 {
	return common.FrustumZO(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

func (f Frustum) WithAspect(float32) (Projection, bool) { return f, false }
