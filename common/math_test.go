package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveZOMapsNearAndFarToUnitDepth(t *testing.T) {
	proj := PerspectiveZO(mgl32.DegToRad(60), 1.5, 0.1, 100)

	near := TransformPoint(proj, mgl32.Vec3{0, 0, -0.1})
	far := TransformPoint(proj, mgl32.Vec3{0, 0, -100})

	assert.InDelta(t, 0.0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1.0, far.Z()/far.W(), 1e-4)
}

func TestOrthographicZOMapsVolumeToClipCube(t *testing.T) {
	proj := OrthographicZO(-25, 25, -25, 25, 0.1, 100)

	corner := TransformPoint(proj, mgl32.Vec3{25, -25, -100})
	assert.InDelta(t, 1.0, corner.X(), 1e-5)
	assert.InDelta(t, -1.0, corner.Y(), 1e-5)
	assert.InDelta(t, 1.0, corner.Z(), 1e-5)

	front := TransformPoint(proj, mgl32.Vec3{0, 0, -0.1})
	assert.InDelta(t, 0.0, front.Z(), 1e-5)
}

func TestFrustumZOMatchesSymmetricPerspective(t *testing.T) {
	near, far := float32(0.5), float32(50)
	fov := mgl32.DegToRad(90)
	aspect := float32(2)
	top := near // tan(45deg) == 1
	right := top * aspect

	a := FrustumZO(-right, right, -top, top, near, far)
	b := PerspectiveZO(fov, aspect, near, far)
	for i := range a {
		assert.InDelta(t, b[i], a[i], 1e-5, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	m := ComposeTRS(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0}), mgl32.Vec3{2, 2, 2})
	assert.Equal(t, m, Mul4(Identity(), m))
	assert.Equal(t, m, Mul4(m, Identity()))
}

func TestMul4AppliesRightOperandFirst(t *testing.T) {
	translate := ComposeTRS(mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	scale := ComposeTRS(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})

	p := TransformPoint(Mul4(translate, scale), mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 7, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)

	p = TransformPoint(Mul4(scale, translate), mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 12, p.X(), 1e-6)
}

func TestInvert4RoundTrip(t *testing.T) {
	m := ComposeTRS(mgl32.Vec3{4, -1, 2}, mgl32.QuatRotate(1.1, mgl32.Vec3{1, 0, 0}), mgl32.Vec3{1, 3, 1})
	inv, ok := Invert4(m)
	require.True(t, ok)

	id := Mul4(m, inv)
	want := Identity()
	for i := range id {
		assert.InDelta(t, want[i], id[i], 1e-5)
	}

	_, ok = Invert4([16]float32{})
	assert.False(t, ok)
}

func TestComposeTRSOrder(t *testing.T) {
	// scale first, then rotate 90 degrees around Y, then translate
	m := ComposeTRS(mgl32.Vec3{10, 0, 0}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}), mgl32.Vec3{2, 1, 1})
	p := TransformPoint(m, mgl32.Vec3{1, 0, 0})

	assert.InDelta(t, 10.0, p.X(), 1e-5)
	assert.InDelta(t, 0.0, p.Y(), 1e-5)
	assert.InDelta(t, -2.0, p.Z(), 1e-5)
}

func TestLookAtDegenerateUp(t *testing.T) {
	m := LookAt(mgl32.Vec3{0, 50, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	for _, v := range m {
		assert.False(t, v != v, "matrix contains NaN")
	}
	origin := TransformPoint(m, mgl32.Vec3{})
	assert.InDelta(t, -50.0, origin.Z(), 1e-4)
}

func TestMat4Bytes(t *testing.T) {
	b := Mat4Bytes(Identity())
	require.Len(t, b, 64)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, b[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, b[4:8])
}
