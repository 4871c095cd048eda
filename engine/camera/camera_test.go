package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestDefaultPerspectiveCamera(t *testing.T) {
	cam := NewPerspectiveCamera(16.0 / 9.0)

	assertVec3(t, mgl32.Vec3{0, 0, 5}, cam.Position())
	assert.Equal(t, float32(-90), cam.Yaw())
	assertVec3(t, mgl32.Vec3{0, 0, -1}, cam.Forward())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, cam.Right())
	assert.False(t, cam.IsDirty())

	p, ok := cam.Projection().(Perspective)
	require.True(t, ok)
	assert.Equal(t, float32(45), p.FovY)
	assert.Equal(t, float32(0.1), p.Near)
	assert.Equal(t, float32(100), p.Far)
}

func TestOriginProjectsToScreenCenter(t *testing.T) {
	cam := NewPerspectiveCamera(1)
	clip := common.TransformPoint(cam.ViewProjection(), mgl32.Vec3{})
	require.Greater(t, clip.W(), float32(0))
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
	depth := clip.Z() / clip.W()
	assert.True(t, depth > 0 && depth < 1, "depth %f within [0, 1]", depth)
}

func TestPitchClamp(t *testing.T) {
	cam := NewPerspectiveCamera(1)
	cam.Rotate(0, 100)
	assert.Equal(t, MaxPitch, cam.Pitch())
	cam.Rotate(0, -200)
	assert.Equal(t, -MaxPitch, cam.Pitch())

	cam = NewPerspectiveCamera(1, WithPitch(120))
	assert.Equal(t, MaxPitch, cam.Pitch())
}

func TestDirtyFlag(t *testing.T) {
	cam := NewPerspectiveCamera(1)
	assert.False(t, cam.Update(), "clean camera does not recompute")

	before := cam.View()
	cam.Translate(mgl32.Vec3{1, 0, 0})
	assert.True(t, cam.IsDirty())
	assert.Equal(t, before, cam.View(), "matrices are cached until Update")
	assert.True(t, cam.Update())
	assert.NotEqual(t, before, cam.View())
	assert.False(t, cam.IsDirty())
}

func TestSetAspectOnlyAffectsPerspective(t *testing.T) {
	cam := NewPerspectiveCamera(800.0 / 600.0)
	cam.SetAspect(1920.0 / 1080.0)
	assert.True(t, cam.IsDirty())
	assert.InDelta(t, 1920.0/1080.0, cam.Projection().(Perspective).Aspect, 1e-6)

	ortho := NewCamera(NewOrthographicSize(20, 10, 0.1, 100))
	ortho.SetAspect(2)
	assert.False(t, ortho.IsDirty())
	o := ortho.Projection().(Orthographic)
	assert.Equal(t, float32(-10), o.Left)
	assert.Equal(t, float32(5), o.Top)
}

func TestWithLookAt(t *testing.T) {
	cam := NewPerspectiveCamera(1, WithPosition(10, 0, 0), WithLookAt(0, 0, 0))
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, cam.Forward())

	cam = NewPerspectiveCamera(1, WithPosition(0, 5, 5), WithLookAt(0, 0, 0))
	assert.InDelta(t, -45, cam.Pitch(), 1e-4)
}

func TestFrustumMatchesPerspective(t *testing.T) {
	near, far := float32(0.1), float32(100)
	top := near * float32(math.Tan(float64(mgl32.DegToRad(45))/2))
	f := Frustum{Left: -top, Right: top, Bottom: -top, Top: top, Near: near, Far: far}.Matrix()
	p := Perspective{FovY: 45, Aspect: 1, Near: near, Far: far}.Matrix()
	for i := range 16 {
		assert.InDelta(t, p[i], f[i], 1e-4, "element %d", i)
	}
}

func TestFlyControllerMovement(t *testing.T) {
	cam := NewPerspectiveCamera(1)
	keys := input.NewInput()
	fc := NewFlyController(WithSpeed(5))

	keys.Press(common.KeyW)
	fc.Update(cam, keys, nil, 1)
	assertVec3(t, mgl32.Vec3{0, 0, 0}, cam.Position())

	keys.Release(common.KeyW)
	keys.Press(common.KeyD)
	fc.Update(cam, keys, nil, 0.5)
	assertVec3(t, mgl32.Vec3{2.5, 0, 0}, cam.Position())

	keys.Press(common.KeyA)
	fc.Update(cam, keys, nil, 1)
	assertVec3(t, mgl32.Vec3{2.5, 0, 0}, cam.Position())
}

func TestFlyControllerMouseLook(t *testing.T) {
	cam := NewPerspectiveCamera(1)
	mouse := input.NewMouse()
	fc := NewFlyController(WithMouseSensitivity(0.1))

	mouse.AddDelta(500, 500)
	fc.Update(cam, nil, mouse, 0.016)
	assert.Equal(t, float32(-90), cam.Yaw(), "motion before the first frame is dropped")

	mouse.Update()
	mouse.AddDelta(10, 20)
	fc.Update(cam, nil, mouse, 0.016)
	assert.InDelta(t, -89, cam.Yaw(), 1e-5)
	assert.InDelta(t, -2, cam.Pitch(), 1e-5, "moving the mouse down looks down")
}

type fakeDevice struct {
	memory map[*wgpu.Buffer][]byte
	groups []wgpu.BindGroupDescriptor
	layout []wgpu.BindGroupLayoutDescriptor
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	b := &wgpu.Buffer{}
	d.memory[b] = make([]byte, desc.Size)
	return b, nil
}

func (d *fakeDevice) WriteBuffer(b *wgpu.Buffer, offset uint64, data []byte) {
	copy(d.memory[b][offset:], data)
}

func (d *fakeDevice) ReleaseBuffer(b *wgpu.Buffer) { delete(d.memory, b) }

func (d *fakeDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.layout = append(d.layout, *desc)
	return &wgpu.BindGroupLayout{}, nil
}

func (d *fakeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.groups = append(d.groups, *desc)
	return &wgpu.BindGroup{}, nil
}

func (d *fakeDevice) ReleaseBindGroup(*wgpu.BindGroup) {}

func TestCameraBufferUpload(t *testing.T) {
	dev := &fakeDevice{memory: map[*wgpu.Buffer][]byte{}}
	cb, err := NewCameraBuffer(dev)
	require.NoError(t, err)

	require.Len(t, dev.layout, 1)
	entry := dev.layout[0].Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entry.Visibility)
	assert.Equal(t, "camera_bind_group", dev.groups[0].Label)

	cam := NewPerspectiveCamera(1, WithPosition(1, 2, 3))
	cb.Update(cam)
	data := dev.memory[cb.Buffer().Handle()]
	require.Len(t, data, 144)
	assert.Equal(t, common.Mat4Bytes(cam.ViewProjection()), data[:64])
	for i, want := range []float32{1, 2, 3} {
		assert.Equal(t, want, math.Float32frombits(binary.LittleEndian.Uint32(data[128+i*4:])))
	}

	inv := UniformFor(cam).InvViewProj
	product := common.Mul4(cam.ViewProjection(), inv)
	for i, v := range common.Identity() {
		assert.InDelta(t, v, product[i], 1e-4)
	}

	cb.Release()
	assert.Empty(t, dev.memory)
}
