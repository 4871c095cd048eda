package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/mesh"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullDevice struct{}

func (nullDevice) CreateBuffer(*wgpu.BufferDescriptor) (*wgpu.Buffer, error) { return &wgpu.Buffer{}, nil }
func (nullDevice) WriteBuffer(*wgpu.Buffer, uint64, []byte)                  {}
func (nullDevice) ReleaseBuffer(*wgpu.Buffer)                                {}

func cube(t *testing.T) *mesh.GpuMesh {
	t.Helper()
	verts, idx := mesh.CubeData(1)
	m, err := mesh.NewGpuMesh(nullDevice{}, "cube", verts, idx)
	require.NoError(t, err)
	return m
}

func TestTransformMatrix(t *testing.T) {
	assert.Equal(t, common.Identity(), NewTransform().Matrix())

	tr := TransformAt(1, 2, 3).WithScale(2, 2, 2).WithRotation(90, mgl32.Vec3{0, 1, 0})
	p := common.TransformPoint(tr.Matrix(), mgl32.Vec3{1, 0, 0})
	// scale to (2,0,0), rotate about +Y to (0,0,-2), translate.
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 1, p.Z(), 1e-5)

	var zero Transform
	assert.NotPanics(t, func() { zero.Matrix() })
}

func TestMaterials(t *testing.T) {
	assert.Equal(t, Material{TextureIndex: 3, BaseColor: [4]float32{1, 1, 1, 1}}, NewMaterial(3))
	red := MaterialWithColor([4]float32{1, 0, 0, 1})
	assert.Zero(t, red.TextureIndex)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, red.BaseColor)
}

func TestSpawnAndComponents(t *testing.T) {
	s := NewScene()
	m := cube(t)
	id := s.Spawn(WithTransform(TransformAt(0, 1, 0)), WithMesh(MeshComponent{Mesh: m, CastsShadows: true}))

	assert.True(t, s.Contains(id))
	assert.Equal(t, 1, s.Len())
	tr, ok := s.Transform(id)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, tr.Translation)

	_, ok = s.Material(id)
	assert.False(t, ok)
	require.NoError(t, s.SetMaterial(id, NewMaterial(2)))
	mat, ok := s.Material(id)
	require.True(t, ok)
	assert.Equal(t, uint32(2), mat.TextureIndex)

	mc, ok := s.Mesh(id)
	require.True(t, ok)
	assert.Same(t, m, mc.Mesh)
	assert.True(t, mc.CastsShadows)

	assert.True(t, s.Despawn(id))
	assert.False(t, s.Despawn(id))
	assert.ErrorIs(t, s.SetTransform(id, NewTransform()), ErrUnknownEntity)
	_, ok = s.Transform(id)
	assert.False(t, ok)
}

func TestIterationOrderAndFilters(t *testing.T) {
	s := NewScene()
	m := cube(t)
	a := s.Spawn(WithMesh(MeshComponent{Mesh: m}))
	lamp := s.Spawn(WithTransform(TransformAt(0, 3, 0)), WithPointLight(light.NewPointLight()))
	b := s.Spawn(WithMesh(MeshComponent{Mesh: m}), WithMaterial(MaterialWithColor([4]float32{0, 1, 0, 1})))
	hidden := s.Spawn(WithMesh(MeshComponent{Mesh: m}), WithEnabled(false))
	sun := s.Spawn(WithDirectionalLight(light.NewDirectionalLight()))
	c := s.Spawn(WithMesh(MeshComponent{Mesh: m}))

	var drawn []EntityID
	var mats []Material
	s.Renderables(func(id EntityID, _ Transform, _ MeshComponent, mat Material) bool {
		drawn = append(drawn, id)
		mats = append(mats, mat)
		return true
	})
	assert.Equal(t, []EntityID{a, b, c}, drawn)
	assert.NotContains(t, drawn, hidden)
	assert.Equal(t, NewMaterial(0), mats[0], "missing material draws white")
	assert.Equal(t, [4]float32{0, 1, 0, 1}, mats[1].BaseColor)

	var lights []EntityID
	s.PointLights(func(id EntityID, tr Transform, _ light.PointLight) bool {
		lights = append(lights, id)
		assert.Equal(t, mgl32.Vec3{0, 3, 0}, tr.Translation)
		return true
	})
	assert.Equal(t, []EntityID{lamp}, lights)

	var suns []EntityID
	s.DirectionalLights(func(id EntityID, _ light.DirectionalLight) bool {
		suns = append(suns, id)
		return true
	})
	assert.Equal(t, []EntityID{sun}, suns)

	require.True(t, s.Despawn(b))
	require.NoError(t, s.SetEnabled(hidden, true))
	drawn = drawn[:0]
	s.Renderables(func(id EntityID, _ Transform, _ MeshComponent, _ Material) bool {
		drawn = append(drawn, id)
		return true
	})
	assert.Equal(t, []EntityID{a, hidden, c}, drawn)
}

func TestIterationStopsEarly(t *testing.T) {
	s := NewScene()
	m := cube(t)
	for range 5 {
		s.Spawn(WithMesh(MeshComponent{Mesh: m}))
	}
	n := 0
	s.Renderables(func(EntityID, Transform, MeshComponent, Material) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}
