package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice records allocations in host memory.
type fakeDevice struct {
	buffers        int
	textures       []wgpu.TextureDescriptor
	textureWrites  int
	groups         []wgpu.BindGroupDescriptor
	releasedBufs   int
	releasedTex    int
	releasedGroups int
}

func (d *fakeDevice) CreateBuffer(*wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.buffers++
	return &wgpu.Buffer{}, nil
}
func (d *fakeDevice) WriteBuffer(*wgpu.Buffer, uint64, []byte) {}
func (d *fakeDevice) ReleaseBuffer(*wgpu.Buffer)               { d.releasedBufs++ }

func (d *fakeDevice) CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error) {
	d.textures = append(d.textures, *desc)
	return &wgpu.Texture{}, nil
}
func (d *fakeDevice) CreateTextureView(*wgpu.Texture, *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return &wgpu.TextureView{}, nil
}
func (d *fakeDevice) WriteTexture(*wgpu.ImageCopyTexture, []byte, *wgpu.TextureDataLayout, *wgpu.Extent3D) {
	d.textureWrites++
}
func (d *fakeDevice) ReleaseTexture(*wgpu.Texture, *wgpu.TextureView) { d.releasedTex++ }

func (d *fakeDevice) CreateSampler(*wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return &wgpu.Sampler{}, nil
}
func (d *fakeDevice) ReleaseSampler(*wgpu.Sampler) {}

func (d *fakeDevice) CreateBindGroupLayout(*wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return &wgpu.BindGroupLayout{}, nil
}
func (d *fakeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.groups = append(d.groups, *desc)
	return &wgpu.BindGroup{}, nil
}
func (d *fakeDevice) ReleaseBindGroup(*wgpu.BindGroup) { d.releasedGroups++ }

// countingBinder records every rebuild without touching a device.
type countingBinder struct {
	binds    [][]*texture.Texture
	fail     bool
	released bool
}

func (b *countingBinder) Layout() *wgpu.BindGroupLayout { return nil }
func (b *countingBinder) Release()                      { b.released = true }
func (b *countingBinder) Bind(textures []*texture.Texture) (bind_group.BindGroup, error) {
	if b.fail {
		return nil, errors.New("out of memory")
	}
	b.binds = append(b.binds, textures)
	return nil, nil
}

func newManager(t *testing.T, options ...AssetManagerBuilderOption) (*AssetManager, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	am, err := NewAssetManager(dev, options...)
	require.NoError(t, err)
	return am, dev
}

// writeTriangle writes a one-triangle .gltf with an embedded base64 buffer.
func writeTriangle(t *testing.T, dir, name string) string {
	t.Helper()
	var bin bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		_ = binary.Write(&bin, binary.LittleEndian, math.Float32bits(f))
	}
	_ = binary.Write(&bin, binary.LittleEndian, []uint16{0, 1, 2, 0})

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`, base64.StdEncoding.EncodeToString(bin.Bytes()), bin.Len())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestNewAssetManagerBindsDefaultTexture(t *testing.T) {
	am, dev := newManager(t)

	assert.Equal(t, 1, am.Slots().Len())
	idx, ok := am.TextureIndex(DefaultTextureName)
	require.True(t, ok)
	assert.Zero(t, idx)
	assert.Equal(t, DefaultTextureName, am.TextureByIndex(0).Label())
	assert.Nil(t, am.TextureByIndex(1))

	require.NotNil(t, am.TextureBindGroup())
	assert.Equal(t, "global_texture_array", am.TextureBindGroup().Label())
	require.Len(t, dev.groups, 1)

	rebuilt, err := am.UpdateTextureBindings()
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Len(t, dev.groups, 1)
}

func TestRegisterTextureIsIdempotentByName(t *testing.T) {
	binder := &countingBinder{}
	am, dev := newManager(t, WithTextureArrayBinder(binder))
	tex, err := texture.FromRGBA(dev, "brick", common.SolidColor(1, 2, 3, 255))
	require.NoError(t, err)

	first := am.RegisterTextureForRendering("brick", tex)
	second := am.RegisterTextureForRendering("brick", tex)
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, am.Slots().Len())
}

func TestRebuildOnlyWhenDirty(t *testing.T) {
	binder := &countingBinder{}
	am, dev := newManager(t, WithTextureArrayBinder(binder))
	require.Len(t, binder.binds, 1)

	rebuilt, err := am.UpdateTextureBindings()
	require.NoError(t, err)
	assert.False(t, rebuilt)

	tex, err := texture.FromRGBA(dev, "grass", common.SolidColor(0, 255, 0, 255))
	require.NoError(t, err)
	am.RegisterTextureForRendering("grass", tex)

	rebuilt, err = am.UpdateTextureBindings()
	require.NoError(t, err)
	assert.True(t, rebuilt)
	require.Len(t, binder.binds, 2)
	assert.Len(t, binder.binds[1], 2)

	rebuilt, err = am.UpdateTextureBindings()
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Len(t, binder.binds, 2)
}

func TestFailedRebuildStaysDirty(t *testing.T) {
	binder := &countingBinder{}
	am, dev := newManager(t, WithTextureArrayBinder(binder))
	tex, err := texture.FromRGBA(dev, "rock", common.SolidColor(9, 9, 9, 255))
	require.NoError(t, err)
	am.RegisterTextureForRendering("rock", tex)

	binder.fail = true
	_, err = am.UpdateTextureBindings()
	assert.Error(t, err)
	assert.True(t, am.Slots().Dirty())

	binder.fail = false
	rebuilt, err := am.UpdateTextureBindings()
	require.NoError(t, err)
	assert.True(t, rebuilt)
}

func TestTextureSlotsCapacity(t *testing.T) {
	dev := &fakeDevice{}
	white, err := texture.FromRGBA(dev, DefaultTextureName, common.SolidColor(255, 255, 255, 255))
	require.NoError(t, err)
	slots := NewTextureSlots(white)

	for i := 1; i < MaxTextures; i++ {
		assert.Equal(t, uint32(i), slots.Register(fmt.Sprintf("t%d", i), white))
	}
	assert.Equal(t, MaxTextures, slots.Len())
	assert.Equal(t, uint32(7), slots.Register("t7", white), "existing names still resolve when full")
	assert.Panics(t, func() { slots.Register("one too many", white) })
}

func TestDeviceLimitsCoverEverySlot(t *testing.T) {
	assert.GreaterOrEqual(t, gpu.DefaultLimits().MaxTextureArrayLayers, uint32(MaxTextures))
}

func TestLoadMeshCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := writeTriangle(t, dir, "tri.gltf")
	am, dev := newManager(t, WithTextureArrayBinder(&countingBinder{}))

	first, err := am.LoadMesh(path)
	require.NoError(t, err)
	uploads := dev.buffers
	assert.Equal(t, 2, uploads)
	assert.Equal(t, uint32(1), first.TriangleCount())
	assert.Equal(t, "tri.gltf", first.Label())

	second, err := am.LoadMesh(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, uploads, dev.buffers)

	assert.True(t, am.UnloadMesh(path))
	assert.Zero(t, dev.releasedBufs, "unload only forgets the mesh")
	_, ok := am.GetMesh(path)
	assert.False(t, ok)

	_, err = am.LoadMesh(filepath.Join(dir, "missing.gltf"))
	assert.Error(t, err)
	assert.True(t, am.Meshes().IsEmpty())
}

func TestLoadGltfMeshIsUncached(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf")
	am, _ := newManager(t, WithTextureArrayBinder(&countingBinder{}))

	a, err := am.LoadGltfMesh(path, "")
	require.NoError(t, err)
	b, err := am.LoadGltfMesh(path, "copy")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, "copy", b.Label())
	assert.True(t, am.Meshes().IsEmpty())
}

func TestLoadTextureForRendering(t *testing.T) {
	path := writePNG(t, t.TempDir(), "red.png", 4, 2)
	am, _ := newManager(t, WithTextureArrayBinder(&countingBinder{}))

	idx, err := am.LoadTextureForRendering(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	again, err := am.LoadTextureForRendering(path)
	require.NoError(t, err)
	assert.Equal(t, idx, again)

	tex, ok := am.GetTexture(path)
	require.True(t, ok)
	assert.Same(t, tex, am.TextureByIndex(idx))
	w, h := tex.Size()
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(2), h)
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	mesh := writeTriangle(t, dir, "tri.gltf")
	img := writePNG(t, dir, "red.png", 2, 2)
	missing := filepath.Join(dir, "nope.png")

	am, _ := newManager(t, WithTextureArrayBinder(&countingBinder{}), WithWorkers(2))
	err := am.LoadBatch(mesh, img, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.png")

	m, ok := am.GetMesh(mesh)
	require.True(t, ok)
	assert.Equal(t, uint32(3), m.IndexCount())
	_, ok = am.GetTexture(img)
	assert.True(t, ok)
	_, ok = am.GetTexture(missing)
	assert.False(t, ok)

	require.NoError(t, am.LoadBatch(mesh, img))
	again, _ := am.GetMesh(mesh)
	assert.Same(t, m, again)
}

func TestLoadMaterialFromGltf(t *testing.T) {
	am, _ := newManager(t, WithTextureArrayBinder(&countingBinder{}))
	asset := &loader.GltfAsset{
		Textures: []loader.GltfTexture{{Name: "albedo", Data: common.SolidColor(10, 20, 30, 255)}},
		Materials: []loader.GltfMaterial{
			{Name: "plain", BaseColor: [4]float32{0.5, 0.25, 1, 1}, BaseColorTexture: -1},
			{Name: "textured", BaseColor: [4]float32{1, 1, 1, 1}, BaseColorTexture: 0},
		},
	}

	plain, err := am.LoadMaterialFromGltf(asset, asset.Materials[0])
	require.NoError(t, err)
	assert.Zero(t, plain.TextureIndex)
	assert.Equal(t, [4]float32{0.5, 0.25, 1, 1}, plain.BaseColor)

	textured, err := am.LoadMaterialFromGltf(asset, asset.Materials[1])
	require.NoError(t, err)
	assert.Equal(t, uint32(1), textured.TextureIndex)

	shared, err := am.LoadMaterialFromGltf(asset, asset.Materials[1])
	require.NoError(t, err)
	assert.Equal(t, textured.TextureIndex, shared.TextureIndex)
	assert.Equal(t, 2, am.Slots().Len())
}

// stopCountingPool records Stop calls on the manager's worker pool.
type stopCountingPool struct {
	worker.DynamicWorkerPool
	stops int
}

func (p *stopCountingPool) Stop() {
	p.stops++
	p.DynamicWorkerPool.Stop()
}

func TestReleaseFreesEverything(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf")
	binder := &countingBinder{}
	am, dev := newManager(t, WithTextureArrayBinder(binder))
	_, err := am.LoadMesh(path)
	require.NoError(t, err)
	pool := &stopCountingPool{DynamicWorkerPool: am.pool}
	am.pool = pool

	am.Release()
	assert.Equal(t, 1, pool.stops, "worker pool stopped")
	assert.Equal(t, 2, dev.releasedBufs)
	assert.True(t, binder.released)
	assert.Equal(t, 1, dev.releasedTex)
	assert.True(t, am.Meshes().IsEmpty())
}

func TestCacheFailureInsertsNothing(t *testing.T) {
	calls := 0
	released := []string{}
	c := NewCache[string](func(path string) (string, error) {
		calls++
		if path == "bad" {
			return "", errors.New("bad file")
		}
		return "loaded:" + path, nil
	}, func(v string) { released = append(released, v) })

	_, err := c.Load("bad")
	assert.Error(t, err)
	assert.Zero(t, c.Len())

	v, err := c.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "loaded:a", v)
	_, err = c.Load("a")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	got, inserted := c.Insert("a", "other")
	assert.False(t, inserted)
	assert.Equal(t, "loaded:a", got)
	_, inserted = c.Insert("b", "manual")
	assert.True(t, inserted)
	assert.Equal(t, []string{"a", "b"}, c.Paths())

	c.Clear()
	assert.ElementsMatch(t, []string{"loaded:a", "manual"}, released)
	assert.True(t, c.IsEmpty())
}

func TestResampleLayer(t *testing.T) {
	dev := &fakeDevice{}
	small, err := texture.FromRGBA(dev, "small", common.TextureStagingData{
		Pixels: bytes.Repeat([]byte{255, 0, 0, 255}, 4),
		Width:  2,
		Height: 2,
	})
	require.NoError(t, err)

	pixels := resampleLayer(small, 8, 8)
	require.Len(t, pixels, 8*8*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, pixels[:4])

	same := resampleLayer(small, 2, 2)
	assert.Equal(t, small.Source().Pixels, same)

	target, err := texture.NewRenderTarget(dev, "target", 4, 4, wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	white := resampleLayer(target, 2, 2)
	assert.Equal(t, bytes.Repeat([]byte{255}, 16), white)
}
