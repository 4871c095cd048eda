package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// AssetManager owns the mesh and texture caches and the global texture array that every
// material indexes into.
type AssetManager struct {
	mu     *sync.Mutex
	device Device
	logger common.Logger

	meshes   *Cache[*mesh.GpuMesh]
	textures *Cache[*texture.Texture]
	gltf     loader.Loader

	slots     *TextureSlots
	white     *texture.Texture
	binder    TextureArrayBinder
	bindGroup bind_group.BindGroup

	layerWidth, layerHeight uint32

	workers int
	pool    worker.DynamicWorkerPool

	// assetIDs gives each decoded glTF asset a stable prefix for its embedded texture names.
	assetIDs map[*loader.GltfAsset]uuid.UUID
}

// NewAssetManager creates the caches, the default white texture in slot 0 and the initial
// texture array bind group.
//
// Parameters:
//   - device: the device assets are uploaded to
//   - options: variadic list of AssetManagerBuilderOption functions
//
// Returns:
//   - *AssetManager: the manager, its bind group already valid
//   - error: error if the default resources cannot be created
func NewAssetManager(device Device, options ...AssetManagerBuilderOption) (*AssetManager, error) {
	am := &AssetManager{
		mu:          &sync.Mutex{},
		device:      device,
		logger:      common.NewNopLogger(),
		layerWidth:  DefaultLayerWidth,
		layerHeight: DefaultLayerHeight,
		workers:     4,
		assetIDs:    make(map[*loader.GltfAsset]uuid.UUID),
	}
	for _, option := range options {
		option(am)
	}
	if am.gltf == nil {
		am.gltf = loader.NewLoader(loader.WithLogger(am.logger))
	}

	am.meshes = NewMeshCache(device)
	am.textures = NewTextureCache(device)

	white, err := texture.FromRGBA(device, DefaultTextureName, common.SolidColor(255, 255, 255, 255))
	if err != nil {
		return nil, fmt.Errorf("failed to create default texture: %w", err)
	}
	am.white = white
	am.slots = NewTextureSlots(white)

	if am.binder == nil {
		binder, err := newTextureArray(device, am.logger, am.layerWidth, am.layerHeight)
		if err != nil {
			white.Release()
			return nil, err
		}
		am.binder = binder
	}
	if _, err := am.UpdateTextureBindings(); err != nil {
		am.binder.Release()
		white.Release()
		return nil, err
	}

	am.pool = worker.NewDynamicWorkerPool(am.workers, 256, 1*time.Second)
	return am, nil
}

// LoadMesh loads a glTF file into the mesh cache. A second load of the same path returns the
// same *mesh.GpuMesh without touching the file or the GPU.
func (am *AssetManager) LoadMesh(path string) (*mesh.GpuMesh, error) {
	m, err := am.meshes.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", path, err)
	}
	return m, nil
}

func (am *AssetManager) GetMesh(path string) (*mesh.GpuMesh, bool) { return am.meshes.Get(path) }

// UnloadMesh forgets a cached mesh. Entities still holding it keep drawing it.
func (am *AssetManager) UnloadMesh(path string) bool { return am.meshes.Unload(path) }

// LoadTexture loads an image file into the texture cache.
func (am *AssetManager) LoadTexture(path string) (*texture.Texture, error) {
	t, err := am.textures.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", path, err)
	}
	return t, nil
}

func (am *AssetManager) GetTexture(path string) (*texture.Texture, bool) { return am.textures.Get(path) }

// UnloadTexture forgets a cached texture. A slot it occupies keeps its pixels.
func (am *AssetManager) UnloadTexture(path string) bool { return am.textures.Unload(path) }

func (am *AssetManager) Meshes() *Cache[*mesh.GpuMesh]      { return am.meshes }
func (am *AssetManager) Textures() *Cache[*texture.Texture] { return am.textures }
func (am *AssetManager) Slots() *TextureSlots               { return am.slots }

// LoadTextureForRendering loads an image and registers it in the texture array under its path.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - uint32: the texture-array index to put in a Material
//   - error: error if the image cannot be loaded
func (am *AssetManager) LoadTextureForRendering(path string) (uint32, error) {
	if idx, ok := am.slots.Index(path); ok {
		return idx, nil
	}
	tex, err := am.LoadTexture(path)
	if err != nil {
		return 0, err
	}
	return am.RegisterTextureForRendering(path, tex), nil
}

// RegisterTextureForRendering places tex in the next texture-array slot. Registering a name twice
// returns the first index. Panics when all MaxTextures slots are taken.
//
// Parameters:
//   - name: the stable key
//   - tex: the texture; its CPU-side pixels are copied into the array on the next update
//
// Returns:
//   - uint32: the slot index
func (am *AssetManager) RegisterTextureForRendering(name string, tex *texture.Texture) uint32 {
	idx := am.slots.Register(name, tex)
	am.logger.Debugf("texture %q registered at slot %d", name, idx)
	return idx
}

// UpdateTextureBindings rebuilds the texture array when a registration happened since the last
// rebuild. The layout is unchanged, so pipelines never need rebuilding.
//
// Returns:
//   - bool: true if the bind group was rebuilt
//   - error: error if the rebuild fails; the previous bind group stays current
func (am *AssetManager) UpdateTextureBindings() (bool, error) {
	am.mu.Lock()
	defer am.mu.Unlock()
	if !am.slots.Dirty() {
		return false, nil
	}
	group, err := am.binder.Bind(am.slots.Textures())
	if err != nil {
		return false, fmt.Errorf("failed to rebuild texture bindings: %w", err)
	}
	am.bindGroup = group
	am.slots.MarkClean()
	return true, nil
}

func (am *AssetManager) TextureBindGroup() bind_group.BindGroup {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.bindGroup
}

func (am *AssetManager) TextureBindGroupLayout() *wgpu.BindGroupLayout { return am.binder.Layout() }

// TextureByIndex returns the texture in a slot, or nil for an unassigned slot.
func (am *AssetManager) TextureByIndex(index uint32) *texture.Texture { return am.slots.At(index) }

// TextureIndex returns the slot a name was registered under.
func (am *AssetManager) TextureIndex(name string) (uint32, bool) { return am.slots.Index(name) }

// LoadGltfAsset decodes a glTF file through the loader's cache.
func (am *AssetManager) LoadGltfAsset(path string) (*loader.GltfAsset, error) {
	return am.gltf.Load(path)
}

// LoadGltfMesh decodes and uploads a glTF file without caching the mesh.
//
// Parameters:
//   - path: the glTF or GLB file
//   - label: the mesh label; empty uses the file name
//
// Returns:
//   - *mesh.GpuMesh: a new mesh owned by the caller
//   - error: error if decoding or upload fails
func (am *AssetManager) LoadGltfMesh(path, label string) (*mesh.GpuMesh, error) {
	asset, err := am.gltf.Load(path)
	if err != nil {
		return nil, err
	}
	return uploadMesh(am.device, common.Coalesce(label, filepath.Base(path)), asset)
}

// LoadMaterialFromGltf converts a decoded material. A base color image is uploaded and
// registered once per asset; a material without one becomes a flat color over slot 0.
//
// Parameters:
//   - asset: the decoded asset owning the material's images
//   - material: one of asset.Materials
//
// Returns:
//   - scene.Material: the material
//   - error: error if the image upload fails
func (am *AssetManager) LoadMaterialFromGltf(asset *loader.GltfAsset, material loader.GltfMaterial) (scene.Material, error) {
	if !material.HasTexture() || material.BaseColorTexture >= len(asset.Textures) {
		return scene.MaterialWithColor(material.BaseColor), nil
	}

	name := am.gltfTextureName(asset, material.BaseColorTexture)
	if idx, ok := am.slots.Index(name); ok {
		return scene.NewMaterial(idx), nil
	}
	img := asset.Textures[material.BaseColorTexture]
	tex, err := texture.FromRGBA(am.device, img.Name, img.Data)
	if err != nil {
		return scene.Material{}, fmt.Errorf("material %q: %w", material.Name, err)
	}
	return scene.NewMaterial(am.RegisterTextureForRendering(name, tex)), nil
}

func (am *AssetManager) gltfTextureName(asset *loader.GltfAsset, index int) string {
	am.mu.Lock()
	defer am.mu.Unlock()
	id, ok := am.assetIDs[asset]
	if !ok {
		id = uuid.New()
		am.assetIDs[asset] = id
	}
	return fmt.Sprintf("gltf_%s_texture_%d", id, index)
}

// decoded is the CPU half of a batch load.
type decoded struct {
	path  string
	mesh  *loader.GltfAsset
	image *common.TextureStagingData
	err   error
}

// LoadBatch decodes files on the worker pool and uploads the results on the calling goroutine.
// glTF/GLB paths land in the mesh cache and image paths in the texture cache. Already cached
// paths are skipped.
//
// Parameters:
//   - paths: the files to load
//
// Returns:
//   - error: every failure joined, nil if all loaded
func (am *AssetManager) LoadBatch(paths ...string) error {
	results := make([]decoded, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		if am.cached(path) {
			results[i] = decoded{path: path}
			continue
		}
		wg.Add(1)
		slot := &results[i]
		am.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				*slot = decode(path)
				return nil, slot.err
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.path, r.err))
			continue
		}
		if err := am.upload(r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.path, err))
		}
	}
	return errors.Join(errs...)
}

func (am *AssetManager) cached(path string) bool {
	if isModel(path) {
		_, ok := am.meshes.Get(path)
		return ok
	}
	_, ok := am.textures.Get(path)
	return ok
}

func decode(path string) decoded {
	if isModel(path) {
		asset, err := loader.LoadGltf(path)
		return decoded{path: path, mesh: asset, err: err}
	}
	staging, err := common.DecodeImageFile(path)
	if err != nil {
		return decoded{path: path, err: err}
	}
	return decoded{path: path, image: &staging}
}

func (am *AssetManager) upload(r decoded) error {
	switch {
	case r.mesh != nil:
		m, err := uploadMesh(am.device, filepath.Base(r.path), r.mesh)
		if err != nil {
			return err
		}
		if _, inserted := am.meshes.Insert(r.path, m); !inserted {
			m.Release()
		}
	case r.image != nil:
		t, err := texture.FromRGBA(am.device, filepath.Base(r.path), *r.image)
		if err != nil {
			return err
		}
		if _, inserted := am.textures.Insert(r.path, t); !inserted {
			t.Release()
		}
	}
	return nil
}

func isModel(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// Release frees cached meshes and textures, the texture array and the default texture.
func (am *AssetManager) Release() {
	if am.pool != nil {
		am.pool.Stop()
	}
	am.meshes.Clear()
	am.textures.Clear()
	am.binder.Release()
	am.white.Release()
}
