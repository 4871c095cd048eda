package assets

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
)

// LoadFunc produces the value cached under path.
type LoadFunc[T any] func(path string) (T, error)

// Cache maps paths to loaded GPU resources. A hit returns the cached value without any I/O or
// upload. Unload only forgets the entry: holders of the value keep a valid reference and the
// resource is freed by Clear or by the caller.
type Cache[T any] struct {
	mu      *sync.Mutex
	items   map[string]T
	load    LoadFunc[T]
	release func(T)
}

// NewCache creates an empty cache.
//
// Parameters:
//   - load: called on a miss; failed loads insert nothing
//   - release: frees a value on Clear, may be nil
//
// Returns:
//   - *Cache[T]: the cache
func NewCache[T any](load LoadFunc[T], release func(T)) *Cache[T] {
	return &Cache[T]{
		mu:      &sync.Mutex{},
		items:   make(map[string]T),
		load:    load,
		release: release,
	}
}

// Load returns the value for path, loading it on a miss. Concurrent loads of one path are
// serialized so the loader runs once.
//
// Parameters:
//   - path: the cache key and the path handed to the loader
//
// Returns:
//   - T: the cached or freshly loaded value
//   - error: the loader error
func (c *Cache[T]) Load(path string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[path]; ok {
		return v, nil
	}
	v, err := c.load(path)
	if err != nil {
		var zero T
		return zero, err
	}
	c.items[path] = v
	return v, nil
}

// Insert caches v under path unless path is already present.
//
// Returns:
//   - T: the value now cached under path
//   - bool: true if v was inserted
func (c *Cache[T]) Insert(path string, v T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[path]; ok {
		return existing, false
	}
	c.items[path] = v
	return v, true
}

// Get returns the cached value without loading.
func (c *Cache[T]) Get(path string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[path]
	return v, ok
}

// Unload forgets path. The value itself is not released.
//
// Returns:
//   - bool: true if path was cached
func (c *Cache[T]) Unload(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[path]
	delete(c.items, path)
	return ok
}

// Clear releases and forgets every cached value.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.release != nil {
		for _, v := range c.items {
			c.release(v)
		}
	}
	clear(c.items)
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[T]) IsEmpty() bool { return c.Len() == 0 }

// Paths returns the cached keys in lexical order.
func (c *Cache[T]) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.items))
	for p := range c.items {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// NewMeshCache caches glTF meshes uploaded to device. Each mesh is labelled with its file name.
//
// Parameters:
//   - device: the device meshes are uploaded to
//
// Returns:
//   - *Cache[*mesh.GpuMesh]: the cache
func NewMeshCache(device buffer.Device) *Cache[*mesh.GpuMesh] {
	return NewCache[*mesh.GpuMesh](func(path string) (*mesh.GpuMesh, error) {
		asset, err := loader.LoadGltf(path)
		if err != nil {
			return nil, err
		}
		return uploadMesh(device, filepath.Base(path), asset)
	}, (*mesh.GpuMesh).Release)
}

// NewTextureCache caches image files uploaded to device as sRGB textures.
//
// Parameters:
//   - device: the device textures are uploaded to
//
// Returns:
//   - *Cache[*texture.Texture]: the cache
func NewTextureCache(device texture.Device) *Cache[*texture.Texture] {
	return NewCache[*texture.Texture](func(path string) (*texture.Texture, error) {
		staging, err := common.DecodeImageFile(path)
		if err != nil {
			return nil, err
		}
		return texture.FromRGBA(device, filepath.Base(path), staging)
	}, (*texture.Texture).Release)
}

// uploadMesh uploads the first combined mesh of a decoded asset.
func uploadMesh(device buffer.Device, label string, asset *loader.GltfAsset) (*mesh.GpuMesh, error) {
	if len(asset.Meshes) == 0 {
		return nil, fmt.Errorf("%s: %w", label, loader.ErrNoPrimitives)
	}
	m := asset.Meshes[0]
	return mesh.NewGpuMesh(device, label, m.Vertices, m.Indices)
}
