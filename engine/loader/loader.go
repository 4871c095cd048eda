package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// Decode errors. Wrapped errors carry the mesh, primitive or image that failed.
var (
	ErrNoPrimitives           = errors.New("gltf: no triangle primitives")
	ErrMissingPosition        = errors.New("gltf: primitive has no POSITION attribute")
	ErrMissingIndices         = errors.New("gltf: primitive references a missing index accessor")
	ErrUnsupportedIndexFormat = errors.New("gltf: unsupported index format")
	ErrImage                  = errors.New("gltf: image could not be decoded")
	ErrUnsupportedFormat      = errors.New("unsupported model format")
)

// GltfMesh is the combined geometry of a document: every primitive of every mesh, with indices
// rebased onto the combined vertex list.
type GltfMesh struct {
	Name     string
	Vertices []common.VertexData
	Indices  []uint16
}

// GltfTexture is a decoded RGBA8 image.
type GltfTexture struct {
	Name string
	Data common.TextureStagingData
}

// GltfMaterial is the base color part of a metallic-roughness material.
type GltfMaterial struct {
	Name             string
	BaseColor        [4]float32
	BaseColorTexture int
}

// HasTexture reports whether the material samples a base color image.
func (m GltfMaterial) HasTexture() bool { return m.BaseColorTexture >= 0 }

// GltfAsset is a decoded model file. Meshes holds one combined mesh.
type GltfAsset struct {
	Meshes    []GltfMesh
	Textures  []GltfTexture
	Materials []GltfMaterial
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu      *sync.RWMutex
	logger  common.Logger
	cache   map[string]*GltfAsset
	backend loaderBackend
}

// Loader decodes model files into CPU-side assets and caches them by path. It never touches
// the GPU; uploading is the asset manager's job.
type Loader interface {
	// Load decodes a .gltf or .glb file. Repeated loads of a path return the cached asset.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *GltfAsset: the decoded asset
	//   - error: ErrUnsupportedFormat for unknown extensions, or a decode error
	Load(path string) (*GltfAsset, error)

	// LoadReader decodes a model from a stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *GltfAsset: the decoded asset
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader, isGLB bool) (*GltfAsset, error)

	// Get returns a cached asset or nil.
	Get(name string) *GltfAsset

	// Assets returns a copy of the cache.
	Assets() map[string]*GltfAsset

	// Evict drops a cached asset.
	//
	// Returns:
	//   - bool: true if the asset was cached
	Evict(name string) bool
}

var _ Loader = &loader{}

// NewLoader creates a glTF loader.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:      &sync.RWMutex{},
		logger:  common.NewNopLogger(),
		cache:   make(map[string]*GltfAsset),
		backend: &gltfLoaderBackend{},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// LoadGltf decodes a glTF or GLB file without caching.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *GltfAsset: the decoded asset
//   - error: error if decoding fails
func LoadGltf(path string) (*GltfAsset, error) {
	return (&gltfLoaderBackend{}).Load(path)
}

func (l *loader) Load(path string) (*GltfAsset, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	asset, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debugf("loaded %s: %d vertices, %d textures, %d materials",
		path, len(asset.Meshes[0].Vertices), len(asset.Textures), len(asset.Materials))

	l.mu.Lock()
	l.cache[path] = asset
	l.mu.Unlock()
	return asset, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*GltfAsset, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	asset, err := l.backend.LoadReader(r, isGLB, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = asset
	l.mu.Unlock()
	return asset, nil
}

func (l *loader) Get(name string) *GltfAsset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

func (l *loader) Assets() map[string]*GltfAsset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.cache)
}

func (l *loader) Evict(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[name]
	delete(l.cache, name)
	return ok
}

// resolveBackend selects a backend from the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
