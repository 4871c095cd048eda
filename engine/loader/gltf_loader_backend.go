package loader

import (
	"fmt"
	"io"
)

// gltfLoaderBackend is the loaderBackend for .gltf and .glb files.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func (b *gltfLoaderBackend) Load(path string) (*GltfAsset, error) {
	p, err := parseGLTFFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return b.extract(p)
}

func (b *gltfLoaderBackend) LoadReader(r io.Reader, isGLB bool, baseDir string) (*GltfAsset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	p, err := parseGLTFBytes(data, isGLB, baseDir)
	if err != nil {
		return nil, err
	}
	return b.extract(p)
}

func (b *gltfLoaderBackend) extract(p *gltfParser) (*GltfAsset, error) {
	mesh, err := (&gltfMeshExtractor{parser: p}).extract()
	if err != nil {
		return nil, err
	}
	me := &gltfMaterialExtractor{parser: p}
	textures, err := me.images()
	if err != nil {
		return nil, err
	}
	return &GltfAsset{
		Meshes:    []GltfMesh{mesh},
		Textures:  textures,
		Materials: me.materials(),
	}, nil
}
