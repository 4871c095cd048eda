package loader

import "io"

// loaderBackend decodes one model file format into a GltfAsset.
type loaderBackend interface {
	// Load imports the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *GltfAsset: the decoded asset
	//   - error: error if loading fails
	Load(path string) (*GltfAsset, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//   - baseDir: directory external URIs resolve against
	//
	// Returns:
	//   - *GltfAsset: the decoded asset
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool, baseDir string) (*GltfAsset, error)
}
