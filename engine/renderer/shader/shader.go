package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrShaderCompilation wraps any failure to load or compile a shader module.
var ErrShaderCompilation = errors.New("shader compilation failed")

// Device is the subset of the GPU context needed to compile shader modules.
type Device interface {
	CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
}

// shader is the implementation of the Shader interface.
type shader struct {
	mu     *sync.Mutex
	label  string
	source string
	module *wgpu.ShaderModule
}

// Shader is WGSL source passed through to the driver unmodified. The compiled module is
// created on first use and cached, so one Shader can back both the vertex and fragment
// stages of a pipeline (entry points "vs_main" and "fs_main" by convention).
type Shader interface {
	// Label returns the debug label of the module.
	Label() string

	// Source returns the WGSL source exactly as supplied.
	Source() string

	// Module compiles the source on the first call and returns the cached module afterwards.
	//
	// Parameters:
	//   - device: the device to compile on
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	//   - error: ErrShaderCompilation (wrapped) if the driver rejects the source
	Module(device Device) (*wgpu.ShaderModule, error)

	// Release frees the compiled module, if any.
	Release()
}

var _ Shader = &shader{}

// FromWGSL wraps WGSL source.
//
// Parameters:
//   - label: debug label
//   - source: WGSL source code
//
// Returns:
//   - Shader: the shader (not yet compiled)
func FromWGSL(label, source string) Shader {
	return &shader{mu: &sync.Mutex{}, label: label, source: source}
}

// FromFile reads WGSL source from disk. The file name becomes the label.
//
// Parameters:
//   - path: path to a .wgsl file
//
// Returns:
//   - Shader: the shader (not yet compiled)
//   - error: ErrShaderCompilation (wrapped) if the file cannot be read
func FromFile(path string) (Shader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompilation, path, err)
	}
	return FromWGSL(filepath.Base(path), string(src)), nil
}

func (s *shader) Label() string  { return s.label }
func (s *shader) Source() string { return s.source }

func (s *shader) Module(device Device) (*wgpu.ShaderModule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.module != nil {
		return s.module, nil
	}
	if s.source == "" {
		return nil, fmt.Errorf("%w: %s: empty source", ErrShaderCompilation, s.label)
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          s.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.source},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompilation, s.label, err)
	}
	s.module = module
	return module, nil
}

func (s *shader) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.module != nil {
		s.module.Release()
		s.module = nil
	}
}
