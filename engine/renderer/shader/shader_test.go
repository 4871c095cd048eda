package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	compiled []string
	fail     error
}

func (d *fakeDevice) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	d.compiled = append(d.compiled, desc.WGSLDescriptor.Code)
	return &wgpu.ShaderModule{}, nil
}

const src = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"

func TestModuleCompilesOnceAndPassesSourceThrough(t *testing.T) {
	dev := &fakeDevice{}
	s := FromWGSL("basic", src)

	m1, err := s.Module(dev)
	require.NoError(t, err)
	m2, err := s.Module(dev)
	require.NoError(t, err)

	assert.Same(t, m1, m2)
	assert.Equal(t, []string{src}, dev.compiled)
	assert.Equal(t, src, s.Source())
}

func TestCompileErrorsAreWrapped(t *testing.T) {
	_, err := FromWGSL("broken", src).Module(&fakeDevice{fail: errors.New("parse error at 1:1")})
	assert.ErrorIs(t, err, ErrShaderCompilation)
	assert.ErrorContains(t, err, "parse error")

	_, err = FromWGSL("empty", "").Module(&fakeDevice{})
	assert.ErrorIs(t, err, ErrShaderCompilation)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shadow.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shadow.wgsl", s.Label())
	assert.Equal(t, src, s.Source())

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.wgsl"))
	assert.ErrorIs(t, err, ErrShaderCompilation)
}
