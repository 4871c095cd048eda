package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDevice struct {
	created  []wgpu.BufferDescriptor
	released int
}

func (d *countingDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.created = append(d.created, *desc)
	return &wgpu.Buffer{}, nil
}

func (d *countingDevice) WriteBuffer(*wgpu.Buffer, uint64, []byte) {}
func (d *countingDevice) ReleaseBuffer(*wgpu.Buffer)               { d.released++ }

type drawLog struct {
	vertexSlot uint32
	format     wgpu.IndexFormat
	indexCount uint32
	instances  uint32
	calls      int
}

func (l *drawLog) SetVertexBuffer(slot uint32, _ *wgpu.Buffer)            { l.vertexSlot = slot }
func (l *drawLog) SetIndexBuffer(_ *wgpu.Buffer, format wgpu.IndexFormat) { l.format = format }
func (l *drawLog) DrawIndexed(indexCount, instanceCount, _ uint32, _ int32, _ uint32) {
	l.indexCount, l.instances = indexCount, instanceCount
	l.calls++
}

func TestCubeMesh(t *testing.T) {
	dev := &countingDevice{}
	verts, idx := CubeData(2)
	m, err := NewGpuMesh(dev, "cube", verts, idx)
	require.NoError(t, err)

	assert.Equal(t, uint32(24), m.VertexCount())
	assert.Equal(t, uint32(36), m.IndexCount())
	assert.Equal(t, uint32(12), m.TriangleCount())
	assert.Equal(t, wgpu.IndexFormatUint16, m.IndexFormat())
	assert.InDelta(t, 1.7320508, m.BoundingRadius(), 1e-5)
	require.Len(t, dev.created, 2)
	assert.Equal(t, "cube Vertices", dev.created[0].Label)
	assert.Equal(t, "cube Indices", dev.created[1].Label)

	log := &drawLog{}
	m.Draw(log)
	assert.Equal(t, uint32(36), log.indexCount)
	assert.Equal(t, uint32(1), log.instances)

	m.DrawInstanced(log, 5)
	assert.Equal(t, uint32(5), log.instances)
	assert.Equal(t, 2, log.calls)

	m.Release()
	assert.Equal(t, 2, dev.released)
}

func TestMesh32(t *testing.T) {
	verts, _ := PlaneData(10, 4)
	m, err := NewGpuMesh32(&countingDevice{}, "ground", verts, []uint32{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, wgpu.IndexFormatUint32, m.IndexFormat())
	assert.Equal(t, uint32(2), m.TriangleCount())
}

func TestInvalidMeshes(t *testing.T) {
	dev := &countingDevice{}
	_, err := NewGpuMesh(dev, "empty", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewGpuMesh(dev, "overrun", []common.VertexData{{}, {}, {}}, []uint16{0, 1, 3})
	assert.ErrorIs(t, err, ErrIndexOverrun)
	assert.Empty(t, dev.created)
}

func TestCubeNormalsPointOutward(t *testing.T) {
	verts, idx := CubeData(1)
	for tri := 0; tri < len(idx); tri += 3 {
		a, b, c := verts[idx[tri]].Position, verts[idx[tri+1]].Position, verts[idx[tri+2]].Position
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{e1[1]*e2[2] - e1[2]*e2[1], e1[2]*e2[0] - e1[0]*e2[2], e1[0]*e2[1] - e1[1]*e2[0]}
		want := verts[idx[tri]].Normal
		dot := n[0]*want[0] + n[1]*want[1] + n[2]*want[2]
		assert.Greater(t, dot, float32(0), "triangle %d winds counter-clockwise from outside", tri/3)
	}
}
