package buffer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDevice backs every buffer with host memory so uploads can be read back.
type memoryDevice struct {
	descs    map[*wgpu.Buffer]wgpu.BufferDescriptor
	memory   map[*wgpu.Buffer][]byte
	released int
}

func newMemoryDevice() *memoryDevice {
	return &memoryDevice{
		descs:  map[*wgpu.Buffer]wgpu.BufferDescriptor{},
		memory: map[*wgpu.Buffer][]byte{},
	}
}

func (d *memoryDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	h := &wgpu.Buffer{}
	d.descs[h] = *desc
	d.memory[h] = make([]byte, desc.Size)
	return h, nil
}

func (d *memoryDevice) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	mem := d.memory[buffer]
	if offset+uint64(len(data)) > uint64(len(mem)) {
		panic("write out of bounds")
	}
	copy(mem[offset:], data)
}

func (d *memoryDevice) ReleaseBuffer(buffer *wgpu.Buffer) {
	d.released++
	delete(d.memory, buffer)
}

func (d *memoryDevice) readFloats(buffer *wgpu.Buffer, offset uint64, n int) []float32 {
	out := make([]float32, n)
	mem := d.memory[buffer][offset:]
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(mem[i*4:]))
	}
	return out
}

func floatBytes(values ...float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func TestUniformWriteRoundTrip(t *testing.T) {
	dev := newMemoryDevice()
	ub, err := NewEmptyUniformBuffer(dev, "test_uniform", 64)
	require.NoError(t, err)

	values := []float32{1.5, -2, 3.25, 0, 42, 1e-3}
	ub.Write(floatBytes(values...))
	assert.Equal(t, values, dev.readFloats(ub.Handle(), 0, len(values)))

	ub.WriteAt(32, floatBytes(7, 8))
	assert.Equal(t, []float32{7, 8}, dev.readFloats(ub.Handle(), 32, 2))
	assert.Equal(t, values[:4], dev.readFloats(ub.Handle(), 0, 4), "earlier data untouched")
}

func TestBufferUsageIsFixedPerType(t *testing.T) {
	dev := newMemoryDevice()

	vb, err := NewVertexBuffer(dev, "vb", []common.VertexData{{}, {}, {}})
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, vb.Usage())
	assert.Equal(t, uint64(96), vb.Size())
	assert.Equal(t, uint32(3), vb.VertexCount())

	ub, err := NewUniformBuffer(dev, "ub", make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, ub.Usage())

	ro, err := NewEmptyStorageBuffer(dev, "ro", 16, false)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, ro.Usage())
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, ro.BindingType())

	rw, err := NewStorageBuffer(dev, "rw", make([]byte, 16), true)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc, rw.Usage())
	assert.Equal(t, wgpu.BufferBindingTypeStorage, rw.BindingType())
	assert.Equal(t, "rw", dev.descs[rw.Handle()].Label)
}

func TestIndexBufferTracksFormatAndCount(t *testing.T) {
	dev := newMemoryDevice()

	ib16, err := NewIndexBufferU16(dev, "ib16", []uint16{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, wgpu.IndexFormatUint16, ib16.Format())
	assert.Equal(t, uint32(6), ib16.Count())
	assert.Equal(t, uint64(12), ib16.Size())
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(dev.memory[ib16.Handle()][8:]))

	// three u16 indices are 6 bytes; the allocation pads to 8
	odd, err := NewIndexBufferU16(dev, "odd", []uint16{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), odd.Size())
	assert.Equal(t, uint32(3), odd.Count())

	ib32, err := NewIndexBufferU32(dev, "ib32", []uint32{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, wgpu.IndexFormatUint32, ib32.Format())
	assert.Equal(t, uint32(3), ib32.Count())
}

func TestEmptyInputsRejected(t *testing.T) {
	dev := newMemoryDevice()
	_, err := NewBuffer(dev, "empty", wgpu.BufferUsageUniform, nil)
	assert.Error(t, err)
	_, err = NewEmptyBuffer(dev, "zero", wgpu.BufferUsageUniform, 0)
	assert.Error(t, err)
}

func TestReleaseIsIdempotent(t *testing.T) {
	dev := newMemoryDevice()
	b, err := NewEmptyBuffer(dev, "b", wgpu.BufferUsageUniform, 4)
	require.NoError(t, err)

	b.Release()
	b.Release()
	assert.Equal(t, 1, dev.released)
	assert.Nil(t, b.Handle())
}
