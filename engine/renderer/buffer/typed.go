package buffer

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexBuffer holds per-vertex attribute data. Its usage is fixed to Vertex.
type VertexBuffer struct {
	*Buffer
	vertexCount uint32
}

// NewVertexBuffer uploads vertices into a new vertex buffer.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - vertices: vertex data
//
// Returns:
//   - *VertexBuffer: the buffer
//   - error: error if allocation fails
func NewVertexBuffer(device Device, label string, vertices []common.VertexData) (*VertexBuffer, error) {
	b, err := NewBuffer(device, label, wgpu.BufferUsageVertex, common.SliceToBytes(vertices))
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{Buffer: b, vertexCount: uint32(len(vertices))}, nil
}

// VertexCount returns the number of vertices uploaded at creation.
func (v *VertexBuffer) VertexCount() uint32 { return v.vertexCount }

// IndexBuffer holds triangle indices together with their width and count, so draw calls
// need no external bookkeeping.
type IndexBuffer struct {
	*Buffer
	format wgpu.IndexFormat
	count  uint32
}

// NewIndexBufferU16 uploads 16-bit indices.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - indices: index data
//
// Returns:
//   - *IndexBuffer: the buffer with format Uint16
//   - error: error if allocation fails
func NewIndexBufferU16(device Device, label string, indices []uint16) (*IndexBuffer, error) {
	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	b, err := NewBuffer(device, label, wgpu.BufferUsageIndex, data)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{Buffer: b, format: wgpu.IndexFormatUint16, count: uint32(len(indices))}, nil
}

// NewIndexBufferU32 uploads 32-bit indices.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - indices: index data
//
// Returns:
//   - *IndexBuffer: the buffer with format Uint32
//   - error: error if allocation fails
func NewIndexBufferU32(device Device, label string, indices []uint32) (*IndexBuffer, error) {
	b, err := NewBuffer(device, label, wgpu.BufferUsageIndex, common.SliceToBytes(indices))
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{Buffer: b, format: wgpu.IndexFormatUint32, count: uint32(len(indices))}, nil
}

// Format returns the index width.
func (i *IndexBuffer) Format() wgpu.IndexFormat { return i.format }

// Count returns the number of indices.
func (i *IndexBuffer) Count() uint32 { return i.count }

// UniformBuffer holds a uniform block. Its usage is fixed to Uniform.
type UniformBuffer struct {
	*Buffer
}

// NewUniformBuffer creates a uniform buffer initialized with data.
func NewUniformBuffer(device Device, label string, data []byte) (*UniformBuffer, error) {
	b, err := NewBuffer(device, label, wgpu.BufferUsageUniform, data)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{Buffer: b}, nil
}

// NewEmptyUniformBuffer creates a zeroed uniform buffer of the given size.
func NewEmptyUniformBuffer(device Device, label string, size uint64) (*UniformBuffer, error) {
	b, err := NewEmptyBuffer(device, label, wgpu.BufferUsageUniform, size)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{Buffer: b}, nil
}

// StorageBuffer holds a storage block. Read-write storage buffers may also be copied from.
type StorageBuffer struct {
	*Buffer
	readWrite bool
}

// NewStorageBuffer creates a storage buffer initialized with data.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - data: initial contents
//   - readWrite: true if shaders write to the buffer (adds CopySrc for readback)
//
// Returns:
//   - *StorageBuffer: the buffer
//   - error: error if allocation fails
func NewStorageBuffer(device Device, label string, data []byte, readWrite bool) (*StorageBuffer, error) {
	b, err := NewBuffer(device, label, storageUsage(readWrite), data)
	if err != nil {
		return nil, err
	}
	return &StorageBuffer{Buffer: b, readWrite: readWrite}, nil
}

// NewEmptyStorageBuffer creates a zeroed storage buffer of the given size.
func NewEmptyStorageBuffer(device Device, label string, size uint64, readWrite bool) (*StorageBuffer, error) {
	b, err := NewEmptyBuffer(device, label, storageUsage(readWrite), size)
	if err != nil {
		return nil, err
	}
	return &StorageBuffer{Buffer: b, readWrite: readWrite}, nil
}

// ReadWrite reports whether the buffer is bound as read-write storage.
func (s *StorageBuffer) ReadWrite() bool { return s.readWrite }

// BindingType returns the bind group layout type matching the buffer's access mode.
func (s *StorageBuffer) BindingType() wgpu.BufferBindingType {
	if s.readWrite {
		return wgpu.BufferBindingTypeStorage
	}
	return wgpu.BufferBindingTypeReadOnlyStorage
}

func storageUsage(readWrite bool) wgpu.BufferUsage {
	usage := wgpu.BufferUsageStorage
	if readWrite {
		usage |= wgpu.BufferUsageCopySrc
	}
	return usage
}
