package buffer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device is the subset of the GPU context needed to allocate and upload buffers.
// *gpu.Context satisfies it.
type Device interface {
	CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)
	ReleaseBuffer(buffer *wgpu.Buffer)
}

// Buffer is a labeled GPU allocation with fixed size and usage. Its contents may be rewritten
// through the queue; its layout never changes after creation.
type Buffer struct {
	device Device
	handle *wgpu.Buffer
	label  string
	size   uint64
	usage  wgpu.BufferUsage
}

// NewBuffer creates a buffer sized to data and uploads it. CopyDst is always added to usage so
// the buffer can be rewritten later.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - usage: usage flags
//   - data: initial contents (must be non-empty)
//
// Returns:
//   - *Buffer: the buffer
//   - error: error if allocation fails
func NewBuffer(device Device, label string, usage wgpu.BufferUsage, data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("buffer %q: initial data is empty", label)
	}
	b, err := NewEmptyBuffer(device, label, usage, uint64(len(data)))
	if err != nil {
		return nil, err
	}
	b.Write(data)
	return b, nil
}

// NewEmptyBuffer allocates a zero-initialized buffer of the given size.
// The size is rounded up to a multiple of 4 as required for queue writes.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label
//   - usage: usage flags
//   - size: size in bytes (> 0)
//
// Returns:
//   - *Buffer: the buffer
//   - error: error if allocation fails
func NewEmptyBuffer(device Device, label string, usage wgpu.BufferUsage, size uint64) (*Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("buffer %q: size is zero", label)
	}
	size = alignTo4(size)
	usage |= wgpu.BufferUsageCopyDst

	handle, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	return &Buffer{
		device: device,
		handle: handle,
		label:  label,
		size:   size,
		usage:  usage,
	}, nil
}

// Write uploads data at offset 0. Fitting data to the allocation is the caller's responsibility.
func (b *Buffer) Write(data []byte) {
	b.WriteAt(0, data)
}

// WriteAt uploads data at the given byte offset.
//
// Parameters:
//   - offset: destination offset in bytes (multiple of 4)
//   - data: bytes to upload
func (b *Buffer) WriteAt(offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	b.device.WriteBuffer(b.handle, offset, padTo4(data))
}

func (b *Buffer) Handle() *wgpu.Buffer    { return b.handle }
func (b *Buffer) Label() string           { return b.label }
func (b *Buffer) Size() uint64            { return b.size }
func (b *Buffer) Usage() wgpu.BufferUsage { return b.usage }

// Release frees the GPU allocation. Further writes are invalid.
func (b *Buffer) Release() {
	if b.handle == nil {
		return
	}
	b.device.ReleaseBuffer(b.handle)
	b.handle = nil
}

func alignTo4(n uint64) uint64 {
	return (n + 3) &^ 3
}

func padTo4(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}
	padded := make([]byte, alignTo4(uint64(len(data))))
	copy(padded, data)
	return padded
}
