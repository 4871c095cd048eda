package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrEmptyMesh    = errors.New("mesh has no vertices or indices")
	ErrIndexOverrun = errors.New("mesh index references a missing vertex")
)

// Drawer is the part of an open render pass a mesh needs to draw itself.
type Drawer interface {
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// GpuMesh is an uploaded, indexed triangle list.
type GpuMesh struct {
	label          string
	vertices       *buffer.VertexBuffer
	indices        *buffer.IndexBuffer
	boundingRadius float32
}

// NewGpuMesh uploads vertices and 16-bit indices.
//
// Parameters:
//   - device: the device to upload to
//   - label: debug label; buffers are labelled "<label> Vertices" and "<label> Indices"
//   - vertices: the vertex data
//   - indices: triangle-list indices into vertices
//
// Returns:
//   - *GpuMesh: the mesh
//   - error: ErrEmptyMesh, ErrIndexOverrun or an upload error
func NewGpuMesh(device buffer.Device, label string, vertices []common.VertexData, indices []uint16) (*GpuMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q: %w", label, ErrEmptyMesh)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("mesh %q: %w: %d of %d", label, ErrIndexOverrun, i, len(vertices))
		}
	}
	return upload(device, label, vertices, func() (*buffer.IndexBuffer, error) {
		return buffer.NewIndexBufferU16(device, label+" Indices", indices)
	})
}

// NewGpuMesh32 uploads vertices and 32-bit indices, for meshes with more than 65535 vertices.
func NewGpuMesh32(device buffer.Device, label string, vertices []common.VertexData, indices []uint32) (*GpuMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q: %w", label, ErrEmptyMesh)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("mesh %q: %w: %d of %d", label, ErrIndexOverrun, i, len(vertices))
		}
	}
	return upload(device, label, vertices, func() (*buffer.IndexBuffer, error) {
		return buffer.NewIndexBufferU32(device, label+" Indices", indices)
	})
}

func upload(device buffer.Device, label string, vertices []common.VertexData, indices func() (*buffer.IndexBuffer, error)) (*GpuMesh, error) {
	vb, err := buffer.NewVertexBuffer(device, label+" Vertices", vertices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", label, err)
	}
	ib, err := indices()
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %q: %w", label, err)
	}
	return &GpuMesh{
		label:          label,
		vertices:       vb,
		indices:        ib,
		boundingRadius: boundingRadius(vertices),
	}, nil
}

// boundingRadius is the distance of the farthest vertex from the local origin.
func boundingRadius(vertices []common.VertexData) float32 {
	var maxSq float32
	for _, v := range vertices {
		sq := v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2]
		if sq > maxSq {
			maxSq = sq
		}
	}
	return float32(math.Sqrt(float64(maxSq)))
}

func (m *GpuMesh) Label() string                      { return m.label }
func (m *GpuMesh) VertexCount() uint32                { return m.vertices.VertexCount() }
func (m *GpuMesh) IndexCount() uint32                 { return m.indices.Count() }
func (m *GpuMesh) IndexFormat() wgpu.IndexFormat      { return m.indices.Format() }
func (m *GpuMesh) TriangleCount() uint32              { return m.indices.Count() / 3 }
func (m *GpuMesh) BoundingRadius() float32            { return m.boundingRadius }
func (m *GpuMesh) VertexBuffer() *buffer.VertexBuffer { return m.vertices }
func (m *GpuMesh) IndexBuffer() *buffer.IndexBuffer   { return m.indices }

// Draw binds the mesh buffers at vertex slot 0 and issues one indexed draw.
//
// Parameters:
//   - d: the open pass
func (m *GpuMesh) Draw(d Drawer) {
	m.DrawInstanced(d, 1)
}

// DrawInstanced binds the mesh buffers and draws instanceCount instances.
func (m *GpuMesh) DrawInstanced(d Drawer, instanceCount uint32) {
	d.SetVertexBuffer(0, m.vertices.Handle())
	d.SetIndexBuffer(m.indices.Handle(), m.indices.Format())
	d.DrawIndexed(m.indices.Count(), instanceCount, 0, 0, 0)
}

// Release frees both buffers.
func (m *GpuMesh) Release() {
	m.vertices.Release()
	m.indices.Release()
}
