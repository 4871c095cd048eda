package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// All matrices in this package are column-major [16]float32, the same memory layout
// as mgl32.Mat4 and WGSL mat4x4<f32>. Projections target the WebGPU clip volume,
// where depth runs from 0 (near) to 1 (far).

// Identity returns the 4x4 identity matrix.
func Identity() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input and must not be modified.
//
// Parameters:
//   - data: source slice of any fixed-size type
//
// Returns:
//   - []byte: byte view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a fixed-size struct as its raw bytes.
//
// Parameters:
//   - v: pointer to the struct
//
// Returns:
//   - []byte: byte view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// PutMat4 writes a matrix into dst as 64 little-endian float32 bytes.
//
// Parameters:
//   - dst: destination slice, at least 64 bytes
//   - m: matrix to encode
func PutMat4(dst []byte, m [16]float32) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// Mat4Bytes encodes a matrix as 64 little-endian float32 bytes.
func Mat4Bytes(m [16]float32) []byte {
	out := make([]byte, 64)
	PutMat4(out, m)
	return out
}

// Mul4 returns a * b.
func Mul4(a, b [16]float32) [16]float32 {
	return [16]float32(mgl32.Mat4(a).Mul4(mgl32.Mat4(b)))
}

// PerspectiveZO creates a right-handed perspective projection with depth mapped to [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
//
// Returns:
//   - [16]float32: the projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) [16]float32 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out [16]float32
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	return out
}

// OrthographicZO creates a right-handed orthographic projection with depth mapped to [0, 1].
//
// Parameters:
//   - left, right, bottom, top: view volume extents on X and Y
//   - near, far: view volume extents along -Z
//
// Returns:
//   - [16]float32: the projection matrix
func OrthographicZO(left, right, bottom, top, near, far float32) [16]float32 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	out := Identity()
	out[0] = 2 / rl
	out[5] = 2 / tb
	out[10] = -1 / fn
	out[12] = -(right + left) / rl
	out[13] = -(top + bottom) / tb
	out[14] = -near / fn
	return out
}

// FrustumZO creates an off-center right-handed perspective projection with depth mapped to [0, 1].
// The extents are measured on the near plane.
//
// Parameters:
//   - left, right, bottom, top: near plane extents
//   - near, far: clip plane distances (0 < near < far)
//
// Returns:
//   - [16]float32: the projection matrix
func FrustumZO(left, right, bottom, top, near, far float32) [16]float32 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	var out [16]float32
	out[0] = 2 * near / rl
	out[5] = 2 * near / tb
	out[8] = (right + left) / rl
	out[9] = (top + bottom) / tb
	out[10] = -far / fn
	out[11] = -1
	out[14] = -(far * near) / fn
	return out
}

// LookAt creates a right-handed view matrix looking from eye towards center.
// A degenerate up vector (parallel to the view direction) falls back to +Z or +Y.
//
// Parameters:
//   - eye: camera position
//   - center: point being looked at
//   - up: approximate up direction
//
// Returns:
//   - [16]float32: the view matrix
func LookAt(eye, center, up mgl32.Vec3) [16]float32 {
	f := center.Sub(eye)
	if f.Len() == 0 {
		f = mgl32.Vec3{0, 0, -1}
	}
	f = f.Normalize()
	if math.Abs(float64(f.Dot(up.Normalize()))) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
		if math.Abs(float64(f.Z())) > 0.999 {
			up = mgl32.Vec3{0, 1, 0}
		}
	}
	return [16]float32(mgl32.LookAtV(eye, center, up))
}

// Invert4 returns the inverse of m. The boolean is false when m is singular,
// in which case the zero matrix is returned.
func Invert4(m [16]float32) ([16]float32, bool) {
	mm := mgl32.Mat4(m)
	if mm.Det() == 0 {
		return [16]float32{}, false
	}
	return [16]float32(mm.Inv()), true
}

// ComposeTRS builds a model matrix as translation * rotation * scale.
//
// Parameters:
//   - translation: world-space translation
//   - rotation: orientation quaternion (normalized internally)
//   - scale: per-axis scale
//
// Returns:
//   - [16]float32: the model matrix
func ComposeTRS(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) [16]float32 {
	t := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	r := rotation.Normalize().Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return [16]float32(t.Mul4(r).Mul4(s))
}

// TransformPoint multiplies the point (x, y, z, 1) by m and returns the clip-space vector.
func TransformPoint(m [16]float32, p mgl32.Vec3) mgl32.Vec4 {
	return mgl32.Mat4(m).Mul4x1(p.Vec4(1))
}
