package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// MaxPointLights is the number of point light slots in LightingData. Lights beyond it are dropped.
const MaxPointLights = 16

// LightingDataSize is the byte size of the lighting uniform.
const LightingDataSize = 832

// GPUPointLight is the uniform layout of one point light.
// Size: 48 bytes.
type GPUPointLight struct {
	Position  [4]float32 // offset  0: world position, w = 1
	Color     [4]float32 // offset 16: RGB, a = 1
	Intensity float32    // offset 32
	Radius    float32    // offset 36
	_pad      [2]float32 // offset 40
}

// GPUDirectionalLight is the uniform layout of the directional light.
// Size: 32 bytes.
type GPUDirectionalLight struct {
	Direction [3]float32 // offset  0
	_pad0     float32    // offset 12
	Color     [3]float32 // offset 16
	Intensity float32    // offset 28
}

// LightingData is the lighting uniform uploaded wholesale every frame.
// Matches the WGSL struct in the basic shader:
//
//	point_lights      array<PointLight, 16>  (768 bytes, offset 0)
//	num_point_lights  u32                    (  4 bytes, offset 768)
//	_pad              vec3<f32>              ( 12 bytes, offset 772)
//	directional_light DirectionalLight       ( 32 bytes, offset 784)
//	_padding          vec4<f32>              ( 16 bytes, offset 816)
type LightingData struct {
	PointLights      [MaxPointLights]GPUPointLight
	NumPointLights   uint32
	_padAfterCount   [3]float32
	DirectionalLight GPUDirectionalLight
	_padding         [4]float32
}

// Size returns the size of the LightingData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (832)
func (d *LightingData) Size() int {
	return int(unsafe.Sizeof(*d))
}

// AddPointLight appends a point light. It reports false once all slots are taken.
//
// Parameters:
//   - light: the GPU form of the light
//
// Returns:
//   - bool: whether the light was stored
func (d *LightingData) AddPointLight(light GPUPointLight) bool {
	if d.NumPointLights >= MaxPointLights {
		return false
	}
	d.PointLights[d.NumPointLights] = light
	d.NumPointLights++
	return true
}

// Marshal serializes the struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 832-byte buffer ready for GPU upload
func (d *LightingData) Marshal() []byte {
	buf := make([]byte, LightingDataSize)
	for i := range d.PointLights {
		d.PointLights[i].put(buf[i*48:])
	}
	binary.LittleEndian.PutUint32(buf[768:772], d.NumPointLights)
	d.DirectionalLight.put(buf[784:])
	return buf
}

func (p *GPUPointLight) put(buf []byte) {
	putFloats(buf[0:16], p.Position[:]...)
	putFloats(buf[16:32], p.Color[:]...)
	putFloats(buf[32:40], p.Intensity, p.Radius)
}

func (l *GPUDirectionalLight) put(buf []byte) {
	putFloats(buf[0:12], l.Direction[:]...)
	putFloats(buf[16:28], l.Color[:]...)
	putFloats(buf[28:32], l.Intensity)
}

func putFloats(buf []byte, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// LightSpaceUniform holds the directional light's view-projection matrix. The shadow pass reads it
// as its camera and the main pass reads it to project fragments into the shadow map.
// Size: 64 bytes.
type LightSpaceUniform struct {
	LightSpace [16]float32
}

// Marshal serializes the matrix column-major.
func (u *LightSpaceUniform) Marshal() []byte {
	return common.Mat4Bytes(u.LightSpace)
}
