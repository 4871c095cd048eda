package pipelines

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// BasicShaderSource is the WGSL of the lit main pass. Entry points vs_main and fs_main.
//
//go:embed assets/basic.wgsl
var BasicShaderSource string

// ShadowShaderSource is the WGSL of the depth-only shadow pass. Entry point vs_main.
//
//go:embed assets/shadow.wgsl
var ShadowShaderSource string

// BasicPushConstantSize is the byte size of BasicPushConstants.
const BasicPushConstantSize = 96

// ShadowPushConstantSize is the byte size of ShadowPushConstants.
const ShadowPushConstantSize = 64

// BasicPushConstants is the per-draw block of the main pass.
// Matches the WGSL PushConstants struct in the basic shader.
// Size: 96 bytes.
type BasicPushConstants struct {
	MVP          [16]float32 // offset  0: camera view-projection * model (mat4x4<f32>)
	BaseColor    [4]float32  // offset 64: material tint (vec4<f32>)
	TextureIndex uint32      // offset 80: texture-array layer
	_pad         [3]uint32   // offset 84: padding to 96 bytes
}

// Size returns the size of the BasicPushConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (p *BasicPushConstants) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal serializes the block for SetPushConstants.
//
// Returns:
//   - []byte: 96-byte buffer
func (p *BasicPushConstants) Marshal() []byte {
	buf := make([]byte, BasicPushConstantSize)
	common.PutMat4(buf[0:64], p.MVP)
	for i, v := range p.BaseColor {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[80:84], p.TextureIndex)
	return buf
}

// ShadowPushConstants is the per-draw block of the shadow pass: the model matrix alone.
// Size: 64 bytes.
type ShadowPushConstants struct {
	Model [16]float32
}

func (p *ShadowPushConstants) Marshal() []byte {
	return common.Mat4Bytes(p.Model)
}
