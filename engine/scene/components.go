package scene

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in the world. The model matrix is Translation * Rotation * Scale
// and is recomputed on every call to Matrix.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// TransformAt returns an unrotated, unscaled transform at (x, y, z).
func TransformAt(x, y, z float32) Transform {
	t := NewTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// WithScale returns a copy of t with the given per-axis scale.
func (t Transform) WithScale(x, y, z float32) Transform {
	t.Scale = mgl32.Vec3{x, y, z}
	return t
}

// WithRotation returns a copy of t rotated by angle degrees around axis.
func (t Transform) WithRotation(angle float32, axis mgl32.Vec3) Transform {
	t.Rotation = mgl32.QuatRotate(mgl32.DegToRad(angle), axis.Normalize())
	return t
}

// Matrix returns the model matrix.
//
// Returns:
//   - [16]float32: column-major Translation * Rotation * Scale
func (t Transform) Matrix() [16]float32 {
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return common.ComposeTRS(t.Translation, rot, t.Scale)
}

// MeshComponent makes an entity drawable.
type MeshComponent struct {
	Mesh         *mesh.GpuMesh
	CastsShadows bool
}

// Material selects a texture-array slot and tints it. Slot 0 is the default white texture.
type Material struct {
	TextureIndex uint32
	BaseColor    [4]float32
}

// NewMaterial samples the texture at index, untinted.
func NewMaterial(textureIndex uint32) Material {
	return Material{TextureIndex: textureIndex, BaseColor: [4]float32{1, 1, 1, 1}}
}

// MaterialWithColor is a flat color over the default white texture.
func MaterialWithColor(color [4]float32) Material {
	return Material{TextureIndex: 0, BaseColor: color}
}
