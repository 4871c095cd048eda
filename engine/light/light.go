package light

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PointLight emits in all directions from the position of the entity it is attached to.
// Its contribution falls off to zero at Radius.
type PointLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Radius    float32
}

// DirectionalLight is a light infinitely far away, such as the sun. It has no position and
// casts the scene's shadow.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// NewPointLight creates a white point light of intensity 1 and radius 10 with any provided
// options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - PointLight: the light
func NewPointLight(opts ...LightBuilderOption) PointLight {
	p := newParams(opts)
	return PointLight{Color: p.color, Intensity: p.intensity, Radius: p.radius}
}

// NewDirectionalLight creates a white directional light of intensity 1 shining straight down,
// with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - DirectionalLight: the light
func NewDirectionalLight(opts ...LightBuilderOption) DirectionalLight {
	p := newParams(opts)
	return DirectionalLight{Direction: p.direction, Color: p.color, Intensity: p.intensity}
}

// ToGPU converts the light at the given world position to its uniform layout.
func (l PointLight) ToGPU(position mgl32.Vec3) GPUPointLight {
	return GPUPointLight{
		Position:  [4]float32{position.X(), position.Y(), position.Z(), 1},
		Color:     [4]float32{l.Color.X(), l.Color.Y(), l.Color.Z(), 1},
		Intensity: l.Intensity,
		Radius:    l.Radius,
	}
}

// ToGPU converts the light to its uniform layout. The direction is uploaded as given.
func (l DirectionalLight) ToGPU() GPUDirectionalLight {
	return GPUDirectionalLight{
		Direction: [3]float32(l.Direction),
		Color:     [3]float32(l.Color),
		Intensity: l.Intensity,
	}
}
