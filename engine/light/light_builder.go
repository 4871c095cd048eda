package light

import "github.com/go-gl/mathgl/mgl32"

// params collects option values shared by both light kinds.
type params struct {
	color     mgl32.Vec3
	intensity float32
	radius    float32
	direction mgl32.Vec3
}

// LightBuilderOption is a function that configures a light during construction.
// Options that do not apply to a light kind are ignored by it.
type LightBuilderOption func(*params)

func newParams(opts []LightBuilderOption) *params {
	p := &params{
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1.0,
		radius:    10.0,
		direction: mgl32.Vec3{0, -1, 0},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(p *params) {
		p.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option
func WithIntensity(intensity float32) LightBuilderOption {
	return func(p *params) {
		p.intensity = intensity
	}
}

// WithRadius sets the attenuation cutoff of a point light.
func WithRadius(radius float32) LightBuilderOption {
	return func(p *params) {
		p.radius = radius
	}
}

// WithDirection sets the direction of a directional light. The vector is normalized; a zero
// vector leaves the default in place.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(p *params) {
		d := mgl32.Vec3{x, y, z}
		if d.Len() == 0 {
			return
		}
		p.direction = d.Normalize()
	}
}
