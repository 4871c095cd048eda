package scene

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(s *scene)

// WithLogger sets the scene's logger.
//
// Parameters:
//   - logger: the logger; nil keeps the no-op logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger common.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = common.LoggerOrNop(logger)
	}
}

// EntityOption attaches a component to an entity being spawned.
type EntityOption func(e *entity)

// WithTransform sets the entity's transform.
func WithTransform(t Transform) EntityOption {
	return func(e *entity) {
		e.transform = t
	}
}

// WithMesh attaches a mesh.
//
// Parameters:
//   - m: the mesh component
//
// Returns:
//   - EntityOption: option function to apply
func WithMesh(m MeshComponent) EntityOption {
	return func(e *entity) {
		e.mesh = &m
	}
}

// WithMaterial attaches a material.
func WithMaterial(m Material) EntityOption {
	return func(e *entity) {
		e.material = &m
	}
}

// WithPointLight attaches a point light.
func WithPointLight(l light.PointLight) EntityOption {
	return func(e *entity) {
		e.point = &l
	}
}

// WithDirectionalLight attaches a directional light.
func WithDirectionalLight(l light.DirectionalLight) EntityOption {
	return func(e *entity) {
		e.directional = &l
	}
}

// WithEnabled sets whether the entity is visited by the iterators. Entities start enabled.
func WithEnabled(enabled bool) EntityOption {
	return func(e *entity) {
		e.enabled = enabled
	}
}
