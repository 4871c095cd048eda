package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/google/uuid"
)

var ErrUnknownEntity = errors.New("unknown entity")

// EntityID identifies a spawned entity.
type EntityID uuid.UUID

func (id EntityID) String() string { return uuid.UUID(id).String() }

// entity holds the optional components of one entity. A nil pointer means the component is absent.
type entity struct {
	enabled     bool
	transform   Transform
	mesh        *MeshComponent
	material    *Material
	point       *light.PointLight
	directional *light.DirectionalLight
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu       *sync.RWMutex
	logger   common.Logger
	order    []EntityID
	entities map[EntityID]*entity
}

// Scene is a keyed component store. Entities carry a Transform and optionally a mesh, a
// material and one kind of light. Iteration visits entities in spawn order.
type Scene interface {
	// Spawn creates an entity with the identity transform and applies options.
	//
	// Parameters:
	//   - options: variadic list of EntityOption functions attaching components
	//
	// Returns:
	//   - EntityID: the new entity
	Spawn(options ...EntityOption) EntityID

	// Despawn removes an entity and all of its components.
	//
	// Returns:
	//   - bool: true if the entity existed
	Despawn(id EntityID) bool

	// Contains reports whether id is alive.
	Contains(id EntityID) bool

	// Len returns the number of live entities.
	Len() int

	// SetEnabled hides or shows an entity. Disabled entities are skipped by every iterator.
	SetEnabled(id EntityID, enabled bool) error

	// SetTransform replaces an entity's transform.
	//
	// Returns:
	//   - error: ErrUnknownEntity if id is not alive
	SetTransform(id EntityID, t Transform) error

	// SetMesh attaches or replaces an entity's mesh.
	SetMesh(id EntityID, m MeshComponent) error

	// SetMaterial attaches or replaces an entity's material.
	SetMaterial(id EntityID, m Material) error

	// SetPointLight attaches a point light, positioned by the entity's transform.
	SetPointLight(id EntityID, l light.PointLight) error

	// SetDirectionalLight attaches a directional light.
	SetDirectionalLight(id EntityID, l light.DirectionalLight) error

	// Transform returns an entity's transform.
	Transform(id EntityID) (Transform, bool)

	// Mesh returns an entity's mesh component.
	Mesh(id EntityID) (MeshComponent, bool)

	// Material returns an entity's material.
	Material(id EntityID) (Material, bool)

	// PointLight returns an entity's point light.
	PointLight(id EntityID) (light.PointLight, bool)

	// DirectionalLight returns an entity's directional light.
	DirectionalLight(id EntityID) (light.DirectionalLight, bool)

	// Renderables calls fn for every enabled entity with a mesh. Entities without a material
	// draw with NewMaterial(0). Returning false from fn stops the iteration.
	Renderables(fn func(id EntityID, t Transform, m MeshComponent, mat Material) bool)

	// PointLights calls fn for every enabled entity with a point light.
	PointLights(fn func(id EntityID, t Transform, l light.PointLight) bool)

	// DirectionalLights calls fn for every enabled entity with a directional light.
	DirectionalLights(fn func(id EntityID, l light.DirectionalLight) bool)
}

var _ Scene = &scene{}

// NewScene creates an empty scene.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		logger:   common.NewNopLogger(),
		entities: make(map[EntityID]*entity),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Spawn(options ...EntityOption) EntityID {
	e := &entity{enabled: true, transform: NewTransform()}
	for _, opt := range options {
		opt(e)
	}
	id := EntityID(uuid.New())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[id] = e
	s.order = append(s.order, id)
	s.logger.Debugf("spawned entity %s", id)
	return id
}

func (s *scene) Despawn(id EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	s.order = slices.DeleteFunc(s.order, func(o EntityID) bool { return o == id })
	return true
}

func (s *scene) Contains(id EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[id]
	return ok
}

func (s *scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// update runs fn on a live entity under the write lock.
func (s *scene) update(id EntityID, fn func(e *entity)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("entity %s: %w", id, ErrUnknownEntity)
	}
	fn(e)
	return nil
}

func (s *scene) SetEnabled(id EntityID, enabled bool) error {
	return s.update(id, func(e *entity) { e.enabled = enabled })
}

func (s *scene) SetTransform(id EntityID, t Transform) error {
	return s.update(id, func(e *entity) { e.transform = t })
}

func (s *scene) SetMesh(id EntityID, m MeshComponent) error {
	return s.update(id, func(e *entity) { e.mesh = &m })
}

func (s *scene) SetMaterial(id EntityID, m Material) error {
	return s.update(id, func(e *entity) { e.material = &m })
}

func (s *scene) SetPointLight(id EntityID, l light.PointLight) error {
	return s.update(id, func(e *entity) { e.point = &l })
}

func (s *scene) SetDirectionalLight(id EntityID, l light.DirectionalLight) error {
	return s.update(id, func(e *entity) { e.directional = &l })
}

// lookup reads a component with the read lock held.
func lookup[T any](s *scene, id EntityID, get func(e *entity) *T) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	e, ok := s.entities[id]
	if !ok {
		return zero, false
	}
	c := get(e)
	if c == nil {
		return zero, false
	}
	return *c, true
}

func (s *scene) Transform(id EntityID) (Transform, bool) {
	return lookup(s, id, func(e *entity) *Transform { return &e.transform })
}

func (s *scene) Mesh(id EntityID) (MeshComponent, bool) {
	return lookup(s, id, func(e *entity) *MeshComponent { return e.mesh })
}

func (s *scene) Material(id EntityID) (Material, bool) {
	return lookup(s, id, func(e *entity) *Material { return e.material })
}

func (s *scene) PointLight(id EntityID) (light.PointLight, bool) {
	return lookup(s, id, func(e *entity) *light.PointLight { return e.point })
}

func (s *scene) DirectionalLight(id EntityID) (light.DirectionalLight, bool) {
	return lookup(s, id, func(e *entity) *light.DirectionalLight { return e.directional })
}

// snapshot copies the enabled entities in spawn order so callbacks run without the lock held.
func (s *scene) snapshot() ([]EntityID, []entity) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]EntityID, 0, len(s.order))
	ents := make([]entity, 0, len(s.order))
	for _, id := range s.order {
		e := s.entities[id]
		if !e.enabled {
			continue
		}
		ids = append(ids, id)
		ents = append(ents, *e)
	}
	return ids, ents
}

func (s *scene) Renderables(fn func(id EntityID, t Transform, m MeshComponent, mat Material) bool) {
	ids, ents := s.snapshot()
	for i, e := range ents {
		if e.mesh == nil || e.mesh.Mesh == nil {
			continue
		}
		mat := NewMaterial(0)
		if e.material != nil {
			mat = *e.material
		}
		if !fn(ids[i], e.transform, *e.mesh, mat) {
			return
		}
	}
}

func (s *scene) PointLights(fn func(id EntityID, t Transform, l light.PointLight) bool) {
	ids, ents := s.snapshot()
	for i, e := range ents {
		if e.point == nil {
			continue
		}
		if !fn(ids[i], e.transform, *e.point) {
			return
		}
	}
}

func (s *scene) DirectionalLights(fn func(id EntityID, l light.DirectionalLight) bool) {
	ids, ents := s.snapshot()
	for i, e := range ents {
		if e.directional == nil {
			continue
		}
		if !fn(ids[i], *e.directional) {
			return
		}
	}
}
