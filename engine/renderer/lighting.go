package renderer

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipelines"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// World is the entity query the renderer consumes each frame. scene.Scene satisfies it.
type World interface {
	Renderables(fn func(id scene.EntityID, t scene.Transform, m scene.MeshComponent, mat scene.Material) bool)
	PointLights(fn func(id scene.EntityID, t scene.Transform, l light.PointLight) bool)
	DirectionalLights(fn func(id scene.EntityID, l light.DirectionalLight) bool)
}

// frameData is everything gathered from the world for one frame.
type frameData struct {
	items      []pipelines.DrawItem
	lighting   light.LightingData
	lightSpace [16]float32
}

// collectFrame queries the world once. Model matrices are composed here, every frame. Point lights
// past light.MaxPointLights are dropped and only the first directional light is used. Without a
// directional light the shadow map is rendered from straight above.
func collectFrame(world World) frameData {
	var data frameData
	if world == nil {
		data.lightSpace = light.ComputeLightSpace(mgl32.Vec3{})
		return data
	}

	world.Renderables(func(_ scene.EntityID, t scene.Transform, m scene.MeshComponent, mat scene.Material) bool {
		data.items = append(data.items, pipelines.DrawItem{
			Mesh:         m.Mesh,
			Model:        t.Matrix(),
			BaseColor:    mat.BaseColor,
			TextureIndex: mat.TextureIndex,
			CastsShadows: m.CastsShadows,
		})
		return true
	})

	var points []light.PlacedPointLight
	world.PointLights(func(_ scene.EntityID, t scene.Transform, l light.PointLight) bool {
		points = append(points, light.PlacedPointLight{Position: t.Translation, Light: l})
		return len(points) < light.MaxPointLights
	})

	var directionals []light.DirectionalLight
	world.DirectionalLights(func(_ scene.EntityID, l light.DirectionalLight) bool {
		directionals = append(directionals, l)
		return false
	})

	data.lighting = light.BuildLightingData(points, directionals)
	var dir mgl32.Vec3
	if len(directionals) > 0 {
		dir = directionals[0].Direction
	}
	data.lightSpace = light.ComputeLightSpace(dir)
	return data
}
