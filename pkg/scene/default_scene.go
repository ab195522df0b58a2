package scene

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// NewDefaultScene creates three spheres (diffuse, glass, metal) resting on a large ground sphere
func NewDefaultScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0.5, 2), // Slightly above and behind the spheres
		LookAt:        core.NewVec3(0, 0, -1),  // Center sphere
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.05, // Subtle depth of field
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold),
	)

	return &Scene{
		Name:           "default",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Width:          400,
	}
}
