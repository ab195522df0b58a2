package scene

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// NewMaterialsScene lines up one sphere per material variant, left to right:
// matte, mirror, brushed metal, glass, an air bubble and a hollow glass shell
func NewMaterialsScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 2, 9),
		LookAt:        core.NewVec3(0, 0.6, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          35.0,
		AspectRatio:   2.0,
		Aperture:      0.0,
		FocusDistance: 0.0,
	}

	ground := material.NewLambertian(core.NewVec3(0.45, 0.45, 0.5))
	variants := []material.Material{
		material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)),
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0),
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.4),
		material.NewDielectric(1.5),
		material.NewDielectric(1.0 / 1.33), // Air inside water
	}

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
	)

	spacing := 1.3
	x := -spacing * float64(len(variants)) / 2
	for _, mat := range variants {
		world.Add(geometry.NewSphere(core.NewVec3(x, 0.6, 0), 0.6, mat))
		x += spacing
	}

	// Hollow shell: glass sphere with an air sphere just inside it
	shellCenter := core.NewVec3(x, 0.6, 0)
	world.Add(geometry.NewSphere(shellCenter, 0.6, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(shellCenter, 0.55, material.NewDielectric(1.0/1.5)))

	return &Scene{
		Name:           "materials",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Width:          600,
	}
}
