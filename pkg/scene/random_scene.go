package scene

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// NewRandomScene creates the classic cover scene: a field of small random
// spheres around three large ones. The layout depends only on seed.
// With moving set, the small diffuse spheres bounce upward during the shutter
// interval [0, 1] to show motion blur.
func NewRandomScene(seed int64, moving bool) *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	name := "random"
	if moving {
		cameraConfig.Time0, cameraConfig.Time1 = 0.0, 1.0
		name = "random-moving"
	}

	sampler := core.NewSeededSampler(seed)
	world := geometry.NewHittableList()

	// Ground
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Small random spheres
	keepClear := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())

			// Skip if too close to the large metal sphere
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
				diffuse := material.NewLambertian(albedo)
				if moving {
					center1 := center.Add(core.NewVec3(0, core.RandomRange(sampler, 0, 0.5), 0))
					world.Add(geometry.NewMovingSphere(center, center1, 0.0, 1.0, 0.2, diffuse))
				} else {
					world.Add(geometry.NewSphere(center, 0.2, diffuse))
				}
			case chooseMat < 0.95:
				albedo := core.RandomVec3Range(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				world.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				world.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	// Large spheres
	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return &Scene{
		Name:         name,
		World:        world,
		CameraConfig: cameraConfig,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 50, // Many spheres, keep default renders quick
			MaxDepth:        50,
		},
		Width: 600,
	}
}
