package integrator

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance carried back along ray with at most depth bounces
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Vec3
}
