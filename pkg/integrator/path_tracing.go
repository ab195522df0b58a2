package integrator

import (
	"math"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
)

// MinHitDistance is the lower ray bound used for every intersection query.
// Starting just above zero keeps a scattered ray from re-hitting its own origin.
const MinHitDistance = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a sky gradient background
type PathTracingIntegrator struct {
	TopColor    core.Vec3 // Background color straight up (unit direction y = +1)
	BottomColor core.Vec3 // Background color straight down (unit direction y = -1)
}

// NewPathTracingIntegrator creates a path tracer with a white-to-light-blue sky
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, MinHitDistance, math.Inf(1))
	if !isHit {
		return pt.Background(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, sampler, depth-1))
}

// Background returns the sky gradient color based on ray direction
func (pt *PathTracingIntegrator) Background(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return pt.BottomColor.Lerp(pt.TopColor, t)
}
