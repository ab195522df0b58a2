package material

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	return &Metal{Albedo: albedo, Fuzzness: core.Clamp(fuzzness, 0, 1)}
}

// Scatter implements the Material interface for metal scattering.
//
// A fuzzed reflection may point into the surface. It is still returned; such rays
// usually re-hit the same surface or escape below the horizon on the next bounce.
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)
	direction := reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzzness))

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, direction, rayIn.Time),
		Attenuation: m.Albedo,
	}, true
}
