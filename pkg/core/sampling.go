package core

import (
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms.
// A Sampler is owned by a single rendering task and is not safe for concurrent use;
// parallel renderers give every task its own.
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own source seeded by seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomRange returns a uniform value in [minVal, maxVal)
func RandomRange(sampler Sampler, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*sampler.Get1D()
}

// RandomVec3 returns a vector with each component uniform in [0, 1)
func RandomVec3(sampler Sampler) Vec3 {
	return sampler.Get3D()
}

// RandomVec3Range returns a vector with each component uniform in [minVal, maxVal)
func RandomVec3Range(sampler Sampler, minVal, maxVal float64) Vec3 {
	u := sampler.Get3D()
	return NewVec3(
		minVal+(maxVal-minVal)*u.X,
		minVal+(maxVal-minVal)*u.Y,
		minVal+(maxVal-minVal)*u.Z,
	)
}

// RandomInUnitSphere returns a point strictly inside the unit sphere by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := RandomVec3Range(sampler, -1, 1)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitSphere(sampler).Normalize()
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(RandomRange(sampler, -1, 1), RandomRange(sampler, -1, 1), 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// SequenceSampler replays a fixed list of values in order, wrapping around.
// It is meant for deterministic tests and zero-variance renders.
type SequenceSampler struct {
	values []float64
	next   int
}

// NewSequenceSampler creates a sampler that cycles through values
func NewSequenceSampler(values ...float64) *SequenceSampler {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &SequenceSampler{values: values}
}

// Get1D returns the next value in the sequence
func (s *SequenceSampler) Get1D() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Get3D returns the next three values in the sequence
func (s *SequenceSampler) Get3D() Vec3 {
	return NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}
