package core

import (
	"math"
	"math/rand"
	"sync"
	"testing"
)

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 10000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sample %d outside unit sphere: %v (len² %f)", i, p, p.LengthSquared())
		}
	}
}

func TestRandomInUnitSphere_RejectsOutsidePoints(t *testing.T) {
	// First triple maps to (0.8, 0.8, 0.8), which lies outside; the second maps to the origin
	sampler := NewSequenceSampler(0.9, 0.9, 0.9, 0.5, 0.5, 0.5)

	p := RandomInUnitSphere(sampler)
	if !p.Equals(NewVec3(0, 0, 0)) {
		t.Errorf("Expected rejected sample to be replaced by origin, got %v", p)
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
		mean.AddInPlace(v)
	}

	// Directions should be spread over the sphere
	mean.MultiplyInPlace(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Unit vectors are biased: mean %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))

	for i := 0; i < 5000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in the z=0 plane, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Disk sample outside unit disk: %v", p)
		}
	}
}

func TestRandomRange(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		x := RandomRange(sampler, -2, 3)
		if x < -2 || x >= 3 {
			t.Fatalf("RandomRange out of bounds: %f", x)
		}
		v := RandomVec3Range(sampler, 0.5, 1)
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < 0.5 || c >= 1 {
				t.Fatalf("RandomVec3Range component out of bounds: %v", v)
			}
		}
	}
}

func TestSequenceSampler_Wraps(t *testing.T) {
	sampler := NewSequenceSampler(0.1, 0.2)

	got := []float64{sampler.Get1D(), sampler.Get1D(), sampler.Get1D()}
	want := []float64{0.1, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Value %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestRandomSampler_IndependentPerTask(t *testing.T) {
	// Each task owns its sampler, so equal seeds give equal sequences even when run concurrently
	const tasks = 8
	results := make([][]float64, tasks)

	var wg sync.WaitGroup
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			sampler := NewSeededSampler(99)
			values := make([]float64, 100)
			for j := range values {
				values[j] = RandomUnitVector(sampler).X
			}
			results[slot] = values
		}(i)
	}
	wg.Wait()

	for i := 1; i < tasks; i++ {
		for j := range results[0] {
			if results[i][j] != results[0][j] {
				t.Fatalf("Task %d diverged at sample %d", i, j)
			}
		}
	}
}
