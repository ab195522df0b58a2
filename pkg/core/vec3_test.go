package core

import (
	"math"
	"strings"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, 7, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, -3, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, 10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Lerp midpoint", NewVec3(1, 1, 1).Lerp(NewVec3(0, 0, 0), 0.5), NewVec3(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	// Operands are values and must be left untouched
	if !a.Equals(NewVec3(1, 2, 3)) || !b.Equals(NewVec3(4, 5, 6)) {
		t.Errorf("Operands were modified: a=%v b=%v", a, b)
	}
}

func TestVec3_InPlaceAccumulation(t *testing.T) {
	acc := NewVec3(1, 2, 3)
	acc.AddInPlace(NewVec3(4, 5, 6))
	if !acc.Equals(NewVec3(5, 7, 9)) {
		t.Errorf("AddInPlace: expected (5,7,9), got %v", acc)
	}

	acc.MultiplyInPlace(2)
	if !acc.Equals(NewVec3(10, 14, 18)) {
		t.Errorf("MultiplyInPlace: expected (10,14,18), got %v", acc)
	}
}

func TestVec3_Lengths(t *testing.T) {
	tests := []struct {
		vector    Vec3
		lengthSq  float64
		length    float64
	}{
		{NewVec3(0, 0, 0), 0, 0},
		{NewVec3(1, 1, 1), 3, math.Sqrt(3)},
		{NewVec3(2, 3, 4), 29, math.Sqrt(29)},
	}

	for _, tt := range tests {
		if got := tt.vector.LengthSquared(); got != tt.lengthSq {
			t.Errorf("LengthSquared(%v) = %f, want %f", tt.vector, got, tt.lengthSq)
		}
		if got := tt.vector.Length(); got != tt.length {
			t.Errorf("Length(%v) = %f, want %f", tt.vector, got, tt.length)
		}
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, -4, 12).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	zero := NewVec3(0, 0, 0).Normalize()
	if !zero.Equals(NewVec3(0, 0, 0)) {
		t.Errorf("Normalizing zero should not produce NaN, got %v", zero)
	}
}

func TestVec3_Component(t *testing.T) {
	v := NewVec3(1, 2, 3)
	for i, expected := range []float64{1, 2, 3} {
		if got := v.Component(i); got != expected {
			t.Errorf("Component(%d) = %f, want %f", i, got, expected)
		}
	}

	for _, index := range []int{-1, 3} {
		t.Run("out of range", func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("Component(%d) should panic", index)
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, "is not a valid index") {
					t.Errorf("Unexpected panic value: %v", r)
				}
			}()
			v.Component(index)
		})
	}
}

func TestVec3_NearZero(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Tiny vector should be near zero")
	}
	if NewVec3(1e-9, 1e-3, 0).NearZero() {
		t.Error("Vector with a non-tiny component should not be near zero")
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)

	r := Reflect(v, n)
	if !r.Equals(NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1,1,0), got %v", r)
	}

	// Reflecting twice restores the original and never changes length
	cases := []struct{ v, n Vec3 }{
		{NewVec3(0.3, -2, 1.7), NewVec3(0, 1, 0)},
		{NewVec3(-5, 4, 0.25), NewVec3(1, 2, -2).Normalize()},
		{NewVec3(1, 1, 1), NewVec3(0, 0, -1)},
	}
	for _, c := range cases {
		once := Reflect(c.v, c.n)
		twice := Reflect(once, c.n)
		if math.Abs(once.Length()-c.v.Length()) > 1e-9 || math.Abs(twice.Length()-c.v.Length()) > 1e-9 {
			t.Errorf("Reflection changed length of %v: once %f, twice %f", c.v, once.Length(), twice.Length())
		}
		if twice.Subtract(c.v).Length() > 1e-9 {
			t.Errorf("Double reflection should restore %v, got %v", c.v, twice)
		}
	}
}

func TestRefract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	// Head-on rays pass straight through regardless of ratio
	straight := Refract(NewVec3(0, -1, 0), n, 1.0/1.5)
	if straight.Subtract(NewVec3(0, -1, 0)).Length() > 1e-12 {
		t.Errorf("Expected (0,-1,0), got %v", straight)
	}

	// Snell's law: sin(out) = ratio * sin(in)
	in := NewVec3(math.Sin(math.Pi/6), -math.Cos(math.Pi/6), 0)
	ratio := 1.0 / 1.5
	out := Refract(in, n, ratio)
	sinOut := out.X / out.Length()
	if math.Abs(sinOut-ratio*math.Sin(math.Pi/6)) > 1e-9 {
		t.Errorf("Snell's law violated: sinOut=%f", sinOut)
	}

	// Past the critical angle the radicand is clamped instead of producing NaN
	grazing := Refract(NewVec3(0.999, -0.0447, 0).Normalize(), n, 1.5)
	if math.IsNaN(grazing.X) || math.IsNaN(grazing.Y) || math.IsNaN(grazing.Z) {
		t.Errorf("Refract produced NaN: %v", grazing)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, expected float64
	}{
		{0.5, 0.5},
		{-0.5, 0.0},
		{1.5, 1.0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.x, 0, 1); got != tt.expected {
			t.Errorf("Clamp(%f) = %f, want %f", tt.x, got, tt.expected)
		}
	}
}

func TestVec3_String(t *testing.T) {
	if got := NewVec3(0.5, 1.9, 10.99).String(); got != "0.5 1.9 10.99" {
		t.Errorf("Unexpected string %q", got)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRayAtTime(NewVec3(1, 2, 3), NewVec3(4, 5, 6), 0.25)

	if !ray.At(0).Equals(NewVec3(1, 2, 3)) {
		t.Errorf("At(0) should be the origin, got %v", ray.At(0))
	}
	if !ray.At(2).Equals(NewVec3(9, 12, 15)) {
		t.Errorf("At(2) expected (9,12,15), got %v", ray.At(2))
	}
	if ray.Time != 0.25 {
		t.Errorf("Expected time 0.25, got %f", ray.Time)
	}
	if NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)).Time != 0 {
		t.Error("NewRay should default time to 0")
	}
}
