package scene

import (
	"fmt"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Width          int // Image width; height follows from the camera aspect ratio
}

// Height returns the image height implied by Width and the camera aspect ratio
func (s *Scene) Height() int {
	if s.CameraConfig.AspectRatio <= 0 {
		return 0
	}
	return max(1, int(float64(s.Width)/s.CameraConfig.AspectRatio))
}

// Camera builds the scene camera
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// Raytracer builds a single-threaded raytracer for the scene
func (s *Scene) Raytracer() *renderer.Raytracer {
	return renderer.NewRaytracer(s.Camera(), s.World, s.Width, s.Height(), s.SamplingConfig)
}

// Validate rejects scenes the renderer cannot draw.
// Everything is checked here so that rendering itself never fails on bad input.
func (s *Scene) Validate() error {
	if s.Width <= 0 {
		return fmt.Errorf("scene %q: image width must be positive, got %d", s.Name, s.Width)
	}
	if err := ValidateCameraConfig(s.CameraConfig); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if s.World == nil {
		return fmt.Errorf("scene %q: world is nil", s.Name)
	}

	for i, shape := range s.World.Shapes {
		if err := ValidateShape(shape); err != nil {
			return fmt.Errorf("scene %q: shape %d: %w", s.Name, i, err)
		}
	}
	return nil
}

// ValidateCameraConfig reports camera parameters that produce a degenerate view
func ValidateCameraConfig(config renderer.CameraConfig) error {
	if config.VFov <= 0 || config.VFov >= 180 {
		return fmt.Errorf("vertical field of view must be in (0, 180), got %g", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return fmt.Errorf("aspect ratio must be positive, got %g", config.AspectRatio)
	}
	if config.Aperture < 0 {
		return fmt.Errorf("aperture must not be negative, got %g", config.Aperture)
	}
	if config.LookFrom.Equals(config.LookAt) {
		return fmt.Errorf("camera look-from and look-at are both %v", config.LookFrom)
	}
	viewDir := config.LookFrom.Subtract(config.LookAt)
	if config.Up.Cross(viewDir).NearZero() {
		return fmt.Errorf("camera up vector %v is parallel to the view direction", config.Up)
	}
	if config.Time1 < config.Time0 {
		return fmt.Errorf("shutter closes (%g) before it opens (%g)", config.Time1, config.Time0)
	}
	return nil
}

// ValidateShape checks the geometry and material of a single shape
func ValidateShape(shape geometry.Shape) error {
	switch s := shape.(type) {
	case *geometry.Sphere:
		if s.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %g", s.Radius)
		}
		return ValidateMaterial(s.Material)
	case *geometry.MovingSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("moving sphere radius must be positive, got %g", s.Radius)
		}
		if s.Time1 < s.Time0 {
			return fmt.Errorf("moving sphere time interval [%g, %g] is reversed", s.Time0, s.Time1)
		}
		return ValidateMaterial(s.Material)
	case *geometry.HittableList:
		for i, child := range s.Shapes {
			if err := ValidateShape(child); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
		}
		return nil
	case nil:
		return fmt.Errorf("shape is nil")
	default:
		return nil
	}
}

// ValidateMaterial checks material parameters
func ValidateMaterial(mat material.Material) error {
	switch m := mat.(type) {
	case nil:
		return fmt.Errorf("material is nil")
	case *material.Dielectric:
		if m.RefractiveIndex <= 0 {
			return fmt.Errorf("refractive index must be positive, got %g", m.RefractiveIndex)
		}
	case *material.Lambertian:
		return validateAlbedo(m.Albedo)
	case *material.Metal:
		return validateAlbedo(m.Albedo)
	}
	return nil
}

func validateAlbedo(albedo core.Vec3) error {
	if albedo.X < 0 || albedo.Y < 0 || albedo.Z < 0 {
		return fmt.Errorf("albedo %v has a negative component", albedo)
	}
	return nil
}
