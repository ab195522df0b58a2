package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// Defaults applied to fields left out of a scene file
const (
	DefaultWidth       = 400
	DefaultVFov        = 40.0
	DefaultAspectRatio = 16.0 / 9.0
)

// Vec3Cfg is a vector written as a JSON array [x, y, z]
type Vec3Cfg [3]float64

// Vec returns the vector value
func (v Vec3Cfg) Vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

type CameraCfg struct {
	LookFrom      Vec3Cfg `json:"lookFrom"`
	LookAt        Vec3Cfg `json:"lookAt"`
	Up            Vec3Cfg `json:"up,omitempty"` // defaults to +Y
	VFov          float64 `json:"vfov,omitempty"`
	AspectRatio   float64 `json:"aspectRatio,omitempty"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"` // 0 focuses on lookAt
	Time0         float64 `json:"time0,omitempty"`
	Time1         float64 `json:"time1,omitempty"`
}

type SamplingCfg struct {
	SamplesPerPixel int `json:"samplesPerPixel,omitempty"`
	MaxDepth        int `json:"maxDepth,omitempty"`
}

// MaterialCfg describes one named material. Type is "lambertian", "metal" or "dielectric".
type MaterialCfg struct {
	Type            string  `json:"type"`
	Albedo          Vec3Cfg `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

// SphereCfg describes a sphere. Setting center1 makes it move from center
// at time0 to center1 at time1.
type SphereCfg struct {
	Center   Vec3Cfg  `json:"center"`
	Center1  *Vec3Cfg `json:"center1,omitempty"`
	Time0    float64  `json:"time0,omitempty"`
	Time1    float64  `json:"time1,omitempty"`
	Radius   float64  `json:"radius"`
	Material string   `json:"material"`
}

// SceneCfg is the top-level JSON scene description
type SceneCfg struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Width       int                    `json:"width,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Sampling    SamplingCfg            `json:"sampling,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Spheres     []SphereCfg            `json:"spheres"`
}

// Build creates the material
func (m MaterialCfg) Build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(m.Albedo.Vec()), nil
	case "metal":
		return material.NewMetal(m.Albedo.Vec(), m.Fuzz), nil
	case "dielectric", "glass":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric needs a positive refractiveIndex, got %g", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	case "":
		return nil, fmt.Errorf("material type is missing")
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// Build creates the sphere using the named material from materials
func (s SphereCfg) Build(materials map[string]material.Material) (geometry.Shape, error) {
	mat, ok := materials[s.Material]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", s.Material)
	}
	if s.Radius <= 0 {
		return nil, fmt.Errorf("radius must be > 0, got %g", s.Radius)
	}

	if s.Center1 == nil {
		return geometry.NewSphere(s.Center.Vec(), s.Radius, mat), nil
	}
	if s.Time1 < s.Time0 {
		return nil, fmt.Errorf("time1 (%g) is before time0 (%g)", s.Time1, s.Time0)
	}
	return geometry.NewMovingSphere(s.Center.Vec(), s.Center1.Vec(), s.Time0, s.Time1, s.Radius, mat), nil
}

// CameraConfig converts to a renderer camera config, filling defaults
func (c CameraCfg) CameraConfig() renderer.CameraConfig {
	config := renderer.CameraConfig{
		LookFrom:      c.LookFrom.Vec(),
		LookAt:        c.LookAt.Vec(),
		Up:            c.Up.Vec(),
		VFov:          c.VFov,
		AspectRatio:   c.AspectRatio,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		Time0:         c.Time0,
		Time1:         c.Time1,
	}
	if config.Up.NearZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}
	if config.VFov <= 0 {
		config.VFov = DefaultVFov
	}
	if config.AspectRatio <= 0 {
		config.AspectRatio = DefaultAspectRatio
	}
	return config
}

// SamplingConfig converts to a renderer sampling config, filling defaults
func (s SamplingCfg) SamplingConfig() renderer.SamplingConfig {
	config := renderer.DefaultSamplingConfig()
	if s.SamplesPerPixel > 0 {
		config.SamplesPerPixel = s.SamplesPerPixel
	}
	if s.MaxDepth > 0 {
		config.MaxDepth = s.MaxDepth
	}
	return config
}

// Build assembles and validates the scene
func (cfg *SceneCfg) Build() (*scene.Scene, error) {
	materials := make(map[string]material.Material, len(cfg.Materials))
	for name, mc := range cfg.Materials {
		mat, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	world := geometry.NewHittableList()
	for i, sc := range cfg.Spheres {
		shape, err := sc.Build(materials)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		world.Add(shape)
	}

	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	s := &scene.Scene{
		Name:           cfg.Name,
		World:          world,
		CameraConfig:   cfg.Camera.CameraConfig(),
		SamplingConfig: cfg.Sampling.SamplingConfig(),
		Width:          width,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseSceneJSON parses a JSON scene description from an io.Reader.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func ParseSceneJSON(reader io.Reader) (*scene.Scene, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var cfg SceneCfg
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return cfg.Build()
}

// LoadSceneJSON loads and parses a JSON scene file
func LoadSceneJSON(filename string) (*scene.Scene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseSceneJSON(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return s, nil
}

// validateFilePath rejects paths that cannot name a scene file
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".json") {
		return fmt.Errorf("invalid file type: only .json files are allowed")
	}
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
