package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports configuration values the renderer cannot work with
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Raytracer renders pixels of a fixed camera and world.
// It holds only read-only state, so one Raytracer may serve many goroutines
// as long as each brings its own sampler.
type Raytracer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
	width      int
	height     int
	config     SamplingConfig
}

// NewRaytracer creates a new raytracer using the path tracing integrator
func NewRaytracer(camera *Camera, world geometry.Shape, width, height int, config SamplingConfig) *Raytracer {
	return &Raytracer{
		camera:     camera,
		world:      world,
		integrator: integrator.NewPathTracingIntegrator(),
		width:      width,
		height:     height,
		config:     config,
	}
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// PixelRay returns the camera ray through offset (dx, dy) in [0,1) of pixel (x, y), where y = 0 is the top row
func (rt *Raytracer) PixelRay(x, y int, dx, dy float64, sampler core.Sampler) core.Ray {
	// Image rows run top-down while camera t runs bottom-up
	j := rt.height - 1 - y
	s := (float64(x) + dx) / float64(max(1, rt.width-1))
	t := (float64(j) + dy) / float64(max(1, rt.height-1))

	return rt.camera.GetRay(s, t, sampler)
}

// SamplePixel traces SamplesPerPixel jittered rays through pixel (x, y)
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) PixelStats {
	var ps PixelStats

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		dx := sampler.Get1D()
		dy := sampler.Get1D()

		ray := rt.PixelRay(x, y, dx, dy, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth))
	}

	return ps
}

// RenderPixel returns the display bytes for pixel (x, y)
func (rt *Raytracer) RenderPixel(x, y int, sampler core.Sampler) [3]uint8 {
	ps := rt.SamplePixel(x, y, sampler)
	return ps.RGB()
}

// RenderBounds renders pixels within bounds into img. Only the pixels inside
// bounds are written, so disjoint bounds may be rendered concurrently.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *Image, sampler core.Sampler) RenderStats {
	stats := RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := rt.SamplePixel(x, y, sampler)
			img.SetRGB(x, y, ps.RGB())

			stats.TotalPixels++
			stats.TotalSamples += ps.SampleCount
		}
	}

	return stats
}

// Render renders the whole image on the calling goroutine with a single sampler
func (rt *Raytracer) Render(sampler core.Sampler) (*Image, RenderStats) {
	startTime := time.Now()

	img := NewImage(rt.width, rt.height)
	stats := rt.RenderBounds(img.Bounds(), img, sampler)
	stats.Elapsed = time.Since(startTime)

	return img, stats
}
