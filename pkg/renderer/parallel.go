package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
)

// ParallelConfig contains configuration for tile-parallel rendering
type ParallelConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed for the per-tile random sources
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       42,
	}
}

// ParallelRaytracer splits the image into tiles and renders them on a worker pool.
// Every tile owns its random source and writes only its own pixels, so workers
// share nothing mutable and the output is independent of worker count.
type ParallelRaytracer struct {
	raytracer *Raytracer
	config    ParallelConfig
	tiles     []*Tile
	logger    core.Logger
}

// NewParallelRaytracer creates a new parallel raytracer
func NewParallelRaytracer(raytracer *Raytracer, config ParallelConfig, logger core.Logger) *ParallelRaytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultParallelConfig().TileSize
	}
	if logger == nil {
		logger = NewDiscardLogger()
	}

	return &ParallelRaytracer{
		raytracer: raytracer,
		config:    config,
		tiles:     NewTileGrid(raytracer.Width(), raytracer.Height(), config.TileSize, config.Seed),
		logger:    logger,
	}
}

// Tiles returns the tile grid used by the renderer
func (pr *ParallelRaytracer) Tiles() []*Tile {
	return pr.tiles
}

// Render renders every tile and returns the assembled image.
// Cancelling ctx stops workers from starting new tiles; the partial image is discarded.
func (pr *ParallelRaytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	startTime := time.Now()
	img := NewImage(pr.raytracer.Width(), pr.raytracer.Height())

	workerPool := NewWorkerPool(ctx, pr.raytracer, len(pr.tiles), pr.config.NumWorkers)
	workerPool.Start()

	pr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		img.Width, img.Height, len(pr.tiles), workerPool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		workerPool.SubmitTask(TileTask{
			Tile:   tile,
			TaskID: taskID,
			Image:  img,
		})
	}

	stats := RenderStats{}
	var renderErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = errors.New("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = fmt.Errorf("tile %d: %w", result.TaskID, result.Error)
			}
			continue
		}
		stats.Merge(result.Stats)
	}

	workerPool.Stop()

	if renderErr != nil {
		pr.logger.Printf("Render aborted: %v\n", renderErr)
		return nil, RenderStats{}, renderErr
	}

	stats.Elapsed = time.Since(startTime)
	pr.logger.Printf("Render completed in %v (%.1f samples/pixel)\n", stats.Elapsed, stats.AverageSamples())

	return img, stats, nil
}

// Render is the kernel entry point: it renders world through camera into a
// width x height image of RGB bytes (row-major, top row first) using all CPUs.
// The result is deterministic for a given set of inputs.
func Render(camera *Camera, world geometry.Shape, width, height, samplesPerPixel, maxDepth int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	config := SamplingConfig{SamplesPerPixel: samplesPerPixel, MaxDepth: maxDepth}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}

	raytracer := NewRaytracer(camera, world, width, height, config)
	img, _, err := NewParallelRaytracer(raytracer, DefaultParallelConfig(), nil).Render(context.Background())
	return img, err
}
