package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/loaders"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType string
	Width     int
	Samples   int
	MaxDepth  int
	Workers   int
	TileSize  int
	Seed      int64
	Output    string
	Help      bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Built-in scene name or path to a .json scene file")
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&config.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "depth", 0, "Maximum ray bounce depth (0 = scene default)")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&config.TileSize, "tile", renderer.DefaultParallelConfig().TileSize, "Tile size in pixels")
	flag.Int64Var(&config.Seed, "seed", renderer.DefaultParallelConfig().Seed, "Random seed for sampling and random scenes")
	flag.StringVar(&config.Output, "output", "", "Output file (.png or .ppm); default output/<scene>/render_<timestamp>.png")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("Weekend Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltInScenes() {
		fmt.Printf("  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Println("  <file>.json    Scene description file")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pathtracer --scene=random --spp=20 --width=300")
	fmt.Println("  pathtracer --scene=scenes/glass.json --output=glass.ppm")
}

func run(config Config) error {
	fmt.Println("Starting Weekend Path Tracer...")

	sceneObj, err := createScene(config.SceneType, config.Seed)
	if err != nil {
		return err
	}
	applyOverrides(sceneObj, config)

	if err := sceneObj.Validate(); err != nil {
		return fmt.Errorf("invalid render settings: %w", err)
	}

	logger := renderer.NewDefaultLogger()
	logger.Printf("Scene %s: %d shapes, %dx%d, %d samples/pixel, max depth %d\n",
		sceneObj.Name, sceneObj.World.Len(), sceneObj.Width, sceneObj.Height(),
		sceneObj.SamplingConfig.SamplesPerPixel, sceneObj.SamplingConfig.MaxDepth)

	parallelConfig := renderer.ParallelConfig{
		TileSize:   config.TileSize,
		NumWorkers: config.Workers,
		Seed:       config.Seed,
	}
	pr := renderer.NewParallelRaytracer(sceneObj.Raytracer(), parallelConfig, logger)

	img, _, err := pr.Render(context.Background())
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	filename := config.Output
	if filename == "" {
		filename = defaultOutputPath(sceneObj.Name, time.Now())
	}
	if err := output.Save(filename, img); err != nil {
		return err
	}

	fmt.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in scene name or a JSON scene file path
func createScene(sceneType string, seed int64) (*scene.Scene, error) {
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		s, err := loaders.LoadSceneJSON(sceneType)
		if err != nil {
			return nil, fmt.Errorf("loading scene: %w", err)
		}
		return s, nil
	}
	return scene.Create(sceneType, seed)
}

// applyOverrides replaces scene defaults with any non-zero command line values
func applyOverrides(s *scene.Scene, config Config) {
	if config.Width > 0 {
		s.Width = config.Width
	}
	if config.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = config.Samples
	}
	if config.MaxDepth > 0 {
		s.SamplingConfig.MaxDepth = config.MaxDepth
	}
}

func defaultOutputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}
