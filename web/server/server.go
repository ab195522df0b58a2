package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/loaders"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// Request parameter limits
const (
	MinWidth      = 16
	MaxWidth      = 2000
	MaxSamples    = 10000
	MaxDepthLimit = 500
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	scenesDir string // Directory scanned for JSON scene files
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client.
// Zero values for Width, SamplesPerPixel and MaxDepth keep the scene defaults.
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID (e.g., "random" or "json:glass")
	Width           int    `json:"width"`           // Image width; height follows the scene aspect ratio
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int    `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            int64  `json:"seed"`            // Seed for sampling and random scenes
}

// Stats represents render statistics
type Stats struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRender renders a scene and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, stats, err := s.renderScene(r, sceneObj, req, nil)
	if err != nil {
		// Client went away or the render was aborted
		log.Printf("Render of %s failed: %v", req.Scene, err)
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.ElapsedMs, 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if err := output.WritePNG(w, img); err != nil {
		log.Printf("Error writing PNG: %v", err)
	}
}

// renderScene runs the tile-parallel renderer for sceneObj, stopping when the client disconnects
func (s *Server) renderScene(r *http.Request, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*renderer.Image, Stats, error) {
	config := renderer.DefaultParallelConfig()
	config.Seed = req.Seed

	pr := renderer.NewParallelRaytracer(sceneObj.Raytracer(), config, logger)
	img, renderStats, err := pr.Render(r.Context())
	if err != nil {
		return nil, Stats{}, err
	}

	return img, Stats{
		Width:          img.Width,
		Height:         img.Height,
		TotalPixels:    renderStats.TotalPixels,
		TotalSamples:   renderStats.TotalSamples,
		AverageSamples: renderStats.AverageSamples(),
		ElapsedMs:      renderStats.Elapsed.Milliseconds(),
	}, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinWidth, MaxWidth); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "samplesPerPixel", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, MaxDepthLimit); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", renderer.DefaultParallelConfig().Seed); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width > 800 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unrestricted 64-bit integer parameter from URL query
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene creates the requested scene with request overrides applied
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	var sceneObj *scene.Scene
	var err error

	if name, ok := strings.CutPrefix(req.Scene, "json:"); ok {
		// Scene IDs are bare names; never let them walk out of the scenes directory
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		sceneObj, err = loaders.LoadSceneJSON(filepath.Join(s.scenesDir, name+".json"))
	} else {
		sceneObj, err = scene.Create(req.Scene, req.Seed)
	}
	if err != nil {
		return nil, err
	}

	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.SamplesPerPixel > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	}
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}

	if err := sceneObj.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(&RenderRequest{Scene: sceneName, Seed: renderer.DefaultParallelConfig().Seed})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scene: "+sceneName)
		return
	}

	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sceneObj.Width,
			"height":          sceneObj.Height(),
			"samplesPerPixel": sceneObj.SamplingConfig.SamplesPerPixel,
			"maxDepth":        sceneObj.SamplingConfig.MaxDepth,
			"shapes":          sceneObj.World.Len(),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": MinWidth,
				"max": MaxWidth,
			},
			"samplesPerPixel": map[string]int{
				"min": 1,
				"max": MaxSamples,
			},
			"maxDepth": map[string]int{
				"min": 1,
				"max": MaxDepthLimit,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
