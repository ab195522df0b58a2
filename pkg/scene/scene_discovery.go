package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier, accepted by Create or the JSON loader
	Name        string `json:"name"`               // Scene name
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "json"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

type builtInScene struct {
	info   SceneInfo
	create func(seed int64) *Scene
}

var builtInScenes = []builtInScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, glass and metal spheres on a ground sphere",
		},
		create: func(int64) *Scene { return NewDefaultScene() },
	},
	{
		info: SceneInfo{
			ID:          "random",
			Name:        "Random Spheres",
			Description: "Field of small random spheres around three large ones",
		},
		create: func(seed int64) *Scene { return NewRandomScene(seed, false) },
	},
	{
		info: SceneInfo{
			ID:          "random-moving",
			Name:        "Random Spheres (Motion Blur)",
			Description: "Random spheres with diffuse spheres moving during the exposure",
		},
		create: func(seed int64) *Scene { return NewRandomScene(seed, true) },
	},
	{
		info: SceneInfo{
			ID:          "materials",
			Name:        "Material Showcase",
			Description: "One sphere per material variant",
		},
		create: func(int64) *Scene { return NewMaterialsScene() },
	},
}

// Names returns the identifiers of all built-in scenes in registration order
func Names() []string {
	names := make([]string, 0, len(builtInScenes))
	for _, s := range builtInScenes {
		names = append(names, s.info.ID)
	}
	return names
}

// Create builds the named built-in scene. Seed only affects randomly generated scenes.
func Create(name string, seed int64) (*Scene, error) {
	for _, s := range builtInScenes {
		if s.info.ID == name {
			return s.create(seed), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
}

// ListBuiltInScenes returns metadata for the built-in scenes
func ListBuiltInScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtInScenes))
	for _, s := range builtInScenes {
		info := s.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		infos = append(infos, info)
	}
	return infos
}

// ListFileScenes scans dir for *.json scene descriptions.
// A missing directory yields an empty list.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group fields of a JSON scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Fallback values come from the filename
	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, err
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Description = meta.Description
	sceneInfo.DisplayName = sceneInfo.Name

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(ListBuiltInScenes(), fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
