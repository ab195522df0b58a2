package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"glass_bubble", "Glass Bubble"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "complete_metadata.json",
			content: `{"name": "Glass Row", "description": "Spheres of increasing index", "group": "Glass", "width": 200}`,
			expected: SceneInfo{
				ID:          "json:complete_metadata",
				Name:        "Glass Row",
				DisplayName: "Glass Row",
				Description: "Spheres of increasing index",
				Group:       "Glass",
				Type:        "json",
			},
		},
		{
			name:    "partial_metadata.json",
			content: `{"description": "Only a description"}`,
			expected: SceneInfo{
				ID:          "json:partial_metadata",
				Name:        "Partial Metadata", // From filename
				DisplayName: "Partial Metadata",
				Description: "Only a description",
				Group:       "Scene Files", // Default group
				Type:        "json",
			},
		},
		{
			name:    "no-metadata.json",
			content: `{"spheres": []}`,
			expected: SceneInfo{
				ID:          "json:no-metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "json",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_Errors(t *testing.T) {
	if _, err := ParseSceneMetadata(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeSceneFile(t, t.TempDir(), "broken.json", `{"name": `)
	info, err := ParseSceneMetadata(path)
	if err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if info.ID != "json:broken" || info.DisplayName != "Broken" {
		t.Errorf("Fallback metadata should still be populated, got %+v", info)
	}
}

func TestListFileScenes(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Missing directory should not be an error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", scenes)
	}

	dir := t.TempDir()
	writeSceneFile(t, dir, "b.json", `{"name": "Zebra"}`)
	writeSceneFile(t, dir, "a.json", `{"name": "Apple"}`)
	writeSceneFile(t, dir, "notes.txt", `not a scene`)

	scenes, err = ListFileScenes(dir)
	if err != nil {
		t.Fatalf("ListFileScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].DisplayName != "Apple" || scenes[1].DisplayName != "Zebra" {
		t.Errorf("Scenes should be sorted by display name, got %q, %q", scenes[0].DisplayName, scenes[1].DisplayName)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "custom.json", `{"name": "Custom", "group": "Experiments"}`)
	writeSceneFile(t, dir, "plain.json", `{}`)

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	expectedGroups := []string{"Built-in Scenes", "Experiments", "Scene Files"}
	if len(response.Groups) != len(expectedGroups) {
		t.Fatalf("Expected %d groups, got %d", len(expectedGroups), len(response.Groups))
	}
	for i, name := range expectedGroups {
		if response.Groups[i].Name != name {
			t.Errorf("Group %d = %q, want %q", i, response.Groups[i].Name, name)
		}
	}

	builtIn := response.Groups[0].Scenes
	if len(builtIn) != len(Names()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtIn), len(Names()))
	}

	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.ID == "" || info.DisplayName == "" {
				t.Errorf("Scene missing ID or display name: %+v", info)
			}
			switch info.Type {
			case "builtin":
				if info.FilePath != "" {
					t.Errorf("Built-in scene %s should not have a file path", info.ID)
				}
			case "json":
				if info.FilePath == "" || !strings.HasPrefix(info.ID, "json:") {
					t.Errorf("File scene malformed: %+v", info)
				}
			default:
				t.Errorf("Invalid scene type: %s", info.Type)
			}
		}
	}
}
