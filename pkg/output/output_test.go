package output

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

func createTestImage() *renderer.Image {
	img := renderer.NewImage(2, 2)
	img.SetRGB(0, 0, [3]uint8{255, 0, 0})
	img.SetRGB(1, 0, [3]uint8{0, 255, 0})
	img.SetRGB(0, 1, [3]uint8{0, 0, 255})
	img.SetRGB(1, 1, [3]uint8{10, 20, 30})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPM() error: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n10 20 30\n"
	if buf.String() != expected {
		t.Errorf("WritePPM() =\n%q\nwant\n%q", buf.String(), expected)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePNG() error: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if decoded.Bounds().Dx() != 2 || decoded.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected bounds %v", decoded.Bounds())
	}

	// Top-left stays top-left
	tests := []struct {
		x, y     int
		expected color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{1, 0, color.RGBA{0, 255, 0, 255}},
		{0, 1, color.RGBA{0, 0, 255, 255}},
		{1, 1, color.RGBA{10, 20, 30, 255}},
	}
	for _, tt := range tests {
		got := color.RGBAModel.Convert(decoded.At(tt.x, tt.y)).(color.RGBA)
		if got != tt.expected {
			t.Errorf("Pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := createTestImage()

	t.Run("ppm", func(t *testing.T) {
		path := filepath.Join(dir, "out.ppm")
		if err := Save(path, img); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if !strings.HasPrefix(string(data), "P3\n2 2\n255\n") {
			t.Errorf("Unexpected PPM header in %q", data)
		}
	})

	t.Run("png in new directory", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "render", "out.PNG")
		if err := Save(path, img); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		defer f.Close()
		if _, err := png.Decode(f); err != nil {
			t.Errorf("Saved file is not a PNG: %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "out.jpg")
		if err := Save(path, img); err == nil {
			t.Error("Expected error for .jpg")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("No file should be created for an unsupported format")
		}
	})
}
