package output

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// WritePPM writes img as a plain-text (P3) PPM, top row first, one pixel per line
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for i := 0; i+2 < len(img.Pix); i += 3 {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", img.Pix[i], img.Pix[i+1], img.Pix[i+2]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WritePNG writes img as an 8-bit PNG
func WritePNG(w io.Writer, img *renderer.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// Save writes img to filename, choosing PPM or PNG from the extension.
// Missing parent directories are created.
func Save(filename string, img *renderer.Image) error {
	var write func(io.Writer, *renderer.Image) error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ppm":
		write = WritePPM
	case ".png":
		write = WritePNG
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .ppm)", filepath.Ext(filename))
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(f, img); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return f.Close()
}
