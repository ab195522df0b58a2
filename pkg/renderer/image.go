package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Image is a dense RGB raster stored row-major with the top row first.
// It implements image.Image so it can be handed directly to image encoders.
type Image struct {
	Width, Height int
	Pix           []uint8 // 3 bytes per pixel: R, G, B
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

// PixOffset returns the index of the first byte of pixel (x, y)
func (img *Image) PixOffset(x, y int) int {
	return 3 * (y*img.Width + x)
}

// SetRGB stores a pixel; y = 0 is the top row
func (img *Image) SetRGB(x, y int, rgb [3]uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = rgb[0], rgb[1], rgb[2]
}

// RGB returns the stored bytes for pixel (x, y)
func (img *Image) RGB(x, y int) [3]uint8 {
	i := img.PixOffset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

// ColorModel implements image.Image
func (img *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.Width, img.Height) }

// At implements image.Image
func (img *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return color.RGBA{}
	}
	rgb := img.RGB(x, y)
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// ColorToRGB converts a radiance sum over samples into display bytes.
// The sum is averaged, gamma corrected with gamma 2 (square root), clamped
// to [0, 0.999] and scaled to 256 levels so exactly 1.0 does not overflow.
func ColorToRGB(sum core.Vec3, samples int) [3]uint8 {
	scale := 1.0
	if samples > 0 {
		scale = 1.0 / float64(samples)
	}
	c := sum.Multiply(scale)
	return [3]uint8{quantize(c.X), quantize(c.Y), quantize(c.Z)}
}

func quantize(channel float64) uint8 {
	// Negative and NaN radiance carry no light
	if !(channel > 0) {
		return 0
	}
	return uint8(256 * core.Clamp(math.Sqrt(channel), 0.0, 0.999))
}
