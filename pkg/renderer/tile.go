package renderer

import (
	"image"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Seed   int64           // Seed of the tile's private random source
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Seed:   baseSeed + int64(id),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image.
// Tile seeds depend only on baseSeed and tile position, so the rendered
// image does not depend on how tiles are distributed across workers.
func NewTileGrid(width, height, tileSize int, baseSeed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), baseSeed))
			tileID++
		}
	}

	return tiles
}
