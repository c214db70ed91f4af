package rain

import "image/color"

// Surface is the externally owned 2D target the engine paints on.
// Coordinates are device pixels with the origin at the top-left.
type Surface interface {
	// Ready reports whether the surface is attached and can be drawn on.
	Ready() bool
	FillRect(x, y, w, h int, c color.Color)
	// DrawGlyph draws r with its cell's top-left corner at (x, y).
	DrawGlyph(x, y int, r rune, c color.Color)
}

// Flusher is implemented by surfaces that present a frame as a unit.
type Flusher interface {
	Flush()
}

// Dimensions of the surface in device pixels.
type Dimensions struct {
	Width, Height int
}

func (d Dimensions) Empty() bool { return d.Width <= 0 || d.Height <= 0 }

// ColumnCount is floor(width / cellSize).
func ColumnCount(width, cellSize int) int {
	if width <= 0 || cellSize <= 0 {
		return 0
	}
	return width / cellSize
}
