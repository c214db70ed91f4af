package rain

import (
	"image/color"
	"log"
)

// Renderer paints one frame of rain and advances the columns.
type Renderer struct {
	CellSize int
	Glyphs   GlyphSource
	// Chance is drawn once per frame for each column past the bottom edge.
	Chance         Chance
	ResetThreshold float64
	Fade           color.Color
	Ink            color.Color
	Logger         *log.Logger
}

// RenderFrame washes the surface with the fade color, draws one glyph per
// column at its current row and then moves the column down, or back to the
// top once it is past the bottom edge and wins the reset draw. Columns are
// allowed to run past the bottom until the draw succeeds, which keeps
// restarts staggered.
//
// An unavailable or empty surface makes the call a no-op.
func (r *Renderer) RenderFrame(s Surface, dims Dimensions, store *Columns) {
	if s == nil || !s.Ready() || dims.Empty() || r.CellSize <= 0 {
		return
	}

	s.FillRect(0, 0, dims.Width, dims.Height, r.Fade)

	for i := 0; i < store.Len(); i++ {
		row, err := store.Get(i)
		if err != nil {
			r.logf("[Render] aborting frame: %v", err)
			return
		}
		s.DrawGlyph(i*r.CellSize, row*r.CellSize, r.Glyphs.Next(), r.Ink)

		next := row + 1
		if row*r.CellSize > dims.Height && r.Chance.Float64() > r.ResetThreshold {
			next = 0
		}
		if err := store.Set(i, next); err != nil {
			r.logf("[Render] aborting frame: %v", err)
			return
		}
	}

	if f, ok := s.(Flusher); ok {
		f.Flush()
	}
}

func (r *Renderer) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
