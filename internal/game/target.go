package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
)

// imageTarget replays recorded ops onto an ebiten image.
type imageTarget struct {
	dst  *ebiten.Image
	face text.Face
}

func (t *imageTarget) FillRect(x, y, w, h int, c color.NRGBA) {
	vector.DrawFilledRect(t.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (t *imageTarget) DrawGlyph(x, y int, r rune, c color.NRGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(t.dst, string(r), t.face, op)
}

// NewFace loads the embedded Go Mono font at the given pixel size.
func NewFace(size int) (text.Face, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load mono font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: float64(size)}, nil
}
