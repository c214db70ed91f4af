package game

import "image/color"

// opaque drops the alpha of c so the offscreen image starts fully covered.
func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}
