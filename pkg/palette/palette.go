// Package palette assigns deterministic display colors to mask identifiers
// and builds the colored overlay a renderer blends over the image.
package palette

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/go-cellseg/cellseg/pkg/graphics"
	"github.com/go-cellseg/cellseg/pkg/mask"
)

// hueStep spreads consecutive identifiers around the hue wheel. The wheel
// has 180 positions of 2 degrees each, kept from the legacy palette so
// colors match masks saved by older tooling.
const (
	hueStep  = 137
	hueWheel = 180
)

// ColorFor returns the display color for a mask identifier. It is a pure
// function of the identifier, so colors are stable across sessions without
// a lookup table.
func ColorFor(id int32) graphics.Color {
	hue := (int(id) * hueStep) % hueWheel
	if hue < 0 {
		hue += hueWheel
	}
	return graphics.HSV(float64(hue)*2, 1, 1)
}

// Overlay renders the grid's masks as an RGBA image: each mask in its
// assigned color at full opacity, background fully transparent.
func Overlay(g *mask.Grid) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	colors := make(map[int32]graphics.Color)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			id := g.At(graphics.Point{X: x, Y: y})
			if id == 0 {
				continue
			}
			c, ok := colors[id]
			if !ok {
				c = ColorFor(id)
				colors[id] = c
			}
			out.SetRGBA(x, y, color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 0xFF})
		}
	}
	return out
}

// Composite blends the grid's overlay onto dst at the given alpha in
// [0, 1]. dst and the grid share dimensions; mismatched sizes blend over
// the intersection.
func Composite(dst *image.RGBA, g *mask.Grid, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	overlay := Overlay(g)
	// image.RGBA is alpha-premultiplied: scaling the alpha means scaling
	// every channel, or Over's arithmetic overflows.
	a := uint32(alpha*255 + 0.5)
	bounds := overlay.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := overlay.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				overlay.Pix[i+c] = uint8(uint32(overlay.Pix[i+c]) * a / 255)
			}
		}
	}
	xdraw.Draw(dst, dst.Bounds(), overlay, bounds.Min, xdraw.Over)
}
