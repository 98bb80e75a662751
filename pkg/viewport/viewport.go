// Package viewport maps between canvas and image pixel coordinates under
// an interactive zoom and pan transform.
package viewport

import "github.com/go-cellseg/cellseg/pkg/graphics"

// Zoom bounds applied by ZoomAt. Panning is unbounded.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// WheelFactor is the scale change applied per wheel step.
const WheelFactor = 1.1

// Transform holds the current view state: a uniform scale and the canvas
// position of the image origin. The zero value is not ready for use; call
// New or Reset.
type Transform struct {
	Scale  float64
	Offset graphics.Offset

	minScale float64
	maxScale float64
}

// New returns an identity transform with the default zoom bounds.
func New() *Transform {
	return NewWithBounds(MinScale, MaxScale)
}

// NewWithBounds returns an identity transform clamped to [minScale, maxScale].
func NewWithBounds(minScale, maxScale float64) *Transform {
	return &Transform{Scale: 1, minScale: minScale, maxScale: maxScale}
}

// Reset restores the identity transform, keeping the zoom bounds.
func (t *Transform) Reset() {
	t.Scale = 1
	t.Offset = graphics.Offset{}
}

// ToImage converts a canvas-space position to image space.
func (t *Transform) ToImage(canvas graphics.Offset) graphics.Offset {
	return graphics.Offset{
		X: (canvas.X - t.Offset.X) / t.Scale,
		Y: (canvas.Y - t.Offset.Y) / t.Scale,
	}
}

// ToCanvas converts an image-space position to canvas space.
func (t *Transform) ToCanvas(image graphics.Offset) graphics.Offset {
	return graphics.Offset{
		X: image.X*t.Scale + t.Offset.X,
		Y: image.Y*t.Scale + t.Offset.Y,
	}
}

// ZoomAt rescales by factor such that the image point under the canvas
// anchor stays under it. The resulting scale is clamped to the transform's
// bounds; at a bound the anchor constraint still holds for the clamped
// scale.
func (t *Transform) ZoomAt(anchor graphics.Offset, factor float64) {
	oldScale := t.Scale
	newScale := clamp(oldScale*factor, t.minScale, t.maxScale)
	if newScale == oldScale {
		return
	}
	ratio := newScale / oldScale
	t.Offset.X = anchor.X - (anchor.X-t.Offset.X)*ratio
	t.Offset.Y = anchor.Y - (anchor.Y-t.Offset.Y)*ratio
	t.Scale = newScale
}

// ZoomStep applies steps wheel increments of WheelFactor at the anchor.
// Negative steps zoom out.
func (t *Transform) ZoomStep(anchor graphics.Offset, steps int) {
	for ; steps > 0; steps-- {
		t.ZoomAt(anchor, WheelFactor)
	}
	for ; steps < 0; steps++ {
		t.ZoomAt(anchor, 1/WheelFactor)
	}
}

// PanBy translates the view by a canvas-space delta.
func (t *Transform) PanBy(delta graphics.Offset) {
	t.Offset = t.Offset.Add(delta)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
