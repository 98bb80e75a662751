package viewport

import (
	"testing"

	"github.com/go-cellseg/cellseg/pkg/graphics"
)

func TestRoundTrip(t *testing.T) {
	states := []struct {
		name   string
		scale  float64
		offset graphics.Offset
	}{
		{"identity", 1, graphics.Offset{}},
		{"zoomed in", 4.2, graphics.Offset{X: 100, Y: -35}},
		{"zoomed out", 0.3, graphics.Offset{X: -500.5, Y: 999}},
	}
	points := []graphics.Offset{
		{X: 0, Y: 0},
		{X: 12.5, Y: 73.25},
		{X: -40, Y: 1000},
	}
	for _, st := range states {
		t.Run(st.name, func(t *testing.T) {
			tr := New()
			tr.Scale = st.scale
			tr.Offset = st.offset
			for _, p := range points {
				back := tr.ToImage(tr.ToCanvas(p))
				if !graphics.FloatEqual(back.X, p.X) || !graphics.FloatEqual(back.Y, p.Y) {
					t.Errorf("ToImage(ToCanvas(%v)) = %v", p, back)
				}
			}
		})
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := New()
	tr.Offset = graphics.Offset{X: 30, Y: -12}
	anchor := graphics.Offset{X: 200, Y: 150}

	before := tr.ToImage(anchor)
	tr.ZoomAt(anchor, 1.5)
	after := tr.ToImage(anchor)

	if !graphics.FloatEqual(before.X, after.X) || !graphics.FloatEqual(before.Y, after.Y) {
		t.Errorf("image point under anchor moved: %v -> %v", before, after)
	}
	if !graphics.FloatEqual(tr.Scale, 1.5) {
		t.Errorf("Scale = %v, want 1.5", tr.Scale)
	}
}

func TestZoomClamped(t *testing.T) {
	tr := New()
	anchor := graphics.Offset{X: 50, Y: 50}

	tr.ZoomAt(anchor, 1000)
	if tr.Scale != MaxScale {
		t.Errorf("Scale = %v, want clamp at %v", tr.Scale, MaxScale)
	}
	tr.ZoomAt(anchor, 1e-6)
	if tr.Scale != MinScale {
		t.Errorf("Scale = %v, want clamp at %v", tr.Scale, MinScale)
	}
}

func TestZoomStep(t *testing.T) {
	tr := New()
	anchor := graphics.Offset{X: 0, Y: 0}

	tr.ZoomStep(anchor, 2)
	if want := WheelFactor * WheelFactor; !graphics.FloatEqual(tr.Scale, want) {
		t.Errorf("Scale after 2 steps = %v, want %v", tr.Scale, want)
	}
	tr.ZoomStep(anchor, -2)
	if !graphics.FloatEqual(tr.Scale, 1) {
		t.Errorf("Scale after reverting = %v, want 1", tr.Scale)
	}
}

func TestPanByUnbounded(t *testing.T) {
	tr := New()
	tr.PanBy(graphics.Offset{X: 1e6, Y: -1e6})
	tr.PanBy(graphics.Offset{X: 5, Y: 5})
	want := graphics.Offset{X: 1e6 + 5, Y: -1e6 + 5}
	if tr.Offset != want {
		t.Errorf("Offset = %v, want %v", tr.Offset, want)
	}
}

func TestReset(t *testing.T) {
	tr := NewWithBounds(0.5, 2)
	tr.ZoomAt(graphics.Offset{X: 10, Y: 10}, 1.8)
	tr.PanBy(graphics.Offset{X: 40, Y: 40})
	tr.Reset()
	if tr.Scale != 1 || tr.Offset != (graphics.Offset{}) {
		t.Errorf("Reset left scale=%v offset=%v", tr.Scale, tr.Offset)
	}
	// Bounds survive the reset.
	tr.ZoomAt(graphics.Offset{}, 100)
	if tr.Scale != 2 {
		t.Errorf("Scale = %v, want custom max 2", tr.Scale)
	}
}
