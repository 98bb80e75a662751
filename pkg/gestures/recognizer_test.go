package gestures

import (
	"math"
	"testing"

	"github.com/go-cellseg/cellseg/pkg/graphics"
	"github.com/go-cellseg/cellseg/pkg/viewport"
)

// intentLog records every intent the recognizer emits.
type intentLog struct {
	polygons [][]graphics.Offset
	deletes  []graphics.Offset
	pans     []graphics.Offset
	zooms    []struct {
		anchor graphics.Offset
		factor float64
	}
}

func (l *intentLog) PolygonComplete(points []graphics.Offset) {
	l.polygons = append(l.polygons, points)
}
func (l *intentLog) DeleteAt(p graphics.Offset) { l.deletes = append(l.deletes, p) }
func (l *intentLog) Pan(delta graphics.Offset)  { l.pans = append(l.pans, delta) }
func (l *intentLog) Zoom(anchor graphics.Offset, factor float64) {
	l.zooms = append(l.zooms, struct {
		anchor graphics.Offset
		factor float64
	}{anchor, factor})
}

func newTestRecognizer(cfg Config) (*Recognizer, *intentLog) {
	log := &intentLog{}
	return NewRecognizer(log, viewport.New(), cfg), log
}

func down(x, y float64, mods Modifiers) PointerEvent {
	return PointerEvent{Phase: PointerPhaseDown, Position: graphics.Offset{X: x, Y: y}, Modifiers: mods}
}
func move(x, y float64, mods Modifiers) PointerEvent {
	return PointerEvent{Phase: PointerPhaseMove, Position: graphics.Offset{X: x, Y: y}, Modifiers: mods}
}
func up(x, y float64, mods Modifiers) PointerEvent {
	return PointerEvent{Phase: PointerPhaseUp, Position: graphics.Offset{X: x, Y: y}, Modifiers: mods}
}

func TestDrawGesture(t *testing.T) {
	r, log := newTestRecognizer(Config{})

	r.HandlePointer(down(10, 10, 0))
	if r.State() != Drawing || !r.Active() {
		t.Fatalf("state = %v after plain down, want drawing", r.State())
	}
	r.HandlePointer(move(20, 10, 0))
	r.HandlePointer(move(20, 20, 0))
	r.HandlePointer(up(10, 20, 0))

	if r.State() != Idle {
		t.Fatalf("state = %v after up, want idle", r.State())
	}
	if len(log.polygons) != 1 {
		t.Fatalf("polygons emitted = %d, want 1", len(log.polygons))
	}
	poly := log.polygons[0]
	if poly[0] != poly[len(poly)-1] {
		t.Error("emitted polygon is not closed")
	}
	if len(poly) != 5 { // 4 corners + closing point
		t.Errorf("polygon has %d points, want 5", len(poly))
	}
	if len(r.CurrentPolygon()) != 0 {
		t.Error("in-progress polygon not discarded after completion")
	}
}

func TestDrawSkipsNearbyVertices(t *testing.T) {
	r, log := newTestRecognizer(Config{MinVertexSpacing: 2})

	r.HandlePointer(down(10, 10, 0))
	r.HandlePointer(move(11, 10, 0)) // within spacing, dropped
	r.HandlePointer(move(11.5, 10.5, 0))
	if got := len(r.CurrentPolygon()); got != 1 {
		t.Fatalf("polygon length = %d, want 1 (near moves dropped)", got)
	}
	r.HandlePointer(move(20, 10, 0))
	r.HandlePointer(move(20, 20, 0))
	r.HandlePointer(up(20, 20, 0))
	if len(log.polygons) != 1 {
		t.Fatalf("polygon not emitted")
	}
}

func TestDrawTooFewPointsEmitsNothing(t *testing.T) {
	r, log := newTestRecognizer(Config{})
	r.HandlePointer(down(10, 10, 0))
	r.HandlePointer(up(30, 10, 0)) // only two distinct vertices
	if len(log.polygons) != 0 {
		t.Errorf("degenerate gesture emitted a polygon")
	}
	if r.State() != Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
}

func TestDeleteClick(t *testing.T) {
	r, log := newTestRecognizer(Config{ClickThreshold: 5})

	r.HandlePointer(down(40, 40, ModDelete))
	if r.State() != PendingModifierClick {
		t.Fatalf("state = %v, want pending-modifier-click", r.State())
	}
	// Jitter under the threshold.
	r.HandlePointer(move(41, 40, ModDelete))
	r.HandlePointer(move(41, 41, ModDelete))
	r.HandlePointer(up(41, 41, ModDelete))

	if len(log.deletes) != 1 {
		t.Fatalf("deletes = %d, want 1", len(log.deletes))
	}
	if p := log.deletes[0]; p.X != 41 || p.Y != 41 {
		t.Errorf("delete at %v, want (41, 41)", p)
	}
	if len(log.polygons) != 0 || len(log.pans) != 0 || len(log.zooms) != 0 {
		t.Error("delete click leaked other intents")
	}
}

func TestDeleteDragBecomesZoom(t *testing.T) {
	r, log := newTestRecognizer(Config{ClickThreshold: 5})

	r.HandlePointer(down(40, 40, ModDelete))
	r.HandlePointer(move(40, 50, ModDelete)) // 10px vertical: threshold crossed
	if r.State() != ZoomDragging {
		t.Fatalf("state = %v, want zoom-dragging", r.State())
	}
	r.HandlePointer(move(40, 60, ModDelete))
	r.HandlePointer(up(40, 60, ModDelete))

	if len(log.deletes) != 0 {
		t.Error("drag past the threshold still deleted")
	}
	if len(log.zooms) == 0 {
		t.Error("zoom drag emitted no zoom intents")
	}
	if r.State() != Idle {
		t.Errorf("state = %v after up, want idle", r.State())
	}
}

func TestDeleteDragBecomesPanWhenHorizontal(t *testing.T) {
	r, log := newTestRecognizer(Config{ClickThreshold: 5})

	r.HandlePointer(down(40, 40, ModDelete))
	r.HandlePointer(move(52, 41, ModDelete))
	if r.State() != PanDragging {
		t.Fatalf("state = %v, want pan-dragging", r.State())
	}
	r.HandlePointer(move(60, 41, ModDelete))
	r.HandlePointer(up(60, 41, ModDelete))

	if len(log.deletes) != 0 {
		t.Error("horizontal modifier drag still deleted")
	}
	if len(log.pans) == 0 {
		t.Error("pan drag emitted no pan intents")
	}
}

func TestZoomDragFactor(t *testing.T) {
	r, log := newTestRecognizer(Config{ClickThreshold: 5, DragZoomRate: 1.01})

	r.HandlePointer(down(100, 100, ModZoom))
	r.HandlePointer(move(100, 110, ModZoom)) // crosses threshold, downward
	r.HandlePointer(move(100, 120, ModZoom))
	r.HandlePointer(up(100, 120, ModZoom))

	if len(log.zooms) == 0 {
		t.Fatal("no zoom intents")
	}
	// Downward drag zooms out: factors below 1, anchored at the down point.
	for _, z := range log.zooms {
		if z.factor >= 1 {
			t.Errorf("factor = %v, want < 1 for downward drag", z.factor)
		}
		if z.anchor != (graphics.Offset{X: 100, Y: 100}) {
			t.Errorf("anchor = %v, want the down position", z.anchor)
		}
	}
	if len(log.deletes) != 0 {
		t.Error("stationary zoom modifier should never delete")
	}
}

func TestZoomModifierClickDoesNothing(t *testing.T) {
	r, log := newTestRecognizer(Config{})
	r.HandlePointer(down(10, 10, ModZoom))
	r.HandlePointer(up(10, 10, ModZoom))
	if len(log.deletes)+len(log.zooms)+len(log.pans)+len(log.polygons) != 0 {
		t.Error("stationary zoom-modifier click emitted an intent")
	}
}

func TestPanKeyDrag(t *testing.T) {
	r, log := newTestRecognizer(Config{})

	r.HandlePointer(down(10, 10, ModPan))
	if r.State() != PanDragging {
		t.Fatalf("state = %v, want pan-dragging", r.State())
	}
	r.HandlePointer(move(15, 12, ModPan))
	r.HandlePointer(move(18, 20, ModPan))
	r.HandlePointer(up(18, 20, ModPan))

	if len(log.pans) != 2 {
		t.Fatalf("pans = %d, want 2", len(log.pans))
	}
	if log.pans[0] != (graphics.Offset{X: 5, Y: 2}) {
		t.Errorf("first pan delta = %v, want (5, 2)", log.pans[0])
	}
	if log.pans[1] != (graphics.Offset{X: 3, Y: 8}) {
		t.Errorf("second pan delta = %v, want (3, 8)", log.pans[1])
	}
}

func TestWheelZoom(t *testing.T) {
	r, log := newTestRecognizer(Config{WheelFactor: 1.1})

	r.HandleWheel(WheelEvent{Anchor: graphics.Offset{X: 7, Y: 9}, Steps: 1})
	r.HandleWheel(WheelEvent{Anchor: graphics.Offset{X: 7, Y: 9}, Steps: -2})
	r.HandleWheel(WheelEvent{Steps: 0}) // ignored

	if len(log.zooms) != 2 {
		t.Fatalf("zooms = %d, want 2", len(log.zooms))
	}
	if !graphics.FloatEqual(log.zooms[0].factor, 1.1) {
		t.Errorf("factor = %v, want 1.1", log.zooms[0].factor)
	}
	if !graphics.FloatEqual(log.zooms[1].factor, 1/(1.1*1.1)) {
		t.Errorf("factor = %v, want %v", log.zooms[1].factor, 1/(1.1*1.1))
	}
}

func TestWheelZoomsDuringDrawing(t *testing.T) {
	// Wheel events are handled independently of button state.
	r, log := newTestRecognizer(Config{})
	r.HandlePointer(down(10, 10, 0))
	r.HandleWheel(WheelEvent{Anchor: graphics.Offset{X: 1, Y: 1}, Steps: 1})
	if len(log.zooms) != 1 {
		t.Error("wheel ignored during a draw gesture")
	}
	if r.State() != Drawing {
		t.Errorf("wheel changed gesture state to %v", r.State())
	}
}

func TestMalformedCoordinatesRejected(t *testing.T) {
	r, log := newTestRecognizer(Config{})

	nan := math.NaN()
	r.HandlePointer(PointerEvent{Phase: PointerPhaseDown, Position: graphics.Offset{X: nan, Y: 10}})
	if r.State() != Idle {
		t.Fatal("NaN down started a gesture")
	}
	r.HandleWheel(WheelEvent{Anchor: graphics.Offset{X: math.Inf(1), Y: 0}, Steps: 1})
	if len(log.zooms) != 0 {
		t.Error("non-finite wheel anchor emitted a zoom")
	}

	// A NaN move mid-gesture is dropped without corrupting the polygon.
	r.HandlePointer(down(10, 10, 0))
	r.HandlePointer(PointerEvent{Phase: PointerPhaseMove, Position: graphics.Offset{X: nan, Y: nan}})
	if got := len(r.CurrentPolygon()); got != 1 {
		t.Errorf("polygon length = %d after NaN move, want 1", got)
	}
}

func TestDownWhileActiveIgnored(t *testing.T) {
	r, _ := newTestRecognizer(Config{})
	r.HandlePointer(down(10, 10, 0))
	r.HandlePointer(down(50, 50, ModDelete)) // ignored: gesture in progress
	if r.State() != Drawing {
		t.Errorf("state = %v, want drawing", r.State())
	}
}
