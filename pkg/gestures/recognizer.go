package gestures

import (
	"math"

	"github.com/go-cellseg/cellseg/pkg/graphics"
)

// State identifies the recognizer's position in the gesture state machine.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Drawing accumulates polygon vertices while the button is held.
	Drawing
	// PanDragging translates the view with each move.
	PanDragging
	// ZoomDragging maps vertical motion to zoom factor changes.
	ZoomDragging
	// PendingModifierClick is the ambiguous window after a modifier
	// button-down, before motion distinguishes a delete click from a drag.
	PendingModifierClick
)

func (s State) String() string {
	switch s {
	case Drawing:
		return "drawing"
	case PanDragging:
		return "pan-dragging"
	case ZoomDragging:
		return "zoom-dragging"
	case PendingModifierClick:
		return "pending-modifier-click"
	default:
		return "idle"
	}
}

// Handler receives the intents the recognizer resolves from raw events.
type Handler interface {
	// PolygonComplete delivers a closed image-space loop of at least
	// three distinct vertices (first == last).
	PolygonComplete(points []graphics.Offset)
	// DeleteAt requests mask deletion at an image-space position.
	DeleteAt(p graphics.Offset)
	// Pan requests a view translation by a canvas-space delta.
	Pan(delta graphics.Offset)
	// Zoom requests a zoom by factor at a canvas-space anchor.
	Zoom(anchor graphics.Offset, factor float64)
}

// CoordinateMapper converts canvas positions to image space. Satisfied by
// *viewport.Transform.
type CoordinateMapper interface {
	ToImage(canvas graphics.Offset) graphics.Offset
}

// Config tunes the recognizer thresholds.
type Config struct {
	// MinVertexSpacing is the minimum image-space distance between
	// consecutive polygon vertices. Default 2.
	MinVertexSpacing float64
	// ClickThreshold is the cumulative canvas-space displacement under
	// which a modifier gesture still counts as a delete click. Default 5.
	ClickThreshold float64
	// DragZoomRate is the zoom factor per vertical canvas pixel of a zoom
	// drag. Default 1.01.
	DragZoomRate float64
	// WheelFactor is the zoom factor per wheel step. Default 1.1.
	WheelFactor float64
}

func (c Config) withDefaults() Config {
	if c.MinVertexSpacing <= 0 {
		c.MinVertexSpacing = 2
	}
	if c.ClickThreshold <= 0 {
		c.ClickThreshold = 5
	}
	if c.DragZoomRate <= 1 {
		c.DragZoomRate = 1.01
	}
	if c.WheelFactor <= 1 {
		c.WheelFactor = 1.1
	}
	return c
}

// Recognizer is the drawing state machine. It consumes raw pointer and
// wheel events and emits intents to its Handler. All methods run on the
// single event goroutine.
type Recognizer struct {
	handler Handler
	mapper  CoordinateMapper
	cfg     Config

	state         State
	polygon       []graphics.Offset // image space, live during Drawing
	downPos       graphics.Offset   // canvas position of the initial button-down
	lastPos       graphics.Offset   // canvas position of the previous event
	moved         float64           // cumulative canvas displacement since down
	pendingDelete bool              // the pending click began with ModDelete
}

// NewRecognizer wires a recognizer to its intent handler and coordinate
// mapper. Zero-valued Config fields use the defaults.
func NewRecognizer(handler Handler, mapper CoordinateMapper, cfg Config) *Recognizer {
	return &Recognizer{handler: handler, mapper: mapper, cfg: cfg.withDefaults()}
}

// State returns the current machine state.
func (r *Recognizer) State() State { return r.state }

// Active reports whether a gesture is in progress. The engine refuses an
// image switch while a gesture is active.
func (r *Recognizer) Active() bool { return r.state != Idle }

// CurrentPolygon exposes the in-progress polygon for live preview. The
// returned slice is only valid until the next event.
func (r *Recognizer) CurrentPolygon() []graphics.Offset { return r.polygon }

// HandlePointer advances the state machine by one pointer event.
// Events with non-finite coordinates are dropped at this boundary.
func (r *Recognizer) HandlePointer(ev PointerEvent) {
	if !ev.Position.IsFinite() {
		return
	}
	switch ev.Phase {
	case PointerPhaseDown:
		r.handleDown(ev)
	case PointerPhaseMove:
		r.handleMove(ev)
	case PointerPhaseUp:
		r.handleUp(ev)
	}
}

// HandleWheel zooms at the wheel anchor, independent of button state.
func (r *Recognizer) HandleWheel(ev WheelEvent) {
	if !ev.Anchor.IsFinite() || ev.Steps == 0 {
		return
	}
	r.handler.Zoom(ev.Anchor, math.Pow(r.cfg.WheelFactor, float64(ev.Steps)))
}

func (r *Recognizer) handleDown(ev PointerEvent) {
	if r.state != Idle {
		return
	}
	r.downPos = ev.Position
	r.lastPos = ev.Position
	r.moved = 0

	switch {
	case ev.Modifiers.Has(ModDelete):
		r.state = PendingModifierClick
		r.pendingDelete = true
	case ev.Modifiers.Has(ModPan):
		r.state = PanDragging
	case ev.Modifiers.Has(ModZoom):
		// Direction-resolved on the first significant move.
		r.state = PendingModifierClick
		r.pendingDelete = false
	default:
		r.state = Drawing
		r.polygon = append(r.polygon[:0], r.mapper.ToImage(ev.Position))
	}
}

func (r *Recognizer) handleMove(ev PointerEvent) {
	switch r.state {
	case Drawing:
		p := r.mapper.ToImage(ev.Position)
		if last := r.polygon[len(r.polygon)-1]; p.Distance(last) > r.cfg.MinVertexSpacing {
			r.polygon = append(r.polygon, p)
		}
	case PendingModifierClick:
		r.moved += ev.Position.Distance(r.lastPos)
		r.lastPos = ev.Position
		if r.moved <= r.cfg.ClickThreshold {
			return
		}
		// The gesture moved too far to be a click; it is a drag for the
		// remainder. Dominant axis of the total displacement picks zoom
		// (vertical) or pan (horizontal).
		total := ev.Position.Sub(r.downPos)
		if math.Abs(total.Y) >= math.Abs(total.X) {
			r.state = ZoomDragging
		} else {
			r.state = PanDragging
		}
	case PanDragging:
		r.handler.Pan(ev.Position.Sub(r.lastPos))
		r.lastPos = ev.Position
	case ZoomDragging:
		dy := ev.Position.Y - r.lastPos.Y
		r.lastPos = ev.Position
		if dy != 0 {
			r.handler.Zoom(r.downPos, math.Pow(r.cfg.DragZoomRate, -dy))
		}
	}
}

func (r *Recognizer) handleUp(ev PointerEvent) {
	state := r.state
	r.state = Idle

	switch state {
	case Drawing:
		r.completePolygon(ev)
	case PendingModifierClick:
		// Still under the motion threshold: a delete-modifier gesture is
		// a delete click; a stationary zoom-modifier click does nothing.
		if r.pendingDelete {
			r.handler.DeleteAt(r.mapper.ToImage(ev.Position))
		}
	}
	r.polygon = r.polygon[:0]
}

// completePolygon closes the loop and emits it when it has enough
// distinct vertices to enclose anything.
func (r *Recognizer) completePolygon(ev PointerEvent) {
	p := r.mapper.ToImage(ev.Position)
	if last := r.polygon[len(r.polygon)-1]; p.Distance(last) > r.cfg.MinVertexSpacing {
		r.polygon = append(r.polygon, p)
	}
	if len(r.polygon) < 3 {
		return
	}
	if r.polygon[0] != r.polygon[len(r.polygon)-1] {
		r.polygon = append(r.polygon, r.polygon[0])
	}
	points := make([]graphics.Offset, len(r.polygon))
	copy(points, r.polygon)
	r.handler.PolygonComplete(points)
}
