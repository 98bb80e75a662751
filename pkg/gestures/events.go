// Package gestures interprets the raw pointer event stream as draw,
// delete, pan and zoom intents.
package gestures

import "github.com/go-cellseg/cellseg/pkg/graphics"

// PointerPhase describes what the pointer did.
type PointerPhase int

const (
	// PointerPhaseDown is a button press.
	PointerPhaseDown PointerPhase = iota
	// PointerPhaseMove is motion, with or without the button held.
	PointerPhaseMove
	// PointerPhaseUp is the release of all buttons.
	PointerPhaseUp
)

// Modifiers is the modifier-key bitmask carried on pointer events.
type Modifiers uint8

const (
	// ModDelete marks the delete modifier (Cmd/Ctrl).
	ModDelete Modifiers = 1 << iota
	// ModZoom marks the zoom modifier.
	ModZoom
	// ModPan marks the pan key (space).
	ModPan
)

// Has reports whether all bits in m are set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// PointerEvent is one raw pointer event in canvas-pixel coordinates.
type PointerEvent struct {
	Phase     PointerPhase
	Position  graphics.Offset
	Modifiers Modifiers
}

// WheelEvent is a scroll event anchored at a canvas position. Steps is
// positive for zooming in.
type WheelEvent struct {
	Anchor graphics.Offset
	Steps  int
}
