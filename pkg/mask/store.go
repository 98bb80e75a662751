package mask

import (
	stderrors "errors"

	"github.com/go-cellseg/cellseg/pkg/errors"
	"github.com/go-cellseg/cellseg/pkg/graphics"
)

// ErrEmptyRegion is returned by AddMask for a pixel set that covers no
// in-bounds pixels. The store allocates no identifier and pushes no undo
// entry for such a region.
var ErrEmptyRegion = stderrors.New("mask: region contains no pixels")

// Store owns one image's labeled mask array, allocates identifiers, and
// records undo snapshots around every mutation.
//
// Identifiers are unique and monotonically allocated: nextID only moves
// forward within an image session, so a deleted identifier is never
// reused. ReplaceAll recomputes nextID from the incoming array so that
// hand-drawn and externally loaded masks never collide.
type Store struct {
	grid    *Grid
	nextID  int32
	history *history
}

// NewStore returns a store over an all-background grid of the given
// dimensions with the given undo depth (DefaultUndoDepth if <= 0).
func NewStore(width, height, undoDepth int) *Store {
	return &Store{
		grid:    NewGrid(width, height),
		nextID:  1,
		history: newHistory(undoDepth),
	}
}

// Grid exposes the current labeled array. Callers treat it as read-only;
// all mutation goes through the store so undo stays consistent.
func (s *Store) Grid() *Grid { return s.grid }

// NextID returns the identifier the next AddMask will allocate.
func (s *Store) NextID() int32 { return s.nextID }

// Count returns the number of masks present.
func (s *Store) Count() int { return s.grid.CountMasks() }

// UndoDepth returns the number of undo entries currently held.
func (s *Store) UndoDepth() int { return s.history.len() }

// AddMask writes a new mask covering pixels and returns its identifier.
// Pixels outside the grid are discarded; later masks overwrite earlier
// ones at shared pixels (last write wins). Fails with ErrEmptyRegion when
// no in-bounds pixel remains, leaving the store untouched.
func (s *Store) AddMask(pixels []graphics.Point) (int32, error) {
	inBounds := 0
	for _, p := range pixels {
		if s.grid.Contains(p) {
			inBounds++
		}
	}
	if inBounds == 0 {
		return 0, errors.E("mask.AddMask", errors.KindEmptyRegion, ErrEmptyRegion)
	}

	s.pushSnapshot()
	id := s.nextID
	s.nextID++
	for _, p := range pixels {
		s.grid.Set(p, id)
	}
	return id, nil
}

// DeleteMaskAt removes the mask covering p. A background or out-of-bounds
// point is a no-op: ok is false and no undo entry is pushed. Otherwise
// every pixel of the mask is cleared and its identifier returned.
func (s *Store) DeleteMaskAt(p graphics.Point) (id int32, ok bool) {
	id = s.grid.At(p)
	if id == 0 {
		return 0, false
	}
	s.pushSnapshot()
	for i, v := range s.grid.data {
		if v == id {
			s.grid.data[i] = 0
		}
	}
	return id, true
}

// ReplaceAll swaps in a new labeled array, as when loading a mask file or
// restoring an undo snapshot. nextID becomes max(label)+1, or 1 for an
// empty array. No undo entry is pushed.
func (s *Store) ReplaceAll(g *Grid) {
	s.grid = g
	s.nextID = g.MaxLabel() + 1
}

// Undo restores the most recent snapshot. An empty undo stack is a silent
// no-op returning false.
func (s *Store) Undo() bool {
	snap, ok := s.history.pop()
	if !ok {
		return false
	}
	s.grid = snap.grid
	s.nextID = snap.nextID
	return true
}

// ClearHistory drops all undo entries. Undo never crosses images.
func (s *Store) ClearHistory() {
	s.history.clear()
}

func (s *Store) pushSnapshot() {
	s.history.push(snapshot{grid: s.grid.Clone(), nextID: s.nextID})
}
