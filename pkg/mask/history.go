package mask

// DefaultUndoDepth bounds the undo stack when no depth is configured.
const DefaultUndoDepth = 50

// snapshot is a full copy of the labeled array plus the identifier counter,
// taken immediately before a mutating operation.
type snapshot struct {
	grid   *Grid
	nextID int32
}

// history is a bounded stack of snapshots. Oldest entries are dropped once
// the bound is exceeded; there is no redo.
type history struct {
	entries []snapshot
	depth   int
}

func newHistory(depth int) *history {
	if depth <= 0 {
		depth = DefaultUndoDepth
	}
	return &history{depth: depth}
}

func (h *history) push(s snapshot) {
	h.entries = append(h.entries, s)
	if len(h.entries) > h.depth {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
}

// pop removes and returns the most recent snapshot. ok is false when the
// stack is empty.
func (h *history) pop() (snapshot, bool) {
	if len(h.entries) == 0 {
		return snapshot{}, false
	}
	s := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return s, true
}

func (h *history) clear() {
	h.entries = nil
}

func (h *history) len() int {
	return len(h.entries)
}
