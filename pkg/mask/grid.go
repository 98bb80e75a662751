// Package mask holds the labeled mask array, identifier allocation, and
// the bounded undo history over both.
package mask

import "github.com/go-cellseg/cellseg/pkg/graphics"

// Grid is a 2-D array of mask labels, one int32 per image pixel, stored
// row-major. Label 0 is background; every other value identifies one mask.
type Grid struct {
	width  int
	height int
	data   []int32
}

// NewGrid returns an all-background grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{width: width, height: height, data: make([]int32, width*height)}
}

// GridFromRows builds a grid from row slices. Returns nil if rows are
// ragged or empty.
func GridFromRows(rows [][]int32) *Grid {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil
		}
		copy(g.data[y*width:], row)
	}
	return g
}

// Width returns the grid width in pixels.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in pixels.
func (g *Grid) Height() int { return g.height }

// Contains reports whether the point lies inside the grid.
func (g *Grid) Contains(p graphics.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the label at p, or 0 for out-of-bounds points.
func (g *Grid) At(p graphics.Point) int32 {
	if !g.Contains(p) {
		return 0
	}
	return g.data[p.Y*g.width+p.X]
}

// Set writes a label at p. Out-of-bounds points are ignored.
func (g *Grid) Set(p graphics.Point, label int32) {
	if !g.Contains(p) {
		return
	}
	g.data[p.Y*g.width+p.X] = label
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	data := make([]int32, len(g.data))
	copy(data, g.data)
	return &Grid{width: g.width, height: g.height, data: data}
}

// Equal reports whether two grids have identical dimensions and labels.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i, v := range g.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// MaxLabel returns the largest label present, or 0 for an empty grid.
func (g *Grid) MaxLabel() int32 {
	var maxLabel int32
	for _, v := range g.data {
		if v > maxLabel {
			maxLabel = v
		}
	}
	return maxLabel
}

// CountMasks returns the number of distinct non-zero labels.
func (g *Grid) CountMasks() int {
	seen := make(map[int32]struct{})
	for _, v := range g.data {
		if v != 0 {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Rows returns the grid as row slices backed by a fresh copy.
func (g *Grid) Rows() [][]int32 {
	rows := make([][]int32, g.height)
	for y := 0; y < g.height; y++ {
		row := make([]int32, g.width)
		copy(row, g.data[y*g.width:(y+1)*g.width])
		rows[y] = row
	}
	return rows
}
