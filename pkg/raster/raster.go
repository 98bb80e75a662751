// Package raster converts closed polygons into filled pixel regions.
package raster

import (
	"math"
	"sort"

	"github.com/go-cellseg/cellseg/pkg/graphics"
)

// minArea is the enclosed area below which a polygon is degenerate.
const minArea = 1e-9

// FillPolygon returns the set of integer pixels inside or on the boundary
// of the polygon described by points, clipped to a width x height image.
// The interior is resolved by an even-odd scanline fill sampled at pixel
// centers; boundary pixels are added by tracing each edge. The loop is
// expected to be closed (first == last) but an open loop is closed here.
//
// Fewer than 3 distinct vertices, or a zero enclosed area, yields an empty
// set. The caller decides whether an empty set is an error.
func FillPolygon(points []graphics.Offset, width, height int) []graphics.Point {
	loop := distinctLoop(points)
	if len(loop) < 3 || math.Abs(signedArea(loop)) < minArea {
		return nil
	}

	set := make(map[graphics.Point]struct{})
	fillInterior(set, loop, width, height)
	traceBoundary(set, loop, width, height)

	pixels := make([]graphics.Point, 0, len(set))
	for p := range set {
		pixels = append(pixels, p)
	}
	sort.Slice(pixels, func(i, j int) bool {
		if pixels[i].Y != pixels[j].Y {
			return pixels[i].Y < pixels[j].Y
		}
		return pixels[i].X < pixels[j].X
	})
	return pixels
}

// distinctLoop drops consecutive duplicate vertices and the closing
// repeat of the first vertex, leaving one vertex per corner.
func distinctLoop(points []graphics.Offset) []graphics.Offset {
	loop := make([]graphics.Offset, 0, len(points))
	for _, p := range points {
		if len(loop) > 0 && p == loop[len(loop)-1] {
			continue
		}
		loop = append(loop, p)
	}
	if len(loop) > 1 && loop[0] == loop[len(loop)-1] {
		loop = loop[:len(loop)-1]
	}
	return loop
}

// signedArea is the shoelace area of the loop.
func signedArea(loop []graphics.Offset) float64 {
	var sum float64
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// fillInterior adds every pixel whose center lies inside the polygon under
// the even-odd rule, one scanline at a time.
func fillInterior(set map[graphics.Point]struct{}, loop []graphics.Offset, width, height int) {
	minY, maxY := loop[0].Y, loop[0].Y
	for _, p := range loop[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	yStart := max(0, int(math.Floor(minY)))
	yEnd := min(height-1, int(math.Ceil(maxY)))

	var crossings []float64
	for y := yStart; y <= yEnd; y++ {
		cy := float64(y) + 0.5
		crossings = crossings[:0]
		for i, p := range loop {
			q := loop[(i+1)%len(loop)]
			if (p.Y <= cy) == (q.Y <= cy) {
				continue
			}
			crossings = append(crossings, p.X+(cy-p.Y)*(q.X-p.X)/(q.Y-p.Y))
		}
		sort.Float64s(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			// Pixel centers in [crossings[i], crossings[i+1]).
			xStart := max(0, int(math.Ceil(crossings[i]-0.5)))
			xEnd := min(width-1, int(math.Ceil(crossings[i+1]-0.5))-1)
			for x := xStart; x <= xEnd; x++ {
				set[graphics.Point{X: x, Y: y}] = struct{}{}
			}
		}
	}
}

// traceBoundary adds the pixels under each polygon edge using integer line
// traversal between the floored endpoints.
func traceBoundary(set map[graphics.Point]struct{}, loop []graphics.Offset, width, height int) {
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		tracePixelLine(set, graphics.PointOf(p), graphics.PointOf(q), width, height)
	}
}

// tracePixelLine is Bresenham's line between a and b.
func tracePixelLine(set map[graphics.Point]struct{}, a, b graphics.Point, width, height int) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if x >= 0 && x < width && y >= 0 && y < height {
			set[graphics.Point{X: x, Y: y}] = struct{}{}
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
