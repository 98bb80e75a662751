package graphics

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Add returns the vector sum of o and other.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Sub returns the vector difference of o and other.
func (o Offset) Sub(other Offset) Offset {
	return Offset{X: o.X - other.X, Y: o.Y - other.Y}
}

// Distance returns the Euclidean distance between o and other.
func (o Offset) Distance(other Offset) float64 {
	return math.Hypot(o.X-other.X, o.Y-other.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (o Offset) IsFinite() bool {
	return !math.IsNaN(o.X) && !math.IsInf(o.X, 0) &&
		!math.IsNaN(o.Y) && !math.IsInf(o.Y, 0)
}

// Point represents an integer pixel coordinate in image space.
type Point struct {
	X int
	Y int
}

// PointOf truncates an image-space offset to its containing pixel.
func PointOf(o Offset) Point {
	return Point{X: int(math.Floor(o.X)), Y: int(math.Floor(o.Y))}
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Contains reports whether the offset lies inside the rectangle.
func (r Rect) Contains(o Offset) bool {
	return o.X >= r.Left && o.X < r.Right && o.Y >= r.Top && o.Y < r.Bottom
}

// FloatEqual returns true if two float64 values are approximately equal.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
