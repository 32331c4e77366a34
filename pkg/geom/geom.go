// Package geom holds the rectangle and size types shared by the layout
// packages, plus the measure/arrange contract every laid-out element follows.
package geom

import "math"

// Size is a width/height pair in layout units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Intersects reports whether r and o overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// IsInfinite reports whether v is an unbounded constraint.
func IsInfinite(v float64) bool { return math.IsInf(v, 1) }

// Element is the measure/arrange contract between a panel and the elements
// it positions. Measure reports the desired size for the given constraint;
// Arrange places the element at its final rectangle.
type Element interface {
	Measure(available Size) Size
	Arrange(rect Rect)
}
