// Package geometry provides the pixel-space types shared by the chart viewport.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// NewRectFromPoints returns the axis-aligned rectangle spanned by two corners.
func NewRectFromPoints(a, b Point2D) Rect {
	x1, x2 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y1, y2 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside the half-open rectangle
// [X, X+Width) x [Y, Y+Height).
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Clamp returns p moved into the closed rectangle.
func (r Rect) Clamp(p Point2D) Point2D {
	return Point2D{
		X: math.Max(r.X, math.Min(r.X+r.Width, p.X)),
		Y: math.Max(r.Y, math.Min(r.Y+r.Height, p.Y)),
	}
}

// ToLocal converts p into the rectangle's local frame.
//
// Points outside the rectangle are rejected unless clamp is set, in which
// case they are clamped onto it first. With normalize the result is divided
// by the rectangle size, giving coordinates in [0,1]. An empty rectangle
// always yields ok=false.
func (r Rect) ToLocal(p Point2D, clamp, normalize bool) (local Point2D, ok bool) {
	if r.Empty() {
		return Point2D{}, false
	}
	if !r.Contains(p) {
		if !clamp {
			return Point2D{}, false
		}
		p = r.Clamp(p)
	}

	local = Point2D{X: p.X - r.X, Y: p.Y - r.Y}
	if normalize {
		local.X /= r.Width
		local.Y /= r.Height
	}
	return local, true
}

// ToPixel is the inverse of ToLocal: it maps a local (optionally normalized)
// point back into the rectangle's parent frame.
func (r Rect) ToPixel(local Point2D, normalized bool) Point2D {
	if normalized {
		local = Point2D{X: local.X * r.Width, Y: local.Y * r.Height}
	}
	return Point2D{X: local.X + r.X, Y: local.Y + r.Y}
}

// Inset shrinks the rectangle by the given amounts on each side. Widths and
// heights never go below zero.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  math.Max(0, r.Width-left-right),
		Height: math.Max(0, r.Height-top-bottom),
	}
}
