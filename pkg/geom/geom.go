// Package geom provides the axis-aligned, center-anchored boxes shared by the
// template generator, renderer and canvas controller.
//
// All coordinates live in layout space: the untransformed [0,width]×[0,height]
// coordinate system of a creative canvas. A [Box] is described by its center
// (X, Y) and its full Width and Height, never by its top-left corner.
package geom

import "math"

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Div scales both coordinates by 1/f.
func (p Point) Div(f float64) Point { return Point{X: p.X / f, Y: p.Y / f} }

// Box is a centered rectangle: (X, Y) is the center.
type Box struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Left returns the x coordinate of the left edge.
func (b Box) Left() float64 { return b.X - b.Width/2 }

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width/2 }

// Top returns the y coordinate of the top edge.
func (b Box) Top() float64 { return b.Y - b.Height/2 }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height/2 }

// Center returns the box center.
func (b Box) Center() Point { return Point{X: b.X, Y: b.Y} }

// Valid reports whether the box has a strictly positive, finite size.
func (b Box) Valid() bool {
	return b.Width > 0 && b.Height > 0 &&
		!math.IsInf(b.Width, 0) && !math.IsInf(b.Height, 0) &&
		!math.IsNaN(b.X) && !math.IsNaN(b.Y)
}

// Contains reports whether p lies inside the box. Edges are inclusive.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects reports whether the two boxes overlap with a non-zero area.
func (b Box) Intersects(o Box) bool {
	return b.Left() < o.Right() && o.Left() < b.Right() &&
		b.Top() < o.Bottom() && o.Top() < b.Bottom()
}

// Within reports whether the box lies fully inside [0,w]×[0,h].
func (b Box) Within(w, h float64) bool {
	return b.Left() >= 0 && b.Top() >= 0 && b.Right() <= w && b.Bottom() <= h
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// MoveTo returns the box re-centered on p.
func (b Box) MoveTo(p Point) Box {
	b.X, b.Y = p.X, p.Y
	return b
}

// Scale returns the box with its size multiplied by f around the same center.
func (b Box) Scale(f float64) Box {
	b.Width *= f
	b.Height *= f
	return b
}

// ClampCenter returns the box with its center clamped so the box stays inside
// [0,w]×[0,h]. Each axis is clamped independently using half the box's own
// size as margin. A box larger than the canvas on an axis is centered on that
// axis.
func (b Box) ClampCenter(w, h float64) Box {
	b.X = clampAxis(b.X, b.Width/2, w)
	b.Y = clampAxis(b.Y, b.Height/2, h)
	return b
}

func clampAxis(v, half, limit float64) float64 {
	lo, hi := half, limit-half
	if lo > hi {
		return limit / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
