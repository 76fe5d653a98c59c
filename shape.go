package blit

import "math"

// Shape is a read-only geometry source.
//
// Shapes carry positions and parameters only; they hold no drawing
// state. Renderers trace a shape's boundary into their own path
// machinery, so a Shape never draws itself.
type Shape interface {
	// Bounds returns the axis-aligned bounding rectangle of the shape.
	Bounds() Rect
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// Bounds implements Shape.
func (r Rect) Bounds() Rect { return r }

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// RoundedRect is a rectangle with circular corner arcs of the given radius.
type RoundedRect struct {
	Rect
	Radius float64
}

// Ellipse is an axis-aligned ellipse centered at (X, Y).
type Ellipse struct {
	X, Y   float64
	RX, RY float64
}

// Bounds implements Shape.
func (e Ellipse) Bounds() Rect {
	return Rect{X: e.X - e.RX, Y: e.Y - e.RY, W: 2 * e.RX, H: 2 * e.RY}
}

// Circle returns a circular Ellipse of radius r centered at (x, y).
func Circle(x, y, r float64) Ellipse {
	return Ellipse{X: x, Y: y, RX: r, RY: r}
}

// Polygon is an arbitrary closed polygon. Points are relative to the
// polygon origin (X, Y).
type Polygon struct {
	X, Y   float64
	Points []Point
}

// Bounds implements Shape.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{X: p.X, Y: p.Y}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: p.X + minX, Y: p.Y + minY, W: maxX - minX, H: maxY - minY}
}

// Line is a straight segment from (X1, Y1) to (X2, Y2).
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Bounds implements Shape.
func (l Line) Bounds() Rect {
	return Rect{
		X: math.Min(l.X1, l.X2),
		Y: math.Min(l.Y1, l.Y2),
		W: math.Abs(l.X2 - l.X1),
		H: math.Abs(l.Y2 - l.Y1),
	}
}

// Arc is a circular arc centered at (X, Y) spanning [Start, End] radians.
type Arc struct {
	X, Y   float64
	Radius float64
	Start  float64
	End    float64
}

// Bounds implements Shape.
// The bounds are those of the full circle; tight arc bounds are not
// needed by any caller.
func (a Arc) Bounds() Rect {
	return Rect{X: a.X - a.Radius, Y: a.Y - a.Radius, W: 2 * a.Radius, H: 2 * a.Radius}
}
