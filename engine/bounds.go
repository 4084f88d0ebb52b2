package engine

import "fmt"

// Point is a location in scene coordinates. Y grows downwards.
type Point struct {
	X, Y float64
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY    float64
	Width, Height float64
}

// NewBounds creates a bounding box with its top-left corner at (x, y).
func NewBounds(x, y, width, height float64) Bounds {
	return Bounds{MinX: x, MinY: y, Width: width, Height: height}
}

func (b Bounds) MaxX() float64    { return b.MinX + b.Width }
func (b Bounds) MaxY() float64    { return b.MinY + b.Height }
func (b Bounds) CenterX() float64 { return b.MinX + b.Width/2 }
func (b Bounds) CenterY() float64 { return b.MinY + b.Height/2 }

// Empty reports whether the box has a negative extent on either axis.
func (b Bounds) Empty() bool {
	return b.Width < 0 || b.Height < 0
}

// Intersects reports whether b and o overlap on both axes. Intervals are open,
// so boxes that only share an edge or a corner do not intersect.
func (b Bounds) Intersects(o Bounds) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.MinX < o.MaxX() && o.MinX < b.MaxX() &&
		b.MinY < o.MaxY() && o.MinY < b.MaxY()
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX() &&
		p.Y >= b.MinY && p.Y <= b.MaxY()
}

// Translate returns the box moved by d.
func (b Bounds) Translate(d Point) Bounds {
	b.MinX += d.X
	b.MinY += d.Y
	return b
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", b.MinX, b.MinY, b.Width, b.Height)
}
