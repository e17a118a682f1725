package ggl

import (
	"math"

	"github.com/gogpu/ggl/internal/blend"
)

// Color is a straight (non-premultiplied) color with 16-bit channels.
// 0xffff represents full intensity.
type Color struct {
	Red, Green, Blue, Alpha uint16
}

func (c Color) premultiplied() blend.Pixel {
	return blend.Premultiply(c.Red, c.Green, c.Blue, c.Alpha)
}

// ColorStop is one color of a gradient. Offset is in [0,1].
type ColorStop struct {
	Offset Fixed
	Color  Color
}

// Box is an integer rectangle [X1,X2)x[Y1,Y2).
type Box struct {
	X1, Y1, X2, Y2 int
}

// Empty reports whether b covers no pixel.
func (b Box) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// Union returns the smallest box containing b and o. Empty boxes are
// ignored.
func (b Box) Union(o Box) Box {
	switch {
	case o.Empty():
		return b
	case b.Empty():
		return o
	}
	return Box{min(b.X1, o.X1), min(b.Y1, o.Y1), max(b.X2, o.X2), max(b.Y2, o.Y2)}
}

// Intersect returns the common part of b and o, or the zero Box.
func (b Box) Intersect(o Box) Box {
	r := Box{max(b.X1, o.X1), max(b.Y1, o.Y1), min(b.X2, o.X2), min(b.Y2, o.Y2)}
	if r.Empty() {
		return Box{}
	}
	return r
}

func (b Box) float() BoxF {
	return BoxF{float64(b.X1), float64(b.Y1), float64(b.X2), float64(b.Y2)}
}

// BoxF is a rectangle in sub-pixel coordinates.
type BoxF struct {
	X1, Y1, X2, Y2 float64
}

// Empty reports whether b has no area.
func (b BoxF) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// Intersect returns the common part of b and o. Disjoint boxes collapse
// to the zero BoxF at the origin, never to a negative extent.
func (b BoxF) Intersect(o BoxF) BoxF {
	r := BoxF{math.Max(b.X1, o.X1), math.Max(b.Y1, o.Y1), math.Min(b.X2, o.X2), math.Min(b.Y2, o.Y2)}
	if r.Empty() {
		return BoxF{}
	}
	return r
}

// Translate returns b moved by (dx, dy).
func (b BoxF) Translate(dx, dy float64) BoxF {
	return BoxF{b.X1 + dx, b.Y1 + dy, b.X2 + dx, b.Y2 + dy}
}

// Bounds returns the integer box touched by b: floor of the minimum and
// ceiling of the maximum, so partially covered pixels are included.
func (b BoxF) Bounds() Box {
	if b.Empty() {
		return Box{}
	}
	return Box{
		int(math.Floor(b.X1)), int(math.Floor(b.Y1)),
		int(math.Ceil(b.X2)), int(math.Ceil(b.Y2)),
	}
}

func (b BoxF) polygon() []PointF {
	return []PointF{{b.X1, b.Y1}, {b.X2, b.Y1}, {b.X2, b.Y2}, {b.X1, b.Y2}}
}

// PointF is a point in sub-pixel coordinates.
type PointF struct {
	X, Y float64
}

// PointFixed is a point in 16.16 fixed point.
type PointFixed struct {
	X, Y Fixed
}

func (p PointFixed) float() PointF {
	return PointF{p.X.Float(), p.Y.Float()}
}

// LineFixed is a line through two points.
type LineFixed struct {
	P1, P2 PointFixed
}

// xAt returns the x coordinate of the line at height y.
func (l LineFixed) xAt(y float64) float64 {
	p1, p2 := l.P1.float(), l.P2.float()
	if p2.Y == p1.Y {
		return p1.X
	}
	return p1.X + (y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
}

// Trapezoid is the area between Top and Bottom bounded by the Left and
// Right lines.
type Trapezoid struct {
	Top, Bottom Fixed
	Left, Right LineFixed
}

func (t *Trapezoid) polygon() []PointF {
	top, bottom := t.Top.Float(), t.Bottom.Float()
	if bottom <= top {
		return nil
	}
	return []PointF{
		{t.Left.xAt(top), top},
		{t.Right.xAt(top), top},
		{t.Right.xAt(bottom), bottom},
		{t.Left.xAt(bottom), bottom},
	}
}

// Triangle is a triangle in fixed point.
type Triangle struct {
	P1, P2, P3 PointFixed
}

func (t *Triangle) polygon() []PointF {
	return []PointF{t.P1.float(), t.P2.float(), t.P3.float()}
}

// Rectangle is an integer rectangle given by origin and size.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

func (r Rectangle) box() Box {
	return Box{r.X, r.Y, r.X + r.Width, r.Y + r.Height}
}

// polygonBounds returns the bounding box of pts.
func polygonBounds(pts []PointF) BoxF {
	if len(pts) == 0 {
		return BoxF{}
	}
	b := BoxF{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		b.X1, b.Y1 = math.Min(b.X1, p.X), math.Min(b.Y1, p.Y)
		b.X2, b.Y2 = math.Max(b.X2, p.X), math.Max(b.Y2, p.Y)
	}
	return b
}

// clipPolygon clips a convex polygon against b (Sutherland-Hodgman).
func clipPolygon(pts []PointF, b BoxF) []PointF {
	type plane struct {
		inside func(p PointF) bool
		cross  func(p, q PointF) PointF
	}
	atX := func(x float64) func(p, q PointF) PointF {
		return func(p, q PointF) PointF {
			t := (x - p.X) / (q.X - p.X)
			return PointF{x, p.Y + t*(q.Y-p.Y)}
		}
	}
	atY := func(y float64) func(p, q PointF) PointF {
		return func(p, q PointF) PointF {
			t := (y - p.Y) / (q.Y - p.Y)
			return PointF{p.X + t*(q.X-p.X), y}
		}
	}
	planes := [4]plane{
		{func(p PointF) bool { return p.X >= b.X1 }, atX(b.X1)},
		{func(p PointF) bool { return p.X <= b.X2 }, atX(b.X2)},
		{func(p PointF) bool { return p.Y >= b.Y1 }, atY(b.Y1)},
		{func(p PointF) bool { return p.Y <= b.Y2 }, atY(b.Y2)},
	}
	out := pts
	for _, pl := range planes {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]PointF, 0, len(in)+2)
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch {
			case pl.inside(cur):
				if !pl.inside(prev) {
					out = append(out, pl.cross(prev, cur))
				}
				out = append(out, cur)
			case pl.inside(prev):
				out = append(out, pl.cross(prev, cur))
			}
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}
