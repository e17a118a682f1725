package ggl

import "math"

// footprint is the destination area where an operand has a value.
type footprint struct {
	infinite bool
	box      BoxF

	// poly is the exact outline of a rotated or projective surface.
	// box bounds it.
	poly []PointF
}

// footprint returns where o has a value, in destination space.
func (o *operand) footprint() footprint {
	s := o.s
	if o.solid() || s.infinite() {
		return footprint{infinite: true}
	}
	box := s.bounds().float()
	if s.transform == nil {
		return footprint{box: box.Translate(-o.dx, -o.dy)}
	}
	inv := s.inverseTransform()
	if !s.rotated() {
		b, ok := inv.TransformBox(box)
		if !ok {
			return footprint{infinite: true}
		}
		return footprint{box: b.Translate(-o.dx, -o.dy)}
	}
	poly := make([]PointF, 0, 4)
	for _, p := range box.polygon() {
		x, y, ok := inv.TransformPoint(p.X, p.Y)
		if !ok {
			return footprint{infinite: true}
		}
		poly = append(poly, PointF{x - o.dx, y - o.dy})
	}
	return footprint{box: polygonBounds(poly), poly: poly}
}

// cross returns the z component of (b-a) x (p-a).
func cross(a, b, p PointF) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// clipConvex clips a convex polygon against the convex polygon clip,
// which may wind either way.
func clipConvex(pts, clip []PointF) []PointF {
	if len(clip) < 3 {
		return nil
	}
	var area float64
	for i := range clip {
		area += cross(PointF{}, clip[i], clip[(i+1)%len(clip)])
	}
	orient := 1.0
	if area < 0 {
		orient = -1
	}
	out := pts
	for i := range clip {
		a, b := clip[i], clip[(i+1)%len(clip)]
		side := func(p PointF) float64 { return cross(a, b, p) * orient }
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]PointF, 0, len(in)+2)
		for j, cur := range in {
			prev := in[(j+len(in)-1)%len(in)]
			sc, sp := side(cur), side(prev)
			if (sc >= 0) != (sp >= 0) {
				t := sp / (sp - sc)
				out = append(out, PointF{prev.X + t*(cur.X-prev.X), prev.Y + t*(cur.Y-prev.Y)})
			}
			if sc >= 0 {
				out = append(out, cur)
			}
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// boxDifference returns up to four boxes covering r outside inner.
func boxDifference(r, inner BoxF) []BoxF {
	inner = inner.Intersect(r)
	if inner.Empty() {
		if r.Empty() {
			return nil
		}
		return []BoxF{r}
	}
	var out []BoxF
	add := func(b BoxF) {
		if !b.Empty() {
			out = append(out, b)
		}
	}
	add(BoxF{r.X1, r.Y1, r.X2, inner.Y1})
	add(BoxF{r.X1, inner.Y2, r.X2, r.Y2})
	add(BoxF{r.X1, inner.Y1, inner.X1, inner.Y2})
	add(BoxF{inner.X2, inner.Y1, r.X2, inner.Y2})
	return out
}

// tile is one copy of a repeated image.
type tile struct {
	box BoxF

	// m maps destination coordinates into the image.
	m Matrix
}

// repeatRegion splits r into the copies of a width x height image
// repeated over source space, where source = P + (dx, dy). With reflect,
// odd copies are mirrored. Tiles never have negative extents.
func repeatRegion(r BoxF, dx, dy float64, width, height int, reflect bool) []tile {
	if r.Empty() || width < 1 || height < 1 {
		return nil
	}
	sr := r.Translate(dx, dy)
	w, h := float64(width), float64(height)
	i0, i1 := int(math.Floor(sr.X1/w)), int(math.Ceil(sr.X2/w))
	j0, j1 := int(math.Floor(sr.Y1/h)), int(math.Ceil(sr.Y2/h))

	var tiles []tile
	for j := j0; j < j1; j++ {
		e, f := 1.0, dy-float64(j)*h
		if reflect && j&1 != 0 {
			e, f = -1, float64(j+1)*h-dy
		}
		for i := i0; i < i1; i++ {
			b := BoxF{float64(i) * w, float64(j) * h, float64(i+1) * w, float64(j+1) * h}.Intersect(sr)
			if b.Empty() {
				continue
			}
			a, c := 1.0, dx-float64(i)*w
			if reflect && i&1 != 0 {
				a, c = -1, float64(i+1)*w-dx
			}
			tiles = append(tiles, tile{box: b.Translate(-dx, -dy), m: Affine(a, 0, c, 0, e, f)})
		}
	}
	return tiles
}
