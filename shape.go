package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/gputypes"
)

// ColorPoint is a vertex with a straight color.
type ColorPoint struct {
	Point PointFixed
	Color Color
}

// ColorTriangle is a triangle whose color is interpolated between its
// vertices.
type ColorTriangle struct {
	P1, P2, P3 ColorPoint
}

// ColorTrapezoid is a trapezoid whose color is interpolated from
// TopColor at its top edge to BottomColor at its bottom edge.
type ColorTrapezoid struct {
	Trapezoid
	TopColor, BottomColor Color
}

// shape is a set of convex polygons in destination space, optionally
// with a premultiplied color per vertex.
type shape struct {
	polys  [][]PointF
	colors [][]blend.Pixel
}

func trapezoidShape(traps []Trapezoid) *shape {
	sh := &shape{polys: make([][]PointF, 0, len(traps))}
	for i := range traps {
		if p := traps[i].polygon(); p != nil {
			sh.polys = append(sh.polys, p)
		}
	}
	return sh
}

func triangleShape(tris []Triangle) *shape {
	sh := &shape{polys: make([][]PointF, 0, len(tris))}
	for i := range tris {
		sh.polys = append(sh.polys, tris[i].polygon())
	}
	return sh
}

func stripShape(pts []PointFixed) *shape {
	sh := &shape{}
	for i := 0; i+2 < len(pts); i++ {
		sh.polys = append(sh.polys, []PointF{pts[i].float(), pts[i+1].float(), pts[i+2].float()})
	}
	return sh
}

func fanShape(pts []PointFixed) *shape {
	sh := &shape{}
	for i := 1; i+1 < len(pts); i++ {
		sh.polys = append(sh.polys, []PointF{pts[0].float(), pts[i].float(), pts[i+1].float()})
	}
	return sh
}

// sample is one sub-pixel offset of smooth-edge accumulation.
type sample struct {
	dx, dy float64
	weight uint16
}

var (
	sharpSamples = []sample{{0, 0, 0xffff}}

	// rotated grid
	samples4 = []sample{
		{-0.375, -0.125, 0x4000},
		{0.125, -0.375, 0x4000},
		{0.375, 0.125, 0x4000},
		{-0.125, 0.375, 0x4000},
	}

	// one sample per row and column
	samples8 = []sample{
		{-0.4375, -0.4375, 0x2000},
		{-0.3125, 0.0625, 0x2000},
		{-0.1875, 0.4375, 0x2000},
		{-0.0625, 0.1875, 0x2000},
		{0.0625, -0.1875, 0x2000},
		{0.1875, 0.3125, 0x2000},
		{0.3125, -0.3125, 0x2000},
		{0.4375, -0.0625, 0x2000},
	}
)

// samples returns the accumulation offsets for the polygon edge of s.
func (s *Surface) samples() []sample {
	switch {
	case s.edge == EdgeSharp:
		return sharpSamples
	case s.hint == HintBest:
		return samples8
	}
	return samples4
}

// multisampled reports whether smooth edges come from a multisample
// buffer of the render target.
func (s *Surface) multisampled() bool {
	if s.edge != EdgeSmooth || !s.dev.features.Has(gl.FeatureMultisample) {
		return false
	}
	switch {
	case s.drawable != nil:
		return s.drawable.Format().Multisample()
	case s.pbuf != nil:
		return s.pbuf.Format().Multisample()
	case s.dev.features.Has(gl.FeatureFramebufferObject):
		return false
	}
	return s.dev.drawable.Format().Multisample()
}

func (s *Surface) enableMultisample(fn gl.Functions) {
	fn.Enable(gl.CapMultisample)
	if s.dev.features.Has(gl.FeatureMultisampleFilterHint) {
		h := gl.HintNicest
		if s.hint == HintFast {
			h = gl.HintFastest
		}
		fn.MultisampleHint(h)
	}
}

// shapeBounds returns the pixels of dst sh can touch. It reports false
// when there is nothing to draw.
func (dst *Surface) shapeBounds(op Operator, sh *shape) (Box, bool) {
	switch {
	case dst.programmatic != nil:
		dst.notSupported("fill programmatic surface")
		return Box{}, false
	case !op.valid():
		dst.notSupported("operator")
		return Box{}, false
	case op == OperatorDst:
		return Box{}, false
	}
	var bf BoxF
	for _, p := range sh.polys {
		bf = unionF(bf, polygonBounds(p))
	}
	b := bf.Bounds().Intersect(dst.bounds())
	return b, !b.Empty()
}

// emitShape draws sh moved by (dx, dy). Flat shapes use the current
// color; per-vertex colors are scaled by opacity.
func emitShape(fn gl.Functions, sh *shape, dx, dy float64, opacity uint16) {
	for i, poly := range sh.polys {
		pts := make([]PointF, len(poly))
		for j, p := range poly {
			pts[j] = PointF{p.X + dx, p.Y + dy}
		}
		if sh.colors != nil {
			cs := make([]float32, 0, len(poly)*4)
			for _, c := range sh.colors[i] {
				c = c.Scale(opacity)
				cs = append(cs, blend.ToFloat(c.R), blend.ToFloat(c.G), blend.ToFloat(c.B), blend.ToFloat(c.A))
			}
			fn.ColorPointer(cs, 4)
		}
		drawVertices(fn, gl.PrimitiveTriangleFan, pts, 0, nil)
	}
	if sh.colors != nil {
		fn.ColorPointer(nil, 0)
	}
}

// fillShape fills sh with color using op. flat is the premultiplied
// color of shapes without vertex colors.
func (dst *Surface) fillShape(op Operator, sh *shape, flat blend.Pixel) {
	b, ok := dst.shapeBounds(op, sh)
	if !ok {
		return
	}
	if dst.edge == EdgeSharp || dst.multisampled() {
		dst.drawShape(op, sh, flat, b)
		return
	}

	cov, ok := dst.coverage(sh, b)
	if !ok {
		return
	}
	defer cov.Destroy()
	var (
		layer *Surface
		err   error
	)
	if sh.colors == nil {
		layer, err = newSolid(dst.dev, flat)
	} else {
		layer, err = dst.colorLayer(sh, b)
	}
	if err != nil {
		Logger().Warn("fill layer allocation failed", "err", err)
		return
	}
	defer layer.Destroy()
	dst.compositeCoverage(op, layer, 0, 0, cov, b)
}

// drawShape draws sh straight into dst.
func (dst *Surface) drawShape(op Operator, sh *shape, flat blend.Pixel, b Box) {
	d := dst.dev
	defer d.popCurrent()
	if !d.pushCurrent(dst, true) {
		dst.notSupported("make current")
		return
	}
	fn := d.fn
	if dst.edge == EdgeSmooth {
		dst.enableMultisample(fn)
	}
	sf, df := op.factors()
	fn.Enable(gl.CapBlend)
	fn.BlendFunc(sf, df)
	setColor(fn, flat.Scale(dst.opacity))
	emitShape(fn, sh, 0, 0, dst.opacity)
	dst.markDamage(b)
}

// coverage accumulates the coverage of sh over b, scaled by the polygon
// opacity, into the alpha of a new surface whose origin is the corner
// of b. Every channel holds the coverage.
func (dst *Surface) coverage(sh *shape, b Box) (*Surface, bool) {
	d := dst.dev
	cov, err := NewSurface(d, d.intermediate, b.X2-b.X1, b.Y2-b.Y1)
	if err != nil {
		Logger().Warn("coverage allocation failed", "err", err)
		return nil, false
	}
	flat := &shape{polys: sh.polys}
	drawn := func() bool {
		defer d.popCurrent()
		if !d.pushCurrent(cov, true) {
			return false
		}
		fn := d.fn
		fn.Enable(gl.CapBlend)
		fn.BlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOne)
		for _, s := range dst.samples() {
			a := blend.ShortMul(s.weight, dst.opacity)
			setColor(fn, blend.Pixel{R: a, G: a, B: a, A: a})
			emitShape(fn, flat, s.dx-float64(b.X1), s.dy-float64(b.Y1), 0xffff)
		}
		cov.markDamage(cov.bounds())
		return true
	}()
	if !drawn {
		cov.Destroy()
		dst.notSupported("make current")
		return nil, false
	}
	return cov, true
}

// colorLayer renders the vertex colors of sh over b into a new surface
// whose origin is the corner of b. Pixels partially covered by an edge
// take the color of the nearest sample inside.
func (dst *Surface) colorLayer(sh *shape, b Box) (*Surface, error) {
	d := dst.dev
	layer, err := NewSurface(d, d.intermediate, b.X2-b.X1, b.Y2-b.Y1)
	if err != nil {
		return nil, err
	}
	defer d.popCurrent()
	if !d.pushCurrent(layer, true) {
		layer.Destroy()
		return nil, StatusNotSupported
	}
	fn := d.fn
	fn.Disable(gl.CapBlend)
	for _, s := range append(dst.samples(), sharpSamples...) {
		emitShape(fn, sh, s.dx-float64(b.X1), s.dy-float64(b.Y1), 0xffff)
	}
	layer.markDamage(layer.bounds())
	return layer, nil
}

// compositeCoverage composites src through the coverage cov over b of
// dst: the result is op's result where cov is opaque, the old
// destination where it is transparent, and a blend of both between.
// Source pixel (xSrc, ySrc) lands on the corner of b.
func (dst *Surface) compositeCoverage(op Operator, src *Surface, xSrc, ySrc int, cov *Surface, b Box) {
	w, h := b.X2-b.X1, b.Y2-b.Y1
	if op.bounded() {
		dst.composite(op, src, cov, placement{xSrc, ySrc, 0, 0, b.X1, b.Y1, w, h}, 0xffff, false)
		return
	}

	// Unbounded operators change pixels the source does not cover, so the
	// result is computed aside and faded in through the coverage.
	tmp, err := NewSurface(dst.dev, dst.format, w, h)
	if err != nil {
		Logger().Warn("coverage intermediate allocation failed", "err", err)
		return
	}
	defer tmp.Destroy()
	CopyArea(dst, tmp, b.X1, b.Y1, w, h, 0, 0)
	tmp.composite(op, src, nil, placement{xSrc: xSrc, ySrc: ySrc, width: w, height: h}, 0xffff, false)
	onto := placement{xDst: b.X1, yDst: b.Y1, width: w, height: h}
	dst.composite(OperatorOutReverse, cov, nil, onto, 0xffff, true)
	dst.composite(OperatorAdd, tmp, cov, onto, 0xffff, true)
}

// compositeShape composites src through sh. Destination pixel (x, y)
// takes source pixel (x+xSrc, y+ySrc).
func (dst *Surface) compositeShape(op Operator, src *Surface, xSrc, ySrc int, sh *shape) {
	if src == nil {
		dst.status.add(StatusNullPointer)
		return
	}
	b, ok := dst.shapeBounds(op, sh)
	if !ok {
		return
	}
	if (dst.edge == EdgeSharp || dst.multisampled()) && dst.compositeStencil(op, src, xSrc, ySrc, sh, b) {
		return
	}
	cov, ok := dst.coverage(sh, b)
	if !ok {
		return
	}
	defer cov.Destroy()
	dst.compositeCoverage(op, src, b.X1+xSrc, b.Y1+ySrc, cov, b)
}

// compositeStencil limits a composite over b to sh by raising the clip
// depth under sh for its duration. It reports false when the stencil
// cannot hold another level.
func (dst *Surface) compositeStencil(op Operator, src *Surface, xSrc, ySrc int, sh *shape, b Box) bool {
	d := dst.dev
	buf := dst.renderBuffer()
	old := dst.clipDepth[buf]
	depth, ok := 0, false
	func() {
		defer d.popCurrent()
		if d.pushCurrent(dst, true) {
			if dst.edge == EdgeSmooth {
				dst.enableMultisample(d.fn)
			}
			depth, ok = dst.markShape(d.fn, sh.polys, b)
		}
	}()
	if !ok {
		return false
	}

	dst.clipDepth[buf] = depth
	dst.composite(op, src, nil, placement{
		xSrc: b.X1 + xSrc, ySrc: b.Y1 + ySrc,
		xDst: b.X1, yDst: b.Y1,
		width: b.X2 - b.X1, height: b.Y2 - b.Y1,
	}, dst.opacity, false)
	dst.clipDepth[buf] = old

	defer d.popCurrent()
	if d.pushCurrent(dst, true) {
		dst.unmarkShape(d.fn, sh.polys, depth)
	}
	return true
}

// FillTrapezoids fills traps with the straight color c using op.
func (s *Surface) FillTrapezoids(op Operator, c Color, traps []Trapezoid) {
	s.fillShape(op, trapezoidShape(traps), c.premultiplied())
}

// FillTriangles fills tris with the straight color c using op.
func (s *Surface) FillTriangles(op Operator, c Color, tris []Triangle) {
	s.fillShape(op, triangleShape(tris), c.premultiplied())
}

// FillTriStrip fills the triangle strip through pts.
func (s *Surface) FillTriStrip(op Operator, c Color, pts []PointFixed) {
	s.fillShape(op, stripShape(pts), c.premultiplied())
}

// FillTriFan fills the triangle fan around pts[0].
func (s *Surface) FillTriFan(op Operator, c Color, pts []PointFixed) {
	s.fillShape(op, fanShape(pts), c.premultiplied())
}

var white = blend.Pixel{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}

// AddTrapezoids adds the coverage of traps to s, saturating at opaque.
// It builds masks for Composite.
func (s *Surface) AddTrapezoids(traps []Trapezoid) {
	s.fillShape(OperatorAdd, trapezoidShape(traps), white)
}

// AddTriangles adds the coverage of tris to s.
func (s *Surface) AddTriangles(tris []Triangle) {
	s.fillShape(OperatorAdd, triangleShape(tris), white)
}

// CompositeTrapezoids composites src into s through traps. Pixel (x, y)
// of s takes pixel (x+xSrc, y+ySrc) of src.
func (s *Surface) CompositeTrapezoids(op Operator, src *Surface, xSrc, ySrc int, traps []Trapezoid) {
	s.compositeShape(op, src, xSrc, ySrc, trapezoidShape(traps))
}

// CompositeTriangles composites src into s through tris.
func (s *Surface) CompositeTriangles(op Operator, src *Surface, xSrc, ySrc int, tris []Triangle) {
	s.compositeShape(op, src, xSrc, ySrc, triangleShape(tris))
}

// ColorTriangles fills tris with colors interpolated between their
// vertices.
func (s *Surface) ColorTriangles(op Operator, tris []ColorTriangle) {
	sh := &shape{}
	for _, t := range tris {
		sh.polys = append(sh.polys, []PointF{t.P1.Point.float(), t.P2.Point.float(), t.P3.Point.float()})
		sh.colors = append(sh.colors, []blend.Pixel{
			t.P1.Color.premultiplied(), t.P2.Color.premultiplied(), t.P3.Color.premultiplied(),
		})
	}
	s.fillShape(op, sh, blend.Pixel{})
}

// ColorTrapezoids fills traps with colors interpolated from top to
// bottom.
func (s *Surface) ColorTrapezoids(op Operator, traps []ColorTrapezoid) {
	sh := &shape{}
	for i := range traps {
		p := traps[i].polygon()
		if p == nil {
			continue
		}
		top, bottom := traps[i].TopColor.premultiplied(), traps[i].BottomColor.premultiplied()
		sh.polys = append(sh.polys, p)
		sh.colors = append(sh.colors, []blend.Pixel{top, top, bottom, bottom})
	}
	s.fillShape(op, sh, blend.Pixel{})
}
