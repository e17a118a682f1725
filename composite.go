package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// placement positions the operands of a composite call: destination
// pixel (xDst+i, yDst+j) combines source pixel (xSrc+i, ySrc+j) and mask
// pixel (xMask+i, yMask+j), before the operand transforms.
type placement struct {
	xSrc, ySrc   int
	xMask, yMask int
	xDst, yDst   int
	width        int
	height       int
}

// shifted returns the placement of the same operands onto a surface
// whose origin is the corner of destination box b.
func (p placement) shifted(b Box) placement {
	ox, oy := b.X1-p.xDst, b.Y1-p.yDst
	return placement{
		xSrc: p.xSrc + ox, ySrc: p.ySrc + oy,
		xMask: p.xMask + ox, yMask: p.yMask + oy,
		width: b.X2 - b.X1, height: b.Y2 - b.Y1,
	}
}

// Composite combines src, optionally masked by mask, into dst with op
// over the width x height rectangle at (xDst, yDst).
//
// Failures are recorded on dst and leave it unchanged.
func Composite(op Operator, src, mask, dst *Surface, xSrc, ySrc, xMask, yMask, xDst, yDst, width, height int) {
	switch {
	case dst == nil:
		return
	case src == nil:
		dst.status.add(StatusNullPointer)
		return
	case !op.valid():
		dst.notSupported("operator")
		return
	}
	dst.composite(op, src, mask, placement{xSrc, ySrc, xMask, yMask, xDst, yDst, width, height}, 0xffff, false)
}

// composite runs one composite call. nested is set for the calls made
// by the fallbacks, which must not fall back again.
func (dst *Surface) composite(op Operator, src, mask *Surface, p placement, alpha uint16, nested bool) {
	if dst.programmatic != nil {
		dst.notSupported("composite into programmatic surface")
		return
	}
	if p.width <= 0 || p.height <= 0 {
		return
	}
	r := Box{p.xDst, p.yDst, p.xDst + p.width, p.yDst + p.height}.Intersect(dst.bounds())
	if r.Empty() {
		return
	}

	if src == dst || (mask != nil && mask == dst) {
		snap, err := dst.snapshot()
		if err != nil {
			Logger().Warn("composite snapshot failed", "err", err)
			return
		}
		defer snap.Destroy()
		if src == dst {
			src = snap
		}
		if mask == dst {
			mask = snap
		}
	}

	rf := r.float()
	if mask != nil && mask.implicitMask() {
		inner := rf.Intersect(mask.bounds().float().Translate(float64(p.xDst-p.xMask), float64(p.yDst-p.yMask)))
		if !op.bounded() {
			dst.clearBoxes(boxDifference(rf, inner))
		}
		if inner.Empty() {
			return
		}
		rf, mask = inner, nil
	}

	c, st := dst.dev.newCompositeOp(op, src, mask, p, alpha)
	if c == nil {
		if st != StatusSuccess {
			Logger().Warn("composite not supported", "op", op.String())
		}
		dst.status.add(st)
		return
	}
	c.xDst, c.yDst = float64(p.xDst), float64(p.yDst)

	switch {
	case c.component && !componentOperator(op):
		dst.notSupported("component alpha operator")
	case c.typ != combineNA && c.singlePass() && (!c.component || c.alphaReady()):
		c.render(dst, rf)
	case c.mask.s == nil || c.mask.solid():
		dst.notSupported("source")
	case c.component:
		dst.compositeComponent(c, rf, p, nested)
	default:
		dst.compositeTwoPass(c, rf, p)
	}
}

// implicitMask reports whether s only limits the area: it is opaque
// everywhere inside its bounds.
func (s *Surface) implicitMask() bool {
	return s.programmatic == nil && s.transform == nil && s.fill == FillTransparent &&
		!s.format.HasAlpha() && !s.filter.programmed() && !s.componentAlpha
}

// snapshot returns a copy of s with the same sampling attributes.
func (s *Surface) snapshot() (*Surface, error) {
	c, err := NewSurface(s.dev, s.format, s.width, s.height)
	if err != nil {
		return nil, err
	}
	CopyArea(s, c, 0, 0, s.width, s.height, 0, 0)
	if s.transform != nil {
		t := *s.transform
		c.transform = &t
	}
	c.filter, c.fill, c.componentAlpha = s.filter, s.fill, s.componentAlpha
	if s.params != nil {
		p := *s.params
		p.ramp = newRampTexture(rampSize)
		p.rampDirty = true
		c.params = &p
	}
	return c, nil
}

// componentOperator reports whether op can use a component-alpha mask.
func componentOperator(op Operator) bool {
	_, df := op.factors()
	switch {
	case df == gputypes.BlendFactorZero || df == gputypes.BlendFactorOne:
		return true
	case op == OperatorOver || op == OperatorOutReverse || op == OperatorInReverse:
		return true
	}
	return false
}

// stage is one blended pass over the composite geometry.
type stage struct {
	src, dst gputypes.BlendFactor
	alpha    bool
}

// stages returns the passes implementing the operator. A component-alpha
// mask under an operator whose destination factor depends on source
// alpha first scales the destination by one minus source alpha times
// mask, channel by channel.
func (c *compositeOp) stages() []stage {
	sf, df := c.op.factors()
	if !c.component || df == gputypes.BlendFactorZero || df == gputypes.BlendFactorOne {
		return []stage{{sf, df, false}}
	}
	switch c.op {
	case OperatorOver:
		return []stage{
			{gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusSrc, true},
			{gputypes.BlendFactorOne, gputypes.BlendFactorOne, false},
		}
	case OperatorOutReverse:
		return []stage{{gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusSrc, true}}
	case OperatorInReverse:
		return []stage{{gputypes.BlendFactorZero, gputypes.BlendFactorSrc, true}}
	}
	return nil
}

// alphaReady reports whether the passes a component-alpha mask needs
// are available.
func (c *compositeOp) alphaReady() bool {
	for _, st := range c.stages() {
		if st.alpha && !c.alphaMode {
			return false
		}
	}
	return true
}

// singlePass reports whether both textures can be sampled in one pass.
// Both must be unrotated and untiled, and a transformed operand needs a
// partner that has a value everywhere.
func (c *compositeOp) singlePass() bool {
	if c.textures() < 2 {
		return true
	}
	a, b := c.units[0], c.units[1]
	if a.tiled || b.tiled || a.o.s.rotated() || b.o.s.rotated() {
		return false
	}
	ta, tb := a.o.s.transform != nil, b.o.s.transform != nil
	switch {
	case ta && tb:
		return false
	case ta:
		return b.o.s.infinite()
	case tb:
		return a.o.s.infinite()
	}
	return true
}

// piece is a convex destination polygon with the texture mapping of
// each unit.
type piece struct {
	poly []PointF
	m    [2]Matrix
}

// layout clips r to the operand footprints and splits it into tiles
// where a fill is emulated. outline is set when a footprint is not a
// box, so the exterior needs the stencil.
func (c *compositeOp) layout(r BoxF) (pieces []piece, outline bool) {
	n := c.textures()
	base := piece{poly: r.polygon()}
	for u := range n {
		base.m[u] = c.units[u].matrix
	}
	pieces = []piece{base}
	for u := range n {
		b := c.units[u]
		if b.tiled {
			pieces = tilePieces(pieces, u, b)
			continue
		}
		fp := b.o.footprint()
		switch {
		case fp.infinite:
			continue
		case fp.poly != nil && b.wrap == gl.WrapClampToBorder:
			continue
		case fp.poly != nil:
			outline = true
		}
		kept := pieces[:0]
		for _, p := range pieces {
			if fp.poly != nil {
				p.poly = clipConvex(p.poly, fp.poly)
			} else {
				p.poly = clipPolygon(p.poly, fp.box)
			}
			if p.poly != nil {
				kept = append(kept, p)
			}
		}
		pieces = kept
	}
	return pieces, outline
}

func tilePieces(pieces []piece, u int, b *binding) []piece {
	o := b.o
	reflect := o.s.fill == FillReflect
	var out []piece
	for _, p := range pieces {
		for _, t := range repeatRegion(polygonBounds(p.poly), o.dx, o.dy, o.s.width, o.s.height, reflect) {
			q := p
			if q.poly = clipPolygon(p.poly, t.box); q.poly == nil {
				continue
			}
			q.m[u] = Scale(b.tex.scaleX, b.tex.scaleY).Multiply(t.m)
			out = append(out, q)
		}
	}
	return out
}

// render draws the resolved operation over r of dst in one pass per
// stage.
func (c *compositeOp) render(dst *Surface, r BoxF) {
	pieces, outline := c.layout(r)
	d := c.dev
	defer d.popCurrent()
	if !d.pushCurrent(dst, true) {
		dst.notSupported("make current")
		return
	}
	fn := d.fn
	n := c.textures()
	for u := range n {
		b := c.units[u]
		b.tex.bind(fn, u)
		if !b.o.s.filter.gradient() {
			b.tex.setFilter(fn, samplerFilter(b.o.s.filter))
		}
		b.tex.setWrap(fn, b.wrap)
	}
	if c.program != 0 {
		fn.Enable(gl.CapFragmentProgram)
		fn.BindProgram(gl.ProgramFragment, c.program)
		for _, l := range c.locals {
			fn.ProgramLocalParameter(gl.ProgramFragment, l.index, l.v)
		}
		if c.vertex != 0 {
			fn.Enable(gl.CapVertexProgram)
			fn.BindProgram(gl.ProgramVertex, c.vertex)
		}
	}

	fn.Enable(gl.CapBlend)
	var damage BoxF
	for _, st := range c.stages() {
		env, primary := c.env, c.primary
		if st.alpha {
			env, primary = c.alphaEnv, c.alphaPrimary
		}
		for u := range n {
			if env[u] != nil {
				fn.ActiveTexture(u)
				fn.TexEnv(env[u])
			}
		}
		setColor(fn, primary)
		fn.BlendFunc(st.src, st.dst)
		for _, p := range pieces {
			damage = unionF(damage, c.drawPiece(fn, dst, p, n))
		}
	}

	if !c.op.bounded() && dst.geometry == nil {
		c.unbind(fn, n)
		polys := make([][]PointF, len(pieces))
		for i, p := range pieces {
			polys[i] = p.poly
		}
		if outline {
			if !dst.clearOutside(fn, r, polys) {
				dst.notSupported("exterior without stencil")
			}
		} else {
			beginClear(fn)
			var covered BoxF
			for _, p := range polys {
				covered = unionF(covered, polygonBounds(p))
			}
			drawPolygons(fn, boxPolygons(boxDifference(r, covered)))
		}
		damage = r
	}
	dst.markDamage(damage.Bounds())
}

// drawPiece draws one piece, or the custom geometry of dst limited to
// it. It returns the area drawn.
func (c *compositeOp) drawPiece(fn gl.Functions, dst *Surface, p piece, n int) BoxF {
	g := dst.geometry
	if g == nil {
		drawVertices(fn, gl.PrimitiveTriangleFan, p.poly, n, &p.m)
		return polygonBounds(p.poly)
	}
	b := polygonBounds(p.poly).Bounds().Intersect(dst.bounds())
	if b.Empty() {
		return BoxF{}
	}
	pts := make([]PointF, len(g.Vertices))
	for i, v := range g.Vertices {
		pts[i] = PointF{v.X + c.xDst, v.Y + c.yDst}
	}
	fn.Scissor(b.X1, b.Y1, b.X2-b.X1, b.Y2-b.Y1)
	drawVertices(fn, g.Primitive, pts, n, &p.m)
	fn.Scissor(0, 0, dst.width, dst.height)
	return polygonBounds(pts).Intersect(b.float())
}

// unbind disables the textures and programs of c.
func (c *compositeOp) unbind(fn gl.Functions, n int) {
	for u := range n {
		c.units[u].tex.unbind(fn, u)
	}
	fn.ActiveTexture(0)
	if c.program != 0 {
		fn.BindProgram(gl.ProgramFragment, 0)
		fn.Disable(gl.CapFragmentProgram)
	}
	if c.vertex != 0 {
		fn.BindProgram(gl.ProgramVertex, 0)
		fn.Disable(gl.CapVertexProgram)
	}
}

// maskBox returns the part of r the mask can affect.
func (c *compositeOp) maskBox(r BoxF) Box {
	fp := c.mask.footprint()
	if !fp.infinite {
		r = r.Intersect(fp.box)
	}
	return r.Bounds()
}

// compositeTwoPass renders src IN mask into an intermediate covering the
// mask's reach, then composites the intermediate.
func (dst *Surface) compositeTwoPass(c *compositeOp, r BoxF, p placement) {
	d := dst.dev
	rb := r.Bounds()
	b := c.maskBox(r).Intersect(rb)
	if b.Empty() {
		if !c.op.bounded() {
			dst.clearBoxes([]BoxF{r})
		}
		return
	}
	tmp, err := NewSurface(d, d.intermediate, b.X2-b.X1, b.Y2-b.Y1)
	if err != nil {
		Logger().Warn("intermediate allocation failed", "err", err)
		return
	}
	defer tmp.Destroy()

	sub := p.shifted(b)
	tmp.composite(OperatorSrc, c.mask.s, nil, placement{xSrc: sub.xMask, ySrc: sub.yMask, width: sub.width, height: sub.height}, 0xffff, true)
	tmp.composite(OperatorIn, c.src.s, nil, placement{xSrc: sub.xSrc, ySrc: sub.ySrc, width: sub.width, height: sub.height}, 0xffff, true)
	dst.composite(c.op, tmp, nil, placement{
		xSrc: rb.X1 - b.X1, ySrc: rb.Y1 - b.Y1,
		xDst: rb.X1, yDst: rb.Y1,
		width: rb.X2 - rb.X1, height: rb.Y2 - rb.Y1,
	}, c.alpha, true)
}

// compositeComponent materializes both operands untransformed so the
// component-alpha passes can sample them together.
func (dst *Surface) compositeComponent(c *compositeOp, r BoxF, p placement, nested bool) {
	if nested {
		dst.notSupported("component alpha")
		return
	}
	d := dst.dev
	rb := r.Bounds()
	b := c.maskBox(r).Intersect(rb)
	if b.Empty() {
		if !c.op.bounded() {
			dst.clearBoxes([]BoxF{r})
		}
		return
	}
	w, h := b.X2-b.X1, b.Y2-b.Y1
	src, err := NewSurface(d, d.intermediate, w, h)
	if err != nil {
		Logger().Warn("intermediate allocation failed", "err", err)
		return
	}
	defer src.Destroy()
	mask, err := NewSurface(d, d.intermediate, w, h)
	if err != nil {
		Logger().Warn("intermediate allocation failed", "err", err)
		return
	}
	defer mask.Destroy()

	sub := p.shifted(b)
	src.composite(OperatorSrc, c.src.s, nil, placement{xSrc: sub.xSrc, ySrc: sub.ySrc, width: w, height: h}, 0xffff, true)
	mask.composite(OperatorSrc, c.mask.s, nil, placement{xSrc: sub.xMask, ySrc: sub.yMask, width: w, height: h}, 0xffff, true)
	mask.componentAlpha = true
	ox, oy := rb.X1-b.X1, rb.Y1-b.Y1
	dst.composite(c.op, src, mask, placement{
		xSrc: ox, ySrc: oy, xMask: ox, yMask: oy,
		xDst: rb.X1, yDst: rb.Y1,
		width: rb.X2 - rb.X1, height: rb.Y2 - rb.Y1,
	}, c.alpha, true)
}
