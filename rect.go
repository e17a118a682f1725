package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
)

// FillRectangle fills r of s with the straight color c using op.
func (s *Surface) FillRectangle(op Operator, c Color, r Rectangle) {
	s.FillRectangles(op, c, []Rectangle{r})
}

// FillRectangles fills rects of s with the straight color c using op.
// The polygon opacity does not apply to rectangles.
func (s *Surface) FillRectangles(op Operator, c Color, rects []Rectangle) {
	switch {
	case s.programmatic != nil:
		s.notSupported("fill programmatic surface")
		return
	case !op.valid():
		s.notSupported("operator")
		return
	case op == OperatorDst:
		return
	}
	boxes := make([]Box, 0, len(rects))
	for _, r := range rects {
		if b := r.box().Intersect(s.bounds()); !b.Empty() {
			boxes = append(boxes, b)
		}
	}
	if len(boxes) == 0 {
		return
	}
	p := c.premultiplied()
	if op == OperatorClear {
		p = blend.Pixel{}
	}

	d := s.dev
	defer d.popCurrent()
	if !d.pushCurrent(s, true) {
		s.notSupported("make current")
		return
	}
	fn := d.fn
	if (op == OperatorSrc || op == OperatorClear) && s.clipDepth[s.renderBuffer()] == 0 {
		fn.ClearColor(blend.ToFloat(p.R), blend.ToFloat(p.G), blend.ToFloat(p.B), blend.ToFloat(p.A))
		for _, b := range boxes {
			fn.Scissor(b.X1, b.Y1, b.X2-b.X1, b.Y2-b.Y1)
			fn.Clear(gl.ClearColorBuffer)
		}
		fn.Scissor(0, 0, s.width, s.height)
	} else {
		sf, df := op.factors()
		fn.Enable(gl.CapBlend)
		fn.BlendFunc(sf, df)
		setColor(fn, p)
		for _, b := range boxes {
			drawVertices(fn, gl.PrimitiveTriangleFan, b.float().polygon(), 0, nil)
		}
	}
	for _, b := range boxes {
		s.markDamage(b)
	}
}
