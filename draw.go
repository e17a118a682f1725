package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/gputypes"
)

// drawVertices draws pts with mode. Each of the first units texture units
// gets projective coordinates from mats.
func drawVertices(fn gl.Functions, mode gl.Primitive, pts []PointF, units int, mats *[2]Matrix) {
	if len(pts) < 3 {
		return
	}
	pos := make([]float32, 0, len(pts)*2)
	for _, p := range pts {
		pos = append(pos, float32(p.X), float32(p.Y))
	}
	fn.VertexPointer(pos, 2)
	for u := range units {
		tc := make([]float32, 0, len(pts)*3)
		for _, p := range pts {
			v := mats[u].Homogeneous(p.X, p.Y)
			tc = append(tc, float32(v[0]), float32(v[1]), float32(v[2]))
		}
		fn.TexCoordPointer(u, tc, 3, 3)
	}
	fn.DrawArrays(mode, 0, len(pts))
}

// drawPolygons draws convex polygons without textures.
func drawPolygons(fn gl.Functions, polys [][]PointF) {
	for _, p := range polys {
		drawVertices(fn, gl.PrimitiveTriangleFan, p, 0, nil)
	}
}

func boxPolygons(boxes []BoxF) [][]PointF {
	polys := make([][]PointF, 0, len(boxes))
	for _, b := range boxes {
		if !b.Empty() {
			polys = append(polys, b.polygon())
		}
	}
	return polys
}

func setColor(fn gl.Functions, p blend.Pixel) {
	fn.Color(blend.ToFloat(p.R), blend.ToFloat(p.G), blend.ToFloat(p.B), blend.ToFloat(p.A))
}

// beginClear sets up untextured, unblended drawing of transparent black.
func beginClear(fn gl.Functions) {
	fn.Disable(gl.CapBlend)
	fn.Color(0, 0, 0, 0)
}

// clearBoxes sets the boxes of s to transparent black, inside the clip.
func (s *Surface) clearBoxes(boxes []BoxF) {
	polys := boxPolygons(boxes)
	if len(polys) == 0 {
		return
	}
	d := s.dev
	defer d.popCurrent()
	if !d.pushCurrent(s, true) {
		s.notSupported("make current")
		return
	}
	beginClear(d.fn)
	drawPolygons(d.fn, polys)
	var damage BoxF
	for _, b := range boxes {
		damage = unionF(damage, b)
	}
	s.markDamage(damage.Bounds())
}

func unionF(a, b BoxF) BoxF {
	switch {
	case b.Empty():
		return a
	case a.Empty():
		return b
	}
	return BoxF{min(a.X1, b.X1), min(a.Y1, b.Y1), max(a.X2, b.X2), max(a.Y2, b.Y2)}
}

// clearStencil zeroes the stencil of s inside b. The clip is unused
// while its depth is zero, so the whole box may be cleared.
func (s *Surface) clearStencil(fn gl.Functions, b Box) {
	b = b.Intersect(s.bounds())
	if b.Empty() {
		return
	}
	fn.Scissor(b.X1, b.Y1, b.X2-b.X1, b.Y2-b.Y1)
	fn.ClearStencil(0)
	fn.Clear(gl.ClearStencilBuffer)
	fn.Scissor(0, 0, s.width, s.height)
}

// stencilLimit returns the largest stencil value of the render target.
func (s *Surface) stencilLimit() int {
	bits := min(s.stencilBits(), 8)
	return 1<<bits - 1
}

// markShape raises the stencil by one under polys where it equals the
// current clip depth. It returns the raised depth, or false when the
// stencil cannot hold it.
func (s *Surface) markShape(fn gl.Functions, polys [][]PointF, bounds Box) (int, bool) {
	depth := s.clipDepth[s.renderBuffer()]
	if s.stencilBits() == 0 || depth+1 > s.stencilLimit() {
		return 0, false
	}
	if depth == 0 {
		s.clearStencil(fn, bounds)
	}
	fn.Enable(gl.CapStencilTest)
	fn.StencilFunc(gputypes.CompareFunctionEqual, depth, ^uint32(0))
	fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilIncr)
	fn.ColorMask(false, false, false, false)
	drawPolygons(fn, polys)
	s.applyColorMask(fn)
	fn.StencilFunc(gputypes.CompareFunctionEqual, depth+1, ^uint32(0))
	fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilKeep)
	return depth + 1, true
}

// unmarkShape lowers the stencil raised by markShape and restores the
// clip test.
func (s *Surface) unmarkShape(fn gl.Functions, polys [][]PointF, depth int) {
	fn.Enable(gl.CapStencilTest)
	fn.StencilFunc(gputypes.CompareFunctionEqual, depth, ^uint32(0))
	fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilDecr)
	fn.ColorMask(false, false, false, false)
	drawPolygons(fn, polys)
	s.applyColorMask(fn)
	s.applyClip(fn)
}

// clearOutside zeroes the part of r outside polys using the stencil.
func (s *Surface) clearOutside(fn gl.Functions, r BoxF, polys [][]PointF) bool {
	depth, ok := s.markShape(fn, polys, r.Bounds())
	if !ok {
		return false
	}
	fn.StencilFunc(gputypes.CompareFunctionEqual, depth-1, ^uint32(0))
	beginClear(fn)
	drawPolygons(fn, [][]PointF{r.polygon()})
	s.unmarkShape(fn, polys, depth)
	return true
}
