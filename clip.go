package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// ClipOperator combines a shape with the current clip.
type ClipOperator uint8

// Clip operators.
const (
	// ClipSet replaces the clip with the shape.
	ClipSet ClipOperator = iota

	// ClipUnion adds the shape to the clip.
	ClipUnion

	// ClipIntersect keeps the part of the clip inside the shape.
	ClipIntersect
)

var clipNames = [...]string{"set", "union", "intersect"}

func (op ClipOperator) String() string {
	if int(op) < len(clipNames) {
		return clipNames[op]
	}
	return "unknown"
}

// ClipRectangles combines rects with the clip of the current draw buffer.
func (s *Surface) ClipRectangles(op ClipOperator, rects []Rectangle) {
	polys := make([][]PointF, 0, len(rects))
	for _, r := range rects {
		b := r.box().Intersect(s.bounds())
		if !b.Empty() {
			polys = append(polys, b.float().polygon())
		}
	}
	s.clip(op, polys)
}

// ClipTrapezoids combines traps with the clip of the current draw buffer.
func (s *Surface) ClipTrapezoids(op ClipOperator, traps []Trapezoid) {
	polys := make([][]PointF, 0, len(traps))
	for i := range traps {
		if p := traps[i].polygon(); p != nil {
			polys = append(polys, p)
		}
	}
	s.clip(op, polys)
}

// ClipTriangles combines tris with the clip of the current draw buffer.
func (s *Surface) ClipTriangles(op ClipOperator, tris []Triangle) {
	polys := make([][]PointF, 0, len(tris))
	for i := range tris {
		polys = append(polys, tris[i].polygon())
	}
	s.clip(op, polys)
}

// ResetClip removes the clip of the current draw buffer.
func (s *Surface) ResetClip() {
	s.clipDepth[s.renderBuffer()] = 0
}

// clip applies op to the stencil. Pixels inside the clip hold the clip
// depth; every other pixel holds a smaller value.
func (s *Surface) clip(op ClipOperator, polys [][]PointF) {
	if s.programmatic != nil {
		s.notSupported("clip programmatic surface")
		return
	}
	buf := s.renderBuffer()
	depth := s.clipDepth[buf]
	switch {
	case op == ClipUnion && len(polys) == 0:
		return
	case depth == 0:
		op = ClipSet
	}

	d := s.dev
	defer d.popCurrent()
	if !d.pushCurrent(s, true) {
		s.notSupported("make current")
		return
	}
	if s.stencilBits() == 0 {
		s.notSupported("clip without stencil")
		return
	}
	if op == ClipIntersect && depth+1 > s.stencilLimit() {
		s.notSupported("clip depth")
		return
	}

	fn := d.fn
	fn.Disable(gl.CapBlend)
	fn.ColorMask(false, false, false, false)
	fn.Enable(gl.CapStencilTest)
	switch op {
	case ClipSet:
		s.clearStencil(fn, s.bounds())
		fn.StencilFunc(gputypes.CompareFunctionAlways, 1, ^uint32(0))
		fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilReplace)
		drawPolygons(fn, polys)
		depth = 1
	case ClipUnion:
		fn.StencilFunc(gputypes.CompareFunctionAlways, depth, ^uint32(0))
		fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilReplace)
		drawPolygons(fn, polys)
	case ClipIntersect:
		fn.StencilFunc(gputypes.CompareFunctionEqual, depth, ^uint32(0))
		fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilIncr)
		drawPolygons(fn, polys)
		depth++
		fn.StencilFunc(gputypes.CompareFunctionNotEqual, depth, ^uint32(0))
		fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilZero)
		drawPolygons(fn, [][]PointF{s.bounds().float().polygon()})
	}
	s.clipDepth[buf] = depth
	Logger().Debug("clip", "op", op, "depth", depth, "shapes", len(polys))
}
