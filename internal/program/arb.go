package program

import (
	"fmt"
	"strings"

	"github.com/gogpu/ggl/gl"
)

// VertexARB is the pass-through vertex program bound alongside fragment
// programs. Texture coordinates keep their q component for the fragment
// stage to divide.
const VertexARB = `!!ARBvp1.0
OPTION ARB_position_invariant;
MOV result.color, vertex.color;
MOV result.texcoord[0], vertex.texcoord[0];
MOV result.texcoord[1], vertex.texcoord[1];
END`

type arbWriter struct {
	b strings.Builder
}

func (w *arbWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteString(";\n")
}

// FragmentARB returns the ARB fragment program for key.
func FragmentARB(key Key) string {
	w := &arbWriter{}
	w.b.WriteString("!!ARBfp1.0\n")
	w.b.WriteString("# " + key.String() + "\n")

	op := lookup(key.Unit, key.Target)
	w.line("PARAM k = {0.5, 2.0, -1.0, 1.0}")
	w.line("PARAM z = {0.0, 0.0, 0.0, 0.0}")
	w.line("PARAM e = {0.0000001, 0.0, 0.0, 0.0}")
	w.line("TEMP p, t, s, op, other")

	switch key.Kind {
	case KindSolid:
		w.line("MOV op, program.local[%d]", LocalSolid)
	case KindConvolution:
		w.project(op)
		w.convolution(key, op)
	case KindLinearGradient, KindRadialGradient:
		w.project(op)
		w.gradient(key, op)
	default:
		w.line("TXP op, %s, %s, %s", op.coord, op.sampler, op.target)
	}

	w.combine(key)
	w.b.WriteString("END\n")
	return w.b.String()
}

// project divides the operation surface coordinate by q into p.xy.
func (w *arbWriter) project(op expansion) {
	w.line("RCP p.w, %s.w", op.coord)
	w.line("MUL p.xy, %s, p.w", op.coord)
}

type tap struct {
	dx, dy int
	row    int
	col    string
}

var (
	generalTaps = []tap{
		{-1, -1, 0, "x"}, {0, -1, 0, "y"}, {1, -1, 0, "z"},
		{-1, 0, 1, "x"}, {0, 0, 1, "y"}, {1, 0, 1, "z"},
		{-1, 1, 2, "x"}, {0, 1, 2, "y"}, {1, 1, 2, "z"},
	}
	simpleTaps = []tap{
		{0, -1, 0, "y"},
		{-1, 0, 1, "x"}, {0, 0, 1, "y"}, {1, 0, 1, "z"},
		{0, 1, 2, "y"},
	}
)

func (w *arbWriter) convolution(key Key, op expansion) {
	taps := generalTaps
	if key.Variant == ConvolutionSimple {
		taps = simpleTaps
	}
	for i, tp := range taps {
		w.line("MAD s, program.local[%d], {%d.0, %d.0, 0.0, 0.0}, p", LocalOffset, tp.dx, tp.dy)
		w.line("TEX s, s, %s, %s", op.sampler, op.target)
		if i == 0 {
			w.line("MUL op, s, program.local[%d].%s", LocalKernel+tp.row, tp.col)
			continue
		}
		w.line("MAD op, s, program.local[%d].%s, op", LocalKernel+tp.row, tp.col)
	}
}

func (w *arbWriter) gradient(key Key, op expansion) {
	g := fmt.Sprintf("program.local[%d]", LocalGradient)
	if key.Kind == KindLinearGradient {
		w.line("MAD t.x, p.x, %s.x, %s.z", g, g)
		w.line("MAD t.x, p.y, %s.y, t.x", g)
	} else {
		w.line("SUB s.xy, p, %s", g)
		w.line("MUL s.xy, s, s")
		w.line("ADD s.x, s.x, s.y")
		w.line("MAX s.x, s.x, e.x")
		w.line("RSQ s.y, s.x")
		w.line("MUL t.x, s.x, s.y")
		w.line("SUB t.x, t.x, %s.z", g)
		w.line("MUL t.x, t.x, %s.w", g)
	}

	switch key.Variant {
	case WrapRepeat:
		w.line("FRC t.x, t.x")
	case WrapReflect:
		w.line("MUL t.x, t.x, k.x")
		w.line("FRC t.x, t.x")
		w.line("MAD t.x, t.x, k.y, k.z")
		w.line("ABS t.x, t.x")
		w.line("SUB t.x, k.w, t.x")
	case WrapTransparent:
		w.line("SGE s.x, t.x, z.x")
		w.line("SGE s.y, k.w, t.x")
		w.line("MUL s.x, s.x, s.y")
	}

	w.line("MAD t.x, t.x, program.local[%d].x, program.local[%d].y", LocalRamp, LocalRamp)
	w.line("TEX op, t, %s, 1D", op.sampler)
	if key.Variant == WrapTransparent {
		w.line("MUL op, op, s.x")
	}
}

// combine multiplies the operation surface with the other operand and the
// primary color.
func (w *arbWriter) combine(key Key) {
	if key.Other != OtherNone {
		target := gl.TextureTarget2D
		if key.Other == OtherRect {
			target = gl.TextureTargetRectangle
		}
		other := lookup(1-key.Unit, target)
		w.line("TXP other, %s, %s, %s", other.coord, other.sampler, other.target)
	}

	switch {
	case key.Other == OtherNone && !key.Mask:
		// op is the source: the primary color carries a folded mask.
	case key.Other == OtherNone:
		// op is the mask of a solid source held by the primary color.
		if !key.Component {
			w.line("MOV op, op.w")
		}
	case key.Mask && key.Component:
		w.line("MUL op, other, op")
	case key.Mask:
		w.line("MUL op, other, op.w")
	case key.Component:
		w.line("MUL op, op, other")
	default:
		w.line("MUL op, op, other.w")
	}
	w.line("MUL result.color, op, fragment.color")
}
