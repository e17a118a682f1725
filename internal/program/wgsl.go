package program

import (
	"fmt"
	"strings"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/naga"
)

const wgslHeader = `struct Uniforms {
    projection: mat4x4<f32>,
    local: array<vec4<f32>, 4>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
    @location(2) tc0: vec3<f32>,
    @location(3) tc1: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) tc0: vec3<f32>,
    @location(2) tc1: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = u.projection * vec4<f32>(in.position, 0.0, 1.0);
    out.color = in.color;
    out.tc0 = in.tc0;
    out.tc1 = in.tc1;
    return out;
}
`

type wgslWriter struct {
	b strings.Builder
}

func (w *wgslWriter) line(format string, args ...any) {
	w.b.WriteString("    ")
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

// binding declares the texture and sampler of a unit.
func (w *wgslWriter) binding(unit uint8, kind string) {
	fmt.Fprintf(&w.b, "@group(0) @binding(%d) var tex%d: %s<f32>;\n", 1+2*unit, unit, kind)
	fmt.Fprintf(&w.b, "@group(0) @binding(%d) var smp%d: sampler;\n", 2+2*unit, unit)
}

// sample returns an expression sampling a 2D or rectangle texture at the
// projected coordinate of its unit. Rectangle coordinates are in texels.
func sample(unit uint8, target gl.TextureTarget, coord string) string {
	if target == gl.TextureTargetRectangle {
		coord = fmt.Sprintf("(%s) / vec2<f32>(textureDimensions(tex%d))", coord, unit)
	}
	return fmt.Sprintf("textureSample(tex%d, smp%d, %s)", unit, unit, coord)
}

// FragmentWGSL returns a WGSL module equivalent to FragmentARB(key).
func FragmentWGSL(key Key) string {
	w := &wgslWriter{}
	w.b.WriteString("// " + key.String() + "\n")
	w.b.WriteString(wgslHeader)
	w.b.WriteByte('\n')

	switch key.Kind {
	case KindSolid:
	case KindLinearGradient, KindRadialGradient:
		w.binding(key.Unit, "texture_1d")
	default:
		w.binding(key.Unit, "texture_2d")
	}
	otherTarget := gl.TextureTarget2D
	if key.Other == OtherRect {
		otherTarget = gl.TextureTargetRectangle
	}
	if key.Other != OtherNone {
		w.binding(1-key.Unit, "texture_2d")
	}

	w.b.WriteString("\n@fragment\nfn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	w.line("let p = in.tc%d.xy / in.tc%d.z;", key.Unit, key.Unit)
	w.line("var op: vec4<f32>;")

	switch key.Kind {
	case KindSolid:
		w.line("op = u.local[%d];", LocalSolid)
	case KindConvolution:
		taps := generalTaps
		if key.Variant == ConvolutionSimple {
			taps = simpleTaps
		}
		w.line("op = vec4<f32>(0.0);")
		for _, tp := range taps {
			coord := fmt.Sprintf("p + u.local[%d].xy * vec2<f32>(%d.0, %d.0)", LocalOffset, tp.dx, tp.dy)
			w.line("op = op + %s * u.local[%d].%s;", sample(key.Unit, key.Target, coord), LocalKernel+tp.row, tp.col)
		}
	case KindLinearGradient, KindRadialGradient:
		if key.Kind == KindLinearGradient {
			w.line("var t = dot(p, u.local[%d].xy) + u.local[%d].z;", LocalGradient, LocalGradient)
		} else {
			w.line("var t = (length(p - u.local[%d].xy) - u.local[%d].z) * u.local[%d].w;", LocalGradient, LocalGradient, LocalGradient)
		}
		inside := "1.0"
		switch key.Variant {
		case WrapRepeat:
			w.line("t = fract(t);")
		case WrapReflect:
			w.line("t = 1.0 - abs(fract(t * 0.5) * 2.0 - 1.0);")
		case WrapTransparent:
			w.line("let inside = select(0.0, 1.0, t >= 0.0 && t <= 1.0);")
			inside = "inside"
		}
		w.line("op = textureSample(tex%d, smp%d, t * u.local[%d].x + u.local[%d].y) * %s;",
			key.Unit, key.Unit, LocalRamp, LocalRamp, inside)
	default:
		w.line("op = %s;", sample(key.Unit, key.Target, "p"))
	}

	if key.Other != OtherNone {
		o := 1 - key.Unit
		w.line("let other = %s;", sample(o, otherTarget, fmt.Sprintf("in.tc%d.xy / in.tc%d.z", o, o)))
	}
	switch {
	case key.Other == OtherNone && !key.Mask:
	case key.Other == OtherNone:
		if !key.Component {
			w.line("op = vec4<f32>(op.w);")
		}
	case key.Mask && key.Component:
		w.line("op = other * op;")
	case key.Mask:
		w.line("op = other * op.w;")
	case key.Component:
		w.line("op = op * other;")
	default:
		w.line("op = op * other.w;")
	}
	w.line("return op * in.color;")
	w.b.WriteString("}\n")
	return w.b.String()
}

// CompileWGSL compiles a WGSL module to SPIR-V.
func CompileWGSL(src string) ([]byte, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("program: compile wgsl: %w", err)
	}
	return spirv, nil
}
