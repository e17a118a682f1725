// Package program generates and caches the fragment programs used by the
// compositing engine.
//
// Three families are generated: a two-texture "in" combine for plain
// textures and solid colors, 3x3 convolution (a 9-tap general kernel and a
// 5-tap plus-shaped kernel when the corner weights are zero), and
// procedural linear and radial gradients sampled from a 1-D color ramp.
// Programs are emitted as ARB assembly or, for contexts that accept
// SPIR-V, as WGSL compiled with naga.
//
// Every program computes the value of the "operation surface" bound to
// one texture unit, multiplies it with the other operand (a texture on the
// other unit, or nothing), and finally with the primary color, which the
// caller sets to the opacity or to a folded solid operand.
package program

import (
	"fmt"

	"github.com/gogpu/ggl/gl"
)

// Kind selects the template family.
type Kind uint8

// Program kinds.
const (
	// KindCombine samples a plain texture.
	KindCombine Kind = iota

	// KindSolid takes a constant color from local parameter 0.
	KindSolid

	// KindConvolution applies a 3x3 kernel.
	KindConvolution

	// KindLinearGradient evaluates a linear gradient.
	KindLinearGradient

	// KindRadialGradient evaluates a radial gradient.
	KindRadialGradient
)

var kindNames = [...]string{"combine", "solid", "convolution", "linear", "radial"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Convolution variants.
const (
	ConvolutionGeneral uint8 = iota
	ConvolutionSimple
)

// Gradient wrap variants: how positions outside [0,1] are mapped.
const (
	WrapTransparent uint8 = iota
	WrapPad
	WrapRepeat
	WrapReflect
)

// Other describes the operand combined with the operation surface.
type Other uint8

// Other operands.
const (
	OtherNone Other = iota
	Other2D
	OtherRect
)

// OtherTexture returns the Other value for a texture target.
func OtherTexture(t gl.TextureTarget) Other {
	if t == gl.TextureTargetRectangle {
		return OtherRect
	}
	return Other2D
}

// Key identifies one generated program.
type Key struct {
	Kind Kind

	// Variant is the convolution shape or the gradient wrap.
	Variant uint8

	// Unit is the texture unit holding the operation surface (0 or 1).
	// The other texture, if any, is on the other unit.
	Unit uint8

	// Target is the operation surface's texture target. Gradients always
	// sample a 1-D ramp and ignore it.
	Target gl.TextureTarget

	Other Other

	// Mask reports that the operation surface is the mask: the result is
	// the other operand multiplied by its alpha.
	Mask bool

	// Component selects per-channel multiplication by the mask.
	Component bool
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d unit=%d target=%s other=%d mask=%t ca=%t",
		k.Kind, k.Variant, k.Unit, k.Target, k.Other, k.Mask, k.Component)
}

// Local parameter slots.
const (
	// LocalOffset holds the texel step (dx, dy) of a convolution.
	LocalOffset = 0

	// LocalKernel is the first of three kernel rows.
	LocalKernel = 1

	// LocalGradient holds (a, b, c, 0) for linear gradients, where the
	// position along the axis is a*x + b*y + c, or (cx, cy, r0, 1/(r1-r0))
	// for radial gradients.
	LocalGradient = 0

	// LocalRamp holds (scale, offset) mapping [0,1] onto ramp texel
	// centers.
	LocalRamp = 1

	// LocalSolid holds the premultiplied solid color.
	LocalSolid = 0
)

// expansion carries the tokens that depend on a unit and target.
type expansion struct {
	coord   string
	sampler string
	target  string
}

// expand is indexed by texture unit and by whether the target is a
// rectangle texture.
var expand = [2][2]expansion{
	{
		{"fragment.texcoord[0]", "texture[0]", "2D"},
		{"fragment.texcoord[0]", "texture[0]", "RECT"},
	},
	{
		{"fragment.texcoord[1]", "texture[1]", "2D"},
		{"fragment.texcoord[1]", "texture[1]", "RECT"},
	},
}

func lookup(unit uint8, t gl.TextureTarget) expansion {
	rect := 0
	if t == gl.TextureTargetRectangle {
		rect = 1
	}
	return expand[unit&1][rect]
}

// SimpleKernel reports whether a 3x3 kernel has zero corner weights and
// can use the 5-tap variant.
func SimpleKernel(k *[9]float32) bool {
	return k[0] == 0 && k[2] == 0 && k[6] == 0 && k[8] == 0
}
