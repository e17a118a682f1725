package ggl

import (
	"math/bits"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// texture wraps a GL texture object holding a surface image.
//
// The image occupies [0,box.X2)x[0,box.Y2) of the allocated texture. When
// the hardware cannot allocate the exact size, the texture is a rectangle
// texture or, failing that, a padded power-of-two 2D texture. Padded and
// rectangle textures cannot use hardware repeat.
type texture struct {
	name   uint32
	target gl.TextureTarget
	format *gl.Format

	// width and height are the allocated size.
	width  int
	height int
	box    Box

	// scaleX and scaleY map texels to normalized coordinates.
	scaleX float64
	scaleY float64

	filter     gputypes.FilterMode
	wrap       gl.Wrap
	repeatable bool
	padded     bool

	// alias marks a texture owned by a drawable (render-to-texture).
	alias bool
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func pow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// newTexture picks the target and allocation size for a width x height
// image. Allocation itself is deferred until allocate.
func newTexture(features gl.Features, format *gl.Format, width, height int) texture {
	t := texture{
		target: gl.TextureTarget2D,
		format: format,
		width:  width,
		height: height,
		box:    Box{0, 0, width, height},
		filter: gputypes.FilterModeNearest,
		wrap:   gl.WrapClampToEdge,
	}
	switch {
	case features.Has(gl.FeatureTextureNonPowerOfTwo), isPow2(width) && isPow2(height):
		t.repeatable = true
	case features.Has(gl.FeatureTextureRectangle):
		t.target = gl.TextureTargetRectangle
	default:
		t.width, t.height = pow2(width), pow2(height)
		t.padded = true
	}
	t.scaleX, t.scaleY = 1, 1
	if t.target.Normalized() {
		t.scaleX = 1 / float64(t.width)
		t.scaleY = 1 / float64(t.height)
	}
	return t
}

// newRampTexture returns a 1-D texture for a gradient color ramp.
func newRampTexture(n int) texture {
	return texture{
		target: gl.TextureTarget1D,
		width:  n,
		height: 1,
		box:    Box{0, 0, n, 1},
		scaleX: 1,
		scaleY: 1,
		filter: gputypes.FilterModeLinear,
		wrap:   gl.WrapClampToEdge,
	}
}

// allocate creates the GL texture on first use. A context must be
// current. Formats without alpha start opaque.
func (t *texture) allocate(fn gl.Functions) bool {
	if t.name != 0 {
		return true
	}
	var init []byte
	if t.format != nil && !t.format.HasAlpha() {
		init = make([]byte, t.width*t.height*4)
		for i := 3; i < len(init); i += 4 {
			init[i] = 0xff
		}
	}
	return t.allocateWith(fn, init)
}

func (t *texture) allocateWith(fn gl.Functions, pixels []byte) bool {
	fn.GetError()
	name := fn.GenTexture()
	fn.ActiveTexture(0)
	fn.BindTexture(t.target, name)
	fn.TexImage(t.target, gputypes.TextureFormatRGBA8Unorm, t.width, t.height, pixels)
	if err := fn.GetError(); err != nil {
		fn.BindTexture(t.target, 0)
		fn.DeleteTexture(name)
		Logger().Warn("texture allocation failed", "width", t.width, "height", t.height, "err", err)
		return false
	}
	fn.TexFilter(t.target, t.filter)
	fn.TexWrap(t.target, t.wrap)
	fn.BindTexture(t.target, 0)
	t.name = name
	return true
}

// release deletes the GL texture. A context must be current.
func (t *texture) release(fn gl.Functions) {
	if t.name != 0 && !t.alias {
		fn.DeleteTexture(t.name)
	}
	t.name = 0
	t.alias = false
}

// bind binds the texture to unit and enables its target.
func (t *texture) bind(fn gl.Functions, unit int) {
	fn.ActiveTexture(unit)
	fn.BindTexture(t.target, t.name)
	fn.Enable(t.target.Cap())
}

// unbind disables the texture target on unit.
func (t *texture) unbind(fn gl.Functions, unit int) {
	fn.ActiveTexture(unit)
	fn.BindTexture(t.target, 0)
	fn.Disable(t.target.Cap())
}

// setFilter and setWrap update the bound texture's parameters when they
// change.
func (t *texture) setFilter(fn gl.Functions, f gputypes.FilterMode) {
	if t.filter != f {
		fn.TexFilter(t.target, f)
		t.filter = f
	}
}

func (t *texture) setWrap(fn gl.Functions, w gl.Wrap) {
	if t.wrap != w {
		fn.TexWrap(t.target, w)
		t.wrap = w
	}
}

// hardwareWrap reports whether the texture can sample with w.
func (t *texture) hardwareWrap(features gl.Features, w gl.Wrap) bool {
	switch w {
	case gl.WrapRepeat:
		return t.repeatable
	case gl.WrapMirroredRepeat:
		return t.repeatable && features.Has(gl.FeatureTextureMirroredRepeat)
	case gl.WrapClampToBorder:
		return features.Has(gl.FeatureTextureBorderClamp)
	}
	return true
}
