package ggl

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/ggl/internal/program"
)

// surfaceKind classifies an operand by how it can be sampled.
type surfaceKind uint8

const (
	kindNull surfaceKind = iota
	kindARGB
	kindARGBC
	kindARGBF
	kindSolid
	kindSolidC
	kindNotSupported
)

var kindNames = [...]string{"null", "argb", "argbc", "argbf", "solid", "solidc", "not-supported"}

func (k surfaceKind) String() string { return kindNames[k] }

// classify returns the kind of s as a source or, with asMask, as a mask.
// It has no side effects.
func (d *Device) classify(s *Surface, asMask bool) surfaceKind {
	switch {
	case s == nil:
		return kindNull
	case s.isSolid():
		if asMask && s.componentAlpha {
			return kindSolidC
		}
		return kindSolid
	case s.filter.gradient():
		if !d.hasPrograms() {
			return kindNotSupported
		}
		return kindARGBF
	case !s.fillAchievable(d.features):
		return kindNotSupported
	case s.filter.programmed():
		if !d.hasPrograms() {
			return kindNotSupported
		}
		return kindARGBF
	case asMask && s.componentAlpha:
		return kindARGBC
	}
	return kindARGB
}

// fillAchievable reports whether the fill mode of a textured surface can
// be sampled, in hardware or by tiling untransformed surfaces.
func (s *Surface) fillAchievable(features gl.Features) bool {
	t := &s.texture
	tileable := s.transform == nil && !s.filter.programmed()
	switch s.fill {
	case FillNearest:
		return !t.padded
	case FillRepeat:
		return t.repeatable || tileable
	case FillReflect:
		return t.hardwareWrap(features, gl.WrapMirroredRepeat) || tileable
	}
	return true
}

// combineType is the strategy for a (source, mask) kind pair.
type combineType uint8

const (
	combineNA combineType = iota
	combineARGB
	combineARGBARGB
	combineARGBARGBC
	combineARGBARGBF
	combineARGBSolid
	combineARGBSolidC
	combineARGBF
	combineARGBFARGB
	combineARGBFARGBC
	combineARGBFSolid
	combineARGBFSolidC
	combineSolid
	combineSolidARGB
	combineSolidARGBC
	combineSolidARGBF
	combineSolidSolid
	combineSolidSolidC

	combineCount
)

var (
	argbRow  = [kindNotSupported]combineType{combineARGB, combineARGBARGB, combineARGBARGBC, combineARGBARGBF, combineARGBSolid, combineARGBSolidC}
	argbfRow = [kindNotSupported]combineType{combineARGBF, combineARGBFARGB, combineARGBFARGBC, combineNA, combineARGBFSolid, combineARGBFSolidC}
	solidRow = [kindNotSupported]combineType{combineSolid, combineSolidARGB, combineSolidARGBC, combineSolidARGBF, combineSolidSolid, combineSolidSolidC}
)

// combineTable is indexed by source kind, then mask kind.
var combineTable = [kindNotSupported][kindNotSupported]combineType{
	kindNull:   {},
	kindARGB:   argbRow,
	kindARGBC:  argbRow,
	kindARGBF:  argbfRow,
	kindSolid:  solidRow,
	kindSolidC: solidRow,
}

// combineSetup configures the texture units, environments and program of
// each strategy. A setup returning false makes the strategy unavailable.
var combineSetup = [combineCount]func(c *compositeOp) bool{
	combineARGB:        (*compositeOp).setupARGB,
	combineARGBARGB:    (*compositeOp).setupARGBARGB,
	combineARGBARGBC:   (*compositeOp).setupARGBARGB,
	combineARGBARGBF:   (*compositeOp).setupARGBARGBF,
	combineARGBSolid:   (*compositeOp).setupARGBSolid,
	combineARGBSolidC:  (*compositeOp).setupARGBSolid,
	combineARGBF:       (*compositeOp).setupARGBF,
	combineARGBFARGB:   (*compositeOp).setupARGBFARGB,
	combineARGBFARGBC:  (*compositeOp).setupARGBFARGB,
	combineARGBFSolid:  (*compositeOp).setupARGBF,
	combineARGBFSolidC: (*compositeOp).setupARGBF,
	combineSolid:       (*compositeOp).setupSolid,
	combineSolidARGB:   (*compositeOp).setupSolidARGB,
	combineSolidARGBC:  (*compositeOp).setupSolidARGB,
	combineSolidARGBF:  (*compositeOp).setupSolidARGBF,
	combineSolidSolid:  (*compositeOp).setupSolid,
	combineSolidSolidC: (*compositeOp).setupSolid,
}

// operand is a source or mask of one composite call. Its surface is
// sampled at T*(P + d) for destination point P.
type operand struct {
	s      *Surface
	kind   surfaceKind
	dx, dy float64
	color  blend.Pixel
}

func (o *operand) textured() bool {
	return o.kind == kindARGB || o.kind == kindARGBC || o.kind == kindARGBF
}

func (o *operand) solid() bool {
	return o.kind == kindSolid || o.kind == kindSolidC
}

// programKind returns the program family evaluating a kindARGBF operand.
func (o *operand) programKind() program.Kind {
	switch o.s.filter {
	case FilterLinearGradient:
		return program.KindLinearGradient
	case FilterRadialGradient:
		return program.KindRadialGradient
	}
	return program.KindConvolution
}

func (o *operand) programVariant() uint8 {
	if o.s.filter.gradient() {
		return gradientWrap(o.s.fill)
	}
	if o.s.params != nil && o.s.params.simple {
		return program.ConvolutionSimple
	}
	return program.ConvolutionGeneral
}

// texture returns the texture sampled for o: the gradient ramp or the
// surface image.
func (o *operand) texture() *texture {
	if o.s.filter.gradient() {
		return &o.s.params.ramp
	}
	return &o.s.texture
}

// sourceMatrix maps destination coordinates to surface pixels.
func (o *operand) sourceMatrix() Matrix {
	m := Translate(o.dx, o.dy)
	if o.s.transform != nil {
		m = o.s.transform.Multiply(m)
	}
	return m
}

// binding is a texture bound to one unit for a composite call.
type binding struct {
	o      *operand
	tex    *texture
	matrix Matrix
	wrap   gl.Wrap
	tiled  bool
}

type programLocal struct {
	index int
	v     [4]float32
}

// compositeOp is the resolved strategy of one composite call.
type compositeOp struct {
	dev   *Device
	op    Operator
	typ   combineType
	src   operand
	mask  operand
	alpha uint16

	units   [2]*binding
	env     [2]*gl.TexEnv
	primary blend.Pixel

	// component is set for component-alpha masks. The alpha fields hold
	// the environment producing source alpha times mask per channel.
	component    bool
	alphaMode    bool
	alphaEnv     [2]*gl.TexEnv
	alphaPrimary blend.Pixel

	program uint32
	vertex  uint32
	locals  []programLocal

	// xDst and yDst anchor custom geometry.
	xDst, yDst float64
}

func splat(a uint16) blend.Pixel {
	return blend.Pixel{R: a, G: a, B: a, A: a}
}

// newCompositeOp classifies the operands and resolves the strategy. It
// returns nil and the status to record when the call cannot be done; a
// nil op with StatusSuccess is a silent no-op.
func (d *Device) newCompositeOp(op Operator, src, mask *Surface, p placement, alpha uint16) (*compositeOp, Status) {
	c := &compositeOp{
		dev:   d,
		op:    op,
		alpha: alpha,
		src: operand{
			s:    src,
			kind: d.classify(src, false),
			dx:   float64(p.xSrc - p.xDst),
			dy:   float64(p.ySrc - p.yDst),
		},
		mask: operand{
			s:    mask,
			kind: d.classify(mask, true),
			dx:   float64(p.xMask - p.xDst),
			dy:   float64(p.yMask - p.yDst),
		},
	}
	if c.src.kind == kindNotSupported || c.mask.kind == kindNotSupported {
		return nil, StatusNotSupported
	}
	for _, o := range []*operand{&c.src, &c.mask} {
		switch {
		case o.solid():
			o.color = o.s.ensureSolid()
		case o.textured() && o.s.filter.gradient():
			ok := false
			d.withContext(func(fn gl.Functions) { ok = o.s.params.ensureRamp(fn) })
			if !ok {
				return nil, StatusSuccess
			}
		case o.textured():
			if !o.s.sync() {
				return nil, StatusSuccess
			}
		}
	}
	c.component = c.mask.kind == kindARGBC || c.mask.kind == kindSolidC
	c.typ = combineTable[c.src.kind][c.mask.kind]
	if setup := combineSetup[c.typ]; setup == nil || !setup(c) {
		c.typ = combineNA
	}
	Logger().Debug("composite strategy",
		"op", op.String(),
		"src", c.src.kind.String(),
		"mask", c.mask.kind.String(),
		"type", int(c.typ),
		"program", c.program != 0)
	return c, StatusSuccess
}

// bind places o on unit u.
func (c *compositeOp) bind(u int, o *operand) {
	t := o.texture()
	b := &binding{o: o, tex: t, wrap: gl.WrapClampToEdge}
	b.matrix = o.sourceMatrix()
	if !o.s.filter.gradient() {
		b.matrix = Scale(t.scaleX, t.scaleY).Multiply(b.matrix)
		b.wrap, b.tiled = c.wrapFor(o.s, t)
	}
	c.units[u] = b
}

// wrapFor returns the wrap mode sampling s, and whether its fill must be
// emulated by tiling.
func (c *compositeOp) wrapFor(s *Surface, t *texture) (gl.Wrap, bool) {
	f := c.dev.features
	switch s.fill {
	case FillRepeat:
		if t.hardwareWrap(f, gl.WrapRepeat) {
			return gl.WrapRepeat, false
		}
		return gl.WrapClampToEdge, true
	case FillReflect:
		if t.hardwareWrap(f, gl.WrapMirroredRepeat) {
			return gl.WrapMirroredRepeat, false
		}
		return gl.WrapClampToEdge, true
	case FillTransparent:
		if s.rotated() && f.Has(gl.FeatureTextureBorderClamp) {
			return gl.WrapClampToBorder, false
		}
	}
	return gl.WrapClampToEdge, false
}

// useProgram compiles the fragment program for key, and the vertex
// program when the context has them.
func (c *compositeOp) useProgram(key program.Key) bool {
	d := c.dev
	if !d.hasPrograms() {
		return false
	}
	var err error
	d.withContext(func(fn gl.Functions) {
		c.program, err = d.programs.Fragment(fn, key)
		if err == nil && d.features.Has(gl.FeatureVertexProgram) {
			c.vertex, err = d.programs.Vertex(fn)
		}
	})
	if err != nil || c.program == 0 {
		c.program, c.vertex = 0, 0
		return false
	}
	return true
}

// operandLocals returns the program parameters of a kindARGBF operand.
func operandLocals(o *operand) []programLocal {
	p := o.s.params
	if o.s.filter.gradient() {
		return []programLocal{
			{program.LocalGradient, p.gradientLocal(o.s.filter)},
			{program.LocalRamp, rampLocal()},
		}
	}
	k := p.kernelLocals(&o.s.texture)
	return []programLocal{
		{program.LocalOffset, k[program.LocalOffset]},
		{program.LocalKernel, k[program.LocalKernel]},
		{program.LocalKernel + 1, k[program.LocalKernel+1]},
		{program.LocalKernel + 2, k[program.LocalKernel+2]},
	}
}

func (c *compositeOp) combineEnv() bool {
	return c.dev.features.Has(gl.FeatureTextureEnvCombine)
}

func (c *compositeOp) setupARGB() bool {
	c.bind(0, &c.src)
	c.primary = splat(c.alpha)
	if c.alpha == 0xffff {
		c.env[0] = &gl.EnvReplace
	} else {
		c.env[0] = &gl.EnvModulate
	}
	return true
}

func (c *compositeOp) setupARGBARGB() bool {
	if c.dev.units() < 2 {
		return false
	}
	c.bind(0, &c.src)
	c.bind(1, &c.mask)
	c.primary = splat(c.alpha)
	if c.combineEnv() {
		c.env[0] = &gl.EnvModulate
		c.env[1] = &gl.EnvPreviousInTextureAlpha
		if c.component {
			c.env[1] = &gl.EnvPreviousInTextureColor
			c.alphaMode = true
			c.alphaEnv = [2]*gl.TexEnv{&gl.EnvPrimaryInTextureAlpha, &gl.EnvPreviousInTextureColor}
			c.alphaPrimary = c.primary
		}
		return true
	}
	return c.useProgram(program.Key{
		Kind:      program.KindCombine,
		Unit:      0,
		Target:    c.units[0].tex.target,
		Other:     program.OtherTexture(c.units[1].tex.target),
		Component: c.component,
	})
}

func (c *compositeOp) setupARGBARGBF() bool {
	if c.dev.units() < 2 {
		return false
	}
	c.bind(0, &c.src)
	c.bind(1, &c.mask)
	c.primary = splat(c.alpha)
	c.locals = operandLocals(&c.mask)
	return c.useProgram(program.Key{
		Kind:    c.mask.programKind(),
		Variant: c.mask.programVariant(),
		Unit:    1,
		Target:  c.units[1].tex.target,
		Other:   program.OtherTexture(c.units[0].tex.target),
		Mask:    true,
	})
}

// maskedPrimary folds a solid mask and the opacity into a constant.
func (c *compositeOp) maskedPrimary() blend.Pixel {
	switch c.mask.kind {
	case kindSolid:
		return splat(blend.ShortMul(c.alpha, c.mask.color.A))
	case kindSolidC:
		return c.mask.color.Scale(c.alpha)
	}
	return splat(c.alpha)
}

func (c *compositeOp) setupARGBSolid() bool {
	c.bind(0, &c.src)
	c.env[0] = &gl.EnvModulate
	c.primary = c.maskedPrimary()
	if c.component && c.combineEnv() {
		c.alphaMode = true
		c.alphaEnv[0] = &gl.EnvPrimaryInTextureAlpha
		c.alphaPrimary = c.primary
	}
	return true
}

// setupARGBF handles a programmed source without a mask or with a solid
// one.
func (c *compositeOp) setupARGBF() bool {
	c.bind(0, &c.src)
	c.primary = c.maskedPrimary()
	c.locals = operandLocals(&c.src)
	return c.useProgram(program.Key{
		Kind:    c.src.programKind(),
		Variant: c.src.programVariant(),
		Target:  c.units[0].tex.target,
	})
}

func (c *compositeOp) setupARGBFARGB() bool {
	if c.dev.units() < 2 {
		return false
	}
	c.bind(0, &c.src)
	c.bind(1, &c.mask)
	c.primary = splat(c.alpha)
	c.locals = operandLocals(&c.src)
	return c.useProgram(program.Key{
		Kind:      c.src.programKind(),
		Variant:   c.src.programVariant(),
		Target:    c.units[0].tex.target,
		Other:     program.OtherTexture(c.units[1].tex.target),
		Component: c.component,
	})
}

// setupSolid handles a solid source with no mask or a solid one. No
// texture is sampled.
func (c *compositeOp) setupSolid() bool {
	s := c.src.color
	switch c.mask.kind {
	case kindSolid:
		c.primary = s.Scale(blend.ShortMul(c.mask.color.A, c.alpha))
	case kindSolidC:
		c.primary = s.In(c.mask.color).Scale(c.alpha)
		c.alphaMode = true
		c.alphaPrimary = c.mask.color.Scale(blend.ShortMul(s.A, c.alpha))
	default:
		c.primary = s.Scale(c.alpha)
	}
	return true
}

func (c *compositeOp) setupSolidARGB() bool {
	c.bind(0, &c.mask)
	s := c.src.color
	if c.combineEnv() {
		c.primary = s.Scale(c.alpha)
		c.env[0] = &gl.EnvPrimaryInTextureAlpha
		if c.component {
			c.env[0] = &gl.EnvPrimaryInTextureColor
			c.alphaMode = true
			c.alphaEnv[0] = &gl.EnvPrimaryInTextureColor
			c.alphaPrimary = splat(blend.ShortMul(s.A, c.alpha))
		}
		return true
	}
	c.primary = splat(c.alpha)
	c.locals = []programLocal{{program.LocalSolid, pixelFloats(s)}}
	return c.useProgram(program.Key{
		Kind:      program.KindSolid,
		Unit:      1,
		Other:     program.OtherTexture(c.units[0].tex.target),
		Component: c.component,
	})
}

func (c *compositeOp) setupSolidARGBF() bool {
	c.bind(0, &c.mask)
	c.primary = c.src.color.Scale(c.alpha)
	c.locals = operandLocals(&c.mask)
	return c.useProgram(program.Key{
		Kind:    c.mask.programKind(),
		Variant: c.mask.programVariant(),
		Target:  c.units[0].tex.target,
		Mask:    true,
	})
}

func pixelFloats(p blend.Pixel) [4]float32 {
	return [4]float32{blend.ToFloat(p.R), blend.ToFloat(p.G), blend.ToFloat(p.B), blend.ToFloat(p.A)}
}

// textures returns the number of units the strategy samples.
func (c *compositeOp) textures() int {
	switch {
	case c.units[1] != nil:
		return 2
	case c.units[0] != nil:
		return 1
	}
	return 0
}
