// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"fmt"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// maxUnits is the hard limit on texture units.
const maxUnits = 8

// unit is the state of one texture unit.
type unit struct {
	enabled  [3]bool
	bound    [3]uint32
	env      gl.TexEnv
	envColor [4]float32
	coords   []float32
	size     int
	stride   int
}

// activeTarget returns the highest-priority enabled target of the unit.
func (u *unit) activeTarget() (gl.TextureTarget, bool) {
	for _, t := range []gl.TextureTarget{gl.TextureTargetRectangle, gl.TextureTarget2D, gl.TextureTarget1D} {
		if u.enabled[t] {
			return t, true
		}
	}
	return 0, false
}

type framebuffer struct {
	target       gl.TextureTarget
	texture      uint32
	renderbuffer uint32
}

type renderbuffer struct {
	width   int
	height  int
	stencil []byte
}

// share holds the objects shared by every drawable created from the
// same root drawable.
type share struct {
	next          uint32
	textures      map[uint32]*texture
	programs      map[uint32]*program
	framebuffers  map[uint32]*framebuffer
	renderbuffers map[uint32]*renderbuffer
}

func newShare() *share {
	return &share{
		textures:      make(map[uint32]*texture),
		programs:      make(map[uint32]*program),
		framebuffers:  make(map[uint32]*framebuffer),
		renderbuffers: make(map[uint32]*renderbuffer),
	}
}

func (s *share) gen() uint32 {
	s.next++
	return s.next
}

// Context is the software GL context. It implements gl.Functions and is
// shared by all drawables created from one root drawable.
type Context struct {
	share *share
	caps  gl.Caps

	current []*Drawable
	read    *Drawable

	blend       bool
	stencilTest bool
	scissorTest bool
	multisample bool
	fpEnabled   bool
	vpEnabled   bool

	units  []unit
	active int

	viewport   [4]int
	scissor    [4]int
	matrixMode gl.MatrixMode
	projection [16]float32
	modelview  [16]float32

	clearColor   [4]float32
	clearStencil int
	colorMask    [4]bool
	color        [4]float32

	blendSrc gputypes.BlendFactor
	blendDst gputypes.BlendFactor

	stencilFunc  gputypes.CompareFunction
	stencilRef   int
	stencilMask  uint32
	stencilWrite uint32
	stencilFail  gl.StencilOp
	stencilZFail gl.StencilOp
	stencilPass  gl.StencilOp

	hint        gl.Hint
	drawBuffer  gl.Buffer
	readBuffer  gl.Buffer
	fbo         uint32
	vertices    []float32
	vertStride  int
	colors      []float32
	colorStride int
	programs    [2]uint32

	err   error
	calls []Call
}

var _ gl.Functions = (*Context)(nil)

func newContext(cfg *config) *Context {
	c := &Context{
		share: newShare(),
		caps: gl.Caps{
			Features:        cfg.features,
			MaxTextureUnits: cfg.maxUnits,
			MaxTextureSize:  cfg.maxSize,
		},
		units:        make([]unit, cfg.maxUnits),
		colorMask:    [4]bool{true, true, true, true},
		color:        [4]float32{1, 1, 1, 1},
		blendSrc:     gputypes.BlendFactorOne,
		blendDst:     gputypes.BlendFactorZero,
		stencilFunc:  gputypes.CompareFunctionAlways,
		stencilMask:  ^uint32(0),
		stencilWrite: ^uint32(0),
	}
	for i := range c.units {
		c.units[i].env = gl.EnvModulate
	}
	identity(&c.projection)
	identity(&c.modelview)
	return c
}

func identity(m *[16]float32) {
	*m = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// setError records the first error until GetError clears it.
func (c *Context) setError(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Context) drawable() *Drawable {
	if len(c.current) == 0 {
		return nil
	}
	return c.current[len(c.current)-1]
}

func (c *Context) activeUnit() *unit {
	return &c.units[c.active]
}

// bound returns the texture bound to target on the active unit.
func (c *Context) bound(target gl.TextureTarget) *texture {
	return c.share.textures[c.activeUnit().bound[target]]
}

// Enable implements gl.Functions.
func (c *Context) Enable(cp gl.Cap) {
	c.record("Enable", cp)
	c.setCap(cp, true)
}

// Disable implements gl.Functions.
func (c *Context) Disable(cp gl.Cap) {
	c.record("Disable", cp)
	c.setCap(cp, false)
}

func (c *Context) setCap(cp gl.Cap, on bool) {
	switch cp {
	case gl.CapBlend:
		c.blend = on
	case gl.CapStencilTest:
		c.stencilTest = on
	case gl.CapScissorTest:
		c.scissorTest = on
	case gl.CapMultisample:
		c.multisample = on
	case gl.CapFragmentProgram:
		c.fpEnabled = on
	case gl.CapVertexProgram:
		c.vpEnabled = on
	case gl.CapTexture1D:
		c.activeUnit().enabled[gl.TextureTarget1D] = on
	case gl.CapTexture2D:
		c.activeUnit().enabled[gl.TextureTarget2D] = on
	case gl.CapTextureRectangle:
		c.activeUnit().enabled[gl.TextureTargetRectangle] = on
	}
}

// GetError implements gl.Functions.
func (c *Context) GetError() error {
	err := c.err
	c.err = nil
	return err
}

// Viewport implements gl.Functions.
func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport", x, y, width, height)
	c.viewport = [4]int{x, y, width, height}
}

// Scissor implements gl.Functions.
func (c *Context) Scissor(x, y, width, height int) {
	c.record("Scissor", x, y, width, height)
	c.scissor = [4]int{x, y, width, height}
}

// MatrixMode implements gl.Functions.
func (c *Context) MatrixMode(m gl.MatrixMode) {
	c.record("MatrixMode", m)
	c.matrixMode = m
}

func (c *Context) matrix() *[16]float32 {
	if c.matrixMode == gl.MatrixProjection {
		return &c.projection
	}
	return &c.modelview
}

// LoadIdentity implements gl.Functions.
func (c *Context) LoadIdentity() {
	c.record("LoadIdentity")
	identity(c.matrix())
}

// LoadMatrix implements gl.Functions.
func (c *Context) LoadMatrix(m *[16]float32) {
	c.record("LoadMatrix")
	*c.matrix() = *m
}

// ClearColor implements gl.Functions.
func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor", r, g, b, a)
	c.clearColor = [4]float32{r, g, b, a}
}

// ClearStencil implements gl.Functions.
func (c *Context) ClearStencil(s int) {
	c.record("ClearStencil", s)
	c.clearStencil = s
}

// Clear implements gl.Functions.
func (c *Context) Clear(mask gl.ClearMask) {
	c.record("Clear", mask)
	t, err := c.drawTarget()
	if err != nil {
		c.setError(err)
		return
	}
	x0, y0, x1, y1 := 0, 0, t.width, t.height
	if c.scissorTest {
		x0, y0, x1, y1 = c.clipScissor(x0, y0, x1, y1)
	}
	px := [4]byte{quantize(c.clearColor[0]), quantize(c.clearColor[1]), quantize(c.clearColor[2]), quantize(c.clearColor[3])}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if mask&gl.ClearColorBuffer != 0 {
				i := (y*t.width + x) * 4
				for k := range 4 {
					if c.colorMask[k] {
						t.color[i+k] = px[k]
					}
				}
			}
			if mask&gl.ClearStencilBuffer != 0 && t.stencil != nil {
				i := y*t.width + x
				w := byte(c.stencilWrite)
				t.stencil[i] = t.stencil[i]&^w | byte(c.clearStencil)&w
			}
		}
	}
}

func (c *Context) clipScissor(x0, y0, x1, y1 int) (int, int, int, int) {
	s := c.scissor
	return max(x0, s[0]), max(y0, s[1]), min(x1, s[0]+s[2]), min(y1, s[1]+s[3])
}

// ColorMask implements gl.Functions.
func (c *Context) ColorMask(r, g, b, a bool) {
	c.record("ColorMask", r, g, b, a)
	c.colorMask = [4]bool{r, g, b, a}
}

// Color implements gl.Functions.
func (c *Context) Color(r, g, b, a float32) {
	c.record("Color", r, g, b, a)
	c.color = [4]float32{r, g, b, a}
}

// BlendFunc implements gl.Functions.
func (c *Context) BlendFunc(src, dst gputypes.BlendFactor) {
	c.record("BlendFunc", src, dst)
	c.blendSrc, c.blendDst = src, dst
}

// StencilFunc implements gl.Functions.
func (c *Context) StencilFunc(fn gputypes.CompareFunction, ref int, mask uint32) {
	c.record("StencilFunc", fn, ref, mask)
	c.stencilFunc, c.stencilRef, c.stencilMask = fn, ref, mask
}

// StencilOp implements gl.Functions.
func (c *Context) StencilOp(fail, zfail, zpass gl.StencilOp) {
	c.record("StencilOp", fail, zfail, zpass)
	c.stencilFail, c.stencilZFail, c.stencilPass = fail, zfail, zpass
}

// StencilMask implements gl.Functions.
func (c *Context) StencilMask(mask uint32) {
	c.record("StencilMask", mask)
	c.stencilWrite = mask
}

// MultisampleHint implements gl.Functions.
func (c *Context) MultisampleHint(h gl.Hint) {
	c.record("MultisampleHint", h)
	c.hint = h
}

// DrawBuffer implements gl.Functions.
func (c *Context) DrawBuffer(b gl.Buffer) {
	c.record("DrawBuffer", b)
	c.drawBuffer = b
}

// ReadBuffer implements gl.Functions.
func (c *Context) ReadBuffer(b gl.Buffer) {
	c.record("ReadBuffer", b)
	c.readBuffer = b
}

// ReadPixels implements gl.Functions.
func (c *Context) ReadPixels(x, y, width, height int, pixels []byte) {
	c.record("ReadPixels", x, y, width, height)
	t, err := c.readTarget()
	if err != nil {
		c.setError(err)
		return
	}
	if !t.contains(x, y, width, height) || len(pixels) < width*height*4 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	for row := range height {
		src := ((y+row)*t.width + x) * 4
		copy(pixels[row*width*4:(row+1)*width*4], t.color[src:src+width*4])
	}
}

// Flush implements gl.Functions.
func (c *Context) Flush() { c.record("Flush") }

// Finish implements gl.Functions.
func (c *Context) Finish() { c.record("Finish") }

// ActiveTexture implements gl.Functions.
func (c *Context) ActiveTexture(u int) {
	c.record("ActiveTexture", u)
	if u < 0 || u >= len(c.units) {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	c.active = u
}

// GenTexture implements gl.Functions.
func (c *Context) GenTexture() uint32 {
	name := c.share.gen()
	c.share.textures[name] = &texture{wrap: gl.WrapRepeat, filter: gputypes.FilterModeNearest}
	c.record("GenTexture", name)
	return name
}

// DeleteTexture implements gl.Functions.
func (c *Context) DeleteTexture(name uint32) {
	c.record("DeleteTexture", name)
	delete(c.share.textures, name)
	for i := range c.units {
		for t := range c.units[i].bound {
			if c.units[i].bound[t] == name {
				c.units[i].bound[t] = 0
			}
		}
	}
}

// BindTexture implements gl.Functions.
func (c *Context) BindTexture(target gl.TextureTarget, name uint32) {
	c.record("BindTexture", target, name)
	if tex, ok := c.share.textures[name]; ok {
		tex.target = target
	} else if name != 0 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	c.activeUnit().bound[target] = name
}

// TexImage implements gl.Functions.
func (c *Context) TexImage(target gl.TextureTarget, format gputypes.TextureFormat, width, height int, pixels []byte) {
	c.record("TexImage", target, format, width, height)
	tex := c.bound(target)
	switch {
	case tex == nil, format != gputypes.TextureFormatRGBA8Unorm:
		c.setError(gl.ErrInvalidOperation)
		return
	case width <= 0 || height <= 0 || width > c.caps.MaxTextureSize || height > c.caps.MaxTextureSize:
		c.setError(gl.ErrOutOfMemory)
		return
	case pixels != nil && len(pixels) < width*height*4:
		c.setError(gl.ErrInvalidOperation)
		return
	}
	tex.width, tex.height = width, height
	tex.pix = make([]byte, width*height*4)
	if pixels != nil {
		copy(tex.pix, pixels)
	}
}

// TexSubImage implements gl.Functions.
func (c *Context) TexSubImage(target gl.TextureTarget, x, y, width, height int, pixels []byte) {
	c.record("TexSubImage", target, x, y, width, height)
	tex := c.bound(target)
	if tex == nil || !tex.allocated() || !tex.contains(x, y, width, height) || len(pixels) < width*height*4 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	for row := range height {
		dst := ((y+row)*tex.width + x) * 4
		copy(tex.pix[dst:dst+width*4], pixels[row*width*4:])
	}
}

// GetTexImage implements gl.Functions.
func (c *Context) GetTexImage(target gl.TextureTarget, pixels []byte) {
	c.record("GetTexImage", target)
	tex := c.bound(target)
	if tex == nil || !tex.allocated() || len(pixels) < len(tex.pix) {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	copy(pixels, tex.pix)
}

// CopyTexSubImage implements gl.Functions.
func (c *Context) CopyTexSubImage(target gl.TextureTarget, xoff, yoff, x, y, width, height int) {
	c.record("CopyTexSubImage", target, xoff, yoff, x, y, width, height)
	tex := c.bound(target)
	src, err := c.readTarget()
	switch {
	case err != nil:
		c.setError(err)
		return
	case tex == nil || !tex.allocated() || !tex.contains(xoff, yoff, width, height) || !src.contains(x, y, width, height):
		c.setError(gl.ErrInvalidOperation)
		return
	}
	for row := range height {
		s := ((y+row)*src.width + x) * 4
		d := ((yoff+row)*tex.width + xoff) * 4
		copy(tex.pix[d:d+width*4], src.color[s:s+width*4])
	}
}

func (t *texture) contains(x, y, width, height int) bool {
	return x >= 0 && y >= 0 && width >= 0 && height >= 0 && x+width <= t.width && y+height <= t.height
}

// TexFilter implements gl.Functions.
func (c *Context) TexFilter(target gl.TextureTarget, mode gputypes.FilterMode) {
	c.record("TexFilter", target, mode)
	if tex := c.bound(target); tex != nil {
		tex.filter = mode
	}
}

// TexWrap implements gl.Functions.
func (c *Context) TexWrap(target gl.TextureTarget, wrap gl.Wrap) {
	c.record("TexWrap", target, wrap)
	switch {
	case wrap == gl.WrapClampToBorder && !c.caps.Features.Has(gl.FeatureTextureBorderClamp),
		wrap == gl.WrapMirroredRepeat && !c.caps.Features.Has(gl.FeatureTextureMirroredRepeat),
		target == gl.TextureTargetRectangle && (wrap == gl.WrapRepeat || wrap == gl.WrapMirroredRepeat):
		c.setError(gl.ErrInvalidOperation)
		return
	}
	if tex := c.bound(target); tex != nil {
		tex.wrap = wrap
	}
}

// TexEnv implements gl.Functions.
func (c *Context) TexEnv(env *gl.TexEnv) {
	c.record("TexEnv", env.Mode)
	if env.Mode == gl.TexEnvCombine && !c.caps.Features.Has(gl.FeatureTextureEnvCombine) {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	c.activeUnit().env = *env
}

// TexEnvColor implements gl.Functions.
func (c *Context) TexEnvColor(r, g, b, a float32) {
	c.record("TexEnvColor", r, g, b, a)
	c.activeUnit().envColor = [4]float32{r, g, b, a}
}

// VertexPointer implements gl.Functions.
func (c *Context) VertexPointer(data []float32, stride int) {
	c.record("VertexPointer", len(data), stride)
	c.vertices, c.vertStride = data, max(stride, 2)
}

// TexCoordPointer implements gl.Functions.
func (c *Context) TexCoordPointer(u int, data []float32, size, stride int) {
	c.record("TexCoordPointer", u, len(data), size, stride)
	if u < 0 || u >= len(c.units) || size < 1 || size > 4 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	c.units[u].coords, c.units[u].size, c.units[u].stride = data, size, max(stride, size)
}

// ColorPointer implements gl.Functions.
func (c *Context) ColorPointer(data []float32, stride int) {
	c.record("ColorPointer", len(data), stride)
	c.colors, c.colorStride = data, max(stride, 4)
}

// DrawArrays implements gl.Functions.
func (c *Context) DrawArrays(mode gl.Primitive, first, count int) {
	c.record("DrawArrays", mode, first, count)
	t, err := c.drawTarget()
	if err != nil {
		c.setError(err)
		return
	}
	if first < 0 || (first+count)*c.vertStride > len(c.vertices) {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	verts := make([]vertex, count)
	for i := range verts {
		verts[i] = c.fetchVertex(first + i)
	}
	r := c.newRasterizer(t)
	assemble(mode, verts, r.triangle)
}

// GenProgram implements gl.Functions.
func (c *Context) GenProgram() uint32 {
	name := c.share.gen()
	c.share.programs[name] = &program{}
	c.record("GenProgram", name)
	return name
}

// DeleteProgram implements gl.Functions.
func (c *Context) DeleteProgram(name uint32) {
	c.record("DeleteProgram", name)
	delete(c.share.programs, name)
	for i, p := range c.programs {
		if p == name {
			c.programs[i] = 0
		}
	}
}

// BindProgram implements gl.Functions.
func (c *Context) BindProgram(target gl.ProgramTarget, name uint32) {
	c.record("BindProgram", target, name)
	if _, ok := c.share.programs[name]; !ok && name != 0 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	c.programs[target] = name
}

// ProgramSource implements gl.Functions.
func (c *Context) ProgramSource(target gl.ProgramTarget, lang gl.ShaderLanguage, src []byte) error {
	c.record("ProgramSource", target, lang, len(src))
	p := c.share.programs[c.programs[target]]
	if p == nil {
		c.setError(gl.ErrInvalidOperation)
		return gl.ErrInvalidOperation
	}
	p.target, p.lang = target, lang
	p.source = append([]byte(nil), src...)
	p.code = nil
	p.valid = false

	var err error
	switch {
	case lang == gl.LanguageSPIRV:
		err = validateSPIRV(src, c.caps.Features)
	case target == gl.ProgramFragment:
		if !c.caps.Features.Has(gl.FeatureFragmentProgram) {
			err = gl.ErrUnsupported
			break
		}
		p.code, err = parseFragmentProgram(string(src), len(c.units))
	default:
		if !c.caps.Features.Has(gl.FeatureVertexProgram) {
			err = gl.ErrUnsupported
			break
		}
		err = validateVertexProgram(string(src))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", gl.ErrProgramRejected, err)
	}
	p.valid = true
	return nil
}

// ProgramLocalParameter implements gl.Functions.
func (c *Context) ProgramLocalParameter(target gl.ProgramTarget, index int, v [4]float32) {
	c.record("ProgramLocalParameter", target, index, v)
	p := c.share.programs[c.programs[target]]
	if p == nil || index < 0 || index >= maxLocals {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	p.locals[index] = v
}

// GenFramebuffer implements gl.Functions.
func (c *Context) GenFramebuffer() uint32 {
	name := c.share.gen()
	c.share.framebuffers[name] = &framebuffer{}
	c.record("GenFramebuffer", name)
	return name
}

// DeleteFramebuffer implements gl.Functions.
func (c *Context) DeleteFramebuffer(name uint32) {
	c.record("DeleteFramebuffer", name)
	delete(c.share.framebuffers, name)
	if c.fbo == name {
		c.fbo = 0
	}
}

// BindFramebuffer implements gl.Functions.
func (c *Context) BindFramebuffer(name uint32) {
	c.record("BindFramebuffer", name)
	if name != 0 {
		if !c.caps.Features.Has(gl.FeatureFramebufferObject) {
			c.setError(gl.ErrUnsupported)
			return
		}
		if _, ok := c.share.framebuffers[name]; !ok {
			c.setError(gl.ErrInvalidOperation)
			return
		}
	}
	c.fbo = name
}

// FramebufferTexture implements gl.Functions.
func (c *Context) FramebufferTexture(target gl.TextureTarget, tex uint32) {
	c.record("FramebufferTexture", target, tex)
	fb := c.share.framebuffers[c.fbo]
	if fb == nil {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	fb.target, fb.texture = target, tex
}

// GenRenderbuffer implements gl.Functions.
func (c *Context) GenRenderbuffer() uint32 {
	name := c.share.gen()
	c.share.renderbuffers[name] = &renderbuffer{}
	c.record("GenRenderbuffer", name)
	return name
}

// DeleteRenderbuffer implements gl.Functions.
func (c *Context) DeleteRenderbuffer(name uint32) {
	c.record("DeleteRenderbuffer", name)
	delete(c.share.renderbuffers, name)
}

// RenderbufferStencil implements gl.Functions.
func (c *Context) RenderbufferStencil(name uint32, width, height int) {
	c.record("RenderbufferStencil", name, width, height)
	rb := c.share.renderbuffers[name]
	if rb == nil || width <= 0 || height <= 0 {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	rb.width, rb.height = width, height
	rb.stencil = make([]byte, width*height)
}

// FramebufferRenderbuffer implements gl.Functions.
func (c *Context) FramebufferRenderbuffer(name uint32) {
	c.record("FramebufferRenderbuffer", name)
	fb := c.share.framebuffers[c.fbo]
	if fb == nil {
		c.setError(gl.ErrInvalidOperation)
		return
	}
	fb.renderbuffer = name
}

// CheckFramebufferStatus implements gl.Functions.
func (c *Context) CheckFramebufferStatus() error {
	c.record("CheckFramebufferStatus")
	_, err := c.drawTarget()
	return err
}

// target is a color buffer with an optional stencil buffer.
type target struct {
	width   int
	height  int
	color   []byte
	stencil []byte
}

func (t *target) contains(x, y, width, height int) bool {
	return x >= 0 && y >= 0 && width >= 0 && height >= 0 && x+width <= t.width && y+height <= t.height
}

// drawTarget resolves the buffers drawn to: the bound framebuffer object
// or the current drawable.
func (c *Context) drawTarget() (*target, error) {
	if c.fbo != 0 {
		return c.framebufferTarget(c.fbo)
	}
	d := c.drawable()
	if d == nil {
		return nil, gl.ErrInvalidOperation
	}
	return d.target(c.drawBuffer), nil
}

// readTarget resolves the buffer read by ReadPixels and CopyTexSubImage.
func (c *Context) readTarget() (*target, error) {
	if c.fbo != 0 {
		return c.framebufferTarget(c.fbo)
	}
	if c.read != nil {
		return c.read.target(c.readBuffer), nil
	}
	d := c.drawable()
	if d == nil {
		return nil, gl.ErrInvalidOperation
	}
	return d.target(c.readBuffer), nil
}

func (c *Context) framebufferTarget(name uint32) (*target, error) {
	fb := c.share.framebuffers[name]
	if fb == nil {
		return nil, gl.ErrFramebufferIncomplete
	}
	tex := c.share.textures[fb.texture]
	if tex == nil || !tex.allocated() {
		return nil, gl.ErrFramebufferIncomplete
	}
	t := &target{width: tex.width, height: tex.height, color: tex.pix}
	if fb.renderbuffer != 0 {
		rb := c.share.renderbuffers[fb.renderbuffer]
		if rb == nil || rb.width != tex.width || rb.height != tex.height {
			return nil, gl.ErrFramebufferIncomplete
		}
		t.stencil = rb.stencil
	}
	return t, nil
}
