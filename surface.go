package ggl

import (
	"fmt"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/gputypes"
)

// Fill selects how a surface is sampled outside its bounds.
type Fill uint8

// Fill modes.
const (
	// FillTransparent samples transparent black outside the surface.
	FillTransparent Fill = iota

	// FillNearest extends the edge pixels.
	FillNearest

	// FillRepeat tiles the surface.
	FillRepeat

	// FillReflect tiles the surface, mirroring every other tile.
	FillReflect
)

// PolygonEdge selects how polygon edges are rasterized.
type PolygonEdge uint8

// Polygon edges.
const (
	EdgeSharp PolygonEdge = iota
	EdgeSmooth
)

// EdgeHint selects the quality of smooth edges.
type EdgeHint uint8

// Edge hints.
const (
	HintFast EdgeHint = iota
	HintGood
	HintBest
)

// Geometry replaces the destination quad of Composite with client
// vertices. Vertices are relative to the destination origin of the call.
type Geometry struct {
	Primitive gl.Primitive
	Vertices  []PointF
}

type solidCache struct {
	color blend.Pixel
	gen   uint64
	valid bool
}

// Surface is a rectangle of pixels. It is exactly one of: backed by a
// texture, backed by an attached drawable, or programmatic (a solid
// color or gradient computed on the fly).
type Surface struct {
	dev    *Device
	width  int
	height int
	format *gl.Format

	texture      texture
	programmatic *programmatic

	// drawable is an attached window drawable. pbuf is a pbuffer created
	// to render a texture surface when framebuffer objects are missing.
	drawable   gl.Drawable
	pbuf       gl.Drawable
	seed       bool
	fbo        uint32
	stencilRB  uint32
	drawBuffer gl.Buffer
	readBuffer gl.Buffer

	transform    *Matrix
	inverse      Matrix
	inverseValid bool

	filter         Filter
	params         *filterParams
	fill           Fill
	componentAlpha bool
	edge           PolygonEdge
	hint           EdgeHint
	opacity        uint16
	geometry       *Geometry

	clipDepth [2]int

	// damage is the area rendered since the texture was last brought up
	// to date. gen counts content changes.
	damage Box
	gen    uint64
	solid  solidCache

	refs      int
	destroyed bool
	status    statusSet
}

func newSurface(dev *Device, format *gl.Format, width, height int) *Surface {
	return &Surface{
		dev:     dev,
		width:   width,
		height:  height,
		format:  format,
		filter:  FilterNearest,
		fill:    FillTransparent,
		hint:    HintGood,
		opacity: 0xffff,
		refs:    1,
	}
}

// NewSurface creates an offscreen surface. Texture memory is allocated on
// first use.
func NewSurface(dev *Device, format *gl.Format, width, height int) (*Surface, error) {
	switch {
	case dev == nil || format == nil:
		return nil, fmt.Errorf("ggl: new surface: %w", StatusNullPointer)
	case width < 1 || height < 1:
		return nil, fmt.Errorf("ggl: invalid surface size %dx%d: %w", width, height, StatusBadCoordinate)
	case width > dev.caps.MaxTextureSize || height > dev.caps.MaxTextureSize:
		return nil, fmt.Errorf("ggl: surface %dx%d exceeds %d: %w", width, height, dev.caps.MaxTextureSize, StatusNoMemory)
	}
	s := newSurface(dev, format, width, height)
	s.texture = newTexture(dev.features, format, width, height)
	return s, nil
}

// NewWindowSurface creates a surface rendering to drawable, which must
// share the device context.
func NewWindowSurface(dev *Device, format *gl.Format, drawable gl.Drawable, buffer gl.Buffer) (*Surface, error) {
	if drawable == nil {
		return nil, fmt.Errorf("ggl: new window surface: %w", StatusNullPointer)
	}
	s, err := NewSurface(dev, format, drawable.Width(), drawable.Height())
	if err != nil {
		return nil, err
	}
	s.Attach(drawable, buffer)
	if st := s.Status(); st != StatusSuccess {
		s.Destroy()
		return nil, fmt.Errorf("ggl: attach drawable: %w", st)
	}
	return s, nil
}

// CreateSimilar creates an offscreen surface on the same device.
func (s *Surface) CreateSimilar(format *gl.Format, width, height int) (*Surface, error) {
	return NewSurface(s.dev, format, width, height)
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Format returns the surface format.
func (s *Surface) Format() *gl.Format { return s.format }

// Device returns the device the surface was created on.
func (s *Surface) Device() *Device { return s.dev }

// Status pops one pending status, most severe first. It returns
// StatusSuccess when none is pending.
func (s *Surface) Status() Status {
	return s.status.pop()
}

func (s *Surface) bounds() Box {
	return Box{0, 0, s.width, s.height}
}

func (s *Surface) notSupported(what string) {
	Logger().Warn("operation not supported", "op", what, "width", s.width, "height", s.height)
	s.status.add(StatusNotSupported)
}

// Reference adds a reference to s and returns it.
func (s *Surface) Reference() *Surface {
	s.refs++
	return s
}

// Destroy drops a reference. The last one releases the GPU resources.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.refs--
	if s.refs > 0 {
		return
	}
	s.destroyed = true
	s.dev.withContext(func(fn gl.Functions) {
		if s.fbo != 0 {
			fn.DeleteFramebuffer(s.fbo)
			fn.DeleteRenderbuffer(s.stencilRB)
			s.fbo, s.stencilRB = 0, 0
		}
		s.texture.release(fn)
		if s.params != nil {
			s.params.ramp.release(fn)
		}
	})
	if s.pbuf != nil {
		s.pbuf.Destroy()
		s.pbuf = nil
	}
	s.drawable = nil
}

// Attach makes s render to drawable's buffer. The drawable is resized to
// the surface when the sizes differ.
func (s *Surface) Attach(drawable gl.Drawable, buffer gl.Buffer) {
	switch {
	case drawable == nil:
		s.status.add(StatusNullPointer)
		return
	case s.programmatic != nil || drawable.GL() != s.dev.fn:
		s.notSupported("attach")
		return
	}
	if drawable.Width() != s.width || drawable.Height() != s.height {
		if err := drawable.UpdateSize(s.width, s.height); err != nil {
			Logger().Warn("drawable resize failed", "err", err)
			s.status.add(StatusNotSupported)
			return
		}
	}
	s.drawable = drawable
	s.drawBuffer, s.readBuffer = buffer, buffer
	s.clipDepth = [2]int{}
	s.markDamage(s.bounds())
}

// Detach stops rendering to the attached drawable. The surface keeps the
// drawable's last content in its texture.
func (s *Surface) Detach() {
	if s.drawable == nil {
		return
	}
	s.sync()
	s.drawable = nil
	s.clipDepth = [2]int{}
}

// Drawable returns the attached drawable, or nil.
func (s *Surface) Drawable() gl.Drawable {
	return s.drawable
}

// SetDrawBuffer selects the color buffer of an attached drawable that is
// rendered to.
func (s *Surface) SetDrawBuffer(b gl.Buffer) {
	s.drawBuffer = b
}

// SetReadBuffer selects the color buffer of an attached drawable that is
// read by GetPixels and CopyArea.
func (s *Surface) SetReadBuffer(b gl.Buffer) {
	s.readBuffer = b
}

// SwapBuffers swaps the attached drawable's buffers.
func (s *Surface) SwapBuffers() {
	if s.drawable == nil {
		s.notSupported("swap buffers")
		return
	}
	if s.drawable.SwapBuffers() {
		s.markDamage(s.bounds())
	}
}

// SetTransform sets the matrix mapping destination coordinates into the
// surface. Nil or the identity removes the transform. A singular matrix
// is rejected with StatusInvalidMatrix and leaves the transform unchanged.
func (s *Surface) SetTransform(m *Matrix) {
	if m == nil || m.IsIdentity() {
		s.transform = nil
		s.inverseValid = false
		return
	}
	if _, ok := m.Invert(); !ok {
		s.status.add(StatusInvalidMatrix)
		return
	}
	t := *m
	s.transform = &t
	s.inverseValid = false
}

// Transform returns the surface transform. ok is false when none is set.
func (s *Surface) Transform() (m Matrix, ok bool) {
	if s.transform == nil {
		return Identity(), false
	}
	return *s.transform, true
}

// inverseTransform returns the cached inverse of the transform.
func (s *Surface) inverseTransform() Matrix {
	if s.transform == nil {
		return Identity()
	}
	if !s.inverseValid {
		s.inverse, _ = s.transform.Invert()
		s.inverseValid = true
	}
	return s.inverse
}

func (s *Surface) rotated() bool {
	return s.transform != nil && s.transform.HasRotation()
}

// SetFill sets the fill mode.
func (s *Surface) SetFill(f Fill) {
	s.fill = f
}

// SetComponentAlpha selects per-channel alpha when s is used as a mask.
func (s *Surface) SetComponentAlpha(on bool) {
	s.componentAlpha = on
}

// SetPolygonEdge sets how polygon edges are drawn into s.
func (s *Surface) SetPolygonEdge(edge PolygonEdge, hint EdgeHint) {
	s.edge, s.hint = edge, hint
}

// SetPolygonOpacity sets the opacity applied by polygon fills into s.
func (s *Surface) SetPolygonOpacity(opacity uint16) {
	s.opacity = opacity
}

// SetGeometry replaces the destination quad of Composite calls with g.
// Nil restores the quad.
func (s *Surface) SetGeometry(g *Geometry) {
	if g == nil {
		s.geometry = nil
		return
	}
	c := *g
	c.Vertices = append([]PointF(nil), g.Vertices...)
	s.geometry = &c
}

// infinite reports whether s has a value everywhere.
func (s *Surface) infinite() bool {
	return s.programmatic != nil || s.filter.gradient() || s.fill != FillTransparent
}

// markDamage records that b was rendered.
func (s *Surface) markDamage(b Box) {
	b = b.Intersect(s.bounds())
	if b.Empty() {
		return
	}
	s.damage = s.damage.Union(b)
	s.gen++
}

// renderBuffer returns the color buffer rendered to.
func (s *Surface) renderBuffer() gl.Buffer {
	if s.drawable != nil {
		return s.drawBuffer
	}
	return gl.BufferFront
}

// stencilBits returns the stencil depth of the render target.
func (s *Surface) stencilBits() int {
	switch {
	case s.drawable != nil:
		return int(s.drawable.Format().Stencil)
	case s.pbuf != nil:
		return int(s.pbuf.Format().Stencil)
	case s.dev.features.Has(gl.FeatureFramebufferObject):
		return 8
	}
	return int(s.dev.drawable.Format().Stencil)
}

// contextDrawable returns the drawable to make current for s.
func (s *Surface) contextDrawable(draw bool) gl.Drawable {
	switch {
	case s.drawable != nil:
		return s.drawable
	case s.pbuf != nil:
		return s.pbuf
	case !draw || s.dev.features.Has(gl.FeatureFramebufferObject):
		return s.dev.drawable
	case s.programmatic != nil:
		return nil
	}
	return s.ensurePbuffer()
}

// ensurePbuffer creates the pbuffer used to render s without framebuffer
// objects.
func (s *Surface) ensurePbuffer() gl.Drawable {
	f := *s.dev.drawable.Format()
	if f.Types&gl.DrawableTypePbuffer == 0 {
		return nil
	}
	f.Doublebuffer = false
	p, err := s.dev.drawable.CreateSimilar(&f, s.width, s.height)
	if err != nil {
		Logger().Warn("pbuffer creation failed", "width", s.width, "height", s.height, "err", err)
		return nil
	}
	s.pbuf = p
	s.seed = true
	return p
}

// ortho returns the column-major projection mapping [0,w]x[0,h] to
// normalized device coordinates.
func ortho(w, h int) [16]float32 {
	return [16]float32{
		2 / float32(w), 0, 0, 0,
		0, 2 / float32(h), 0, 0,
		0, 0, -1, 0,
		-1, -1, 0, 1,
	}
}

// bindTarget binds the render target of s and initializes the drawing
// state. The context returned by contextDrawable(true) must be current.
func (s *Surface) bindTarget(fn gl.Functions) bool {
	switch {
	case s.drawable != nil || s.pbuf != nil:
		if s.dev.features.Has(gl.FeatureFramebufferObject) {
			fn.BindFramebuffer(0)
		}
		fn.DrawBuffer(s.renderBuffer())
		fn.ReadBuffer(s.renderBuffer())
		if s.drawable != nil {
			fn.ReadBuffer(s.readBuffer)
		}
	case !s.ensureFramebuffer(fn):
		return false
	}

	fn.Viewport(0, 0, s.width, s.height)
	proj := ortho(s.width, s.height)
	fn.MatrixMode(gl.MatrixProjection)
	fn.LoadMatrix(&proj)
	fn.MatrixMode(gl.MatrixModelview)
	fn.LoadIdentity()
	fn.Scissor(0, 0, s.width, s.height)
	fn.Enable(gl.CapScissorTest)

	if s.seed {
		s.seed = false
		s.seedPbuffer(fn)
	}
	s.applyColorMask(fn)
	s.applyClip(fn)
	return true
}

func (s *Surface) applyColorMask(fn gl.Functions) {
	m := colorMask(s.format)
	fn.ColorMask(m[0], m[1], m[2], m[3])
}

// applyClip sets the stencil test selecting the current clip.
func (s *Surface) applyClip(fn gl.Functions) {
	depth := s.clipDepth[s.renderBuffer()]
	if depth == 0 {
		fn.Disable(gl.CapStencilTest)
		return
	}
	fn.Enable(gl.CapStencilTest)
	fn.StencilFunc(gputypes.CompareFunctionEqual, depth, ^uint32(0))
	fn.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilKeep)
}

// ensureFramebuffer binds the framebuffer object rendering into the
// surface texture, creating it on first use.
func (s *Surface) ensureFramebuffer(fn gl.Functions) bool {
	if s.fbo != 0 {
		fn.BindFramebuffer(s.fbo)
		return true
	}
	if s.programmatic != nil {
		return false
	}
	if !s.texture.allocate(fn) {
		s.status.add(StatusNoMemory)
		return false
	}
	s.fbo = fn.GenFramebuffer()
	fn.BindFramebuffer(s.fbo)
	fn.FramebufferTexture(s.texture.target, s.texture.name)
	s.stencilRB = fn.GenRenderbuffer()
	fn.RenderbufferStencil(s.stencilRB, s.texture.width, s.texture.height)
	fn.FramebufferRenderbuffer(s.stencilRB)
	if err := fn.CheckFramebufferStatus(); err != nil {
		Logger().Warn("framebuffer incomplete", "err", err)
		fn.BindFramebuffer(0)
		fn.DeleteFramebuffer(s.fbo)
		fn.DeleteRenderbuffer(s.stencilRB)
		s.fbo, s.stencilRB = 0, 0
		s.status.add(StatusNotSupported)
		return false
	}
	return true
}

// seedPbuffer copies the texture content into a new pbuffer, then
// switches to the pbuffer's own texture when it can be rendered to
// directly.
func (s *Surface) seedPbuffer(fn gl.Functions) {
	if s.texture.name != 0 {
		s.blitTexture(fn)
	}
	name, target, ok := s.pbuf.Texture()
	if !ok {
		if s.texture.name != 0 {
			s.damage = Box{}
		}
		return
	}
	s.texture.release(fn)
	s.texture = texture{
		name:       name,
		target:     target,
		format:     s.format,
		width:      s.width,
		height:     s.height,
		box:        s.bounds(),
		scaleX:     1 / float64(s.width),
		scaleY:     1 / float64(s.height),
		filter:     gputypes.FilterModeNearest,
		wrap:       gl.WrapClampToEdge,
		repeatable: true,
		alias:      true,
	}
	if !target.Normalized() {
		s.texture.scaleX, s.texture.scaleY = 1, 1
		s.texture.repeatable = false
	}
}

// blitTexture draws the surface texture over the whole render target.
func (s *Surface) blitTexture(fn gl.Functions) {
	t := &s.texture
	t.bind(fn, 0)
	t.setFilter(fn, gputypes.FilterModeNearest)
	t.setWrap(fn, gl.WrapClampToEdge)
	fn.TexEnv(&gl.EnvReplace)
	fn.Disable(gl.CapBlend)
	w, h := float32(s.width), float32(s.height)
	sx, sy := w*float32(t.scaleX), h*float32(t.scaleY)
	pos := []float32{0, 0, w, 0, w, h, 0, h}
	tc := []float32{0, 0, sx, 0, sx, sy, 0, sy}
	fn.VertexPointer(pos, 2)
	fn.TexCoordPointer(0, tc, 2, 2)
	fn.DrawArrays(gl.PrimitiveQuads, 0, 4)
	fn.TexCoordPointer(0, nil, 2, 0)
	t.unbind(fn, 0)
}

// sync brings the texture up to date with the render target and
// allocates it when needed.
func (s *Surface) sync() bool {
	if s.programmatic != nil {
		return true
	}
	defer s.dev.popCurrent()
	if !s.dev.pushCurrent(s, false) {
		s.notSupported("make current")
		return false
	}
	fn := s.dev.fn
	if !s.texture.allocate(fn) {
		s.status.add(StatusNoMemory)
		return false
	}
	if s.damage.Empty() || s.texture.alias || (s.drawable == nil && s.pbuf == nil) {
		s.damage = Box{}
		return true
	}
	b := s.damage.Intersect(s.bounds())
	if s.dev.features.Has(gl.FeatureFramebufferObject) {
		fn.BindFramebuffer(0)
	}
	fn.ReadBuffer(s.renderBuffer())
	fn.ActiveTexture(0)
	fn.BindTexture(s.texture.target, s.texture.name)
	fn.CopyTexSubImage(s.texture.target, b.X1, b.Y1, b.X1, b.Y1, b.X2-b.X1, b.Y2-b.Y1)
	fn.BindTexture(s.texture.target, 0)
	s.damage = Box{}
	return true
}

// readPixels reads premultiplied RGBA8 rows of s, top row first.
func (s *Surface) readPixels(x, y, w, h int, buf []byte) bool {
	if s.drawable == nil && s.pbuf == nil && s.fbo == 0 {
		return s.readTexture(x, y, w, h, buf)
	}
	defer s.dev.popCurrent()
	if !s.dev.pushCurrent(s, true) {
		return false
	}
	s.dev.fn.ReadPixels(x, y, w, h, buf)
	return s.dev.fn.GetError() == nil
}

func (s *Surface) readTexture(x, y, w, h int, buf []byte) bool {
	defer s.dev.popCurrent()
	if !s.dev.pushCurrent(nil, false) {
		return false
	}
	fn := s.dev.fn
	t := &s.texture
	if !t.allocate(fn) {
		s.status.add(StatusNoMemory)
		return false
	}
	all := make([]byte, t.width*t.height*4)
	fn.ActiveTexture(0)
	fn.BindTexture(t.target, t.name)
	fn.GetTexImage(t.target, all)
	fn.BindTexture(t.target, 0)
	for row := range h {
		src := ((y+row)*t.width + x) * 4
		copy(buf[row*w*4:(row+1)*w*4], all[src:src+w*4])
	}
	return fn.GetError() == nil
}

// isSolid reports whether s has the same value everywhere.
func (s *Surface) isSolid() bool {
	if p := s.programmatic; p != nil {
		return p.kind == programSolid
	}
	return s.width == 1 && s.height == 1 && s.fill != FillTransparent && !s.filter.gradient()
}

// ensureSolid returns the premultiplied color of a solid surface,
// reading it back when the content changed since the last read.
func (s *Surface) ensureSolid() blend.Pixel {
	if p := s.programmatic; p != nil {
		return p.color
	}
	if s.solid.valid && s.solid.gen == s.gen {
		return s.solid.color
	}
	var px [4]byte
	if s.readPixels(0, 0, 1, 1, px[:]) {
		s.solid = solidCache{
			color: blend.Pixel{
				R: blend.From8(px[0]),
				G: blend.From8(px[1]),
				B: blend.From8(px[2]),
				A: blend.From8(px[3]),
			},
			gen:   s.gen,
			valid: true,
		}
	}
	return s.solid.color
}
