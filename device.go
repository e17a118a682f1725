package ggl

import (
	"fmt"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/program"
)

// Device is one GL context family: the drawable its context was created
// for, the features and formats it reports, the program cache, and the
// stack of current contexts.
//
// A Device is used from a single goroutine. Surfaces created on it carry
// no locking of their own.
type Device struct {
	drawable gl.Drawable
	fn       gl.Functions
	caps     gl.Caps
	features gl.Features
	formats  []gl.Format
	programs *program.Cache

	intermediate *gl.Format

	stack    []stackEntry
	maxDepth int
	closed   bool
}

// stackEntry records one pushCurrent call.
type stackEntry struct {
	surface  *Surface
	drawable gl.Drawable
	draw     bool

	// called reports that Drawable.PushCurrent was invoked and must be
	// paired with PopCurrent.
	called bool
	ok     bool
}

// NewDevice creates a device for the context of drawable. The drawable
// stays owned by the caller.
func NewDevice(drawable gl.Drawable, opts ...Option) (*Device, error) {
	if drawable == nil {
		return nil, fmt.Errorf("ggl: nil drawable: %w", StatusNullPointer)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	caps := drawable.Caps()
	d := &Device{
		drawable: drawable,
		fn:       drawable.GL(),
		caps:     caps,
		features: caps.Features & o.featureMask,
		formats:  append([]gl.Format(nil), drawable.Formats()...),
		maxDepth: o.stackDepth,
	}
	if caps.MaxTextureUnits < 2 {
		d.features &^= gl.FeatureMultitexture
	}

	lang := gl.LanguageARB
	switch {
	case o.hasLanguage:
		lang = o.language
	case !d.features.Has(gl.FeatureFragmentProgram) && d.features.Has(gl.FeatureSPIRV):
		lang = gl.LanguageSPIRV
	}
	d.programs = program.NewCache(lang)

	d.intermediate = d.FindFormat(FormatMaskName, &gl.Format{Name: o.intermediate}, 0)
	if d.intermediate == nil || !d.intermediate.HasAlpha() || !d.intermediate.HasColor() {
		d.intermediate = d.FindStandardFormat(StandardARGB32)
	}
	if d.intermediate == nil {
		return nil, fmt.Errorf("ggl: no format with color and alpha: %w", StatusNotSupported)
	}

	Logger().Debug("device created",
		"features", d.features.String(),
		"units", caps.MaxTextureUnits,
		"programs", d.hasPrograms(),
		"formats", len(d.formats))
	return d, nil
}

// Features returns the features the device uses.
func (d *Device) Features() gl.Features {
	return d.features
}

// Formats returns the texture formats of the device. The slice must not
// be modified.
func (d *Device) Formats() []gl.Format {
	return d.formats
}

// hasPrograms reports whether fragment programs can be loaded in the
// cache's language.
func (d *Device) hasPrograms() bool {
	if d.programs.Language() == gl.LanguageSPIRV {
		return d.features.Has(gl.FeatureSPIRV)
	}
	return d.features.Has(gl.FeatureFragmentProgram)
}

// units returns the number of texture units the engine may use.
func (d *Device) units() int {
	if d.features.Has(gl.FeatureMultitexture) {
		return 2
	}
	return 1
}

// pushCurrent makes a context current for s. With draw set, s's render
// target is bound and the drawing state initialized; a nil s selects the
// device drawable for resource work. popCurrent must follow every call,
// including failed ones.
func (d *Device) pushCurrent(s *Surface, draw bool) bool {
	e := stackEntry{surface: s, draw: draw}
	if d.closed || len(d.stack) >= d.maxDepth {
		d.stack = append(d.stack, e)
		return false
	}
	e.drawable = d.drawable
	if s != nil {
		e.drawable = s.contextDrawable(draw)
	}
	if e.drawable == nil {
		d.stack = append(d.stack, e)
		return false
	}
	e.called = true
	e.ok = e.drawable.PushCurrent()
	d.stack = append(d.stack, e)
	if !e.ok {
		Logger().Warn("make current failed", "depth", len(d.stack))
		return false
	}
	if draw && !s.bindTarget(d.fn) {
		d.stack[len(d.stack)-1].draw = false
		return false
	}
	return true
}

// popCurrent resets the drawing state and restores the previous context.
func (d *Device) popCurrent() {
	n := len(d.stack)
	if n == 0 {
		return
	}
	e := d.stack[n-1]
	d.stack = d.stack[:n-1]
	if e.ok {
		d.resetState()
	}
	if e.called {
		e.drawable.PopCurrent()
	}
	if n > 1 {
		outer := d.stack[n-2]
		if outer.ok && outer.draw {
			outer.surface.bindTarget(d.fn)
		}
	}
}

// resetState returns the GL state the engine touches to its defaults.
func (d *Device) resetState() {
	fn := d.fn
	fn.Disable(gl.CapBlend)
	fn.Disable(gl.CapStencilTest)
	fn.Disable(gl.CapScissorTest)
	fn.Disable(gl.CapMultisample)
	if d.hasPrograms() {
		fn.BindProgram(gl.ProgramFragment, 0)
		fn.Disable(gl.CapFragmentProgram)
	}
	if d.features.Has(gl.FeatureVertexProgram) {
		fn.BindProgram(gl.ProgramVertex, 0)
		fn.Disable(gl.CapVertexProgram)
	}
	for u := range d.units() {
		fn.ActiveTexture(u)
		fn.Disable(gl.CapTexture1D)
		fn.Disable(gl.CapTexture2D)
		fn.Disable(gl.CapTextureRectangle)
		fn.TexCoordPointer(u, nil, 2, 0)
	}
	fn.ActiveTexture(0)
	fn.ColorPointer(nil, 0)
	fn.ColorMask(true, true, true, true)
	fn.Color(1, 1, 1, 1)
	fn.StencilMask(^uint32(0))
	if d.features.Has(gl.FeatureFramebufferObject) {
		fn.BindFramebuffer(0)
	}
}

// withContext runs f with the device context current. It reports false
// when no context could be made current.
func (d *Device) withContext(f func(fn gl.Functions)) bool {
	defer d.popCurrent()
	if !d.pushCurrent(nil, false) {
		return false
	}
	f(d.fn)
	return true
}

// Flush issues pending commands to the GPU.
func (d *Device) Flush() {
	d.withContext(gl.Functions.Flush)
}

// Finish blocks until pending commands have completed.
func (d *Device) Finish() {
	d.withContext(gl.Functions.Finish)
}

// Close releases the device programs. Surfaces must be destroyed first.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.withContext(d.programs.Release)
	d.closed = true
	Logger().Debug("device closed")
}
