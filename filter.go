package ggl

import (
	"math"
	"slices"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/ggl/internal/program"
	"github.com/gogpu/gputypes"
)

// Filter selects how a surface is sampled.
type Filter uint8

// Filters. Convolution, Gaussian and the gradients require fragment
// programs.
const (
	FilterNearest Filter = iota
	FilterBilinear
	FilterConvolution
	FilterGaussian
	FilterLinearGradient
	FilterRadialGradient
)

func (f Filter) gradient() bool {
	return f == FilterLinearGradient || f == FilterRadialGradient
}

// programmed reports whether sampling needs a fragment program.
func (f Filter) programmed() bool {
	return f >= FilterConvolution
}

// rampSize is the number of texels in a gradient color ramp.
const rampSize = 256

type gradientStop struct {
	offset float64
	color  blend.Pixel
}

// filterParams holds the parsed parameters of a programmed filter.
type filterParams struct {
	// id is the number of gradient stops or kernel taps.
	id int

	kernel [9]float32
	simple bool

	start, end PointF
	center     PointF
	r0, r1     float64

	stops     []gradientStop
	ramp      texture
	rampDirty bool
}

// SetFilter sets the sampling filter. Parameters are 16.16 fixed-point:
//
//   - Convolution: columns, rows, then the kernel row by row. Only 3x3
//     kernels are supported.
//   - Gaussian: radius, deviation. The kernel is 3x3, so a radius above
//     1 is not supported.
//   - LinearGradient: x0, y0, x1, y1, then stops.
//   - RadialGradient: cx, cy, r0, r1, then stops.
//
// A stop is five values: offset, red, green, blue, alpha. When a gradient
// is given no stops it keeps the current ones, or takes them from the
// first row of the surface.
func (s *Surface) SetFilter(f Filter, params []Fixed) {
	if f.programmed() && !s.dev.hasPrograms() {
		s.notSupported("programmed filter")
		return
	}
	switch f {
	case FilterNearest, FilterBilinear:
		if s.programmatic != nil && s.programmatic.kind != programSolid {
			s.notSupported("gradient filter change")
			return
		}
		s.filter = f
	case FilterConvolution:
		if len(params) < 2 || params[0].Floor() != 3 || params[1].Floor() != 3 || len(params) < 11 {
			s.notSupported("convolution kernel")
			return
		}
		var k [9]float32
		for i := range k {
			k[i] = float32(params[2+i].Float())
		}
		s.setKernel(f, k)
	case FilterGaussian:
		if len(params) > 0 && params[0] > FixedFromInt(1) {
			s.notSupported("gaussian radius")
			return
		}
		deviation := 1.0
		if len(params) > 1 && params[1] > 0 {
			deviation = params[1].Float()
		}
		s.setKernel(f, gaussianKernel(deviation))
	case FilterLinearGradient, FilterRadialGradient:
		s.setGradient(f, params)
	default:
		s.notSupported("filter")
	}
}

func (s *Surface) setKernel(f Filter, k [9]float32) {
	var sum float32
	for _, v := range k {
		sum += v
	}
	if sum != 0 {
		for i := range k {
			k[i] /= sum
		}
	}
	p := s.ensureParams()
	p.kernel = k
	p.simple = program.SimpleKernel(&k)
	p.id = 9
	if p.simple {
		p.id = 5
	}
	s.filter = f
}

// gaussianKernel returns a normalized 3x3 kernel for deviation.
func gaussianKernel(deviation float64) [9]float32 {
	var k [9]float32
	var sum float64
	v := make([]float64, 9)
	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			w := math.Exp(-float64(x*x+y*y) / (2 * deviation * deviation))
			v[(y+1)*3+x+1] = w
			sum += w
		}
	}
	for i := range k {
		k[i] = float32(v[i] / sum)
	}
	return k
}

func (s *Surface) ensureParams() *filterParams {
	if s.params == nil {
		s.params = &filterParams{ramp: newRampTexture(rampSize)}
	}
	return s.params
}

func (s *Surface) setGradient(f Filter, params []Fixed) {
	p := s.ensureParams()
	if len(params) >= 4 {
		if f == FilterLinearGradient {
			p.start = PointF{params[0].Float(), params[1].Float()}
			p.end = PointF{params[2].Float(), params[3].Float()}
		} else {
			p.center = PointF{params[0].Float(), params[1].Float()}
			p.r0, p.r1 = params[2].Float(), params[3].Float()
		}
		params = params[4:]
	} else if s.filter != f {
		s.notSupported("gradient geometry")
		return
	} else {
		params = nil
	}

	var stops []gradientStop
	for ; len(params) >= 5; params = params[5:] {
		stops = append(stops, gradientStop{
			offset: params[0].Float(),
			color: blend.Premultiply(
				blend.FromFloat(params[1].Float()),
				blend.FromFloat(params[2].Float()),
				blend.FromFloat(params[3].Float()),
				blend.FromFloat(params[4].Float())),
		})
	}
	switch {
	case len(stops) > 0:
		p.setStops(stops)
	case len(p.stops) == 0 && s.programmatic == nil:
		p.setStops(s.rowStops())
	}
	s.filter = f
}

func (p *filterParams) setStops(stops []gradientStop) {
	slices.SortStableFunc(stops, func(a, b gradientStop) int {
		switch {
		case a.offset < b.offset:
			return -1
		case a.offset > b.offset:
			return 1
		}
		return 0
	})
	p.stops = stops
	p.id = len(stops)
	p.rampDirty = true
}

// rowStops takes evenly spaced stops from the first row of s.
func (s *Surface) rowStops() []gradientStop {
	row := make([]byte, s.width*4)
	if !s.readPixels(0, 0, s.width, 1, row) {
		return nil
	}
	stops := make([]gradientStop, s.width)
	for i := range stops {
		if s.width > 1 {
			stops[i].offset = float64(i) / float64(s.width-1)
		}
		stops[i].color = blend.Pixel{
			R: blend.From8(row[i*4]),
			G: blend.From8(row[i*4+1]),
			B: blend.From8(row[i*4+2]),
			A: blend.From8(row[i*4+3]),
		}
	}
	return stops
}

// rampColor evaluates the stops at t with premultiplied interpolation.
func rampColor(stops []gradientStop, t float64) blend.Pixel {
	if len(stops) == 0 {
		return blend.Pixel{}
	}
	if t <= stops[0].offset {
		return stops[0].color
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.offset {
			continue
		}
		a := stops[i-1]
		span := b.offset - a.offset
		if span <= 0 {
			return b.color
		}
		f := (t - a.offset) / span
		return blend.Pixel{
			R: lerp16(a.color.R, b.color.R, f),
			G: lerp16(a.color.G, b.color.G, f),
			B: lerp16(a.color.B, b.color.B, f),
			A: lerp16(a.color.A, b.color.A, f),
		}
	}
	return stops[len(stops)-1].color
}

func lerp16(a, b uint16, f float64) uint16 {
	return uint16(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

// rampPixels returns n RGBA8 texels sampling the stops at i/(n-1).
func rampPixels(stops []gradientStop, n int) []byte {
	px := make([]byte, n*4)
	for i := range n {
		c := rampColor(stops, float64(i)/float64(n-1))
		px[i*4] = blend.To8(c.R)
		px[i*4+1] = blend.To8(c.G)
		px[i*4+2] = blend.To8(c.B)
		px[i*4+3] = blend.To8(c.A)
	}
	return px
}

// ensureRamp uploads the color ramp when the stops changed. A context
// must be current.
func (p *filterParams) ensureRamp(fn gl.Functions) bool {
	if !p.rampDirty && p.ramp.name != 0 {
		return true
	}
	p.ramp.release(fn)
	if !p.ramp.allocateWith(fn, rampPixels(p.stops, p.ramp.width)) {
		return false
	}
	p.rampDirty = false
	return true
}

// rampLocal maps [0,1] onto the ramp texel centers.
func rampLocal() [4]float32 {
	n := float32(rampSize)
	return [4]float32{(n - 1) / n, 0.5 / n, 0, 0}
}

// gradientLocal returns the gradient geometry parameter.
func (p *filterParams) gradientLocal(f Filter) [4]float32 {
	if f == FilterRadialGradient {
		var inv float32
		if p.r1 != p.r0 {
			inv = float32(1 / (p.r1 - p.r0))
		}
		return [4]float32{float32(p.center.X), float32(p.center.Y), float32(p.r0), inv}
	}
	dx, dy := p.end.X-p.start.X, p.end.Y-p.start.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return [4]float32{}
	}
	a, b := dx/l2, dy/l2
	return [4]float32{float32(a), float32(b), float32(-(p.start.X*a + p.start.Y*b)), 0}
}

// kernelLocals returns the texel step and the three kernel rows.
func (p *filterParams) kernelLocals(t *texture) [4][4]float32 {
	var l [4][4]float32
	l[program.LocalOffset] = [4]float32{float32(t.scaleX), float32(t.scaleY), 0, 0}
	for row := range 3 {
		l[program.LocalKernel+row] = [4]float32{p.kernel[row*3], p.kernel[row*3+1], p.kernel[row*3+2], 0}
	}
	return l
}

// gradientWrap returns the program variant evaluating fill.
func gradientWrap(fill Fill) uint8 {
	switch fill {
	case FillNearest:
		return program.WrapPad
	case FillRepeat:
		return program.WrapRepeat
	case FillReflect:
		return program.WrapReflect
	}
	return program.WrapTransparent
}

func samplerFilter(f Filter) gputypes.FilterMode {
	if f == FilterBilinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}
