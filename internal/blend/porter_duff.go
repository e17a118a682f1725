package blend

import "github.com/gogpu/gputypes"

// BlendMode represents a Porter-Duff compositing operation.
type BlendMode uint8

// Porter-Duff modes. The order matches the public operator enumeration.
const (
	BlendClear           BlendMode = iota // Result: 0
	BlendSource                           // Result: S
	BlendDestination                      // Result: D
	BlendSourceOver                       // Result: S + D*(1-Sa)
	BlendDestinationOver                  // Result: S*(1-Da) + D
	BlendSourceIn                         // Result: S*Da
	BlendDestinationIn                    // Result: D*Sa
	BlendSourceOut                        // Result: S*(1-Da)
	BlendDestinationOut                   // Result: D*(1-Sa)
	BlendSourceAtop                       // Result: S*Da + D*(1-Sa)
	BlendDestinationAtop                  // Result: S*(1-Da) + D*Sa
	BlendXor                              // Result: S*(1-Da) + D*(1-Sa)
	BlendPlus                             // Result: S + D (clamped)

	modeCount
)

// Pixel is a premultiplied color with 16-bit channels.
type Pixel struct {
	R, G, B, A uint16
}

// Premultiply converts a straight color to premultiplied form.
func Premultiply(r, g, b, a uint16) Pixel {
	return Pixel{
		R: ShortMul(r, a),
		G: ShortMul(g, a),
		B: ShortMul(b, a),
		A: a,
	}
}

// Scale multiplies every channel by s.
func (p Pixel) Scale(s uint16) Pixel {
	return Pixel{
		R: ShortMul(p.R, s),
		G: ShortMul(p.G, s),
		B: ShortMul(p.B, s),
		A: ShortMul(p.A, s),
	}
}

// In multiplies p component-wise by m. Used for component-alpha masks.
func (p Pixel) In(m Pixel) Pixel {
	return Pixel{
		R: ShortMul(p.R, m.R),
		G: ShortMul(p.G, m.G),
		B: ShortMul(p.B, m.B),
		A: ShortMul(p.A, m.A),
	}
}

// factors holds the source and destination blend factors for each mode.
// Both operands are premultiplied, so every mode is a pure blend equation
// with an additive combination.
var factors = [modeCount][2]gputypes.BlendFactor{
	BlendClear:           {gputypes.BlendFactorZero, gputypes.BlendFactorZero},
	BlendSource:          {gputypes.BlendFactorOne, gputypes.BlendFactorZero},
	BlendDestination:     {gputypes.BlendFactorZero, gputypes.BlendFactorOne},
	BlendSourceOver:      {gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha},
	BlendDestinationOver: {gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorOne},
	BlendSourceIn:        {gputypes.BlendFactorDstAlpha, gputypes.BlendFactorZero},
	BlendDestinationIn:   {gputypes.BlendFactorZero, gputypes.BlendFactorSrcAlpha},
	BlendSourceOut:       {gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorZero},
	BlendDestinationOut:  {gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusSrcAlpha},
	BlendSourceAtop:      {gputypes.BlendFactorDstAlpha, gputypes.BlendFactorOneMinusSrcAlpha},
	BlendDestinationAtop: {gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorSrcAlpha},
	BlendXor:             {gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorOneMinusSrcAlpha},
	BlendPlus:            {gputypes.BlendFactorOne, gputypes.BlendFactorOne},
}

// Factors returns the blend factors implementing mode.
// Unknown modes map to source-over.
func Factors(mode BlendMode) (src, dst gputypes.BlendFactor) {
	if mode >= modeCount {
		mode = BlendSourceOver
	}
	f := factors[mode]
	return f[0], f[1]
}

// Bounded reports whether the mode leaves the destination unchanged where
// the source is fully transparent. Unbounded modes must also be applied
// outside a source's footprint.
func Bounded(mode BlendMode) bool {
	switch mode {
	case BlendClear, BlendSource, BlendSourceIn, BlendDestinationIn,
		BlendSourceOut, BlendDestinationAtop:
		return false
	}
	return true
}

// Composite applies mode to premultiplied source s and destination d.
// It is the reference the GPU paths are checked against.
func Composite(mode BlendMode, s, d Pixel) Pixel {
	sf, df := Factors(mode)
	return Pixel{
		R: ShortAdd(ShortMul(s.R, factor(sf, s, d)), ShortMul(d.R, factor(df, s, d))),
		G: ShortAdd(ShortMul(s.G, factor(sf, s, d)), ShortMul(d.G, factor(df, s, d))),
		B: ShortAdd(ShortMul(s.B, factor(sf, s, d)), ShortMul(d.B, factor(df, s, d))),
		A: ShortAdd(ShortMul(s.A, factor(sf, s, d)), ShortMul(d.A, factor(df, s, d))),
	}
}

// factor evaluates an alpha-only blend factor.
func factor(f gputypes.BlendFactor, s, d Pixel) uint16 {
	switch f {
	case gputypes.BlendFactorOne:
		return 0xffff
	case gputypes.BlendFactorSrcAlpha:
		return s.A
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return ShortInv(s.A)
	case gputypes.BlendFactorDstAlpha:
		return d.A
	case gputypes.BlendFactorOneMinusDstAlpha:
		return ShortInv(d.A)
	default:
		return 0
	}
}
