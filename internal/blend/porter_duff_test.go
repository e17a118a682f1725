package blend

import (
	"testing"

	"github.com/gogpu/gputypes"
)

var (
	opaqueRed  = Pixel{R: 0xffff, A: 0xffff}
	opaqueBlue = Pixel{B: 0xffff, A: 0xffff}
	halfWhite  = Pixel{R: 0x8000, G: 0x8000, B: 0x8000, A: 0x8000}
	clear      = Pixel{}
)

func TestCompositeModes(t *testing.T) {
	tests := []struct {
		name string
		mode BlendMode
		s, d Pixel
		want Pixel
	}{
		{"clear", BlendClear, opaqueRed, opaqueBlue, clear},
		{"source", BlendSource, opaqueRed, opaqueBlue, opaqueRed},
		{"destination", BlendDestination, opaqueRed, opaqueBlue, opaqueBlue},
		{"over opaque", BlendSourceOver, opaqueRed, opaqueBlue, opaqueRed},
		{"over half", BlendSourceOver, halfWhite, opaqueBlue,
			Pixel{R: 0x8000, G: 0x8000, B: 0xffff, A: 0xffff}},
		{"over reverse", BlendDestinationOver, opaqueRed, opaqueBlue, opaqueBlue},
		{"in transparent dst", BlendSourceIn, opaqueRed, clear, clear},
		{"in opaque dst", BlendSourceIn, opaqueRed, opaqueBlue, opaqueRed},
		{"dest in half", BlendDestinationIn, halfWhite, opaqueBlue,
			Pixel{B: 0x8000, A: 0x8000}},
		{"out", BlendSourceOut, opaqueRed, opaqueBlue, clear},
		{"dest out", BlendDestinationOut, opaqueRed, opaqueBlue, clear},
		{"atop", BlendSourceAtop, opaqueRed, opaqueBlue, opaqueRed},
		{"dest atop", BlendDestinationAtop, opaqueRed, opaqueBlue, opaqueBlue},
		{"xor", BlendXor, opaqueRed, opaqueBlue, clear},
		{"plus", BlendPlus, opaqueRed, opaqueBlue,
			Pixel{R: 0xffff, B: 0xffff, A: 0xffff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Composite(tt.mode, tt.s, tt.d); got != tt.want {
				t.Errorf("Composite(%d) = %+v, want %+v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFactorsUnknownMode(t *testing.T) {
	src, dst := Factors(modeCount + 3)
	if src != gputypes.BlendFactorOne || dst != gputypes.BlendFactorOneMinusSrcAlpha {
		t.Errorf("Factors(unknown) = (%v, %v), want source-over", src, dst)
	}
}

func TestBounded(t *testing.T) {
	unbounded := map[BlendMode]bool{
		BlendClear: true, BlendSource: true, BlendSourceIn: true,
		BlendDestinationIn: true, BlendSourceOut: true, BlendDestinationAtop: true,
	}
	for m := BlendMode(0); m < modeCount; m++ {
		if got := Bounded(m); got == unbounded[m] {
			t.Errorf("Bounded(%d) = %v", m, got)
		}
	}
}

func TestPremultiply(t *testing.T) {
	p := Premultiply(0xffff, 0x8000, 0, 0x8000)
	want := Pixel{R: 0x8000, G: 0x4000, B: 0, A: 0x8000}
	if p != want {
		t.Errorf("Premultiply = %+v, want %+v", p, want)
	}
	if got := p.Scale(0xffff); got != p {
		t.Errorf("Scale(0xffff) = %+v, want %+v", got, p)
	}
	if got := opaqueRed.In(Pixel{R: 0x8000, A: 0xffff}); got != (Pixel{R: 0x8000, A: 0xffff}) {
		t.Errorf("In = %+v", got)
	}
}
