package ggl

import (
	"testing"

	"github.com/gogpu/ggl/internal/blend"
)

func TestOpaqueSourceOverReplaces(t *testing.T) {
	dev, _ := newTestDevice(t)
	dst := filledSurface(t, dev, 64, 64, opaqueRed)
	src := filledSurface(t, dev, 64, 64, opaqueBlue)

	Composite(OperatorOver, src, nil, dst, 0, 0, 0, 0, 0, 0, 64, 64)
	expectStatus(t, dst, StatusSuccess)

	px := allPixels(t, dst)
	for i := 0; i < len(px); i += 4 {
		if got := [4]byte(px[i : i+4]); got != [4]byte{0, 0, 255, 255} {
			t.Fatalf("pixel %d = %v, want opaque blue", i/4, got)
		}
	}
}

func TestSolidSourceOverBlack(t *testing.T) {
	dev, _ := newTestDevice(t)
	dst := filledSurface(t, dev, 1, 1, Color{Alpha: 0xffff})
	src, err := CreateSolid(dev, Color{Red: 0xffff, Alpha: 0x8000})
	if err != nil {
		t.Fatalf("CreateSolid: %v", err)
	}
	defer src.Destroy()

	Composite(OperatorOver, src, nil, dst, 0, 0, 0, 0, 0, 0, 1, 1)
	expectStatus(t, dst, StatusSuccess)
	expectPixel(t, dst, 0, 0, [4]byte{128, 0, 0, 255}, 1)
}

// repeatingSurface returns a 1x1 repeating surface filled with c.
func repeatingSurface(t *testing.T, dev *Device, c Color) *Surface {
	t.Helper()
	s := filledSurface(t, dev, 1, 1, c)
	s.SetFill(FillRepeat)
	return s
}

func TestSolidMaskMatchesTextureMask(t *testing.T) {
	dev, _ := newTestDevice(t)
	maskColor := Color{Red: 0x4000, Green: 0x8000, Blue: 0xc000, Alpha: 0x8000}
	src := filledSurface(t, dev, 4, 4, Color{Red: 0x3333, Green: 0xffff, Alpha: 0xcccc})
	solid := repeatingSurface(t, dev, maskColor)
	full := filledSurface(t, dev, 4, 4, maskColor)
	if !solid.isSolid() || full.isSolid() {
		t.Fatalf("isSolid = %v, %v, want true, false", solid.isSolid(), full.isSolid())
	}

	bg := Color{Red: 0x2000, Blue: 0x1000, Alpha: 0xffff}
	viaSolid := filledSurface(t, dev, 4, 4, bg)
	viaTexture := filledSurface(t, dev, 4, 4, bg)
	Composite(OperatorOver, src, solid, viaSolid, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, viaSolid, StatusSuccess)
	Composite(OperatorOver, src, full, viaTexture, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, viaTexture, StatusSuccess)

	if !solid.solid.valid || solid.solid.gen != solid.gen {
		t.Error("solid mask color not cached")
	}
	a, b := allPixels(t, viaSolid), allPixels(t, viaTexture)
	for i := 0; i < len(a); i += 4 {
		if !near([4]byte(a[i:i+4]), [4]byte(b[i:i+4]), 1) {
			t.Fatalf("pixel %d: solid mask %v, texture mask %v", i/4, a[i:i+4], b[i:i+4])
		}
	}
}

func TestSolidSourceSolidMaskOverBlack(t *testing.T) {
	dev, _ := newTestDevice(t)
	dst := filledSurface(t, dev, 2, 2, Color{Alpha: 0xffff})
	src := repeatingSurface(t, dev, Color{Red: 0xffff, Green: 0x8000, Alpha: 0xffff})
	mask := repeatingSurface(t, dev, Color{Alpha: 0x8000})

	Composite(OperatorOver, src, mask, dst, 0, 0, 0, 0, 0, 0, 2, 2)
	expectStatus(t, dst, StatusSuccess)

	sp, mp := pixelAt(t, src, 0, 0), pixelAt(t, mask, 0, 0)
	s := blend.Pixel{R: blend.From8(sp[0]), G: blend.From8(sp[1]), B: blend.From8(sp[2]), A: blend.From8(sp[3])}
	s = s.Scale(blend.From8(mp[3]))
	r := blend.Composite(blend.BlendSourceOver, s, blend.Pixel{A: 0xffff})
	want := [4]byte{blend.To8(r.R), blend.To8(r.G), blend.To8(r.B), blend.To8(r.A)}
	for y := range 2 {
		for x := range 2 {
			expectPixel(t, dst, x, y, want, 1)
		}
	}
	if want[3] != 255 || want[0] < 127 || want[0] > 129 {
		t.Errorf("reference result %v, want about half red over opaque black", want)
	}
}

func TestLinearGradientStops(t *testing.T) {
	dev, _ := newTestDevice(t)
	g, err := CreateLinearGradient(dev, PointFixed{}, PointFixed{X: fx(1)}, []ColorStop{
		{Offset: 0, Color: opaqueRed},
		{Offset: fx(1), Color: opaqueBlue},
	})
	if err != nil {
		t.Fatalf("CreateLinearGradient: %v", err)
	}
	defer g.Destroy()

	if g.params.id != 2 {
		t.Fatalf("stop id = %d, want 2", g.params.id)
	}
	g.SetFilter(FilterLinearGradient, nil)
	expectStatus(t, g, StatusSuccess)
	if g.params.id != 2 || len(g.params.stops) != 2 {
		t.Errorf("after SetFilter(nil): id = %d, stops = %d, want 2 and 2", g.params.id, len(g.params.stops))
	}

	mid := rampColor(g.params.stops, 0.5)
	want := blend.Pixel{R: 0x8000, B: 0x8000, A: 0xffff}
	if mid != want {
		t.Errorf("rampColor(0.5) = %+v, want %+v", mid, want)
	}

	ramp := rampPixels(g.params.stops, rampSize)
	first, last := [4]byte(ramp[:4]), [4]byte(ramp[len(ramp)-4:])
	if first != [4]byte{255, 0, 0, 255} || last != [4]byte{0, 0, 255, 255} {
		t.Errorf("ramp ends = %v, %v", first, last)
	}
	for _, i := range []int{rampSize/2 - 1, rampSize / 2} {
		c := [4]byte(ramp[i*4 : i*4+4])
		if !near(c, [4]byte{128, 0, 128, 255}, 1) {
			t.Errorf("ramp texel %d = %v, want about half red and half blue", i, c)
		}
	}
}

func TestSetPixelsOutOfBounds(t *testing.T) {
	dev, _ := newTestDevice(t)
	s := filledSurface(t, dev, 16, 16, opaqueRed)
	buf := make([]byte, 4*4*4)
	for i := range buf {
		buf[i] = 0xff
	}

	s.SetPixels(s.Width()+10, 0, 4, 4, &PixelFormat{Masks: MasksRGBA32}, buf)
	expectStatus(t, s, StatusBadCoordinate)
	expectStatus(t, s, StatusSuccess)

	px := allPixels(t, s)
	for i := 0; i < len(px); i += 4 {
		if got := [4]byte(px[i : i+4]); got != [4]byte{255, 0, 0, 255} {
			t.Fatalf("pixel %d = %v, want unchanged red", i/4, got)
		}
	}
}

func TestIntersectClipLimitsComposite(t *testing.T) {
	dev, _ := newTestDevice(t)
	dst := newTestSurface(t, dev, 64, 64)
	green, err := CreateSolid(dev, opaqueGreen)
	if err != nil {
		t.Fatalf("CreateSolid: %v", err)
	}
	defer green.Destroy()

	dst.ClipRectangles(ClipSet, []Rectangle{{Width: 64, Height: 64}})
	dst.ClipRectangles(ClipIntersect, []Rectangle{{X: 16, Y: 16, Width: 16, Height: 16}})
	expectStatus(t, dst, StatusSuccess)

	Composite(OperatorOver, green, nil, dst, 0, 0, 0, 0, 0, 0, 64, 64)
	expectStatus(t, dst, StatusSuccess)

	inside := Box{16, 16, 32, 32}
	px := allPixels(t, dst)
	for y := range 64 {
		for x := range 64 {
			got := [4]byte(px[(y*64+x)*4:])
			want := [4]byte{}
			if inBox(inside, x, y) {
				want = [4]byte{0, 255, 0, 255}
			}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}
