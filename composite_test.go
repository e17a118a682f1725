package ggl

import (
	"testing"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/gl/glsoft"
	"github.com/gogpu/ggl/internal/blend"
)

func TestClassify(t *testing.T) {
	dev, _ := newTestDevice(t)
	plain := newTestSurface(t, dev, 8, 8)
	repeat := newTestSurface(t, dev, 1, 1)
	repeat.SetFill(FillRepeat)
	ca := newTestSurface(t, dev, 8, 8)
	ca.SetComponentAlpha(true)
	caSolid := newTestSurface(t, dev, 1, 1)
	caSolid.SetFill(FillRepeat)
	caSolid.SetComponentAlpha(true)
	grad, err := CreateLinearGradient(dev, PointFixed{}, PointFixed{X: fx(8)}, []ColorStop{
		{Offset: 0, Color: opaqueRed},
		{Offset: fx(1), Color: opaqueBlue},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer grad.Destroy()
	blur := newTestSurface(t, dev, 8, 8)
	blur.SetFilter(FilterGaussian, []Fixed{fx(1), fx(1)})
	expectStatus(t, blur, StatusSuccess)

	tests := []struct {
		name   string
		s      *Surface
		asMask bool
		want   surfaceKind
	}{
		{"nil", nil, false, kindNull},
		{"texture", plain, false, kindARGB},
		{"repeated pixel", repeat, false, kindSolid},
		{"component mask", ca, true, kindARGBC},
		{"component source", ca, false, kindARGB},
		{"component solid mask", caSolid, true, kindSolidC},
		{"gradient", grad, false, kindARGBF},
		{"convolution", blur, true, kindARGBF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := dev.classify(tt.s, tt.asMask)
			if first != tt.want {
				t.Errorf("classify = %v, want %v", first, tt.want)
			}
			if again := dev.classify(tt.s, tt.asMask); again != first {
				t.Errorf("second classify = %v, first %v", again, first)
			}
		})
	}
}

func TestClassifyWithoutPrograms(t *testing.T) {
	dev, _ := newTestDevice(t, glsoft.WithFeatures(glsoft.DefaultFeatures&^gl.FeatureFragmentProgram))
	grad, err := CreateRadialGradient(dev, PointFixed{}, 0, fx(4), []ColorStop{
		{Offset: 0, Color: opaqueRed},
		{Offset: fx(1), Color: opaqueBlue},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer grad.Destroy()
	if got := dev.classify(grad, false); got != kindNotSupported {
		t.Fatalf("classify = %v, want %v", got, kindNotSupported)
	}

	dst := newTestSurface(t, dev, 4, 4)
	Composite(OperatorOver, grad, nil, dst, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, dst, StatusNotSupported)
	expectPixel(t, dst, 1, 1, [4]byte{}, 0)
}

func TestSolidSourceMatchesReference(t *testing.T) {
	c := Color{Red: 0xffff, Green: 0x4000, Alpha: 0xc000}
	d8 := [4]byte{40, 100, 20, 160}
	d := blend.Pixel{R: blend.From8(d8[0]), G: blend.From8(d8[1]), B: blend.From8(d8[2]), A: blend.From8(d8[3])}

	for op := OperatorClear; op < operatorCount; op++ {
		t.Run(op.String(), func(t *testing.T) {
			dev, _ := newTestDevice(t)
			dst := newTestSurface(t, dev, 1, 1)
			dst.SetPixels(0, 0, 1, 1, &PixelFormat{Masks: MasksRGBA32}, d8[:])
			src, err := CreateSolid(dev, c)
			if err != nil {
				t.Fatal(err)
			}
			defer src.Destroy()

			Composite(op, src, nil, dst, 0, 0, 0, 0, 0, 0, 1, 1)
			expectStatus(t, dst, StatusSuccess)

			r := op.apply(c.premultiplied(), d)
			want := [4]byte{blend.To8(r.R), blend.To8(r.G), blend.To8(r.B), blend.To8(r.A)}
			expectPixel(t, dst, 0, 0, want, 1)
		})
	}
}

func TestCompositeOutsideIsNoOp(t *testing.T) {
	dev, d := newTestDevice(t)
	src := filledSurface(t, dev, 8, 8, opaqueBlue)
	dst := filledSurface(t, dev, 8, 8, opaqueRed)
	before := allPixels(t, dst)
	gen, damage := dst.gen, dst.damage
	ctx := d.Context()
	ctx.ResetCalls()

	Composite(OperatorSrc, src, nil, dst, 0, 0, 0, 0, 20, 20, 8, 8)
	Composite(OperatorClear, src, nil, dst, 0, 0, 0, 0, -8, 0, 8, 8)
	Composite(OperatorOver, src, nil, dst, 0, 0, 0, 0, 0, 0, 0, 8)
	expectStatus(t, dst, StatusSuccess)

	if n := len(ctx.Calls()); n != 0 {
		t.Errorf("%d GL calls, want none", n)
	}
	if dst.gen != gen || dst.damage != damage {
		t.Error("no-op composite changed the surface state")
	}
	after := allPixels(t, dst)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("byte %d changed", i)
		}
	}
}

func TestUnboundedSourceClearsUncovered(t *testing.T) {
	dev, _ := newTestDevice(t)
	src := filledSurface(t, dev, 4, 4, opaqueBlue)
	dst := filledSurface(t, dev, 16, 16, opaqueRed)

	Composite(OperatorSrc, src, nil, dst, -2, -2, 0, 0, 0, 0, 10, 10)
	expectStatus(t, dst, StatusSuccess)

	px := allPixels(t, dst)
	for y := range 16 {
		for x := range 16 {
			var want [4]byte
			switch {
			case x >= 2 && x < 6 && y >= 2 && y < 6:
				want = [4]byte{0, 0, 255, 255}
			case x < 10 && y < 10:
				want = [4]byte{}
			default:
				want = [4]byte{255, 0, 0, 255}
			}
			if got := [4]byte(px[(y*16+x)*4:]); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCompositeTransformedOperands(t *testing.T) {
	dev, _ := newTestDevice(t)
	src := filledSurface(t, dev, 8, 8, opaqueBlue)
	down := Translate(0, 1)
	src.SetTransform(&down)
	mask := newTestSurface(t, dev, 8, 8)
	mask.FillRectangle(OperatorSrc, opaqueWhite, Rectangle{Width: 4, Height: 8})
	left := Translate(-2, 0)
	mask.SetTransform(&left)
	dst := newTestSurface(t, dev, 10, 10)

	Composite(OperatorOver, src, mask, dst, 0, 0, 0, 0, 0, 0, 10, 10)
	expectStatus(t, dst, StatusSuccess)

	blue := [4]byte{0, 0, 255, 255}
	for _, p := range [][2]int{{2, 0}, {5, 0}, {3, 3}, {5, 6}} {
		expectPixel(t, dst, p[0], p[1], blue, 0)
	}
	for _, p := range [][2]int{{1, 3}, {6, 3}, {3, 7}, {9, 9}} {
		expectPixel(t, dst, p[0], p[1], [4]byte{}, 0)
	}
}

func TestComponentAlphaMask(t *testing.T) {
	tests := []struct {
		name string
		op   Operator
		src  Color
		dst  Color
		want [4]byte
	}{
		{"add", OperatorAdd, opaqueWhite, Color{}, [4]byte{255, 0, 128, 255}},
		{"over", OperatorOver, opaqueRed, opaqueBlue, [4]byte{255, 0, 127, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, d := newTestDevice(t)
			src, err := CreateSolid(dev, tt.src)
			if err != nil {
				t.Fatal(err)
			}
			defer src.Destroy()
			mask := newTestSurface(t, dev, 4, 4)
			mask.SetPixels(0, 0, 1, 1, &PixelFormat{Masks: MasksRGBA32}, []byte{255, 0, 128, 255})
			mask.SetFill(FillRepeat)
			mask.SetComponentAlpha(true)
			dst := filledSurface(t, dev, 4, 4, tt.dst)

			Composite(tt.op, src, mask, dst, 0, 0, 0, 0, 0, 0, 1, 1)
			expectStatus(t, dst, StatusSuccess)
			expectPixel(t, dst, 0, 0, tt.want, 1)
			if d.Depth() != 0 {
				t.Errorf("context depth = %d, want 0", d.Depth())
			}
		})
	}
}

func TestComponentAlphaRejectsOperator(t *testing.T) {
	dev, _ := newTestDevice(t)
	src, err := CreateSolid(dev, opaqueRed)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Destroy()
	mask := filledSurface(t, dev, 4, 4, opaqueWhite)
	mask.SetComponentAlpha(true)
	dst := filledSurface(t, dev, 4, 4, opaqueBlue)

	Composite(OperatorAtop, src, mask, dst, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, dst, StatusNotSupported)
	expectPixel(t, dst, 0, 0, [4]byte{0, 0, 255, 255}, 0)
}

func TestCompositeIntoSelf(t *testing.T) {
	dev, _ := newTestDevice(t)
	s := gradientSurface(t, dev, 8, 8)

	Composite(OperatorSrc, s, nil, s, 0, 0, 0, 0, 2, 0, 6, 8)
	expectStatus(t, s, StatusSuccess)
	expectPixel(t, s, 2, 1, [4]byte{0, 8, 0, 255}, 0)
	expectPixel(t, s, 7, 5, [4]byte{40, 40, 0, 255}, 0)
	expectPixel(t, s, 1, 1, [4]byte{8, 8, 0, 255}, 0)
}

func TestCompositeStatus(t *testing.T) {
	dev, d := newTestDevice(t)
	dst := newTestSurface(t, dev, 4, 4)
	src := newTestSurface(t, dev, 4, 4)

	Composite(OperatorOver, nil, nil, dst, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, dst, StatusNullPointer)
	Composite(Operator(99), src, nil, dst, 0, 0, 0, 0, 0, 0, 4, 4)
	expectStatus(t, dst, StatusNotSupported)
	Composite(OperatorOver, src, nil, nil, 0, 0, 0, 0, 0, 0, 4, 4)

	solid, err := CreateSolid(dev, opaqueRed)
	if err != nil {
		t.Fatal(err)
	}
	defer solid.Destroy()
	Composite(OperatorOver, src, nil, solid, 0, 0, 0, 0, 0, 0, 1, 1)
	expectStatus(t, solid, StatusNotSupported)

	if d.Depth() != 0 {
		t.Errorf("context depth = %d, want 0", d.Depth())
	}
}

func TestLostContext(t *testing.T) {
	dev, d := newTestDevice(t, glsoft.WithFailPush())
	s := newTestSurface(t, dev, 4, 4)
	s.FillRectangle(OperatorOver, opaqueRed, Rectangle{Width: 4, Height: 4})
	expectStatus(t, s, StatusNotSupported)
	if d.Depth() != 0 || len(dev.stack) != 0 {
		t.Errorf("unbalanced stack: context %d, device %d", d.Depth(), len(dev.stack))
	}
}
