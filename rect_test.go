package ggl

import (
	"testing"
)

func TestFillRectangleClearPath(t *testing.T) {
	tests := []struct {
		name      string
		op        Operator
		wantClear bool
		want      [4]byte
	}{
		{"src", OperatorSrc, true, [4]byte{128, 0, 0, 128}},
		{"clear", OperatorClear, true, [4]byte{}},
		{"over", OperatorOver, false, [4]byte{128, 0, 127, 255}},
		{"add", OperatorAdd, false, [4]byte{128, 0, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, d := newTestDevice(t)
			s := filledSurface(t, dev, 8, 8, opaqueBlue)
			ctx := d.Context()
			ctx.ResetCalls()

			s.FillRectangle(tt.op, Color{Red: 0xffff, Alpha: 0x8000}, Rectangle{X: 2, Y: 2, Width: 4, Height: 4})
			expectStatus(t, s, StatusSuccess)

			clears, draws := ctx.Count("Clear"), ctx.Count("DrawArrays")
			if tt.wantClear && (clears == 0 || draws != 0) {
				t.Errorf("Clear = %d, DrawArrays = %d, want clears only", clears, draws)
			}
			if !tt.wantClear && draws == 0 {
				t.Error("DrawArrays not called")
			}
			expectPixel(t, s, 3, 3, tt.want, 1)
			expectPixel(t, s, 1, 1, [4]byte{0, 0, 255, 255}, 0)
			expectPixel(t, s, 6, 6, [4]byte{0, 0, 255, 255}, 0)
		})
	}
}

func TestFillRectanglesUnionDamage(t *testing.T) {
	dev, _ := newTestDevice(t)
	s := newTestSurface(t, dev, 32, 32)
	gen := s.gen
	s.damage = Box{}

	s.FillRectangles(OperatorOver, opaqueGreen, []Rectangle{
		{X: 1, Y: 2, Width: 3, Height: 3},
		{X: 20, Y: 10, Width: 40, Height: 4},
		{X: -10, Y: -10, Width: 5, Height: 5},
	})
	expectStatus(t, s, StatusSuccess)
	if s.gen == gen {
		t.Error("content generation not advanced")
	}
	expectPixel(t, s, 2, 3, [4]byte{0, 255, 0, 255}, 0)
	expectPixel(t, s, 31, 12, [4]byte{0, 255, 0, 255}, 0)
	expectPixel(t, s, 10, 10, [4]byte{}, 0)
}

func TestFillRectangleRejects(t *testing.T) {
	dev, _ := newTestDevice(t)
	solid, err := CreateSolid(dev, opaqueRed)
	if err != nil {
		t.Fatal(err)
	}
	defer solid.Destroy()
	solid.FillRectangle(OperatorSrc, opaqueBlue, Rectangle{Width: 1, Height: 1})
	expectStatus(t, solid, StatusNotSupported)

	s := filledSurface(t, dev, 4, 4, opaqueRed)
	s.FillRectangle(Operator(200), opaqueBlue, Rectangle{Width: 4, Height: 4})
	expectStatus(t, s, StatusNotSupported)

	gen := s.gen
	s.FillRectangle(OperatorDst, opaqueBlue, Rectangle{Width: 4, Height: 4})
	s.FillRectangle(OperatorSrc, opaqueBlue, Rectangle{X: 8, Width: 4, Height: 4})
	expectStatus(t, s, StatusSuccess)
	if s.gen != gen {
		t.Error("no-op fills changed the content generation")
	}
	expectPixel(t, s, 0, 0, [4]byte{255, 0, 0, 255}, 0)
}
