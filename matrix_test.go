package ggl

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(10, -4)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(math.Pi / 5)},
		{"affine", Affine(1.5, 0.25, 3, -0.5, 2, 7)},
		{"projective", Matrix{1, 0.1, 2, 0.2, 1, 3, 0.001, 0.002, 1}},
	}
	points := [][2]float64{{0, 0}, {3, 4}, {-12.5, 8.25}, {100, 50}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatal("Invert() reported singular")
			}
			for _, p := range points {
				x, y, ok := tt.m.TransformPoint(p[0], p[1])
				if !ok {
					t.Fatal("forward transform hit infinity")
				}
				bx, by, _ := inv.TransformPoint(x, y)
				if !approx(bx, p[0]) || !approx(by, p[1]) {
					t.Errorf("round trip of %v = (%v, %v)", p, bx, by)
				}
			}
			if got := tt.m.Multiply(inv); !matrixApprox(got, Identity()) {
				t.Errorf("m * inv = %v, want identity", got)
			}
		})
	}
}

func matrixApprox(a, b Matrix) bool {
	for i := range a {
		if !approx(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestMatrixSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a singular matrix reported ok")
	}
}

func TestMatrixPredicates(t *testing.T) {
	tests := []struct {
		name        string
		m           Matrix
		identity    bool
		translation bool
		rotation    bool
	}{
		{"identity", Identity(), true, true, false},
		{"translate", Translate(1, 2), false, true, false},
		{"scale", Scale(2, 2), false, false, false},
		{"rotate", Rotate(0.3), false, false, true},
		{"projective", Matrix{1, 0, 0, 0, 1, 0, 0.1, 0, 1}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsIdentity(); got != tt.identity {
				t.Errorf("IsIdentity() = %v", got)
			}
			if got := tt.m.IsTranslation(); got != tt.translation {
				t.Errorf("IsTranslation() = %v", got)
			}
			if got := tt.m.HasRotation(); got != tt.rotation {
				t.Errorf("HasRotation() = %v", got)
			}
		})
	}
}

func TestMatrixTransformBox(t *testing.T) {
	b, ok := Scale(2, 3).Multiply(Translate(1, 1)).TransformBox(BoxF{0, 0, 4, 4})
	if !ok {
		t.Fatal("TransformBox failed")
	}
	if b != (BoxF{2, 3, 10, 15}) {
		t.Errorf("TransformBox = %+v", b)
	}
}

func TestMatrixFromFixed(t *testing.T) {
	m := MatrixFromFixed([3][3]Fixed{
		{FixedOne * 2, 0, FixedFromInt(5)},
		{0, FixedOne, FixedFromFloat(-1.5)},
		{0, 0, FixedOne},
	})
	if m != Affine(2, 0, 5, 0, 1, -1.5) {
		t.Errorf("MatrixFromFixed = %v", m)
	}
}
