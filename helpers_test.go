package ggl

import (
	"testing"

	"github.com/gogpu/ggl/gl/glsoft"
)

var (
	opaqueRed   = Color{Red: 0xffff, Alpha: 0xffff}
	opaqueGreen = Color{Green: 0xffff, Alpha: 0xffff}
	opaqueBlue  = Color{Blue: 0xffff, Alpha: 0xffff}
	opaqueWhite = Color{Red: 0xffff, Green: 0xffff, Blue: 0xffff, Alpha: 0xffff}
)

// newTestDevice returns a device on a 64x64 software drawable.
func newTestDevice(t *testing.T, opts ...glsoft.Option) (*Device, *glsoft.Drawable) {
	t.Helper()
	d, err := glsoft.New(64, 64, opts...)
	if err != nil {
		t.Fatalf("glsoft.New: %v", err)
	}
	dev, err := NewDevice(d)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() {
		dev.Close()
		d.Destroy()
	})
	return dev, d
}

// newTestSurface returns a transparent ARGB32 surface.
func newTestSurface(t *testing.T, dev *Device, w, h int) *Surface {
	t.Helper()
	f := dev.FindStandardFormat(StandardARGB32)
	if f == nil {
		t.Fatal("no argb32 format")
	}
	s, err := NewSurface(dev, f, w, h)
	if err != nil {
		t.Fatalf("NewSurface(%d, %d): %v", w, h, err)
	}
	t.Cleanup(s.Destroy)
	return s
}

// filledSurface returns a w x h surface filled with c.
func filledSurface(t *testing.T, dev *Device, w, h int, c Color) *Surface {
	t.Helper()
	s := newTestSurface(t, dev, w, h)
	s.FillRectangle(OperatorSrc, c, Rectangle{Width: w, Height: h})
	expectStatus(t, s, StatusSuccess)
	return s
}

// pixelAt reads the premultiplied RGBA8 pixel (x, y) of s.
func pixelAt(t *testing.T, s *Surface, x, y int) [4]byte {
	t.Helper()
	var px [4]byte
	s.GetPixels(x, y, 1, 1, &PixelFormat{Masks: MasksRGBA32}, px[:])
	if st := s.Status(); st != StatusSuccess {
		t.Fatalf("GetPixels(%d, %d): %v", x, y, st)
	}
	return px
}

// allPixels reads s top row first as RGBA8.
func allPixels(t *testing.T, s *Surface) []byte {
	t.Helper()
	buf := make([]byte, s.Width()*s.Height()*4)
	s.GetPixels(0, 0, s.Width(), s.Height(), &PixelFormat{Masks: MasksRGBA32}, buf)
	if st := s.Status(); st != StatusSuccess {
		t.Fatalf("GetPixels: %v", st)
	}
	return buf
}

func near(a, b [4]byte, tol int) bool {
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}

func expectPixel(t *testing.T, s *Surface, x, y int, want [4]byte, tol int) {
	t.Helper()
	if got := pixelAt(t, s, x, y); !near(got, want, tol) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func expectStatus(t *testing.T, s *Surface, want Status) {
	t.Helper()
	if got := s.Status(); got != want {
		t.Errorf("Status() = %v, want %v", got, want)
	}
}

// inBox reports whether pixel (x, y) lies in b.
func inBox(b Box, x, y int) bool {
	return x >= b.X1 && x < b.X2 && y >= b.Y1 && y < b.Y2
}

func fx(v int) Fixed { return FixedFromInt(v) }

func rectTrap(x1, y1, x2, y2 int) Trapezoid {
	return Trapezoid{
		Top: fx(y1), Bottom: fx(y2),
		Left:  LineFixed{PointFixed{fx(x1), fx(y1)}, PointFixed{fx(x1), fx(y2)}},
		Right: LineFixed{PointFixed{fx(x2), fx(y1)}, PointFixed{fx(x2), fx(y2)}},
	}
}
