// Command ggldemo renders a compositing demo with the software GL backend
// and writes it as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/ggl"
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/gl/glsoft"
)

func main() {
	var (
		width   = flag.Int("width", 512, "image width")
		height  = flag.Int("height", 384, "image height")
		output  = flag.String("output", "ggldemo.png", "output file")
		smooth  = flag.Bool("smooth", true, "antialias polygon edges")
		verbose = flag.Bool("v", false, "log strategy selection")
		backend = flag.String("backend", glsoft.BackendName, "GL backend, empty for the best available")
	)
	flag.Parse()

	if *verbose {
		ggl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img, err := render(*backend, *width, *height, *smooth)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("Failed to encode: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// newDrawable creates the drawable through the backend registry.
func newDrawable(backend string, w, h int) (gl.Drawable, error) {
	opts := gl.DrawableOptions{Width: w, Height: h}
	if backend == "" {
		return gl.NewDrawable(opts)
	}
	return gl.NewDrawableByName(backend, opts)
}

func render(backend string, w, h int, smooth bool) (*image.RGBA, error) {
	d, err := newDrawable(backend, w, h)
	if err != nil {
		return nil, err
	}
	defer d.Destroy()
	dev, err := ggl.NewDevice(d)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	dst, err := ggl.NewSurface(dev, dev.FindStandardFormat(ggl.StandardARGB32), w, h)
	if err != nil {
		return nil, err
	}
	defer dst.Destroy()
	if smooth {
		dst.SetPolygonEdge(ggl.EdgeSmooth, ggl.HintBest)
	}

	if err := drawBackground(dev, dst, w, h); err != nil {
		return nil, err
	}
	drawShapes(dst)
	drawClipped(dev, dst, w, h)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dst.GetPixels(0, 0, w, h, &ggl.PixelFormat{Masks: ggl.MasksRGBA32, BytesPerLine: img.Stride}, img.Pix)
	if st := dst.Status(); st != ggl.StatusSuccess {
		return nil, st
	}
	return img, nil
}

func fixed(v float64) ggl.Fixed { return ggl.FixedFromFloat(v) }

func point(x, y float64) ggl.PointFixed { return ggl.PointFixed{X: fixed(x), Y: fixed(y)} }

func drawBackground(dev *ggl.Device, dst *ggl.Surface, w, h int) error {
	bg, err := ggl.CreateLinearGradient(dev, point(0, 0), point(0, float64(h)), []ggl.ColorStop{
		{Offset: 0, Color: ggl.Color{Red: 0x1999, Green: 0x3333, Blue: 0x6666, Alpha: 0xffff}},
		{Offset: ggl.FixedFromInt(1), Color: ggl.Color{Red: 0x8000, Green: 0x8000, Blue: 0x9999, Alpha: 0xffff}},
	})
	if err != nil {
		return err
	}
	defer bg.Destroy()
	ggl.Composite(ggl.OperatorSrc, bg, nil, dst, 0, 0, 0, 0, 0, 0, w, h)
	if st := dst.Status(); st != ggl.StatusSuccess {
		// Without fragment programs the gradient is approximated by bands.
		for i := range 32 {
			t := float64(i) / 31
			dst.FillRectangle(ggl.OperatorSrc, ggl.Color{
				Red:   uint16(0x1999 + t*0x6666),
				Green: uint16(0x3333 + t*0x4ccc),
				Blue:  uint16(0x6666 + t*0x3333),
				Alpha: 0xffff,
			}, ggl.Rectangle{Y: i * h / 32, Width: w, Height: h/32 + 1})
		}
	}
	return nil
}

func drawShapes(dst *ggl.Surface) {
	colors := []ggl.Color{
		{Red: 0xffff, Green: 0x4ccc, Blue: 0x4ccc, Alpha: 0xcccc},
		{Red: 0x4ccc, Green: 0xffff, Blue: 0x4ccc, Alpha: 0xcccc},
		{Red: 0x4ccc, Green: 0x4ccc, Blue: 0xffff, Alpha: 0xcccc},
	}
	for i, c := range colors {
		cx, cy := 120+float64(i)*40, 130+float64(i%2)*50
		dst.FillTriFan(ggl.OperatorOver, c, circle(cx, cy, 60, 48))
	}

	dst.FillTrapezoids(ggl.OperatorOver, ggl.Color{Red: 0xffff, Green: 0xcccc, Alpha: 0xffff}, []ggl.Trapezoid{{
		Top:    fixed(100),
		Bottom: fixed(180),
		Left:   ggl.LineFixed{P1: point(330, 100), P2: point(300, 180)},
		Right:  ggl.LineFixed{P1: point(430, 100), P2: point(470, 180)},
	}})
	dst.FillTriangles(ggl.OperatorAdd, ggl.Color{Red: 0x6666, Green: 0x3333, Alpha: 0x8000}, []ggl.Triangle{
		{P1: point(300, 200), P2: point(480, 220), P3: point(340, 300)},
	})
}

func drawClipped(dev *ggl.Device, dst *ggl.Surface, w, h int) {
	dst.ClipRectangles(ggl.ClipSet, []ggl.Rectangle{{X: 40, Y: 240, Width: 220, Height: h - 260}})
	dst.ClipTriangles(ggl.ClipIntersect, []ggl.Triangle{
		{P1: point(40, 240), P2: point(300, 250), P3: point(60, float64(h))},
	})
	stripes, err := ggl.NewSurface(dev, dev.FindStandardFormat(ggl.StandardARGB32), 16, 16)
	if err == nil {
		stripes.FillRectangle(ggl.OperatorSrc, ggl.Color{Red: 0xffff, Green: 0xffff, Blue: 0xffff, Alpha: 0xffff}, ggl.Rectangle{Width: 8, Height: 16})
		stripes.SetFill(ggl.FillRepeat)
		m := ggl.Rotate(math.Pi / 6)
		stripes.SetTransform(&m)
		ggl.Composite(ggl.OperatorOver, stripes, nil, dst, 0, 0, 0, 0, 0, 0, w, h)
		stripes.Destroy()
	}
	dst.ResetClip()
}

// circle returns a triangle fan approximating a circle.
func circle(cx, cy, r float64, n int) []ggl.PointFixed {
	pts := []ggl.PointFixed{point(cx, cy)}
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, point(cx+r*math.Cos(a), cy+r*math.Sin(a)))
	}
	return pts
}
