package ggl

import (
	"fmt"

	"github.com/gogpu/ggl/internal/blend"
)

type programKind uint8

const (
	programSolid programKind = iota
	programLinear
	programRadial
)

// programmatic is the content of a surface computed on the fly.
type programmatic struct {
	kind  programKind
	color blend.Pixel
}

func newProgrammatic(dev *Device, p *programmatic) (*Surface, error) {
	if dev == nil {
		return nil, fmt.Errorf("ggl: new programmatic surface: %w", StatusNullPointer)
	}
	s := newSurface(dev, dev.intermediate, 1, 1)
	s.programmatic = p
	return s, nil
}

// CreateSolid creates an infinite surface of one color.
func CreateSolid(dev *Device, c Color) (*Surface, error) {
	return newProgrammatic(dev, &programmatic{kind: programSolid, color: c.premultiplied()})
}

// newSolid creates a solid surface of the premultiplied color p.
func newSolid(dev *Device, p blend.Pixel) (*Surface, error) {
	return newProgrammatic(dev, &programmatic{kind: programSolid, color: p})
}

func stopsOf(stops []ColorStop) []gradientStop {
	out := make([]gradientStop, len(stops))
	for i, st := range stops {
		out[i] = gradientStop{offset: st.Offset.Float(), color: st.Color.premultiplied()}
	}
	return out
}

// CreateLinearGradient creates an infinite surface holding a linear
// gradient from start to end. Compositing from it requires fragment
// programs.
func CreateLinearGradient(dev *Device, start, end PointFixed, stops []ColorStop) (*Surface, error) {
	s, err := newProgrammatic(dev, &programmatic{kind: programLinear})
	if err != nil {
		return nil, err
	}
	p := s.ensureParams()
	p.start, p.end = start.float(), end.float()
	p.setStops(stopsOf(stops))
	s.filter = FilterLinearGradient
	return s, nil
}

// CreateRadialGradient creates an infinite surface holding a radial
// gradient between the circles of radius r0 and r1 around center.
func CreateRadialGradient(dev *Device, center PointFixed, r0, r1 Fixed, stops []ColorStop) (*Surface, error) {
	s, err := newProgrammatic(dev, &programmatic{kind: programRadial})
	if err != nil {
		return nil, err
	}
	p := s.ensureParams()
	p.center = center.float()
	p.r0, p.r1 = r0.Float(), r1.Float()
	p.setStops(stopsOf(stops))
	s.filter = FilterRadialGradient
	return s, nil
}
