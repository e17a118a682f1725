package ggl

import "github.com/gogpu/ggl/gl"

// StandardFormat names one of the formats every backend reports.
type StandardFormat uint8

// Standard formats.
const (
	StandardARGB32 StandardFormat = iota
	StandardRGB24
	StandardA8
	StandardA1
)

var standardSizes = [...]gl.ColorFormat{
	StandardARGB32: {Red: 8, Green: 8, Blue: 8, Alpha: 8},
	StandardRGB24:  {Red: 8, Green: 8, Blue: 8},
	StandardA8:     {Alpha: 8},
	StandardA1:     {Alpha: 1},
}

// FormatMask selects the fields of a template compared by FindFormat.
type FormatMask uint8

// Format mask bits.
const (
	FormatMaskID FormatMask = 1 << iota
	FormatMaskRedSize
	FormatMaskGreenSize
	FormatMaskBlueSize
	FormatMaskAlphaSize
	FormatMaskName
)

func formatMatches(f *gl.Format, mask FormatMask, tmpl *gl.Format) bool {
	switch {
	case mask&FormatMaskID != 0 && f.ID != tmpl.ID,
		mask&FormatMaskRedSize != 0 && f.Color.Red != tmpl.Color.Red,
		mask&FormatMaskGreenSize != 0 && f.Color.Green != tmpl.Color.Green,
		mask&FormatMaskBlueSize != 0 && f.Color.Blue != tmpl.Color.Blue,
		mask&FormatMaskAlphaSize != 0 && f.Color.Alpha != tmpl.Color.Alpha,
		mask&FormatMaskName != 0 && f.Name != tmpl.Name:
		return false
	}
	return true
}

// FindFormat returns the count-th format (counting from 0) matching the
// fields of tmpl selected by mask, or nil.
func (d *Device) FindFormat(mask FormatMask, tmpl *gl.Format, count int) *gl.Format {
	for i := range d.formats {
		f := &d.formats[i]
		if !formatMatches(f, mask, tmpl) {
			continue
		}
		if count == 0 {
			return f
		}
		count--
	}
	return nil
}

// FindStandardFormat returns the device format with the channel sizes of
// s, or nil.
func (d *Device) FindStandardFormat(s StandardFormat) *gl.Format {
	if int(s) >= len(standardSizes) {
		return nil
	}
	tmpl := gl.Format{Color: standardSizes[s]}
	return d.FindFormat(FormatMaskRedSize|FormatMaskGreenSize|FormatMaskBlueSize|FormatMaskAlphaSize, &tmpl, 0)
}

// colorMask returns the channels stored by f. Missing channels keep their
// neutral value: alpha 1 for color-only formats, color 0 for alpha-only
// formats.
func colorMask(f *gl.Format) [4]bool {
	c := f.HasColor()
	return [4]bool{c, c, c, f.HasAlpha()}
}

// neutral forces the channels f does not store to their neutral value in
// an RGBA8 pixel.
func neutral(f *gl.Format, px []byte) {
	if !f.HasColor() {
		px[0], px[1], px[2] = 0, 0, 0
	}
	if !f.HasAlpha() {
		px[3] = 0xff
	}
}
