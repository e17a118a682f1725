// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import "github.com/gogpu/gputypes"

// FormatID identifies a format within the list a drawable reports.
type FormatID uint32

// ColorFormat holds the number of bits per color channel.
type ColorFormat struct {
	Red, Green, Blue, Alpha uint16
}

// Format describes a texture (surface) pixel format.
//
// Formats are enumerated once by the backend and borrowed by surfaces;
// they are never modified after enumeration.
type Format struct {
	ID    FormatID
	Name  string
	Color ColorFormat

	// Internal is the texture storage format. Every format the engine
	// renders to is stored as four 8-bit channels; channels missing from
	// Color are kept at their neutral value (alpha 1, color 0).
	Internal gputypes.TextureFormat
}

// HasAlpha reports whether the format carries an alpha channel.
func (f *Format) HasAlpha() bool {
	return f.Color.Alpha > 0
}

// HasColor reports whether the format carries any color channel.
func (f *Format) HasColor() bool {
	return f.Color.Red > 0 || f.Color.Green > 0 || f.Color.Blue > 0
}

// DrawableType is a bitmask of drawable kinds a drawable format supports.
type DrawableType uint8

// Drawable kinds.
const (
	DrawableTypeWindow DrawableType = 1 << iota
	DrawableTypePbuffer
)

// DrawableFormat describes the framebuffer configuration of a drawable.
type DrawableFormat struct {
	ID           FormatID
	Color        ColorFormat
	Depth        uint16
	Stencil      uint16
	Doublebuffer bool

	// Samples is the number of multisample samples, 0 or 1 meaning none.
	Samples uint16

	Types DrawableType
}

// Multisample reports whether the format carries a multisample buffer.
func (f *DrawableFormat) Multisample() bool {
	return f.Samples > 1
}
