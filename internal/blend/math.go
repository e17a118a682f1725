// Package blend provides fixed-point color arithmetic and the Porter-Duff
// operator model used by the compositing engine.
//
// Colors are 16-bit fractions: 0xffff represents 1.0. The engine stores
// premultiplied values; client APIs accept straight (non-premultiplied)
// colors and convert them with Premultiply.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// ShortMul multiplies two 16-bit fractions and divides by 0xffff with
// rounding.
//
// Formula: (a*b + 0x7fff) / 0xffff
//
// ShortMul(a, 0xffff) == a for every a, so multiplying by an opaque alpha
// is exact.
func ShortMul(a, b uint16) uint16 {
	return uint16((uint32(a)*uint32(b) + 0x7fff) / 0xffff)
}

// ShortInv computes 0xffff - x (inverse alpha).
func ShortInv(x uint16) uint16 {
	return 0xffff - x
}

// ShortAdd adds two 16-bit fractions with clamping to 0xffff.
func ShortAdd(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xffff {
		return 0xffff
	}
	return uint16(sum)
}

// To8 converts a 16-bit fraction to an 8-bit channel with rounding.
func To8(x uint16) uint8 {
	return uint8((uint32(x)*255 + 0x7fff) / 0xffff)
}

// From8 expands an 8-bit channel to a 16-bit fraction exactly.
func From8(x uint8) uint16 {
	return uint16(x) * 257
}

// ToFloat converts a 16-bit fraction to [0,1].
func ToFloat(x uint16) float32 {
	return float32(x) / 0xffff
}

// FromFloat converts [0,1] to a 16-bit fraction, clamping out-of-range
// input.
func FromFloat(f float64) uint16 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 0xffff
	}
	return uint16(f*0xffff + 0.5)
}
