package ggl

import "math"

// Fixed is a 16.16 fixed-point number used for client geometry and
// filter parameters.
type Fixed int32

// FixedOne is 1.0 in 16.16 fixed point.
const FixedOne Fixed = 1 << 16

// FixedFromInt converts an integer.
func FixedFromInt(i int) Fixed {
	return Fixed(i << 16)
}

// FixedFromFloat converts a float, rounding to the nearest representable
// value.
func FixedFromFloat(f float64) Fixed {
	return Fixed(math.Round(f * 65536))
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / 65536
}

// Floor returns the largest integer not greater than f.
func (f Fixed) Floor() int {
	return int(f >> 16)
}

// Ceil returns the smallest integer not less than f.
func (f Fixed) Ceil() int {
	return int((f + FixedOne - 1) >> 16)
}
