// Package zodiac holds the angular arithmetic and the fixed lookup tables of
// the sidereal zodiac: signs, nakshatras, padas and the bodies that rule them.
package zodiac

import "math"

const (
	// FullCircle is the length of the ecliptic in degrees.
	FullCircle = 360.0

	// SignSpan is the width of one of the 12 equal signs.
	SignSpan = FullCircle / SignCount

	// NakshatraSpan is the width of one of the 27 lunar mansions (13°20′).
	NakshatraSpan = FullCircle / NakshatraCount

	// PadaSpan is a quarter of a nakshatra (3°20′).
	PadaSpan = NakshatraSpan / PadasPerNakshatra
)

// Normalize wraps any angle into [0, 360).
func Normalize(angle float64) float64 {
	r := math.Mod(angle, FullCircle)
	if r < 0 {
		r += FullCircle
	}
	// A tiny negative remainder plus 360 rounds up to exactly 360.
	if r >= FullCircle || r == 0 {
		return 0
	}
	return r
}

// ToSidereal converts a tropical longitude to the sidereal zodiac using the
// given ayanamsha. The offset is always an explicit argument so that several
// ayanamsha variants can be evaluated side by side.
func ToSidereal(tropical, ayanamsha float64) float64 {
	return Normalize(tropical - ayanamsha)
}

// Opposite returns the point 180° away, e.g. Ketu from Rahu.
func Opposite(lon float64) float64 {
	return Normalize(lon + FullCircle/2)
}

// WithinSign returns the degrees elapsed inside the sign holding lon.
func WithinSign(lon float64) float64 {
	return math.Mod(Normalize(lon), SignSpan)
}

// Distance returns the forward arc from 'from' to 'to', in [0, 360).
func Distance(from, to float64) float64 {
	return Normalize(to - from)
}

// Divide splits [0, whole) into count equal parts and returns the index of the
// part holding value, clamped into [0, count). A value on a boundary belongs to
// the part it enters. The product is formed before dividing so that exact
// boundaries such as 40° (the start of Rohini) are not lost to the rounding of
// 360/27.
func Divide(value, whole float64, count int) int {
	idx := int(math.Floor(value * float64(count) / whole))
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// Fraction returns how far lon has progressed through its division when the
// circle is split into count equal parts, in [0, 1).
func Fraction(lon float64, count int) float64 {
	x := Normalize(lon) * float64(count) / FullCircle
	f := x - math.Floor(x)
	if f >= 1 || f < 0 {
		return 0
	}
	return f
}

// DivisionOf normalises lon and returns its index among count equal divisions
// of the circle (tithi, yoga, karana...).
func DivisionOf(lon float64, count int) int {
	return Divide(Normalize(lon), FullCircle, count)
}
