// Package scale maps data values onto pixel ranges.
package scale

// Linear maps a continuous domain onto a continuous range by linear
// interpolation. A collapsed domain maps every value to the middle of the
// range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map returns the range position of v. Values outside the domain extrapolate.
func (s Linear) Map(v float64) float64 {
	if s.d0 == s.d1 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert is the inverse of Map. A collapsed range returns the domain start.
func (s Linear) Invert(px float64) float64 {
	if s.r0 == s.r1 {
		return s.d0
	}
	t := (px - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}
