package scale

import (
	"math"
	"time"
)

// Time is a Linear scale over instants.
type Time struct {
	start, end time.Time
	lin        Linear
}

func NewTime(start, end time.Time, r0, r1 float64) Time {
	return Time{
		start: start,
		end:   end,
		lin:   NewLinear(0, float64(end.Sub(start)), r0, r1),
	}
}

// Domain returns the instants the scale spans.
func (s Time) Domain() (time.Time, time.Time) { return s.start, s.end }

func (s Time) Range() (float64, float64) { return s.lin.Range() }

func (s Time) Map(t time.Time) float64 {
	return s.lin.Map(float64(t.Sub(s.start)))
}

// Invert returns the instant at pixel px, rounded to the nanosecond.
func (s Time) Invert(px float64) time.Time {
	return s.start.Add(time.Duration(math.Round(s.lin.Invert(px))))
}
