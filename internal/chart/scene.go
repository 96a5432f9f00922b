// Package chart lays article records out as a timeline scene: one vertical
// mark per record on a time axis, labelled only at its two ends.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/scale"
)

// Mark is the drawn segment for one record, in plot coordinates.
type Mark struct {
	Index  int
	X      float64
	Y1     float64
	Y2     float64
	Record article.Record
}

// Label is an axis label anchored at X on the bottom edge of the plot.
type Label struct {
	X    float64
	Y    float64
	Date time.Time
	Text string
}

// Scene is everything needed to draw the timeline.
type Scene struct {
	Layout      Layout
	X           scale.Time
	Y           scale.Linear
	StrokeWidth float64
	Marks       []Mark
	Labels      []Label
}

// AxisLabel formats a date the way the axis shows it.
func AxisLabel(t time.Time) string { return t.Format("Jan 02") }

// TooltipDate formats a date the way the tooltip shows it.
func TooltipDate(t time.Time) string { return t.Format("January 02, 2006") }

// StrokeWidth spreads marks across fill of the plot width by the number of
// distinct dates, never going below floor. With fewer than two distinct
// dates there is nothing to spread and floor is returned.
func StrokeWidth(plotWidth float64, distinctDates int, floor, fill float64) float64 {
	if distinctDates < 2 {
		return floor
	}
	return math.Max(floor, fill*plotWidth/float64(distinctDates-1))
}

// Build lays out ds. The dataset is already sorted, so marks come out in
// non-decreasing X order.
func Build(ds *article.Dataset, layout Layout) (*Scene, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, article.ErrEmpty
	}
	w, h := layout.PlotWidth(), layout.PlotHeight()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("layout leaves no room to plot (%gx%g)", w, h)
	}

	first, last := ds.Extent()
	s := &Scene{
		Layout:      layout,
		X:           scale.NewTime(first, last, 0, w),
		Y:           scale.NewLinear(0, ds.MaxValue(), h, 0),
		StrokeWidth: StrokeWidth(w, ds.DistinctDates(), layout.MinStroke, layout.StrokeFill),
		Marks:       make([]Mark, ds.Len()),
	}

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		y := s.Y.Map(r.Value)
		s.Marks[i] = Mark{
			Index:  i,
			X:      s.X.Map(r.Date),
			Y1:     y,
			Y2:     y + layout.TickLength,
			Record: r,
		}
	}

	labelY := h + layout.LabelOffset
	s.Labels = append(s.Labels, Label{X: s.X.Map(first), Y: labelY, Date: first, Text: AxisLabel(first)})
	if !last.Equal(first) {
		s.Labels = append(s.Labels, Label{X: s.X.Map(last), Y: labelY, Date: last, Text: AxisLabel(last)})
	}
	return s, nil
}

// HitTest returns the mark under (x, y) in plot coordinates. When marks
// overlap the one drawn last wins, matching paint order.
func (s *Scene) HitTest(x, y float64) (int, bool) {
	half := s.StrokeWidth / 2
	for i := len(s.Marks) - 1; i >= 0; i-- {
		m := s.Marks[i]
		if x >= m.X-half && x <= m.X+half && y >= m.Y1 && y <= m.Y2 {
			return i, true
		}
	}
	return -1, false
}
