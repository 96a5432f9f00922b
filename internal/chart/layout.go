package chart

type Margin struct {
	Top, Right, Bottom, Left float64
}

// Layout holds the pixel geometry of the chart.
type Layout struct {
	// Width and Height are the outer size, margins included.
	Width  float64
	Height float64
	Margin Margin

	// TickLength is how far each mark extends below its start point.
	TickLength float64
	// MinStroke is the narrowest a mark may be drawn.
	MinStroke float64
	// StrokeFill is the share of the plot width the marks spread across.
	StrokeFill float64
	// LabelOffset places the date labels below the plot.
	LabelOffset float64
}

func DefaultLayout() Layout {
	return Layout{
		Width:       1800,
		Height:      600,
		Margin:      Margin{Top: 10, Right: 30, Bottom: 60, Left: 60},
		TickLength:  10,
		MinStroke:   10,
		StrokeFill:  0.9,
		LabelOffset: 20,
	}
}

func (l Layout) PlotWidth() float64 { return l.Width - l.Margin.Left - l.Margin.Right }

func (l Layout) PlotHeight() float64 { return l.Height - l.Margin.Top - l.Margin.Bottom }
