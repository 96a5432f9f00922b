package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/interact"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type PNGOpts struct {
	Title  string
	Colors interact.Colors
	// Width and Height of the image; zero keeps the scene's aspect ratio at
	// 12 inches wide.
	Width  vg.Length
	Height vg.Length
}

// parseColor accepts SVG color names and #rrggbb.
func parseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// WritePNG draws the scene with gonum/plot. Marks keep their relative
// stroke width; the x axis shows dates, the y axis is hidden.
func WritePNG(w io.Writer, s *chart.Scene, opts PNGOpts) error {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Colors == (interact.Colors{}) {
		opts.Colors = interact.DefaultColors()
	}
	if opts.Width == 0 {
		opts.Width = 12 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = vg.Length(float64(opts.Width) * s.Layout.Height / s.Layout.Width)
	}
	markColor, err := parseColor(opts.Colors.Mark)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.HideY()
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}

	lo, hi := s.X.Domain()
	p.X.Min, p.X.Max = float64(lo.Unix()), float64(hi.Unix())
	if p.X.Min == p.X.Max {
		p.X.Min -= 12 * 3600
		p.X.Max += 12 * 3600
	}
	plotH := s.Layout.PlotHeight()
	p.Y.Min = -s.Layout.TickLength
	p.Y.Max = plotH

	stroke := vg.Length(s.StrokeWidth * float64(opts.Width) / s.Layout.Width)
	for _, m := range s.Marks {
		x := float64(m.Record.Date.Unix())
		line, err := plotter.NewLine(plotter.XYs{
			{X: x, Y: plotH - m.Y1},
			{X: x, Y: plotH - m.Y2},
		})
		if err != nil {
			return fmt.Errorf("mark %d: %w", m.Index, err)
		}
		line.LineStyle.Width = stroke
		line.LineStyle.Color = markColor
		p.Add(line)
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("creating plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}
