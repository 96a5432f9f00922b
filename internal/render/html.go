// Package render draws a chart scene as an interactive HTML page or a static
// PNG image.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/interact"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// DefaultTitle heads the page and the PNG export.
const DefaultTitle = "Articles published over time"

type PageOpts struct {
	Title  string
	Colors interact.Colors
}

type pageMark struct {
	Index      int
	X, Y1, Y2 string
}

type pageLabel struct {
	X, Y string
	Text string
}

// pageArticle is what the page script needs to drive one mark.
type pageArticle struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Article string `json:"article"`
	Link    string `json:"link"`
}

type pageData struct {
	Title          string
	Width          string
	Height         string
	MarginLeft     string
	MarginTop      string
	Stroke         string
	MarkColor      string
	HighlightColor string
	OffsetX        float64
	OffsetY        float64
	Marks          []pageMark
	Labels         []pageLabel
	Articles       []pageArticle
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteHTML writes a self-contained page holding the scene as SVG plus the
// hover, tooltip and click behaviour. The page has a #chart container, a
// #tooltip overlay and an #article_txt side panel.
func WriteHTML(w io.Writer, s *chart.Scene, opts PageOpts) error {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Colors == (interact.Colors{}) {
		opts.Colors = interact.DefaultColors()
	}

	data := pageData{
		Title:          opts.Title,
		Width:          px(s.Layout.Width),
		Height:         px(s.Layout.Height),
		MarginLeft:     px(s.Layout.Margin.Left),
		MarginTop:      px(s.Layout.Margin.Top),
		Stroke:         px(s.StrokeWidth),
		MarkColor:      opts.Colors.Mark,
		HighlightColor: opts.Colors.Highlight,
		OffsetX:        interact.TooltipOffset.X,
		OffsetY:        interact.TooltipOffset.Y,
		Marks:          make([]pageMark, len(s.Marks)),
		Labels:         make([]pageLabel, len(s.Labels)),
		Articles:       make([]pageArticle, len(s.Marks)),
	}
	for i, m := range s.Marks {
		data.Marks[i] = pageMark{Index: m.Index, X: px(m.X), Y1: px(m.Y1), Y2: px(m.Y2)}
		data.Articles[i] = pageArticle{
			Title:   m.Record.Title,
			Date:    chart.TooltipDate(m.Record.Date),
			Article: m.Record.Article,
			Link:    m.Record.Link,
		}
	}
	for i, l := range s.Labels {
		data.Labels[i] = pageLabel{X: px(l.X), Y: px(l.Y), Text: l.Text}
	}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
