// Package counts aggregates articles per calendar day and charts the result.
package counts

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/matheuskafuri/devtimeline/internal/article"
)

// DefaultTitle heads the bar chart.
const DefaultTitle = "Articles per day"

type Day struct {
	Date  time.Time
	Count int
}

// Daily counts records per UTC calendar day, oldest day first. Days with no
// records are not listed.
func Daily(records []article.Record) []Day {
	perDay := make(map[time.Time]int)
	for _, r := range records {
		perDay[article.Day(r.Date)]++
	}
	days := make([]Day, 0, len(perDay))
	for d, n := range perDay {
		days = append(days, Day{Date: d, Count: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// WriteBarChart renders days as a go-echarts bar chart page.
func WriteBarChart(w io.Writer, days []Day, title string) error {
	if title == "" {
		title = DefaultTitle
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	labels := make([]string, len(days))
	items := make([]opts.BarData, len(days))
	for i, d := range days {
		labels[i] = d.Date.Format("2006-01-02")
		items[i] = opts.BarData{Value: d.Count}
	}
	bar.SetXAxis(labels).AddSeries("articles", items)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("rendering bar chart: %w", err)
	}
	return nil
}
