package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/colornames"

	"github.com/matheuskafuri/devtimeline/internal/chart"
)

const markGlyph = "┃"

type cell struct {
	col, row int
}

// cellFor maps a mark's scene position onto a cols×rows grid.
func cellFor(m chart.Mark, layout chart.Layout, cols, rows int) cell {
	return cell{
		col: gridIndex(m.X, layout.PlotWidth(), cols),
		row: gridIndex(m.Y1, layout.PlotHeight(), rows),
	}
}

func gridIndex(v, extent float64, n int) int {
	if n <= 1 || extent <= 0 {
		return 0
	}
	i := int(math.Round(v / extent * float64(n-1)))
	return min(max(i, 0), n-1)
}

// termColor turns a CSS color name or #rrggbb value into a lipgloss color.
func termColor(name string) lipgloss.Color {
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return lipgloss.Color(name)
}

// markGrid places every mark index on a cols×rows grid; empty cells hold -1.
// Marks sharing a cell are placed in order, so the last one wins, except
// that mark top (when >= 0) always owns its cell.
func markGrid(s *chart.Scene, top, cols, rows int) [][]int {
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	for _, m := range s.Marks {
		at := cellFor(m, s.Layout, cols, rows)
		grid[at.row][at.col] = m.Index
	}
	if top >= 0 && top < len(s.Marks) {
		at := cellFor(s.Marks[top], s.Layout, cols, rows)
		grid[at.row][at.col] = top
	}
	return grid
}

// renderStrip draws the mark grid as glyphs followed by an axis row holding
// the first and last date labels. colorOf supplies each mark's color.
func renderStrip(s *chart.Scene, colorOf func(int) string, top, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	grid := markGrid(s, top, cols, rows)

	var b strings.Builder
	for r, row := range grid {
		for _, idx := range row {
			if idx < 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(termColor(colorOf(idx))).Render(markGlyph))
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(renderAxis(s.Labels, cols))
	return b.String()
}

func renderAxis(labels []chart.Label, cols int) string {
	if len(labels) == 0 {
		return strings.Repeat(" ", cols)
	}
	first := labels[0].Text
	if len(labels) == 1 {
		pad := max((cols-len(first))/2, 0)
		return axisStyle.Render(strings.Repeat(" ", pad) + first)
	}
	last := labels[len(labels)-1].Text
	gap := max(cols-len(first)-len(last), 1)
	return axisStyle.Render(first + strings.Repeat(" ", gap) + last)
}
