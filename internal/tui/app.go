package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/browser"
	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/interact"
)

type focusPane int

const (
	focusStrip focusPane = iota
	focusPanel
)

// App is the terminal rendition of the timeline. The cursor plays the
// pointer: moving it exits the previous mark and enters the next one.
type App struct {
	title   string
	scene   *chart.Scene
	ctrl    *interact.Controller
	tooltip *interact.Tooltip
	panel   *interact.Panel

	cursor int
	focus  focusPane
	vp     viewport.Model

	width  int
	height int

	status string
	err    error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Title  string
	Scene  *chart.Scene
	Colors interact.Colors
	Opener interact.Opener
}

func NewApp(opts RunOpts) *App {
	if opts.Colors == (interact.Colors{}) {
		opts.Colors = interact.DefaultColors()
	}
	if opts.Opener == nil {
		opts.Opener = interact.OpenerFunc(browser.Open)
	}
	tooltip := &interact.Tooltip{}
	panel := &interact.Panel{}
	return &App{
		title:   opts.Title,
		scene:   opts.Scene,
		ctrl:    interact.NewController(opts.Scene, tooltip, panel, opts.Opener, opts.Colors),
		tooltip: tooltip,
		panel:   panel,
		cursor:  -1,
		vp:      viewport.New(0, 0),
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) activateCmd(i int) tea.Cmd {
	ctrl := a.ctrl
	link := a.scene.Marks[i].Record.Link
	return func() tea.Msg {
		if err := ctrl.Activate(i); err != nil {
			return openErrMsg{err: err}
		}
		return openedMsg{link: link}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case openedMsg:
		a.status = "opened " + msg.link
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		if a.focus == focusStrip {
			a.focus = focusPanel
		} else {
			a.focus = focusStrip
		}
		return a, nil
	}

	if a.focus == focusPanel {
		var cmd tea.Cmd
		a.vp, cmd = a.vp.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "right", "l":
		a.hover(a.cursor + 1)
	case "left", "h":
		a.hover(a.cursor - 1)
	case "home", "g":
		a.hover(0)
	case "end", "G":
		a.hover(len(a.scene.Marks) - 1)
	case "esc":
		a.unhover()
	case "enter", "o":
		if a.cursor >= 0 {
			return a, a.activateCmd(a.cursor)
		}
	}
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	col, row, inside := a.gridCell(msg.X, msg.Y)
	if !inside {
		return a, nil
	}
	i, onMark := a.markAt(col, row)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !onMark {
			return a, nil
		}
		a.point(i)
		return a, a.activateCmd(a.cursor)
	case msg.Action == tea.MouseActionMotion:
		if onMark {
			a.point(i)
			return a, nil
		}
		a.unhover()
		px := float64(col) / float64(max(a.stripCols()-1, 1)) * a.scene.Layout.PlotWidth()
		a.status = "pointer at " + chart.TooltipDate(a.scene.X.Invert(px))
	}
	return a, nil
}

// gridCell converts a terminal position into a strip cell. The strip sits
// below the one-line header, inside a one-cell border.
func (a *App) gridCell(x, y int) (col, row int, ok bool) {
	col, row = x-1, y-2
	ok = col >= 0 && col < a.stripCols() && row >= 0 && row < a.stripRows()
	return col, row, ok
}

// markAt returns the mark whose glyph is shown on a strip cell.
func (a *App) markAt(col, row int) (int, bool) {
	i := markGrid(a.scene, a.cursor, a.stripCols(), a.stripRows())[row][col]
	return i, i >= 0
}

// point feeds the controller a pointer position on mark i. The controller
// hit-tests it and emits the exit and enter events itself.
func (a *App) point(i int) {
	m := a.scene.Marks[i]
	idx, hit := a.ctrl.Pointer(interact.Point{X: m.X, Y: m.Y1})
	if hit && idx != a.cursor {
		a.cursor = idx
		a.vp.SetContent(panelContent(a.ctrl.Panel().Text, a.vp.Width))
		a.vp.GotoTop()
	}
	// overlapping marks: the glyph on screen beats the scene's paint order
	if !hit || idx != i {
		a.hover(i)
	}
}

// hover moves the pointer onto mark i, clamped to the scene.
func (a *App) hover(i int) {
	n := len(a.scene.Marks)
	if n == 0 {
		return
	}
	i = min(max(i, 0), n-1)
	if i == a.cursor {
		return
	}
	a.unhover()
	m := a.scene.Marks[i]
	if err := a.ctrl.Enter(i, interact.Point{X: m.X, Y: m.Y1}); err != nil {
		a.err = err
		return
	}
	a.cursor = i
	a.vp.SetContent(panelContent(a.ctrl.Panel().Text, a.vp.Width))
	a.vp.GotoTop()
}

func (a *App) unhover() {
	if a.cursor < 0 {
		return
	}
	if err := a.ctrl.Exit(a.cursor); err != nil {
		a.err = err
	}
	a.cursor = -1
}

func (a *App) stripCols() int {
	return max(a.width-4, 1)
}

func (a *App) stripRows() int {
	return max(a.height/3, 3)
}

func (a *App) resize() {
	// header, tooltip, status and two bordered panes
	panelHeight := a.height - a.stripRows() - 1 - 3 - 4
	a.vp.Width = max(a.width-4, 10)
	a.vp.Height = max(panelHeight, 3)
	a.vp.SetContent(panelContent(a.ctrl.Panel().Text, a.vp.Width))
}

func (a *App) renderTooltip() string {
	tip := a.ctrl.Tooltip()
	if !tip.Visible {
		return hintStyle.Render(" Move with ←/→ or the mouse to hover an article")
	}
	lines := tip.Lines()
	title := article.Truncate(lines[0], max(a.width-lipgloss.Width(lines[1])-4, 10))
	return " " + tooltipTitleStyle.Render(title) + "  " + tooltipDateStyle.Render(lines[1])
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  devtimeline")
	}

	// Header
	headerLeft := headerStyle.Render(a.title)
	start, end := a.scene.X.Domain()
	headerRight := headerRangeStyle.Render(fmt.Sprintf("%s to %s ", chart.TooltipDate(start), chart.TooltipDate(end)))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + strings.Repeat(" ", headerGap) + headerRight

	strip := renderStrip(a.scene, a.ctrl.Color, a.cursor, a.stripCols(), a.stripRows())
	stripStyle, panelStyle := stripPaneActiveStyle, panelPaneStyle
	if a.focus == focusPanel {
		stripStyle, panelStyle = stripPaneStyle, panelPaneActiveStyle
	}
	stripPane := stripStyle.Width(a.width - 2).Render(strip)
	panelPane := panelStyle.Width(a.width - 2).Height(a.vp.Height).Render(a.vp.View())

	status := renderStatusBar(len(a.scene.Marks), a.cursor, a.focus == focusPanel, a.width)
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	} else if a.status != "" {
		status = hintStyle.Render(" "+a.status) + "\n" + status
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, stripPane, a.renderTooltip(), panelPane, status)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
