// Package interact holds the pointer behaviour of a timeline: hovering a
// mark highlights it, shows a tooltip and fills the side panel; activating
// it opens the article link.
package interact

import (
	"fmt"
	"sync"

	"github.com/matheuskafuri/devtimeline/internal/chart"
)

// TooltipOffset is added to the pointer position when placing the tooltip.
var TooltipOffset = Point{X: 10, Y: -10}

type Point struct {
	X, Y float64
}

// Tooltip is the overlay shown next to the pointer.
type Tooltip struct {
	Visible bool
	Pos     Point
	Title   string
	Date    string
}

// Lines returns the tooltip body, one entry per line.
func (t Tooltip) Lines() []string {
	return []string{"Title: " + t.Title, "Date: " + t.Date}
}

// Panel is the side area holding the full text of the hovered article.
type Panel struct {
	Text string
}

// Opener opens a link in a new browsing context.
type Opener interface {
	Open(link string) error
}

// OpenerFunc adapts a plain function to Opener.
type OpenerFunc func(link string) error

func (f OpenerFunc) Open(link string) error { return f(link) }

type Colors struct {
	Mark      string
	Highlight string
}

func DefaultColors() Colors {
	return Colors{Mark: "royalblue", Highlight: "orange"}
}

// Controller applies pointer events to a scene. The tooltip and panel it
// writes to are owned by the caller. Events may arrive from several
// goroutines; the last one wins.
type Controller struct {
	mu      sync.Mutex
	scene   *chart.Scene
	tooltip *Tooltip
	panel   *Panel
	opener  Opener
	colors  Colors
	stroke  []string
	hovered int
}

func NewController(scene *chart.Scene, tooltip *Tooltip, panel *Panel, opener Opener, colors Colors) *Controller {
	stroke := make([]string, len(scene.Marks))
	for i := range stroke {
		stroke[i] = colors.Mark
	}
	return &Controller{
		scene:   scene,
		tooltip: tooltip,
		panel:   panel,
		opener:  opener,
		colors:  colors,
		stroke:  stroke,
		hovered: -1,
	}
}

func (c *Controller) mark(i int) (chart.Mark, error) {
	if i < 0 || i >= len(c.scene.Marks) {
		return chart.Mark{}, fmt.Errorf("mark %d out of range [0, %d)", i, len(c.scene.Marks))
	}
	return c.scene.Marks[i], nil
}

// Enter highlights mark i, shows the tooltip at p and puts the article text
// in the panel.
func (c *Controller) Enter(i int, p Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enter(i, p)
}

func (c *Controller) enter(i int, p Point) error {
	m, err := c.mark(i)
	if err != nil {
		return err
	}
	c.stroke[i] = c.colors.Highlight
	c.hovered = i
	*c.tooltip = Tooltip{
		Visible: true,
		Pos:     offset(p),
		Title:   m.Record.Title,
		Date:    chart.TooltipDate(m.Record.Date),
	}
	c.panel.Text = m.Record.Article
	return nil
}

// Move keeps the tooltip next to the pointer.
func (c *Controller) Move(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltip.Pos = offset(p)
}

// Exit hides the tooltip and restores the color of mark i. The panel keeps
// the last article shown.
func (c *Controller) Exit(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exit(i)
}

func (c *Controller) exit(i int) error {
	if _, err := c.mark(i); err != nil {
		return err
	}
	c.stroke[i] = c.colors.Mark
	c.tooltip.Visible = false
	if c.hovered == i {
		c.hovered = -1
	}
	return nil
}

// Activate opens the link of mark i.
func (c *Controller) Activate(i int) error {
	c.mu.Lock()
	m, err := c.mark(i)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if err := c.opener.Open(m.Record.Link); err != nil {
		return fmt.Errorf("opening %s: %w", m.Record.Link, err)
	}
	return nil
}

// Pointer turns a raw pointer position into enter, move and exit events
// using the scene's hit test, and returns the mark now under the pointer.
// The whole transition happens under one lock, so at most one mark is ever
// highlighted.
func (c *Controller) Pointer(p Point) (int, bool) {
	i, hit := c.scene.HitTest(p.X, p.Y)

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.hovered
	switch {
	case hit && i == prev:
		c.tooltip.Pos = offset(p)
	case hit:
		if prev >= 0 {
			_ = c.exit(prev)
		}
		_ = c.enter(i, p)
	case prev >= 0:
		_ = c.exit(prev)
	}
	return i, hit
}

// Hovered reports the mark under the pointer, if any.
func (c *Controller) Hovered() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered, c.hovered >= 0
}

// Color returns the current stroke color of mark i.
func (c *Controller) Color(i int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.stroke) {
		return c.colors.Mark
	}
	return c.stroke[i]
}

// Tooltip returns a snapshot of the tooltip.
func (c *Controller) Tooltip() Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.tooltip
}

// Panel returns a snapshot of the panel.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.panel
}

func offset(p Point) Point {
	return Point{X: p.X + TooltipOffset.X, Y: p.Y + TooltipOffset.Y}
}
