package interact

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/chart"
)

func testScene(t *testing.T) *chart.Scene {
	t.Helper()
	ds, err := article.NewDataset([]article.Record{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 5, Title: "First", Article: "<p>one</p>", Link: "https://example.com/1"},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 2, Title: "Second", Article: "two", Link: "https://example.com/2"},
	})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	s, err := chart.Build(ds, chart.DefaultLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

type recordingOpener struct {
	links []string
	err   error
}

func (o *recordingOpener) Open(link string) error {
	o.links = append(o.links, link)
	return o.err
}

func newController(t *testing.T) (*Controller, *Tooltip, *Panel, *recordingOpener) {
	t.Helper()
	tip := &Tooltip{}
	panel := &Panel{}
	opener := &recordingOpener{}
	return NewController(testScene(t), tip, panel, opener, DefaultColors()), tip, panel, opener
}

func TestHoverShowsTooltipAndPanel(t *testing.T) {
	c, tip, panel, _ := newController(t)

	if err := c.Enter(1, Point{X: 100, Y: 200}); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if !tip.Visible {
		t.Error("tooltip should be visible after enter")
	}
	if tip.Title != "Second" || tip.Date != "January 03, 2024" {
		t.Errorf("tooltip = %+v", *tip)
	}
	if tip.Pos != (Point{X: 110, Y: 190}) {
		t.Errorf("tooltip pos = %+v, want {110 190}", tip.Pos)
	}
	if panel.Text != "two" {
		t.Errorf("panel = %q, want %q", panel.Text, "two")
	}
	if c.Color(1) != "orange" || c.Color(0) != "royalblue" {
		t.Errorf("colors = %s, %s", c.Color(0), c.Color(1))
	}
	if i, ok := c.Hovered(); !ok || i != 1 {
		t.Errorf("Hovered = %d, %v", i, ok)
	}

	c.Move(Point{X: 300, Y: 40})
	if tip.Pos != (Point{X: 310, Y: 30}) {
		t.Errorf("tooltip pos after move = %+v", tip.Pos)
	}

	if err := c.Exit(1); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if tip.Visible {
		t.Error("tooltip should be hidden after exit")
	}
	if c.Color(1) != "royalblue" {
		t.Errorf("color after exit = %s", c.Color(1))
	}
	if panel.Text != "two" {
		t.Errorf("panel should keep the last article, got %q", panel.Text)
	}
	if _, ok := c.Hovered(); ok {
		t.Error("nothing should be hovered after exit")
	}
}

func TestLines(t *testing.T) {
	tip := Tooltip{Title: "T", Date: "January 01, 2024"}
	lines := tip.Lines()
	if len(lines) != 2 || lines[0] != "Title: T" || lines[1] != "Date: January 01, 2024" {
		t.Errorf("Lines = %v", lines)
	}
}

func TestActivateOpensLink(t *testing.T) {
	c, _, _, opener := newController(t)
	if err := c.Activate(0); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(opener.links) != 1 || opener.links[0] != "https://example.com/1" {
		t.Errorf("opened = %v", opener.links)
	}

	opener.err = errors.New("no browser")
	if err := c.Activate(1); err == nil {
		t.Error("expected opener error to propagate")
	}
}

func TestOutOfRange(t *testing.T) {
	c, _, _, _ := newController(t)
	if err := c.Enter(5, Point{}); err == nil {
		t.Error("expected error entering a missing mark")
	}
	if err := c.Exit(-1); err == nil {
		t.Error("expected error exiting a missing mark")
	}
	if err := c.Activate(2); err == nil {
		t.Error("expected error activating a missing mark")
	}
}

func TestPointerDrivesHover(t *testing.T) {
	c, tip, panel, _ := newController(t)
	s := testScene(t)

	first := s.Marks[0]
	if i, ok := c.Pointer(Point{X: first.X, Y: first.Y1 + 2}); !ok || i != 0 {
		t.Fatalf("Pointer over mark 0 = %d, %v", i, ok)
	}
	if !tip.Visible || panel.Text != "<p>one</p>" {
		t.Errorf("expected hover on mark 0, tooltip %+v panel %q", *tip, panel.Text)
	}

	second := s.Marks[1]
	if i, ok := c.Pointer(Point{X: second.X, Y: second.Y1 + 2}); !ok || i != 1 {
		t.Fatalf("Pointer over mark 1 = %d, %v", i, ok)
	}
	if c.Color(0) != "royalblue" || c.Color(1) != "orange" {
		t.Errorf("hover did not move: %s %s", c.Color(0), c.Color(1))
	}

	if _, ok := c.Pointer(Point{X: second.X, Y: second.Y2 + 100}); ok {
		t.Fatal("expected no mark under pointer")
	}
	if tip.Visible {
		t.Error("tooltip should hide once the pointer leaves")
	}
}

func TestConcurrentEventsLastWins(t *testing.T) {
	c, _, _, _ := newController(t)
	var wg sync.WaitGroup
	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Enter(i%2, Point{X: float64(i)})
			c.Move(Point{X: float64(i), Y: 1})
		}(n)
	}
	wg.Wait()
	if !c.Tooltip().Visible {
		t.Error("tooltip should be visible after enter events")
	}
	if text := c.Panel().Text; text != "<p>one</p>" && text != "two" {
		t.Errorf("panel holds unexpected text %q", text)
	}
}

func TestConcurrentPointerKeepsOneHighlight(t *testing.T) {
	s := testScene(t)
	points := []Point{
		{X: s.Marks[0].X, Y: s.Marks[0].Y1 + 1},
		{X: s.Marks[1].X, Y: s.Marks[1].Y1 + 1},
	}

	for round := 0; round < 200; round++ {
		c, _, _, _ := newController(t)
		var wg sync.WaitGroup
		for n := 0; n < 8; n++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c.Pointer(points[i%2])
			}(n)
		}
		wg.Wait()

		hovered, ok := c.Hovered()
		if !ok {
			t.Fatalf("round %d: expected a hovered mark", round)
		}
		for i := range s.Marks {
			want := "royalblue"
			if i == hovered {
				want = "orange"
			}
			if got := c.Color(i); got != want {
				t.Fatalf("round %d: mark %d is %s with mark %d hovered", round, i, got, hovered)
			}
		}
	}
}
