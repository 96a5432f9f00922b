package chart

import (
	"math"
	"testing"
	"time"

	"github.com/matheuskafuri/devtimeline/internal/article"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dataset(t *testing.T, records ...article.Record) *article.Dataset {
	t.Helper()
	ds, err := article.NewDataset(records)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestBuildTwoRecordScenario(t *testing.T) {
	ds := dataset(t,
		article.Record{Date: date(2024, 1, 3), Value: 2, Title: "later", Link: "https://b.com"},
		article.Record{Date: date(2024, 1, 1), Value: 5, Title: "earlier", Link: "https://a.com"},
	)
	s, err := Build(ds, DefaultLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(s.Marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(s.Marks))
	}
	if s.Marks[0].X != 0 || s.Marks[0].Record.Title != "earlier" {
		t.Errorf("leftmost mark = %+v", s.Marks[0])
	}
	if s.Marks[1].X != 1710 || s.Marks[1].Record.Title != "later" {
		t.Errorf("rightmost mark = %+v", s.Marks[1])
	}

	// value 5 is the max, so it starts at the top of the plot
	if s.Marks[0].Y1 != 0 || s.Marks[0].Y2 != 10 {
		t.Errorf("first mark spans %v..%v, want 0..10", s.Marks[0].Y1, s.Marks[0].Y2)
	}
	if math.Abs(s.Marks[1].Y1-318) > 1e-9 {
		t.Errorf("second mark starts at %v, want 318", s.Marks[1].Y1)
	}

	if len(s.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(s.Labels))
	}
	if s.Labels[0].Text != "Jan 01" || s.Labels[1].Text != "Jan 03" {
		t.Errorf("labels = %q, %q", s.Labels[0].Text, s.Labels[1].Text)
	}
	if s.Labels[0].Y != 550 {
		t.Errorf("label y = %v, want 550", s.Labels[0].Y)
	}

	// two distinct dates: 0.9 * 1710 / 1
	if math.Abs(s.StrokeWidth-1539) > 1e-9 {
		t.Errorf("stroke width = %v, want 1539", s.StrokeWidth)
	}
}

func TestBuildDomainMatchesExtent(t *testing.T) {
	var recs []article.Record
	for d := 1; d <= 28; d += 3 {
		recs = append(recs, article.Record{Date: date(2024, 2, d).Add(time.Duration(d) * time.Hour), Value: float64(d % 4)})
	}
	ds := dataset(t, recs...)
	s, err := Build(ds, DefaultLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lo, hi := s.X.Domain()
	wantLo, wantHi := ds.Extent()
	if !lo.Equal(wantLo) || !hi.Equal(wantHi) {
		t.Errorf("domain [%v, %v], want [%v, %v]", lo, hi, wantLo, wantHi)
	}
	if len(s.Marks) != ds.Len() {
		t.Errorf("marks = %d, records = %d", len(s.Marks), ds.Len())
	}
	for i := 1; i < len(s.Marks); i++ {
		if s.Marks[i].X < s.Marks[i-1].X {
			t.Fatalf("mark %d at %v is left of mark %d at %v", i, s.Marks[i].X, i-1, s.Marks[i-1].X)
		}
	}
}

func TestStrokeWidthFloor(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 100, 1000, 100000} {
		if w := StrokeWidth(1710, n, 10, 0.9); w < 10 {
			t.Errorf("StrokeWidth(n=%d) = %v, below floor", n, w)
		}
	}
	if w := StrokeWidth(1710, 11, 10, 0.9); math.Abs(w-153.9) > 1e-9 {
		t.Errorf("StrokeWidth(n=11) = %v, want 153.9", w)
	}
}

func TestBuildSingleDate(t *testing.T) {
	ds := dataset(t,
		article.Record{Date: date(2024, 5, 1), Value: 0},
		article.Record{Date: date(2024, 5, 1), Value: 0},
	)
	s, err := Build(ds, DefaultLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, m := range s.Marks {
		if m.X != 855 || m.Y1 != 265 {
			t.Errorf("collapsed mark at (%v, %v), want (855, 265)", m.X, m.Y1)
		}
	}
	if s.StrokeWidth != 10 {
		t.Errorf("stroke width = %v, want 10", s.StrokeWidth)
	}
	if len(s.Labels) != 1 {
		t.Errorf("expected a single label, got %d", len(s.Labels))
	}
}

func TestBuildRejectsEmptyAndTinyLayouts(t *testing.T) {
	if _, err := Build(nil, DefaultLayout()); err == nil {
		t.Error("expected error for nil dataset")
	}
	ds := dataset(t, article.Record{Date: date(2024, 1, 1)})
	l := DefaultLayout()
	l.Width = 50
	if _, err := Build(ds, l); err == nil {
		t.Error("expected error for a layout with no plot area")
	}
}

func TestHitTest(t *testing.T) {
	ds := dataset(t,
		article.Record{Date: date(2024, 1, 1), Value: 1},
		article.Record{Date: date(2024, 1, 11), Value: 1},
		article.Record{Date: date(2024, 1, 21), Value: 0},
	)
	s, err := Build(ds, DefaultLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := s.Marks[1]
	if i, ok := s.HitTest(m.X, m.Y1+5); !ok || i != 1 {
		t.Errorf("HitTest on mark 1 = %d, %v", i, ok)
	}
	if _, ok := s.HitTest(m.X, m.Y2+50); ok {
		t.Error("expected no hit below the mark")
	}
}
