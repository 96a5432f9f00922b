package article

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"
)

// ErrEmpty is returned when a dataset holds no records.
var ErrEmpty = errors.New("dataset has no records")

// Record is one article placed on the timeline.
type Record struct {
	Date    time.Time
	Value   float64
	Title   string
	Article string
	Link    string
}

// ValidationError reports a record that cannot be placed on the chart.
// Line is set instead of Index when the record came from a sheet row.
type ValidationError struct {
	Index  int
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Validate checks that r can be positioned and activated. index is only used
// for error reporting.
func Validate(index int, r Record) error {
	if r.Date.IsZero() {
		return &ValidationError{Index: index, Field: "date", Reason: "missing"}
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return &ValidationError{Index: index, Field: "y_value", Reason: "not a finite number"}
	}
	if r.Value < 0 {
		return &ValidationError{Index: index, Field: "y_value", Reason: fmt.Sprintf("negative value %g", r.Value)}
	}
	u, err := url.Parse(r.Link)
	if err != nil {
		return &ValidationError{Index: index, Field: "link", Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Index: index, Field: "link", Reason: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)}
	}
	return nil
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
