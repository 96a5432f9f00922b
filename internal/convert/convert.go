// Package convert builds timeline datasets from spreadsheet exports.
package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matheuskafuri/devtimeline/internal/article"
)

var requiredColumns = []string{"date", "title", "link"}

// FromCSV reads a sheet with a header row naming at least date, title and
// link columns; an article column is optional and other columns are
// ignored. Each row is checked before stacking, so in skip mode a dropped
// row leaves no gap: dates are truncated to the day and y_value becomes the
// per-day index among the surviving rows. Errors name the sheet line.
func FromCSV(r io.Reader, opts article.LoadOpts) ([]article.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, article.ErrEmpty
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []article.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if isBlank(row) {
			continue
		}
		// quoted fields may span lines, so ask the reader
		line, _ := cr.FieldPos(0)
		rec, err := rowRecord(line, field(row, "date"), field(row, "title"), field(row, "link"), field(row, "article"))
		if err != nil {
			if opts.Mode == article.Strict {
				return nil, err
			}
			if opts.Log != nil {
				opts.Log.WithError(err).Warn("skipping invalid row")
			}
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, article.ErrEmpty
	}
	return article.AssignStack(records), nil
}

func rowRecord(line int, date, title, link, body string) (article.Record, error) {
	d, err := article.ParseDate(date)
	if err != nil {
		return article.Record{}, &article.ValidationError{Line: line, Field: "date", Reason: err.Error()}
	}
	rec := article.Record{Date: d, Title: title, Link: link, Article: body}
	if err := article.Validate(0, rec); err != nil {
		var verr *article.ValidationError
		if errors.As(err, &verr) {
			verr.Index, verr.Line = 0, line
		}
		return article.Record{}, err
	}
	return rec, nil
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteJSON writes records in the dataset file format.
func WriteJSON(w io.Writer, records []article.Record) error {
	return article.Encode(w, records)
}
