package article

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleJSON = `[
  {"date": "2024-01-03", "y_value": 2, "title": "Second", "article": "<p>body two</p>", "link": "https://example.com/2"},
  {"date": "2024-01-01", "y_value": 5, "title": "First", "article": "body one", "link": "https://example.com/1"}
]`

func TestDecodeSortsByDate(t *testing.T) {
	ds, err := Decode(strings.NewReader(sampleJSON), LoadOpts{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}
	if ds.At(0).Title != "First" || ds.At(1).Title != "Second" {
		t.Errorf("expected ascending order, got %q then %q", ds.At(0).Title, ds.At(1).Title)
	}
	lo, hi := ds.Extent()
	if !lo.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("extent start = %v", lo)
	}
	if !hi.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("extent end = %v", hi)
	}
	if ds.MaxValue() != 5 {
		t.Errorf("MaxValue = %v, want 5", ds.MaxValue())
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		input string
		want  time.Time
		err   bool
	}{
		{"2024-03-09", want, false},
		{"2024-03-09T00:00:00.000Z", want, false},
		{"2024-03-09T00:00:00.000", want, false},
		{"2024-03-09T02:00:00+02:00", want, false},
		{"2024-03-09 00:00:00", want, false},
		{"", time.Time{}, true},
		{"09/03/2024", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDecodeEpochMillis(t *testing.T) {
	in := `[{"date": 1704067200000, "y_value": 0, "title": "t", "article": "", "link": "https://a.com"}]`
	ds, err := Decode(strings.NewReader(in), LoadOpts{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !ds.At(0).Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", ds.At(0).Date)
	}
}

func TestDecodeStrictRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing date", `[{"y_value": 1, "link": "https://a.com"}]`, "date"},
		{"bad date", `[{"date": "soon", "y_value": 1, "link": "https://a.com"}]`, "date"},
		{"missing value", `[{"date": "2024-01-01", "link": "https://a.com"}]`, "y_value"},
		{"negative value", `[{"date": "2024-01-01", "y_value": -1, "link": "https://a.com"}]`, "y_value"},
		{"bad link", `[{"date": "2024-01-01", "y_value": 1, "link": "javascript:alert(1)"}]`, "link"},
	}
	for _, tt := range tests {
		_, err := Decode(strings.NewReader(tt.input), LoadOpts{Mode: Strict})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("%s: field = %q, want %q", tt.name, verr.Field, tt.field)
		}
	}
}

func TestDecodeSkipDropsInvalid(t *testing.T) {
	in := `[
	  {"date": "2024-01-01", "y_value": 1, "title": "ok", "link": "https://a.com"},
	  {"date": "", "y_value": 1, "title": "broken", "link": "https://b.com"}
	]`
	ds, err := Decode(strings.NewReader(in), LoadOpts{Mode: Skip})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ds.Len() != 1 || ds.At(0).Title != "ok" {
		t.Errorf("expected only the valid record, got %d records", ds.Len())
	}
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader(`[]`), LoadOpts{})
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"not": "an array"`), LoadOpts{}); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestEncodeReadsBack(t *testing.T) {
	records := []Record{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0, Title: "A & B", Article: "<b>x</b>", Link: "https://a.com"},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"date":"2024-01-01T00:00:00.000Z"`) {
		t.Errorf("unexpected date encoding: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"A & B"`) {
		t.Errorf("expected unescaped markup in output: %s", buf.String())
	}

	ds, err := Decode(&buf, LoadOpts{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ds.At(0).Article != "<b>x</b>" {
		t.Errorf("article = %q", ds.At(0).Article)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	ds, err := LoadFile(path, LoadOpts{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 records, got %d", ds.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), LoadOpts{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != Strict {
		t.Errorf("ParseMode(\"\") = %v, %v", m, err)
	}
	if m, err := ParseMode("Skip"); err != nil || m != Skip {
		t.Errorf("ParseMode(Skip) = %v, %v", m, err)
	}
	if _, err := ParseMode("lenient"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
