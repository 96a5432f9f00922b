package article

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode selects how invalid records are handled while loading.
type Mode int

const (
	// Strict fails the load on the first invalid record.
	Strict Mode = iota
	// Skip drops invalid records and logs them.
	Skip
)

func (m Mode) String() string {
	if m == Skip {
		return "skip"
	}
	return "strict"
}

// ParseMode accepts "strict" or "skip". The empty string means strict.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "skip":
		return Skip, nil
	default:
		return Strict, fmt.Errorf("unknown validation mode %q (valid: strict, skip)", s)
	}
}

type LoadOpts struct {
	Mode Mode
	// Log receives one warning per skipped record. nil discards them.
	Log logrus.FieldLogger
}

// jsonRecord mirrors the on-disk dataset format.
type jsonRecord struct {
	Date    json.RawMessage `json:"date"`
	YValue  *float64        `json:"y_value"`
	Title   string          `json:"title"`
	Article string          `json:"article"`
	Link    string          `json:"link"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts ISO 8601 strings with or without a zone (zoneless values
// are UTC) and bare dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// decodeDate handles both ISO strings and epoch milliseconds.
func decodeDate(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, errors.New("missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		return ParseDate(s)
	}
	var ms json.Number
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("unsupported date value %s", raw)
	}
	n, err := ms.Int64()
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported date value %s", raw)
	}
	return time.UnixMilli(n).UTC(), nil
}

func (j jsonRecord) record(index int) (Record, error) {
	date, err := decodeDate(j.Date)
	if err != nil {
		return Record{}, &ValidationError{Index: index, Field: "date", Reason: err.Error()}
	}
	if j.YValue == nil {
		return Record{}, &ValidationError{Index: index, Field: "y_value", Reason: "missing"}
	}
	r := Record{
		Date:    date,
		Value:   *j.YValue,
		Title:   j.Title,
		Article: j.Article,
		Link:    j.Link,
	}
	if err := Validate(index, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Decode reads a JSON array of records and returns them as a sorted dataset.
func Decode(r io.Reader, opts LoadOpts) (*Dataset, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, jr := range raw {
		rec, err := jr.record(i)
		if err != nil {
			if opts.Mode == Strict {
				return nil, err
			}
			if opts.Log != nil {
				opts.Log.WithError(err).Warn("skipping invalid record")
			}
			continue
		}
		records = append(records, rec)
	}
	return NewDataset(records)
}

// LoadFile decodes the dataset stored at path.
func LoadFile(path string, opts LoadOpts) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// isoMillis is the date form written by Encode.
const isoMillis = "2006-01-02T15:04:05.000Z"

type outRecord struct {
	Date    string  `json:"date"`
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	YValue  float64 `json:"y_value"`
	Article string  `json:"article"`
}

// Encode writes records in the dataset format read by Decode.
func Encode(w io.Writer, records []Record) error {
	out := make([]outRecord, len(records))
	for i, r := range records {
		out[i] = outRecord{
			Date:    r.Date.UTC().Format(isoMillis),
			Title:   r.Title,
			Link:    r.Link,
			YValue:  r.Value,
			Article: r.Article,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
