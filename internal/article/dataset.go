package article

import (
	"sort"
	"time"
)

// Dataset is an immutable, date-ordered collection of records.
type Dataset struct {
	records []Record
}

// NewDataset copies records and sorts the copy ascending by date. Records
// sharing a date keep their input order.
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return &Dataset{records: out}, nil
}

func (d *Dataset) Len() int { return len(d.records) }

func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the ordered records.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Extent returns the earliest and latest record dates.
func (d *Dataset) Extent() (time.Time, time.Time) {
	return d.records[0].Date, d.records[len(d.records)-1].Date
}

// MaxValue returns the largest y_value, never less than zero.
func (d *Dataset) MaxValue() float64 {
	var top float64
	for _, r := range d.records {
		if r.Value > top {
			top = r.Value
		}
	}
	return top
}

// DistinctDates counts distinct timestamps. Two records fall in the same
// group only when their instants are equal.
func (d *Dataset) DistinctDates() int {
	seen := make(map[int64]struct{}, len(d.records))
	for _, r := range d.records {
		seen[r.Date.UnixNano()] = struct{}{}
	}
	return len(seen)
}
