package article

import "sort"

// AssignStack normalises every record to its calendar day, sorts by day and
// sets Value to the number of earlier records on the same day, so articles
// published together stack upwards from 0.
func AssignStack(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		out[i].Date = Day(out[i].Date)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	perDay := make(map[int64]int)
	for i := range out {
		key := out[i].Date.Unix()
		out[i].Value = float64(perDay[key])
		perDay[key]++
	}
	return out
}
