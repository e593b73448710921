// Package timeseries provides the wide rainfall table shared by the observed
// library and synthetic results: one column per water year, one row per
// intra-year timestep on a fixed template index.
package timeseries

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Table holds rainfall data in wide layout. Values is column-major:
// Values[col][row] is the depth for year Years[col] at Index[row].
// A built Table is treated as read-only by every consumer.
type Table struct {
	Index    []time.Time
	Years    []int
	Values   [][]float64
	TimeStep time.Duration
}

// New validates column shapes against the index and wraps them in a Table.
func New(index []time.Time, years []int, values [][]float64, step time.Duration) (*Table, error) {
	if len(years) != len(values) {
		return nil, fmt.Errorf("have %d year labels but %d columns", len(years), len(values))
	}
	for i, col := range values {
		if len(col) != len(index) {
			return nil, fmt.Errorf("column %d has %d rows, index has %d", years[i], len(col), len(index))
		}
	}
	return &Table{Index: index, Years: years, Values: values, TimeStep: step}, nil
}

// Rows returns the number of intra-year timesteps.
func (t *Table) Rows() int { return len(t.Index) }

// Cols returns the number of year columns.
func (t *Table) Cols() int { return len(t.Years) }

// Totals returns the annual total of each column, in column order.
func (t *Table) Totals() []float64 {
	totals := make([]float64, len(t.Values))
	for i, col := range t.Values {
		totals[i] = floats.Sum(col)
	}
	return totals
}

// TemplateIndex builds the shared intra-year index: timestamps from the first
// of the year-start month to one step before the same date a year later.
// The template years 2018/2019 contain no leap day, which keeps every water
// year the same length.
func TemplateIndex(yearStart int, step time.Duration) ([]time.Time, error) {
	if yearStart < 1 || yearStart > 12 {
		return nil, fmt.Errorf("year start month %d outside 1..12", yearStart)
	}
	if step <= 0 {
		return nil, fmt.Errorf("time step must be positive, got %s", step)
	}
	start := time.Date(2018, time.Month(yearStart), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, time.Month(yearStart), 1, 0, 0, 0, 0, time.UTC)
	n := int(end.Sub(start) / step)
	index := make([]time.Time, 0, n)
	for ts := start; ts.Before(end); ts = ts.Add(step) {
		index = append(index, ts)
	}
	return index, nil
}
