package analysis

import (
	"fmt"
	"time"

	"github.com/darshanbaral/gorain/internal/timeseries"
)

// WetPeriods counts, for each year column, the periods of the given duration
// with any rainfall. Periods are consecutive row chunks from the start of the
// water year; a trailing partial period still counts.
func WetPeriods(t *timeseries.Table, period time.Duration) ([]int, error) {
	p, err := periodRows(t, period)
	if err != nil {
		return nil, err
	}
	counts := make([]int, t.Cols())
	for col, values := range t.Values {
		for start := 0; start < len(values); start += p {
			end := start + p
			if end > len(values) {
				end = len(values)
			}
			for _, v := range values[start:end] {
				if v > 0 {
					counts[col]++
					break
				}
			}
		}
	}
	return counts, nil
}

// WetPeriodsGrouped counts wet periods per year within coarser groups, such
// as wet days per month. Rows in the result follow group order from the start
// of the water year; columns follow year order.
func WetPeriodsGrouped(t *timeseries.Table, period, groupBy time.Duration) ([][]int, error) {
	p, err := periodRows(t, period)
	if err != nil {
		return nil, err
	}
	if groupBy <= period {
		return nil, fmt.Errorf("group duration %s must exceed the period %s", groupBy, period)
	}
	g := int(groupBy / t.TimeStep)

	rows := t.Rows()
	nGroups := (rows + g - 1) / g
	out := make([][]int, nGroups)
	for i := range out {
		out[i] = make([]int, t.Cols())
	}
	for col, values := range t.Values {
		for start := 0; start < rows; start += p {
			end := start + p
			if end > rows {
				end = rows
			}
			wet := false
			for _, v := range values[start:end] {
				if v > 0 {
					wet = true
					break
				}
			}
			if wet {
				out[start/g][col]++
			}
		}
	}
	return out, nil
}

func periodRows(t *timeseries.Table, period time.Duration) (int, error) {
	if period < t.TimeStep {
		return 0, fmt.Errorf("period %s is smaller than the %s time step", period, t.TimeStep)
	}
	return int(period / t.TimeStep), nil
}
