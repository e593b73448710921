package analysis

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/darshanbaral/gorain/internal/timeseries"
)

// Stat names an aggregation applied to rainfall values.
type Stat string

const (
	Sum   Stat = "sum"
	Mean  Stat = "mean"
	Max   Stat = "max"
	Min   Stat = "min"
	Count Stat = "count"
)

func apply(fn Stat, values []float64) (float64, error) {
	switch fn {
	case Sum:
		return floats.Sum(values), nil
	case Mean:
		return stat.Mean(values, nil), nil
	case Max:
		return floats.Max(values), nil
	case Min:
		return floats.Min(values), nil
	case Count:
		return float64(len(values)), nil
	}
	return 0, fmt.Errorf("unknown summary statistic %q", fn)
}

// Summary aggregates each year column with the named statistic.
func Summary(t *timeseries.Table, fn Stat) ([]float64, error) {
	out := make([]float64, t.Cols())
	for col, values := range t.Values {
		v, err := apply(fn, values)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}

// GroupedSummary aggregates each year column within consecutive chunks of
// groupBy duration. Result rows follow group order from the start of the
// water year; columns follow year order.
func GroupedSummary(t *timeseries.Table, fn Stat, groupBy time.Duration) ([][]float64, error) {
	if groupBy < t.TimeStep {
		return nil, fmt.Errorf("group duration %s is smaller than the %s time step", groupBy, t.TimeStep)
	}
	g := int(groupBy / t.TimeStep)

	rows := t.Rows()
	nGroups := (rows + g - 1) / g
	out := make([][]float64, nGroups)
	for i := range out {
		out[i] = make([]float64, t.Cols())
	}
	for col, values := range t.Values {
		for start, group := 0, 0; start < rows; start, group = start+g, group+1 {
			end := start + g
			if end > rows {
				end = rows
			}
			v, err := apply(fn, values[start:end])
			if err != nil {
				return nil, err
			}
			out[group][col] = v
		}
	}
	return out, nil
}
