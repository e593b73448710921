package observed

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/darshanbaral/gorain/internal/log"
	"github.com/darshanbaral/gorain/internal/timeseries"
)

// waterYear assigns a timestamp to the water year that its date falls in.
// Months before the year-start month belong to the calendar year; months from
// the year-start month on belong to the following year. A January start makes
// water years equal calendar years.
func waterYear(ts time.Time, yearStart int) int {
	if int(ts.Month()) < yearStart || yearStart == 1 {
		return ts.Year()
	}
	return ts.Year() + 1
}

// rowKey identifies a position within any water year, ignoring the year
// itself. Leap days never appear: they are dropped before keying.
type rowKey struct {
	month  time.Month
	day    int
	hour   int
	minute int
	second int
}

func keyOf(ts time.Time) rowKey {
	return rowKey{ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second()}
}

// Pivot reshapes the long record into the wide library layout: one column per
// water year, rows on the shared template index. Leap days are dropped so
// every column has the same length. Timestamps missing from a year are imputed
// with the median across the other years when at least 5 years and at least a
// third of all years observed that timestamp, and with zero otherwise.
func (s *Series) Pivot(yearStart int) (*timeseries.Table, error) {
	if yearStart < 1 || yearStart > 12 {
		return nil, fmt.Errorf("year start month %d outside 1..12", yearStart)
	}

	index, err := timeseries.TemplateIndex(yearStart, s.TimeStep)
	if err != nil {
		return nil, err
	}
	rowOf := make(map[rowKey]int, len(index))
	for row, ts := range index {
		rowOf[keyOf(ts)] = row
	}

	byYear := make(map[int][]float64)
	for i, ts := range s.Times {
		if ts.Month() == time.February && ts.Day() == 29 {
			continue
		}
		row, ok := rowOf[keyOf(ts)]
		if !ok {
			return nil, fmt.Errorf("timestamp %s does not align with the %s template grid", ts, s.TimeStep)
		}
		year := waterYear(ts, yearStart)
		col, ok := byYear[year]
		if !ok {
			col = make([]float64, len(index))
			for r := range col {
				col[r] = math.NaN()
			}
			byYear[year] = col
		}
		col[row] = s.Rain[i]
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	values := make([][]float64, len(years))
	for i, y := range years {
		values[i] = byYear[y]
	}
	imputed := imputeRows(values, len(index))
	if imputed > 0 {
		log.Warnf("%d missing values were imputed across %d water years", imputed, len(years))
	}

	return timeseries.New(index, years, values, s.TimeStep)
}

// imputeRows fills missing values one template row at a time, looking across
// years. Returns the number of values filled.
func imputeRows(values [][]float64, rows int) int {
	nYears := len(values)
	filled := 0
	rowVals := make([]float64, 0, nYears)
	for row := 0; row < rows; row++ {
		rowVals = rowVals[:0]
		for col := 0; col < nYears; col++ {
			if !math.IsNaN(values[col][row]) {
				rowVals = append(rowVals, values[col][row])
			}
		}
		if len(rowVals) == nYears {
			continue
		}

		fill := 0.0
		if len(rowVals) >= 5 && len(rowVals) >= nYears/3 {
			fill = median(rowVals)
		}
		for col := 0; col < nYears; col++ {
			if math.IsNaN(values[col][row]) {
				values[col][row] = fill
				filled++
			}
		}
	}
	return filled
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
