package library

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/darshanbaral/gorain/internal/timeseries"
)

// makeTable builds a tiny wide table where every column is constant and sums
// to the requested total.
func makeTable(t *testing.T, totals []float64, rows int, step time.Duration) *timeseries.Table {
	t.Helper()
	index := make([]time.Time, rows)
	start := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * step)
	}
	years := make([]int, len(totals))
	values := make([][]float64, len(totals))
	for col, total := range totals {
		years[col] = 2001 + col
		values[col] = make([]float64, rows)
		for row := range values[col] {
			values[col][row] = total / float64(rows)
		}
	}
	table, err := timeseries.New(index, years, values, step)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestBreaksLinearInterpolation(t *testing.T) {
	totals := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	lib, err := New(makeTable(t, totals, 4, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := lib.DryBreak(); math.Abs(got-27.5) > 1e-9 {
		t.Errorf("dry break: expected 27.5, got %v", got)
	}
	if got := lib.WetBreak(); math.Abs(got-62.5) > 1e-9 {
		t.Errorf("wet break: expected 62.5, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	totals := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	lib, err := New(makeTable(t, totals, 4, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		total    float64
		expected WetnessClass
	}{
		{10, Dry},
		{27.5, Dry},
		{27.51, Normal},
		{45, Normal},
		{62.49, Normal},
		{62.5, Wet},
		{80, Wet},
		{200, Wet},
		{-5, Dry},
	}
	for _, tt := range tests {
		if got := lib.Classify(tt.total); got != tt.expected {
			t.Errorf("Classify(%v): expected %s, got %s", tt.total, tt.expected, got)
		}
	}
}

func TestGroupsExhaustiveAndDisjoint(t *testing.T) {
	totals := []float64{31, 7, 55, 19, 42, 88, 3, 64, 27, 50}
	lib, err := New(makeTable(t, totals, 4, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seen := make(map[int]int)
	for _, years := range lib.Groups() {
		for _, y := range years {
			seen[y]++
		}
	}
	if len(seen) != len(totals) {
		t.Errorf("expected %d years assigned, got %d", len(totals), len(seen))
	}
	for y, n := range seen {
		if n != 1 {
			t.Errorf("year %d assigned to %d groups", y, n)
		}
	}
}

func TestAllEqualTotalsResolveDry(t *testing.T) {
	totals := []float64{40, 40, 40, 40}
	lib, err := New(makeTable(t, totals, 4, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Both breaks collapse onto the common total; the dry rule wins.
	if got := lib.Classify(40); got != Dry {
		t.Errorf("expected dry for total equal to both breaks, got %s", got)
	}
	if n := len(lib.Groups()[Dry]); n != 4 {
		t.Errorf("expected all 4 years in dry group, got %d", n)
	}
}

func TestNewRejectsBadFractions(t *testing.T) {
	table := makeTable(t, []float64{10, 20, 30, 40}, 4, time.Hour)

	tests := []struct {
		name string
		opts Options
	}{
		{"dry fraction zero", Options{YearStart: 9, DryFraction: 0, WetFraction: 0.75}},
		{"dry fraction one", Options{YearStart: 9, DryFraction: 1, WetFraction: 0.75}},
		{"wet fraction zero", Options{YearStart: 9, DryFraction: 0.25, WetFraction: 0}},
		{"wet fraction above one", Options{YearStart: 9, DryFraction: 0.25, WetFraction: 1.5}},
		{"wet below dry", Options{YearStart: 9, DryFraction: 0.75, WetFraction: 0.25}},
		{"wet equals dry", Options{YearStart: 9, DryFraction: 0.5, WetFraction: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(table, tt.opts); !errors.Is(err, ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		p        float64
		expected float64
	}{
		{"median of odd count", []float64{3, 1, 2}, 0.5, 2},
		{"median interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"25th of eight", []float64{10, 20, 30, 40, 50, 60, 70, 80}, 0.25, 27.5},
		{"75th of eight", []float64{10, 20, 30, 40, 50, 60, 70, 80}, 0.75, 62.5},
		{"lower edge", []float64{5, 10}, 0.0, 5},
		{"upper edge", []float64{5, 10}, 1.0, 10},
		{"single sample", []float64{7}, 0.3, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantile(tt.samples, tt.p); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
