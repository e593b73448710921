package library

import (
	"errors"
	"math"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/darshanbaral/gorain/internal/dist"
)

func testLibrary(t *testing.T) *Library {
	t.Helper()
	totals := []float64{210, 340, 475, 520, 610, 745, 830, 960}
	lib, err := New(makeTable(t, totals, 48, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return lib
}

func TestSampleYearRescalesToTarget(t *testing.T) {
	lib := testLibrary(t)
	rng := rand.New(rand.NewSource(7))

	targets := []float64{250.25, 500, 900.75}
	for _, target := range targets {
		col, err := lib.sampleYear(rng, target, 3, 9, 2)
		if err != nil {
			t.Fatalf("sampleYear(%v): %v", target, err)
		}
		if len(col) != lib.Table().Rows() {
			t.Errorf("target %v: expected %d rows, got %d", target, lib.Table().Rows(), len(col))
		}
		sum := 0.0
		for _, v := range col {
			sum += v
		}
		// Each value is rounded to 2 decimals, so the column sum can
		// drift from the target by up to half a unit in the last place
		// per row.
		tolerance := 0.005 * float64(len(col))
		if math.Abs(sum-target) > tolerance {
			t.Errorf("target %v: column sums to %v (tolerance %v)", target, sum, tolerance)
		}
	}
}

func TestSampleYearEmptyGroup(t *testing.T) {
	// Two observed years: the percentile breaks make one dry and one wet,
	// leaving the normal group empty.
	totals := []float64{100, 900}
	lib, err := New(makeTable(t, totals, 24, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	_, err = lib.sampleYear(rng, 500, 3, 9, 2)
	var emptyErr *EmptyGroupError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyGroupError, got %v", err)
	}
	if emptyErr.Class != Normal {
		t.Errorf("expected empty normal group, got %s", emptyErr.Class)
	}
}

func TestSampleYearDegenerate(t *testing.T) {
	// The only dry year is all zeros, so every dry-class draw collates to
	// an all-zero series that cannot be rescaled.
	totals := []float64{0, 400, 600, 800}
	lib, err := New(makeTable(t, totals, 24, time.Hour), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	_, err = lib.sampleYear(rng, 50, 3, 9, 2)
	if !errors.Is(err, ErrDegenerateSample) {
		t.Fatalf("expected ErrDegenerateSample, got %v", err)
	}
}

func TestGenerateShapeAndTotals(t *testing.T) {
	lib := testLibrary(t)
	opts := GenerateOptions{
		Count:     10,
		Dist:      dist.Gamma,
		BlockLow:  3 * time.Hour,
		BlockHigh: 9 * time.Hour,
		Seed:      99,
	}
	rain, err := lib.Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if rain.Table.Cols() != opts.Count {
		t.Fatalf("expected %d columns, got %d", opts.Count, rain.Table.Cols())
	}
	if rain.Table.Rows() != lib.Table().Rows() {
		t.Errorf("expected %d rows, got %d", lib.Table().Rows(), rain.Table.Rows())
	}
	for i, y := range rain.Table.Years {
		if y != i {
			t.Errorf("column %d labeled %d, want %d", i, y, i)
		}
	}

	// Redraw the synthetic totals from the cached parameters with the same
	// seed; every column must sum to its total within rounding drift.
	params, ok := lib.FittedParams(dist.Gamma)
	if !ok {
		t.Fatal("gamma parameters were not cached by Generate")
	}
	totals, err := dist.Sample(params, dist.Gamma, opts.Count, rand.NewSource(opts.Seed))
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	tolerance := 0.005 * float64(rain.Table.Rows())
	for col := range rain.Table.Values {
		sum := 0.0
		for _, v := range rain.Table.Values[col] {
			sum += v
		}
		target := math.Round(totals[col]*100) / 100
		if math.Abs(sum-target) > tolerance {
			t.Errorf("column %d sums to %v, want %v (tolerance %v)", col, sum, target, tolerance)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	lib := testLibrary(t)
	opts := GenerateOptions{
		Count:     6,
		Dist:      dist.Gamma,
		BlockLow:  3 * time.Hour,
		BlockHigh: 9 * time.Hour,
		Seed:      1234,
	}

	first, err := lib.Generate(opts)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := lib.Generate(opts)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	opts.Parallelism = 4
	parallel, err := lib.Generate(opts)
	if err != nil {
		t.Fatalf("parallel Generate: %v", err)
	}

	for col := range first.Table.Values {
		for row := range first.Table.Values[col] {
			a := first.Table.Values[col][row]
			if b := second.Table.Values[col][row]; a != b {
				t.Fatalf("repeat run differs at [%d][%d]: %v vs %v", col, row, a, b)
			}
			if p := parallel.Table.Values[col][row]; a != p {
				t.Fatalf("parallel run differs at [%d][%d]: %v vs %v", col, row, a, p)
			}
		}
	}
}

func TestGenerateValidatesConfig(t *testing.T) {
	lib := testLibrary(t) // 1 hour time step

	tests := []struct {
		name string
		opts GenerateOptions
	}{
		{"count zero", GenerateOptions{Count: 0, BlockLow: 3 * time.Hour, BlockHigh: 9 * time.Hour}},
		{"block low equals step", GenerateOptions{Count: 1, BlockLow: time.Hour, BlockHigh: 9 * time.Hour}},
		{"block low below step", GenerateOptions{Count: 1, BlockLow: time.Minute, BlockHigh: 9 * time.Hour}},
		{"block high equals low", GenerateOptions{Count: 1, BlockLow: 3 * time.Hour, BlockHigh: 3 * time.Hour}},
		{"block high below low", GenerateOptions{Count: 1, BlockLow: 9 * time.Hour, BlockHigh: 3 * time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := lib.Generate(tt.opts); !errors.Is(err, ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestGenerateUnknownDistribution(t *testing.T) {
	lib := testLibrary(t)
	_, err := lib.Generate(GenerateOptions{
		Count:     1,
		Dist:      dist.Name("cauchy"),
		BlockLow:  3 * time.Hour,
		BlockHigh: 9 * time.Hour,
	})
	var invalid *dist.InvalidDistributionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDistributionError, got %v", err)
	}
}

func TestFitParamsCachedOnce(t *testing.T) {
	lib := testLibrary(t)
	first, err := lib.fitParams(dist.Gamma)
	if err != nil {
		t.Fatalf("fitParams: %v", err)
	}
	second, err := lib.fitParams(dist.Gamma)
	if err != nil {
		t.Fatalf("fitParams: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cached parameter %d changed between calls: %v vs %v", i, first[i], second[i])
		}
	}
}
