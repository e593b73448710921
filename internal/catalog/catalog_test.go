package catalog

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/darshanbaral/gorain/internal/synthetic"
	"github.com/darshanbaral/gorain/internal/timeseries"
)

func testRain(t *testing.T) *synthetic.Rain {
	t.Helper()
	rows := 12
	index := make([]time.Time, rows)
	start := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * 6 * time.Hour)
	}
	values := [][]float64{
		{1, 0, 0, 2.5, 0, 0, 0, 1.25, 0, 0, 3, 0},
		{0, 0, 4, 0, 0, 1.5, 0, 0, 0, 2, 0, 0},
	}
	table, err := timeseries.New(index, []int{0, 1}, values, 6*time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &synthetic.Rain{
		Table:      table,
		BlockLow:   6 * time.Hour,
		BlockHigh:  72 * time.Hour,
		DistName:   "lognorm",
		DistParams: []float64{4.2, 0.35},
	}
}

func TestRecordAndQuery(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	rain := testRain(t)
	id, err := cat.Record(rain)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty run id")
	}

	runs, err := cat.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != id {
		t.Errorf("expected id %s, got %s", id, run.ID)
	}
	if run.DistName != rain.DistName {
		t.Errorf("expected distribution %q, got %q", rain.DistName, run.DistName)
	}
	if run.TimeStep != rain.Table.TimeStep || run.BlockLow != rain.BlockLow || run.BlockHigh != rain.BlockHigh {
		t.Errorf("provenance durations changed: %s/%s/%s", run.TimeStep, run.BlockLow, run.BlockHigh)
	}
	if run.Years != rain.Table.Cols() {
		t.Errorf("expected %d years, got %d", rain.Table.Cols(), run.Years)
	}
	for i := range rain.DistParams {
		if math.Abs(run.DistParams[i]-rain.DistParams[i]) > 1e-12 {
			t.Errorf("parameter %d changed: %v vs %v", i, run.DistParams[i], rain.DistParams[i])
		}
	}

	for col, year := range rain.Table.Years {
		values, err := cat.Series(id, year)
		if err != nil {
			t.Fatalf("Series(%d): %v", year, err)
		}
		if len(values) != rain.Table.Rows() {
			t.Fatalf("year %d: expected %d values, got %d", year, rain.Table.Rows(), len(values))
		}
		for row, v := range values {
			if v != rain.Table.Values[col][row] {
				t.Errorf("year %d row %d: expected %v, got %v", year, row, rain.Table.Values[col][row], v)
			}
		}
	}
}

func TestRunsOrderedNewestFirst(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	rain := testRain(t)
	if _, err := cat.Record(rain); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if _, err := cat.Record(rain); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	runs, err := cat.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].CreatedAt.Before(runs[1].CreatedAt) {
		t.Error("runs are not ordered newest first")
	}
}

func TestSeriesUnknownRun(t *testing.T) {
	cat, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cat.Close()

	values, err := cat.Series("no-such-run", 0)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no values, got %d", len(values))
	}
}
