// Package observed reads a raw single-site precipitation record and prepares
// it for library creation: schema normalization, gap filling, and the water
// year pivot from long to wide layout.
package observed

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/darshanbaral/gorain/internal/log"
)

// ReadOptions names the two columns of interest in the input file and the
// layout used to parse the datetime column. An empty Layout tries a small set
// of common formats.
type ReadOptions struct {
	DatetimeColumn string
	RainColumn     string
	Layout         string
}

var commonLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Series is an observed record in long layout with a uniform time step.
// Timestamps introduced by gap filling carry NaN until the pivot imputes them.
type Series struct {
	Times    []time.Time
	Rain     []float64
	TimeStep time.Duration
}

// ReadFile reads an observed record from a CSV file.
func ReadFile(path string, opts ReadOptions) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts)
}

// Read reads an observed record from CSV data. Non-numeric rain values are
// zero-filled with a warning; gaps in the timestamp sequence are reindexed to
// the modal time step.
func Read(r io.Reader, opts ReadOptions) (*Series, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dtCol, rainCol := -1, -1
	for i, name := range header {
		switch name {
		case opts.DatetimeColumn:
			dtCol = i
		case opts.RainColumn:
			rainCol = i
		}
	}
	if dtCol < 0 {
		return nil, fmt.Errorf("datetime column %q not found in header %v", opts.DatetimeColumn, header)
	}
	if rainCol < 0 {
		return nil, fmt.Errorf("rain column %q not found in header %v", opts.RainColumn, header)
	}

	var times []time.Time
	var rain []float64
	badValues := 0
	layout := opts.Layout
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		if layout == "" {
			layout = detectLayout(record[dtCol])
			if layout == "" {
				return nil, fmt.Errorf("cannot parse timestamp %q with any known layout", record[dtCol])
			}
		}
		ts, err := time.Parse(layout, record[dtCol])
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q on row %d: %w", record[dtCol], row, err)
		}

		v, err := strconv.ParseFloat(record[rainCol], 64)
		if err != nil || math.IsNaN(v) {
			badValues++
			v = 0
		}

		times = append(times, ts)
		rain = append(rain, v)
	}
	if badValues > 0 {
		log.Warnf("%d non-numeric rainfall values were filled with zero", badValues)
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("record has %d rows, need at least 2", len(times))
	}

	sortByTime(times, rain)
	step := modalStep(times)
	s := &Series{Times: times, Rain: rain, TimeStep: step}
	return s.reindex(), nil
}

func detectLayout(sample string) string {
	for _, layout := range commonLayouts {
		if _, err := time.Parse(layout, sample); err == nil {
			return layout
		}
	}
	return ""
}

func sortByTime(times []time.Time, rain []float64) {
	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return times[idx[a]].Before(times[idx[b]]) })

	sortedTimes := make([]time.Time, len(times))
	sortedRain := make([]float64, len(rain))
	for i, j := range idx {
		sortedTimes[i] = times[j]
		sortedRain[i] = rain[j]
	}
	copy(times, sortedTimes)
	copy(rain, sortedRain)
}

// modalStep returns the most frequent difference between consecutive
// timestamps, which is taken as the record's native time step.
func modalStep(times []time.Time) time.Duration {
	counts := make(map[time.Duration]int)
	for i := 1; i < len(times); i++ {
		counts[times[i].Sub(times[i-1])]++
	}
	var mode time.Duration
	best := -1
	for d, n := range counts {
		if n > best || (n == best && d < mode) {
			mode, best = d, n
		}
	}
	return mode
}

// reindex expands the series onto a uniform grid at the modal time step.
// Missing timestamps get NaN; the pivot's imputation resolves them later.
func (s *Series) reindex() *Series {
	gaps := 0
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i].Sub(s.Times[i-1]) != s.TimeStep {
			gaps++
		}
	}
	if gaps == 0 {
		return s
	}
	log.Warnf("%d gaps were found in the record; reindexing to the %s time step", gaps, s.TimeStep)

	have := make(map[time.Time]float64, len(s.Times))
	for i, ts := range s.Times {
		have[ts] = s.Rain[i]
	}

	var times []time.Time
	var rain []float64
	for ts := s.Times[0]; !ts.After(s.Times[len(s.Times)-1]); ts = ts.Add(s.TimeStep) {
		times = append(times, ts)
		if v, ok := have[ts]; ok {
			rain = append(rain, v)
		} else {
			rain = append(rain, math.NaN())
		}
	}
	return &Series{Times: times, Rain: rain, TimeStep: s.TimeStep}
}
