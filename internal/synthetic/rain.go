// Package synthetic holds a generated batch of water years and its
// provenance, independent of the library that produced it.
package synthetic

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/darshanbaral/gorain/internal/timeseries"
)

// Rain is the final artifact of one Generate call: the synthetic table plus
// the provenance needed to reproduce or audit it. Immutable once created.
type Rain struct {
	Table      *timeseries.Table
	BlockLow   time.Duration
	BlockHigh  time.Duration
	DistName   string
	DistParams []float64
}

// DataFileName returns the CSV file name for a prefix.
func DataFileName(prefix string) string {
	return prefix + "_synthetic_rain.csv"
}

// InfoFileName returns the metadata file name for a prefix.
func InfoFileName(prefix string) string {
	return prefix + "_synthetic_rain_info.txt"
}

// Save writes the synthetic table as CSV under dir, and unless saveInfo is
// false, a flat key/value metadata file next to it.
func (r *Rain) Save(dir, prefix string, saveInfo bool, nDigits int) error {
	f, err := os.Create(filepath.Join(dir, DataFileName(prefix)))
	if err != nil {
		return err
	}
	if err := r.Table.WriteCSV(f, nDigits); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if !saveInfo {
		return nil
	}
	return r.saveInfo(filepath.Join(dir, InfoFileName(prefix)))
}

func (r *Rain) saveInfo(path string) error {
	params := make([]string, len(r.DistParams))
	for i, p := range r.DistParams {
		params[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "time step: %s\n", r.Table.TimeStep)
	fmt.Fprintf(&b, "block low: %s\n", r.BlockLow)
	fmt.Fprintf(&b, "block high: %s\n", r.BlockHigh)
	fmt.Fprintf(&b, "distribution name: %s\n", r.DistName)
	fmt.Fprintf(&b, "distribution parameters: %s\n", strings.Join(params, ","))
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Load reconstructs a saved artifact. An empty infoPath loads the data alone,
// leaving the provenance fields zero.
func Load(dataPath, infoPath string) (*Rain, error) {
	f, err := os.Open(dataPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := timeseries.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read synthetic data: %w", err)
	}
	r := &Rain{Table: table}

	if infoPath == "" {
		return r, nil
	}
	if err := r.loadInfo(infoPath); err != nil {
		return nil, fmt.Errorf("read synthetic metadata: %w", err)
	}
	return r, nil
}

func (r *Rain) loadInfo(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return fmt.Errorf("malformed metadata line %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "time step":
			step, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("time step %q: %w", value, err)
			}
			r.Table.TimeStep = step
		case "block low":
			if r.BlockLow, err = time.ParseDuration(value); err != nil {
				return fmt.Errorf("block low %q: %w", value, err)
			}
		case "block high":
			if r.BlockHigh, err = time.ParseDuration(value); err != nil {
				return fmt.Errorf("block high %q: %w", value, err)
			}
		case "distribution name":
			r.DistName = value
		case "distribution parameters":
			if value == "" {
				continue
			}
			for _, part := range strings.Split(value, ",") {
				p, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil {
					return fmt.Errorf("distribution parameter %q: %w", part, err)
				}
				r.DistParams = append(r.DistParams, p)
			}
		}
	}
	return scanner.Err()
}
