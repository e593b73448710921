package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// TimeLayout is the timestamp format used in persisted tables.
const TimeLayout = "2006-01-02 15:04:05"

// WriteCSV writes the table as row-indexed text: a header of column labels
// and one row per timestep. Values are rounded to nDigits decimal places.
func (t *Table) WriteCSV(w io.Writer, nDigits int) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Years)+1)
	header = append(header, "datetime")
	for _, y := range t.Years {
		header = append(header, strconv.Itoa(y))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Years)+1)
	for row, ts := range t.Index {
		record[0] = ts.Format(TimeLayout)
		for col := range t.Years {
			record[col+1] = strconv.FormatFloat(t.Values[col][row], 'f', nDigits, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table previously written by WriteCSV. The time step is
// inferred from the first two index entries.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || header[0] != "datetime" {
		return nil, fmt.Errorf("unexpected header %v, want datetime plus year columns", header)
	}

	years := make([]int, len(header)-1)
	for i, label := range header[1:] {
		y, err := strconv.Atoi(label)
		if err != nil {
			return nil, fmt.Errorf("year label %q: %w", label, err)
		}
		years[i] = y
	}

	var index []time.Time
	values := make([][]float64, len(years))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(index), err)
		}
		ts, err := time.Parse(TimeLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", record[0], err)
		}
		index = append(index, ts)
		for col := range years {
			v, err := strconv.ParseFloat(record[col+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse value %q in column %d: %w", record[col+1], years[col], err)
			}
			values[col] = append(values[col], v)
		}
	}
	if len(index) < 2 {
		return nil, fmt.Errorf("table has %d rows, need at least 2 to infer the time step", len(index))
	}

	return New(index, years, values, index[1].Sub(index[0]))
}
