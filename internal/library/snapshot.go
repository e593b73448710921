package library

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/darshanbaral/gorain/internal/dist"
	"github.com/darshanbaral/gorain/internal/timeseries"
)

// snapshot is the on-disk form of a built library: the prepared table plus
// every derived field, so reloading skips re-ingestion and re-classification.
type snapshot struct {
	Index     []time.Time          `msgpack:"index"`
	Years     []int                `msgpack:"years"`
	Values    [][]float64          `msgpack:"values"`
	TimeStep  time.Duration        `msgpack:"time_step"`
	YearStart int                  `msgpack:"year_start"`
	Totals    []float64            `msgpack:"totals"`
	DryBreak  float64              `msgpack:"dry_break"`
	WetBreak  float64              `msgpack:"wet_break"`
	Groups    map[string][]int     `msgpack:"groups"`
	Params    map[string][]float64 `msgpack:"params"`
}

// SaveSnapshot serializes the library, including any cached distribution
// parameters, to a compact binary file.
func (l *Library) SaveSnapshot(path string) error {
	l.mu.Lock()
	params := make(map[string][]float64, len(l.params))
	for name, p := range l.params {
		params[string(name)] = append([]float64(nil), p...)
	}
	l.mu.Unlock()

	groups := make(map[string][]int, len(l.groups))
	for class, cols := range l.groups {
		groups[string(class)] = cols
	}

	data, err := msgpack.Marshal(&snapshot{
		Index:     l.table.Index,
		Years:     l.table.Years,
		Values:    l.table.Values,
		TimeStep:  l.table.TimeStep,
		YearStart: l.yearStart,
		Totals:    l.totals,
		DryBreak:  l.dryBreak,
		WetBreak:  l.wetBreak,
		Groups:    groups,
		Params:    params,
	})
	if err != nil {
		return fmt.Errorf("encode library snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reconstructs a library from a snapshot file.
func LoadSnapshot(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode library snapshot: %w", err)
	}

	table, err := timeseries.New(snap.Index, snap.Years, snap.Values, snap.TimeStep)
	if err != nil {
		return nil, fmt.Errorf("snapshot table: %w", err)
	}

	groups := make(map[WetnessClass][]int, len(snap.Groups))
	for class, cols := range snap.Groups {
		groups[WetnessClass(class)] = cols
	}
	params := make(map[dist.Name][]float64, len(snap.Params))
	for name, p := range snap.Params {
		params[dist.Name(name)] = p
	}

	return &Library{
		table:     table,
		yearStart: snap.YearStart,
		totals:    snap.Totals,
		dryBreak:  snap.DryBreak,
		wetBreak:  snap.WetBreak,
		groups:    groups,
		params:    params,
	}, nil
}
