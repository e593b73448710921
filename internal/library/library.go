// Package library implements the stochastic generation engine: classification
// of observed water years into wetness groups, fitting and sampling of annual
// total distributions, and block resampling of synthetic years against the
// observed table.
package library

import (
	"fmt"
	"sync"

	"github.com/darshanbaral/gorain/internal/dist"
	"github.com/darshanbaral/gorain/internal/timeseries"
)

// Options configures library construction.
type Options struct {
	// YearStart is the month the water year begins in, 1..12.
	YearStart int
	// DryFraction and WetFraction are the percentile fractions, in (0,1),
	// that split observed annual totals into dry, normal, and wet groups.
	DryFraction float64
	WetFraction float64
}

// DefaultOptions returns the conventional September water year with
// 25th/75th percentile breaks.
func DefaultOptions() Options {
	return Options{YearStart: 9, DryFraction: 0.25, WetFraction: 0.75}
}

// Library owns the prepared observed table and everything derived from it.
// The table and the derived fields are read-only after construction, so any
// number of Generate calls can run concurrently against one Library.
type Library struct {
	table     *timeseries.Table
	yearStart int
	totals    []float64
	dryBreak  float64
	wetBreak  float64
	groups    map[WetnessClass][]int

	mu     sync.Mutex
	params map[dist.Name][]float64
}

// New builds a library from a prepared wide table. The classifier runs once
// here; annual totals and group membership never change afterwards.
func New(table *timeseries.Table, opts Options) (*Library, error) {
	if opts.DryFraction <= 0 || opts.DryFraction >= 1 {
		return nil, fmt.Errorf("dry fraction %g outside (0,1): %w", opts.DryFraction, ErrConfig)
	}
	if opts.WetFraction <= 0 || opts.WetFraction >= 1 {
		return nil, fmt.Errorf("wet fraction %g outside (0,1): %w", opts.WetFraction, ErrConfig)
	}
	if opts.WetFraction <= opts.DryFraction {
		return nil, fmt.Errorf("wet fraction %g must exceed dry fraction %g: %w", opts.WetFraction, opts.DryFraction, ErrConfig)
	}
	if table.Cols() == 0 {
		return nil, fmt.Errorf("observed table has no water years: %w", ErrConfig)
	}

	l := &Library{
		table:     table,
		yearStart: opts.YearStart,
		totals:    table.Totals(),
		params:    make(map[dist.Name][]float64),
	}
	l.dryBreak = roundTo(quantile(l.totals, opts.DryFraction), 2)
	l.wetBreak = roundTo(quantile(l.totals, opts.WetFraction), 2)

	l.groups = make(map[WetnessClass][]int, 3)
	for col, total := range l.totals {
		class := l.Classify(total)
		l.groups[class] = append(l.groups[class], col)
	}
	return l, nil
}

// Table returns the observed table the library was built from.
func (l *Library) Table() *timeseries.Table { return l.table }

// Totals returns the observed annual totals, in column order.
func (l *Library) Totals() []float64 {
	return append([]float64(nil), l.totals...)
}

// fitParams returns cached parameters for the family, fitting on first use.
// The mutex makes the fit-and-cache step at-most-once under concurrent
// Generate calls with a new family name.
func (l *Library) fitParams(name dist.Name) ([]float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if params, ok := l.params[name]; ok {
		return params, nil
	}
	params, err := dist.Fit(l.totals, name)
	if err != nil {
		return nil, err
	}
	l.params[name] = params
	return params, nil
}

// FittedParams returns the cached parameters for a family, if fitted.
func (l *Library) FittedParams(name dist.Name) ([]float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	params, ok := l.params[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), params...), true
}
