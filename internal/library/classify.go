package library

import (
	"math"
	"sort"
)

// WetnessClass labels a water year's position relative to the library's
// percentile breaks.
type WetnessClass string

const (
	Dry    WetnessClass = "dry"
	Normal WetnessClass = "normal"
	Wet    WetnessClass = "wet"
)

// Classify maps an annual total to its wetness class. The same breaks apply
// to observed and synthetic totals, so group semantics stay consistent across
// the library. The dry rule is evaluated first: when both breaks coincide, a
// total equal to them is dry.
func (l *Library) Classify(total float64) WetnessClass {
	switch {
	case total <= l.dryBreak:
		return Dry
	case total >= l.wetBreak:
		return Wet
	default:
		return Normal
	}
}

// DryBreak returns the annual total at the configured dry percentile.
func (l *Library) DryBreak() float64 { return l.dryBreak }

// WetBreak returns the annual total at the configured wet percentile.
func (l *Library) WetBreak() float64 { return l.wetBreak }

// Groups returns the observed years in each wetness class.
func (l *Library) Groups() map[WetnessClass][]int {
	out := make(map[WetnessClass][]int, len(l.groups))
	for class, cols := range l.groups {
		years := make([]int, len(cols))
		for i, col := range cols {
			years[i] = l.table.Years[col]
		}
		out[class] = years
	}
	return out
}

// quantile estimates the p-th quantile by linear interpolation between order
// statistics, the same convention pandas and numpy default to.
func quantile(samples []float64, p float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
