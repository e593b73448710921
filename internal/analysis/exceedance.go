// Package analysis provides exploratory views over a wide rainfall table:
// rolling-window exceedance curves, wet-period counts, and period-grouped
// summaries. It works identically on observed and synthetic tables.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/darshanbaral/gorain/internal/timeseries"
)

// Curve is the exceedance relation for one rolling window: the annual maxima
// across years, descending, with their Weibull plotting-position exceedance
// probabilities.
type Curve struct {
	Window time.Duration
	Values []float64
	Probs  []float64
}

// At linearly interpolates the rainfall depth equalled or exceeded with
// probability p. Probabilities outside the observed range return NaN.
func (c Curve) At(p float64) float64 {
	n := len(c.Probs)
	if n == 0 || p < c.Probs[0] || p > c.Probs[n-1] {
		return math.NaN()
	}
	i := sort.SearchFloat64s(c.Probs, p)
	if i < n && c.Probs[i] == p {
		return c.Values[i]
	}
	frac := (p - c.Probs[i-1]) / (c.Probs[i] - c.Probs[i-1])
	return c.Values[i-1] + frac*(c.Values[i]-c.Values[i-1])
}

// Exceedance computes one exceedance curve per rolling window. For each year
// column, depths are summed over the window and the annual maximum taken;
// maxima are then ranked across years. Windows must be at least one time step.
func Exceedance(t *timeseries.Table, windows []time.Duration, nDigits int) ([]Curve, error) {
	step := t.TimeStep
	curves := make([]Curve, 0, len(windows))
	for _, window := range windows {
		if window < step {
			return nil, fmt.Errorf("window %s is smaller than the %s time step", window, step)
		}
		w := int(window / step)

		maxima := make([]float64, t.Cols())
		for col := range t.Values {
			maxima[col] = roundTo(maxRollingSum(t.Values[col], w), nDigits)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(maxima)))

		probs := make([]float64, len(maxima))
		for i := range probs {
			probs[i] = float64(i+1) / float64(len(maxima)+1)
		}
		curves = append(curves, Curve{Window: window, Values: maxima, Probs: probs})
	}
	return curves, nil
}

// maxRollingSum returns the maximum sum over any w consecutive values.
func maxRollingSum(col []float64, w int) float64 {
	if w > len(col) {
		w = len(col)
	}
	sum := 0.0
	for i := 0; i < w; i++ {
		sum += col[i]
	}
	best := sum
	for i := w; i < len(col); i++ {
		sum += col[i] - col[i-w]
		if sum > best {
			best = sum
		}
	}
	return best
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
