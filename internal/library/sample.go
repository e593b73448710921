package library

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/darshanbaral/gorain/internal/log"
)

// maxResampleAttempts bounds the explicit retry on an all-zero collation.
// Beyond this the draw fails with ErrDegenerateSample.
const maxResampleAttempts = 10

// sampleYear reconstructs one synthetic water year for a target annual total.
// The target picks a wetness group; randomized blocks of rows are copied from
// randomly chosen years in that group at matching row offsets, concatenated,
// and rescaled so the column sums to the target.
func (l *Library) sampleYear(rng *rand.Rand, target float64, lowRows, highRows, nDigits int) ([]float64, error) {
	class := l.Classify(target)
	cols := l.groups[class]
	if len(cols) == 0 {
		return nil, &EmptyGroupError{Class: class}
	}

	rows := l.table.Rows()
	for attempt := 0; attempt < maxResampleAttempts; attempt++ {
		out := make([]float64, 0, rows)
		for _, n := range blockLengths(rng, rows, lowRows, highRows) {
			col := cols[rng.Intn(len(cols))]
			a := len(out)
			out = append(out, l.table.Values[col][a:a+n]...)
		}

		sum := floats.Sum(out)
		if sum == 0 {
			log.Warnf("collated %s-group series summed to zero, redrawing (attempt %d)", class, attempt+1)
			continue
		}
		scale := target / sum
		for i := range out {
			out[i] = roundTo(out[i]*scale, nDigits)
		}
		return out, nil
	}
	return nil, fmt.Errorf("target total %.2f in %s group after %d attempts: %w",
		target, class, maxResampleAttempts, ErrDegenerateSample)
}
