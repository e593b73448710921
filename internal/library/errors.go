package library

import (
	"errors"
	"fmt"
)

// ErrConfig marks invalid construction or generation settings: percentile
// fractions outside (0,1), a wet fraction at or below the dry fraction, or
// block duration bounds that don't bracket the time step. Configuration
// errors are surfaced immediately and never retried.
var ErrConfig = errors.New("invalid configuration")

// ErrDegenerateSample marks a collated series that summed to zero, which
// cannot be rescaled to a nonzero target total.
var ErrDegenerateSample = errors.New("collated series sums to zero")

// EmptyGroupError reports that a synthetic total mapped to a wetness class
// with no observed years in it.
type EmptyGroupError struct {
	Class WetnessClass
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("no observed water years in the %s group", e.Class)
}
