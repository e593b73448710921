package library

import (
	"golang.org/x/exp/rand"
)

// blockLengths produces randomized contiguous row-run lengths that sum to
// exactly total rows. Each draw is uniform on [low, high). Rather than
// drawing one length at a time, a batch sized to the expected need
// (ceil(total/low)) is drawn up front; an undershoot is closed with a single
// partial block of the exact residual. The residual is deliberately not
// re-capped to high. The returned prefix is truncated so the lengths sum to
// total. Callers validate 0 < low < high before calling.
func blockLengths(rng *rand.Rand, total, low, high int) []int {
	expected := (total + low - 1) / low
	lengths := make([]int, expected)
	sum := 0
	for i := range lengths {
		lengths[i] = low + rng.Intn(high-low)
		sum += lengths[i]
	}
	if sum < total {
		lengths = append(lengths, total-sum)
		sum = total
	}

	cum := 0
	for i, n := range lengths {
		if cum+n >= total {
			lengths[i] = total - cum
			return lengths[:i+1]
		}
		cum += n
	}
	return lengths
}
