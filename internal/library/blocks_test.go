package library

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestBlockLengthsSumToTotal(t *testing.T) {
	tests := []struct {
		name  string
		total int
		low   int
		high  int
	}{
		{"hourly year with daily-ish blocks", 8760, 6, 168},
		{"small table", 48, 2, 7},
		{"low of one row", 100, 1, 4},
		{"high just above low", 365, 12, 13},
		{"block span larger than total", 10, 3, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 25; seed++ {
				rng := rand.New(rand.NewSource(seed))
				lengths := blockLengths(rng, tt.total, tt.low, tt.high)

				sum := 0
				for i, n := range lengths {
					if n < 1 {
						t.Fatalf("seed %d: block %d has non-positive length %d", seed, i, n)
					}
					if i < len(lengths)-1 && (n < tt.low || n >= tt.high) {
						t.Fatalf("seed %d: interior block %d length %d outside [%d, %d)", seed, i, n, tt.low, tt.high)
					}
					sum += n
				}
				if sum != tt.total {
					t.Fatalf("seed %d: lengths sum to %d, want %d", seed, sum, tt.total)
				}
			}
		})
	}
}

func TestBlockLengthsDeterministic(t *testing.T) {
	a := blockLengths(rand.New(rand.NewSource(42)), 8760, 6, 168)
	b := blockLengths(rand.New(rand.NewSource(42)), 8760, 6, 168)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d blocks", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("block %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}
