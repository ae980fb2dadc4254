// Package luck provides the deterministic hash every world observer shares.
//
// The same seed always yields the same value, across processes and
// restarts, so anything derived from it can be regenerated instead of
// stored.
package luck

import "github.com/cespare/xxhash/v2"

// Func maps a seed to a value in [0, 1).
type Func func(seed string) float64

// Luck returns a reproducible value in [0, 1) for seed.
// The top 53 bits of the xxhash digest fill a float64 mantissa exactly.
func Luck(seed string) float64 {
	return float64(xxhash.Sum64String(seed)>>11) / (1 << 53)
}

// Fixed returns a Func that reports the mapped value for known seeds and
// falls back to Luck for everything else.
func Fixed(values map[string]float64) Func {
	return func(seed string) float64 {
		if v, ok := values[seed]; ok {
			return v
		}
		return Luck(seed)
	}
}
