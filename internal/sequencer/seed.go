package sequencer

import (
	"hash/fnv"
	"math/rand"
)

// DeriveBarSeed derives the deterministic per-bar RNG seed: the monotonic
// bar counter XORed with a hash of the beat-probability parameters, so
// identical parameters yield identical sequences until edits occur
// (spec.md §4.1 prepare_bar).
func DeriveBarSeed(barCounter uint64, beatProbabilities []int) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 2)
	for _, p := range beatProbabilities {
		buf[0] = byte(p)
		buf[1] = byte(p >> 8)
		h.Write(buf)
	}
	return barCounter ^ h.Sum64()
}

// NewBarRNG returns a deterministic RNG seeded from DeriveBarSeed's output.
func NewBarRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}
