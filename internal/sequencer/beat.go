package sequencer

import (
	"math/big"
	"sort"
)

// division describes one beat-grid partition of the bar. Beat count always
// equals N: start = index/N, nominal duration = 1/N (spec.md §3 "Beat grid").
type division struct {
	name  string
	n     int
	order int // deterministic tiebreak rank across all divisions
}

// divisionTable is the fixed, ordered enumeration of every division across
// the three families (straight, triplet, dotted), used to resolve the
// competition algorithm's tiebreaks deterministically.
var divisionTable = buildDivisionTable()

func buildDivisionTable() []division {
	names := []struct {
		name string
		n    int
	}{
		{"div1", 1}, {"div2", 2}, {"div4", 4}, {"div8", 8}, {"div16", 16}, {"div32", 32},
		{"div3t", 3}, {"div6t", 6}, {"div12t", 12}, {"div24t", 24},
		{"div2d", 2}, {"div3d", 3}, {"div6d", 6}, {"div11d", 11}, {"div22d", 22},
	}
	out := make([]division, len(names))
	for i, n := range names {
		out[i] = division{name: n.name, n: n.n, order: i}
	}
	return out
}

// DivisionNames returns the fixed ordered list of division names, for
// callers that need the exact same order.
func DivisionNames() []string {
	out := make([]string, len(divisionTable))
	for i, d := range divisionTable {
		out[i] = d.name
	}
	return out
}

// candidateBeat is one (division,index) beat with non-zero probability,
// using exact rational arithmetic for start/duration so the competition
// algorithm's time comparisons are exact regardless of division mix.
type candidateBeat struct {
	div          division
	index        int
	start, dur   *big.Rat
	probability  int
}

// BeatProbabilitySource supplies a beat's probability (0-127) by division
// name and index; BeatProbabilities implements it.
type BeatProbabilitySource interface {
	BeatProbability(division string, index int) int
}

func enumerateCandidates(probs BeatProbabilitySource) []candidateBeat {
	var out []candidateBeat
	for _, d := range divisionTable {
		for i := 0; i < d.n; i++ {
			p := probs.BeatProbability(d.name, i)
			if p <= 0 {
				continue
			}
			out = append(out, candidateBeat{
				div:         d,
				index:       i,
				start:       big.NewRat(int64(i), int64(d.n)),
				dur:         big.NewRat(1, int64(d.n)),
				probability: p,
			})
		}
	}
	// Sort by start asc, then duration desc, then division order asc (tiebreak).
	sort.SliceStable(out, func(a, b int) bool {
		ca, cb := out[a], out[b]
		if c := ca.start.Cmp(cb.start); c != 0 {
			return c < 0
		}
		if c := ca.dur.Cmp(cb.dur); c != 0 {
			return c > 0 // largest duration first
		}
		return ca.div.order < cb.div.order
	})
	return out
}

// resolvedBeat is the outcome of the competition: a winning beat at its
// start time with its nominal duration, expressed still as exact rationals.
type resolvedBeat struct {
	start, dur *big.Rat
}

type displacedBeat struct {
	end         *big.Rat
	probability int
}

// rng is the minimal source the beat competition needs: an integer draw in
// [0, n). Implemented by *rand.Rand from seed.go.
type rng interface {
	Intn(n int) int
}

// resolveBeats runs the beat-competition algorithm (spec.md §4.1 steps 1-4)
// and returns the winning beats in start-time order.
func resolveBeats(candidates []candidateBeat, r rng) []resolvedBeat {
	var events []resolvedBeat
	var displaced []displacedBeat
	occupiedUntil := big.NewRat(0, 1)

	i := 0
	for i < len(candidates) {
		t := candidates[i].start
		// Collect all candidates starting at exactly t.
		j := i
		for j < len(candidates) && candidates[j].start.Cmp(t) == 0 {
			j++
		}
		group := candidates[i:j]
		i = j

		if t.Cmp(occupiedUntil) < 0 {
			continue // step 4a: skip this time entirely
		}

		S := 0
		for _, c := range group {
			S += c.probability
		}

		L := 0
		kept := displaced[:0:0]
		for _, d := range displaced {
			if d.end.Cmp(t) > 0 {
				L += d.probability
				kept = append(kept, d)
			}
		}
		displaced = kept

		R := 127 - L
		if R < 0 {
			R = 0
		}

		if R > 0 {
			roll := r.Intn(R)
			if roll < S {
				// Proportional mapping of roll into cumulative prob(c_i).
				cum := 0
				winnerIdx := len(group) - 1
				for gi, c := range group {
					cum += c.probability
					if roll < cum {
						winnerIdx = gi
						break
					}
				}
				winner := group[winnerIdx]
				for gi, c := range group {
					if gi == winnerIdx {
						continue
					}
					end := new(big.Rat).Add(t, c.dur)
					displaced = append(displaced, displacedBeat{end: end, probability: c.probability})
				}
				events = append(events, resolvedBeat{start: winner.start, dur: winner.dur})
				occupiedUntil = new(big.Rat).Add(t, winner.dur)
				continue
			}
		}
		// Step 4f: all candidates at t move into displaced.
		for _, c := range group {
			end := new(big.Rat).Add(t, c.dur)
			displaced = append(displaced, displacedBeat{end: end, probability: c.probability})
		}
	}
	return events
}
