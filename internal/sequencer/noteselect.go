package sequencer

import "math"

// Direction values for the octave randomiser (§9 Open Question 2).
const (
	DirectionBoth = 0
	DirectionUp   = 1
	DirectionDown = 2
)

// matchCurve implements the shared strength/length preference-match formula
// from spec.md §4.1: clamp(1 + ((p-64)/63)*(s-0.5)*2, 0.1, 2.0).
func matchCurve(s float64, p int) float64 {
	v := 1 + ((float64(p)-64)/63)*(s-0.5)*2
	if v < 0.1 {
		return 0.1
	}
	if v > 2.0 {
		return 2.0
	}
	return v
}

// lengthNormalise maps a beat duration into [0,1] against the current bar's
// min/max enabled-division durations, as required before applying matchCurve
// to length preference.
func lengthNormalise(dur, minDur, maxDur float64) float64 {
	if maxDur <= minDur {
		return 0.5
	}
	return (dur - minDur) / (maxDur - minDur)
}

// SelectNote performs weighted note selection (spec.md §4.1 "Note
// selection" steps 1-3) for one scheduled beat, given the bar's strength at
// the beat's start and its normalised length.
func SelectNote(entries []NoteEntry, strength, normalisedLength float64, root int, roll func(n int) int) (note int, strengthMatch, lengthMatch float64) {
	type weighted struct {
		entry  NoteEntry
		weight float64
		sm, lm float64
	}
	var candidates []weighted
	total := 0.0
	for _, e := range entries {
		if !e.Enabled {
			continue
		}
		sm := matchCurve(strength, e.StrengthPref)
		lm := matchCurve(normalisedLength, e.LengthPref)
		w := float64(e.BaseChance) * sm * lm
		if w < 0 {
			w = 0
		}
		candidates = append(candidates, weighted{entry: e, weight: w, sm: sm, lm: lm})
		total += w
	}
	if total <= 0 {
		return root, 1.0, 1.0
	}
	// Weighted random choice over a large integer domain for precision.
	const scale = 1 << 20
	r := roll(scale)
	target := (float64(r) / float64(scale)) * total
	cum := 0.0
	for _, c := range candidates {
		cum += c.weight
		if target < cum {
			return c.entry.Note, c.sm, c.lm
		}
	}
	last := candidates[len(candidates)-1]
	return last.entry.Note, last.sm, last.lm
}

// ApplyOctaveRandomiser implements spec.md §4.1 step 4: with probability
// chance/127, and only if the beat's strength/length preferences match
// (match > 1.0 required), shift the chosen note by an octave.
func ApplyOctaveRandomiser(note int, chance, direction int, strengthPref, lengthPref int, strength, normalisedLength float64, roll func(n int) int) int {
	if chance <= 0 {
		return note
	}
	const scale = 1 << 16
	r := roll(scale)
	if float64(r)/float64(scale) >= float64(chance)/127.0 {
		return note
	}
	if matchCurve(strength, strengthPref) <= 1.0 || matchCurve(normalisedLength, lengthPref) <= 1.0 {
		return note
	}
	var shift int
	switch direction {
	case DirectionUp:
		shift = 12
	case DirectionDown:
		shift = -12
	default: // DirectionBoth: uniform choice of +12/-12
		if roll(2) == 0 {
			shift = 12
		} else {
			shift = -12
		}
	}
	shifted := note + shift
	return int(math.Max(0, math.Min(127, float64(shifted))))
}
