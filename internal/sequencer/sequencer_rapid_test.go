package sequencer

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyRandomisedBarsNeverOverlapOrOverrun generalises P1/P2 across
// randomly drawn beat-probability grids instead of a handful of fixed
// fixtures, the way fx25_send_test.go fuzzes bitStuff's input byte slice.
func TestPropertyRandomisedBarsNeverOverlapOrOverrun(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := baseParams()
		for i := 0; i < 8; i++ {
			p.Probabilities.Set("div8", i, rapid.IntRange(0, 127).Draw(t, "div8"))
		}
		for i := 0; i < 3; i++ {
			p.Probabilities.Set("div3t", i, rapid.IntRange(0, 127).Draw(t, "div3t"))
		}
		p.BarCounter = uint64(rapid.IntRange(0, 1_000_000).Draw(t, "barCounter"))

		events := PrepareBar(p)

		total := 0
		for i, e := range events {
			if e.DurationSamples < 1 {
				t.Fatalf("event %d has non-positive duration: %+v", i, e)
			}
			total += e.DurationSamples
			if i > 0 {
				prev := events[i-1]
				if prev.StartSampleInBar+prev.DurationSamples > e.StartSampleInBar {
					t.Fatalf("overlap between event %d (%+v) and %d (%+v)", i-1, prev, i, e)
				}
			}
		}
		if total > p.SamplesPerBar {
			t.Fatalf("total duration %d exceeds samples_per_bar %d", total, p.SamplesPerBar)
		}
	})
}
