package param

import "testing"

func TestWriteClampsToDeclaredRange(t *testing.T) {
	s := NewStore(48000)
	s.Write(FilterResonance, 5.0)
	if got := s.Raw(FilterResonance); got != 0.98 {
		t.Errorf("expected clamp to 0.98, got %v", got)
	}
	s.Write(FilterResonance, -5.0)
	if got := s.Raw(FilterResonance); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
}

func TestSmoothedConverges(t *testing.T) {
	s := NewStore(48000)
	s.Write(MasterVolume, 1.0)
	var v float64
	for i := 0; i < 48000; i++ {
		v = s.Smoothed(MasterVolume)
	}
	if v < 0.99 {
		t.Errorf("smoothed master volume did not converge: %v", v)
	}
}

func TestSteppedBypassesSmoothing(t *testing.T) {
	s := NewStore(48000)
	s.Write(OversampleRatio, 8)
	if got := s.Smoothed(OversampleRatio); got != 8 {
		t.Errorf("stepped param should read instantaneously, got %v", got)
	}
}

func TestAllBeatsCountMatchesSpec(t *testing.T) {
	if n := len(AllBeats()); n != 152 {
		t.Errorf("expected 152 beats, got %d", n)
	}
}

func TestBeatProbabilityIDsAreUnique(t *testing.T) {
	seen := map[ID]bool{}
	for _, b := range AllBeats() {
		id := BeatProbabilityID(b)
		if seen[id] {
			t.Fatalf("duplicate beat ID for %+v", b)
		}
		seen[id] = true
	}
}

func TestStoreCountIncludesBeatGrid(t *testing.T) {
	s := NewStore(48000)
	if s.Count() != int(beatGridBase)+152 {
		t.Errorf("store count mismatch: %d", s.Count())
	}
}
