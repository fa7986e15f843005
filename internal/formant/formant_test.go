package formant

import (
	"math"
	"testing"

	"github.com/zotley/pllsynth/internal/dsp"
)

func TestZeroMixPassesDry(t *testing.T) {
	s := New()
	in := dsp.StereoPair{L: 0.3, R: -0.2}
	out := s.Process(in, Params{Vowel: 2, Amount: 3, Mix: 0, SampleRate: 48000})
	if out != in {
		t.Errorf("expected dry passthrough at Mix=0, got %+v", out)
	}
}

func TestNoNaNOverImpulseResponse(t *testing.T) {
	s := New()
	p := Params{Vowel: 1.5, Amount: 4, Mix: 1, SampleRate: 48000}
	out := s.Process(dsp.StereoPair{L: 1, R: 1}, p)
	for i := 0; i < 4000; i++ {
		out = s.Process(dsp.StereoPair{}, p)
		if math.IsNaN(out.L) || math.IsNaN(out.R) || math.IsInf(out.L, 0) || math.IsInf(out.R, 0) {
			t.Fatalf("sample %d: non-finite output %+v", i, out)
		}
	}
}

func TestVowelCrossfadeIsContinuous(t *testing.T) {
	a := vowelAt(1.0)
	b := vowelAt(1.5)
	if math.Abs(a.F1-b.F1) > 200 || math.Abs(a.F2-b.F2) > 400 {
		t.Errorf("expected smooth interpolation between adjacent vowels, got %+v vs %+v", a, b)
	}
}
