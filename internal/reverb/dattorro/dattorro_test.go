package dattorro

import (
	"math"
	"testing"

	"github.com/zotley/pllsynth/internal/dsp"
)

func TestDryMixPassesInputThrough(t *testing.T) {
	r := New(48000)
	p := Params{Mix: 0, Decay: 0.5, SampleRate: 48000}
	in := dsp.StereoPair{L: 0.3, R: -0.3}
	out := r.Process(in, p)
	if math.Abs(out.L-in.L) > 1e-9 || math.Abs(out.R-in.R) > 1e-9 {
		t.Errorf("mix=0 should pass dry signal through unchanged, got %+v", out)
	}
}

func TestImpulseProducesDecayingTail(t *testing.T) {
	r := New(48000)
	p := Params{Mix: 1, Decay: 0.7, SampleRate: 48000}
	r.Process(dsp.StereoPair{L: 1, R: 1}, p)
	var energyEarly, energyLate float64
	for i := 0; i < 2000; i++ {
		out := r.Process(dsp.StereoPair{}, p)
		if i < 200 {
			energyEarly += out.L*out.L + out.R*out.R
		}
		if i >= 1800 {
			energyLate += out.L*out.L + out.R*out.R
		}
	}
	if energyLate >= energyEarly {
		t.Errorf("expected decaying tail: early=%v late=%v", energyEarly, energyLate)
	}
}

func TestNoNaNOverLongRun(t *testing.T) {
	r := New(48000)
	p := Params{Mix: 1, Decay: 0.99, SampleRate: 48000}
	for i := 0; i < 20000; i++ {
		out := r.Process(dsp.StereoPair{L: 0.8, R: -0.8}, p)
		if math.IsNaN(out.L) || math.IsInf(out.L, 0) {
			t.Fatalf("non-finite output at step %d", i)
		}
	}
}

func TestSampleRateChangeRebuildsBuffers(t *testing.T) {
	r := New(48000)
	r.SetSampleRate(44100)
	if len(r.preDelay.buf) == len(newCircularBuffer(preDelayLen, 48000).buf) {
		t.Errorf("expected pre-delay buffer length to change with sample rate")
	}
}
