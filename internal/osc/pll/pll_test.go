package pll

import (
	"math"
	"testing"
)

func baseParams() Params {
	return Params{
		RefFreq:        220,
		Multiplier:     1,
		PDMode:         PDModeAnalogLike,
		TrackSpeed:     0.3,
		Damping:        0.5,
		Influence:      0.2,
		LoopSaturation: 1,
		PulseWidth:     0.5,
		Retrigger:      0,
	}
}

// S6: hard reset vs continuous.
func TestHardResetSnapsPhaseToZero(t *testing.T) {
	o := New(48000)
	p := baseParams()
	for i := 0; i < 100; i++ {
		o.Step(p)
	}
	if o.VCOPhase() == 0 {
		t.Fatalf("expected nonzero phase before retrigger")
	}
	p.Retrigger = 0
	o.Retrigger(p)
	if o.VCOPhase() != 0 {
		t.Errorf("hard reset (retrigger=0) should snap vco_phase to 0, got %v", o.VCOPhase())
	}
}

func TestSoftRetriggerIsContinuous(t *testing.T) {
	o := New(48000)
	p := baseParams()
	for i := 0; i < 100; i++ {
		o.Step(p)
	}
	before := o.VCOPhase()
	p.Retrigger = 1
	o.Retrigger(p)
	after := o.VCOPhase()
	if after != before {
		t.Errorf("fully continuous retrigger (retrigger=1) should not change phase: before=%v after=%v", before, after)
	}
}

// P6: no NaN/Inf under extreme parameters.
func TestNoNaNUnderExtremeParameters(t *testing.T) {
	o := New(48000)
	p := baseParams()
	p.TrackSpeed = 1
	p.Damping = 0
	p.Influence = 1000
	p.LoopSaturation = 0.0001
	p.RefFreq = 19000
	p.Multiplier = 16
	for i := 0; i < 10000; i++ {
		out := o.Step(p)
		if math.IsNaN(out.L) || math.IsInf(out.L, 0) || math.IsNaN(out.R) || math.IsInf(out.R, 0) {
			t.Fatalf("step %d produced non-finite output: %+v", i, out)
		}
	}
}

// P7: sample-rate change then restore is recoverable and bounded.
func TestSampleRateChangeRecomputesCoefficients(t *testing.T) {
	o := New(48000)
	p := baseParams()
	for i := 0; i < 50; i++ {
		o.Step(p)
	}
	o.SetSampleRate(44100)
	for i := 0; i < 50; i++ {
		out := o.Step(p)
		if math.IsNaN(out.L) || math.IsInf(out.L, 0) {
			t.Fatalf("non-finite output after sample-rate change at step %d", i)
		}
	}
	o.SetSampleRate(48000)
	out := o.Step(p)
	if math.IsNaN(out.L) || math.IsInf(out.L, 0) {
		t.Fatalf("non-finite output after restoring sample rate")
	}
}

func TestPhasesStayInUnitRange(t *testing.T) {
	o := New(48000)
	p := baseParams()
	for i := 0; i < 5000; i++ {
		o.Step(p)
		if o.left.refPhase < 0 || o.left.refPhase >= 1 {
			t.Fatalf("refPhase out of [0,1): %v", o.left.refPhase)
		}
		if o.left.vcoPhase < 0 || o.left.vcoPhase >= 1 {
			t.Fatalf("vcoPhase out of [0,1): %v", o.left.vcoPhase)
		}
	}
}
