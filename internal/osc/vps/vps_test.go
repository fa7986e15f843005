package vps

import (
	"math"
	"testing"
)

func TestStepProducesNoDCBiasOverFullCycle(t *testing.T) {
	o := New(48000)
	p := Params{Freq: 100, D: 0.5, V: 0.5, StereoVOffset: 0.1, Fold: 0}
	var sumL, sumR float64
	n := 480
	for i := 0; i < n; i++ {
		out := o.Step(p)
		sumL += out.L
		sumR += out.R
	}
	if math.Abs(sumL/float64(n)) > 0.5 {
		t.Errorf("left channel DC bias too high: %v", sumL/float64(n))
	}
	if math.Abs(sumR/float64(n)) > 0.5 {
		t.Errorf("right channel DC bias too high: %v", sumR/float64(n))
	}
}

func TestStereoOffsetProducesDifferentChannels(t *testing.T) {
	o := New(48000)
	p := Params{Freq: 220, D: 0.3, V: 0.5, StereoVOffset: 0.3, Fold: 0}
	differs := false
	for i := 0; i < 200; i++ {
		out := o.Step(p)
		if math.Abs(out.L-out.R) > 1e-6 {
			differs = true
		}
	}
	if !differs {
		t.Errorf("expected stereo V offset to produce distinct L/R output")
	}
}

func TestOutputStaysBounded(t *testing.T) {
	o := New(48000)
	p := Params{Freq: 440, D: 1, V: 0.99, StereoVOffset: 0.9, Fold: 1}
	for i := 0; i < 1000; i++ {
		out := o.Step(p)
		if math.IsNaN(out.L) || math.IsInf(out.L, 0) || out.L > 3 || out.L < -3 {
			t.Fatalf("unbounded/non-finite output at step %d: %v", i, out.L)
		}
	}
}
