// Package vps implements the phase-distortion waveshaping oscillator
// (§4.3): a single phase accumulator run through the standard two-breakpoint
// phase-distortion curve, producing a stereo pair via a per-channel V offset,
// followed by an optional soft wavefolder.
package vps

import (
	"github.com/zotley/pllsynth/internal/dsp"
)

// Params bundles the per-sample shaping inputs.
type Params struct {
	Freq           float64 // Hz
	D              float64 // slope asymmetry, 0..1
	V              float64 // breakpoint location, clamped to a DC-safe interval
	StereoVOffset  float64 // added to V for the right channel, re-clamped
	Fold           float64 // 0..1 wavefolder amount
}

// safeV clamps V into an interval that prevents DC bias in the shaped
// output: the breakpoint must stay strictly inside (0,1).
func safeV(v float64) float64 {
	const margin = 0.01
	return dsp.Clamp(v, margin, 1-margin)
}

// shape implements the standard two-breakpoint phase-distortion curve:
// the phase ramp is split into a rising segment (0..V, scaled to a half
// sine rise) and a falling segment (V..1, scaled to a half sine fall),
// with D biasing the relative slope of the two segments.
func shape(phase, d, v float64) float64 {
	v = safeV(v)
	d = dsp.Clamp(d, 0, 1)
	// D=0 -> pure phase distortion at the breakpoint; D=1 -> pushes the
	// effective breakpoint toward 0.5 for a more sine-like output.
	effectiveV := dsp.Lerp(v, 0.5, d)
	var modPhase float64
	if phase < effectiveV {
		modPhase = 0.5 * (phase / effectiveV)
	} else {
		modPhase = 0.5 + 0.5*(phase-effectiveV)/(1-effectiveV)
	}
	return dsp.FastSin(2 * 3.141592653589793 * modPhase)
}

func wavefold(x, amount float64) float64 {
	amount = dsp.Clamp(amount, 0, 1)
	if amount <= 0 {
		return x
	}
	folded := dsp.FastSin(3.141592653589793 * dsp.Clamp(amount, 0.01, 4) * x)
	return dsp.Lerp(x, folded, amount)
}

// Oscillator holds the single phase accumulator shared by both channels
// (only the shaping breakpoint differs between L and R).
type Oscillator struct {
	phase      float64
	sampleRate float64
}

func New(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

func (o *Oscillator) SetSampleRate(sr float64) { o.sampleRate = sr }

func (o *Oscillator) Reset() { o.phase = 0 }

// Step advances the phase by one sample and returns the stereo pair.
func (o *Oscillator) Step(p Params) dsp.StereoPair {
	fs := o.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	left := shape(o.phase, p.D, p.V)
	left = wavefold(left, p.Fold)

	rightV := safeV(p.V + p.StereoVOffset)
	right := shape(o.phase, p.D, rightV)
	right = wavefold(right, p.Fold)

	o.phase += p.Freq / fs
	o.phase = dsp.Wrap01(o.phase)

	return dsp.StereoPair{L: dsp.ScrubNaN(left), R: dsp.ScrubNaN(right)}
}
