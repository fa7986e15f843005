// Package moog implements the Stilson 4-pole ladder lowpass filter (§4.4):
// four cascaded one-pole stages with resonance feedback and a tanh drive
// stage, operating on stereo f64 SIMD pairs.
package moog

import (
	"math"

	"github.com/zotley/pllsynth/internal/dsp"
)

const (
	MinCutoffHz = 20.0
	MaxResonance = 0.98
	MinDrive     = 1.0
	MaxDrive     = 15.0
)

// Params is the per-block (interpolated per-sample by the caller) filter
// configuration.
type Params struct {
	CutoffHz   float64
	Resonance  float64 // 0..0.98
	Drive      float64 // 1..15
	SampleRate float64
}

// ladderChannel holds the four cascaded one-pole lowpass stages for a single channel.
type ladderChannel struct {
	s1, s2, s3, s4 float64
}

// Filter holds independent left/right ladder state (stereo SIMD pair),
// plus a slow-path-recomputed cutoff coefficient that linearly interpolates
// across the block per §4.4 ("cutoff updates interpolate linearly across
// the block").
type Filter struct {
	left, right ladderChannel

	targetG float64
	currentG float64
	startG   float64
	blockLen int
	blockPos int
}

func New() *Filter {
	return &Filter{}
}

// SetTargetForBlock recomputes the filter's coefficient target for the
// upcoming block of blockLen samples; Process linearly interpolates
// currentG toward targetG over that span.
func (f *Filter) SetTargetForBlock(p Params, blockLen int) {
	cutoff := dsp.Clamp(p.CutoffHz, MinCutoffHz, 0.4*p.SampleRate)
	f.targetG = cutoffToG(cutoff, p.SampleRate)
	if blockLen < 1 {
		blockLen = 1
	}
	f.blockLen = blockLen
	f.blockPos = 0
	if f.currentG == 0 {
		f.currentG = f.targetG
	}
	f.startG = f.currentG
}

func cutoffToG(cutoffHz, sampleRate float64) float64 {
	wc := 2 * math.Pi * cutoffHz / sampleRate
	return dsp.Clamp(wc/(1+wc), 0.0001, 0.9999)
}

func (f *Filter) stepG() float64 {
	if f.blockPos >= f.blockLen {
		f.currentG = f.targetG
		return f.currentG
	}
	f.blockPos++
	t := float64(f.blockPos) / float64(f.blockLen)
	f.currentG = dsp.Lerp(f.startG, f.targetG, t)
	return f.currentG
}

func driveSaturate(x, drive float64) float64 {
	drive = dsp.Clamp(drive, MinDrive, MaxDrive)
	return dsp.FastTanh(drive*x) / drive
}

func (c *ladderChannel) process(x, g, resonance float64) float64 {
	feedback := resonance * 4.0 * c.s4
	input := x - feedback
	c.s1 += g * (dsp.FastTanh(input) - dsp.FastTanh(c.s1))
	c.s2 += g * (dsp.FastTanh(c.s1) - dsp.FastTanh(c.s2))
	c.s3 += g * (dsp.FastTanh(c.s2) - dsp.FastTanh(c.s3))
	c.s4 += g * (dsp.FastTanh(c.s3) - dsp.FastTanh(c.s4))
	return c.s4
}

// Process runs one stereo sample through the ladder. Self-oscillation
// emerges naturally near resonance=0.98 from the feedback term alone.
func (f *Filter) Process(in dsp.StereoPair, p Params) dsp.StereoPair {
	g := f.stepG()
	resonance := dsp.Clamp(p.Resonance, 0, MaxResonance)

	driveIn := dsp.StereoPair{
		L: driveSaturate(in.L, p.Drive),
		R: driveSaturate(in.R, p.Drive),
	}

	out := dsp.StereoPair{
		L: f.left.process(driveIn.L, g, resonance),
		R: f.right.process(driveIn.R, g, resonance),
	}
	return dsp.ScrubStereo(out)
}

// Reset clears both channels' ladder state, used on voice panic/reset.
func (f *Filter) Reset() {
	f.left = ladderChannel{}
	f.right = ladderChannel{}
}
