// Package colour implements the post-mix, pre-filter colouration chain
// (§4.6): ring modulation against the PLL signal, soft wavefolding, PLL
// reference drift, gated noise, tube saturation, and a Bram-de-Jong-style
// distortion stage.
package colour

import (
	"math"
	"math/rand"

	"github.com/zotley/pllsynth/internal/dsp"
)

// Params bundles this sample's colouration inputs.
type Params struct {
	RingAmount float64 // 0..1, lerp(x, x*pll, ring_amount)
	FoldAmt    float64 // 0..1
	DriftDepth float64 // 0..1, LFO amount added to PLL ref_phase increment
	DriftRate  float64 // Hz
	NoiseAmt   float64 // 0..1
	Tube       float64 // 0..1, asymmetric soft clip amount
	Distortion float64 // 0..1, gained up to x50 with threshold soft clip
	EnvGate    float64 // volume envelope, gates the noise stage
}

func ring(x, pllSample, amount float64) float64 {
	return dsp.Lerp(x, x*pllSample, dsp.Clamp(amount, 0, 1))
}

func wavefold(x, amount float64) float64 {
	amount = dsp.Clamp(amount, 0, 1)
	shaped := dsp.FastSin(math.Pi * amount * x)
	return dsp.Lerp(x, shaped, amount)
}

func tubeSaturate(x, amount float64) float64 {
	amount = dsp.Clamp(amount, 0, 1)
	if amount <= 0 {
		return x
	}
	var shaped float64
	if x > 0 {
		shaped = dsp.FastTanh(x * (1 + 2*amount))
	} else {
		shaped = dsp.FastTanh(x * (1 + amount))
	}
	return dsp.Lerp(x, shaped, amount)
}

// distort implements a Bram-de-Jong-style waveshaper: gain the input up to
// x50, apply a threshold-based soft clip, and compensate for the resulting
// loudness increase.
func distort(x, amount float64) float64 {
	amount = dsp.Clamp(amount, 0, 1)
	if amount <= 0 {
		return x
	}
	gain := 1 + amount*49
	driven := x * gain
	threshold := 1.0 - amount*0.6
	var shaped float64
	abs := math.Abs(driven)
	if abs < threshold {
		shaped = driven
	} else {
		sign := 1.0
		if driven < 0 {
			sign = -1.0
		}
		shaped = sign * (threshold + (1-threshold)*dsp.FastTanh((abs-threshold)/(1-threshold)))
	}
	loudnessComp := 1.0 / math.Sqrt(gain)
	return dsp.Lerp(x, shaped*loudnessComp, amount)
}

// Chain holds the colouration stage's per-sample state: the drift LFO
// phase and a deterministic noise generator (seeded by the caller so the
// sequence is reproducible alongside the rest of the engine's RNG use).
type Chain struct {
	driftPhase float64
	noise      *rand.Rand
	sampleRate float64
}

// New creates a colouration chain; seed should come from the same
// deterministic derivation the sequencer uses so a captured preset + seed
// reproduces identical audio.
func New(sampleRate float64, seed int64) *Chain {
	return &Chain{sampleRate: sampleRate, noise: rand.New(rand.NewSource(seed))}
}

func (c *Chain) SetSampleRate(sr float64) { c.sampleRate = sr }

// DriftIncrement returns the extra phase-increment contribution the PLL's
// reference accumulator should add this sample (drift modulates the PLL
// reference only, per §4.6).
func (c *Chain) DriftIncrement(p Params) float64 {
	fs := c.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	c.driftPhase += p.DriftRate / fs
	c.driftPhase = dsp.Wrap01(c.driftPhase)
	return p.DriftDepth * dsp.FastSin(2*math.Pi*c.driftPhase) / fs
}

// Process applies ring/fold/noise/tube/distortion in the fixed order
// specified: ring, fold, noise add, tube, distortion. Drift does not touch
// the signal directly (see DriftIncrement).
func (c *Chain) Process(x, pllSample float64, p Params) float64 {
	y := ring(x, pllSample, p.RingAmount)
	y = wavefold(y, p.FoldAmt)
	if p.NoiseAmt > 0 {
		n := (c.noise.Float64()*2 - 1) * p.NoiseAmt * dsp.Clamp(p.EnvGate, 0, 1)
		y += n
	}
	y = tubeSaturate(y, p.Tube)
	y = distort(y, p.Distortion)
	return dsp.ScrubNaN(y)
}
