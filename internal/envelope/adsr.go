// Package envelope implements the two shape-controlled ADSR envelopes
// (§4.7): per-segment shape in [-5,+5] interpolating log -> linear -> exp,
// minimum segment times, and smoothed velocity to avoid amplitude clicks.
package envelope

import (
	"math"

	"github.com/zotley/pllsynth/internal/dsp"
)

type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

const (
	minAttackMs  = 2.0 // applied to every attack; first triggers get no shorter 1ms minimum
	minSegmentMs = 1.0
)

// Params are the four segment times (ms), sustain level, and per-segment
// shape values read once per sample from the (smoothed) parameter store.
type Params struct {
	AttackMs   float64
	DecayMs    float64
	SustainLvl float64
	ReleaseMs  float64
	Shape      float64 // -5..5, shared across segments
}

// shapeCurve interpolates log -> linear -> exp across shape ∈ [-5,+5]:
// shape<0 bends the ramp toward a logarithmic (fast-then-slow) curve,
// shape>0 toward exponential (slow-then-fast), shape=0 is linear.
func shapeCurve(t, shape float64) float64 {
	t = dsp.Clamp(t, 0, 1)
	if shape == 0 {
		return t
	}
	k := dsp.Clamp(shape, -5, 5) / 5.0
	if k > 0 {
		// exponential: t^(1+3k)
		return math.Pow(t, 1+3*k)
	}
	// logarithmic: t^(1/(1-3k))
	return math.Pow(t, 1/(1-3*k))
}

// ADSR is a single envelope generator.
type ADSR struct {
	stage          Stage
	samplePos      int
	levelAtStage   float64 // level when the current stage began, for release ramps
	output         float64
	velocitySmooth dsp.Slew
	velocityTarget float64
	sampleRate     float64
}

// New creates an idle envelope.
func New(sampleRate float64) *ADSR {
	return &ADSR{sampleRate: sampleRate}
}

func (e *ADSR) SetSampleRate(sr float64) { e.sampleRate = sr }

// Trigger starts (or retriggers) the attack stage. velocity is smoothed
// over 5ms rather than applied instantaneously (§4.7).
func (e *ADSR) Trigger(velocity float64) {
	e.velocitySmooth.SetTime(0.005, e.sampleRate)
	e.velocitySmooth.Reset(e.velocitySmooth.Value()) // keep existing smoothing target continuity
	e.stage = StageAttack
	e.samplePos = 0
	e.levelAtStage = e.output
	e.velocityTarget = velocity
}

// Release begins the release stage from the current output level.
func (e *ADSR) Release() {
	if e.stage == StageIdle {
		return
	}
	e.stage = StageRelease
	e.samplePos = 0
	e.levelAtStage = e.output
}

// Reset snaps the envelope to a quiescent idle state (engine panic/reset).
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.samplePos = 0
	e.output = 0
	e.levelAtStage = 0
}

// CurrentStage reports the envelope's current stage (used by legato/retrigger
// decisions: "not in release" per §9 OQ3, and §4.2 retrigger logic).
func (e *ADSR) CurrentStage() Stage { return e.stage }

// Step advances the envelope by one sample and returns its output, 0..1
// scaled by the smoothed velocity.
func (e *ADSR) Step(p Params) float64 {
	fs := e.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	vel := e.velocitySmooth.Process(e.velocityTarget)

	switch e.stage {
	case StageIdle:
		e.output = 0
	case StageAttack:
		attackSamples := int(math.Max(minAttackMs, p.AttackMs) / 1000 * fs)
		if attackSamples < 1 {
			attackSamples = 1
		}
		t := float64(e.samplePos) / float64(attackSamples)
		if t >= 1 {
			e.output = 1
			e.stage = StageDecay
			e.samplePos = 0
			e.levelAtStage = 1
		} else {
			e.output = dsp.Lerp(e.levelAtStage, 1, shapeCurve(t, p.Shape))
			e.samplePos++
		}
	case StageDecay:
		decaySamples := int(math.Max(minSegmentMs, p.DecayMs) / 1000 * fs)
		if decaySamples < 1 {
			decaySamples = 1
		}
		t := float64(e.samplePos) / float64(decaySamples)
		sustain := dsp.Clamp(p.SustainLvl, 0, 1)
		if t >= 1 {
			e.output = sustain
			e.stage = StageSustain
			e.samplePos = 0
		} else {
			e.output = dsp.Lerp(1, sustain, shapeCurve(t, p.Shape))
			e.samplePos++
		}
	case StageSustain:
		e.output = dsp.Clamp(p.SustainLvl, 0, 1)
	case StageRelease:
		releaseSamples := int(math.Max(minSegmentMs, p.ReleaseMs) / 1000 * fs)
		if releaseSamples < 1 {
			releaseSamples = 1
		}
		t := float64(e.samplePos) / float64(releaseSamples)
		if t >= 1 {
			e.output = 0
			e.stage = StageIdle
			e.samplePos = 0
		} else {
			e.output = dsp.Lerp(e.levelAtStage, 0, shapeCurve(t, p.Shape))
			e.samplePos++
		}
	}
	return e.output * vel
}

// Output returns the last computed envelope level, before velocity scaling,
// without advancing.
func (e *ADSR) Output() float64 { return e.output }
