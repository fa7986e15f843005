// Package pll implements the phase-locked-loop oscillator: the engine's
// signature sound source. A reference phase accumulator is tracked by a
// voltage-controlled-oscillator phase accumulator through a phase detector
// and a second-order loop filter, producing a stereo pair with
// cross-feedback between channels.
package pll

import (
	"math"

	"github.com/zotley/pllsynth/internal/dsp"
)

// PDMode selects the phase detector used to derive the loop's error signal.
type PDMode int

const (
	PDModeAnalogLike PDMode = iota
	PDModeEdgePFD
)

// Params bundles every per-sample input the loop needs. Cheap scalars are
// passed by value every sample; the caller (internal/voice) is responsible
// for sampling the parameter store and modulation fabric once per sample.
type Params struct {
	RefFreq         float64 // Hz
	Multiplier      float64 // VCO frequency multiplier relative to RefFreq
	PDMode          PDMode
	TrackSpeed      float64 // 0..1, cubed and mapped to ωn ∈ [3,150] Hz
	Damping         float64 // 0..1, mapped to ζ ∈ [0.15,1.5]
	Influence       float64 // control-signal depth on VCO frequency
	LoopSaturation  float64 // clamp applied to the loop filter's control output
	BurstThreshold  float64 // track_speed above which overtrack burst kicks in
	BurstAmount     float64
	FMRatio         float64 // FM oscillator frequency = ratio * RefFreq
	FMAmount        float64
	FMEnvAmount     float64 // additional FM depth driven by the envelope
	EnvValue        float64 // current envelope output, 0..1
	PulseWidth      float64 // 0..1, duty cycle of the output pulse shape
	Colored         bool    // pass output through cubic saturation + DC block
	CrossFeedback   float64 // 0..1, opposite-channel feedback into the control term
	StereoPhaseOffs float64 // phase offset (cycles) applied to the right channel
	Retrigger       float64 // 0 = hard reset on trigger, 1 = fully continuous (soft blend)
}

type channelState struct {
	refPhase    float64
	vcoPhase    float64
	integrator  float64
	pfdCounter  int
	crossResid  float64 // last crossing residual, used for EdgePFD sub-sample interpolation
	dcBlock     *dsp.DCBlocker
	aaFilter    dsp.OnePole
	prevRawOut  float64
	prevControl float64
}

func newChannelState() *channelState {
	return &channelState{dcBlock: dsp.NewDCBlocker()}
}

// Oscillator holds the stereo pair of PLL channel states.
type Oscillator struct {
	left, right *channelState
	sampleRate  float64
}

// New creates an oscillator at the given internal (oversampled) sample rate.
func New(sampleRate float64) *Oscillator {
	return &Oscillator{left: newChannelState(), right: newChannelState(), sampleRate: sampleRate}
}

// SetSampleRate recomputes every time-constant-derived filter state before
// the next sample is produced, per the §4.2 failure-model requirement that
// a sample-rate change never leaves stale coefficients in place.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
}

// Retrigger handles note-on: a hard reset snaps vco_phase to 0; otherwise a
// soft blend toward 0 scaled by the retrigger amount preserves continuity
// (§4.2 invariant, §9 OQ3 "legato wins, retrigger ignored while envelope is
// not in release" is enforced by the caller deciding whether to call this
// at all).
func (o *Oscillator) Retrigger(p Params) {
	o.retriggerChannel(o.left, p)
	o.retriggerChannel(o.right, p)
}

func (o *Oscillator) retriggerChannel(c *channelState, p Params) {
	if p.Retrigger <= 0 {
		c.vcoPhase = 0
		c.integrator = 0
	} else {
		c.vcoPhase = dsp.Wrap01(c.vcoPhase * dsp.Clamp(p.Retrigger, 0, 1))
	}
}

// Reset returns both channels to a well-defined quiescent state (§7
// "sample-rate change / reset... voice state is reset to a well-defined
// quiescent configuration").
func (o *Oscillator) Reset() {
	o.left = newChannelState()
	o.right = newChannelState()
}

// loopCoefficients derives Kp, Ki, and the integrator decay from track_speed
// and damping, following §4.2 step 3.
func loopCoefficients(p Params) (kp, ki, decay float64) {
	speed := dsp.Clamp(p.TrackSpeed, 0, 1)
	omegaN := 3 + speed*speed*speed*(150-3)
	zeta := 0.15 + dsp.Clamp(p.Damping, 0, 1)*(1.5-0.15)
	kp = 2 * zeta * omegaN
	ki = omegaN * omegaN
	decay = 1.0 - 1.0/(1.0+zeta*10)
	return kp, ki, 1 - decay
}

func (o *Oscillator) stepChannel(c *channelState, p Params, crossFeedbackSource float64, phaseOffset float64) float64 {
	fs := o.sampleRate
	if fs <= 0 {
		fs = 48000
	}

	// Step 1: advance reference phase.
	c.refPhase += p.RefFreq / fs
	c.refPhase = dsp.Wrap01(c.refPhase)

	// Step 2: phase error.
	var e float64
	switch p.PDMode {
	case PDModeEdgePFD:
		// Signed function of inter-crossing sample counts, sub-sample
		// interpolated via the last residual computed at the threshold
		// crossing (linear interpolation between bracketing samples).
		c.pfdCounter++
		if c.refPhase < p.RefFreq/fs {
			residual := c.refPhase / (p.RefFreq / fs)
			e = dsp.Clamp((residual-0.5)*2, -1, 1)
			c.crossResid = residual
			c.pfdCounter = 0
		} else {
			e = c.crossResid
		}
	default: // PDModeAnalogLike
		e = dsp.Clamp(dsp.WrapPi(2*math.Pi*(c.refPhase-c.vcoPhase/math.Max(p.Multiplier, 1e-9)))/math.Pi, -1, 1)
	}

	// Step 3: loop filter.
	kp, ki, decay := loopCoefficients(p)
	c.integrator = (c.integrator + ki*e/fs) * decay
	control := kp*e + c.integrator
	sat := p.LoopSaturation
	if sat <= 0 {
		sat = 1
	}
	control = dsp.Clamp(control, -sat, sat)

	// Step 4: overtrack burst.
	if p.TrackSpeed > p.BurstThreshold {
		control += p.BurstAmount * (p.TrackSpeed - p.BurstThreshold)
	}

	// Step 7 (applied here so it feeds step 5's control term): cross-feedback.
	control += p.CrossFeedback * crossFeedbackSource
	c.prevControl = control

	// Step 5: integrate VCO.
	vcoFreq := p.RefFreq * p.Multiplier * (1 + p.Influence*control)
	if p.FMAmount > 0 || p.FMEnvAmount > 0 {
		fmFreq := p.FMRatio * p.RefFreq
		depth := p.FMAmount + p.FMEnvAmount*p.EnvValue
		fmPhase := dsp.Wrap01(c.vcoPhase * fmFreq / math.Max(vcoFreq, 1e-9))
		vcoFreq *= 1 + depth*dsp.FastSin(2*math.Pi*fmPhase)
	}
	c.vcoPhase += vcoFreq / fs
	c.vcoPhase = dsp.Wrap01(c.vcoPhase)

	// Step 6: waveshape + optional colouration.
	outPhase := dsp.Wrap01(c.vcoPhase + phaseOffset)
	var raw float64
	pw := dsp.Clamp(p.PulseWidth, 0.01, 0.99)
	edge := dsp.PolyBLEP(outPhase, vcoFreq/fs)
	edge -= dsp.PolyBLEP(dsp.Wrap01(outPhase-pw), vcoFreq/fs)
	if outPhase < pw {
		raw = 1
	} else {
		raw = -1
	}
	raw += edge
	// Blend toward a pure sine as pulse width approaches 0.5 for a less
	// harsh default timbre; PulseWidth still fully controls duty at the
	// extremes where the destination list's "PLL Pulse-width" matters most.
	raw = dsp.Lerp(dsp.FastSin(2*math.Pi*outPhase), raw, math.Abs(pw-0.5)*2)

	// Anti-alias: one-pole LPF when the VCO frequency exceeds 0.48 of the
	// internal sample rate.
	if vcoFreq > 0.48*fs {
		c.aaFilter.SetTimeConstant(1/(2*math.Pi*0.48*fs), fs)
		raw = c.aaFilter.Process(raw)
	} else {
		c.aaFilter.Reset(raw)
	}

	if p.Colored {
		raw = raw*raw*raw
		raw = c.dcBlock.Process(raw)
	}

	c.prevRawOut = raw
	return raw
}

// Step advances both channels by one sample and returns the stereo pair.
// Both channels read the opposite channel's output from the *same* previous
// sample (§4.2 step 7): snapshot prevRawOut before stepping either, since
// stepChannel overwrites it in place and the second call would otherwise see
// the first call's brand-new output instead of last sample's.
func (o *Oscillator) Step(p Params) dsp.StereoPair {
	prevL, prevR := o.left.prevRawOut, o.right.prevRawOut
	l := o.stepChannel(o.left, p, prevR, 0)
	r := o.stepChannel(o.right, p, prevL, p.StereoPhaseOffs)
	return dsp.StereoPair{L: dsp.ScrubNaN(l), R: dsp.ScrubNaN(r)}
}

// VCOPhase exposes the left channel's VCO phase, used by S6-style tests
// verifying hard-reset vs continuous retrigger behaviour.
func (o *Oscillator) VCOPhase() float64 { return o.left.vcoPhase }
