package dsp

import "math"

// OnePole is a one-pole (RC) smoothing filter, used throughout the engine
// for parameter smoothing, noise filtering, and loop-filter decay. State is
// a single accumulator; coefficient is recomputed only when sample rate or
// time constant changes (see §9 "coefficient recomputation").
type OnePole struct {
	state float64
	coeff float64
}

// SetTimeConstant derives the smoothing coefficient from a time-in-seconds
// constant and the sample rate: coeff = exp(-1/(tau*fs)).
func (p *OnePole) SetTimeConstant(tauSeconds, sampleRate float64) {
	if tauSeconds <= 0 || sampleRate <= 0 {
		p.coeff = 0
		return
	}
	p.coeff = math.Exp(-1.0 / (tauSeconds * sampleRate))
}

// Reset snaps the filter state to value immediately (no ramp).
func (p *OnePole) Reset(value float64) {
	p.state = value
}

// Process advances the filter one sample toward target and returns the new state.
func (p *OnePole) Process(target float64) float64 {
	p.state = target + p.coeff*(p.state-target)
	return p.state
}

// Value returns the filter's current state without advancing it.
func (p *OnePole) Value() float64 { return p.state }

// DCBlocker removes DC offset with a one-pole highpass: y[n] = x[n] - x[n-1] + R*y[n-1].
type DCBlocker struct {
	prevIn, prevOut float64
	r               float64
}

// NewDCBlocker creates a DC blocker with the standard R=0.995 pole.
func NewDCBlocker() *DCBlocker {
	return &DCBlocker{r: 0.995}
}

func (d *DCBlocker) Process(x float64) float64 {
	y := x - d.prevIn + d.r*d.prevOut
	d.prevIn = x
	d.prevOut = y
	return y
}

func (d *DCBlocker) Reset() {
	d.prevIn, d.prevOut = 0, 0
}

// Slew ramps linearly toward a target at a fixed maximum rate per sample,
// used for click-free parameter changes that should not use exponential
// one-pole smoothing (e.g. velocity smoothing over a fixed 5ms span).
type Slew struct {
	value    float64
	maxDelta float64
}

// SetTime sets the slew's full-scale (0 to 1) travel time in seconds.
func (s *Slew) SetTime(seconds, sampleRate float64) {
	if seconds <= 0 || sampleRate <= 0 {
		s.maxDelta = math.MaxFloat64
		return
	}
	s.maxDelta = 1.0 / (seconds * sampleRate)
}

func (s *Slew) Reset(value float64) { s.value = value }

func (s *Slew) Process(target float64) float64 {
	if target > s.value {
		s.value = math.Min(target, s.value+s.maxDelta)
	} else if target < s.value {
		s.value = math.Max(target, s.value-s.maxDelta)
	}
	return s.value
}

func (s *Slew) Value() float64 { return s.value }

// StereoPair is a portable stand-in for SIMD f64x2 processing: a pair of
// float64 lanes (left/right) processed together so stereo DSP stages (the
// Moog ladder, the Dattorro tanks) can be written once per operation
// instead of duplicated per channel. Real SIMD width is left to the Go
// compiler's auto-vectoriser; this type exists to keep call sites
// branch-free and cache-friendly, matching the teacher's own stereo
// SIMD-pair framing for its filter/reverb stage.
type StereoPair struct {
	L, R float64
}

func (p StereoPair) Add(o StereoPair) StereoPair   { return StereoPair{p.L + o.L, p.R + o.R} }
func (p StereoPair) Scale(g float64) StereoPair    { return StereoPair{p.L * g, p.R * g} }
func (p StereoPair) Mix(o StereoPair, t float64) StereoPair {
	return StereoPair{Lerp(p.L, o.L, t), Lerp(p.R, o.R, t)}
}

// ScrubNaN replaces NaN/±Inf with 0, the mandated master-stage safety net (§7).
func ScrubNaN(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// ScrubStereo applies ScrubNaN to both channels.
func ScrubStereo(p StereoPair) StereoPair {
	return StereoPair{ScrubNaN(p.L), ScrubNaN(p.R)}
}
