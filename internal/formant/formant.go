// Package formant implements the two-band vowel formant section (§4.12,
// supplemented): two parallel resonant bandpass stages selecting among five
// vowel-like center-frequency pairs, crossfaded by a single continuous
// parameter. Applied after colouration, before the Moog ladder.
package formant

import (
	"math"

	"github.com/zotley/pllsynth/internal/dsp"
)

// vowelPair is one vowel's (F1, F2) center frequencies in Hz.
type vowelPair struct {
	F1, F2 float64
}

// vowels is the fixed A/E/I/O/U table, ordered so that Vowel selects
// linearly across it (0=A .. 4=U).
var vowels = [5]vowelPair{
	{700, 1220},  // A
	{530, 1840},  // E
	{270, 2290},  // I
	{570, 840},   // O
	{300, 870},   // U
}

const resonatorQ = 8.0

// resonator is a single two-pole resonant bandpass stage, structured the
// same way the Moog ladder's cascaded one-pole stages are: state kept per
// channel, coefficients recomputed from the target frequency on every call.
type resonator struct {
	s1, s2 float64
}

func (r *resonator) process(x, freqHz, q, sampleRate float64) float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	alpha := math.Sin(w) / (2 * q)
	cosw := dsp.FastSin(w + math.Pi/2) // cos via the sin LUT, phase-shifted
	a0 := 1 + alpha
	b0 := alpha / a0
	b2 := -alpha / a0
	a1 := -2 * cosw / a0
	a2 := (1 - alpha) / a0

	y := b0*x + r.s1
	r.s1 = -a1*y + r.s2 // no b1 term: pure bandpass has zero at DC/Nyquist
	r.s2 = b2*x - a2*y
	return y
}

// Params bundles one sample's formant configuration.
type Params struct {
	Vowel      float64 // 0..4, crossfades between adjacent vowel pairs
	Amount     float64 // 0..4 band gain/mix depth
	Mix        float64 // 0..1 dry/wet
	SampleRate float64
}

// Section holds the two resonator bands (F1, F2) per stereo channel.
type Section struct {
	leftF1, leftF2   resonator
	rightF1, rightF2 resonator
}

func New() *Section { return &Section{} }

func (s *Section) Reset() { *s = Section{} }

func vowelAt(v float64) vowelPair {
	v = dsp.Clamp(v, 0, 4)
	i := int(v)
	if i >= 4 {
		return vowels[4]
	}
	frac := v - float64(i)
	a, b := vowels[i], vowels[i+1]
	return vowelPair{
		F1: dsp.Lerp(a.F1, b.F1, frac),
		F2: dsp.Lerp(a.F2, b.F2, frac),
	}
}

// Process runs both formant bands over a stereo pair and crossfades the
// result against the dry input by Mix.
func (s *Section) Process(in dsp.StereoPair, p Params) dsp.StereoPair {
	if p.Mix <= 0 {
		return in
	}
	sr := p.SampleRate
	if sr <= 0 {
		sr = 48000
	}
	pair := vowelAt(p.Vowel)
	amt := dsp.Clamp(p.Amount/4, 0, 1)

	l := s.leftF1.process(in.L, pair.F1, resonatorQ, sr) + s.leftF2.process(in.L, pair.F2, resonatorQ, sr)
	r := s.rightF1.process(in.R, pair.F1, resonatorQ, sr) + s.rightF2.process(in.R, pair.F2, resonatorQ, sr)

	wet := dsp.StereoPair{L: l * amt, R: r * amt}
	return dsp.ScrubStereo(in.Mix(wet, dsp.Clamp(p.Mix, 0, 1)))
}
