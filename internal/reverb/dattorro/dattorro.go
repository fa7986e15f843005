// Package dattorro implements the six-element Dattorro plate reverb
// topology (§4.5): pre-delay, input tone shaping, four allpass input
// diffusers (unmodulated), two cross-coupled decay tanks (each with a
// modulated allpass), and an output tap matrix. Delay-line lengths are given
// at a 48kHz reference and scaled to the running sample rate when the
// buffers are built; a sample-rate change rebuilds the buffers at the new
// lengths rather than resampling fixed 48kHz buffers.
package dattorro

import (
	"math"

	"github.com/zotley/pllsynth/internal/dsp"
)

const referenceSampleRate = 48000.0

// Reference-rate (48kHz) lengths for every line in the topology.
const (
	preDelayLen   = 384 // 8ms @ 48kHz
	inputDiff1Len = 142
	inputDiff2Len = 107
	inputDiff3Len = 379
	inputDiff4Len = 277
	tankDelay1Len = 672
	tankDelay2Len = 4453
	tankDelay3Len = 1800
	tankDelay4Len = 3720
)

// circularBuffer is a delay line whose length is its 48kHz reference length
// scaled to the sample rate it was built for; readAt interpolates linearly
// between neighbouring taps for fractional offsets.
type circularBuffer struct {
	buf []float64
	pos int
}

func newCircularBuffer(refLen int, sampleRate float64) *circularBuffer {
	n := int(float64(refLen) * sampleRate / referenceSampleRate)
	if n < 1 {
		n = 1
	}
	return &circularBuffer{buf: make([]float64, n)}
}

func (c *circularBuffer) write(x float64) {
	c.buf[c.pos] = x
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
}

// readAt performs a linearly-interpolated fractional-delay read: offset may
// be non-integer, in which case the result is a lerp between the two
// neighbouring integer taps (the modulated allpass diffusers sweep offset
// continuously and rely on this to avoid zipper noise).
func (c *circularBuffer) readAt(offset float64) float64 {
	n := len(c.buf)
	whole := math.Floor(offset)
	frac := offset - whole

	i0 := c.pos - int(whole)
	for i0 < 0 {
		i0 += n
	}
	i0 %= n

	i1 := i0 - 1
	if i1 < 0 {
		i1 += n
	}
	return c.buf[i0]*(1-frac) + c.buf[i1]*frac
}

func (c *circularBuffer) read() float64 { return c.readAt(1) }

// allpass is a one-stage modulated allpass diffuser.
type allpass struct {
	buf     *circularBuffer
	coeff   float64
	modPhase float64
	modRate  float64
	modDepth int
}

func newAllpass(refLen int, sampleRate, coeff, modRateHz float64, modDepth int) *allpass {
	return &allpass{buf: newCircularBuffer(refLen, sampleRate), coeff: coeff, modRate: modRateHz, modDepth: modDepth}
}

func (a *allpass) process(x float64, sampleRate float64) float64 {
	offset := 1.0
	if a.modDepth > 0 {
		a.modPhase += a.modRate / sampleRate
		a.modPhase = dsp.Wrap01(a.modPhase)
		offset = 1 + float64(a.modDepth)*(0.5+0.5*dsp.FastSin(2*math.Pi*a.modPhase))
	}
	delayed := a.buf.readAt(offset)
	v := x + a.coeff*delayed
	out := delayed - a.coeff*v
	a.buf.write(v)
	return out
}

// Params are smoothed externally (50ms, per §4.5) and passed in each block.
type Params struct {
	Mix        float64 // 0..1 dry/wet
	Decay      float64 // 0..1
	SampleRate float64
}

// Reverb holds every delay line and the two cross-coupled decay tanks.
type Reverb struct {
	sampleRate float64

	preDelay *circularBuffer
	toneLP   dsp.OnePole
	toneHP   dsp.OnePole

	inDiff1, inDiff2, inDiff3, inDiff4 *allpass

	tankA1 *allpass
	tankADelay1 *circularBuffer
	tankDamp1   dsp.OnePole
	tankA2 *allpass
	tankADelay2 *circularBuffer

	tankB1 *allpass
	tankBDelay1 *circularBuffer
	tankDamp2   dsp.OnePole
	tankB2 *allpass
	tankBDelay2 *circularBuffer

	tankFeedA, tankFeedB float64
}

// New builds a reverb sized for sampleRate.
func New(sampleRate float64) *Reverb {
	r := &Reverb{sampleRate: sampleRate}
	r.build(sampleRate)
	return r
}

func (r *Reverb) build(sampleRate float64) {
	r.sampleRate = sampleRate
	r.preDelay = newCircularBuffer(preDelayLen, sampleRate)
	r.inDiff1 = newAllpass(inputDiff1Len, sampleRate, 0.75, 0, 0)
	r.inDiff2 = newAllpass(inputDiff2Len, sampleRate, 0.75, 0, 0)
	r.inDiff3 = newAllpass(inputDiff3Len, sampleRate, 0.625, 0, 0)
	r.inDiff4 = newAllpass(inputDiff4Len, sampleRate, 0.625, 0, 0)

	r.tankA1 = newAllpass(tankDelay1Len/3, sampleRate, 0.7, 0.5, 8)
	r.tankADelay1 = newCircularBuffer(tankDelay1Len, sampleRate)
	r.tankA2 = newAllpass(tankDelay3Len/3, sampleRate, 0.7, 0, 0)
	r.tankADelay2 = newCircularBuffer(tankDelay3Len, sampleRate)

	r.tankB1 = newAllpass(tankDelay2Len/3, sampleRate, 0.7, 0.3, 8)
	r.tankBDelay1 = newCircularBuffer(tankDelay2Len, sampleRate)
	r.tankB2 = newAllpass(tankDelay4Len/3, sampleRate, 0.7, 0, 0)
	r.tankBDelay2 = newCircularBuffer(tankDelay4Len, sampleRate)
}

// SetSampleRate rebuilds every delay line's length (recomputed before the
// next sample, per §7).
func (r *Reverb) SetSampleRate(sampleRate float64) {
	if sampleRate == r.sampleRate {
		return
	}
	r.build(sampleRate)
}

// Process runs one mono-summed input sample through the plate topology and
// returns a stereo wet/dry mixed pair.
func (r *Reverb) Process(in dsp.StereoPair, p Params) dsp.StereoPair {
	fs := p.SampleRate
	if fs <= 0 {
		fs = r.sampleRate
	}

	mono := 0.5 * (in.L + in.R)

	r.toneLP.SetTimeConstant(1.0/6000, fs)
	lp := r.toneLP.Process(mono)
	r.toneHP.SetTimeConstant(1.0/50, fs)
	hp := lp - r.toneHP.Process(lp)
	toned := hp

	r.preDelay.write(toned)
	predelayed := r.preDelay.read()

	d := predelayed
	d = r.inDiff1.process(d, fs)
	d = r.inDiff2.process(d, fs)
	d = r.inDiff3.process(d, fs)
	d = r.inDiff4.process(d, fs)

	decay := dsp.Clamp(p.Decay, 0, 0.99)
	r.tankDamp1.SetTimeConstant(1.0/3000, fs)
	r.tankDamp2.SetTimeConstant(1.0/3000, fs)

	inA := d + decay*r.tankFeedB
	a := r.tankA1.process(inA, fs)
	r.tankADelay1.write(a)
	a = r.tankDamp1.Process(r.tankADelay1.read())
	a = r.tankA2.process(a*decay, fs)
	r.tankADelay2.write(a)
	tankAOut := r.tankADelay2.read()

	inB := d + decay*r.tankFeedA
	b := r.tankB1.process(inB, fs)
	r.tankBDelay1.write(b)
	b = r.tankDamp2.Process(r.tankBDelay1.read())
	b = r.tankB2.process(b*decay, fs)
	r.tankBDelay2.write(b)
	tankBOut := r.tankBDelay2.read()

	r.tankFeedA = tankAOut
	r.tankFeedB = tankBOut

	// Output tap matrix: combine taps from both tanks with opposite sign
	// bias per channel for stereo width.
	wetL := tankAOut + 0.6*r.tankADelay1.read() - 0.5*tankBOut
	wetR := tankBOut + 0.6*r.tankBDelay1.read() - 0.5*tankAOut

	mix := dsp.Clamp(p.Mix, 0, 1)
	return dsp.ScrubStereo(dsp.StereoPair{
		L: dsp.Lerp(in.L, wetL, mix),
		R: dsp.Lerp(in.R, wetR, mix),
	})
}

// Reset clears all delay-line contents and tank feedback state.
func (r *Reverb) Reset() {
	r.build(r.sampleRate)
	r.tankFeedA, r.tankFeedB = 0, 0
}
