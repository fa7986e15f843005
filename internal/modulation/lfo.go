package modulation

import (
	"math"
	"math/rand"

	"github.com/zotley/pllsynth/internal/dsp"
)

// Waveform selects an LFO's shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
	WaveSampleHold
)

// LFOParams is one LFO's per-sample configuration.
type LFOParams struct {
	Waveform    Waveform
	RateHz      float64 // used when SyncDivision <= 0
	SyncDivision float64 // tempo-synced divisions per bar, 0 = free-running
	TempoBPM    float64
	PhaseModSource int // index of another LFO in the bank, -1 = none
	PhaseModAmount float64

	Dest1 Destination
	Amt1  float64 // bipolar -1..1
	Dest2 Destination
	Amt2  float64
}

// LFO is a single oscillator with a free-running or tempo-synced rate.
type LFO struct {
	phase      float64
	heldValue  float64
	rng        *rand.Rand
	sampleRate float64
}

func newLFO(sampleRate float64, seed int64) *LFO {
	return &LFO{rng: rand.New(rand.NewSource(seed)), sampleRate: sampleRate}
}

func (l *LFO) setSampleRate(sr float64) { l.sampleRate = sr }

func waveformValue(w Waveform, phase float64, rng *rand.Rand, heldValue *float64, wrapped bool) float64 {
	switch w {
	case WaveTriangle:
		return 4*math.Abs(phase-0.5) - 1
	case WaveSaw:
		return 2*phase - 1
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSampleHold:
		if wrapped {
			*heldValue = rng.Float64()*2 - 1
		}
		return *heldValue
	default: // WaveSine
		return dsp.FastSin(2 * math.Pi * phase)
	}
}

func (l *LFO) step(p LFOParams, phaseModIn float64) float64 {
	fs := l.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	rate := p.RateHz
	if p.SyncDivision > 0 && p.TempoBPM > 0 {
		barsPerSecond := p.TempoBPM / 60 / 4
		rate = barsPerSecond * p.SyncDivision
	}
	inc := rate / fs
	l.phase += inc + p.PhaseModAmount*phaseModIn/fs
	wrapped := l.phase >= 1 || l.phase < 0
	l.phase = dsp.Wrap01(l.phase)
	return waveformValue(p.Waveform, l.phase, l.rng, &l.heldValue, wrapped)
}

// Value returns the LFO's last computed output without advancing it
// (used as a phase-modulation source for another LFO in the same step).
func (l *LFO) Value(p LFOParams) float64 {
	return waveformValue(p.Waveform, l.phase, l.rng, &l.heldValue, false)
}

// Bank holds the three LFOs and drives them into a shared modulation Bus.
type Bank struct {
	lfos [3]*LFO
}

// NewBank creates a bank of 3 LFOs, each seeded independently but
// deterministically from the caller-supplied base seed.
func NewBank(sampleRate float64, seed int64) *Bank {
	salts := [3]uint64{0x9E3779B97F4A7C15, 0xC2B2AE3D27D4EB4F, 0x165667B19E3779F9}
	return &Bank{lfos: [3]*LFO{
		newLFO(sampleRate, seed^int64(salts[0])),
		newLFO(sampleRate, seed^int64(salts[1])),
		newLFO(sampleRate, seed^int64(salts[2])),
	}}
}

func (b *Bank) SetSampleRate(sr float64) {
	for _, l := range b.lfos {
		l.setSampleRate(sr)
	}
}

// Step advances all three LFOs by one sample and accumulates their routed
// output onto bus. Phase-modulation sources read the *previous* sample's
// value so the composition order across LFO1/2/3 stays commutative (P5).
func (b *Bank) Step(params [3]LFOParams, bus *Bus) {
	prevValues := [3]float64{
		b.lfos[0].Value(params[0]),
		b.lfos[1].Value(params[1]),
		b.lfos[2].Value(params[2]),
	}
	var outputs [3]float64
	for i := 0; i < 3; i++ {
		pmIn := 0.0
		src := params[i].PhaseModSource
		if src >= 0 && src < 3 && src != i {
			pmIn = prevValues[src]
		}
		outputs[i] = b.lfos[i].step(params[i], pmIn)
	}
	for i := 0; i < 3; i++ {
		bus.Add(params[i].Dest1, outputs[i]*dsp.Clamp(params[i].Amt1, -1, 1))
		bus.Add(params[i].Dest2, outputs[i]*dsp.Clamp(params[i].Amt2, -1, 1))
	}
}

// Reset returns every LFO's phase to 0.
func (b *Bank) Reset() {
	for _, l := range b.lfos {
		l.phase = 0
		l.heldValue = 0
	}
}
