package modulation

import "github.com/zotley/pllsynth/internal/dsp"

const StepCount = 16

// StepSeqParams is the mod-sequencer's per-sample configuration.
type StepSeqParams struct {
	Steps       [StepCount]float64 // bipolar -1..1
	TieMask     uint16
	Division    float64 // divisions per bar, same convention as LFO sync
	TempoBPM    float64
	SlewMs      float64
	Dest        Destination
	Amount      float64
}

// StepSequencer advances a 16-step phase at the configured division/tempo
// rate and outputs either a tie-interpolated ramp or a one-pole slew
// toward the current step value.
type StepSequencer struct {
	phase      float64 // 0..16
	slew       dsp.OnePole
	sampleRate float64
}

func NewStepSequencer(sampleRate float64) *StepSequencer {
	return &StepSequencer{sampleRate: sampleRate}
}

func (s *StepSequencer) SetSampleRate(sr float64) { s.sampleRate = sr }

func (s *StepSequencer) Reset() {
	s.phase = 0
	s.slew.Reset(0)
}

// Step advances the sequencer by one sample and accumulates its routed
// output onto bus.
func (s *StepSequencer) Step(p StepSeqParams, bus *Bus) {
	fs := s.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	div := p.Division
	if div <= 0 {
		div = 16
	}
	stepsPerSecond := (p.TempoBPM / 60 / 4) * div
	s.phase += stepsPerSecond / fs
	for s.phase >= StepCount {
		s.phase -= StepCount
	}
	for s.phase < 0 {
		s.phase += StepCount
	}

	i := int(s.phase)
	frac := s.phase - float64(i)
	current := p.Steps[i%StepCount]

	var target float64
	if p.TieMask&(1<<uint(i%StepCount)) != 0 {
		next := p.Steps[(i+1)%StepCount]
		target = dsp.Lerp(current, next, frac)
		s.slew.Reset(target)
	} else {
		s.slew.SetTimeConstant(maxFloat(p.SlewMs, 0.001)/1000, fs)
		target = s.slew.Process(current)
	}

	bus.Add(p.Dest, target*dsp.Clamp(p.Amount, -1, 1))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
