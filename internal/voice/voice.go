// Package voice implements the monophonic voice (§4.9): the oversampled
// per-sample process loop that wires the parameter store and modulation
// fabric into the PLL, VPS, sub, formant, filter, reverb and colouration
// stages, plus glide/legato note handling.
package voice

import (
	"math"

	"github.com/zotley/pllsynth/internal/colour"
	"github.com/zotley/pllsynth/internal/dsp"
	"github.com/zotley/pllsynth/internal/envelope"
	"github.com/zotley/pllsynth/internal/filter/moog"
	"github.com/zotley/pllsynth/internal/formant"
	"github.com/zotley/pllsynth/internal/modulation"
	"github.com/zotley/pllsynth/internal/osc/pll"
	"github.com/zotley/pllsynth/internal/osc/vps"
	"github.com/zotley/pllsynth/internal/param"
	"github.com/zotley/pllsynth/internal/reverb/dattorro"
)

// NoteEvent is a resolved trigger or release, sample-accurate within a block.
type NoteEvent struct {
	SampleOffset int
	NoteNumber   int
	Velocity     int
	On           bool // true = note-on, false = note-off
}

func noteToFreq(note int) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// subOsc is the one-pole-filtered sub oscillator (§4.11): a simple bounded
// phase accumulator a fixed number of octaves below the current note, with
// no independent envelope of its own.
type subOsc struct {
	phase      float64
	smooth     dsp.OnePole
	sampleRate float64
}

func (s *subOsc) reset() { s.phase = 0 }

func (s *subOsc) step(freqHz float64, square bool, envValue float64) float64 {
	fs := s.sampleRate
	if fs <= 0 {
		fs = 48000
	}
	s.phase = dsp.Wrap01(s.phase + freqHz/fs)
	var raw float64
	if square {
		if s.phase < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
	} else {
		raw = dsp.FastSin(2 * math.Pi * s.phase)
	}
	s.smooth.SetTimeConstant(1/(2*math.Pi*4000), fs)
	return s.smooth.Process(raw) * envValue
}

// Voice holds every per-note DSP stage and the glide/legato state machine.
type Voice struct {
	sampleRate      float64
	oversampleRatio int

	pll     *pll.Oscillator
	vpsOsc  *vps.Oscillator
	sub     subOsc
	colour  *colour.Chain
	formant *formant.Section
	filter  *moog.Filter
	reverb  *dattorro.Reverb
	envA    *envelope.ADSR
	envB    *envelope.ADSR
	lfos    *modulation.Bank
	modSeq  *modulation.StepSequencer
	bus     modulation.Bus

	currentNote      int
	currentFreqHz    float64
	targetFreqHz     float64
	glideStepHz      float64
	glideSamplesLeft int
	gateOpen         bool

	tempoBPM float64
}

// New builds a voice at the given sample rate and oversampling ratio
// (1, 4, 8 or 16 per §4.9 step 3c). seed derives the colouration noise and
// LFO sample-and-hold RNGs deterministically (mirrors the sequencer's own
// per-bar seeding discipline).
func New(sampleRate float64, oversampleRatio int, seed int64) *Voice {
	v := &Voice{
		sampleRate:      sampleRate,
		oversampleRatio: oversampleRatio,
		pll:             pll.New(sampleRate * float64(oversampleRatio)),
		vpsOsc:          vps.New(sampleRate),
		colour:          colour.New(sampleRate, seed),
		formant:         formant.New(),
		filter:          moog.New(),
		reverb:          dattorro.New(sampleRate),
		envA:            envelope.New(sampleRate),
		envB:            envelope.New(sampleRate),
		lfos:            modulation.NewBank(sampleRate, seed),
		modSeq:          modulation.NewStepSequencer(sampleRate),
		tempoBPM:        120,
	}
	v.sub.sampleRate = sampleRate
	return v
}

// SetTempo updates the transport tempo used to resolve tempo-synced LFO
// and mod-sequencer divisions into Hz.
func (v *Voice) SetTempo(bpm float64) {
	if bpm > 0 {
		v.tempoBPM = bpm
	}
}

// SetSampleRate propagates a sample-rate change to every stage (§4.2's "if
// fs changes, all time constants are recomputed before the next sample").
func (v *Voice) SetSampleRate(sr float64) {
	v.sampleRate = sr
	v.pll.SetSampleRate(sr * float64(v.oversampleRatio))
	v.vpsOsc.SetSampleRate(sr)
	v.colour.SetSampleRate(sr)
	v.reverb.SetSampleRate(sr)
	v.envA.SetSampleRate(sr)
	v.envB.SetSampleRate(sr)
	v.lfos.SetSampleRate(sr)
	v.modSeq.SetSampleRate(sr)
	v.sub.sampleRate = sr
}

// SetOversampleRatio changes R (§4.9 step 3c: 1, 4, 8 or 16).
func (v *Voice) SetOversampleRatio(r int) {
	if r <= 0 {
		r = 1
	}
	v.oversampleRatio = r
	v.pll.SetSampleRate(v.sampleRate * float64(r))
}

// Trigger starts or glides into a note, per §4.9's glide/legato rule: if
// legato is enabled and a note is already sounding (gate open, envelope not
// idle), pitch glides linearly over glideTimeMs instead of retriggering.
func (v *Voice) Trigger(noteNumber, velocity int, legato bool, retrigger, glideTimeMs float64) {
	freq := noteToFreq(noteNumber)
	v.currentNote = noteNumber

	legatoActive := legato && v.gateOpen && v.envA.CurrentStage() != envelope.StageIdle
	if legatoActive {
		v.targetFreqHz = freq
		glideSamples := int(glideTimeMs / 1000 * v.sampleRate)
		if glideSamples < 1 {
			glideSamples = 1
		}
		v.glideSamplesLeft = glideSamples
		v.glideStepHz = (v.targetFreqHz - v.currentFreqHz) / float64(glideSamples)
	} else {
		v.currentFreqHz = freq
		v.targetFreqHz = freq
		v.glideSamplesLeft = 0
		v.glideStepHz = 0
		v.envA.Trigger(float64(velocity) / 127)
		v.envB.Trigger(float64(velocity) / 127)
		v.pll.Retrigger(pll.Params{Retrigger: retrigger})
		v.sub.reset()
	}
	v.gateOpen = true
}

// Release begins the release stage of both envelopes; the PLL and other
// stages keep running until the envelopes reach idle.
func (v *Voice) Release() {
	v.envA.Release()
	v.envB.Release()
	v.gateOpen = false
}

// Active reports whether the voice still has audible output (used by the
// engine to decide whether a synthetic note-off has fully drained).
func (v *Voice) Active() bool {
	return v.envA.CurrentStage() != envelope.StageIdle
}

func (v *Voice) advanceGlide() float64 {
	if v.glideSamplesLeft > 0 {
		v.currentFreqHz += v.glideStepHz
		v.glideSamplesLeft--
		if v.glideSamplesLeft == 0 {
			v.currentFreqHz = v.targetFreqHz
		}
	}
	return v.currentFreqHz
}

// Step renders one output sample at the engine's sample rate, reading
// smoothed parameters from store and composing the modulation sources
// (LFO bank + mod-sequencer) additively before applying them.
func (v *Voice) Step(store *param.Store) dsp.StereoPair {
	envAOut := v.envA.Step(envelope.Params{
		AttackMs:   store.Smoothed(param.EnvAAttack),
		DecayMs:    store.Smoothed(param.EnvADecay),
		SustainLvl: store.Smoothed(param.EnvASustain),
		ReleaseMs:  store.Smoothed(param.EnvARelease),
		Shape:      store.Smoothed(param.EnvAShape),
	})
	envBOut := v.envB.Step(envelope.Params{
		AttackMs:   store.Smoothed(param.EnvBAttack),
		DecayMs:    store.Smoothed(param.EnvBDecay),
		SustainLvl: store.Smoothed(param.EnvBSustain),
		ReleaseMs:  store.Smoothed(param.EnvBRelease),
		Shape:      store.Smoothed(param.EnvBShape),
	})

	v.bus.Reset()
	lfoParams := v.lfoParamsFromStore(store)
	v.lfos.Step(lfoParams, &v.bus)
	v.modSeq.Step(v.modSeqParamsFromStore(store), &v.bus)

	freq := v.advanceGlide()

	pllVol := dsp.Clamp(store.Smoothed(param.PLLRange)+v.bus.Value(modulation.DestPLLVol), 0, 1.5)
	vpsVol := dsp.Clamp(store.Smoothed(param.VPSVolume)+v.bus.Value(modulation.DestVPSVol), 0, 1.5)
	subVol := dsp.Clamp(store.Smoothed(param.SubVolume)+v.bus.Value(modulation.DestSubVol), 0, 1.5)

	pllSample := v.runOversampledPLL(store, freq, envAOut)
	vpsSample := v.vpsOsc.Step(vps.Params{
		Freq:          freq * store.Smoothed(param.VPSFreqRatio),
		D:             dsp.Clamp(store.Smoothed(param.VPSD)+v.bus.Value(modulation.DestVPSD), 0, 1),
		V:             dsp.Clamp(store.Smoothed(param.VPSV)+v.bus.Value(modulation.DestVPSV), 0.01, 0.99),
		StereoVOffset: store.Smoothed(param.VPSStereoVOffset),
		Fold:          dsp.Clamp(store.Smoothed(param.VPSFold)+v.bus.Value(modulation.DestFold), 0, 1),
	}).Scale(vpsVol)

	octaveShift := -1.0
	if store.Raw(param.SubOctave) <= -1.5 {
		octaveShift = -2
	}
	subFreq := freq * math.Pow(2, octaveShift)
	subSample := v.sub.step(subFreq, store.Raw(param.SubWaveform) < 0.5, envAOut) * subVol

	mixed := pllSample.Scale(pllVol).Add(vpsSample)

	coloured := v.applyColour(store, mixed, pllSample, envAOut)

	formantAmount := store.Smoothed(param.FormantAmount)
	formanted := v.formant.Process(coloured, formant.Params{
		Vowel:      formantAmount,
		Amount:     formantAmount,
		Mix:        store.Smoothed(param.FormantMix),
		SampleRate: v.sampleRate,
	})

	cutoffNorm := dsp.Clamp(store.Smoothed(param.FilterCutoff)+v.bus.Value(modulation.DestFilterCutoff)+0.3*envBOut, 0, 1)
	cutoffHz := moog.MinCutoffHz + cutoffNorm*(0.4*v.sampleRate-moog.MinCutoffHz)
	filterParams := moog.Params{
		CutoffHz:   cutoffHz,
		Resonance:  dsp.Clamp(store.Smoothed(param.FilterResonance)+v.bus.Value(modulation.DestFilterResonance), 0, moog.MaxResonance),
		Drive:      dsp.Clamp(store.Smoothed(param.FilterDrive)+v.bus.Value(modulation.DestFilterDrive), moog.MinDrive, moog.MaxDrive),
		SampleRate: v.sampleRate,
	}
	v.filter.SetTargetForBlock(filterParams, 1)
	filtered := v.filter.Process(formanted, filterParams)

	reverbed := v.reverb.Process(filtered, dattorro.Params{
		Mix:        dsp.Clamp(store.Smoothed(param.ReverbMix)+v.bus.Value(modulation.DestReverbMix), 0, 1),
		Decay:      dsp.Clamp(store.Smoothed(param.ReverbDecay)+v.bus.Value(modulation.DestReverbDecay), 0, 0.99),
		SampleRate: v.sampleRate,
	})

	master := store.Smoothed(param.MasterVolume)
	return dsp.ScrubStereo(reverbed.Add(dsp.StereoPair{L: subSample, R: subSample}).Scale(master))
}

// runOversampledPLL runs R internal PLL iterations and averages them down
// to one output sample (§4.9 step 3c's "average-and-polyphase downsample",
// simplified here to an averaging decimator since no true polyphase
// resampling filter is part of this spec's scope).
func (v *Voice) runOversampledPLL(store *param.Store, freq, envValue float64) dsp.StereoPair {
	driftInc := v.colour.DriftIncrement(colour.Params{
		DriftDepth: store.Smoothed(param.ColourDrift),
		DriftRate:  0.3,
	})
	osFs := v.sampleRate * float64(v.oversampleRatio)
	effectiveRefFreq := freq + driftInc*osFs

	p := pll.Params{
		RefFreq:         effectiveRefFreq,
		Multiplier:      math.Round(store.Smoothed(param.PLLMultiplierDiscrete)) * store.Smoothed(param.PLLMultiplierContinuous),
		PDMode:          pll.PDMode(int(store.Raw(param.PLLPDMode))),
		TrackSpeed:      store.Smoothed(param.PLLTrackSpeed),
		Damping:         dsp.Clamp(store.Smoothed(param.PLLDamping)+v.bus.Value(modulation.DestPLLDamping), 0, 1),
		Influence:       dsp.Clamp(store.Smoothed(param.PLLInfluence)+v.bus.Value(modulation.DestPLLInfluence), 0, 1),
		LoopSaturation:  store.Smoothed(param.PLLLoopSaturation),
		BurstThreshold:  store.Smoothed(param.PLLBurstThreshold),
		BurstAmount:     store.Smoothed(param.PLLBurstAmount),
		FMRatio:         store.Smoothed(param.PLLFMRatio),
		FMAmount:        dsp.Clamp(store.Smoothed(param.PLLFMAmount)+v.bus.Value(modulation.DestPLLFMAmount), 0, 1),
		FMEnvAmount:     dsp.Clamp(store.Smoothed(param.PLLFMEnvAmount)+v.bus.Value(modulation.DestPLLFMEnvAmount), 0, 1),
		EnvValue:        envValue,
		PulseWidth:      dsp.Clamp(0.5+v.bus.Value(modulation.DestPLLPulseWidth), 0.01, 0.99),
		Colored:         store.Raw(param.PLLColoured) > 0.5,
		CrossFeedback:   dsp.Clamp(store.Smoothed(param.PLLCrossFeedback)+v.bus.Value(modulation.DestPLLCrossFeedback), 0, 1),
		StereoPhaseOffs: dsp.Clamp(store.Smoothed(param.PLLStereoPhaseOffset)+v.bus.Value(modulation.DestPLLStereoPhase), 0, 1),
		Retrigger:       store.Smoothed(param.PLLRetrigger),
	}

	var sum dsp.StereoPair
	n := v.oversampleRatio
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		sum = sum.Add(v.pll.Step(p))
	}
	return sum.Scale(1 / float64(n))
}

func (v *Voice) applyColour(store *param.Store, mixed, pllSample dsp.StereoPair, envValue float64) dsp.StereoPair {
	cp := colour.Params{
		RingAmount: dsp.Clamp(store.Smoothed(param.ColourRing)+v.bus.Value(modulation.DestRing), 0, 1),
		FoldAmt:    dsp.Clamp(store.Smoothed(param.ColourFold)+v.bus.Value(modulation.DestFold), 0, 1),
		NoiseAmt:   dsp.Clamp(store.Smoothed(param.ColourNoise)+v.bus.Value(modulation.DestNoise), 0, 1),
		Tube:       dsp.Clamp(store.Smoothed(param.ColourTube)+v.bus.Value(modulation.DestTube), 0, 1),
		Distortion: dsp.Clamp(store.Smoothed(param.ColourDistortion), 0, 1),
		EnvGate:    envValue,
	}
	l := v.colour.Process(mixed.L, pllSample.L, cp)
	r := v.colour.Process(mixed.R, pllSample.R, cp)
	return dsp.StereoPair{L: l, R: r}
}

func (v *Voice) lfoParamsFromStore(store *param.Store) [3]modulation.LFOParams {
	bases := [3]param.ID{param.LFO1Rate, param.LFO2Rate, param.LFO3Rate}
	var out [3]modulation.LFOParams
	for i, base := range bases {
		sync := store.Raw(base+2) > 0.5
		div := 0.0
		if sync {
			div = divisionCount(int(store.Raw(base + 3)))
		}
		out[i] = modulation.LFOParams{
			Waveform:       modulation.Waveform(int(store.Raw(base + 1))),
			RateHz:         store.Smoothed(base),
			SyncDivision:   div,
			TempoBPM:       v.tempoBPM,
			PhaseModSource: phaseModSourceIndex(i, int(store.Raw(base+4))),
			PhaseModAmount: store.Smoothed(base + 5),
			Dest1:          modulation.Destination(int(store.Raw(base + 6))),
			Amt1:           store.Smoothed(base + 7),
			Dest2:          modulation.Destination(int(store.Raw(base + 8))),
			Amt2:           store.Smoothed(base + 9),
		}
	}
	return out
}

// phaseModSourceIndex maps the stored 0=none/1-3=other-LFO encoding to the
// Bank's 0-based index-or-negative convention, excluding self-modulation.
func phaseModSourceIndex(self, stored int) int {
	if stored <= 0 {
		return -1
	}
	idx := stored - 1
	if idx == self {
		return -1
	}
	return idx
}

func divisionCount(index int) float64 {
	all := param.AllDivisions()
	if index < 0 || index >= len(all) {
		return 4
	}
	return float64(all[index].Count)
}

func (v *Voice) modSeqParamsFromStore(store *param.Store) modulation.StepSeqParams {
	var p modulation.StepSeqParams
	for i := 0; i < modulation.StepCount; i++ {
		p.Steps[i] = store.Smoothed(param.ModSeqStepID(i))
	}
	p.TieMask = uint16(store.Raw(param.ModSeqTieMask))
	p.Division = divisionCount(int(store.Raw(param.ModSeqDivision)))
	p.TempoBPM = v.tempoBPM
	p.SlewMs = store.Smoothed(param.ModSeqSlewTime)
	p.Dest = modulation.Destination(int(store.Raw(param.ModSeqDest)))
	p.Amount = store.Smoothed(param.ModSeqAmount)
	return p
}
