package param

// ID identifies one of the ~250 live parameters (spec.md §6).
type ID uint16

// Kind distinguishes parameters that need per-sample smoothing (Continuous)
// from ones that must change instantaneously (Stepped, Bool).
type Kind uint8

const (
	Continuous Kind = iota
	Stepped
	Bool
)

// Fixed synth/modulation/humaniser parameter IDs. Beat-probability IDs
// (152 of them, one per (division,index) pair) are appended after
// beatGridBase by initDescriptors in descriptors.go, keeping this list to
// the non-enumerable groups named in spec.md §6.
const (
	// PLL
	PLLReferenceFreq ID = iota
	PLLMultiplierDiscrete
	PLLMultiplierContinuous
	PLLDamping
	PLLTrackSpeed
	PLLInfluence
	PLLLoopSaturation
	PLLBurstThreshold
	PLLBurstAmount
	PLLPDMode // AnalogLikePD=0, EdgePFD=1 (stepped)
	PLLEdgeSensitivity
	PLLFMRatio
	PLLFMAmount
	PLLFMEnvAmount
	PLLColoured // bool
	PLLCrossFeedback
	PLLStereoPhaseOffset
	PLLRetrigger
	PLLRange

	// VPS
	VPSFreqRatio
	VPSD
	VPSV
	VPSStereoVOffset
	VPSFold
	VPSVolume

	// Sub oscillator (§4.11, supplemented)
	SubOctave // stepped: -1 or -2
	SubVolume
	SubWaveform // stepped: square/sine

	// Moog ladder filter
	FilterCutoff
	FilterResonance
	FilterDrive

	// Formant (§4.12, supplemented)
	FormantAmount
	FormantMix

	// Colouration chain
	ColourRing
	ColourFold
	ColourDrift
	ColourNoise
	ColourTube
	ColourDistortion
	ColourDistortionGain

	// Envelope A / B (two ADSRs, §4.7)
	EnvAAttack
	EnvADecay
	EnvASustain
	EnvARelease
	EnvAShape
	EnvBAttack
	EnvBDecay
	EnvBSustain
	EnvBRelease
	EnvBShape

	// Reverb (Dattorro)
	ReverbPreDelay
	ReverbMix
	ReverbDecay
	ReverbToneLP
	ReverbToneHP

	// Master
	MasterVolume
	MasterGlideTime
	MasterLegato

	// LFO 1-3 (rate, waveform, sync, division, source, phase_mod, dest1, amt1, dest2, amt2)
	LFO1Rate
	LFO1Waveform
	LFO1SyncEnabled
	LFO1Division
	LFO1PhaseModSource
	LFO1PhaseModAmount
	LFO1Dest1
	LFO1Amt1
	LFO1Dest2
	LFO1Amt2
	LFO2Rate
	LFO2Waveform
	LFO2SyncEnabled
	LFO2Division
	LFO2PhaseModSource
	LFO2PhaseModAmount
	LFO2Dest1
	LFO2Amt1
	LFO2Dest2
	LFO2Amt2
	LFO3Rate
	LFO3Waveform
	LFO3SyncEnabled
	LFO3Division
	LFO3PhaseModSource
	LFO3PhaseModAmount
	LFO3Dest1
	LFO3Amt1
	LFO3Dest2
	LFO3Amt2

	// Mod-step-sequencer (16 steps, tie mask, division, slew) — steps
	// themselves are ModSeqStep0..15, contiguous.
	ModSeqStep0
	// 15 more steps follow contiguously; see modSeqStepID below.
	modSeqStepsEnd = ModSeqStep0 + 15
	ModSeqTieMask  ID = iota + 14 // = modSeqStepsEnd + 1 (iota is ModSeqStep0+2 here); later IDs count on from it
	ModSeqDivision
	ModSeqSlewTime
	ModSeqDest   // supplemented: routes the sequencer's combined output, same Destination encoding as an LFO's dest slot
	ModSeqAmount // supplemented: -1..1 depth applied to the routed destination

	// Humaniser: two length modifiers, velocity modifier, position modifier
	Human1Target
	Human1Amount
	Human1Probability
	Human2Target
	Human2Amount
	Human2Probability
	HumanVelocityTarget
	HumanVelocityAmount
	HumanVelocityProbability
	HumanPositionTarget
	HumanPositionAmount
	HumanPositionProbability

	// Octave randomiser
	OctaveRandChance
	OctaveRandDirection // 0=both,1=up,2=down
	OctaveRandStrengthPref
	OctaveRandLengthPref

	// Swing
	Swing

	// Oversampling ratio: 1, 4, 8, 16 (stepped)
	OversampleRatio

	beatGridBase // marker: beat-probability IDs start immediately after this
)

// modSeqStepID returns the ID for mod-sequencer step i (0-15).
func modSeqStepID(i int) ID { return ModSeqStep0 + ID(i) }

// ModSeqStepID is the exported form of modSeqStepID, for consumers
// (internal/voice) building a per-sample StepSeqParams snapshot.
func ModSeqStepID(i int) ID { return modSeqStepID(i) }

// Direction values for OctaveRandDirection (§9 Open Question 2, resolved in DESIGN.md).
const (
	DirectionBoth = 0
	DirectionUp   = 1
	DirectionDown = 2
)

// PLL PD mode values.
const (
	PDModeAnalogLike = 0
	PDModeEdgePFD    = 1
)
