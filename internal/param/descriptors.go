package param

// initDescriptors declares range/default/smoothing for every fixed
// parameter ID plus the 152 beat-probability slots, per spec.md §6's
// groups. Units: linear unless noted; "ms" ranges are declared directly in
// milliseconds and converted by consumers.
func (s *Store) initDescriptors() {
	c := s.describe // continuous shorthand
	cs := func(id ID, lo, hi, def float64) { c(id, Continuous, lo, hi, def, defaultSmoothSeconds) }
	stepped := func(id ID, lo, hi, def float64) { s.describe(id, Stepped, lo, hi, def, 0) }
	boolean := func(id ID, def float64) { s.describe(id, Bool, 0, 1, def, 0) }

	// PLL
	cs(PLLReferenceFreq, 20, 4000, 220)
	stepped(PLLMultiplierDiscrete, 1, 16, 1)
	cs(PLLMultiplierContinuous, 0.25, 16, 1)
	cs(PLLDamping, 0, 1, 0.5)
	cs(PLLTrackSpeed, 0, 1, 0.5)
	cs(PLLInfluence, 0, 1, 0.5)
	cs(PLLLoopSaturation, 0.01, 10, 2)
	cs(PLLBurstThreshold, 0, 1, 0.8)
	cs(PLLBurstAmount, 0, 1, 0.2)
	stepped(PLLPDMode, 0, 1, PDModeAnalogLike)
	cs(PLLEdgeSensitivity, 0, 1, 0.5)
	cs(PLLFMRatio, 0.0625, 16, 1)
	cs(PLLFMAmount, 0, 1, 0)
	cs(PLLFMEnvAmount, 0, 1, 0)
	boolean(PLLColoured, 0)
	cs(PLLCrossFeedback, 0, 1, 0)
	cs(PLLStereoPhaseOffset, 0, 1, 0)
	cs(PLLRetrigger, 0, 1, 0)
	cs(PLLRange, 0, 1, 1)

	// VPS
	cs(VPSFreqRatio, 0.25, 8, 1)
	cs(VPSD, 0, 1, 0.5)
	cs(VPSV, 0.01, 0.99, 0.5)
	cs(VPSStereoVOffset, -0.2, 0.2, 0)
	cs(VPSFold, 0, 1, 0)
	cs(VPSVolume, 0, 1, 0.7)

	// Sub
	stepped(SubOctave, -2, -1, -1)
	cs(SubVolume, 0, 1, 0.3)
	stepped(SubWaveform, 0, 1, 0)

	// Filter — cutoff stored normalised 0-1 of 20Hz..0.4*fs (consumer maps the range)
	cs(FilterCutoff, 0, 1, 0.6)
	cs(FilterResonance, 0, 0.98, 0.1)
	cs(FilterDrive, 1, 15, 1)

	// Formant
	cs(FormantAmount, 0, 4, 0)
	cs(FormantMix, 0, 1, 0)

	// Colouration
	cs(ColourRing, 0, 1, 0)
	cs(ColourFold, 0, 1, 0)
	cs(ColourDrift, 0, 1, 0)
	cs(ColourNoise, 0, 1, 0)
	cs(ColourTube, 0, 1, 0)
	cs(ColourDistortion, 0, 1, 0)
	cs(ColourDistortionGain, 1, 50, 1)

	// Envelopes
	cs(EnvAAttack, 1, 5000, 5)
	cs(EnvADecay, 1, 5000, 100)
	cs(EnvASustain, 0, 1, 0.8)
	cs(EnvARelease, 1, 5000, 200)
	cs(EnvAShape, -5, 5, 0)
	cs(EnvBAttack, 1, 5000, 5)
	cs(EnvBDecay, 1, 5000, 100)
	cs(EnvBSustain, 0, 1, 0.8)
	cs(EnvBRelease, 1, 5000, 200)
	cs(EnvBShape, -5, 5, 0)

	// Reverb — smoothed over 50ms per spec.md §4.5
	s.describe(ReverbPreDelay, Continuous, 0, 100, 8, 0.05)
	s.describe(ReverbMix, Continuous, 0, 1, 0.2, 0.05)
	s.describe(ReverbDecay, Continuous, 0.1, 0.99, 0.5, 0.05)
	cs(ReverbToneLP, 0, 1, 0.8)
	cs(ReverbToneHP, 0, 1, 0.1)

	// Master — 20ms smoothing for volume per spec.md §4.10
	s.describe(MasterVolume, Continuous, 0, 1.5, 0.8, 0.02)
	cs(MasterGlideTime, 0, 2000, 0)
	boolean(MasterLegato, 0)

	for i, base := range []ID{LFO1Rate, LFO2Rate, LFO3Rate} {
		_ = i
		cs(base+0, 0.01, 50, 1) // Rate
		stepped(base+1, 0, 4, 0) // Waveform
		boolean(base+2, 0)       // SyncEnabled
		stepped(base+3, 0, 14, 0) // Division (index into all 15 divisions)
		stepped(base+4, 0, 3, 0)  // PhaseModSource (0=none,1-3=other LFO)
		cs(base+5, 0, 1, 0)       // PhaseModAmount
		stepped(base+6, 0, 28, 0) // Dest1 (destination enum)
		cs(base+7, -1, 1, 0)      // Amt1
		stepped(base+8, 0, 28, 0) // Dest2
		cs(base+9, -1, 1, 0)      // Amt2
	}

	for i := 0; i < 16; i++ {
		cs(modSeqStepID(i), -1, 1, 0)
	}
	stepped(ModSeqTieMask, 0, 65535, 0)
	stepped(ModSeqDivision, 0, 14, 3)
	cs(ModSeqSlewTime, 0, 200, 10)
	stepped(ModSeqDest, 0, 28, 0) // supplemented: destination enum, same range as an LFO's Dest1/Dest2
	cs(ModSeqAmount, -1, 1, 0)    // supplemented: depth, same range as an LFO's Amt1/Amt2

	cs(Human1Target, -100, 100, 0)
	cs(Human1Amount, 0, 100, 0)
	cs(Human1Probability, 0, 127, 0)
	cs(Human2Target, -100, 100, 0)
	cs(Human2Amount, 0, 100, 0)
	cs(Human2Probability, 0, 127, 0)
	cs(HumanVelocityTarget, -100, 100, 0)
	cs(HumanVelocityAmount, 0, 100, 0)
	cs(HumanVelocityProbability, 0, 127, 0)
	cs(HumanPositionTarget, -100, 100, 0)
	cs(HumanPositionAmount, 0, 100, 0)
	cs(HumanPositionProbability, 0, 127, 0)

	stepped(OctaveRandChance, 0, 127, 0)
	stepped(OctaveRandDirection, 0, 2, DirectionBoth)
	stepped(OctaveRandStrengthPref, 0, 127, 64)
	stepped(OctaveRandLengthPref, 0, 127, 64)

	cs(Swing, 0.5, 0.75, 0.5)

	stepped(OversampleRatio, 1, 16, 4)

	// Beat probabilities: 152 entries, default 0, stepped 0-127 per spec.
	for i, ref := range AllBeats() {
		_ = ref
		stepped(beatGridBase+ID(i), 0, 127, 0)
	}
}
