// Package preset implements snapshot capture/apply for the full editable
// surface (parameter scalars, note pool, strength grid) plus a YAML codec
// for the demo host's load/save commands (§6 Persistence collaborator
// contract; the in-memory Snapshot type is the core's only concern, the
// YAML format lives entirely in this package).
package preset

import (
	"github.com/zotley/pllsynth/internal/param"
	"github.com/zotley/pllsynth/internal/sequencer"
)

// Snapshot is the complete editable state of one preset: every live
// parameter scalar, the note pool, and the strength grid. Mod-sequencer
// steps, the tie mask, and octave-randomiser settings are already plain
// parameter scalars (see internal/param) and need no separate fields here.
type Snapshot struct {
	Name       string             `yaml:"name"`
	Parameters map[string]float64 `yaml:"parameters"`
	NotePool   []sequencer.NoteEntry `yaml:"note_pool"`
	RootNote   int                `yaml:"root_note"`
	Strength   [sequencer.StrengthGridSize]float64 `yaml:"strength_grid"`
}

// paramNames gives every parameter ID a stable YAML key, independent of the
// underlying iota ordering, so presets stay readable and round-trip
// correctly even if new parameters are appended later (R1: capture, apply
// yields the original snapshot for every fixed/continuous/stepped field).
var paramNames = buildParamNames()

func buildParamNames() map[param.ID]string {
	names := map[param.ID]string{
		param.PLLReferenceFreq: "pll_reference_freq", param.PLLMultiplierDiscrete: "pll_multiplier_discrete",
		param.PLLMultiplierContinuous: "pll_multiplier_continuous", param.PLLDamping: "pll_damping",
		param.PLLTrackSpeed: "pll_track_speed", param.PLLInfluence: "pll_influence",
		param.PLLLoopSaturation: "pll_loop_saturation", param.PLLBurstThreshold: "pll_burst_threshold",
		param.PLLBurstAmount: "pll_burst_amount", param.PLLPDMode: "pll_pd_mode",
		param.PLLEdgeSensitivity: "pll_edge_sensitivity", param.PLLFMRatio: "pll_fm_ratio",
		param.PLLFMAmount: "pll_fm_amount", param.PLLFMEnvAmount: "pll_fm_env_amount",
		param.PLLColoured: "pll_coloured", param.PLLCrossFeedback: "pll_cross_feedback",
		param.PLLStereoPhaseOffset: "pll_stereo_phase_offset", param.PLLRetrigger: "pll_retrigger",
		param.PLLRange: "pll_range",
		param.VPSFreqRatio: "vps_freq_ratio", param.VPSD: "vps_d", param.VPSV: "vps_v",
		param.VPSStereoVOffset: "vps_stereo_v_offset", param.VPSFold: "vps_fold", param.VPSVolume: "vps_volume",
		param.SubOctave: "sub_octave", param.SubVolume: "sub_volume", param.SubWaveform: "sub_waveform",
		param.FilterCutoff: "filter_cutoff", param.FilterResonance: "filter_resonance", param.FilterDrive: "filter_drive",
		param.FormantAmount: "formant_amount", param.FormantMix: "formant_mix",
		param.ColourRing: "colour_ring", param.ColourFold: "colour_fold", param.ColourDrift: "colour_drift",
		param.ColourNoise: "colour_noise", param.ColourTube: "colour_tube",
		param.ColourDistortion: "colour_distortion", param.ColourDistortionGain: "colour_distortion_gain",
		param.EnvAAttack: "env_a_attack", param.EnvADecay: "env_a_decay", param.EnvASustain: "env_a_sustain",
		param.EnvARelease: "env_a_release", param.EnvAShape: "env_a_shape",
		param.EnvBAttack: "env_b_attack", param.EnvBDecay: "env_b_decay", param.EnvBSustain: "env_b_sustain",
		param.EnvBRelease: "env_b_release", param.EnvBShape: "env_b_shape",
		param.ReverbPreDelay: "reverb_pre_delay", param.ReverbMix: "reverb_mix", param.ReverbDecay: "reverb_decay",
		param.ReverbToneLP: "reverb_tone_lp", param.ReverbToneHP: "reverb_tone_hp",
		param.MasterVolume: "master_volume", param.MasterGlideTime: "master_glide_time", param.MasterLegato: "master_legato",
		param.ModSeqTieMask: "mod_seq_tie_mask", param.ModSeqDivision: "mod_seq_division", param.ModSeqSlewTime: "mod_seq_slew_time",
		param.ModSeqDest: "mod_seq_dest", param.ModSeqAmount: "mod_seq_amount",
		param.Human1Target: "human1_target", param.Human1Amount: "human1_amount", param.Human1Probability: "human1_probability",
		param.Human2Target: "human2_target", param.Human2Amount: "human2_amount", param.Human2Probability: "human2_probability",
		param.HumanVelocityTarget: "human_velocity_target", param.HumanVelocityAmount: "human_velocity_amount",
		param.HumanVelocityProbability: "human_velocity_probability",
		param.HumanPositionTarget: "human_position_target", param.HumanPositionAmount: "human_position_amount",
		param.HumanPositionProbability: "human_position_probability",
		param.OctaveRandChance: "octave_rand_chance", param.OctaveRandDirection: "octave_rand_direction",
		param.OctaveRandStrengthPref: "octave_rand_strength_pref", param.OctaveRandLengthPref: "octave_rand_length_pref",
		param.Swing: "swing", param.OversampleRatio: "oversample_ratio",
	}
	for i, base := range []param.ID{param.LFO1Rate, param.LFO2Rate, param.LFO3Rate} {
		n := i + 1
		suffix := []string{"rate", "waveform", "sync_enabled", "division", "phase_mod_source", "phase_mod_amount", "dest1", "amt1", "dest2", "amt2"}
		for j, s := range suffix {
			names[base+param.ID(j)] = lfoKey(n, s)
		}
	}
	for i := 0; i < 16; i++ {
		names[param.ModSeqStepID(i)] = modSeqStepKey(i)
	}
	for i, ref := range param.AllBeats() {
		names[param.BeatProbabilityID(ref)] = beatKey(ref.Division, i)
	}
	return names
}

func lfoKey(n int, suffix string) string { return "lfo" + itoa(n) + "_" + suffix }
func modSeqStepKey(i int) string         { return "mod_seq_step" + itoa(i) }
func beatKey(division string, i int) string { return "beat_" + division + "_" + itoa(i) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// Capture takes an immutable snapshot of every parameter, the note pool,
// and the strength grid, for persistence or editor undo history.
func Capture(name string, store *param.Store, pool *sequencer.NotePool, grid *sequencer.StrengthGrid) Snapshot {
	s := Snapshot{Name: name, Parameters: make(map[string]float64, len(paramNames))}
	for id, key := range paramNames {
		s.Parameters[key] = store.Raw(id)
	}
	s.NotePool = pool.Snapshot()
	s.RootNote = pool.Root()
	s.Strength = grid.Snapshot()
	return s
}

// Apply writes a snapshot's parameters, note pool and strength grid back
// into live editor-side state (§6 "apply a captured/loaded snapshot
// atomically from the editor thread").
func Apply(s Snapshot, store *param.Store, pool *sequencer.NotePool, grid *sequencer.StrengthGrid) {
	for id, key := range paramNames {
		if v, ok := s.Parameters[key]; ok {
			store.Write(id, v)
		}
	}
	for _, e := range pool.Snapshot() {
		pool.Remove(e.Note)
	}
	for _, e := range s.NotePool {
		pool.Set(e)
	}
	for i, v := range s.Strength {
		grid.Set(i, v)
	}
}
