package sequencer

import "sort"

// BeatProbabilities is a map-backed BeatProbabilitySource (one slice per division), in the
// same deterministic division order as DivisionNames/AllBeats.
type BeatProbabilities struct {
	values map[string][]int
}

// NewBeatProbabilities builds a zeroed probability table across every
// division in divisionTable.
func NewBeatProbabilities() *BeatProbabilities {
	bp := &BeatProbabilities{values: make(map[string][]int)}
	for _, d := range divisionTable {
		bp.values[d.name] = make([]int, d.n)
	}
	return bp
}

func (bp *BeatProbabilities) Set(division string, index, probability int) {
	if s, ok := bp.values[division]; ok && index >= 0 && index < len(s) {
		s[index] = probability
	}
}

func (bp *BeatProbabilities) BeatProbability(division string, index int) int {
	if s, ok := bp.values[division]; ok && index >= 0 && index < len(s) {
		return s[index]
	}
	return 0
}

// Flatten returns every non-negative probability value in the fixed
// division/index order, used to derive the deterministic per-bar seed.
func (bp *BeatProbabilities) Flatten() []int {
	out := make([]int, 0, 152)
	for _, d := range divisionTable {
		out = append(out, bp.values[d.name]...)
	}
	return out
}

// BarParams bundles every input prepare_bar needs for one bar (spec.md §4.1).
type BarParams struct {
	Probabilities   *BeatProbabilities
	NotePool        []NoteEntry
	RootNote        int
	Strength        [StrengthGridSize]float64
	LengthMod1      Modifier
	LengthMod2      Modifier
	VelocityMod     Modifier
	PositionMod     Modifier
	OctaveChance    int
	OctaveDirection int
	OctaveStrength  int
	OctaveLength    int
	Swing           float64
	SamplesPerBar   int
	BarCounter      uint64
}

// PrepareBar runs the full bar-generation pipeline: beat competition, note
// selection + octave randomiser, humaniser, and swing. Returns a
// time-sorted, non-overlapping event list covering [0, samplesPerBar).
func PrepareBar(p BarParams) []ScheduledEvent {
	seed := DeriveBarSeed(p.BarCounter, p.Probabilities.Flatten())
	rng := NewBarRNG(seed)

	candidates := enumerateCandidates(p.Probabilities)
	resolved := resolveBeats(candidates, rng)

	minDur, maxDur := minMaxDivisionDuration(p.Probabilities)

	events := make([]ScheduledEvent, 0, len(resolved))
	quarterDuration := p.SamplesPerBar / 4

	for _, b := range resolved {
		startF, _ := b.start.Float64()
		durF, _ := b.dur.Float64()

		startSample := int(startF*float64(p.SamplesPerBar) + 0.5)
		endSample := int((startF+durF)*float64(p.SamplesPerBar) + 0.5)
		durationSamples := endSample - startSample
		if durationSamples < 1 {
			durationSamples = 1
		}

		strength := StrengthAt(p.Strength, startF)
		normLen := lengthNormalise(durF, minDur, maxDur)

		roll := func(n int) int {
			if n <= 0 {
				return 0
			}
			return rng.Intn(n)
		}
		uniform := func() float64 { return rng.Float64() }

		note, _, _ := SelectNote(p.NotePool, strength, normLen, p.RootNote, roll)
		note = ApplyOctaveRandomiser(note, p.OctaveChance, p.OctaveDirection, p.OctaveStrength, p.OctaveLength, strength, normLen, roll)

		velocity := 100
		velocity = p.VelocityMod.ApplyVelocity(strength, velocity, uniform, roll)

		durationSamples = p.LengthMod1.ApplyLength(strength, durationSamples, uniform, roll)
		durationSamples = p.LengthMod2.ApplyLength(strength, durationSamples, uniform, roll)

		shift := p.PositionMod.ApplyPosition(strength, durationSamples, uniform, roll)

		if IsSecondEighth(startSample, p.SamplesPerBar) {
			shift += SwingShift(p.Swing, quarterDuration)
		}

		events = append(events, ScheduledEvent{
			StartSampleInBar:     startSample,
			DurationSamples:      durationSamples,
			NoteNumber:           note,
			Velocity:             velocity,
			PositionShiftSamples: shift,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].effectiveStart(p.SamplesPerBar) < events[j].effectiveStart(p.SamplesPerBar)
	})
	return events
}

func minMaxDivisionDuration(bp *BeatProbabilities) (min, max float64) {
	min, max = 1.0, 0.0
	found := false
	for _, d := range divisionTable {
		probs := bp.values[d.name]
		enabled := false
		for _, p := range probs {
			if p > 0 {
				enabled = true
				break
			}
		}
		if !enabled {
			continue
		}
		dur := 1.0 / float64(d.n)
		if dur < min {
			min = dur
		}
		if dur > max {
			max = dur
		}
		found = true
	}
	if !found {
		return 0, 1
	}
	return min, max
}

// EventsForBlock filters events whose start (after position shift) falls
// within [blockStart, blockStart+blockLen), returning sample-accurate
// offsets relative to the block (spec.md §4.1 events_for_block).
func EventsForBlock(events []ScheduledEvent, samplesPerBar, blockStart, blockLen int) []ScheduledEvent {
	var out []ScheduledEvent
	blockEnd := blockStart + blockLen
	for _, e := range events {
		s := e.effectiveStart(samplesPerBar)
		if s >= blockStart && s < blockEnd {
			shifted := e
			shifted.StartSampleInBar = s - blockStart
			shifted.PositionShiftSamples = 0
			out = append(out, shifted)
		}
	}
	return out
}
