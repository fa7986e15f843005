package sequencer

// Modifier is one humaniser length/velocity/position slot (spec.md §4.1
// "Humaniser"): target selects which beats the modifier applies to by
// comparing normalised strength against a threshold derived from the
// target's magnitude; amount scales the modifier's effect; probability
// gates whether it fires at all for a given beat.
type Modifier struct {
	Target      float64 // -100..100
	Amount      float64 // 0..100
	Probability int     // 0..127
}

// applies reports whether this modifier's strength-selection criterion is
// met for the given normalised strength.
func (m Modifier) applies(strength float64) bool {
	threshold := absFloat(m.Target) / 100.0
	if m.Target >= 0 {
		return strength > threshold
	}
	return strength < threshold
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// triggers rolls the modifier's probability gate (0-127 against a 0-127 draw).
func (m Modifier) triggers(roll func(n int) int) bool {
	if m.Probability <= 0 {
		return false
	}
	return roll(127) < m.Probability
}

// ApplyLength multiplies durationSamples by 1+uniform(0,amount/100) when the
// modifier fires, clamped to at least one sample.
func (m Modifier) ApplyLength(strength float64, durationSamples int, uniform func() float64, roll func(n int) int) int {
	if !m.applies(strength) || !m.triggers(roll) {
		return durationSamples
	}
	factor := 1 + uniform()*(m.Amount/100.0)
	out := int(float64(durationSamples) * factor)
	if out < 1 {
		out = 1
	}
	return out
}

// ApplyVelocity applies an additive offset to velocity, clamped to [1,127].
func (m Modifier) ApplyVelocity(strength float64, velocity int, uniform func() float64, roll func(n int) int) int {
	if !m.applies(strength) || !m.triggers(roll) {
		return velocity
	}
	offset := uniform() * m.Amount
	if m.Target < 0 {
		offset = -offset
	}
	v := velocity + int(offset)
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	return v
}

// ApplyPosition returns a signed sample shift: uniform(0,shiftFraction) *
// beatDurationSamples, signed by the modifier's target direction.
func (m Modifier) ApplyPosition(strength float64, beatDurationSamples int, uniform func() float64, roll func(n int) int) int {
	if !m.applies(strength) || !m.triggers(roll) {
		return 0
	}
	shiftFraction := m.Amount / 100.0
	shift := uniform() * shiftFraction * float64(beatDurationSamples)
	if m.Target < 0 {
		shift = -shift
	}
	return int(shift)
}

// SwingShift returns the signed sample shift applied to a beat landing on
// the "second eighth" of a quarter (spec.md §4.1 "Swing"): (swing-0.5) *
// quarter_duration. swing is clamped to [0.5, 0.75] by the caller's
// parameter descriptor.
func SwingShift(swing float64, quarterDurationSamples int) int {
	return int((swing - 0.5) * float64(quarterDurationSamples))
}

// IsSecondEighth reports whether a beat start (in samples, within the bar)
// lands on the second eighth-note of any quarter, i.e. samplesIntoQuarter
// == quarterDurationSamples/2 (an eighth-note division-8 beat at odd index
// within its quarter).
func IsSecondEighth(startSample, samplesPerBar int) bool {
	quarter := samplesPerBar / 4
	eighth := quarter / 2
	pos := startSample % quarter
	return pos == eighth
}
