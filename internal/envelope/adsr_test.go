package envelope

import "testing"

func paramsFor(attack, decay, sustain, release float64) Params {
	return Params{AttackMs: attack, DecayMs: decay, SustainLvl: sustain, ReleaseMs: release, Shape: 0}
}

func TestAttackReachesFullScale(t *testing.T) {
	e := New(48000)
	p := paramsFor(10, 10, 0.5, 10)
	e.Trigger(1.0)
	var peak float64
	for i := 0; i < 48000; i++ {
		out := e.Step(p)
		if out > peak {
			peak = out
		}
		if e.CurrentStage() == StageSustain {
			break
		}
	}
	if peak < 0.99 {
		t.Errorf("expected attack to reach ~1.0, peaked at %v", peak)
	}
}

func TestSustainHoldsLevel(t *testing.T) {
	e := New(48000)
	p := paramsFor(1, 1, 0.4, 1)
	e.Trigger(1.0)
	for i := 0; i < 5000; i++ {
		e.Step(p)
	}
	if e.CurrentStage() != StageSustain {
		t.Fatalf("expected sustain stage after settling, got %v", e.CurrentStage())
	}
	out := e.Step(p)
	if out < 0.39 || out > 0.41 {
		t.Errorf("expected sustain output near 0.4, got %v", out)
	}
}

func TestReleaseReturnsToIdle(t *testing.T) {
	e := New(48000)
	p := paramsFor(1, 1, 0.5, 5)
	e.Trigger(1.0)
	for i := 0; i < 2000; i++ {
		e.Step(p)
	}
	e.Release()
	for i := 0; i < 48000; i++ {
		e.Step(p)
	}
	if e.CurrentStage() != StageIdle {
		t.Errorf("expected idle stage after release completes, got %v", e.CurrentStage())
	}
	if e.Output() != 0 {
		t.Errorf("expected output 0 at idle, got %v", e.Output())
	}
}

func TestMinimumAttackTimeEnforced(t *testing.T) {
	e := New(48000)
	p := paramsFor(0, 1, 1, 1)
	e.Trigger(1.0)
	steps := 0
	for e.CurrentStage() == StageAttack && steps < 48000 {
		e.Step(p)
		steps++
	}
	minSamples := int(minAttackMs / 1000 * 48000)
	if steps < minSamples-2 {
		t.Errorf("attack completed faster than minimum %d samples: took %d", minSamples, steps)
	}
}
