package engine

import (
	"math"
	"testing"

	"github.com/zotley/pllsynth/internal/dsp"
	"github.com/zotley/pllsynth/internal/midi"
	"github.com/zotley/pllsynth/internal/param"
	"github.com/zotley/pllsynth/internal/preset"
	"github.com/zotley/pllsynth/internal/sequencer"
)

func newTestEngine() *Engine {
	e := New(48000, 120, 1, 60, 1)
	e.Pool().Set(sequencer.NoteEntry{Note: 60, BaseChance: 100, Enabled: true, IsRoot: true})
	return e
}

func TestProcessBlockProducesFiniteSamples(t *testing.T) {
	e := newTestEngine()
	e.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOn, Note: 60, Value: 100})

	buf := make([]dsp.StereoPair, 512)
	for block := 0; block < 4; block++ {
		e.ProcessBlock(buf, len(buf))
		for i, s := range buf {
			if math.IsNaN(s.L) || math.IsNaN(s.R) || math.IsInf(s.L, 0) || math.IsInf(s.R, 0) {
				t.Fatalf("block %d sample %d not finite: %+v", block, i, s)
			}
		}
	}
	if e.Telemetry().Peak() < 0 {
		t.Errorf("expected non-negative peak telemetry")
	}
}

func TestCancelEventuallyClearsCurrentNote(t *testing.T) {
	e := newTestEngine()
	e.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOn, Note: 67, Value: 100})

	buf := make([]dsp.StereoPair, 256)
	e.ProcessBlock(buf, len(buf))
	if e.Telemetry().CurrentNote() != 67 {
		t.Fatalf("expected current note 67 after trigger, got %d", e.Telemetry().CurrentNote())
	}

	e.Cancel()
	for i := 0; i < 200; i++ {
		e.ProcessBlock(buf, len(buf))
	}
	if e.Telemetry().CurrentNote() != -1 {
		t.Errorf("expected current note to clear to -1 after cancel and release, got %d", e.Telemetry().CurrentNote())
	}
}

func TestPresetSwitchAppliesAtNextBlock(t *testing.T) {
	e := newTestEngine()
	e.Store().Write(param.FilterCutoff, 0.2)

	snap := preset.Capture("offered", e.Store(), e.Pool(), e.Grid())
	snap.Parameters["filter_cutoff"] = 0.9

	e.PresetSwitch().Offer(snap)

	buf := make([]dsp.StereoPair, 64)
	e.ProcessBlock(buf, len(buf))

	if got := e.Store().Raw(param.FilterCutoff); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("expected filter_cutoff to be applied from the offered preset, got %v", got)
	}
}

// At a very fast tempo, bars are only 960 samples long, so a
// handful of 256-frame blocks crosses several bar boundaries and exercises
// the background prepare/swap in advanceBar (including its synchronous
// underrun fallback, if the background goroutine hasn't kept up yet).
func TestBarBoundaryAdvancesAcrossBlocks(t *testing.T) {
	e := New(48000, 12000, 1, 60, 7)
	e.Pool().Set(sequencer.NoteEntry{Note: 60, BaseChance: 100, Enabled: true, IsRoot: true})
	e.Store().Write(param.BeatProbabilityID(param.AllBeats()[0]), 127)

	startBar := e.barCounter
	buf := make([]dsp.StereoPair, 256)
	for i := 0; i < 50; i++ {
		e.ProcessBlock(buf, len(buf))
		for j, s := range buf {
			if math.IsNaN(s.L) || math.IsNaN(s.R) || math.IsInf(s.L, 0) || math.IsInf(s.R, 0) {
				t.Fatalf("block %d sample %d not finite: %+v", i, j, s)
			}
		}
	}
	if e.barCounter == startBar {
		t.Errorf("expected the bar counter to advance across multiple blocks at this tempo")
	}
}

func TestMIDINoteOffStopsCurrentNote(t *testing.T) {
	e := newTestEngine()
	e.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOn, Note: 72, Value: 100})

	buf := make([]dsp.StereoPair, 32)
	e.ProcessBlock(buf, len(buf))

	e.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOff, Note: 72})
	for i := 0; i < 400; i++ {
		e.ProcessBlock(buf, len(buf))
	}
	if e.Telemetry().CurrentNote() != -1 {
		t.Errorf("expected note-off to eventually silence the voice, got current note %d", e.Telemetry().CurrentNote())
	}
}
