// Package engine implements the per-block driver (§4.9): snapshotting
// parameters, draining MIDI into pending note events, running the bar-level
// sequencer, stepping the voice sample-by-sample, and updating atomic
// telemetry. It owns the parameter store, note pool, strength grid and
// modulation-adjacent bridge types that the editor thread mutates.
package engine

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/zotley/pllsynth/internal/bridge"
	"github.com/zotley/pllsynth/internal/dsp"
	"github.com/zotley/pllsynth/internal/midi"
	"github.com/zotley/pllsynth/internal/param"
	"github.com/zotley/pllsynth/internal/preset"
	"github.com/zotley/pllsynth/internal/sequencer"
	"github.com/zotley/pllsynth/internal/voice"
)

// trigger is one resolved note-on/off with its sample offset inside the
// current block, merged from both the sequencer's bar events and
// externally-supplied MIDI.
type trigger struct {
	offset   int
	on       bool
	note     int
	velocity int
}

// preparedBar is one bar's worth of scheduled events plus the pattern
// snapshot they were derived from, computed off the audio thread and handed
// over through Engine.nextBar (§4.1 "Double-buffering", generalized here to
// a one-bar-ahead background prepare instead of a same-call-stack compute).
type preparedBar struct {
	barCounter uint64
	events     []sequencer.ScheduledEvent
	pattern    *bridge.BarPattern
}

// Engine drives one monophonic voice from a bar-level sequencer and
// external MIDI input, per §4.9's per-block process loop.
type Engine struct {
	sampleRate    float64
	samplesPerBar int
	tempoBPM      float64

	store *param.Store
	pool  *sequencer.NotePool
	grid  *sequencer.StrengthGrid
	voice *voice.Voice
	nrpn  midi.NRPNTracker

	telemetry     bridge.Telemetry
	presetSwitch  bridge.PresetSwitch
	patternBuffer bridge.PatternBuffer

	barCounter     uint64
	samplePosInBar int
	barEvents      []sequencer.ScheduledEvent
	nextBar        atomic.Pointer[preparedBar]

	pendingMIDI []midi.Event
	seed        int64
}

// New creates an engine at sampleRate with the given tempo and oversample
// ratio; seed drives the voice's colouration and LFO RNGs (bar generation is
// seeded from the bar counter and beat probabilities, not from seed).
func New(sampleRate, tempoBPM float64, oversampleRatio int, rootNote int, seed int64) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		tempoBPM:   tempoBPM,
		store:      param.NewStore(sampleRate),
		pool:       sequencer.NewNotePool(rootNote),
		grid:       sequencer.NewStrengthGrid(),
		voice:      voice.New(sampleRate, oversampleRatio, seed),
		seed:       seed,
	}
	e.voice.SetTempo(tempoBPM)
	e.recalcSamplesPerBar()

	// Bar 0 is prepared synchronously at construction time — this runs on
	// the caller's (editor/host) thread, never the audio thread, so the
	// heap-heavy beat-competition work is safe here.
	first := e.prepareBar(0)
	e.barEvents = first.events
	e.patternBuffer.Publish(first.pattern)
	e.prepareBarAsync(1)
	return e
}

func (e *Engine) recalcSamplesPerBar() {
	secondsPerBar := 4 * 60 / e.tempoBPM // 4 beats/bar assumed, §3 bar definition
	e.samplesPerBar = int(secondsPerBar * e.sampleRate)
	if e.samplesPerBar < 1 {
		e.samplesPerBar = 1
	}
}

// Store, Pool, Grid expose the editor-writable surfaces directly; callers
// outside the audio thread write through these.
func (e *Engine) Store() *param.Store                { return e.store }
func (e *Engine) Pool() *sequencer.NotePool           { return e.pool }
func (e *Engine) Grid() *sequencer.StrengthGrid       { return e.grid }
func (e *Engine) Telemetry() *bridge.Telemetry        { return &e.telemetry }
func (e *Engine) PresetSwitch() *bridge.PresetSwitch  { return &e.presetSwitch }
func (e *Engine) PatternBuffer() *bridge.PatternBuffer { return &e.patternBuffer }

// SetSampleRate propagates a host-driven sample-rate change to every stage.
func (e *Engine) SetSampleRate(sr float64) {
	e.sampleRate = sr
	e.voice.SetSampleRate(sr)
	e.store.SetSampleRate(sr)
	e.recalcSamplesPerBar()
}

// SetTempo changes the transport tempo, recomputing the bar length.
func (e *Engine) SetTempo(bpm float64) {
	e.tempoBPM = bpm
	e.voice.SetTempo(bpm)
	e.recalcSamplesPerBar()
}

// PushMIDI queues an incoming MIDI event for the next ProcessBlock call,
// draining 14-bit NRPN control changes into live parameter writes
// immediately since those are editor-thread-safe atomic writes.
func (e *Engine) PushMIDI(ev midi.Event) {
	if ev.Kind == midi.ControlChange {
		if upd, ok := e.nrpn.Feed(ev.CC, ev.Value); ok {
			id := param.ID(upd.Param)
			d := e.store.Descriptor(id)
			normalised := float64(upd.Value) / 16383.0
			e.store.Write(id, d.Min+normalised*(d.Max-d.Min))
		}
		return
	}
	e.pendingMIDI = append(e.pendingMIDI, ev)
}

// Cancel stops the voice immediately, issuing a synthetic note-off (§5
// "cancellation issues a synthetic note-off" discipline).
func (e *Engine) Cancel() {
	e.voice.Release()
	e.pendingMIDI = e.pendingMIDI[:0]
}

// prepareBar runs the full beat-competition/note-selection/humaniser
// pipeline for one bar. It allocates (BeatProbabilities table, big.Rat beat
// resolution, the returned event slice) and must only ever be called from
// construction, a background goroutine kicked off by prepareBarAsync, or
// the rare synchronous underrun fallback in advanceBar — never from the
// steady-state per-sample render loop in ProcessBlock.
func (e *Engine) prepareBar(barCounter uint64) *preparedBar {
	probs := sequencer.NewBeatProbabilities()
	for _, ref := range param.AllBeats() {
		probs.Set(ref.Division, ref.Index, int(e.store.Raw(param.BeatProbabilityID(ref))))
	}
	notePool := e.pool.Snapshot()
	strength := e.grid.Snapshot()

	events := sequencer.PrepareBar(sequencer.BarParams{
		Probabilities: probs,
		NotePool:      notePool,
		RootNote:      e.pool.Root(),
		Strength:      strength,
		LengthMod1:    sequencer.Modifier{Target: e.store.Raw(param.Human1Target), Amount: e.store.Raw(param.Human1Amount), Probability: int(e.store.Raw(param.Human1Probability))},
		LengthMod2:    sequencer.Modifier{Target: e.store.Raw(param.Human2Target), Amount: e.store.Raw(param.Human2Amount), Probability: int(e.store.Raw(param.Human2Probability))},
		VelocityMod:   sequencer.Modifier{Target: e.store.Raw(param.HumanVelocityTarget), Amount: e.store.Raw(param.HumanVelocityAmount), Probability: int(e.store.Raw(param.HumanVelocityProbability))},
		PositionMod:   sequencer.Modifier{Target: e.store.Raw(param.HumanPositionTarget), Amount: e.store.Raw(param.HumanPositionAmount), Probability: int(e.store.Raw(param.HumanPositionProbability))},
		OctaveChance:    int(e.store.Raw(param.OctaveRandChance)),
		OctaveDirection: int(e.store.Raw(param.OctaveRandDirection)),
		OctaveStrength:  int(e.store.Raw(param.OctaveRandStrengthPref)),
		OctaveLength:    int(e.store.Raw(param.OctaveRandLengthPref)),
		Swing:           e.store.Raw(param.Swing),
		SamplesPerBar:   e.samplesPerBar,
		BarCounter:      barCounter,
	})

	return &preparedBar{
		barCounter: barCounter,
		events:     events,
		pattern: &bridge.BarPattern{
			Notes:    notePool,
			Strength: strength,
			Seed:     e.seed ^ int64(barCounter),
		},
	}
}

// prepareBarAsync computes barCounter's bar on a background goroutine and
// publishes it through e.nextBar. store/pool/grid reads are already
// lock-free/mutex-guarded for concurrent access, so this never races
// ProcessBlock even if a prior prepare is still finishing (advanceBar
// discards a stale result by barCounter mismatch rather than relying on
// strict ordering between goroutines).
func (e *Engine) prepareBarAsync(barCounter uint64) {
	go func() {
		e.nextBar.Store(e.prepareBar(barCounter))
	}()
}

// advanceBar swaps in the next bar's precomputed events if ready, or falls
// back to a synchronous prepare (counted as an xrun) if the background
// prepare hasn't kept up — either way it then kicks off the bar after that.
func (e *Engine) advanceBar() {
	pb := e.nextBar.Swap(nil)
	if pb == nil || pb.barCounter != e.barCounter {
		e.telemetry.IncrementXRun()
		pb = e.prepareBar(e.barCounter)
	}
	e.barEvents = pb.events
	e.patternBuffer.Publish(pb.pattern)
	e.prepareBarAsync(e.barCounter + 1)
}

// triggersForBlock merges this block's sequencer note-on/offs with any
// externally-queued MIDI note-on/offs into one sample-ordered list.
func (e *Engine) triggersForBlock(blockLen int) []trigger {
	var out []trigger
	blockEvents := sequencer.EventsForBlock(e.barEvents, e.samplesPerBar, e.samplePosInBar, blockLen)
	for _, ev := range blockEvents {
		out = append(out, trigger{offset: ev.StartSampleInBar, on: true, note: ev.NoteNumber, velocity: ev.Velocity})
		offAt := ev.StartSampleInBar + ev.DurationSamples
		if offAt < blockLen {
			out = append(out, trigger{offset: offAt, on: false})
		}
	}
	for _, m := range e.pendingMIDI {
		if m.Offset < 0 || m.Offset >= blockLen {
			continue
		}
		switch m.Kind {
		case midi.NoteOn:
			out = append(out, trigger{offset: m.Offset, on: true, note: int(m.Note), velocity: int(m.Value)})
		case midi.NoteOff:
			out = append(out, trigger{offset: m.Offset, on: false})
		}
	}
	e.pendingMIDI = e.pendingMIDI[:0]
	sort.SliceStable(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

// ProcessBlock renders numFrames stereo samples into out (length
// numFrames), draining any pending preset swap first and regenerating the
// next bar's events at each bar boundary crossed within the block.
func (e *Engine) ProcessBlock(out []dsp.StereoPair, numFrames int) {
	if snap := e.presetSwitch.Take(); snap != nil {
		preset.Apply(*snap, e.store, e.pool, e.grid)
	}

	legato := e.store.Raw(param.MasterLegato) > 0.5
	retrigger := e.store.Smoothed(param.PLLRetrigger)
	glideMs := e.store.Smoothed(param.MasterGlideTime)

	processed := 0
	var peak float64
	for processed < numFrames {
		remaining := numFrames - processed
		toBar := e.samplesPerBar - e.samplePosInBar
		chunk := remaining
		if toBar < chunk {
			chunk = toBar
		}

		triggers := e.triggersForBlock(chunk)
		ti := 0
		for i := 0; i < chunk; i++ {
			for ti < len(triggers) && triggers[ti].offset == i {
				t := triggers[ti]
				if t.on {
					e.voice.Trigger(t.note, t.velocity, legato, retrigger, glideMs)
					e.telemetry.WriteCurrentNote(t.note)
				} else {
					e.voice.Release()
				}
				ti++
			}
			s := e.voice.Step(e.store)
			out[processed+i] = s
			if a := math.Abs(s.L); a > peak {
				peak = a
			}
			if a := math.Abs(s.R); a > peak {
				peak = a
			}
		}

		processed += chunk
		e.samplePosInBar += chunk
		if e.samplePosInBar >= e.samplesPerBar {
			e.samplePosInBar = 0
			e.barCounter++
			e.advanceBar()
		}
	}

	e.telemetry.WritePeak(peak)
	if !e.voice.Active() {
		e.telemetry.WriteCurrentNote(-1)
	}
}
