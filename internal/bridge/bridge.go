// Package bridge implements the shared-state surface between the
// non-realtime editor thread and the realtime audio thread (§5): atomic
// telemetry scalars, a wait-free single-writer/single-reader preset
// snapshot handoff, and a double-buffered note-pool/strength-grid cached
// copy for the sequencer's per-bar read.
package bridge

import (
	"math"
	"sync/atomic"

	"github.com/zotley/pllsynth/internal/preset"
	"github.com/zotley/pllsynth/internal/sequencer"
)

// Telemetry holds the atomic scalars the audio thread writes and the
// editor thread polls: peak level, CPU load, current note, and an xrun
// counter. No lock is ever taken on either side (§5).
type Telemetry struct {
	peakBits    atomic.Uint64
	cpuLoadBits atomic.Uint64
	currentNote atomic.Int32
	xrunCount   atomic.Uint64
}

// WritePeak is called once per block from the audio thread.
func (t *Telemetry) WritePeak(peak float64) {
	t.peakBits.Store(math.Float64bits(peak))
}

// Peak reads the last peak level, from the editor thread.
func (t *Telemetry) Peak() float64 { return math.Float64frombits(t.peakBits.Load()) }

// WriteCPULoad is called once per block from the audio thread (fraction of
// block deadline consumed).
func (t *Telemetry) WriteCPULoad(load float64) {
	t.cpuLoadBits.Store(math.Float64bits(load))
}

// CPULoad reads the last CPU load fraction, from the editor thread.
func (t *Telemetry) CPULoad() float64 { return math.Float64frombits(t.cpuLoadBits.Load()) }

// WriteCurrentNote records the currently sounding MIDI note, or -1 if none.
func (t *Telemetry) WriteCurrentNote(note int) { t.currentNote.Store(int32(note)) }

// CurrentNote reads the currently sounding note.
func (t *Telemetry) CurrentNote() int { return int(t.currentNote.Load()) }

// IncrementXRun is called from the audio thread when a block deadline is
// missed; it only increments the counter, never logs (§7: the audio thread
// never surfaces errors synchronously — the editor thread reads this back
// and logs via internal/synthlog).
func (t *Telemetry) IncrementXRun() { t.xrunCount.Add(1) }

// XRunCount reads the cumulative xrun counter, from the editor thread.
func (t *Telemetry) XRunCount() uint64 { return t.xrunCount.Load() }

// PresetSwitch is the wait-free single-writer (editor)/single-reader
// (audio) snapshot handoff: the editor stores a new pointer, the audio
// thread loads and applies it at the next block boundary. No allocation
// happens on the audio side; the editor owns allocating each new Snapshot.
type PresetSwitch struct {
	pending atomic.Pointer[preset.Snapshot]
}

// Offer publishes a new snapshot for the audio thread to pick up. Safe to
// call repeatedly before the audio thread drains the previous one — only
// the latest publish is ever observed (a race between editor writes never
// needs to be queued, only the most recent preset matters).
func (p *PresetSwitch) Offer(s preset.Snapshot) {
	p.pending.Store(&s)
}

// Take returns the pending snapshot and clears it, or nil if nothing is
// pending. Called once per block from the audio thread.
func (p *PresetSwitch) Take() *preset.Snapshot {
	return p.pending.Swap(nil)
}

// PatternBuffer double-buffers the sequencer's per-bar cached copy of the
// note pool and strength grid snapshots, so the audio thread always reads
// a stable, non-torn pair captured at the last bar boundary (§5).
type PatternBuffer struct {
	current atomic.Pointer[BarPattern]
}

// BarPattern is one bar's immutable cached copy of editor-writable state.
type BarPattern struct {
	Notes    []sequencer.NoteEntry
	Strength [sequencer.StrengthGridSize]float64
	Seed     int64
}

// Publish stores a newly captured bar pattern (editor or sequencer-driven
// capture thread).
func (b *PatternBuffer) Publish(p *BarPattern) { b.current.Store(p) }

// Current returns the latest published bar pattern, read from the audio
// thread without blocking.
func (b *PatternBuffer) Current() *BarPattern { return b.current.Load() }
