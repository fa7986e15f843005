// Package sequencer implements the stochastic bar-level pattern generator:
// beat-grid competition, weighted note selection, and humanisation
// (spec.md §4.1). Note pool and strength grid are editor-writable under a
// short critical section; the audio thread only ever reads an immutable
// snapshot captured at the last bar boundary (spec.md §5).
package sequencer

import (
	"sort"
	"sync"
)

// NoteEntry is one candidate pitch in the note pool (spec.md §3 "Note pool").
type NoteEntry struct {
	Note         int // MIDI note number, 0-127
	BaseChance   int // 0-127
	StrengthPref int // 0-127, 64 = neutral
	LengthPref   int // 0-127, 64 = neutral
	OctaveOffset int // -1, 0, +1
	Enabled      bool
	IsRoot       bool
}

// NotePool holds the editable set of candidate pitches, guarded by a short
// critical section (never held on the audio path). The designated root
// entry always exists with BaseChance pinned at 127.
type NotePool struct {
	mu      sync.Mutex
	entries map[int]NoteEntry
	root    int
}

// NewNotePool creates a pool containing only the root note, as required by
// spec.md §3's invariant ("at least one entry (the root) is always
// selectable").
func NewNotePool(rootNote int) *NotePool {
	p := &NotePool{entries: make(map[int]NoteEntry), root: rootNote}
	p.entries[rootNote] = NoteEntry{
		Note: rootNote, BaseChance: 127, StrengthPref: 64, LengthPref: 64,
		Enabled: true, IsRoot: true,
	}
	return p
}

// Set upserts a note entry. The root's BaseChance is always forced to 127
// and IsRoot forced true, regardless of the caller's values, preserving the
// pinned-root invariant.
func (p *NotePool) Set(e NoteEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Note == p.root {
		e.BaseChance = 127
		e.IsRoot = true
		e.Enabled = true
	}
	p.entries[e.Note] = e
}

// Remove deletes a non-root entry. Removing the root is a no-op.
func (p *NotePool) Remove(note int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if note == p.root {
		return
	}
	delete(p.entries, note)
}

// Snapshot returns an immutable copy of every entry, safe to hand to the
// audio thread and cache across a bar.
func (p *NotePool) Snapshot() []NoteEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]NoteEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	// Deterministic order (map iteration order is not) so identical pool
	// contents always yield identical weighted-selection sequences (P3).
	sort.Slice(out, func(i, j int) bool { return out[i].Note < out[j].Note })
	return out
}

// Root returns the designated root note number.
func (p *NotePool) Root() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root
}
