// Package param implements the ~250-parameter live parameter surface
// (spec.md §3 "Parameter snapshot", §4.10, §5, §6): one atomic scalar per
// parameter for lock-free editor writes, and a per-sample one-pole
// smoothing stage consumed only from the audio thread.
package param

import (
	"math"
	"sync/atomic"

	"github.com/zotley/pllsynth/internal/dsp"
)

// Descriptor declares a parameter's kind, range, default and smoothing time,
// mirroring spec.md §3's "declared range, default, unit, smoothing time".
type Descriptor struct {
	Kind          Kind
	Min, Max      float64
	Default       float64
	SmoothSeconds float64 // 0 for Stepped/Bool (no smoothing)
}

const defaultSmoothSeconds = 0.005 // 5ms default (§4.10)

// Store holds every live parameter as an independent atomic scalar plus a
// per-parameter one-pole smoother. Store.Write is the only editor-thread
// entry point; Store.Smoothed/Store.Raw are the only audio-thread entry
// points. No parameter read ever blocks.
type Store struct {
	count       int
	raw         []atomic.Uint64 // bit-pattern of float64, written by editor
	descriptors []Descriptor
	smoothers   []dsp.OnePole // audio-thread-only state
	sampleRate  float64
}

func beatID(ref BeatRef) ID {
	beats := AllBeats()
	for i, b := range beats {
		if b.Division == ref.Division && b.Index == ref.Index {
			return beatGridBase + ID(i)
		}
	}
	return beatGridBase // unreachable for valid refs
}

// BeatProbabilityID returns the parameter ID backing a given beat's
// probability (0-127), for the 152 beats enumerated in AllBeats.
func BeatProbabilityID(ref BeatRef) ID { return beatID(ref) }

// NewStore allocates a fully-described parameter store at the given sample rate.
func NewStore(sampleRate float64) *Store {
	total := int(beatGridBase) + len(AllBeats())
	s := &Store{
		count:       total,
		raw:         make([]atomic.Uint64, total),
		descriptors: make([]Descriptor, total),
		smoothers:   make([]dsp.OnePole, total),
		sampleRate:  sampleRate,
	}
	s.initDescriptors()
	for id, d := range s.descriptors {
		s.raw[id].Store(math.Float64bits(d.Default))
		s.smoothers[id].SetTimeConstant(d.SmoothSeconds, sampleRate)
		s.smoothers[id].Reset(d.Default)
	}
	return s
}

// SetSampleRate recomputes every smoother's time constant (§4.2 "If fs
// changes, all time constants... recomputed before the next sample").
func (s *Store) SetSampleRate(sr float64) {
	s.sampleRate = sr
	for id := range s.descriptors {
		s.smoothers[id].SetTimeConstant(s.descriptors[id].SmoothSeconds, sr)
	}
}

func (s *Store) describe(id ID, k Kind, lo, hi, def, smoothSeconds float64) {
	s.descriptors[id] = Descriptor{Kind: k, Min: lo, Max: hi, Default: def, SmoothSeconds: smoothSeconds}
}

// Write performs an atomic, declared-range-clamped write (editor thread).
// Out-of-range values are clamped, never rejected (§7 "Parameter out of
// declared range").
func (s *Store) Write(id ID, value float64) {
	d := s.descriptors[id]
	value = dsp.Clamp(value, d.Min, d.Max)
	s.raw[id].Store(math.Float64bits(value))
}

// Raw performs an atomic read of a parameter's last-written value, with no
// smoothing applied. Used for stepped/bool parameters and for bar-boundary
// snapshots (beat probabilities, humaniser, octave randomiser).
func (s *Store) Raw(id ID) float64 {
	return math.Float64frombits(s.raw[id].Load())
}

// Smoothed advances and returns the per-sample smoothed value for id.
// Must only be called from the audio thread, at most once per sample per id.
func (s *Store) Smoothed(id ID) float64 {
	if s.descriptors[id].Kind != Continuous {
		return s.Raw(id)
	}
	return s.smoothers[id].Process(s.Raw(id))
}

// Descriptor exposes a parameter's declared metadata.
func (s *Store) Descriptor(id ID) Descriptor { return s.descriptors[id] }

// Count returns the total number of live parameters.
func (s *Store) Count() int { return s.count }
