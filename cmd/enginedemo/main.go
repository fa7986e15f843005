// Command enginedemo drives the synth engine headlessly or through a real
// audio device for a fixed duration, optionally loading a starting preset
// and writing out a capture of the final parameter state.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/zotley/pllsynth/internal/dsp"
	"github.com/zotley/pllsynth/internal/engine"
	"github.com/zotley/pllsynth/internal/midi"
	"github.com/zotley/pllsynth/internal/preset"
	"github.com/zotley/pllsynth/internal/synthlog"
)

// engineSource adapts an *engine.Engine to audiobackend.Source, rendering
// into a scratch StereoPair buffer and interleaving into the caller's
// float32 slice.
type engineSource struct {
	eng   *engine.Engine
	block []dsp.StereoPair
}

func (s *engineSource) NextBlock(buf []float32, numFrames int) {
	if cap(s.block) < numFrames {
		s.block = make([]dsp.StereoPair, numFrames)
	}
	block := s.block[:numFrames]
	s.eng.ProcessBlock(block, numFrames)
	for i, sample := range block {
		buf[i*2+0] = float32(sample.L)
		buf[i*2+1] = float32(sample.R)
	}
}

// pumper is implemented by backends with no internal callback thread
// (HeadlessBackend); the demo loop drives these itself.
type pumper interface {
	Pump(numFrames int)
}

func main() {
	sampleRate := pflag.Int("sample-rate", 48000, "audio sample rate in Hz")
	bufferFrames := pflag.Int("buffer-frames", 512, "frames per processed block")
	tempo := pflag.Float64("tempo", 120, "transport tempo in BPM")
	rootNote := pflag.Int("root-note", 60, "MIDI root note for the note pool")
	seed := pflag.Int64("seed", 1, "deterministic seed for the voice's colouration and LFO RNGs")
	oversample := pflag.Int("oversample", 1, "PLL oversampling ratio (1, 4, 8 or 16)")
	duration := pflag.Float64("duration", 10, "seconds to run before exiting")
	loadPath := pflag.String("preset-load", "", "YAML preset file to load before starting")
	savePath := pflag.String("preset-save", "", "YAML preset file to write on exit")
	note := pflag.Int("note", 60, "MIDI note number to sound for the demo's duration")
	pflag.Parse()

	log := synthlog.New("enginedemo")

	eng := engine.New(float64(*sampleRate), *tempo, *oversample, *rootNote, *seed)

	if *loadPath != "" {
		data, err := os.ReadFile(*loadPath)
		if err != nil {
			log.PresetRejected(*loadPath, err)
			os.Exit(1)
		}
		snap, err := preset.Unmarshal(data)
		if err != nil {
			log.PresetRejected(*loadPath, err)
			os.Exit(1)
		}
		eng.PresetSwitch().Offer(snap)
	}

	eng.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOn, Note: uint8(*note), Value: 100})

	backend, err := newBackend(*sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open audio backend: %v\n", err)
		os.Exit(1)
	}

	src := &engineSource{eng: eng}
	if err := backend.Start(src); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start backend: %v\n", err)
		os.Exit(1)
	}

	totalFrames := int(*duration * float64(*sampleRate))
	if p, ok := backend.(pumper); ok {
		for rendered := 0; rendered < totalFrames; rendered += *bufferFrames {
			p.Pump(*bufferFrames)
		}
	} else {
		time.Sleep(time.Duration(*duration * float64(time.Second)))
	}

	eng.PushMIDI(midi.Event{Offset: 0, Kind: midi.NoteOff, Note: uint8(*note)})
	backend.Stop()
	backend.Close()

	if *savePath != "" {
		snap := preset.Capture("enginedemo", eng.Store(), eng.Pool(), eng.Grid())
		data, err := preset.Marshal(snap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal preset: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*savePath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write preset: %v\n", err)
			os.Exit(1)
		}
	}
}
