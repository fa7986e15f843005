//go:build !headless

package main

import "github.com/zotley/pllsynth/internal/audiobackend"

// newBackend opens the real audio device. Build with -tags headless to get
// a no-device backend suitable for CI instead.
func newBackend(sampleRate int) (audiobackend.Backend, error) {
	return audiobackend.NewOtoBackend(sampleRate)
}
