//go:build headless

package main

import "github.com/zotley/pllsynth/internal/audiobackend"

func newBackend(sampleRate int) (audiobackend.Backend, error) {
	return audiobackend.NewHeadlessBackend(sampleRate)
}
