// Package synthlog provides structured logging for editor-thread code
// paths only: preset rejection, sample-rate change acknowledgement, xrun
// counters read back for display. The audio thread never calls into this
// package (§5, §7); it only increments atomic counters that the editor
// polls and logs on its own thread.
package synthlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger wraps a charmbracelet/log.Logger with the engine's leveled helpers,
// generalizing the teacher's bare log.Printf("invalid register address...")
// call sites (audio_chip.go) into a structured, leveled surface.
type Logger struct {
	inner *log.Logger
}

// New creates a Logger writing to stderr with the given name as its prefix.
func New(name string) *Logger {
	inner := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
	})
	return &Logger{inner: inner}
}

// PresetRejected logs a preset load/apply failure (§7 "preset validation
// failure" error kind).
func (l *Logger) PresetRejected(path string, err error) {
	l.inner.Error("preset rejected", "path", path, "err", err)
}

// SampleRateChanged logs a host-driven sample-rate change acknowledgement.
func (l *Logger) SampleRateChanged(oldRate, newRate float64) {
	l.inner.Info("sample rate changed", "old", oldRate, "new", newRate)
}

// XRun logs an audio-thread buffer underrun/overrun, read back from the
// atomic counter the audio thread itself only increments (§5).
func (l *Logger) XRun(count uint64) {
	l.inner.Warn("xrun", "count", count)
}

// Debugf logs a free-form debug message; only ever called from editor-
// thread or host-callback code paths, never from the audio render loop.
func (l *Logger) Debugf(format string, args ...any) {
	l.inner.Debugf(format, args...)
}
