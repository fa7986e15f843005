// Package audiobackend adapts the teacher's register-mapped, mono-sample-
// pull audio output pattern into a stereo f32 block-push interface driven
// by internal/engine, keeping oto/v3 for real output and a headless stub
// for tests and CI.
package audiobackend

// Source supplies interleaved stereo float32 frames on demand. NextBlock
// must never block, allocate, or take a lock that the realtime producer
// side also holds (§5's realtime constraints apply here too, since this is
// the boundary the audio thread ultimately writes across).
type Source interface {
	NextBlock(buf []float32, numFrames int)
}

// Backend is the output device abstraction; Start begins pulling blocks
// from src on the backend's own callback thread, Stop/Close tear it down.
type Backend interface {
	Start(src Source) error
	Stop()
	Close()
	IsStarted() bool
}
