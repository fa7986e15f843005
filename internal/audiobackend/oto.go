//go:build !headless

package audiobackend

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend plays stereo float32 output through oto/v3, adapted from the
// teacher's OtoPlayer (audio_backend_oto.go): same atomic-pointer handoff
// of the active producer and mutex-guarded start/stop bookkeeping, but
// pulling one interleaved stereo block from a Source instead of one mono
// sample at a time from a register-mapped chip.
type OtoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	src    atomic.Pointer[Source]

	mutex     sync.Mutex
	started   bool
	sampleBuf []byte
}

// NewOtoBackend opens an oto context at sampleRate, stereo, float32LE.
func NewOtoBackend(sampleRate int) (*OtoBackend, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoBackend{ctx: ctx}, nil
}

// Start begins playback, pulling blocks from src via Read.
func (b *OtoBackend) Start(src Source) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.src.Store(&src)
	if b.player == nil {
		b.player = b.ctx.NewPlayer(b)
	}
	if !b.started {
		b.player.Play()
		b.started = true
	}
	return nil
}

// Read implements io.Reader for oto.Player, converting the requested byte
// count into a frame count and delegating to the current Source.
func (b *OtoBackend) Read(p []byte) (int, error) {
	srcPtr := b.src.Load()
	if srcPtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	const bytesPerFrame = 8 // 2 channels * 4 bytes
	numFrames := len(p) / bytesPerFrame
	if cap(b.sampleBuf) < numFrames*2*4 {
		b.sampleBuf = make([]byte, numFrames*2*4)
	}
	floats := make([]float32, numFrames*2)
	(*srcPtr).NextBlock(floats, numFrames)
	buf := b.sampleBuf[:numFrames*2*4]
	for i, f := range floats {
		bits := math.Float32bits(f)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	copy(p, buf)
	return len(p), nil
}

func (b *OtoBackend) Stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started && b.player != nil {
		b.player.Close()
		b.started = false
	}
}

func (b *OtoBackend) Close() {
	b.Stop()
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
}

func (b *OtoBackend) IsStarted() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.started
}
