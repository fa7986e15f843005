//go:build headless

package audiobackend

import "testing"

type constSource struct{ value float32 }

func (c constSource) NextBlock(buf []float32, numFrames int) {
	for i := range buf {
		buf[i] = c.value
	}
}

func TestHeadlessPumpDrainsSource(t *testing.T) {
	b, err := NewHeadlessBackend(48000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Start(constSource{value: 0.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Pump(256)
	if len(b.buf) != 512 {
		t.Errorf("expected 256 frames * 2 channels = 512 floats buffered, got %d", len(b.buf))
	}
	if !b.IsStarted() {
		t.Errorf("expected backend to report started")
	}
	b.Stop()
	if b.IsStarted() {
		t.Errorf("expected backend to report stopped")
	}
}
