package pcm

import "fmt"

// FrameBuffer reassembles fixed analysis frames from capture chunks of
// arbitrary size. Capture callbacks Write whatever the driver hands
// them; the analysis loop calls ReadFrame with a frame-sized slice.
// Frames never overlap.
//
// When the buffer overflows, the oldest samples are dropped so a
// stalled consumer stays anchored to live audio instead of drifting
// behind it. Not safe for concurrent use; a capture interrupt and an
// analysis loop need external serialization.
type FrameBuffer struct {
	buf   []float64
	head  int // next read position
	count int
}

// NewFrameBuffer returns a buffer holding up to capacity samples.
// Capacity should be at least twice the frame length so a full frame
// can accumulate while another is being analyzed.
func NewFrameBuffer(capacity int) (*FrameBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid frame buffer capacity: %d", capacity)
	}
	return &FrameBuffer{buf: make([]float64, capacity)}, nil
}

// Write appends samples, dropping the oldest buffered audio on
// overflow. A chunk larger than the whole buffer keeps only its tail.
func (b *FrameBuffer) Write(samples []float64) {
	n := len(b.buf)
	if len(samples) >= n {
		copy(b.buf, samples[len(samples)-n:])
		b.head = 0
		b.count = n
		return
	}
	for _, s := range samples {
		b.buf[(b.head+b.count)%n] = s
		if b.count < n {
			b.count++
		} else {
			b.head = (b.head + 1) % n
		}
	}
}

// ReadFrame fills frame with the oldest buffered samples and consumes
// them. Returns false, leaving frame untouched, when fewer than
// len(frame) samples are buffered.
func (b *FrameBuffer) ReadFrame(frame []float64) bool {
	if b.count < len(frame) {
		return false
	}
	n := len(b.buf)
	for i := range frame {
		frame[i] = b.buf[(b.head+i)%n]
	}
	b.head = (b.head + len(frame)) % n
	b.count -= len(frame)
	return true
}

// Len returns the number of buffered samples
func (b *FrameBuffer) Len() int {
	return b.count
}

// Cap returns the buffer capacity in samples
func (b *FrameBuffer) Cap() int {
	return len(b.buf)
}

// Reset discards all buffered samples
func (b *FrameBuffer) Reset() {
	b.head = 0
	b.count = 0
}
