package analyser

import "sync"

// RingBuffer is a thread-safe circular buffer of mono samples.
type RingBuffer struct {
	buf  []float64
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// NewRingBuffer creates a ring buffer holding size samples.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]float64, size),
		size: size,
	}
}

// Write appends samples, overwriting the oldest once full.
func (rb *RingBuffer) Write(p []float64) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(p) > rb.size {
		p = p[len(p)-rb.size:]
	}
	for _, s := range p {
		rb.buf[rb.w] = s
		rb.w = (rb.w + 1) % rb.size
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
}

// ReadInto fills dst with the len(dst) most recent samples, oldest first.
// When fewer have been written the front of dst is zeroed. It returns the
// number of real samples copied.
func (rb *RingBuffer) ReadInto(dst []float64) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := min(len(dst), rb.len)
	pad := len(dst) - n
	clear(dst[:pad])

	start := (rb.w - n + rb.size) % rb.size
	for i := range n {
		dst[pad+i] = rb.buf[(start+i)%rb.size]
	}
	return n
}

// Len returns the number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear resets the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
}
