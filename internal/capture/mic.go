// Package capture records the default PulseAudio source and feeds it to a
// PCM sink.
package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	latency      = 0.05 // seconds
)

// recorder is the part of a pulse record stream the mic drives.
type recorder interface {
	Start()
	Stop()
	Close()
}

// Mic streams interleaved 16-bit stereo from the default input into a sink.
type Mic struct {
	client *pulse.Client
	stream recorder

	mu      sync.Mutex
	sink    io.Writer
	scratch []byte
	paused  bool
	closed  bool
}

// Start connects to the sound server and begins recording into sink.
func Start(sink io.Writer) (*Mic, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName("orbit"))
	if err != nil {
		return nil, fmt.Errorf("connecting to pulse: %w", err)
	}

	m := &Mic{client: client, sink: sink}
	stream, err := client.NewRecord(
		pulse.Int16Writer(m.write),
		pulse.RecordStereo,
		pulse.RecordSampleRate(SampleRate),
		pulse.RecordLatency(latency),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("opening record stream: %w", err)
	}
	m.stream = stream
	stream.Start()
	return m, nil
}

// write receives samples on the pulse client goroutine.
func (m *Mic) write(samples []int16) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sink == nil || m.paused || m.closed {
		return len(samples), nil
	}
	if cap(m.scratch) < len(samples)*2 {
		m.scratch = make([]byte, len(samples)*2)
	}
	buf := m.scratch[:len(samples)*2]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	// sink errors are ignored; recording goes on regardless
	_, _ = m.sink.Write(buf)
	return len(samples), nil
}

// TogglePause stops or resumes recording.
func (m *Mic) TogglePause() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.paused = !m.paused
	paused := m.paused
	m.mu.Unlock()

	// Stream requests are answered on the goroutine that calls write, so
	// they must not run under m.mu.
	if paused {
		m.stream.Stop()
	} else {
		m.stream.Start()
	}
}

// Paused reports whether recording is stopped.
func (m *Mic) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// SampleRate returns the PCM rate written to the sink.
func (m *Mic) SampleRate() int { return SampleRate }

// ChannelCount returns the number of interleaved channels written to the sink.
func (m *Mic) ChannelCount() int { return ChannelCount }

// Close stops recording and disconnects. It is safe to call more than once.
func (m *Mic) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	if m.client != nil {
		m.client.Close()
	}
}
