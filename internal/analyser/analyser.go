// Package analyser turns a stream of PCM into the byte spectra and
// waveforms a browser AnalyserNode reports.
package analyser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100
	DefaultMaxDecibels = -30
	DefaultChannels    = 2

	minFFTSize = 32
	maxFFTSize = 32768

	bytesPerSample = 2 // int16
)

// ErrInvalidOption is returned by New for out-of-range options.
var ErrInvalidOption = errors.New("invalid analyser option")

// Option configures an Analyser.
type Option func(*Analyser) error

// WithFFTSize sets the analysis window. n must be a power of two between 32
// and 32768.
func WithFFTSize(n int) Option {
	return func(a *Analyser) error {
		if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
			return fmt.Errorf("%w: fft size %d", ErrInvalidOption, n)
		}
		a.fftSize = n
		return nil
	}
}

// WithSmoothing sets the time constant averaging successive spectra, in [0, 1).
func WithSmoothing(s float64) Option {
	return func(a *Analyser) error {
		if s < 0 || s >= 1 || math.IsNaN(s) {
			return fmt.Errorf("%w: smoothing %v", ErrInvalidOption, s)
		}
		a.smoothing = s
		return nil
	}
}

// WithDecibels sets the range mapped onto 0..255 in ByteFrequencyData.
func WithDecibels(lo, hi float64) Option {
	return func(a *Analyser) error {
		if !(lo < hi) {
			return fmt.Errorf("%w: decibel range [%v, %v]", ErrInvalidOption, lo, hi)
		}
		a.minDB, a.maxDB = lo, hi
		return nil
	}
}

// WithChannels sets how many interleaved channels Write receives.
func WithChannels(n int) Option {
	return func(a *Analyser) error {
		if n < 1 {
			return fmt.Errorf("%w: %d channels", ErrInvalidOption, n)
		}
		a.channels = n
		return nil
	}
}

// Analyser mixes interleaved little-endian int16 PCM to mono and reports
// the most recent window as byte frequency and time-domain data. One writer
// and one reader may use it concurrently.
type Analyser struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64
	channels  int

	ring *RingBuffer

	wmu     sync.Mutex
	pending []byte    // trailing bytes of an incomplete frame
	mono    []float64 // write scratch

	rmu      sync.Mutex
	window   []float64
	samples  []float64
	smoothed []float64
}

// New returns an analyser with browser defaults, adjusted by opts.
func New(opts ...Option) (*Analyser, error) {
	a := &Analyser{
		fftSize:   DefaultFFTSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
		channels:  DefaultChannels,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	a.ring = NewRingBuffer(a.fftSize)
	a.window = blackman(a.fftSize)
	a.samples = make([]float64, a.fftSize)
	a.smoothed = make([]float64, a.fftSize/2)
	return a, nil
}

// blackman returns the periodic Blackman window used by Web Audio.
func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}

// Write consumes interleaved PCM. Partial frames are held until the rest
// arrives. It never fails, so it can sit behind an io.Writer tap.
func (a *Analyser) Write(p []byte) (int, error) {
	a.wmu.Lock()
	defer a.wmu.Unlock()

	frame := a.channels * bytesPerSample
	data := p
	if len(a.pending) > 0 {
		data = append(a.pending, p...)
	}
	whole := len(data) / frame * frame
	if whole == 0 {
		a.pending = append(a.pending[:0], data...)
		return len(p), nil
	}

	frames := whole / frame
	if cap(a.mono) < frames {
		a.mono = make([]float64, frames)
	}
	mono := a.mono[:frames]
	for i := range mono {
		sum := 0.0
		off := i * frame
		for ch := range a.channels {
			s := int16(binary.LittleEndian.Uint16(data[off+ch*bytesPerSample:]))
			sum += float64(s) / 32768
		}
		mono[i] = sum / float64(a.channels)
	}
	a.ring.Write(mono)

	a.pending = append(a.pending[:0], data[whole:]...)
	return len(p), nil
}

// FFTSize returns the analysis window length in frames.
func (a *Analyser) FFTSize() int { return a.fftSize }

// FrequencyBinCount is half the FFT size.
func (a *Analyser) FrequencyBinCount() int { return a.fftSize / 2 }

// ByteFrequencyData writes the smoothed magnitude spectrum of the latest
// window into dst, one byte per bin, scaled from [minDB, maxDB] to [0, 255].
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.rmu.Lock()
	defer a.rmu.Unlock()

	a.ring.ReadInto(a.samples)
	for i, w := range a.window {
		a.samples[i] *= w
	}
	spectrum := fft.FFTReal(a.samples)

	n := float64(a.fftSize)
	tau := a.smoothing
	span := a.maxDB - a.minDB
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		v := tau*a.smoothed[k] + (1-tau)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		a.smoothed[k] = v

		if k >= len(dst) {
			continue
		}
		db := 20 * math.Log10(v)
		scaled := 255 * (db - a.minDB) / span
		dst[k] = clampByte(scaled)
	}
}

// ByteTimeDomainData writes the latest samples into dst as 128 + s*128.
func (a *Analyser) ByteTimeDomainData(dst []byte) {
	a.rmu.Lock()
	defer a.rmu.Unlock()

	a.ring.ReadInto(a.samples)
	for i := range min(len(dst), len(a.samples)) {
		dst[i] = clampByte(128 * (1 + a.samples[i]))
	}
}

// Reset drops buffered audio and the smoothing history.
func (a *Analyser) Reset() {
	a.wmu.Lock()
	a.pending = a.pending[:0]
	a.ring.Clear()
	a.wmu.Unlock()

	a.rmu.Lock()
	clear(a.smoothed)
	a.rmu.Unlock()
}

func clampByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
