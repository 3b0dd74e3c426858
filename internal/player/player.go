package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	defaultVolume = 0.8
	tapLatency    = 50 * time.Millisecond
)

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// tapReader copies every chunk handed to the device into a sink.
type tapReader struct {
	reader io.Reader
	mu     sync.Mutex
	sink   io.Writer
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.reader.Read(p)
	if n > 0 {
		t.mu.Lock()
		if t.sink != nil {
			// sink errors are ignored; playback goes on regardless
			_, _ = t.sink.Write(p[:n])
		}
		t.mu.Unlock()
	}
	return n, err
}

func (t *tapReader) setSink(w io.Writer) {
	t.mu.Lock()
	t.sink = w
	t.mu.Unlock()
}

// resetter is implemented by sinks that keep history, such as analysers.
type resetter interface{ Reset() }

func (t *tapReader) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.sink.(resetter); ok {
		r.Reset()
	}
}

// Player plays one audio file and taps its PCM into a sink.
type Player struct {
	file      *os.File
	decoder   audioDecoder
	tap       *tapReader
	counter   *countingReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player

	bytesPerSec int64
	frameSize   int64
	duration    time.Duration
	canSeek     bool

	volume  float64
	paused  bool
	done    chan struct{}
	stopMon chan struct{}
	cleanup func()
	closed  bool
	mu      sync.Mutex
}

var (
	globalOtoCtx *oto.Context
	otoMu        sync.Mutex
)

// outputContext opens the audio device on first use. oto allows a single
// context per process.
func outputContext() (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if globalOtoCtx != nil {
		return globalOtoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   OutputRate,
		ChannelCount: OutputChannels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	globalOtoCtx = ctx
	return ctx, nil
}

// New starts playing the file at path. Every PCM chunk sent to the device is
// also written to sink, which may be nil. Output is always OutputRate stereo.
func New(path string, sink io.Writer) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	dec, err := newResampler(src)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := outputContext()
	if err != nil {
		f.Close()
		return nil, err
	}

	frameSize := int64(dec.ChannelCount()) * 2
	bytesPerSec := int64(dec.SampleRate()) * frameSize
	tap := &tapReader{reader: dec, sink: sink}

	p := &Player{
		file:        f,
		decoder:     dec,
		tap:         tap,
		counter:     &countingReader{reader: tap},
		otoCtx:      ctx,
		bytesPerSec: bytesPerSec,
		frameSize:   frameSize,
		duration:    bytesToDuration(dec.Length(), bytesPerSec),
		canSeek:     true,
		volume:      defaultVolume,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
	p.cleanup = func() {
		if p.otoPlayer != nil {
			p.otoPlayer.Pause()
		}
		p.file.Close()
	}

	p.startOutput(true)
	go p.monitor(p.done)
	return p, nil
}

func bytesToDuration(n, bytesPerSec int64) time.Duration {
	if bytesPerSec <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}

// startOutput replaces the device player, flushing whatever oto had
// buffered. Callers hold p.mu or own p exclusively.
func (p *Player) startOutput(play bool) {
	if p.otoCtx == nil {
		return
	}
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	// A small device buffer keeps the tap close to what is audible.
	p.otoPlayer.SetBufferSize(int(bytesPerTap(p.bytesPerSec, p.frameSize)))
	p.otoPlayer.SetVolume(p.volume)
	if play {
		p.otoPlayer.Play()
	}
}

func bytesPerTap(bytesPerSec, frameSize int64) int64 {
	n := int64(tapLatency.Seconds() * float64(bytesPerSec))
	return max(frameSize, n-n%frameSize)
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.closed || p.done != done {
			p.mu.Unlock()
			return
		}
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length()
		p.mu.Unlock()

		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// SampleRate returns the PCM rate written to the sink.
func (p *Player) SampleRate() int { return p.decoder.SampleRate() }

// ChannelCount returns the number of interleaved channels written to the sink.
func (p *Player) ChannelCount() int { return p.decoder.ChannelCount() }

// SetSink redirects the PCM tap.
func (p *Player) SetSink(w io.Writer) { p.tap.setSink(w) }

// Restart seeks to the beginning and resumes playback.
// This resets the done channel so Done() can be used again.
func (p *Player) Restart() error {
	if err := p.SeekTo(0, true); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		p.done = make(chan struct{})
		go p.monitor(p.done)
	default:
	}
	return nil
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.paused = false
		if p.otoPlayer != nil {
			p.otoPlayer.Play()
		}
		return
	}
	p.pauseLocked()
}

// Pause stops output without toggling.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *Player) pauseLocked() {
	p.paused = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos(), p.bytesPerSec)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// clampSeekByteOffset converts pos to a byte offset inside [0, total],
// aligned down to a whole frame.
func clampSeekByteOffset(pos time.Duration, bytesPerSec, total, frameSize int64) int64 {
	off := int64(pos.Seconds() * float64(bytesPerSec))
	off = max(0, min(off, total))
	if frameSize > 0 {
		off -= off % frameSize
	}
	return off
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	p.mu.Lock()
	resume := !p.paused
	p.mu.Unlock()
	return p.SeekTo(p.Position()+delta, resume)
}

// SeekTo jumps to an absolute position. With resume false the player is
// left paused.
func (p *Player) SeekTo(pos time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.canSeek {
		return fmt.Errorf("seek: source is not seekable")
	}
	frameSize := p.frameSize
	if frameSize == 0 {
		frameSize = int64(p.decoder.ChannelCount()) * 2
	}
	off := clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), frameSize)
	if _, err := p.decoder.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.counter.SetPos(off)
	if p.tap != nil {
		p.tap.reset()
	}

	p.paused = !resume
	p.startOutput(resume)
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = max(0, min(v, 1))
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close releases all resources. It is safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}
