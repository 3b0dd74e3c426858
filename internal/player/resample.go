package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Every file is played, and tapped, in this format so the output device
// can be opened once and analysers see the same rate as microphone input.
const (
	OutputRate      = 44100
	OutputChannels  = 2
	outputFrameSize = OutputChannels * 2
)

// resampler presents a mono or stereo decoder as OutputRate stereo PCM,
// interpolating linearly between neighbouring source frames.
type resampler struct {
	pcmStream
	src       audioDecoder
	srcRate   int64
	srcFrame  int64 // bytes per source frame
	srcFrames int64
	outFrame  int64

	base    int64   // source frame held at window[0:2]
	window  []int16 // buffered source frames, upmixed to stereo
	scratch []byte
}

// newResampler wraps src, or returns it unchanged when it already matches
// the output format.
func newResampler(src audioDecoder) (audioDecoder, error) {
	rate, ch := src.SampleRate(), src.ChannelCount()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, rate)
	}
	if ch < 1 || ch > OutputChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, ch)
	}
	if rate == OutputRate && ch == OutputChannels {
		return src, nil
	}

	srcFrames := src.Length() / int64(ch*2)
	outFrames := srcFrames * OutputRate / int64(rate)
	if srcFrames > 0 && outFrames == 0 {
		outFrames = 1
	}
	return &resampler{
		pcmStream: pcmStream{
			totalBytes: outFrames * outputFrameSize,
			sampleRate: OutputRate,
			channels:   OutputChannels,
		},
		src:       src,
		srcRate:   int64(rate),
		srcFrame:  int64(ch * 2),
		srcFrames: srcFrames,
	}, nil
}

func (r *resampler) Read(p []byte) (int, error) {
	if len(r.pending) > 0 {
		return r.drain(p), nil
	}
	total := r.totalBytes / outputFrameSize
	if r.outFrame >= total {
		return 0, io.EOF
	}

	n := min(int64(max(len(p)/outputFrameSize, 1)), total-r.outFrame)
	raw := make([]byte, 0, n*outputFrameSize)
	for range n {
		num := r.outFrame * r.srcRate
		i, frac := num/OutputRate, num%OutputRate
		j := min(i+1, r.srcFrames-1)
		if err := r.fill(i, j); err != nil {
			if len(raw) == 0 {
				return 0, err
			}
			break
		}
		for ch := range OutputChannels {
			v := lerp(r.sample(i, ch), r.sample(j, ch), frac)
			raw = binary.LittleEndian.AppendUint16(raw, uint16(v))
		}
		r.outFrame++
	}
	return r.emit(p, raw), nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.target(offset, whence)
	if err != nil {
		return r.pos, err
	}
	frame := pos / outputFrameSize
	srcFrame := frame * r.srcRate / OutputRate
	if _, err := r.src.Seek(srcFrame*r.srcFrame, io.SeekStart); err != nil {
		return r.pos, err
	}
	r.moved(pos)
	r.outFrame = frame
	r.base = srcFrame
	r.window = r.window[:0]
	return pos, nil
}

// fill buffers source frames from..to inclusive, dropping older ones.
func (r *resampler) fill(from, to int64) error {
	if drop := min(from-r.base, int64(len(r.window)/OutputChannels)); drop > 0 {
		r.window = r.window[drop*OutputChannels:]
		r.base += drop
	}
	for r.base+int64(len(r.window)/OutputChannels) <= to {
		if err := r.readChunk(); err != nil {
			return err
		}
	}
	return nil
}

func (r *resampler) readChunk() error {
	const chunkFrames = 2048
	if r.scratch == nil {
		r.scratch = make([]byte, chunkFrames*r.srcFrame)
	}
	n, err := io.ReadFull(r.src, r.scratch)
	frames := int64(n) / r.srcFrame
	if frames == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return err
	}
	for f := range frames {
		b := r.scratch[f*r.srcFrame:]
		left := int16(binary.LittleEndian.Uint16(b))
		right := left
		if r.srcFrame == outputFrameSize {
			right = int16(binary.LittleEndian.Uint16(b[2:]))
		}
		r.window = append(r.window, left, right)
	}
	return nil
}

func (r *resampler) sample(frame int64, ch int) int16 {
	return r.window[(frame-r.base)*OutputChannels+int64(ch)]
}

// lerp interpolates from a towards b by frac/OutputRate, rounding.
func lerp(a, b int16, frac int64) int16 {
	if frac == 0 || a == b {
		return a
	}
	diff := int64(b) - int64(a)
	return int16(int64(a) + (diff*frac+OutputRate/2)/OutputRate)
}
