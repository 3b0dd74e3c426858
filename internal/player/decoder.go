package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// audioDecoder yields interleaved 16-bit little-endian PCM.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64 // total PCM bytes
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// pcmStream is the bookkeeping shared by decoders that convert whole
// source blocks to 16-bit PCM and hand it out in pieces.
type pcmStream struct {
	pending    []byte
	pos        int64
	totalBytes int64
	sampleRate int
	channels   int
}

func (s *pcmStream) Length() int64     { return s.totalBytes }
func (s *pcmStream) SampleRate() int   { return s.sampleRate }
func (s *pcmStream) ChannelCount() int { return s.channels }

func (s *pcmStream) frameSize() int64 { return int64(s.channels) * 2 }

// drain copies converted PCM left over from the previous block.
func (s *pcmStream) drain(p []byte) int {
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	s.pos += int64(n)
	return n
}

// emit hands out a freshly converted block, keeping what does not fit.
func (s *pcmStream) emit(p, raw []byte) int {
	n := copy(p, raw)
	s.pending = raw[n:]
	s.pos += int64(n)
	return n
}

// target resolves a Seek request to a frame-aligned byte offset.
func (s *pcmStream) target(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = s.totalBytes + offset
	default:
		return s.pos, fmt.Errorf("seek: invalid whence %d", whence)
	}
	pos = max(0, min(pos, s.totalBytes))
	return pos - pos%s.frameSize(), nil
}

func (s *pcmStream) moved(pos int64) {
	s.pending = nil
	s.pos = pos
}

func putSample(dst []byte, v int) {
	v = max(-32768, min(v, 32767))
	binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
}

// --- MP3 ---

// go-mp3 already produces 16-bit stereo.
type mp3Decoder struct {
	*mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec}, nil
}

func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV ---

type wavDecoder struct {
	pcmStream
	file     *os.File
	pcmStart int64
	srcDepth int // bits per source sample
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("decoding WAV: invalid file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("decoding WAV: %w", err)
	}
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, depth)
	}

	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("decoding WAV: %w", err)
	}

	channels := int(dec.NumChans)
	srcFrames := dec.PCMLen() / int64(channels*depth/8)
	return &wavDecoder{
		pcmStream: pcmStream{
			totalBytes: srcFrames * int64(channels) * 2,
			sampleRate: int(dec.SampleRate),
			channels:   channels,
		},
		file:     f,
		pcmStart: start,
		srcDepth: depth,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}
	if d.pos >= d.totalBytes {
		return 0, io.EOF
	}

	width := d.srcDepth / 8
	samples := min(max(len(p)/2, 1), int((d.totalBytes-d.pos)/2))
	src := make([]byte, samples*width)
	n, err := io.ReadFull(d.file, src)
	samples = n / width
	if samples == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		b := src[i*width:]
		var v int
		switch d.srcDepth {
		case 8:
			v = (int(b[0]) - 128) << 8 // unsigned
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			v = int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 16)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		putSample(raw[i*2:], v)
	}
	return d.emit(p, raw), nil
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence)
	if err != nil {
		return d.pos, err
	}
	srcFrame := int64(d.channels) * int64(d.srcDepth/8)
	if _, err := d.file.Seek(d.pcmStart+pos/d.frameSize()*srcFrame, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// --- FLAC ---

type flacDecoder struct {
	pcmStream
	stream *flac.Stream
	bps    int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmStream: pcmStream{
			totalBytes: int64(info.NSamples) * int64(channels) * 2,
			sampleRate: int(info.SampleRate),
			channels:   channels,
		},
		stream: stream,
		bps:    int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*2)
	for i := range n {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				v >>= d.bps - 16
			} else {
				v <<= 16 - d.bps
			}
			putSample(raw[(i*d.channels+ch)*2:], v)
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence)
	if err != nil {
		return d.pos, err
	}
	if _, err := d.stream.Seek(uint64(pos / d.frameSize())); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// --- Ogg Vorbis ---

type oggDecoder struct {
	pcmStream
	reader  *oggvorbis.Reader
	scratch []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := r.Channels()
	return &oggDecoder{
		pcmStream: pcmStream{
			totalBytes: r.Length() * int64(channels) * 2,
			sampleRate: r.SampleRate(),
			channels:   channels,
		},
		reader: r,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	want := max(len(p)/2, d.channels)
	if cap(d.scratch) < want {
		d.scratch = make([]float32, want)
	}
	n, err := d.reader.Read(d.scratch[:want])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range d.scratch[:n] {
		putSample(raw[i*2:], int(s*32767))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence)
	if err != nil {
		return d.pos, err
	}
	if err := d.reader.SetPosition(pos / d.frameSize()); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}
