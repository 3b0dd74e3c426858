package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

type stubPCMDecoder struct {
	data       []byte
	pos        int64
	sampleRate int
	channels   int
}

func (d *stubPCMDecoder) Read(p []byte) (int, error) {
	if d.pos >= int64(len(d.data)) {
		return 0, io.EOF
	}
	n := copy(p, d.data[d.pos:])
	d.pos += int64(n)
	if d.pos >= int64(len(d.data)) {
		return n, io.EOF
	}
	return n, nil
}

func (d *stubPCMDecoder) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = d.pos + offset
	case io.SeekEnd:
		next = int64(len(d.data)) + offset
	}
	d.pos = max(0, min(next, int64(len(d.data))))
	return d.pos, nil
}

func (d *stubPCMDecoder) Length() int64     { return int64(len(d.data)) }
func (d *stubPCMDecoder) SampleRate() int   { return d.sampleRate }
func (d *stubPCMDecoder) ChannelCount() int { return d.channels }

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestResamplerPassesThroughOutputFormat(t *testing.T) {
	src := &stubPCMDecoder{data: pcm16(1, 2), sampleRate: OutputRate, channels: 2}
	dec, err := newResampler(src)
	if err != nil {
		t.Fatalf("newResampler returned error: %v", err)
	}
	if dec != audioDecoder(src) {
		t.Fatalf("expected source returned unchanged, got %T", dec)
	}
}

func TestResamplerUpmixesMono(t *testing.T) {
	src := &stubPCMDecoder{data: pcm16(1000, -2000, 3000), sampleRate: OutputRate, channels: 1}

	dec, err := newResampler(src)
	if err != nil {
		t.Fatalf("newResampler returned error: %v", err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}

	want := pcm16(1000, 1000, -2000, -2000, 3000, 3000)
	if !bytes.Equal(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	if dec.ChannelCount() != OutputChannels {
		t.Fatalf("expected %d channels, got %d", OutputChannels, dec.ChannelCount())
	}
}

func TestResamplerInterpolatesAndSeeks(t *testing.T) {
	src := &stubPCMDecoder{
		data:       pcm16(0, 1000, 10000, 11000, 20000, 21000),
		sampleRate: OutputRate / 2,
		channels:   2,
	}

	dec, err := newResampler(src)
	if err != nil {
		t.Fatalf("newResampler returned error: %v", err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}

	want := pcm16(
		0, 1000,
		5000, 6000,
		10000, 11000,
		15000, 16000,
		20000, 21000,
		20000, 21000,
	)
	if !bytes.Equal(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	if got := dec.Length(); got != int64(len(want)) {
		t.Fatalf("expected length %d, got %d", len(want), got)
	}

	if _, err := dec.Seek(8, io.SeekStart); err != nil {
		t.Fatalf("Seek returned error: %v", err)
	}
	buf := make([]byte, 4)
	if n, err := dec.Read(buf); n != 4 || err != nil {
		t.Fatalf("expected 4 bytes after seek, got %d (%v)", n, err)
	}
	if !bytes.Equal(buf, pcm16(10000, 11000)) {
		t.Fatalf("expected frame (10000, 11000) after seek, got %v", buf)
	}
}

func TestResamplerRejectsSurroundSound(t *testing.T) {
	src := &stubPCMDecoder{sampleRate: 48000, channels: 6}
	if _, err := newResampler(src); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
