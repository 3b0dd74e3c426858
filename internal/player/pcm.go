package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// PCM is a decoded window of interleaved 16-bit little-endian audio.
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// ReadPCM decodes up to frames sample frames starting at offset at, without
// opening an audio device. A window that runs past the end is returned
// short.
func ReadPCM(path string, at time.Duration, frames int) (PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return PCM{}, err
	}
	defer f.Close()

	dec, err := newDecoder(f)
	if err != nil {
		return PCM{}, err
	}
	return readWindow(dec, at, frames)
}

func readWindow(dec audioDecoder, at time.Duration, frames int) (PCM, error) {
	frameSize := int64(dec.ChannelCount()) * 2
	off := clampSeekByteOffset(at, int64(dec.SampleRate())*frameSize, dec.Length(), frameSize)
	if _, err := dec.Seek(off, io.SeekStart); err != nil {
		return PCM{}, fmt.Errorf("seeking to %v: %w", at, err)
	}

	buf := make([]byte, int64(max(frames, 0))*frameSize)
	n, err := io.ReadFull(dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return PCM{}, fmt.Errorf("decoding window: %w", err)
	}
	n -= n % int(frameSize)
	return PCM{
		Data:       buf[:n],
		SampleRate: dec.SampleRate(),
		Channels:   dec.ChannelCount(),
	}, nil
}
