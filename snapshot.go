package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olivier-w/orbit/internal/analyser"
	"github.com/olivier-w/orbit/internal/canvas"
	"github.com/olivier-w/orbit/internal/orb"
	"github.com/olivier-w/orbit/internal/player"
	"github.com/olivier-w/orbit/internal/ui"
)

const (
	snapshotFrames   = 60
	snapshotInterval = 1000.0 / 60
)

// snapshotJob renders one still frame of a file to a PNG.
type snapshotJob struct {
	input  string
	output string
	at     time.Duration
	width  int
	height int
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: expected WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: dimensions must be positive", s)
	}
	return w, h, nil
}

// runSnapshot feeds one analyser window taken at job.at and lets the orb
// settle for a second of simulated frames before writing the image.
func runSnapshot(ctx context.Context, job snapshotJob, opts ui.Options) error {
	if err := checkAudioFile(job.input); err != nil {
		return err
	}

	pcm, err := player.ReadPCM(job.input, job.at, analyser.DefaultFFTSize)
	if err != nil {
		return err
	}
	an, err := analyser.New(analyser.WithChannels(pcm.Channels))
	if err != nil {
		return err
	}
	if _, err := an.Write(pcm.Data); err != nil {
		return err
	}

	state := orb.NewState()
	state.SetAnalyser(an)
	state.SetActive(true)

	img := canvas.NewImage(job.width, job.height, nil)
	r, err := orb.NewRenderer(img, state.Snapshot, opts.Config(float64(job.height)))
	if err != nil {
		return err
	}
	sched := &orb.StepScheduler{Interval: snapshotInterval, Frames: snapshotFrames}
	if err := orb.Run(ctx, r, sched); err != nil && !errors.Is(err, orb.ErrExhausted) {
		return err
	}
	log.Printf("snapshot: radius %.1f energy %.2f", r.Radius(), r.Energy())

	f, err := os.Create(job.output)
	if err != nil {
		return err
	}
	if err := img.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", job.output, err)
	}
	return f.Close()
}
