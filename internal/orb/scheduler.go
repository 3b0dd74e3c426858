package orb

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by a scheduler that has no frames left.
var ErrExhausted = errors.New("scheduler exhausted")

// Scene is a self-contained animation driven one frame at a time.
type Scene interface {
	// Frame draws the frame for timestamp ts (milliseconds, monotonic) and
	// reports whether the caller should schedule another one.
	Frame(ts float64) bool
	// Stop cancels the scene. It may be called while Frame runs on another
	// goroutine; that frame finishes at most the shape it is drawing.
	Stop()
	Running() bool
}

// Scheduler hands out frame timestamps. Next blocks until the next frame is
// due and returns a timestamp in milliseconds greater than the previous one.
type Scheduler interface {
	Next(ctx context.Context) (float64, error)
}

// Run drives scene until it is stopped, the scheduler fails or ctx is done.
// The stop flag is checked before every re-arm. A stopped scene returns nil.
func Run(ctx context.Context, scene Scene, s Scheduler) error {
	for {
		if !scene.Running() {
			return nil
		}
		ts, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !scene.Frame(ts) {
			return nil
		}
	}
}

// TickerScheduler paces frames with a time.Ticker.
type TickerScheduler struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerScheduler returns a scheduler firing fps times per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		start:  time.Now(),
	}
}

func (s *TickerScheduler) Next(ctx context.Context) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-s.ticker.C:
		return Millis(t.Sub(s.start)), nil
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// StepScheduler produces a fixed number of evenly spaced timestamps without
// waiting. It is used for headless rendering.
type StepScheduler struct {
	Interval float64
	Frames   int

	ts float64
	n  int
}

func (s *StepScheduler) Next(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.n >= s.Frames {
		return 0, ErrExhausted
	}
	s.n++
	s.ts += s.Interval
	return s.ts, nil
}

// Millis converts a duration into a frame timestamp.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
