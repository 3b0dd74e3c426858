package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
)

// formatDuration formats a duration as m:ss.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func newProgressBar() progress.Model {
	return progress.New(
		progress.WithSolidFill("#fb923c"),
		progress.WithoutPercentage(),
	)
}

// energyMeter eases the displayed energy toward the latest reading with a
// critically damped spring.
type energyMeter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	bar    progress.Model
}

func newEnergyMeter(fps int) energyMeter {
	bar := progress.New(
		progress.WithGradient("#fff7ed", "#f97316"),
		progress.WithoutPercentage(),
	)
	bar.Width = 12
	return energyMeter{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		bar:    bar,
	}
}

// update steps the spring toward target, clamped to [0, 1].
func (e *energyMeter) update(target float64) {
	target = max(0, min(target, 1))
	e.pos, e.vel = e.spring.Update(e.pos, e.vel, target)
}

func (e energyMeter) view() string {
	return e.bar.ViewAs(max(0, min(e.pos, 1)))
}
