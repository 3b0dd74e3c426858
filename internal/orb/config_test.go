package orb

import (
	"errors"
	"image/color"
	"math"
	"sync"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	for _, h := range []float64{24, 200, 1080} {
		if err := DefaultConfig(h).Validate(); err != nil {
			t.Fatalf("height %v: expected valid default config, got %v", h, err)
		}
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	mutations := map[string]func(*Config){
		"smoothing": func(c *Config) { c.Smoothing = 0.5 },
		"radius":    func(c *Config) { c.ActiveRadius = 0 },
		"clamp":     func(c *Config) { c.MinRadius = c.MaxRadius + 1 },
		"noise":     func(c *Config) { c.NoiseScale = 0 },
		"camera":    func(c *Config) { c.FieldOfView = c.CenterZ + c.MaxRadius },
		"dots":      func(c *Config) { c.DotCount = -1 },
	}
	for name, mutate := range mutations {
		cfg := DefaultConfig(300)
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestPaletteByNoiseCoversRange(t *testing.T) {
	p := DefaultPalette
	if got := p.ByNoise(-1); got != p[0] {
		t.Fatalf("expected first colour at -1, got %v", got)
	}
	if got := p.ByNoise(0.99); got != p[len(p)-1] {
		t.Fatalf("expected last colour near 1, got %v", got)
	}
	for _, n := range []float64{1, 2, -3, math.NaN(), math.Inf(1)} {
		if got := p.ByNoise(n); got != p[0] {
			t.Fatalf("noise %v: expected fallback to first colour, got %v", n, got)
		}
	}
	if got := Palette(nil).ByNoise(0); got != color.White {
		t.Fatalf("expected white for empty palette, got %v", got)
	}
}

func TestParsePaletteRejectsGarbage(t *testing.T) {
	if _, err := ParsePalette("#fff7ed", "orange"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestModeNextCycles(t *testing.T) {
	if ColorByNoise.Next() != Monochrome || Monochrome.Next() != ColorByNoise {
		t.Fatal("expected modes to alternate")
	}
}

func TestStateSnapshotIsConsistent(t *testing.T) {
	s := NewState()
	if snap := s.Snapshot(); snap.Analyser != nil || snap.Data != nil || snap.Active {
		t.Fatalf("expected idle empty state, got %+v", snap)
	}

	a := &constAnalyser{bins: 64}
	s.SetAnalyser(a)
	if snap := s.Snapshot(); snap.Analyser == nil || len(snap.Data) != 64 {
		t.Fatalf("expected analyser with 64-byte buffer, got %+v", snap)
	}

	s.SetAnalyser(nil)
	if snap := s.Snapshot(); snap.Analyser != nil || snap.Data != nil {
		t.Fatalf("expected analyser and buffer cleared together, got %+v", snap)
	}
}

func TestStateConcurrentWriterAndReader(t *testing.T) {
	s := NewState()
	small := &constAnalyser{bins: 8}
	big := &constAnalyser{bins: 512}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 2000 {
			if i%2 == 0 {
				s.SetAnalyser(small)
			} else {
				s.SetAnalyser(big)
			}
			s.SetActive(i%3 == 0)
		}
	}()

	for range 2000 {
		snap := s.Snapshot()
		if snap.Analyser != nil && len(snap.Data) != snap.Analyser.FrequencyBinCount() {
			t.Fatalf("mixed snapshot: %d bins with %d-byte buffer", snap.Analyser.FrequencyBinCount(), len(snap.Data))
		}
	}
	wg.Wait()
}
