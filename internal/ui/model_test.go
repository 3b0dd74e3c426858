package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/orbit/internal/orb"
)

// stubMic is a live source: pause only.
type stubMic struct {
	paused bool
	closed int
}

func (s *stubMic) TogglePause() { s.paused = !s.paused }
func (s *stubMic) Paused() bool { return s.paused }
func (s *stubMic) Close()       { s.closed++ }

// stubTrack is a file source with seeking, volume and an end.
type stubTrack struct {
	stubMic
	pos      time.Duration
	dur      time.Duration
	vol      float64
	done     chan struct{}
	restarts int
	seekErr  error
}

func newStubTrack() *stubTrack {
	return &stubTrack{dur: time.Minute, vol: 0.5, done: make(chan struct{})}
}

func (s *stubTrack) Seek(d time.Duration) error {
	if s.seekErr != nil {
		return s.seekErr
	}
	s.pos = max(0, min(s.pos+d, s.dur))
	return nil
}
func (s *stubTrack) Position() time.Duration { return s.pos }
func (s *stubTrack) Duration() time.Duration { return s.dur }
func (s *stubTrack) AdjustVolume(d float64)  { s.vol = max(0, min(s.vol+d, 1)) }
func (s *stubTrack) Volume() float64         { return s.vol }
func (s *stubTrack) Done() <-chan struct{}   { return s.done }
func (s *stubTrack) Restart() error {
	s.restarts++
	s.pos = 0
	s.done = make(chan struct{})
	return nil
}

type flatAnalyser struct{ v byte }

func (a flatAnalyser) FrequencyBinCount() int { return 16 }
func (a flatAnalyser) ByteFrequencyData(dst []byte) {
	for i := range dst {
		dst[i] = a.v
	}
}
func (a flatAnalyser) ByteTimeDomainData(dst []byte) {
	for i := range dst {
		dst[i] = 128
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, src Source) (Model, *orb.State) {
	t.Helper()
	state := orb.NewState()
	state.SetAnalyser(flatAnalyser{v: 200})
	m := New(src, "test", state, Options{FPS: 30, Dots: 50, Seed: 1})
	m, cmd := m.handleMsg(tea.WindowSizeMsg{Width: 40, Height: 14})
	if cmd == nil {
		t.Fatal("expected first frame to be scheduled")
	}
	if m.scene == nil {
		t.Fatalf("expected scene after resize, got error %v", m.err)
	}
	return m, state
}

func TestResizeSizesSurfaceInDots(t *testing.T) {
	m, _ := sized(t, &stubMic{})
	if w, h := m.surface.Size(); w != 80 || h != 40 {
		t.Fatalf("expected 80x40 dots, got %dx%d", w, h)
	}
}

func TestTinyWindowHasNoScene(t *testing.T) {
	m := New(&stubMic{}, "test", orb.NewState(), Options{})
	m, cmd := m.handleMsg(tea.WindowSizeMsg{Width: 40, Height: chromeLines})
	if cmd != nil || m.scene != nil {
		t.Fatal("expected no scene without room for the canvas")
	}
	if !strings.Contains(m.View(), "window too small") {
		t.Fatalf("expected size hint, got %q", m.View())
	}
}

func TestFrameReArmsWhileRunning(t *testing.T) {
	m, _ := sized(t, &stubMic{})

	m, cmd := m.handleMsg(frameMsg{gen: m.gen, at: m.start.Add(100 * time.Millisecond)})
	if cmd == nil {
		t.Fatal("expected running scene to re-arm")
	}
	if m.meter.pos == 0 {
		t.Fatal("expected energy meter to move toward live energy")
	}
}

func TestFrameStopsAfterQuit(t *testing.T) {
	src := &stubMic{}
	m, state := sized(t, src)
	scene := m.scene

	m, cmd := m.handleMsg(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if scene.Running() {
		t.Fatal("expected scene stopped on quit")
	}
	if src.closed != 1 || state.Active() {
		t.Fatalf("expected source closed and state idle, got closed=%d active=%v", src.closed, state.Active())
	}

	if _, cmd := m.handleMsg(frameMsg{gen: m.gen, at: time.Now()}); cmd != nil {
		t.Fatal("expected no frame after quit")
	}
}

func TestStaleFrameIsDropped(t *testing.T) {
	m, _ := sized(t, &stubMic{})
	old := m.gen

	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 50, Height: 20})
	if m.gen == old {
		t.Fatal("expected resize to start a new scene generation")
	}
	if _, cmd := m.handleMsg(frameMsg{gen: old, at: time.Now()}); cmd != nil {
		t.Fatal("expected frame for replaced scene to be dropped")
	}
}

func TestSpaceTogglesActivity(t *testing.T) {
	src := &stubMic{}
	m, state := sized(t, src)
	if !state.Active() {
		t.Fatal("expected live source to start active")
	}

	m, _ = m.handleMsg(key(" "))
	if !src.paused || state.Active() || !m.paused {
		t.Fatal("expected pause to mark the state inactive")
	}
	m, _ = m.handleMsg(key(" "))
	if src.paused || !state.Active() || m.paused {
		t.Fatal("expected resume to mark the state active")
	}
}

func TestSceneAndColourKeys(t *testing.T) {
	m, _ := sized(t, &stubMic{})
	orbScene := m.scene

	m, cmd := m.handleMsg(key("v"))
	if cmd == nil || m.kind != sceneScope || m.renderer != nil {
		t.Fatalf("expected scope scene, got kind=%s", m.kind)
	}
	if orbScene.Running() {
		t.Fatal("expected previous scene stopped")
	}

	m, _ = m.handleMsg(key("v"))
	if m.renderer == nil {
		t.Fatal("expected orb scene after cycling back")
	}
	m, _ = m.handleMsg(key("c"))
	if m.mode != orb.Monochrome || m.renderer.Mode() != orb.Monochrome {
		t.Fatalf("expected monochrome, got %s", m.mode)
	}
}

func TestSeekAndVolumeNeedCapableSource(t *testing.T) {
	mic, _ := sized(t, &stubMic{})
	mic, _ = mic.handleMsg(key("l"))
	mic, _ = mic.handleMsg(key("k"))
	if mic.elapsed != 0 || mic.volume != 0 {
		t.Fatal("expected live source to ignore seek and volume")
	}
	if strings.Contains(mic.View(), "seek") {
		t.Fatal("expected help without seek for live source")
	}

	track := newStubTrack()
	m, _ := sized(t, track)
	m, _ = m.handleMsg(key("l"))
	m, _ = m.handleMsg(key("k"))
	if m.elapsed != seekStep {
		t.Fatalf("expected elapsed %v, got %v", seekStep, m.elapsed)
	}
	if m.volume < 0.549 || m.volume > 0.551 {
		t.Fatalf("expected volume 0.55, got %v", m.volume)
	}

	track.seekErr = errors.New("boom")
	m, _ = m.handleMsg(key("l"))
	if m.err == nil {
		t.Fatal("expected seek error surfaced")
	}
}

func TestPlaybackEndedGoesIdle(t *testing.T) {
	track := newStubTrack()
	m, state := sized(t, track)

	m, _ = m.handleMsg(playbackEndedMsg{})
	if !m.ended || state.Active() {
		t.Fatal("expected ended track to leave the orb idle")
	}
	if _, cmd := m.handleMsg(frameMsg{gen: m.gen, at: time.Now()}); cmd == nil {
		t.Fatal("expected idle orb to keep animating")
	}

	m, cmd := m.handleMsg(key(" "))
	if track.restarts != 1 || m.ended || !state.Active() || cmd == nil {
		t.Fatalf("expected space to restart, got restarts=%d ended=%v", track.restarts, m.ended)
	}
}

func TestLoopRestartsOnEnd(t *testing.T) {
	track := newStubTrack()
	m, state := sized(t, track)

	m, _ = m.handleMsg(key("r"))
	if !m.loop {
		t.Fatal("expected loop on")
	}
	m, cmd := m.handleMsg(playbackEndedMsg{})
	if track.restarts != 1 || m.ended || cmd == nil || !state.Active() {
		t.Fatalf("expected looped restart, got restarts=%d ended=%v", track.restarts, m.ended)
	}
}

func TestOptionsConfigOverrides(t *testing.T) {
	cfg := Options{Dots: 10, Divisor: 40, Mode: orb.Monochrome, Seed: 9}.Config(100)
	if cfg.DotCount != 10 || cfg.EnergyDivisor != 40 || cfg.Mode != orb.Monochrome || cfg.Seed != 9 {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	def := Options{}.Config(100)
	if def.DotCount != 1500 || def.EnergyDivisor != orb.DefaultEnergyDivisor {
		t.Fatalf("expected defaults kept, got dots=%d divisor=%v", def.DotCount, def.EnergyDivisor)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(83 * time.Second); got != "1:23" {
		t.Fatalf("expected 1:23, got %q", got)
	}
	if got := formatDuration(-time.Second); got != "0:00" {
		t.Fatalf("expected 0:00, got %q", got)
	}
}
