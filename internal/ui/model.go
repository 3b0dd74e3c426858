package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/orbit/internal/canvas"
	"github.com/olivier-w/orbit/internal/orb"
)

const (
	DefaultFPS = 30

	// lines around the canvas: header, progress, status, help
	chromeLines = 4
	seekStep    = 5 * time.Second
	volumeStep  = 0.05
)

// Source is an audio input feeding the shared orb state.
type Source interface {
	TogglePause()
	Paused() bool
	Close()
}

// Optional Source capabilities.
type (
	seeker interface {
		Seek(delta time.Duration) error
		Position() time.Duration
		Duration() time.Duration
	}
	volumer interface {
		AdjustVolume(delta float64)
		Volume() float64
	}
	finisher interface {
		Done() <-chan struct{}
		Restart() error
	}
)

// Options tunes the scenes built by the model.
type Options struct {
	FPS     int
	Dots    int     // <= 0 keeps the default
	Divisor float64 // <= 0 keeps the default
	Mode    orb.Mode
	Seed    int64
}

// Config returns the orb configuration for a surface of the given height.
func (o Options) Config(height float64) orb.Config {
	cfg := orb.DefaultConfig(height)
	if o.Dots > 0 {
		cfg.DotCount = o.Dots
	}
	if o.Divisor > 0 {
		cfg.EnergyDivisor = o.Divisor
	}
	cfg.Mode = o.Mode
	cfg.Seed = o.Seed
	return cfg
}

type sceneKind int

const (
	sceneOrb sceneKind = iota
	sceneScope
)

func (k sceneKind) String() string {
	if k == sceneScope {
		return "scope"
	}
	return "orb"
}

// Model is the Bubbletea model for the orbit TUI.
type Model struct {
	source Source
	title  string
	state  *orb.State
	opts   Options

	surface  *canvas.Braille
	scene    orb.Scene
	renderer *orb.Renderer // set while the orb scene is shown
	kind     sceneKind
	mode     orb.Mode
	gen      int
	start    time.Time

	meter    energyMeter
	meterBuf []byte
	progress progress.Model

	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool
	ended    bool
	loop     bool

	width, height int
	err           error
	quitting      bool
}

// New creates a model listening to src through state. The analyser attached
// to state must be the sink src writes into.
func New(src Source, title string, state *orb.State, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	m := Model{
		source:   src,
		title:    title,
		state:    state,
		opts:     opts,
		surface:  canvas.NewBraille(0, 0),
		mode:     opts.Mode,
		start:    time.Now(),
		meter:    newEnergyMeter(opts.FPS),
		progress: newProgressBar(),
		paused:   src.Paused(),
	}
	if s, ok := src.(seeker); ok {
		m.duration = s.Duration()
	}
	if v, ok := src.(volumer); ok {
		m.volume = v.Volume()
	}
	state.SetActive(!m.paused)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), tea.SetWindowTitle(windowTitle(m.title, m.paused))}
	if f, ok := m.source.(finisher); ok {
		cmds = append(cmds, waitDone(f))
	}
	return tea.Batch(cmds...)
}

func waitDone(f finisher) tea.Cmd {
	done := f.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if msg.gen != m.gen || m.scene == nil || m.quitting {
			return m, nil
		}
		if !m.scene.Frame(orb.Millis(msg.at.Sub(m.start))) {
			return m, nil
		}
		m.meter.update(m.energy())
		return m, frameCmd(m.gen, m.opts.FPS)

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.syncSource()
		return m, tickCmd()

	case playbackEndedMsg:
		if m.loop {
			if f, ok := m.source.(finisher); ok {
				if err := f.Restart(); err != nil {
					m.err = err
					return m, nil
				}
				m.elapsed = 0
				return m, waitDone(f)
			}
		}
		m.ended = true
		m.paused = true
		m.elapsed = m.duration
		m.state.SetActive(false)
		return m, tea.SetWindowTitle(windowTitle(m.title, true))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.rebuild()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		if m.scene != nil {
			m.scene.Stop()
		}
		m.state.SetActive(false)
		m.source.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch msg.String() {
	case " ":
		if m.ended {
			if f, ok := m.source.(finisher); ok {
				if err := f.Restart(); err != nil {
					m.err = err
					return m, nil
				}
				m.ended = false
				m.paused = false
				m.state.SetActive(true)
				return m, tea.Batch(waitDone(f), tea.SetWindowTitle(windowTitle(m.title, false)))
			}
		}
		m.source.TogglePause()
		m.paused = m.source.Paused()
		m.state.SetActive(!m.paused)
		return m, tea.SetWindowTitle(windowTitle(m.title, m.paused))
	case "left", "h":
		m.seek(-seekStep)
	case "right", "l":
		m.seek(seekStep)
	case "up", "k":
		m.adjustVolume(volumeStep)
	case "down", "j":
		m.adjustVolume(-volumeStep)
	case "r":
		if _, ok := m.source.(finisher); ok {
			m.loop = !m.loop
		}
	case "v":
		m.kind = (m.kind + 1) % 2
		log.Printf("scene: %s", m.kind)
		return m, m.rebuild()
	case "c":
		m.mode = m.mode.Next()
		if m.renderer != nil {
			m.renderer.SetMode(m.mode)
		}
	}
	return m, nil
}

func (m *Model) seek(delta time.Duration) {
	s, ok := m.source.(seeker)
	if !ok || m.ended {
		return
	}
	if err := s.Seek(delta); err != nil {
		m.err = err
		return
	}
	m.elapsed = s.Position()
	m.paused = m.source.Paused()
	m.state.SetActive(!m.paused)
}

func (m *Model) adjustVolume(delta float64) {
	if v, ok := m.source.(volumer); ok {
		v.AdjustVolume(delta)
		m.volume = v.Volume()
	}
}

func (m *Model) syncSource() {
	if s, ok := m.source.(seeker); ok && !m.ended {
		m.elapsed = s.Position()
	}
	if v, ok := m.source.(volumer); ok {
		m.volume = v.Volume()
	}
	if !m.ended {
		m.paused = m.source.Paused()
	}
}

// rebuild stops the current scene and starts a fresh one sized to the
// window. The returned command schedules its first frame.
func (m *Model) rebuild() tea.Cmd {
	if m.scene != nil {
		m.scene.Stop()
	}
	m.scene, m.renderer = nil, nil
	m.gen++
	m.err = nil

	rows := m.height - chromeLines
	if m.width < 1 || rows < 1 {
		m.surface.Resize(0, 0)
		return nil
	}
	m.surface.Resize(m.width, rows)
	m.progress.Width = max(10, m.width-20)

	_, h := m.surface.Size()
	switch m.kind {
	case sceneScope:
		sc, err := orb.NewScope(m.surface, m.state.Snapshot, nil)
		if err != nil {
			m.err = err
			return nil
		}
		m.scene = sc
	default:
		cfg := m.opts.Config(float64(h))
		cfg.Mode = m.mode
		r, err := orb.NewRenderer(m.surface, m.state.Snapshot, cfg)
		if err != nil {
			log.Printf("building orb: %v", err)
			m.err = err
			return nil
		}
		m.scene, m.renderer = r, r
	}
	return frameCmd(m.gen, m.opts.FPS)
}

// energy returns the current audio energy scaled to [0, 1].
func (m *Model) energy() float64 {
	divisor := m.opts.Divisor
	if divisor <= 0 {
		divisor = orb.DefaultEnergyDivisor
	}
	full := 255 / divisor

	if m.renderer != nil {
		return m.renderer.Energy() / full
	}
	snap := m.state.Snapshot()
	if snap.Analyser == nil {
		return 0
	}
	if n := snap.Analyser.FrequencyBinCount(); len(m.meterBuf) != n {
		m.meterBuf = make([]byte, n)
	}
	return orb.Energy(snap.Analyser, m.meterBuf, divisor) / full
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render("orbit") + "  " + titleStyle.Render(m.title) + "\n")

	if m.scene != nil {
		b.WriteString(m.surface.View())
	} else if m.err != nil {
		b.WriteString("  " + errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString("  " + helpStyle.Render("window too small"))
	}
	b.WriteString("\n")

	_, canSeek := m.source.(seeker)
	_, hasVolume := m.source.(volumer)
	if canSeek {
		ratio := 0.0
		if m.duration > 0 {
			ratio = m.elapsed.Seconds() / m.duration.Seconds()
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			timeStyle.Render(formatDuration(m.elapsed)),
			m.progress.ViewAs(max(0, min(ratio, 1))),
			timeStyle.Render(formatDuration(m.duration)))
	} else {
		b.WriteString("  " + timeStyle.Render("live") + "\n")
	}

	icon, state := "▶", "playing"
	switch {
	case m.ended:
		icon, state = "■", "finished"
	case m.paused:
		icon, state = "❚❚", "paused"
	}
	status := fmt.Sprintf("%s  %s  %s  %s", icon, state, m.kind, m.mode)
	if m.loop {
		status += "  [loop]"
	}
	status = statusStyle.Render(status) + "  " + m.meter.view()
	if hasVolume {
		status += "  " + statusStyle.Render(renderVolumePercent(m.volume))
	}
	if m.err != nil && m.scene != nil {
		status += "  " + errorStyle.Render(m.err.Error())
	}
	b.WriteString("  " + status + "\n")
	b.WriteString("  " + helpStyle.Render(helpText(canSeek, hasVolume)))
	return b.String()
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " — orbit"
	}
	return "▶ " + title + " — orbit"
}
