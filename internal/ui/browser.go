package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/orbit/internal/media"
)

// BrowserSelectedMsg is emitted when the user picks a source.
type BrowserSelectedMsg struct {
	Path string
	Mic  bool
}

// BrowserCancelledMsg is emitted when the user leaves the picker.
type BrowserCancelledMsg struct{}

type audioItem struct {
	name string
	ext  string
}

func (i audioItem) Title() string       { return i.name }
func (i audioItem) Description() string { return i.ext }
func (i audioItem) FilterValue() string { return i.name }

type micItem struct{}

func (i micItem) Title() string       { return "Microphone" }
func (i micItem) Description() string { return "listen to the default input" }
func (i micItem) FilterValue() string { return "microphone" }

// BrowserModel lets the user pick the microphone or an audio file from the
// working directory. It is meant to be embedded in a parent model, which
// receives its choice as a message.
type BrowserModel struct {
	list list.Model
	err  error
}

// NewEmbeddedBrowser creates a picker over the current directory.
func NewEmbeddedBrowser() BrowserModel {
	names, err := media.ListAudio(".")
	if err != nil {
		return BrowserModel{err: err}
	}

	items := []list.Item{micItem{}}
	for _, n := range names {
		ext := filepath.Ext(n)
		items = append(items, audioItem{name: strings.TrimSuffix(n, ext), ext: ext})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.Color("#fb923c"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.Color("#fb923c"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "orbit"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return BrowserModel{list: l}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("orbit")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case micItem:
				return m, selectCmd(BrowserSelectedMsg{Mic: true})
			case audioItem:
				return m, selectCmd(BrowserSelectedMsg{Path: item.name + item.ext})
			}
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func selectCmd(msg BrowserSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m BrowserModel) View() string {
	return m.list.View()
}
