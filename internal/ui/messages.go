package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg drives one scene frame. gen ties it to the scene that asked for
// it, so frames for a replaced scene are dropped.
type frameMsg struct {
	gen int
	at  time.Time
}

type tickMsg time.Time
type playbackEndedMsg struct{}

func frameCmd(gen int, fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
