package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(canSeek, hasVolume bool) string {
	s := "space pause"
	if canSeek {
		s += "  ←/→ seek  r loop"
	}
	if hasVolume {
		s += "  ↑/↓ volume"
	}
	s += "  v scene  c colour  q quit"
	return s
}
