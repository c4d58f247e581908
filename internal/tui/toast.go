package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastOK
	toastWarn
	toastError
)

const toastDuration = 4 * time.Second

type toast struct {
	text  string
	level toastLevel
}

// showToast replaces the current toast and schedules its clear. The seq guard
// keeps an older clear tick from wiping a newer toast.
func (m *Model) showToast(text string, level toastLevel) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{text: text, level: level}
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastClearMsg{seq: seq}
	})
}

func (m *Model) clearToast(msg toastClearMsg) {
	if msg.seq == m.toastSeq {
		m.toast = nil
	}
}

func (m *Model) renderToast(width int) string {
	if m.toast == nil {
		return ""
	}
	color := colorChrome
	prefix := ""
	switch m.toast.level {
	case toastOK:
		color = colorOK
		prefix = "✓ "
	case toastWarn:
		color = colorWarning
		prefix = "! "
	case toastError:
		color = colorDanger
		prefix = "✗ "
	}
	st := lipgloss.NewStyle().Foreground(color).Bold(m.toast.level == toastError)
	return st.Render(truncate(prefix+m.toast.text, width))
}
