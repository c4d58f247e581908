package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"nodeboard/internal/model"
)

// pickerState is the node switcher overlay: type to filter, enter to jump.
type pickerState struct {
	input   textinput.Model
	nodes   []model.NodeInfo
	matches []int
	sel     int
	loading bool
}

// nodeNames implements fuzzy.Source over the fetched node list.
type nodeNames []model.NodeInfo

func (n nodeNames) String(i int) string { return n[i].Name }
func (n nodeNames) Len() int            { return len(n) }

func (m *Model) openPicker() tea.Cmd {
	in := textinput.New()
	in.Placeholder = "filter nodes"
	in.CharLimit = 100
	in.Width = 32
	in.Focus()
	m.picker = &pickerState{input: in, loading: true}
	m.modal = nil
	return m.listNodesCmd()
}

func (p *pickerState) setNodes(nodes []model.NodeInfo) {
	p.nodes = nodes
	p.loading = false
	p.refilter()
}

func (p *pickerState) refilter() {
	query := strings.TrimSpace(p.input.Value())
	p.matches = p.matches[:0]
	if query == "" {
		for i := range p.nodes {
			p.matches = append(p.matches, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(query, nodeNames(p.nodes)) {
			p.matches = append(p.matches, match.Index)
		}
	}
	if p.sel >= len(p.matches) {
		p.sel = len(p.matches) - 1
	}
	if p.sel < 0 {
		p.sel = 0
	}
}

// updatePicker handles a key while the picker is open. ok reports that a
// node was chosen; the picker is closed by then.
func (m *Model) updatePicker(msg tea.KeyMsg) (model.NodeInfo, bool, tea.Cmd) {
	p := m.picker

	switch msg.String() {
	case "esc", "ctrl+g":
		m.picker = nil
		return model.NodeInfo{}, false, nil
	case "down", "ctrl+n":
		if p.sel < len(p.matches)-1 {
			p.sel++
		}
		return model.NodeInfo{}, false, nil
	case "up", "ctrl+p":
		if p.sel > 0 {
			p.sel--
		}
		return model.NodeInfo{}, false, nil
	case "enter":
		if p.sel >= len(p.matches) {
			return model.NodeInfo{}, false, nil
		}
		chosen := p.nodes[p.matches[p.sel]]
		m.picker = nil
		return chosen, true, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.refilter()
	return model.NodeInfo{}, false, cmd
}

func (m *Model) renderPicker(width int) string {
	p := m.picker
	bodyW := width - 8
	if bodyW > 48 {
		bodyW = 48
	}
	if bodyW < 24 {
		bodyW = 24
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Switch node"))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	switch {
	case p.loading:
		b.WriteString(styleMuted().Render("loading…"))
	case len(p.matches) == 0:
		b.WriteString(styleMuted().Render("no matching nodes"))
	default:
		shown := p.matches
		const maxRows = 8
		start := 0
		if len(shown) > maxRows {
			// Scroll to keep the selection inside the window.
			if p.sel >= maxRows {
				start = p.sel - maxRows + 1
			}
			shown = shown[start : start+maxRows]
		}
		if start > 0 {
			b.WriteString(styleMuted().Render(fmt.Sprintf("↑ %d more", start)))
			b.WriteString("\n")
		}
		for i, ni := range shown {
			n := p.nodes[ni]
			line := truncate(fmt.Sprintf("%s  %d widgets", n.Name, n.WidgetCount), bodyW)
			if start+i == p.sel {
				line = lipgloss.NewStyle().
					Foreground(colorSelectedFg).
					Background(colorSelectedBg).
					Bold(true).
					Render(" " + line + " ")
			} else {
				line = " " + line + " "
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if rest := len(p.matches) - start - len(shown); rest > 0 {
			b.WriteString(styleMuted().Render(fmt.Sprintf("… %d more", rest)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleMuted().Render("enter: open   esc: cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(1, 2).
		Width(bodyW + 4)
	return box.Render(b.String())
}
