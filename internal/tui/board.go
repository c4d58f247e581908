package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nodeboard/internal/model"
)

// renderBoard draws the three columns with the current selection, and the
// insertion marker while a widget is grabbed.
func (m *Model) renderBoard(width, height int) string {
	const gap = 2
	n := model.NumColumns
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 14 {
		colW = 14
	}

	rendered := make([]string, 0, n)
	for ci := 0; ci < n; ci++ {
		rendered = append(rendered, m.renderColumn(ci, colW, height))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < n; i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return normalizePane(out, width, height)
}

func (m *Model) renderColumn(ci, colW, height int) string {
	col := m.node.Layout.Columns[ci]

	head := fmt.Sprintf("col %d · %d", ci+1, len(col))
	headStyle := styleChrome()
	if !m.drag.Active() && ci == m.sel.Col {
		headStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	}
	header := headStyle.Render(truncate(head, colW))

	hoverRow := -1
	if t, ok := m.drag.Target(); ok && t.Col == ci {
		hoverRow = t.Row
	}

	marker := lipgloss.NewStyle().
		Foreground(colorDragBorder).
		Render(truncate("▶"+strings.Repeat("─", colW-2), colW))

	blocks := make([][]string, 0, len(col)+1)
	focus := -1
	for ri, e := range col {
		if ri == hoverRow {
			blocks = append(blocks, []string{marker})
			focus = len(blocks) - 1
		}
		selected := !m.drag.Active() && ci == m.sel.Col && ri == m.sel.Row
		grabbed := m.drag.Active() && e.ID == m.drag.EntryID()
		card := m.renderCard(e, colW, selected, grabbed)
		blocks = append(blocks, strings.Split(card, "\n"))
		if selected || grabbed {
			focus = len(blocks) - 1
		}
	}
	if hoverRow == len(col) {
		blocks = append(blocks, []string{marker})
		focus = len(blocks) - 1
	}

	if len(blocks) == 0 {
		body := styleMuted().Render("(empty)")
		return normalizePane(header+"\n\n"+body, colW, height)
	}

	lines := fitColumn(blocks, focus, height-1)
	return normalizePane(header+"\n"+strings.Join(lines, "\n"), colW, height)
}

// fitColumn flattens card blocks into at most height lines, scrolling whole
// blocks off the top until the focused block is fully visible.
func fitColumn(blocks [][]string, focus, height int) []string {
	if height < 1 {
		height = 1
	}
	start := 0
	for {
		total := 0
		focusEnd := 0
		for i := start; i < len(blocks); i++ {
			total += len(blocks[i])
			if i < len(blocks)-1 {
				total++ // blank line between blocks
			}
			if i == focus {
				focusEnd = total
			}
		}
		if focus < start || focusEnd <= height || start >= len(blocks)-1 {
			break
		}
		start++
	}

	lines := make([]string, 0, height)
	if start > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < len(blocks); i++ {
		lines = append(lines, blocks[i]...)
		if i < len(blocks)-1 {
			lines = append(lines, "")
		}
		if len(lines) >= height {
			break
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
