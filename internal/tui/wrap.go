package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and, when
// height > 0, exactly height lines. JoinHorizontal needs stable pane sizes.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			ln = truncate(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most width columns, ellipsized.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// wrapText word-wraps s to maxW columns. Single words wider than the pane are
// hard-cut.
func wrapText(s string, maxW int) []string {
	if maxW <= 0 {
		return []string{""}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}

	words := strings.Fields(s)
	lines := make([]string, 0, 4)
	cur := ""
	curW := 0
	for _, w := range words {
		wordW := xansi.StringWidth(w)
		for wordW > maxW {
			if cur != "" {
				lines = append(lines, cur)
				cur, curW = "", 0
			}
			lines = append(lines, xansi.Cut(w, 0, maxW))
			w = xansi.Cut(w, maxW, wordW)
			wordW = xansi.StringWidth(w)
		}
		switch {
		case cur == "":
			cur, curW = w, wordW
		case curW+1+wordW <= maxW:
			cur += " " + w
			curW += 1 + wordW
		default:
			lines = append(lines, cur)
			cur, curW = w, wordW
		}
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}
