package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The board must stay readable on both light and dark terminals, so every
// color is an AdaptiveColor pair and "faint" styling is reserved for dark
// backgrounds, where it does not wash out.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorChrome  lipgloss.TerminalColor = ac("240", "245")
	colorAccent  lipgloss.TerminalColor = ac("27", "75") // blue
	colorDanger  lipgloss.TerminalColor = ac("124", "203")
	colorWarning lipgloss.TerminalColor = ac("130", "214")
	colorOK      lipgloss.TerminalColor = ac("28", "78")

	colorSelectedBg     lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg     lipgloss.TerminalColor = ac("235", "255")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorDragBorder     lipgloss.TerminalColor = ac("27", "75")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
)

// notePalette maps the four enumerated note/quote color slots to terminal
// colors. Slot order matches the server's palette.
var notePalette = [4]lipgloss.TerminalColor{
	ac("94", "179"), // amber
	ac("22", "114"), // green
	ac("25", "111"), // blue
	ac("90", "176"), // violet
}

func paletteColor(slot int) lipgloss.TerminalColor {
	if slot < 0 || slot >= len(notePalette) {
		return notePalette[0]
	}
	return notePalette[slot]
}

// applyColorProfilePreference sets the color profile for the interactive
// board. termenv.EnvColorProfile honors CLICOLOR, which is meant for
// non-interactive output and can strip a TUI of its colors, so only NO_COLOR
// is honored here; beyond that the terminal's capabilities decide, with TERM
// and COLORTERM trusted when they claim more than the detector found.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference fixes the background guess AdaptiveColor depends on.
// Terminals that do not answer the background query would otherwise get the
// wrong palette half.
//
// Priority: NODEBOARD_THEME=light|dark|auto, then NODEBOARD_DARKBG=bool, then
// the COLORFGBG convention ("fg;bg", last segment is the background).
func applyThemePreference() {
	if v := strings.TrimSpace(os.Getenv("NODEBOARD_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}
	if v := strings.TrimSpace(os.Getenv("NODEBOARD_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
			return
		}
	}
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChrome)
}
