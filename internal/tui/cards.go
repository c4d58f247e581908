package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nodeboard/internal/model"
)

// Card rendering is a closed dispatch over the six widget kinds. Unknown
// kinds render a placeholder card; they were already logged when the layout
// was adopted.

const cardBodyLines = 6

func kindLabel(k model.Kind) string {
	switch k {
	case model.KindCollection:
		return "collection"
	case model.KindNote:
		return "note"
	case model.KindTodo:
		return "todo"
	case model.KindImage:
		return "image"
	case model.KindQuote:
		return "quote"
	case model.KindSubnode:
		return "node"
	default:
		return string(k)
	}
}

// cardTitle is the header line of a card.
func cardTitle(e model.Entry) string {
	switch e.Kind {
	case model.KindNote:
		if e.Note != nil && e.Note.Name != "" {
			return e.Note.Name
		}
		return "Note"
	case model.KindImage:
		if e.Image != nil && e.Image.Title != "" {
			return e.Image.Title
		}
		return "Image"
	case model.KindTodo:
		return "Todo"
	case model.KindQuote:
		return "Quote"
	case model.KindCollection:
		return "Collection"
	case model.KindSubnode:
		return "Sub-node"
	default:
		return "Widget"
	}
}

func (m *Model) renderCard(e model.Entry, width int, selected, grabbed bool) string {
	innerW := width - 4 // border + padding
	if innerW < 1 {
		innerW = 1
	}

	header := truncate(cardTitle(e), innerW)
	headerStyle := lipgloss.NewStyle().Bold(true)
	switch e.Kind {
	case model.KindNote:
		if e.Note != nil {
			headerStyle = headerStyle.Foreground(paletteColor(e.Note.Color))
		}
	case model.KindQuote:
		if e.Quote != nil {
			headerStyle = headerStyle.Foreground(paletteColor(e.Quote.Color))
		}
	}

	lines := []string{headerStyle.Render(header)}
	for _, ln := range m.cardBody(e, innerW) {
		lines = append(lines, truncate(ln, innerW))
	}
	if footer := cardFooter(e); footer != "" {
		lines = append(lines, styleMuted().Render(truncate(footer, innerW)))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1).
		Width(width - 2)
	if selected {
		border = border.BorderForeground(colorSelectedBorder)
	}
	if grabbed {
		border = border.BorderForeground(colorDragBorder)
	}
	return border.Render(strings.Join(lines, "\n"))
}

func (m *Model) cardBody(e model.Entry, w int) []string {
	wc := m.content[e.ID]
	if wc != nil && wc.loading {
		return []string{styleMuted().Render("loading…")}
	}
	if wc != nil && wc.err != "" {
		return []string{lipgloss.NewStyle().Foreground(colorDanger).Render(truncate(wc.err, w))}
	}

	switch e.Kind {
	case model.KindCollection:
		return collectionBody(e.Collection, wc, w)
	case model.KindNote:
		return noteBody(e.Note, w)
	case model.KindTodo:
		return todoBody(wc, w)
	case model.KindImage:
		return imageBody(e.Image, w)
	case model.KindQuote:
		return quoteBody(e.Quote, wc, w)
	case model.KindSubnode:
		return subnodeBody(wc, w)
	default:
		return []string{styleMuted().Render("unsupported widget kind")}
	}
}

func collectionBody(cfg *model.CollectionConfig, wc *widgetContent, w int) []string {
	if wc == nil || len(wc.items) == 0 {
		return []string{styleMuted().Render("(no items)")}
	}
	if cfg != nil && cfg.Display == model.DisplayIndividual {
		it := wc.items[wc.cursor%len(wc.items)]
		out := wrapText(it.Title, w)
		if it.URL != "" {
			out = append(out, styleMuted().Render(truncate(it.URL, w)))
		}
		out = append(out, styleMuted().Render(fmt.Sprintf("%d of %d", wc.cursor%len(wc.items)+1, len(wc.items))))
		return capLines(out, cardBodyLines)
	}

	limit := len(wc.items)
	if cfg != nil && cfg.Limit > 0 && cfg.Limit < limit {
		limit = cfg.Limit
	}
	shown := limit
	if shown > cardBodyLines-1 {
		shown = cardBodyLines - 1
	}
	out := make([]string, 0, shown+1)
	for _, it := range wc.items[:shown] {
		out = append(out, "• "+it.Title)
	}
	if limit > shown {
		out = append(out, styleMuted().Render(fmt.Sprintf("… %d more", limit-shown)))
	}
	return out
}

func noteBody(cfg *model.NoteConfig, w int) []string {
	if cfg == nil {
		return nil
	}
	bar := lipgloss.NewStyle().
		Foreground(paletteColor(cfg.Color)).
		Render(strings.Repeat("▔", min(w, 12)))
	return []string{bar}
}

func todoBody(wc *widgetContent, w int) []string {
	if wc == nil || len(wc.tasks) == 0 {
		return []string{styleMuted().Render("(no tasks)")}
	}
	done := 0
	for _, task := range wc.tasks {
		if task.Done {
			done++
		}
	}
	shown := len(wc.tasks)
	if shown > cardBodyLines-1 {
		shown = cardBodyLines - 1
	}
	out := make([]string, 0, shown+1)
	for _, task := range wc.tasks[:shown] {
		box := "☐"
		st := lipgloss.NewStyle()
		if task.Done {
			box = "☑"
			st = styleMuted().Strikethrough(true)
		}
		out = append(out, box+" "+st.Render(truncate(task.Text, w-2)))
	}
	out = append(out, styleMuted().Render(fmt.Sprintf("%d/%d done", done, len(wc.tasks))))
	return out
}

func imageBody(cfg *model.ImageConfig, w int) []string {
	if cfg == nil {
		return nil
	}
	out := []string{styleMuted().Render("[image]")}
	if cfg.URL != "" {
		out = append(out, styleChrome().Render(truncate(cfg.URL, w)))
	}
	return out
}

func quoteBody(cfg *model.QuoteConfig, wc *widgetContent, w int) []string {
	if wc == nil || wc.quote.Text == "" {
		return []string{styleMuted().Render("(no quote)")}
	}
	out := wrapText("“"+wc.quote.Text+"”", w)
	out = capLines(out, cardBodyLines-1)
	if cfg != nil && cfg.Format == model.FormatStandard && wc.quote.Author != "" {
		out = append(out, styleMuted().Render(truncate("— "+wc.quote.Author, w)))
	}
	return out
}

func subnodeBody(wc *widgetContent, w int) []string {
	if wc == nil || wc.info.ID == "" {
		return []string{styleMuted().Render("(loading node)")}
	}
	return []string{
		truncate(wc.info.Name, w),
		styleMuted().Render(fmt.Sprintf("%d widgets ↗", wc.info.WidgetCount)),
	}
}

// cardFooter shows the rotation period for rotating kinds.
func cardFooter(e model.Entry) string {
	r := e.Rotation()
	if r == model.RotationNever {
		return ""
	}
	return "↻ " + r.Label()
}

func capLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	out := append([]string(nil), lines[:n-1]...)
	return append(out, "…")
}
