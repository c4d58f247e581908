package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nodeboard/internal/drag"
	"nodeboard/internal/layout"
	"nodeboard/internal/model"
)

// detailState is the open-widget overlay. Collections and todo lists get an
// interactive sub-list driven by the same drag controller as the board, in a
// one-column scope; the remaining kinds render a markdown summary.
type detailState struct {
	entryID string
	drag    drag.Session
}

func (m *Model) openDetail(e model.Entry) {
	m.detail = &detailState{entryID: e.ID}
	m.modal = nil
}

func (m *Model) detailEntry() (model.Entry, bool) {
	if m.detail == nil {
		return model.Entry{}, false
	}
	p, ok := layout.Find(m.node.Layout, m.detail.entryID)
	if !ok {
		return model.Entry{}, false
	}
	return layout.Entry(m.node.Layout, p)
}

func subListIDs(e model.Entry, wc *widgetContent) []string {
	if wc == nil {
		return nil
	}
	switch e.Kind {
	case model.KindCollection:
		ids := make([]string, len(wc.items))
		for i, it := range wc.items {
			ids[i] = it.ID
		}
		return ids
	case model.KindTodo:
		ids := make([]string, len(wc.tasks))
		for i, t := range wc.tasks {
			ids[i] = t.ID
		}
		return ids
	}
	return nil
}

// updateDetail handles a key while the overlay is open.
func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	d := m.detail
	e, ok := m.detailEntry()
	if !ok {
		m.detail = nil
		return nil
	}
	wc := m.content[e.ID]
	ids := subListIDs(e, wc)

	switch msg.String() {
	case "esc", "q":
		if d.drag.Active() {
			d.drag.Cancel()
			return nil
		}
		m.detail = nil
		return nil
	case "j", "down":
		if d.drag.Active() {
			t, _ := d.drag.Target()
			d.drag.Hover(layout.Position{Row: min(t.Row+1, len(ids))})
			return nil
		}
		if wc != nil {
			wc.sel++
			wc.clampSel(len(ids))
		}
		return nil
	case "k", "up":
		if d.drag.Active() {
			t, _ := d.drag.Target()
			d.drag.Hover(layout.Position{Row: max(t.Row-1, 0)})
			return nil
		}
		if wc != nil {
			wc.sel--
			wc.clampSel(len(ids))
		}
		return nil
	case "g", " ":
		return m.subListGrab(e, wc, ids)
	case "r":
		if wc != nil {
			wc.loading = true
		}
		return m.mountCmd(e)
	}

	switch e.Kind {
	case model.KindTodo:
		switch msg.String() {
		case "enter", "t":
			if wc != nil && wc.sel < len(wc.tasks) {
				return m.toggleTaskCmd(e.ID, wc.tasks[wc.sel].ID)
			}
		case "a":
			m.openAddTask(e.ID)
		case "e":
			if wc != nil && wc.sel < len(wc.tasks) {
				task := wc.tasks[wc.sel]
				m.openEditTask(e.ID, task.ID, task.Text)
			}
		case "d":
			if wc != nil && wc.sel < len(wc.tasks) {
				return m.removeTaskCmd(e.ID, wc.tasks[wc.sel].ID)
			}
		}
	case model.KindCollection:
		switch msg.String() {
		case "n":
			if wc != nil && wc.sel < len(wc.items) {
				it := wc.items[wc.sel]
				m.openItemNote(e.ID, it.ID, it.Note)
			}
		case "y":
			if wc != nil && wc.sel < len(wc.items) && wc.items[wc.sel].URL != "" {
				return copyToClipboardCmd(wc.items[wc.sel].URL)
			}
		}
	}
	return nil
}

// subListGrab is the grab/drop toggle inside the overlay. The drop runs the
// board's move arithmetic on a one-column scope, applies the new order
// optimistically, and persists the moved id's 1-indexed position.
func (m *Model) subListGrab(e model.Entry, wc *widgetContent, ids []string) tea.Cmd {
	d := m.detail
	if wc == nil || len(ids) == 0 {
		return nil
	}
	if !d.drag.Active() {
		if wc.sel >= len(ids) {
			return nil
		}
		d.drag.Begin(layout.Position{Row: wc.sel}, ids[wc.sel])
		return nil
	}
	mv, ok := d.drag.Drop()
	if !ok {
		return nil
	}
	order, position, changed := subListReorder(ids, mv)
	if !changed {
		return nil
	}
	switch e.Kind {
	case model.KindCollection:
		wc.items = reorderByID(wc.items, order, func(it model.CollectionItem) string { return it.ID })
	case model.KindTodo:
		wc.tasks = reorderByID(wc.tasks, order, func(t model.TodoTask) string { return t.ID })
	}
	wc.sel = position - 1
	return m.reorderItemCmd(e, mv.EntryID, position)
}

// subListReorder maps the drop onto a synthetic one-column layout so the
// same-column no-op and decrement rules apply unchanged. position is the
// moved id's resulting 1-indexed row, the numbering the backend expects.
func subListReorder(ids []string, mv drag.Move) (order []string, position int, changed bool) {
	var l model.Layout
	for _, id := range ids {
		l.Columns[0] = append(l.Columns[0], model.Entry{ID: id})
	}
	moved, ok := layout.Move(l, mv.Src, mv.Dst)
	if !ok {
		return nil, 0, false
	}
	order = make([]string, 0, len(ids))
	for i, entry := range moved.Columns[0] {
		order = append(order, entry.ID)
		if entry.ID == mv.EntryID {
			position = i + 1
		}
	}
	return order, position, true
}

func reorderByID[T any](list []T, order []string, id func(T) string) []T {
	byID := make(map[string]T, len(list))
	for _, v := range list {
		byID[id(v)] = v
	}
	out := make([]T, 0, len(list))
	for _, key := range order {
		if v, ok := byID[key]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Sub-list persistence commands.

func (m *Model) reorderItemCmd(e model.Entry, itemID string, position int) tea.Cmd {
	client, entryID := m.client, e.ID
	op := "reorder items"
	if e.Kind == model.KindTodo {
		op = "reorder tasks"
	}
	return func() tea.Msg {
		if err := client.ReorderItem(context.Background(), entryID, itemID, position); err != nil {
			return subListFailedMsg{entryID: entryID, op: op, err: err}
		}
		return subListAckMsg{entryID: entryID}
	}
}

func (m *Model) toggleTaskCmd(entryID, taskID string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		tasks, err := client.ToggleTask(context.Background(), nodeID, taskID)
		if err != nil {
			return subListFailedMsg{entryID: entryID, op: "toggle task", err: err}
		}
		return tasksMsg{entryID: entryID, tasks: tasks}
	}
}

func (m *Model) addTaskCmd(entryID, text string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		tasks, err := client.AddTask(context.Background(), nodeID, text)
		if err != nil {
			return subListFailedMsg{entryID: entryID, op: "add task", err: err}
		}
		return tasksMsg{entryID: entryID, tasks: tasks}
	}
}

func (m *Model) editTaskCmd(entryID, taskID, text string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		tasks, err := client.EditTask(context.Background(), nodeID, taskID, text)
		if err != nil {
			return subListFailedMsg{entryID: entryID, op: "edit task", err: err}
		}
		return tasksMsg{entryID: entryID, tasks: tasks}
	}
}

func (m *Model) removeTaskCmd(entryID, taskID string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		tasks, err := client.RemoveTask(context.Background(), nodeID, taskID)
		if err != nil {
			return subListFailedMsg{entryID: entryID, op: "remove task", err: err}
		}
		return tasksMsg{entryID: entryID, tasks: tasks}
	}
}

func (m *Model) editItemNoteCmd(entryID, itemID, note string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.EditItemNote(context.Background(), entryID, itemID, note); err != nil {
			return subListFailedMsg{entryID: entryID, op: "edit item note", err: err}
		}
		return subListAckMsg{entryID: entryID}
	}
}

// renderDetail draws the overlay box.
func (m *Model) renderDetail(width int) string {
	e, ok := m.detailEntry()
	if !ok {
		return ""
	}
	wc := m.content[e.ID]

	bodyW := width - 10
	if bodyW > 64 {
		bodyW = 64
	}
	if bodyW < 28 {
		bodyW = 28
	}

	var lines []string
	switch e.Kind {
	case model.KindCollection:
		lines = m.detailItems(wc, bodyW)
	case model.KindTodo:
		lines = m.detailTasks(wc, bodyW)
	default:
		md := renderMarkdown(detailMarkdown(e, wc), bodyW)
		if md == "" {
			lines = []string{styleMuted().Render("(nothing to show)")}
		} else {
			lines = strings.Split(md, "\n")
		}
	}

	lines = append(lines, "", styleMuted().Render(detailHelp(e.Kind)))

	title := lipgloss.NewStyle().Bold(true).Render(kindLabel(e.Kind) + " · " + cardTitle(e))
	content := title + "\n\n" + strings.Join(lines, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(1, 2).
		Width(bodyW + 4)
	return box.Render(content)
}

func (m *Model) detailItems(wc *widgetContent, bodyW int) []string {
	if wc == nil || (wc.loading && len(wc.items) == 0) {
		return []string{styleMuted().Render("loading…")}
	}
	if wc.err != "" {
		return []string{lipgloss.NewStyle().Foreground(colorDanger).Render(truncate(wc.err, bodyW))}
	}
	if len(wc.items) == 0 {
		return []string{styleMuted().Render("(no items)")}
	}

	d := m.detail
	hover := -1
	if t, ok := d.drag.Target(); ok {
		hover = t.Row
	}
	marker := lipgloss.NewStyle().
		Foreground(colorDragBorder).
		Render(truncate("▶"+strings.Repeat("─", bodyW-1), bodyW))

	var lines []string
	for i, it := range wc.items {
		if i == hover {
			lines = append(lines, marker)
		}
		line := truncate(fmt.Sprintf("%2d. %s", i+1, it.Title), bodyW)
		switch {
		case d.drag.Active() && it.ID == d.drag.EntryID():
			line = lipgloss.NewStyle().Foreground(colorDragBorder).Bold(true).Render(line)
		case !d.drag.Active() && i == wc.sel:
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Bold(true).
				Render(line)
		}
		lines = append(lines, line)
		if it.URL != "" {
			lines = append(lines, styleMuted().Render(truncate("    "+it.URL, bodyW)))
		}
		if it.Note != "" {
			lines = append(lines, styleChrome().Render(truncate("    "+it.Note, bodyW)))
		}
	}
	if hover == len(wc.items) {
		lines = append(lines, marker)
	}
	return lines
}

func (m *Model) detailTasks(wc *widgetContent, bodyW int) []string {
	if wc == nil || (wc.loading && len(wc.tasks) == 0) {
		return []string{styleMuted().Render("loading…")}
	}
	if wc.err != "" {
		return []string{lipgloss.NewStyle().Foreground(colorDanger).Render(truncate(wc.err, bodyW))}
	}
	if len(wc.tasks) == 0 {
		return []string{styleMuted().Render("(no tasks)")}
	}

	d := m.detail
	hover := -1
	if t, ok := d.drag.Target(); ok {
		hover = t.Row
	}
	marker := lipgloss.NewStyle().
		Foreground(colorDragBorder).
		Render(truncate("▶"+strings.Repeat("─", bodyW-1), bodyW))

	var lines []string
	for i, t := range wc.tasks {
		if i == hover {
			lines = append(lines, marker)
		}
		box := "☐"
		if t.Done {
			box = "☑"
		}
		line := truncate(box+" "+t.Text, bodyW)
		switch {
		case d.drag.Active() && t.ID == d.drag.EntryID():
			line = lipgloss.NewStyle().Foreground(colorDragBorder).Bold(true).Render(line)
		case !d.drag.Active() && i == wc.sel:
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Bold(true).
				Render(line)
		case t.Done:
			line = styleMuted().Strikethrough(true).Render(line)
		}
		lines = append(lines, line)
	}
	if hover == len(wc.tasks) {
		lines = append(lines, marker)
	}
	return lines
}

func detailMarkdown(e model.Entry, wc *widgetContent) string {
	switch e.Kind {
	case model.KindNote:
		if e.Note != nil {
			return "# " + e.Note.Name
		}
	case model.KindImage:
		if e.Image != nil {
			var b strings.Builder
			b.WriteString("# " + e.Image.Title)
			if e.Image.URL != "" {
				b.WriteString("\n\n" + e.Image.URL)
			}
			return b.String()
		}
	case model.KindQuote:
		if wc == nil || wc.quote.Text == "" {
			return ""
		}
		md := "> " + wc.quote.Text
		if e.Quote != nil && e.Quote.Format == model.FormatStandard && wc.quote.Author != "" {
			md += "\n>\n> — " + wc.quote.Author
		}
		return md
	case model.KindSubnode:
		if wc == nil || wc.info.ID == "" {
			return ""
		}
		return fmt.Sprintf("# %s\n\n%d widgets", wc.info.Name, wc.info.WidgetCount)
	}
	return ""
}

func detailHelp(k model.Kind) string {
	switch k {
	case model.KindCollection:
		return "j/k: move   g: grab/drop   n: note   y: copy url   r: refresh   esc: close"
	case model.KindTodo:
		return "j/k: move   g: grab/drop   enter: toggle   a: add   e: edit   d: remove   esc: close"
	default:
		return "r: refresh   esc: close"
	}
}
