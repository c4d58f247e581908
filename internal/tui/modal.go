package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"nodeboard/internal/model"
)

// The modal layer is a single slot: opening any modal replaces whatever was
// open, and the pending edit it carried is discarded with it. A modal's
// outcome is a plain modalResult value built at submit time; nothing holds a
// callback, so a result can only be produced (and applied) once.

type modalPurpose int

const (
	purposeAddKind modalPurpose = iota
	purposeSettings
	purposeConfirmRemove
	purposeRenameNode
	purposeTaskText
	purposeItemNote
)

type modalAction int

const (
	actionAdd modalAction = iota
	actionEdit
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
	fieldToggle
)

type modalField struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	options []string
	choice  int
	on      bool
}

type modalState struct {
	purpose modalPurpose
	action  modalAction
	title   string
	body    string
	kind    model.Kind
	entryID string
	itemID  string
	menuSel int
	fields  []modalField
	focus   int
	err     string
}

// modalResult is what a submitted modal hands back to the board.
type modalResult struct {
	purpose modalPurpose
	action  modalAction
	kind    model.Kind
	entryID string
	itemID  string
	entry   model.Entry
	text    string
}

var (
	rotationLabels = []string{"never", "1m", "5m", "10m", "30m", "1h", "24h"}
	colorLabels    = []string{"amber", "green", "blue", "violet"}
	displayLabels  = []string{"list", "individual"}
	formatLabels   = []string{"standard", "minimal"}
)

func rotationIndex(r model.Rotation) int {
	for i, p := range model.RotationPeriods {
		if p == r {
			return i
		}
	}
	return 0
}

func textField(label, value, placeholder string) modalField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.SetValue(value)
	in.CharLimit = 200
	in.Width = 36
	return modalField{label: label, kind: fieldText, input: in}
}

func choiceField(label string, options []string, selected int) modalField {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return modalField{label: label, kind: fieldChoice, options: options, choice: selected}
}

func toggleField(label string, on bool) modalField {
	return modalField{label: label, kind: fieldToggle, on: on}
}

// Openers. Each replaces the current modal wholesale.

func (m *Model) openAddKind() {
	m.modal = &modalState{purpose: purposeAddKind, title: "Add widget"}
}

func (m *Model) openSettings(kind model.Kind, action modalAction, e model.Entry) {
	st := &modalState{
		purpose: purposeSettings,
		action:  action,
		kind:    kind,
		entryID: e.ID,
	}
	if action == actionAdd {
		st.title = "Add " + kindLabel(kind)
	} else {
		st.title = "Edit " + kindLabel(kind)
	}

	switch kind {
	case model.KindCollection:
		cfg := model.CollectionConfig{Display: model.DisplayList, Rotation: model.RotationNever}
		if e.Collection != nil {
			cfg = *e.Collection
		}
		if action == actionAdd {
			st.fields = append(st.fields, textField("Collection id", "", "uuid"))
		}
		st.fields = append(st.fields,
			choiceField("Display", displayLabels, displayIndex(cfg.Display)),
			choiceField("Rotation", rotationLabels, rotationIndex(cfg.Rotation)),
			toggleField("Randomize", cfg.Randomize),
			textField("Item limit", limitValue(cfg.Limit), "0 = all"),
		)
	case model.KindNote:
		cfg := model.NoteConfig{}
		if e.Note != nil {
			cfg = *e.Note
		}
		st.fields = append(st.fields,
			textField("Name", cfg.Name, "note name"),
			choiceField("Color", colorLabels, cfg.Color),
		)
	case model.KindImage:
		cfg := model.ImageConfig{}
		if e.Image != nil {
			cfg = *e.Image
		}
		if action == actionAdd {
			st.fields = append(st.fields, textField("Media id", "", "uuid"))
		}
		st.fields = append(st.fields,
			textField("Title", cfg.Title, "title"),
			textField("URL", cfg.URL, "https://"),
		)
	case model.KindQuote:
		cfg := model.QuoteConfig{Format: model.FormatStandard, Rotation: model.RotationNever}
		if e.Quote != nil {
			cfg = *e.Quote
		}
		if action == actionAdd {
			st.fields = append(st.fields, textField("Quote id", "", "uuid"))
		}
		st.fields = append(st.fields,
			choiceField("Color", colorLabels, cfg.Color),
			choiceField("Rotation", rotationLabels, rotationIndex(cfg.Rotation)),
			choiceField("Format", formatLabels, formatIndex(cfg.Format)),
			toggleField("Favorites only", cfg.FavoritesOnly),
		)
	case model.KindSubnode:
		cfg := model.SubnodeConfig{Rotation: model.RotationNever}
		if e.Subnode != nil {
			cfg = *e.Subnode
		}
		if action == actionAdd {
			st.fields = append(st.fields, textField("Node id", "", "uuid"))
		}
		st.fields = append(st.fields,
			choiceField("Rotation", rotationLabels, rotationIndex(cfg.Rotation)),
		)
	}

	st.focusField(0)
	m.modal = st
}

func (m *Model) openConfirmRemove(e model.Entry) {
	m.modal = &modalState{
		purpose: purposeConfirmRemove,
		title:   "Remove widget",
		body:    fmt.Sprintf("Remove %s %q from this node?", kindLabel(e.Kind), cardTitle(e)),
		entryID: e.ID,
	}
}

func (m *Model) openRenameNode() {
	st := &modalState{purpose: purposeRenameNode, title: "Rename node"}
	st.fields = []modalField{textField("Name", m.node.Name, "node name")}
	st.focusField(0)
	m.modal = st
}

func (m *Model) openAddTask(entryID string) {
	st := &modalState{purpose: purposeTaskText, title: "Add task", entryID: entryID}
	st.fields = []modalField{textField("Task", "", "what needs doing")}
	st.focusField(0)
	m.modal = st
}

func (m *Model) openEditTask(entryID, taskID, current string) {
	st := &modalState{
		purpose: purposeTaskText,
		title:   "Edit task",
		entryID: entryID,
		itemID:  taskID,
	}
	st.fields = []modalField{textField("Task", current, "what needs doing")}
	st.focusField(0)
	m.modal = st
}

func (m *Model) openItemNote(entryID, itemID, current string) {
	st := &modalState{
		purpose: purposeItemNote,
		title:   "Item note",
		entryID: entryID,
		itemID:  itemID,
	}
	st.fields = []modalField{textField("Note", current, "note")}
	st.focusField(0)
	m.modal = st
}

func (st *modalState) focusField(i int) {
	if len(st.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(st.fields) - 1
	}
	if i >= len(st.fields) {
		i = 0
	}
	for fi := range st.fields {
		if st.fields[fi].kind == fieldText {
			st.fields[fi].input.Blur()
		}
	}
	st.focus = i
	if st.fields[i].kind == fieldText {
		st.fields[i].input.Focus()
	}
}

// updateModal handles a key while a modal is open. ok reports whether a
// result was produced; the modal is already closed by then.
func (m *Model) updateModal(msg tea.KeyMsg) (modalResult, bool, tea.Cmd) {
	st := m.modal

	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = nil
		return modalResult{}, false, nil
	}

	if st.purpose == purposeAddKind {
		switch msg.String() {
		case "j", "down":
			st.menuSel = (st.menuSel + 1) % len(model.Kinds)
		case "k", "up":
			st.menuSel = (st.menuSel + len(model.Kinds) - 1) % len(model.Kinds)
		case "enter":
			kind := model.Kinds[st.menuSel]
			if kind == model.KindTodo {
				// Nothing to configure; submit straight away.
				m.modal = nil
				return modalResult{
					purpose: purposeSettings,
					action:  actionAdd,
					kind:    model.KindTodo,
					entry:   model.Entry{Kind: model.KindTodo, Todo: &model.TodoConfig{}},
				}, true, nil
			}
			m.openSettings(kind, actionAdd, model.Entry{Kind: kind})
		}
		return modalResult{}, false, nil
	}

	if st.purpose == purposeConfirmRemove {
		switch msg.String() {
		case "enter", "y":
			res := modalResult{purpose: purposeConfirmRemove, entryID: st.entryID}
			m.modal = nil
			return res, true, nil
		case "n":
			m.modal = nil
		}
		return modalResult{}, false, nil
	}

	switch msg.String() {
	case "tab", "down":
		st.focusField(st.focus + 1)
		return modalResult{}, false, nil
	case "shift+tab", "up":
		st.focusField(st.focus - 1)
		return modalResult{}, false, nil
	case "enter":
		res, err := st.submit()
		if err != nil {
			st.err = err.Error()
			return modalResult{}, false, nil
		}
		m.modal = nil
		return res, true, nil
	}

	f := &st.fields[st.focus]
	switch f.kind {
	case fieldChoice:
		switch msg.String() {
		case "left", "h":
			f.choice = (f.choice + len(f.options) - 1) % len(f.options)
		case "right", "l", " ":
			f.choice = (f.choice + 1) % len(f.options)
		}
	case fieldToggle:
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			f.on = !f.on
		}
	case fieldText:
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return modalResult{}, false, cmd
	}
	return modalResult{}, false, nil
}

// submit validates the form and builds the result value.
func (st *modalState) submit() (modalResult, error) {
	res := modalResult{
		purpose: st.purpose,
		action:  st.action,
		kind:    st.kind,
		entryID: st.entryID,
		itemID:  st.itemID,
	}

	switch st.purpose {
	case purposeRenameNode, purposeTaskText, purposeItemNote:
		text := strings.TrimSpace(st.fields[0].input.Value())
		if st.purpose != purposeItemNote && text == "" {
			return modalResult{}, fmt.Errorf("a name is required")
		}
		res.text = text
		return res, nil
	case purposeSettings:
		e, err := st.buildEntry()
		if err != nil {
			return modalResult{}, err
		}
		res.entry = e
		return res, nil
	}
	return modalResult{}, fmt.Errorf("nothing to submit")
}

func (st *modalState) buildEntry() (model.Entry, error) {
	e := model.Entry{ID: st.entryID, Kind: st.kind}
	i := 0
	next := func() *modalField {
		f := &st.fields[i]
		i++
		return f
	}

	requireUUID := func(f *modalField, what string) (string, error) {
		v := strings.TrimSpace(f.input.Value())
		if _, err := uuid.Parse(v); err != nil {
			return "", fmt.Errorf("%s must be a uuid", what)
		}
		return v, nil
	}

	switch st.kind {
	case model.KindCollection:
		cfg := model.CollectionConfig{}
		if st.action == actionAdd {
			id, err := requireUUID(next(), "collection id")
			if err != nil {
				return model.Entry{}, err
			}
			cfg.CollectionID = id
		}
		cfg.Display = model.CollectionDisplay(displayLabels[next().choice])
		cfg.Rotation = model.RotationPeriods[next().choice]
		cfg.Randomize = next().on
		limitRaw := strings.TrimSpace(next().input.Value())
		if limitRaw != "" {
			limit, err := strconv.Atoi(limitRaw)
			if err != nil || limit < 0 {
				return model.Entry{}, fmt.Errorf("item limit must be a non-negative number")
			}
			cfg.Limit = limit
		}
		e.Collection = &cfg
	case model.KindNote:
		cfg := model.NoteConfig{}
		cfg.Name = strings.TrimSpace(next().input.Value())
		if cfg.Name == "" {
			return model.Entry{}, fmt.Errorf("a name is required")
		}
		cfg.Color = next().choice
		e.Note = &cfg
	case model.KindImage:
		cfg := model.ImageConfig{}
		if st.action == actionAdd {
			id, err := requireUUID(next(), "media id")
			if err != nil {
				return model.Entry{}, err
			}
			cfg.MediaID = id
		}
		cfg.Title = strings.TrimSpace(next().input.Value())
		cfg.URL = strings.TrimSpace(next().input.Value())
		e.Image = &cfg
	case model.KindQuote:
		cfg := model.QuoteConfig{}
		if st.action == actionAdd {
			id, err := requireUUID(next(), "quote id")
			if err != nil {
				return model.Entry{}, err
			}
			cfg.QuoteID = id
		}
		cfg.Color = next().choice
		cfg.Rotation = model.RotationPeriods[next().choice]
		cfg.Format = model.QuoteFormat(formatLabels[next().choice])
		cfg.FavoritesOnly = next().on
		e.Quote = &cfg
	case model.KindSubnode:
		cfg := model.SubnodeConfig{}
		if st.action == actionAdd {
			id, err := requireUUID(next(), "node id")
			if err != nil {
				return model.Entry{}, err
			}
			cfg.NodeID = id
		}
		cfg.Rotation = model.RotationPeriods[next().choice]
		e.Subnode = &cfg
	case model.KindTodo:
		e.Todo = &model.TodoConfig{}
	}
	return e, nil
}

func displayIndex(d model.CollectionDisplay) int {
	if d == model.DisplayIndividual {
		return 1
	}
	return 0
}

func formatIndex(f model.QuoteFormat) int {
	if f == model.FormatMinimal {
		return 1
	}
	return 0
}

func limitValue(limit int) string {
	if limit == 0 {
		return ""
	}
	return strconv.Itoa(limit)
}

// renderModal draws the open modal box.
func (m *Model) renderModal(width int) string {
	st := m.modal
	bodyW := width - 8
	if bodyW > 52 {
		bodyW = 52
	}
	if bodyW < 20 {
		bodyW = 20
	}

	var lines []string
	switch st.purpose {
	case purposeAddKind:
		for i, k := range model.Kinds {
			label := kindLabel(k)
			if i == st.menuSel {
				lines = append(lines, lipgloss.NewStyle().
					Foreground(colorSelectedFg).
					Background(colorSelectedBg).
					Bold(true).
					Render(" "+label+" "))
				continue
			}
			lines = append(lines, " "+label+" ")
		}
		lines = append(lines, "", styleMuted().Render("enter: choose   esc: cancel"))
	case purposeConfirmRemove:
		lines = append(lines, wrapText(st.body, bodyW)...)
		lines = append(lines, "", styleMuted().Render("enter/y: remove   n/esc: keep"))
	default:
		for i, f := range st.fields {
			label := f.label + ":"
			if i == st.focus {
				label = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(label)
			} else {
				label = styleChrome().Render(label)
			}
			var value string
			switch f.kind {
			case fieldText:
				value = f.input.View()
			case fieldChoice:
				value = "◀ " + f.options[f.choice] + " ▶"
			case fieldToggle:
				if f.on {
					value = "[x]"
				} else {
					value = "[ ]"
				}
			}
			lines = append(lines, label+" "+value)
		}
		if st.err != "" {
			lines = append(lines, "", lipgloss.NewStyle().Foreground(colorDanger).Render(truncate(st.err, bodyW)))
		}
		lines = append(lines, "", styleMuted().Render("tab: next   enter: save   esc: cancel"))
	}

	title := lipgloss.NewStyle().Bold(true).Render(st.title)
	content := title + "\n\n" + strings.Join(lines, "\n")

	// No nested borders: some terminals show background artifacts when
	// bordered components stack inside a filled modal.
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(1, 2).
		Width(bodyW + 4)
	return box.Render(content)
}
