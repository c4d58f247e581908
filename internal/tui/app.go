// Package tui renders a node's widget board as a three-column terminal
// dashboard: move and reorder widgets with a keyboard drag session, edit
// their settings in modals, and keep the server in sync optimistically.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"nodeboard/internal/api"
	"nodeboard/internal/cache"
	"nodeboard/internal/drag"
	"nodeboard/internal/layout"
	"nodeboard/internal/model"
)

// Model is the board program. The confirmed layout is the last known-good
// state, a cached snapshot until the server acknowledges one; mutations
// apply locally first and roll back to it when their save fails.
type Model struct {
	client api.Client
	store  *cache.Store
	log    *zap.Logger

	width  int
	height int

	node          model.Node
	confirmed     model.Layout
	confirmedName string
	wantID        string
	loaded        bool
	fromCache     bool

	stack []string // node ids behind the current one

	sel  layout.Position
	drag drag.Session

	content map[string]*widgetContent
	rotSeq  map[string]int

	modal  *modalState
	picker *pickerState
	detail *detailState

	toast    *toast
	toastSeq int

	keys     KeyMap
	helpView help.Model
	showHelp bool

	quitting bool
}

// Options configures New. A nil Cache disables snapshots; an empty NodeID
// resolves to the last opened node, then to the first node the server lists.
type Options struct {
	Client api.Client
	Cache  *cache.Store
	Logger *zap.Logger
	NodeID string
}

func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		client:   opts.Client,
		store:    opts.Cache,
		log:      log.Named("tui"),
		wantID:   opts.NodeID,
		content:  map[string]*widgetContent{},
		rotSeq:   map[string]int{},
		keys:     DefaultKeyMap(),
		helpView: help.New(),
	}
	if m.wantID == "" && m.store != nil {
		if id, err := m.store.LastNode(context.Background()); err == nil {
			m.wantID = id
		}
	}
	m.node.ID = m.wantID
	return m
}

// Run drives the board over the full terminal until quit.
func Run(m Model) error {
	applyColorProfilePreference()
	applyThemePreference()
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	if m.wantID == "" {
		return m.listNodesCmd()
	}
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, loadCachedCmd(m.store, m.wantID))
	}
	cmds = append(cmds, m.loadNodeCmd(m.wantID))
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.helpView.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case nodeLoadedMsg:
		if m.wantID != "" && msg.node.ID != m.wantID {
			return m, nil // stale fetch from before a switch
		}
		m.loaded = true
		m.fromCache = false
		m.node.ID = msg.node.ID
		m.node.Name = msg.node.Name
		m.confirmedName = msg.node.Name
		m.wantID = msg.node.ID
		var cmds []tea.Cmd
		if cmd := m.adoptLayout(msg.node.Layout, true); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.store != nil {
			cmds = append(cmds, setLastNodeCmd(m.store, msg.node.ID))
		}
		m.log.Info("node loaded",
			zap.String("node", msg.node.ID),
			zap.Int("widgets", msg.node.Layout.Count()))
		return m, tea.Batch(cmds...)

	case nodeLoadFailedMsg:
		if msg.nodeID != "" && m.wantID != "" && msg.nodeID != m.wantID {
			return m, nil
		}
		m.log.Warn("node load failed", zap.String("node", msg.nodeID), zap.Error(msg.err))
		cmd := m.showToast(toastText(msg.err), toastError)
		return m, cmd

	case cachedNodeMsg:
		if m.loaded || msg.snap.Node.ID != m.wantID {
			return m, nil
		}
		m.fromCache = true
		m.node = msg.snap.Node
		m.confirmedName = msg.snap.Node.Name
		// The snapshot is the rollback baseline until a live layout lands.
		m.confirmed = msg.snap.Node.Layout.Clone()
		cmd := m.adoptLayout(msg.snap.Node.Layout, false)
		return m, cmd

	case nodesListedMsg:
		if m.picker != nil {
			m.picker.setNodes(msg.nodes)
			return m, nil
		}
		if m.node.ID != "" {
			return m, nil
		}
		if len(msg.nodes) == 0 {
			cmd := m.showToast("No nodes on the server", toastWarn)
			return m, cmd
		}
		first := msg.nodes[0]
		m.wantID = first.ID
		m.node.ID = first.ID
		m.node.Name = first.Name
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, loadCachedCmd(m.store, first.ID))
		}
		cmds = append(cmds, m.loadNodeCmd(first.ID))
		return m, tea.Batch(cmds...)

	case layoutSavedMsg:
		adopt := m.adoptLayout(msg.layout, true)
		m.log.Debug("layout saved", zap.String("op", msg.op))
		var note tea.Cmd
		switch msg.op {
		case "add widget":
			note = m.showToast("Widget added", toastOK)
		case "remove widget":
			note = m.showToast("Widget removed", toastOK)
		}
		return m, tea.Batch(adopt, note)

	case saveFailedMsg:
		m.log.Warn("save failed", zap.String("op", msg.op), zap.Error(msg.err))
		var cmds []tea.Cmd
		if rollsBack(msg.op) {
			if cmd := m.adoptLayout(m.confirmed.Clone(), false); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		if msg.op == "rename node" {
			m.node.Name = m.confirmedName
		}
		if msg.op == "list nodes" && m.picker != nil {
			m.picker.loading = false
		}
		cmds = append(cmds, m.showToast(toastText(msg.err), toastError))
		return m, tea.Batch(cmds...)

	case editAckMsg:
		// Fold the acknowledged config into the confirmed layout so a later
		// rollback keeps it.
		if p, ok := layout.Find(m.node.Layout, msg.entryID); ok {
			if e, found := layout.Entry(m.node.Layout, p); found {
				if cp, okc := layout.Find(m.confirmed, msg.entryID); okc {
					m.confirmed.Columns[cp.Col][cp.Row] = e
				}
			}
		}
		m.log.Debug("widget settings saved", zap.String("entry", msg.entryID))
		var cmd tea.Cmd
		if m.store != nil {
			cmd = saveSnapshotCmd(m.store, m.node)
		}
		return m, cmd

	case renameAckMsg:
		m.confirmedName = msg.name
		var cmd tea.Cmd
		if m.store != nil {
			cmd = saveSnapshotCmd(m.store, m.node)
		}
		return m, cmd

	case itemsMsg, quoteMsg, tasksMsg, nodeInfoMsg, contentErrMsg:
		m.applyContentMsg(msg)
		return m, nil

	case subListAckMsg:
		m.log.Debug("sub-list write saved", zap.String("entry", msg.entryID))
		return m, nil

	case subListFailedMsg:
		m.log.Warn("sub-list write failed",
			zap.String("entry", msg.entryID),
			zap.String("op", msg.op),
			zap.Error(msg.err))
		var cmds []tea.Cmd
		// No confirmed copy of a sub-list exists, so reconcile by refetch.
		if p, ok := layout.Find(m.node.Layout, msg.entryID); ok {
			if e, found := layout.Entry(m.node.Layout, p); found {
				if wc := m.content[e.ID]; wc != nil {
					wc.loading = true
				}
				if cmd := m.mountCmd(e); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		cmds = append(cmds, m.showToast(toastText(msg.err), toastError))
		return m, tea.Batch(cmds...)

	case rotateMsg:
		cmd := m.handleRotate(msg)
		return m, cmd

	case toastClearMsg:
		m.clearToast(msg)
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.log.Warn("clipboard write failed", zap.Error(msg.err))
			cmd := m.showToast("Clipboard unavailable", toastWarn)
			return m, cmd
		}
		cmd := m.showToast("Copied", toastOK)
		return m, cmd

	case snapshotWrittenMsg:
		if msg.err != nil {
			m.log.Warn("snapshot write failed", zap.Error(msg.err))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var overlay string
	switch {
	case m.modal != nil:
		overlay = m.renderModal(m.width)
	case m.picker != nil:
		overlay = m.renderPicker(m.width)
	case m.detail != nil:
		overlay = m.renderDetail(m.width)
	case m.showHelp:
		overlay = m.renderHelp()
	}
	if overlay != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	header := m.renderHeader()
	status := m.renderStatus()
	boardH := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	board := m.renderBoard(m.width, boardH)
	return lipgloss.JoinVertical(lipgloss.Left, header, board, status)
}

// handleKey routes keys to whichever layer is on top.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.modal != nil {
		res, ok, cmd := m.updateModal(msg)
		if !ok {
			return m, cmd
		}
		applied := m.applyModal(res)
		return m, applied
	}
	if m.picker != nil {
		chosen, ok, cmd := m.updatePicker(msg)
		if !ok {
			return m, cmd
		}
		m.stack = nil
		sw := m.switchNode(chosen.ID)
		return m, sw
	}
	if m.detail != nil {
		cmd := m.updateDetail(msg)
		return m, cmd
	}
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}
	cmd := m.handleBoardKey(msg)
	return m, cmd
}

func (m *Model) handleBoardKey(msg tea.KeyMsg) tea.Cmd {
	// A live drag narrows the board to drag keys.
	if m.drag.Active() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveSel(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.moveSel(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.moveSel(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.moveSel(1, 0)
		case key.Matches(msg, m.keys.Grab):
			return m.grabOrDrop()
		case key.Matches(msg, m.keys.Cancel):
			m.drag.Cancel()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.moveSel(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveSel(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveSel(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveSel(1, 0)
	case key.Matches(msg, m.keys.Grab):
		return m.grabOrDrop()
	case key.Matches(msg, m.keys.Add):
		m.openAddKind()
	case key.Matches(msg, m.keys.Edit):
		if e, ok := layout.Entry(m.node.Layout, m.sel); ok {
			if e.Kind == model.KindTodo || !model.KnownKind(e.Kind) {
				return m.showToast("Nothing to configure", toastInfo)
			}
			m.openSettings(e.Kind, actionEdit, e)
		}
	case key.Matches(msg, m.keys.Remove):
		if e, ok := layout.Entry(m.node.Layout, m.sel); ok {
			m.openConfirmRemove(e)
		}
	case key.Matches(msg, m.keys.Open):
		if e, ok := layout.Entry(m.node.Layout, m.sel); ok {
			if e.Kind == model.KindSubnode && e.Subnode != nil {
				m.stack = append(m.stack, m.node.ID)
				return m.switchNode(e.Subnode.NodeID)
			}
			m.openDetail(e)
		}
	case key.Matches(msg, m.keys.Back):
		if n := len(m.stack); n > 0 {
			prev := m.stack[n-1]
			m.stack = m.stack[:n-1]
			return m.switchNode(prev)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Rename):
		m.openRenameNode()
	case key.Matches(msg, m.keys.Nodes):
		return m.openPicker()
	case key.Matches(msg, m.keys.YankID):
		if e, ok := layout.Entry(m.node.Layout, m.sel); ok {
			return copyToClipboardCmd(e.ID)
		}
	}
	return nil
}

// moveSel moves the selection, or the insertion target while dragging.
func (m *Model) moveSel(dc, dr int) {
	if m.drag.Active() {
		t, _ := m.drag.Target()
		t.Col += dc
		if t.Col < 0 {
			t.Col = 0
		}
		if t.Col >= model.NumColumns {
			t.Col = model.NumColumns - 1
		}
		t.Row += dr
		m.drag.Hover(layout.ClampSlot(m.node.Layout, t))
		return
	}
	p := m.sel
	p.Col += dc
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col >= model.NumColumns {
		p.Col = model.NumColumns - 1
	}
	p.Row += dr
	m.sel = layout.Clamp(m.node.Layout, p)
}

// grabOrDrop toggles the drag session. A drop on a no-op slot changes
// nothing and issues no save.
func (m *Model) grabOrDrop() tea.Cmd {
	if !m.drag.Active() {
		e, ok := layout.Entry(m.node.Layout, m.sel)
		if !ok {
			return nil
		}
		m.drag.Begin(m.sel, e.ID)
		return nil
	}
	mv, ok := m.drag.Drop()
	if !ok {
		return nil
	}
	next, changed := layout.Move(m.node.Layout, mv.Src, mv.Dst)
	if !changed {
		return nil
	}
	adopt := m.adoptLayout(next, false)
	if p, found := layout.Find(next, mv.EntryID); found {
		m.sel = p
	}
	return tea.Batch(adopt, m.changeLayoutCmd("move widget"))
}

// applyModal routes a submitted modal result. Each result fires exactly once;
// the modal slot is already clear.
func (m *Model) applyModal(res modalResult) tea.Cmd {
	switch res.purpose {
	case purposeSettings:
		if res.action == actionAdd {
			// The server assigns the id and the column, so adding is not
			// optimistic; the response layout brings the widget in.
			return m.addWidgetCmd(res.entry)
		}
		p, ok := layout.Find(m.node.Layout, res.entryID)
		if !ok {
			return nil
		}
		old, _ := layout.Entry(m.node.Layout, p)
		merged := mergeEntry(old, res.entry)
		m.node.Layout.Columns[p.Col][p.Row] = merged
		arm := m.armRotation(merged)
		return tea.Batch(arm, m.editWidgetCmd(merged))

	case purposeConfirmRemove:
		next, ok := layout.Remove(m.node.Layout, res.entryID)
		if !ok {
			return nil
		}
		adopt := m.adoptLayout(next, false)
		return tea.Batch(adopt, m.removeWidgetCmd(res.entryID))

	case purposeRenameNode:
		m.node.Name = res.text
		return m.renameNodeCmd(res.text)

	case purposeTaskText:
		if res.itemID == "" {
			return m.addTaskCmd(res.entryID, res.text)
		}
		return m.editTaskCmd(res.entryID, res.itemID, res.text)

	case purposeItemNote:
		if wc := m.content[res.entryID]; wc != nil {
			for i := range wc.items {
				if wc.items[i].ID == res.itemID {
					wc.items[i].Note = res.text
				}
			}
		}
		return m.editItemNoteCmd(res.entryID, res.itemID, res.text)
	}
	return nil
}

// mergeEntry carries the immutable reference ids of the existing entry into
// an edited config; the settings form never includes them on edit.
func mergeEntry(old, edited model.Entry) model.Entry {
	e := edited
	e.ID = old.ID
	e.Kind = old.Kind
	switch old.Kind {
	case model.KindCollection:
		if e.Collection != nil && old.Collection != nil {
			e.Collection.CollectionID = old.Collection.CollectionID
		}
	case model.KindImage:
		if e.Image != nil && old.Image != nil {
			e.Image.MediaID = old.Image.MediaID
		}
	case model.KindQuote:
		if e.Quote != nil && old.Quote != nil {
			e.Quote.QuoteID = old.Quote.QuoteID
		}
	case model.KindSubnode:
		if e.Subnode != nil && old.Subnode != nil {
			e.Subnode.NodeID = old.Subnode.NodeID
		}
	}
	return e
}

// adoptLayout installs a layout: it mounts entries that appeared, unmounts
// and disarms entries that left, re-arms changed rotations, and keeps the
// selection and drag session valid. confirmed marks server-acknowledged
// state, which also snapshots to the cache.
func (m *Model) adoptLayout(l model.Layout, confirmed bool) tea.Cmd {
	var cmds []tea.Cmd

	prev := map[string]model.Entry{}
	for _, col := range m.node.Layout.Columns {
		for _, e := range col {
			prev[e.ID] = e
		}
	}
	seen := map[string]bool{}
	for _, col := range l.Columns {
		for _, e := range col {
			seen[e.ID] = true
		}
	}
	for id := range m.content {
		if !seen[id] {
			m.disarmRotation(id)
			delete(m.content, id)
		}
	}

	m.node.Layout = l

	for _, col := range l.Columns {
		for _, e := range col {
			if _, mounted := m.content[e.ID]; !mounted {
				wc := &widgetContent{}
				m.content[e.ID] = wc
				if !model.KnownKind(e.Kind) {
					m.log.Warn("unknown widget kind",
						zap.String("kind", string(e.Kind)),
						zap.String("entry", e.ID))
				}
				if cmd := m.mountCmd(e); cmd != nil {
					wc.loading = true
					cmds = append(cmds, cmd)
				}
				if cmd := m.armRotation(e); cmd != nil {
					cmds = append(cmds, cmd)
				}
				continue
			}
			if old, ok := prev[e.ID]; ok && old.Rotation() != e.Rotation() {
				if cmd := m.armRotation(e); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
	}

	if m.drag.Active() {
		if _, ok := layout.Find(l, m.drag.EntryID()); !ok {
			m.drag.Cancel()
		}
	}
	m.sel = layout.Clamp(l, m.sel)

	if confirmed {
		m.confirmed = l.Clone()
		if m.store != nil {
			cmds = append(cmds, saveSnapshotCmd(m.store, m.node))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// switchNode loads another node, painting its cached snapshot first.
func (m *Model) switchNode(nodeID string) tea.Cmd {
	if nodeID == "" || nodeID == m.node.ID {
		return nil
	}
	m.wantID = nodeID
	m.loaded = false
	m.detail = nil
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, loadCachedCmd(m.store, nodeID))
	}
	cmds = append(cmds, m.loadNodeCmd(nodeID))
	return tea.Batch(cmds...)
}

// refresh re-fetches the node and every widget's live content.
func (m *Model) refresh() tea.Cmd {
	if m.node.ID == "" {
		return nil
	}
	cmds := []tea.Cmd{m.loadNodeCmd(m.node.ID)}
	for _, col := range m.node.Layout.Columns {
		for _, e := range col {
			if cmd := m.mountCmd(e); cmd != nil {
				if wc := m.content[e.ID]; wc != nil {
					wc.loading = true
				}
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}

// rollsBack reports whether a failed save reverts the board to the confirmed
// layout. Adds never applied locally and renames revert by name only.
func rollsBack(op string) bool {
	switch op {
	case "move widget", "remove widget", "edit widget":
		return true
	}
	return false
}

func toastText(err error) string {
	ae := api.AsError(err)
	if ae.Message != "" && ae.Message != ae.Title {
		return ae.Title + ": " + ae.Message
	}
	return ae.Title
}

// Persistence commands.

func (m *Model) loadNodeCmd(nodeID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		node, err := client.GetNode(context.Background(), nodeID)
		if err != nil {
			return nodeLoadFailedMsg{nodeID: nodeID, err: err}
		}
		return nodeLoadedMsg{node: node}
	}
}

func (m *Model) listNodesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		nodes, err := client.ListNodes(context.Background())
		if err != nil {
			return saveFailedMsg{op: "list nodes", err: err}
		}
		return nodesListedMsg{nodes: nodes}
	}
}

func (m *Model) changeLayoutCmd(op string) tea.Cmd {
	client, nodeID, l := m.client, m.node.ID, m.node.Layout.Clone()
	return func() tea.Msg {
		saved, err := client.ChangeLayout(context.Background(), nodeID, l)
		if err != nil {
			return saveFailedMsg{op: op, err: err}
		}
		return layoutSavedMsg{op: op, layout: saved}
	}
}

func (m *Model) addWidgetCmd(e model.Entry) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		saved, err := client.AddWidget(context.Background(), nodeID, e)
		if err != nil {
			return saveFailedMsg{op: "add widget", err: err}
		}
		return layoutSavedMsg{op: "add widget", layout: saved}
	}
}

func (m *Model) removeWidgetCmd(entryID string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		saved, err := client.RemoveWidget(context.Background(), nodeID, entryID)
		if err != nil {
			return saveFailedMsg{op: "remove widget", err: err}
		}
		return layoutSavedMsg{op: "remove widget", layout: saved}
	}
}

func (m *Model) editWidgetCmd(e model.Entry) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		if err := client.EditWidgetSettings(context.Background(), nodeID, e); err != nil {
			return saveFailedMsg{op: "edit widget", err: err}
		}
		return editAckMsg{entryID: e.ID}
	}
}

func (m *Model) renameNodeCmd(name string) tea.Cmd {
	client, nodeID := m.client, m.node.ID
	return func() tea.Msg {
		if err := client.RenameNode(context.Background(), nodeID, name); err != nil {
			return saveFailedMsg{op: "rename node", err: err}
		}
		return renameAckMsg{name: name}
	}
}

func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

// Cache commands.

func loadCachedCmd(store *cache.Store, nodeID string) tea.Cmd {
	return func() tea.Msg {
		snap, ok, err := store.LoadSnapshot(context.Background(), nodeID)
		if err != nil || !ok {
			return nil
		}
		return cachedNodeMsg{snap: snap}
	}
}

func saveSnapshotCmd(store *cache.Store, n model.Node) tea.Cmd {
	n.Layout = n.Layout.Clone()
	return func() tea.Msg {
		return snapshotWrittenMsg{err: store.SaveSnapshot(context.Background(), n)}
	}
}

func setLastNodeCmd(store *cache.Store, nodeID string) tea.Cmd {
	return func() tea.Msg {
		return snapshotWrittenMsg{err: store.SetLastNode(context.Background(), nodeID)}
	}
}

// Chrome.

func (m Model) renderHeader() string {
	name := m.node.Name
	if name == "" {
		name = "…"
	}
	left := lipgloss.NewStyle().Bold(true).Render(name)
	if m.fromCache {
		left += " " + styleMuted().Render("(cached)")
	}
	if len(m.stack) > 0 {
		left += " " + styleChrome().Render("⌫ back")
	}
	right := styleChrome().Render(fmt.Sprintf("%d widgets", m.node.Layout.Count()))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return normalizePane(left, m.width, 1)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderStatus() string {
	if t := m.renderToast(m.width); t != "" {
		return t
	}
	if m.drag.Active() {
		hint := "moving widget: h/j/k/l choose slot, g drop, esc cancel"
		return styleChrome().Render(truncate(hint, m.width))
	}
	return m.helpView.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderHelp() string {
	content := lipgloss.NewStyle().Bold(true).Render("Keys") + "\n\n" +
		m.helpView.FullHelpView(m.keys.FullHelp())
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(1, 2)
	return box.Render(content)
}
