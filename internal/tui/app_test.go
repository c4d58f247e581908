package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"nodeboard/internal/api"
	"nodeboard/internal/cache"
	"nodeboard/internal/model"
)

// runCmds executes pending commands and feeds their messages back into the
// model until the queue drains. Timer commands block until they fire, so
// anything that stays silent past the grace period is dropped.
func runCmds(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		ch := make(chan tea.Msg, 1)
		go func() { ch <- c() }()
		var msg tea.Msg
		select {
		case msg = <-ch:
		case <-time.After(100 * time.Millisecond):
			continue
		}
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, nc := m.Update(msg)
		m = next.(Model)
		if nc != nil {
			queue = append(queue, nc)
		}
	}
	return m
}

func press(m Model, r rune) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func pressType(m Model, typ tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: typ})
	return next.(Model), cmd
}

func newBoard(t *testing.T, f *api.Fake) Model {
	t.Helper()
	m := New(Options{Client: f})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// loadNode feeds the fake's current node state into the model and settles
// the resulting fetches.
func loadNode(t *testing.T, m Model, f *api.Fake) Model {
	t.Helper()
	next, cmd := m.Update(nodeLoadedMsg{node: f.Node()})
	return runCmds(t, next.(Model), cmd)
}

func noteEntry(name string) model.Entry {
	return model.Entry{
		ID:   model.NewID(),
		Kind: model.KindNote,
		Note: &model.NoteConfig{Name: name},
	}
}

func seedLayout(t *testing.T, f *api.Fake, l model.Layout) {
	t.Helper()
	if _, err := f.ChangeLayout(context.Background(), f.Node().ID, l); err != nil {
		t.Fatalf("seed layout: %v", err)
	}
}

func columnNames(l model.Layout, col int) []string {
	var names []string
	for _, e := range l.Columns[col] {
		if e.Note != nil {
			names = append(names, e.Note.Name)
		}
	}
	return names
}

func TestDragDropMovesAndSaves(t *testing.T) {
	f := api.NewFake()
	a, b, c := noteEntry("alpha"), noteEntry("beta"), noteEntry("gamma")
	var l model.Layout
	l.Columns[0] = []model.Entry{a, b}
	l.Columns[1] = []model.Entry{c}
	seedLayout(t, f, l)
	base := f.Calls("ChangeLayout")

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	// Grab alpha, hover past beta, drop at the end of the column.
	m, _ = press(m, 'g')
	if !m.drag.Active() {
		t.Fatalf("expected drag session after grab")
	}
	m, _ = press(m, 'j')
	m, _ = press(m, 'j')
	m, cmd := press(m, 'g')
	m = runCmds(t, m, cmd)

	if got := columnNames(m.node.Layout, 0); len(got) != 2 || got[0] != "beta" || got[1] != "alpha" {
		t.Fatalf("expected [beta alpha] in column 0, got=%v", got)
	}
	if got := f.Calls("ChangeLayout"); got != base+1 {
		t.Fatalf("expected one ChangeLayout call, got=%d", got-base)
	}
	// The server's response became the confirmed layout.
	if got := columnNames(m.confirmed, 0); len(got) != 2 || got[0] != "beta" {
		t.Fatalf("expected confirmed layout updated, got=%v", got)
	}
	if m.drag.Active() {
		t.Fatalf("expected drag session closed after drop")
	}
}

func TestDropOnOwnSlotIssuesNoSave(t *testing.T) {
	f := api.NewFake()
	a, b := noteEntry("alpha"), noteEntry("beta")
	var l model.Layout
	l.Columns[0] = []model.Entry{a, b}
	seedLayout(t, f, l)
	base := f.Calls("ChangeLayout")

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	// Drop straight back on the source slot.
	m, _ = press(m, 'g')
	m, cmd := press(m, 'g')
	m = runCmds(t, m, cmd)
	if got := f.Calls("ChangeLayout"); got != base {
		t.Fatalf("expected no save for same-slot drop, got %d extra", got-base)
	}

	// Drop on the slot directly after the grabbed widget: also a no-op.
	m, _ = press(m, 'g')
	m, _ = press(m, 'j')
	m, cmd = press(m, 'g')
	m = runCmds(t, m, cmd)
	if got := f.Calls("ChangeLayout"); got != base {
		t.Fatalf("expected no save for slot-after-self drop, got %d extra", got-base)
	}
	if got := columnNames(m.node.Layout, 0); got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("expected layout unchanged, got=%v", got)
	}
}

func TestSaveFailureRollsBackToConfirmed(t *testing.T) {
	f := api.NewFake()
	a, b := noteEntry("alpha"), noteEntry("beta")
	var l model.Layout
	l.Columns[0] = []model.Entry{a, b}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)
	f.FailWith("ChangeLayout", &api.Error{Code: api.CodeServer, Title: "Rejected", Message: "layout too old"})

	m, _ = press(m, 'g')
	m, _ = press(m, 'j')
	m, _ = press(m, 'j')
	m, cmd := press(m, 'g')
	m = runCmds(t, m, cmd)

	if got := columnNames(m.node.Layout, 0); got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("expected rollback to confirmed order, got=%v", got)
	}
	if m.toast == nil || m.toast.level != toastError {
		t.Fatalf("expected error toast after failed save, got=%#v", m.toast)
	}
	if !strings.Contains(m.toast.text, "Rejected") {
		t.Fatalf("expected toast to carry the server title, got=%q", m.toast.text)
	}
}

func TestCachedSessionSaveFailureRestoresSnapshot(t *testing.T) {
	f := api.NewFake()
	node := f.Node()
	a, b := noteEntry("alpha"), noteEntry("beta")
	snap := cache.Snapshot{Node: model.Node{ID: node.ID, Name: node.Name}}
	snap.Node.Layout.Columns[0] = []model.Entry{a, b}

	// Cached snapshot paints the board; the live fetch never lands.
	m := New(Options{Client: f, NodeID: node.ID})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	next, cmd := m.Update(cachedNodeMsg{snap: snap})
	m = runCmds(t, next.(Model), cmd)
	next, _ = m.Update(nodeLoadFailedMsg{nodeID: node.ID, err: errors.New("offline")})
	m = next.(Model)
	if !m.fromCache || m.node.Layout.Count() != 2 {
		t.Fatalf("cached session not set up: fromCache=%v widgets=%d", m.fromCache, m.node.Layout.Count())
	}

	f.FailWith("ChangeLayout", &api.Error{Code: api.CodeTransport, Title: "Connection failed", Message: "offline"})
	m, _ = press(m, 'g')
	m, _ = press(m, 'j')
	m, _ = press(m, 'j')
	m, cmd = press(m, 'g')
	m = runCmds(t, m, cmd)

	// The snapshot is the rollback baseline, not an empty board.
	if got := columnNames(m.node.Layout, 0); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("rollback should restore the cached layout, got=%v", got)
	}
	if got := columnNames(m.confirmed, 0); len(got) != 2 || got[0] != "alpha" {
		t.Fatalf("cached snapshot should stay the baseline, got=%v", got)
	}
	if m.toast == nil || m.toast.level != toastError {
		t.Fatalf("expected error toast after failed save, got=%#v", m.toast)
	}
}

func TestAddWidgetAdoptsServerLayout(t *testing.T) {
	f := api.NewFake()
	m := newBoard(t, f)
	m = loadNode(t, m, f)

	m, _ = press(m, 'a')
	if m.modal == nil || m.modal.purpose != purposeAddKind {
		t.Fatalf("expected add-kind modal, got=%#v", m.modal)
	}
	m, _ = press(m, 'j') // note is second in the kind menu
	m, _ = pressType(m, tea.KeyEnter)
	if m.modal == nil || m.modal.purpose != purposeSettings || m.modal.kind != model.KindNote {
		t.Fatalf("expected note settings modal, got=%#v", m.modal)
	}
	for _, r := range "crew" {
		m, _ = press(m, r)
	}
	m, cmd := pressType(m, tea.KeyEnter)
	if m.modal != nil {
		t.Fatalf("expected modal closed on submit")
	}
	// Nothing is on the board until the server answers with the new layout.
	if m.node.Layout.Count() != 0 {
		t.Fatalf("expected no optimistic insert for add, got %d entries", m.node.Layout.Count())
	}
	m = runCmds(t, m, cmd)

	if m.node.Layout.Count() != 1 {
		t.Fatalf("expected one widget after server response, got %d", m.node.Layout.Count())
	}
	added := m.node.Layout.Columns[0][0]
	if _, err := uuid.Parse(added.ID); err != nil {
		t.Fatalf("expected server-assigned uuid, got=%q", added.ID)
	}
	if added.Note == nil || added.Note.Name != "crew" {
		t.Fatalf("expected note config to survive the round trip, got=%#v", added.Note)
	}
	if m.confirmed.Count() != 1 {
		t.Fatalf("expected confirmed layout to include the widget")
	}
	if _, ok := m.content[added.ID]; !ok {
		t.Fatalf("expected the new widget to be mounted")
	}
}

func TestRemoveWidgetConfirmAndCleanup(t *testing.T) {
	f := api.NewFake()
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{a}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)
	seqBefore := m.rotSeq[a.ID]

	m, _ = press(m, 'd')
	if m.modal == nil || m.modal.purpose != purposeConfirmRemove {
		t.Fatalf("expected confirm modal, got=%#v", m.modal)
	}
	m, cmd := pressType(m, tea.KeyEnter)

	// Removal applies optimistically before the server answers.
	if m.node.Layout.Count() != 0 {
		t.Fatalf("expected optimistic removal, got %d entries", m.node.Layout.Count())
	}
	if _, ok := m.content[a.ID]; ok {
		t.Fatalf("expected widget content unmounted on removal")
	}
	if m.rotSeq[a.ID] == seqBefore {
		t.Fatalf("expected rotation generation bumped on unmount")
	}

	m = runCmds(t, m, cmd)
	if m.confirmed.Count() != 0 {
		t.Fatalf("expected confirmed layout without the widget")
	}
	if got := f.Node().Layout.Count(); got != 0 {
		t.Fatalf("expected server layout emptied, got %d", got)
	}
}

func TestRemoveDeclinedKeepsWidget(t *testing.T) {
	f := api.NewFake()
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{a}
	seedLayout(t, f, l)
	base := f.Calls("RemoveWidget")

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	m, _ = press(m, 'd')
	m, cmd := press(m, 'n')
	m = runCmds(t, m, cmd)
	if m.modal != nil {
		t.Fatalf("expected modal closed on decline")
	}
	if m.node.Layout.Count() != 1 {
		t.Fatalf("expected widget kept, got %d entries", m.node.Layout.Count())
	}
	if f.Calls("RemoveWidget") != base {
		t.Fatalf("expected no remove call on decline")
	}
}

func TestOpeningModalReplacesPendingOne(t *testing.T) {
	f := api.NewFake()
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{a}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	m, _ = press(m, 'R')
	if m.modal == nil || m.modal.purpose != purposeRenameNode {
		t.Fatalf("expected rename modal, got=%#v", m.modal)
	}
	for _, r := range "zed" {
		m, _ = press(m, r)
	}

	// A second open replaces the slot; the typed rename is gone with it.
	m.openConfirmRemove(a)
	if m.modal.purpose != purposeConfirmRemove {
		t.Fatalf("expected confirm modal after replacement, got=%#v", m.modal)
	}

	m, cmd := pressType(m, tea.KeyEsc)
	m = runCmds(t, m, cmd)
	if f.Calls("RenameNode") != 0 {
		t.Fatalf("expected the replaced rename modal to never fire")
	}
	if f.Calls("RemoveWidget") != 0 {
		t.Fatalf("expected the cancelled confirm modal to never fire")
	}
	if got := f.Node().Name; got != "Home" {
		t.Fatalf("expected node name untouched, got=%q", got)
	}
}

func TestEditSettingsOptimisticThenConfirmed(t *testing.T) {
	f := api.NewFake()
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{a}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	m, _ = press(m, 'e')
	if m.modal == nil || m.modal.purpose != purposeSettings {
		t.Fatalf("expected settings modal, got=%#v", m.modal)
	}
	m, _ = pressType(m, tea.KeyTab) // to the color cycler
	m, _ = press(m, 'l')            // amber -> green
	m, cmd := pressType(m, tea.KeyEnter)

	got := m.node.Layout.Columns[0][0]
	if got.Note == nil || got.Note.Color != 1 {
		t.Fatalf("expected optimistic color change, got=%#v", got.Note)
	}

	m = runCmds(t, m, cmd)
	cp := m.confirmed.Columns[0][0]
	if cp.Note == nil || cp.Note.Color != 1 {
		t.Fatalf("expected ack to fold the config into the confirmed layout, got=%#v", cp.Note)
	}
}

func TestEditSettingsFailureRollsBackConfig(t *testing.T) {
	f := api.NewFake()
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{a}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)
	f.FailWith("EditWidgetSettings", &api.Error{Code: api.CodeServer, Title: "Rejected"})

	m, _ = press(m, 'e')
	m, _ = pressType(m, tea.KeyTab)
	m, _ = press(m, 'l')
	m, cmd := pressType(m, tea.KeyEnter)
	m = runCmds(t, m, cmd)

	got := m.node.Layout.Columns[0][0]
	if got.Note == nil || got.Note.Color != 0 {
		t.Fatalf("expected config rolled back to confirmed, got=%#v", got.Note)
	}
	if m.toast == nil || m.toast.level != toastError {
		t.Fatalf("expected error toast, got=%#v", m.toast)
	}
}

func TestRenameNodeOptimisticWithRollback(t *testing.T) {
	f := api.NewFake()
	m := newBoard(t, f)
	m = loadNode(t, m, f)

	m, _ = press(m, 'R')
	for _, r := range "den" {
		m, _ = press(m, r)
	}
	m, cmd := pressType(m, tea.KeyEnter)
	if m.node.Name != "Homeden" && m.node.Name != "den" {
		// The rename field is prefilled with the current name.
		t.Fatalf("unexpected optimistic name %q", m.node.Name)
	}
	m = runCmds(t, m, cmd)
	if got := f.Node().Name; got != m.node.Name {
		t.Fatalf("expected server rename, got=%q vs local %q", got, m.node.Name)
	}

	f.FailWith("RenameNode", &api.Error{Code: api.CodeTransport, Title: "Network error"})
	confirmed := m.node.Name
	m, _ = press(m, 'R')
	for _, r := range "x" {
		m, _ = press(m, r)
	}
	m, cmd = pressType(m, tea.KeyEnter)
	m = runCmds(t, m, cmd)
	if m.node.Name != confirmed {
		t.Fatalf("expected name rolled back to %q, got=%q", confirmed, m.node.Name)
	}
}

func TestUnknownKindCountsAndRendersPlaceholder(t *testing.T) {
	f := api.NewFake()
	weird := model.Entry{ID: model.NewID(), Kind: model.Kind("weather")}
	a := noteEntry("alpha")
	var l model.Layout
	l.Columns[0] = []model.Entry{weird, a}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)

	out := m.View()
	if !strings.Contains(out, "unsupported widget kind") {
		t.Fatalf("expected placeholder card for unknown kind, got=%q", out)
	}
	// The entry still occupies a slot: alpha sits below it.
	m, _ = press(m, 'j')
	if e, ok := entryAt(m, 0, 1); !ok || e.ID != a.ID {
		t.Fatalf("expected known widget at row 1 below the placeholder")
	}
}

func entryAt(m Model, col, row int) (model.Entry, bool) {
	if row >= len(m.node.Layout.Columns[col]) {
		return model.Entry{}, false
	}
	return m.node.Layout.Columns[col][row], true
}

func TestSubnodeNavigationPushesAndPops(t *testing.T) {
	f := api.NewFake()
	den := model.Node{ID: model.NewID(), Name: "Den"}
	den.Layout.Columns[0] = []model.Entry{noteEntry("inner")}
	f.SeedNode(den)

	sub := model.Entry{
		ID:      model.NewID(),
		Kind:    model.KindSubnode,
		Subnode: &model.SubnodeConfig{NodeID: den.ID, Rotation: model.RotationNever},
	}
	var l model.Layout
	l.Columns[0] = []model.Entry{sub}
	seedLayout(t, f, l)

	m := newBoard(t, f)
	m = loadNode(t, m, f)
	home := m.node.ID

	m, cmd := pressType(m, tea.KeyEnter)
	m = runCmds(t, m, cmd)
	if m.node.ID != den.ID {
		t.Fatalf("expected to land on the referenced node, got=%q", m.node.ID)
	}
	if len(m.stack) != 1 || m.stack[0] != home {
		t.Fatalf("expected the home node on the stack, got=%v", m.stack)
	}

	m, cmd = pressType(m, tea.KeyBackspace)
	m = runCmds(t, m, cmd)
	if m.node.ID != home {
		t.Fatalf("expected back navigation to the home node, got=%q", m.node.ID)
	}
	if len(m.stack) != 0 {
		t.Fatalf("expected empty stack after back, got=%v", m.stack)
	}
}

func TestToastReplacementIgnoresStaleClear(t *testing.T) {
	f := api.NewFake()
	m := newBoard(t, f)

	_ = m.showToast("first", toastInfo)
	firstSeq := m.toastSeq
	_ = m.showToast("second", toastWarn)

	m.clearToast(toastClearMsg{seq: firstSeq})
	if m.toast == nil || m.toast.text != "second" {
		t.Fatalf("expected stale clear ignored, got=%#v", m.toast)
	}
	m.clearToast(toastClearMsg{seq: m.toastSeq})
	if m.toast != nil {
		t.Fatalf("expected current clear to remove the toast")
	}
}
