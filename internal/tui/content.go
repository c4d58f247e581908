package tui

import (
	"context"
	"math/rand"

	tea "github.com/charmbracelet/bubbletea"

	"nodeboard/internal/api"
	"nodeboard/internal/model"
)

// widgetContent is the live-fetched state behind one mounted widget. Which
// fields are populated depends on the entry kind.
type widgetContent struct {
	loading bool
	err     string

	items  []model.CollectionItem
	cursor int // shown item in individual display
	quote  model.Quote
	tasks  []model.TodoTask
	info   model.NodeInfo

	sel int // sub-list selection in the open-widget view
}

func (wc *widgetContent) advanceCursor(randomize bool) {
	if len(wc.items) == 0 {
		wc.cursor = 0
		return
	}
	if randomize {
		wc.cursor = rand.Intn(len(wc.items))
		return
	}
	wc.cursor = (wc.cursor + 1) % len(wc.items)
}

func (wc *widgetContent) clampSel(n int) {
	if wc.sel >= n {
		wc.sel = n - 1
	}
	if wc.sel < 0 {
		wc.sel = 0
	}
}

// mountCmd returns the initial fetch for an entry, nil for kinds with no live
// content (note, image, unknown).
func (m *Model) mountCmd(e model.Entry) tea.Cmd {
	switch e.Kind {
	case model.KindCollection:
		return fetchItemsCmd(m.client, e.ID)
	case model.KindQuote:
		return fetchQuoteCmd(m.client, e.ID)
	case model.KindTodo:
		return fetchTasksCmd(m.client, m.node.ID, e.ID)
	case model.KindSubnode:
		if e.Subnode != nil {
			return fetchInfoCmd(m.client, e.ID, e.Subnode.NodeID)
		}
	}
	return nil
}

// rotateCmd is the per-tick action of a rotating widget. An individual-display
// collection advances its cursor locally; everything else re-fetches.
func (m *Model) rotateCmd(e model.Entry) tea.Cmd {
	switch e.Kind {
	case model.KindCollection:
		cfg := e.Collection
		wc := m.content[e.ID]
		if cfg != nil && cfg.Display == model.DisplayIndividual && wc != nil && len(wc.items) > 0 {
			wc.advanceCursor(cfg.Randomize)
			return nil
		}
		return fetchItemsCmd(m.client, e.ID)
	case model.KindQuote:
		return fetchQuoteCmd(m.client, e.ID)
	case model.KindSubnode:
		if e.Subnode != nil {
			return fetchInfoCmd(m.client, e.ID, e.Subnode.NodeID)
		}
	}
	return nil
}

func fetchItemsCmd(c api.Client, entryID string) tea.Cmd {
	return func() tea.Msg {
		items, err := c.CollectionItems(context.Background(), entryID)
		if err != nil {
			return contentErrMsg{entryID: entryID, err: err}
		}
		return itemsMsg{entryID: entryID, items: items}
	}
}

func fetchQuoteCmd(c api.Client, entryID string) tea.Cmd {
	return func() tea.Msg {
		quote, err := c.GetAndSetQuote(context.Background(), entryID)
		if err != nil {
			return contentErrMsg{entryID: entryID, err: err}
		}
		return quoteMsg{entryID: entryID, quote: quote}
	}
}

func fetchTasksCmd(c api.Client, nodeID, entryID string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := c.TodoTasks(context.Background(), nodeID)
		if err != nil {
			return contentErrMsg{entryID: entryID, err: err}
		}
		return tasksMsg{entryID: entryID, tasks: tasks}
	}
}

func fetchInfoCmd(c api.Client, entryID, targetNodeID string) tea.Cmd {
	return func() tea.Msg {
		info, err := c.NodeInfo(context.Background(), targetNodeID)
		if err != nil {
			return contentErrMsg{entryID: entryID, err: err}
		}
		return nodeInfoMsg{entryID: entryID, info: info}
	}
}

// applyContentMsg folds a fetch result into the content map. Results for
// entries no longer on the board are dropped.
func (m *Model) applyContentMsg(msg tea.Msg) {
	switch msg := msg.(type) {
	case itemsMsg:
		if wc, ok := m.content[msg.entryID]; ok {
			wc.loading = false
			wc.err = ""
			wc.items = msg.items
			if wc.cursor >= len(wc.items) {
				wc.cursor = 0
			}
			wc.clampSel(len(wc.items))
		}
	case quoteMsg:
		if wc, ok := m.content[msg.entryID]; ok {
			wc.loading = false
			wc.err = ""
			wc.quote = msg.quote
		}
	case tasksMsg:
		if wc, ok := m.content[msg.entryID]; ok {
			wc.loading = false
			wc.err = ""
			wc.tasks = msg.tasks
			wc.clampSel(len(wc.tasks))
		}
	case nodeInfoMsg:
		if wc, ok := m.content[msg.entryID]; ok {
			wc.loading = false
			wc.err = ""
			wc.info = msg.info
		}
	case contentErrMsg:
		if wc, ok := m.content[msg.entryID]; ok {
			wc.loading = false
			wc.err = api.AsError(msg.err).Title
		}
	}
}
