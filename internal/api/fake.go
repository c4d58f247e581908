package api

import (
	"context"
	"fmt"
	"sync"

	"nodeboard/internal/layout"
	"nodeboard/internal/model"
)

// Fake is an in-memory Client with the stock server's semantics: mutations
// return the full updated layout, the add endpoint assigns entry ids and
// picks the shortest column, and the quote endpoint advances a cursor per
// widget. It backs tests and the offline demo mode.
type Fake struct {
	mu sync.Mutex

	node   model.Node
	extra  map[string]model.Node // read-only side nodes
	nodes  []model.NodeInfo
	items  map[string][]model.CollectionItem // entry id -> items
	quotes []model.Quote
	cursor map[string]int // entry id -> quote cursor
	tasks  []model.TodoTask

	calls map[string]int
	fail  map[string]error
}

var _ Client = (*Fake)(nil)

// NewFake returns a fake backing an empty three-column node.
func NewFake() *Fake {
	id := model.NewID()
	return &Fake{
		node:   model.Node{ID: id, Name: "Home"},
		extra:  map[string]model.Node{},
		nodes:  []model.NodeInfo{{ID: id, Name: "Home"}},
		items:  map[string][]model.CollectionItem{},
		cursor: map[string]int{},
		calls:  map[string]int{},
		fail:   map[string]error{},
	}
}

// SeedNode installs a second, read-only node the client can navigate to.
func (f *Fake) SeedNode(n model.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extra[n.ID] = n
	f.nodes = append(f.nodes, model.NodeInfo{ID: n.ID, Name: n.Name, WidgetCount: n.Layout.Count()})
}

// SeedQuotes installs the quote pool the quote endpoint cycles through.
func (f *Fake) SeedQuotes(quotes []model.Quote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes = append([]model.Quote(nil), quotes...)
}

// SeedItems installs the member items served for one collection widget.
func (f *Fake) SeedItems(entryID string, items []model.CollectionItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[entryID] = append([]model.CollectionItem(nil), items...)
}

// SeedTasks installs the node's todo list.
func (f *Fake) SeedTasks(tasks []model.TodoTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]model.TodoTask(nil), tasks...)
}

// SeedNodes installs extra nodes for the picker.
func (f *Fake) SeedNodes(nodes []model.NodeInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodes = append(f.nodes, nodes...)
}

// FailWith makes the named operation return err until cleared with nil.
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Calls reports how many times the named operation ran.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Node returns the current server-side node state.
func (f *Fake) Node() model.Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.node
	n.Layout = f.node.Layout.Clone()
	return n
}

func (f *Fake) enter(op string) error {
	f.calls[op]++
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *Fake) GetNode(_ context.Context, nodeID string) (model.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetNode"); err != nil {
		return model.Node{}, err
	}
	if nodeID != f.node.ID {
		if side, ok := f.extra[nodeID]; ok {
			side.Layout = side.Layout.Clone()
			return side, nil
		}
		return model.Node{}, serverError("Not found", fmt.Sprintf("no node %s", nodeID))
	}
	n := f.node
	n.Layout = f.node.Layout.Clone()
	return n, nil
}

func (f *Fake) ListNodes(_ context.Context) ([]model.NodeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListNodes"); err != nil {
		return nil, err
	}
	out := make([]model.NodeInfo, len(f.nodes))
	copy(out, f.nodes)
	for i := range out {
		if out[i].ID == f.node.ID {
			out[i].Name = f.node.Name
			out[i].WidgetCount = f.node.Layout.Count()
		}
	}
	return out, nil
}

func (f *Fake) RenameNode(_ context.Context, nodeID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RenameNode"); err != nil {
		return err
	}
	if nodeID == f.node.ID {
		f.node.Name = name
	}
	return nil
}

func (f *Fake) ChangeLayout(_ context.Context, nodeID string, l model.Layout) (model.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ChangeLayout"); err != nil {
		return model.Layout{}, err
	}
	if nodeID != f.node.ID {
		return model.Layout{}, serverError("Not found", fmt.Sprintf("no node %s", nodeID))
	}
	f.node.Layout = l.Clone()
	return f.node.Layout.Clone(), nil
}

func (f *Fake) AddWidget(_ context.Context, nodeID string, e model.Entry) (model.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AddWidget"); err != nil {
		return model.Layout{}, err
	}
	if nodeID != f.node.ID {
		return model.Layout{}, serverError("Not found", fmt.Sprintf("no node %s", nodeID))
	}
	e.ID = model.NewID()
	col := layout.ShortestColumn(f.node.Layout)
	f.node.Layout = layout.Append(f.node.Layout, col, e)
	return f.node.Layout.Clone(), nil
}

func (f *Fake) RemoveWidget(_ context.Context, nodeID, entryID string) (model.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RemoveWidget"); err != nil {
		return model.Layout{}, err
	}
	if nodeID != f.node.ID {
		return model.Layout{}, serverError("Not found", fmt.Sprintf("no node %s", nodeID))
	}
	next, ok := layout.Remove(f.node.Layout, entryID)
	if !ok {
		return model.Layout{}, serverError("Not found", fmt.Sprintf("no widget %s", entryID))
	}
	f.node.Layout = next
	return f.node.Layout.Clone(), nil
}

func (f *Fake) EditWidgetSettings(_ context.Context, nodeID string, e model.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("EditWidgetSettings"); err != nil {
		return err
	}
	if nodeID != f.node.ID {
		return serverError("Not found", fmt.Sprintf("no node %s", nodeID))
	}
	p, ok := layout.Find(f.node.Layout, e.ID)
	if !ok {
		return serverError("Not found", fmt.Sprintf("no widget %s", e.ID))
	}
	f.node.Layout.Columns[p.Col][p.Row] = e
	return nil
}

func (f *Fake) CollectionItems(_ context.Context, entryID string) ([]model.CollectionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CollectionItems"); err != nil {
		return nil, err
	}
	out := make([]model.CollectionItem, len(f.items[entryID]))
	copy(out, f.items[entryID])
	return out, nil
}

func (f *Fake) GetAndSetQuote(_ context.Context, entryID string) (model.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetAndSetQuote"); err != nil {
		return model.Quote{}, err
	}
	if len(f.quotes) == 0 {
		return model.Quote{}, serverError("No quotes", "the quote pool is empty")
	}
	i := f.cursor[entryID] % len(f.quotes)
	f.cursor[entryID] = i + 1
	return f.quotes[i], nil
}

func (f *Fake) TodoTasks(_ context.Context, nodeID string) ([]model.TodoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("TodoTasks"); err != nil {
		return nil, err
	}
	out := make([]model.TodoTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) NodeInfo(_ context.Context, nodeID string) (model.NodeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("NodeInfo"); err != nil {
		return model.NodeInfo{}, err
	}
	for _, info := range f.nodes {
		if info.ID == nodeID {
			if nodeID == f.node.ID {
				info.Name = f.node.Name
				info.WidgetCount = f.node.Layout.Count()
			}
			return info, nil
		}
	}
	return model.NodeInfo{}, serverError("Not found", fmt.Sprintf("no node %s", nodeID))
}

func (f *Fake) ReorderItem(_ context.Context, entryID, itemID string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ReorderItem"); err != nil {
		return err
	}
	if items, moved := reorderSlice(f.items[entryID], itemID, position,
		func(it model.CollectionItem) string { return it.ID }); moved {
		f.items[entryID] = items
		return nil
	}
	// A todo widget reorders its tasks through the same endpoint.
	if tasks, moved := reorderSlice(f.tasks, itemID, position,
		func(t model.TodoTask) string { return t.ID }); moved {
		f.tasks = tasks
		return nil
	}
	return serverError("Not found", fmt.Sprintf("no item %s", itemID))
}

func reorderSlice[T any](list []T, id string, position int, key func(T) string) ([]T, bool) {
	from := -1
	for i, v := range list {
		if key(v) == id {
			from = i
			break
		}
	}
	if from < 0 {
		return list, false
	}
	if position < 1 {
		position = 1
	}
	if position > len(list) {
		position = len(list)
	}
	moved := list[from]
	out := append(append([]T(nil), list[:from]...), list[from+1:]...)
	to := position - 1
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, true
}

func (f *Fake) AddTask(_ context.Context, nodeID, text string) ([]model.TodoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AddTask"); err != nil {
		return nil, err
	}
	f.tasks = append(f.tasks, model.TodoTask{ID: model.NewID(), Text: text})
	out := make([]model.TodoTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) RemoveTask(_ context.Context, nodeID, taskID string) ([]model.TodoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RemoveTask"); err != nil {
		return nil, err
	}
	kept := f.tasks[:0]
	for _, task := range f.tasks {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	f.tasks = kept
	out := make([]model.TodoTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) ToggleTask(_ context.Context, nodeID, taskID string) ([]model.TodoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ToggleTask"); err != nil {
		return nil, err
	}
	found := false
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Done = !f.tasks[i].Done
			found = true
			break
		}
	}
	if !found {
		return nil, serverError("Not found", fmt.Sprintf("no task %s", taskID))
	}
	out := make([]model.TodoTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) EditTask(_ context.Context, nodeID, taskID, text string) ([]model.TodoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("EditTask"); err != nil {
		return nil, err
	}
	found := false
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Text = text
			found = true
			break
		}
	}
	if !found {
		return nil, serverError("Not found", fmt.Sprintf("no task %s", taskID))
	}
	out := make([]model.TodoTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) EditItemNote(_ context.Context, entryID, itemID, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("EditItemNote"); err != nil {
		return err
	}
	items := f.items[entryID]
	for i := range items {
		if items[i].ID == itemID {
			items[i].Note = note
			return nil
		}
	}
	return serverError("Not found", fmt.Sprintf("no item %s", itemID))
}
