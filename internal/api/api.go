// Package api is the client side of the node server: typed operations over
// authenticated HTTP, form-encoded writes with a CSRF token, and a JSON
// envelope on every response. URLs are backend configuration, not part of the
// contract, so they live in Routes rather than in the method bodies.
package api

import (
	"context"

	"nodeboard/internal/model"
)

// Client is everything the board needs from the server. Structural mutations
// return the full updated layout, which callers must adopt verbatim; settings
// edits and renames are acknowledgement-only, with the caller keeping its
// optimistic state.
type Client interface {
	GetNode(ctx context.Context, nodeID string) (model.Node, error)
	ListNodes(ctx context.Context) ([]model.NodeInfo, error)
	RenameNode(ctx context.Context, nodeID, name string) error

	ChangeLayout(ctx context.Context, nodeID string, l model.Layout) (model.Layout, error)
	AddWidget(ctx context.Context, nodeID string, e model.Entry) (model.Layout, error)
	RemoveWidget(ctx context.Context, nodeID, entryID string) (model.Layout, error)
	EditWidgetSettings(ctx context.Context, nodeID string, e model.Entry) error

	CollectionItems(ctx context.Context, entryID string) ([]model.CollectionItem, error)
	GetAndSetQuote(ctx context.Context, entryID string) (model.Quote, error)
	TodoTasks(ctx context.Context, nodeID string) ([]model.TodoTask, error)
	NodeInfo(ctx context.Context, nodeID string) (model.NodeInfo, error)

	// ReorderItem moves one item inside a widget's own list. position is
	// 1-indexed, the row numbering the backend uses for sub-lists.
	ReorderItem(ctx context.Context, entryID, itemID string, position int) error
	AddTask(ctx context.Context, nodeID, text string) ([]model.TodoTask, error)
	RemoveTask(ctx context.Context, nodeID, taskID string) ([]model.TodoTask, error)
	ToggleTask(ctx context.Context, nodeID, taskID string) ([]model.TodoTask, error)
	EditTask(ctx context.Context, nodeID, taskID, text string) ([]model.TodoTask, error)
	EditItemNote(ctx context.Context, entryID, itemID, note string) error
}

// Routes maps each logical operation to its server path. Reads pass ids as
// query parameters, writes as form fields.
type Routes struct {
	Node         string
	Nodes        string
	NodeInfo     string
	RenameNode   string
	ChangeLayout string
	AddWidget    string
	RemoveWidget string
	EditWidget   string
	Items        string
	Quote        string
	Todo         string
	ReorderItem  string
	AddTask      string
	RemoveTask   string
	ToggleTask   string
	EditTask     string
	EditItemNote string
}

// DefaultRoutes returns the paths of the stock server.
func DefaultRoutes() Routes {
	return Routes{
		Node:         "/api/node",
		Nodes:        "/api/nodes",
		NodeInfo:     "/api/node/info",
		RenameNode:   "/api/node/rename",
		ChangeLayout: "/api/node/layout",
		AddWidget:    "/api/widget/add",
		RemoveWidget: "/api/widget/remove",
		EditWidget:   "/api/widget/edit",
		Items:        "/api/widget/items",
		Quote:        "/api/widget/quote",
		Todo:         "/api/node/todo",
		ReorderItem:  "/api/widget/items/reorder",
		AddTask:      "/api/node/todo/add",
		RemoveTask:   "/api/node/todo/remove",
		ToggleTask:   "/api/node/todo/toggle",
		EditTask:     "/api/node/todo/edit",
		EditItemNote: "/api/widget/items/note",
	}
}

func (r Routes) withDefaults() Routes {
	def := DefaultRoutes()
	if r.Node == "" {
		r.Node = def.Node
	}
	if r.Nodes == "" {
		r.Nodes = def.Nodes
	}
	if r.NodeInfo == "" {
		r.NodeInfo = def.NodeInfo
	}
	if r.RenameNode == "" {
		r.RenameNode = def.RenameNode
	}
	if r.ChangeLayout == "" {
		r.ChangeLayout = def.ChangeLayout
	}
	if r.AddWidget == "" {
		r.AddWidget = def.AddWidget
	}
	if r.RemoveWidget == "" {
		r.RemoveWidget = def.RemoveWidget
	}
	if r.EditWidget == "" {
		r.EditWidget = def.EditWidget
	}
	if r.Items == "" {
		r.Items = def.Items
	}
	if r.Quote == "" {
		r.Quote = def.Quote
	}
	if r.Todo == "" {
		r.Todo = def.Todo
	}
	if r.ReorderItem == "" {
		r.ReorderItem = def.ReorderItem
	}
	if r.AddTask == "" {
		r.AddTask = def.AddTask
	}
	if r.RemoveTask == "" {
		r.RemoveTask = def.RemoveTask
	}
	if r.ToggleTask == "" {
		r.ToggleTask = def.ToggleTask
	}
	if r.EditTask == "" {
		r.EditTask = def.EditTask
	}
	if r.EditItemNote == "" {
		r.EditItemNote = def.EditItemNote
	}
	return r
}
