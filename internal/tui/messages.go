package tui

import (
	"nodeboard/internal/cache"
	"nodeboard/internal/model"
)

// Node lifecycle.

type nodeLoadedMsg struct {
	node model.Node
}

type nodeLoadFailedMsg struct {
	nodeID string
	err    error
}

type cachedNodeMsg struct {
	snap cache.Snapshot
}

type nodesListedMsg struct {
	nodes []model.NodeInfo
}

// Persistence results. op names the operation for the log and the toast.

type layoutSavedMsg struct {
	op     string
	layout model.Layout
}

type saveFailedMsg struct {
	op  string
	err error
}

// Ack-only saves: settings edits and renames keep the optimistic state.

type editAckMsg struct {
	entryID string
}

type renameAckMsg struct {
	name string
}

// Widget content.

type itemsMsg struct {
	entryID string
	items   []model.CollectionItem
}

type quoteMsg struct {
	entryID string
	quote   model.Quote
}

type tasksMsg struct {
	entryID string
	tasks   []model.TodoTask
}

type nodeInfoMsg struct {
	entryID string
	info    model.NodeInfo
}

type contentErrMsg struct {
	entryID string
	err     error
}

// Sub-list writes from the detail overlay. A failure refetches the widget's
// content instead of rolling back; sub-lists keep no confirmed copy.

type subListAckMsg struct {
	entryID string
}

type subListFailedMsg struct {
	entryID string
	op      string
	err     error
}

// rotateMsg is a rotation timer firing. seq must match the entry's current
// generation or the tick is stale and dies.
type rotateMsg struct {
	entryID string
	seq     int
}

// Chrome.

type toastClearMsg struct {
	seq int
}

type clipboardMsg struct {
	err error
}

type snapshotWrittenMsg struct {
	err error
}
