package model

// NumColumns is the fixed column count of a node layout.
const NumColumns = 3

// Layout is the board of a node: a fixed set of columns of widget entries.
// Column index is position, not identity; an entry's location is wherever it
// currently sits in the array, and no coordinates are stored on the entry.
type Layout struct {
	Columns [NumColumns][]Entry `json:"columns"`
}

// Clone deep-copies the layout so a confirmed snapshot is never aliased by an
// optimistic edit.
func (l Layout) Clone() Layout {
	var out Layout
	for i, col := range l.Columns {
		if col == nil {
			continue
		}
		out.Columns[i] = make([]Entry, len(col))
		for j, e := range col {
			out.Columns[i][j] = e.clone()
		}
	}
	return out
}

// Count returns the number of entries across all columns.
func (l Layout) Count() int {
	n := 0
	for _, col := range l.Columns {
		n += len(col)
	}
	return n
}

// IDs returns every entry id in column-major order.
func (l Layout) IDs() []string {
	ids := make([]string, 0, l.Count())
	for _, col := range l.Columns {
		for _, e := range col {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Node is a page in the tree: a name plus the widget layout shown on it.
type Node struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Layout Layout `json:"layout"`
}

// CollectionItem is one member of a collection, as shown inside a collection
// widget.
type CollectionItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Note  string `json:"note,omitempty"`
}

// TodoTask is one entry of the node-wide task list.
type TodoTask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Quote is a stored quotation with its favorite flag.
type Quote struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author,omitempty"`
	Favorite bool   `json:"favorite"`
}

// NodeInfo is the summary form of a node used by pickers and embedded
// sub-node widgets.
type NodeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WidgetCount int    `json:"widgetCount"`
}
