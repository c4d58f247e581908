// Package layout implements the board operations over a node's column layout:
// position lookup, bounds clamping, and the move/remove arithmetic that keeps
// entry order consistent across drags.
package layout

import (
	"nodeboard/internal/model"
)

// Position addresses one slot on the board. Col is a column index in
// [0, model.NumColumns); Row is an index into that column. For insertion
// targets Row may equal the column length (drop after the last entry).
type Position struct {
	Col int
	Row int
}

// Find returns the position of the entry with the given id.
func Find(l model.Layout, entryID string) (Position, bool) {
	if entryID == "" {
		return Position{}, false
	}
	for ci := range l.Columns {
		for ri := range l.Columns[ci] {
			if l.Columns[ci][ri].ID == entryID {
				return Position{Col: ci, Row: ri}, true
			}
		}
	}
	return Position{}, false
}

// Entry returns the entry at p, if p addresses an occupied slot.
func Entry(l model.Layout, p Position) (model.Entry, bool) {
	if p.Col < 0 || p.Col >= model.NumColumns {
		return model.Entry{}, false
	}
	if p.Row < 0 || p.Row >= len(l.Columns[p.Col]) {
		return model.Entry{}, false
	}
	return l.Columns[p.Col][p.Row], true
}

// Rows returns the number of entries in the given column, 0 for an
// out-of-range column.
func Rows(l model.Layout, col int) int {
	if col < 0 || col >= model.NumColumns {
		return 0
	}
	return len(l.Columns[col])
}

// Clamp pulls a selection position back into the occupied slots of the board.
// An empty column clamps the row to 0; Entry still reports false there.
func Clamp(l model.Layout, p Position) Position {
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col >= model.NumColumns {
		p.Col = model.NumColumns - 1
	}
	n := len(l.Columns[p.Col])
	if p.Row < 0 {
		p.Row = 0
	}
	if n == 0 {
		p.Row = 0
		return p
	}
	if p.Row >= n {
		p.Row = n - 1
	}
	return p
}

// ClampSlot pulls an insertion target into valid drop slots: rows run from 0
// to the column length inclusive, the last slot meaning "after the end".
func ClampSlot(l model.Layout, p Position) Position {
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col >= model.NumColumns {
		p.Col = model.NumColumns - 1
	}
	n := len(l.Columns[p.Col])
	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row > n {
		p.Row = n
	}
	return p
}

// Move relocates the entry at src to the drop slot dst and returns the new
// layout plus whether anything changed. dst is expressed against the board as
// displayed, before the source is taken out; moving later within the same
// column therefore inserts at dst.Row-1, since removing the source shifts the
// rows after it up by one. Dropping an entry onto its own slot, or onto the
// slot immediately after itself, leaves the board unchanged.
func Move(l model.Layout, src, dst Position) (model.Layout, bool) {
	if _, ok := Entry(l, src); !ok {
		return l, false
	}
	dst = ClampSlot(l, dst)

	if dst.Col == src.Col && (dst.Row == src.Row || dst.Row == src.Row+1) {
		return l, false
	}

	out := copyColumns(l)
	moved := out.Columns[src.Col][src.Row]
	out.Columns[src.Col] = deleteRow(out.Columns[src.Col], src.Row)

	row := dst.Row
	if dst.Col == src.Col && dst.Row > src.Row {
		row--
	}
	out.Columns[dst.Col] = insertRow(out.Columns[dst.Col], row, moved)
	return out, true
}

// Remove deletes the entry with the given id, compacting its column.
func Remove(l model.Layout, entryID string) (model.Layout, bool) {
	p, ok := Find(l, entryID)
	if !ok {
		return l, false
	}
	out := copyColumns(l)
	out.Columns[p.Col] = deleteRow(out.Columns[p.Col], p.Row)
	return out, true
}

// Append adds an entry at the end of the given column. Out-of-range columns
// clamp to the nearest edge.
func Append(l model.Layout, col int, e model.Entry) model.Layout {
	if col < 0 {
		col = 0
	}
	if col >= model.NumColumns {
		col = model.NumColumns - 1
	}
	out := copyColumns(l)
	out.Columns[col] = append(out.Columns[col], e)
	return out
}

// ShortestColumn returns the index of the column with the fewest entries,
// preferring the leftmost on ties. Used when a placement column is not
// specified.
func ShortestColumn(l model.Layout) int {
	best := 0
	for ci := 1; ci < model.NumColumns; ci++ {
		if len(l.Columns[ci]) < len(l.Columns[best]) {
			best = ci
		}
	}
	return best
}

// copyColumns gives every column a fresh backing array so a move never writes
// through to a layout value held elsewhere. Entry configs are shared; they are
// replaced, not mutated, on edit.
func copyColumns(l model.Layout) model.Layout {
	var out model.Layout
	for i, col := range l.Columns {
		if len(col) == 0 {
			continue
		}
		out.Columns[i] = make([]model.Entry, len(col))
		copy(out.Columns[i], col)
	}
	return out
}

func deleteRow(col []model.Entry, row int) []model.Entry {
	out := make([]model.Entry, 0, len(col)-1)
	out = append(out, col[:row]...)
	out = append(out, col[row+1:]...)
	return out
}

func insertRow(col []model.Entry, row int, e model.Entry) []model.Entry {
	if row < 0 {
		row = 0
	}
	if row > len(col) {
		row = len(col)
	}
	out := make([]model.Entry, 0, len(col)+1)
	out = append(out, col[:row]...)
	out = append(out, e)
	out = append(out, col[row:]...)
	return out
}
