package layout

import (
	"reflect"
	"testing"

	"nodeboard/internal/model"
)

func boardOf(cols ...[]string) model.Layout {
	var l model.Layout
	for i, ids := range cols {
		if i >= model.NumColumns {
			break
		}
		for _, id := range ids {
			l.Columns[i] = append(l.Columns[i], model.Entry{
				ID:   id,
				Kind: model.KindTodo,
				Todo: &model.TodoConfig{},
			})
		}
	}
	return l
}

func columnIDs(l model.Layout, col int) []string {
	ids := make([]string, 0, len(l.Columns[col]))
	for _, e := range l.Columns[col] {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestMoveSameColumnToLaterRow(t *testing.T) {
	l := boardOf([]string{"A", "B", "C", "D"})
	got, changed := Move(l, Position{0, 0}, Position{0, 3})
	if !changed {
		t.Fatalf("expected move to change the layout")
	}
	want := []string{"B", "C", "A", "D"}
	if !reflect.DeepEqual(columnIDs(got, 0), want) {
		t.Fatalf("move 0->3: want %v, got %v", want, columnIDs(got, 0))
	}
}

func TestMoveSameColumnToEarlierRow(t *testing.T) {
	l := boardOf([]string{"A", "B", "C", "D"})
	got, changed := Move(l, Position{0, 3}, Position{0, 0})
	if !changed {
		t.Fatalf("expected move to change the layout")
	}
	want := []string{"D", "A", "B", "C"}
	if !reflect.DeepEqual(columnIDs(got, 0), want) {
		t.Fatalf("move 3->0: want %v, got %v", want, columnIDs(got, 0))
	}
}

func TestMoveToOwnSlotIsNoOp(t *testing.T) {
	l := boardOf([]string{"A", "B", "C"})
	got, changed := Move(l, Position{0, 1}, Position{0, 1})
	if changed {
		t.Fatalf("drop on own slot must not change the layout")
	}
	if !reflect.DeepEqual(columnIDs(got, 0), []string{"A", "B", "C"}) {
		t.Fatalf("layout mutated on no-op: %v", columnIDs(got, 0))
	}
}

func TestMoveToSlotAfterSelfIsNoOp(t *testing.T) {
	l := boardOf([]string{"A", "B", "C"})
	_, changed := Move(l, Position{0, 1}, Position{0, 2})
	if changed {
		t.Fatalf("drop on the slot immediately after self must be a no-op")
	}
}

func TestMoveCrossColumnKeepsTargetRow(t *testing.T) {
	l := boardOf([]string{"A", "B"}, []string{"X", "Y"})
	got, changed := Move(l, Position{0, 0}, Position{1, 1})
	if !changed {
		t.Fatalf("expected move to change the layout")
	}
	if !reflect.DeepEqual(columnIDs(got, 0), []string{"B"}) {
		t.Fatalf("source column: %v", columnIDs(got, 0))
	}
	if !reflect.DeepEqual(columnIDs(got, 1), []string{"X", "A", "Y"}) {
		t.Fatalf("cross-column insert must not decrement: %v", columnIDs(got, 1))
	}
}

func TestMoveToEndOfColumn(t *testing.T) {
	l := boardOf([]string{"A", "B", "C"}, []string{"X"})

	// Same column: slot len(col) means after the last entry.
	got, changed := Move(l, Position{0, 0}, Position{0, 3})
	if !changed || !reflect.DeepEqual(columnIDs(got, 0), []string{"B", "C", "A"}) {
		t.Fatalf("move to end of own column: %v", columnIDs(got, 0))
	}

	got, changed = Move(l, Position{0, 0}, Position{1, 1})
	if !changed || !reflect.DeepEqual(columnIDs(got, 1), []string{"X", "A"}) {
		t.Fatalf("move to end of other column: %v", columnIDs(got, 1))
	}
}

func TestMoveToEmptyColumn(t *testing.T) {
	l := boardOf([]string{"A", "B"})
	got, changed := Move(l, Position{0, 1}, Position{2, 0})
	if !changed {
		t.Fatalf("expected move to change the layout")
	}
	if !reflect.DeepEqual(columnIDs(got, 2), []string{"B"}) {
		t.Fatalf("empty column after move: %v", columnIDs(got, 2))
	}
	if got.Count() != 2 {
		t.Fatalf("entry count changed: %d", got.Count())
	}
}

func TestMoveInvalidSource(t *testing.T) {
	l := boardOf([]string{"A"})
	if _, changed := Move(l, Position{0, 5}, Position{1, 0}); changed {
		t.Fatalf("out-of-range source must not move anything")
	}
	if _, changed := Move(l, Position{-1, 0}, Position{1, 0}); changed {
		t.Fatalf("negative column must not move anything")
	}
}

// Every valid (src, dst) pair must preserve the multiset of entries and the
// relative order of everything except the moved entry.
func TestMoveAllPairsPreserveOrderAndMultiset(t *testing.T) {
	base := boardOf([]string{"A", "B", "C"}, []string{"D"}, nil)

	for sc := 0; sc < model.NumColumns; sc++ {
		for sr := 0; sr < Rows(base, sc); sr++ {
			for dc := 0; dc < model.NumColumns; dc++ {
				for dr := 0; dr <= Rows(base, dc); dr++ {
					src := Position{sc, sr}
					dst := Position{dc, dr}
					moved, ok := Entry(base, src)
					if !ok {
						t.Fatalf("fixture: no entry at %+v", src)
					}
					got, _ := Move(base, src, dst)

					if got.Count() != base.Count() {
						t.Fatalf("move %+v->%+v lost or created entries: %d", src, dst, got.Count())
					}
					seen := map[string]int{}
					for _, id := range got.IDs() {
						seen[id]++
					}
					for _, id := range base.IDs() {
						if seen[id] != 1 {
							t.Fatalf("move %+v->%+v: entry %q appears %d times", src, dst, id, seen[id])
						}
					}
					for col := 0; col < model.NumColumns; col++ {
						before := without(columnIDs(base, col), moved.ID)
						after := without(columnIDs(got, col), moved.ID)
						if !reflect.DeepEqual(before, after) {
							t.Fatalf("move %+v->%+v disturbed column %d: before %v after %v",
								src, dst, col, before, after)
						}
					}
				}
			}
		}
	}
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	l := boardOf([]string{"A", "B", "C"})
	_, changed := Move(l, Position{0, 2}, Position{0, 0})
	if !changed {
		t.Fatalf("expected move to change the layout")
	}
	if !reflect.DeepEqual(columnIDs(l, 0), []string{"A", "B", "C"}) {
		t.Fatalf("input layout mutated: %v", columnIDs(l, 0))
	}
}

func TestRemoveCompactsColumn(t *testing.T) {
	l := boardOf([]string{"A", "B", "C"}, []string{"X"})
	got, ok := Remove(l, "B")
	if !ok {
		t.Fatalf("expected removal of B")
	}
	if !reflect.DeepEqual(columnIDs(got, 0), []string{"A", "C"}) {
		t.Fatalf("column not compacted: %v", columnIDs(got, 0))
	}
	if got.Count() != l.Count()-1 {
		t.Fatalf("count: want %d, got %d", l.Count()-1, got.Count())
	}

	if _, ok := Remove(l, "missing"); ok {
		t.Fatalf("removing an absent id must report false")
	}
}

func TestFindAndEntry(t *testing.T) {
	l := boardOf([]string{"A"}, nil, []string{"B", "C"})
	p, ok := Find(l, "C")
	if !ok || p != (Position{2, 1}) {
		t.Fatalf("find C: %+v %v", p, ok)
	}
	if _, ok := Find(l, ""); ok {
		t.Fatalf("empty id must not be found")
	}
	e, ok := Entry(l, p)
	if !ok || e.ID != "C" {
		t.Fatalf("entry at %+v: %+v %v", p, e, ok)
	}
	if _, ok := Entry(l, Position{1, 0}); ok {
		t.Fatalf("empty column has no entry at row 0")
	}
}

func TestClamp(t *testing.T) {
	l := boardOf([]string{"A", "B"}, nil)
	if got := Clamp(l, Position{-2, 9}); got != (Position{0, 1}) {
		t.Fatalf("clamp: %+v", got)
	}
	if got := Clamp(l, Position{1, 3}); got != (Position{1, 0}) {
		t.Fatalf("clamp into empty column: %+v", got)
	}
	if got := Clamp(l, Position{9, 0}); got != (Position{2, 0}) {
		t.Fatalf("clamp column overflow: %+v", got)
	}
	if got := ClampSlot(l, Position{0, 9}); got != (Position{0, 2}) {
		t.Fatalf("clamp slot should allow one past the end: %+v", got)
	}
}

func TestAppendAndShortestColumn(t *testing.T) {
	l := boardOf([]string{"A"}, []string{"B", "C"}, []string{"D"})
	if got := ShortestColumn(l); got != 0 {
		t.Fatalf("shortest should prefer leftmost on ties, got %d", got)
	}
	l = Append(l, 0, model.Entry{ID: "E", Kind: model.KindTodo, Todo: &model.TodoConfig{}})
	if !reflect.DeepEqual(columnIDs(l, 0), []string{"A", "E"}) {
		t.Fatalf("append: %v", columnIDs(l, 0))
	}
	if got := ShortestColumn(l); got != 2 {
		t.Fatalf("shortest after append: %d", got)
	}
}
