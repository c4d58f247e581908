package drag

import (
	"testing"

	"nodeboard/internal/layout"
)

func TestGestureLifecycle(t *testing.T) {
	var s Session
	if s.Active() {
		t.Fatalf("zero session must be idle")
	}
	if _, ok := s.Drop(); ok {
		t.Fatalf("drop while idle must report no move")
	}

	s.Begin(layout.Position{Col: 0, Row: 2}, "e1")
	if !s.Active() || s.EntryID() != "e1" {
		t.Fatalf("begin did not arm the session: active=%v id=%q", s.Active(), s.EntryID())
	}
	if tgt, ok := s.Target(); !ok || tgt != (layout.Position{Col: 0, Row: 2}) {
		t.Fatalf("hover should start at the source slot, got %+v", tgt)
	}

	s.Hover(layout.Position{Col: 2, Row: 0})
	m, ok := s.Drop()
	if !ok {
		t.Fatalf("expected a move from an active gesture")
	}
	if m.EntryID != "e1" || m.Src != (layout.Position{Col: 0, Row: 2}) || m.Dst != (layout.Position{Col: 2, Row: 0}) {
		t.Fatalf("move: %+v", m)
	}
	if s.Active() {
		t.Fatalf("drop must return the session to idle")
	}
}

func TestCancelDiscardsGesture(t *testing.T) {
	var s Session
	s.Begin(layout.Position{Col: 1, Row: 0}, "e2")
	s.Hover(layout.Position{Col: 0, Row: 1})
	s.Cancel()
	if s.Active() {
		t.Fatalf("cancel must return the session to idle")
	}
	if _, ok := s.Drop(); ok {
		t.Fatalf("cancelled gesture must not produce a move")
	}
}

func TestBeginWhileDraggingRestarts(t *testing.T) {
	var s Session
	s.Begin(layout.Position{Col: 0, Row: 0}, "first")
	s.Hover(layout.Position{Col: 2, Row: 2})
	s.Begin(layout.Position{Col: 1, Row: 1}, "second")

	m, ok := s.Drop()
	if !ok || m.EntryID != "second" {
		t.Fatalf("restarted session should carry the second entry, got %+v", m)
	}
	if m.Dst != (layout.Position{Col: 1, Row: 1}) {
		t.Fatalf("restart must reset hover to the new source, got %+v", m.Dst)
	}
}

func TestHoverIgnoredWhileIdle(t *testing.T) {
	var s Session
	s.Hover(layout.Position{Col: 1, Row: 1})
	if _, ok := s.Target(); ok {
		t.Fatalf("idle session has no target")
	}
}
