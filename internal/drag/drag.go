// Package drag tracks an in-progress reorder gesture. It is deliberately
// ignorant of what drives it (keys, pointer, anything): callers feed it
// begin/hover/drop events and read back the move to apply. The same session
// type serves the page board and the one-column sub-lists inside widgets.
package drag

import (
	"nodeboard/internal/layout"
)

// Move is the outcome of a completed gesture: which entry moved, from where,
// to which drop slot. Dst is expressed against the board as displayed while
// dragging, the coordinate space layout.Move expects.
type Move struct {
	EntryID string
	Src     layout.Position
	Dst     layout.Position
}

// Session is a single drag gesture. The zero value is idle. Only one gesture
// is ever live; Begin while dragging restarts the session.
type Session struct {
	active  bool
	entryID string
	src     layout.Position
	hover   layout.Position
}

// Begin starts a gesture for the entry at src. The hover target starts at the
// source slot, so an immediate drop is a no-op.
func (s *Session) Begin(src layout.Position, entryID string) {
	s.active = true
	s.entryID = entryID
	s.src = src
	s.hover = src
}

// Hover records the current drop target for feedback. Ignored while idle.
func (s *Session) Hover(dst layout.Position) {
	if !s.active {
		return
	}
	s.hover = dst
}

// Drop ends the gesture and returns the move to apply. ok is false when no
// gesture was active. Whether the move actually changes anything is decided
// by layout.Move; a no-op drop must not reach persistence.
func (s *Session) Drop() (Move, bool) {
	if !s.active {
		return Move{}, false
	}
	m := Move{EntryID: s.entryID, Src: s.src, Dst: s.hover}
	*s = Session{}
	return m, true
}

// Cancel discards the gesture without producing a move.
func (s *Session) Cancel() {
	*s = Session{}
}

func (s *Session) Active() bool {
	return s.active
}

// EntryID returns the id of the grabbed entry, "" while idle.
func (s *Session) EntryID() string {
	if !s.active {
		return ""
	}
	return s.entryID
}

// Source returns the slot the gesture started from.
func (s *Session) Source() (layout.Position, bool) {
	return s.src, s.active
}

// Target returns the current hover slot.
func (s *Session) Target() (layout.Position, bool) {
	return s.hover, s.active
}
