package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"nodeboard/internal/layout"
	"nodeboard/internal/model"
)

// Rotation timers ride on tea.Tick, which cannot be cancelled, so each entry
// carries a generation counter: arming bumps the generation and schedules one
// tick; a tick whose seq no longer matches is stale and dies. At any instant
// a rotating widget has exactly one live tick chain.

func rotateTick(entryID string, seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return rotateMsg{entryID: entryID, seq: seq}
	})
}

// armRotation orphans any scheduled tick for the entry and starts a new chain
// when its config rotates. Safe to call on every settings change.
func (m *Model) armRotation(e model.Entry) tea.Cmd {
	m.rotSeq[e.ID]++
	interval, ok := e.Rotation().Interval()
	if !ok {
		return nil
	}
	return rotateTick(e.ID, m.rotSeq[e.ID], interval)
}

// disarmRotation orphans the entry's tick chain. Mandatory on unmount. The
// generation is kept, never deleted, so a stale tick can never collide with a
// fresh chain.
func (m *Model) disarmRotation(entryID string) {
	m.rotSeq[entryID]++
}

// handleRotate runs one tick: refresh the widget and schedule the next tick
// of the same chain.
func (m *Model) handleRotate(msg rotateMsg) tea.Cmd {
	if msg.seq != m.rotSeq[msg.entryID] {
		return nil
	}
	p, ok := layout.Find(m.node.Layout, msg.entryID)
	if !ok {
		return nil
	}
	e, _ := layout.Entry(m.node.Layout, p)
	interval, enabled := e.Rotation().Interval()
	if !enabled {
		return nil
	}
	return tea.Batch(m.rotateCmd(e), rotateTick(e.ID, msg.seq, interval))
}
