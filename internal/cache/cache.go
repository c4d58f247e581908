// Package cache keeps local node snapshots in SQLite so the board can paint
// the last known layout immediately on launch, before the server answers, and
// still show something useful offline. Snapshots are best effort: corrupted
// rows read as missing.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"nodeboard/internal/model"
)

type Store struct {
	Path string
}

// Snapshot is a cached node with its save time.
type Snapshot struct {
	Node    model.Node
	SavedAt time.Time
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database
	// is locked" flakiness when a CLI command races the board.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			node_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			layout_json TEXT NOT NULL,
			saved_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ui_state (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot upserts the node's current state.
func (s Store) SaveSnapshot(ctx context.Context, node model.Node) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	blob, err := json.Marshal(node.Layout)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots(node_id, name, layout_json, saved_at_unixms) VALUES(?, ?, ?, ?)`,
		node.ID, node.Name, string(blob), time.Now().UnixMilli())
	return err
}

// LoadSnapshot returns the cached node, reporting ok=false when absent or
// unreadable.
func (s Store) LoadSnapshot(ctx context.Context, nodeID string) (Snapshot, bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, false, err
	}
	defer db.Close()

	var (
		name    string
		blob    string
		savedAt int64
	)
	row := db.QueryRowContext(ctx,
		`SELECT name, layout_json, saved_at_unixms FROM snapshots WHERE node_id = ?`, nodeID)
	if err := row.Scan(&name, &blob, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}

	var l model.Layout
	if err := json.Unmarshal([]byte(blob), &l); err != nil {
		return Snapshot{}, false, nil
	}
	return Snapshot{
		Node:    model.Node{ID: nodeID, Name: name, Layout: l},
		SavedAt: time.UnixMilli(savedAt),
	}, true, nil
}

// ListSnapshots returns all cached nodes, most recently saved first.
func (s Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT node_id, name, layout_json, saved_at_unixms FROM snapshots ORDER BY saved_at_unixms DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			nodeID  string
			name    string
			blob    string
			savedAt int64
		)
		if err := rows.Scan(&nodeID, &name, &blob, &savedAt); err != nil {
			return nil, err
		}
		var l model.Layout
		if err := json.Unmarshal([]byte(blob), &l); err != nil {
			continue
		}
		out = append(out, Snapshot{
			Node:    model.Node{ID: nodeID, Name: name, Layout: l},
			SavedAt: time.UnixMilli(savedAt),
		})
	}
	return out, rows.Err()
}

// LastNode returns the node id the board last had open, "" when unknown.
func (s Store) LastNode(ctx context.Context) (string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	row := db.QueryRowContext(ctx, `SELECT v FROM ui_state WHERE k = 'last_node'`)
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// SetLastNode records the node id to reopen on the next launch.
func (s Store) SetLastNode(ctx context.Context, nodeID string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ui_state(k, v) VALUES('last_node', ?)`, nodeID)
	return err
}
