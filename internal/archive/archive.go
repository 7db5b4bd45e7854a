// Package archive provides the SQLite-backed cross-run store of
// historically high-scoring items, with optional FTS5 full-text search.
package archive

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT '',
	source_type    TEXT NOT NULL DEFAULT '',
	source_tier    INTEGER NOT NULL DEFAULT 3,
	published_at   TEXT,
	archived_at    TEXT NOT NULL,
	priority_score INTEGER NOT NULL DEFAULT 0,
	signal_type    TEXT NOT NULL DEFAULT '',
	why_it_matters TEXT NOT NULL DEFAULT '',
	topics         TEXT NOT NULL DEFAULT '[]',
	entities       TEXT NOT NULL DEFAULT '[]',
	is_hsi         INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_entries_priority ON entries(priority_score DESC);
CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source);
`

// Store wraps a sql.DB with archive-specific operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the archive database and applies the schema. A
// database that cannot be opened or fails the schema is treated as corrupt:
// the file is moved aside to <path>.corrupt, a fresh archive is created, and
// the run continues with an empty history.
func Open(path string, log *slog.Logger) (*Store, error) {
	st, err := open(path)
	if err == nil {
		return st, nil
	}

	corrupt := path + ".corrupt"
	log.Warn("archive unreadable, starting fresh",
		slog.String("path", path),
		slog.String("moved_to", corrupt),
		slog.String("error", err.Error()))
	if renameErr := os.Rename(path, corrupt); renameErr != nil {
		return nil, fmt.Errorf("archive: move corrupt db: %w", renameErr)
	}
	return open(path)
}

func open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: apply fts schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
