// Package sqlite provides a local SQLite vector store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// schema holds the append-only chunk table. seq records insertion order
// and breaks search ties.
const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	chunk_id     TEXT NOT NULL,
	source       TEXT NOT NULL,
	text         TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	dimensions   INTEGER NOT NULL,
	embedding    BLOB NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_content ON chunks(source, chunk_id, content_hash);
`

// DB is a SQLite database holding embedded chunks.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB returns a DB for the file at path, or Memory.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps Memory shared.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != Memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, stmt := range append(pragmas, schema) {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return fmt.Errorf("initialize database %q: %w", db.path, err)
		}
	}

	db.conn = conn
	return nil
}

// Close closes the connection. It is a no-op on an unopened DB.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.conn.BeginTx(ctx, nil)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}
