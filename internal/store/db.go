package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// connPragmas are applied by the driver to every pooled connection. WAL lets
// the watcher and the CLI read while an import writes.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// DB is the closetwatch SQLite database: wardrobe items, wear events, weekly
// plans and track snapshots.
type DB struct {
	conn *sql.DB
}

// Open opens the database at dbPath, creating the file and its directory
// when missing, and migrates it to the current schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return open(dbPath+"?"+connPragmas+"&_pragma=journal_mode(WAL)", 0)
}

// OpenInMemory opens a private in-memory database. ":memory:" is per
// connection, so the pool holds exactly one.
func OpenInMemory() (*DB, error) {
	return open(":memory:?"+connPragmas, 1)
}

func open(dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Health pings the database.
func (db *DB) Health(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
