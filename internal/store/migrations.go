package store

import (
	"database/sql"
	"fmt"
)

// migrations[i] upgrades the schema from version i to i+1. The applied
// version is kept in PRAGMA user_version.
var migrations = []func(tx *sql.Tx) error{
	migrateV1,
}

var currentSchemaVersion = len(migrations)

// Migrate applies pending migrations, each in its own transaction.
func (db *DB) Migrate() error {
	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	for v := version; v < len(migrations); v++ {
		if err := db.applyMigration(v); err != nil {
			return fmt.Errorf("migrating schema to v%d: %w", v+1, err)
		}
	}
	return nil
}

func (db *DB) applyMigration(from int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := migrations[from](tx); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion reports the applied schema version; 0 for a new database.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migrateV1 creates the wardrobe, plan and tracking tables.
func migrateV1(tx *sql.Tx) error {
	for _, stmt := range []string{
		// seq preserves insertion order for listing.
		`CREATE TABLE IF NOT EXISTS wardrobe_items (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT NOT NULL UNIQUE,
			user_id           TEXT NOT NULL,
			name              TEXT NOT NULL,
			category          TEXT NOT NULL,
			color             TEXT,
			brand             TEXT,
			tags              TEXT,
			source_type       TEXT NOT NULL DEFAULT 'USER_UPLOADED',
			purchase_price    REAL,
			purchase_currency TEXT,
			wear_count        INTEGER NOT NULL DEFAULT 0 CHECK (wear_count >= 0),
			last_worn_at      TEXT,
			added_at          TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS wear_events (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id  TEXT NOT NULL REFERENCES wardrobe_items(id) ON DELETE CASCADE,
			worn_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS day_plans (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   TEXT NOT NULL,
			position  INTEGER NOT NULL,
			day       TEXT NOT NULL,
			date      TEXT NOT NULL,
			plan_json TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			taken_at    TEXT NOT NULL,
			command     TEXT NOT NULL,
			version     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS aggregate_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			detail       TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_items_user ON wardrobe_items(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON wardrobe_items(user_id, category)`,
		`CREATE INDEX IF NOT EXISTS idx_wear_events_item ON wear_events(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_day_plans_user ON day_plans(user_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_user ON snapshots(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
