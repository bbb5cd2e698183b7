package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// SaveMetrics records a snapshot together with its named metrics in one
// transaction and returns the snapshot ID.
func (db *DB) SaveMetrics(userID, command, version string, takenAt time.Time, metrics map[string]float64) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := createSnapshot(tx, userID, command, version, takenAt)
	if err != nil {
		return 0, err
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := insertMetric(tx, id, name, metrics[name]); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func createSnapshot(tx *sql.Tx, userID, command, version string, takenAt time.Time) (int64, error) {
	result, err := tx.Exec(
		"INSERT INTO snapshots (user_id, taken_at, command, version) VALUES (?, ?, ?, ?)",
		userID, formatTime(takenAt), command, version,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	return result.LastInsertId()
}

func insertMetric(tx *sql.Tx, snapshotID int64, name string, value float64) error {
	if _, err := tx.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value) VALUES (?, ?, ?)",
		snapshotID, name, value,
	); err != nil {
		return fmt.Errorf("inserting metric %s: %w", name, err)
	}
	return nil
}

// GetLatestSnapshot returns the user's most recent snapshot, or nil if none exist.
func (db *DB) GetLatestSnapshot(userID string) (*Snapshot, error) {
	return db.GetSnapshotN(userID, 1)
}

// GetSnapshot returns a snapshot by ID, or nil if it does not exist.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT id, user_id, taken_at, command, version FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the user's Nth most recent snapshot (1 = latest,
// 2 = previous, etc.), or nil when there are fewer than n.
func (db *DB) GetSnapshotN(userID string, n int) (*Snapshot, error) {
	if n < 1 {
		return nil, fmt.Errorf("snapshot offset must be at least 1, got %d", n)
	}
	row := db.conn.QueryRow(
		`SELECT id, user_id, taken_at, command, version FROM snapshots
		WHERE user_id = ? ORDER BY id DESC LIMIT 1 OFFSET ?`,
		userID, n-1,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns up to limit of the user's snapshots, newest first.
func (db *DB) ListSnapshots(userID string, limit int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		`SELECT id, user_id, taken_at, command, version FROM snapshots
		WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &s.UserID, &takenAt, &s.Command, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.TakenAt, err = parseTime(takenAt); err != nil {
		return nil, fmt.Errorf("parsing taken_at: %w", err)
	}
	return &s, nil
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// MetricValues returns a snapshot's metrics keyed by name.
func (db *DB) MetricValues(snapshotID int64) (map[string]float64, error) {
	metrics, err := db.GetAggregateMetrics(snapshotID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		out[m.MetricName] = m.MetricValue
	}
	return out, nil
}
