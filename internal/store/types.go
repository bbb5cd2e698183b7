// Package store provides SQLite persistence for wardrobe items, wear events,
// weekly plans and tracked analytics snapshots.
package store

import (
	"errors"
	"time"
)

// Sentinel errors returned by the write path. Callers match with errors.Is.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidItem       = errors.New("invalid item")
	ErrWearCountDecrease = errors.New("wear count may not decrease")
)

// Snapshot is a tracked run of the analytics engine for one user.
type Snapshot struct {
	ID      int64     `json:"id"`
	UserID  string    `json:"user_id"`
	TakenAt time.Time `json:"taken_at"`
	Command string    `json:"command"`
	Version string    `json:"version"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// WearEvent is one recorded wearing of an item.
type WearEvent struct {
	ID     int64     `json:"id"`
	ItemID string    `json:"item_id"`
	WornAt time.Time `json:"worn_at"`
}

// timeLayout is the on-disk timestamp format. All times are stored in UTC.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
