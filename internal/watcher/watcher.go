// Package watcher monitors a wardrobe for notable changes (new items, wears,
// sustainability movement) and emits alerts.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Alert levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// debounceDelay coalesces bursts of file events from one write transaction.
const debounceDelay = 250 * time.Millisecond

// WatchState captures the figures the watcher compares between checks.
type WatchState struct {
	Timestamp           time.Time
	TotalItems          int
	TotalWorn           int
	NeverWorn           int
	SustainabilityScore *float64
	DaysPlanned         int
	MissingItems        int

	// Per-item detail for naming the items behind a change.
	wears map[string]int
	names map[string]string
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string    `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Watcher polls a wardrobe Source at a regular interval, and whenever the
// file at WatchPath changes, and emits alerts for notable changes.
type Watcher struct {
	source        wardrobe.Source
	userID        string
	interval      time.Duration
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts

	// WatchPath, when set, is a database file whose writes trigger a check
	// ahead of the next tick.
	WatchPath string

	// Now is the clock; it defaults to time.Now.
	Now func() time.Time
}

// New creates a Watcher for one user's wardrobe.
func New(source wardrobe.Source, userID string, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		source:        source,
		userID:        userID,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		Now:           time.Now,
	}
}

// Run starts the watch loop. It takes an initial snapshot, then checks at
// every interval and after file changes. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if w.WatchPath != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		defer fw.Close()
		// Watch the directory: SQLite replaces and appends side files.
		if err := fw.Add(filepath.Dir(w.WatchPath)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(w.WatchPath), err)
		}
		events, watchErrs = fw.Events, fw.Errors
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check(ctx))
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if w.relevant(ev) {
				debounce = time.After(debounceDelay)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			w.emit([]Alert{{
				Level:   LevelWarning,
				Title:   "File watch error",
				Message: err.Error(),
				Time:    w.Now(),
			}})
		case <-debounce:
			debounce = nil
			w.emit(w.Check(ctx))
		}
	}
}

// relevant reports whether ev touches the database or its write-ahead log.
// The shared-memory index changes on reads and is ignored.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(w.WatchPath)
	name := filepath.Base(ev.Name)
	return name == base || (strings.HasPrefix(name, base) && strings.HasSuffix(name, "-wal"))
}

func (w *Watcher) emit(alerts []Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		return []Alert{{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read wardrobe: %v", err),
			Time:    w.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot loads the wardrobe and reduces its analytics to a WatchState.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	snap, err := w.source.LoadSnapshot(ctx, w.userID)
	if err != nil {
		return nil, fmt.Errorf("loading wardrobe: %w", err)
	}
	return stateOf(snap, w.Now()), nil
}

func stateOf(snap wardrobe.Snapshot, now time.Time) *WatchState {
	res := analyzer.Analyze(snap, now)
	state := &WatchState{
		Timestamp:           now,
		TotalItems:          res.TotalItems,
		TotalWorn:           res.Wear.TotalWorn,
		NeverWorn:           res.Usage.NeverWorn,
		SustainabilityScore: res.Sustainability.SustainabilityScore,
		DaysPlanned:         res.Plan.DaysPlanned,
		MissingItems:        len(res.Plan.MissingItems),
		wears:               make(map[string]int, len(snap.Items)),
		names:               make(map[string]string, len(snap.Items)),
	}
	for _, it := range snap.Items {
		state.wears[it.ID] = it.WearCount
		state.names[it.ID] = it.Name
	}
	return state
}
