package store

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var _ wardrobe.Source = (*DB)(nil)

// LoadSnapshot reads a user's items and weekly plan inside a single read
// transaction so the analytics see one consistent state.
func (db *DB) LoadSnapshot(ctx context.Context, userID string) (wardrobe.Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return wardrobe.Snapshot{}, fmt.Errorf("beginning snapshot read: %w", err)
	}
	defer tx.Rollback()

	items, err := listItems(ctx, tx, userID)
	if err != nil {
		return wardrobe.Snapshot{}, fmt.Errorf("loading items: %w", err)
	}
	plan, err := loadPlan(ctx, tx, userID)
	if err != nil {
		return wardrobe.Snapshot{}, fmt.Errorf("loading plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return wardrobe.Snapshot{}, err
	}

	return wardrobe.Snapshot{
		UserID:  userID,
		TakenAt: time.Now().UTC(),
		Items:   items,
		Plan:    plan,
	}, nil
}

// ImportFixture adds every fixture item and replaces the plan for userID in
// one transaction. Items without a user id are assigned userID. It returns
// the number of items written.
func (db *DB) ImportFixture(ctx context.Context, userID string, fx *wardrobe.Fixture) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for i, it := range fx.Items {
		if it.UserID == "" {
			it.UserID = userID
		}
		if _, err := addItem(ctx, tx, it); err != nil {
			return 0, fmt.Errorf("item %d (%s): %w", i, it.Name, err)
		}
	}
	if len(fx.Plan) > 0 {
		if err := replacePlan(ctx, tx, userID, fx.Plan); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(fx.Items), nil
}
