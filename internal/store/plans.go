package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// ReplacePlan swaps a user's weekly plan for plan in one transaction.
func (db *DB) ReplacePlan(ctx context.Context, userID string, plan []wardrobe.DayPlan) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replacePlan(ctx, tx, userID, plan); err != nil {
		return err
	}
	return tx.Commit()
}

func replacePlan(ctx context.Context, q queryer, userID string, plan []wardrobe.DayPlan) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM day_plans WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clearing plan: %w", err)
	}
	for i, d := range plan {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encoding plan day %d: %w", i, err)
		}
		if _, err := q.ExecContext(ctx,
			"INSERT INTO day_plans (user_id, position, day, date, plan_json) VALUES (?, ?, ?, ?, ?)",
			userID, i, d.Day, d.Date, string(data),
		); err != nil {
			return fmt.Errorf("inserting plan day %s: %w", d.Day, err)
		}
	}
	return nil
}

// LoadPlan returns a user's weekly plan in day order.
func (db *DB) LoadPlan(ctx context.Context, userID string) ([]wardrobe.DayPlan, error) {
	return loadPlan(ctx, db.conn, userID)
}

func loadPlan(ctx context.Context, q queryer, userID string) ([]wardrobe.DayPlan, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT plan_json FROM day_plans WHERE user_id = ? ORDER BY position", userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var plan []wardrobe.DayPlan
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var d wardrobe.DayPlan
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("decoding plan day: %w", err)
		}
		plan = append(plan, d)
	}
	return plan, rows.Err()
}
