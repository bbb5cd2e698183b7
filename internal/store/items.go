package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const itemColumns = `id, user_id, name, category, color, brand, tags, source_type,
	purchase_price, purchase_currency, wear_count, last_worn_at, added_at`

// ValidateItem checks the write-path invariants on an item.
func ValidateItem(it wardrobe.Item) error {
	switch {
	case strings.TrimSpace(it.UserID) == "":
		return fmt.Errorf("%w: missing user id", ErrInvalidItem)
	case strings.TrimSpace(it.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	case it.AddedAt.IsZero():
		return fmt.Errorf("%w: missing added_at", ErrInvalidItem)
	case it.PurchasePrice != nil && !wardrobe.FiniteAmount(*it.PurchasePrice):
		return fmt.Errorf("%w: purchase price %v is not a finite amount", ErrInvalidItem, *it.PurchasePrice)
	case it.PurchasePrice != nil && *it.PurchasePrice < 0:
		return fmt.Errorf("%w: negative purchase price %v", ErrInvalidItem, *it.PurchasePrice)
	case it.WearCount < 0:
		return fmt.Errorf("%w: negative wear count %d", ErrInvalidItem, it.WearCount)
	case it.LastWornAt != nil && it.LastWornAt.Before(it.AddedAt):
		return fmt.Errorf("%w: last worn %s before added %s", ErrInvalidItem,
			it.LastWornAt.Format(time.RFC3339), it.AddedAt.Format(time.RFC3339))
	}
	return nil
}

// AddItem validates and inserts an item, minting an id when it has none.
// The stored item is returned.
func (db *DB) AddItem(ctx context.Context, it wardrobe.Item) (wardrobe.Item, error) {
	return addItem(ctx, db.conn, it)
}

func addItem(ctx context.Context, q queryer, it wardrobe.Item) (wardrobe.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.SourceType == "" {
		it.SourceType = wardrobe.SourceUserUploaded
	}
	if err := ValidateItem(it); err != nil {
		return wardrobe.Item{}, err
	}

	tags, err := encodeTags(it.Tags)
	if err != nil {
		return wardrobe.Item{}, err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO wardrobe_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.Name, string(it.Category), it.Color, it.Brand, tags,
		string(it.SourceType), nullFloat(it.PurchasePrice), it.PurchaseCurrency,
		it.WearCount, nullTime(it.LastWornAt), formatTime(it.AddedAt),
	)
	if err != nil {
		return wardrobe.Item{}, fmt.Errorf("inserting item %s: %w", it.ID, err)
	}
	return it, nil
}

// GetItem returns the user's item with the given id. Items owned by another
// user are reported as not found.
func (db *DB) GetItem(ctx context.Context, userID, id string) (wardrobe.Item, error) {
	return getItem(ctx, db.conn, userID, id)
}

func getItem(ctx context.Context, q queryer, userID, id string) (wardrobe.Item, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM wardrobe_items WHERE id = ? AND user_id = ?`, id, userID)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return wardrobe.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, err
}

// UpdateItem replaces the stored fields of an existing item owned by
// it.UserID. The wear count may not go down.
func (db *DB) UpdateItem(ctx context.Context, it wardrobe.Item) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cur, err := getItem(ctx, tx, it.UserID, it.ID)
	if err != nil {
		return err
	}
	if it.WearCount < cur.WearCount {
		return fmt.Errorf("%w: %s from %d to %d", ErrWearCountDecrease, it.ID, cur.WearCount, it.WearCount)
	}
	if it.AddedAt.IsZero() {
		it.AddedAt = cur.AddedAt
	}
	if it.SourceType == "" {
		it.SourceType = cur.SourceType
	}
	if err := ValidateItem(it); err != nil {
		return err
	}

	tags, err := encodeTags(it.Tags)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE wardrobe_items SET name = ?, category = ?, color = ?, brand = ?,
		tags = ?, source_type = ?, purchase_price = ?, purchase_currency = ?, wear_count = ?,
		last_worn_at = ?, added_at = ? WHERE id = ? AND user_id = ?`,
		it.Name, string(it.Category), it.Color, it.Brand, tags,
		string(it.SourceType), nullFloat(it.PurchasePrice), it.PurchaseCurrency,
		it.WearCount, nullTime(it.LastWornAt), formatTime(it.AddedAt), it.ID, it.UserID,
	); err != nil {
		return fmt.Errorf("updating item %s: %w", it.ID, err)
	}
	return tx.Commit()
}

// DeleteItem removes one of the user's items. Its wear events go with it
// through the foreign key cascade.
func (db *DB) DeleteItem(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM wardrobe_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return nil
}

// RecordWear increments an item's wear count by one and sets its last-worn
// time to at, clamped so it is never earlier than the item's added time.
// Every call counts; repeated wears at the same instant are not merged.
func (db *DB) RecordWear(ctx context.Context, userID, id string, at time.Time) (wardrobe.Item, error) {
	return db.RecordWears(ctx, userID, id, at, 1)
}

// RecordWears records n wears of an item at the same instant in a single
// transaction: either all n count or none do.
func (db *DB) RecordWears(ctx context.Context, userID, id string, at time.Time, n int) (wardrobe.Item, error) {
	if n < 1 {
		return wardrobe.Item{}, fmt.Errorf("recording wears for %s: count %d must be at least 1", id, n)
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return wardrobe.Item{}, err
	}
	defer tx.Rollback()

	it, err := getItem(ctx, tx, userID, id)
	if err != nil {
		return wardrobe.Item{}, err
	}
	if at.Before(it.AddedAt) {
		at = it.AddedAt
	}
	it.WearCount += n
	it.LastWornAt = &at

	if _, err := tx.ExecContext(ctx,
		"UPDATE wardrobe_items SET wear_count = ?, last_worn_at = ? WHERE id = ? AND user_id = ?",
		it.WearCount, formatTime(at), id, userID,
	); err != nil {
		return wardrobe.Item{}, fmt.Errorf("recording wear for %s: %w", id, err)
	}
	for range n {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO wear_events (item_id, worn_at) VALUES (?, ?)", id, formatTime(at),
		); err != nil {
			return wardrobe.Item{}, fmt.Errorf("inserting wear event for %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return wardrobe.Item{}, err
	}
	return it, nil
}

// WearEvents returns the recorded wears of one of the user's items, oldest
// first.
func (db *DB) WearEvents(ctx context.Context, userID, itemID string) ([]WearEvent, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.item_id, e.worn_at FROM wear_events e
		JOIN wardrobe_items i ON i.id = e.item_id
		WHERE e.item_id = ? AND i.user_id = ? ORDER BY e.id`, itemID, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []WearEvent
	for rows.Next() {
		var e WearEvent
		var wornAt string
		if err := rows.Scan(&e.ID, &e.ItemID, &wornAt); err != nil {
			return nil, err
		}
		if e.WornAt, err = parseTime(wornAt); err != nil {
			return nil, fmt.Errorf("parsing worn_at: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListItems returns a user's items in insertion order.
func (db *DB) ListItems(ctx context.Context, userID string) ([]wardrobe.Item, error) {
	return listItems(ctx, db.conn, userID)
}

func listItems(ctx context.Context, q queryer, userID string) ([]wardrobe.Item, error) {
	return queryItems(ctx, q,
		`SELECT `+itemColumns+` FROM wardrobe_items WHERE user_id = ? ORDER BY seq`, userID)
}

// ItemsByCategory returns a user's items in one category, in insertion order.
func (db *DB) ItemsByCategory(ctx context.Context, userID string, c wardrobe.Category) ([]wardrobe.Item, error) {
	return queryItems(ctx, db.conn,
		`SELECT `+itemColumns+` FROM wardrobe_items WHERE user_id = ? AND category = ? ORDER BY seq`,
		userID, string(c))
}

// SearchItems returns a user's items whose name, category or any tag contains
// term, ignoring case.
func (db *DB) SearchItems(ctx context.Context, userID, term string) ([]wardrobe.Item, error) {
	items, err := db.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items, nil
	}

	var out []wardrobe.Item
	for _, it := range items {
		if matchesTerm(it, term) {
			out = append(out, it)
		}
	}
	return out, nil
}

func matchesTerm(it wardrobe.Item, term string) bool {
	if strings.Contains(strings.ToLower(it.Name), term) ||
		strings.Contains(strings.ToLower(string(it.Category)), term) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func queryItems(ctx context.Context, q queryer, query string, args ...any) ([]wardrobe.Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []wardrobe.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (wardrobe.Item, error) {
	var (
		it                           wardrobe.Item
		category, sourceType         string
		color, brand, tags, currency sql.NullString
		lastWorn                     sql.NullString
		addedAt                      string
		price                        sql.NullFloat64
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.Name, &category, &color, &brand, &tags,
		&sourceType, &price, &currency, &it.WearCount, &lastWorn, &addedAt); err != nil {
		return wardrobe.Item{}, err
	}

	it.Category = wardrobe.Category(category)
	it.SourceType = wardrobe.SourceType(sourceType)
	it.Color = color.String
	it.Brand = brand.String
	it.PurchaseCurrency = currency.String
	if price.Valid {
		p := price.Float64
		it.PurchasePrice = &p
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &it.Tags); err != nil {
			return wardrobe.Item{}, fmt.Errorf("decoding tags of %s: %w", it.ID, err)
		}
	}

	var err error
	if it.AddedAt, err = parseTime(addedAt); err != nil {
		return wardrobe.Item{}, fmt.Errorf("parsing added_at of %s: %w", it.ID, err)
	}
	if lastWorn.Valid {
		t, err := parseTime(lastWorn.String)
		if err != nil {
			return wardrobe.Item{}, fmt.Errorf("parsing last_worn_at of %s: %w", it.ID, err)
		}
		it.LastWornAt = &t
	}
	return it, nil
}

func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding tags: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
