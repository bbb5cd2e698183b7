package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var _ wardrobe.Source = (*Client)(nil)

const (
	itemsQuery = `
		MATCH (:User {id: $userId})-[:OWNS]->(i:Item)
		RETURN properties(i) AS item
		ORDER BY i.position, i.id`

	planQuery = `
		MATCH (:User {id: $userId})-[:PLANS]->(d:Day)
		RETURN d.plan_json AS plan_json
		ORDER BY d.position`
)

// LoadSnapshot reads a user's items and weekly plan in one read transaction.
// An unknown user yields an empty snapshot.
func (c *Client) LoadSnapshot(ctx context.Context, userID string) (wardrobe.Snapshot, error) {
	session := c.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	params := map[string]any{"userId": userID}
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		itemRows, err := collect(ctx, tx, itemsQuery, params)
		if err != nil {
			return nil, fmt.Errorf("reading items: %w", err)
		}
		planRows, err := collect(ctx, tx, planQuery, params)
		if err != nil {
			return nil, fmt.Errorf("reading plan: %w", err)
		}
		return snapshotFromRows(userID, itemRows, planRows)
	})
	if err != nil {
		return wardrobe.Snapshot{}, fmt.Errorf("loading snapshot for %s: %w", userID, err)
	}

	snap := out.(wardrobe.Snapshot)
	snap.TakenAt = time.Now().UTC()
	return snap, nil
}

func snapshotFromRows(userID string, itemRows, planRows []map[string]any) (wardrobe.Snapshot, error) {
	snap := wardrobe.Snapshot{UserID: userID}
	for _, row := range itemRows {
		props, ok := row["item"].(map[string]any)
		if !ok {
			return wardrobe.Snapshot{}, fmt.Errorf("item row has unexpected shape %T", row["item"])
		}
		it, err := itemFromProps(props)
		if err != nil {
			return wardrobe.Snapshot{}, err
		}
		it.UserID = userID
		snap.Items = append(snap.Items, it)
	}
	for _, row := range planRows {
		raw, _ := row["plan_json"].(string)
		d, err := dayFromJSON(raw)
		if err != nil {
			return wardrobe.Snapshot{}, err
		}
		snap.Plan = append(snap.Plan, d)
	}
	return snap, nil
}
