package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

const (
	mergeUserQuery = `MERGE (u:User {id: $userId})`

	// Items missing from the snapshot are detached from the user and removed.
	pruneItemsQuery = `
		MATCH (u:User {id: $userId})-[:OWNS]->(i:Item)
		WHERE NOT i.id IN $ids
		DETACH DELETE i`

	mergeItemsQuery = `
		MATCH (u:User {id: $userId})
		UNWIND $items AS row
		MERGE (i:Item {id: row.id})
		SET i += row
		MERGE (u)-[:OWNS]->(i)
		WITH i, row
		OPTIONAL MATCH (i)-[old:IN_CATEGORY]->(:Category)
		DELETE old
		WITH i, row
		WHERE row.category <> ''
		MERGE (c:Category {name: row.category})
		MERGE (i)-[:IN_CATEGORY]->(c)`

	dropPlanQuery = `
		MATCH (:User {id: $userId})-[:PLANS]->(d:Day)
		DETACH DELETE d`

	createPlanQuery = `
		MATCH (u:User {id: $userId})
		UNWIND $days AS row
		CREATE (u)-[:PLANS]->(d:Day {position: row.position, day: row.day, date: row.date, plan_json: row.plan_json})
		WITH d, row
		UNWIND row.items AS itemId
		MATCH (i:Item {id: itemId})
		MERGE (d)-[:RECOMMENDS]->(i)`
)

// ExportResult reports what an export wrote.
type ExportResult struct {
	Items int `json:"items"`
	Days  int `json:"days"`
}

// Export makes the graph mirror snap: the user's items are upserted, items no
// longer in the snapshot are removed, and the weekly plan is replaced.
func (c *Client) Export(ctx context.Context, snap wardrobe.Snapshot) (ExportResult, error) {
	if snap.UserID == "" {
		return ExportResult{}, fmt.Errorf("export: snapshot has no user id")
	}

	items := make([]map[string]any, 0, len(snap.Items))
	ids := make([]string, 0, len(snap.Items))
	for i, it := range snap.Items {
		items = append(items, itemProps(it, i))
		ids = append(ids, it.ID)
	}
	days := make([]map[string]any, 0, len(snap.Plan))
	for i, d := range snap.Plan {
		row, err := dayProps(d, i)
		if err != nil {
			return ExportResult{}, err
		}
		days = append(days, row)
	}

	session := c.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			name   string
			query  string
			params map[string]any
		}{
			{"user", mergeUserQuery, map[string]any{"userId": snap.UserID}},
			{"prune items", pruneItemsQuery, map[string]any{"userId": snap.UserID, "ids": ids}},
			{"items", mergeItemsQuery, map[string]any{"userId": snap.UserID, "items": items}},
			{"drop plan", dropPlanQuery, map[string]any{"userId": snap.UserID}},
			{"plan", createPlanQuery, map[string]any{"userId": snap.UserID, "days": days}},
		}
		for _, step := range steps {
			result, err := tx.Run(ctx, step.query, step.params)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", step.name, err)
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("exporting %s: %w", snap.UserID, err)
	}
	return ExportResult{Items: len(items), Days: len(days)}, nil
}
