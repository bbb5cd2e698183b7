package graph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Times are stored as epoch milliseconds. Absent optional values are stored
// as null, which Neo4j drops from the node.

func itemProps(it wardrobe.Item, position int) map[string]any {
	tags := make([]any, 0, len(it.Tags))
	for _, t := range it.Tags {
		tags = append(tags, t)
	}
	props := map[string]any{
		"id":                it.ID,
		"position":          int64(position),
		"name":              it.Name,
		"category":          string(it.Category),
		"color":             it.Color,
		"brand":             it.Brand,
		"tags":              tags,
		"source_type":       string(it.SourceType),
		"purchase_price":    nil,
		"purchase_currency": it.PurchaseCurrency,
		"wear_count":        int64(it.WearCount),
		"last_worn_at":      nil,
		"added_at":          it.AddedAt.UnixMilli(),
	}
	if it.PurchasePrice != nil {
		props["purchase_price"] = *it.PurchasePrice
	}
	if it.LastWornAt != nil {
		props["last_worn_at"] = it.LastWornAt.UnixMilli()
	}
	return props
}

func itemFromProps(props map[string]any) (wardrobe.Item, error) {
	id, _ := props["id"].(string)
	if id == "" {
		return wardrobe.Item{}, fmt.Errorf("item node without id")
	}
	added, ok := asInt64(props["added_at"])
	if !ok {
		return wardrobe.Item{}, fmt.Errorf("item %s: missing added_at", id)
	}

	it := wardrobe.Item{
		ID:               id,
		Name:             asString(props["name"]),
		Category:         wardrobe.Category(asString(props["category"])),
		Color:            asString(props["color"]),
		Brand:            asString(props["brand"]),
		SourceType:       wardrobe.SourceType(asString(props["source_type"])),
		PurchaseCurrency: asString(props["purchase_currency"]),
		AddedAt:          time.UnixMilli(added).UTC(),
	}
	if n, ok := asInt64(props["wear_count"]); ok {
		it.WearCount = int(n)
	}
	if p, ok := asFloat(props["purchase_price"]); ok && wardrobe.FiniteAmount(p) {
		it.PurchasePrice = &p
	}
	if ms, ok := asInt64(props["last_worn_at"]); ok {
		t := time.UnixMilli(ms).UTC()
		it.LastWornAt = &t
	}
	if raw, ok := props["tags"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				it.Tags = append(it.Tags, s)
			}
		}
	}
	return it, nil
}

func dayProps(d wardrobe.DayPlan, position int) (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding plan for %s: %w", d.Day, err)
	}
	items := make([]any, 0, len(d.RecommendedOutfit.Items))
	for _, id := range d.RecommendedOutfit.Items {
		items = append(items, id)
	}
	return map[string]any{
		"position":  int64(position),
		"day":       d.Day,
		"date":      d.Date,
		"plan_json": string(raw),
		"items":     items,
	}, nil
}

func dayFromJSON(raw string) (wardrobe.DayPlan, error) {
	var d wardrobe.DayPlan
	if raw == "" {
		return d, fmt.Errorf("day node without plan_json")
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return d, fmt.Errorf("decoding plan: %w", err)
	}
	return d, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}
