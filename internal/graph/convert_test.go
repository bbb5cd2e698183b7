package graph

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func TestItemProps_RoundTripThroughNodeValues(t *testing.T) {
	price := 89.5
	worn := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	it := wardrobe.Item{
		ID:               "jeans",
		Name:             "Raw Denim",
		Category:         wardrobe.Bottoms,
		Tags:             []string{"denim", "casual"},
		SourceType:       wardrobe.SourceCatalog,
		PurchasePrice:    &price,
		PurchaseCurrency: "EUR",
		WearCount:        12,
		LastWornAt:       &worn,
		AddedAt:          time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
	}

	props := itemProps(it, 3)
	assert.EqualValues(t, 3, props["position"])
	assert.Equal(t, it.AddedAt.UnixMilli(), props["added_at"])

	got, err := itemFromProps(props)
	require.NoError(t, err)
	assert.Equal(t, it, got)
}

func TestItemFromProps_AbsentOptionals(t *testing.T) {
	// Null properties are dropped by Neo4j, so optional keys are simply absent.
	got, err := itemFromProps(map[string]any{
		"id":       "tee",
		"name":     "Tee",
		"added_at": int64(0),
	})
	require.NoError(t, err)
	assert.Nil(t, got.PurchasePrice)
	assert.Nil(t, got.LastWornAt)
	assert.Zero(t, got.WearCount)
	assert.Empty(t, got.Category)
}

func TestItemFromProps_IntegerPrice(t *testing.T) {
	got, err := itemFromProps(map[string]any{"id": "x", "added_at": int64(1), "purchase_price": int64(40)})
	require.NoError(t, err)
	require.NotNil(t, got.PurchasePrice)
	assert.Equal(t, 40.0, *got.PurchasePrice)
}

func TestItemFromProps_Invalid(t *testing.T) {
	_, err := itemFromProps(map[string]any{"name": "no id"})
	assert.ErrorContains(t, err, "without id")

	_, err = itemFromProps(map[string]any{"id": "x"})
	assert.ErrorContains(t, err, "added_at")
}

func TestDayProps_RecommendedItemsAndJSON(t *testing.T) {
	compat := 88.0
	d := wardrobe.DayPlan{
		Day:  "Tuesday",
		Date: "2026-06-16",
		RecommendedOutfit: wardrobe.RecommendedOutfit{
			Name: "Office", Items: []string{"shirt", "chinos"}, Confidence: 91, CompatibilityScore: &compat,
		},
		Alternatives: []wardrobe.AlternativeOutfit{{Name: "Rainy", Items: []string{"coat"}, SubstituteFor: "shirt"}},
	}

	row, err := dayProps(d, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"shirt", "chinos"}, row["items"])

	back, err := dayFromJSON(row["plan_json"].(string))
	require.NoError(t, err)
	assert.Equal(t, d, back)

	_, err = dayFromJSON("")
	assert.Error(t, err)
}

func TestSnapshotFromRows(t *testing.T) {
	a := itemProps(wardrobe.Item{ID: "a", Name: "A", AddedAt: time.UnixMilli(1000).UTC()}, 0)
	b := itemProps(wardrobe.Item{ID: "b", Name: "B", AddedAt: time.UnixMilli(2000).UTC()}, 1)
	day, err := dayProps(wardrobe.DayPlan{Day: "Monday"}, 0)
	require.NoError(t, err)

	snap, err := snapshotFromRows("u1",
		[]map[string]any{{"item": a}, {"item": b}},
		[]map[string]any{{"plan_json": day["plan_json"]}},
	)
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "a", snap.Items[0].ID)
	assert.Equal(t, "u1", snap.Items[1].UserID)
	require.Len(t, snap.Plan, 1)
	assert.Equal(t, "Monday", snap.Plan[0].Day)

	_, err = snapshotFromRows("u1", []map[string]any{{"item": "bogus"}}, nil)
	assert.Error(t, err)
}

func TestItemFromProps_DropsNonFinitePrice(t *testing.T) {
	got, err := itemFromProps(map[string]any{"id": "x", "added_at": int64(1), "purchase_price": math.Inf(1)})
	require.NoError(t, err)
	assert.Nil(t, got.PurchasePrice)
}
