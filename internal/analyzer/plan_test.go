package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func day(name string, conf float64, items ...string) wardrobe.DayPlan {
	return wardrobe.DayPlan{
		Day:  name,
		Date: "2026-06-15",
		RecommendedOutfit: wardrobe.RecommendedOutfit{
			Name:       name + " look",
			Items:      items,
			Confidence: conf,
		},
	}
}

func TestAnalyzePlan_Empty(t *testing.T) {
	stats := AnalyzePlan(nil, nil)
	assert.Equal(t, 0, stats.DaysPlanned)
	assert.Equal(t, DaysPerWeek, stats.TotalDays)
	assert.Equal(t, 0.0, stats.PlannedPercentage)
	assert.Nil(t, stats.AverageConfidence)
	assert.Nil(t, stats.AverageCompatibility)
	assert.Empty(t, stats.MissingItems)
	assert.NotNil(t, stats.Days)
}

func TestAnalyzePlan_Coverage(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("a", wardrobe.Tops, 1, 5),
		mkItem("b", wardrobe.Bottoms, 1, 5),
		mkItem("c", wardrobe.Shoes, 1, 5),
	}
	mon := day("Monday", 90, "a", "b", "a")
	mon.RecommendedOutfit.CompatibilityScore = price(80)
	tue := day("Tuesday", 70, "a", "c")
	wed := day("Wednesday", 0) // nothing planned
	thu := day("Thursday", 80, "b", "c")
	thu.RecommendedOutfit.CompatibilityScore = price(60)

	stats := AnalyzePlan([]wardrobe.DayPlan{mon, tue, wed, thu}, items)

	assert.Equal(t, 3, stats.DaysPlanned)
	assert.Equal(t, 7, stats.TotalDays)
	assert.InDelta(t, 300.0/7, stats.PlannedPercentage, 1e-9)
	require.NotNil(t, stats.AverageConfidence)
	assert.InDelta(t, 80.0, *stats.AverageConfidence, 1e-9)
	require.NotNil(t, stats.AverageCompatibility)
	assert.InDelta(t, 70.0, *stats.AverageCompatibility, 1e-9)
	// a: Mon+Tue, b: Mon+Thu, c: Tue+Thu. Mon's duplicate "a" counts once.
	assert.Equal(t, 3, stats.VersatilePieces)

	require.Len(t, stats.Days, 4)
	assert.Equal(t, "Monday", stats.Days[0].Day)
	assert.Equal(t, 3, stats.Days[0].ItemCount)
	assert.True(t, stats.Days[0].Planned)
	assert.False(t, stats.Days[2].Planned)
}

func TestAnalyzePlan_MissingItems(t *testing.T) {
	items := []wardrobe.Item{mkItem("a", wardrobe.Tops, 1, 5)}
	mon := day("Monday", 90, "a", "ghost")
	mon.Alternatives = []wardrobe.AlternativeOutfit{
		{Name: "alt", Items: []string{"ghost", "phantom"}, SubstituteFor: "spirit"},
		{Name: "alt2", Items: []string{"a"}, SubstituteFor: "a"},
	}
	tue := day("Tuesday", 50, "phantom")

	stats := AnalyzePlan([]wardrobe.DayPlan{mon, tue}, items)

	assert.Equal(t, []string{"ghost", "phantom", "spirit"}, stats.MissingItems)
	assert.Equal(t, 2, stats.Alternatives)
	assert.Equal(t, 2, stats.Days[0].Alternatives)
}

func TestAnalyzePlan_LongPlanWidensDenominator(t *testing.T) {
	var plan []wardrobe.DayPlan
	for i := 0; i < 10; i++ {
		plan = append(plan, day("d", 50, "a"))
	}
	stats := AnalyzePlan(plan, []wardrobe.Item{mkItem("a", wardrobe.Tops, 1, 5)})
	assert.Equal(t, 10, stats.TotalDays)
	assert.InDelta(t, 100.0, stats.PlannedPercentage, 1e-9)
}
