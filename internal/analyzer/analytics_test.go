package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func sampleSnapshot() wardrobe.Snapshot {
	shirt := mkItem("shirt", wardrobe.Tops, 12, 120)
	shirt.PurchasePrice = price(30)
	shirt.LastWornAt = at(daysAgo(1))
	jeans := mkItem("jeans", wardrobe.Bottoms, 6, 200)
	jeans.PurchasePrice = price(90)
	jeans.LastWornAt = at(daysAgo(12))
	dress := mkItem("dress", wardrobe.Dresses, 0, 30)
	dress.PurchasePrice = price(180)
	scarf := mkItem("scarf", wardrobe.Category("misc"), 1, 10)

	return wardrobe.Snapshot{
		UserID:  "u1",
		TakenAt: testNow,
		Items:   []wardrobe.Item{shirt, jeans, dress, scarf},
		Plan: []wardrobe.DayPlan{
			day("Monday", 85, "shirt", "jeans"),
			day("Tuesday", 75, "shirt", "dress"),
		},
	}
}

func TestAnalyze_EmptyWardrobe(t *testing.T) {
	res := Analyze(wardrobe.Snapshot{UserID: "u1"}, testNow)

	assert.Equal(t, 0, res.TotalItems)
	assert.Equal(t, 0, res.Wear.TotalWorn)
	assert.Nil(t, res.Wear.AverageWear)
	assert.Nil(t, res.Wear.MostWornItem)
	assert.Nil(t, res.Wear.LeastWornItem)
	assert.Nil(t, res.Usage.RepeatPercentage)
	assert.Nil(t, res.Usage.CostPerWear.Average)
	assert.Equal(t, 0.0, res.Sustainability.TotalInvestment)
	assert.Nil(t, res.Sustainability.SustainabilityScore)
	assert.Equal(t, 0, res.Plan.DaysPlanned)
}

func TestAnalyze_Sample(t *testing.T) {
	res := Analyze(sampleSnapshot(), testNow)

	assert.Equal(t, 4, res.TotalItems)
	assert.Equal(t, 1, res.Categories.Tops)
	assert.Equal(t, 1, res.Categories.Uncategorized)
	assert.Equal(t, 19, res.Wear.TotalWorn)
	require.NotNil(t, res.Wear.MostWornItem)
	assert.Equal(t, "shirt", res.Wear.MostWornItem.ID)
	assert.Equal(t, "dress", res.Wear.LeastWornItem.ID)
	assert.Equal(t, 1, res.Time.WeeklyWorn)
	assert.Equal(t, 2, res.Time.MonthlyWorn)
	assert.Equal(t, 1, res.Usage.NeverWorn)
	assert.Equal(t, 2, res.Usage.CostPerWear.QualifyingItems)
	assert.InDelta(t, 300.0, res.Sustainability.TotalInvestment, 1e-9)
	assert.Equal(t, 2, res.Plan.DaysPlanned)
	assert.Equal(t, 1, res.Plan.VersatilePieces)
	assert.Equal(t, testNow, res.ComputedAt)
}

func TestAnalyze_Invariants(t *testing.T) {
	res := Analyze(sampleSnapshot(), testNow)

	assert.LessOrEqual(t, res.Categories.Categorized()+res.Categories.Uncategorized, res.TotalItems)
	assert.LessOrEqual(t, res.Usage.NeverWorn, res.TotalItems)
	assert.LessOrEqual(t, res.Time.WeeklyWorn, res.Time.MonthlyWorn)
	assert.GreaterOrEqual(t, *res.Usage.RepeatPercentage, 0)
	assert.LessOrEqual(t, *res.Usage.RepeatPercentage, 100)
	assert.GreaterOrEqual(t, *res.Sustainability.SustainabilityScore, 0.0)
	assert.LessOrEqual(t, *res.Sustainability.SustainabilityScore, 100.0)
	assert.GreaterOrEqual(t, res.Sustainability.CO2SavedFromRewearing, 0.0)
	assert.GreaterOrEqual(t, res.Wear.MostWornItem.WearCount, res.Wear.LeastWornItem.WearCount)
}

func TestAnalyze_Idempotent(t *testing.T) {
	snap := sampleSnapshot()
	first := Analyze(snap, testNow)
	second := Analyze(snap, testNow)
	assert.Equal(t, first, second)
}

func TestAnalyze_DoesNotMutateSnapshot(t *testing.T) {
	snap := sampleSnapshot()
	before := snap.Clone()
	Analyze(snap, testNow)
	assert.Equal(t, before, snap)
}

func TestAnalyze_NonFinitePriceIsIgnored(t *testing.T) {
	snap := sampleSnapshot()
	gold := mkItem("gold", wardrobe.Outerwear, 2, 40)
	gold.PurchasePrice = price(math.Inf(1))
	odd := mkItem("odd", wardrobe.Shoes, 1, 40)
	odd.PurchasePrice = price(math.NaN())
	snap.Items = append(snap.Items, gold, odd)

	var res AnalyticsResult
	require.NotPanics(t, func() { res = Analyze(snap, testNow) })
	assert.Equal(t, 300.0, res.Sustainability.TotalInvestment)
	for _, trend := range res.Time.SeasonalTrends {
		assert.False(t, math.IsInf(trend.Spending, 0) || math.IsNaN(trend.Spending))
	}
}
