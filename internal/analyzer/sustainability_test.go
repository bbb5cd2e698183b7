package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func TestAnalyzeSustainability_Empty(t *testing.T) {
	stats := AnalyzeSustainability(nil)
	assert.Equal(t, 0.0, stats.TotalInvestment)
	assert.Nil(t, stats.AverageCostPerItem)
	assert.Nil(t, stats.SustainabilityScore)
	assert.Equal(t, 0.0, stats.CO2SavedFromRewearing)
}

func TestAnalyzeSustainability_Investment(t *testing.T) {
	a := mkItem("a", wardrobe.Tops, 1, 10)
	a.PurchasePrice = price(0.1)
	b := mkItem("b", wardrobe.Tops, 1, 10)
	b.PurchasePrice = price(0.2)
	c := mkItem("c", wardrobe.Tops, 1, 10) // no price counts as zero

	stats := AnalyzeSustainability([]wardrobe.Item{a, b, c})

	assert.Equal(t, 0.3, stats.TotalInvestment)
	require.NotNil(t, stats.AverageCostPerItem)
	assert.InDelta(t, 0.1, *stats.AverageCostPerItem, 1e-12)
}

func TestAnalyzeSustainability_ScoreIsLinearAndClamped(t *testing.T) {
	tests := []struct {
		name  string
		wears []int
		want  float64
	}{
		{"none worn", []int{0, 0}, 0},
		{"average 2.5", []int{2, 3}, 25},
		{"average 10", []int{10, 10}, 100},
		{"huge", []int{1000, 5000}, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var items []wardrobe.Item
			for _, w := range tc.wears {
				items = append(items, mkItem("x", wardrobe.Tops, w, 10))
			}
			score := AnalyzeSustainability(items).SustainabilityScore
			require.NotNil(t, score)
			assert.InDelta(t, tc.want, *score, 1e-9)
			assert.GreaterOrEqual(t, *score, 0.0)
			assert.LessOrEqual(t, *score, 100.0)
		})
	}
}

func TestAnalyzeSustainability_CO2(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("a", wardrobe.Tops, 5, 10),
		mkItem("b", wardrobe.Tops, 3, 10),
	}
	// (8 - 2) * 33
	assert.InDelta(t, 198.0, AnalyzeSustainability(items).CO2SavedFromRewearing, 1e-9)

	unworn := []wardrobe.Item{
		mkItem("a", wardrobe.Tops, 0, 10),
		mkItem("b", wardrobe.Tops, 1, 10),
	}
	assert.Equal(t, 0.0, AnalyzeSustainability(unworn).CO2SavedFromRewearing)
}
