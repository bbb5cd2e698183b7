package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Short", TruncateLabel("Short", 12))
	assert.Equal(t, "Exactly12chr", TruncateLabel("Exactly12chr", 12))
	assert.Equal(t, "Navy Wool Bl...", TruncateLabel("Navy Wool Blazer", 12))
	assert.Equal(t, "ÉtéÉtéÉtéÉté...", TruncateLabel("ÉtéÉtéÉtéÉtéÉté", 12))
}

func TestCategoryChart(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("1", wardrobe.Shoes, 0, 1),
		mkItem("2", wardrobe.Tops, 0, 1),
		mkItem("3", wardrobe.Tops, 0, 1),
		mkItem("4", wardrobe.Category("hats"), 0, 1),
	}
	chart := CategoryChart(AnalyzeCategories(items))

	require.Len(t, chart, 2)
	assert.Equal(t, CategoryChartEntry{Name: "Tops", Value: 2, Fill: CategoryColors[wardrobe.Tops]}, chart[0])
	assert.Equal(t, CategoryChartEntry{Name: "Shoes", Value: 1, Fill: CategoryColors[wardrobe.Shoes]}, chart[1])
}

func TestWearFrequencyChart(t *testing.T) {
	a := mkItem("a", wardrobe.Tops, 2, 1)
	a.Name = "Navy Wool Blazer"
	a.PurchasePrice = price(250) // cpw 125
	b := mkItem("b", wardrobe.Shoes, 10, 1)
	b.PurchasePrice = price(50) // cpw 5
	c := mkItem("c", wardrobe.Tops, 2, 1)
	d := mkItem("d", wardrobe.Dresses, 0, 1)
	d.PurchasePrice = price(40) // divides by 1

	chart := WearFrequencyChart([]wardrobe.Item{a, b, c, d})

	require.Len(t, chart, 4)
	assert.Equal(t, "item b", chart[0].Name)
	assert.InDelta(t, 95.0, chart[0].Efficiency, 1e-9)
	assert.Equal(t, "Navy Wool Bl...", chart[1].Name, "equal wears keep input order")
	assert.Equal(t, 0.0, chart[1].Efficiency)
	assert.Equal(t, "item c", chart[2].Name)
	assert.Equal(t, 100.0, chart[2].Efficiency)
	assert.InDelta(t, 60.0, chart[3].Efficiency, 1e-9)
}

func TestUsageTrend(t *testing.T) {
	var items []wardrobe.Item
	for _, w := range []int{0, 0, 1, 5, 6, 10, 11, 40} {
		items = append(items, mkItem("x", wardrobe.Tops, w, 1))
	}
	trend := UsageTrend(items)
	assert.Equal(t, []UsageTrendEntry{
		{Period: "Never", Count: 2},
		{Period: "1-5x", Count: 2},
		{Period: "6-10x", Count: 2},
		{Period: "11+", Count: 2},
	}, trend)
}
