package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

func TestAnalyzeUsage_Empty(t *testing.T) {
	stats := AnalyzeUsage(nil)
	assert.Equal(t, 0, stats.NeverWorn)
	assert.Nil(t, stats.RepeatPercentage)
	assert.Nil(t, stats.UtilizationPercentage)
	assert.Equal(t, 0, stats.CostPerWear.QualifyingItems)
	assert.Nil(t, stats.CostPerWear.Average)
	assert.Nil(t, stats.CostPerWear.MostEfficient)
	assert.Nil(t, stats.CostPerWear.LeastEfficient)
}

func TestAnalyzeUsage_NeverWornAndRepeat(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("1", wardrobe.Tops, 0, 10),
		mkItem("2", wardrobe.Tops, 5, 10),
		mkItem("3", wardrobe.Shoes, 2, 10),
	}

	stats := AnalyzeUsage(items)

	assert.Equal(t, 1, stats.NeverWorn)
	assert.Equal(t, 1, stats.LeftToWear)
	assert.Equal(t, 2, stats.ItemsWornMultipleTimes)
	require.NotNil(t, stats.RepeatPercentage)
	assert.Equal(t, 67, *stats.RepeatPercentage) // round(100*2/3)
	require.NotNil(t, stats.UtilizationPercentage)
	assert.InDelta(t, 66.666, *stats.UtilizationPercentage, 0.01)
}

func TestAnalyzeUsage_RepeatPercentageRounds(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("1", wardrobe.Tops, 2, 10),
		mkItem("2", wardrobe.Tops, 1, 10),
		mkItem("3", wardrobe.Tops, 0, 10),
	}
	stats := AnalyzeUsage(items)
	assert.Equal(t, 33, *stats.RepeatPercentage)
}

func TestAnalyzeUsage_RepeatPercentageInRange(t *testing.T) {
	for n := 1; n <= 12; n++ {
		var items []wardrobe.Item
		for i := 0; i < n; i++ {
			items = append(items, mkItem("x", wardrobe.Tops, i%4, 10))
		}
		p := *AnalyzeUsage(items).RepeatPercentage
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}

func TestAnalyzeUsage_SingleItemCostPerWear(t *testing.T) {
	it := mkItem("coat", wardrobe.Outerwear, 10, 100)
	it.PurchasePrice = price(100)

	cpw := AnalyzeUsage([]wardrobe.Item{it}).CostPerWear

	require.NotNil(t, cpw.Average)
	assert.InDelta(t, 10.0, *cpw.Average, 1e-9)
	require.NotNil(t, cpw.MostEfficient)
	require.NotNil(t, cpw.LeastEfficient)
	assert.Equal(t, "coat", cpw.MostEfficient.Item.ID)
	assert.Equal(t, "coat", cpw.LeastEfficient.Item.ID)
	assert.InDelta(t, 10.0, cpw.MostEfficient.CostPerWear, 1e-9)
}

func TestAnalyzeUsage_CostPerWearSkipsUnqualified(t *testing.T) {
	cheap := mkItem("cheap", wardrobe.Tops, 10, 50)
	cheap.PurchasePrice = price(20) // 2.0
	pricey := mkItem("pricey", wardrobe.Shoes, 2, 50)
	pricey.PurchasePrice = price(120) // 60.0
	unworn := mkItem("unworn", wardrobe.Dresses, 0, 50)
	unworn.PurchasePrice = price(300)
	free := mkItem("free", wardrobe.Tops, 40, 50)
	zero := mkItem("zero", wardrobe.Tops, 3, 50)
	zero.PurchasePrice = price(0)

	cpw := AnalyzeUsage([]wardrobe.Item{unworn, free, cheap, zero, pricey}).CostPerWear

	assert.Equal(t, 2, cpw.QualifyingItems)
	assert.InDelta(t, 31.0, *cpw.Average, 1e-9)
	assert.Equal(t, "cheap", cpw.MostEfficient.Item.ID)
	assert.Equal(t, "pricey", cpw.LeastEfficient.Item.ID)
}

func TestAnalyzeUsage_NoQualifyingItemsHasNoFallback(t *testing.T) {
	items := []wardrobe.Item{
		mkItem("a", wardrobe.Tops, 3, 10),
		mkItem("b", wardrobe.Tops, 0, 10),
	}
	items[1].PurchasePrice = price(50)

	cpw := AnalyzeUsage(items).CostPerWear

	assert.Equal(t, 0, cpw.QualifyingItems)
	assert.Nil(t, cpw.Average)
	assert.Nil(t, cpw.MostEfficient)
	assert.Nil(t, cpw.LeastEfficient)
}

func TestAnalyzeUsage_CostPerWearTieGoesToFirst(t *testing.T) {
	a := mkItem("a", wardrobe.Tops, 2, 10)
	a.PurchasePrice = price(10)
	b := mkItem("b", wardrobe.Tops, 4, 10)
	b.PurchasePrice = price(20)

	cpw := AnalyzeUsage([]wardrobe.Item{a, b}).CostPerWear

	assert.Equal(t, "a", cpw.MostEfficient.Item.ID)
	assert.Equal(t, "a", cpw.LeastEfficient.Item.ID)
}

func TestCostPerWearOf(t *testing.T) {
	it := mkItem("a", wardrobe.Tops, 4, 10)
	_, ok := CostPerWearOf(it)
	assert.False(t, ok)

	it.PurchasePrice = price(10)
	v, ok := CostPerWearOf(it)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)
}
