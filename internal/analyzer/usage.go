package analyzer

import (
	"math"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// AnalyzeUsage computes never-worn and repeat-wear counts and cost-per-wear
// extrema.
func AnalyzeUsage(items []wardrobe.Item) UsageStats {
	var stats UsageStats
	for _, it := range items {
		if it.WearCount <= 0 {
			stats.NeverWorn++
		}
		if it.WearCount > 1 {
			stats.ItemsWornMultipleTimes++
		}
	}
	stats.LeftToWear = stats.NeverWorn

	if n := len(items); n > 0 {
		repeat := int(math.Round(100 * float64(stats.ItemsWornMultipleTimes) / float64(n)))
		stats.RepeatPercentage = &repeat
		stats.UtilizationPercentage = floatPtr(100 * float64(n-stats.NeverWorn) / float64(n))
	}

	stats.CostPerWear = analyzeCostPerWear(items)
	return stats
}

// CostPerWearOf returns price divided by wears, or false when the item lacks
// a price or has never been worn.
func CostPerWearOf(it wardrobe.Item) (float64, bool) {
	if !it.HasPrice() || it.WearCount <= 0 {
		return 0, false
	}
	return it.Price() / float64(it.WearCount), true
}

func analyzeCostPerWear(items []wardrobe.Item) CostPerWear {
	var (
		out         CostPerWear
		sum         float64
		most, least *CostPerWearEntry
	)
	for _, it := range items {
		cpw, ok := CostPerWearOf(it)
		if !ok {
			continue
		}
		out.QualifyingItems++
		sum += cpw

		if most == nil || cpw < most.CostPerWear {
			most = &CostPerWearEntry{Item: *refOf(it), CostPerWear: cpw}
		}
		if least == nil || cpw > least.CostPerWear {
			least = &CostPerWearEntry{Item: *refOf(it), CostPerWear: cpw}
		}
	}
	if out.QualifyingItems == 0 {
		return out
	}
	out.Average = floatPtr(sum / float64(out.QualifyingItems))
	out.MostEfficient = most
	out.LeastEfficient = least
	return out
}
