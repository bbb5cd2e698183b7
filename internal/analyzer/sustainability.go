package analyzer

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Sustainability heuristics. The score is linear and uncalibrated: an average
// of ten wears per item is a perfect score. The CO2 figure credits one avoided
// new garment per wear beyond the first.
const (
	ScorePerAverageWear    = 10.0
	MaxSustainabilityScore = 100.0
	CO2PerNewGarmentKg     = 33.0
)

// AnalyzeSustainability computes investment totals and re-wear heuristics.
func AnalyzeSustainability(items []wardrobe.Item) SustainabilityStats {
	total := decimal.Zero
	wears := 0
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price()))
		wears += it.WearCount
	}

	stats := SustainabilityStats{
		TotalInvestment:       total.InexactFloat64(),
		CO2SavedFromRewearing: math.Max(0, float64(wears-len(items))*CO2PerNewGarmentKg),
	}
	if n := len(items); n > 0 {
		stats.AverageCostPerItem = floatPtr(total.Div(decimal.NewFromInt(int64(n))).InexactFloat64())
		score := math.Min(MaxSustainabilityScore, float64(wears)/float64(n)*ScorePerAverageWear)
		stats.SustainabilityScore = floatPtr(math.Max(0, score))
	}
	return stats
}
