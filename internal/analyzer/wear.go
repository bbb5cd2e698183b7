package analyzer

import (
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Wear-rate thresholds in wears per day. They are product heuristics, not
// fitted to data.
const (
	DailyWearRate   = 0.8
	WeeklyWearRate  = 0.1
	MonthlyWearRate = 0.03
)

// minWearRateDays is the smallest age used when computing a wear rate, so an
// item added moments ago does not divide by zero.
const minWearRateDays = 1.0

// AnalyzeWear computes wear totals, extrema, and the wear-rate distribution
// as of now.
func AnalyzeWear(items []wardrobe.Item, now time.Time) WearStats {
	var stats WearStats
	if len(items) == 0 {
		return stats
	}

	most, least := items[0], items[0]
	for i, it := range items {
		stats.TotalWorn += it.WearCount
		if i > 0 {
			if it.WearCount > most.WearCount {
				most = it
			}
			if it.WearCount < least.WearCount {
				least = it
			}
		}

		switch ClassifyWearRate(WearRate(it, now)) {
		case FrequencyDaily:
			stats.WearFrequency.Daily++
		case FrequencyWeekly:
			stats.WearFrequency.Weekly++
		case FrequencyMonthly:
			stats.WearFrequency.Monthly++
		}
	}

	stats.AverageWear = floatPtr(float64(stats.TotalWorn) / float64(len(items)))
	stats.MostWornItem = refOf(most)
	stats.LeastWornItem = refOf(least)
	return stats
}

// WearRate returns wears per day since the item was added.
func WearRate(it wardrobe.Item, now time.Time) float64 {
	days := it.DaysSinceAdded(now)
	if days < minWearRateDays {
		days = minWearRateDays
	}
	return float64(it.WearCount) / days
}

// Frequency is a wear-rate bucket.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyRare    Frequency = ""
)

// ClassifyWearRate maps a wear rate to its bucket. Rates below the monthly
// threshold are FrequencyRare and are not counted anywhere.
func ClassifyWearRate(rate float64) Frequency {
	switch {
	case rate >= DailyWearRate:
		return FrequencyDaily
	case rate >= WeeklyWearRate:
		return FrequencyWeekly
	case rate >= MonthlyWearRate:
		return FrequencyMonthly
	default:
		return FrequencyRare
	}
}
