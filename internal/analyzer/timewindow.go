package analyzer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Trailing windows for recency counts.
const (
	WeeklyWindow  = 7 * 24 * time.Hour
	MonthlyWindow = 30 * 24 * time.Hour
)

// Season is a fixed Northern-Hemisphere season used to bucket acquisitions.
// It is a display convenience and ignores the user's locale.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
)

// Seasons lists every season in display order.
var Seasons = []Season{Spring, Summer, Fall, Winter}

// SeasonOf maps a calendar month to its season: Mar-May spring, Jun-Aug
// summer, Sep-Nov fall, Dec-Feb winter.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// AnalyzeTimeWindows counts recently worn items relative to now and buckets
// acquisitions by season. Acquisition months are read in now's location.
func AnalyzeTimeWindows(items []wardrobe.Item, now time.Time) TimeStats {
	weekAgo := now.Add(-WeeklyWindow)
	monthAgo := now.Add(-MonthlyWindow)

	type bucket struct {
		added    int
		spending decimal.Decimal
		wears    map[wardrobe.Category]int
	}
	buckets := make(map[Season]*bucket, len(Seasons))
	for _, s := range Seasons {
		buckets[s] = &bucket{wears: make(map[wardrobe.Category]int)}
	}

	var stats TimeStats
	for _, it := range items {
		if it.WornSince(weekAgo) {
			stats.WeeklyWorn++
		}
		if it.WornSince(monthAgo) {
			stats.MonthlyWorn++
		}

		b := buckets[SeasonOf(it.AddedAt.In(now.Location()).Month())]
		b.added++
		b.spending = b.spending.Add(decimal.NewFromFloat(it.Price()))
		if it.Category.Valid() {
			b.wears[it.Category] += it.WearCount
		}
	}

	stats.SeasonalTrends = make([]SeasonTrend, 0, len(Seasons))
	for _, s := range Seasons {
		b := buckets[s]
		stats.SeasonalTrends = append(stats.SeasonalTrends, SeasonTrend{
			Season:           s,
			ItemsAdded:       b.added,
			Spending:         b.spending.InexactFloat64(),
			MostWornCategory: topCategory(b.wears),
		})
	}
	return stats
}

// topCategory returns the category with the highest positive count, with
// ties going to the earlier category in canonical order.
func topCategory(counts map[wardrobe.Category]int) wardrobe.Category {
	var best wardrobe.Category
	bestCount := 0
	for _, c := range wardrobe.Categories {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
