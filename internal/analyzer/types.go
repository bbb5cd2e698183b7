// Package analyzer derives read-only wardrobe analytics from a snapshot:
// category, wear, time-window, usage, sustainability, and weekly-plan stats.
//
// Ratios that are undefined for an empty input are nil pointers rather than
// NaN, so display code can render "no data" instead of a bogus number.
package analyzer

import (
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// AnalyticsResult is the top-level result of analyzing one wardrobe snapshot.
type AnalyticsResult struct {
	// TotalItems is the number of items in the snapshot.
	TotalItems int `json:"total_items"`

	// ComputedAt is the evaluation time used for every time-sensitive stat.
	ComputedAt time.Time `json:"computed_at"`

	Categories     CategoryStats       `json:"category_stats"`
	Wear           WearStats           `json:"wear_stats"`
	Time           TimeStats           `json:"time_based_stats"`
	Usage          UsageStats          `json:"usage_stats"`
	Sustainability SustainabilityStats `json:"sustainability_stats"`
	Plan           PlanStats           `json:"plan_stats"`
}

// ItemRef identifies an item inside a result without copying the full record.
type ItemRef struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  wardrobe.Category `json:"category"`
	WearCount int               `json:"wear_count"`
}

func refOf(it wardrobe.Item) *ItemRef {
	return &ItemRef{ID: it.ID, Name: it.Name, Category: it.Category, WearCount: it.WearCount}
}

// CategoryStats counts items per known category.
type CategoryStats struct {
	Tops        int `json:"tops"`
	Bottoms     int `json:"bottoms"`
	Dresses     int `json:"dresses"`
	Outerwear   int `json:"outerwear"`
	Shoes       int `json:"shoes"`
	Accessories int `json:"accessories"`

	// Uncategorized counts items whose category is missing or unknown. They
	// are excluded from the six buckets above.
	Uncategorized int `json:"uncategorized"`
}

// WearFrequency buckets items by wear rate. Items rarer than monthly are not
// counted, so the buckets do not partition the wardrobe.
type WearFrequency struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

// WearStats captures how much the wardrobe is worn.
type WearStats struct {
	// TotalWorn is the sum of wear counts across all items.
	TotalWorn int `json:"total_worn"`

	// AverageWear is TotalWorn per item; nil for an empty wardrobe.
	AverageWear *float64 `json:"average_wear"`

	// MostWornItem and LeastWornItem resolve ties to the earliest item in
	// snapshot order; nil for an empty wardrobe.
	MostWornItem  *ItemRef `json:"most_worn_item"`
	LeastWornItem *ItemRef `json:"least_worn_item"`

	WearFrequency WearFrequency `json:"wear_frequency"`
}

// SeasonTrend summarizes items acquired during one season.
type SeasonTrend struct {
	Season     Season  `json:"season"`
	ItemsAdded int     `json:"items_added"`
	Spending   float64 `json:"spending"`

	// MostWornCategory is the category with the most wears among items added
	// in this season; empty when none of them has been worn.
	MostWornCategory wardrobe.Category `json:"most_worn_category,omitempty"`
}

// TimeStats captures recency of wear and acquisition seasonality.
type TimeStats struct {
	// WeeklyWorn counts items last worn within the trailing 7 days.
	WeeklyWorn int `json:"weekly_worn"`

	// MonthlyWorn counts items last worn within the trailing 30 days.
	MonthlyWorn int `json:"monthly_worn"`

	// SeasonalTrends always holds the four seasons in Spring..Winter order.
	SeasonalTrends []SeasonTrend `json:"seasonal_trends"`
}

// CostPerWearEntry pairs an item with its purchase price divided by wears.
type CostPerWearEntry struct {
	Item        ItemRef `json:"item"`
	CostPerWear float64 `json:"cost_per_wear"`
}

// CostPerWear summarizes cost efficiency over items that have both a price
// and at least one wear. All fields are nil when no item qualifies.
type CostPerWear struct {
	QualifyingItems int               `json:"qualifying_items"`
	Average         *float64          `json:"average"`
	MostEfficient   *CostPerWearEntry `json:"most_efficient"`
	LeastEfficient  *CostPerWearEntry `json:"least_efficient"`
}

// UsageStats captures how much of the wardrobe is in rotation.
type UsageStats struct {
	NeverWorn              int `json:"never_worn"`
	LeftToWear             int `json:"left_to_wear"`
	ItemsWornMultipleTimes int `json:"items_worn_multiple_times"`

	// RepeatPercentage is the rounded share of items worn more than once.
	RepeatPercentage *int `json:"repeat_percentage"`

	// UtilizationPercentage is the share of items worn at least once.
	UtilizationPercentage *float64 `json:"utilization_percentage"`

	CostPerWear CostPerWear `json:"cost_per_wear"`
}

// SustainabilityStats captures investment and re-wear heuristics.
type SustainabilityStats struct {
	TotalInvestment    float64  `json:"total_investment"`
	AverageCostPerItem *float64 `json:"average_cost_per_item"`

	// SustainabilityScore is a 0-100 heuristic rewarding average re-wear.
	SustainabilityScore *float64 `json:"sustainability_score"`

	// CO2SavedFromRewearing is an estimate in kg, never negative.
	CO2SavedFromRewearing float64 `json:"co2_saved_from_rewearing"`
}

// DaySummary is the per-day view of a weekly plan.
type DaySummary struct {
	Day           string   `json:"day"`
	Date          string   `json:"date"`
	Outfit        string   `json:"outfit"`
	ItemCount     int      `json:"item_count"`
	Planned       bool     `json:"planned"`
	Confidence    float64  `json:"confidence"`
	Compatibility *float64 `json:"compatibility,omitempty"`
	Alternatives  int      `json:"alternatives"`
}

// PlanStats summarizes the weekly outfit plan. Confidence values are
// reported as supplied by the planner; they are never recomputed.
type PlanStats struct {
	DaysPlanned       int     `json:"days_planned"`
	TotalDays         int     `json:"total_days"`
	PlannedPercentage float64 `json:"planned_percentage"`

	// AverageConfidence is the mean recommended-outfit confidence over
	// planned days; nil when nothing is planned.
	AverageConfidence *float64 `json:"average_confidence"`

	// AverageCompatibility is the mean compatibility over planned days that
	// report one; nil when none do.
	AverageCompatibility *float64 `json:"average_compatibility"`

	// VersatilePieces counts distinct items recommended on two or more days.
	VersatilePieces int `json:"versatile_pieces"`

	Alternatives int `json:"alternatives"`

	// MissingItems lists referenced item ids absent from the snapshot.
	MissingItems []string `json:"missing_items,omitempty"`

	Days []DaySummary `json:"days"`
}

func floatPtr(v float64) *float64 { return &v }
