// Package suggest turns wardrobe analytics into ranked, actionable tips.
package suggest

import (
	"time"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion categories.
const (
	CategoryUsage          = "usage"
	CategoryCost           = "cost"
	CategorySustainability = "sustainability"
	CategoryOrganization   = "organization"
	CategoryPlanning       = "planning"
)

// Suggestion represents an actionable improvement recommendation.
type Suggestion struct {
	Category    string   `json:"category"`
	Priority    int      `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImpactScore float64  `json:"impact_score"`
	ItemIDs     []string `json:"item_ids,omitempty"`
}

// Thresholds are the trigger points of the built-in rules.
type Thresholds struct {
	MinConfidence      float64 `json:"min_confidence"`
	LowUtilization     float64 `json:"low_utilization"`
	PoorCostPerWear    float64 `json:"poor_cost_per_wear"`
	LowSustainability  float64 `json:"low_sustainability"`
	ImbalanceRatio     float64 `json:"imbalance_ratio"`
	NeverWornAfterDays float64 `json:"never_worn_after_days"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:      60,
		LowUtilization:     70,
		PoorCostPerWear:    20,
		LowSustainability:  40,
		ImbalanceRatio:     0.5,
		NeverWornAfterDays: 30,
	}
}

// AnalysisContext provides all data needed by suggest rules. Result must
// have been computed from Items at Now.
type AnalysisContext struct {
	Now        time.Time
	Items      []wardrobe.Item
	Result     analyzer.AnalyticsResult
	Thresholds Thresholds
}

// NewContext computes analytics for snap at now and wraps them for the rules.
func NewContext(snap wardrobe.Snapshot, now time.Time, th Thresholds) *AnalysisContext {
	return &AnalysisContext{
		Now:        now,
		Items:      snap.Items,
		Result:     analyzer.Analyze(snap, now),
		Thresholds: th,
	}
}

// Rule is a function that examines the analysis context and produces
// zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion
