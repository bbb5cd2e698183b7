package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// NeverWornItems suggests wearing or letting go of items that have sat
// unworn for longer than the configured grace period.
func NeverWornItems(ctx *AnalysisContext) []Suggestion {
	var ids, names []string
	for _, it := range ctx.Items {
		if it.WearCount <= 0 && it.DaysSinceAdded(ctx.Now) >= ctx.Thresholds.NeverWornAfterDays {
			ids = append(ids, it.ID)
			names = append(names, it.Name)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	share := float64(len(ids)) / float64(len(ctx.Items))
	return []Suggestion{{
		Category: CategoryUsage,
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("Wear or pass on %d never-worn item(s)", len(ids)),
		Description: fmt.Sprintf(
			"%s %s not been worn in over %.0f days. Plan them into this week's outfits, "+
				"or donate them so they get a second life.",
			listNames(names, 3), hasHave(len(ids)), ctx.Thresholds.NeverWornAfterDays,
		),
		ImpactScore: ComputeImpact(len(ids), share, 5.0, 2.0),
		ItemIDs:     ids,
	}}
}

// LowUtilization suggests rotating the wardrobe when too small a share of
// items has ever been worn.
func LowUtilization(ctx *AnalysisContext) []Suggestion {
	u := ctx.Result.Usage.UtilizationPercentage
	if u == nil || *u >= ctx.Thresholds.LowUtilization {
		return nil
	}
	unworn := ctx.Result.Usage.LeftToWear
	return []Suggestion{{
		Category: CategoryUsage,
		Priority: PriorityMedium,
		Title:    "Rotate more of your wardrobe",
		Description: fmt.Sprintf(
			"Only %.0f%% of your items have been worn (target %.0f%%). "+
				"Try building outfits around the %d item(s) still waiting for a first wear.",
			*u, ctx.Thresholds.LowUtilization, unworn,
		),
		ImpactScore: ComputeImpact(unworn, 1-*u/100, 4.0, 3.0),
	}}
}

// PoorCostPerWear flags priced, worn items whose cost per wear is still
// above the threshold.
func PoorCostPerWear(ctx *AnalysisContext) []Suggestion {
	th := ctx.Thresholds.PoorCostPerWear
	if th <= 0 || math.IsInf(th, 0) || math.IsNaN(th) {
		return nil
	}
	var suggestions []Suggestion
	for _, it := range ctx.Items {
		cpw, ok := analyzer.CostPerWearOf(it)
		if !ok || cpw <= th {
			continue
		}
		// Smallest wear count whose cost per wear is strictly under th.
		target := int(math.Floor(it.Price()/th)) + 1 - it.WearCount
		suggestions = append(suggestions, Suggestion{
			Category: CategoryCost,
			Priority: PriorityLow,
			Title:    fmt.Sprintf("Get more out of %s", it.Name),
			Description: fmt.Sprintf(
				"%s costs %.2f per wear. About %d more wear(s) would bring it under %.2f.",
				it.Name, cpw, target, th,
			),
			ImpactScore: ComputeImpact(1, 1.0, cpw/th, 5.0),
			ItemIDs:     []string{it.ID},
		})
	}
	return suggestions
}

// LowSustainability encourages re-wearing when the sustainability score is
// below the threshold.
func LowSustainability(ctx *AnalysisContext) []Suggestion {
	score := ctx.Result.Sustainability.SustainabilityScore
	if score == nil || *score >= ctx.Thresholds.LowSustainability {
		return nil
	}
	return []Suggestion{{
		Category: CategorySustainability,
		Priority: PriorityMedium,
		Title:    "Re-wear before you buy",
		Description: fmt.Sprintf(
			"Your sustainability score is %.0f/100. Each extra wear per item adds %.0f points; "+
				"re-wearing favourites is the quickest way to raise it.",
			*score, analyzer.ScorePerAverageWear,
		),
		ImpactScore: ComputeImpact(ctx.Result.TotalItems, 1-*score/100, 3.0, 4.0),
	}}
}

// UncategorizedItems asks the user to file items whose category is not one
// of the known six.
func UncategorizedItems(ctx *AnalysisContext) []Suggestion {
	var ids []string
	for _, it := range ctx.Items {
		if !it.Category.Valid() {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: CategoryOrganization,
		Priority: PriorityLow,
		Title:    fmt.Sprintf("Categorize %d item(s)", len(ids)),
		Description: "Some items have no recognised category, so they are left out of the " +
			"category breakdown and charts. Assign one of: " + categoryList() + ".",
		ImpactScore: ComputeImpact(len(ids), float64(len(ids))/float64(len(ctx.Items)), 2.0, 1.0),
		ItemIDs:     ids,
	}}
}

// CategoryImbalance notes when a single category dominates the wardrobe.
func CategoryImbalance(ctx *AnalysisContext) []Suggestion {
	cats := ctx.Result.Categories
	total := cats.Categorized()
	if total < 4 {
		return nil
	}

	var top wardrobe.Category
	topN := 0
	for _, c := range wardrobe.Categories {
		if n := cats.Count(c); n > topN {
			top, topN = c, n
		}
	}
	share := float64(topN) / float64(total)
	if share <= ctx.Thresholds.ImbalanceRatio {
		return nil
	}

	var empty []string
	for _, c := range wardrobe.Categories {
		if cats.Count(c) == 0 {
			empty = append(empty, strings.ToLower(c.Label()))
		}
	}
	desc := fmt.Sprintf("%s make up %.0f%% of your categorized items.", top.Label(), share*100)
	if len(empty) > 0 {
		desc += " You have nothing in: " + strings.Join(empty, ", ") + "."
	}
	return []Suggestion{{
		Category:    CategoryOrganization,
		Priority:    PriorityLow,
		Title:       fmt.Sprintf("Wardrobe leans heavily on %s", strings.ToLower(top.Label())),
		Description: desc + " Favour versatile pieces in other categories before adding more.",
		ImpactScore: ComputeImpact(topN, share-ctx.Thresholds.ImbalanceRatio, 2.0, 5.0),
	}}
}

// UnplannedDays suggests filling the days of the week without an outfit.
func UnplannedDays(ctx *AnalysisContext) []Suggestion {
	plan := ctx.Result.Plan
	open := plan.TotalDays - plan.DaysPlanned
	if open <= 0 {
		return nil
	}

	var days []string
	for _, d := range plan.Days {
		if !d.Planned {
			days = append(days, d.Day)
		}
	}
	desc := fmt.Sprintf("%d of %d days have no planned outfit.", open, plan.TotalDays)
	if len(days) > 0 {
		desc += " Unplanned: " + strings.Join(days, ", ") + "."
	}
	return []Suggestion{{
		Category:    CategoryPlanning,
		Priority:    PriorityMedium,
		Title:       "Plan the rest of your week",
		Description: desc + " Planning ahead is the easiest way to rotate rarely worn pieces.",
		ImpactScore: ComputeImpact(open, float64(open)/float64(plan.TotalDays), 3.0, 2.0),
	}}
}

// LowConfidenceDays flags planned days whose recommended outfit has a
// confidence below the threshold.
func LowConfidenceDays(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, d := range ctx.Result.Plan.Days {
		if !d.Planned || d.Confidence >= ctx.Thresholds.MinConfidence {
			continue
		}
		alt := "Consider building an alternative."
		if d.Alternatives > 0 {
			alt = fmt.Sprintf("Review its %d alternative(s).", d.Alternatives)
		}
		suggestions = append(suggestions, Suggestion{
			Category: CategoryPlanning,
			Priority: PriorityLow,
			Title:    fmt.Sprintf("Revisit %s's outfit", d.Day),
			Description: fmt.Sprintf(
				"%q has a confidence of %.0f, below %.0f. %s",
				d.Outfit, d.Confidence, ctx.Thresholds.MinConfidence, alt,
			),
			ImpactScore: ComputeImpact(1, 1-d.Confidence/100, 2.0, 2.0),
		})
	}
	return suggestions
}

// MissingPlanItems reports plan references to items no longer in the
// wardrobe.
func MissingPlanItems(ctx *AnalysisContext) []Suggestion {
	missing := ctx.Result.Plan.MissingItems
	if len(missing) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: CategoryPlanning,
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("Weekly plan references %d missing item(s)", len(missing)),
		Description: "The plan uses items that are not in your wardrobe (" +
			strings.Join(missing, ", ") + "). Replace them or re-import the plan.",
		ImpactScore: ComputeImpact(len(missing), 1.0, 4.0, 2.0),
		ItemIDs:     missing,
	}}
}

func listNames(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:limit], ", "), len(names)-limit)
}

func hasHave(n int) string {
	if n == 1 {
		return "has"
	}
	return "have"
}

func categoryList() string {
	names := make([]string, len(wardrobe.Categories))
	for i, c := range wardrobe.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
