package analyzer

import "github.com/blackwell-systems/closetwatch/internal/wardrobe"

// DaysPerWeek is the denominator for plan coverage.
const DaysPerWeek = 7

// AnalyzePlan summarizes a weekly plan against the wardrobe it references.
func AnalyzePlan(plan []wardrobe.DayPlan, items []wardrobe.Item) PlanStats {
	stats := PlanStats{
		TotalDays: DaysPerWeek,
		Days:      make([]DaySummary, 0, len(plan)),
	}
	if len(plan) > stats.TotalDays {
		stats.TotalDays = len(plan)
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}
	missingSeen := make(map[string]bool)
	noteRef := func(id string) {
		if id == "" || known[id] || missingSeen[id] {
			return
		}
		missingSeen[id] = true
		stats.MissingItems = append(stats.MissingItems, id)
	}

	daysByItem := make(map[string]int)
	var confSum, compatSum float64
	compatDays := 0

	for _, d := range plan {
		rec := d.RecommendedOutfit
		summary := DaySummary{
			Day:           d.Day,
			Date:          d.Date,
			Outfit:        rec.Name,
			ItemCount:     len(rec.Items),
			Planned:       len(rec.Items) > 0,
			Confidence:    rec.Confidence,
			Compatibility: rec.CompatibilityScore,
			Alternatives:  len(d.Alternatives),
		}
		stats.Days = append(stats.Days, summary)
		stats.Alternatives += len(d.Alternatives)

		seenToday := make(map[string]bool, len(rec.Items))
		for _, id := range rec.Items {
			noteRef(id)
			if !seenToday[id] {
				seenToday[id] = true
				daysByItem[id]++
			}
		}
		for _, alt := range d.Alternatives {
			for _, id := range alt.Items {
				noteRef(id)
			}
			noteRef(alt.SubstituteFor)
		}

		if !summary.Planned {
			continue
		}
		stats.DaysPlanned++
		confSum += rec.Confidence
		if rec.CompatibilityScore != nil {
			compatSum += *rec.CompatibilityScore
			compatDays++
		}
	}

	for _, n := range daysByItem {
		if n >= 2 {
			stats.VersatilePieces++
		}
	}

	stats.PlannedPercentage = 100 * float64(stats.DaysPlanned) / float64(stats.TotalDays)
	if stats.DaysPlanned > 0 {
		stats.AverageConfidence = floatPtr(confSum / float64(stats.DaysPlanned))
	}
	if compatDays > 0 {
		stats.AverageCompatibility = floatPtr(compatSum / float64(compatDays))
	}
	return stats
}
