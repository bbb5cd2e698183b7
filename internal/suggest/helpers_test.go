package suggest

import (
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func item(id string, cat wardrobe.Category, wears int, addedDaysAgo int, price float64) wardrobe.Item {
	it := wardrobe.Item{
		ID:        id,
		Name:      "item " + id,
		Category:  cat,
		WearCount: wears,
		AddedAt:   testNow.AddDate(0, 0, -addedDaysAgo),
	}
	if price > 0 {
		it.PurchasePrice = &price
	}
	return it
}

func planDay(day string, conf float64, items ...string) wardrobe.DayPlan {
	return wardrobe.DayPlan{
		Day:               day,
		RecommendedOutfit: wardrobe.RecommendedOutfit{Name: day + " outfit", Items: items, Confidence: conf},
	}
}

func fullWeek(conf float64, items ...string) []wardrobe.DayPlan {
	var plan []wardrobe.DayPlan
	for _, d := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		plan = append(plan, planDay(d, conf, items...))
	}
	return plan
}

func ctxFor(items []wardrobe.Item, plan []wardrobe.DayPlan) *AnalysisContext {
	return NewContext(wardrobe.Snapshot{UserID: "u1", Items: items, Plan: plan}, testNow, DefaultThresholds())
}

func titles(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Title
	}
	return out
}
