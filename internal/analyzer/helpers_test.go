package analyzer

import (
	"time"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// testNow is the fixed evaluation time for every time-sensitive test.
var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d float64) time.Time {
	return testNow.Add(-time.Duration(d * 24 * float64(time.Hour)))
}

func price(v float64) *float64 { return &v }

func at(t time.Time) *time.Time { return &t }

func mkItem(id string, cat wardrobe.Category, wears int, addedDaysAgo float64) wardrobe.Item {
	return wardrobe.Item{
		ID:        id,
		Name:      "item " + id,
		Category:  cat,
		WearCount: wears,
		AddedAt:   daysAgo(addedDaysAgo),
	}
}
