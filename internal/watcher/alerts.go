package watcher

import (
	"fmt"
	"sort"
)

// sustainabilityStep is the score movement worth reporting.
const sustainabilityStep = 5.0

// Compare detects notable changes between two watch states and returns
// alerts, warnings first.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)
	return alerts
}

func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := curr.Timestamp

	// Never-worn backlog grew without items being added, i.e. an item's
	// history was reset or re-imported.
	if curr.NeverWorn > prev.NeverWorn && curr.TotalItems <= prev.TotalItems {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "More items left unworn",
			Message: fmt.Sprintf("Never-worn items rose from %d to %d", prev.NeverWorn, curr.NeverWorn),
			Time:    now,
		})
	}

	if prev.SustainabilityScore != nil && curr.SustainabilityScore != nil {
		if d := *curr.SustainabilityScore - *prev.SustainabilityScore; d <= -sustainabilityStep {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   "Sustainability score dropped",
				Message: fmt.Sprintf("Score fell from %.0f to %.0f", *prev.SustainabilityScore, *curr.SustainabilityScore),
				Time:    now,
			})
		}
	}

	if curr.MissingItems > prev.MissingItems {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Plan references missing items",
			Message: fmt.Sprintf("%d planned item(s) are no longer in the wardrobe", curr.MissingItems),
			Time:    now,
		})
	}
	return alerts
}

func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := curr.Timestamp

	for _, id := range sortedIDs(curr.wears) {
		before, existed := prev.wears[id]
		after := curr.wears[id]
		switch {
		case !existed:
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("New item: %s", curr.names[id]),
				Message: fmt.Sprintf("Added with %d recorded wear(s)", after),
				Time:    now,
			})
		case after > before:
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Worn: %s", curr.names[id]),
				Message: fmt.Sprintf("Wear count %d → %d", before, after),
				Time:    now,
			})
		}
	}

	for _, id := range sortedIDs(prev.wears) {
		if _, still := curr.wears[id]; !still {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Removed: %s", prev.names[id]),
				Message: fmt.Sprintf("Left the wardrobe after %d wear(s)", prev.wears[id]),
				Time:    now,
			})
		}
	}

	if prev.SustainabilityScore != nil && curr.SustainabilityScore != nil {
		if d := *curr.SustainabilityScore - *prev.SustainabilityScore; d >= sustainabilityStep {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   "Sustainability score up",
				Message: fmt.Sprintf("Score rose from %.0f to %.0f", *prev.SustainabilityScore, *curr.SustainabilityScore),
				Time:    now,
			})
		}
	}

	if curr.DaysPlanned != prev.DaysPlanned {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Weekly plan updated",
			Message: fmt.Sprintf("%d day(s) planned (was %d)", curr.DaysPlanned, prev.DaysPlanned),
			Time:    now,
		})
	}
	return alerts
}

func sortedIDs(m map[string]int) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
