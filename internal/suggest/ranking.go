package suggest

import "sort"

// RankSuggestions sorts suggestions by ImpactScore in descending order.
// Equal scores keep rule order.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactScore > sorted[j].ImpactScore
	})
	return sorted
}

// ComputeImpact calculates an impact score for a suggestion.
// Formula: (affectedItems * share * benefit) / effort
//
// Parameters:
//   - affectedItems: number of items (or plan days) the issue touches
//   - share: fraction of the wardrobe or week affected (0.0-1.0)
//   - benefit: rough value of acting on it, on a 1-10 scale
//   - effort: rough effort to act on it, on a 1-10 scale
//
// Returns 0 if effort is zero to avoid division by zero.
func ComputeImpact(affectedItems int, share float64, benefit float64, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return (float64(affectedItems) * share * benefit) / effort
}
