package analyzer

import "github.com/blackwell-systems/closetwatch/internal/wardrobe"

// AnalyzeCategories counts items per known category in a single pass.
func AnalyzeCategories(items []wardrobe.Item) CategoryStats {
	var stats CategoryStats
	for _, it := range items {
		switch it.Category {
		case wardrobe.Tops:
			stats.Tops++
		case wardrobe.Bottoms:
			stats.Bottoms++
		case wardrobe.Dresses:
			stats.Dresses++
		case wardrobe.Outerwear:
			stats.Outerwear++
		case wardrobe.Shoes:
			stats.Shoes++
		case wardrobe.Accessories:
			stats.Accessories++
		default:
			stats.Uncategorized++
		}
	}
	return stats
}

// Count returns the bucket for c, or 0 for an unknown category.
func (s CategoryStats) Count(c wardrobe.Category) int {
	switch c {
	case wardrobe.Tops:
		return s.Tops
	case wardrobe.Bottoms:
		return s.Bottoms
	case wardrobe.Dresses:
		return s.Dresses
	case wardrobe.Outerwear:
		return s.Outerwear
	case wardrobe.Shoes:
		return s.Shoes
	case wardrobe.Accessories:
		return s.Accessories
	}
	return 0
}

// Categorized returns the sum of the six known buckets.
func (s CategoryStats) Categorized() int {
	return s.Tops + s.Bottoms + s.Dresses + s.Outerwear + s.Shoes + s.Accessories
}
