package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// CategoryColors are the fixed chart fills per category.
var CategoryColors = map[wardrobe.Category]string{
	wardrobe.Tops:        "#3b82f6",
	wardrobe.Bottoms:     "#10b981",
	wardrobe.Dresses:     "#f59e0b",
	wardrobe.Outerwear:   "#8b5cf6",
	wardrobe.Shoes:       "#ec4899",
	wardrobe.Accessories: "#06b6d4",
}

// chartLabelLimit is the rune length after which chart labels are truncated.
const chartLabelLimit = 12

// ChartData bundles every chart series for display surfaces.
type ChartData struct {
	Categories    []CategoryChartEntry `json:"categories"`
	WearFrequency []WearFrequencyEntry `json:"wear_frequency"`
	UsageTrend    []UsageTrendEntry    `json:"usage_trend"`
}

// CategoryChartEntry is one slice of the category chart.
type CategoryChartEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

// WearFrequencyEntry is one bar of the wear-frequency chart.
type WearFrequencyEntry struct {
	Name     string            `json:"name"`
	Wears    int               `json:"wears"`
	Category wardrobe.Category `json:"category"`

	// Efficiency is 100 minus cost per wear, floored at zero.
	Efficiency float64 `json:"efficiency"`
}

// UsageTrendEntry counts items within a wear-count band.
type UsageTrendEntry struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// BuildCharts assembles all chart series.
func BuildCharts(items []wardrobe.Item, categories CategoryStats) ChartData {
	return ChartData{
		Categories:    CategoryChart(categories),
		WearFrequency: WearFrequencyChart(items),
		UsageTrend:    UsageTrend(items),
	}
}

// CategoryChart returns non-empty categories in canonical order.
func CategoryChart(stats CategoryStats) []CategoryChartEntry {
	out := make([]CategoryChartEntry, 0, len(wardrobe.Categories))
	for _, c := range wardrobe.Categories {
		if n := stats.Count(c); n > 0 {
			out = append(out, CategoryChartEntry{Name: c.Label(), Value: n, Fill: CategoryColors[c]})
		}
	}
	return out
}

// WearFrequencyChart returns one entry per item, most worn first. Items with
// equal wears keep snapshot order.
func WearFrequencyChart(items []wardrobe.Item) []WearFrequencyEntry {
	out := make([]WearFrequencyEntry, 0, len(items))
	for _, it := range items {
		cpw := it.Price() / math.Max(float64(it.WearCount), 1)
		out = append(out, WearFrequencyEntry{
			Name:       TruncateLabel(it.Name, chartLabelLimit),
			Wears:      it.WearCount,
			Category:   it.Category,
			Efficiency: math.Max(0, 100-cpw),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Wears > out[j].Wears
	})
	return out
}

// UsageTrend buckets items by lifetime wear count.
func UsageTrend(items []wardrobe.Item) []UsageTrendEntry {
	out := []UsageTrendEntry{
		{Period: "Never"},
		{Period: "1-5x"},
		{Period: "6-10x"},
		{Period: "11+"},
	}
	for _, it := range items {
		switch w := it.WearCount; {
		case w <= 0:
			out[0].Count++
		case w <= 5:
			out[1].Count++
		case w <= 10:
			out[2].Count++
		default:
			out[3].Count++
		}
	}
	return out
}

// TruncateLabel shortens s to limit runes followed by "...".
func TruncateLabel(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
