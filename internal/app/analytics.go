package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var analyticsCharts bool

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show full wardrobe analytics",
	Long: `Compute category, wear, time-window, usage, cost-per-wear,
sustainability and weekly-plan statistics for one wardrobe.

Use --at to evaluate as of a fixed time (recency windows and wear rates
depend on it) and --charts to include chart series.`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().BoolVar(&analyticsCharts, "charts", false, "Include chart data (category, wear frequency, usage trend)")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	now, err := evalTime(cfg)
	if err != nil {
		return err
	}

	source, release, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()

	snap, err := source.LoadSnapshot(cmd.Context(), cfg.User)
	if err != nil {
		return fmt.Errorf("loading wardrobe: %w", err)
	}
	res := analyzer.Analyze(snap, now)

	var charts *analyzer.ChartData
	if analyticsCharts {
		c := analyzer.BuildCharts(snap.Items, res.Categories)
		charts = &c
	}

	if flagJSON {
		if charts == nil {
			return writeJSON(res)
		}
		return writeJSON(map[string]any{"analytics": res, "charts": charts})
	}

	renderAnalytics(res, cfg.Currency)
	if charts != nil {
		renderCharts(*charts)
	}
	return nil
}

func renderAnalytics(res analyzer.AnalyticsResult, currency string) {
	fmt.Println(output.Section("Wardrobe Analytics"))
	fmt.Printf(" %d items, evaluated %s\n", res.TotalItems, res.ComputedAt.Format("2006-01-02 15:04 MST"))

	// Categories.
	fmt.Println(output.Section("Categories"))
	fmt.Println()
	cats := output.NewTable("Category", "Items", "Share")
	for _, c := range wardrobe.Categories {
		n := res.Categories.Count(c)
		cats.AddRow(c.Label(), fmt.Sprintf("%d", n), output.ShareBar(n, res.TotalItems, 20))
	}
	if res.Categories.Uncategorized > 0 {
		cats.AddRow("Uncategorized", fmt.Sprintf("%d", res.Categories.Uncategorized),
			output.ShareBar(res.Categories.Uncategorized, res.TotalItems, 20))
	}
	cats.Print()

	// Wear.
	fmt.Println(output.Section("Wear"))
	fmt.Println()
	fmt.Println(output.KeyValue("Total wears", fmt.Sprintf("%d", res.Wear.TotalWorn)))
	fmt.Println(output.KeyValue("Average per item", output.OptFloat(res.Wear.AverageWear, "%.1f")))
	fmt.Println(output.KeyValue("Most worn", itemRefLabel(res.Wear.MostWornItem)))
	fmt.Println(output.KeyValue("Least worn", itemRefLabel(res.Wear.LeastWornItem)))
	fmt.Println(output.KeyValue("Worn ~daily / weekly / monthly", fmt.Sprintf("%d / %d / %d",
		res.Wear.WearFrequency.Daily, res.Wear.WearFrequency.Weekly, res.Wear.WearFrequency.Monthly)))

	// Time windows.
	fmt.Println(output.Section("Recency & Seasons"))
	fmt.Println()
	fmt.Println(output.KeyValue("Worn in last 7 days", fmt.Sprintf("%d", res.Time.WeeklyWorn)))
	fmt.Println(output.KeyValue("Worn in last 30 days", fmt.Sprintf("%d", res.Time.MonthlyWorn)))
	fmt.Println()
	seasons := output.NewTable("Season added", "Items", "Spending", "Most worn category")
	for _, st := range res.Time.SeasonalTrends {
		top := output.Missing
		if st.MostWornCategory != "" {
			top = st.MostWornCategory.Label()
		}
		seasons.AddRow(string(st.Season), fmt.Sprintf("%d", st.ItemsAdded), output.Money(st.Spending, currency), top)
	}
	seasons.Print()

	// Usage.
	u := res.Usage
	fmt.Println(output.Section("Usage & Cost per Wear"))
	fmt.Println()
	fmt.Println(output.KeyValue("Never worn", fmt.Sprintf("%d", u.NeverWorn)))
	fmt.Println(output.KeyValue("Worn more than once", fmt.Sprintf("%d (%s)", u.ItemsWornMultipleTimes, output.OptInt(u.RepeatPercentage, "%"))))
	fmt.Println(output.KeyValue("Utilization", output.OptPercent(u.UtilizationPercentage)))
	fmt.Println(output.KeyValue("Avg cost per wear", output.OptMoney(u.CostPerWear.Average, currency)))
	fmt.Println(output.KeyValue("Most cost-efficient", cpwLabel(u.CostPerWear.MostEfficient, currency)))
	fmt.Println(output.KeyValue("Least cost-efficient", cpwLabel(u.CostPerWear.LeastEfficient, currency)))
	if u.CostPerWear.QualifyingItems == 0 && res.TotalItems > 0 {
		fmt.Println(output.StyleMuted.Render(" No item has both a price and a wear yet."))
	}

	// Sustainability.
	s := res.Sustainability
	fmt.Println(output.Section("Sustainability"))
	fmt.Println()
	fmt.Println(output.KeyValue("Total investment", output.Money(s.TotalInvestment, currency)))
	fmt.Println(output.KeyValue("Average per item", output.OptMoney(s.AverageCostPerItem, currency)))
	score := output.Missing
	if s.SustainabilityScore != nil {
		score = output.ScoreBar(*s.SustainabilityScore, 20)
	}
	fmt.Println(output.KeyValue("Sustainability score", score))
	fmt.Println(output.KeyValue("CO₂ saved by re-wearing", output.StyleEco.Render(output.CO2(s.CO2SavedFromRewearing))))

	// Plan.
	p := res.Plan
	fmt.Println(output.Section("Weekly Plan"))
	fmt.Println()
	fmt.Println(output.KeyValue("Days planned", fmt.Sprintf("%d/%d (%.0f%%)", p.DaysPlanned, p.TotalDays, p.PlannedPercentage)))
	fmt.Println(output.KeyValue("Average confidence", output.OptFloat(p.AverageConfidence, "%.0f%%")))
	fmt.Println(output.KeyValue("Versatile pieces", fmt.Sprintf("%d", p.VersatilePieces)))
	if len(p.MissingItems) > 0 {
		fmt.Println(output.KeyValue("Missing items", output.StyleWarning.Render(fmt.Sprintf("%d", len(p.MissingItems)))))
	}
	fmt.Println()
}

func renderCharts(c analyzer.ChartData) {
	fmt.Println(output.Section("Wear Frequency"))
	fmt.Println()
	tbl := output.NewTable("Item", "Category", "Wears", "Efficiency")
	for _, e := range c.WearFrequency {
		tbl.AddRow(e.Name, e.Category.Label(), fmt.Sprintf("%d", e.Wears), fmt.Sprintf("%.0f", e.Efficiency))
	}
	tbl.Print()

	fmt.Println(output.Section("Usage Trend"))
	fmt.Println()
	total := 0
	for _, e := range c.UsageTrend {
		total += e.Count
	}
	trend := output.NewTable("Worn", "Items", "")
	for _, e := range c.UsageTrend {
		trend.AddRow(e.Period, fmt.Sprintf("%d", e.Count), output.ShareBar(e.Count, total, 20))
	}
	trend.Print()
	fmt.Println()
}

func itemRefLabel(ref *analyzer.ItemRef) string {
	if ref == nil {
		return output.Missing
	}
	return fmt.Sprintf("%s (%dx)", ref.Name, ref.WearCount)
}

func cpwLabel(e *analyzer.CostPerWearEntry, currency string) string {
	if e == nil {
		return output.Missing
	}
	return fmt.Sprintf("%s (%s/wear)", e.Item.Name, output.Money(e.CostPerWear, currency))
}
