package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/config"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/store"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var (
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot wardrobe metrics and compare over time",
	Long: `Compute analytics, store the scalar metrics as a new snapshot, and
compare against a previous snapshot with trend arrows. Metrics that are
undefined (for example cost per wear with no priced, worn items) are not
stored.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

// metricDelta is the change of one metric between two snapshots.
type metricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // improved, regressed, unchanged, new
}

// snapshotDiff pairs two snapshots with their metric deltas.
type snapshotDiff struct {
	Previous *store.Snapshot `json:"previous"`
	Current  *store.Snapshot `json:"current"`
	Deltas   []metricDelta   `json:"deltas"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	now, err := evalTime(cfg)
	if err != nil {
		return err
	}

	// Snapshots are kept in SQLite whichever source serves the wardrobe.
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var source wardrobe.Source = db
	if cfg.Source == config.SourceNeo4j {
		client, release, err := openGraph(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer release()
		source = client
	}

	snap, err := source.LoadSnapshot(cmd.Context(), cfg.User)
	if err != nil {
		return fmt.Errorf("loading wardrobe: %w", err)
	}
	res := analyzer.Analyze(snap, now)

	snapshotID, err := db.SaveMetrics(cfg.User, "track", appVersion, now, buildTrackMetrics(res))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if trackHistory > 0 {
		return renderHistory(db, cfg.User, trackHistory)
	}

	// trackCompare=1 means compare against the immediate predecessor (offset 2 from newest).
	prevSnapshot, err := db.GetSnapshotN(cfg.User, trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}
	currentSnapshot, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	var diff *snapshotDiff
	if prevSnapshot != nil {
		prevMetrics, err := db.GetAggregateMetrics(prevSnapshot.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		currMetrics, err := db.GetAggregateMetrics(snapshotID)
		if err != nil {
			return fmt.Errorf("loading current metrics: %w", err)
		}
		diff = &snapshotDiff{
			Previous: prevSnapshot,
			Current:  currentSnapshot,
			Deltas:   computeDeltas(prevMetrics, currMetrics),
		}
	}

	if flagJSON {
		result := map[string]any{"snapshot": currentSnapshot}
		if diff != nil {
			result["diff"] = diff
		}
		return writeJSON(result)
	}
	renderTrackOutput(currentSnapshot, diff)
	return nil
}

// buildTrackMetrics flattens the scalar analytics into named metrics.
// Undefined values are left out rather than stored as zero.
func buildTrackMetrics(res analyzer.AnalyticsResult) map[string]float64 {
	m := map[string]float64{
		"total_items":      float64(res.TotalItems),
		"total_worn":       float64(res.Wear.TotalWorn),
		"never_worn":       float64(res.Usage.NeverWorn),
		"weekly_worn":      float64(res.Time.WeeklyWorn),
		"monthly_worn":     float64(res.Time.MonthlyWorn),
		"total_investment": res.Sustainability.TotalInvestment,
		"co2_saved_kg":     res.Sustainability.CO2SavedFromRewearing,
		"days_planned":     float64(res.Plan.DaysPlanned),
	}
	optional := map[string]*float64{
		"average_wear":           res.Wear.AverageWear,
		"utilization_percentage": res.Usage.UtilizationPercentage,
		"avg_cost_per_wear":      res.Usage.CostPerWear.Average,
		"sustainability_score":   res.Sustainability.SustainabilityScore,
		"average_confidence":     res.Plan.AverageConfidence,
	}
	for name, v := range optional {
		if v != nil {
			m[name] = *v
		}
	}
	if res.Usage.RepeatPercentage != nil {
		m["repeat_percentage"] = float64(*res.Usage.RepeatPercentage)
	}
	return m
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_items":            true,
	"total_worn":             true,
	"never_worn":             false,
	"weekly_worn":            true,
	"monthly_worn":           true,
	"total_investment":       false, // spending less on new items is the goal
	"co2_saved_kg":           true,
	"days_planned":           true,
	"average_wear":           true,
	"utilization_percentage": true,
	"avg_cost_per_wear":      false,
	"sustainability_score":   true,
	"average_confidence":     true,
	"repeat_percentage":      true,
}

// computeDeltas compares two sets of aggregate metrics. Metrics absent from
// the previous snapshot are reported as "new" rather than as a change from
// zero.
func computeDeltas(prev, curr []store.AggregateMetric) []metricDelta {
	prevMap := make(map[string]float64, len(prev))
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	var deltas []metricDelta
	for _, m := range curr {
		prevVal, seen := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := "unchanged"
		switch {
		case !seen:
			direction = "new"
			delta = 0
		case delta != 0:
			higherIsBetter, known := metricDirection[m.MetricName]
			if !known {
				higherIsBetter = true
			}
			if (delta > 0) == higherIsBetter {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, metricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

func renderTrackOutput(current *store.Snapshot, diff *snapshotDiff) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Local().Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'closetwatch track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Local().Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend").RightAlign(1, 2, 3)
	for _, d := range diff.Deltas {
		if d.Direction == "new" {
			tbl.AddRow(metricShortName(d.Name), output.Missing, fmt.Sprintf("%.1f", d.Current), "", output.StyleMuted.Render("new"))
			continue
		}
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter),
		)
	}
	tbl.Print()
}

// metricDisplayOrder defines the order metrics appear in history output.
var metricDisplayOrder = []string{
	"total_items",
	"total_worn",
	"average_wear",
	"never_worn",
	"utilization_percentage",
	"repeat_percentage",
	"weekly_worn",
	"monthly_worn",
	"avg_cost_per_wear",
	"total_investment",
	"sustainability_score",
	"co2_saved_kg",
	"days_planned",
	"average_confidence",
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		"total_items":            "Items",
		"total_worn":             "Total Wears",
		"average_wear":           "Avg Wears/Item",
		"never_worn":             "Never Worn",
		"utilization_percentage": "Utilization %",
		"repeat_percentage":      "Repeat Wear %",
		"weekly_worn":            "Worn (7d)",
		"monthly_worn":           "Worn (30d)",
		"avg_cost_per_wear":      "Avg Cost/Wear",
		"total_investment":       "Investment",
		"sustainability_score":   "Sustainability",
		"co2_saved_kg":           "CO2 Saved (kg)",
		"days_planned":           "Days Planned",
		"average_confidence":     "Plan Confidence",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

type historyEntry struct {
	Snapshot store.Snapshot     `json:"snapshot"`
	Metrics  map[string]float64 `json:"metrics"`
}

// loadHistory returns up to n snapshots for user, oldest first.
func loadHistory(db *store.DB, user string, n int) ([]historyEntry, error) {
	snapshots, err := db.ListSnapshots(user, n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	// Reverse so oldest is first (left to right = chronological).
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	entries := make([]historyEntry, 0, len(snapshots))
	for _, s := range snapshots {
		m, err := db.MetricValues(s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, historyEntry{Snapshot: s, Metrics: m})
	}
	return entries, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(db *store.DB, user string, n int) error {
	timeline, err := loadHistory(db, user, n)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(map[string]any{"history": timeline})
	}

	fmt.Println(output.Section("Track: Metric History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, e := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", e.Snapshot.ID, e.Snapshot.TakenAt.Local().Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		var vals []float64
		for _, e := range timeline {
			v, ok := e.Metrics[name]
			if !ok {
				row = append(row, output.Missing)
				continue
			}
			vals = append(vals, v)
			row = append(row, fmt.Sprintf("%.1f", v))
		}

		trend := ""
		if len(vals) >= 2 {
			higherIsBetter, known := metricDirection[name]
			if !known {
				higherIsBetter = true
			}
			trend = output.TrendArrow(vals[len(vals)-1]-vals[0], higherIsBetter)
		}
		row = append(row, trend)
		tbl.AddRow(row...)
	}
	tbl.Print()
	return nil
}
