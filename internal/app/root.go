// Package app contains the Cobra command tree for closetwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagUser    string
	flagAt      string
)

var rootCmd = &cobra.Command{
	Use:   "closetwatch",
	Short: "Wardrobe analytics: utilization, cost per wear, sustainability",
	Long: `closetwatch tracks the garments you own and how often you wear them.
It derives category, wear, seasonal, cost-per-wear and sustainability
statistics, summarizes your weekly outfit plan, and suggests how to get
more out of what is already in your closet.

Run 'closetwatch' with no arguments to see quick stats.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runQuickStats,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/closetwatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Wardrobe owner (default: the configured user)")
	rootCmd.PersistentFlags().StringVar(&flagAt, "at", "", "Evaluate as of this time (RFC 3339 or YYYY-MM-DD) instead of now")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// quickStats is the dashboard shown by the bare command.
type quickStats struct {
	User                string            `json:"user"`
	TotalItems          int               `json:"total_items"`
	MostWorn            *analyzer.ItemRef `json:"most_worn_item"`
	AverageCostPerWear  *float64          `json:"average_cost_per_wear"`
	Utilization         *float64          `json:"utilization_percentage"`
	SustainabilityScore *float64          `json:"sustainability_score"`
	DaysPlanned         int               `json:"days_planned"`
	TotalDays           int               `json:"total_days"`
}

func runQuickStats(cmd *cobra.Command, args []string) error {
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

	qs := quickStats{
		User:                cfg.User,
		TotalItems:          res.TotalItems,
		MostWorn:            res.Wear.MostWornItem,
		AverageCostPerWear:  res.Usage.CostPerWear.Average,
		Utilization:         res.Usage.UtilizationPercentage,
		SustainabilityScore: res.Sustainability.SustainabilityScore,
		DaysPlanned:         res.Plan.DaysPlanned,
		TotalDays:           res.Plan.TotalDays,
	}
	if flagJSON {
		return writeJSON(qs)
	}

	fmt.Println(output.Section(fmt.Sprintf("closetwatch %s  ·  %s", appVersion, cfg.User)))
	fmt.Println()
	if qs.TotalItems == 0 {
		fmt.Println(" Your wardrobe is empty. Add items with 'closetwatch items add' or")
		fmt.Println(" load a fixture with 'closetwatch import <file>'.")
		return nil
	}

	mostWorn := output.Missing
	if qs.MostWorn != nil {
		mostWorn = fmt.Sprintf("%s (%dx)", qs.MostWorn.Name, qs.MostWorn.WearCount)
	}
	fmt.Println(output.KeyValue("Total items", fmt.Sprintf("%d", qs.TotalItems)))
	fmt.Println(output.KeyValue("Most worn", mostWorn))
	fmt.Println(output.KeyValue("Avg cost / wear", output.OptMoney(qs.AverageCostPerWear, cfg.Currency)))
	fmt.Println(output.KeyValue("Utilization", output.OptPercent(qs.Utilization)))
	fmt.Println(output.KeyValue("Eco score", output.OptFloat(qs.SustainabilityScore, "%.0f/100")))
	fmt.Println(output.KeyValue("Week planned", fmt.Sprintf("%d/%d days", qs.DaysPlanned, qs.TotalDays)))
	fmt.Println()
	fmt.Println(output.StyleMuted.Render(" Run 'closetwatch analytics' for the full breakdown, 'closetwatch suggest' for tips."))
	return nil
}
