package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show or replace the weekly outfit plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weekly plan and its summary",
	Args:  cobra.NoArgs,
	RunE:  runPlanShow,
}

var planImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the weekly plan with the weekly_plan of a fixture",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanImport,
}

func init() {
	planCmd.AddCommand(planShowCmd, planImportCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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
	stats := analyzer.AnalyzePlan(snap.Plan, snap.Items)

	if flagJSON {
		days := snap.Plan
		if days == nil {
			days = []wardrobe.DayPlan{}
		}
		return writeJSON(map[string]any{"user_id": cfg.User, "stats": stats, "days": days})
	}
	renderPlan(snap, stats)
	return nil
}

func renderPlan(snap wardrobe.Snapshot, stats analyzer.PlanStats) {
	fmt.Println(output.Section("Weekly Plan"))
	fmt.Println()
	if len(snap.Plan) == 0 {
		fmt.Println(" No plan stored. Load one with 'closetwatch plan import <file>'.")
		return
	}

	tbl := output.NewTable("Day", "Date", "Outfit", "Items", "Confidence", "Alternatives")
	for _, d := range stats.Days {
		outfit := d.Outfit
		if !d.Planned {
			outfit = output.StyleMuted.Render("unplanned")
		}
		tbl.AddRow(d.Day, d.Date, outfit, fmt.Sprintf("%d", d.ItemCount),
			fmt.Sprintf("%.0f%%", d.Confidence), fmt.Sprintf("%d", d.Alternatives))
	}
	tbl.Print()
	fmt.Println()

	for _, d := range snap.Plan {
		if len(d.RecommendedOutfit.Items) == 0 {
			continue
		}
		names := make([]string, 0, len(d.RecommendedOutfit.Items))
		for _, id := range d.RecommendedOutfit.Items {
			if it, ok := snap.ItemByID(id); ok {
				names = append(names, it.Name)
			} else {
				names = append(names, output.StyleWarning.Render(id+"?"))
			}
		}
		fmt.Printf(" %s: %s\n", output.StyleBold.Render(d.Day), strings.Join(names, ", "))
		if d.RecommendedOutfit.Reason != "" {
			fmt.Printf("    %s\n", output.StyleMuted.Render(d.RecommendedOutfit.Reason))
		}
	}
	fmt.Println()

	fmt.Println(output.KeyValue("Outfits planned", fmt.Sprintf("%d/%d days", stats.DaysPlanned, stats.TotalDays)))
	fmt.Println(output.KeyValue("Average confidence", output.OptFloat(stats.AverageConfidence, "%.0f%%")))
	fmt.Println(output.KeyValue("Average compatibility", output.OptFloat(stats.AverageCompatibility, "%.0f%%")))
	fmt.Println(output.KeyValue("Versatile pieces", fmt.Sprintf("%d", stats.VersatilePieces)))
	fmt.Println(output.KeyValue("Alternatives", fmt.Sprintf("%d", stats.Alternatives)))
	if len(stats.MissingItems) > 0 {
		fmt.Println(output.KeyValue("Missing items", output.StyleWarning.Render(strings.Join(stats.MissingItems, ", "))))
	}
	fmt.Println()
}

func runPlanImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fx, err := wardrobe.LoadFixture(args[0])
	if err != nil {
		return err
	}
	if len(fx.Plan) == 0 {
		return fmt.Errorf("%s has no weekly_plan", args[0])
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.ReplacePlan(cmd.Context(), cfg.User, fx.Plan); err != nil {
		return fmt.Errorf("replacing plan: %w", err)
	}
	if flagJSON {
		return writeJSON(map[string]any{"user": cfg.User, "plan_days": len(fx.Plan)})
	}
	fmt.Printf(" %s Stored a %d-day plan for %s\n", output.StyleSuccess.Render("✓"), len(fx.Plan), cfg.User)
	return nil
}
