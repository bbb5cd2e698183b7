package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate ranked tips for getting more out of your wardrobe",
	Long: `Analyze the wardrobe and weekly plan to produce actionable suggestions:
items waiting for a first wear, poor cost per wear, category imbalance,
gaps and weak spots in the plan. Suggestions are scored by impact and
sorted from highest to lowest.

Thresholds are configurable under the "suggest" key of the config file.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "Maximum number of suggestions to show (0 = all)")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Filter by category (usage, cost, sustainability, organization, planning)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
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

	engine := suggest.NewEngine()
	suggestions := engine.Run(suggest.NewContext(snap, now, thresholdsFrom(cfg.Suggest)))

	if suggestCategory != "" {
		suggestions = filterByCategory(suggestions, suggestCategory)
	}
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	if flagJSON {
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		return writeJSON(suggestions)
	}
	renderSuggestions(suggestions)
	return nil
}

func filterByCategory(suggestions []suggest.Suggestion, category string) []suggest.Suggestion {
	var filtered []suggest.Suggestion
	for _, s := range suggestions {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func renderSuggestions(suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Println(output.Section("Suggestions"))
		fmt.Println()
		fmt.Println(" No suggestions. Your wardrobe is in good shape!")
		return
	}

	fmt.Println(output.Section("Wardrobe Suggestions"))
	fmt.Println()

	for i, s := range suggestions {
		label := priorityToLabel(s.Priority)
		fmt.Printf(" #%d %s %s\n", i+1, stylePriority(s.Priority, label), output.StyleBold.Render(s.Title))
		fmt.Printf("    Impact: %.1f  |  Category: %s\n", s.ImpactScore, s.Category)
		fmt.Printf("    %s\n", s.Description)
		fmt.Println()
	}
}

func priorityToLabel(priority int) string {
	switch priority {
	case suggest.PriorityCritical:
		return "[CRITICAL]"
	case suggest.PriorityHigh:
		return "[HIGH]"
	case suggest.PriorityMedium:
		return "[MEDIUM]"
	case suggest.PriorityLow:
		return "[LOW]"
	default:
		return "[UNKNOWN]"
	}
}

func stylePriority(priority int, label string) string {
	switch priority {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
