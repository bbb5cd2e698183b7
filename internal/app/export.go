package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the wardrobe and weekly plan to a JSON or YAML fixture",
	Long: `Write the user's items and weekly plan, read from the configured source,
to a fixture file that 'closetwatch import' accepts. Files ending in .yaml
or .yml are written as YAML, anything else as JSON.`,
	Example: `  closetwatch export closet.yaml
  closetwatch export --user alex backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	fx := wardrobe.NewFixture(snap)
	if err := wardrobe.WriteFixture(args[0], fx); err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}

	if flagJSON {
		return writeJSON(map[string]any{"user": fx.User, "items": len(fx.Items), "plan_days": len(fx.Plan), "path": args[0]})
	}
	fmt.Printf(" %s Exported %d item(s) for %s to %s\n", output.StyleSuccess.Render("✓"), len(fx.Items), fx.User, args[0])
	return nil
}
