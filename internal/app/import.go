package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items and a weekly plan from a JSON or YAML fixture",
	Long: `Add every item in a wardrobe fixture and, when the fixture has a
weekly_plan, replace the stored plan. Files ending in .yaml or .yml are
read as YAML, anything else as JSON.

The fixture's "user" field is used unless --user is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fx, err := wardrobe.LoadFixture(args[0])
	if err != nil {
		return err
	}
	user := cfg.User
	if flagUser == "" && fx.User != "" {
		user = fx.User
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	n, err := db.ImportFixture(cmd.Context(), user, fx)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}

	if flagJSON {
		return writeJSON(map[string]any{"user": user, "items": n, "plan_days": len(fx.Plan)})
	}
	fmt.Printf(" %s Imported %d item(s) for %s", output.StyleSuccess.Render("✓"), n, user)
	if len(fx.Plan) > 0 {
		fmt.Printf(" and a %d-day plan", len(fx.Plan))
	}
	fmt.Println()
	return nil
}
