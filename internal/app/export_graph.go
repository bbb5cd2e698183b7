package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/output"
)

var exportGraphCmd = &cobra.Command{
	Use:   "export-graph",
	Short: "Mirror the local wardrobe into Neo4j",
	Long: `Read the user's items and weekly plan from SQLite and write them to the
Neo4j database configured under "neo4j". Items are upserted, items that
no longer exist locally are removed, and the plan is replaced.

After an export, set "source: neo4j" to serve analytics from the graph.`,
	Args: cobra.NoArgs,
	RunE: runExportGraph,
}

func init() {
	rootCmd.AddCommand(exportGraphCmd)
}

func runExportGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	snap, err := db.LoadSnapshot(cmd.Context(), cfg.User)
	if err != nil {
		return fmt.Errorf("loading wardrobe: %w", err)
	}

	client, release, err := openGraph(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()

	if err := client.EnsureConstraints(cmd.Context()); err != nil {
		return err
	}
	res, err := client.Export(cmd.Context(), snap)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(res)
	}
	fmt.Printf(" %s Exported %d item(s) and %d plan day(s) for %s to %s\n",
		output.StyleSuccess.Render("✓"), res.Items, res.Days, cfg.User, cfg.Neo4j.URI)
	return nil
}
