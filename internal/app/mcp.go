package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing wardrobe analytics",
	Long: `Start a Model Context Protocol stdio server that an assistant can query.
The server exposes four tools, each taking an optional "user":

  get_analytics    Full wardrobe analytics
  get_weekly_plan  The weekly plan with its summary
  get_suggestions  Ranked suggestions (optional "limit")
  get_chart_data   Category, wear-frequency and usage-trend series

Example MCP client configuration:
  {"mcpServers":{"closetwatch":{"command":"closetwatch","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; keep styling out of it.
	flagNoColor = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	source, release, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()

	srv := mcp.NewServer(source, mcp.Options{
		User:       cfg.User,
		Version:    appVersion,
		Thresholds: thresholdsFrom(cfg.Suggest),
		Location:   loc,
	})
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
