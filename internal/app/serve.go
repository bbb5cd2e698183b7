package app

import (
	"log"
	"os/signal"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/api"
)

var (
	serveAddr    string
	serveEnvFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve wardrobe analytics over HTTP",
	Long: `Start an HTTP server exposing wardrobe analytics as JSON:

  GET /api/users/:userId/analytics     full analytics (?at= to fix "now")
  GET /api/users/:userId/plan          weekly plan with summary
  GET /api/users/:userId/charts        chart series
  GET /api/users/:userId/suggestions   ranked suggestions (?limit=)
  GET /healthz                         liveness and backend health

A .env file in the working directory is loaded first, so CLOSETWATCH_*
variables (for example Neo4j credentials) can live there.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Environment file to load before reading config")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(serveEnvFile); err != nil {
		log.Printf("Warning: not loading %s: %v", serveEnvFile, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer cancel()

	source, release, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	if !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(source, api.Options{
		Thresholds: thresholdsFrom(cfg.Suggest),
		Location:   loc,
		Version:    appVersion,
	})
	return api.Serve(ctx, addr, api.NewRouter(handler), cfg.Server.ShutdownTimeout)
}
