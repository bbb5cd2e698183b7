package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blackwell-systems/closetwatch/internal/config"
	"github.com/blackwell-systems/closetwatch/internal/graph"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/store"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// closeTimeout bounds driver shutdown when a command exits.
const closeTimeout = 5 * time.Second

// loadConfig loads configuration, applies the global --user override, and
// configures color output.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagUser != "" {
		cfg.User = flagUser
	}
	if flagNoColor || !cfg.Output.Color {
		output.SetNoColor(true)
	} else {
		output.AutoDetectColor()
	}
	output.SetRuleWidth(cfg.Output.Width)
	verbosef("config: source=%s db=%s user=%s", cfg.Source, cfg.DBPath, cfg.User)
	return cfg, nil
}

// verbosef writes a diagnostic line to stderr when --verbose is set.
func verbosef(format string, args ...any) {
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "[closetwatch] "+format+"\n", args...)
	}
}

func openStore(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func graphConfig(cfg *config.Config) graph.Config {
	return graph.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}
}

func openGraph(ctx context.Context, cfg *config.Config) (*graph.Client, func(), error) {
	client, err := graph.NewClient(ctx, graphConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to neo4j at %s: %w", cfg.Neo4j.URI, err)
	}
	release := func() {
		cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		_ = client.Close(cctx)
	}
	return client, release, nil
}

// openSource returns the configured snapshot source and a function that
// releases it.
func openSource(ctx context.Context, cfg *config.Config) (wardrobe.Source, func(), error) {
	if cfg.Source == config.SourceNeo4j {
		client, release, err := openGraph(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, release, nil
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// evalTime returns the evaluation time: --at when given, otherwise now, in
// the configured timezone.
func evalTime(cfg *config.Config) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if flagAt == "" {
		return time.Now().In(loc), nil
	}
	return parseAt(flagAt, loc)
}

// parseAt accepts an RFC 3339 timestamp or a calendar date, which is read
// as midnight in loc.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
}

func thresholdsFrom(s config.Suggest) suggest.Thresholds {
	return suggest.Thresholds{
		MinConfidence:      s.MinConfidence,
		LowUtilization:     s.LowUtilization,
		PoorCostPerWear:    s.PoorCostPerWear,
		LowSustainability:  s.LowSustainability,
		ImbalanceRatio:     s.ImbalanceRatio,
		NeverWornAfterDays: s.NeverWornAfterDays,
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
