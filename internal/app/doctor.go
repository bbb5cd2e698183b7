package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/config"
	"github.com/blackwell-systems/closetwatch/internal/graph"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the closetwatch setup is healthy",
	Long: `Run a series of health checks against your closetwatch configuration,
database and wardrobe data. Prints a pass/fail line for each check and a
summary of how many checks passed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checks := []doctorCheck{
		checkConfigFile(flagConfig),
		checkTimezone(cfg),
	}
	dbCheck, db := checkDatabase(cfg.DBPath)
	checks = append(checks, dbCheck)
	if db != nil {
		checks = append(checks, checkWardrobe(cmd.Context(), db, cfg.User)...)
		checks = append(checks, checkTrackHistory(db, cfg.User))
		_ = db.Close()
	}
	if cfg.Source == config.SourceNeo4j || cfg.Neo4j.URI != config.DefaultNeo4j.URI {
		checks = append(checks, checkNeo4j(cmd.Context(), cfg))
	}
	checks = append(checks, checkWatchDaemon(defaultDaemonFiles()))

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		return writeJSON(doctorOutput{Checks: checks, PassedCount: passed, TotalCount: len(checks)})
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()
	for _, c := range checks {
		renderDoctorCheck(c)
	}
	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}
	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	indicator := output.StyleWarning.Render("✗")
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	}
	fmt.Printf("  %s  %-30s %s\n", indicator, output.StyleBold.Render(c.Name), output.StyleMuted.Render(c.Message))
}

// checkConfigFile reports which config file is in effect. Running on
// defaults passes.
func checkConfigFile(explicit string) doctorCheck {
	path := explicit
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	}
	if _, err := os.Stat(path); err != nil {
		if explicit != "" {
			return doctorCheck{Name: "Config file", Passed: false, Message: fmt.Sprintf("not found: %s", path)}
		}
		return doctorCheck{Name: "Config file", Passed: true, Message: "none, using defaults"}
	}
	return doctorCheck{Name: "Config file", Passed: true, Message: path}
}

func checkTimezone(cfg *config.Config) doctorCheck {
	loc, err := cfg.Location()
	if err != nil {
		return doctorCheck{Name: "Timezone", Passed: false, Message: err.Error()}
	}
	return doctorCheck{Name: "Timezone", Passed: true, Message: loc.String()}
}

// checkDatabase verifies the SQLite database exists and opens at the
// current schema. The returned DB is nil unless the check passed.
func checkDatabase(dbPath string) (doctorCheck, *store.DB) {
	if _, err := os.Stat(dbPath); err != nil {
		return doctorCheck{
			Name:    "SQLite database",
			Passed:  false,
			Message: fmt.Sprintf("not found at %s (run 'closetwatch items add' or 'closetwatch import' to create)", dbPath),
		}, nil
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return doctorCheck{Name: "SQLite database", Passed: false, Message: fmt.Sprintf("cannot open: %v", err)}, nil
	}
	version, err := db.SchemaVersion()
	if err != nil {
		_ = db.Close()
		return doctorCheck{Name: "SQLite database", Passed: false, Message: fmt.Sprintf("reading schema version: %v", err)}, nil
	}
	return doctorCheck{
		Name:    "SQLite database",
		Passed:  true,
		Message: fmt.Sprintf("%s (schema v%d)", dbPath, version),
	}, db
}

// checkWardrobe reports whether the user has items and a plan, and whether
// the plan references items that no longer exist.
func checkWardrobe(ctx context.Context, db *store.DB, user string) []doctorCheck {
	snap, err := db.LoadSnapshot(ctx, user)
	if err != nil {
		return []doctorCheck{{Name: "Wardrobe", Passed: false, Message: err.Error()}}
	}

	checks := make([]doctorCheck, 0, 2)
	if len(snap.Items) == 0 {
		checks = append(checks, doctorCheck{Name: "Wardrobe", Passed: false, Message: fmt.Sprintf("no items for user %q", user)})
	} else {
		checks = append(checks, doctorCheck{Name: "Wardrobe", Passed: true, Message: fmt.Sprintf("%d items for %s", len(snap.Items), user)})
	}

	stats := analyzer.AnalyzePlan(snap.Plan, snap.Items)
	switch {
	case len(snap.Plan) == 0:
		checks = append(checks, doctorCheck{Name: "Weekly plan", Passed: false, Message: "no plan stored"})
	case len(stats.MissingItems) > 0:
		checks = append(checks, doctorCheck{
			Name:    "Weekly plan",
			Passed:  false,
			Message: fmt.Sprintf("references %d missing item(s): %s", len(stats.MissingItems), strings.Join(stats.MissingItems, ", ")),
		})
	default:
		checks = append(checks, doctorCheck{Name: "Weekly plan", Passed: true, Message: fmt.Sprintf("%d/%d days planned", stats.DaysPlanned, stats.TotalDays)})
	}
	return checks
}

// checkTrackHistory reports when metrics were last tracked.
func checkTrackHistory(db *store.DB, user string) doctorCheck {
	latest, err := db.GetLatestSnapshot(user)
	if err != nil {
		return doctorCheck{Name: "Track history", Passed: false, Message: err.Error()}
	}
	if latest == nil {
		return doctorCheck{Name: "Track history", Passed: false, Message: "no snapshots yet (run 'closetwatch track')"}
	}
	return doctorCheck{
		Name:    "Track history",
		Passed:  true,
		Message: fmt.Sprintf("last snapshot #%d on %s", latest.ID, latest.TakenAt.Local().Format("2006-01-02 15:04")),
	}
}

func checkNeo4j(ctx context.Context, cfg *config.Config) doctorCheck {
	client, err := graph.NewClient(ctx, graphConfig(cfg))
	if err != nil {
		return doctorCheck{Name: "Neo4j", Passed: false, Message: err.Error()}
	}
	defer func() { _ = client.Close(ctx) }()
	if err := client.Health(ctx); err != nil {
		return doctorCheck{Name: "Neo4j", Passed: false, Message: err.Error()}
	}
	return doctorCheck{Name: "Neo4j", Passed: true, Message: cfg.Neo4j.URI}
}

// checkWatchDaemon reports on the watch daemon. Not running is informational.
func checkWatchDaemon(files daemonFiles) doctorCheck {
	pid, err := files.readPID()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return doctorCheck{Name: "Watch daemon", Passed: false, Message: "not running"}
	case err != nil:
		return doctorCheck{Name: "Watch daemon", Passed: false, Message: err.Error()}
	case !processExists(pid):
		return doctorCheck{Name: "Watch daemon", Passed: false, Message: fmt.Sprintf("PID %d is not running (stale %s)", pid, files.pidPath())}
	}
	return doctorCheck{Name: "Watch daemon", Passed: true, Message: fmt.Sprintf("running (PID %d)", pid)}
}
