package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level closetwatch configuration.
type Config struct {
	User     string  `mapstructure:"user"`
	Source   string  `mapstructure:"source"`
	DBPath   string  `mapstructure:"db_path"`
	Currency string  `mapstructure:"currency"`
	Timezone string  `mapstructure:"timezone"`
	Neo4j    Neo4j   `mapstructure:"neo4j"`
	Server   Server  `mapstructure:"server"`
	Watch    Watch   `mapstructure:"watch"`
	Output   Output  `mapstructure:"output"`
	Suggest  Suggest `mapstructure:"suggest"`
}

// Neo4j holds graph database connection settings.
type Neo4j struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// Server holds HTTP service settings.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Watch holds watcher settings.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Suggest holds the thresholds the suggestion rules fire on.
type Suggest struct {
	// MinConfidence flags plan days whose outfit confidence is below it.
	MinConfidence float64 `mapstructure:"min_confidence"`
	// LowUtilization is the utilization percentage below which the wardrobe
	// is considered underused.
	LowUtilization float64 `mapstructure:"low_utilization"`
	// PoorCostPerWear is the cost per wear above which an item is flagged.
	PoorCostPerWear float64 `mapstructure:"poor_cost_per_wear"`
	// LowSustainability is the score below which re-wearing is encouraged.
	LowSustainability float64 `mapstructure:"low_sustainability"`
	// ImbalanceRatio is the share of categorized items one category may hold
	// before the wardrobe is considered lopsided.
	ImbalanceRatio float64 `mapstructure:"imbalance_ratio"`
	// NeverWornAfterDays is the age at which an unworn item is reported.
	NeverWornAfterDays float64 `mapstructure:"never_worn_after_days"`
}

// Validate rejects thresholds the suggestion rules cannot work with.
// Every threshold must be a finite, non-negative number; the cost-per-wear
// threshold divides prices and must be positive, and the imbalance ratio is
// a share in (0, 1].
func (s Suggest) Validate() error {
	fields := []struct {
		key string
		v   float64
	}{
		{"min_confidence", s.MinConfidence},
		{"low_utilization", s.LowUtilization},
		{"poor_cost_per_wear", s.PoorCostPerWear},
		{"low_sustainability", s.LowSustainability},
		{"imbalance_ratio", s.ImbalanceRatio},
		{"never_worn_after_days", s.NeverWornAfterDays},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("suggest.%s must be a finite, non-negative number (got %v)", f.key, f.v)
		}
	}
	if s.PoorCostPerWear == 0 {
		return fmt.Errorf("suggest.poor_cost_per_wear must be positive")
	}
	if s.ImbalanceRatio == 0 || s.ImbalanceRatio > 1 {
		return fmt.Errorf("suggest.imbalance_ratio must be in (0, 1] (got %v)", s.ImbalanceRatio)
	}
	return nil
}

// Location resolves the configured timezone. An empty value or "Local"
// means the process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with CLOSETWATCH_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("user", DefaultUser)
	v.SetDefault("source", SourceSQLite)
	v.SetDefault("db_path", DBPath())
	v.SetDefault("currency", DefaultCurrency)
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("neo4j.uri", DefaultNeo4j.URI)
	v.SetDefault("neo4j.username", DefaultNeo4j.Username)
	v.SetDefault("neo4j.password", DefaultNeo4j.Password)
	v.SetDefault("neo4j.database", DefaultNeo4j.Database)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("server.shutdown_timeout", DefaultServer.ShutdownTimeout)
	v.SetDefault("watch.interval", DefaultWatch.Interval)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("suggest.min_confidence", DefaultSuggest.MinConfidence)
	v.SetDefault("suggest.low_utilization", DefaultSuggest.LowUtilization)
	v.SetDefault("suggest.poor_cost_per_wear", DefaultSuggest.PoorCostPerWear)
	v.SetDefault("suggest.low_sustainability", DefaultSuggest.LowSustainability)
	v.SetDefault("suggest.imbalance_ratio", DefaultSuggest.ImbalanceRatio)
	v.SetDefault("suggest.never_worn_after_days", DefaultSuggest.NeverWornAfterDays)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	switch cfg.Source {
	case SourceSQLite, SourceNeo4j:
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", cfg.Source, SourceSQLite, SourceNeo4j)
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatch.Interval
	}
	if err := cfg.Suggest.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
