// Package config provides configuration loading and defaults for closetwatch.
package config

import "time"

// DefaultConfigDir is the default location for closetwatch configuration.
const DefaultConfigDir = "~/.config/closetwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "closetwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. CLOSETWATCH_NEO4J_URI.
const EnvPrefix = "CLOSETWATCH"

// DefaultUser is the wardrobe owner used when no --user flag is given.
const DefaultUser = "me"

// Snapshot sources.
const (
	SourceSQLite = "sqlite"
	SourceNeo4j  = "neo4j"
)

// DefaultCurrency is the display currency for money values.
const DefaultCurrency = "USD"

// DefaultTimezone is the location used for "now" when bucketing seasons.
const DefaultTimezone = "Local"

// DefaultNeo4j holds the default graph connection settings.
var DefaultNeo4j = Neo4j{
	URI:      "neo4j://localhost:7687",
	Username: "neo4j",
	Database: "neo4j",
}

// DefaultServer holds the default HTTP listen settings.
var DefaultServer = Server{
	Addr:            ":8080",
	ShutdownTimeout: 5 * time.Second,
}

// DefaultWatch holds the default watcher settings.
var DefaultWatch = Watch{
	Interval: 30 * time.Minute,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultSuggest holds the default suggestion thresholds.
var DefaultSuggest = Suggest{
	MinConfidence:      60,
	LowUtilization:     70,
	PoorCostPerWear:    20,
	LowSustainability:  40,
	ImbalanceRatio:     0.5,
	NeverWornAfterDays: 30,
}
