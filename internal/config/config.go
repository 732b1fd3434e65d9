// Package config provides centralized configuration management for the
// parse pipeline. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Paths   PathsConfig
	Parse   ParseConfig
	Logging LoggingConfig
}

// PathsConfig holds the directories the pipeline reads from and writes to.
type PathsConfig struct {
	// GeneratedDir is the directory holding the extracted client CSV tables
	// (default: scripts/DBC/generated)
	GeneratedDir string `env:"DBC_GENERATED_DIR" default:"scripts/DBC/generated"`

	// ParsedDir is where JSON documents are written (default: scripts/DBC/parsed)
	ParsedDir string `env:"DBC_PARSED_DIR" default:"scripts/DBC/parsed"`

	// AddonDir is where addon Lua tables are written (default: HeroDBC/DBC)
	AddonDir string `env:"ADDON_DBC_DIR" default:"HeroDBC/DBC"`

	// AddonDevDir is where unfiltered development Lua tables are written
	// (default: HeroDBC/Dev/Unfiltered)
	AddonDevDir string `env:"ADDON_DEV_DIR" default:"HeroDBC/Dev/Unfiltered"`
}

// ParseConfig holds processing settings shared by all units.
type ParseConfig struct {
	// Workers is the number of goroutines used for chunked row processing
	// (default: 8)
	Workers int `env:"PARSE_WORKERS" default:"8"`

	// ChunkSize is the number of rows handed to one worker at a time
	// (default: 500)
	ChunkSize int `env:"PARSE_CHUNK_SIZE" default:"500"`

	// LuaBatchSize is the number of Lua entries buffered before a flush
	// (default: 500)
	LuaBatchSize int `env:"LUA_BATCH_SIZE" default:"500"`

	// Units restricts the run to a comma-separated subset of unit names.
	// Empty means run everything. Supports both PARSE_UNITS and UNITS.
	Units []string `env:"PARSE_UNITS" envAlt:"UNITS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
