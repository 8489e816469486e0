package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// Default values for configuration.
const (
	DefaultMinYear     = 2009 // First ACS 5-Year release
	DefaultMaxYear     = 2023 // Latest ACS 5-Year release
	DefaultYear        = 2022
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultHTTPTimeout = 30 * time.Second
)

// DefaultWorkers is the default number of concurrent per-year fetch workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultBaseURL is the Census Bureau data API root.
const DefaultBaseURL = "https://api.census.gov/data"

// DefaultDataset is the ACS 5-Year Estimates dataset path.
const DefaultDataset = "acs/acs5"

// Config holds the runtime configuration for the engine.
// This struct is the final, validated config.
type Config struct {
	APIKey  string
	BaseURL string
	Dataset string

	Year      int // Year for single-year queries
	MinYear   int // Lower clamp for time-series ranges
	MaxYear   int // Upper clamp for time-series ranges
	StartYear int // Default time-series start (0 = MinYear)
	EndYear   int // Default time-series end (0 = MaxYear)

	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	HTTPTimeout time.Duration

	CacheTTL       time.Duration // 0 disables durable-entry expiry
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	QueryLogBackend   schema.DatabaseBackend
	QueryLogDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// Clone returns a shallow copy of the config, safe because all fields are values.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	APIKey            string `mapstructure:"api-key"`
	BaseURL           string `mapstructure:"base-url"`
	Dataset           string `mapstructure:"dataset"`
	Year              int    `mapstructure:"year"`
	StartYear         int    `mapstructure:"start-year"`
	EndYear           int    `mapstructure:"end-year"`
	Workers           int    `mapstructure:"workers"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	QueryLogBackend   string `mapstructure:"querylog-backend"`
	QueryLogDBConnect string `mapstructure:"querylog-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`
	Width             int    `mapstructure:"width"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	// --- 4. Year Bounds ---
	cfg.MinYear = DefaultMinYear
	cfg.MaxYear = DefaultMaxYear
	cfg.Year = input.Year
	if cfg.Year == 0 {
		cfg.Year = DefaultYear
	}
	if cfg.Year < cfg.MinYear || cfg.Year > cfg.MaxYear {
		return fmt.Errorf("year %d is outside the supported ACS range [%d, %d]", cfg.Year, cfg.MinYear, cfg.MaxYear)
	}
	cfg.StartYear = input.StartYear
	cfg.EndYear = input.EndYear

	// --- 5. API Endpoint ---
	cfg.APIKey = input.APIKey
	cfg.BaseURL = input.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Dataset = input.Dataset
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	cfg.HTTPTimeout = DefaultHTTPTimeout

	// --- 6. Cache and Query Log Backends ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheDBConnect = input.CacheDBConnect

	if input.QueryLogBackend != "" {
		cfg.QueryLogBackend = schema.DatabaseBackend(strings.ToLower(input.QueryLogBackend))
		if _, ok := schema.ValidDatabaseBackends[cfg.QueryLogBackend]; !ok {
			return fmt.Errorf("invalid querylog backend '%s'. must be sqlite, mysql, postgresql, or none", input.QueryLogBackend)
		}
		if err := ValidateDatabaseConnectionString(cfg.QueryLogBackend, input.QueryLogDBConnect); err != nil {
			return err
		}
		cfg.QueryLogDBConnect = input.QueryLogDBConnect
	}

	// --- 7. Cache TTL ---
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s'. must be a Go duration like 24h or 0 to disable expiry: %v", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	// --- 8. Presentation Toggles ---
	cfg.UseEmojis = parseBoolish(input.Emoji, true)
	cfg.UseColors = parseBoolish(input.Color, true)
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	return nil
}

// parseBoolish interprets yes/no style flag values, falling back to a default.
func parseBoolish(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return fallback
	}
}

// ValidateDatabaseConnectionString checks that network-backed databases have a
// connection string and local ones do not need one.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql backend requires a connection string (user:pass@tcp(host:port)/dbname)")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql backend requires a connection string (host=... port=... user=... dbname=...)")
		}
	case schema.SQLiteBackend, schema.NoneBackend:
		// SQLite falls back to the default DB file path; none needs nothing.
	}
	return nil
}
