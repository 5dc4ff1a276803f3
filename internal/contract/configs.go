package contract

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/psymap/psymap/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // no limit
	MaxResultLimit     = 10000
	DefaultPrecision   = 2
	DefaultDataSource  = "psymap-data.yaml"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds the optional category weight overrides from the YAML config file.
type WeightsRawInput struct {
	Potensi    *float64 `mapstructure:"potensi"`
	Kompetensi *float64 `mapstructure:"kompetensi"`
}

// Config holds the runtime configuration for a report.
// This struct remains the "final, validated" config.
type Config struct {
	ParticipantID       int64
	TemplateID          int64 // 0 = the participant's own template
	EventCode           string
	PositionFormationID int64
	Scope               schema.RankScope

	Params             schema.ScoringParams
	CustomStandardPath string
	Weights            schema.CategoryWeights

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	DataBackend schema.DataBackend
	DataSource  string // Please use env var for database sources as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ParticipantStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Tolerance        int    `mapstructure:"tolerance"`
	Template         int64  `mapstructure:"template"`
	Percentage       string `mapstructure:"percentage"`
	Unit             string `mapstructure:"unit"`
	CustomStandard   string `mapstructure:"custom-standard"`
	StandardVersion  string `mapstructure:"standard-version"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	DataBackend      string `mapstructure:"data-backend"`
	DataSource       string `mapstructure:"data-source"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from rankingCmd.Flags() ---
	Event    string `mapstructure:"event"`
	Position int64  `mapstructure:"position"`
	Category string `mapstructure:"category"`
	Limit    int    `mapstructure:"limit"`

	// --- Category weight overrides from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Params.Custom != nil {
		custom := *c.Params.Custom
		custom.Aspects = maps.Clone(c.Params.Custom.Aspects)
		custom.SubAspects = maps.Clone(c.Params.Custom.SubAspects)
		clone.Params.Custom = &custom
	}
	if c.Weights.Potensi != nil {
		v := *c.Weights.Potensi
		clone.Weights.Potensi = &v
	}
	if c.Weights.Kompetensi != nil {
		v := *c.Weights.Kompetensi
		clone.Weights.Kompetensi = &v
	}
	return &clone
}

// CloneWithTolerance creates a copy of the Config with a different tolerance.
func (c *Config) CloneWithTolerance(tolerance int) *Config {
	clone := c.Clone()
	clone.Params.TolerancePercentage = tolerance
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScoringParams(cfg, input); err != nil {
		return err
	}
	if err := processCategoryWeights(cfg, input); err != nil {
		return err
	}
	if err := processDataSource(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processParticipant(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.TemplateID = input.Template
	cfg.EventCode = strings.TrimSpace(input.Event)
	cfg.PositionFormationID = input.Position

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.Scope = schema.RankAll
	if input.Category != "" {
		cfg.Scope = schema.RankScope(strings.ToLower(input.Category))
		if _, ok := schema.ValidRankScopes[cfg.Scope]; !ok {
			return fmt.Errorf("invalid category '%s'. must be potensi, kompetensi, all", input.Category)
		}
	}
	return nil
}

// processScoringParams builds the engine parameters from the raw input.
func processScoringParams(cfg *Config, input *ConfigRawInput) error {
	if input.Tolerance < schema.MinTolerance || input.Tolerance > schema.MaxTolerance {
		return fmt.Errorf("%w: received %d", schema.ErrInvalidTolerance, input.Tolerance)
	}

	params := schema.DefaultScoringParams()
	params.TolerancePercentage = input.Tolerance
	params.StandardVersion = strings.TrimSpace(input.StandardVersion)

	if input.Percentage != "" {
		params.Percentage = schema.PercentageMode(strings.ToLower(input.Percentage))
		if _, ok := schema.ValidPercentageModes[params.Percentage]; !ok {
			return fmt.Errorf("invalid percentage '%s'. must be rating, score", input.Percentage)
		}
	}
	if input.Unit != "" {
		params.Unit = schema.GapUnit(strings.ToLower(input.Unit))
		if _, ok := schema.ValidGapUnits[params.Unit]; !ok {
			return fmt.Errorf("invalid unit '%s'. must be rating, score", input.Unit)
		}
	}

	cfg.CustomStandardPath = strings.TrimSpace(input.CustomStandard)
	if cfg.CustomStandardPath != "" {
		custom, err := LoadCustomStandard(cfg.CustomStandardPath)
		if err != nil {
			return err
		}
		params.Custom = custom
		if params.StandardVersion == "" {
			params.StandardVersion = custom.Version
		}
	}

	cfg.Params = params
	return nil
}

// processCategoryWeights validates the optional category weight overrides.
// When both are given they must sum to 100.
func processCategoryWeights(cfg *Config, input *ConfigRawInput) error {
	check := func(name string, v *float64) error {
		if v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("weight for %s must be between 0 and 100 (received %.2f)", name, *v)
		}
		return nil
	}
	if err := check("potensi", input.Weights.Potensi); err != nil {
		return err
	}
	if err := check("kompetensi", input.Weights.Kompetensi); err != nil {
		return err
	}
	if p, k := input.Weights.Potensi, input.Weights.Kompetensi; p != nil && k != nil {
		if sum := *p + *k; math.Abs(sum-100) > 0.001 {
			return fmt.Errorf("category weights must sum to 100, got %.3f", sum)
		}
	}
	cfg.Weights = schema.CategoryWeights{Potensi: input.Weights.Potensi, Kompetensi: input.Weights.Kompetensi}
	return nil
}

// processDataSource validates where rating data is read from.
func processDataSource(cfg *Config, input *ConfigRawInput) error {
	cfg.DataBackend = schema.FileData
	if input.DataBackend != "" {
		cfg.DataBackend = schema.DataBackend(strings.ToLower(input.DataBackend))
	}
	if _, ok := schema.ValidDataBackends[cfg.DataBackend]; !ok {
		return fmt.Errorf("invalid data backend '%s'. must be file, sqlite, mysql, postgresql", input.DataBackend)
	}

	cfg.DataSource = strings.TrimSpace(input.DataSource)
	switch cfg.DataBackend {
	case schema.FileData:
		if cfg.DataSource == "" {
			cfg.DataSource = DefaultDataSource
		}
	case schema.SQLiteData:
		if cfg.DataSource == "" {
			return fmt.Errorf("data-source is required when using %s data backend", cfg.DataBackend)
		}
	default:
		if err := ValidateDatabaseConnectionString(schema.DatabaseBackend(cfg.DataBackend), cfg.DataSource); err != nil {
			return fmt.Errorf("invalid data-source: %w", err)
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if prefix := strings.TrimSpace(profilePrefix); prefix != "" {
		profile.Enabled = true
		profile.Prefix = prefix
	}
}

// processParticipant parses the optional positional participant ID.
func processParticipant(cfg *Config, input *ConfigRawInput) error {
	s := strings.TrimSpace(input.ParticipantStr)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("participant must be a positive integer ID (received %q)", input.ParticipantStr)
	}
	cfg.ParticipantID = id
	return nil
}
