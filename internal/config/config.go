package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultCacheTTL = 24 * time.Hour
	defaultDebounce = 500 * time.Millisecond

	envPrefix = "LEAVE_PLANNER"
)

// Config represents application configuration
type Config struct {
	Planner  PlannerConfig  `mapstructure:"planner"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// PlannerConfig holds the planning defaults
type PlannerConfig struct {
	Year           int `mapstructure:"year"`        // 0 = current year
	PaidLeaves     int `mapstructure:"paid_leaves"` // used until a budget is saved for the year
	MinGapWeeks    int `mapstructure:"min_gap_weeks"`
	MaxBlockLength int `mapstructure:"max_block_length"`
}

// HolidaysConfig selects where a fresh year gets its holidays from
type HolidaysConfig struct {
	Source       string `mapstructure:"source"` // "builtin", "file" or "isdayoff"
	Region       string `mapstructure:"region"` // builtin only: "in" or "us"
	File         string `mapstructure:"file"`
	FallbackURL  string `mapstructure:"fallback_url"`  // isdayoff: xmlcalendar.ru template with {year}
	FallbackFile string `mapstructure:"fallback_file"` // optional local fallback
	CacheTTL     string `mapstructure:"cache_ttl"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// New prepares a viper instance with defaults, env overrides and the
// config file (if any). A config file that is not found on the search
// path is not an error; an explicitly given one must exist.
func New(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.leave-planner")
		v.AddConfigPath("/etc/leave-planner")
	}

	// LEAVE_PLANNER_PLANNER_PAID_LEAVES=12 overrides planner.paid_leaves
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Decode unmarshals and validates the configuration held by v
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("planner.year", 0)
	v.SetDefault("planner.paid_leaves", 0)
	v.SetDefault("planner.min_gap_weeks", 3)
	v.SetDefault("planner.max_block_length", 10)

	v.SetDefault("holidays.source", "builtin")
	v.SetDefault("holidays.region", "in")
	v.SetDefault("holidays.file", "holidays.txt")
	v.SetDefault("holidays.fallback_url", "https://xmlcalendar.ru/data/ru/{year}/calendar.json")
	v.SetDefault("holidays.fallback_file", "")
	v.SetDefault("holidays.cache_ttl", "24h")

	v.SetDefault("state.file", "leave-planner-state.json")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("watch.debounce", "500ms")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Planner config
	if c.Planner.Year != 0 && (c.Planner.Year < 1970 || c.Planner.Year > 9999) {
		return fmt.Errorf("planner.year must be 0 or between 1970 and 9999, got %d", c.Planner.Year)
	}
	if c.Planner.PaidLeaves < 0 || c.Planner.PaidLeaves > 200 {
		return fmt.Errorf("planner.paid_leaves must be between 0 and 200")
	}
	if c.Planner.MinGapWeeks < 1 || c.Planner.MinGapWeeks > 8 {
		return fmt.Errorf("planner.min_gap_weeks must be between 1 and 8")
	}
	if c.Planner.MaxBlockLength < 3 || c.Planner.MaxBlockLength > 31 {
		return fmt.Errorf("planner.max_block_length must be between 3 and 31")
	}

	// Validate Holidays config
	switch c.Holidays.Source {
	case "builtin":
		if c.Holidays.Region != "in" && c.Holidays.Region != "us" {
			return fmt.Errorf("holidays.region must be 'in' or 'us', got '%s'", c.Holidays.Region)
		}
	case "file":
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	case "isdayoff":
	default:
		return fmt.Errorf("holidays.source must be 'builtin', 'file' or 'isdayoff', got '%s'", c.Holidays.Source)
	}

	// Validate State config
	if c.State.File == "" {
		return fmt.Errorf("state.file is required")
	}

	return nil
}

// ResolveYear returns the configured year, or the year of now when unset
func (c *PlannerConfig) ResolveYear(now time.Time) int {
	if c.Year == 0 {
		return now.Year()
	}
	return c.Year
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, defaultCacheTTL)
}

// GetDebounce returns how long watch mode waits for changes to settle
func (c *WatchConfig) GetDebounce() time.Duration {
	return parseDuration(c.Debounce, defaultDebounce)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.State.File = os.ExpandEnv(c.State.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
