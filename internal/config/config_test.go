package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func validConfig() Config {
	return Config{
		Planner:  PlannerConfig{MinGapWeeks: 3, MaxBlockLength: 10},
		Holidays: HolidaysConfig{Source: "builtin", Region: "in"},
		State:    StateConfig{File: "state.json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Planner.MinGapWeeks != 3 || cfg.Planner.MaxBlockLength != 10 || cfg.Planner.PaidLeaves != 0 {
		t.Errorf("Planner = %+v, want defaults", cfg.Planner)
	}
	if cfg.Holidays.Source != "builtin" || cfg.Holidays.Region != "in" {
		t.Errorf("Holidays = %+v, want builtin/in", cfg.Holidays)
	}
	if cfg.State.File != "leave-planner-state.json" {
		t.Errorf("State.File = %q", cfg.State.File)
	}
	if cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" {
		t.Errorf("Server/Log = %+v/%+v", cfg.Server, cfg.Log)
	}
	if cfg.Holidays.GetCacheTTL() != 24*time.Hour || cfg.Watch.GetDebounce() != 500*time.Millisecond {
		t.Errorf("durations = %v/%v", cfg.Holidays.GetCacheTTL(), cfg.Watch.GetDebounce())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
planner:
  year: 2026
  paid_leaves: 18
  min_gap_weeks: 2
holidays:
  source: file
  file: $PLANNER_TEST_DIR/holidays.toml
`)
	t.Setenv("PLANNER_TEST_DIR", "/data")
	t.Setenv("LEAVE_PLANNER_PLANNER_PAID_LEAVES", "12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Planner.Year != 2026 || cfg.Planner.MinGapWeeks != 2 {
		t.Errorf("Planner = %+v", cfg.Planner)
	}
	if cfg.Planner.PaidLeaves != 12 {
		t.Errorf("PaidLeaves = %d, want env override 12", cfg.Planner.PaidLeaves)
	}
	if cfg.Holidays.File != "/data/holidays.toml" {
		t.Errorf("Holidays.File = %q, want expanded path", cfg.Holidays.File)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "absent.yaml")},
		{"invalid value", writeConfig(t, "planner:\n  min_gap_weeks: 12\n")},
		{"broken yaml", writeConfig(t, "planner: [\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"explicit year", func(c *Config) { c.Planner.Year = 2026 }, false},
		{"year too small", func(c *Config) { c.Planner.Year = 1900 }, true},
		{"negative leaves", func(c *Config) { c.Planner.PaidLeaves = -1 }, true},
		{"too many leaves", func(c *Config) { c.Planner.PaidLeaves = 201 }, true},
		{"gap zero", func(c *Config) { c.Planner.MinGapWeeks = 0 }, true},
		{"gap nine", func(c *Config) { c.Planner.MinGapWeeks = 9 }, true},
		{"block too short", func(c *Config) { c.Planner.MaxBlockLength = 2 }, true},
		{"us region", func(c *Config) { c.Holidays.Region = "us" }, false},
		{"unknown region", func(c *Config) { c.Holidays.Region = "de" }, true},
		{"file source without file", func(c *Config) { c.Holidays.Source = "file" }, true},
		{"file source", func(c *Config) { c.Holidays.Source = "file"; c.Holidays.File = "h.txt" }, false},
		{"isdayoff source", func(c *Config) { c.Holidays.Source = "isdayoff" }, false},
		{"unknown source", func(c *Config) { c.Holidays.Source = "web" }, true},
		{"no state file", func(c *Config) { c.State.File = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 24 * time.Hour},
		{"1h", time.Hour},
		{"bogus", 24 * time.Hour},
		{"-5m", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := HolidaysConfig{CacheTTL: tt.value}
			if got := c.GetCacheTTL(); got != tt.want {
				t.Errorf("GetCacheTTL(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	w := WatchConfig{Debounce: "2s"}
	if got := w.GetDebounce(); got != 2*time.Second {
		t.Errorf("GetDebounce() = %v, want 2s", got)
	}
}

func TestPlannerConfig_ResolveYear(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	if got := (&PlannerConfig{}).ResolveYear(now); got != 2026 {
		t.Errorf("ResolveYear() = %d, want 2026", got)
	}
	if got := (&PlannerConfig{Year: 2027}).ResolveYear(now); got != 2027 {
		t.Errorf("ResolveYear() = %d, want 2027", got)
	}
}
