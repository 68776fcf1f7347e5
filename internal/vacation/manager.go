package vacation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/calendar"
	"github.com/username/long-weekend-planner/internal/config"
	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/internal/store"
	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// Overview is the complete picture of one planning year
type Overview struct {
	planner.Result
	Holidays      []planner.Holiday `json:"holidays"`
	PaidLeaves    int               `json:"paid_leaves"`
	DistanceWeeks int               `json:"distance_weeks"`
	YearElapsed   bool              `json:"year_elapsed"`
}

// Manager ties the holiday store, the holiday source and the planner together
type Manager struct {
	config  *config.Config
	store   *store.Store
	source  calendar.Source
	planner *planner.Planner
	now     func() time.Time
	logger  *zap.Logger
}

// NewManager creates a new manager
func NewManager(
	cfg *config.Config,
	st *store.Store,
	source calendar.Source,
	p *planner.Planner,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		config:  cfg,
		store:   st,
		source:  source,
		planner: p,
		now:     p.Now,
		logger:  logger,
	}
}

// NewFromConfig builds the store, holiday source and planner described by cfg
func NewFromConfig(cfg *config.Config, logger *zap.Logger, opts ...planner.Option) (*Manager, error) {
	st := store.New(cfg.State.File, logger)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	source, err := NewSource(cfg.Holidays, logger)
	if err != nil {
		return nil, err
	}

	opts = append([]planner.Option{planner.WithMaxBlockLength(cfg.Planner.MaxBlockLength)}, opts...)
	p := planner.New(logger, opts...)

	return NewManager(cfg, st, source, p, logger), nil
}

// NewSource creates the holiday source selected in the configuration
func NewSource(cfg config.HolidaysConfig, logger *zap.Logger) (calendar.Source, error) {
	var primary calendar.Source

	switch cfg.Source {
	case "file":
		primary = calendar.NewFileSource(cfg.File, logger)
	case "isdayoff":
		primary = calendar.NewIsDayOffSource("", cfg.FallbackURL, cfg.GetCacheTTL(), logger)
	default:
		src, err := calendar.NewBuiltinSource(cfg.Region)
		if err != nil {
			return nil, err
		}
		primary = src
	}

	if cfg.FallbackFile == "" {
		return primary, nil
	}

	logger.Info("Using holiday fallback file", zap.String("file", cfg.FallbackFile))
	return calendar.NewCompositeSource(primary, calendar.NewFileSource(cfg.FallbackFile, logger), logger), nil
}

// Store returns the holiday store
func (m *Manager) Store() *store.Store {
	return m.store
}

// DefaultYear returns the configured year or the current one
func (m *Manager) DefaultYear() int {
	return m.config.Planner.ResolveYear(m.now())
}

// EnsureSeeded fills a year that was never seeded from the holiday source.
// A failing source is logged and retried on the next call.
func (m *Manager) EnsureSeeded(year int) error {
	if m.store.Seeded(year) {
		return nil
	}

	entries, err := m.source.Holidays(year)
	if err != nil {
		m.logger.Warn("Failed to fetch holidays, year left unseeded",
			zap.Int("year", year),
			zap.Error(err))
		return nil
	}

	if _, err := m.store.Seed(year, entries); err != nil {
		return fmt.Errorf("failed to seed holidays: %w", err)
	}
	return nil
}

// Holidays returns the holidays of year, seeding it first if needed
func (m *Manager) Holidays(year int) ([]planner.Holiday, error) {
	if err := m.EnsureSeeded(year); err != nil {
		return nil, err
	}
	return m.store.Holidays(year), nil
}

// Overview runs the planner over the stored holidays and preferences of year
func (m *Manager) Overview(year int) (*Overview, error) {
	holidays, err := m.Holidays(year)
	if err != nil {
		return nil, err
	}

	leaves := m.PaidLeaves(year)
	distance := m.DistanceWeeks(year)

	result := m.planner.Run(year, holidays, leaves, distance)

	m.logger.Info("Overview computed",
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)),
		zap.Int("paid_leaves", leaves),
		zap.Int("distance_weeks", distance),
		zap.Int("selected_blocks", len(result.Plan.SelectedBlocks)),
		zap.Int("total_days_off", result.Plan.TotalDaysOff))

	return &Overview{
		Result:        *result,
		Holidays:      holidays,
		PaidLeaves:    leaves,
		DistanceWeeks: distance,
		YearElapsed:   dateutil.YearElapsed(year, m.planner.EffectiveStart(year)),
	}, nil
}

// PaidLeaves returns the stored budget of year, or the configured one
func (m *Manager) PaidLeaves(year int) int {
	return m.store.PaidLeaves(year, m.config.Planner.PaidLeaves)
}

// DistanceWeeks returns the stored gap preference, or the configured one
// when the year has none.
func (m *Manager) DistanceWeeks(year int) int {
	if m.store.HasDistanceWeeks(year) {
		return m.store.DistanceWeeks(year)
	}
	return m.config.Planner.MinGapWeeks
}

// AddHoliday adds (or replaces by date) a holiday
func (m *Manager) AddHoliday(year int, input store.HolidayInput) (planner.Holiday, error) {
	if err := m.EnsureSeeded(year); err != nil {
		return planner.Holiday{}, err
	}
	return m.store.AddHoliday(year, input)
}

// UpdateHoliday patches a holiday
func (m *Manager) UpdateHoliday(year int, id string, patch store.HolidayInput) (planner.Holiday, error) {
	return m.store.UpdateHoliday(year, id, patch)
}

// ToggleHoliday enables or disables a holiday
func (m *Manager) ToggleHoliday(year int, id string) (planner.Holiday, error) {
	return m.store.ToggleHoliday(year, id)
}

// DeleteHoliday removes a holiday
func (m *Manager) DeleteHoliday(year int, id string) error {
	return m.store.DeleteHoliday(year, id)
}

// ResetHolidays replaces the holidays of year with a fresh copy from the source
func (m *Manager) ResetHolidays(year int) ([]planner.Holiday, error) {
	entries, err := m.source.Holidays(year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	return m.store.ResetHolidays(year, entries)
}

// SetPaidLeaves validates and stores a user-entered paid-leave budget
func (m *Manager) SetPaidLeaves(year int, raw string) (int, error) {
	leaves, err := store.ValidatePaidLeaves(raw)
	if err != nil {
		return 0, err
	}
	return m.store.SetPaidLeaves(year, leaves)
}

// SetDistanceWeeks stores the minimum gap preference (clamped to 1..8)
func (m *Manager) SetDistanceWeeks(year, weeks int) (int, error) {
	return m.store.SetDistanceWeeks(year, weeks)
}
