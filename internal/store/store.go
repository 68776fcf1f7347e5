package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/calendar"
	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/pkg/dateutil"
)

const (
	// DefaultDistanceWeeks is the gap preference of a year that has none
	DefaultDistanceWeeks = planner.DefaultMinGapWeeks
	MinDistanceWeeks     = 1
	MaxDistanceWeeks     = 8
)

var (
	// ErrHolidayNotFound is returned when no holiday has the given id
	ErrHolidayNotFound = errors.New("holiday not found")
	// ErrDateTaken is returned when another holiday already owns the date
	ErrDateTaken = errors.New("another holiday already uses this date")
)

// YearState is the persisted state of one planning year
type YearState struct {
	Holidays      []planner.Holiday `json:"holidays"`
	PaidLeaves    *int              `json:"paid_leaves,omitempty"`
	DistanceWeeks int               `json:"distance_weeks,omitempty"`
	Seeded        bool              `json:"seeded"`
}

// State is the content of the state file
type State struct {
	Years map[string]*YearState `json:"years"`
}

// Store keeps holidays and preferences per year in a JSON file.
// Every mutation is written to disk before it returns.
type Store struct {
	stateFile string
	logger    *zap.Logger

	mu    sync.Mutex
	state *State
}

// New creates a new store; call Load before use
func New(stateFile string, logger *zap.Logger) *Store {
	return &Store{
		stateFile: stateFile,
		logger:    logger,
		state:     &State{Years: make(map[string]*YearState)},
	}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.stateFile
}

// Load loads the state from file. A missing file gives an empty state.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// created on first save
			s.mu.Lock()
			s.state = &State{Years: make(map[string]*YearState)}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	years := make(map[string]*YearState, len(state.Years))
	dropped := 0
	for key, ys := range state.Years {
		year, err := strconv.Atoi(key)
		if err != nil || ys == nil {
			s.logger.Warn("Skipping invalid year in state file", zap.String("year", key))
			continue
		}
		before := len(ys.Holidays)
		ys.Holidays = normalizeHolidays(year, ys.Holidays)
		dropped += before - len(ys.Holidays)
		years[key] = ys
	}

	s.mu.Lock()
	s.state = &State{Years: years}
	s.mu.Unlock()

	s.logger.Info("State loaded",
		zap.String("file", s.stateFile),
		zap.Int("years", len(years)),
		zap.Int("dropped_holidays", dropped))

	return nil
}

// save writes the state; callers hold s.mu
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(s.stateFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Debug("State saved", zap.String("file", s.stateFile))
	return nil
}

// year returns the state of year, creating it when create is set
func (s *Store) year(year int, create bool) *YearState {
	key := strconv.Itoa(year)
	ys, ok := s.state.Years[key]
	if !ok && create {
		ys = &YearState{Holidays: []planner.Holiday{}}
		s.state.Years[key] = ys
	}
	return ys
}

// Holidays returns a copy of the holidays of year, sorted by date
func (s *Store) Holidays(year int) []planner.Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	if ys == nil {
		return []planner.Holiday{}
	}
	return append([]planner.Holiday{}, ys.Holidays...)
}

// Seeded reports whether year has received its initial holiday list
func (s *Store) Seeded(year int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	return ys != nil && ys.Seeded
}

// Seed adds entries to a year that was never seeded. Dates the user already
// has are kept as they are. Returns false when the year was seeded before.
func (s *Store) Seed(year int, entries []calendar.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, true)
	if ys.Seeded {
		return false, nil
	}

	for _, h := range holidaysFromEntries(entries) {
		if indexByDate(ys.Holidays, h.Date) < 0 {
			ys.Holidays = append(ys.Holidays, h)
		}
	}
	ys.Holidays = normalizeHolidays(year, ys.Holidays)
	ys.Seeded = true

	if err := s.save(); err != nil {
		return false, err
	}

	s.logger.Info("Holidays seeded",
		zap.Int("year", year),
		zap.Int("holidays", len(ys.Holidays)))

	return true, nil
}

// AddHoliday upserts by date: an existing holiday on the same date gets the
// new name and enabled flag, otherwise a new holiday is created.
func (s *Store) AddHoliday(year int, input HolidayInput) (planner.Holiday, error) {
	h, err := ValidateHoliday(year, input, nil)
	if err != nil {
		return planner.Holiday{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, true)
	if i := indexByDate(ys.Holidays, h.Date); i >= 0 {
		h.ID = ys.Holidays[i].ID
		ys.Holidays[i] = h
	} else {
		h.ID = uuid.NewString()
		ys.Holidays = append(ys.Holidays, h)
	}
	sortHolidays(ys.Holidays)

	if err := s.save(); err != nil {
		return planner.Holiday{}, err
	}

	s.logger.Info("Holiday saved",
		zap.Int("year", year),
		zap.String("id", h.ID),
		zap.String("date", h.Date),
		zap.String("name", h.Name))

	return h, nil
}

// UpdateHoliday applies a patch to the holiday with id. Moving it onto a
// date owned by another holiday fails with ErrDateTaken.
func (s *Store) UpdateHoliday(year int, id string, patch HolidayInput) (planner.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	i := -1
	if ys != nil {
		i = indexByID(ys.Holidays, id)
	}
	if i < 0 {
		return planner.Holiday{}, fmt.Errorf("update %s: %w", id, ErrHolidayNotFound)
	}

	current := ys.Holidays[i]
	h, err := ValidateHoliday(year, patch, &current)
	if err != nil {
		return planner.Holiday{}, err
	}
	if j := indexByDate(ys.Holidays, h.Date); j >= 0 && j != i {
		return planner.Holiday{}, fmt.Errorf("update %s to %s: %w", id, h.Date, ErrDateTaken)
	}

	h.ID = current.ID
	ys.Holidays[i] = h
	sortHolidays(ys.Holidays)

	if err := s.save(); err != nil {
		return planner.Holiday{}, err
	}

	s.logger.Info("Holiday updated",
		zap.Int("year", year),
		zap.String("id", h.ID),
		zap.String("date", h.Date))

	return h, nil
}

// ToggleHoliday flips the enabled flag of the holiday with id
func (s *Store) ToggleHoliday(year int, id string) (planner.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	i := -1
	if ys != nil {
		i = indexByID(ys.Holidays, id)
	}
	if i < 0 {
		return planner.Holiday{}, fmt.Errorf("toggle %s: %w", id, ErrHolidayNotFound)
	}

	ys.Holidays[i].Enabled = !ys.Holidays[i].Enabled
	if err := s.save(); err != nil {
		return planner.Holiday{}, err
	}

	s.logger.Info("Holiday toggled",
		zap.Int("year", year),
		zap.String("id", id),
		zap.Bool("enabled", ys.Holidays[i].Enabled))

	return ys.Holidays[i], nil
}

// DeleteHoliday removes the holiday with id
func (s *Store) DeleteHoliday(year int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	i := -1
	if ys != nil {
		i = indexByID(ys.Holidays, id)
	}
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrHolidayNotFound)
	}

	ys.Holidays = append(ys.Holidays[:i], ys.Holidays[i+1:]...)
	if err := s.save(); err != nil {
		return err
	}

	s.logger.Info("Holiday deleted", zap.Int("year", year), zap.String("id", id))
	return nil
}

// ResetHolidays replaces the holidays of year with entries
func (s *Store) ResetHolidays(year int, entries []calendar.Entry) ([]planner.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, true)
	ys.Holidays = normalizeHolidays(year, holidaysFromEntries(entries))
	ys.Seeded = true

	if err := s.save(); err != nil {
		return nil, err
	}

	s.logger.Info("Holidays reset",
		zap.Int("year", year),
		zap.Int("holidays", len(ys.Holidays)))

	return append([]planner.Holiday{}, ys.Holidays...), nil
}

// PaidLeaves returns the stored budget of year, or fallback when none is stored
func (s *Store) PaidLeaves(year, fallback int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ys := s.year(year, false); ys != nil && ys.PaidLeaves != nil {
		return max(*ys.PaidLeaves, 0)
	}
	return max(fallback, 0)
}

// SetPaidLeaves stores the budget of year; negative values become 0
func (s *Store) SetPaidLeaves(year, leaves int) (int, error) {
	leaves = max(leaves, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, true)
	ys.PaidLeaves = &leaves
	if err := s.save(); err != nil {
		return 0, err
	}

	s.logger.Info("Paid leaves saved", zap.Int("year", year), zap.Int("paid_leaves", leaves))
	return leaves, nil
}

// DistanceWeeks returns the minimum gap preference of year
func (s *Store) DistanceWeeks(year int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	if ys == nil || ys.DistanceWeeks < MinDistanceWeeks || ys.DistanceWeeks > MaxDistanceWeeks {
		return DefaultDistanceWeeks
	}
	return ys.DistanceWeeks
}

// HasDistanceWeeks reports whether year has a usable stored gap preference
func (s *Store) HasDistanceWeeks(year int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, false)
	return ys != nil && ys.DistanceWeeks >= MinDistanceWeeks && ys.DistanceWeeks <= MaxDistanceWeeks
}

// SetDistanceWeeks stores the gap preference of year, clamped to 1..8 weeks
func (s *Store) SetDistanceWeeks(year, weeks int) (int, error) {
	weeks = min(max(weeks, MinDistanceWeeks), MaxDistanceWeeks)

	s.mu.Lock()
	defer s.mu.Unlock()

	ys := s.year(year, true)
	ys.DistanceWeeks = weeks
	if err := s.save(); err != nil {
		return 0, err
	}

	s.logger.Info("Distance saved", zap.Int("year", year), zap.Int("distance_weeks", weeks))
	return weeks, nil
}

// normalizeHolidays drops records with an invalid date or a date outside
// year, fills missing ids and blank names, and sorts by date.
func normalizeHolidays(year int, holidays []planner.Holiday) []planner.Holiday {
	prefix := fmt.Sprintf("%04d-", year)

	out := make([]planner.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if !dateutil.IsValidKey(h.Date) || !strings.HasPrefix(h.Date, prefix) {
			continue
		}
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" {
			h.Name = calendar.DefaultHolidayName
		}
		out = append(out, h)
	}
	sortHolidays(out)
	return out
}

func holidaysFromEntries(entries []calendar.Entry) []planner.Holiday {
	holidays := make([]planner.Holiday, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		holidays = append(holidays, planner.Holiday{
			ID:      uuid.NewString(),
			Date:    e.Date,
			Name:    e.Name,
			Enabled: true,
		})
	}
	return holidays
}

func sortHolidays(holidays []planner.Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})
}

func indexByID(holidays []planner.Holiday, id string) int {
	for i, h := range holidays {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func indexByDate(holidays []planner.Holiday, date string) int {
	for i, h := range holidays {
		if h.Date == date {
			return i
		}
	}
	return -1
}
