package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/long-weekend-planner/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	// DefaultMaxBlockLength caps candidate spans in calendar days
	DefaultMaxBlockLength = 10
	// DefaultMinGapWeeks is the default minimum distance between selected blocks
	DefaultMinGapWeeks = 3
)

// Planner runs long-weekend detection, candidate generation, optimization
// and stats. It holds no state between calls apart from its settings, so a
// single Planner is safe for concurrent use.
type Planner struct {
	now            func() time.Time
	maxBlockLength int
	logger         *zap.Logger
}

// Option configures a Planner
type Option func(*Planner)

// WithClock overrides the reference "now" used to resolve the effective start date
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// WithMaxBlockLength overrides the candidate span cap used by Run
func WithMaxBlockLength(days int) Option {
	return func(p *Planner) {
		if days > 0 {
			p.maxBlockLength = days
		}
	}
}

// New creates a Planner reading the real clock by default
func New(logger *zap.Logger, opts ...Option) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Planner{
		now:            time.Now,
		maxBlockLength: DefaultMaxBlockLength,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now returns the planner's reference time
func (p *Planner) Now() time.Time {
	return p.now()
}

// EffectiveStart returns the first planning date for year at the planner's clock
func (p *Planner) EffectiveStart(year int) time.Time {
	return dateutil.ResolveEffectiveStart(year, p.now())
}

// Run executes the full pipeline: holidays → long weekends → candidates → plan,
// plus the independent stats.
func (p *Planner) Run(year int, holidays []Holiday, leaveBudget, minGapWeeks int) *Result {
	start := p.EffectiveStart(year)

	longWeekends := p.DetectLongWeekends(year, holidays)
	candidates := p.GenerateCandidateBlocks(year, holidays, longWeekends, p.maxBlockLength)
	plan := OptimizePlan(candidates, leaveBudget, minGapWeeks)
	stats := p.CalculateYearStats(year, holidays, leaveBudget)

	p.logger.Debug("Plan computed",
		zap.Int("year", year),
		zap.String("effective_start", dateutil.ToKey(start)),
		zap.Int("long_weekends", len(longWeekends)),
		zap.Int("candidates", len(candidates)),
		zap.Int("selected_blocks", len(plan.SelectedBlocks)),
		zap.Int("total_days_off", plan.TotalDaysOff),
		zap.Int("leaves_used", plan.TotalLeavesUsed))

	return &Result{
		Year:           year,
		EffectiveStart: dateutil.ToKey(start),
		LongWeekends:   longWeekends,
		Candidates:     candidates,
		Plan:           plan,
		Stats:          stats,
	}
}

// enabledHolidayDays collects enabled holidays within year on or after
// start, keyed by epoch day. Duplicate dates collapse into one entry.
func enabledHolidayDays(year int, holidays []Holiday, start time.Time) map[int]bool {
	prefix := fmt.Sprintf("%04d-", year)
	startKey := dateutil.ToKey(start)

	days := make(map[int]bool)
	for _, h := range holidays {
		if !h.Enabled || !strings.HasPrefix(h.Date, prefix) || h.Date < startKey {
			continue
		}
		t, err := dateutil.ParseKey(h.Date)
		if err != nil {
			continue
		}
		days[dateutil.EpochDay(t)] = true
	}
	return days
}

func spanDescription(days int, start, end time.Time) string {
	return fmt.Sprintf("%d days off (%s–%s)", days, dateutil.WeekdayShort(start), dateutil.WeekdayShort(end))
}
