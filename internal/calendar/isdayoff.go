package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour

	// DefaultFallbackURL is the xmlcalendar template used when the API is down
	DefaultFallbackURL = "https://xmlcalendar.ru/data/ru/{year}/calendar.json"

	dayOffName = "Day off"
)

// IsDayOffSource reads non-working weekdays from the isdayoff.ru year API.
// Every weekday the API marks as off becomes an Entry named "Day off".
type IsDayOffSource struct {
	httpClient  *http.Client
	logger      *zap.Logger
	baseURL     string
	fallbackURL string

	cache    map[int]*cachedYear
	cacheMu  sync.RWMutex
	cacheTTL time.Duration
}

type cachedYear struct {
	entries   []Entry
	fetchedAt time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewIsDayOffSource creates a new IsDayOffSource. An empty baseURL uses
// isdayoff.ru; an empty fallbackURL disables the xmlcalendar fallback.
func NewIsDayOffSource(baseURL, fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffSource {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &IsDayOffSource{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		fallbackURL: fallbackURL,
		cache:       make(map[int]*cachedYear),
		cacheTTL:    cacheTTL,
	}
}

// Holidays returns the off weekdays of year
func (c *IsDayOffSource) Holidays(year int) ([]Entry, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached holidays", zap.Int("year", year))
			return append([]Entry(nil), cached.entries...), nil
		}
	}
	c.cacheMu.RUnlock()

	entries, err := c.fetchYearFromAPI(year)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch from API, trying fallback",
			zap.Int("year", year),
			zap.Error(err))

		var fallbackErr error
		entries, fallbackErr = c.fetchYearFromFallback(year)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}

		c.logger.Info("Using fallback data", zap.Int("year", year))
	}

	c.cacheMu.Lock()
	c.cache[year] = &cachedYear{
		entries:   entries,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	return append([]Entry(nil), entries...), nil
}

// fetchYearFromAPI fetches the whole year from the isdayoff.ru bulk API
func (c *IsDayOffSource) fetchYearFromAPI(year int) ([]Entry, error) {
	// https://isdayoff.ru/api/getdata?year=2026&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&pre=1", c.baseURL, year)

	c.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(url)
	if err != nil {
		return nil, err
	}

	entries, err := parseBulkResponse(year, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.Int("holidays", len(entries)))

	return entries, nil
}

// parseBulkResponse parses the isdayoff.ru bulk response, one digit per day:
// 0 = working day, 1 = non-working day, 2 = shortened day,
// 4 = working day (covid regime).
func parseBulkResponse(year int, data string) ([]Entry, error) {
	days := dateutil.DaysBetween(dateutil.YearStart(year), dateutil.YearEnd(year)) + 1
	if len(data) != days {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", days, len(data))
	}

	var entries []Entry
	for i, code := range data {
		date := dateutil.AddDays(dateutil.YearStart(year), i)

		switch code {
		case '0', '2', '4':
		case '1':
			if dateutil.IsWeekday(date) {
				entries = append(entries, Entry{Date: dateutil.ToKey(date), Name: dayOffName})
			}
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return normalizeEntries(year, entries), nil
}

// fetchYearFromFallback downloads the year from xmlcalendar.ru
func (c *IsDayOffSource) fetchYearFromFallback(year int) ([]Entry, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}

	var yearData xmlCalendarYear
	if err := json.Unmarshal(body, &yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	var entries []Entry
	for _, m := range yearData.Months {
		entries = append(entries, c.parseXMLCalendarMonth(year, m)...)
	}

	c.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return normalizeEntries(year, entries), nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened (working) day, + = transferred day off, others = days off
func (c *IsDayOffSource) parseXMLCalendarMonth(year int, m xmlCalendarMonth) []Entry {
	if m.Month < 1 || m.Month > 12 || m.Days == "" {
		return nil
	}

	var entries []Entry
	for _, part := range strings.Split(m.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, "*") {
			continue
		}

		day, err := strconv.Atoi(strings.TrimSuffix(part, "+"))
		if err != nil {
			c.logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Error(err))
			continue
		}

		date := dateutil.Date(year, time.Month(m.Month), day)
		// out-of-range days normalise into the next month
		if date.Day() != day || !dateutil.IsWeekday(date) {
			continue
		}
		entries = append(entries, Entry{Date: dateutil.ToKey(date), Name: dayOffName})
	}
	return entries
}

func (c *IsDayOffSource) get(url string) ([]byte, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// ClearCache clears the cache
func (c *IsDayOffSource) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[int]*cachedYear)
	c.logger.Info("Calendar cache cleared")
}
