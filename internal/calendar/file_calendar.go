package calendar

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// FileSource reads holidays from a local file.
//
// Files ending in .toml hold [[holiday]] tables with date and name keys.
// Any other file uses the line format:
//
//	# comment
//	2026-01-26 Republic Day
type FileSource struct {
	filePath string
	logger   *zap.Logger

	mu     sync.RWMutex
	loaded bool
	data   map[int][]Entry // year → entries as read
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int][]Entry),
	}
}

// Path returns the file the source reads
func (fs *FileSource) Path() string {
	return fs.filePath
}

// Load (re)reads the file
func (fs *FileSource) Load() error {
	var (
		entries []Entry
		err     error
	)
	if strings.EqualFold(filepath.Ext(fs.filePath), ".toml") {
		entries, err = fs.readTOML()
	} else {
		entries, err = fs.readLines()
	}
	if err != nil {
		return err
	}

	data := make(map[int][]Entry)
	for _, e := range entries {
		date, err := dateutil.ParseKey(e.Date)
		if err != nil {
			fs.logger.Warn("Failed to parse date", zap.String("date", e.Date), zap.Error(err))
			continue
		}
		data[date.Year()] = append(data[date.Year()], e)
	}

	fs.mu.Lock()
	fs.data = data
	fs.loaded = true
	fs.mu.Unlock()

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("years", len(data)),
		zap.Int("entries", len(entries)))

	return nil
}

// Holidays returns the file's holidays for year, loading the file on first use
func (fs *FileSource) Holidays(year int) ([]Entry, error) {
	fs.mu.RLock()
	loaded := fs.loaded
	fs.mu.RUnlock()

	if !loaded {
		if err := fs.Load(); err != nil {
			return nil, err
		}
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return normalizeEntries(year, fs.data[year]), nil
}

func (fs *FileSource) readLines() ([]Entry, error) {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD name...
		parts := strings.SplitN(line, " ", 2)
		if !dateutil.IsValidKey(parts[0]) {
			fs.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		name := ""
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}
		entries = append(entries, Entry{Date: parts[0], Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holiday file: %w", err)
	}
	return entries, nil
}

// tomlHolidayFile mirrors a .toml holiday file. date may be a quoted string
// or a bare TOML local date.
type tomlHolidayFile struct {
	Holiday []struct {
		Date any    `toml:"date"`
		Name string `toml:"name"`
	} `toml:"holiday"`
}

func (fs *FileSource) readTOML() ([]Entry, error) {
	raw, err := os.ReadFile(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}

	var doc tomlHolidayFile
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Holiday))
	for _, h := range doc.Holiday {
		var date string
		switch v := h.Date.(type) {
		case string:
			date = v
		case toml.LocalDate:
			date = fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day)
		default:
			fs.logger.Warn("Invalid holiday date", zap.Any("date", h.Date), zap.String("name", h.Name))
			continue
		}
		entries = append(entries, Entry{Date: date, Name: h.Name})
	}
	return entries, nil
}
