package calendar

import (
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: any source (usually remote)
// Fallback: usually a FileSource
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays asks the primary source first and the fallback on error
func (cs *CompositeSource) Holidays(year int) ([]Entry, error) {
	entries, err := cs.primary.Holidays(year)
	if err == nil {
		return entries, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	entries, fallbackErr := cs.fallback.Holidays(year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback sources both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return entries, nil
}

// LoadFallback loads the fallback source (if FileSource)
func (cs *CompositeSource) LoadFallback() error {
	if fs, ok := cs.fallback.(*FileSource); ok {
		if err := fs.Load(); err != nil {
			return fmt.Errorf("failed to load fallback holidays: %w", err)
		}
		cs.logger.Info("Fallback holidays loaded successfully")
	}
	return nil
}
