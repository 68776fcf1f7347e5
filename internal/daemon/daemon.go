package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/config"
	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/internal/vacation"
)

// Daemon recomputes the plan whenever the config file or the state file
// changes, until it is stopped or receives SIGINT/SIGTERM.
type Daemon struct {
	viper    *viper.Viper
	config   *config.Config
	year     int // 0 means the manager's default year
	debounce time.Duration
	options  []planner.Option
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	manager  *vacation.Manager
	configCh chan *config.Config

	// OnRun is called after every recomputation (optional)
	OnRun func(*vacation.Overview)

	mu          sync.Mutex // protects the fields below
	runs        int
	lastRunTime time.Time
	lastErr     error
}

// NewDaemon creates a watch daemon over the configuration held by v
func NewDaemon(v *viper.Viper, cfg *config.Config, year int, logger *zap.Logger, opts ...planner.Option) (*Daemon, error) {
	manager, err := vacation.NewFromConfig(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		viper:    v,
		config:   cfg,
		year:     year,
		debounce: cfg.Watch.GetDebounce(),
		options:  opts,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		manager:  manager,
		configCh: make(chan *config.Config, 1),
	}, nil
}

// Start runs the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	stateFile := d.manager.Store().Path()
	if err := d.watchStateFile(watcher, stateFile); err != nil {
		return err
	}

	if d.viper != nil && d.viper.ConfigFileUsed() != "" {
		d.viper.OnConfigChange(d.onConfigChange)
		d.viper.WatchConfig()
		d.logger.Info("Watching config file", zap.String("file", d.viper.ConfigFileUsed()))
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	d.logger.Info("Watch daemon started",
		zap.String("state_file", stateFile),
		zap.Duration("debounce", d.debounce))

	d.runOnce("startup")

	timer := time.NewTimer(d.debounce)
	timer.Stop()
	pending := ""

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Watch daemon stopped")
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(stateFile) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			d.logger.Debug("State file changed", zap.String("op", event.Op.String()))
			pending = "state"
			timer.Reset(d.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("File watcher error", zap.Error(err))

		case cfg := <-d.configCh:
			if err := d.applyConfig(cfg); err != nil {
				d.logger.Error("Failed to apply new config, keeping the old one", zap.Error(err))
				continue
			}
			pending = "config"
			timer.Reset(d.debounce)

		case <-timer.C:
			d.runOnce(pending)
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// watchStateFile watches the directory holding the state file, since the
// file itself may not exist yet.
func (d *Daemon) watchStateFile(watcher *fsnotify.Watcher, stateFile string) error {
	dir := filepath.Dir(stateFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// onConfigChange runs on viper's watcher goroutine; the decoded config is
// handed to the main loop.
func (d *Daemon) onConfigChange(e fsnotify.Event) {
	d.logger.Info("Config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))

	cfg, err := config.Decode(d.viper)
	if err != nil {
		d.logger.Error("Invalid config after change", zap.Error(err))
		return
	}

	// keep only the newest config
	select {
	case <-d.configCh:
	default:
	}
	d.configCh <- cfg
}

func (d *Daemon) applyConfig(cfg *config.Config) error {
	manager, err := vacation.NewFromConfig(cfg, d.logger, d.options...)
	if err != nil {
		return err
	}
	d.config = cfg
	d.manager = manager
	d.debounce = cfg.Watch.GetDebounce()
	return nil
}

// runOnce reloads the state file and recomputes the plan
func (d *Daemon) runOnce(reason string) {
	if err := d.manager.Store().Load(); err != nil {
		d.recordRun(err)
		d.logger.Error("Failed to reload state", zap.Error(err))
		return
	}

	year := d.year
	if year == 0 {
		year = d.manager.DefaultYear()
	}

	ov, err := d.manager.Overview(year)
	d.recordRun(err)
	if err != nil {
		d.logger.Error("Failed to recompute plan", zap.Int("year", year), zap.Error(err))
		return
	}

	d.logger.Info("Plan recomputed",
		zap.String("reason", reason),
		zap.Int("year", year),
		zap.Int("long_weekends", len(ov.LongWeekends)),
		zap.Int("selected_blocks", len(ov.Plan.SelectedBlocks)),
		zap.Int("total_days_off", ov.Plan.TotalDaysOff),
		zap.Int("remaining_leaves", ov.Plan.RemainingLeaves))

	for _, block := range ov.Plan.SelectedBlocks {
		d.logger.Info("Selected block",
			zap.String("start", block.StartDate),
			zap.String("end", block.EndDate),
			zap.String("description", block.Description))
	}

	if d.OnRun != nil {
		d.OnRun(ov)
	}
}

func (d *Daemon) recordRun(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.runs++
	d.lastRunTime = time.Now()
	d.lastErr = err
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"runs": d.runs,
	}
	if !d.lastRunTime.IsZero() {
		status["last_run"] = d.lastRunTime.Format(time.RFC3339)
	}
	if d.lastErr != nil {
		status["last_error"] = d.lastErr.Error()
	}
	return status
}
