package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/long-weekend-planner/internal/config"
	"github.com/username/long-weekend-planner/internal/vacation"
)

var (
	configPath string
	year       int
	cfg        *config.Config
	v          *viper.Viper
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "leave-planner",
		Short:         "Long weekend and vacation planner",
		Long:          "Find natural long weekends and plan paid leave around public holidays to get the most days off",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			v, err = config.New(configPath)
			if err != nil {
				initLogger("info")
				return err
			}
			cfg, err = config.Decode(v)
			if err != nil {
				initLogger("info")
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml on the search path)")
	rootCmd.PersistentFlags().IntVarP(&year, "year", "y", 0, "Planning year (default: planner.year or the current year)")

	rootCmd.AddCommand(
		weekendsCmd(),
		candidatesCmd(),
		planCmd(),
		statsCmd(),
		calendarCmd(),
		holidaysCmd(),
		prefsCmd(),
		exportCmd(),
		serveCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initializeManager builds the manager for the loaded configuration
func initializeManager() (*vacation.Manager, error) {
	manager, err := vacation.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize planner: %w", err)
	}
	return manager, nil
}

// planningYear returns --year, or the manager's default year
func planningYear(manager *vacation.Manager) (int, error) {
	if year == 0 {
		return manager.DefaultYear(), nil
	}
	if year < 1970 || year > 9999 {
		return 0, fmt.Errorf("year must be between 1970 and 9999, got %d", year)
	}
	return year, nil
}

// loadOverview initializes the manager and computes the overview of the
// planning year.
func loadOverview() (*vacation.Manager, *vacation.Overview, error) {
	manager, err := initializeManager()
	if err != nil {
		return nil, nil, err
	}
	y, err := planningYear(manager)
	if err != nil {
		return nil, nil, err
	}
	ov, err := manager.Overview(y)
	if err != nil {
		return nil, nil, err
	}
	return manager, ov, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
