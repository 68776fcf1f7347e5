package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/daemon"
	"github.com/username/long-weekend-planner/internal/export"
	"github.com/username/long-weekend-planner/internal/server"
	"github.com/username/long-weekend-planner/internal/vacation"
)

func prefsCmd() *cobra.Command {
	var leaves string
	var gap int

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the paid leave budget and the minimum gap between blocks",
		Args:  cobra.NoArgs,
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			if cmd.Flags().Changed("leaves") {
				if _, err := manager.SetPaidLeaves(y, leaves); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("gap") {
				if _, err := manager.SetDistanceWeeks(y, gap); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Year:          %d\n", y)
			fmt.Fprintf(w, "Paid leaves:   %d\n", manager.PaidLeaves(y))
			fmt.Fprintf(w, "Minimum gap:   %d weeks\n", manager.DistanceWeeks(y))
			return nil
		}),
	}

	cmd.Flags().StringVar(&leaves, "leaves", "", "Paid leave budget (0-200)")
	cmd.Flags().IntVar(&gap, "gap", 0, "Minimum weeks between leave blocks (1-8, clamped)")

	return cmd
}

func exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the plan and long weekends as an iCalendar or Excel file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "ics" && format != "xlsx" {
				return fmt.Errorf("format must be 'ics' or 'xlsx', got '%s'", format)
			}

			_, ov, err := loadOverview()
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("long-weekends-%d.%s", ov.Year, format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				if dir := filepath.Dir(output); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("failed to create output directory: %w", err)
					}
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "ics":
				err = export.WriteICS(w, &ov.Result, time.Now())
			case "xlsx":
				err = export.WriteXLSX(w, &ov.Result)
			}
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", format, err)
			}

			logger.Info("Plan exported",
				zap.String("format", format),
				zap.String("output", output),
				zap.Int("year", ov.Year))

			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "✅ Exported %d to %s\n", ov.Year, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "ics", "Export format: ics or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, '-' for stdout (default: long-weekends-<year>.<format>)")

	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(manager, logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Recompute the plan whenever the config or state file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := daemon.NewDaemon(v, cfg, year, logger)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			w := cmd.OutOrStdout()
			d.OnRun = func(ov *vacation.Overview) {
				fmt.Fprintf(w, "\n🔄 %s\n", time.Now().Format("15:04:05"))
				if printElapsedNotice(w, ov) {
					return
				}
				printPlan(w, ov)
			}

			return d.Start()
		},
	}
}
