package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func weekendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekends",
		Short: "List natural long weekends formed by holidays next to weekends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ov, err := loadOverview()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if printElapsedNotice(w, ov) {
				return nil
			}
			printLongWeekends(w, ov)
			return nil
		},
	}
}

func candidatesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List candidate leave blocks around every weekend, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ov, err := loadOverview()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if printElapsedNotice(w, ov) {
				return nil
			}
			printCandidates(w, ov, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of candidates to show (0 for all)")

	return cmd
}

func planCmd() *cobra.Command {
	var leaves string
	var gap int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the optimized leave plan",
		Long:  "Compute the optimized leave plan. --leaves and --gap are saved as the year's preferences.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager()
			if err != nil {
				return err
			}
			y, err := planningYear(manager)
			if err != nil {
				return err
			}

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

			ov, err := manager.Overview(y)
			if err != nil {
				return err
			}

			logger.Info("Plan computed",
				zap.Int("year", y),
				zap.Int("selected_blocks", len(ov.Plan.SelectedBlocks)),
				zap.Int("total_days_off", ov.Plan.TotalDaysOff))

			w := cmd.OutOrStdout()
			if printElapsedNotice(w, ov) {
				return nil
			}
			printPlan(w, ov)
			return nil
		},
	}

	cmd.Flags().StringVar(&leaves, "leaves", "", "Paid leave budget to save for the year (0-200)")
	cmd.Flags().IntVar(&gap, "gap", 0, "Minimum weeks between leave blocks to save for the year (1-8)")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show weekend, holiday and paid leave counts for the year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ov, err := loadOverview()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printElapsedNotice(w, ov)
			printStats(w, ov)
			return nil
		},
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [month]",
		Short: "Draw month calendars with holidays, long weekends and planned leave",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			months := make([]time.Month, 0, 12)
			if len(args) == 1 {
				m, err := strconv.Atoi(args[0])
				if err != nil || m < 1 || m > 12 {
					return fmt.Errorf("month must be a number between 1 and 12, got %q", args[0])
				}
				months = append(months, time.Month(m))
			} else {
				for m := time.January; m <= time.December; m++ {
					months = append(months, m)
				}
			}

			_, ov, err := loadOverview()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, m := range months {
				if i > 0 {
					fmt.Fprintln(w)
				}
				renderMonth(w, ov, m)
			}
			fmt.Fprintln(w)
			printLegend(w)
			return nil
		},
	}
}
