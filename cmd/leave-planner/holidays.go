package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/long-weekend-planner/internal/store"
	"github.com/username/long-weekend-planner/internal/vacation"
)

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the holidays of a year",
	}

	cmd.AddCommand(
		holidaysListCmd(),
		holidaysAddCmd(),
		holidaysEditCmd(),
		holidaysToggleCmd(),
		holidaysDeleteCmd(),
		holidaysResetCmd(),
	)

	return cmd
}

// withYear runs fn with a manager and the planning year
func withYear(fn func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		manager, err := initializeManager()
		if err != nil {
			return err
		}
		y, err := planningYear(manager)
		if err != nil {
			return err
		}
		return fn(cmd, manager, y, args)
	}
}

func holidaysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holidays (seeds the year from the holiday source on first use)",
		Args:  cobra.NoArgs,
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			holidays, err := manager.Holidays(y)
			if err != nil {
				return err
			}
			printHolidays(cmd.OutOrStdout(), y, holidays)
			return nil
		}),
	}
}

func holidaysAddCmd() *cobra.Command {
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add <YYYY-MM-DD> <name...>",
		Short: "Add a holiday, or replace the one on the same date",
		Args:  cobra.MinimumNArgs(2),
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			date := args[0]
			name := strings.Join(args[1:], " ")
			enabled := !disabled

			h, err := manager.AddHoliday(y, store.HolidayInput{Date: &date, Name: &name, Enabled: &enabled})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s %s (%s)\n", h.Date, h.Name, h.ID)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&disabled, "disabled", false, "Add the holiday disabled")

	return cmd
}

func holidaysEditCmd() *cobra.Command {
	var date, name string
	var enabled bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the date, name or enabled flag of a holiday",
		Args:  cobra.ExactArgs(1),
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			var patch store.HolidayInput
			if cmd.Flags().Changed("date") {
				patch.Date = &date
			}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("enabled") {
				patch.Enabled = &enabled
			}
			if patch.Date == nil && patch.Name == nil && patch.Enabled == nil {
				return fmt.Errorf("nothing to change: pass --date, --name or --enabled")
			}

			h, err := manager.UpdateHoliday(y, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated %s %s\n", h.Date, h.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Whether the holiday counts as a day off")

	return cmd
}

func holidaysToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable a holiday",
		Args:  cobra.ExactArgs(1),
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			h, err := manager.ToggleHoliday(y, args[0])
			if err != nil {
				return err
			}
			state := "enabled"
			if !h.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s %s is now %s\n", h.Date, h.Name, state)
			return nil
		}),
	}
}

func holidaysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a holiday",
		Args:  cobra.ExactArgs(1),
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			if err := manager.DeleteHoliday(y, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Deleted %s\n", args[0])
			return nil
		}),
	}
}

func holidaysResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the year's holidays with a fresh copy from the holiday source",
		Args:  cobra.NoArgs,
		RunE: withYear(func(cmd *cobra.Command, manager *vacation.Manager, y int, args []string) error {
			holidays, err := manager.ResetHolidays(y)
			if err != nil {
				return err
			}
			printHolidays(cmd.OutOrStdout(), y, holidays)
			return nil
		}),
	}
}
