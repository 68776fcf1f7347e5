package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/long-weekend-planner/internal/planner"
)

// Sheet names of the exported workbook
const (
	SheetPlan         = "Plan"
	SheetLongWeekends = "Long Weekends"
	SheetStats        = "Stats"
)

// WriteXLSX writes the plan, the natural long weekends and the year stats
// as an Excel workbook.
func WriteXLSX(w io.Writer, result *planner.Result) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", SheetPlan); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetLongWeekends, SheetStats} {
		if _, err := wb.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writePlanSheet(wb, header, result); err != nil {
		return err
	}
	if err := writeLongWeekendSheet(wb, header, result); err != nil {
		return err
	}
	if err := writeStatsSheet(wb, header, result); err != nil {
		return err
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePlanSheet(wb *excelize.File, header int, result *planner.Result) error {
	rows := [][]any{{"Start", "End", "Days off", "Paid leaves", "Efficiency", "Leave dates", "Description"}}
	for _, b := range result.Plan.SelectedBlocks {
		rows = append(rows, []any{
			b.StartDate,
			b.EndDate,
			b.TotalDaysOff,
			b.LeavesRequired,
			roundEfficiency(b.Efficiency),
			strings.Join(b.PaidLeaveDates.Sorted(), ", "),
			b.Description,
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total", "", result.Plan.TotalDaysOff, result.Plan.TotalLeavesUsed},
		[]any{"Remaining leaves", "", "", result.Plan.RemainingLeaves},
	)
	return writeRows(wb, SheetPlan, header, rows, []float64{12, 12, 10, 12, 11, 36, 36})
}

func writeLongWeekendSheet(wb *excelize.File, header int, result *planner.Result) error {
	rows := [][]any{{"Start", "End", "Days off", "Description"}}
	for _, lw := range result.LongWeekends {
		rows = append(rows, []any{lw.StartDate, lw.EndDate, lw.DaysOff, lw.Description})
	}
	return writeRows(wb, SheetLongWeekends, header, rows, []float64{12, 12, 10, 30})
}

func writeStatsSheet(wb *excelize.File, header int, result *planner.Result) error {
	s := result.Stats
	rows := [][]any{
		{"Metric", "Value"},
		{"Year", result.Year},
		{"Planning from", result.EffectiveStart},
		{"Weekend days", s.TotalWeekends},
		{"Holidays", s.TotalHolidays},
		{"Total off days", s.TotalOffDays},
		{"Paid leaves available", s.PaidLeavesAvailable},
		{"Paid leaves used", result.Plan.TotalLeavesUsed},
		{"Days off from plan", result.Plan.TotalDaysOff},
	}
	return writeRows(wb, SheetStats, header, rows, []float64{24, 14})
}

// writeRows writes rows from A1 down, styles the first row as the header
// and sets column widths left to right.
func writeRows(wb *excelize.File, sheet string, header int, rows [][]any, widths []float64) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := wb.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := wb.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

// roundEfficiency keeps two decimals; +Inf never reaches a selected block
func roundEfficiency(e float64) float64 {
	if math.IsInf(e, 0) || math.IsNaN(e) {
		return 0
	}
	return math.Round(e*100) / 100
}
