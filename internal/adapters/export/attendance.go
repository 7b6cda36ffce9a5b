// Package export renders report data as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"studio/internal/domain/display"
)

// ContentTypeXLSX is the media type of Office Open XML workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const attendanceSheet = "Attendance"

// AttendanceRow is one member line of an attendance report.
type AttendanceRow struct {
	MemberID string
	Name     string
	Count    int
	Dates    []time.Time
}

// AttendanceReport is the input of WriteAttendance.
type AttendanceReport struct {
	Start time.Time // inclusive
	End   time.Time // exclusive
	Rows  []AttendanceRow
}

// WriteAttendance writes report as a single-sheet workbook.
// POST: Row 1 holds the period, row 2 the headers, data from row 3, totals last
func WriteAttendance(w io.Writer, report AttendanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	last := report.End.AddDate(0, 0, -1)
	period := display.FormatDateDDMMYY(report.Start) + " - " + display.FormatDateDDMMYY(last)
	if err := f.SetCellValue(attendanceSheet, "A1", period); err != nil {
		return err
	}
	if err := f.SetSheetRow(attendanceSheet, "A2", &[]any{"Member", "Lessons", "Dates"}); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(attendanceSheet, "A1", "C2", bold); err != nil {
		return err
	}

	total := 0
	for i, row := range report.Rows {
		dates := make([]string, len(row.Dates))
		for j, d := range row.Dates {
			dates[j] = display.FormatDateDDMMYY(d)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &[]any{row.Name, row.Count, strings.Join(dates, ", ")}); err != nil {
			return err
		}
		total += row.Count
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(report.Rows)+3)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(attendanceSheet, totalCell, &[]any{"Total", total}); err != nil {
		return err
	}

	if err := f.SetColWidth(attendanceSheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(attendanceSheet, "C", "C", 60); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
