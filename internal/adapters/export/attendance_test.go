package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWriteAttendance(t *testing.T) {
	var buf bytes.Buffer
	report := AttendanceReport{
		Start: day(2024, 7, 1),
		End:   day(2024, 8, 1),
		Rows: []AttendanceRow{
			{MemberID: "a", Name: "Ali Demir", Count: 2, Dates: []time.Time{day(2024, 7, 1), day(2024, 7, 3)}},
			{MemberID: "b", Name: "Zeynep Kaya", Count: 1, Dates: []time.Time{day(2024, 7, 1)}},
		},
	}
	if err := WriteAttendance(&buf, report); err != nil {
		t.Fatalf("WriteAttendance() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5: %v", len(rows), rows)
	}
	if rows[0][0] != "01/07/24 - 31/07/24" {
		t.Errorf("period = %q", rows[0][0])
	}
	if rows[2][0] != "Ali Demir" || rows[2][1] != "2" || rows[2][2] != "01/07/24, 03/07/24" {
		t.Errorf("first data row = %v", rows[2])
	}
	if rows[4][0] != "Total" || rows[4][1] != "3" {
		t.Errorf("total row = %v", rows[4])
	}
}

func TestWriteAttendance_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAttendance(&buf, AttendanceReport{Start: day(2024, 2, 1), End: day(2024, 3, 1)}); err != nil {
		t.Fatalf("WriteAttendance() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, err := f.GetCellValue(attendanceSheet, "A3")
	if err != nil || v != "Total" {
		t.Errorf("A3 = %q, %v, want Total", v, err)
	}
}
