package web

import (
	"fmt"
	"net/http"

	"studio/internal/adapters/export"
	"studio/internal/application/projections"
	"studio/internal/domain/caldate"
)

func (a *app) reportDeps() projections.GetAttendanceReportDeps {
	return projections.GetAttendanceReportDeps{
		MemberStore: a.stores.MemberStore,
		LessonStore: a.stores.LessonStore,
	}
}

func (a *app) attendanceReport(w http.ResponseWriter, r *http.Request) (projections.GetAttendanceReportResult, bool) {
	rng, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error(), nil)
		return projections.GetAttendanceReportResult{}, false
	}
	res, err := projections.QueryGetAttendanceReport(r.Context(), projections.GetAttendanceReportQuery{Range: rng}, a.reportDeps())
	if err != nil {
		writeError(w, err)
		return projections.GetAttendanceReportResult{}, false
	}
	return res, true
}

// handleAttendanceReport serves GET /api/reports/attendance?month=YYYY-MM or ?start=&end= (inclusive).
func (a *app) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	res, ok := a.attendanceReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *app) handleMemberAttendance(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error(), nil)
		return
	}
	res, err := projections.QueryGetMemberAttendance(r.Context(), projections.GetMemberAttendanceQuery{
		MemberID: r.PathValue("memberId"),
		Range:    rng,
	}, a.reportDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleAttendanceExport streams the same report as an xlsx workbook.
func (a *app) handleAttendanceExport(w http.ResponseWriter, r *http.Request) {
	res, ok := a.attendanceReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, caldate.Format(res.Start)))
	if err := export.WriteAttendance(w, ToExportReport(res)); err != nil {
		internalError(w, err)
	}
}

// ToExportReport converts the attendance projection into the workbook input.
func ToExportReport(res projections.GetAttendanceReportResult) export.AttendanceReport {
	rows := make([]export.AttendanceRow, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = export.AttendanceRow{MemberID: row.MemberID, Name: row.FullName, Count: row.Count, Dates: row.Dates}
	}
	return export.AttendanceReport{Start: res.Start, End: res.End, Rows: rows}
}
