package projections

import (
	"context"
	"time"

	lessonstore "studio/internal/adapters/storage/lesson"
	"studio/internal/domain/caldate"
)

// GetAttendanceReportQuery carries query parameters.
type GetAttendanceReportQuery struct {
	Range caldate.Range // half-open; build with caldate.Month or caldate.Inclusive
}

// AttendanceRow is one member's tally over the report range.
type AttendanceRow struct {
	MemberID string      `json:"memberId"`
	FullName string      `json:"fullName"`
	Count    int         `json:"count"`
	Dates    []time.Time `json:"dates"`
}

// GetAttendanceReportResult carries the query result.
type GetAttendanceReportResult struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Rows    []AttendanceRow `json:"rows"`
	Lessons int             `json:"lessons"`
	Total   int             `json:"total"`
}

// GetAttendanceReportDeps holds dependencies for GetAttendanceReport.
type GetAttendanceReportDeps struct {
	MemberStore MemberStore
	LessonStore LessonStore
}

// QueryGetAttendanceReport tallies attendance per member over a date range.
// PRE: Range.Start < Range.End
// POST: Rows sorted by member name with dates ascending; members with no attendance are absent
// INVARIANT: A lesson on Range.End is outside the report
func QueryGetAttendanceReport(ctx context.Context, query GetAttendanceReportQuery, deps GetAttendanceReportDeps) (GetAttendanceReportResult, error) {
	r := query.Range
	lessons, err := deps.LessonStore.List(ctx, lessonstore.ListFilter{Range: &r})
	if err != nil {
		return GetAttendanceReportResult{}, err
	}

	attended := make(map[string][]time.Time)
	for _, l := range lessons {
		for _, id := range l.MemberIDs {
			attended[id] = append(attended[id], l.Date)
		}
	}

	byID, err := membersByID(ctx, deps.MemberStore)
	if err != nil {
		return GetAttendanceReportResult{}, err
	}

	result := GetAttendanceReportResult{
		Start:   r.Start,
		End:     r.End,
		Rows:    make([]AttendanceRow, 0, len(attended)),
		Lessons: len(lessons),
	}
	for id, dates := range attended {
		m, ok := byID[id]
		if !ok {
			continue
		}
		result.Rows = append(result.Rows, AttendanceRow{MemberID: id, FullName: m.FullName(), Count: len(dates), Dates: dates})
		result.Total += len(dates)
	}
	sortByName(result.Rows,
		func(r AttendanceRow) string { return r.FullName },
		func(r AttendanceRow) string { return r.MemberID })
	return result, nil
}

// GetMemberAttendanceQuery carries query parameters.
type GetMemberAttendanceQuery struct {
	MemberID string
	Range    caldate.Range
}

// GetMemberAttendanceResult carries the query result.
type GetMemberAttendanceResult struct {
	MemberID string      `json:"memberId"`
	FullName string      `json:"fullName"`
	Dates    []time.Time `json:"dates"`
}

// QueryGetMemberAttendance is the drill-down of one report row.
// PRE: Valid member ID
// POST: Dates ascending, one per attended lesson inside the range
func QueryGetMemberAttendance(ctx context.Context, query GetMemberAttendanceQuery, deps GetAttendanceReportDeps) (GetMemberAttendanceResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return GetMemberAttendanceResult{}, err
	}
	r := query.Range
	lessons, err := deps.LessonStore.List(ctx, lessonstore.ListFilter{Range: &r, MemberID: m.ID})
	if err != nil {
		return GetMemberAttendanceResult{}, err
	}

	result := GetMemberAttendanceResult{MemberID: m.ID, FullName: m.FullName(), Dates: make([]time.Time, 0, len(lessons))}
	for _, l := range lessons {
		result.Dates = append(result.Dates, l.Date)
	}
	return result, nil
}
