package web

import (
	"net/http"

	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/domain/caldate"
	"studio/internal/domain/lesson"
)

// handleGetLesson serves GET /api/lessons?date=YYYY-MM-DD&slot=morning|evening.
// An unrecorded slot returns an empty roster rather than 404.
func (a *app) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	day, err := caldate.Parse(r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w, err.Error(), map[string]string{"date": "datetime=2006-01-02"})
		return
	}
	slot, err := lesson.ParseSlot(r.URL.Query().Get("slot"))
	if err != nil {
		badRequest(w, err.Error(), map[string]string{"slot": "oneof=morning evening"})
		return
	}
	res, err := projections.QueryGetLessonRoster(r.Context(), projections.GetLessonRosterQuery{
		Date: day,
		Slot: slot,
	}, projections.GetLessonRosterDeps{
		MemberStore: a.stores.MemberStore,
		LessonStore: a.stores.LessonStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRecordAttendance serves PUT /api/lessons. The body replaces the full
// attendee set of the slot; an empty list clears it.
func (a *app) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var dto attendanceDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	l, err := orchestrators.ExecuteRecordAttendance(r.Context(), orchestrators.RecordAttendanceInput{
		Date:      mustDate(dto.Date),
		Slot:      dto.Slot,
		MemberIDs: dto.MemberIDs,
	}, orchestrators.RecordAttendanceDeps{
		Tx:          a.tx,
		LessonStore: a.stores.LessonStore,
		Now:         a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
