package web

import (
	"net/http"
	"strconv"

	"studio/internal/adapters/http/middleware"
	"studio/internal/application/listutil"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/domain/caldate"
)

// handleListMembers serves GET /api/members?q=&sort=&dir=&page=&perPage=
func (a *app) handleListMembers(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.MemberSortColumns, projections.MemberSortName)
	res, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		ListParams: params,
		Today:      a.now(),
	}, projections.GetMemberListDeps{MemberStore: a.stores.MemberStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *app) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var dto memberDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	m, err := orchestrators.ExecuteRegisterMember(r.Context(), dto.input(), orchestrators.RegisterMemberDeps{
		MemberStore: a.stores.MemberStore,
		Now:         a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (a *app) handleGetMember(w http.ResponseWriter, r *http.Request) {
	res, err := a.memberDetail(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *app) memberDetail(r *http.Request) (projections.GetMemberDetailResult, error) {
	return projections.QueryGetMemberDetail(r.Context(), projections.GetMemberDetailQuery{
		MemberID: r.PathValue("id"),
		Today:    a.now(),
	}, projections.GetMemberDetailDeps{
		MemberStore:     a.stores.MemberStore,
		AssignmentStore: a.stores.AssignmentStore,
		PaymentStore:    a.stores.PaymentStore,
		LessonStore:     a.stores.LessonStore,
	})
}

func (a *app) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var dto memberDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	m, err := orchestrators.ExecuteUpdateMember(r.Context(), r.PathValue("id"), dto.input(), orchestrators.UpdateMemberDeps{
		MemberStore: a.stores.MemberStore,
		Now:         a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMember removes the member together with its assignments and payments.
func (a *app) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMember(r.Context(), r.PathValue("id"), orchestrators.DeleteMemberDeps{
		Tx:              a.tx,
		MemberStore:     a.stores.MemberStore,
		AssignmentStore: a.stores.AssignmentStore,
		PaymentStore:    a.stores.PaymentStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberLessons serves GET /api/members/{id}/lessons, optionally bounded by start and end.
func (a *app) handleMemberLessons(w http.ResponseWriter, r *http.Request) {
	q := projections.GetMemberLessonsQuery{MemberID: r.PathValue("id")}
	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
		rng, err := parseRange(r)
		if err != nil {
			badRequest(w, err.Error(), nil)
			return
		}
		q.Range = &rng
	}
	res, err := projections.QueryGetMemberLessons(r.Context(), q, projections.GetMemberLessonsDeps{
		MemberStore: a.stores.MemberStore,
		LessonStore: a.stores.LessonStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseRange reads ?month=YYYY-MM or an inclusive ?start=&end= pair.
func parseRange(r *http.Request) (caldate.Range, error) {
	q := r.URL.Query()
	if month := q.Get("month"); month != "" {
		return caldate.ParseMonth(month)
	}
	start, err := caldate.Parse(q.Get("start"))
	if err != nil {
		return caldate.Range{}, err
	}
	end, err := caldate.Parse(q.Get("end"))
	if err != nil {
		return caldate.Range{}, err
	}
	return caldate.Inclusive(start, end)
}

const maxImportBytes = 5 << 20

// handleImportMembers serves POST /api/members/import with a CSV body.
// ?dryRun=true validates without writing; ?update=true overwrites matched members.
func (a *app) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dryRun, _ := strconv.ParseBool(q.Get("dryRun"))
	update, _ := strconv.ParseBool(q.Get("update"))
	var actor string
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		actor = sess.Email
	}

	res, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:     http.MaxBytesReader(w, r.Body, maxImportBytes),
		ActorEmail: actor,
		DryRun:     dryRun,
		UpdateMode: update,
	}, orchestrators.ImportMembersDeps{
		Tx:          a.tx,
		MemberStore: a.stores.MemberStore,
		Now:         a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
