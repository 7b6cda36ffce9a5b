package web

import (
	"net/http"

	"studio/internal/adapters/http/middleware"
)

// registerRoutes mounts the public auth endpoints and the admin-only API.
func (a *app) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.HandleFunc("GET /csrf", a.handleCSRF)
	mux.HandleFunc("GET /me", a.handleMe)
	mux.HandleFunc("GET /auth/google/start", a.handleGoogleStart)
	mux.HandleFunc("GET /auth/google/callback", a.handleGoogleCallback)

	api := http.NewServeMux()

	// Members
	api.HandleFunc("GET /api/members", a.handleListMembers)
	api.HandleFunc("POST /api/members", a.handleCreateMember)
	api.HandleFunc("GET /api/members/{id}", a.handleGetMember)
	api.HandleFunc("PUT /api/members/{id}", a.handleUpdateMember)
	api.HandleFunc("DELETE /api/members/{id}", a.handleDeleteMember)
	api.HandleFunc("GET /api/members/{id}/lessons", a.handleMemberLessons)
	api.HandleFunc("POST /api/members/import", a.handleImportMembers)

	// Assignments and payments
	api.HandleFunc("POST /api/members/{id}/packages", a.handleAssignPackage)
	api.HandleFunc("DELETE /api/members/{id}/packages/{aid}", a.handleDeleteAssignment)
	api.HandleFunc("GET /api/members/{id}/payments", a.handleListPayments)
	api.HandleFunc("POST /api/members/{id}/payments", a.handleRecordPayment)
	api.HandleFunc("DELETE /api/members/{id}/payments/{pid}", a.handleDeletePayment)

	// Catalog
	api.HandleFunc("GET /api/packages", a.handleListPackages)
	api.HandleFunc("POST /api/packages", a.handleCreatePackage)
	api.HandleFunc("PUT /api/packages/{id}", a.handleUpdatePackage)
	api.HandleFunc("DELETE /api/packages/{id}", a.handleDeletePackage)
	api.HandleFunc("GET /api/branches", a.handleListBranches)
	api.HandleFunc("POST /api/branches", a.handleCreateBranch)
	api.HandleFunc("PUT /api/branches/{id}", a.handleUpdateBranch)
	api.HandleFunc("DELETE /api/branches/{id}", a.handleDeleteBranch)

	// Lessons and reports
	api.HandleFunc("GET /api/lessons", a.handleGetLesson)
	api.HandleFunc("PUT /api/lessons", a.handleRecordAttendance)
	api.HandleFunc("GET /api/reports/attendance", a.handleAttendanceReport)
	api.HandleFunc("GET /api/reports/attendance.xlsx", a.handleAttendanceExport)
	api.HandleFunc("GET /api/reports/attendance/{memberId}", a.handleMemberAttendance)

	// Admin
	api.HandleFunc("PUT /api/account/password", a.handleChangePassword)
	api.HandleFunc("GET /api/admin/perf", a.handlePerf)
	api.HandleFunc("GET /api/admin/outbox", a.handleListOutbox)
	api.HandleFunc("POST /api/admin/outbox/{id}/retry", a.handleRetryOutbox)

	mux.Handle("/api/", middleware.RequireAdmin(api))
}
