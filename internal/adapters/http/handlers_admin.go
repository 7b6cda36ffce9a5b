package web

import (
	"net/http"
	"strconv"
	"time"

	"studio/internal/adapters/http/perf"
	"studio/internal/domain/outbox"
)

const (
	defaultPerfWindow = time.Hour
	perfTopN          = 10
	outboxListLimit   = 50
)

// handlePerf serves GET /api/admin/perf?minutes=N.
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	if a.collector == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	window := defaultPerfWindow
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		window = time.Duration(m) * time.Minute
	}
	writeJSON(w, http.StatusOK, a.collector.Snapshot(a.now().Add(-window), perfTopN))
}

// handleListOutbox serves GET /api/admin/outbox?status=. The default lists
// entries still waiting to be delivered.
func (a *app) handleListOutbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		entries []outbox.Entry
		err     error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "", "pending":
		entries, err = a.stores.OutboxStore.ListPending(ctx, outboxListLimit)
	case outbox.StatusRetrying, outbox.StatusDone, outbox.StatusFailed, outbox.StatusAbandoned:
		entries, err = a.stores.OutboxStore.ListByStatus(ctx, status, outboxListLimit)
	default:
		badRequest(w, "unknown status", map[string]string{"status": "oneof=pending retrying done failed abandoned"})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleRetryOutbox attempts one entry immediately, ignoring its backoff.
func (a *app) handleRetryOutbox(w http.ResponseWriter, r *http.Request) {
	if a.processor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "outbox processing is disabled"})
		return
	}
	id := r.PathValue("id")
	if err := a.processor.ProcessSingle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	entry, err := a.stores.OutboxStore.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
