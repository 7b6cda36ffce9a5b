package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio/internal/adapters/http/perf"
)

func routedHandler(pattern string, h http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(pattern, h)
	return mux
}

// TestTiming_LabelsByRoutePattern verifies ids in the path do not leak into labels.
func TestTiming_LabelsByRoutePattern(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(routedHandler("GET /api/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, id := range []string{"a", "b", "c"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/members/"+id, nil))
	}

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("routes = %+v, want one pattern", snap.SlowestRoutes)
	}
	if got := snap.SlowestRoutes[0]; got.Label != "GET /api/members/{id}" || got.Count != 3 {
		t.Errorf("route = %+v", got)
	}
}

// TestTiming_CaptureRouteThroughCopies verifies the pattern survives a
// middleware that replaces the request with r.WithContext.
func TestTiming_CaptureRouteThroughCopies(t *testing.T) {
	collector := perf.NewCollector(10)
	copier := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(r.Context()))
		})
	}
	mux := routedHandler("DELETE /api/packages/{id}", func(http.ResponseWriter, *http.Request) {})
	handler := Timing(collector, 0)(copier(CaptureRoute(mux)))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/packages/p1", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Label != "DELETE /api/packages/{id}" {
		t.Errorf("routes = %+v", snap.SlowestRoutes)
	}
}

// TestTiming_UnmatchedRoute verifies 404s from the mux share one label.
func TestTiming_UnmatchedRoute(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(routedHandler("GET /api/members", func(http.ResponseWriter, *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Label != unmatchedRoute {
		t.Errorf("routes = %+v, want %q", snap.SlowestRoutes, unmatchedRoute)
	}
}

// TestTiming_NilCollector verifies middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rr.Code)
	}
}

// TestTiming_HandlerPanic verifies the deferred recording runs when the handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

// TestTiming_PoolNoStateLeak verifies a pooled writer does not carry a status across requests.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(10)
	fail := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ok := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	fail.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 || snap.Requests != 2 {
		t.Errorf("snapshot = %+v, want one 500 out of two", snap)
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/bench", nil)

	b.ReportAllocs()
	for b.Loop() {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
