package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"studio/internal/adapters/http/perf"
	"studio/internal/adapters/metrics"
)

// DefaultSlowRequestMs is the slow-request threshold used when none is configured.
const DefaultSlowRequestMs = 200

// unmatchedRoute labels requests no route pattern claimed, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

var requestIDCounter atomic.Uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader records code and delegates.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

type routeKey struct{}

// routeHolder receives the matched pattern from deeper in the chain, where
// the request may be a copy made by r.WithContext.
type routeHolder struct {
	pattern string
}

// CaptureRoute reports the pattern the wrapped mux matched back to Timing.
// PRE: next is (or ends in) an http.ServeMux
func CaptureRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if h, ok := r.Context().Value(routeKey{}).(*routeHolder); ok && r.Pattern != "" {
			h.pattern = r.Pattern
		}
	})
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// Timing returns middleware that logs request duration, records it in the
// perf collector and observes the request latency histogram.
// Requests are labelled by the matched route pattern, not the raw path.
// Requests at or above slowMs log at WARN, the rest at DEBUG.
// PRE: slowMs <= 0 selects DefaultSlowRequestMs; collector may be nil
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestIDCounter.Add(1)
			holder := &routeHolder{}
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, holder))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				route := holder.pattern
				if route == "" {
					route = r.Pattern
				}
				if route == "" {
					route = unmatchedRoute
				}

				attrs := []any{
					"request_id", reqID,
					"method", r.Method,
					"path", r.URL.Path,
					"route", route,
					"status", sw.status,
					"duration_ms", durationMs,
				}
				if durationMs >= threshold {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}

				metrics.ObserveRequest(route, strconv.Itoa(sw.status), durationMs/1000)
				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Label:      route,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
