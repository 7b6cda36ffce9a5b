// Package metrics exposes business and worker counters for Prometheus.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var latencyBuckets = []float64{
	0.001, 0.002, 0.005,
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5, 10,
}

type collectors struct {
	assignmentsTotal *prometheus.CounterVec
	paymentsTotal    *prometheus.CounterVec
	paymentAmount    *prometheus.CounterVec
	attendanceSaves  prometheus.Counter
	attendanceMarks  prometheus.Counter
	outboxDispatch   *prometheus.CounterVec
	outboxDead       *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
	logins           *prometheus.CounterVec
}

var collectorsSingleton = sync.OnceValue(func() *collectors {
	return &collectors{
		assignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "assignments_total",
			Help:      "Package assignments created, by whether an automatic payment was recorded.",
		}, []string{"auto_payment"}),
		paymentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "payments_total",
			Help:      "Payments recorded, by source.",
		}, []string{"source"}),
		paymentAmount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "payment_amount_total",
			Help:      "Sum of recorded payment amounts, by source.",
		}, []string{"source"}),
		attendanceSaves: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "attendance_saves_total",
			Help:      "Attendance upserts for a (date, slot).",
		}),
		attendanceMarks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "attendance_marks_total",
			Help:      "Member attendance marks written by attendance upserts.",
		}),
		outboxDispatch: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outbox",
			Name:      "dispatch_total",
			Help:      "Total number of outbox dispatch operations.",
		}, []string{"action", "result"}),
		outboxDead: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outbox",
			Name:      "dead_total",
			Help:      "Outbox entries that exhausted their attempts.",
		}, []string{"action"}),
		requestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for HTTP requests by route pattern.",
			Buckets:   latencyBuckets,
		}, []string{"route", "code"}),
		logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "login_attempts_total",
			Help:      "Login attempts by method and result.",
		}, []string{"method", "result"}),
	}
})

func get() *collectors {
	return collectorsSingleton()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AssignmentCreated counts one package assignment.
func AssignmentCreated(autoPayment bool) {
	label := "false"
	if autoPayment {
		label = "true"
	}
	get().assignmentsTotal.WithLabelValues(label).Inc()
}

// PaymentRecorded counts one payment and adds its amount.
func PaymentRecorded(source string, amount decimal.Decimal) {
	c := get()
	c.paymentsTotal.WithLabelValues(source).Inc()
	c.paymentAmount.WithLabelValues(source).Add(amount.InexactFloat64())
}

// AttendanceSaved counts one attendance upsert covering marks members.
func AttendanceSaved(marks int) {
	c := get()
	c.attendanceSaves.Inc()
	c.attendanceMarks.Add(float64(marks))
}

// OutboxDispatched counts one outbox delivery attempt. result is "success" or "error".
func OutboxDispatched(action, result string) {
	get().outboxDispatch.WithLabelValues(action, result).Inc()
}

// OutboxDead counts an entry that will not be retried again.
func OutboxDead(action string) {
	get().outboxDead.WithLabelValues(action).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func ObserveRequest(route, code string, seconds float64) {
	get().requestLatency.WithLabelValues(route, code).Observe(seconds)
}

// LoginAttempt counts a login by method ("password", "google") and result.
func LoginAttempt(method, result string) {
	get().logins.WithLabelValues(method, result).Inc()
}
