// Package web serves the studio admin JSON API.
package web

import (
	"net/http"
	"time"

	"studio/internal/adapters/http/middleware"
	"studio/internal/adapters/http/perf"
	"studio/internal/adapters/identity"
	"studio/internal/adapters/metrics"
	accountStore "studio/internal/adapters/storage/account"
	assignmentStore "studio/internal/adapters/storage/assignment"
	branchStore "studio/internal/adapters/storage/branch"
	catalogStore "studio/internal/adapters/storage/catalog"
	lessonStore "studio/internal/adapters/storage/lesson"
	memberStore "studio/internal/adapters/storage/member"
	outboxStore "studio/internal/adapters/storage/outbox"
	paymentStore "studio/internal/adapters/storage/payment"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	MemberStore     memberStore.Store
	PackageStore    catalogStore.Store
	AssignmentStore assignmentStore.Store
	PaymentStore    paymentStore.Store
	LessonStore     lessonStore.Store
	BranchStore     branchStore.Store
	OutboxStore     outboxStore.Store
}

// Config carries the HTTP-facing settings.
type Config struct {
	Secure          bool // HTTPS deployment: secure cookies, strict CSRF referer checks
	CSRFKey         []byte
	TrustedOrigins  []string
	RateLimit       int // requests per second per client IP
	SlowRequestMs   int
	MetricsPath     string
	AllowList       account.AllowList
	ReceiptsEnabled bool
}

// Deps holds runtime collaborators of the HTTP layer.
type Deps struct {
	Stores    *Stores
	Tx        orchestrators.Transactor
	Sessions  *middleware.SessionStore
	Collector *perf.Collector                // optional
	Google    *identity.Google               // optional
	Outbox    *orchestrators.OutboxProcessor // optional: enables manual retry
	Limiter   *middleware.RateLimiter        // optional: built from Config.RateLimit
	Now       func() time.Time
}

// app binds handlers to their dependencies.
type app struct {
	cfg       Config
	stores    *Stores
	tx        orchestrators.Transactor
	sessions  *middleware.SessionStore
	collector *perf.Collector
	google    *identity.Google
	processor *orchestrators.OutboxProcessor
	now       func() time.Time
}

// DefaultRateLimit is used when Config.RateLimit is unset.
const DefaultRateLimit = 10

// NewMux wires HTTP handlers for the app.
// Middleware order, outermost first: Timing, RateLimit, SecurityHeaders, Auth, CSRF.
func NewMux(cfg Config, deps Deps) http.Handler {
	a := &app{
		cfg:       cfg,
		stores:    deps.Stores,
		tx:        deps.Tx,
		sessions:  deps.Sessions,
		collector: deps.Collector,
		google:    deps.Google,
		processor: deps.Outbox,
		now:       deps.Now,
	}
	if a.now == nil {
		a.now = time.Now
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	mux.Handle("GET "+metricsPath, metrics.Handler())

	limiter := deps.Limiter
	if limiter == nil {
		rate := cfg.RateLimit
		if rate <= 0 {
			rate = DefaultRateLimit
		}
		limiter = middleware.NewRateLimiter(rate, time.Second)
	}

	return middleware.Chain(middleware.CaptureRoute(mux),
		middleware.CSRF(middleware.CSRFConfig{Key: cfg.CSRFKey, Secure: cfg.Secure, TrustedOrigins: cfg.TrustedOrigins}),
		middleware.Auth(a.sessions),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(a.collector, cfg.SlowRequestMs),
	)
}

// receiptOutbox returns the outbox writer for payment receipts, or nil when disabled.
func (a *app) receiptOutbox() orchestrators.OutboxWriter {
	if !a.cfg.ReceiptsEnabled || a.stores.OutboxStore == nil {
		return nil
	}
	return a.stores.OutboxStore
}
