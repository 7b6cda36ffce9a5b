package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	domainAccount "studio/internal/domain/account"
)

// DefaultIdleTimeout ends a session after this long without a request.
const DefaultIdleTimeout = 4 * time.Hour

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "studio_session"

type contextKey string

const sessionContextKey contextKey = "session"

// Session represents an authenticated principal.
type Session struct {
	AccountID    string
	Email        string
	Role         string
	Method       string // "password" or "google"
	CreatedAt    time.Time
	LastActivity time.Time
}

// SessionStore is an in-memory session store with an inactivity timeout.
// Every authenticated request refreshes LastActivity; a sweep removes idle sessions.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	idle     time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSessionStore creates a session store.
// PRE: idle <= 0 selects DefaultIdleTimeout
func NewSessionStore(idle time.Duration) *SessionStore {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		idle:     idle,
		now:      time.Now,
	}
}

// SetClock replaces the store's clock. Intended for tests.
func (ss *SessionStore) SetClock(now func() time.Time) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.now = now
}

// IdleTimeout returns the configured inactivity timeout.
func (ss *SessionStore) IdleTimeout() time.Duration {
	return ss.idle
}

// Create stores a new session and returns its token.
// PRE: accountID, email, role are non-empty
func (ss *SessionStore) Create(accountID, email, role, method string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sessions[token] = Session{
		AccountID:    accountID,
		Email:        email,
		Role:         role,
		Method:       method,
		CreatedAt:    now,
		LastActivity: now,
	}
	return token, nil
}

// Touch returns the session for token and records activity on it.
// POST: an idle session is removed and reported as absent
func (ss *SessionStore) Touch(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	now := ss.now()
	if now.Sub(s.LastActivity) > ss.idle {
		delete(ss.sessions, token)
		slog.Info("auth_event", "event", "session_expired", "email", s.Email)
		return Session{}, false
	}
	s.LastActivity = now
	ss.sessions[token] = s
	return s, true
}

// Delete removes a session.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Len reports the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// Sweep removes every session idle for longer than the timeout.
// POST: returns the number of sessions removed
func (ss *SessionStore) Sweep() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	removed := 0
	for token, s := range ss.sessions {
		if now.Sub(s.LastActivity) > ss.idle {
			delete(ss.sessions, token)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until StopSweeper is called.
// PRE: called at most once; interval > 0
func (ss *SessionStore) StartSweeper(interval time.Duration) {
	ss.stop = make(chan struct{})
	ss.done = make(chan struct{})
	go func() {
		defer close(ss.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ss.stop:
				return
			case <-ticker.C:
				if n := ss.Sweep(); n > 0 {
					slog.Info("auth_event", "event", "sessions_swept", "count", n)
				}
			}
		}
	}()
}

// StopSweeper stops the sweep task and waits for it to exit.
// Safe to call when the sweeper was never started, and more than once.
func (ss *SessionStore) StopSweeper() {
	if ss.stop == nil {
		return
	}
	ss.stopOnce.Do(func() { close(ss.stop) })
	<-ss.done
}

// Auth returns middleware that resolves the session cookie into the request context.
// It does not block anonymous requests; use RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if s, ok := sessions.Touch(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admin principals with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := GetSessionFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if s.Role != domainAccount.RoleAdmin {
			slog.Warn("auth_event", "event", "forbidden", "email", s.Email, "path", r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// ContextWithSession returns a context carrying sess.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie. The cookie lives for the browser
// session; expiry is enforced server-side by the idle timeout.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
