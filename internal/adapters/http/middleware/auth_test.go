package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	domainAccount "studio/internal/domain/account"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)}
}

// TestSessionStore_IdleTimeout verifies activity extends the session and idleness ends it.
func TestSessionStore_IdleTimeout(t *testing.T) {
	c := newClock()
	ss := NewSessionStore(4 * time.Hour)
	ss.SetClock(c.now)

	token, err := ss.Create("acc-1", "owner@studio.test", domainAccount.RoleAdmin, "password")
	if err != nil {
		t.Fatal(err)
	}

	c.advance(3 * time.Hour)
	if _, ok := ss.Touch(token); !ok {
		t.Fatal("session expired after 3h of a 4h idle window")
	}
	c.advance(3 * time.Hour)
	if _, ok := ss.Touch(token); !ok {
		t.Fatal("activity did not extend the session")
	}
	c.advance(4*time.Hour + time.Second)
	if _, ok := ss.Touch(token); ok {
		t.Error("session still valid after idle timeout")
	}
	if ss.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ss.Len())
	}
}

// TestSessionStore_Sweep verifies only idle sessions are removed.
func TestSessionStore_Sweep(t *testing.T) {
	c := newClock()
	ss := NewSessionStore(time.Hour)
	ss.SetClock(c.now)

	idle, _ := ss.Create("a", "a@studio.test", domainAccount.RoleAdmin, "password")
	c.advance(50 * time.Minute)
	active, _ := ss.Create("b", "b@studio.test", domainAccount.RoleAdmin, "google")
	c.advance(20 * time.Minute)

	if n := ss.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if _, ok := ss.Touch(idle); ok {
		t.Error("idle session survived sweep")
	}
	if _, ok := ss.Touch(active); !ok {
		t.Error("active session removed by sweep")
	}
}

// TestSessionStore_SweeperStartStop verifies the sweep task stops cleanly.
func TestSessionStore_SweeperStartStop(t *testing.T) {
	ss := NewSessionStore(time.Millisecond)
	_, _ = ss.Create("a", "a@studio.test", domainAccount.RoleAdmin, "password")

	ss.StartSweeper(time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for ss.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	ss.StopSweeper()
	ss.StopSweeper()

	if ss.Len() != 0 {
		t.Errorf("Len() = %d after sweeping, want 0", ss.Len())
	}
	NewSessionStore(0).StopSweeper()
}

// TestRequireAdmin verifies 401 for anonymous and 403 for non-admin principals.
func TestRequireAdmin(t *testing.T) {
	ss := NewSessionStore(time.Hour)
	adminToken, _ := ss.Create("a", "owner@studio.test", domainAccount.RoleAdmin, "password")
	guestToken, _ := ss.Create("g", "guest@gmail.com", domainAccount.RoleGuest, "google")

	h := Auth(ss)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSessionFromContext(r.Context())
		_, _ = w.Write([]byte(s.Email))
	})))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"unknown token", "deadbeef", http.StatusUnauthorized},
		{"guest", guestToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
