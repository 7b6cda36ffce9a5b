package web

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"studio/internal/adapters/http/middleware"
	"studio/internal/adapters/metrics"
	"studio/internal/application/orchestrators"
)

const (
	googleStateCookie = "studio_oauth_state"
	googleStateTTL    = 10 * time.Minute
)

// sessionView is the public shape of the current session.
type sessionView struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Method    string `json:"method"`
}

func (a *app) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		AccountStore: a.stores.AccountStore,
		AllowList:    a.cfg.AllowList,
		Now:          a.now,
	}
}

// handleLogin accepts a JSON body or a CSRF-protected form post.
func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	var dto loginDTO
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		if !decodeDTO(w, r, &dto) {
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid form", nil)
			return
		}
		dto = loginDTO{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
		if fields, ok := dto.Ok(); !ok {
			badRequest(w, "invalid request", fields)
			return
		}
	}

	res, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Email: dto.Email, Password: dto.Password}, a.loginDeps())
	if err != nil {
		a.loginFailed(w, "password", err)
		return
	}
	if !a.startSession(w, res, "password") {
		return
	}
	metrics.LoginAttempt("password", "success")
	writeJSON(w, http.StatusOK, sessionView{AccountID: res.AccountID, Email: res.Email, Role: res.Role, Method: "password"})
}

// loginFailed maps login errors to statuses without revealing which check failed
// beyond lockout and allow-list refusal.
func (a *app) loginFailed(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		metrics.LoginAttempt(method, "invalid")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, orchestrators.ErrAccountLocked):
		metrics.LoginAttempt(method, "locked")
		writeJSON(w, http.StatusLocked, errorBody{Error: err.Error()})
	case errors.Is(err, orchestrators.ErrNotAllowed):
		metrics.LoginAttempt(method, "denied")
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	default:
		metrics.LoginAttempt(method, "error")
		internalError(w, err)
	}
}

func (a *app) startSession(w http.ResponseWriter, res orchestrators.LoginResult, method string) bool {
	token, err := a.sessions.Create(res.AccountID, res.Email, res.Role, method)
	if err != nil {
		internalError(w, err)
		return false
	}
	middleware.SetSessionCookie(w, token, a.cfg.Secure)
	slog.Info("auth_event", "event", "login", "account_id", res.AccountID, "method", method)
	return true
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		a.sessions.Delete(c.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "account_id", sess.AccountID)
	}
	middleware.ClearSessionCookie(w, a.cfg.Secure)
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, sessionView{AccountID: sess.AccountID, Email: sess.Email, Role: sess.Role, Method: sess.Method})
}

// handleCSRF exposes the token a form client must echo on POST /login.
func (a *app) handleCSRF(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": middleware.CSRFToken(r)})
}

func (a *app) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if a.google == nil || !a.google.Enabled() {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "google sign-in is not configured"})
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     googleStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(googleStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.google.AuthCodeURL(state), http.StatusFound)
}

func (a *app) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if a.google == nil || !a.google.Enabled() {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "google sign-in is not configured"})
		return
	}
	c, err := r.Cookie(googleStateCookie)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		metrics.LoginAttempt("google", "invalid")
		badRequest(w, "invalid oauth state", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: googleStateCookie, Path: "/auth/google", MaxAge: -1, HttpOnly: true, Secure: a.cfg.Secure})

	code := r.URL.Query().Get("code")
	if code == "" {
		metrics.LoginAttempt("google", "invalid")
		badRequest(w, "missing authorization code", nil)
		return
	}
	profile, err := a.google.Exchange(r.Context(), code)
	if err != nil {
		slog.Warn("auth_event", "event", "google_exchange_failed", "error", err)
		metrics.LoginAttempt("google", "invalid")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "google sign-in failed"})
		return
	}

	res, err := orchestrators.ExecuteGoogleLogin(r.Context(), orchestrators.GoogleLoginInput{Email: profile.Email}, a.loginDeps())
	if err != nil {
		a.loginFailed(w, "google", err)
		return
	}
	if !a.startSession(w, res, "google") {
		return
	}
	metrics.LoginAttempt("google", "success")
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleChangePassword sets a local password for the signed-in account.
func (a *app) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "not authenticated"})
		return
	}
	var dto passwordDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: dto.CurrentPassword,
		NewPassword:     dto.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: a.stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
