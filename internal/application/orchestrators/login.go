package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studio/internal/adapters/metrics"
	"studio/internal/adapters/storage"
	"studio/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by the login use cases.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the password login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login and GoogleLogin.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	AllowList    account.AllowList
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrNotAllowed         = errors.New("this account is not authorised for the admin panel")
)

// ExecuteLogin validates a password and returns account info for session creation.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: Only allow-listed addresses can sign in; locked accounts are refused
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := account.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := nowOr(deps.Now)

	if !deps.AllowList.Permits(email) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_allowed")
		metrics.LoginAttempt("password", "rejected")
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		metrics.LoginAttempt("password", "rejected")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		metrics.LoginAttempt("password", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "failed_login_not_recorded", "email", email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		metrics.LoginAttempt("password", "rejected")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return LoginResult{}, fmt.Errorf("reset failed logins: %w", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "method", "password")
	metrics.LoginAttempt("password", "success")
	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: deps.AllowList.RoleFor(email)}, nil
}

// GoogleLoginInput carries the identity asserted by Google.
type GoogleLoginInput struct {
	Email string
}

// ExecuteGoogleLogin admits a federated principal whose verified email is allow-listed,
// creating its account on first sign-in.
// PRE: Email was verified by the identity provider
// POST: Returns ErrNotAllowed for addresses outside the allow-list
func ExecuteGoogleLogin(ctx context.Context, input GoogleLoginInput, deps LoginDeps) (LoginResult, error) {
	email := account.NormalizeEmail(input.Email)
	if !deps.AllowList.Permits(email) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_allowed", "method", "google")
		metrics.LoginAttempt("google", "rejected")
		return LoginResult{}, ErrNotAllowed
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		acct = account.Account{
			ID:        generateID(),
			Email:     email,
			Role:      account.RoleAdmin,
			CreatedAt: nowOr(deps.Now),
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return LoginResult{}, fmt.Errorf("create account: %w", err)
		}
		slog.Info("auth_event", "event", "account_created", "email", email, "method", "google")
	} else if err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "method", "google")
	metrics.LoginAttempt("google", "success")
	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: account.RoleAdmin}, nil
}

// SeedAdminsDeps holds dependencies for SeedAdmins.
type SeedAdminsDeps struct {
	AccountStore AccountStoreForLogin
	Now          func() time.Time
}

// ExecuteSeedAdmins ensures every allow-listed address has an account.
// When password is set, accounts without a password get it.
// POST: Idempotent; existing passwords are never replaced
func ExecuteSeedAdmins(ctx context.Context, allow account.AllowList, password string, deps SeedAdminsDeps) error {
	for _, email := range allow.Emails() {
		acct, err := deps.AccountStore.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			acct = account.Account{ID: generateID(), Email: email, Role: account.RoleAdmin, CreatedAt: nowOr(deps.Now)}
		case err != nil:
			return fmt.Errorf("load account %s: %w", email, err)
		case password == "" || acct.PasswordHash != "":
			continue
		}
		if password != "" {
			if err := acct.SetPassword(password); err != nil {
				return fmt.Errorf("seed password for %s: %w", email, err)
			}
		}
		if err := acct.Validate(); err != nil {
			return err
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("save account %s: %w", email, err)
		}
		slog.Info("auth_event", "event", "admin_seeded", "email", email, "password_set", password != "")
	}
	return nil
}
