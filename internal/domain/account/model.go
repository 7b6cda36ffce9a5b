package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MaxEmailLength bounds stored addresses.
const MaxEmailLength = 254

// Role constants
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// Lockout policy
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
	MinPasswordLen  = 12
)

// Domain errors
var (
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: admin, guest")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Account is a principal that can sign in to the admin backend.
// Google-federated principals have no password hash.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	FailedLogins int       `json:"failedLogins"`
	LockedUntil  time.Time `json:"lockedUntil"`
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if a.Role != RoleAdmin && a.Role != RoleGuest {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is at least MinPasswordLen characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether the account is locked out at now.
func (a *Account) IsLocked(now time.Time) bool {
	return !a.LockedUntil.IsZero() && now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failure counter and locks after MaxFailedLogins.
// POST: LockedUntil set to now+LockoutDuration once the threshold is reached
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failure counter and lock.
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// NormalizeEmail lower-cases and trims an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AllowList is the fixed set of addresses granted admin access.
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList builds an allow-list; blank entries are ignored.
func NewAllowList(emails []string) AllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := NormalizeEmail(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return AllowList{emails: set}
}

// Permits reports whether email is on the list, ignoring case and whitespace.
func (l AllowList) Permits(email string) bool {
	_, ok := l.emails[NormalizeEmail(email)]
	return ok
}

// RoleFor returns RoleAdmin for allow-listed addresses, RoleGuest otherwise.
func (l AllowList) RoleFor(email string) string {
	if l.Permits(email) {
		return RoleAdmin
	}
	return RoleGuest
}

// Emails returns the normalised addresses in no particular order.
func (l AllowList) Emails() []string {
	out := make([]string, 0, len(l.emails))
	for e := range l.emails {
		out = append(out, e)
	}
	return out
}
