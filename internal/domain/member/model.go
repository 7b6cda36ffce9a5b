package member

import (
	"errors"
	"strings"
	"time"

	"studio/internal/domain/display"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 2000
)

// AdultAge is the age in whole years at which guardian details stop being required.
const AdultAge = 18

// Domain errors
var (
	ErrNameRequired       = errors.New("member name cannot be empty")
	ErrSurnameRequired    = errors.New("member surname cannot be empty")
	ErrInvalidEmail       = errors.New("member email must be valid")
	ErrBirthDateInFuture  = errors.New("birth date cannot be in the future")
	ErrMinorNeedsGuardian = errors.New("parent name and parent phone are required for members under 18")
)

// Member is a person registered at the studio.
type Member struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	ParentName  string     `json:"parentName,omitempty"`
	ParentPhone string     `json:"parentPhone,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AgeOn returns the age in whole years on the given day.
// The year difference is decremented when today's month/day precedes the birthday.
// INVARIANT: Only calendar fields are compared; time of day is ignored
func AgeOn(birth, today time.Time) int {
	b := birth.UTC()
	t := today.UTC()
	age := t.Year() - b.Year()
	if t.Month() < b.Month() || (t.Month() == b.Month() && t.Day() < b.Day()) {
		age--
	}
	return age
}

// IsMinorOn reports whether a person born on birth is under AdultAge on today.
func IsMinorOn(birth, today time.Time) bool {
	return AgeOn(birth, today) < AdultAge
}

// IsMinor reports whether the member is a minor on today.
// Members without a birth date are treated as adults.
func (m *Member) IsMinor(today time.Time) bool {
	if m.BirthDate == nil {
		return false
	}
	return IsMinorOn(*m.BirthDate, today)
}

// FullName joins name and surname.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.Name + " " + m.Surname)
}

// Normalize trims text fields and clears guardian details for adults.
// PRE: today is the evaluation day
// POST: ParentName and ParentPhone are empty unless the member is a minor
func (m *Member) Normalize(today time.Time) {
	m.Name = strings.TrimSpace(m.Name)
	m.Surname = strings.TrimSpace(m.Surname)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.ParentName = strings.TrimSpace(m.ParentName)
	m.ParentPhone = strings.TrimSpace(m.ParentPhone)
	if !m.IsMinor(today) {
		m.ParentName = ""
		m.ParentPhone = ""
	}
}

// Validate checks if the Member has valid data as of today.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: A minor always has a parent name and parent phone
func (m *Member) Validate(today time.Time) error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if len(m.Name) > MaxNameLength || len(m.Surname) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if strings.TrimSpace(m.Surname) == "" {
		return ErrSurnameRequired
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if len(m.Notes) > MaxNotesLength {
		return errors.New("notes cannot exceed 2000 characters")
	}
	if m.BirthDate != nil && m.BirthDate.After(today) {
		return ErrBirthDateInFuture
	}
	if m.IsMinor(today) && (strings.TrimSpace(m.ParentName) == "" || strings.TrimSpace(m.ParentPhone) == "") {
		return ErrMinorNeedsGuardian
	}
	return nil
}

// Matches reports whether a free-text search hits the member.
// Name, surname and email match case-insensitively; phone matches on digits.
func (m *Member) Matches(search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Surname), q) ||
		strings.Contains(strings.ToLower(m.FullName()), q) ||
		strings.Contains(strings.ToLower(m.Email), q) {
		return true
	}
	if digits := display.Digits(q); digits != "" && m.Phone != "" {
		return strings.Contains(display.Digits(m.Phone), digits)
	}
	return false
}
