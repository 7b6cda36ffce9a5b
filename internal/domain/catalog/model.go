package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxNameLength bounds the package name.
const MaxNameLength = 100

// Domain errors
var (
	ErrNameRequired         = errors.New("package name cannot be empty")
	ErrNegativePrice        = errors.New("package price cannot be negative")
	ErrNegativeLessonCount  = errors.New("lesson count cannot be negative")
	ErrNegativeDurationDays = errors.New("duration days cannot be negative")
)

// Package is a reusable catalog definition that can be assigned to members.
type Package struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	LessonCount  *int            `json:"lessonCount"`
	DurationDays *int            `json:"durationDays"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

// Validate checks if the Package has valid data.
// PRE: Package struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Price, LessonCount and DurationDays are never negative
func (p *Package) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if len(p.Name) > MaxNameLength {
		return errors.New("package name cannot exceed 100 characters")
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.LessonCount != nil && *p.LessonCount < 0 {
		return ErrNegativeLessonCount
	}
	if p.DurationDays != nil && *p.DurationDays < 0 {
		return ErrNegativeDurationDays
	}
	return nil
}

// IsUnlimited reports whether the package has no lesson allowance.
func (p *Package) IsUnlimited() bool {
	return p.LessonCount == nil || *p.LessonCount == 0
}
