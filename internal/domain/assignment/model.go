package assignment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/domain/caldate"
	"studio/internal/domain/catalog"
)

// Domain errors
var (
	ErrMemberRequired    = errors.New("member is required")
	ErrPackageRequired   = errors.New("package is required")
	ErrStartDateRequired = errors.New("start date is required")
	ErrPackageInactive   = errors.New("package is not active")
)

// Assignment is a catalog package bound to one member.
// Lesson count and price are copied from the catalog when assigned so later
// catalog edits never change an existing assignment.
type Assignment struct {
	ID               string              `json:"id"`
	MemberID         string              `json:"memberId"`
	PackageID        string              `json:"packageId"`
	PackageName      string              `json:"packageName"`
	StartDate        time.Time           `json:"startDate"`
	EndDate          *time.Time          `json:"endDate"`
	AssignedAt       time.Time           `json:"assignedAt"`
	TotalLessonCount *int                `json:"totalLessonCount"`
	PackagePrice     decimal.NullDecimal `json:"packagePrice"`
	LessonsRemaining *int                `json:"lessonsRemaining,omitempty"` // legacy stored balance
	AutoPaymentID    string              `json:"autoPaymentId,omitempty"`
}

// New builds an assignment snapshot of pkg for a member starting on start.
// PRE: pkg was loaded from the catalog
// POST: EndDate is start + DurationDays when DurationDays > 0, nil otherwise;
// TotalLessonCount and PackagePrice are nil/invalid when the catalog value is zero
func New(memberID string, pkg catalog.Package, start, now time.Time) (Assignment, error) {
	if memberID == "" {
		return Assignment{}, ErrMemberRequired
	}
	if pkg.ID == "" {
		return Assignment{}, ErrPackageRequired
	}
	if start.IsZero() {
		return Assignment{}, ErrStartDateRequired
	}
	if !pkg.IsActive {
		return Assignment{}, ErrPackageInactive
	}

	a := Assignment{
		MemberID:    memberID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		StartDate:   caldate.Midnight(start),
		AssignedAt:  caldate.Stamp(now),
	}
	if pkg.DurationDays != nil && *pkg.DurationDays > 0 {
		end := a.StartDate.AddDate(0, 0, *pkg.DurationDays)
		a.EndDate = &end
	}
	if pkg.LessonCount != nil && *pkg.LessonCount > 0 {
		total := *pkg.LessonCount
		a.TotalLessonCount = &total
	}
	if pkg.Price.IsPositive() {
		a.PackagePrice = decimal.NewNullDecimal(pkg.Price)
	}
	return a, nil
}

// NeedsAutoPayment reports whether assigning this package bills the member.
func (a *Assignment) NeedsAutoPayment() bool {
	return a.PackagePrice.Valid && a.PackagePrice.Decimal.IsPositive()
}

// IsExpired reports whether the end date has passed on today.
func (a *Assignment) IsExpired(today time.Time) bool {
	return a.EndDate != nil && caldate.Midnight(today).After(*a.EndDate)
}
