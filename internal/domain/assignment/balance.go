package assignment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the read-time accounting view of one assignment.
type Balance struct {
	AttendedLessons  int             `json:"attendedLessons"`
	RemainingLessons int             `json:"calculatedRemainingLessons"`
	Outstanding      decimal.Decimal `json:"outstandingBalance"`
}

// OutstandingDue is the outstanding balance rounded half-up to whole currency units.
func (b Balance) OutstandingDue() decimal.Decimal {
	return b.Outstanding.Round(0)
}

// ComputeBalance derives attended, remaining and outstanding figures from the
// assignment and the dates of every lesson the member attended.
// Attendance on or after the start date counts; the end date is not an upper bound.
// PRE: attended holds one entry per lesson record containing the member
// POST: RemainingLessons >= 0; Outstanding is zero unless price and total lessons are known
// INVARIANT: Pure function of its arguments
func ComputeBalance(a Assignment, attended []time.Time) Balance {
	var b Balance
	for _, at := range attended {
		if !at.Before(a.StartDate) {
			b.AttendedLessons++
		}
	}

	switch {
	case a.TotalLessonCount != nil:
		b.RemainingLessons = max(0, *a.TotalLessonCount-b.AttendedLessons)
	case a.LessonsRemaining != nil:
		b.RemainingLessons = max(0, *a.LessonsRemaining)
	}

	b.Outstanding = decimal.Zero
	if a.PackagePrice.Valid && a.TotalLessonCount != nil && *a.TotalLessonCount > 0 {
		total := decimal.NewFromInt(int64(*a.TotalLessonCount))
		remaining := decimal.NewFromInt(int64(b.RemainingLessons))
		b.Outstanding = a.PackagePrice.Decimal.Mul(remaining).Div(total)
	}
	return b
}
