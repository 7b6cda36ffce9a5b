package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/domain/caldate"
)

// Source constants
const (
	SourceManual = "manual"
	SourceAuto   = "auto"
)

// MaxNotesLength bounds free-text notes.
const MaxNotesLength = 500

// Domain errors
var (
	ErrMemberRequired = errors.New("member is required")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrDateRequired   = errors.New("payment date is required")
)

// Payment is money received from a member.
// Date is the nominal calendar day of the payment; RecordedAt is when it was entered.
type Payment struct {
	ID           string          `json:"id"`
	MemberID     string          `json:"memberId"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	RecordedAt   time.Time       `json:"recordedAt"`
	Notes        string          `json:"notes,omitempty"`
	Source       string          `json:"source"`
	AssignmentID string          `json:"assignmentId,omitempty"`
}

// New builds a manual payment.
// PRE: amount > 0, date is a calendar day
// POST: Date is UTC midnight; RecordedAt is now at second precision
func New(memberID string, amount decimal.Decimal, date time.Time, notes string, now time.Time) (Payment, error) {
	p := Payment{
		MemberID:   memberID,
		Amount:     amount,
		Notes:      strings.TrimSpace(notes),
		Source:     SourceManual,
		RecordedAt: caldate.Stamp(now),
	}
	if !date.IsZero() {
		p.Date = caldate.Midnight(date)
	}
	if err := p.Validate(); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// NewAuto builds the payment billed when a priced package is assigned.
// PRE: amount > 0
// POST: Source is SourceAuto and AssignmentID links back to the assignment
func NewAuto(memberID, assignmentID string, amount decimal.Decimal, date time.Time, now time.Time) (Payment, error) {
	p, err := New(memberID, amount, date, "", now)
	if err != nil {
		return Payment{}, err
	}
	p.Source = SourceAuto
	p.AssignmentID = assignmentID
	return p, nil
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Payment) Validate() error {
	if p.MemberID == "" {
		return ErrMemberRequired
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return ErrDateRequired
	}
	if len(p.Notes) > MaxNotesLength {
		return errors.New("notes cannot exceed 500 characters")
	}
	return nil
}

// IsAuto reports whether the payment was generated by a package assignment.
func (p *Payment) IsAuto() bool {
	return p.Source == SourceAuto
}

// Total sums the amounts of payments.
func Total(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
