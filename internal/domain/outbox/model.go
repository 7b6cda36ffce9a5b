package outbox

import (
	"errors"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ActionTypeReceiptEmail sends a payment receipt to the member.
const ActionTypeReceiptEmail = "receipt_email"

// DefaultMaxAttempts applies when an entry does not set its own limit.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
)

// Entry is a side effect written in the same transaction as the business
// change that caused it, delivered later by the outbox worker.
type Entry struct {
	ID              string    `json:"id"`
	ActionType      string    `json:"actionType"`
	Payload         string    `json:"payload"`
	Status          string    `json:"status"`
	Attempts        int       `json:"attempts"`
	MaxAttempts     int       `json:"maxAttempts"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	ExternalID      string    `json:"externalId,omitempty"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
}

// ReceiptPayload is the JSON payload of a receipt email entry.
type ReceiptPayload struct {
	PaymentID string `json:"paymentId"`
	MemberID  string `json:"memberId"`
	To        string `json:"to"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Package   string `json:"package,omitempty"`
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid; MaxAttempts defaulted when unset
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether the entry is still eligible for delivery.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying) && e.Attempts < e.MaxAttempts
}

// IsTerminal returns true if the entry has reached a terminal state.
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusDone || e.Status == StatusAbandoned || e.Status == StatusFailed
}

// MarkAttempt records a delivery attempt.
// POST: Attempts incremented, LastAttemptedAt = now, status retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess marks the entry as delivered.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records an error; the entry fails permanently once attempts run out.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops further delivery attempts.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// NextRetryDelay calculates exponential backoff: 2^attempts * baseDelay, capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

// DueAt reports whether enough backoff has elapsed to attempt again at now.
func (e *Entry) DueAt(now time.Time, baseDelay, maxDelay time.Duration) bool {
	if e.LastAttemptedAt.IsZero() {
		return true
	}
	return !now.Before(e.LastAttemptedAt.Add(e.NextRetryDelay(baseDelay, maxDelay)))
}
