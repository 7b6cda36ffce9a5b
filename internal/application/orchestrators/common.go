package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"studio/internal/domain/display"
	"studio/internal/domain/member"
	"studio/internal/domain/outbox"
	"studio/internal/domain/payment"
)

// ValidationError marks input that was rejected before any write.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Transactor runs fn so that every store write inside it commits or rolls back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

func generateID() string {
	return uuid.New().String()
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

// changes renders the RFC 6902 patch from before to after for the event log.
// Timestamps are ignored; an empty string means nothing changed.
func changes(before, after any) string {
	patch, err := jsondiff.Compare(before, after, jsondiff.Ignores("/updatedAt", "/createdAt"))
	if err != nil || len(patch) == 0 {
		return ""
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return ""
	}
	return string(raw)
}

// OutboxWriter persists outbox entries inside the caller's transaction.
type OutboxWriter interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// enqueueReceipt writes a receipt email entry for p. Members without an email are skipped.
func enqueueReceipt(ctx context.Context, w OutboxWriter, m member.Member, p payment.Payment, packageName string, now time.Time) error {
	if w == nil || m.Email == "" {
		return nil
	}
	payload, err := json.Marshal(outbox.ReceiptPayload{
		PaymentID: p.ID,
		MemberID:  m.ID,
		To:        m.Email,
		Name:      m.FullName(),
		Amount:    display.FormatPrice(p.Amount),
		Date:      display.FormatDateDDMMYY(p.Date),
		Package:   packageName,
	})
	if err != nil {
		return fmt.Errorf("encode receipt payload: %w", err)
	}
	entry := outbox.Entry{
		ID:         generateID(),
		ActionType: outbox.ActionTypeReceiptEmail,
		Payload:    string(payload),
		Status:     outbox.StatusPending,
		CreatedAt:  now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	return w.Save(ctx, entry)
}
