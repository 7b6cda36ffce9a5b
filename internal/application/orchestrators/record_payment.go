package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/metrics"
	"studio/internal/adapters/storage"
	"studio/internal/domain/assignment"
	"studio/internal/domain/payment"
)

// RecordPaymentInput carries input for a manual payment.
type RecordPaymentInput struct {
	MemberID string
	Amount   decimal.Decimal
	Date     time.Time
	Notes    string
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	Tx           Transactor
	MemberStore  MemberReader
	PaymentStore PaymentWriter
	Outbox       OutboxWriter // nil disables receipts
	Now          func() time.Time
}

// ExecuteRecordPayment records money received from a member.
// PRE: amount > 0; date set; member exists
// POST: Payment saved with Date at UTC midnight and RecordedAt at entry time
// INVARIANT: Nothing is written when validation fails
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (payment.Payment, error) {
	now := nowOr(deps.Now)
	p, err := payment.New(input.MemberID, input.Amount, input.Date, input.Notes, now)
	if err != nil {
		return payment.Payment{}, invalid(err)
	}
	p.ID = generateID()

	err = deps.Tx.InTx(ctx, func(ctx context.Context) error {
		m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
		if err != nil {
			return err
		}
		if err := deps.PaymentStore.Save(ctx, p); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}
		if err := enqueueReceipt(ctx, deps.Outbox, m, p, "", p.RecordedAt); err != nil {
			return fmt.Errorf("enqueue receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return payment.Payment{}, err
	}

	metrics.PaymentRecorded(payment.SourceManual, p.Amount)
	slog.Info("payment_event", "event", "payment_recorded",
		"member_id", p.MemberID, "payment_id", p.ID, "amount", p.Amount.String())
	return p, nil
}

// PaymentRemover loads and removes member-scoped payments.
type PaymentRemover interface {
	Get(ctx context.Context, memberID, id string) (payment.Payment, error)
	Delete(ctx context.Context, memberID, id string) error
}

// AssignmentLinker loads and saves the assignment an auto-payment belongs to.
type AssignmentLinker interface {
	Get(ctx context.Context, memberID, id string) (assignment.Assignment, error)
	Save(ctx context.Context, a assignment.Assignment) error
}

// DeletePaymentInput identifies the payment to delete.
type DeletePaymentInput struct {
	MemberID  string
	PaymentID string
}

// DeletePaymentDeps holds dependencies for DeletePayment.
type DeletePaymentDeps struct {
	Tx              Transactor
	PaymentStore    PaymentRemover
	AssignmentStore AssignmentLinker
}

// ExecuteDeletePayment removes a payment. Deleting an auto-payment also clears
// the link on its assignment so no dangling AutoPaymentID remains.
// PRE: payment exists under the member
func ExecuteDeletePayment(ctx context.Context, input DeletePaymentInput, deps DeletePaymentDeps) error {
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		p, err := deps.PaymentStore.Get(ctx, input.MemberID, input.PaymentID)
		if err != nil {
			return err
		}
		if err := deps.PaymentStore.Delete(ctx, input.MemberID, p.ID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		if p.AssignmentID == "" {
			return nil
		}

		a, err := deps.AssignmentStore.Get(ctx, input.MemberID, p.AssignmentID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if a.AutoPaymentID != p.ID {
			return nil
		}
		a.AutoPaymentID = ""
		if err := deps.AssignmentStore.Save(ctx, a); err != nil {
			return fmt.Errorf("unlink assignment %s: %w", a.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("payment_event", "event", "payment_deleted", "member_id", input.MemberID, "payment_id", input.PaymentID)
	return nil
}
