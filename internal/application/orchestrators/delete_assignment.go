package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"studio/internal/domain/assignment"
)

// AssignmentDeleter loads and removes member-scoped assignments.
type AssignmentDeleter interface {
	Get(ctx context.Context, memberID, id string) (assignment.Assignment, error)
	Delete(ctx context.Context, memberID, id string) error
}

// PaymentDeleter removes member-scoped payments.
type PaymentDeleter interface {
	Delete(ctx context.Context, memberID, id string) error
}

// DeleteAssignmentInput identifies the assignment to delete.
type DeleteAssignmentInput struct {
	MemberID     string
	AssignmentID string
}

// DeleteAssignmentDeps holds dependencies for DeleteAssignment.
type DeleteAssignmentDeps struct {
	Tx              Transactor
	AssignmentStore AssignmentDeleter
	PaymentStore    PaymentDeleter
}

// ExecuteDeleteAssignment removes an assignment and its linked auto-payment.
// PRE: assignment exists under the member
// POST: Assignment gone; the payment named by AutoPaymentID gone with it
// INVARIANT: No payment delete is issued when AutoPaymentID is empty
func ExecuteDeleteAssignment(ctx context.Context, input DeleteAssignmentInput, deps DeleteAssignmentDeps) error {
	var autoPaymentID string
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		a, err := deps.AssignmentStore.Get(ctx, input.MemberID, input.AssignmentID)
		if err != nil {
			return err
		}
		if err := deps.AssignmentStore.Delete(ctx, input.MemberID, a.ID); err != nil {
			return fmt.Errorf("delete assignment: %w", err)
		}
		autoPaymentID = a.AutoPaymentID
		if autoPaymentID == "" {
			return nil
		}
		if err := deps.PaymentStore.Delete(ctx, input.MemberID, autoPaymentID); err != nil {
			return fmt.Errorf("delete auto-payment %s: %w", autoPaymentID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("assignment_event", "event", "assignment_deleted",
		"member_id", input.MemberID, "assignment_id", input.AssignmentID, "auto_payment_id", autoPaymentID)
	return nil
}
