package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/storage"
	"studio/internal/domain/assignment"
	"studio/internal/domain/payment"
)

// TestExecuteDeleteAssignment_CascadesAutoPayment deletes the linked payment pay123.
func TestExecuteDeleteAssignment_CascadesAutoPayment(t *testing.T) {
	assignments := newMockAssignmentStore(assignment.Assignment{ID: "a1", MemberID: "m1", AutoPaymentID: "pay123"})
	payments := newMockPaymentStore(
		payment.Payment{ID: "pay123", MemberID: "m1", Amount: decimal.NewFromInt(1200)},
		payment.Payment{ID: "manual", MemberID: "m1", Amount: decimal.NewFromInt(50)},
	)

	err := ExecuteDeleteAssignment(context.Background(), DeleteAssignmentInput{MemberID: "m1", AssignmentID: "a1"},
		DeleteAssignmentDeps{Tx: &passTx{}, AssignmentStore: assignments, PaymentStore: payments})
	if err != nil {
		t.Fatalf("ExecuteDeleteAssignment() error = %v", err)
	}
	if _, ok := assignments.items["a1"]; ok {
		t.Error("assignment still present")
	}
	if len(payments.deleted) != 1 || payments.deleted[0] != "pay123" {
		t.Errorf("deleted payments = %v, want [pay123]", payments.deleted)
	}
	if _, ok := payments.items["manual"]; !ok {
		t.Error("unrelated payment was deleted")
	}
}

// TestExecuteDeleteAssignment_NoAutoPayment issues no payment delete at all.
func TestExecuteDeleteAssignment_NoAutoPayment(t *testing.T) {
	assignments := newMockAssignmentStore(assignment.Assignment{ID: "a2", MemberID: "m1"})
	payments := newMockPaymentStore()
	payments.deleteErr = errors.New("payment delete must not be called")

	err := ExecuteDeleteAssignment(context.Background(), DeleteAssignmentInput{MemberID: "m1", AssignmentID: "a2"},
		DeleteAssignmentDeps{Tx: &passTx{}, AssignmentStore: assignments, PaymentStore: payments})
	if err != nil {
		t.Fatalf("ExecuteDeleteAssignment() error = %v", err)
	}
	if len(payments.deleted) != 0 {
		t.Errorf("deleted payments = %v, want none", payments.deleted)
	}
}

func TestExecuteDeleteAssignment_Errors(t *testing.T) {
	t.Run("unknown assignment", func(t *testing.T) {
		err := ExecuteDeleteAssignment(context.Background(), DeleteAssignmentInput{MemberID: "m1", AssignmentID: "nope"},
			DeleteAssignmentDeps{Tx: &passTx{}, AssignmentStore: newMockAssignmentStore(), PaymentStore: newMockPaymentStore()})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("payment delete failure is surfaced", func(t *testing.T) {
		payments := newMockPaymentStore()
		payments.deleteErr = errors.New("locked")
		err := ExecuteDeleteAssignment(context.Background(), DeleteAssignmentInput{MemberID: "m1", AssignmentID: "a1"},
			DeleteAssignmentDeps{
				Tx:              &passTx{},
				AssignmentStore: newMockAssignmentStore(assignment.Assignment{ID: "a1", MemberID: "m1", AutoPaymentID: "pay123"}),
				PaymentStore:    payments,
			})
		if err == nil {
			t.Error("error = nil, want payment delete failure")
		}
	})
}
