package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studio/internal/adapters/metrics"
	"studio/internal/adapters/storage"
	"studio/internal/domain/assignment"
	"studio/internal/domain/catalog"
	"studio/internal/domain/member"
	"studio/internal/domain/payment"
)

// ErrPackageNotFound is returned when an assignment names an unknown package.
var ErrPackageNotFound = errors.New("package not found")

// MemberReader loads a member.
type MemberReader interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// PackageReader loads a catalog package.
type PackageReader interface {
	GetByID(ctx context.Context, id string) (catalog.Package, error)
}

// AssignmentWriter persists assignments.
type AssignmentWriter interface {
	Save(ctx context.Context, a assignment.Assignment) error
}

// PaymentWriter persists payments.
type PaymentWriter interface {
	Save(ctx context.Context, p payment.Payment) error
}

// AssignPackageInput carries input for the assignment orchestrator.
type AssignPackageInput struct {
	MemberID  string
	PackageID string
	StartDate time.Time
}

// AssignPackageResult is the created assignment and, for priced packages, its payment.
type AssignPackageResult struct {
	Assignment assignment.Assignment
	Payment    *payment.Payment
}

// AssignPackageDeps holds dependencies for AssignPackage.
type AssignPackageDeps struct {
	Tx              Transactor
	MemberStore     MemberReader
	PackageStore    PackageReader
	AssignmentStore AssignmentWriter
	PaymentStore    PaymentWriter
	Outbox          OutboxWriter // nil disables receipts
	Now             func() time.Time
}

// ExecuteAssignPackage binds a catalog package to a member.
// PRE: member exists; package exists and is active; start date set
// POST: Assignment snapshot saved; for price > 0 an auto-payment dated on the start
// date for the full price is saved and linked through AutoPaymentID
// INVARIANT: Assignment, auto-payment and receipt commit together or not at all
func ExecuteAssignPackage(ctx context.Context, input AssignPackageInput, deps AssignPackageDeps) (AssignPackageResult, error) {
	if input.MemberID == "" {
		return AssignPackageResult{}, invalid(assignment.ErrMemberRequired)
	}
	if input.PackageID == "" {
		return AssignPackageResult{}, invalid(assignment.ErrPackageRequired)
	}
	if input.StartDate.IsZero() {
		return AssignPackageResult{}, invalid(assignment.ErrStartDateRequired)
	}
	now := nowOr(deps.Now)

	var result AssignPackageResult
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
		if err != nil {
			return err
		}
		pkg, err := deps.PackageStore.GetByID(ctx, input.PackageID)
		if errors.Is(err, storage.ErrNotFound) {
			return invalid(fmt.Errorf("%w: %s", ErrPackageNotFound, input.PackageID))
		}
		if err != nil {
			return err
		}

		a, err := assignment.New(m.ID, pkg, input.StartDate, now)
		if err != nil {
			return invalid(err)
		}
		a.ID = generateID()

		result = AssignPackageResult{}
		if a.NeedsAutoPayment() {
			p, err := payment.NewAuto(m.ID, a.ID, a.PackagePrice.Decimal, a.StartDate, now)
			if err != nil {
				return invalid(err)
			}
			p.ID = generateID()
			a.AutoPaymentID = p.ID
			if err := deps.PaymentStore.Save(ctx, p); err != nil {
				return fmt.Errorf("save auto-payment: %w", err)
			}
			if err := enqueueReceipt(ctx, deps.Outbox, m, p, a.PackageName, a.AssignedAt); err != nil {
				return fmt.Errorf("enqueue receipt: %w", err)
			}
			result.Payment = &p
		}

		if err := deps.AssignmentStore.Save(ctx, a); err != nil {
			return fmt.Errorf("save assignment: %w", err)
		}
		result.Assignment = a
		return nil
	})
	if err != nil {
		return AssignPackageResult{}, err
	}

	metrics.AssignmentCreated(result.Payment != nil)
	if result.Payment != nil {
		metrics.PaymentRecorded(payment.SourceAuto, result.Payment.Amount)
	}
	slog.Info("assignment_event", "event", "package_assigned",
		"member_id", input.MemberID,
		"assignment_id", result.Assignment.ID,
		"package_id", input.PackageID,
		"auto_payment_id", result.Assignment.AutoPaymentID,
	)
	return result, nil
}
