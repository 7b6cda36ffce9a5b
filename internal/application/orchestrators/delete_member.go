package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"studio/internal/domain/member"
)

// MemberDeleter defines the member persistence needed by DeleteMember.
type MemberDeleter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Delete(ctx context.Context, id string) error
}

// MemberOwnedDeleter removes every record a member owns in one collection.
type MemberOwnedDeleter interface {
	DeleteByMember(ctx context.Context, memberID string) (int64, error)
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	Tx              Transactor
	MemberStore     MemberDeleter
	AssignmentStore MemberOwnedDeleter
	PaymentStore    MemberOwnedDeleter
}

// ExecuteDeleteMember removes a member with its assigned packages and payments.
// PRE: member exists
// POST: Member, assignments and payments are gone, or nothing changed
// INVARIANT: Lesson records keep the member id; reports skip unknown members
func ExecuteDeleteMember(ctx context.Context, id string, deps DeleteMemberDeps) error {
	var assignments, payments int64
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := deps.MemberStore.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		if assignments, err = deps.AssignmentStore.DeleteByMember(ctx, id); err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if payments, err = deps.PaymentStore.DeleteByMember(ctx, id); err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		if err := deps.MemberStore.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("member_event", "event", "member_deleted", "member_id", id,
		"assignments_deleted", assignments, "payments_deleted", payments)
	return nil
}
