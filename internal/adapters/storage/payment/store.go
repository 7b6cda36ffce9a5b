package payment

import (
	"context"

	domain "studio/internal/domain/payment"
)

// CollectionName is the sub-collection under each member holding payments.
const CollectionName = "payments"

// Store persists payments, always scoped to their member.
type Store interface {
	Get(ctx context.Context, memberID, id string) (domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	Delete(ctx context.Context, memberID, id string) error
	ListByMember(ctx context.Context, memberID string) ([]domain.Payment, error)
	DeleteByMember(ctx context.Context, memberID string) (int64, error)
}
