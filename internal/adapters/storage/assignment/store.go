package assignment

import (
	"context"

	domain "studio/internal/domain/assignment"
)

// CollectionName is the sub-collection under each member holding assignments.
const CollectionName = "assignedPackages"

// Store persists assigned packages, always scoped to their member.
type Store interface {
	Get(ctx context.Context, memberID, id string) (domain.Assignment, error)
	Save(ctx context.Context, value domain.Assignment) error
	Delete(ctx context.Context, memberID, id string) error
	ListByMember(ctx context.Context, memberID string) ([]domain.Assignment, error)
	DeleteByMember(ctx context.Context, memberID string) (int64, error)
}
