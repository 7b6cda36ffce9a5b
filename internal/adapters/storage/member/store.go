package member

import (
	"context"

	domain "studio/internal/domain/member"
)

// CollectionName is the document collection holding members.
const CollectionName = "members"

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Member, error)
}
