package branch

import (
	"context"

	domain "studio/internal/domain/branch"
)

// CollectionName is the document collection holding branches.
const CollectionName = "branches"

// Store persists branches.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Branch, error)
	Save(ctx context.Context, value domain.Branch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Branch, error)
}
