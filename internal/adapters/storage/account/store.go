package account

import (
	"context"

	domain "studio/internal/domain/account"
)

// CollectionName is the document collection holding accounts.
const CollectionName = "accounts"

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
}
