package outbox

import (
	"context"

	domain "studio/internal/domain/outbox"
)

// CollectionName is the document collection holding outbox entries.
const CollectionName = "outbox"

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save persists an outbox entry (insert or update).
	// PRE: entry has been validated
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns up to limit entries still awaiting delivery, oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListByStatus returns up to limit entries with the given status, oldest first.
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Entry, error)

	// Delete removes an outbox entry.
	Delete(ctx context.Context, id string) error
}
