package outbox

import (
	"context"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/outbox"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new outbox Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// GetByID retrieves an outbox entry by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	snap, err := s.docs.Get(ctx, collection().Doc(id))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("outbox entry %s: %w", id, err)
	}
	var e domain.Entry
	if err := snap.DataTo(&e); err != nil {
		return domain.Entry{}, err
	}
	e.ID = snap.Ref.ID()
	return e, nil
}

// Save persists an outbox entry, joining the context transaction when present.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	return s.docs.Set(ctx, collection().Doc(e.ID), e)
}

// ListPending returns entries that are neither delivered nor given up on.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.list(ctx, collection().
		Where("status", docstore.OpNotEqual, domain.StatusDone).
		Where("status", docstore.OpNotEqual, domain.StatusFailed).
		Where("status", docstore.OpNotEqual, domain.StatusAbandoned), limit)
}

// ListByStatus returns entries with one status.
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Entry, error) {
	return s.list(ctx, collection().Where("status", docstore.OpEqual, status), limit)
}

func (s *SQLiteStore) list(ctx context.Context, q docstore.Query, limit int) ([]domain.Entry, error) {
	snaps, err := s.docs.Query(ctx, q.OrderBy("createdAt", docstore.Asc).Limit(limit))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Entry](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
	}
	return out, nil
}

// Delete removes an outbox entry.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, collection().Doc(id))
}
