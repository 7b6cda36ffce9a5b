package branch

import (
	"context"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/branch"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new branch Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// GetByID retrieves a Branch by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Branch, error) {
	snap, err := s.docs.Get(ctx, collection().Doc(id))
	if err != nil {
		return domain.Branch{}, fmt.Errorf("branch %s: %w", id, err)
	}
	var b domain.Branch
	if err := snap.DataTo(&b); err != nil {
		return domain.Branch{}, err
	}
	b.ID = snap.Ref.ID()
	return b, nil
}

// Save persists a Branch.
func (s *SQLiteStore) Save(ctx context.Context, value domain.Branch) error {
	return s.docs.Set(ctx, collection().Doc(value.ID), value)
}

// Delete removes a Branch.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, collection().Doc(id))
}

// List returns branches ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Branch, error) {
	snaps, err := s.docs.Query(ctx, collection().Query().OrderBy("name", docstore.Asc))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Branch](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
	}
	return out, nil
}
