package member

import (
	"context"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/member"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new member Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// Ref returns the document reference of a member; owned sub-collections hang off it.
func Ref(id string) docstore.DocRef {
	return collection().Doc(id)
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns storage.ErrNotFound (wrapped) when absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	snap, err := s.docs.Get(ctx, Ref(id))
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, err)
	}
	var m domain.Member
	if err := snap.DataTo(&m); err != nil {
		return domain.Member{}, err
	}
	m.ID = snap.Ref.ID()
	return m, nil
}

// Save persists a Member, replacing any existing document.
// PRE: value has been validated and has an ID
// POST: Document written inside the context transaction when present
func (s *SQLiteStore) Save(ctx context.Context, value domain.Member) error {
	return s.docs.Set(ctx, Ref(value.ID), value)
}

// Delete removes the member document only; owned records are removed by the caller.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, Ref(id))
}

// List returns every member ordered by name then surname.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	snaps, err := s.docs.Query(ctx, collection().Query().OrderBy("name", docstore.Asc).OrderBy("surname", docstore.Asc))
	if err != nil {
		return nil, err
	}
	members, err := docstore.All[domain.Member](snaps)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].ID = snaps[i].Ref.ID()
	}
	return members, nil
}
