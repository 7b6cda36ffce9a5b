package account

import (
	"context"
	"fmt"

	"studio/internal/adapters/storage"
	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/account"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new account Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// GetByID retrieves an Account by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	snap, err := s.docs.Get(ctx, collection().Doc(id))
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, err)
	}
	var a domain.Account
	if err := snap.DataTo(&a); err != nil {
		return domain.Account{}, err
	}
	a.ID = snap.Ref.ID()
	return a, nil
}

// GetByEmail retrieves an Account by its normalised email.
// POST: Returns storage.ErrNotFound (wrapped) when absent
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	snaps, err := s.docs.Query(ctx, collection().
		Where("email", docstore.OpEqual, domain.NormalizeEmail(email)).
		Limit(1))
	if err != nil {
		return domain.Account{}, err
	}
	if len(snaps) == 0 {
		return domain.Account{}, fmt.Errorf("account %s: %w", email, storage.ErrNotFound)
	}
	var a domain.Account
	if err := snaps[0].DataTo(&a); err != nil {
		return domain.Account{}, err
	}
	a.ID = snaps[0].Ref.ID()
	return a, nil
}

// Save persists an Account; the email is stored normalised.
func (s *SQLiteStore) Save(ctx context.Context, value domain.Account) error {
	value.Email = domain.NormalizeEmail(value.Email)
	return s.docs.Set(ctx, collection().Doc(value.ID), value)
}

// List returns every account ordered by email.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	snaps, err := s.docs.Query(ctx, collection().Query().OrderBy("email", docstore.Asc))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Account](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
	}
	return out, nil
}
