package catalog

import (
	"context"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/catalog"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new catalog Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// GetByID retrieves a Package by its ID.
// POST: Returns storage.ErrNotFound (wrapped) when absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Package, error) {
	snap, err := s.docs.Get(ctx, collection().Doc(id))
	if err != nil {
		return domain.Package{}, fmt.Errorf("package %s: %w", id, err)
	}
	var p domain.Package
	if err := snap.DataTo(&p); err != nil {
		return domain.Package{}, err
	}
	p.ID = snap.Ref.ID()
	return p, nil
}

// Save persists a Package.
func (s *SQLiteStore) Save(ctx context.Context, value domain.Package) error {
	return s.docs.Set(ctx, collection().Doc(value.ID), value)
}

// Delete removes a Package. Existing assignments keep their snapshot.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, collection().Doc(id))
}

// List returns packages ordered by name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Package, error) {
	q := collection().Query()
	if filter.ActiveOnly {
		q = q.Where("isActive", docstore.OpEqual, true)
	}
	snaps, err := s.docs.Query(ctx, q.OrderBy("name", docstore.Asc))
	if err != nil {
		return nil, err
	}
	pkgs, err := docstore.All[domain.Package](snaps)
	if err != nil {
		return nil, err
	}
	for i := range pkgs {
		pkgs[i].ID = snaps[i].Ref.ID()
	}
	return pkgs, nil
}
