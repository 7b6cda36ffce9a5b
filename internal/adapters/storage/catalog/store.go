package catalog

import (
	"context"

	domain "studio/internal/domain/catalog"
)

// CollectionName is the document collection holding package definitions.
const CollectionName = "packages"

// Store persists catalog packages.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Package, error)
	Save(ctx context.Context, value domain.Package) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Package, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ActiveOnly bool
}
