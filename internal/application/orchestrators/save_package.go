package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/domain/caldate"
	"studio/internal/domain/catalog"
)

// PackageStore defines the catalog persistence needed by the package use cases.
type PackageStore interface {
	GetByID(ctx context.Context, id string) (catalog.Package, error)
	Save(ctx context.Context, p catalog.Package) error
	Delete(ctx context.Context, id string) error
}

// SavePackageInput carries a catalog definition. An empty ID creates a new package.
type SavePackageInput struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	LessonCount  *int
	DurationDays *int
	IsActive     bool
}

// SavePackageDeps holds dependencies for SavePackage.
type SavePackageDeps struct {
	PackageStore PackageStore
	Now          func() time.Time
}

// ExecuteSavePackage creates or updates a catalog package.
// PRE: name present; price, lesson count and duration non-negative
// POST: Package saved; existing assignments keep their own snapshot
func ExecuteSavePackage(ctx context.Context, input SavePackageInput, deps SavePackageDeps) (catalog.Package, error) {
	now := caldate.Stamp(nowOr(deps.Now))

	var before catalog.Package
	p := catalog.Package{ID: input.ID, CreatedAt: now}
	if input.ID != "" {
		existing, err := deps.PackageStore.GetByID(ctx, input.ID)
		if err != nil {
			return catalog.Package{}, err
		}
		before, p = existing, existing
		p.UpdatedAt = &now
	}

	p.Name = input.Name
	p.Description = input.Description
	p.Price = input.Price
	p.LessonCount = input.LessonCount
	p.DurationDays = input.DurationDays
	p.IsActive = input.IsActive
	if err := p.Validate(); err != nil {
		return catalog.Package{}, invalid(err)
	}
	if p.ID == "" {
		p.ID = generateID()
	}

	if err := deps.PackageStore.Save(ctx, p); err != nil {
		return catalog.Package{}, fmt.Errorf("save package: %w", err)
	}

	if input.ID == "" {
		slog.Info("catalog_event", "event", "package_created", "package_id", p.ID, "price", p.Price.String())
	} else {
		slog.Info("catalog_event", "event", "package_updated", "package_id", p.ID, "changes", changes(before, p))
	}
	return p, nil
}

// ExecuteDeletePackage removes a catalog package. Assignments already made from it are kept.
// PRE: package exists
func ExecuteDeletePackage(ctx context.Context, id string, deps SavePackageDeps) error {
	if _, err := deps.PackageStore.GetByID(ctx, id); err != nil {
		return err
	}
	if err := deps.PackageStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	slog.Info("catalog_event", "event", "package_deleted", "package_id", id)
	return nil
}
