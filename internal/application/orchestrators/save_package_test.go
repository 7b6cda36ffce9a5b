package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/storage"
	"studio/internal/domain/branch"
	"studio/internal/domain/catalog"
)

func TestExecuteSavePackage(t *testing.T) {
	store := newMockPackageStore()
	deps := SavePackageDeps{PackageStore: store, Now: fixedNow}

	p, err := ExecuteSavePackage(context.Background(), SavePackageInput{
		Name: "Reformer 10", Price: decimal.NewFromInt(1200), LessonCount: intPtr(10), DurationDays: intPtr(60), IsActive: true,
	}, deps)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if p.ID == "" || !p.CreatedAt.Equal(fixedTime) || p.UpdatedAt != nil {
		t.Errorf("created = %+v", p)
	}

	updated, err := ExecuteSavePackage(context.Background(), SavePackageInput{
		ID: p.ID, Name: "Reformer 10", Price: decimal.NewFromInt(1500), LessonCount: intPtr(10), IsActive: false,
	}, deps)
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	if !updated.Price.Equal(decimal.NewFromInt(1500)) || updated.IsActive || updated.DurationDays != nil {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}

	_, err = ExecuteSavePackage(context.Background(), SavePackageInput{Name: "Bad", Price: decimal.NewFromInt(-1)}, deps)
	if !errors.Is(err, catalog.ErrNegativePrice) || !IsValidation(err) {
		t.Errorf("negative price error = %v", err)
	}

	if err := ExecuteDeletePackage(context.Background(), p.ID, deps); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if err := ExecuteDeletePackage(context.Background(), p.ID, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestExecuteSaveBranch(t *testing.T) {
	store := newMockBranchStore()
	deps := SaveBranchDeps{BranchStore: store, Now: fixedNow}

	b, err := ExecuteSaveBranch(context.Background(), SaveBranchInput{Name: " Kadıköy ", Address: "Moda Cd. 1", Phone: "02161234567"}, deps)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if b.Name != "Kadıköy" || store.branches[b.ID].Address != "Moda Cd. 1" {
		t.Errorf("created = %+v", b)
	}

	if _, err := ExecuteSaveBranch(context.Background(), SaveBranchInput{ID: b.ID, Name: ""}, deps); !errors.Is(err, branch.ErrNameRequired) {
		t.Errorf("blank name error = %v", err)
	}
	if _, err := ExecuteSaveBranch(context.Background(), SaveBranchInput{ID: "ghost", Name: "X"}, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown branch error = %v", err)
	}
	if err := ExecuteDeleteBranch(context.Background(), b.ID, deps); err != nil {
		t.Fatal(err)
	}
	if len(store.branches) != 0 {
		t.Error("branch not deleted")
	}
}
