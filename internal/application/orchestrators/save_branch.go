package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/branch"
	"studio/internal/domain/caldate"
)

// BranchStore defines the branch persistence needed by the branch use cases.
type BranchStore interface {
	GetByID(ctx context.Context, id string) (branch.Branch, error)
	Save(ctx context.Context, b branch.Branch) error
	Delete(ctx context.Context, id string) error
}

// SaveBranchInput carries branch fields. An empty ID creates a new branch.
type SaveBranchInput struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
}

// SaveBranchDeps holds dependencies for SaveBranch and DeleteBranch.
type SaveBranchDeps struct {
	BranchStore BranchStore
	Now         func() time.Time
}

// ExecuteSaveBranch creates or updates a branch.
// PRE: name present
func ExecuteSaveBranch(ctx context.Context, input SaveBranchInput, deps SaveBranchDeps) (branch.Branch, error) {
	now := caldate.Stamp(nowOr(deps.Now))

	var before branch.Branch
	b := branch.Branch{ID: input.ID, CreatedAt: now}
	if input.ID != "" {
		existing, err := deps.BranchStore.GetByID(ctx, input.ID)
		if err != nil {
			return branch.Branch{}, err
		}
		before, b = existing, existing
		b.UpdatedAt = &now
	}
	b.Name = strings.TrimSpace(input.Name)
	b.Description = strings.TrimSpace(input.Description)
	b.Address = strings.TrimSpace(input.Address)
	b.Phone = strings.TrimSpace(input.Phone)
	if err := b.Validate(); err != nil {
		return branch.Branch{}, invalid(err)
	}
	if b.ID == "" {
		b.ID = generateID()
	}

	if err := deps.BranchStore.Save(ctx, b); err != nil {
		return branch.Branch{}, fmt.Errorf("save branch: %w", err)
	}
	if input.ID == "" {
		slog.Info("branch_event", "event", "branch_created", "branch_id", b.ID)
	} else {
		slog.Info("branch_event", "event", "branch_updated", "branch_id", b.ID, "changes", changes(before, b))
	}
	return b, nil
}

// ExecuteDeleteBranch removes a branch.
// PRE: branch exists
func ExecuteDeleteBranch(ctx context.Context, id string, deps SaveBranchDeps) error {
	if _, err := deps.BranchStore.GetByID(ctx, id); err != nil {
		return err
	}
	if err := deps.BranchStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	slog.Info("branch_event", "event", "branch_deleted", "branch_id", id)
	return nil
}
