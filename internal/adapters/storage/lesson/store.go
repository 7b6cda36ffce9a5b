package lesson

import (
	"context"
	"time"

	"studio/internal/domain/caldate"
	domain "studio/internal/domain/lesson"
)

// CollectionName is the document collection holding attendance records.
const CollectionName = "lessons"

// Store persists lesson attendance records.
type Store interface {
	FindBySlot(ctx context.Context, day time.Time, slot domain.Slot) (domain.Lesson, error)
	Save(ctx context.Context, value domain.Lesson) error
	SetMembers(ctx context.Context, id string, memberIDs []string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Lesson, error)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Range    *caldate.Range // half-open [Start, End) on the lesson instant
	Slot     domain.Slot
	MemberID string // array membership on memberIds
}
