package projections

import (
	"context"
	"time"

	lessonstore "studio/internal/adapters/storage/lesson"
	domainAssignment "studio/internal/domain/assignment"
	domainLesson "studio/internal/domain/lesson"
	domainMember "studio/internal/domain/member"
	domainPayment "studio/internal/domain/payment"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context) ([]domainMember.Member, error)
}

// AssignmentStore interface for assigned package queries.
type AssignmentStore interface {
	ListByMember(ctx context.Context, memberID string) ([]domainAssignment.Assignment, error)
}

// PaymentStore interface for payment queries.
type PaymentStore interface {
	ListByMember(ctx context.Context, memberID string) ([]domainPayment.Payment, error)
}

// LessonStore interface for attendance queries.
type LessonStore interface {
	FindBySlot(ctx context.Context, day time.Time, slot domainLesson.Slot) (domainLesson.Lesson, error)
	List(ctx context.Context, filter lessonstore.ListFilter) ([]domainLesson.Lesson, error)
}
