package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studio/internal/adapters/metrics"
	"studio/internal/adapters/storage"
	"studio/internal/domain/lesson"
)

// LessonStore defines the persistence needed by RecordAttendance.
type LessonStore interface {
	FindBySlot(ctx context.Context, day time.Time, slot lesson.Slot) (lesson.Lesson, error)
	Save(ctx context.Context, l lesson.Lesson) error
	SetMembers(ctx context.Context, id string, memberIDs []string, updatedAt time.Time) error
}

// RecordAttendanceInput carries the attendees of one slot on one day.
type RecordAttendanceInput struct {
	Date      time.Time
	Slot      string
	MemberIDs []string
}

// RecordAttendanceDeps holds dependencies for RecordAttendance.
type RecordAttendanceDeps struct {
	Tx          Transactor
	LessonStore LessonStore
	Now         func() time.Time
}

// ExecuteRecordAttendance upserts the lesson record for (date, slot).
// PRE: date set; slot is morning or evening
// POST: Exactly one record exists for (date, slot) whose member list equals the
// de-duplicated input; an existing record keeps its id
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (lesson.Lesson, error) {
	slot, err := lesson.ParseSlot(input.Slot)
	if err != nil {
		return lesson.Lesson{}, invalid(err)
	}
	fresh, err := lesson.New(input.Date, slot, input.MemberIDs, nowOr(deps.Now))
	if err != nil {
		return lesson.Lesson{}, invalid(err)
	}

	result := fresh
	created := false
	err = deps.Tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := deps.LessonStore.FindBySlot(ctx, input.Date, slot)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			created = true
			if err := deps.LessonStore.Save(ctx, fresh); err != nil {
				return fmt.Errorf("save lesson: %w", err)
			}
			return nil
		case err != nil:
			return err
		}
		if err := deps.LessonStore.SetMembers(ctx, existing.ID, fresh.MemberIDs, fresh.UpdatedAt); err != nil {
			return fmt.Errorf("update lesson %s: %w", existing.ID, err)
		}
		result.ID = existing.ID
		return nil
	})
	if err != nil {
		return lesson.Lesson{}, err
	}

	metrics.AttendanceSaved(len(result.MemberIDs))
	slog.Info("attendance_event", "event", "attendance_recorded",
		"lesson_id", result.ID, "slot", string(slot), "members", len(result.MemberIDs), "created", created)
	return result, nil
}
