package projections

import (
	"context"
	"fmt"
	"time"

	"studio/internal/adapters/storage"
	lessonstore "studio/internal/adapters/storage/lesson"
	domainAssignment "studio/internal/domain/assignment"
	domainLesson "studio/internal/domain/lesson"
	domainMember "studio/internal/domain/member"
	domainPayment "studio/internal/domain/payment"
)

var today = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func person(id, name, surname string) domainMember.Member {
	return domainMember.Member{ID: id, Name: name, Surname: surname, Email: id + "@example.com"}
}

type mockMemberStore struct {
	members []domainMember.Member
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return domainMember.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
}

func (m *mockMemberStore) List(_ context.Context) ([]domainMember.Member, error) {
	return append([]domainMember.Member(nil), m.members...), nil
}

type mockAssignmentStore struct {
	byMember map[string][]domainAssignment.Assignment
}

func (m *mockAssignmentStore) ListByMember(_ context.Context, memberID string) ([]domainAssignment.Assignment, error) {
	return m.byMember[memberID], nil
}

type mockPaymentStore struct {
	byMember map[string][]domainPayment.Payment
}

func (m *mockPaymentStore) ListByMember(_ context.Context, memberID string) ([]domainPayment.Payment, error) {
	return m.byMember[memberID], nil
}

// mockLessonStore applies ListFilter in memory, ascending by date.
type mockLessonStore struct {
	lessons []domainLesson.Lesson
}

func (m *mockLessonStore) add(d time.Time, slot domainLesson.Slot, ids ...string) {
	l, err := domainLesson.New(d, slot, ids, today)
	if err != nil {
		panic(err)
	}
	m.lessons = append(m.lessons, l)
}

func (m *mockLessonStore) FindBySlot(_ context.Context, d time.Time, slot domainLesson.Slot) (domainLesson.Lesson, error) {
	key := domainLesson.Key(d, slot)
	for _, l := range m.lessons {
		if l.ID == key {
			return l, nil
		}
	}
	return domainLesson.Lesson{}, fmt.Errorf("lesson %s: %w", key, storage.ErrNotFound)
}

func (m *mockLessonStore) List(_ context.Context, f lessonstore.ListFilter) ([]domainLesson.Lesson, error) {
	var out []domainLesson.Lesson
	for _, l := range m.lessons {
		if f.Range != nil && !f.Range.Contains(l.Date) {
			continue
		}
		if f.Slot != "" && l.TimeSlot != f.Slot {
			continue
		}
		if f.MemberID != "" && !l.Has(f.MemberID) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
