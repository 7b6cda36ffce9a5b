package projections

import (
	"context"
	"errors"
	"time"

	"studio/internal/adapters/storage"
	lessonstore "studio/internal/adapters/storage/lesson"
	"studio/internal/domain/caldate"
	domainLesson "studio/internal/domain/lesson"
	domainMember "studio/internal/domain/member"
)

// GetLessonRosterQuery carries query parameters.
type GetLessonRosterQuery struct {
	Date time.Time
	Slot domainLesson.Slot
}

// RosterMember is one attendee of a lesson.
type RosterMember struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// GetLessonRosterResult carries the query result.
type GetLessonRosterResult struct {
	LessonID string         `json:"lessonId,omitempty"`
	Date     time.Time      `json:"date"`
	Slot     string         `json:"slot"`
	Members  []RosterMember `json:"members"`
}

// GetLessonRosterDeps holds dependencies for GetLessonRoster.
type GetLessonRosterDeps struct {
	MemberStore MemberStore
	LessonStore LessonStore
}

// QueryGetLessonRoster lists who attended one slot on one day.
// PRE: Date is a calendar day, Slot is valid
// POST: Members sorted by name; an unrecorded slot yields an empty roster
// INVARIANT: Ids of deleted members are omitted
func QueryGetLessonRoster(ctx context.Context, query GetLessonRosterQuery, deps GetLessonRosterDeps) (GetLessonRosterResult, error) {
	result := GetLessonRosterResult{
		Date:    domainLesson.At(query.Date, query.Slot),
		Slot:    string(query.Slot),
		Members: []RosterMember{},
	}

	l, err := deps.LessonStore.FindBySlot(ctx, query.Date, query.Slot)
	if errors.Is(err, storage.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return GetLessonRosterResult{}, err
	}
	result.LessonID = l.ID

	byID, err := membersByID(ctx, deps.MemberStore)
	if err != nil {
		return GetLessonRosterResult{}, err
	}
	for _, id := range l.MemberIDs {
		if m, ok := byID[id]; ok {
			result.Members = append(result.Members, RosterMember{ID: m.ID, FullName: m.FullName()})
		}
	}
	sortByName(result.Members,
		func(r RosterMember) string { return r.FullName },
		func(r RosterMember) string { return r.ID })
	return result, nil
}

// GetMemberLessonsQuery carries query parameters.
type GetMemberLessonsQuery struct {
	MemberID string
	Range    *caldate.Range // nil means all time
}

// MemberLesson is one attended lesson.
type MemberLesson struct {
	LessonID string    `json:"lessonId"`
	Date     time.Time `json:"date"`
	Slot     string    `json:"slot"`
}

// GetMemberLessonsResult carries the query result.
type GetMemberLessonsResult struct {
	MemberID string         `json:"memberId"`
	Lessons  []MemberLesson `json:"lessons"`
}

// GetMemberLessonsDeps holds dependencies for GetMemberLessons.
type GetMemberLessonsDeps struct {
	MemberStore MemberStore
	LessonStore LessonStore
}

// QueryGetMemberLessons lists a member's attended lessons, newest first.
// PRE: Valid member ID
// POST: Returns storage.ErrNotFound for an unknown member
func QueryGetMemberLessons(ctx context.Context, query GetMemberLessonsQuery, deps GetMemberLessonsDeps) (GetMemberLessonsResult, error) {
	if _, err := deps.MemberStore.GetByID(ctx, query.MemberID); err != nil {
		return GetMemberLessonsResult{}, err
	}
	lessons, err := deps.LessonStore.List(ctx, lessonstore.ListFilter{MemberID: query.MemberID, Range: query.Range})
	if err != nil {
		return GetMemberLessonsResult{}, err
	}

	result := GetMemberLessonsResult{MemberID: query.MemberID, Lessons: make([]MemberLesson, 0, len(lessons))}
	for i := len(lessons) - 1; i >= 0; i-- {
		l := lessons[i]
		result.Lessons = append(result.Lessons, MemberLesson{LessonID: l.ID, Date: l.Date, Slot: string(l.TimeSlot)})
	}
	return result, nil
}

func membersByID(ctx context.Context, store MemberStore) (map[string]domainMember.Member, error) {
	members, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domainMember.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID, nil
}
