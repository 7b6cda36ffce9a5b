package assignment

import (
	"context"
	"errors"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	memberStore "studio/internal/adapters/storage/member"
	domain "studio/internal/domain/assignment"
)

// ErrMemberRequired is returned when an assignment has no owner.
var ErrMemberRequired = errors.New("assignment has no member")

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new assignment Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

// Collection returns the member-scoped collection reference.
func Collection(memberID string) docstore.CollectionRef {
	return memberStore.Ref(memberID).Collection(CollectionName)
}

// Get retrieves one assignment of a member.
// POST: Returns storage.ErrNotFound (wrapped) when absent or owned by another member
func (s *SQLiteStore) Get(ctx context.Context, memberID, id string) (domain.Assignment, error) {
	snap, err := s.docs.Get(ctx, Collection(memberID).Doc(id))
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment %s: %w", id, err)
	}
	var a domain.Assignment
	if err := snap.DataTo(&a); err != nil {
		return domain.Assignment{}, err
	}
	a.ID = snap.Ref.ID()
	a.MemberID = memberID
	return a, nil
}

// Save persists an assignment under its member.
// PRE: value.ID and value.MemberID are set
func (s *SQLiteStore) Save(ctx context.Context, value domain.Assignment) error {
	if value.MemberID == "" {
		return ErrMemberRequired
	}
	return s.docs.Set(ctx, Collection(value.MemberID).Doc(value.ID), value)
}

// Delete removes one assignment. Absent assignments are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, memberID, id string) error {
	return s.docs.Delete(ctx, Collection(memberID).Doc(id))
}

// ListByMember returns a member's assignments, newest start date first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Assignment, error) {
	snaps, err := s.docs.Query(ctx, Collection(memberID).Query().OrderBy("startDate", docstore.Desc))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Assignment](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
		out[i].MemberID = memberID
	}
	return out, nil
}

// DeleteByMember removes every assignment of a member.
func (s *SQLiteStore) DeleteByMember(ctx context.Context, memberID string) (int64, error) {
	return s.docs.DeleteWhere(ctx, Collection(memberID).Query())
}
