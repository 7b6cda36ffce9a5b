package payment

import (
	"context"
	"errors"
	"fmt"

	"studio/internal/adapters/storage/docstore"
	memberStore "studio/internal/adapters/storage/member"
	domain "studio/internal/domain/payment"
)

// ErrMemberRequired is returned when a payment has no owner.
var ErrMemberRequired = errors.New("payment has no member")

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new payment Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

// Collection returns the member-scoped collection reference.
func Collection(memberID string) docstore.CollectionRef {
	return memberStore.Ref(memberID).Collection(CollectionName)
}

// Get retrieves one payment of a member.
// POST: Returns storage.ErrNotFound (wrapped) when absent
func (s *SQLiteStore) Get(ctx context.Context, memberID, id string) (domain.Payment, error) {
	snap, err := s.docs.Get(ctx, Collection(memberID).Doc(id))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment %s: %w", id, err)
	}
	var p domain.Payment
	if err := snap.DataTo(&p); err != nil {
		return domain.Payment{}, err
	}
	p.ID = snap.Ref.ID()
	p.MemberID = memberID
	return p, nil
}

// Save persists a payment under its member.
// PRE: value.ID and value.MemberID are set
func (s *SQLiteStore) Save(ctx context.Context, value domain.Payment) error {
	if value.MemberID == "" {
		return ErrMemberRequired
	}
	return s.docs.Set(ctx, Collection(value.MemberID).Doc(value.ID), value)
}

// Delete removes one payment. Absent payments are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, memberID, id string) error {
	return s.docs.Delete(ctx, Collection(memberID).Doc(id))
}

// ListByMember returns a member's payments, most recent payment date first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Payment, error) {
	snaps, err := s.docs.Query(ctx, Collection(memberID).Query().
		OrderBy("date", docstore.Desc).
		OrderBy("recordedAt", docstore.Desc))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Payment](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
		out[i].MemberID = memberID
	}
	return out, nil
}

// DeleteByMember removes every payment of a member.
func (s *SQLiteStore) DeleteByMember(ctx context.Context, memberID string) (int64, error) {
	return s.docs.DeleteWhere(ctx, Collection(memberID).Query())
}
