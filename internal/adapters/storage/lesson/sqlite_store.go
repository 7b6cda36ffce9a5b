package lesson

import (
	"context"
	"fmt"
	"time"

	"studio/internal/adapters/storage"
	"studio/internal/adapters/storage/docstore"
	"studio/internal/domain/caldate"
	domain "studio/internal/domain/lesson"
)

// SQLiteStore implements Store over the document store.
type SQLiteStore struct {
	docs *docstore.Store
}

// NewSQLiteStore creates a new lesson Store.
func NewSQLiteStore(docs *docstore.Store) *SQLiteStore {
	return &SQLiteStore{docs: docs}
}

func collection() docstore.CollectionRef {
	return docstore.Collection(CollectionName)
}

// FindBySlot returns the record for (day, slot) by querying the stored instant
// and slot, so records written under any id scheme are found.
// POST: Returns storage.ErrNotFound (wrapped) when no lesson exists
func (s *SQLiteStore) FindBySlot(ctx context.Context, day time.Time, slot domain.Slot) (domain.Lesson, error) {
	snaps, err := s.docs.Query(ctx, collection().
		Where("date", docstore.OpEqual, domain.At(day, slot)).
		Where("timeSlot", docstore.OpEqual, string(slot)).
		Limit(1))
	if err != nil {
		return domain.Lesson{}, err
	}
	if len(snaps) == 0 {
		return domain.Lesson{}, fmt.Errorf("lesson %s: %w", domain.Key(day, slot), storage.ErrNotFound)
	}
	var l domain.Lesson
	if err := snaps[0].DataTo(&l); err != nil {
		return domain.Lesson{}, err
	}
	l.ID = snaps[0].Ref.ID()
	return l, nil
}

// Save writes the full lesson record.
func (s *SQLiteStore) Save(ctx context.Context, value domain.Lesson) error {
	return s.docs.Set(ctx, collection().Doc(value.ID), value)
}

// SetMembers overwrites the attendee list of an existing record, leaving other fields intact.
func (s *SQLiteStore) SetMembers(ctx context.Context, id string, memberIDs []string, updatedAt time.Time) error {
	if memberIDs == nil {
		memberIDs = []string{}
	}
	return s.docs.Merge(ctx, collection().Doc(id), map[string]any{
		"memberIds": memberIDs,
		"updatedAt": caldate.Stamp(updatedAt),
	})
}

// Delete removes a lesson record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, collection().Doc(id))
}

// List returns matching lessons in chronological order.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Lesson, error) {
	q := collection().Query()
	if filter.Range != nil {
		q = q.Where("date", docstore.OpGreaterEqual, filter.Range.Start).
			Where("date", docstore.OpLess, filter.Range.End)
	}
	if filter.Slot != "" {
		q = q.Where("timeSlot", docstore.OpEqual, string(filter.Slot))
	}
	if filter.MemberID != "" {
		q = q.Where("memberIds", docstore.OpArrayContains, filter.MemberID)
	}
	snaps, err := s.docs.Query(ctx, q.OrderBy("date", docstore.Asc))
	if err != nil {
		return nil, err
	}
	out, err := docstore.All[domain.Lesson](snaps)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ID = snaps[i].Ref.ID()
		if out[i].MemberIDs == nil {
			out[i].MemberIDs = []string{}
		}
	}
	return out, nil
}
