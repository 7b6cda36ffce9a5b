// Package docstore is a small document database over SQLite: named
// collections of JSON documents keyed by opaque ids, optionally scoped under a
// parent document, queryable by field comparison and array membership.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"studio/internal/adapters/storage"
)

// Errors
var (
	ErrNotFound          = storage.ErrNotFound
	ErrInvalidField      = errors.New("invalid field name")
	ErrInvalidOperator   = errors.New("invalid query operator")
	ErrInvalidCollection = errors.New("collection name is required")
	ErrInvalidID         = errors.New("document id is required")
	ErrNotObject         = errors.New("document data must be a JSON object")
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is a document read from the store.
type Snapshot struct {
	Ref       DocRef
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DataTo decodes the document body into v.
func (s Snapshot) DataTo(v any) error {
	if err := json.Unmarshal(s.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", s.Ref.Path(), err)
	}
	return nil
}

// Store reads and writes documents. Every statement runs on the transaction
// carried by the context when there is one.
type Store struct {
	db  storage.SQLDB
	now func() time.Time
}

// New creates a Store over db.
// PRE: the schema from storage.InitDB has been applied
func New(db storage.SQLDB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.New().String()
}

func marshalObject(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	return raw, nil
}

func checkRef(ref DocRef) error {
	if ref.coll.name == "" {
		return ErrInvalidCollection
	}
	if ref.id == "" {
		return ErrInvalidID
	}
	return nil
}

// Get reads one document.
// POST: Returns ErrNotFound when absent
func (s *Store) Get(ctx context.Context, ref DocRef) (Snapshot, error) {
	if err := checkRef(ref); err != nil {
		return Snapshot{}, err
	}
	query := `SELECT parent, data, created_at, updated_at FROM document WHERE collection = ? AND id = ?`
	args := []any{ref.coll.name, ref.id}
	if ref.coll.parent != "" {
		query += ` AND parent = ?`
		args = append(args, ref.coll.parent)
	}

	var parent, data, created, updated string
	err := storage.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&parent, &data, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", ref.Path(), ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get %s: %w", ref.Path(), err)
	}
	return newSnapshot(ref.coll.name, ref.id, parent, data, created, updated)
}

// Exists reports whether the document is present.
func (s *Store) Exists(ctx context.Context, ref DocRef) (bool, error) {
	_, err := s.Get(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create stores v under a generated id, written into the document as "id".
// POST: Returns the new document's reference
func (s *Store) Create(ctx context.Context, coll CollectionRef, v any) (DocRef, error) {
	raw, err := marshalObject(v)
	if err != nil {
		return DocRef{}, err
	}
	ref := coll.Doc(NewID())
	withID, err := jsonpatch.MergePatch(raw, []byte(fmt.Sprintf(`{"id":%q}`, ref.id)))
	if err != nil {
		return DocRef{}, fmt.Errorf("stamp id: %w", err)
	}
	if err := s.write(ctx, ref, withID); err != nil {
		return DocRef{}, err
	}
	return ref, nil
}

// Set writes v as the full body of the document, creating it if absent.
// created_at survives overwrites.
func (s *Store) Set(ctx context.Context, ref DocRef, v any) error {
	raw, err := marshalObject(v)
	if err != nil {
		return err
	}
	return s.write(ctx, ref, raw)
}

// Merge applies patch to the document as an RFC 7386 merge patch, creating the
// document from the patch when absent. Keys set to null are removed.
func (s *Store) Merge(ctx context.Context, ref DocRef, patch any) error {
	raw, err := marshalObject(patch)
	if err != nil {
		return err
	}
	existing, err := s.Get(ctx, ref)
	switch {
	case errors.Is(err, ErrNotFound):
		merged, mErr := jsonpatch.MergePatch([]byte(`{}`), raw)
		if mErr != nil {
			return fmt.Errorf("merge %s: %w", ref.Path(), mErr)
		}
		return s.write(ctx, ref, merged)
	case err != nil:
		return err
	}
	merged, err := jsonpatch.MergePatch(existing.Data, raw)
	if err != nil {
		return fmt.Errorf("merge %s: %w", ref.Path(), err)
	}
	return s.write(ctx, ref, merged)
}

func (s *Store) write(ctx context.Context, ref DocRef, data []byte) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	now := s.now().UTC().Format(timeLayout)
	_, err := storage.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO document (collection, id, parent, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			parent = CASE WHEN excluded.parent != '' THEN excluded.parent ELSE document.parent END`,
		ref.coll.name, ref.id, ref.coll.parent, string(data), now, now)
	if err != nil {
		return fmt.Errorf("write %s: %w", ref.Path(), err)
	}
	return nil
}

// Delete removes the document. Deleting an absent document is not an error.
func (s *Store) Delete(ctx context.Context, ref DocRef) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	query := `DELETE FROM document WHERE collection = ? AND id = ?`
	args := []any{ref.coll.name, ref.id}
	if ref.coll.parent != "" {
		query += ` AND parent = ?`
		args = append(args, ref.coll.parent)
	}
	if _, err := storage.Conn(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", ref.Path(), err)
	}
	return nil
}

// Query returns the documents matching q.
func (s *Store) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	where, args, err := q.where()
	if err != nil {
		return nil, err
	}
	tail, err := q.tail()
	if err != nil {
		return nil, err
	}
	rows, err := storage.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id, parent, data, created_at, updated_at FROM document WHERE `+where+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.coll.Path(), err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var id, parent, data, created, updated string
		if err := rows.Scan(&id, &parent, &data, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.coll.Path(), err)
		}
		snap, err := newSnapshot(q.coll.name, id, parent, data, created, updated)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Count returns the number of documents matching q, ignoring order and limit.
func (s *Store) Count(ctx context.Context, q Query) (int, error) {
	where, args, err := q.where()
	if err != nil {
		return 0, err
	}
	var n int
	if err := storage.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM document WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.coll.Path(), err)
	}
	return n, nil
}

// DeleteWhere removes every document matching q's filters.
// POST: Returns the number of documents removed
func (s *Store) DeleteWhere(ctx context.Context, q Query) (int64, error) {
	where, args, err := q.where()
	if err != nil {
		return 0, err
	}
	res, err := storage.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM document WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", q.coll.Path(), err)
	}
	return res.RowsAffected()
}

func newSnapshot(collection, id, parent, data, created, updated string) (Snapshot, error) {
	coll := CollectionRef{name: collection, parent: parent}
	snap := Snapshot{Ref: coll.Doc(id), Data: json.RawMessage(data)}
	var err error
	if snap.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Snapshot{}, fmt.Errorf("parse created_at of %s: %w", snap.Ref.Path(), err)
	}
	if snap.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return Snapshot{}, fmt.Errorf("parse updated_at of %s: %w", snap.Ref.Path(), err)
	}
	return snap, nil
}

// All decodes every snapshot into a slice of T.
func All[T any](snaps []Snapshot) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, s := range snaps {
		var v T
		if err := s.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
