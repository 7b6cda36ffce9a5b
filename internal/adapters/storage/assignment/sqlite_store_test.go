package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/storage"
	"studio/internal/adapters/storage/docstore"
	domain "studio/internal/domain/assignment"
)

func TestSQLiteStore_SaveListDelete(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := storage.InitDB(db); err != nil {
		t.Fatal(err)
	}
	docs := docstore.New(db)
	s := NewSQLiteStore(docs)
	ctx := context.Background()

	total := 10
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := domain.Assignment{
		ID:               "a1",
		MemberID:         "m1",
		PackageID:        "p1",
		PackageName:      "Reformer 10",
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          &end,
		TotalLessonCount: &total,
		PackagePrice:     decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		AutoPaymentID:    "pay123",
	}
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	later := a
	later.ID = "a2"
	later.StartDate = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	later.PackagePrice = decimal.NullDecimal{}
	later.AutoPaymentID = ""
	if err := s.Save(ctx, later); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "m1", "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AutoPaymentID != "pay123" || !got.PackagePrice.Valid || *got.TotalLessonCount != 10 || !got.EndDate.Equal(end) {
		t.Errorf("Get() = %+v", got)
	}

	list, err := s.ListByMember(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "a2" {
		t.Fatalf("ListByMember() = %+v, want a2 first", list)
	}
	if list[0].PackagePrice.Valid {
		t.Error("null price should load as invalid NullDecimal")
	}

	// The same documents are reachable through the unscoped collection by member field.
	snaps, err := docs.Query(ctx, docstore.Collection(CollectionName).Where("memberId", docstore.OpEqual, "m1"))
	if err != nil || len(snaps) != 2 {
		t.Errorf("top-level query = %d, %v, want 2", len(snaps), err)
	}

	if err := s.Delete(ctx, "m1", "a1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.DeleteByMember(ctx, "m1"); n != 1 {
		t.Errorf("DeleteByMember() = %d, want 1", n)
	}
}
