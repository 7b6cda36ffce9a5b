package assignment

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/domain/catalog"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestNew_SnapshotsPackage(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	pkg := catalog.Package{
		ID:           "pkg-1",
		Name:         "Reformer 10",
		Price:        decimal.NewFromInt(1200),
		LessonCount:  intPtr(10),
		DurationDays: intPtr(60),
		IsActive:     true,
	}

	a, err := New("m-1", pkg, day(2024, 1, 1), now)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.EndDate == nil || !a.EndDate.Equal(day(2024, 3, 1)) {
		t.Errorf("EndDate = %v, want 2024-03-01", a.EndDate)
	}
	if a.TotalLessonCount == nil || *a.TotalLessonCount != 10 {
		t.Errorf("TotalLessonCount = %v, want 10", a.TotalLessonCount)
	}
	if !a.PackagePrice.Valid || !a.PackagePrice.Decimal.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("PackagePrice = %v, want 1200", a.PackagePrice)
	}
	if !a.NeedsAutoPayment() {
		t.Error("priced package should need an auto-payment")
	}

	// Later catalog edits must not leak into the snapshot.
	*pkg.LessonCount = 20
	pkg.Price = decimal.NewFromInt(5000)
	if *a.TotalLessonCount != 10 {
		t.Errorf("TotalLessonCount changed with catalog to %d", *a.TotalLessonCount)
	}
}

func TestNew_UnpricedUnboundedPackage(t *testing.T) {
	pkg := catalog.Package{ID: "free", Name: "Open", Price: decimal.Zero, LessonCount: intPtr(0), IsActive: true}
	a, err := New("m-1", pkg, day(2024, 5, 1), time.Now())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", a.EndDate)
	}
	if a.TotalLessonCount != nil {
		t.Errorf("TotalLessonCount = %v, want nil", *a.TotalLessonCount)
	}
	if a.PackagePrice.Valid || a.NeedsAutoPayment() {
		t.Error("zero price should be stored as null and not bill")
	}
}

func TestNew_Rejects(t *testing.T) {
	active := catalog.Package{ID: "p", Name: "P", IsActive: true}
	tests := []struct {
		name    string
		member  string
		pkg     catalog.Package
		start   time.Time
		wantErr error
	}{
		{"missing member", "", active, day(2024, 1, 1), ErrMemberRequired},
		{"missing package", "m", catalog.Package{}, day(2024, 1, 1), ErrPackageRequired},
		{"missing start", "m", active, time.Time{}, ErrStartDateRequired},
		{"inactive package", "m", catalog.Package{ID: "p", Name: "P"}, day(2024, 1, 1), ErrPackageInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.member, tt.pkg, tt.start, time.Now()); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignment_IsExpired(t *testing.T) {
	end := day(2024, 3, 1)
	a := Assignment{EndDate: &end}
	if a.IsExpired(day(2024, 3, 1)) {
		t.Error("should not be expired on end date")
	}
	if !a.IsExpired(day(2024, 3, 2)) {
		t.Error("should be expired the day after end date")
	}
	if (&Assignment{}).IsExpired(day(2030, 1, 1)) {
		t.Error("unbounded assignment never expires")
	}
}
